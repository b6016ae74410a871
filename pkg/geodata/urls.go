package geodata

const (
	WorldGeoJSONURL = "https://raw.githubusercontent.com/johan/world.geo.json/master/countries.geo.json"

	SeasonalIndexURL   = "https://reecebuckle.github.io/ocean-globe/data/seasonal/time_series_index.json"
	SeasonalDatasetURL = "https://reecebuckle.github.io/ocean-globe/data/seasonal/%s"
	SharkTracksURL     = "https://reecebuckle.github.io/ocean-globe/data/whale_sharks_complete.json"
)
