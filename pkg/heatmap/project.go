package heatmap

// Project maps a lat/lon coordinate to pixel space using the equirectangular
// projection. It is the exact inverse of Unproject so that ocean masking and
// splatting operate in the same coordinate frame. Out-of-range inputs are
// not clamped; they produce off-raster coordinates that downstream stages
// skip.
func Project(lat, lon float64, width, height int) (x, y float64) {
	x = (lon + 180) / 360 * float64(width)
	y = (90 - lat) / 180 * float64(height)
	return x, y
}

// Unproject maps a pixel coordinate back to lat/lon. Passing the pixel
// center (x+0.5, y+0.5) yields the geographic coordinate that pixel
// represents.
func Unproject(x, y float64, width, height int) (lat, lon float64) {
	lon = x/float64(width)*360 - 180
	lat = 90 - y/float64(height)*180
	return lat, lon
}
