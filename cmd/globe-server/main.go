// globe-server serves seasonal heatmap rasters over HTTP and streams the
// season animation to websocket clients.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/reecebuckle/ocean-globe/pkg/server"
)

var configFlag = flag.String("config", "", "YAML config file (defaults apply when empty)")

func main() {
	flag.Parse()
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	cfg := server.DefaultConfig()
	if *configFlag != "" {
		var err error
		cfg, err = server.LoadConfig(*configFlag)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
	defer srv.Close()

	if cfg.Prerender {
		if err := srv.Prerender(); err != nil {
			log.Fatalf("Failed to prerender seasons: %v", err)
		}
	}

	if err := srv.Run(); err != nil {
		log.Fatal(err)
	}
}
