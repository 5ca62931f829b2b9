// Command patchpng renders a routed patch file to a PNG image.
package main

import (
	"flag"
	"fmt"
	"os"

	"patch-router/internal/config"
	"patch-router/internal/patch"
	"patch-router/internal/render"
)

func main() {
	patchPath := flag.String("patch", "", "Path to patch file (JSON)")
	outPath := flag.String("out", "patch.png", "Output PNG path")
	configPath := flag.String("config", "", "Path to TOML config file")
	scale := flag.Float64("scale", 0, "Render scale (0 = from config)")
	flag.Parse()

	if *patchPath == "" {
		fmt.Println("Usage: patchpng -patch <path> [-out patch.png] [-scale 2]")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *scale <= 0 {
		*scale = cfg.Render.Scale
	}

	doc, err := patch.Load(*patchPath, cfg.RouteOptions())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load patch: %v\n", err)
		os.Exit(1)
	}

	doc.RerouteAll()

	if err := render.SavePNG(doc, *outPath, *scale); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s (%d objects, %d connections, scale %.2f)\n",
		*outPath, len(doc.Objects()), len(doc.Connections()), *scale)
}
