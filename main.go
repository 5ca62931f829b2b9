// Package main provides the entry point for the patch viewer
// application.
package main

import (
	"flag"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"patch-router/internal/config"
	"patch-router/internal/patch"
	"patch-router/internal/updater"
	"patch-router/internal/version"
	"patch-router/pkg/geometry"
	"patch-router/ui/viewer"
)

const appTitle = "Patch Router"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, version.Version)

	configPath := flag.String("config", "", "path to TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var doc *patch.Patch
	if flag.NArg() > 0 {
		doc, err = patch.Load(flag.Arg(0), cfg.RouteOptions())
		if err != nil {
			log.Fatalf("load patch %s: %v", flag.Arg(0), err)
		}
		log.Printf("Loaded %s: %d objects, %d connections",
			flag.Arg(0), len(doc.Objects()), len(doc.Connections()))
	} else {
		doc = demoPatch(cfg)
	}

	pathUpdater := updater.New(doc, cfg.DebounceInterval(), cfg.Updater.QueueSize)
	defer pathUpdater.Close()

	// Route everything once up front; the commit lands through the
	// debounced applier like any interactive change would.
	pathUpdater.PushAll(doc.RerouteAll())

	fyneApp := app.New()
	win := fyneApp.NewWindow(appTitle)
	win.SetContent(viewer.New(doc))
	win.Resize(fyne.NewSize(900, 640))
	win.ShowAndRun()
}

// demoPatch builds a small patch that shows off segmented routing.
func demoPatch(cfg *config.Config) *patch.Patch {
	doc := patch.New(cfg.RouteOptions())

	osc := doc.AddObject("osc~ 440", geometry.NewRect(60, 40, 90, 24), 2, 1)
	gain := doc.AddObject("*~ 0.5", geometry.NewRect(80, 300, 70, 24), 2, 1)
	dac := doc.AddObject("dac~", geometry.NewRect(220, 380, 60, 24), 2, 0)
	doc.AddObject("metro 500", geometry.NewRect(70, 160, 100, 24), 2, 1)

	mustConnect(doc, osc.ID, 0, gain.ID, 0)
	mustConnect(doc, gain.ID, 0, dac.ID, 0)
	mustConnect(doc, gain.ID, 0, dac.ID, 1)

	// The metro box sits between osc~ and *~, so the segmented cable
	// has to route around it.
	if c, err := doc.Connect(osc.ID, 0, gain.ID, 1); err == nil {
		if err := doc.SetSegmented(c.ID, true); err != nil {
			log.Printf("demo: %v", err)
		}
	}

	return doc
}

func mustConnect(doc *patch.Patch, outObj, outIdx, inObj, inIdx int) {
	if _, err := doc.Connect(outObj, outIdx, inObj, inIdx); err != nil {
		log.Fatalf("demo patch: %v", err)
	}
}
