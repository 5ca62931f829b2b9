// Command routecheck reroutes every connection in a patch file and
// validates the resulting plans.
package main

import (
	"flag"
	"fmt"
	"os"

	"patch-router/internal/config"
	"patch-router/internal/patch"
	"patch-router/pkg/geometry"
)

func main() {
	patchPath := flag.String("patch", "", "Path to patch file (JSON)")
	configPath := flag.String("config", "", "Path to TOML config file")
	verbose := flag.Bool("v", false, "Print per-connection details")
	flag.Parse()

	if *patchPath == "" {
		fmt.Println("Usage: routecheck -patch <path> [-config <path>] [-v]")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	doc, err := patch.Load(*patchPath, cfg.RouteOptions())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load patch: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Loaded %s: %d objects, %d connections\n",
		*patchPath, len(doc.Objects()), len(doc.Connections()))

	doc.RerouteAll()

	tolerance := cfg.Routing.Tolerance
	failures := 0
	segmented := 0
	for _, c := range doc.Connections() {
		if !c.Segmented {
			continue
		}
		segmented++
		if *verbose {
			fmt.Printf("connection %d (%d:%d -> %d:%d): %d points, %d bends, length %.1f\n",
				c.ID, c.OutObject, c.OutletIdx, c.InObject, c.InletIdx,
				len(c.Plan), c.Plan.Bends(), c.Plan.Length())
		}
		if !c.Plan.IsOrthogonal(tolerance) {
			fmt.Fprintf(os.Stderr, "connection %d: plan not axis-aligned\n", c.ID)
			failures++
			continue
		}
		if seg, hit := firstObstacleHit(doc, c, tolerance); hit {
			fmt.Fprintf(os.Stderr, "connection %d: segment %d overlaps an object\n", c.ID, seg)
			failures++
		}
	}

	fmt.Printf("Checked %d segmented connections, %d failures\n", segmented, failures)
	if failures > 0 {
		os.Exit(1)
	}
}

// firstObstacleHit returns the index of the first plan segment that
// overlaps a non-endpoint object, if any.
func firstObstacleHit(doc *patch.Patch, c *patch.Connection, tolerance float64) (int, bool) {
	var obstacles []geometry.Rect
	for _, o := range doc.Objects() {
		if o.ID == c.OutObject || o.ID == c.InObject {
			continue
		}
		obstacles = append(obstacles, o.Bounds)
	}
	for i, seg := range c.Plan.Segments() {
		if geometry.LineIntersectsAny(seg, obstacles, tolerance) {
			return i, true
		}
	}
	return 0, false
}
