package patch

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"patch-router/internal/route"
)

// patchFileVersion is written into saved patches.
const patchFileVersion = 1

// PatchFile is the JSON structure of a saved patch.
type PatchFile struct {
	Version     int           `json:"version"`
	Title       string        `json:"title,omitempty"`
	Objects     []*Object     `json:"objects"`
	Connections []*Connection `json:"connections"`
}

// Save writes the patch to path as indented JSON.
func (p *Patch) Save(path string) error {
	p.mu.RLock()
	file := PatchFile{
		Version:     patchFileVersion,
		Objects:     p.objects,
		Connections: p.connections,
	}
	data, err := json.MarshalIndent(file, "", "  ")
	p.mu.RUnlock()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}

	p.mu.Lock()
	p.modified = false
	p.mu.Unlock()
	p.Emit(EventPatchSaved, path)
	return nil
}

// Load reads a patch from path. Persisted path-state tokens are decoded
// against the loaded endpoint positions; a malformed token degrades its
// connection to unsegmented rather than failing the load.
func Load(path string, opts route.Options) (*Patch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file PatchFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse patch %s: %w", path, err)
	}

	p := New(opts)
	p.mu.Lock()
	p.objects = file.Objects
	p.connections = file.Connections
	for _, o := range p.objects {
		if o.ID >= p.nextObjectID {
			p.nextObjectID = o.ID + 1
		}
	}
	for _, c := range p.connections {
		if c.ID >= p.nextConnectionID {
			p.nextConnectionID = c.ID + 1
		}
		if c.Segmented && c.PathToken != "" {
			p.applyPathStateLocked(c, c.PathToken)
		} else {
			if c.Segmented {
				log.Printf("connection %d: segmented without path state; rerouting", c.ID)
				p.rerouteLocked(c)
			} else {
				c.Plan = route.DirectPlan(p.startPointLocked(c), p.endPointLocked(c))
			}
		}
	}
	p.mu.Unlock()

	p.Emit(EventPatchLoaded, path)
	return p, nil
}
