package patch

import (
	"patch-router/internal/route"
)

// Connection is a logical edge between an outlet and an inlet. Identity
// is the (source object, outlet index, destination object, inlet index)
// tuple; ID is a stable handle used for queued path updates.
//
// A segmented connection is rendered as a routed orthogonal path; an
// unsegmented one as a direct line. PathToken is the persisted
// endpoint-relative encoding of the plan and survives save/reload.
type Connection struct {
	ID        int    `json:"id"`
	OutObject int    `json:"out_object"`
	OutletIdx int    `json:"outlet"`
	InObject  int    `json:"in_object"`
	InletIdx  int    `json:"inlet"`
	Segmented bool   `json:"segmented"`
	PathToken string `json:"path_state,omitempty"`

	// Plan is the live polyline; rebuilt on reroute, not persisted
	// directly (the token is).
	Plan route.PathPlan `json:"-"`
}
