package route

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"patch-router/pkg/geometry"
)

// ErrMalformedToken is returned when a persisted path-state token cannot
// be parsed. Callers treat the connection as unsegmented and carry on.
var ErrMalformedToken = errors.New("malformed path-state token")

// Encode serializes a plan as a path-state token: each point's offset
// from the plan's first point, written as "x*y," pairs. The token is
// endpoint-relative, so it survives the endpoints moving between save
// and load.
func Encode(plan PathPlan) string {
	if len(plan) == 0 {
		return ""
	}
	origin := plan[0]
	var sb strings.Builder
	for _, p := range plan {
		sb.WriteString(formatCoord(p.X - origin.X))
		sb.WriteByte('*')
		sb.WriteString(formatCoord(p.Y - origin.Y))
		sb.WriteByte(',')
	}
	return sb.String()
}

// Decode reconstructs a plan from a token by replaying the stored
// offsets from the current start point, then sliding the final bend so
// the plan terminates exactly at the current end point. A malformed or
// empty token yields the direct fallback plan and ErrMalformedToken;
// decoding never panics.
func Decode(token string, start, end geometry.Point2D) (PathPlan, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return DirectPlan(start, end), fmt.Errorf("%w: empty token", ErrMalformedToken)
	}

	fields := strings.Split(token, ",")
	plan := make(PathPlan, 0, len(fields))
	for _, field := range fields {
		if field == "" {
			continue
		}
		parts := strings.Split(field, "*")
		if len(parts) != 2 {
			return DirectPlan(start, end), fmt.Errorf("%w: bad pair %q", ErrMalformedToken, field)
		}
		dx, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return DirectPlan(start, end), fmt.Errorf("%w: %q", ErrMalformedToken, parts[0])
		}
		dy, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return DirectPlan(start, end), fmt.Errorf("%w: %q", ErrMalformedToken, parts[1])
		}
		plan = append(plan, start.Add(geometry.Point2D{X: dx, Y: dy}))
	}

	if len(plan) == 0 {
		return DirectPlan(start, end), fmt.Errorf("%w: no points", ErrMalformedToken)
	}
	if len(plan) == 1 {
		return DirectPlan(start, end), nil
	}

	// Endpoints may have moved since the token was written; the offset
	// chain lands where the old end used to be relative to the new
	// start, so the tail is re-anchored onto the current end.
	if plan[len(plan)-1] != end {
		plan = snapEnd(plan, end)
	}
	return plan, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
