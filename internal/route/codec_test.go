package route

import (
	"errors"
	"math/rand"
	"testing"

	"patch-router/pkg/geometry"
)

// randomManhattanPlan builds a plan with integer coordinates and
// alternating horizontal/vertical segments, so offset arithmetic in the
// codec is exact and round trips can be compared with ==.
func randomManhattanPlan(rng *rand.Rand) PathPlan {
	p := geometry.NewPoint2D(float64(rng.Intn(400)-200), float64(rng.Intn(400)-200))
	plan := PathPlan{p}
	horizontal := rng.Intn(2) == 0
	for i := 0; i < 2+rng.Intn(10); i++ {
		delta := float64(1 + rng.Intn(120))
		if rng.Intn(2) == 0 {
			delta = -delta
		}
		if horizontal {
			p.X += delta
		} else {
			p.Y += delta
		}
		plan = append(plan, p)
		horizontal = !horizontal
	}
	return plan
}

func TestCodecRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for trial := 0; trial < 100; trial++ {
		plan := randomManhattanPlan(rng)
		token := Encode(plan)

		got, err := Decode(token, plan.Start(), plan.End())
		if err != nil {
			t.Fatalf("trial %d: decode %q: %v", trial, token, err)
		}
		if len(got) != len(plan) {
			t.Fatalf("trial %d: point count %d, want %d", trial, len(got), len(plan))
		}
		for i := range plan {
			if got[i] != plan[i] {
				t.Errorf("trial %d: point %d = %v, want %v", trial, i, got[i], plan[i])
			}
		}
	}
}

func TestDecodeMalformedToken(t *testing.T) {
	start := geometry.NewPoint2D(10, 20)
	end := geometry.NewPoint2D(110, 80)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "garbage"},
		{"empty", ""},
		{"whitespace", "   "},
		{"missing separator", "12,34,"},
		{"extra separator", "1*2*3,"},
		{"non-numeric x", "abc*4,"},
		{"non-numeric y", "4*abc,"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := Decode(tt.token, start, end)
			if !errors.Is(err, ErrMalformedToken) {
				t.Fatalf("err = %v, want ErrMalformedToken", err)
			}
			want := DirectPlan(start, end)
			if !plan.Equal(want, 0) {
				t.Errorf("fallback plan = %v, want %v", plan, want)
			}
		})
	}
}

func TestDecodeSinglePointToken(t *testing.T) {
	start := geometry.NewPoint2D(5, 5)
	end := geometry.NewPoint2D(50, 90)

	plan, err := Decode("0*0,", start, end)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !plan.Equal(DirectPlan(start, end), 0) {
		t.Errorf("plan = %v, want direct %v", plan, DirectPlan(start, end))
	}
}

func TestDecodeMovedEndpointKeepsTopology(t *testing.T) {
	// A three-bend plan whose final segment is vertical.
	plan := PathPlan{
		{X: 0, Y: 0},
		{X: 60, Y: 0},
		{X: 60, Y: 80},
		{X: 140, Y: 80},
		{X: 140, Y: 120},
	}
	token := Encode(plan)

	// Destination slid sideways after the token was written.
	newEnd := geometry.NewPoint2D(170, 120)
	got, err := Decode(token, plan.Start(), newEnd)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if got.End() != newEnd {
		t.Errorf("end = %v, want %v", got.End(), newEnd)
	}
	if got.Start() != plan.Start() {
		t.Errorf("start = %v, want %v", got.Start(), plan.Start())
	}
	if !got.IsOrthogonal(1e-9) {
		t.Errorf("plan not axis-aligned: %v", got)
	}
	if got.Bends() != plan.Bends() {
		t.Errorf("bends = %d, want %d", got.Bends(), plan.Bends())
	}
}

func TestDecodeMovedStartReplaysOffsets(t *testing.T) {
	plan := PathPlan{
		{X: 0, Y: 0},
		{X: 50, Y: 0},
		{X: 50, Y: 100},
	}
	token := Encode(plan)

	// Both endpoints translated together: the shape must follow.
	newStart := geometry.NewPoint2D(20, 30)
	newEnd := geometry.NewPoint2D(70, 130)
	got, err := Decode(token, newStart, newEnd)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	want := PathPlan{
		{X: 20, Y: 30},
		{X: 70, Y: 30},
		{X: 70, Y: 130},
	}
	if !got.Equal(want, 0) {
		t.Errorf("plan = %v, want %v", got, want)
	}
}

func TestEncodeEmptyPlan(t *testing.T) {
	if got := Encode(nil); got != "" {
		t.Errorf("Encode(nil) = %q, want empty", got)
	}
}

func TestEncodeIsEndpointRelative(t *testing.T) {
	plan := PathPlan{
		{X: 100, Y: 200},
		{X: 150, Y: 200},
		{X: 150, Y: 300},
	}
	shifted := PathPlan{
		{X: -40, Y: 7},
		{X: 10, Y: 7},
		{X: 10, Y: 107},
	}
	if a, b := Encode(plan), Encode(shifted); a != b {
		t.Errorf("tokens differ for translated plans: %q vs %q", a, b)
	}
}
