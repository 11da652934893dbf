package ui

import (
	"image"
	"testing"

	"meca/internal/core"
)

func TestPanelTitle(t *testing.T) {
	if got := panelTitle("meca"); got != "Meca Controls" {
		t.Fatalf("panelTitle = %q", got)
	}
	if got := panelTitle(""); got != "Controls" {
		t.Fatalf("empty title = %q", got)
	}
}

func TestFormatFloat(t *testing.T) {
	cases := []struct {
		step, value float64
		want        string
	}{
		{0.05, 0.75, "0.75"},
		{0.5, 0.75, "0.8"},
		{0.005, 0.125, "0.125"},
		{0.0001, 0.5, "0.5000"},
		{0, 0.5, "0.5"},
		{0, 2, "2"},
		{0, 0.123456, "0.1235"},
	}
	for _, tc := range cases {
		if got := formatFloat(tc.step, tc.value); got != tc.want {
			t.Fatalf("formatFloat(%v, %v) = %q, want %q", tc.step, tc.value, got, tc.want)
		}
	}
}

func TestPointInRect(t *testing.T) {
	r := image.Rect(10, 10, 20, 20)
	if !pointInRect(10, 19, r) || pointInRect(20, 15, r) || pointInRect(9, 15, r) {
		t.Fatal("pointInRect should include Min and exclude Max")
	}
}

func TestHistoryWraps(t *testing.T) {
	h := NewHistory(3)
	for i := 1; i <= 5; i++ {
		h.Push(float64(i))
	}
	got := h.Values(nil)
	if h.Len() != 3 || len(got) != 3 || got[0] != 3 || got[2] != 5 {
		t.Fatalf("values = %v", got)
	}
	h.Reset()
	if h.Len() != 0 || len(h.Values(nil)) != 0 {
		t.Fatal("Reset should empty the history")
	}
	h.Push(9)
	if got := h.Values(nil); len(got) != 1 || got[0] != 9 {
		t.Fatalf("after reset = %v", got)
	}
}

func TestSparkline(t *testing.T) {
	pts := sparkline([]float64{0, 0.5, 1, 2}, 31, 11)
	want := []image.Point{{0, 10}, {10, 5}, {20, 0}, {30, 0}}
	if len(pts) != len(want) {
		t.Fatalf("points = %v", pts)
	}
	for i := range want {
		if pts[i] != want[i] {
			t.Fatalf("point %d = %v, want %v", i, pts[i], want[i])
		}
	}
	if sparkline(nil, 10, 10) != nil {
		t.Fatal("no samples should give no points")
	}
	if single := sparkline([]float64{0.5}, 10, 3); len(single) != 1 || single[0] != image.Pt(0, 1) {
		t.Fatalf("single = %v", single)
	}
}

func TestNextIntClamps(t *testing.T) {
	ctrl := core.ParameterControl{Key: "rule", Type: core.ParamTypeInt, Step: 1, Min: 0, Max: 15, HasMin: true, HasMax: true}
	if v, ok := nextInt(ctrl, 6, 1); !ok || v != 7 {
		t.Fatalf("6+1 = %d, %v", v, ok)
	}
	if _, ok := nextInt(ctrl, 15, 1); ok {
		t.Fatal("rule 15 should not increase")
	}
	if _, ok := nextInt(ctrl, 0, -1); ok {
		t.Fatal("rule 0 should not decrease")
	}
	ctrl.Step = 0
	if v, _ := nextInt(ctrl, 3, -1); v != 2 {
		t.Fatalf("default step gave %d", v)
	}
}

func TestNextFloatClamps(t *testing.T) {
	ctrl := core.ParameterControl{Key: "alpha", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, Max: 0.95, HasMin: true, HasMax: true}
	if v, ok := nextFloat(ctrl, 0.9, 1); !ok || v != 0.95 {
		t.Fatalf("0.9+step = %v, %v", v, ok)
	}
	if _, ok := nextFloat(ctrl, 0.95, 1); ok {
		t.Fatal("alpha at max should not increase")
	}
	if v, ok := nextFloat(ctrl, 0.02, -1); !ok || v != 0 {
		t.Fatalf("0.02-step = %v, %v", v, ok)
	}
}

func TestInfoLines(t *testing.T) {
	snap := core.ParameterSnapshot{Groups: []core.ParameterGroup{{
		Name: "State",
		Params: []core.Parameter{
			{Key: "density", Label: "Density", Type: core.ParamTypeFloat, Value: "0.4375"},
			{Key: "t", Label: "Generation", Type: core.ParamTypeInt, Value: "12"},
			{Key: "w", Label: "Width", Type: core.ParamTypeInt, Value: "64"},
		},
	}}}
	got := infoLines(snap)
	want := []string{"Generation: 12", "Density: 0.4375"}
	if len(got) != len(want) {
		t.Fatalf("lines = %q", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}
