package scenario

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/propsim/internal/config"
	"github.com/san-kum/propsim/internal/metrics"
	"github.com/san-kum/propsim/internal/scene"
)

const dt = 1.0 / 60

func newScene() *scene.Scene {
	cfg := config.DefaultConfig()
	cfg.Seed = 11
	return scene.New(cfg)
}

func TestValidateRejectsBadScripts(t *testing.T) {
	cases := []struct {
		name string
		sc   Scenario
	}{
		{"no name", Scenario{Gestures: []Gesture{{Duration: 1}}}},
		{"no gestures", Scenario{Name: "x"}},
		{"zero duration", Scenario{Name: "x", Gestures: []Gesture{{}}}},
		{"bad target", Scenario{Name: "x", Gestures: []Gesture{{Duration: 1, Target: "chair"}}}},
		{"press and release", Scenario{Name: "x", Gestures: []Gesture{{Duration: 1, Press: true, Release: true}}}},
	}
	for _, tc := range cases {
		if err := tc.sc.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestLoadRoundtrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "s.yaml")
	src := `
name: wiggle
description: small test script
gestures:
  - duration: 0.5
    target: vessel
  - duration: 0.2
    to: [0.4, 0.3]
    press: true
    shake: 0.5
`
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}
	sc, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if sc.Name != "wiggle" || len(sc.Gestures) != 2 {
		t.Fatalf("loaded %+v", sc)
	}
	if sc.Gestures[1].To != [2]float64{0.4, 0.3} || !sc.Gestures[1].Press {
		t.Fatalf("gesture 2 = %+v", sc.Gestures[1])
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestBuiltinNamesStable(t *testing.T) {
	names := BuiltinNames()
	if len(names) != 3 {
		t.Fatalf("builtins = %v", names)
	}
	for _, name := range names {
		sc, err := Builtin(name)
		if err != nil {
			t.Fatalf("builtin %s: %v", name, err)
		}
		if err := sc.Validate(); err != nil {
			t.Fatalf("builtin %s invalid: %v", name, err)
		}
	}
	if _, err := Builtin("juggle"); err == nil {
		t.Fatal("expected error for unknown builtin")
	}
}

func TestRunCollectsFramesAndMetrics(t *testing.T) {
	s := newScene()
	sc := &Scenario{
		Name: "hold",
		Gestures: []Gesture{
			{Duration: 0.5, Target: "vessel"},
			{Duration: 0.5, Target: "vessel", Press: true},
		},
	}
	res, err := Run(context.Background(), s, sc, dt, metrics.Standard())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Scenario != "hold" {
		t.Fatalf("scenario name %q", res.Scenario)
	}
	want := 60
	if len(res.Frames) != want {
		t.Fatalf("frames = %d, want %d", len(res.Frames), want)
	}
	for _, m := range metrics.Standard() {
		if _, ok := res.Metrics[m.Name()]; !ok {
			t.Fatalf("missing metric %s", m.Name())
		}
	}
	if !s.Grab.Grabbing() {
		t.Fatal("press gesture over vessel did not grab")
	}
}

func TestRunCancellation(t *testing.T) {
	s := newScene()
	sc, err := Builtin("pour")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := Run(ctx, s, sc, dt, nil)
	if err != context.Canceled {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if res == nil || len(res.Frames) != 0 {
		t.Fatal("expected empty partial result")
	}
}

func TestPourLatchesAndNeverGainsFluid(t *testing.T) {
	s := newScene()
	sc, err := Builtin("pour")
	if err != nil {
		t.Fatal(err)
	}
	res, err := Run(context.Background(), s, sc, dt, metrics.Standard())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	latched := false
	prev := 101.0
	for _, f := range res.Frames {
		if f.Depth > 0.6 {
			latched = true
		}
		if f.Level > prev+1e-9 {
			t.Fatalf("fluid level rose from %v to %v", prev, f.Level)
		}
		prev = f.Level
	}
	if !latched {
		t.Fatal("pour never pulled past the latch depth")
	}
}

func TestSmashBreaksVessel(t *testing.T) {
	s := newScene()
	sc, err := Builtin("smash")
	if err != nil {
		t.Fatal(err)
	}
	res, err := Run(context.Background(), s, sc, dt, metrics.Standard())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	last := res.Frames[len(res.Frames)-1]
	if last.Breaks < 1 {
		t.Fatal("smash did not break the vessel")
	}
	if last.Level != 0 {
		t.Fatalf("level after smash = %v, want 0", last.Level)
	}
	if res.Metrics["spilled_total"] < 0.9-1e-6 {
		t.Fatalf("spilled_total = %v, want full vessel", res.Metrics["spilled_total"])
	}
}

func TestTossMovesRod(t *testing.T) {
	s := newScene()
	start := s.Rod().Body.Pos
	sc, err := Builtin("toss")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Run(context.Background(), s, sc, dt, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	moved := s.Rod().Body.Pos.Sub(start).Length()
	if moved < 0.5 && !s.Rod().Broken {
		t.Fatalf("toss barely moved the rod (%v)", moved)
	}
}
