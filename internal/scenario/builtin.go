package scenario

import (
	"fmt"
	"sort"
)

// builtins are ready-made gesture scripts covering the three core
// interactions: a careful pour, a rod throw and a vessel drop.
var builtins = map[string]*Scenario{
	"pour": {
		Name:        "pour",
		Description: "grab the vessel, lift it to the latch and slosh it around",
		Gestures: []Gesture{
			{Duration: 0.5, Target: "vessel"},
			{Duration: 0.1, Target: "vessel", Press: true},
			{Duration: 0.6, To: [2]float64{0.5, 0.18}},
			{Duration: 1.5, To: [2]float64{0.75, 0.2}, Shake: 0.6, Lag: 0.2},
			{Duration: 1.5, To: [2]float64{0.3, 0.16}, Shake: 0.6, Lag: 0.2},
			{Duration: 0.1, To: [2]float64{0.3, 0.16}, Release: true},
			{Duration: 1.0, To: [2]float64{0.5, 0.5}},
		},
	},
	"toss": {
		Name:        "toss",
		Description: "grab the rod and throw it with a fast sideways flick",
		Gestures: []Gesture{
			{Duration: 0.5, Target: "rod"},
			{Duration: 0.1, Target: "rod", Press: true},
			{Duration: 0.4, To: [2]float64{0.55, 0.62}},
			{Duration: 0.15, To: [2]float64{0.95, 0.55}},
			{Duration: 0.05, To: [2]float64{0.95, 0.55}, Release: true},
			{Duration: 1.5, To: [2]float64{0.5, 0.5}},
		},
	},
	"smash": {
		Name:        "smash",
		Description: "lift the vessel high and drop it onto the floor",
		Gestures: []Gesture{
			{Duration: 0.5, Target: "vessel"},
			{Duration: 0.1, Target: "vessel", Press: true},
			{Duration: 0.8, To: [2]float64{0.5, 0.1}},
			{Duration: 0.1, To: [2]float64{0.5, 0.1}, Release: true},
			{Duration: 2.0, To: [2]float64{0.5, 0.5}},
		},
	},
}

// Builtin returns a copy of a named builtin scenario.
func Builtin(name string) (*Scenario, error) {
	sc, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("scenario: unknown builtin %q", name)
	}
	out := *sc
	out.Gestures = append([]Gesture(nil), sc.Gestures...)
	return &out, nil
}

// BuiltinNames lists the builtin scenarios in stable order.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
