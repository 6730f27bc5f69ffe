// Package traits predicts a child's value for independent, simply dominant
// traits from the two parents' values.
//
// This is a single-gene dominant/recessive heuristic, not polygenic modeling:
// identical parents pass their value on with certainty, otherwise the more
// dominant value is predicted at 75% and the other at 25%.
package traits

import (
	"errors"
	"fmt"
	"sort"
)

// Probability splits, in percent.
const (
	ProbabilityCertain   = 100
	ProbabilityDominant  = 75
	ProbabilityRecessive = 25
)

var (
	// ErrUnknownTraitValue is matched by every *UnknownValueError.
	ErrUnknownTraitValue = errors.New("unknown trait value")
	// ErrUnknownTrait is returned when a parent names a trait with no spec.
	ErrUnknownTrait = errors.New("unknown trait")
)

// UnknownValueError reports a parent value absent from a trait's dominance list.
type UnknownValueError struct {
	Trait  string
	Parent int // 1 or 2
	Value  string
}

func (e *UnknownValueError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("trait %q: parent %d has no value", e.Trait, e.Parent)
	}
	return fmt.Sprintf("trait %q: parent %d value %q is not in the dominance list", e.Trait, e.Parent, e.Value)
}

func (e *UnknownValueError) Unwrap() error {
	return ErrUnknownTraitValue
}

// Spec is a trait with its possible values ordered most dominant first.
type Spec struct {
	Name   string   `json:"name" yaml:"name"`
	Values []string `json:"values" yaml:"values"`
}

// Rank returns the position of value in the dominance list, or -1.
func (s Spec) Rank(value string) int {
	for i, v := range s.Values {
		if v == value {
			return i
		}
	}
	return -1
}

// Specs maps trait names to their specs. Treated as read-only.
type Specs map[string]Spec

// Names returns the trait names in sorted order.
func (s Specs) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Prediction is the predicted outcome for one trait.
type Prediction struct {
	MostLikely    string         `json:"most_likely" yaml:"most_likely"`
	Probabilities map[string]int `json:"probabilities" yaml:"probabilities"`
}

// Predict predicts every trait named by either parent. Traits are checked
// in sorted order so the first reported error is deterministic.
func Predict(parent1, parent2 map[string]string, specs Specs) (map[string]Prediction, error) {
	names := make(map[string]struct{}, len(parent1))
	for n := range parent1 {
		names[n] = struct{}{}
	}
	for n := range parent2 {
		names[n] = struct{}{}
	}
	sorted := make([]string, 0, len(names))
	for n := range names {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)

	out := make(map[string]Prediction, len(sorted))
	for _, name := range sorted {
		spec, ok := specs[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTrait, name)
		}
		spec.Name = name
		p, err := PredictTrait(spec, parent1[name], parent2[name])
		if err != nil {
			return nil, err
		}
		out[name] = p
	}
	return out, nil
}

// PredictTrait predicts a single trait from the two parents' values.
func PredictTrait(spec Spec, v1, v2 string) (Prediction, error) {
	r1 := spec.Rank(v1)
	if r1 < 0 {
		return Prediction{}, &UnknownValueError{Trait: spec.Name, Parent: 1, Value: v1}
	}
	r2 := spec.Rank(v2)
	if r2 < 0 {
		return Prediction{}, &UnknownValueError{Trait: spec.Name, Parent: 2, Value: v2}
	}

	if r1 == r2 {
		return Prediction{
			MostLikely:    v1,
			Probabilities: map[string]int{v1: ProbabilityCertain},
		}, nil
	}

	dominant, recessive := v1, v2
	if r2 < r1 {
		dominant, recessive = v2, v1
	}
	return Prediction{
		MostLikely: dominant,
		Probabilities: map[string]int{
			dominant:  ProbabilityDominant,
			recessive: ProbabilityRecessive,
		},
	}, nil
}
