package traits

// Built-in trait names.
const (
	TraitEyes     = "eyes"
	TraitHair     = "hair"
	TraitHairType = "hairType"
	TraitFreckles = "freckles"
	TraitDimples  = "dimples"
	TraitEarlobes = "earlobes"
	TraitTongue   = "tongueRolling"
)

var defaultSpecs = []Spec{
	{Name: TraitEyes, Values: []string{"brown", "hazel", "green", "blue", "gray"}},
	{Name: TraitHair, Values: []string{"black", "brown", "auburn", "red", "blonde"}},
	{Name: TraitHairType, Values: []string{"curly", "wavy", "straight"}},
	{Name: TraitFreckles, Values: []string{"present", "absent"}},
	{Name: TraitDimples, Values: []string{"present", "absent"}},
	{Name: TraitEarlobes, Values: []string{"free", "attached"}},
	{Name: TraitTongue, Values: []string{"roller", "non-roller"}},
}

// DefaultSpecs returns a fresh copy of the built-in dominance lists.
func DefaultSpecs() Specs {
	specs := make(Specs, len(defaultSpecs))
	for _, s := range defaultSpecs {
		specs[s.Name] = Spec{Name: s.Name, Values: append([]string(nil), s.Values...)}
	}
	return specs
}
