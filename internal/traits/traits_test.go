package traits

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredict_SameValue(t *testing.T) {
	got, err := Predict(
		map[string]string{TraitEyes: "brown"},
		map[string]string{TraitEyes: "brown"},
		DefaultSpecs(),
	)
	require.NoError(t, err)
	assert.Equal(t, map[string]Prediction{
		TraitEyes: {MostLikely: "brown", Probabilities: map[string]int{"brown": 100}},
	}, got)
}

func TestPredict_DominantWins(t *testing.T) {
	tests := []struct {
		name   string
		v1, v2 string
		want   Prediction
	}{
		{
			name: "brown x blue",
			v1:   "brown", v2: "blue",
			want: Prediction{MostLikely: "brown", Probabilities: map[string]int{"brown": 75, "blue": 25}},
		},
		{
			name: "order of parents is irrelevant",
			v1:   "blue", v2: "brown",
			want: Prediction{MostLikely: "brown", Probabilities: map[string]int{"brown": 75, "blue": 25}},
		},
		{
			name: "green x gray",
			v1:   "gray", v2: "green",
			want: Prediction{MostLikely: "green", Probabilities: map[string]int{"green": 75, "gray": 25}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Predict(
				map[string]string{TraitEyes: tt.v1},
				map[string]string{TraitEyes: tt.v2},
				DefaultSpecs(),
			)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got[TraitEyes])
		})
	}
}

func TestPredict_MultipleTraits(t *testing.T) {
	got, err := Predict(
		map[string]string{TraitEyes: "hazel", TraitHairType: "straight", TraitFreckles: "absent"},
		map[string]string{TraitEyes: "hazel", TraitHairType: "curly", TraitFreckles: "present"},
		DefaultSpecs(),
	)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "hazel", got[TraitEyes].MostLikely)
	assert.Equal(t, "curly", got[TraitHairType].MostLikely)
	assert.Equal(t, 25, got[TraitHairType].Probabilities["straight"])
	assert.Equal(t, "present", got[TraitFreckles].MostLikely)
}

func TestPredict_UnknownValue(t *testing.T) {
	_, err := Predict(
		map[string]string{TraitEyes: "brown"},
		map[string]string{TraitEyes: "purple"},
		DefaultSpecs(),
	)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownTraitValue))

	var uv *UnknownValueError
	require.True(t, errors.As(err, &uv))
	assert.Equal(t, TraitEyes, uv.Trait)
	assert.Equal(t, 2, uv.Parent)
	assert.Equal(t, "purple", uv.Value)
}

func TestPredict_MissingParentValue(t *testing.T) {
	_, err := Predict(
		map[string]string{TraitEyes: "brown"},
		map[string]string{},
		DefaultSpecs(),
	)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownTraitValue))
	assert.Contains(t, err.Error(), "parent 2 has no value")
}

func TestPredict_UnknownTrait(t *testing.T) {
	_, err := Predict(
		map[string]string{"wings": "yes"},
		map[string]string{"wings": "yes"},
		DefaultSpecs(),
	)
	assert.True(t, errors.Is(err, ErrUnknownTrait))
}

func TestPredict_CustomSpecs(t *testing.T) {
	specs := Specs{"petal": {Name: "petal", Values: []string{"purple", "white"}}}
	got, err := Predict(
		map[string]string{"petal": "white"},
		map[string]string{"petal": "purple"},
		specs,
	)
	require.NoError(t, err)
	assert.Equal(t, "purple", got["petal"].MostLikely)
}

func TestPredict_ErrorNamesMapKey(t *testing.T) {
	specs := Specs{"petal": {Values: []string{"purple", "white"}}}
	_, err := Predict(
		map[string]string{"petal": "white"},
		map[string]string{"petal": "blue"},
		specs,
	)
	var uv *UnknownValueError
	require.True(t, errors.As(err, &uv))
	assert.Equal(t, "petal", uv.Trait)
	assert.Contains(t, err.Error(), `trait "petal"`)
}

func TestPredict_Idempotent(t *testing.T) {
	p1 := map[string]string{TraitEyes: "blue", TraitHair: "red"}
	p2 := map[string]string{TraitEyes: "green", TraitHair: "black"}
	a, err := Predict(p1, p2, DefaultSpecs())
	require.NoError(t, err)
	b, err := Predict(p1, p2, DefaultSpecs())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDefaultSpecs_Copy(t *testing.T) {
	s := DefaultSpecs()
	s[TraitEyes].Values[0] = "violet"
	assert.Equal(t, "brown", DefaultSpecs()[TraitEyes].Values[0])
	assert.Equal(t, []string{"brown", "hazel", "green", "blue", "gray"}, DefaultSpecs()[TraitEyes].Values)
	assert.Contains(t, s.Names(), TraitEyes)
}
