package validate

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClosed(t *testing.T) {
	tests := []struct {
		name    string
		v       float64
		wantErr bool
	}{
		{"lower bound", 0, false},
		{"upper bound", 1, false},
		{"inside", 0.42, false},
		{"below", -0.01, true},
		{"above", 1.01, true},
		{"NaN", math.NaN(), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Closed("p", tt.v, 0, 1)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidParameter))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHalfOpen(t *testing.T) {
	assert.NoError(t, HalfOpen("mu", 0, 0, 1))
	assert.NoError(t, HalfOpen("mu", 0.999, 0, 1))
	assert.Error(t, HalfOpen("mu", 1, 0, 1))
	assert.Error(t, HalfOpen("mu", -1e-9, 0, 1))
}

func TestAtLeast(t *testing.T) {
	assert.NoError(t, AtLeast("n", 1, 1))
	assert.NoError(t, AtLeast("n", int64(5), 1))

	err := AtLeast("populationSize", 0, 1)
	require.Error(t, err)

	var pe *ParameterError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "populationSize", pe.Name)
	assert.Equal(t, 0, pe.Value)
	assert.Contains(t, err.Error(), "populationSize=0")
}
