package contracts

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTier(t *testing.T) {
	tests := []struct {
		input string
		want  Tier
		err   bool
	}{
		{"Conservative", TierConservative, false},
		{"conservative", TierConservative, false},
		{"  MODERATE ", TierModerate, false},
		{"aggressive", TierAggressive, false},
		{"balanced", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseTier(tt.input)
		if tt.err {
			require.Error(t, err, "input: %q", tt.input)
			assert.True(t, errors.Is(err, ErrUnknownProfile))
		} else {
			require.NoError(t, err, "input: %q", tt.input)
			assert.Equal(t, tt.want, got)
		}
	}
}

func TestTierValid(t *testing.T) {
	for _, tier := range Tiers() {
		assert.True(t, tier.Valid())
	}
	assert.False(t, Tier("Balanced").Valid())
	assert.False(t, Tier("").Valid())
}

func TestErrorHelpers(t *testing.T) {
	ve := NewValidationError("amount", "must be greater than zero")
	assert.Equal(t, "invalid amount: must be greater than zero", ve.Error())
	assert.True(t, IsValidation(ve))
	assert.False(t, IsNotFound(ve))

	nf := &NotFoundError{Resource: "simulation", ID: 9}
	assert.Equal(t, "simulation 9 not found", nf.Error())
	assert.True(t, IsNotFound(nf))
	assert.False(t, IsValidation(nf))
}
