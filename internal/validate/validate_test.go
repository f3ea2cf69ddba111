package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStruct_InfusionMode(t *testing.T) {
	type sample struct {
		Mode string `validate:"required,infusion_mode"`
	}
	for _, ok := range []string{"solute", "blood", "sang", "Blood"} {
		assert.NoError(t, Struct(sample{Mode: ok}), ok)
	}
	assert.Error(t, Struct(sample{Mode: "plasma"}))
	assert.Error(t, Struct(sample{}))
}

func TestStruct_BuiltInTags(t *testing.T) {
	type sample struct {
		Color  string `validate:"omitempty,hexcolor"`
		Locale string `validate:"required,bcp47_language_tag"`
	}
	require.NoError(t, Struct(sample{Color: "#007AFF", Locale: "fr"}))
	require.NoError(t, Struct(sample{Locale: "en-GB"}))
	require.Error(t, Struct(sample{Color: "blue-ish", Locale: "fr"}))
}

func TestStruct_UsesSharedInstance(t *testing.T) {
	type sample struct {
		Mode string `validate:"required,infusion_mode"`
	}
	require.NoError(t, Struct(sample{Mode: "solute"}))
	require.Error(t, Struct(sample{Mode: "x"}))
	assert.Same(t, get(), get())
}
