//nolint:testpackage // White-box tests require access to unexported identifiers in this package.
package infusion

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogs_AreStrictlyAscending(t *testing.T) {
	for _, m := range Modes() {
		assert.True(t, isAscending(Volumes(m)), "volumes of %s", m)
		assert.True(t, isAscending(Durations(m)), "durations of %s", m)
	}
	assert.False(t, isAscending(Catalog{}))
	assert.False(t, isAscending(Catalog{10, 10}))
	assert.False(t, isAscending(Catalog{20, 10}))
}

func TestCompute_ConcreteScenarios(t *testing.T) {
	solute := Compute(Solute, 100, 30)
	assert.Equal(t, 67, solute.DropsPerMinute)
	assert.Equal(t, 200, solute.FlowRateMLH)
	assert.True(t, solute.ShowsFlowRate())

	blood := Compute(Blood, 350, 60)
	assert.Equal(t, 88, blood.DropsPerMinute)
	assert.False(t, blood.ShowsFlowRate())
}

func TestCompute_AllCatalogCombinations(t *testing.T) {
	for _, m := range Modes() {
		for _, r := range Table(m) {
			wantDrops := int(math.Round(float64(r.VolumeML*m.DropFactor()) / float64(r.DurationMin)))
			wantFlow := int(math.Round(float64(r.VolumeML) / float64(r.DurationMin) * 60))
			assert.Equal(t, wantDrops, r.DropsPerMinute, "%s %d ml / %d min", m, r.VolumeML, r.DurationMin)
			assert.Equal(t, wantFlow, r.FlowRateMLH, "%s %d ml / %d min", m, r.VolumeML, r.DurationMin)
			assert.Positive(t, r.DropsPerMinute)
		}
	}
	assert.Len(t, Table(Solute), 8*12)
	assert.Len(t, Table(Blood), 4)
}

func TestDropFactor(t *testing.T) {
	assert.Equal(t, 20, Solute.DropFactor())
	assert.Equal(t, 15, Blood.DropFactor())
}

func TestNewSelection_Defaults(t *testing.T) {
	s := NewSelection(Solute)
	assert.Equal(t, 1, s.VolumeIndex())
	assert.Equal(t, 3, s.DurationIndex())
	assert.Equal(t, 100, s.VolumeML())
	assert.Equal(t, 30, s.DurationMin())
	assert.Equal(t, 67, s.DropsPerMinute())
	assert.Equal(t, 200, s.FlowRateMLH())

	b := NewSelection(Blood)
	assert.Equal(t, 0, b.VolumeIndex())
	assert.Equal(t, 1, b.DurationIndex())
	assert.Equal(t, 88, b.DropsPerMinute())
}

func TestSetMode_ResetsIndicesFromAnyState(t *testing.T) {
	s := NewSelection(Solute)
	for i := 0; i < 10; i++ {
		s.Step(Volume, +1)
		s.Step(Duration, +1)
	}
	require.Equal(t, 7, s.VolumeIndex())

	s.SetMode(Blood)
	assert.Equal(t, Blood, s.Mode())
	assert.Equal(t, 0, s.VolumeIndex())
	assert.Equal(t, 1, s.DurationIndex())

	s.Step(Duration, +1)
	s.SetMode(Blood)
	assert.Equal(t, 1, s.DurationIndex(), "re-selecting the same mode also resets")

	s.SetMode(Solute)
	assert.Equal(t, 1, s.VolumeIndex())
	assert.Equal(t, 3, s.DurationIndex())
	assert.Equal(t, 67, s.DropsPerMinute())
}

func TestStep_ClampsAtEdges(t *testing.T) {
	s := NewSelection(Solute)

	s.Step(Volume, -1)
	assert.Equal(t, 0, s.VolumeIndex())
	assert.False(t, s.CanStep(Volume, -1))
	s.Step(Volume, -1)
	assert.Equal(t, 0, s.VolumeIndex(), "stepping below zero is a no-op")

	for i := 0; i < 20; i++ {
		s.Step(Duration, +1)
	}
	assert.Equal(t, len(Durations(Solute))-1, s.DurationIndex())
	assert.False(t, s.CanStep(Duration, +1))
	assert.True(t, s.CanStep(Duration, -1))
	assert.Equal(t, 1440, s.DurationMin())

	before := s.Result()
	s.Step(Duration, 0)
	assert.Equal(t, before, s.Result())
}

func TestStep_BloodSingleVolume(t *testing.T) {
	s := NewSelection(Blood)
	assert.False(t, s.CanStep(Volume, -1))
	assert.False(t, s.CanStep(Volume, +1))
	s.Step(Volume, +1)
	assert.Equal(t, 350, s.VolumeML())
}

func TestStep_RecomputesResult(t *testing.T) {
	s := NewSelection(Solute)
	s.Step(Duration, +1) // 60 min
	assert.Equal(t, 60, s.DurationMin())
	assert.Equal(t, 33, s.DropsPerMinute())
	assert.Equal(t, 100, s.FlowRateMLH())
}

func TestSelectValues(t *testing.T) {
	s, err := SelectValues(Blood, 350, 90)
	require.NoError(t, err)
	assert.Equal(t, 2, s.DurationIndex())
	assert.Equal(t, 58, s.DropsPerMinute())

	_, err = SelectValues(Blood, 500, 60)
	var nic NotInCatalogError
	require.True(t, errors.As(err, &nic))
	assert.Equal(t, Volume, nic.Dimension)
	assert.Contains(t, err.Error(), "allowed: 350")

	_, err = SelectValues(Solute, 100, 45)
	require.ErrorAs(t, err, &nic)
	assert.Equal(t, Duration, nic.Dimension)
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{in: "solute", want: Solute},
		{in: "BLOOD", want: Blood},
		{in: " sang ", want: Blood},
		{in: "plasma", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownMode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCatalogCopiesAreIndependent(t *testing.T) {
	v := Volumes(Solute)
	v[0] = 9999
	assert.Equal(t, 50, Volumes(Solute)[0])
}

func TestSelection_CatalogFollowsMode(t *testing.T) {
	s := NewSelection(Solute)
	assert.Equal(t, Volumes(Solute), s.Catalog(Volume))
	assert.Equal(t, Durations(Solute), s.Catalog(Duration))

	s.SetMode(Blood)
	assert.Equal(t, Catalog{350}, s.Catalog(Volume))
	assert.Equal(t, Catalog{30, 60, 90, 120}, s.Catalog(Duration))

	s.Catalog(Duration)[0] = 1
	assert.Equal(t, 30, CatalogFor(Blood, Duration)[0])
}
