package chart

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goutte-app/goutte/internal/infusion"
)

func TestBuild_IndexesRowsByVolumeThenDuration(t *testing.T) {
	c := Build(infusion.Solute)
	require.Len(t, c.Rows, len(c.Volumes)*len(c.Durations))

	r := c.At(1, 3)
	assert.Equal(t, 100, r.VolumeML)
	assert.Equal(t, 30, r.DurationMin)
	assert.Equal(t, 67, r.DropsPerMinute)
	assert.Equal(t, 200, r.FlowRateMLH)

	b := Build(infusion.Blood)
	assert.Equal(t, 88, b.At(0, 1).DropsPerMinute)
}

func TestPrint_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Print(&buf, Build(infusion.Blood), infusion.NewFormatter(infusion.DefaultLocale), "#FF3B30", true))

	var got struct {
		Mode      string `json:"mode"`
		Durations []int  `json:"durations_min"`
		Rows      []struct {
			DropsPerMinute int `json:"drops_per_minute"`
		} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "blood", got.Mode)
	assert.Equal(t, []int{30, 60, 90, 120}, got.Durations)
	require.Len(t, got.Rows, 4)
	assert.Equal(t, 175, got.Rows[0].DropsPerMinute)
	assert.Equal(t, 88, got.Rows[1].DropsPerMinute)
}

func TestRender_Table(t *testing.T) {
	out := Render(Build(infusion.Solute), infusion.NewFormatter(infusion.DefaultLocale), "#007AFF")
	for _, want := range []string{"Solute", "drop factor 20", "1,5 L", "100 ml", "24 h", "67 · 200"} {
		assert.Contains(t, out, want)
	}
}

func TestRender_BloodHasNoFlowRate(t *testing.T) {
	out := Render(Build(infusion.Blood), infusion.NewFormatter(infusion.DefaultLocale), "#FF3B30")
	assert.Contains(t, out, "1h30")
	assert.Contains(t, out, "350 ml")
	assert.NotContains(t, out, "·")
}

func TestWritePDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.pdf")
	require.NoError(t, WritePDF(path, infusion.NewFormatter(infusion.DefaultLocale), Build(infusion.Solute), Build(infusion.Blood)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}
