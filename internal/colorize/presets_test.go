package colorize

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/plyview/internal/pointcloud"
)

func newCloud(t *testing.T) *pointcloud.PointCloud {
	t.Helper()
	pc, err := pointcloud.New(
		[]string{"x", "y", "z", "red", "green", "blue", "scalar_attributions", "scalar_class", "scalar_ground_truth"},
		[][]float32{
			{0, 1, 2, 3},
			{0, 1, 2, 3},
			{0, 1, 2, 3},
			{255, 0, 0, 51},
			{0, 255, 0, 51},
			{0, 0, 255, 51},
			{-0.4, 0.1, 0, 0.9},
			{2, 2, 7, 12},
			{2, 3, 7, 7},
		},
	)
	require.NoError(t, err)
	return pc
}

func TestApplyRGB(t *testing.T) {
	res, err := Apply(newCloud(t), PresetRGB, DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, RGB{1, 0, 0}, res.Colors[0])
	assert.InDelta(t, 0.2, res.Colors[3].G, 1e-6)
}

func TestApplyClassPresetsShareColors(t *testing.T) {
	pc := newCloud(t)
	s := DefaultSettings()
	pred, err := Apply(pc, PresetClass, s)
	require.NoError(t, err)
	gt, err := Apply(pc, PresetGroundTruth, s)
	require.NoError(t, err)

	// class 7 is at index 2 in both columns and must look the same
	assert.Equal(t, pred.Colors[2], gt.Colors[2])
	// union of ids is {2,3,7,12}; 3 only occurs in ground truth
	pal, _ := Palette("observable10")
	assert.Equal(t, pal.Palette[1], gt.Colors[1])
	assert.Equal(t, pal.Palette[3], pred.Colors[3])
	assert.Empty(t, pred.Unmapped)
}

func TestApplyAttributions(t *testing.T) {
	pc := newCloud(t)
	s := DefaultSettings()
	s.PercentileLow, s.PercentileHigh = 0, 100

	res, err := Apply(pc, PresetAttributions, s)
	require.NoError(t, err)
	assert.Equal(t, Legend{Min: float64(float32(-0.4)), Mid: 0, Max: float64(float32(0.9)), Mode: Diverging}, res.Legend)

	s.SaliencyColormap = "inferno"
	res, err = Apply(pc, PresetAttributions, s)
	require.NoError(t, err)
	assert.Equal(t, Sequential, res.Legend.Mode)
	assert.Equal(t, 0.0, res.Legend.Min)
}

func TestApplyMissingAttribute(t *testing.T) {
	_, err := Apply(newCloud(t), PresetCurvature, DefaultSettings())
	require.Error(t, err)
	assert.True(t, errors.Is(err, pointcloud.ErrMissingAttribute))
	var mae *pointcloud.MissingAttributeError
	require.True(t, errors.As(err, &mae))
	assert.Equal(t, "curvature", mae.Name)
}

func TestSettingsUnknownColormap(t *testing.T) {
	s := DefaultSettings()
	s.CurvatureColormap = "jet"
	_, err := s.Config(PresetCurvature)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestParsePreset(t *testing.T) {
	p, err := ParsePreset("Saliency")
	require.NoError(t, err)
	assert.Equal(t, PresetAttributions, p)
	_, err = ParsePreset("normals")
	assert.Error(t, err)
}

func TestClassLabelAndGradient(t *testing.T) {
	assert.Equal(t, "Wall", ClassLabel(2))
	assert.Equal(t, "42", ClassLabel(42))

	viridis, ok := Colormap("viridis")
	require.True(t, ok)
	g := Gradient(viridis, 20)
	require.Len(t, g, 20)
	assert.Equal(t, "#440154", g[0].Hex())
	assert.Equal(t, "#fde725", g[19].Hex())
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#ff0000")
	require.NoError(t, err)
	assert.Equal(t, RGB{1, 0, 0}, c)
	r, g, b := c.Bytes()
	assert.Equal(t, [3]uint8{255, 0, 0}, [3]uint8{r, g, b})
	_, err = ParseHex("red")
	assert.Error(t, err)
}
