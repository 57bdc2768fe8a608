package light

import (
	"encoding/json"
	"testing"

	"github.com/Carmen-Shannon/oxy-city/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectionalPointsAtOrigin(t *testing.T) {
	l := NewLight(LightTypeDirectional, WithPosition(0, 10, 0))
	assert.InDelta(t, -1, l.Direction().Y, 1e-6)
	assert.InDelta(t, 1, l.Direction().Len(), 1e-6)
}

func TestNewRigByTheme(t *testing.T) {
	day := NewRig(common.ThemeDay)
	night := NewRig(common.ThemeNight)

	assert.Equal(t, float32(0.4), day.Ambient.Intensity())
	assert.Equal(t, float32(1), day.Directional.Intensity())
	assert.Equal(t, common.V3(20, 30, 20), day.Directional.Position())
	require.Len(t, day.Points, 1)
	assert.Equal(t, float32(0.3), day.Points[0].Intensity())

	assert.Less(t, night.Ambient.Intensity(), day.Ambient.Intensity())
	assert.Less(t, night.Directional.Intensity(), day.Directional.Intensity())
}

func TestWithPointsTruncates(t *testing.T) {
	rig := NewRig(common.ThemeNight)
	extra := make([]Light, MaxPointLights+5)
	for i := range extra {
		extra[i] = NewLight(LightTypePoint)
	}
	out := rig.WithPoints(extra...)
	assert.Len(t, out.Points, MaxPointLights)
	assert.Len(t, rig.Points, 1, "receiver is not modified")
}

func TestLightJSON(t *testing.T) {
	b, err := json.Marshal(NewLight(LightTypePoint, WithRange(12)))
	require.NoError(t, err)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(b, &snap))
	assert.Equal(t, "point", snap.Type)
	assert.Equal(t, float32(12), snap.Range)
}
