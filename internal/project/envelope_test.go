package project_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelcut/internal/project"
	"reelcut/internal/services"
)

const validEnvelope = `{
  "version": 1,
  "project": {"id": "p1", "name": "Demo", "created_at": "2026-01-01T00:00:00Z", "updated_at": "2026-01-02T00:00:00Z"},
  "assets": [{"id": "a1", "kind": "video", "duration": 10, "imported_at": "2026-01-01T00:00:00Z"}],
  "clips": [{
    "id": "c1", "media_id": "a1", "track": "video",
    "timeline_start": 0, "timeline_end": 4, "trim_start": 1, "trim_end": 5,
    "volume": 100,
    "filters": {"brightness": 100, "contrast": 100, "saturation": 100, "kind": "none"},
    "transition": "fade"
  }],
  "overlays": [{"id": "o1", "kind": "text", "content": "Hi", "x": 1, "y": 2, "width": 3, "height": 4, "start": 0, "end": 5, "font_size": 24, "color": "#FFFFFF"}]
}`

func TestParseValidEnvelope(t *testing.T) {
	env, err := project.Parse([]byte(validEnvelope))
	require.NoError(t, err)
	assert.Equal(t, project.CurrentVersion, env.Version)
	assert.Equal(t, "Demo", env.Project.Name)
	require.Len(t, env.Clips, 1)
	assert.Equal(t, 5.0, env.Clips[0].TrimEnd)

	session, err := project.Restore(env, project.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, session.ClipCount())
}

func TestParseRejectsSchemaViolations(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"not json":       "{",
		"wrong version":  `{"version": 2, "project": {"id": "p", "name": "", "created_at": "", "updated_at": ""}, "assets": [], "clips": [], "overlays": []}`,
		"missing clips":  `{"version": 1, "project": {"id": "p", "name": "", "created_at": "", "updated_at": ""}, "assets": [], "overlays": []}`,
		"unknown filter": strings.Replace(validEnvelope, `"kind": "none"`, `"kind": "vhs"`, 1),
		"volume range":   strings.Replace(validEnvelope, `"volume": 100`, `"volume": 250`, 1),
		"bad color":      strings.Replace(validEnvelope, `"#FFFFFF"`, `"white"`, 1),
		"extra field":    strings.Replace(validEnvelope, `"volume": 100`, `"volume": 100, "speed": 2`, 1),
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := project.Parse([]byte(raw))
			require.ErrorIs(t, err, services.ErrValidation)
		})
	}
}
