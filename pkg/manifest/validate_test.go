package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ReportsProblems_When_ManifestMalformed(t *testing.T) {
	t.Parallel()

	m := &Manifest{
		Hud: HudConfig{Elements: []HudElementDef{
			{ID: "a", Type: "label"},
			{ID: "a", Type: "label"},
			{ID: "", Type: ""},
			{ID: "b", Type: "progressBar", DataSource: &DataSourceDef{Pattern: "(unclosed"}},
			{ID: "c", Type: "progressBar", DataSource: &DataSourceDef{
				Pattern: `(\d+)`,
				Mapping: FieldMapping{{Field: "max", Template: "$2"}},
			}},
		}},
		Notifications: &NotificationConfig{Patterns: []NotificationPattern{{Match: "[bad"}}},
	}

	problems := Validate(m)
	messages := make([]string, 0, len(problems))
	for _, p := range problems {
		messages = append(messages, p.Path+" "+p.Message)
	}

	require.Len(t, problems, 6, "%v", messages)
	assert.Contains(t, messages[0], "duplicate id")
	assert.Contains(t, messages[1], "missing id")
	assert.Contains(t, messages[2], "missing type")
	assert.Contains(t, messages[3], "invalid pattern")
	assert.Contains(t, messages[4], "references $2")
	assert.Contains(t, messages[5], "invalid match pattern")
}

func TestValidate_ReturnsNothing_When_ManifestClean(t *testing.T) {
	t.Parallel()

	m, err := Parse([]byte(bloodcraftJSON), FormatJSON)
	require.NoError(t, err)
	assert.Empty(t, Validate(m))
}
