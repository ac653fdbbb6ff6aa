package main

import (
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pro-discovery/pkg/registry"
)

func TestRender_BuiltinActivities(t *testing.T) {
	for _, activity := range registry.Default().Activities {
		t.Run(activity.TaskType, func(t *testing.T) {
			files, err := Render(activity)
			require.NoError(t, err)
			require.Len(t, files, 4)

			for name, src := range files {
				_, err := parser.ParseFile(token.NewFileSet(), name, src, parser.AllErrors)
				assert.NoError(t, err, name)
			}
			assert.Contains(t, string(files["handler.go"]), `const TaskType = "`+activity.TaskType+`"`)
		})
	}
}

func TestRender_Fields(t *testing.T) {
	activity := registry.Activity{
		ID:          "rank-by-distance",
		DisplayName: "Rank By Distance",
		TaskType:    "rank-by-distance",
		Timeout:     "1500ms",
		InputSchema: map[string]interface{}{
			"properties": map[string]interface{}{
				"profiles": map[string]interface{}{"type": "array"},
				"radiusKm": map[string]interface{}{"type": []interface{}{"null", "number"}},
			},
		},
		OutputSchema: map[string]interface{}{
			"properties": map[string]interface{}{
				"count": map[string]interface{}{"type": "integer"},
			},
		},
	}

	files, err := Render(activity)
	require.NoError(t, err)

	models := string(files["models.go"])
	assert.Contains(t, models, "package rankbydistance")
	assert.Regexp(t, "Profiles +\\[\\]interface\\{\\} +`json:\"profiles\"`", models)
	assert.Regexp(t, "RadiusKm +float64 +`json:\"radiusKm\"`", models)
	assert.Regexp(t, "Count +int +`json:\"count\"`", models)
	assert.Contains(t, string(files["config.go"]), "1500 * time.Millisecond")
}

func TestGoDuration(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"30s", "30 * time.Second"},
		{"250ms", "250 * time.Millisecond"},
		{"", "10 * time.Second"},
		{"soon", "10 * time.Second"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, goDuration(tt.in))
		})
	}
}
