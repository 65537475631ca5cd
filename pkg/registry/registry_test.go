// pkg/registry/registry_test.go
package registry

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activity(id string) Activity {
	return Activity{ID: id, DisplayName: id, TaskType: id, Category: "leads"}
}

func TestRegistry_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "activity-registry.json")
	reg := &ActivityRegistry{Version: "1.0.0"}
	reg.Upsert(activity("compute-lead-score"))

	require.NoError(t, SaveRegistry(reg, path))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	require.Len(t, loaded.Activities, 1)
	assert.NotEmpty(t, loaded.LastUpdated)
	assert.NotNil(t, loaded.Find("compute-lead-score"))
	assert.Nil(t, loaded.Find("email-send"))
}

func TestRegistry_Upsert(t *testing.T) {
	reg := &ActivityRegistry{}
	reg.Upsert(activity("a"))

	updated := activity("a")
	updated.Version = "2.0.0"
	reg.Upsert(updated)
	reg.Upsert(activity("b"))

	require.Len(t, reg.Activities, 2)
	assert.Equal(t, "2.0.0", reg.Activities[0].Version)
}

func TestRegistry_Validate(t *testing.T) {
	missingCategory := activity("c")
	missingCategory.Category = ""

	sameTaskType := activity("d")
	sameTaskType.TaskType = "a"

	tests := []struct {
		name    string
		reg     ActivityRegistry
		wantErr string
	}{
		{name: "valid", reg: ActivityRegistry{Activities: []Activity{activity("a"), activity("b")}}},
		{name: "empty", reg: ActivityRegistry{}, wantErr: "no activities"},
		{name: "missing category", reg: ActivityRegistry{Activities: []Activity{missingCategory}}, wantErr: "Category"},
		{name: "duplicate id", reg: ActivityRegistry{Activities: []Activity{activity("a"), activity("a")}}, wantErr: "duplicate activity ID"},
		{name: "duplicate task type", reg: ActivityRegistry{Activities: []Activity{activity("a"), sameTaskType}}, wantErr: "duplicate task type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.reg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
