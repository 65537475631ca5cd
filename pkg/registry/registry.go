// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	err = json.Unmarshal(data, &reg)
	return &reg, err
}

// SaveRegistry writes reg as indented JSON, creating the directory.
func SaveRegistry(reg *ActivityRegistry, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

// Find returns the activity for a task type, or nil.
func (r *ActivityRegistry) Find(taskType string) *Activity {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i]
		}
	}
	return nil
}

// Upsert replaces the activity with the same ID or appends it.
func (r *ActivityRegistry) Upsert(activity Activity) {
	r.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	for i := range r.Activities {
		if r.Activities[i].ID == activity.ID {
			r.Activities[i] = activity
			return
		}
	}
	r.Activities = append(r.Activities, activity)
}

// Validate checks required fields and ID/task type uniqueness.
func (r *ActivityRegistry) Validate() error {
	if len(r.Activities) == 0 {
		return fmt.Errorf("registry contains no activities")
	}

	ids := make(map[string]bool)
	taskTypes := make(map[string]bool)
	for _, activity := range r.Activities {
		switch {
		case activity.ID == "":
			return fmt.Errorf("activity missing required field: ID")
		case activity.DisplayName == "":
			return fmt.Errorf("activity %s missing required field: DisplayName", activity.ID)
		case activity.TaskType == "":
			return fmt.Errorf("activity %s missing required field: TaskType", activity.ID)
		case activity.Category == "":
			return fmt.Errorf("activity %s missing required field: Category", activity.ID)
		}

		if ids[activity.ID] {
			return fmt.Errorf("duplicate activity ID: %s", activity.ID)
		}
		if taskTypes[activity.TaskType] {
			return fmt.Errorf("duplicate task type: %s", activity.TaskType)
		}
		ids[activity.ID] = true
		taskTypes[activity.TaskType] = true
	}
	return nil
}
