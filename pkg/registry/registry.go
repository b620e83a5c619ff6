// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"adoption-workers/internal/common/validation"

	"go.uber.org/multierr"
)

// ActivityRegistry is the on-disk catalogue of every matching and
// application task this service can serve.
type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

// Activity binds a Zeebe task type to the schema its job variables must
// satisfy and the BPMN error codes its worker may throw.
type Activity struct {
	ID                   string                 `json:"id"`
	DisplayName          string                 `json:"displayName"`
	Description          string                 `json:"description"`
	Category             string                 `json:"category"`
	Version              string                 `json:"version"`
	TaskType             string                 `json:"taskType"`
	ImplementationStatus string                 `json:"implementationStatus"`
	InputSchema          map[string]interface{} `json:"inputSchema"`
	OutputSchema         map[string]interface{} `json:"outputSchema,omitempty"`
	ErrorCodes           []string               `json:"errorCodes"`
	Timeout              string                 `json:"timeout"`
	Retries              int                    `json:"retries"`
	Tags                 []string               `json:"tags,omitempty"`
}

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	return &reg, nil
}

// Lookup finds the activity bound to a Zeebe task type.
func (r *ActivityRegistry) Lookup(taskType string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

// InputSchema compiles the input schema of taskType. Activities without a
// schema yield nil.
func (r *ActivityRegistry) InputSchema(taskType string) (*validation.Schema, error) {
	a, ok := r.Lookup(taskType)
	if !ok {
		return nil, fmt.Errorf("task type %q is not registered", taskType)
	}
	if len(a.InputSchema) == 0 {
		return nil, nil
	}
	return validation.Compile(a.InputSchema)
}

// Validate reports every contract violation in the registry.
func (r *ActivityRegistry) Validate() error {
	var errs error
	if len(r.Activities) == 0 {
		errs = multierr.Append(errs, fmt.Errorf("registry has no activities"))
	}

	seenIDs := map[string]bool{}
	seenTypes := map[string]bool{}
	for _, a := range r.Activities {
		if err := validation.ValidateActivityNaming(a.ID); err != nil {
			errs = multierr.Append(errs, err)
		}
		if seenIDs[a.ID] {
			errs = multierr.Append(errs, fmt.Errorf("duplicate activity id %q", a.ID))
		}
		seenIDs[a.ID] = true

		if a.TaskType == "" {
			errs = multierr.Append(errs, fmt.Errorf("activity %q has no taskType", a.ID))
		} else if seenTypes[a.TaskType] {
			errs = multierr.Append(errs, fmt.Errorf("duplicate task type %q", a.TaskType))
		}
		seenTypes[a.TaskType] = true

		if a.Timeout != "" {
			if _, err := time.ParseDuration(a.Timeout); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("activity %q timeout: %w", a.ID, err))
			}
		}
		if a.Retries < 0 {
			errs = multierr.Append(errs, fmt.Errorf("activity %q has negative retries", a.ID))
		}
		if len(a.InputSchema) > 0 {
			if _, err := validation.Compile(a.InputSchema); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("activity %q input schema: %w", a.ID, err))
			}
		}
	}
	return errs
}

// Save writes the registry as indented JSON, stamping LastUpdated.
func (r *ActivityRegistry) Save(path string) error {
	r.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	data, err := json.MarshalIndent(r, "", "  ")
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
