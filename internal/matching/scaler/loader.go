package scaler

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// artifactSchema checks the shape of the artifact. Length and range rules are
// enforced by New so that every violation is reported with its field name.
const artifactSchema = `{
	"type": "object",
	"required": ["feature_names", "mean", "scale", "k", "metric"],
	"properties": {
		"version": {"type": "string"},
		"feature_names": {"type": "array", "items": {"type": "string"}},
		"mean": {"type": "array", "items": {"type": "number"}},
		"scale": {"type": "array", "items": {"type": "number"}},
		"k": {"type": "integer"},
		"metric": {"type": "string"}
	}
}`

// Load reads and validates the scaler artifact at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrInvalidConfig, path, err)
	}
	return Parse(data)
}

// Parse validates a JSON scaler artifact and builds the Config.
func Parse(data []byte) (*Config, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(artifactSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if !result.Valid() {
		msgs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			msgs[i] = desc.String()
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
	}

	var p Params
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return New(p)
}
