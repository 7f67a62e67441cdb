package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	flowerrors "github.com/flowforge/flowforge/pkg/errors"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// LoadFile reads a workflow configuration document from disk, parses it, and
// runs schema-level validation (§10.3 — distinct from, and layered under,
// the semantic Validator Pipeline of §4.C4).
func LoadFile(path string) (*WorkflowConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, flowerrors.NewConfigError(path, err.Error(), err)
	}
	return Parse(data, path)
}

// Parse decodes a YAML document into a WorkflowConfig and runs schema-level
// validation. path is used only for diagnostic messages and may be empty.
func Parse(data []byte, path string) (*WorkflowConfig, error) {
	var cfg WorkflowConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, flowerrors.NewConfigError(path, fmt.Sprintf("yaml:%d: %v", extractLine(err), err), err)
	}

	if err := ValidateSchema(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	if _, scanErr := fmt.Sscanf(matches[1], "%d", &line); scanErr != nil {
		return 0
	}

	return line
}
