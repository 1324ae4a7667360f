package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseStudyYAML parses a StudyConfig from YAML bytes and validates it.
// This is used where the study definition is provided as payload rather
// than via the filesystem.
func ParseStudyYAML(data []byte) (*StudyConfig, error) {
	var cfg StudyConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse study yaml: %w", err)
	}
	if err := validateStudyConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid study config: %w", err)
	}
	return &cfg, nil
}

// ParseStudyYAMLString parses a StudyConfig from a YAML string and validates it.
func ParseStudyYAMLString(yamlText string) (*StudyConfig, error) {
	return ParseStudyYAML([]byte(yamlText))
}

// MarshalStudyYAML serializes a StudyConfig back to YAML.
func MarshalStudyYAML(cfg *StudyConfig) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal study config: %w", err)
	}
	return data, nil
}
