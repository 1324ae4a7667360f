package config

import (
	"fmt"
	"os"
)

// LoadStudy loads and parses a study configuration file.
func LoadStudy(path string) (*StudyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read study file %s: %w", path, err)
	}
	cfg, err := ParseStudyYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse study file %s: %w", path, err)
	}
	return cfg, nil
}
