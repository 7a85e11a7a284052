package project

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is an import/export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, yaml, or yml.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown format %q (must be json or yaml)", s)
}

// FormatForPath guesses the format from a file extension, defaulting to JSON.
func FormatForPath(path string) Format {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
		return FormatYAML
	}
	return FormatJSON
}

// Encode writes projects as a list in the given format.
func Encode(w io.Writer, projects []Project, format Format) error {
	if projects == nil {
		projects = []Project{}
	}
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(projects); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(projects)
	}
}

// Decode reads a list of projects in the given format.
func Decode(r io.Reader, format Format) ([]Project, error) {
	var projects []Project
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&projects); err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		if err := json.NewDecoder(r).Decode(&projects); err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	}
	return projects, nil
}
