// Package configsource merges settings from environment variables, JSON or
// YAML files, JSON strings and key=value flags.
package configsource

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseKV parses a key=value pair, attempting type inference for the value
func ParseKV(kvPair string) (string, any, error) {
	key, valueStr, ok := strings.Cut(kvPair, "=")
	if !ok {
		return "", nil, fmt.Errorf("invalid format, expected key=value: %s", kvPair)
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return "", nil, fmt.Errorf("empty key in key=value pair")
	}

	return key, inferValue(strings.TrimSpace(valueStr)), nil
}

func inferValue(s string) any {
	// Integers first so "1" is not read as boolean true
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	if s == "true" || s == "false" {
		return s == "true"
	}
	return s
}

// ParseJSON parses a JSON string into a map or other structure
func ParseJSON(jsonStr string) (any, error) {
	var result any
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return result, nil
}

// ParseFile reads a JSON file, or a YAML file when the extension is .yaml or .yml
func ParseFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var result any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &result); err != nil {
			return nil, fmt.Errorf("invalid YAML in file %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &result); err != nil {
			return nil, fmt.Errorf("invalid JSON in file %s: %w", path, err)
		}
	}
	return result, nil
}

// ParseEnv reads PREFIX as a JSON object and PREFIX_KEY=value variables.
// Keys are lower-cased; PREFIX_* values win over the JSON object.
func ParseEnv(prefix string) map[string]any {
	values := make(map[string]any)

	if jsonStr := os.Getenv(prefix); jsonStr != "" {
		if parsed, err := ParseJSON(jsonStr); err == nil {
			if m, ok := parsed.(map[string]any); ok {
				maps.Copy(values, m)
			}
		}
	}

	envPrefix := prefix + "_"
	for _, env := range os.Environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, envPrefix) || value == "" {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(name, envPrefix))
		values[key] = inferValue(value)
	}

	if len(values) == 0 {
		return nil
	}
	return values
}

// Merge merges sources; later sources override earlier ones. A lone non-map
// source (a JSON array, say) is returned as-is.
func Merge(sources ...any) any {
	result := make(map[string]any)

	for _, src := range sources {
		switch v := src.(type) {
		case nil:
		case map[string]any:
			maps.Copy(result, v)
		default:
			if len(result) == 0 {
				return v
			}
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}

// Build merges, in increasing precedence: env vars under envPrefix, the
// file at filePath, the JSON string and the key=value pairs.
func Build(envPrefix, jsonStr string, kvPairs []string, filePath string) (any, error) {
	var sources []any

	if env := ParseEnv(envPrefix); env != nil {
		sources = append(sources, env)
	}

	if filePath != "" {
		fileSrc, err := ParseFile(filePath)
		if err != nil {
			return nil, err
		}
		sources = append(sources, fileSrc)
	}

	if jsonStr != "" {
		jsonSrc, err := ParseJSON(jsonStr)
		if err != nil {
			return nil, err
		}
		sources = append(sources, jsonSrc)
	}

	if len(kvPairs) > 0 {
		kv := make(map[string]any)
		for _, pair := range kvPairs {
			key, value, err := ParseKV(pair)
			if err != nil {
				return nil, err
			}
			kv[key] = value
		}
		sources = append(sources, kv)
	}

	return Merge(sources...), nil
}

// BuildMap is Build for settings that must form an object.
func BuildMap(envPrefix, jsonStr string, kvPairs []string, filePath string) (map[string]any, error) {
	result, err := Build(envPrefix, jsonStr, kvPairs, filePath)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return make(map[string]any), nil
	}
	m, ok := result.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("configuration must be an object/map")
	}
	return m, nil
}
