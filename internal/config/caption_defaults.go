package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/phambaophuc/image-captioning/internal/models"
	"gopkg.in/yaml.v3"
)

// envVarPattern matches ${VAR_NAME} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// LoadCaptionDefaults reads caption style defaults from a YAML file. Keys left
// out of the file keep the values in base. A missing file is an error because
// the path was set explicitly.
//
//	font_size: 28
//	text_color: "${CAPTION_COLOR}"
//	outline: false
//	output: jpeg
func LoadCaptionDefaults(path string, base models.CaptionOptions) (models.CaptionOptions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("failed to read caption config: %w", err)
	}

	overrides := base
	overrides.Outline = nil
	if err := yaml.Unmarshal([]byte(expandEnvVars(string(data))), &overrides); err != nil {
		return base, fmt.Errorf("failed to parse caption config: %w", err)
	}

	return overrides.Normalize(base), nil
}

// expandEnvVars replaces ${VAR_NAME} with environment variable values.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		return os.Getenv(varName)
	})
}
