package conf

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// redacted replaces secrets in YAML output
const redacted = "[REDACTED]"

// MarshalYAMLConfig renders the effective settings as YAML with secrets redacted.
func (s *Settings) MarshalYAMLConfig() ([]byte, error) {
	out := *s
	if out.Output.MySQL.Password != "" {
		out.Output.MySQL.Password = redacted
	}

	data, err := yaml.Marshal(&out)
	if err != nil {
		return nil, fmt.Errorf("error marshaling settings to YAML: %w", err)
	}
	return data, nil
}
