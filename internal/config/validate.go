package config

import "fmt"

// Validate performs syntactic validation on raw config
func Validate(raw *RawConfig) error {
	return validateRawSyntax(raw)
}

// validateRawSyntax performs basic syntactic validation on raw config
func validateRawSyntax(raw *RawConfig) error {
	if raw.Server.Port < 0 {
		return fmt.Errorf("server port cannot be negative: %d", raw.Server.Port)
	}
	if raw.Elasticsearch.Timeout < 0 {
		return fmt.Errorf("elasticsearch timeout cannot be negative: %s", raw.Elasticsearch.Timeout)
	}
	if raw.Elasticsearch.Password != "" && raw.Elasticsearch.Username == "" {
		return fmt.Errorf("elasticsearch password given without username")
	}
	return nil
}
