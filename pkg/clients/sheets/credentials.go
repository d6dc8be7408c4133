package sheets

import (
	"encoding/base64"
	"fmt"
	"os"
)

// LoadCredentials returns the raw service-account JSON. Deployments provide
// it inline as a base64-encoded value; local development reads it from a
// credentials file.
func LoadCredentials(cfg Config) ([]byte, error) {
	if cfg.CredsJSON != "" {
		data, err := base64.StdEncoding.DecodeString(cfg.CredsJSON)
		if err != nil {
			return nil, fmt.Errorf("failed to decode inline credentials: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(cfg.CredsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	return data, nil
}
