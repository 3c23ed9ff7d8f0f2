package config

import (
	"fmt"
	"os"
)

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: opening %q: %w", path, err)
	}
	return data, nil
}
