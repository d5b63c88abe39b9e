package taxonomy

import (
	"encoding/json"
	"fmt"
	"os"
)

// tableFile is the on-disk shape of a taxonomy table. Entry order in the
// file is the canonical priority order.
type tableFile struct {
	Name    string  `json:"name"`
	Version string  `json:"version"`
	Entries []Entry `json:"entries"`
}

// LoadTable reads a taxonomy table from a JSON file. Adding an alias is a
// config change only; classification logic never needs to be touched.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy file: %w", err)
	}

	var tf tableFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy file %s: %w", path, err)
	}
	if tf.Name == "" {
		tf.Name = path
	}

	return NewTable(tf.Name, tf.Entries)
}
