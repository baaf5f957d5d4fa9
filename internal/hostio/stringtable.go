// Package hostio provides a reference, host-memory implementation of
// the Engine's I/O Port contract (vm.IOPort). It exists purely so
// cmd/cockpitvm has something concrete to run against (the internal/vm
// tests use their own in-package fake port) — it is not a hardware
// driver; real
// GPIO/UART/ADC/clock drivers are out of scope for this module.
package hostio

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// MaxStrings and MaxStringBytes are the reference string-table
// capacities (max 32 strings x 64 bytes each).
const (
	MaxStrings    = 32
	MaxStringBytes = 64
)

// StringTable backs vm_printf's string_id argument. The concrete
// table is owned by the I/O port, never by the Engine.
type StringTable struct {
	entries [MaxStrings]string
	present [MaxStrings]bool
}

// stringManifest is the on-disk TOML shape: a flat list of {id, text}
// pairs, decoded with BurntSushi/toml. VM config files are TOML too,
// but viper reads those with its own TOML decoder.
type stringManifest struct {
	Strings []struct {
		ID   int    `toml:"id"`
		Text string `toml:"text"`
	} `toml:"strings"`
}

// NewStringTable returns an empty table.
func NewStringTable() *StringTable {
	return &StringTable{}
}

// LoadStringTableFile decodes a TOML manifest of printf format strings.
func LoadStringTableFile(path string) (*StringTable, error) {
	var manifest stringManifest
	if _, err := toml.DecodeFile(path, &manifest); err != nil {
		return nil, fmt.Errorf("hostio: decoding string table %q: %w", path, err)
	}
	return newStringTableFromManifest(manifest)
}

func newStringTableFromManifest(manifest stringManifest) (*StringTable, error) {
	t := NewStringTable()
	for _, entry := range manifest.Strings {
		if entry.ID < 0 || entry.ID >= MaxStrings {
			return nil, fmt.Errorf("hostio: string id %d out of range [0,%d)", entry.ID, MaxStrings)
		}
		if len(entry.Text) > MaxStringBytes {
			return nil, fmt.Errorf("hostio: string id %d exceeds %d bytes", entry.ID, MaxStringBytes)
		}
		t.entries[entry.ID] = entry.Text
		t.present[entry.ID] = true
	}
	return t, nil
}

// Set installs text at id. An id outside the table or a text longer than
// MaxStringBytes is rejected with an error; nothing is truncated.
func (t *StringTable) Set(id uint8, text string) error {
	if int(id) >= MaxStrings {
		return fmt.Errorf("hostio: string id %d out of range", id)
	}
	if len(text) > MaxStringBytes {
		return fmt.Errorf("hostio: string exceeds %d bytes", MaxStringBytes)
	}
	t.entries[id] = text
	t.present[id] = true
	return nil
}

// Lookup returns the format string at id, or ok=false if unset.
func (t *StringTable) Lookup(id uint8) (string, bool) {
	if int(id) >= MaxStrings || !t.present[id] {
		return "", false
	}
	return t.entries[id], true
}
