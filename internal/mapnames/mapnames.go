package mapnames

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// defaultJapanese is the built-in English to Japanese table
var defaultJapanese = map[string]string{
	"Olympus":      "オリンパス",
	"Storm Point":  "ストームポイント",
	"World's Edge": "ワールズエッジ",
	"Worlds Edge":  "ワールズエッジ",
	"Broken Moon":  "ブロークンムーン",
	"Kings Canyon": "キングスキャニオン",
	"E-District":   "E-ディストリクト",
}

// Table is an immutable lookup from English map name to display name
type Table struct {
	names map[string]string
}

// New builds a table from the given entries. The map is copied.
func New(entries map[string]string) *Table {
	names := make(map[string]string, len(entries))
	for en, local := range entries {
		en = strings.TrimSpace(en)
		if en == "" {
			continue
		}
		names[en] = local
	}
	return &Table{names: names}
}

// Default returns the built-in Japanese table
func Default() *Table {
	return New(defaultJapanese)
}

// With returns a new table holding t's entries plus overrides
func (t *Table) With(overrides map[string]string) *Table {
	merged := make(map[string]string, len(t.names)+len(overrides))
	for k, v := range t.names {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return New(merged)
}

// Localize returns the display name for name, or name itself when unknown.
// Typographic apostrophes are looked up as straight ones.
func (t *Table) Localize(name string) string {
	if t == nil {
		return name
	}
	if local, ok := t.names[name]; ok && local != "" {
		return local
	}
	if alt := strings.ReplaceAll(name, "\u2019", "'"); alt != name {
		if local, ok := t.names[alt]; ok && local != "" {
			return local
		}
	}
	return name
}

// Len returns the number of entries
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.names)
}

// LoadFile reads a YAML mapping of English name to display name and merges
// it over the default table.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading map names: %w", err)
	}

	var overrides map[string]string
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("parsing map names: %w", err)
	}

	return Default().With(overrides), nil
}
