// Package idmap translates between the hypergraph identifier namespace
// (primary ids, e.g. Pathway Commons) and an external namespace (e.g.
// UniProt accessions).
package idmap

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Mapper is a bidirectional identifier lookup. Lookups never fail; a missing
// identifier is reported through the boolean result.
type Mapper struct {
	toPrimary  map[string]string
	toExternal map[string]string
	duplicates int
}

// New returns an empty Mapper.
func New() *Mapper {
	return &Mapper{
		toPrimary:  make(map[string]string),
		toExternal: make(map[string]string),
	}
}

// Load reads a mapping file.
func Load(path string) (*Mapper, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open identifier map: %w", err)
	}
	defer f.Close()

	m, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read identifier map %s: %w", path, err)
	}
	return m, nil
}

// Read parses whitespace-separated "primary external" rows; # lines are
// skipped. The first mapping of an identifier wins in either direction.
func Read(r io.Reader) (*Mapper, error) {
	m := New()
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if strings.HasPrefix(text, "#") {
			continue
		}
		row := strings.Fields(text)
		if len(row) == 0 {
			continue
		}
		if len(row) < 2 {
			return nil, fmt.Errorf("line %d: expected 2 columns, got %d", line, len(row))
		}
		m.Add(row[0], row[1])
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// Add records primary <-> external unless either side is already mapped.
func (m *Mapper) Add(primary, external string) {
	_, dupPrimary := m.toExternal[primary]
	_, dupExternal := m.toPrimary[external]
	if dupPrimary || dupExternal {
		m.duplicates++
	}
	if !dupExternal {
		m.toPrimary[external] = primary
	}
	if !dupPrimary {
		m.toExternal[primary] = external
	}
}

// ToPrimary maps an external identifier into the hypergraph namespace.
func (m *Mapper) ToPrimary(external string) (string, bool) {
	id, ok := m.toPrimary[external]
	return id, ok
}

// ToExternal maps a hypergraph identifier to the external namespace.
func (m *Mapper) ToExternal(primary string) (string, bool) {
	id, ok := m.toExternal[primary]
	return id, ok
}

// Len returns the number of mapped external identifiers.
func (m *Mapper) Len() int { return len(m.toPrimary) }

// Duplicates returns how many rows repeated an already mapped identifier.
func (m *Mapper) Duplicates() int { return m.duplicates }
