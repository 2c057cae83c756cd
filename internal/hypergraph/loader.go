package hypergraph

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// File suffixes appended to a hypergraph prefix.
const (
	HypernodeSuffix = "-hypernodes.txt"
	EntitySetSuffix = "-entitysets.txt"
	HyperedgeSuffix = "-hyperedges.txt"
	NodeSuffix      = "-nodes.txt"
)

// EmptySet is written in place of an empty tail or head.
const EmptySet = "None"

// Load reads a hypergraph from the files sharing prefix. Hypernode and
// hyperedge files are required; entity set and singleton node files are
// optional.
func Load(prefix string) (*Hypergraph, error) {
	h := New()

	steps := []struct {
		suffix   string
		required bool
		read     func(*Hypergraph, io.Reader) error
	}{
		{NodeSuffix, false, readNodes},
		{HypernodeSuffix, true, aggregateReader(Hypernode)},
		{EntitySetSuffix, false, aggregateReader(EntitySet)},
		{HyperedgeSuffix, true, readHyperedges},
	}

	for _, step := range steps {
		path := prefix + step.suffix
		if err := readFile(h, path, step.read); err != nil {
			if !step.required && errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
	}
	return h, nil
}

func readFile(h *Hypergraph, path string, read func(*Hypergraph, io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if err := read(h, f); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}

func readNodes(h *Hypergraph, r io.Reader) error {
	return eachRow(r, func(_ int, row []string) error {
		return h.AddNode(row[0], Primitive)
	})
}

func aggregateReader(kind NodeKind) func(*Hypergraph, io.Reader) error {
	return func(h *Hypergraph, r io.Reader) error {
		return eachRow(r, func(line int, row []string) error {
			var members []string
			if len(row) > 1 {
				members = splitSet(row[1])
			}
			if err := h.AddNode(row[0], kind, members...); err != nil {
				return fmt.Errorf("line %d: %w", line, err)
			}
			return nil
		})
	}
}

func readHyperedges(h *Hypergraph, r io.Reader) error {
	return eachRow(r, func(line int, row []string) error {
		if len(row) < 2 {
			return fmt.Errorf("line %d: expected tail and head columns, got %d", line, len(row))
		}
		if _, err := h.AddHyperedge(splitSet(row[0]), splitSet(row[1])); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		return nil
	})
}

// eachRow calls fn with the tab-separated columns of every non-comment line.
func eachRow(r io.Reader, fn func(line int, row []string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(text) == "" || strings.HasPrefix(text, "#") {
			continue
		}
		row := strings.Split(text, "\t")
		for i := range row {
			row[i] = strings.TrimSpace(row[i])
		}
		if row[0] == "" && len(row) == 1 {
			continue
		}
		if err := fn(line, row); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func splitSet(col string) []string {
	col = strings.TrimSpace(col)
	if col == "" || col == EmptySet {
		return nil
	}
	var out []string
	for _, part := range strings.Split(col, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
