package interaction

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/anu-bioinfo/pathway-connectivity/internal/domain"
)

// ErrMalformedRow is returned for rows without the expected columns. It is
// fatal: a run never scores a partially read file.
var ErrMalformedRow = errors.New("malformed interaction row")

// Columns locates the identifier and weight fields (0-based) within a
// whitespace-delimited row.
type Columns struct {
	Node1  int
	Node2  int
	Weight int
}

// DefaultColumns matches the processed STRING channel files: two protein
// identifiers in columns 2 and 3 and an integer score in column 4.
var DefaultColumns = Columns{Node1: 2, Node2: 3, Weight: 4}

func (c Columns) width() int {
	return max(c.Node1, c.Node2, c.Weight) + 1
}

// ReadFile reads all interactions from path.
func ReadFile(path string, cols Columns) ([]domain.Interaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open interactions: %w", err)
	}
	defer f.Close()

	out, err := Read(f, cols)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// Read parses interaction rows in input order. Blank lines and lines starting
// with # are skipped.
func Read(r io.Reader, cols Columns) ([]domain.Interaction, error) {
	var out []domain.Interaction
	width := cols.width()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
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
		if len(row) < width {
			return nil, fmt.Errorf("%w: line %d has %d columns, need %d", ErrMalformedRow, line, len(row), width)
		}
		weight, err := strconv.Atoi(row[cols.Weight])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d weight %q: %v", ErrMalformedRow, line, row[cols.Weight], err)
		}
		out = append(out, domain.Interaction{
			Node1:  row[cols.Node1],
			Node2:  row[cols.Node2],
			Weight: weight,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
