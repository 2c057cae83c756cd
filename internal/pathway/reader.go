package pathway

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileSuffix marks pathway member files: <name>-hypernodes.txt.
const FileSuffix = "-hypernodes.txt"

// ReadDir reads every pathway file in dir and returns the raw identifiers
// listed for each pathway, keyed by pathway name.
func ReadDir(dir string) (map[string][]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*"+FileSuffix))
	if err != nil {
		return nil, fmt.Errorf("list pathway files: %w", err)
	}
	sort.Strings(paths)

	out := make(map[string][]string, len(paths))
	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), FileSuffix)
		ids, err := readFile(path)
		if err != nil {
			return nil, err
		}
		out[name] = ids
	}
	return out, nil
}

func readFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pathway %s: %w", path, err)
	}
	defer f.Close()

	ids, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read pathway %s: %w", path, err)
	}
	return ids, nil
}

// Read parses one pathway file. Lines starting with # are ignored; each data
// line holds an identifier and an optional ;-separated member column.
func Read(r io.Reader) ([]string, error) {
	var ids []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		row := strings.Fields(line)
		if len(row) == 0 {
			continue
		}
		ids = append(ids, row[0])
		if len(row) > 1 {
			for _, m := range strings.Split(row[1], ";") {
				if m != "" {
					ids = append(ids, m)
				}
			}
		}
	}
	return ids, scanner.Err()
}
