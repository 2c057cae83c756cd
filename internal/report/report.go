package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/anu-bioinfo/pathway-connectivity/internal/domain"
)

const (
	ScoreHeader     = "#Node1\tNode2\tScore\tAnyPathway\tSamePathway\tBipartite\tBRelaxDist"
	MismappedHeader = "#UniProtID\tPathwayCommonsID\tMismappingReason"

	// UnreachableDistance renders an unreachable relaxation distance.
	UnreachableDistance = -1
)

// WriteScores writes the score report, one row per interaction in order.
func WriteScores(w io.Writer, rows []domain.ScoredInteraction) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, ScoreHeader); err != nil {
		return err
	}
	for _, r := range rows {
		_, err := fmt.Fprintf(bw, "%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
			r.Node1, r.Node2, r.Weight,
			flag(r.AnyPathway), flag(r.SamePathway), flag(r.Bipartite),
			Distance(r.Distance),
		)
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteMismapped writes the mismapped endpoint report.
func WriteMismapped(w io.Writer, rows []domain.Mismapping) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, MismappedHeader); err != nil {
		return err
	}
	for _, m := range rows {
		if _, err := fmt.Fprintf(bw, "%s\t%s\t%s\n", m.ExternalID, m.PrimaryID, m.Reason); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Distance renders d as its round count, or -1 when unreachable.
func Distance(d domain.Distance) int {
	if rounds, ok := d.Rounds(); ok {
		return rounds
	}
	return UnreachableDistance
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}

// WriteFile writes path atomically: content goes to a temporary file in the
// same directory which is renamed into place only after write succeeds.
func WriteFile(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}

// Exists reports whether an output artifact is already present.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, err
	}
}
