package report

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anu-bioinfo/pathway-connectivity/internal/domain"
)

func TestWriteScores(t *testing.T) {
	rows := []domain.ScoredInteraction{
		{
			Interaction: domain.Interaction{Node1: "a", Node2: "c", Weight: 5},
			AnyPathway:  true,
			SamePathway: true,
			Bipartite:   true,
			Distance:    domain.Finite(2),
		},
		{
			Interaction: domain.Interaction{Node1: "a", Node2: "d", Weight: 9},
			AnyPathway:  true,
			Distance:    domain.Unreachable,
		},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteScores(&buf, rows))

	want := ScoreHeader + "\n" +
		"a\tc\t5\t1\t1\t1\t2\n" +
		"a\td\t9\t1\t0\t0\t-1\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteMismapped(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMismapped(&buf, []domain.Mismapping{
		{ExternalID: "P1", PrimaryID: domain.UnmappedPrimaryID, Reason: domain.ReasonNotInIdentifierMap},
		{ExternalID: "P2", PrimaryID: "PC2", Reason: domain.ReasonNotInHypergraph},
	}))
	want := "#UniProtID\tPathwayCommonsID\tMismappingReason\n" +
		"P1\tNA\tNotInIdentifierMap\n" +
		"P2\tPC2\tNotInHypergraph\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteFile_Atomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "scores.txt")

	err := WriteFile(path, func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return errors.New("boom")
	})
	require.Error(t, err)
	exists, err := Exists(path)
	require.NoError(t, err)
	assert.False(t, exists, "failed writes must not leave the artifact behind")

	require.NoError(t, WriteFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "done\n")
		return err
	}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "done\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are cleaned up")
}
