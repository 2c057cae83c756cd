package interaction

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anu-bioinfo/pathway-connectivity/internal/domain"
)

func TestRead_DefaultColumns(t *testing.T) {
	input := "9606.ENSP1 9606.ENSP2 P11111 P22222 150\n\n# header\n9606.ENSP3\t9606.ENSP4\tP33333\tP11111\t999\n"
	got, err := Read(strings.NewReader(input), DefaultColumns)
	require.NoError(t, err)
	assert.Equal(t, []domain.Interaction{
		{Node1: "P11111", Node2: "P22222", Weight: 150},
		{Node1: "P33333", Node2: "P11111", Weight: 999},
	}, got)
}

func TestRead_CustomColumns(t *testing.T) {
	got, err := Read(strings.NewReader("A B 7\n"), Columns{Node1: 0, Node2: 1, Weight: 2})
	require.NoError(t, err)
	assert.Equal(t, []domain.Interaction{{Node1: "A", Node2: "B", Weight: 7}}, got)
}

func TestRead_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "too few columns", input: "a b P1 P2 5\na b P1 P2\n", want: "line 2"},
		{name: "non-integer weight", input: "a b P1 P2 high\n", want: "weight"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input), DefaultColumns)
			require.ErrorIs(t, err, ErrMalformedRow)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cooccurence.txt")
	require.NoError(t, os.WriteFile(path, []byte("x y A B 3\n"), 0o644))

	got, err := ReadFile(path, DefaultColumns)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = ReadFile(filepath.Join(t.TempDir(), "none.txt"), DefaultColumns)
	assert.Error(t, err)
}
