package collector

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceRows struct {
	rows [][]string
	pos  int
}

func (s *sliceRows) Next() ([]string, error) {
	if s.pos >= len(s.rows) {
		return nil, io.EOF
	}
	row := s.rows[s.pos]
	s.pos++
	return row, nil
}

func TestAggregate_OrderIndependent(t *testing.T) {
	rows := [][]string{
		{"a", "Land", "0", "0", "1", "2", "4"},
		{"", "Sea", "0", "0", "9", "9", "9"},
		{"b", "Land", "0", "0", "0", "1", "1"},
		{"c", "Land", "0", "0", "3", "3", "10"},
	}
	palette := testPalette("Land", "Sea")

	want, err := Aggregate(&sliceRows{rows: rows}, palette, 7, 4)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 6, 15}, want["Land"])

	permutations := [][]int{
		{3, 2, 1, 0},
		{2, 0, 3, 1},
		{1, 3, 0, 2},
	}
	for _, perm := range permutations {
		shuffled := make([][]string, len(rows))
		for i, j := range perm {
			shuffled[i] = rows[j]
		}
		got, err := Aggregate(&sliceRows{rows: shuffled}, palette, 7, 4)
		require.NoError(t, err)
		assert.Equal(t, want, got, "permutation %v", perm)
	}
}

func TestAggregate_RowWidthMismatch(t *testing.T) {
	rows := [][]string{{"", "Land", "0", "0", "1"}}
	_, err := Aggregate(&sliceRows{rows: rows}, testPalette("Land"), 6, 4)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 2, pe.Line)
}

func TestAggregate_FirstDayOutsideHeader(t *testing.T) {
	_, err := Aggregate(&sliceRows{}, testPalette("Land"), 4, 4)
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)
}

func TestAggregate_DoesNotAliasFirstRow(t *testing.T) {
	first := []string{"", "Land", "0", "0", "1", "1"}
	rows := [][]string{first, {"", "Land", "0", "0", "2", "2"}}
	got, err := Aggregate(&sliceRows{rows: rows}, testPalette("Land"), 6, 4)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 3}, got["Land"])
	assert.Equal(t, "1", first[4])
}
