package annotate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mchaldebas/5ULTRA/internal/refdata"
)

func TestIsStopCodon(t *testing.T) {
	assert.True(t, IsStopCodon("TAA"))
	assert.True(t, IsStopCodon("TAG"))
	assert.True(t, IsStopCodon("TGA"))
	assert.False(t, IsStopCodon("ATG"))
	assert.False(t, IsStopCodon("TA"))
	assert.False(t, IsStopCodon(""))
}

func TestReverseComplement(t *testing.T) {
	assert.Equal(t, "GCAT", ReverseComplement("ATGC"))
	assert.Equal(t, "", ReverseComplement(""))
	assert.Equal(t, "N", ReverseComplement("N"))
	assert.Equal(t, "T*A", ReverseComplement("T*A"))

	// Longer than the stack buffer.
	long := strings.Repeat("ACGT", 20)
	rc := ReverseComplement(long)
	assert.Len(t, rc, 80)
	assert.Equal(t, strings.Repeat("ACGT", 20), rc)
	assert.Equal(t, long, ReverseComplement(rc))
}

func TestApplyEdit(t *testing.T) {
	t.Run("snv", func(t *testing.T) {
		mut, err := ApplyEdit("AACCTT", 2, "C", "G", "+")
		require.NoError(t, err)
		assert.Equal(t, "AAGCTT", mut)
	})

	t.Run("insertion", func(t *testing.T) {
		mut, err := ApplyEdit("AACCTT", 1, "A", "AGG", "+")
		require.NoError(t, err)
		assert.Equal(t, "AAGGCCTT", mut)
		assert.Len(t, mut, 6+3-1)
	})

	t.Run("deletion", func(t *testing.T) {
		mut, err := ApplyEdit("AACCTT", 1, "ACC", "A", "+")
		require.NoError(t, err)
		assert.Equal(t, "AATT", mut)
	})

	t.Run("reverse strand complements the alt", func(t *testing.T) {
		mut, err := ApplyEdit("AAAA", 1, "A", "G", "-")
		require.NoError(t, err)
		assert.Equal(t, "ACAA", mut)
	})

	t.Run("out of range", func(t *testing.T) {
		_, err := ApplyEdit("AACC", -1, "A", "G", "+")
		assert.Error(t, err)
		_, err = ApplyEdit("AACC", 3, "CC", "C", "+")
		assert.Error(t, err)
	})
}

func TestCodonAt(t *testing.T) {
	assert.Equal(t, "ATG", codonAt("CCATGCC", 2))
	assert.Equal(t, "CC", codonAt("CCATGCC", 5))
	assert.Equal(t, "", codonAt("CCATGCC", 7))
	assert.Equal(t, "", codonAt("CCATGCC", -1))
}

func TestWindow(t *testing.T) {
	assert.Equal(t, "ATG", window("CCATGCC", 2, 5))
	assert.Equal(t, "CCA", window("CCATGCC", -2, 3))
	assert.Equal(t, "GCC", window("CCATGCC", 4, 12))
	assert.Equal(t, "", window("CCATGCC", 5, 3))
}

func TestClassifyKozak(t *testing.T) {
	cases := []struct {
		context string
		want    refdata.KozakStrength
	}{
		{"CACCATGGC", refdata.KozakStrong},   // -3 A, +4 G
		{"CGCCATGCC", refdata.KozakAdequate}, // -3 G only
		{"CCCCATGGC", refdata.KozakAdequate}, // +4 G only
		{"CCCCATGCC", refdata.KozakWeak},
		{"CCCCATGC", refdata.KozakUnknown}, // truncated context
		{"", refdata.KozakUnknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyKozak(tc.context), "context %q", tc.context)
	}
}
