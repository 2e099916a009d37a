package refdata

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTable(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoaderLoad(t *testing.T) {
	dir := t.TempDir()
	seq := strings.Repeat("C", 105)

	utrHeader := "chrom\tstart\tend\tstrand\tgene\ttranscript\tmane\tkozak\tkozak_strength\tsequence\texons\tuorf_count"
	utrRow := fmt.Sprintf("chr1\t1000\t1100\t+\tGENE1\tTX1\ttrue\tCCCCATGCC\tWeak\t%s\t[[1001,1105]]\t1", seq)
	// Sequence shorter than the exon span: dropped at load time.
	badRow := "chr1\t2000\t2100\t+\tGENE2\tTX2\tfalse\tCCCCATGCC\tWeak\tACGT\t[[2001,2105]]\t0"
	writeTable(t, dir, UTRTableFile, utrHeader+"\n"+utrRow+"\n"+badRow+"\n")

	uorfHeader := "chrom\tstart\tend\tid\ttranscript\tutr_length\tustart_to_mstart\tstart_codon\tstop_codon\ttype\tkozak\tkozak_strength\tlength\tcodons\trank\tmean_phylop\tmean_phastcons"
	uorfRow := "chr1\t1011\t1031\tuorf1\tTX1\t99\t89\tATG\tTAA\tNon-Overlapping\tCCCCATGCC\tWeak\t21\t7\t1\t1.5\t0.9"
	writeTable(t, dir, UORFTableFile, uorfHeader+"\n"+uorfRow+"\n")

	// No intron table: tolerated, splice remapping just finds nothing.

	tables := NewTables()
	loader := NewLoader(dir)
	require.NoError(t, loader.Load(tables))

	assert.Equal(t, 1, tables.UTRCount())
	assert.Equal(t, 1, tables.UORFCount())

	utrs := tables.FindUTRs("chr1", 1050)
	require.Len(t, utrs, 1)
	u := utrs[0]
	assert.Equal(t, "TX1", u.Transcript)
	assert.True(t, u.MANE)
	assert.Equal(t, KozakWeak, u.KozakStrength)
	assert.Equal(t, int64(105), u.Exons.TotalLength())

	uorfs := tables.UORFsByTranscript("TX1")
	require.Len(t, uorfs, 1)
	assert.Equal(t, int64(10), uorfs[0].RelStart())
	assert.Equal(t, int64(28), uorfs[0].RelStop())
	assert.Equal(t, UORFNonOverlapping, uorfs[0].Type)
	assert.Equal(t, float64(7), uorfs[0].Codons)

	assert.Empty(t, tables.IntronsByTranscript("TX1"))
}

func TestLoaderMissingUTRTable(t *testing.T) {
	loader := NewLoader(t.TempDir())
	err := loader.Load(NewTables())
	assert.Error(t, err)
}

func TestLoadIntronTable(t *testing.T) {
	dir := t.TempDir()
	header := "chrom\tstart\tend\ttranscript\tsequence"
	row := "chr1\t1050\t1201\tTX1\tGTAAGTCCCCATAG"
	writeTable(t, dir, IntronTableFile, header+"\n"+row+"\n")

	introns, err := LoadIntronTable(filepath.Join(dir, IntronTableFile))
	require.NoError(t, err)
	require.Len(t, introns, 1)
	assert.Equal(t, int64(1050), introns[0].Start)
	assert.Equal(t, "GTAAGTCCCCATAG", introns[0].Sequence)
}
