package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mchaldebas/5ULTRA/internal/annotate"
	"github.com/mchaldebas/5ULTRA/internal/refdata"
	"github.com/mchaldebas/5ULTRA/internal/vcf"
)

// kozakUTR is a single-exon forward UTR whose main Kozak context sits at
// relative 95-103 with the start codon at 99.
func kozakUTR() *refdata.UTR {
	seq := []byte(strings.Repeat("C", 105))
	seq[99], seq[100], seq[101] = 'A', 'T', 'G'
	return &refdata.UTR{
		Chrom:         "chr1",
		Start:         1000,
		End:           1100,
		Strand:        "+",
		Gene:          "GENE1",
		Transcript:    "TX1",
		MANE:          true,
		Kozak:         "CCCCATGCC",
		KozakStrength: refdata.KozakWeak,
		Sequence:      string(seq),
		Exons:         refdata.ExonList{{Start: 1001, End: 1105}},
		UORFCount:     2,
	}
}

func TestTabWriterHeader(t *testing.T) {
	var buf bytes.Buffer
	tw := NewTabWriter(&buf)
	require.NoError(t, tw.WriteHeader())
	require.NoError(t, tw.Flush())

	cols := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\t")
	assert.Len(t, cols, 33)
	assert.Equal(t, "#chrom", cols[0])
	assert.Equal(t, "CSQ", cols[8])
	assert.Equal(t, "mean_phastcons", cols[32])
}

func TestTabWriterKozakRow(t *testing.T) {
	var buf bytes.Buffer
	tw := NewTabWriter(&buf)

	v := &vcf.Variant{Chrom: "chr1", Pos: 1097, ID: "rs1", Ref: "C", Alt: "A", Filter: "PASS"}
	c := &annotate.Consequence{
		CSQ:       annotate.CSQMKozak,
		Direction: annotate.DirectionIncreased,
		UTR:       kozakUTR(),
	}
	require.NoError(t, tw.Write(v, c))
	require.NoError(t, tw.Flush())

	fields := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\t")
	require.Len(t, fields, 33)
	assert.Equal(t, "chr1", fields[0])
	assert.Equal(t, "1097", fields[1])
	assert.Equal(t, "mKozak", fields[8])
	assert.Equal(t, "increased", fields[9])
	assert.Equal(t, "MANE", fields[15])
	assert.Equal(t, "CCCCATGCC", fields[16])
	assert.Equal(t, "Weak", fields[17])
	assert.Equal(t, "2", fields[18])
	// No uORF: the 14 trailing columns are empty placeholders.
	for _, f := range fields[19:] {
		assert.Empty(t, f)
	}
}

func TestTabWriterUORFRow(t *testing.T) {
	var buf bytes.Buffer
	tw := NewTabWriter(&buf)

	v := &vcf.Variant{
		Chrom: "chr1", Pos: 1013, ID: "rs2", Ref: "C", Alt: "G",
		OriginalID: "chr1_990_rs2_C_G", Event: "DG_insertion_+",
	}
	c := &annotate.Consequence{
		CSQ:       annotate.CSQUStartGain,
		Direction: annotate.DirectionDecreased,
		UTR:       kozakUTR(),
		UORF: &annotate.UORFDetail{
			StartGenomic:    1011,
			EndGenomic:      1040,
			ID:              "000",
			DistToMainStart: 89,
			StartCodon:      "ATG",
			StopCodon:       "TAA",
			Type:            refdata.UORFNonOverlapping,
			Kozak:           "CCCCATGCC",
			KozakStrength:   refdata.KozakWeak,
			Length:          30,
			Codons:          10,
			Rank:            "1",
			MeanPhyloP:      "1.5",
			MeanPhastCons:   "NA",
		},
	}
	require.NoError(t, tw.Write(v, c))
	require.NoError(t, tw.Flush())

	fields := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\t")
	require.Len(t, fields, 33)
	assert.Equal(t, "chr1_990_rs2_C_G", fields[6])
	assert.Equal(t, "DG_insertion_+", fields[7])
	assert.Equal(t, "uStart_gain", fields[8])
	assert.Equal(t, "1011", fields[19])
	assert.Equal(t, "1040", fields[20])
	assert.Equal(t, "000", fields[21])
	assert.Equal(t, "89", fields[22])
	assert.Equal(t, "ATG", fields[23])
	assert.Equal(t, "TAA", fields[24])
	assert.Equal(t, "Non-Overlapping", fields[25])
	assert.Equal(t, "30", fields[28])
	assert.Equal(t, "10", fields[29])
	assert.Equal(t, "NA", fields[32])
}

func TestAnnotateAllWritesRows(t *testing.T) {
	tables := refdata.NewTables()
	tables.AddUTR(kozakUTR())
	tables.BuildIndexes()

	ann := annotate.NewAnnotator(tables)
	parser := vcf.NewSliceParser([]*vcf.Variant{
		{Chrom: "chr1", Pos: 1097, ID: "rs1", Ref: "C", Alt: "A"},
		{Chrom: "chr1", Pos: 5000, ID: "rs2", Ref: "C", Alt: "A"}, // outside any UTR
		{Chrom: "chr1", Pos: 1097, ID: "rs3", Ref: "C", Alt: "A,G"}, // multi-allelic, skipped
		{Chrom: "chr1", Pos: 1097, ID: "rs4", Ref: "C", Alt: "A"},
	})

	var buf bytes.Buffer
	tw := NewTabWriter(&buf)
	require.NoError(t, tw.WriteHeader())
	require.NoError(t, ann.AnnotateAll(parser, tw, 2))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3, "header plus one row per annotated variant")
	assert.Contains(t, lines[1], "rs1")
	assert.Contains(t, lines[2], "rs4")
	// Input order is preserved through the worker pool.
	assert.Less(t, strings.Index(buf.String(), "rs1"), strings.Index(buf.String(), "rs4"))
}

func TestMultiWriterFansOut(t *testing.T) {
	var a, b bytes.Buffer
	mw := NewMultiWriter(NewTabWriter(&a), NewTabWriter(&b))

	require.NoError(t, mw.WriteHeader())
	v := &vcf.Variant{Chrom: "chr1", Pos: 1097, ID: "rs1", Ref: "C", Alt: "A"}
	c := &annotate.Consequence{CSQ: annotate.CSQMKozak, Direction: annotate.DirectionIncreased, UTR: kozakUTR()}
	require.NoError(t, mw.Write(v, c))
	require.NoError(t, mw.Flush())

	assert.Equal(t, a.String(), b.String())
	assert.Contains(t, a.String(), "mKozak")
}
