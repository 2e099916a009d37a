package splice

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mchaldebas/5ULTRA/internal/refdata"
	"github.com/mchaldebas/5ULTRA/internal/vcf"
)

type fakeRefs struct {
	utrs    map[string][]*refdata.UTR
	introns map[string][]*refdata.Intron
}

func (f *fakeRefs) UTRsByGene(gene string) []*refdata.UTR {
	return f.utrs[gene]
}

func (f *fakeRefs) IntronsByTranscript(tx string) []*refdata.Intron {
	return f.introns[tx]
}

// spliceRefs builds a two-exon forward UTR (GENE1/TX1 on chr1) and its
// intron, plus a reverse counterpart (GENE2/TX2 on chr2). The forward
// sequence carries a recognizable block at relative 49-58, the last exonic
// base before the intron and the start of the second exon.
func spliceRefs() *fakeRefs {
	fwdSeq := strings.Repeat("C", 49) + "ACGTACGTAG" + strings.Repeat("C", 96)
	fwd := &refdata.UTR{
		Chrom:      "chr1",
		Start:      1000,
		End:        1300,
		Strand:     "+",
		Gene:       "GENE1",
		Transcript: "TX1",
		Sequence:   fwdSeq,
		Exons:      refdata.ExonList{{Start: 1001, End: 1050}, {Start: 1201, End: 1305}},
	}
	rev := &refdata.UTR{
		Chrom:      "chr2",
		Start:      2000,
		End:        2300,
		Strand:     "-",
		Gene:       "GENE2",
		Transcript: "TX2",
		Sequence:   strings.Repeat("C", 155),
		Exons:      refdata.ExonList{{Start: 2001, End: 2105}, {Start: 2201, End: 2250}},
	}
	return &fakeRefs{
		utrs: map[string][]*refdata.UTR{
			"GENE1": {fwd},
			"GENE2": {rev},
		},
		introns: map[string][]*refdata.Intron{
			"TX1": {{Chrom: "chr1", Start: 1050, End: 1201, Transcript: "TX1", Sequence: "GTAAGTCCCCATAG"}},
			"TX2": {{Chrom: "chr2", Start: 2106, End: 2201, Transcript: "TX2", Sequence: "CTGACGTGGA"}},
		},
	}
}

func TestParseSpliceAI(t *testing.T) {
	sai, err := ParseSpliceAI("GENE1|0.05|0.1|0.9|0.8|3|-2|26|20", 1030)
	require.NoError(t, err)
	assert.Equal(t, "GENE1", sai.Gene)
	assert.Equal(t, 0.05, sai.AGScore)
	assert.Equal(t, 0.1, sai.ALScore)
	assert.Equal(t, 0.9, sai.DGScore)
	assert.Equal(t, 0.8, sai.DLScore)
	assert.Equal(t, int64(1033), sai.AGPos)
	assert.Equal(t, int64(1028), sai.ALPos)
	assert.Equal(t, int64(1056), sai.DGPos)
	assert.Equal(t, int64(1050), sai.DLPos)
}

func TestParseSpliceAIMalformed(t *testing.T) {
	_, err := ParseSpliceAI("GENE1|0.1|0.1|0.1", 100)
	assert.Error(t, err)
	_, err = ParseSpliceAI("GENE1|x|0.1|0.1|0.1|0|0|0|0", 100)
	assert.Error(t, err)
	_, err = ParseSpliceAI("GENE1|0.1|0.1|0.1|0.1|0|0|y|0", 100)
	assert.Error(t, err)
}

func TestRemapDonorGainInsertionForward(t *testing.T) {
	// Donor gain 6 bases into the intron: the transcript retains the
	// intron prefix up to the new donor.
	r := NewRemapper(spliceRefs(), 0.2)
	v := &vcf.Variant{
		Chrom: "chr1", Pos: 1030, ID: "rs1", Ref: "C", Alt: "G", Filter: "PASS",
		SpliceAI: "GENE1|0.05|0.05|0.9|0.8|0|0|26|20",
	}

	out := r.Remap(v)
	require.Len(t, out, 1)
	s := out[0]
	assert.Equal(t, "chr1", s.Chrom)
	assert.Equal(t, int64(1050), s.Pos)
	assert.Equal(t, "G", s.Ref)
	assert.Equal(t, "GTAAGTC", s.Alt)
	assert.Equal(t, vcf.EventDGInsertionPlus, s.Event)
	assert.Equal(t, "TX1", s.Transcript)
	assert.Equal(t, "chr1_1030_rs1_C_G", s.OriginalID)
	assert.Equal(t, v.SpliceAI, s.SpliceAI)
	assert.Equal(t, "PASS", s.Filter)
}

func TestRemapDonorGainInsertionWithEditInside(t *testing.T) {
	// The original edit falls inside the retained intron prefix and is
	// spliced into the synthetic alt allele.
	r := NewRemapper(spliceRefs(), 0.2)
	v := &vcf.Variant{
		Chrom: "chr1", Pos: 1052, ID: "rs2", Ref: "A", Alt: "T",
		SpliceAI: "GENE1|0.05|0.05|0.9|0.8|0|0|4|-2",
	}

	out := r.Remap(v)
	require.Len(t, out, 1)
	assert.Equal(t, int64(1050), out[0].Pos)
	assert.Equal(t, "GTTAGTC", out[0].Alt)
}

func TestRemapAcceptorGainDeletionForward(t *testing.T) {
	// Acceptor gain 9 bases into the second exon: the exon loses its 5'
	// segment, anchored at the previous exon's end.
	r := NewRemapper(spliceRefs(), 0.2)
	v := &vcf.Variant{
		Chrom: "chr1", Pos: 1040, ID: "rs3", Ref: "C", Alt: "A",
		SpliceAI: "GENE1|0.9|0.1|0.05|0.05|170|161|0|0",
	}

	out := r.Remap(v)
	require.Len(t, out, 1)
	s := out[0]
	assert.Equal(t, int64(1050), s.Pos)
	assert.Equal(t, "ACGTACGTAG", s.Ref)
	assert.Equal(t, "A", s.Alt)
	assert.Equal(t, vcf.EventAGDeletionPlus, s.Event)
}

func TestRemapDonorGainInsertionReverse(t *testing.T) {
	r := NewRemapper(spliceRefs(), 0.2)
	v := &vcf.Variant{
		Chrom: "chr2", Pos: 2210, ID: "rs4", Ref: "G", Alt: "A",
		SpliceAI: "GENE2|0.05|0.05|0.9|0.8|0|0|-15|-9",
	}

	out := r.Remap(v)
	require.Len(t, out, 1)
	s := out[0]
	assert.Equal(t, int64(2106), s.Pos)
	assert.Equal(t, "T", s.Ref)
	assert.Equal(t, "TACGTCA", s.Alt)
	assert.Equal(t, vcf.EventDGInsertionMinus, s.Event)
	assert.Equal(t, "TX2", s.Transcript)
}

func TestRemapBelowCutoff(t *testing.T) {
	r := NewRemapper(spliceRefs(), 0.2)
	v := &vcf.Variant{
		Chrom: "chr1", Pos: 1030, ID: "rs5", Ref: "C", Alt: "G",
		SpliceAI: "GENE1|0.1|0.1|0.1|0.1|0|0|26|20",
	}
	assert.Empty(t, r.Remap(v))
}

func TestRemapMalformedAnnotation(t *testing.T) {
	r := NewRemapper(spliceRefs(), 0.2)
	v := &vcf.Variant{
		Chrom: "chr1", Pos: 1030, ID: "rs6", Ref: "C", Alt: "G",
		SpliceAI: "GENE1|broken",
	}
	assert.Empty(t, r.Remap(v))
}

func TestRemapLossOutsideExons(t *testing.T) {
	// The lost donor does not land in any exon: the predicted structure
	// no longer matches the known layout, nothing is emitted.
	r := NewRemapper(spliceRefs(), 0.2)
	v := &vcf.Variant{
		Chrom: "chr1", Pos: 1030, ID: "rs7", Ref: "C", Alt: "G",
		SpliceAI: "GENE1|0.05|0.05|0.9|0.8|0|0|26|30",
	}
	assert.Empty(t, r.Remap(v))
}

func TestRemapUnknownGene(t *testing.T) {
	r := NewRemapper(spliceRefs(), 0.2)
	v := &vcf.Variant{
		Chrom: "chr1", Pos: 1030, ID: "rs8", Ref: "C", Alt: "G",
		SpliceAI: "GENE9|0.05|0.05|0.9|0.8|0|0|26|20",
	}
	assert.Empty(t, r.Remap(v))
}
