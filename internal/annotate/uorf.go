package annotate

import (
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/mchaldebas/5ULTRA/internal/conservation"
	"github.com/mchaldebas/5ULTRA/internal/refdata"
	"github.com/mchaldebas/5ULTRA/internal/vcf"
)

// evalContext is the transient state of one (variant, UTR) evaluation:
// the mutated sequence buffer and the coordinates derived from it. It is
// built fresh per evaluation and never shared.
type evalContext struct {
	variant   *vcf.Variant
	utr       *refdata.UTR
	alt       string // normalized alt allele
	rel       int64  // edit position relative to the 5' cap
	wtSeq     string
	mutSeq    string
	mainStart int64 // main start codon position in mutSeq coordinates
	scorer    ConservationScorer
}

// discoverUORF characterizes the upstream ORF created by a new ATG near the
// edit position: re-anchors on the exact ATG, scans for the first in-frame
// stop, classifies the element against the main start codon and maps the new
// start back to genomic coordinates. Returns nil if no ATG is found, which
// the caller's window check rules out for well-formed sequences.
func discoverUORF(ctx *evalContext) *UORFDetail {
	start := ctx.rel - 2
	if start < 0 {
		start = 0
	}
	for codonAt(ctx.mutSeq, start) != "ATG" {
		start++
		if start >= int64(len(ctx.mutSeq)) {
			return nil
		}
	}

	end := scanStop(ctx.mutSeq, start+3)
	end += 2 // end now points at the last base of the stop codon

	stopCodon := window(ctx.mutSeq, end-2, end+1)

	var typ refdata.UORFType
	switch {
	case end < ctx.mainStart:
		typ = refdata.UORFNonOverlapping
	case (ctx.mainStart-start)%3 == 0:
		typ = refdata.UORFNTerminalExtension
	default:
		typ = refdata.UORFOverlapping
	}

	// An N-terminal extension reads through the main start codon, so its
	// effective length runs only up to it.
	length := end - start + 1
	if typ == refdata.UORFNTerminalExtension {
		length = ctx.mainStart - start
	}

	kozak := window(ctx.mutSeq, start-4, start+5)

	startGenomic := mapStartGenomic(ctx, start)
	endGenomic, _ := ToGenomic(ctx.utr.Exons, ctx.utr.Strand, end)

	chrom := ctx.variant.ChromWithPrefix()
	positions := startCodonPositions(startGenomic, ctx.utr.Strand)

	return &UORFDetail{
		StartGenomic:    startGenomic,
		EndGenomic:      endGenomic,
		ID:              "000",
		DistToMainStart: ctx.mainStart - start,
		StartCodon:      "ATG",
		StopCodon:       stopCodon,
		Type:            typ,
		Kozak:           kozak,
		KozakStrength:   ClassifyKozak(kozak),
		Length:          length,
		Codons:          float64(length) / 3,
		MeanPhyloP:      conservationMean(ctx.scorer, chrom, positions, conservation.TrackPhyloP),
		MeanPhastCons:   conservationMean(ctx.scorer, chrom, positions, conservation.TrackPhastCons),
	}
}

// mapStartGenomic converts the new start's relative position to a genomic
// coordinate. Ordinary variants map directly through the exon structure.
// Synthetic splice-insertion variants describe sequence retained from an
// intron, which the exon structure knows nothing about, so each of the four
// insertion events carries its own offset arithmetic anchored at the
// variant's intron-boundary position.
func mapStartGenomic(ctx *evalContext, start int64) int64 {
	exons := ctx.utr.Exons
	strand := ctx.utr.Strand
	pos := ctx.variant.Pos
	delta := int64(len(ctx.mutSeq) - len(ctx.wtSeq))

	switch ctx.variant.Event {
	case vcf.EventDGInsertionPlus:
		return pos + (start - ToRelative(exons, strand, pos))
	case vcf.EventDGInsertionMinus:
		intronEnd, ok := intronEndAfter(exons, pos)
		if !ok {
			break
		}
		return pos + (intronEnd - pos - start + ToRelative(exons, strand, pos)) - 1
	case vcf.EventAGInsertionPlus:
		intronEnd, ok := intronEndAfter(exons, pos)
		if !ok {
			break
		}
		return pos + (intronEnd - pos + start - ToRelative(exons, strand, pos) - delta) - 1
	case vcf.EventAGInsertionMinus:
		return pos + (delta - start + ToRelative(exons, strand, pos))
	}

	g, _ := ToGenomic(exons, strand, start)
	return g
}

// intronEndAfter finds the start of the exon following the one containing
// pos, which is the downstream end of the intron pos sits next to. Returns
// false when pos falls at or beyond the final exon.
func intronEndAfter(exons refdata.ExonList, pos int64) (int64, bool) {
	for i, e := range exons {
		if e.End >= pos {
			if i+1 < len(exons) {
				return exons[i+1].Start, true
			}
			return 0, false
		}
	}
	return 0, false
}

// startCodonPositions returns the genomic positions of the three bases of a
// start codon at the given genomic anchor, walking downstream in transcript
// orientation.
func startCodonPositions(startGenomic int64, strand string) []int64 {
	if strand == "+" {
		return []int64{startGenomic, startGenomic + 1, startGenomic + 2}
	}
	return []int64{startGenomic, startGenomic - 1, startGenomic - 2}
}

// conservationMean averages the conservation scores present at the given
// positions. Absent positions are dropped from the mean; when nothing is
// scored the result is "NA", never zero.
func conservationMean(scorer ConservationScorer, chrom string, positions []int64, track string) string {
	if scorer == nil {
		return "NA"
	}
	var scores []float64
	for _, pos := range positions {
		if score, ok := scorer.Score(chrom, pos, track); ok {
			scores = append(scores, score)
		}
	}
	if len(scores) == 0 {
		return "NA"
	}
	return strconv.FormatFloat(stat.Mean(scores, nil), 'g', -1, 64)
}
