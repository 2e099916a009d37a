// Package annotate implements the 5'UTR variant-effect annotation engine:
// transcript-relative coordinate mapping, in-silico mutation of the 5'UTR
// sequence, Kozak context classification, uORF discovery and the
// consequence classifier that ties them together.
package annotate

import (
	"strconv"

	"github.com/mchaldebas/5ULTRA/internal/refdata"
	"github.com/mchaldebas/5ULTRA/internal/vcf"
)

// CSQ tags classifying the predicted effect on translation control.
const (
	CSQMKozak     = "mKozak"
	CSQUStartGain = "uStart_gain"
	CSQUStartLoss = "uStart_loss"
	CSQUKozak     = "uKozak"

	CSQUStopGainToNonOverlapping = "uStop_gain to Non-Overlapping"
	CSQUStopGainShorter          = "uStop_gain shorter Non-Overlapping"
	CSQUStopGainToNTermExt       = "uStop_gain to N-terminal extension"
	CSQUStopLossToNTermExt       = "uStop_loss to N-terminal extension"
	CSQUStopLossToOverlapping    = "uStop_loss to Overlapping"
	CSQUStopLossLonger           = "uStop_loss longer Non-Overlapping"
)

// Direction labels for the predicted change in main-ORF translation.
const (
	DirectionIncreased = "increased"
	DirectionDecreased = "decreased"
	DirectionNTermExt  = "N-terminal extension"
)

// Consequence is one annotation row: a variant's predicted effect on one
// 5'UTR translation-control element.
type Consequence struct {
	CSQ       string
	Direction string
	UTR       *refdata.UTR
	UORF      *UORFDetail // nil for mKozak rows
}

// UORFDetail carries the uORF fields reported with uORF-related
// consequences: either a known uORF's stored fields, or the freshly
// computed fields of a newly discovered uORF.
type UORFDetail struct {
	StartGenomic    int64
	EndGenomic      int64
	ID              string
	DistToMainStart int64
	StartCodon      string
	StopCodon       string // stored codon, or a transition like "TAA > TGA"
	Type            refdata.UORFType
	Kozak           string
	KozakStrength   refdata.KozakStrength
	Length          int64
	Codons          float64
	Rank            string
	MeanPhyloP      string // numeric string or "NA"
	MeanPhastCons   string
}

// detailFromRecord builds the reported detail row for a known uORF.
// stopTransition, when non-empty, replaces the stored stop codon with the
// "old > new" transition observed after the edit.
func detailFromRecord(u *refdata.UORF, stopTransition string) *UORFDetail {
	stop := u.StopCodon
	if stopTransition != "" {
		stop = stopTransition
	}
	return &UORFDetail{
		StartGenomic:    u.StartGenomic,
		EndGenomic:      u.EndGenomic,
		ID:              u.ID,
		DistToMainStart: u.DistToMainStart,
		StartCodon:      u.StartCodon,
		StopCodon:       stop,
		Type:            u.Type,
		Kozak:           u.Kozak,
		KozakStrength:   u.KozakStrength,
		Length:          u.Length,
		Codons:          u.Codons,
		Rank:            u.Rank,
		MeanPhyloP:      u.MeanPhyloP,
		MeanPhastCons:   u.MeanPhastCons,
	}
}

// ConservationScorer resolves a conservation score at a genomic position.
// The second return value is false when no score is available there.
type ConservationScorer interface {
	Score(chrom string, pos int64, track string) (float64, bool)
}

// FormatVariantID creates a variant identifier from components, using the
// chr-prefixed chromosome and the normalized alt allele.
func FormatVariantID(v *vcf.Variant) string {
	return v.ChromWithPrefix() + "_" + strconv.FormatInt(v.Pos, 10) + "_" + v.ID + "_" + v.Ref + "_" + vcf.NormalizeAlt(v.Alt)
}
