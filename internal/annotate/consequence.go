package annotate

import (
	"strings"

	"github.com/mchaldebas/5ULTRA/internal/refdata"
	"github.com/mchaldebas/5ULTRA/internal/vcf"
)

// classifyUTR evaluates one variant against one overlapping 5'UTR and
// returns the ordered list of predicted consequences. The rules run as an
// independent pipeline over the mutated sequence: main-Kozak change, new
// upstream ATG, then per known uORF a start-loss check, a stop rescan with
// the transition table, and a uORF-Kozak check. A variant may emit several
// consequences for the same UTR.
//
// An edit that cannot be applied to the stored sequence returns an error;
// the caller skips the (variant, UTR) pair and moves on.
func classifyUTR(v *vcf.Variant, utr *refdata.UTR, uorfs []*refdata.UORF, scorer ConservationScorer) ([]*Consequence, error) {
	alt := vcf.NormalizeAlt(v.Alt)
	refLen := int64(len(v.Ref))
	altLen := int64(len(alt))

	// The relative position anchors the 5'-most transcript base of the
	// edit: the genomic start on the forward strand, the genomic end on
	// the reverse.
	var rel int64
	if utr.IsForwardStrand() {
		rel = ToRelative(utr.Exons, utr.Strand, v.Pos)
	} else {
		rel = ToRelative(utr.Exons, utr.Strand, v.Pos+refLen-1)
	}

	wtSeq := utr.Sequence
	mutSeq, err := ApplyEdit(wtSeq, rel, v.Ref, alt, utr.Strand)
	if err != nil {
		return nil, err
	}

	mainStart := ToRelative(utr.Exons, utr.Strand, utr.MainStartGenomic())
	mainStart += altLen - refLen

	// Loss of the canonical start codon is outside this classifier's scope.
	if codonAt(mutSeq, mainStart) != "ATG" {
		return nil, nil
	}

	ctx := &evalContext{
		variant:   v,
		utr:       utr,
		alt:       alt,
		rel:       rel,
		wtSeq:     wtSeq,
		mutSeq:    mutSeq,
		mainStart: mainStart,
		scorer:    scorer,
	}

	var out []*Consequence
	out = appendMainKozak(out, ctx)
	out = appendUStartGain(out, ctx)
	for _, u := range uorfs {
		out = appendUORFEffects(out, ctx, u)
	}
	return out, nil
}

// appendMainKozak emits mKozak when the edit changes one of the three
// diagnostic positions of the main start codon's context and the reclassified
// strength differs from the stored one. Ties and Unknown are not emitted.
func appendMainKozak(out []*Consequence, ctx *evalContext) []*Consequence {
	newKozak := window(ctx.mutSeq, ctx.mainStart-4, ctx.mainStart+5)
	stored := ctx.utr.Kozak
	if len(newKozak) != 9 || len(stored) != 9 {
		return out
	}
	if stored[1] == newKozak[1] && stored[3] == newKozak[3] && stored[7] == newKozak[7] {
		return out
	}

	strength := ClassifyKozak(newKozak)
	if !strength.Known() || !ctx.utr.KozakStrength.Known() {
		return out
	}
	switch {
	case strength < ctx.utr.KozakStrength:
		return append(out, &Consequence{CSQ: CSQMKozak, Direction: DirectionDecreased, UTR: ctx.utr})
	case strength > ctx.utr.KozakStrength:
		return append(out, &Consequence{CSQ: CSQMKozak, Direction: DirectionIncreased, UTR: ctx.utr})
	}
	return out
}

// appendUStartGain emits uStart_gain when the mutated window around the edit
// contains an ATG that the same wild-type window lacks.
func appendUStartGain(out []*Consequence, ctx *evalContext) []*Consequence {
	mutWin := window(ctx.mutSeq, ctx.rel-2, ctx.rel+int64(len(ctx.alt))+2)
	wtWin := window(ctx.wtSeq, ctx.rel-2, ctx.rel+int64(len(ctx.variant.Ref))+2)
	if !strings.Contains(mutWin, "ATG") || strings.Contains(wtWin, "ATG") {
		return out
	}

	detail := discoverUORF(ctx)
	if detail == nil {
		return out
	}
	direction := DirectionDecreased
	if detail.Type == refdata.UORFNTerminalExtension {
		direction = DirectionNTermExt
	}
	return append(out, &Consequence{CSQ: CSQUStartGain, Direction: direction, UTR: ctx.utr, UORF: detail})
}

// appendUORFEffects evaluates the edit against one known uORF: coordinate
// shift for indels, start-codon loss, stop-codon transitions, and the uORF's
// own Kozak context.
func appendUORFEffects(out []*Consequence, ctx *evalContext, u *refdata.UORF) []*Consequence {
	refLen := int64(len(ctx.variant.Ref))
	altLen := int64(len(ctx.alt))

	// An indel upstream of the uORF shifts its coordinates in the mutated
	// sequence. The start only moves when the edit precedes it.
	uStart := u.RelStart()
	uStop := u.RelStop()
	if uStop >= ctx.rel && refLen < altLen {
		if uStart >= ctx.rel {
			uStart += altLen - 1
		}
		uStop += altLen - 1
	}
	if uStop >= ctx.rel+refLen && refLen > altLen {
		if uStart >= ctx.rel+refLen {
			uStart -= refLen - 1
		}
		uStop -= refLen - 1
	}

	inWindow := uStart-6 <= ctx.rel && ctx.rel <= uStop+2
	if ctx.variant.IsSynthetic() {
		// Splice-derived edits can swallow the start codon entirely even
		// when anchored outside the [start-6, stop+2] window.
		inWindow = inWindow || (ctx.rel <= uStart && uStart <= ctx.rel+refLen)
	}
	if !inWindow {
		return out
	}

	startCodon := codonAt(ctx.mutSeq, uStart)
	if startCodon != u.StartCodon && startCodon != "ATG" {
		return append(out, &Consequence{
			CSQ:       CSQUStartLoss,
			Direction: DirectionIncreased,
			UTR:       ctx.utr,
			UORF:      detailFromRecord(u, ""),
		})
	}

	// Rescan the frame for the first stop, halting at the main start
	// codon: reaching it in frame means the uORF now reads through it.
	codon := uStart
	for !IsStopCodon(codonAt(ctx.mutSeq, codon)) && codon < int64(len(ctx.mutSeq)) && codon != ctx.mainStart {
		codon += 3
	}
	transition := u.StopCodon + " > " + codonAt(ctx.mutSeq, codon)

	switch {
	case codon < uStop && codon+2 < ctx.mainStart:
		switch u.Type {
		case refdata.UORFOverlapping:
			return append(out, &Consequence{
				CSQ:       CSQUStopGainToNonOverlapping,
				Direction: DirectionIncreased,
				UTR:       ctx.utr,
				UORF:      detailFromRecord(u, transition),
			})
		case refdata.UORFNTerminalExtension:
			out = append(out, &Consequence{
				CSQ:       CSQUStopGainToNonOverlapping,
				Direction: DirectionDecreased,
				UTR:       ctx.utr,
				UORF:      detailFromRecord(u, transition),
			})
		default:
			return append(out, &Consequence{
				CSQ:       CSQUStopGainShorter,
				Direction: DirectionIncreased,
				UTR:       ctx.utr,
				UORF:      detailFromRecord(u, transition),
			})
		}

	case codon < uStop && codon == ctx.mainStart && u.Type == refdata.UORFOverlapping:
		out = append(out, &Consequence{
			CSQ:       CSQUStopGainToNTermExt,
			Direction: DirectionNTermExt,
			UTR:       ctx.utr,
			UORF:      detailFromRecord(u, ""),
		})

	case codon > uStop && u.Type == refdata.UORFNonOverlapping:
		switch {
		case codon == ctx.mainStart:
			out = append(out, &Consequence{
				CSQ:       CSQUStopLossToNTermExt,
				Direction: DirectionNTermExt,
				UTR:       ctx.utr,
				UORF:      detailFromRecord(u, transition),
			})
		case codon > ctx.mainStart:
			out = append(out, &Consequence{
				CSQ:       CSQUStopLossToOverlapping,
				Direction: DirectionDecreased,
				UTR:       ctx.utr,
				UORF:      detailFromRecord(u, transition),
			})
		default:
			out = append(out, &Consequence{
				CSQ:       CSQUStopLossLonger,
				Direction: DirectionDecreased,
				UTR:       ctx.utr,
				UORF:      detailFromRecord(u, transition),
			})
		}
	}

	return appendUORFKozak(out, ctx, u, uStart)
}

// appendUORFKozak emits uKozak when the edit sits at one of the three
// diagnostic offsets of the uORF's context. Directions are inverted relative
// to mKozak: a stronger uORF start diverts scanning ribosomes away from the
// main ORF.
func appendUORFKozak(out []*Consequence, ctx *evalContext, u *refdata.UORF, uStart int64) []*Consequence {
	if ctx.rel != uStart-1 && ctx.rel != uStart-3 && ctx.rel != uStart+3 {
		return out
	}

	strength := ClassifyKozak(window(ctx.mutSeq, uStart-4, uStart+5))
	if !strength.Known() {
		strength = u.KozakStrength
	}
	if !strength.Known() || !u.KozakStrength.Known() {
		return out
	}
	switch {
	case strength < u.KozakStrength:
		return append(out, &Consequence{
			CSQ:       CSQUKozak,
			Direction: DirectionIncreased,
			UTR:       ctx.utr,
			UORF:      detailFromRecord(u, ""),
		})
	case strength > u.KozakStrength:
		return append(out, &Consequence{
			CSQ:       CSQUKozak,
			Direction: DirectionDecreased,
			UTR:       ctx.utr,
			UORF:      detailFromRecord(u, ""),
		})
	}
	return out
}
