// Package splice rewrites splice-altering variants into synthetic variants
// describing their effect on the mature transcript. A predicted acceptor or
// donor gain shifts an exon boundary, either retaining part of the adjacent
// intron (an insertion into the transcript) or truncating the exon (a
// deletion). Each synthetic variant carries provenance and is fed back
// through the consequence classifier.
package splice

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mchaldebas/5ULTRA/internal/annotate"
	"github.com/mchaldebas/5ULTRA/internal/refdata"
	"github.com/mchaldebas/5ULTRA/internal/vcf"
)

// SpliceAI holds one parsed SpliceAI annotation, with the delta positions
// resolved to absolute genomic coordinates.
type SpliceAI struct {
	Gene    string
	AGScore float64
	ALScore float64
	DGScore float64
	DLScore float64
	AGPos   int64
	ALPos   int64
	DGPos   int64
	DLPos   int64
}

// ParseSpliceAI parses the GENE|AG|AL|DG|DL|dAG|dAL|dDG|dDL annotation
// format, anchoring the four delta positions at the variant position.
func ParseSpliceAI(raw string, pos int64) (*SpliceAI, error) {
	fields := strings.Split(raw, "|")
	if len(fields) != 9 {
		return nil, fmt.Errorf("expected 9 fields, got %d", len(fields))
	}

	scores := make([]float64, 4)
	for i, f := range fields[1:5] {
		score, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("parse score %q: %w", f, err)
		}
		scores[i] = score
	}
	deltas := make([]int64, 4)
	for i, f := range fields[5:9] {
		d, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse position %q: %w", f, err)
		}
		deltas[i] = d
	}

	return &SpliceAI{
		Gene:    fields[0],
		AGScore: scores[0],
		ALScore: scores[1],
		DGScore: scores[2],
		DLScore: scores[3],
		AGPos:   deltas[0] + pos,
		ALPos:   deltas[1] + pos,
		DGPos:   deltas[2] + pos,
		DLPos:   deltas[3] + pos,
	}, nil
}

// ReferenceLookup defines the reference-table queries the remapper needs.
type ReferenceLookup interface {
	UTRsByGene(gene string) []*refdata.UTR
	IntronsByTranscript(transcript string) []*refdata.Intron
}

// Remapper converts SpliceAI-annotated variants into synthetic variants.
type Remapper struct {
	refs   ReferenceLookup
	cutoff float64
	logger *zap.Logger
}

// NewRemapper creates a remapper; events scoring below cutoff are ignored.
func NewRemapper(refs ReferenceLookup, cutoff float64) *Remapper {
	return &Remapper{
		refs:   refs,
		cutoff: cutoff,
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for skip warnings.
func (r *Remapper) SetLogger(l *zap.Logger) {
	r.logger = l
}

// Remap produces the synthetic variants implied by a variant's SpliceAI
// annotation, one per (passing event, matching UTR) combination. Variants
// without a parseable annotation yield nothing.
func (r *Remapper) Remap(v *vcf.Variant) []*vcf.Variant {
	sai, err := ParseSpliceAI(v.SpliceAI, v.Pos)
	if err != nil {
		r.logger.Warn("skipping variant with malformed SpliceAI annotation",
			zap.String("chrom", v.Chrom),
			zap.Int64("pos", v.Pos),
			zap.Error(err))
		return nil
	}

	chrom := v.ChromWithPrefix()
	alt := vcf.NormalizeAlt(v.Alt)
	originalID := annotate.FormatVariantID(v)

	var out []*vcf.Variant
	for _, utr := range r.refs.UTRsByGene(sai.Gene) {
		if chrom != utr.Chrom || !utr.ContainsInclusive(v.Pos) {
			continue
		}
		rc := &remapContext{
			variant:    v,
			alt:        alt,
			utr:        utr,
			sai:        sai,
			originalID: originalID,
		}
		if utr.IsForwardStrand() {
			out = append(out, r.remapForward(rc)...)
		} else {
			out = append(out, r.remapReverse(rc)...)
		}
	}
	return out
}

type remapContext struct {
	variant    *vcf.Variant
	alt        string
	utr        *refdata.UTR
	sai        *SpliceAI
	originalID string
}

// synthetic builds one remapped variant carrying its provenance.
func (rc *remapContext) synthetic(pos int64, ref, alt, event string) *vcf.Variant {
	v := rc.variant
	return &vcf.Variant{
		Chrom:      rc.utr.Chrom,
		Pos:        pos,
		ID:         v.ID,
		Ref:        ref,
		Alt:        alt,
		Filter:     v.Filter,
		SpliceAI:   v.SpliceAI,
		OriginalID: rc.originalID,
		Event:      event,
		Transcript: rc.utr.Transcript,
	}
}

// remapForward handles the four forward-strand geometric cases. Within one
// UTR, an event whose loss position falls outside every exon abandons the
// remaining events for that UTR: the predicted structure no longer matches
// the known exon layout.
func (r *Remapper) remapForward(rc *remapContext) []*vcf.Variant {
	sai := rc.sai
	utr := rc.utr
	var out []*vcf.Variant

	if sai.AGScore >= r.cutoff {
		if !utr.Exons.ContainsSpan(sai.ALPos, 1) {
			return out
		}
		switch {
		case sai.AGPos < sai.ALPos:
			// New acceptor upstream of the lost one: the 3' end of the
			// intron is retained in the transcript.
			for _, intron := range r.refs.IntronsByTranscript(utr.Transcript) {
				if sai.ALPos != intron.End {
					continue
				}
				seq := intron.Sequence
				n := int64(len(seq))
				lo := n + (sai.AGPos - sai.ALPos) - 1
				if n < 1 || lo < 0 || lo > n-1 {
					continue
				}
				newAlt := seq[:1] + seq[lo:n-1]
				if sai.AGPos <= rc.variant.Pos && rc.variant.Pos < sai.ALPos &&
					sai.AGPos < refEnd(rc.variant) && refEnd(rc.variant) <= sai.ALPos {
					newAlt = spliceIn(newAlt, rc, rc.variant.Pos-sai.AGPos+1, rc.variant.Pos-sai.AGPos+int64(len(rc.variant.Ref))+1)
				}
				out = append(out, rc.synthetic(intron.Start, seq[:1], newAlt, vcf.EventAGInsertionPlus))
			}
		case sai.AGPos > sai.ALPos:
			// New acceptor downstream: the exon loses its 5' segment.
			newRel := annotate.ToRelative(utr.Exons, utr.Strand, sai.AGPos)
			oldRel := annotate.ToRelative(utr.Exons, utr.Strand, sai.ALPos)
			newPos, ok := prevExonEnd(utr.Exons, sai.ALPos)
			if !ok {
				break
			}
			ref := substr(utr.Sequence, oldRel-1, newRel)
			if len(ref) == 0 {
				break
			}
			out = append(out, rc.synthetic(newPos, ref, ref[:1], vcf.EventAGDeletionPlus))
		}
	}

	if sai.DGScore >= r.cutoff {
		if !utr.Exons.ContainsSpan(sai.DLPos, 1) {
			return out
		}
		switch {
		case sai.DGPos > sai.DLPos:
			// New donor downstream of the lost one: the 5' end of the
			// intron is retained.
			for _, intron := range r.refs.IntronsByTranscript(utr.Transcript) {
				if sai.DLPos != intron.Start {
					continue
				}
				seq := intron.Sequence
				if len(seq) == 0 {
					continue
				}
				newAlt := substr(seq, 0, sai.DGPos-sai.DLPos+1)
				if sai.DLPos <= rc.variant.Pos && rc.variant.Pos <= sai.DGPos &&
					sai.DLPos <= refEnd(rc.variant) && refEnd(rc.variant) <= sai.DGPos {
					newAlt = spliceIn(newAlt, rc, rc.variant.Pos-sai.DLPos, rc.variant.Pos-sai.DLPos+int64(len(rc.variant.Ref)))
				}
				out = append(out, rc.synthetic(intron.Start, seq[:1], newAlt, vcf.EventDGInsertionPlus))
			}
		case sai.DGPos < sai.DLPos:
			// New donor upstream: the exon loses its 3' segment.
			newRel := annotate.ToRelative(utr.Exons, utr.Strand, sai.DGPos)
			oldRel := annotate.ToRelative(utr.Exons, utr.Strand, sai.DLPos)
			ref := substr(utr.Sequence, newRel, oldRel+1)
			if len(ref) == 0 {
				break
			}
			out = append(out, rc.synthetic(sai.DGPos, ref, ref[:1], vcf.EventDGDeletionPlus))
		}
	}

	return out
}

// remapReverse handles the four reverse-strand cases. The stored sequences
// are transcript-oriented, so genomic slices are reverse-complemented before
// becoming alleles.
func (r *Remapper) remapReverse(rc *remapContext) []*vcf.Variant {
	sai := rc.sai
	utr := rc.utr
	var out []*vcf.Variant

	if sai.AGScore >= r.cutoff {
		if !utr.Exons.ContainsSpan(sai.ALPos, 1) {
			return out
		}
		switch {
		case sai.AGPos > sai.ALPos:
			for _, intron := range r.refs.IntronsByTranscript(utr.Transcript) {
				if sai.ALPos != intron.Start {
					continue
				}
				seq := intron.Sequence
				n := int64(len(seq))
				lo := n + (sai.ALPos - sai.AGPos) - 1
				if n < 1 || lo < 0 || lo > n {
					continue
				}
				newRef := annotate.ReverseComplement(seq[n-1:])
				newAlt := annotate.ReverseComplement(seq[lo:])
				if sai.ALPos <= rc.variant.Pos && rc.variant.Pos <= sai.AGPos &&
					sai.ALPos < refEnd(rc.variant) && refEnd(rc.variant) <= sai.AGPos {
					hi := rc.variant.Pos - sai.AGPos + int64(len(rc.variant.Ref)) - 1
					if hi < 0 {
						hi += int64(len(newAlt))
					}
					newAlt = spliceIn(newAlt, rc, rc.variant.Pos-sai.ALPos, hi)
				}
				out = append(out, rc.synthetic(intron.Start, newRef, newAlt, vcf.EventAGInsertionMinus))
			}
		case sai.AGPos < sai.ALPos:
			newRel := annotate.ToRelative(utr.Exons, utr.Strand, sai.AGPos)
			oldRel := annotate.ToRelative(utr.Exons, utr.Strand, sai.ALPos)
			ref := substr(utr.Sequence, oldRel, newRel+1)
			if len(ref) == 0 {
				break
			}
			newAlt := annotate.ReverseComplement(substr(utr.Sequence, newRel, newRel+1))
			out = append(out, rc.synthetic(sai.AGPos, annotate.ReverseComplement(ref), newAlt, vcf.EventAGDeletionMinus))
		}
	}

	if sai.DGScore >= r.cutoff {
		if !utr.Exons.ContainsSpan(sai.DLPos, 1) {
			return out
		}
		switch {
		case sai.DGPos < sai.DLPos:
			for _, intron := range r.refs.IntronsByTranscript(utr.Transcript) {
				if sai.DLPos != intron.End {
					continue
				}
				seq := intron.Sequence
				n := int64(len(seq))
				if n < 1 {
					continue
				}
				newRef := annotate.ReverseComplement(seq[n-1:])
				newAlt := newRef + annotate.ReverseComplement(substr(seq, 1, sai.DLPos-sai.DGPos+1))
				if sai.DGPos <= rc.variant.Pos && rc.variant.Pos < sai.DLPos &&
					sai.DGPos <= refEnd(rc.variant) && refEnd(rc.variant) < sai.DLPos {
					newAlt = spliceIn(newAlt, rc, rc.variant.Pos-sai.DGPos+1, rc.variant.Pos-sai.DGPos+int64(len(rc.variant.Ref))+1)
				}
				out = append(out, rc.synthetic(intron.Start, newRef, newAlt, vcf.EventDGInsertionMinus))
			}
		case sai.DGPos > sai.DLPos:
			newRel := annotate.ToRelative(utr.Exons, utr.Strand, sai.DGPos)
			oldRel := annotate.ToRelative(utr.Exons, utr.Strand, sai.DLPos)
			newPos, ok := prevExonEnd(utr.Exons, sai.DLPos)
			if !ok {
				break
			}
			newAlt := annotate.ReverseComplement(substr(utr.Sequence, oldRel+1, oldRel+2))
			lost := substr(utr.Sequence, newRel+1, oldRel+1)
			if newAlt == "" {
				break
			}
			out = append(out, rc.synthetic(newPos, newAlt+annotate.ReverseComplement(lost), newAlt, vcf.EventDGDeletionMinus))
		}
	}

	return out
}

// refEnd returns the genomic position of the last base of the ref allele.
func refEnd(v *vcf.Variant) int64 {
	return v.Pos + int64(len(v.Ref)) - 1
}

// spliceIn overlays the original edit onto a retained-intron allele: the
// bases of newAlt between lo and hi are replaced by the variant's alt.
func spliceIn(newAlt string, rc *remapContext, lo, hi int64) string {
	return substr(newAlt, 0, lo) + rc.alt + substr(newAlt, hi, int64(len(newAlt)))
}

// prevExonEnd returns the end of the exon preceding the one starting at pos.
// Returns false when pos is not an exon start or starts the first exon.
func prevExonEnd(exons refdata.ExonList, pos int64) (int64, bool) {
	for i := 1; i < len(exons); i++ {
		if exons[i].Start == pos {
			return exons[i-1].End, true
		}
	}
	return 0, false
}

// substr returns s[lo:hi] clamped to the string's bounds.
func substr(s string, lo, hi int64) string {
	if lo < 0 {
		lo = 0
	}
	if hi > int64(len(s)) {
		hi = int64(len(s))
	}
	if lo >= hi {
		return ""
	}
	return s[lo:hi]
}
