package annotate

import (
	"errors"
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/mchaldebas/5ULTRA/internal/refdata"
	"github.com/mchaldebas/5ULTRA/internal/vcf"
)

// ReferenceLookup defines the read-only reference-table queries the
// annotator needs.
type ReferenceLookup interface {
	FindUTRs(chrom string, pos int64) []*refdata.UTR
	UTRsByTranscript(transcript string) []*refdata.UTR
	UORFsByTranscript(transcript string) []*refdata.UORF
}

// Annotator predicts the effect of variants on 5'UTR translation-control
// elements. It only reads shared reference data and is safe for concurrent
// use.
type Annotator struct {
	refs     ReferenceLookup
	scorer   ConservationScorer
	maneOnly bool
	logger   *zap.Logger
}

// NewAnnotator creates a new annotator over the given reference tables.
func NewAnnotator(refs ReferenceLookup) *Annotator {
	return &Annotator{
		refs:   refs,
		logger: zap.NewNop(),
	}
}

// SetConservationScorer sets the conservation-score oracle used when
// characterizing newly created uORFs. Without one, means report "NA".
func (a *Annotator) SetConservationScorer(scorer ConservationScorer) {
	a.scorer = scorer
}

// SetMANEOnly configures whether to only annotate MANE-select UTRs.
func (a *Annotator) SetMANEOnly(mane bool) {
	a.maneOnly = mane
}

// SetLogger sets the logger for warning and info messages.
func (a *Annotator) SetLogger(l *zap.Logger) {
	a.logger = l
}

// Annotate evaluates a single variant against every overlapping 5'UTR and
// returns all predicted consequences. Ordinary variants are matched by
// chromosome position; synthetic splice-remapped variants are matched by
// the transcript recorded in their provenance, with inclusive span bounds
// and no exon containment requirement, since they anchor at intron
// boundaries.
func (a *Annotator) Annotate(v *vcf.Variant) ([]*Consequence, error) {
	if v.IsSynthetic() {
		return a.annotateSynthetic(v)
	}

	chrom := v.ChromWithPrefix()
	var out []*Consequence
	for _, utr := range a.refs.FindUTRs(chrom, v.Pos) {
		if a.maneOnly && !utr.MANE {
			continue
		}
		if !utr.Contains(v.Pos) {
			continue
		}
		// The whole ref allele must sit inside a single exon; boundary
		// spanning variants belong to the splice remapper.
		if !utr.Exons.ContainsSpan(v.Pos, int64(len(v.Ref))) {
			continue
		}
		csqs, err := a.classify(v, utr)
		if err != nil {
			continue
		}
		out = append(out, csqs...)
	}
	return out, nil
}

func (a *Annotator) annotateSynthetic(v *vcf.Variant) ([]*Consequence, error) {
	var out []*Consequence
	for _, utr := range a.refs.UTRsByTranscript(v.Transcript) {
		if a.maneOnly && !utr.MANE {
			continue
		}
		if !utr.ContainsInclusive(v.Pos) {
			continue
		}
		csqs, err := a.classify(v, utr)
		if err != nil {
			continue
		}
		out = append(out, csqs...)
	}
	return out, nil
}

// classify runs the consequence pipeline for one (variant, UTR) pair. A
// failed pair is logged and skipped without affecting other pairs.
func (a *Annotator) classify(v *vcf.Variant, utr *refdata.UTR) ([]*Consequence, error) {
	uorfs := a.refs.UORFsByTranscript(utr.Transcript)
	csqs, err := classifyUTR(v, utr, uorfs, a.scorer)
	if err != nil {
		a.logger.Warn("skipping variant/UTR pair",
			zap.String("chrom", v.Chrom),
			zap.Int64("pos", v.Pos),
			zap.String("transcript", utr.Transcript),
			zap.Error(err))
		return nil, err
	}
	return csqs, nil
}

// AnnotateAll annotates all variants from a parser, in input order, using a
// pool of workers. Malformed and multi-allelic rows are skipped with a
// warning. If workers is 0, runtime.NumCPU() is used.
func (a *Annotator) AnnotateAll(parser vcf.VariantParser, writer AnnotationWriter, workers int) error {
	items := make(chan WorkItem, 2*runtime.NumCPU())
	var parseErr error

	go func() {
		defer close(items)
		seq := 0
		for {
			v, err := parser.Next()
			if err != nil {
				var perr *vcf.ParseError
				if errors.As(err, &perr) {
					a.logger.Warn("skipping malformed variant row", zap.Error(err))
					continue
				}
				parseErr = fmt.Errorf("read variant: %w", err)
				return
			}
			if v == nil {
				return
			}
			if vcf.IsMultiAllelic(v.Alt) {
				a.logger.Warn("skipping multi-allelic variant",
					zap.String("chrom", v.Chrom),
					zap.Int64("pos", v.Pos),
					zap.String("alt", v.Alt))
				continue
			}
			items <- WorkItem{Seq: seq, Variant: v}
			seq++
		}
	}()

	results := a.ParallelAnnotate(items, workers)

	if err := OrderedCollect(results, func(r WorkResult) error {
		if r.Err != nil {
			a.logger.Warn("failed to annotate variant",
				zap.String("chrom", r.Variant.Chrom),
				zap.Int64("pos", r.Variant.Pos),
				zap.Error(r.Err))
			return nil
		}
		for _, c := range r.Consequences {
			if err := writer.Write(r.Variant, c); err != nil {
				return fmt.Errorf("write consequence: %w", err)
			}
		}
		return nil
	}); err != nil {
		return err
	}

	if parseErr != nil {
		return parseErr
	}

	return writer.Flush()
}

// AnnotationWriter defines the interface for writing consequence rows.
type AnnotationWriter interface {
	WriteHeader() error
	Write(v *vcf.Variant, c *Consequence) error
	Flush() error
}
