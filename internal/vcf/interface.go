// Package vcf provides variant input parsing for VCF and TSV files.
package vcf

// VariantParser is the interface for parsers that read variants.
// Both the VCF and TSV parsers implement this interface.
type VariantParser interface {
	// Next reads the next variant.
	// Returns nil, nil when there are no more variants.
	Next() (*Variant, error)

	// Close closes the parser and releases resources.
	Close() error

	// LineNumber returns the current line number being processed.
	LineNumber() int
}

// SliceParser replays an in-memory variant slice through the VariantParser
// interface, letting remapped variants flow through the same annotation
// pipeline as file input.
type SliceParser struct {
	variants []*Variant
	next     int
}

// NewSliceParser creates a parser over the given variants.
func NewSliceParser(variants []*Variant) *SliceParser {
	return &SliceParser{variants: variants}
}

// Next returns the next variant. Returns nil, nil when exhausted.
func (p *SliceParser) Next() (*Variant, error) {
	if p.next >= len(p.variants) {
		return nil, nil
	}
	v := p.variants[p.next]
	p.next++
	return v, nil
}

// Close is a no-op.
func (p *SliceParser) Close() error {
	return nil
}

// LineNumber returns the position in the slice.
func (p *SliceParser) LineNumber() int {
	return p.next
}
