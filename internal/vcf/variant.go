// Package vcf provides variant input parsing for VCF and TSV files.
package vcf

import "strings"

// Variant represents a single genomic variant.
type Variant struct {
	Chrom  string // Chromosome name (e.g., "17", "chr17")
	Pos    int64  // 1-based genomic position
	ID     string // Variant identifier (e.g., rs ID)
	Ref    string // Reference allele
	Alt    string // Alternate allele as read from the input (see NormalizeAlt)
	Filter string // Filter status (PASS or filter name)

	// SpliceAI holds the raw SpliceAI annotation string for this variant
	// (GENE|AG|AL|DG|DL|dAG|dAL|dDG|dDL), empty when not annotated.
	SpliceAI string

	// Provenance for synthetic variants produced by the splice remapper.
	// Empty on ordinary variants.
	OriginalID string // chrom_pos_id_ref_alt of the source variant
	Event      string // e.g. "DG_insertion_+", "AG_deletion_-"
	Transcript string // transcript the remapped boundary belongs to
}

// IsSNV returns true if the variant is a single nucleotide variant.
func (v *Variant) IsSNV() bool {
	return len(v.Ref) == 1 && len(v.Alt) == 1
}

// IsIndel returns true if the variant is an insertion or deletion.
func (v *Variant) IsIndel() bool {
	return len(v.Ref) != len(v.Alt)
}

// IsInsertion returns true if the variant is an insertion.
func (v *Variant) IsInsertion() bool {
	return len(v.Alt) > len(v.Ref)
}

// IsDeletion returns true if the variant is a deletion.
func (v *Variant) IsDeletion() bool {
	return len(v.Ref) > len(v.Alt)
}

// IsSynthetic returns true if the variant was produced by the splice remapper.
func (v *Variant) IsSynthetic() bool {
	return v.Event != ""
}

// ChromWithPrefix returns the chromosome name with a "chr" prefix, matching
// the naming convention of the reference tables.
func (v *Variant) ChromWithPrefix() string {
	if strings.Contains(v.Chrom, "chr") {
		return v.Chrom
	}
	return "chr" + v.Chrom
}

// NormalizeAlt maps symbolic deletion alleles ("<DEL>") and missing alleles
// (".") to the empty string used by the sequence mutator.
func NormalizeAlt(alt string) string {
	if alt == "<DEL>" || alt == "." {
		return ""
	}
	return alt
}

// IsMultiAllelic reports whether the raw alt field carries multiple
// comma-separated alleles. Such rows are rejected before annotation.
func IsMultiAllelic(alt string) bool {
	return strings.Contains(alt, ",")
}
