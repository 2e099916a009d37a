package refdata

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Exon is a genomic interval of a 5'UTR exon (1-based, inclusive).
type Exon struct {
	Start int64
	End   int64
}

// Length returns the number of bases in the exon.
func (e Exon) Length() int64 {
	return e.End - e.Start + 1
}

// ExonList is an ordered, non-overlapping set of exon intervals, sorted
// ascending by genomic start. The reference tables store it as a literal
// list of [start, end] pairs.
type ExonList []Exon

// UnmarshalCSV parses the literal exon-list column when loading with gocsv.
func (el *ExonList) UnmarshalCSV(field string) error {
	var pairs [][2]int64
	if err := json.Unmarshal([]byte(field), &pairs); err != nil {
		return fmt.Errorf("parse exon list %q: %w", field, err)
	}
	exons := make(ExonList, len(pairs))
	for i, p := range pairs {
		exons[i] = Exon{Start: p[0], End: p[1]}
	}
	sort.Slice(exons, func(i, j int) bool { return exons[i].Start < exons[j].Start })
	*el = exons
	return nil
}

// MarshalCSV renders the literal exon-list column.
func (el ExonList) MarshalCSV() (string, error) {
	pairs := make([][2]int64, len(el))
	for i, e := range el {
		pairs[i] = [2]int64{e.Start, e.End}
	}
	out, err := json.Marshal(pairs)
	return string(out), err
}

// TotalLength returns the summed length of all exons.
func (el ExonList) TotalLength() int64 {
	var total int64
	for _, e := range el {
		total += e.Length()
	}
	return total
}

// ContainsSpan reports whether the genomic span [pos, pos+width-1] falls
// entirely within a single exon. Spans crossing an exon/intron boundary are
// excluded from direct consequence analysis.
func (el ExonList) ContainsSpan(pos, width int64) bool {
	end := pos + width - 1
	for _, e := range el {
		if e.Start <= pos && pos <= e.End && e.Start <= end && end <= e.End {
			return true
		}
	}
	return false
}

// UTR is one 5'UTR record of a transcript. Records are immutable for the
// lifetime of a run.
type UTR struct {
	Chrom         string        `csv:"chrom"`
	Start         int64         `csv:"start"`
	End           int64         `csv:"end"`
	Strand        string        `csv:"strand"`
	Gene          string        `csv:"gene"`
	Transcript    string        `csv:"transcript"`
	MANE          bool          `csv:"mane"`
	Kozak         string        `csv:"kozak"`
	KozakStrength KozakStrength `csv:"kozak_strength"`
	Sequence      string        `csv:"sequence"`
	Exons         ExonList      `csv:"exons"`
	UORFCount     int           `csv:"uorf_count"`
}

// IsForwardStrand returns true if the transcript is on the forward strand.
func (u *UTR) IsForwardStrand() bool {
	return u.Strand == "+"
}

// Contains reports whether pos lies strictly inside the UTR genomic span.
func (u *UTR) Contains(pos int64) bool {
	return pos > u.Start && pos < u.End
}

// ContainsInclusive reports whether pos lies inside the UTR genomic span,
// boundaries included. Synthetic splice-remapped variants anchor at intron
// boundaries and may sit exactly on the span limits.
func (u *UTR) ContainsInclusive(pos int64) bool {
	return pos >= u.Start && pos <= u.End
}

// MainStartGenomic returns the genomic coordinate adjacent to the main start
// codon: the UTR end on the forward strand, the UTR start on the reverse.
func (u *UTR) MainStartGenomic() int64 {
	if u.IsForwardStrand() {
		return u.End
	}
	return u.Start
}
