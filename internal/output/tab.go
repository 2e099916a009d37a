// Package output provides consequence-row output formatters.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/mchaldebas/5ULTRA/internal/annotate"
	"github.com/mchaldebas/5ULTRA/internal/vcf"
)

// TabWriter writes consequence rows in tab-delimited format. Kozak-only
// consequences carry no uORF, so their uORF columns are left empty.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"#chrom",
			"pos",
			"id",
			"ref",
			"alt",
			"filter",
			"original_variant",
			"variant_type",
			"CSQ",
			"translation",
			"utr_start",
			"utr_end",
			"strand",
			"gene",
			"transcript",
			"mane",
			"main_kozak",
			"main_kozak_strength",
			"uorf_count",
			"uorf_start",
			"uorf_end",
			"uorf_id",
			"ustart_to_mstart",
			"start_codon",
			"stop_codon",
			"uorf_type",
			"uorf_kozak",
			"uorf_kozak_strength",
			"uorf_length",
			"uorf_codons",
			"uorf_rank",
			"mean_phylop",
			"mean_phastcons",
		},
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes a single consequence row.
func (tw *TabWriter) Write(v *vcf.Variant, c *annotate.Consequence) error {
	utr := c.UTR

	mane := ""
	if utr.MANE {
		mane = "MANE"
	}

	values := []string{
		v.Chrom,
		strconv.FormatInt(v.Pos, 10),
		v.ID,
		v.Ref,
		v.Alt,
		v.Filter,
		v.OriginalID,
		v.Event,
		c.CSQ,
		c.Direction,
		strconv.FormatInt(utr.Start, 10),
		strconv.FormatInt(utr.End, 10),
		utr.Strand,
		utr.Gene,
		utr.Transcript,
		mane,
		utr.Kozak,
		utr.KozakStrength.String(),
		strconv.Itoa(utr.UORFCount),
	}
	values = append(values, uorfColumns(c.UORF)...)

	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// uorfColumns renders the 14 uORF detail columns, or empty placeholders for
// consequences without a uORF.
func uorfColumns(u *annotate.UORFDetail) []string {
	if u == nil {
		return make([]string, 14)
	}
	return []string{
		strconv.FormatInt(u.StartGenomic, 10),
		strconv.FormatInt(u.EndGenomic, 10),
		u.ID,
		strconv.FormatInt(u.DistToMainStart, 10),
		u.StartCodon,
		u.StopCodon,
		string(u.Type),
		u.Kozak,
		u.KozakStrength.String(),
		strconv.FormatInt(u.Length, 10),
		strconv.FormatFloat(u.Codons, 'g', -1, 64),
		u.Rank,
		u.MeanPhyloP,
		u.MeanPhastCons,
	}
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}
