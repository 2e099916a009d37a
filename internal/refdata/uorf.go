package refdata

// UORFType classifies an upstream ORF's relationship to the main start codon.
type UORFType string

const (
	UORFNonOverlapping     UORFType = "Non-Overlapping"
	UORFNTerminalExtension UORFType = "N-terminal extension"
	UORFOverlapping        UORFType = "Overlapping"
)

// UORF is one known upstream ORF of a transcript, loaded once per run.
// The type is fixed at load time but reclassified per-variant during
// consequence analysis, since an edit can shift relative boundaries.
type UORF struct {
	Chrom           string        `csv:"chrom"`
	StartGenomic    int64         `csv:"start"`
	EndGenomic      int64         `csv:"end"`
	ID              string        `csv:"id"`
	Transcript      string        `csv:"transcript"`
	MainStartOffset int64         `csv:"utr_length"`        // distance from 5' cap to the main start codon
	DistToMainStart int64         `csv:"ustart_to_mstart"`  // main start minus uORF start, in transcript space
	StartCodon      string        `csv:"start_codon"`
	StopCodon       string        `csv:"stop_codon"`
	Type            UORFType      `csv:"type"`
	Kozak           string        `csv:"kozak"`
	KozakStrength   KozakStrength `csv:"kozak_strength"`
	Length          int64         `csv:"length"`
	Codons          float64       `csv:"codons"`
	Rank            string        `csv:"rank"`
	MeanPhyloP      string        `csv:"mean_phylop"`
	MeanPhastCons   string        `csv:"mean_phastcons"`
}

// RelStart returns the uORF start in transcript-relative coordinates.
func (u *UORF) RelStart() int64 {
	return u.MainStartOffset - u.DistToMainStart
}

// RelStop returns the relative position of the first base of the stop codon.
// Invariant: stop = start + length - 3.
func (u *UORF) RelStop() int64 {
	return u.RelStart() + u.Length - 3
}

// Intron is one intron record of a transcript, used only by the splice
// remapper to rebuild retained intronic sequence.
type Intron struct {
	Chrom      string `csv:"chrom"`
	Start      int64  `csv:"start"`
	End        int64  `csv:"end"`
	Transcript string `csv:"transcript"`
	Sequence   string `csv:"sequence"`
}
