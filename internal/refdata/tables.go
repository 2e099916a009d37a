package refdata

// Tables holds all reference data for a run, built once at load time and
// read-only afterwards. Safe for concurrent lookups.
type Tables struct {
	utrsByChrom      map[string][]*UTR
	utrsByGene       map[string][]*UTR
	utrsByTranscript map[string][]*UTR
	uorfsByTx        map[string][]*UORF
	intronsByTx      map[string][]*Intron
	indexByChrom     map[string]*IntervalIndex
}

// NewTables creates an empty table set.
func NewTables() *Tables {
	return &Tables{
		utrsByChrom:      make(map[string][]*UTR),
		utrsByGene:       make(map[string][]*UTR),
		utrsByTranscript: make(map[string][]*UTR),
		uorfsByTx:        make(map[string][]*UORF),
		intronsByTx:      make(map[string][]*Intron),
	}
}

// AddUTR registers a UTR record under its chromosome, gene and transcript.
func (t *Tables) AddUTR(u *UTR) {
	t.utrsByChrom[u.Chrom] = append(t.utrsByChrom[u.Chrom], u)
	t.utrsByGene[u.Gene] = append(t.utrsByGene[u.Gene], u)
	t.utrsByTranscript[u.Transcript] = append(t.utrsByTranscript[u.Transcript], u)
	t.indexByChrom = nil // invalidate, rebuilt on next query
}

// AddUORF registers a uORF record under its transcript.
func (t *Tables) AddUORF(u *UORF) {
	t.uorfsByTx[u.Transcript] = append(t.uorfsByTx[u.Transcript], u)
}

// AddIntron registers an intron record under its transcript.
func (t *Tables) AddIntron(in *Intron) {
	t.intronsByTx[in.Transcript] = append(t.intronsByTx[in.Transcript], in)
}

// BuildIndexes builds the per-chromosome interval indexes. Call once after
// loading; queries before the build fall back to a linear scan.
func (t *Tables) BuildIndexes() {
	t.indexByChrom = make(map[string]*IntervalIndex, len(t.utrsByChrom))
	for chrom, utrs := range t.utrsByChrom {
		t.indexByChrom[chrom] = BuildIntervalIndex(utrs)
	}
}

// FindUTRs returns all UTRs on chrom whose genomic span contains pos.
func (t *Tables) FindUTRs(chrom string, pos int64) []*UTR {
	if t.indexByChrom != nil {
		idx, ok := t.indexByChrom[chrom]
		if !ok {
			return nil
		}
		return idx.FindOverlaps(pos)
	}

	var result []*UTR
	for _, u := range t.utrsByChrom[chrom] {
		if pos >= u.Start && pos <= u.End {
			result = append(result, u)
		}
	}
	return result
}

// UTRsByGene returns all UTR records for a gene.
func (t *Tables) UTRsByGene(gene string) []*UTR {
	return t.utrsByGene[gene]
}

// UTRsByTranscript returns all UTR records for a transcript.
func (t *Tables) UTRsByTranscript(tx string) []*UTR {
	return t.utrsByTranscript[tx]
}

// UORFsByTranscript returns the known uORFs of a transcript.
func (t *Tables) UORFsByTranscript(tx string) []*UORF {
	return t.uorfsByTx[tx]
}

// IntronsByTranscript returns the intron records of a transcript.
func (t *Tables) IntronsByTranscript(tx string) []*Intron {
	return t.intronsByTx[tx]
}

// UTRCount returns the total number of loaded UTR records.
func (t *Tables) UTRCount() int {
	count := 0
	for _, utrs := range t.utrsByChrom {
		count += len(utrs)
	}
	return count
}

// UORFCount returns the total number of loaded uORF records.
func (t *Tables) UORFCount() int {
	count := 0
	for _, uorfs := range t.uorfsByTx {
		count += len(uorfs)
	}
	return count
}
