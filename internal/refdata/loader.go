package refdata

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"go.uber.org/zap"
)

// Standard reference table file names inside the data directory.
const (
	UTRTableFile    = "5UTRs.tsv"
	UORFTableFile   = "uORFs.tsv"
	IntronTableFile = "introns.tsv"
)

// Loader reads the tab-separated reference tables into Tables.
type Loader struct {
	dataDir string
	logger  *zap.Logger
}

// NewLoader creates a loader rooted at the given data directory.
func NewLoader(dataDir string) *Loader {
	return &Loader{dataDir: dataDir, logger: zap.NewNop()}
}

// SetLogger sets the logger for load-time warnings.
func (l *Loader) SetLogger(logger *zap.Logger) {
	l.logger = logger
}

// Load reads the UTR, uORF and intron tables and builds the lookup indexes.
// A missing intron table is tolerated (splice remapping simply finds no
// introns); missing UTR or uORF tables are fatal at startup.
func (l *Loader) Load(t *Tables) error {
	utrs, err := LoadUTRTable(filepath.Join(l.dataDir, UTRTableFile))
	if err != nil {
		return fmt.Errorf("load UTR table: %w", err)
	}
	kept := 0
	for _, u := range utrs {
		if int64(len(u.Sequence)) != u.Exons.TotalLength() {
			l.logger.Warn("skipping UTR with sequence/exon length mismatch",
				zap.String("transcript", u.Transcript),
				zap.Int("sequence_len", len(u.Sequence)),
				zap.Int64("exon_len", u.Exons.TotalLength()))
			continue
		}
		t.AddUTR(u)
		kept++
	}

	uorfs, err := LoadUORFTable(filepath.Join(l.dataDir, UORFTableFile))
	if err != nil {
		return fmt.Errorf("load uORF table: %w", err)
	}
	for _, u := range uorfs {
		t.AddUORF(u)
	}

	introns, err := LoadIntronTable(filepath.Join(l.dataDir, IntronTableFile))
	if err != nil {
		if os.IsNotExist(err) {
			l.logger.Warn("intron table not found, splice remapping disabled",
				zap.String("path", filepath.Join(l.dataDir, IntronTableFile)))
		} else {
			return fmt.Errorf("load intron table: %w", err)
		}
	}
	for _, in := range introns {
		t.AddIntron(in)
	}

	t.BuildIndexes()

	l.logger.Info("reference tables loaded",
		zap.Int("utrs", kept),
		zap.Int("uorfs", len(uorfs)),
		zap.Int("introns", len(introns)))

	return nil
}

// LoadUTRTable reads the 5'UTR table from a TSV file.
func LoadUTRTable(path string) ([]*UTR, error) {
	var records []*UTR
	if err := unmarshalTSV(path, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// LoadUORFTable reads the uORF table from a TSV file.
func LoadUORFTable(path string) ([]*UORF, error) {
	var records []*UORF
	if err := unmarshalTSV(path, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// LoadIntronTable reads the intron table from a TSV file.
func LoadIntronTable(path string) ([]*Intron, error) {
	var records []*Intron
	if err := unmarshalTSV(path, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// unmarshalTSV decodes a (possibly gzipped) tab-separated file into records.
func unmarshalTSV(path string, out interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("open gzip %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	// Tell gocsv to use tab as the delimiter
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		cr := csv.NewReader(in)
		cr.Comma = '\t'
		cr.LazyQuotes = true
		return cr
	})

	if err := gocsv.Unmarshal(r, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
