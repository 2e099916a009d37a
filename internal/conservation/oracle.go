// Package conservation looks up per-position conservation scores (phyloP,
// phastCons) from tabix-indexed BED files. An absent position yields
// "no value", never an error: conservation is advisory, not load-bearing.
package conservation

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/brentp/irelate/parsers"
	"github.com/carbocation/bix"
	"go.uber.org/zap"
)

// Track names for the supported conservation score tracks.
const (
	TrackPhyloP    = "phyloP"
	TrackPhastCons = "phastCons"
)

// locus implements irelate's IPosition for a single-base tabix query.
type locus struct {
	chrom string
	start int64
	end   int64
}

func (l locus) Chrom() string { return l.chrom }
func (l locus) Start() uint32 { return uint32(l.start) }
func (l locus) End() uint32   { return uint32(l.end) }

type scoreKey struct {
	chrom string
	pos   int64
	track string
}

type scoreValue struct {
	score float64
	ok    bool
}

// TabixScorer resolves scores from per-chromosome bgzipped BED files laid
// out as {dataDir}/5UTR.hg38.{track}100way/{chrom}.bed.gz. Lookups are
// memoized for the lifetime of the scorer; queries are serialized since the
// underlying readers are not safe for concurrent use.
type TabixScorer struct {
	dataDir string
	logger  *zap.Logger

	mu     sync.Mutex
	memo   map[scoreKey]scoreValue
	files  map[string]*bix.Bix
	broken map[string]bool // paths that failed to open, don't retry
}

// NewTabixScorer creates a scorer rooted at the given data directory.
func NewTabixScorer(dataDir string) *TabixScorer {
	return &TabixScorer{
		dataDir: dataDir,
		logger:  zap.NewNop(),
		memo:    make(map[scoreKey]scoreValue),
		files:   make(map[string]*bix.Bix),
		broken:  make(map[string]bool),
	}
}

// SetLogger sets the logger for lookup warnings.
func (s *TabixScorer) SetLogger(logger *zap.Logger) {
	s.logger = logger
}

// Score returns the conservation score at a 1-based genomic position.
// The second return value is false when no score is available.
func (s *TabixScorer) Score(chrom string, pos int64, track string) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := scoreKey{chrom: chrom, pos: pos, track: track}
	if v, ok := s.memo[key]; ok {
		return v.score, v.ok
	}

	score, ok := s.lookup(chrom, pos, track)
	s.memo[key] = scoreValue{score: score, ok: ok}
	return score, ok
}

func (s *TabixScorer) lookup(chrom string, pos int64, track string) (float64, bool) {
	tbx := s.open(chrom, track)
	if tbx == nil {
		return 0, false
	}

	vals, err := tbx.Query(locus{chrom: chrom, start: pos - 1, end: pos})
	if err != nil {
		return 0, false
	}

	for {
		v, err := vals.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, false
		}
		iv, ok := v.(*parsers.Interval)
		if !ok || len(iv.Fields) == 0 {
			continue
		}
		raw := string(iv.Fields[len(iv.Fields)-1])
		score, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		return score, true
	}

	return 0, false
}

// open returns a cached tabix reader for the chromosome's track file, or nil
// when the file is missing or unreadable.
func (s *TabixScorer) open(chrom, track string) *bix.Bix {
	path := filepath.Join(s.dataDir, fmt.Sprintf("5UTR.hg38.%s100way", track), chrom+".bed.gz")
	if s.broken[path] {
		return nil
	}
	if tbx, ok := s.files[path]; ok {
		return tbx
	}

	tbx, err := bix.New(path)
	if err != nil {
		s.broken[path] = true
		s.logger.Warn("conservation track unavailable",
			zap.String("path", path),
			zap.Error(err))
		return nil
	}
	s.files[path] = tbx
	return tbx
}

// Close releases all cached tabix readers.
func (s *TabixScorer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tbx := range s.files {
		tbx.Close()
	}
	s.files = make(map[string]*bix.Bix)
	return nil
}
