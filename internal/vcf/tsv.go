// Package vcf provides variant input parsing for VCF and TSV files.
package vcf

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// TSVParser reads variants from a tab-separated file with a header line.
// The first five columns follow the VCF body convention (chrom, pos, id,
// ref, alt); optional named columns carry SpliceAI annotations and
// splice-remapping provenance.
type TSVParser struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	lineNumber int
	columns    []string

	spliceAICol   int
	transcriptCol int
	originalCol   int
	eventCol      int
}

// NewTSVParser creates a parser for a tab-separated variant file.
func NewTSVParser(path string) (*TSVParser, error) {
	if path == "-" {
		return newTSVParser(os.Stdin, nil, nil)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tsv file: %w", err)
	}

	buf := make([]byte, 2)
	if _, err := file.Read(buf); err != nil {
		file.Close()
		return nil, fmt.Errorf("read tsv header: %w", err)
	}
	if _, err := file.Seek(0, 0); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek tsv file: %w", err)
	}

	if buf[0] == 0x1f && buf[1] == 0x8b {
		gz, err := gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		return newTSVParser(gz, file, gz)
	}

	return newTSVParser(file, file, nil)
}

func newTSVParser(r io.Reader, file *os.File, gz *gzip.Reader) (*TSVParser, error) {
	p := &TSVParser{
		reader:     bufio.NewReader(r),
		file:       file,
		gzipReader: gz,
	}
	if err := p.parseHeader(); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

// parseHeader reads the header line and resolves optional column indices.
func (p *TSVParser) parseHeader() error {
	line, err := p.reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return fmt.Errorf("read header: %w", err)
	}
	p.lineNumber++

	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return &ParseError{Line: p.lineNumber, Message: "empty header line"}
	}

	p.columns = strings.Split(line, "\t")
	if len(p.columns) < 5 {
		return &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("expected at least 5 header columns, found %d", len(p.columns)),
		}
	}

	p.spliceAICol = -1
	p.transcriptCol = -1
	p.originalCol = -1
	p.eventCol = -1
	for i, name := range p.columns {
		switch name {
		case "SpliceAI":
			p.spliceAICol = i
		case "transcript", "Transcript":
			p.transcriptCol = i
		case "original_variant", "True_variant":
			p.originalCol = i
		case "variant_type", "type":
			p.eventCol = i
		}
	}

	return nil
}

// Next reads the next variant. Returns nil, nil at end of input.
func (p *TSVParser) Next() (*Variant, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read variant line: %w", err)
	}
	p.lineNumber++

	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return p.Next()
	}

	fields := strings.Split(line, "\t")
	if len(fields) < 5 {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("expected at least 5 columns, found %d", len(fields)),
		}
	}

	pos, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("invalid position: %s", fields[1]),
		}
	}

	v := &Variant{
		Chrom: fields[0],
		Pos:   pos,
		ID:    fields[2],
		Ref:   fields[3],
		Alt:   fields[4],
	}

	if p.spliceAICol >= 0 && p.spliceAICol < len(fields) {
		v.SpliceAI = fields[p.spliceAICol]
	}
	if p.transcriptCol >= 0 && p.transcriptCol < len(fields) {
		v.Transcript = fields[p.transcriptCol]
	}
	if p.originalCol >= 0 && p.originalCol < len(fields) {
		v.OriginalID = fields[p.originalCol]
	}
	if p.eventCol >= 0 && p.eventCol < len(fields) {
		v.Event = fields[p.eventCol]
	}

	return v, nil
}

// Columns returns the header column names.
func (p *TSVParser) Columns() []string {
	return p.columns
}

// LineNumber returns the current line number being processed.
func (p *TSVParser) LineNumber() int {
	return p.lineNumber
}

// Close closes the parser and underlying file.
func (p *TSVParser) Close() error {
	if p.gzipReader != nil {
		p.gzipReader.Close()
	}
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}
