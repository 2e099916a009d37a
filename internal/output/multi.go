package output

import (
	"github.com/mchaldebas/5ULTRA/internal/annotate"
	"github.com/mchaldebas/5ULTRA/internal/vcf"
)

// MultiWriter fans consequence rows out to several writers, e.g. a TSV
// stream and a DuckDB store in the same run.
type MultiWriter struct {
	writers []annotate.AnnotationWriter
}

// NewMultiWriter creates a writer duplicating rows to all given writers.
func NewMultiWriter(writers ...annotate.AnnotationWriter) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// WriteHeader writes the header on every writer.
func (mw *MultiWriter) WriteHeader() error {
	for _, w := range mw.writers {
		if err := w.WriteHeader(); err != nil {
			return err
		}
	}
	return nil
}

// Write writes the row on every writer.
func (mw *MultiWriter) Write(v *vcf.Variant, c *annotate.Consequence) error {
	for _, w := range mw.writers {
		if err := w.Write(v, c); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes every writer.
func (mw *MultiWriter) Flush() error {
	for _, w := range mw.writers {
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}
