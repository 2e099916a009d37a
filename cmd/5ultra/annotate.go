package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mchaldebas/5ULTRA/internal/annotate"
	"github.com/mchaldebas/5ULTRA/internal/conservation"
	"github.com/mchaldebas/5ULTRA/internal/duckdb"
	"github.com/mchaldebas/5ULTRA/internal/output"
	"github.com/mchaldebas/5ULTRA/internal/refdata"
	"github.com/mchaldebas/5ULTRA/internal/vcf"
)

func newAnnotateCmd() *cobra.Command {
	var (
		outputFile  string
		dbFile      string
		inputFormat string
	)

	cmd := &cobra.Command{
		Use:   "annotate <input-file>",
		Short: "Annotate variants against 5'UTR translation-control elements",
		Long: `Annotate variants in a VCF or TSV file. Each variant overlapping a
known 5'UTR is evaluated for effects on the main start codon's Kozak
context, on known upstream ORFs, and for newly created upstream AUGs.`,
		Example: `  5ultra annotate input.vcf
  5ultra annotate -o annotated.tsv input.vcf
  5ultra annotate --db results.duckdb --mane input.vcf
  cat input.vcf | 5ultra annotate -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			return runAnnotate(args[0], outputFile, dbFile, inputFormat, verbose)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&dbFile, "db", "", "also append results to a DuckDB database")
	cmd.Flags().StringVar(&inputFormat, "input-format", "", "input format: vcf or tsv (default: by extension)")
	cmd.Flags().Bool("mane", false, "only annotate MANE-select transcripts")
	cmd.Flags().Int("workers", 0, "number of annotation workers (default: NumCPU)")
	viper.BindPFlag("mane", cmd.Flags().Lookup("mane"))
	viper.BindPFlag("workers", cmd.Flags().Lookup("workers"))

	return cmd
}

func runAnnotate(inputPath, outputFile, dbFile, inputFormat string, verbose bool) error {
	logger, err := newLogger(verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	parser, err := openVariantParser(inputPath, inputFormat)
	if err != nil {
		return err
	}
	defer parser.Close()

	ann, scorer, err := buildAnnotator(logger)
	if err != nil {
		return err
	}
	defer scorer.Close()

	writer, cleanup, err := openWriter(outputFile, dbFile)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := writer.WriteHeader(); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	return ann.AnnotateAll(parser, writer, viper.GetInt("workers"))
}

// openVariantParser picks the parser by flag or extension.
func openVariantParser(path, format string) (vcf.VariantParser, error) {
	if format == "" {
		format = detectInputFormat(path)
	}
	switch format {
	case "vcf":
		return vcf.NewParser(path)
	case "tsv":
		return vcf.NewTSVParser(path)
	default:
		return nil, fmt.Errorf("unknown input format %q", format)
	}
}

// buildAnnotator loads the reference tables and wires the annotator.
func buildAnnotator(logger *zap.Logger) (*annotate.Annotator, *conservation.TabixScorer, error) {
	dataDir := viper.GetString("data-dir")

	tables := refdata.NewTables()
	loader := refdata.NewLoader(dataDir)
	loader.SetLogger(logger)
	if err := loader.Load(tables); err != nil {
		return nil, nil, fmt.Errorf("load reference data from %s: %w", dataDir, err)
	}

	scorer := conservation.NewTabixScorer(dataDir)
	scorer.SetLogger(logger)

	ann := annotate.NewAnnotator(tables)
	ann.SetConservationScorer(scorer)
	ann.SetMANEOnly(viper.GetBool("mane"))
	ann.SetLogger(logger)

	return ann, scorer, nil
}

// openWriter builds the output writer: a TSV stream, optionally teed into a
// DuckDB store.
func openWriter(outputFile, dbFile string) (annotate.AnnotationWriter, func(), error) {
	out := os.Stdout
	cleanup := func() {}
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return nil, nil, fmt.Errorf("create output file: %w", err)
		}
		out = f
		cleanup = func() { f.Close() }
	}

	var writer annotate.AnnotationWriter = output.NewTabWriter(out)
	if dbFile != "" {
		store, err := duckdb.Open(dbFile)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		writer = output.NewMultiWriter(writer, store)
		prev := cleanup
		cleanup = func() {
			store.Close()
			prev()
		}
	}
	return writer, cleanup, nil
}
