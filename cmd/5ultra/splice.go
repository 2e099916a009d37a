package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mchaldebas/5ULTRA/internal/refdata"
	"github.com/mchaldebas/5ULTRA/internal/splice"
	"github.com/mchaldebas/5ULTRA/internal/vcf"
)

func newSpliceCmd() *cobra.Command {
	var (
		outputFile  string
		dbFile      string
		inputFormat string
		remapOnly   bool
	)

	cmd := &cobra.Command{
		Use:   "splice <input-file>",
		Short: "Remap splice-altering variants and annotate the result",
		Long: `Read SpliceAI-annotated variants, rewrite each passing donor or
acceptor gain as a synthetic variant describing its effect on the mature
transcript, and run the synthetic variants through the annotator. With
--remap-only the synthetic variants themselves are written out instead.`,
		Example: `  5ultra splice spliceai.vcf
  5ultra splice --cutoff 0.5 -o annotated.tsv spliceai.tsv
  5ultra splice --remap-only -o synthetic.tsv spliceai.vcf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			return runSplice(args[0], outputFile, dbFile, inputFormat, remapOnly, verbose)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&dbFile, "db", "", "also append results to a DuckDB database")
	cmd.Flags().StringVar(&inputFormat, "input-format", "", "input format: vcf or tsv (default: by extension)")
	cmd.Flags().BoolVar(&remapOnly, "remap-only", false, "write synthetic variants without annotating them")
	cmd.Flags().Float64("cutoff", 0.2, "minimum SpliceAI score for an event to be remapped")
	cmd.Flags().Bool("mane", false, "only annotate MANE-select transcripts")
	cmd.Flags().Int("workers", 0, "number of annotation workers (default: NumCPU)")
	viper.BindPFlag("splice.cutoff", cmd.Flags().Lookup("cutoff"))
	viper.BindPFlag("mane", cmd.Flags().Lookup("mane"))
	viper.BindPFlag("workers", cmd.Flags().Lookup("workers"))

	return cmd
}

func runSplice(inputPath, outputFile, dbFile, inputFormat string, remapOnly, verbose bool) error {
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

	dataDir := viper.GetString("data-dir")
	tables := refdata.NewTables()
	loader := refdata.NewLoader(dataDir)
	loader.SetLogger(logger)
	if err := loader.Load(tables); err != nil {
		return fmt.Errorf("load reference data from %s: %w", dataDir, err)
	}

	remapper := splice.NewRemapper(tables, viper.GetFloat64("splice.cutoff"))
	remapper.SetLogger(logger)

	synthetic, err := remapAll(parser, remapper, logger)
	if err != nil {
		return err
	}
	logger.Info("splice remapping complete", zap.Int("synthetic_variants", len(synthetic)))

	if remapOnly {
		return writeSynthetic(synthetic, outputFile)
	}

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
	return ann.AnnotateAll(vcf.NewSliceParser(synthetic), writer, viper.GetInt("workers"))
}

// remapAll drains the parser and collects every synthetic variant. Variants
// without a SpliceAI annotation are skipped silently; malformed rows are
// skipped with a warning.
func remapAll(parser vcf.VariantParser, remapper *splice.Remapper, logger *zap.Logger) ([]*vcf.Variant, error) {
	var out []*vcf.Variant
	for {
		v, err := parser.Next()
		if err != nil {
			var perr *vcf.ParseError
			if errors.As(err, &perr) {
				logger.Warn("skipping malformed variant row", zap.Error(err))
				continue
			}
			return nil, fmt.Errorf("read variant: %w", err)
		}
		if v == nil {
			return out, nil
		}
		if v.SpliceAI == "" {
			continue
		}
		if vcf.IsMultiAllelic(v.Alt) {
			logger.Warn("skipping multi-allelic variant",
				zap.String("chrom", v.Chrom),
				zap.Int64("pos", v.Pos))
			continue
		}
		out = append(out, remapper.Remap(v)...)
	}
}

// writeSynthetic dumps synthetic variants as a TSV for pipeline chaining;
// the columns match what the tsv input parser resolves.
func writeSynthetic(variants []*vcf.Variant, outputFile string) error {
	out := os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	w := bufio.NewWriter(out)
	header := []string{"#chrom", "pos", "id", "ref", "alt", "filter", "SpliceAI", "transcript", "original_variant", "variant_type"}
	if _, err := w.WriteString(strings.Join(header, "\t") + "\n"); err != nil {
		return err
	}
	for _, v := range variants {
		row := []string{
			v.Chrom,
			strconv.FormatInt(v.Pos, 10),
			v.ID,
			v.Ref,
			v.Alt,
			v.Filter,
			v.SpliceAI,
			v.Transcript,
			v.OriginalID,
			v.Event,
		}
		if _, err := w.WriteString(strings.Join(row, "\t") + "\n"); err != nil {
			return err
		}
	}
	return w.Flush()
}
