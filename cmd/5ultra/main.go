// Package main provides the 5ultra command-line tool.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "5ultra",
		Short: "Annotate variant effects on 5'UTR translation-control elements",
		Long: `5ultra predicts the effect of genetic variants on upstream
translation-control elements: upstream AUGs, upstream ORFs and Kozak
contexts. The splice subcommand additionally remaps splice-altering
variants onto the transcript before annotation.`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}

	cmd.PersistentFlags().String("data-dir", "", "reference data directory (default ~/.5ULTRA/data)")
	cmd.PersistentFlags().Bool("verbose", false, "verbose logging")
	viper.BindPFlag("data-dir", cmd.PersistentFlags().Lookup("data-dir"))

	cmd.AddCommand(newAnnotateCmd())
	cmd.AddCommand(newSpliceCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// initConfig loads ~/.5ultra.yaml and sets defaults.
func initConfig() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("cannot determine home directory: %w", err)
	}

	viper.SetConfigName(".5ultra")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(home)
	viper.SetEnvPrefix("5ULTRA")
	viper.AutomaticEnv()

	viper.SetDefault("data-dir", filepath.Join(home, ".5ULTRA", "data"))
	viper.SetDefault("splice.cutoff", 0.2)
	viper.SetDefault("mane", false)
	viper.SetDefault("workers", 0)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// newLogger builds the command logger: warnings and above on stderr, or
// full debug output with --verbose.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	return cfg.Build()
}

// detectInputFormat picks the parser for an input path by extension.
func detectInputFormat(path string) string {
	lower := strings.ToLower(path)
	lower = strings.TrimSuffix(lower, ".gz")
	if strings.HasSuffix(lower, ".vcf") {
		return "vcf"
	}
	if strings.HasSuffix(lower, ".tsv") || strings.HasSuffix(lower, ".txt") {
		return "tsv"
	}
	return "vcf"
}
