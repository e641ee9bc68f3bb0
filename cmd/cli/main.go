// Package main implements the Gradelight CLI for resolving quotes and checking rubrics offline.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dsjohal14/gradelight/internal/grading"
	"github.com/dsjohal14/gradelight/internal/libs/obs"
	"github.com/dsjohal14/gradelight/internal/scope/search"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "gradelight",
		Short:         "Gradelight CLI",
		SilenceUsage:  true,
	}

	var logLevel string
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		obs.InitLogger(logLevel)
	}

	root.AddCommand(newResolveCmd(out), newRubricCmd(out))
	return root
}

func newResolveCmd(out io.Writer) *cobra.Command {
	var (
		essayPath  string
		quotesPath string
		opts       = search.DefaultOptions()
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Locate quoted fragments in an essay",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := obs.Logger("cli")

			essay, err := os.ReadFile(essayPath)
			if err != nil {
				return fmt.Errorf("failed to read essay: %w", err)
			}
			raw, err := os.ReadFile(quotesPath)
			if err != nil {
				return fmt.Errorf("failed to read quotes: %w", err)
			}

			var frags []search.Fragment
			if err := json.Unmarshal(raw, &frags); err != nil {
				return fmt.Errorf("quotes must be a JSON array of {criterion_ref, text}: %w", err)
			}

			resolver, err := search.NewResolver(opts)
			if err != nil {
				return err
			}

			results, err := resolver.ResolveBatch(search.NewDocument(string(essay)), frags)
			if err != nil {
				return err
			}

			logger.Debug().Int("fragments", len(results)).Msg("resolved")
			return writeJSON(out, results)
		},
	}

	cmd.Flags().StringVar(&essayPath, "essay", "", "essay text file")
	cmd.Flags().StringVar(&quotesPath, "quotes", "", "JSON file of fragments")
	cmd.Flags().Float64Var(&opts.Threshold, "threshold", search.DefaultThreshold, "minimum fuzzy similarity")
	cmd.Flags().Float64Var(&opts.Tolerance, "tolerance", search.DefaultTolerance, "window length tolerance")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "parallel workers (0 = one per CPU)")
	_ = cmd.MarkFlagRequired("essay")
	_ = cmd.MarkFlagRequired("quotes")

	return cmd
}

func newRubricCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "rubric FILE",
		Short: "Print the criteria parsed from a rubric file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read rubric: %w", err)
			}
			criteria, err := grading.ParseRubric(string(raw))
			if err != nil {
				return err
			}
			return writeJSON(out, criteria)
		},
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
