package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/labreports/internal/common"
	"github.com/joseph-ayodele/labreports/internal/core/aggregate"
	"github.com/joseph-ayodele/labreports/internal/core/extract"
	"github.com/joseph-ayodele/labreports/internal/core/pipeline"
	"github.com/joseph-ayodele/labreports/internal/core/reader"
	"github.com/joseph-ayodele/labreports/internal/entity"
	"github.com/joseph-ayodele/labreports/internal/export"
	"github.com/joseph-ayodele/labreports/internal/ingest"
)

func newRunCmd(root *rootOptions) *cobra.Command {
	var dir, out string
	var includeHidden bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process a directory of samples and write the summary workbook",
		Long: `Each immediate subdirectory of --dir is one sample; every report below it is
aggregated into one row. Reports directly inside --dir are one sample each.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				return fmt.Errorf("%w: --dir is required", common.ErrInvalidInput)
			}
			// If output file not specified, use parent directory with default filename
			if out == "" {
				out = filepath.Join(filepath.Dir(filepath.Clean(dir)), "substances.xlsx")
			}

			cfg, logger, cat, err := root.load(cmd)
			if err != nil {
				return err
			}
			ctx := common.WithRunID(cmd.Context(), uuid.NewString())

			ingestor := ingest.NewFSIngestor(logger)
			ingestor.SkipHidden = !includeHidden
			samples, stats, err := ingestor.Discover(ctx, dir)
			if err != nil {
				return err
			}

			rd := reader.NewReader(reader.Config{
				Backend:   cfg.Reader.Backend,
				Pdftotext: cfg.Reader.Pdftotext,
				MaxPages:  cfg.Reader.MaxPages,
			}, logger)
			processor := pipeline.NewProcessor(logger, rd,
				extract.NewExtractor(cat, logger),
				aggregate.NewAggregator(cat.Keys(), cat.Reference))

			results := processor.ProcessAll(ctx, samples)

			records := make([]entity.AggregatedRecord, 0, len(results))
			var diags []entity.Diagnostic
			for _, r := range results {
				records = append(records, r.Record)
				diags = append(diags, r.Diagnostics()...)
			}

			logger.Info("exporting to XLSX", "output", out)
			exporter := export.NewService(cat.Keys(), cfg.Export.Sheet, cfg.Export.DiagnosticsSheet, logger)
			xlsxBytes, err := exporter.ExportXLSX(ctx, records, diags)
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			if err := os.WriteFile(out, xlsxBytes, 0o644); err != nil {
				return fmt.Errorf("write output file: %w", err)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Batch processing complete!\n")
			fmt.Fprintf(w, "- Samples: %d\n", len(records))
			fmt.Fprintf(w, "- Reports matched: %d\n", stats.Matched)
			fmt.Fprintf(w, "- Reports skipped: %d\n", len(diags))
			fmt.Fprintf(w, "- Output: %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "directory of samples to process (required)")
	cmd.Flags().StringVar(&out, "out", "", "output XLSX file path (default: substances.xlsx next to --dir)")
	cmd.Flags().BoolVar(&includeHidden, "include-hidden", false, "also process hidden files and directories")
	return cmd
}
