// Package export renders aggregated sample records as a spreadsheet.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/labreports/constants"
	"github.com/joseph-ayodele/labreports/internal/core/dates"
	"github.com/joseph-ayodele/labreports/internal/entity"
)

// PFASYes is written in the PFAS column when the screening was requested.
const PFASYes = "YES"

// Service renders aggregated records into an XLSX workbook.
type Service struct {
	keys             []constants.Substance
	sheet            string
	diagnosticsSheet string
	logger           *slog.Logger
}

func NewService(keys []constants.Substance, sheet, diagnosticsSheet string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if len(keys) == 0 {
		keys = constants.Substances()
	}
	if sheet == "" {
		sheet = "Summary"
	}
	if diagnosticsSheet == "" {
		diagnosticsSheet = "Diagnostics"
	}
	return &Service{keys: keys, sheet: sheet, diagnosticsSheet: diagnosticsSheet, logger: logger}
}

// Headers returns the fixed column order: file name, every key, PFAS, date.
func (s *Service) Headers() []string {
	h := make([]string, 0, len(s.keys)+3)
	h = append(h, "File Name")
	for _, k := range s.keys {
		h = append(h, string(k))
	}
	return append(h, "PFAS", "Date")
}

// Row returns the cells for one record in Headers order. Detected values are
// float64, everything else is a string.
func (s *Service) Row(r entity.AggregatedRecord) []any {
	row := make([]any, 0, len(s.keys)+3)
	row = append(row, r.FileName)
	for _, k := range s.keys {
		if v, ok := r.Measurement(k).Value(); ok {
			row = append(row, v)
		} else {
			row = append(row, entity.NotDetectedLabel)
		}
	}
	pfas := ""
	if r.PFAS {
		pfas = PFASYes
	}
	return append(row, pfas, dates.Format(r.TestDate))
}

// ExportXLSX returns a workbook (as bytes) with one summary row per record and,
// when diags is non-empty, a sheet listing the skipped reports.
func (s *Service) ExportXLSX(ctx context.Context, records []entity.AggregatedRecord, diags []entity.Diagnostic) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("failed to close workbook", "error", err)
		}
	}()

	// rename the default sheet rather than leaving an empty "Sheet1" behind
	if err := f.SetSheetName(f.GetSheetName(0), s.sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if err := writeRow(f, s.sheet, 1, toAny(s.Headers())); err != nil {
		return nil, err
	}
	for i, r := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := writeRow(f, s.sheet, i+2, s.Row(r)); err != nil {
			return nil, err
		}
	}

	// Widen a few columns
	last, _ := excelize.ColumnNumberToName(len(s.keys) + 3)
	_ = f.SetColWidth(s.sheet, "A", "A", 40) // file name
	_ = f.SetColWidth(s.sheet, "B", last, 10)
	_ = f.SetColWidth(s.sheet, last, last, 12) // date
	_ = f.SetPanes(s.sheet, &excelize.Panes{Freeze: true, Split: false, XSplit: 1, YSplit: 1, TopLeftCell: "B2", ActivePane: "bottomRight"})

	if len(diags) > 0 {
		if err := s.writeDiagnostics(f, diags); err != nil {
			return nil, err
		}
	}

	idx, err := f.GetSheetIndex(s.sheet)
	if err != nil {
		return nil, fmt.Errorf("sheet index: %w", err)
	}
	f.SetActiveSheet(idx)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(records),
		"diagnostics", len(diags),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func (s *Service) writeDiagnostics(f *excelize.File, diags []entity.Diagnostic) error {
	if _, err := f.NewSheet(s.diagnosticsSheet); err != nil {
		return fmt.Errorf("new sheet: %w", err)
	}
	if err := writeRow(f, s.diagnosticsSheet, 1, []any{"Sample", "File", "Status", "Error"}); err != nil {
		return err
	}
	for i, d := range diags {
		row := []any{d.Sample, d.Path, string(d.Status), truncate(d.Error, 300)}
		if err := writeRow(f, s.diagnosticsSheet, i+2, row); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(s.diagnosticsSheet, "A", "A", 24)
	_ = f.SetColWidth(s.diagnosticsSheet, "B", "B", 60)
	_ = f.SetColWidth(s.diagnosticsSheet, "C", "C", 14)
	_ = f.SetColWidth(s.diagnosticsSheet, "D", "D", 80)
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// truncate caps s at n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return string(r[:1])
	}
	return string(r[:n-1]) + "…"
}
