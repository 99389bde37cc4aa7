// Package pipeline runs read -> extract -> aggregate for each sample.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/labreports/constants"
	"github.com/joseph-ayodele/labreports/internal/common"
	"github.com/joseph-ayodele/labreports/internal/core/aggregate"
	"github.com/joseph-ayodele/labreports/internal/core/dates"
	"github.com/joseph-ayodele/labreports/internal/core/extract"
	"github.com/joseph-ayodele/labreports/internal/entity"
	"github.com/joseph-ayodele/labreports/internal/ingest"
)

// TextSource is the report reader boundary: file -> page texts.
type TextSource interface {
	ExtractPages(ctx context.Context, path string) ([]string, error)
}

// DocumentOutcome records what happened to one report of a sample.
type DocumentOutcome struct {
	Path   string
	Status constants.DocStatus
	Pages  int
	Err    error
}

// SampleResult is the aggregated record of a sample plus what happened to each report.
type SampleResult struct {
	Sample    string
	Record    entity.AggregatedRecord
	Results   []entity.ExtractionResult
	Documents []DocumentOutcome
}

// Diagnostics lists the reports that did not contribute to the record.
func (r SampleResult) Diagnostics() []entity.Diagnostic {
	var out []entity.Diagnostic
	for _, d := range r.Documents {
		if d.Status == constants.DocStatusExtracted {
			continue
		}
		diag := entity.Diagnostic{Sample: r.Sample, Path: d.Path, Status: d.Status}
		if d.Err != nil {
			diag.Error = d.Err.Error()
		}
		out = append(out, diag)
	}
	return out
}

// Processor processes samples strictly one report at a time.
type Processor struct {
	logger     *slog.Logger
	source     TextSource
	extractor  *extract.Extractor
	aggregator *aggregate.Aggregator
}

func NewProcessor(logger *slog.Logger, source TextSource, extractor *extract.Extractor, aggregator *aggregate.Aggregator) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{logger: logger, source: source, extractor: extractor, aggregator: aggregator}
}

// ProcessAll processes samples in order. A run id is attached to ctx when it has none.
func (p *Processor) ProcessAll(ctx context.Context, samples []ingest.Sample) []SampleResult {
	if common.RunIDFromContext(ctx) == "" {
		ctx = common.WithRunID(ctx, uuid.NewString())
	}
	runID := common.RunIDFromContext(ctx)
	start := time.Now()

	out := make([]SampleResult, 0, len(samples))
	skipped := 0
	for _, s := range samples {
		res := p.ProcessSample(ctx, s)
		skipped += len(res.Diagnostics())
		out = append(out, res)
	}

	p.logger.Info("run complete",
		"run_id", runID,
		"samples", len(out),
		"skipped_documents", skipped,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return out
}

// ProcessSample reads and extracts every report of s, skipping unreadable ones,
// then aggregates what was read. It never fails as a whole.
func (p *Processor) ProcessSample(ctx context.Context, s ingest.Sample) SampleResult {
	ctx = common.WithSample(ctx, s.Name)
	logger := p.logger.With("run_id", common.RunIDFromContext(ctx), "sample", s.Name)

	res := SampleResult{Sample: s.Name}
	for _, f := range s.Files {
		pages, err := p.source.ExtractPages(ctx, f.Path)
		if err != nil {
			logger.Warn("skipping unreadable report", "file", f.Name, "error", err)
			res.Documents = append(res.Documents, DocumentOutcome{Path: f.Path, Status: constants.DocStatusUnreadable, Err: err})
			continue
		}
		r := p.extractor.Extract(f.Name, pages)
		res.Results = append(res.Results, r)
		res.Documents = append(res.Documents, DocumentOutcome{Path: f.Path, Status: constants.DocStatusExtracted, Pages: len(pages)})
	}
	for _, f := range s.Failed {
		err := common.Unreadable(f.Path, f.Err)
		logger.Warn("skipping unreadable report", "file", f.Name, "error", err)
		res.Documents = append(res.Documents, DocumentOutcome{Path: f.Path, Status: constants.DocStatusUnreadable, Err: err})
	}
	for _, f := range s.Duplicates {
		logger.Info("skipping duplicate report", "file", f.Name, "hash", f.HashHex)
		res.Documents = append(res.Documents, DocumentOutcome{Path: f.Path, Status: constants.DocStatusDuplicate})
	}

	res.Record = p.aggregator.Aggregate(s.Name, res.Results)
	logger.Info("sample aggregated",
		"reports", len(s.Files),
		"extracted", len(res.Results),
		"file", res.Record.FileName,
		"pfas", res.Record.PFAS,
		"test_date", dates.Format(res.Record.TestDate),
	)
	return res
}
