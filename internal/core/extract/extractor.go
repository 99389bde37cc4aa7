// Package extract reads test values, the test date and the PFAS screening flag out of report text.
package extract

import (
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/labreports/internal/catalog"
	"github.com/joseph-ayodele/labreports/internal/core/dates"
	"github.com/joseph-ayodele/labreports/internal/entity"
)

// Extractor applies a catalog's rules to the page texts of one report.
type Extractor struct {
	cat    *catalog.Catalog
	dates  *dates.Normalizer
	logger *slog.Logger
}

func NewExtractor(cat *catalog.Catalog, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		cat:    cat,
		dates:  dates.NewNormalizer(cat.DateLayouts),
		logger: logger,
	}
}

// Extract produces the result for one report. pages are plain text in document order.
func (e *Extractor) Extract(fileName string, pages []string) entity.ExtractionResult {
	res := entity.NewExtractionResult(fileName, e.cat.Keys())

	if d, ok := e.ExtractDate(pages); ok {
		res.TestDate = d
	}
	res.PFAS = e.DetectPFAS(pages)

	found := 0
	for _, page := range pages {
		for _, line := range strings.Split(page, "\n") {
			for _, hit := range e.MatchLine(line) {
				if hit.Kind != MatchNumber {
					continue
				}
				if prev := res.Measurements[hit.Key]; prev.IsDetected() {
					e.logger.Debug("measurement overwritten by later line",
						"file", fileName, "key", hit.Key, "previous", prev.String(), "value", hit.Value.String())
				}
				res.Measurements[hit.Key] = hit.Value
				found++
			}
		}
	}

	e.logger.Debug("report extracted",
		"file", fileName,
		"pages", len(pages),
		"numeric_hits", found,
		"pfas", res.PFAS,
		"test_date", dates.Format(res.TestDate),
	)
	return res
}
