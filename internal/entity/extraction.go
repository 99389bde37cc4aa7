package entity

import (
	"time"

	"github.com/joseph-ayodele/labreports/constants"
)

// ExtractionResult holds the fields read out of one report.
type ExtractionResult struct {
	FileName     string                              `json:"file_name"`
	Measurements map[constants.Substance]Measurement `json:"measurements"`
	PFAS         bool                                `json:"pfas"`
	TestDate     time.Time                           `json:"test_date"` // zero when the report carried no usable date
}

// NewExtractionResult returns a result with every key set to not-detected.
func NewExtractionResult(fileName string, keys []constants.Substance) ExtractionResult {
	m := make(map[constants.Substance]Measurement, len(keys))
	for _, k := range keys {
		m[k] = NotDetected()
	}
	return ExtractionResult{FileName: fileName, Measurements: m}
}

// Measurement returns the value for key, not-detected when absent.
func (r ExtractionResult) Measurement(key constants.Substance) Measurement {
	return r.Measurements[key]
}

func (r ExtractionResult) HasTestDate() bool {
	return !r.TestDate.IsZero()
}
