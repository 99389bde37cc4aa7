package entity

import (
	"time"

	"github.com/joseph-ayodele/labreports/constants"
)

// AggregatedRecord is the summary row for one sample.
type AggregatedRecord struct {
	Sample       string                              `json:"sample"`
	FileName     string                              `json:"file_name"` // report holding the highest reference value
	Measurements map[constants.Substance]Measurement `json:"measurements"`
	PFAS         bool                                `json:"pfas"`
	TestDate     time.Time                           `json:"test_date"` // zero when no member had a date
}

// NewAggregatedRecord returns a record with every key set to not-detected.
func NewAggregatedRecord(keys []constants.Substance) AggregatedRecord {
	m := make(map[constants.Substance]Measurement, len(keys))
	for _, k := range keys {
		m[k] = NotDetected()
	}
	return AggregatedRecord{Measurements: m}
}

func (r AggregatedRecord) Measurement(key constants.Substance) Measurement {
	return r.Measurements[key]
}

func (r AggregatedRecord) HasTestDate() bool {
	return !r.TestDate.IsZero()
}
