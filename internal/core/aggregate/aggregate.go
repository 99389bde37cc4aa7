// Package aggregate folds the extraction results of one sample into its summary record.
package aggregate

import (
	"github.com/joseph-ayodele/labreports/constants"
	"github.com/joseph-ayodele/labreports/internal/entity"
)

// Aggregator reduces per-report results. It holds no state between calls.
type Aggregator struct {
	keys      []constants.Substance
	reference constants.Substance
}

func NewAggregator(keys []constants.Substance, reference constants.Substance) *Aggregator {
	if len(keys) == 0 {
		keys = constants.Substances()
	}
	if reference == "" {
		reference = constants.ReferenceSubstance
	}
	return &Aggregator{keys: keys, reference: reference}
}

// Aggregate folds results left to right:
//   - date: latest present date, zero if none
//   - PFAS: true if any result is
//   - file name: first result with the strictly greatest reference value (not-detected counts as 0)
//   - substances: greatest reported number, not-detected if none reported one
//
// Every result is visited; an empty slice yields a record at its defaults.
func (a *Aggregator) Aggregate(sample string, results []entity.ExtractionResult) entity.AggregatedRecord {
	acc := a.newAccumulator(sample)
	for _, r := range results {
		acc.add(r)
	}
	return acc.rec
}

type accumulator struct {
	rec       entity.AggregatedRecord
	keys      []constants.Substance
	reference constants.Substance
	bestRef   float64
}

func (a *Aggregator) newAccumulator(sample string) *accumulator {
	rec := entity.NewAggregatedRecord(a.keys)
	rec.Sample = sample
	return &accumulator{rec: rec, keys: a.keys, reference: a.reference, bestRef: -1}
}

func (acc *accumulator) add(r entity.ExtractionResult) {
	if r.HasTestDate() && r.TestDate.After(acc.rec.TestDate) {
		acc.rec.TestDate = r.TestDate
	}

	acc.rec.PFAS = acc.rec.PFAS || r.PFAS

	if ref := r.Measurement(acc.reference).ValueOrZero(); ref > acc.bestRef {
		acc.bestRef = ref
		acc.rec.FileName = r.FileName
	}

	for _, k := range acc.keys {
		acc.rec.Measurements[k] = maxMeasurement(acc.rec.Measurements[k], r.Measurement(k))
	}
}

// maxMeasurement prefers any number over not-detected, then the larger number.
func maxMeasurement(cur, next entity.Measurement) entity.Measurement {
	nv, nok := next.Value()
	if !nok {
		return cur
	}
	cv, cok := cur.Value()
	if !cok || nv > cv {
		return next
	}
	return cur
}
