package entity

import (
	"strconv"
)

// NotDetectedLabel is how a not-detected measurement is rendered.
const NotDetectedLabel = "N.D."

// Measurement is either a quantified detection or the not-detected sentinel.
// The zero value is not-detected.
type Measurement struct {
	value    float64
	detected bool
}

// NotDetected returns the sentinel measurement.
func NotDetected() Measurement {
	return Measurement{}
}

// Detected returns a quantified measurement.
func Detected(v float64) Measurement {
	return Measurement{value: v, detected: true}
}

// Value returns the numeric value and whether the measurement is a detection.
func (m Measurement) Value() (float64, bool) {
	return m.value, m.detected
}

func (m Measurement) IsDetected() bool {
	return m.detected
}

// ValueOrZero is the value used when not-detected must take part in a numeric comparison.
func (m Measurement) ValueOrZero() float64 {
	if !m.detected {
		return 0
	}
	return m.value
}

func (m Measurement) String() string {
	if !m.detected {
		return NotDetectedLabel
	}
	return strconv.FormatFloat(m.value, 'f', -1, 64)
}
