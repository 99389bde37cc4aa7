package entity

import (
	"github.com/joseph-ayodele/labreports/constants"
)

// Diagnostic describes a report that was skipped while processing a sample.
type Diagnostic struct {
	Sample string              `json:"sample"`
	Path   string              `json:"path"`
	Status constants.DocStatus `json:"status"`
	Error  string              `json:"error,omitempty"`
}
