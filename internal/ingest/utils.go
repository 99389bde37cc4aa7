package ingest

import (
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/labreports/constants"
)

// AllowedExt checks if a file extension is in the allowed set (defaults to pdf/txt).
func AllowedExt(allowed map[string]struct{}, ext string) bool {
	if allowed == nil {
		allowed = constants.AllowedExtensions
	}
	_, ok := allowed[constants.NormalizeExt(ext)]
	return ok
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}
