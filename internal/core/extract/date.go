package extract

import (
	"time"
)

// ExtractDate returns the first anchored date that normalizes. Pages are scanned
// in order and, on each page, anchors in catalog order; a matched token that no
// layout accepts is skipped and the scan goes on.
func (e *Extractor) ExtractDate(pages []string) (time.Time, bool) {
	for pageNo, page := range pages {
		for _, anchor := range e.cat.DateAnchors {
			for _, m := range anchor.FindAllStringSubmatch(page, -1) {
				if d, ok := e.dates.Normalize(m[1]); ok {
					return d, true
				}
				e.logger.Debug("date token not recognised", "page", pageNo+1, "token", m[1])
			}
		}
	}
	return time.Time{}, false
}
