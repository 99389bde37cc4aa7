package extract

import (
	"strings"
)

// DetectPFAS reports whether the leading pages contain a tests-requested heading
// and the screening token.
func (e *Extractor) DetectPFAS(pages []string) bool {
	rule := e.cat.PFAS
	n := len(pages)
	if rule.Pages > 0 && rule.Pages < n {
		n = rule.Pages
	}
	text := strings.Join(pages[:n], "\n")

	heading := false
	lower := strings.ToLower(text)
	for _, h := range rule.Headings {
		if strings.Contains(lower, strings.ToLower(h)) {
			heading = true
			break
		}
	}
	return heading && strings.Contains(text, rule.Token)
}
