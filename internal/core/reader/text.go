package reader

import (
	"fmt"
	"os"
	"unicode/utf8"
)

// plainText reads a text dump of a report; pages are separated by form feeds.
func (r *Reader) plainText(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("not valid UTF-8 text")
	}
	return splitPages(string(data)), nil
}
