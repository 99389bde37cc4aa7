package reader

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ledongthuc/pdf"
)

// pdfNative extracts page text in-process.
func (r *Reader) pdfNative(path string) (pages []string, err error) {
	f, doc, err := pdf.Open(path)
	if err != nil {
		// Open hands back the file even when the header check fails.
		if f != nil {
			_ = f.Close()
		}
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			r.logger.Warn("failed to close pdf", "path", path, "error", cerr)
		}
	}()
	// the pdf package panics on some malformed content streams
	defer func() {
		if p := recover(); p != nil {
			pages, err = nil, fmt.Errorf("parse pdf: %v", p)
		}
	}()

	n := doc.NumPage()
	if r.cfg.MaxPages > 0 && n > r.cfg.MaxPages {
		n = r.cfg.MaxPages
	}
	fonts := make(map[string]*pdf.Font)
	for i := 1; i <= n; i++ {
		page := doc.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		for _, name := range page.Fonts() {
			if _, ok := fonts[name]; !ok {
				font := page.Font(name)
				fonts[name] = &font
			}
		}
		text, perr := page.GetPlainText(fonts)
		if perr != nil {
			r.logger.Warn("page text extraction failed", "path", path, "page", i, "error", perr)
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	if n == 0 {
		return nil, fmt.Errorf("pdf has no pages")
	}
	return pages, nil
}

// pdfToText shells out to poppler's pdftotext, which separates pages with \f.
func (r *Reader) pdfToText(ctx context.Context, path string) ([]string, error) {
	args := []string{"-layout", "-enc", "UTF-8", "-eol", "unix"}
	if r.cfg.MaxPages > 0 {
		args = append(args, "-l", strconv.Itoa(r.cfg.MaxPages))
	}
	args = append(args, path, "-")

	out, err := r.runner.Run(ctx, r.cfg.Pdftotext, args...)
	if err != nil {
		return nil, err
	}
	return splitPages(string(out)), nil
}
