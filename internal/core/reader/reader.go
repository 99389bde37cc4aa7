// Package reader turns report files into page texts.
package reader

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/joseph-ayodele/labreports/constants"
	"github.com/joseph-ayodele/labreports/internal/common"
)

type Config struct {
	Backend   string // common.BackendNative | common.BackendPdftotext; empty -> native
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	MaxPages  int    // 0 = no limit
}

// Reader reads PDF and plain-text reports. Every error it returns wraps common.ErrUnreadable.
type Reader struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewReader(cfg Config, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	if cfg.Backend == "" {
		cfg.Backend = common.BackendNative
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	return &Reader{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

// WithRunner swaps the command runner used by the pdftotext backend.
func (r *Reader) WithRunner(runner Runner) *Reader {
	r.runner = runner
	return r
}

// ExtractPages returns the normalized text of every page, in document order.
// The file is closed before returning on every path.
func (r *Reader) ExtractPages(ctx context.Context, path string) ([]string, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))

	var (
		pages []string
		err   error
	)
	switch constants.MapExtToFormat(ext) {
	case constants.PDF:
		if r.cfg.Backend == common.BackendPdftotext {
			pages, err = r.pdfToText(ctx, path)
		} else {
			pages, err = r.pdfNative(path)
		}
	case constants.TXT:
		pages, err = r.plainText(path)
	default:
		err = fmt.Errorf("%w: %q", common.ErrUnsupported, ext)
	}
	if err != nil {
		r.logger.Warn("report unreadable", "path", path, "backend", r.cfg.Backend, "error", err)
		return nil, common.Unreadable(path, err)
	}

	if r.cfg.MaxPages > 0 && len(pages) > r.cfg.MaxPages {
		pages = pages[:r.cfg.MaxPages]
	}
	for i := range pages {
		pages[i] = Normalize(pages[i])
	}

	r.logger.Debug("report read",
		"path", path,
		"ext", ext,
		"pages", len(pages),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return pages, nil
}
