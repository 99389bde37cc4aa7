// Package ingest discovers samples and their report files on disk.
package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Sample is one physical item and the reports describing it.
type Sample struct {
	Name       string
	Dir        string
	Files      []File
	Duplicates []File // same content as an earlier file of the sample
	Failed     []File // matched but could not be hashed; Err is set
}

// File is one report file.
type File struct {
	Path    string
	Name    string
	HashHex string
	Err     error
}

// DirStats summarises a discovery walk.
type DirStats struct {
	Scanned      uint32
	Matched      uint32
	Samples      uint32
	Deduplicated uint32
	Failed       uint32
}

// FSIngestor reads from the local filesystem.
type FSIngestor struct {
	AllowedExts map[string]struct{} // lowercased sans '.'; nil -> default set
	SkipHidden  bool
	logger      *slog.Logger
}

func NewFSIngestor(logger *slog.Logger) *FSIngestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &FSIngestor{SkipHidden: true, logger: logger}
}

// Discover walks root. Each immediate subdirectory is one sample holding every
// report below it; reports directly in root are single-report samples. Samples
// and their files are sorted by path.
func (i *FSIngestor) Discover(ctx context.Context, root string) ([]Sample, DirStats, error) {
	var stats DirStats
	if strings.TrimSpace(root) == "" {
		return nil, stats, errors.New("root path is required")
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, stats, fmt.Errorf("abs path: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, stats, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, stats, fmt.Errorf("%s is not a directory", root)
	}

	groups := map[string]*Sample{}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if path == root {
			return walkErr
		}
		stats.Scanned++
		if walkErr != nil {
			i.logger.Warn("walk error", "path", path, "error", walkErr)
			stats.Failed++
			return nil
		}
		if i.SkipHidden && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !AllowedExt(i.AllowedExts, filepath.Ext(path)) {
			return nil
		}
		stats.Matched++

		name, dir := sampleFor(root, path)
		s, ok := groups[dir]
		if !ok {
			s = &Sample{Name: name, Dir: dir}
			groups[dir] = s
		}
		hash, err := hashFile(path)
		if err != nil {
			i.logger.Warn("hash failed", "path", path, "error", err)
			stats.Failed++
			s.Failed = append(s.Failed, File{Path: path, Name: filepath.Base(path), Err: fmt.Errorf("hash: %w", err)})
			return nil
		}
		s.Files = append(s.Files, File{Path: path, Name: filepath.Base(path), HashHex: hash})
		return nil
	})
	if err != nil {
		return nil, stats, fmt.Errorf("walk: %w", err)
	}

	samples := make([]Sample, 0, len(groups))
	for _, s := range groups {
		sort.Slice(s.Files, func(a, b int) bool { return s.Files[a].Path < s.Files[b].Path })
		sort.Slice(s.Failed, func(a, b int) bool { return s.Failed[a].Path < s.Failed[b].Path })
		seen := map[string]bool{}
		kept := s.Files[:0]
		for _, f := range s.Files {
			if seen[f.HashHex] {
				s.Duplicates = append(s.Duplicates, f)
				stats.Deduplicated++
				continue
			}
			seen[f.HashHex] = true
			kept = append(kept, f)
		}
		s.Files = kept
		samples = append(samples, *s)
	}
	sort.Slice(samples, func(a, b int) bool { return samples[a].Dir < samples[b].Dir })
	stats.Samples = uint32(len(samples))

	i.logger.Info("samples discovered",
		"root", root,
		"samples", stats.Samples,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"deduplicated", stats.Deduplicated,
		"failed", stats.Failed,
	)
	return samples, stats, nil
}

// sampleFor names the sample a report belongs to. The returned dir is the
// grouping key: the first-level subdirectory, or the file itself when it sits in root.
func sampleFor(root, path string) (name, dir string) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.Base(path), path
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) == 1 {
		base := filepath.Base(path)
		return strings.TrimSuffix(base, filepath.Ext(base)), path
	}
	return parts[0], filepath.Join(root, parts[0])
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
