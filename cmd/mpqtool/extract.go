// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"

	"github.com/sc2toolkit/mpq"
)

// manifest restricts extraction to a named subset, loaded from a hujson
// (JSON-with-comments) file so operators can annotate or comment out
// entries without breaking the parse.
type manifest struct {
	Files []string `json:"files"`
}

func loadManifest(path string) (*manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	standardized, err := hujson.Standardize(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid manifest JSONC: %w", err)
	}

	var m manifest
	if err := json.Unmarshal(standardized, &m); err != nil {
		return nil, fmt.Errorf("invalid manifest JSON: %w", err)
	}

	return &m, nil
}

func extractArchive(w io.Writer, a *mpq.Archive, archivePath, outDir, manifestPath string) error {
	names, ok := a.Files()
	if !ok {
		return mpq.ErrNoListfile
	}

	if manifestPath != "" {
		m, err := loadManifest(manifestPath)
		if err != nil {
			return err
		}
		allowed := make(map[string]bool, len(m.Files))
		for _, f := range m.Files {
			allowed[strings.ToUpper(strings.ReplaceAll(f, "/", "\\"))] = true
		}
		filtered := make([]string, 0, len(names))
		for _, n := range names {
			if allowed[strings.ToUpper(strings.ReplaceAll(n, "/", "\\"))] {
				filtered = append(filtered, n)
			}
		}
		names = filtered
	}

	if outDir == "" {
		base := filepath.Base(archivePath)
		outDir = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	for _, name := range names {
		data, found, err := a.ReadFile(name, false)
		if err != nil {
			return fmt.Errorf("extract %q: %w", name, err)
		}
		if !found {
			fmt.Fprintf(w, "skip (absent): %s\n", name)
			continue
		}

		destPath := filepath.Join(outDir, filepath.FromSlash(strings.ReplaceAll(name, "\\", "/")))
		if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
			return fmt.Errorf("create directory for %q: %w", name, err)
		}
		if err := atomic.WriteFile(destPath, bytes.NewReader(data)); err != nil {
			return fmt.Errorf("write %q: %w", name, err)
		}

		fmt.Fprintf(w, "extracted: %s (%d bytes)\n", name, len(data))
	}

	return nil
}
