// IMPA Org - Church Directory and Content Platform
// Copyright 2026 Joaquin A. (joacoabe)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/joacoabe/impa-org

// Package uploads stores church site photos on local disk under
// random names. Validation is deliberately strict: a size cap, an
// extension allowlist and a declared image content type. Files are
// served back by the front proxy from the public base path.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/joacoabe/impa-org/internal/config"
	"github.com/joacoabe/impa-org/internal/metrics"
)

// Validation failures. Handlers translate these into user-facing
// messages; the errors themselves stay log-friendly.
var (
	ErrNoFile       = errors.New("uploads: no file provided")
	ErrTooLarge     = errors.New("uploads: file exceeds size limit")
	ErrBadExtension = errors.New("uploads: extension not allowed")
	ErrNotImage     = errors.New("uploads: declared content type is not an image")
)

// allowedExtensions is the photo extension allowlist.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Saver writes validated photos to the uploads directory.
//
// Thread safety: safe for concurrent use; every photo gets a fresh
// random name, so writers never collide.
type Saver struct {
	dir        string
	publicBase string
	maxBytes   int64
}

// NewSaver builds a Saver from configuration.
func NewSaver(cfg *config.UploadsConfig) *Saver {
	return &Saver{
		dir:        cfg.Dir,
		publicBase: strings.TrimRight(cfg.PublicBase, "/"),
		maxBytes:   cfg.MaxSizeMB * 1024 * 1024,
	}
}

// MaxBytes returns the per-file size limit.
func (s *Saver) MaxBytes() int64 { return s.maxBytes }

// SavePhoto validates and stores one photo, returning its public URL.
// declaredSize is the multipart header's size; the copy is also capped,
// so a client lying about the size still cannot exceed the limit.
// Nothing is written to disk unless every check passes.
func (s *Saver) SavePhoto(filename, contentType string, declaredSize int64, r io.Reader) (string, error) {
	if r == nil || filename == "" {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		return "", ErrNoFile
	}

	if declaredSize > s.maxBytes {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		return "", ErrTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		return "", ErrBadExtension
	}

	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		return "", ErrNotImage
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create uploads dir: %w", err)
	}

	name := strings.ReplaceAll(uuid.NewString(), "-", "") + ext
	path := filepath.Join(s.dir, name)

	written, err := s.writeFile(path, r)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		return "", err
	}

	metrics.UploadsTotal.WithLabelValues("accepted").Inc()
	metrics.UploadBytes.Add(float64(written))
	return s.publicBase + "/" + name, nil
}

// writeFile copies r to path, enforcing the size cap on the actual
// bytes. The partial file is removed when the copy fails or overflows.
func (s *Saver) writeFile(path string, r io.Reader) (int64, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, fmt.Errorf("create upload file: %w", err)
	}

	written, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	closeErr := f.Close()

	switch {
	case err != nil:
		os.Remove(path)
		return 0, fmt.Errorf("write upload file: %w", err)
	case written > s.maxBytes:
		os.Remove(path)
		return 0, ErrTooLarge
	case closeErr != nil:
		os.Remove(path)
		return 0, fmt.Errorf("close upload file: %w", closeErr)
	}

	return written, nil
}
