// Package filesystem provides the private storage layer for privmedia.
// Files live under a private root directory opened as an os.Root, which
// keeps every operation inside that directory. Writes are atomic (temp file
// plus rename) and produce a SHA256-based etag.
package filesystem

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/sagarc03/privmedia"
)

const tmpPrefix = ".privmedia-tmp-"

// Store provides file system storage operations under a private root.
type Store struct {
	root    *os.Root
	baseURL string
}

// NewFileStorage creates a new Store with the given root directory. baseURL
// is the public URL prefix files are served under, e.g. "/private/".
func NewFileStorage(root *os.Root, baseURL string) *Store {
	if baseURL != "" && !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Store{root: root, baseURL: baseURL}
}

// Open opens the regular file at p for reading and returns it with its
// FileInfo. It returns privmedia.ErrNotFound if the file does not exist or is
// a directory, and privmedia.ErrInvalidInput if p is not a valid path.
func (s *Store) Open(ctx context.Context, p string) (*os.File, fs.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	if !privmedia.IsValidPath(p) {
		return nil, nil, fmt.Errorf("open %q: %w", p, privmedia.ErrInvalidInput)
	}

	f, err := s.root.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, privmedia.ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, fmt.Errorf("failed to stat file: %w", err)
	}

	if !info.Mode().IsRegular() {
		_ = f.Close()
		return nil, nil, privmedia.ErrNotFound
	}

	return f, info, nil
}

// Stat returns the FileInfo of the regular file at p without opening it for
// reading.
func (s *Store) Stat(ctx context.Context, p string) (fs.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !privmedia.IsValidPath(p) {
		return nil, fmt.Errorf("stat %q: %w", p, privmedia.ErrInvalidInput)
	}

	info, err := s.root.Stat(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, privmedia.ErrNotFound
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	if !info.Mode().IsRegular() {
		return nil, privmedia.ErrNotFound
	}

	return info, nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *ctxReader) Read(p []byte) (n int, err error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}

// Write atomically writes content to the given path using a temp file and rename.
// It creates intermediate directories as needed and returns a SaveResult containing
// the number of bytes written and SHA256-based etag. The operation respects context cancellation.
func (s *Store) Write(ctx context.Context, p string, content io.Reader) (privmedia.SaveResult, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return privmedia.SaveResult{}, ctxErr
	}

	if !privmedia.IsValidUploadPath(p) {
		return privmedia.SaveResult{}, fmt.Errorf("write %q: %w", p, privmedia.ErrInvalidInput)
	}

	tmpFile := tmpFileName()
	t, createErr := s.root.OpenFile(tmpFile, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o640)
	if createErr != nil {
		return privmedia.SaveResult{}, fmt.Errorf("could not open temp file: %w", createErr)
	}

	success := false
	defer func() {
		if closeErr := t.Close(); closeErr != nil {
			slog.Warn("failed to close tmp file", "err", closeErr)
		}
		if !success {
			if rmErr := s.root.Remove(tmpFile); rmErr != nil {
				slog.Warn("failed to remove tmp file", "err", rmErr)
			}
		}
	}()

	h := sha256.New()
	w := io.MultiWriter(h, t)

	fileSizeBytes, err := io.Copy(w, &ctxReader{ctx: ctx, r: content})
	if err != nil {
		return privmedia.SaveResult{}, fmt.Errorf("could not copy file contents: %w", err)
	}

	err = t.Sync()
	if err != nil {
		return privmedia.SaveResult{}, fmt.Errorf("could not sync written file: %w", err)
	}

	destDir := path.Dir(p)
	if destDir != "." {
		if err := s.root.MkdirAll(destDir, 0o750); err != nil {
			return privmedia.SaveResult{}, fmt.Errorf("could not create intermediate directories: %w", err)
		}
	}

	if renameErr := s.root.Rename(tmpFile, p); renameErr != nil {
		return privmedia.SaveResult{}, fmt.Errorf("failed to rename file: %w", renameErr)
	}

	etag := hex.EncodeToString(h.Sum(nil))
	success = true

	return privmedia.SaveResult{BytesWritten: fileSizeBytes, Etag: etag}, nil
}

// Exists reports whether a regular file exists at p.
func (s *Store) Exists(ctx context.Context, p string) (bool, error) {
	_, err := s.Stat(ctx, p)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, privmedia.ErrNotFound) {
		return false, nil
	}
	return false, err
}

// Delete removes a file. Returns privmedia.ErrNotFound if the file does not exist.
func (s *Store) Delete(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if !privmedia.IsValidPath(p) {
		return fmt.Errorf("delete %q: %w", p, privmedia.ErrInvalidInput)
	}

	err := s.root.Remove(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return privmedia.ErrNotFound
		}
		return fmt.Errorf("could not delete file: %w", err)
	}
	return nil
}

// URL returns the public URL of p under the configured base URL. Each path
// segment is escaped.
func (s *Store) URL(p string) string {
	segments := strings.Split(p, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return s.baseURL + strings.Join(segments, "/")
}

// Path returns the absolute filesystem location of p.
func (s *Store) Path(p string) (string, error) {
	return privmedia.ResolvePath(s.root.Name(), p)
}

// List recursively walks the root directory and returns all files with their
// path, size, SHA256-based etag, detected content type and modification time.
func (s *Store) List(ctx context.Context) ([]privmedia.FileEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries := []privmedia.FileEntry{}

	err := s.walkDir(ctx, ".", &entries)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	return entries, nil
}

func (s *Store) walkDir(ctx context.Context, dir string, entries *[]privmedia.FileEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dirEntries, err := fs.ReadDir(s.root.FS(), dir)
	if err != nil {
		return err
	}

	for _, entry := range dirEntries {
		if err := ctx.Err(); err != nil {
			return err
		}

		if strings.HasPrefix(entry.Name(), tmpPrefix) {
			continue
		}

		entryPath := path.Join(dir, entry.Name())

		if entry.IsDir() {
			if err := s.walkDir(ctx, entryPath, entries); err != nil {
				return err
			}
			continue
		}

		if !entry.Type().IsRegular() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return fmt.Errorf("walk dir: %w", err)
		}

		f, err := s.root.Open(entryPath)
		if err != nil {
			return fmt.Errorf("walk dir: %w", err)
		}

		h := sha256.New()
		_, copyErr := io.Copy(h, f)

		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("failed to close file", "path", entryPath, "err", closeErr)
		}

		if copyErr != nil {
			return fmt.Errorf("walk dir: %w", copyErr)
		}

		*entries = append(*entries, privmedia.FileEntry{
			Path:        filepath.ToSlash(entryPath),
			Size:        info.Size(),
			ETag:        hex.EncodeToString(h.Sum(nil)),
			ContentType: privmedia.ContentType(entryPath),
			ModTime:     info.ModTime(),
		})
	}

	return nil
}

func tmpFileName() string {
	return tmpPrefix + uuid.New().String()
}
