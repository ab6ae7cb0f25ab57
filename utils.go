package privmedia

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"gitlab.com/gitlab-org/go-mimedb"
)

// IsValidPath reports whether p is a well-formed resource path. A valid
// path:
//   - is relative (does not start with "/")
//   - has no empty, "." or ".." segments (so no "//" and no trailing "/")
//   - is valid UTF-8
//   - does not contain NUL, control characters (< 0x20) or DEL (0x7f)
//
// Any other file name is allowed, including spaces, "~", "#" and names like
// "v1..2.txt". Containment is enforced by ResolvePath and os.Root.
func IsValidPath(p string) bool {
	if p == "" || p[0] == '/' {
		return false
	}

	if !utf8.ValidString(p) {
		return false
	}

	for _, r := range p {
		if r < 0x20 || r == 0x7f {
			return false
		}
	}

	for seg := range strings.SplitSeq(p, "/") {
		switch seg {
		case "", ".", "..":
			return false
		}
	}

	return true
}

// IsValidUploadPath is the stricter rule for paths written into storage. On
// top of IsValidPath it rejects "..", whitespace and the characters \ ? # ~
// anywhere in the path, so stored names stay safe to put in a URL by hand.
func IsValidUploadPath(p string) bool {
	if !IsValidPath(p) {
		return false
	}

	if strings.Contains(p, "..") || strings.ContainsAny(p, `\?#~`) {
		return false
	}

	for _, r := range p {
		if unicode.IsSpace(r) {
			return false
		}
	}

	return true
}

// ResolvePath joins root and the relative resource path p and returns the
// absolute location. It returns ErrInvalidInput when p is not a valid path or
// when the result would fall outside root.
func ResolvePath(root, p string) (string, error) {
	if !IsValidPath(p) {
		return "", fmt.Errorf("resolve path: %w: %q", ErrInvalidInput, p)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve path: root: %w", err)
	}

	full := filepath.Join(absRoot, filepath.FromSlash(p))

	rel, err := filepath.Rel(absRoot, full)
	if err != nil || !filepath.IsLocal(rel) {
		return "", fmt.Errorf("resolve path: %w: %q escapes root", ErrInvalidInput, p)
	}

	return full, nil
}

var loadTypesOnce sync.Once

// ContentType guesses the MIME type of p from its extension, falling back to
// application/octet-stream.
func ContentType(p string) string {
	loadTypesOnce.Do(func() {
		// The builtin table is still usable if this fails.
		_ = mimedb.LoadTypes()
	})

	contentType := mime.TypeByExtension(filepath.Ext(p))
	if contentType == "" {
		return "application/octet-stream"
	}

	return contentType
}
