package servers

import (
	"mime"
	"net/http"
	"path"
	"regexp"
	"strconv"
	"time"
)

var ifModifiedSinceRegex = regexp.MustCompile(`(?i)^([^;]+)(; length=([0-9]+))?$`)

// wasModifiedSince reports whether a file with the given modification time
// and size has changed since the If-Modified-Since header value was issued.
// A missing or unparsable header counts as modified. The header may carry a
// "; length=N" suffix, in which case a size mismatch also counts as
// modified.
func wasModifiedSince(header string, modTime time.Time, size int64) bool {
	if header == "" {
		return true
	}

	matches := ifModifiedSinceRegex.FindStringSubmatch(header)
	if matches == nil {
		return true
	}

	headerTime, err := http.ParseTime(matches[1])
	if err != nil {
		return true
	}

	if matches[3] != "" {
		headerLen, err := strconv.ParseInt(matches[3], 10, 64)
		if err != nil || headerLen != size {
			return true
		}
	}

	// HTTP dates have second resolution
	return modTime.Unix() > headerTime.Unix()
}

// setContentDisposition sets Content-Disposition to disposition with the base
// name of p as filename. An empty disposition leaves the header unset.
func setContentDisposition(h http.Header, disposition, p string) {
	if disposition == "" {
		return
	}
	h.Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": path.Base(p)}))
}

func validDisposition(d string) bool {
	switch d {
	case "", "inline", "attachment":
		return true
	default:
		return false
	}
}
