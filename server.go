package privmedia

import "net/http"

// FileServer delivers the file at a resource path.
//
// An implementation either writes a complete response and returns nil, or
// writes nothing and returns an error for the caller to report. ErrNotFound
// means the path does not resolve to a regular file.
type FileServer interface {
	Serve(w http.ResponseWriter, r *http.Request, path string) error
}

// FileServerFunc adapts a function to the FileServer interface.
type FileServerFunc func(w http.ResponseWriter, r *http.Request, path string) error

func (f FileServerFunc) Serve(w http.ResponseWriter, r *http.Request, path string) error {
	return f(w, r, path)
}
