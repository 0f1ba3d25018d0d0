package pdfdoc

import "fmt"

// DocumentLoadError means the file could not be opened as a PDF at all.
// Fatal to the viewer session for that file; no pages can be windowed.
type DocumentLoadError struct {
	Path string
	Err  error
}

func (e *DocumentLoadError) Error() string {
	return fmt.Sprintf("failed to load document %s: %v", e.Path, e.Err)
}

func (e *DocumentLoadError) Unwrap() error { return e.Err }

// PageRenderError is local to a single page; neighboring pages are
// unaffected and the page is retried when it re-enters the render window.
type PageRenderError struct {
	PageIndex int
	Err       error
}

func (e *PageRenderError) Error() string {
	return fmt.Sprintf("failed to render page %d: %v", e.PageIndex, e.Err)
}

func (e *PageRenderError) Unwrap() error { return e.Err }
