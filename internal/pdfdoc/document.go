// Package pdfdoc wraps the PDF parsing libraries behind the small surface
// the viewer needs: page count, per-page intrinsic sizes, and text lookup
// for highlight capture. Rasterization for QR scanning stays behind an
// interface; the parsers used here read structure, not pixels.
package pdfdoc

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"pdfgrip/internal/domain"
)

// Document is an open PDF. Structural reads go through ledongthuc/pdf;
// page dimensions come from pdfcpu's validated dims when available.
type Document struct {
	meta   domain.Document
	file   *os.File
	reader *pdf.Reader
	dims   []domain.PageSize // from pdfcpu, may be empty on dims failure
	fonts  map[string]*pdf.Font
}

// Open loads a PDF from disk. Corrupt or unsupported input fails with a
// DocumentLoadError.
func Open(path string) (*Document, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := pdfapi.ValidateFile(path, conf); err != nil {
		return nil, &DocumentLoadError{Path: path, Err: err}
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, &DocumentLoadError{Path: path, Err: err}
	}

	id, err := contentID(f)
	if err != nil {
		f.Close()
		return nil, &DocumentLoadError{Path: path, Err: err}
	}

	d := &Document{
		meta: domain.Document{
			ID:        id,
			Path:      path,
			Title:     title(r, path),
			PageCount: r.NumPage(),
		},
		file:   f,
		reader: r,
		fonts:  make(map[string]*pdf.Font),
	}

	// pdfcpu reports dimensions for every page in one validated pass;
	// failure here is not fatal, MediaBox lookup covers the gap.
	if dims, err := pdfapi.PageDimsFile(path); err == nil {
		d.dims = make([]domain.PageSize, 0, len(dims))
		for _, dim := range dims {
			d.dims = append(d.dims, domain.PageSize{Width: dim.Width, Height: dim.Height})
		}
	}

	return d, nil
}

// Close releases the underlying file
func (d *Document) Close() error {
	return d.file.Close()
}

// Meta returns the document descriptor
func (d *Document) Meta() domain.Document {
	return d.meta
}

// PageCount returns the number of pages
func (d *Document) PageCount() int {
	return d.meta.PageCount
}

// PageSize returns a page's intrinsic size in PDF points. pageIndex is
// zero-based. Fails with a PageRenderError local to that page.
func (d *Document) PageSize(pageIndex int) (domain.PageSize, error) {
	if pageIndex < 0 || pageIndex >= d.meta.PageCount {
		return domain.PageSize{}, &PageRenderError{PageIndex: pageIndex, Err: fmt.Errorf("page out of range")}
	}
	if pageIndex < len(d.dims) {
		if s := d.dims[pageIndex]; s.Width > 0 && s.Height > 0 {
			return s, nil
		}
	}

	p := d.reader.Page(pageIndex + 1)
	if p.V.IsNull() {
		return domain.PageSize{}, &PageRenderError{PageIndex: pageIndex, Err: fmt.Errorf("page object missing")}
	}
	box := inheritedKey(p.V, "MediaBox")
	if box.IsNull() || box.Len() < 4 {
		return domain.PageSize{}, &PageRenderError{PageIndex: pageIndex, Err: fmt.Errorf("media box missing")}
	}
	w := box.Index(2).Float64() - box.Index(0).Float64()
	h := box.Index(3).Float64() - box.Index(1).Float64()
	if w <= 0 || h <= 0 {
		return domain.PageSize{}, &PageRenderError{PageIndex: pageIndex, Err: fmt.Errorf("degenerate media box")}
	}
	return domain.PageSize{Width: w, Height: h}, nil
}

// PageText extracts the plain text layer of a page
func (d *Document) PageText(pageIndex int) (string, error) {
	if pageIndex < 0 || pageIndex >= d.meta.PageCount {
		return "", &PageRenderError{PageIndex: pageIndex, Err: fmt.Errorf("page out of range")}
	}
	p := d.reader.Page(pageIndex + 1)
	if p.V.IsNull() {
		return "", &PageRenderError{PageIndex: pageIndex, Err: fmt.Errorf("page object missing")}
	}
	for _, name := range p.Fonts() {
		if _, ok := d.fonts[name]; !ok {
			f := p.Font(name)
			d.fonts[name] = &f
		}
	}
	text, err := p.GetPlainText(d.fonts)
	if err != nil {
		return "", &PageRenderError{PageIndex: pageIndex, Err: err}
	}
	return text, nil
}

// TextInRect returns the text items whose anchors fall inside a
// document-space rectangle (top-left origin). Used to capture the text
// under a freshly drawn highlight.
func (d *Document) TextInRect(pageIndex int, r domain.Rect) (string, error) {
	if pageIndex < 0 || pageIndex >= d.meta.PageCount {
		return "", &PageRenderError{PageIndex: pageIndex, Err: fmt.Errorf("page out of range")}
	}
	size, err := d.PageSize(pageIndex)
	if err != nil {
		return "", err
	}
	p := d.reader.Page(pageIndex + 1)
	if p.V.IsNull() {
		return "", &PageRenderError{PageIndex: pageIndex, Err: fmt.Errorf("page object missing")}
	}

	// Document space is top-left origin; PDF text coordinates are
	// bottom-left. Flip the rectangle once instead of every glyph.
	loY := size.Height - (r.Y + r.Height)
	hiY := size.Height - r.Y

	var sb strings.Builder
	for _, t := range p.Content().Text {
		if t.X >= r.X && t.X <= r.X+r.Width && t.Y >= loY && t.Y <= hiY {
			sb.WriteString(t.S)
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

// inheritedKey resolves a page attribute that may live on an ancestor
// Pages node
func inheritedKey(v pdf.Value, key string) pdf.Value {
	for i := 0; i < 32 && !v.IsNull(); i++ {
		if attr := v.Key(key); !attr.IsNull() {
			return attr
		}
		v = v.Key("Parent")
	}
	return pdf.Value{}
}

func title(r *pdf.Reader, path string) string {
	if t := r.Trailer().Key("Info").Key("Title"); !t.IsNull() {
		if s := strings.TrimSpace(t.Text()); s != "" {
			return s
		}
	}
	return filepath.Base(path)
}

// contentID hashes the file so annotations follow the document across
// renames. The reader's file position is restored afterwards.
func contentID(f *os.File) (string, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil))[:16], nil
}
