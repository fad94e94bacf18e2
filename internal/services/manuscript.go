package services

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
)

const (
	mimePDF      = "application/pdf"
	mimeText     = "text/plain"
	mimeMarkdown = "text/markdown"
)

var allowedMimeTypes = map[string]struct{}{
	mimePDF:      {},
	mimeText:     {},
	mimeMarkdown: {},
}

// ManuscriptSource is anything the controller can read a manuscript from.
type ManuscriptSource interface {
	Name() string
	Open() (io.ReadCloser, error)
}

// bytesSource holds an upload already copied out of the request, which
// does not outlive the handler.
type bytesSource struct {
	name string
	data []byte
}

func NewBytesSource(name string, data []byte) ManuscriptSource {
	return &bytesSource{name: name, data: data}
}

func (b *bytesSource) Name() string {
	return b.name
}

func (b *bytesSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b.data)), nil
}

type fileSource struct {
	path string
}

func NewFileSource(path string) ManuscriptSource {
	return &fileSource{path: path}
}

func (f *fileSource) Name() string {
	return filepath.Base(f.path)
}

func (f *fileSource) Open() (io.ReadCloser, error) {
	return os.Open(f.path)
}

// DetectMimeType sniffs the content and falls back to the file extension
// for text formats the sniffer reports as plain text.
func DetectMimeType(data []byte, filename string) string {
	detected := mimetype.Detect(data)
	base := strings.TrimSpace(strings.SplitN(detected.String(), ";", 2)[0])

	if base == mimeText {
		switch strings.ToLower(filepath.Ext(filename)) {
		case ".md", ".markdown":
			return mimeMarkdown
		}
	}
	return base
}

func IsAllowedMimeType(mimeType string) bool {
	_, ok := allowedMimeTypes[mimeType]
	return ok
}

type PDFInspectorService interface {
	Inspect(data []byte) (*PDFInfo, error)
}

type PDFInfo struct {
	PageCount int
	HasText   bool
}

type pdfInspectorService struct{}

func NewPDFInspectorService() PDFInspectorService {
	return &pdfInspectorService{}
}

// Inspect reports the page count and whether any page carries extractable
// text. Scanned manuscripts are still accepted; the provider reads images.
func (p *pdfInspectorService) Inspect(data []byte) (info *PDFInfo, err error) {
	// the pdf package panics on some malformed cross-reference tables
	defer func() {
		if rec := recover(); rec != nil {
			info, err = nil, fmt.Errorf("failed to parse PDF: %v", rec)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	info = &PDFInfo{PageCount: r.NumPage()}
	for pageIndex := 1; pageIndex <= info.PageCount; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if strings.TrimSpace(text) != "" {
			info.HasText = true
			break
		}
	}

	return info, nil
}
