package ryys

import (
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gabriel-vasile/mimetype"
)

// FileType is the best guess for a piece of content.
type FileType struct {
	MIME string
	Ext  string // without the leading dot
}

// Sniffer guesses a content type from bytes. The boolean is false when the type could not be determined.
type Sniffer interface {
	Sniff(buf []byte) (FileType, bool)
	SniffReader(r io.Reader) (FileType, bool, error)
}

// MimetypeSniffer is the default [Sniffer]. Content that only matches the generic octet-stream root is
// reported as undetermined.
type MimetypeSniffer struct{}

// Sniff implements [Sniffer].
func (MimetypeSniffer) Sniff(buf []byte) (FileType, bool) {
	return fileTypeOf(mimetype.Detect(buf))
}

// SniffReader implements [Sniffer]. It reads at most the detection window from r.
func (MimetypeSniffer) SniffReader(r io.Reader) (FileType, bool, error) {
	m, err := mimetype.DetectReader(r)
	if err != nil {
		return FileType{}, false, errors.Wrap(err, "failed to sniff content")
	}

	ft, ok := fileTypeOf(m)
	return ft, ok, nil
}

func fileTypeOf(m *mimetype.MIME) (FileType, bool) {
	if m == nil || m.Is("application/octet-stream") {
		return FileType{}, false
	}

	return FileType{MIME: m.String(), Ext: strings.TrimPrefix(m.Extension(), ".")}, true
}
