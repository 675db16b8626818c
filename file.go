package ryys

import (
	"bytes"
	"io"
	"os"

	"github.com/cockroachdb/errors"
)

// ErrUndeterminedFileType is returned when the sniffer cannot classify an uploaded file. It is an internal
// failure: the collaborator promised to classify every buffered part.
var ErrUndeterminedFileType = errors.New("ryys: could not determine file type from buffer")

// File is an uploaded file part. The type is sniffed on first use and cached.
type File struct {
	part     Part
	sniffer  Sniffer
	fileType *FileType
}

func newFile(p Part, s Sniffer) *File {
	return &File{part: p, sniffer: s}
}

// MIME returns the sniffed media type.
func (f *File) MIME() (string, error) {
	ft, err := f.sniff()
	return ft.MIME, err
}

// Ext returns the sniffed extension, without a leading dot.
func (f *File) Ext() (string, error) {
	ft, err := f.sniff()
	return ft.Ext, err
}

func (f *File) sniff() (FileType, error) {
	if f.fileType != nil {
		return *f.fileType, nil
	}

	ft, ok := f.sniffer.Sniff(f.part.Content)
	if !ok {
		return FileType{}, errors.Wrapf(ErrUndeterminedFileType, "field %q, file %q", f.part.Name, f.part.Filename)
	}

	f.fileType = &ft
	return ft, nil
}

// Filename is the client supplied file name, possibly empty.
func (f *File) Filename() string { return f.part.Filename }

// Name is the form field the file was sent under.
func (f *File) Name() string { return f.part.Name }

// Size is the number of content bytes.
func (f *File) Size() int { return len(f.part.Content) }

// Bytes returns the buffered content. The slice must not be modified.
func (f *File) Bytes() []byte { return f.part.Content }

// Reader returns a fresh reader over the content.
func (f *File) Reader() io.ReadSeeker { return bytes.NewReader(f.part.Content) }

// MoveTo writes the content to path. Partial files are not cleaned up on failure.
func (f *File) MoveTo(path string) error {
	if err := os.WriteFile(path, f.part.Content, 0o644); err != nil { //nolint:gosec
		return errors.Wrapf(err, "failed to write uploaded file to %q", path)
	}

	return nil
}
