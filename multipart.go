package ryys

import (
	"io"
	"iter"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	ErrNotMultipart        = errors.New("ryys: request is not multipart")
	ErrMaxFileSizeExceeded = errors.New("ryys: multipart part exceeds the file size limit")
	ErrMultipartParse      = errors.New("ryys: malformed multipart body")
)

// Part is one fully buffered field or file segment of a multipart body.
type Part struct {
	Name     string
	Filename string
	IsFile   bool
	Content  []byte
}

// Text decodes the part's content as UTF-8 text.
func (p Part) Text() string { return string(p.Content) }

// MultipartParser yields the parts of a multipart request lazily. A part that grows beyond maxFileSize must
// be reported with [ErrMaxFileSizeExceeded], structural problems with [ErrMultipartParse]. The sequence stops
// after the first error.
type MultipartParser interface {
	Parts(r *http.Request, maxFileSize int64) iter.Seq2[Part, error]
}

// IsMultipart reports whether the request declares a multipart media type.
func IsMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}

	return strings.HasPrefix(mediaType, "multipart/")
}

// StreamingMultipartParser is the default [MultipartParser], built on mime/multipart. Only one part is
// buffered at a time.
type StreamingMultipartParser struct{}

// Parts implements [MultipartParser].
func (StreamingMultipartParser) Parts(r *http.Request, maxFileSize int64) iter.Seq2[Part, error] {
	return func(yield func(Part, error) bool) {
		mr, err := r.MultipartReader()
		if err != nil {
			yield(Part{}, errors.Mark(errors.Wrap(err, "failed to open multipart reader"), ErrMultipartParse))
			return
		}

		for {
			p, err := mr.NextPart()
			if err == io.EOF { //nolint:errorlint // NextPart wraps io.EOF for truncated bodies, only the bare value is a clean end
				return
			}

			if err != nil {
				yield(Part{}, errors.Mark(errors.Wrap(err, "failed to read next part"), ErrMultipartParse))
				return
			}

			part, err := readPart(p, maxFileSize)
			p.Close()

			if !yield(part, err) || err != nil {
				return
			}
		}
	}
}

func readPart(p *multipart.Part, maxFileSize int64) (Part, error) {
	part := Part{Name: p.FormName(), Filename: p.FileName()}

	if _, params, err := mime.ParseMediaType(p.Header.Get("Content-Disposition")); err == nil {
		_, part.IsFile = params["filename"]
	}

	content, err := io.ReadAll(io.LimitReader(p, maxFileSize+1))
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return part, errors.Mark(errors.Wrapf(err, "failed to read part %q", part.Name), ErrMultipartParse)
		}
		return part, errors.Wrapf(err, "failed to read part %q", part.Name)
	}

	if int64(len(content)) > maxFileSize {
		return part, errors.Wrapf(ErrMaxFileSizeExceeded, "part %q is larger than %d bytes", part.Name, maxFileSize)
	}

	part.Content = content

	return part, nil
}
