package ryys_test

import (
	"bytes"
	"io"
	"iter"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/ryys-dev/ryys"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func bodyRequest(t *testing.T, raw *http.Request, opts ryys.BodyParserOptions) *ryys.Request {
	t.Helper()

	req, err := ryys.NewRequest(raw, ryys.RequestConfig{BodyParser: opts, Logger: ryys.NewTestLogger(t)})
	require.NoError(t, err)

	return req
}

func jsonRequest(t *testing.T, body string, opts ryys.BodyParserOptions) *ryys.Request {
	t.Helper()

	raw := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	raw.Header.Set("Content-Type", "application/json")

	return bodyRequest(t, raw, opts)
}

func requirePublicError(t *testing.T, err error, code ryys.Code, msg string) {
	t.Helper()

	pubErr, ok := ryys.AsError(err)
	require.True(t, ok, "expected public error, got: %v", err)
	require.Equal(t, code, pubErr.Code())
	require.Equal(t, msg, pubErr.Message())
}

func TestJSONBody(t *testing.T) {
	req := jsonRequest(t, `{"user":{"name":"ada","tags":["a","b"]},"n":1}`, ryys.BodyParserOptions{})

	body, err := req.JSON()
	require.NoError(t, err)
	require.Equal(t, map[string]any{
		"user": map[string]any{"name": "ada", "tags": []any{"a", "b"}},
		"n":    float64(1),
	}, body.Value())
	require.Equal(t, "ada", body.Get("user.name").String())
	require.Equal(t, "b", body.Get("user.tags.1").String())
	require.False(t, body.Get("user.missing").Exists())

	var dst struct {
		N int `json:"n"`
	}
	require.NoError(t, body.Decode(&dst))
	require.Equal(t, 1, dst.N)

	_, err = req.JSON()
	require.ErrorIs(t, err, ryys.ErrBodyConsumed)
}

func TestJSONBodyScalars(t *testing.T) {
	body, err := jsonRequest(t, `null`, ryys.BodyParserOptions{}).JSON()
	require.NoError(t, err)
	require.Nil(t, body.Value())

	body, err = jsonRequest(t, `"hi"`, ryys.BodyParserOptions{}).JSON()
	require.NoError(t, err)
	require.Equal(t, "hi", body.Value())
}

func TestJSONBodyTooLarge(t *testing.T) {
	_, err := jsonRequest(t, `{"a":"0123456789"}`, ryys.BodyParserOptions{BodyLimitBytes: 8}).JSON()
	requirePublicError(t, err, ryys.CodeRequestEntityTooLarge, "Request size limit exceeded")
}

func TestJSONBodyTooLargeWithoutLength(t *testing.T) {
	raw := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":"0123456789"}`))
	raw.ContentLength = -1

	_, err := bodyRequest(t, raw, ryys.BodyParserOptions{BodyLimitBytes: 8}).JSON()
	requirePublicError(t, err, ryys.CodeRequestEntityTooLarge, "Request size limit exceeded")
}

func TestJSONBodyAtLimit(t *testing.T) {
	_, err := jsonRequest(t, `[1,2,3]`, ryys.BodyParserOptions{BodyLimitBytes: 7}).JSON()
	require.NoError(t, err)
}

func TestJSONBodyLengthMismatch(t *testing.T) {
	raw := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	raw.ContentLength = 100

	_, err := bodyRequest(t, raw, ryys.BodyParserOptions{}).JSON()
	requirePublicError(t, err, ryys.CodeBadRequest, "Invalid request length")
}

func TestJSONBodyInvalid(t *testing.T) {
	for _, body := range []string{``, `{`, `{"a":}`, `nope`} {
		_, err := jsonRequest(t, body, ryys.BodyParserOptions{}).JSON()
		requirePublicError(t, err, ryys.CodeBadRequest, "Failed to parse JSON")
	}
}

type formPart struct {
	name, filename string
	content        []byte
}

func multipartRequest(t *testing.T, parts ...formPart) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, p := range parts {
		var (
			w   io.Writer
			err error
		)
		if p.filename != "" {
			w, err = mw.CreateFormFile(p.name, p.filename)
		} else {
			w, err = mw.CreateFormField(p.name)
		}
		require.NoError(t, err)

		_, err = w.Write(p.content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	raw := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	raw.Header.Set("Content-Type", mw.FormDataContentType())

	return raw
}

func TestMultipart(t *testing.T) {
	req := bodyRequest(t, multipartRequest(t,
		formPart{name: "title", content: []byte("holiday")},
		formPart{name: "tag", content: []byte("beach")},
		formPart{name: "tag", content: []byte("sun")},
		formPart{name: "photo", filename: "a.png", content: pngHeader},
		formPart{name: "notes", filename: "notes.txt", content: []byte("plain notes")},
	), ryys.BodyParserOptions{})

	form, err := req.Multipart()
	require.NoError(t, err)
	require.Equal(t, "holiday", form.Value("title"))
	require.Equal(t, "beach", form.Value("tag"))
	require.Equal(t, []string{"beach", "sun"}, form.Values("tag"))
	require.Empty(t, form.Value("missing"))
	require.Len(t, form.Fields(), 2)

	require.Len(t, form.Files(), 2)
	photo := form.Files()[0]
	require.Equal(t, "photo", photo.Name())
	require.Equal(t, "a.png", photo.Filename())
	require.Equal(t, len(pngHeader), photo.Size())
	require.Equal(t, pngHeader, photo.Bytes())

	mimeType, err := photo.MIME()
	require.NoError(t, err)
	require.Equal(t, "image/png", mimeType)

	ext, err := photo.Ext()
	require.NoError(t, err)
	require.Equal(t, "png", ext)

	_, err = req.Multipart()
	require.ErrorIs(t, err, ryys.ErrBodyConsumed)
}

func TestMultipartDropsFilesBeyondMax(t *testing.T) {
	req := bodyRequest(t, multipartRequest(t,
		formPart{name: "f1", filename: "1.png", content: pngHeader},
		formPart{name: "f2", filename: "2.png", content: pngHeader},
		formPart{name: "f3", filename: "3.png", content: pngHeader},
		formPart{name: "after", content: []byte("still read")},
	), ryys.BodyParserOptions{MaxFiles: 2})

	form, err := req.Multipart()
	require.NoError(t, err)
	require.Len(t, form.Files(), 2)
	require.Equal(t, "f1", form.Files()[0].Name())
	require.Equal(t, "f2", form.Files()[1].Name())
	require.Equal(t, "still read", form.Value("after"))
}

func TestMultipartNegativeMaxFilesAcceptsNone(t *testing.T) {
	req := bodyRequest(t, multipartRequest(t,
		formPart{name: "f1", filename: "1.png", content: pngHeader},
	), ryys.BodyParserOptions{MaxFiles: -1})

	form, err := req.Multipart()
	require.NoError(t, err)
	require.Empty(t, form.Files())
}

func TestMultipartFileTooLarge(t *testing.T) {
	req := bodyRequest(t, multipartRequest(t,
		formPart{name: "f1", filename: "1.bin", content: bytes.Repeat([]byte{'x'}, 11)},
	), ryys.BodyParserOptions{MaxFileSizeBytes: 10})

	_, err := req.Multipart()
	requirePublicError(t, err, ryys.CodeRequestEntityTooLarge, "File size limit exceeded")
}

func TestMultipartNotMultipart(t *testing.T) {
	req := jsonRequest(t, `{}`, ryys.BodyParserOptions{})

	_, err := req.Multipart()
	require.ErrorIs(t, err, ryys.ErrNotMultipart)

	_, isPublic := ryys.AsError(err)
	require.False(t, isPublic)

	// the body was left alone
	_, err = req.JSON()
	require.NoError(t, err)
}

func TestMultipartMalformed(t *testing.T) {
	for name, contentType := range map[string]string{
		"missing boundary": "multipart/form-data",
		"garbage body":     "multipart/form-data; boundary=xyz",
	} {
		t.Run(name, func(t *testing.T) {
			raw := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("garbage"))
			raw.Header.Set("Content-Type", contentType)

			_, err := bodyRequest(t, raw, ryys.BodyParserOptions{}).Multipart()
			requirePublicError(t, err, ryys.CodeBadRequest, "Failed to parse multipart request")
		})
	}
}

type failingParser struct{}

func (failingParser) Parts(*http.Request, int64) iter.Seq2[ryys.Part, error] {
	return func(yield func(ryys.Part, error) bool) { yield(ryys.Part{}, errors.New("disk full")) }
}

func TestMultipartUnexpectedFailure(t *testing.T) {
	logs := ryys.NewTestLogger(t)
	req, err := ryys.NewRequest(multipartRequest(t), ryys.RequestConfig{
		Collaborators: ryys.Collaborators{Multipart: failingParser{}},
		Logger:        logs,
	})
	require.NoError(t, err)

	_, err = req.Multipart()
	requirePublicError(t, err, ryys.CodeInternalServerError, "")
	require.EqualValues(t, 1, logs.NumLogBodyParseError)
}
