package ryys_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/ryys-dev/ryys"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, res *ryys.Response, opts ...ryys.ServerOption) (*httptest.ResponseRecorder, *ryys.TestLogger) {
	t.Helper()

	logs := ryys.NewTestLogger(t)
	srv := ryys.NewServer(ryys.HandlerFunc(func(*ryys.Request) (*ryys.Response, error) {
		return res, nil
	}), append([]ryys.ServerOption{ryys.WithLogger(logs)}, opts...)...)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	return rec, logs
}

func TestEmitText(t *testing.T) {
	res := ryys.NewResponse(http.StatusTeapot).Text("short and stout")
	res.Header().Set("X-Kettle", "yes")

	rec, _ := serve(t, res)
	require.Equal(t, http.StatusTeapot, rec.Code)
	require.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
	require.Equal(t, "yes", rec.Header().Get("X-Kettle"))
	require.Equal(t, "short and stout", rec.Body.String())
}

func TestEmitHTML(t *testing.T) {
	rec, _ := serve(t, ryys.NewResponse().HTML("<p>hi</p>"))
	require.Equal(t, "text/html", rec.Header().Get("Content-Type"))
	require.Equal(t, "<p>hi</p>", rec.Body.String())
}

func TestEmitJSON(t *testing.T) {
	in := map[string]any{"id": float64(42), "tags": []any{"a"}, "nested": map[string]any{"ok": true}}

	rec, _ := serve(t, ryys.NewResponse(http.StatusCreated).JSON(in))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Equal(t, in, out)
}

func TestEmitJSONUnserializable(t *testing.T) {
	rec, logs := serve(t, ryys.NewResponse().JSON(map[string]any{"ch": make(chan int)}))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Empty(t, rec.Body.String())
	require.Empty(t, rec.Header().Get("Content-Type"))
	require.EqualValues(t, 1, logs.NumLogEmitError)
}

func TestEmitEmpty(t *testing.T) {
	res := ryys.NewResponse(http.StatusNoContent)
	res.Header().Set("X-Trace", "1")

	rec, _ := serve(t, res)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "1", rec.Header().Get("X-Trace"))
	require.Empty(t, rec.Header().Get("Content-Type"))
	require.Empty(t, rec.Body.String())
}

func TestEmitLastSetterWins(t *testing.T) {
	res := ryys.NewResponse().Text("first").JSON([]int{1}).HTML("<b>last</b>")

	rec, _ := serve(t, res)
	require.Equal(t, "text/html", rec.Header().Get("Content-Type"))
	require.Equal(t, "<b>last</b>", rec.Body.String())

	res = ryys.NewResponse().Text("gone").Empty()
	require.Nil(t, res.Body())

	rec, _ = serve(t, res)
	require.Empty(t, rec.Body.String())
}

func TestEmitEmptyDropsEarlierContentType(t *testing.T) {
	res := ryys.NewResponse(http.StatusNoContent).JSON(map[string]int{"a": 1}).Empty()

	rec, _ := serve(t, res)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, rec.Header().Get("Content-Type"))
	require.Empty(t, rec.Body.String())
}

type closeTracker struct {
	io.Reader
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

func TestEmitStream(t *testing.T) {
	src := &closeTracker{Reader: strings.NewReader(strings.Repeat("x", 100_000))}

	rec, logs := serve(t, ryys.NewResponse().Stream(src))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
	require.Equal(t, 100_000, rec.Body.Len())
	require.True(t, rec.Flushed)
	require.True(t, src.closed)
	require.Zero(t, logs.NumLogEmitError)
}

func TestEmitStreamFailsMidway(t *testing.T) {
	src := io.MultiReader(strings.NewReader("partial"), errReader{errors.New("upstream broke")})

	rec, logs := serve(t, ryys.NewResponse().Stream(src))
	require.Equal(t, http.StatusOK, rec.Code) // already committed
	require.Equal(t, "partial", rec.Body.String())
	require.EqualValues(t, 1, logs.NumLogEmitError)
}

func TestEmitStreamStopsOnCancelledContext(t *testing.T) {
	logs := ryys.NewTestLogger(t)
	srv := ryys.NewServer(ryys.HandlerFunc(func(*ryys.Request) (*ryys.Response, error) {
		return ryys.NewResponse().Stream(strings.NewReader("never sent")), nil
	}), ryys.WithLogger(logs))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx))

	require.Empty(t, rec.Body.String())
	require.EqualValues(t, 1, logs.NumLogEmitError)
}

func writeTempFile(t *testing.T, name string, content []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	return path
}

func TestEmitAttachment(t *testing.T) {
	path := writeTempFile(t, "my photo.png", pngHeader)

	rec, logs := serve(t, ryys.NewResponse().Attachment(path))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	require.Equal(t, `attachment; filename="my photo.png"`, rec.Header().Get("Content-Disposition"))
	require.Equal(t, strconv.Itoa(len(pngHeader)), rec.Header().Get("Content-Length"))
	require.Equal(t, pngHeader, rec.Body.Bytes())
	require.Zero(t, logs.NumLogEmitError)
}

func TestEmitAttachmentEncodesNonASCIINames(t *testing.T) {
	path := writeTempFile(t, "résumé.bin", []byte{0x00, 0xff, 0x10, 0x80})

	rec, _ := serve(t, ryys.NewResponse().Attachment(path))
	require.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
	require.Equal(t, `attachment; filename*=utf-8''r%C3%A9sum%C3%A9.bin`, rec.Header().Get("Content-Disposition"))
}

type fixedSniffer struct{ ft ryys.FileType }

func (s fixedSniffer) Sniff([]byte) (ryys.FileType, bool) { return s.ft, true }

func (s fixedSniffer) SniffReader(io.Reader) (ryys.FileType, bool, error) { return s.ft, true, nil }

func TestEmitAttachmentUsesServerSniffer(t *testing.T) {
	path := writeTempFile(t, "data.bin", []byte("whatever"))

	rec, _ := serve(t, ryys.NewResponse().Attachment(path),
		ryys.WithCollaborators(ryys.Collaborators{Sniffer: fixedSniffer{ryys.FileType{MIME: "application/x-custom", Ext: "cst"}}}))
	require.Equal(t, "application/x-custom", rec.Header().Get("Content-Type"))
}

func TestEmitAttachmentMissingFile(t *testing.T) {
	res := ryys.NewResponse().Attachment(filepath.Join(t.TempDir(), "nope.txt"))
	res.Header().Set("X-Before", "1")

	rec, logs := serve(t, res)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Empty(t, rec.Header().Get("X-Before"))
	require.Empty(t, rec.Body.String())
	require.EqualValues(t, 1, logs.NumLogEmitError)
}

func TestEmitAttachmentDirectory(t *testing.T) {
	rec, logs := serve(t, ryys.NewResponse().Attachment(t.TempDir()))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.EqualValues(t, 1, logs.NumLogEmitError)
}

type customEmitter struct{}

func (customEmitter) Emit(_ context.Context, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "text/csv")
	w.WriteHeader(http.StatusOK)
	_, err := io.WriteString(w, "a,b\n1,2\n")

	return err
}

func TestEmitCustom(t *testing.T) {
	rec, _ := serve(t, ryys.NewResponse().WithEmitter(customEmitter{}))
	require.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	require.Equal(t, "a,b\n1,2\n", rec.Body.String())
}
