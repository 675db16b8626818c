package ryys

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cockroachdb/errors"
	"golang.org/x/net/http/httpguts"
)

// Emitter turns a [Response] into wire bytes. It is invoked exactly once, when the response is committed.
// Everything that determines headers must happen before the first call to WriteHeader: once a body byte is
// on the wire the status and headers can no longer change.
type Emitter interface {
	Emit(ctx context.Context, w http.ResponseWriter) error
}

// emitters that sniff content get the server's sniffer injected before Emit.
type sniffingEmitter interface {
	useSniffer(s Sniffer)
}

const pipeChunkSize = 32 * 1024

func writeHead(w http.ResponseWriter, res *Response) {
	for k, vals := range res.header {
		w.Header()[k] = append([]string(nil), vals...)
	}

	w.WriteHeader(res.code)
}

type emptyEmitter struct{ res *Response }

func (e emptyEmitter) Emit(_ context.Context, w http.ResponseWriter) error {
	writeHead(w, e.res)
	return nil
}

type textEmitter struct{ res *Response }

func newTextEmitter(res *Response, contentType string) textEmitter {
	res.header.Set("Content-Type", contentType)
	return textEmitter{res}
}

func (e textEmitter) Emit(_ context.Context, w http.ResponseWriter) error {
	body, _ := e.res.body.(string)

	writeHead(w, e.res)
	if _, err := io.WriteString(w, body); err != nil {
		return errors.Wrap(err, "ryys: failed to write text body")
	}

	return nil
}

type jsonEmitter struct{ res *Response }

func newJSONEmitter(res *Response) jsonEmitter {
	res.header.Set("Content-Type", "application/json")
	return jsonEmitter{res}
}

func (e jsonEmitter) Emit(_ context.Context, w http.ResponseWriter) error {
	buf, err := json.Marshal(e.res.body)
	if err != nil {
		return errors.Wrap(err, "ryys: failed to serialize json body")
	}

	writeHead(w, e.res)
	if _, err := w.Write(buf); err != nil {
		return errors.Wrap(err, "ryys: failed to write json body")
	}

	return nil
}

type streamEmitter struct {
	res *Response
	src io.Reader
}

func (e *streamEmitter) Emit(ctx context.Context, w http.ResponseWriter) error {
	if c, ok := e.src.(io.Closer); ok {
		defer c.Close()
	}

	e.res.header.Set("Content-Type", "application/octet-stream")
	writeHead(w, e.res)

	return pipe(ctx, w, e.src)
}

type attachmentEmitter struct {
	res     *Response
	path    string
	sniffer Sniffer
}

func (e *attachmentEmitter) useSniffer(s Sniffer) { e.sniffer = s }

func (e *attachmentEmitter) Emit(ctx context.Context, w http.ResponseWriter) error {
	info, err := os.Stat(e.path)
	if err != nil {
		return errors.Wrapf(err, "ryys: error reading file %q", e.path)
	}

	if info.IsDir() {
		return errors.Newf("ryys: attachment %q is a directory", e.path)
	}

	f, err := os.Open(e.path)
	if err != nil {
		return errors.Wrapf(err, "ryys: error opening file %q", e.path)
	}
	defer f.Close()

	sniffer := e.sniffer
	if sniffer == nil {
		sniffer = MimetypeSniffer{}
	}

	contentType := "application/octet-stream"
	ft, ok, err := sniffer.SniffReader(io.NewSectionReader(f, 0, info.Size()))
	if err != nil {
		return errors.Wrapf(err, "ryys: error sniffing file %q", e.path)
	}

	if ok {
		contentType = ft.MIME
	}

	e.res.header.Set("Content-Type", contentType)
	e.res.header.Set("Content-Disposition", attachmentDisposition(filepath.Base(e.path)))
	e.res.header.Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	writeHead(w, e.res)

	return pipe(ctx, w, f)
}

// attachmentDisposition quotes or encodes the name when needed and drops it entirely when no valid header
// value can be formed.
func attachmentDisposition(basename string) string {
	v := mime.FormatMediaType("attachment", map[string]string{"filename": basename})
	if v == "" || !httpguts.ValidHeaderFieldValue(v) {
		return "attachment"
	}

	return v
}

// pipe copies src to w until src is exhausted. It stops early when the client goes away, either noticed
// through ctx or through a failing write.
func pipe(ctx context.Context, w http.ResponseWriter, src io.Reader) error {
	rc := http.NewResponseController(w)
	buf := make([]byte, pipeChunkSize)

	for {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "ryys: client went away while streaming")
		}

		n, rerr := src.Read(buf)
		if n > 0 {
			if _, err := w.Write(buf[:n]); err != nil {
				return errors.Wrap(err, "ryys: failed to write to client")
			}

			if err := rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
				return errors.Wrap(err, "ryys: failed to flush to client")
			}
		}

		if errors.Is(rerr, io.EOF) {
			return nil
		}

		if rerr != nil {
			return errors.Wrap(rerr, "ryys: failed to read stream source")
		}
	}
}
