package ryys

import (
	"io"
	"net/http"
)

// Response is the logical response a handler produces. Exactly one [Emitter] is active at a time; every
// body-setting method replaces both the body and the emitter.
type Response struct {
	code    int
	header  http.Header
	body    any
	emitter Emitter
}

// NewResponse creates an empty response with the given status code, 200 when omitted.
func NewResponse(code ...int) *Response {
	res := &Response{code: http.StatusOK, header: http.Header{}}
	if len(code) > 0 {
		res.code = code[0]
	}

	res.emitter = emptyEmitter{res}
	return res
}

// Status sets the status code.
func (r *Response) Status(code int) *Response {
	r.code = code
	return r
}

func (r *Response) Code() int           { return r.code }
func (r *Response) Header() http.Header { return r.header }
func (r *Response) Body() any           { return r.body }
func (r *Response) Emitter() Emitter    { return r.emitter }

// WithEmitter installs a custom emitter. The body is left untouched.
func (r *Response) WithEmitter(e Emitter) *Response {
	r.emitter = e
	return r
}

// Text emits body as text/plain.
func (r *Response) Text(body string) *Response {
	r.body = body
	r.emitter = newTextEmitter(r, "text/plain")

	return r
}

// HTML emits body as text/html.
func (r *Response) HTML(body string) *Response {
	r.body = body
	r.emitter = newTextEmitter(r, "text/html")

	return r
}

// JSON emits body serialized as application/json.
func (r *Response) JSON(body any) *Response {
	r.body = body
	r.emitter = newJSONEmitter(r)

	return r
}

// Empty drops any body and emits only the status line and headers. A content type left by an earlier
// setter is dropped with it.
func (r *Response) Empty() *Response {
	r.body = nil
	r.header.Del("Content-Type")
	r.emitter = emptyEmitter{r}

	return r
}

// Stream pipes src to the client as application/octet-stream. If src is an io.Closer it is closed once the
// copy ends.
func (r *Response) Stream(src io.Reader) *Response {
	r.body = nil
	r.emitter = &streamEmitter{res: r, src: src}

	return r
}

// Attachment sends the file at path as a download. Size and type are determined at emit time.
func (r *Response) Attachment(path string) *Response {
	r.body = nil
	r.emitter = &attachmentEmitter{res: r, path: path}

	return r
}
