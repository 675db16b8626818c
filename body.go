package ryys

import (
	"encoding/json"
	"net/url"

	"github.com/cockroachdb/errors"
	"github.com/tidwall/gjson"
)

// ErrBodyConsumed is returned when a body accessor is called a second time on the same request. The body
// stream can only be drained once, so this is a programming error on the caller's side.
var ErrBodyConsumed = errors.New("ryys: request body was already consumed")

// JSONBody is a decoded JSON request body.
type JSONBody struct {
	raw   []byte
	value any
}

// Value returns the decoded structure: map[string]any, []any, string, float64, bool or nil.
func (b *JSONBody) Value() any { return b.value }

// Raw returns the body bytes as received.
func (b *JSONBody) Raw() []byte { return b.raw }

// Decode unmarshals the body into v.
func (b *JSONBody) Decode(v any) error {
	if err := json.Unmarshal(b.raw, v); err != nil {
		return NewError(CodeBadRequest, "Failed to parse JSON").Wrap(err)
	}

	return nil
}

// Get looks up a value by gjson path syntax, e.g. "user.name" or "items.0.id".
func (b *JSONBody) Get(path string) gjson.Result {
	return gjson.GetBytes(b.raw, path)
}

// JSON reads the whole body, up to the configured limit, and decodes it.
func (r *Request) JSON() (*JSONBody, error) {
	if err := r.consumeBody(); err != nil {
		return nil, err
	}

	body, err := r.collab.Collector.Collect(r.raw.Body, r.raw.ContentLength, r.opts.BodyLimitBytes)
	if err != nil {
		switch {
		case errors.Is(err, ErrBodyTooLarge):
			return nil, NewError(CodeRequestEntityTooLarge, "Request size limit exceeded").Wrap(err)
		case errors.Is(err, ErrBodyLength):
			return nil, NewError(CodeBadRequest, "Invalid request length").Wrap(err)
		default:
			return nil, NewError(CodeBadRequest, "Failed to get the request body").Wrap(err)
		}
	}

	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return nil, NewError(CodeBadRequest, "Failed to parse JSON").Wrap(err)
	}

	return &JSONBody{raw: body, value: value}, nil
}

// Form is the result of reading a multipart body. Duplicate field names keep every value in order.
type Form struct {
	fields url.Values
	files  []*File
}

// Value returns the first value sent for the field, or "".
func (f *Form) Value(name string) string { return f.fields.Get(name) }

// Values returns all values sent for the field.
func (f *Form) Values(name string) []string { return f.fields[name] }

// Fields returns all non-file fields.
func (f *Form) Fields() url.Values { return f.fields }

// Files returns the accepted files in the order they were sent.
func (f *Form) Files() []*File { return f.files }

// Multipart streams the multipart body part by part. A request that is not multipart is rejected with
// [ErrNotMultipart], which is deliberately not a public error. File parts beyond the configured maximum
// count are dropped without error.
func (r *Request) Multipart() (*Form, error) {
	if !IsMultipart(r.raw) {
		return nil, ErrNotMultipart
	}

	if err := r.consumeBody(); err != nil {
		return nil, err
	}

	form := &Form{fields: url.Values{}}
	for part, err := range r.collab.Multipart.Parts(r.raw, r.opts.MaxFileSizeBytes) {
		if err != nil {
			return nil, r.multipartError(err)
		}

		if part.Name == "" {
			continue
		}

		if part.IsFile {
			if len(form.files) >= r.opts.MaxFiles {
				continue
			}

			form.files = append(form.files, newFile(part, r.collab.Sniffer))
			continue
		}

		form.fields.Add(part.Name, part.Text())
	}

	return form, nil
}

func (r *Request) multipartError(err error) error {
	switch {
	case errors.Is(err, ErrMaxFileSizeExceeded):
		return NewError(CodeRequestEntityTooLarge, "File size limit exceeded").Wrap(err)
	case errors.Is(err, ErrMultipartParse):
		return NewError(CodeBadRequest, "Failed to parse multipart request").Wrap(err)
	default:
		r.logs.LogBodyParseError(err)
		return NewError(CodeInternalServerError, "").Wrap(err)
	}
}
