package ryysapp

import (
	"net/http"

	"github.com/carlmjohnson/requests"
)

// Runtime provides access to app-scoped dependencies.
// Inject this into handler constructors via fx instead of pulling them from the request.
//
// Example:
//
//	type Handlers struct {
//	    rt *ryysapp.Runtime[Env]
//	}
//
//	func (h *Handlers) Upload(r *ryys.Request) (*ryys.Response, error) {
//	    form, err := r.Multipart()
//	    if err != nil {
//	        return nil, err
//	    }
//	    uri, err := h.rt.Uploads().Put(r.Context(), "avatars/"+ryysapp.RequestID(r), form.Files()[0])
//	    // ...
//	}
type Runtime[E Environment] struct {
	env       E
	uploads   *Uploads
	transport http.RoundTripper
}

// RuntimeParams holds optional dependencies for Runtime.
type RuntimeParams struct {
	Uploads   *Uploads
	Transport http.RoundTripper
}

// NewRuntime creates a new Runtime with the given dependencies.
func NewRuntime[E Environment](env E, params RuntimeParams) *Runtime[E] {
	if params.Transport == nil {
		params.Transport = http.DefaultTransport
	}

	if params.Uploads == nil {
		params.Uploads = NewUploads(nil, "")
	}

	return &Runtime[E]{
		env:       env,
		uploads:   params.Uploads,
		transport: params.Transport,
	}
}

// Env returns the environment configuration.
func (r *Runtime[E]) Env() E { return r.env }

// Uploads returns the S3 store for uploaded files.
func (r *Runtime[E]) Uploads() *Uploads { return r.uploads }

// NewRequest starts an outbound request to baseURL over the traced transport.
//
//	var out Item
//	err := h.rt.NewRequest("https://api.example.com").Path("/items/1").ToJSON(&out).Fetch(r.Context())
func (r *Runtime[E]) NewRequest(baseURL string) *requests.Builder {
	return newRequestBuilder(r.transport, baseURL)
}
