package ryys

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// Attributes whose name starts with this marker are internal and hidden from [Request.Attributes].
const reservedAttributePrefix = "_"

// PreviousRegexAttribute holds the composite pattern matched by the enclosing routers.
const PreviousRegexAttribute = reservedAttributePrefix + "previousRegex"

// Request is the per-request envelope handed down the chain. It is not safe for concurrent use, every
// inbound message gets its own.
type Request struct {
	raw        *http.Request
	url        *url.URL
	attributes map[string]string
	cookies    map[string]string
	store      map[string]any
	opts       BodyParserOptions
	collab     Collaborators
	logs       Logger
	consumed   bool
}

// RequestConfig holds what every request of a server shares. Zero fields take the defaults.
type RequestConfig struct {
	BodyParser    BodyParserOptions
	Collaborators Collaborators
	Logger        Logger
}

// NewRequest wraps raw. The URL is parsed once from the request target, malformed input fails here.
func NewRequest(raw *http.Request, cfg RequestConfig) (*Request, error) {
	u, err := requestURL(raw)
	if err != nil {
		return nil, err
	}

	if cfg.Logger == nil {
		cfg.Logger = NewStdLogger(log.Default())
	}

	return &Request{
		raw:        raw,
		url:        u,
		attributes: map[string]string{},
		store:      map[string]any{},
		opts:       cfg.BodyParser.withDefaults(),
		collab:     cfg.Collaborators.withDefaults(),
		logs:       cfg.Logger,
	}, nil
}

func requestURL(raw *http.Request) (*url.URL, error) {
	host := raw.Host
	if host == "" {
		host = "localhost"
	}

	scheme := "http"
	if raw.TLS != nil {
		scheme = "https"
	}

	target := raw.RequestURI
	if target == "" && raw.URL != nil {
		target = raw.URL.RequestURI()
	}

	switch {
	case target == "*":
		target = "/"
	case !strings.HasPrefix(target, "/"):
		abs, err := url.ParseRequestURI(target)
		if err != nil || !abs.IsAbs() {
			return nil, errors.Newf("ryys: unsupported request target %q", target)
		}
		return abs, nil
	}

	u, err := url.Parse(scheme + "://" + host + target)
	if err != nil {
		return nil, errors.Wrap(err, "ryys: could not parse URL from request")
	}

	return u, nil
}

// Raw returns the underlying inbound message.
func (r *Request) Raw() *http.Request { return r.raw }

// Context returns the inbound message's context. It is cancelled when the client goes away.
func (r *Request) Context() context.Context { return r.raw.Context() }

// URL returns the parsed URL. Do not modify it.
func (r *Request) URL() *url.URL { return r.url }

func (r *Request) Method() string      { return r.raw.Method }
func (r *Request) Path() string        { return r.url.Path }
func (r *Request) Header() http.Header { return r.raw.Header }

// SetAttributes replaces the attribute bag.
func (r *Request) SetAttributes(attrs map[string]string) {
	r.attributes = attrs
}

// Attribute returns the named attribute, or the optional default when absent.
func (r *Request) Attribute(name string, def ...string) string {
	if v, ok := r.attributes[name]; ok {
		return v
	}

	return lo.FirstOr(def, "")
}

// Attributes returns a copy of the public attributes.
func (r *Request) Attributes() map[string]string {
	return lo.PickBy(r.attributes, func(k, _ string) bool {
		return !strings.HasPrefix(k, reservedAttributePrefix)
	})
}

// QueryParams returns the parsed query string.
func (r *Request) QueryParams() url.Values { return r.url.Query() }

// QueryParam returns the first value for name, or the optional default when absent.
func (r *Request) QueryParam(name string, def ...string) string {
	vals := r.url.Query()
	if !vals.Has(name) {
		return lo.FirstOr(def, "")
	}

	return vals.Get(name)
}

// SetCookies populates the cookie mapping.
func (r *Request) SetCookies(cookies map[string]string) { r.cookies = cookies }

// Cookies returns the parsed cookies, nil when they were never parsed.
func (r *Request) Cookies() map[string]string { return r.cookies }

// Cookie returns the named cookie, or the optional default. It panics when cookies were not parsed: mount
// the [ParseCookies] middleware in front of handlers that read cookies.
func (r *Request) Cookie(name string, def ...string) string {
	if r.cookies == nil {
		panic("ryys: tried to access cookies before parsing them; is the ParseCookies middleware configured?")
	}

	if v, ok := r.cookies[name]; ok {
		return v
	}

	return lo.FirstOr(def, "")
}

// Set stores a value for handlers further down the chain.
func (r *Request) Set(key string, v any) { r.store[key] = v }

// Get returns a value stored with [Request.Set].
func (r *Request) Get(key string) (any, bool) {
	v, ok := r.store[key]
	return v, ok
}

// Store exposes the per-request key/value map.
func (r *Request) Store() map[string]any { return r.store }

// StoreValue returns the value stored under key if it has type T.
func StoreValue[T any](r *Request, key string) (T, bool) {
	v, ok := r.store[key].(T)
	return v, ok
}

// BodyParserOptions returns the limits the body accessors apply.
func (r *Request) BodyParserOptions() BodyParserOptions { return r.opts }

func (r *Request) consumeBody() error {
	if r.consumed {
		return ErrBodyConsumed
	}

	r.consumed = true
	return nil
}
