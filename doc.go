// Package ryys is a small HTTP pipeline built around error-returning handlers and logical responses.
//
// # Overview
//
// A handler receives a [*Request] and returns a [*Response] or an error. Nothing is written to the
// client until the whole chain has returned: the [Server] then commits the response through the
// [Emitter] that was selected when the body was set.
//
// A minimal example:
//
//	mux := ryys.NewServeMux()
//	mux.RouteFunc(`/users/(?<id>\d+)$`, func(r *ryys.Request) (*ryys.Response, error) {
//	    user, err := db.GetUser(r.Attribute("id"))
//	    if err != nil {
//	        return nil, err // logged, client gets a bare 500
//	    }
//	    if user == nil {
//	        return nil, ryys.NotFound("no such user")
//	    }
//	    return ryys.NewResponse().JSON(user), nil
//	})
//
//	http.ListenAndServe(":8080", mux)
//
// # Routing
//
// A [Router] holds an ordered list of regular expressions. The first pattern that matches the path
// wins and its named groups become request attributes. Routers nest: a route's handler can be
// another router, whose patterns are appended to the composite pattern matched so far. So a
// parent route `/api` with a child `/users/(?<id>\d+)$` effectively matches
// `^/api/users/(?<id>\d+)$`. Patterns are implicitly anchored at the start only; add `$` to
// anchor the end.
//
// When no route matches the router fails with [NotFound], which the interceptor turns into a 404.
//
// # Middleware
//
// A [Middleware] wraps a [Handler]. [Chain] composes them so the first one given is the outermost:
//
//	h := ryys.Chain(router, ryys.Intercept(logs), ryys.ParseCookies, authenticate)
//
// [Intercept] must be the outermost middleware. It renders public errors ([*Error]) with their
// status code and message, and turns every other error or panic into a bare 500 after logging it.
//
// # Responses
//
// The setters on [Response] pick the emission strategy: [Response.Text], [Response.HTML],
// [Response.JSON], [Response.Empty], [Response.Stream] and [Response.Attachment]. The last setter
// wins. Headers and the status code can be changed until the response is returned.
//
// # Request bodies
//
// [Request.JSON] and [Request.Multipart] read the body at most once, within the limits of the
// server's [BodyParserOptions]. Their failures are public errors (413 for size limits, 400 for
// malformed input) and can be returned from a handler as-is.
package ryys
