package ryys

// Mount registers a nested router under the pattern. The nested routes continue matching where pattern
// left off, so the mounted routes never see the prefix.
func (m *ServeMux) Mount(pattern string, routes ...Route) {
	m.Route(pattern, NewRouter(routes...))
}

// MountFunc mounts a single handler function under the pattern, matching the rest of the path.
func (m *ServeMux) MountFunc(pattern string, handler HandlerFunc) {
	m.Mount(pattern, Route{Pattern: "", Handler: handler})
}
