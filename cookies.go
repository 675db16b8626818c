package ryys

// ParseCookies parses the Cookie header into the request's cookie mapping before handing over to next.
// Cookies already populated are left alone. Without a Cookie header the mapping stays nil, so handlers can
// tell "no header" apart from "header without valid pairs".
func ParseCookies(next Handler) Handler {
	return HandlerFunc(func(r *Request) (*Response, error) {
		if r.Cookies() == nil && len(r.Header().Values("Cookie")) > 0 {
			cookies := map[string]string{}
			for _, c := range r.Raw().Cookies() {
				if _, seen := cookies[c.Name]; !seen {
					cookies[c.Name] = c.Value
				}
			}

			r.SetCookies(cookies)
		}

		return next.Handle(r)
	})
}
