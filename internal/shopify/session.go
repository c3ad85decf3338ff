package shopify

// Session identifies the authenticated merchant making an admin request.
// It is established by the session-token middleware and passed to services
// explicitly; nothing in this package reads it from ambient state.
type Session struct {
	Shop string
}
