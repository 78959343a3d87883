// Package errors provides hxstate's coded error type.
//
// Every failure that reaches an HTTP response or the terminal is an
// *AppError carrying a registered code, a category and a short message.
// The category decides the HTTP status:
//   - store: the backing store is unreachable (500)
//   - session: a mutation arrived for a client with no bound state (409)
//   - notfound: an item id that does not exist (404)
//   - validation: malformed form input (400)
//   - config: bad configuration at startup
//
// Domain packages return plain sentinel errors. Callers at the edge turn
// them into an *AppError with FromError and keep the original reachable
// through Unwrap:
//
//	err := errors.FromError(state.ErrNoSession, errors.CodeNoSession)
//	http.Error(w, err.Message, err.HTTPStatus())
//
// For terminal output, Format renders a multi-line report:
//
//	ERROR E120: Invalid configuration
//
//	  server.variant must be one of counter, todos, both
//
//	  Hint: check hxstate.yaml
package errors
