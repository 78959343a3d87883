package session

import (
	"net/http"

	"github.com/google/uuid"
)

// DefaultCookieName is the cookie that carries the client identity.
const DefaultCookieName = "session"

// Identity is the resolved client identity for one request.
type Identity struct {
	// ID is the opaque client token.
	ID string

	// New is true when ID was minted for this request and the client has
	// not been told about it yet.
	New bool
}

// Resolver maps an inbound request to a stable client identity.
type Resolver struct {
	cookieName string
	secure     bool
	sameSite   http.SameSite
	newID      func() string
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithCookieName overrides the identity cookie name.
func WithCookieName(name string) ResolverOption {
	return func(r *Resolver) {
		if name != "" {
			r.cookieName = name
		}
	}
}

// WithSecureCookies marks the identity cookie Secure.
func WithSecureCookies(secure bool) ResolverOption {
	return func(r *Resolver) {
		r.secure = secure
	}
}

// WithSameSite sets the SameSite mode of the identity cookie.
// Default: http.SameSiteLaxMode.
func WithSameSite(mode http.SameSite) ResolverOption {
	return func(r *Resolver) {
		r.sameSite = mode
	}
}

// WithIDGenerator replaces the identity generator. Intended for tests.
func WithIDGenerator(gen func() string) ResolverOption {
	return func(r *Resolver) {
		if gen != nil {
			r.newID = gen
		}
	}
}

// NewResolver creates a Resolver that mints random UUIDs.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		cookieName: DefaultCookieName,
		sameSite:   http.SameSiteLaxMode,
		newID:      NewID,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CookieName returns the identity cookie name.
func (r *Resolver) CookieName() string {
	return r.cookieName
}

// Resolve returns the identity carried by req, or a freshly minted one when
// the cookie is absent or malformed. It never fails.
func (r *Resolver) Resolve(req *http.Request) Identity {
	if c, err := req.Cookie(r.cookieName); err == nil && ValidID(c.Value) {
		return Identity{ID: c.Value}
	}
	return Identity{ID: r.newID(), New: true}
}

// Persist instructs the client to keep a newly minted identity for the rest
// of the browser session. It is a no-op for known identities.
func (r *Resolver) Persist(w http.ResponseWriter, id Identity) {
	if !id.New {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     r.cookieName,
		Value:    id.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.secure,
		SameSite: r.sameSite,
	})
}

// NewID mints a random (version 4) UUID token.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether s is a canonical 36-character UUID.
func ValidID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
