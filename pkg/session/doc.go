// Package session binds stateless HTTP requests to durable per-client state.
//
// It provides two pieces:
//
// # Client Identity
//
// A Resolver reads the opaque client identity from the request cookie and
// mints a fresh one when the cookie is absent or malformed:
//
//	resolver := session.NewResolver()
//	id := resolver.Resolve(r)
//	resolver.Persist(w, id) // sets the cookie only when id.New
//
// Resolve never fails. A missing or malformed token is always recovered by
// minting a new UUID.
//
// # Storage
//
// The Store interface is a flat key/value contract shared by every backend:
//
//	store := session.NewMemoryStore()
//	// or
//	store := session.NewRedisStore(session.GoRedis(rdb))
//	// or
//	store := session.NewSQLStore(db, session.WithSQLDialect(session.DialectSQLite))
//	// or
//	store := session.NewS3Store(s3Client, "bucket")
//
// Load returns (nil, nil) for keys that were never written. Save overwrites
// wholesale and the last writer wins. SaveIfAbsent is the only atomic
// read-modify-write primitive and is used to allocate bindings exactly once.
//
// Namespace carves one backend into independent key spaces:
//
//	bindings := session.Namespace(store, "binding:")
//	todos := session.Namespace(store, "todos:")
//
// Any backend failure is reported as an error matching ErrUnavailable.
package session
