package session

import "context"

// Namespaced prefixes every key before delegating to a shared backend, so
// several logical key spaces can live in one Store.
type Namespaced struct {
	store  Store
	prefix string
}

// Namespace returns a view of store whose keys are prefixed with prefix.
// Closing the view does not close store.
func Namespace(store Store, prefix string) *Namespaced {
	return &Namespaced{store: store, prefix: prefix}
}

// Load implements Store.
func (n *Namespaced) Load(ctx context.Context, key string) ([]byte, error) {
	return n.store.Load(ctx, n.prefix+key)
}

// Save implements Store.
func (n *Namespaced) Save(ctx context.Context, key string, data []byte) error {
	return n.store.Save(ctx, n.prefix+key, data)
}

// SaveIfAbsent implements Store.
func (n *Namespaced) SaveIfAbsent(ctx context.Context, key string, data []byte) ([]byte, bool, error) {
	return n.store.SaveIfAbsent(ctx, n.prefix+key, data)
}

// Delete implements Store.
func (n *Namespaced) Delete(ctx context.Context, key string) error {
	return n.store.Delete(ctx, n.prefix+key)
}

// Close is a no-op. The owner of the shared backend closes it.
func (n *Namespaced) Close() error {
	return nil
}

// Prefix returns the key prefix.
func (n *Namespaced) Prefix() string {
	return n.prefix
}
