// Package server wires the action handlers to HTTP.
//
// Every request follows the same path: the session resolver yields a client
// identity (minting one when the cookie is absent), the handler loads the
// client's record from the state store, applies one transition, saves the
// record back and answers with the fragments the transition changed.
// GET / answers with a full page instead.
//
// # Fragment Convention
//
// A mutating endpoint answers with exactly one primary fragment, which
// replaces the element that issued the request, followed by secondary
// fragments marked hx-swap-oob that replace the element with the same id
// elsewhere on the page. The remaining-items count is always secondary.
//
// # Consistency
//
// There are no in-process locks. Two concurrent requests for the same
// client may both load, transition and save; the last save wins. Only the
// identity to state key binding is created atomically.
//
// # Example Usage
//
//	mem := session.NewMemoryStore()
//	srv, err := server.New(&server.ServerConfig{
//	    Address: ":8080",
//	    Variant: server.VariantBoth,
//	    Counter: state.NewCounterStore(
//	        session.Namespace(mem, "binding:"),
//	        session.Namespace(mem, "counter:"),
//	    ),
//	    Todos: state.NewTodoStore(session.Namespace(mem, "todos:")),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv.Run()
package server
