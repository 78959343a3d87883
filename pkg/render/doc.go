// Package render serializes vdom trees to HTML.
//
// It handles all aspects of producing valid, secure markup:
//
//   - HTML5 compliant element rendering with void elements
//   - Proper text and attribute escaping (XSS prevention)
//   - Boolean attribute handling (checked, required, etc.)
//   - Deterministic attribute order, so equal trees give equal bytes
//   - Full page rendering with DOCTYPE, head and the htmx client script
//
// # Basic Usage
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(node)
//
// A Renderer holds no per-render state and is safe for concurrent use.
//
// # Security
//
// All text content and attribute values are escaped. There is no way to
// insert unescaped HTML through a node.
package render
