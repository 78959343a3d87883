// Package vdom provides the node tree that hxstate views are built from.
//
// Views never concatenate HTML strings. They build VNode trees with
// variadic factory functions and hand them to pkg/render, which owns all
// escaping:
//
//	Div(ID("counter"), Class("box"),
//	    Span(Textf("%d", n)),
//	    Button(HxPost("/clicked"), HxSwap("outerHTML"), Text("+1")),
//	)
//
// # Core Types
//
// VNode is the fundamental building block representing elements, text,
// fragments and raw HTML. Props holds attributes. Attr builds Props.
//
// # htmx Attributes
//
// The Hx* helpers produce the hx-* attributes that drive partial page
// updates: the request verb and URL, the swap target and strategy, and
// out-of-band swap marking for secondary fragments.
package vdom
