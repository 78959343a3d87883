package vdom

// Request verbs. Each issues the request on the element's trigger event.

func HxGet(url string) Attr    { return attr("hx-get", url) }
func HxPost(url string) Attr   { return attr("hx-post", url) }
func HxPatch(url string) Attr  { return attr("hx-patch", url) }
func HxDelete(url string) Attr { return attr("hx-delete", url) }

// Swap strategies accepted by HxSwap.
const (
	SwapOuterHTML = "outerHTML"
	SwapBeforeEnd = "beforeend"
	SwapDelete    = "delete"
)

// HxTarget sets the CSS selector of the element the response replaces.
func HxTarget(selector string) Attr { return attr("hx-target", selector) }

// HxSwap sets how the response is placed relative to the target.
func HxSwap(strategy string) Attr { return attr("hx-swap", strategy) }

// HxTrigger overrides the event that issues the request.
func HxTrigger(event string) Attr { return attr("hx-trigger", event) }

// HxInclude adds the values of the selected inputs to the request.
func HxInclude(selector string) Attr { return attr("hx-include", selector) }

// HxSwapOOB marks an element as an out-of-band fragment. The client swaps
// it into the element with the same id, independent of the request target.
func HxSwapOOB() Attr { return attr("hx-swap-oob", "true") }
