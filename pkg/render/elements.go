package render

import "github.com/vango-dev/hxstate/pkg/vdom"

// isVoidElement reports whether tag has no closing tag.
func isVoidElement(tag string) bool {
	return vdom.IsVoidElement(tag)
}

// inlineElements keep their children on one line in pretty output.
var inlineElements = map[string]bool{
	"a":        true,
	"b":        true,
	"br":       true,
	"button":   true,
	"code":     true,
	"em":       true,
	"i":        true,
	"label":    true,
	"script":   true,
	"small":    true,
	"span":     true,
	"strong":   true,
	"title":    true,
	"textarea": true,
}

// isInlineElement returns true if the tag is an inline element.
func isInlineElement(tag string) bool {
	return inlineElements[tag]
}

// booleanAttrs render as a bare name when true and are omitted when false.
var booleanAttrs = map[string]bool{
	"async":      true,
	"autofocus":  true,
	"checked":    true,
	"defer":      true,
	"disabled":   true,
	"hidden":     true,
	"multiple":   true,
	"novalidate": true,
	"readonly":   true,
	"required":   true,
	"selected":   true,
}

func isBooleanAttr(name string) bool {
	return booleanAttrs[name]
}
