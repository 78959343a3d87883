package vdom

import "strings"

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Identity attributes

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// AriaLabel sets the aria-label attribute.
func AriaLabel(label string) Attr { return attr("aria-label", label) }

// AriaLive sets the aria-live attribute.
func AriaLive(mode string) Attr { return attr("aria-live", mode) }

// Href sets the href attribute.
func Href(url string) Attr { return attr("href", url) }

// Form input attributes

// Name sets the name attribute.
func Name(name string) Attr { return attr("name", name) }

// Value sets the value attribute.
func Value(value string) Attr { return attr("value", value) }

// Type sets the type attribute.
func Type(t string) Attr { return attr("type", t) }

// Placeholder sets the placeholder attribute.
func Placeholder(text string) Attr { return attr("placeholder", text) }

// Required sets the required attribute.
func Required() Attr { return attr("required", true) }

// Checked sets the checked attribute.
func Checked() Attr { return attr("checked", true) }

// Autofocus sets the autofocus attribute.
func Autofocus() Attr { return attr("autofocus", true) }

// Autocomplete sets the autocomplete attribute.
func Autocomplete(value string) Attr { return attr("autocomplete", value) }

// MaxLength sets the maxlength attribute.
func MaxLength(n int) Attr { return attr("maxlength", n) }

// For sets the for attribute (for labels).
func For(id string) Attr { return attr("for", id) }

// Conditional attributes

// ClassIf adds a class conditionally.
func ClassIf(condition bool, class string) Attr {
	if condition {
		return attr("class", class)
	}
	return Attr{} // Empty attr, will be ignored
}

// AttrIf adds any attribute conditionally.
func AttrIf(condition bool, a Attr) Attr {
	if condition {
		return a
	}
	return Attr{}
}

// AttrKV builds an arbitrary attribute.
func AttrKV(key string, value any) Attr { return attr(key, value) }
