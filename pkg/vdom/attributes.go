package vdom

import (
	"fmt"
	"strings"
)

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Raw attribute escape hatch.
func AttrOf(key string, value any) Attr { return attr(key, value) }

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr {
	kept := classes[:0:0]
	for _, c := range classes {
		if c != "" {
			kept = append(kept, c)
		}
	}
	return attr("class", strings.Join(kept, " "))
}

// StyleAttr sets the style attribute (named to avoid conflict with the style element).
func StyleAttr(style string) Attr { return attr("style", style) }

// Data creates a data-* attribute.
// Example: Data("id", "123") → data-id="123"
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Role sets the role attribute.
func Role(role string) Attr { return attr("role", role) }

// AriaLabel sets the aria-label attribute.
func AriaLabel(label string) Attr { return attr("aria-label", label) }

// AriaHidden sets the aria-hidden attribute.
func AriaHidden(hidden bool) Attr { return attr("aria-hidden", hidden) }

// AriaModal sets the aria-modal attribute.
func AriaModal(modal bool) Attr { return attr("aria-modal", modal) }

// TitleAttr sets the title attribute (tooltip).
func TitleAttr(title string) Attr { return attr("title", title) }

// Type sets the type attribute.
func Type(t string) Attr { return attr("type", t) }

// Name sets the name attribute.
func Name(name string) Attr { return attr("name", name) }

// Accept sets the accept attribute of a file input.
func Accept(accept string) Attr { return attr("accept", accept) }

// Multiple sets the multiple boolean attribute.
func Multiple(multiple bool) Attr { return attr("multiple", multiple) }

// Hidden sets the hidden boolean attribute.
func Hidden(hidden bool) Attr { return attr("hidden", hidden) }

// Disabled sets the disabled boolean attribute.
func Disabled(disabled bool) Attr { return attr("disabled", disabled) }

// Href sets the href attribute.
func Href(href string) Attr { return attr("href", href) }

// Src sets the src attribute.
func Src(src string) Attr { return attr("src", src) }

// Width sets the width attribute.
func Width(w int) Attr { return attr("width", w) }

// Height sets the height attribute.
func Height(h int) Attr { return attr("height", h) }

// Key creates a key attribute for sibling identity.
// The key is converted to a string using fmt.Sprintf.
func Key(key any) Attr {
	return attr("key", fmt.Sprintf("%v", key))
}
