package render

import "github.com/vango-dev/uploadbox/pkg/vdom"

func isVoidElement(tag string) bool {
	return vdom.IsVoidElement(tag)
}

// inlineElements don't get newlines in pretty-printed output.
var inlineElements = map[string]bool{
	"a":      true,
	"b":      true,
	"br":     true,
	"code":   true,
	"em":     true,
	"i":      true,
	"label":  true,
	"s":      true,
	"small":  true,
	"span":   true,
	"strong": true,
}

func isInlineElement(tag string) bool {
	return inlineElements[tag]
}

// booleanAttrs are rendered as a bare attribute name when true and
// omitted when false.
var booleanAttrs = map[string]bool{
	"allowfullscreen": true,
	"async":           true,
	"autofocus":       true,
	"checked":         true,
	"defer":           true,
	"disabled":        true,
	"hidden":          true,
	"multiple":        true,
	"open":            true,
	"readonly":        true,
	"required":        true,
	"selected":        true,
}

func isBooleanAttr(name string) bool {
	return booleanAttrs[name]
}
