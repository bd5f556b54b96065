// Package vdom provides the virtual DOM node model used by uploadbox
// components.
//
// A VNode tree is an in-memory description of the markup a component
// wants on screen. Components build trees with variadic element
// factories and hand them to package render to produce HTML:
//
//	Div(Class("file-item"), Data("action", "open"),
//	    Span(Text(file.Name)),
//	)
//
// Arguments to element factories may be nil (ignored), Attr, []Attr,
// *VNode, []*VNode, Component or string (shorthand for a text node).
// Nil handling makes conditional attributes and children cheap:
//
//	Div(If(readonly, Class("readonly")), ...)
package vdom
