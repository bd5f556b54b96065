package vdom

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// createElement creates a new VNode with the given tag and arguments.
// Arguments can be: nil, Attr, []Attr, *VNode, []*VNode, Component, string.
func createElement(tag string, args []any) *VNode {
	node := &VNode{
		Kind:     KindElement,
		Tag:      tag,
		Props:    make(Props),
		Children: make([]*VNode, 0),
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue
		case Attr:
			node.setAttr(v)
		case []Attr:
			for _, a := range v {
				node.setAttr(a)
			}
		case *VNode:
			if v != nil {
				node.Children = append(node.Children, v)
			}
		case []*VNode:
			for _, child := range v {
				if child != nil {
					node.Children = append(node.Children, child)
				}
			}
		case Component:
			node.Children = append(node.Children, &VNode{
				Kind: KindComponent,
				Comp: v,
			})
		case string:
			node.Children = append(node.Children, Text(v))
		}
	}

	return node
}

func (v *VNode) setAttr(a Attr) {
	if a.IsEmpty() {
		return
	}
	if a.Key == "key" {
		if s, ok := a.Value.(string); ok {
			v.Key = s
		}
		return
	}
	// Repeated class and style attributes accumulate.
	if a.Key == "class" || a.Key == "style" {
		if prev, ok := v.Props[a.Key].(string); ok && prev != "" {
			if next, ok := a.Value.(string); ok && next != "" {
				sep := " "
				if a.Key == "style" {
					sep = ";"
				}
				v.Props[a.Key] = prev + sep + next
				return
			}
			if next, ok := a.Value.(string); ok && next == "" {
				return
			}
		}
	}
	v.Props[a.Key] = a.Value
}

// El creates an element with an arbitrary tag.
func El(tag string, args ...any) *VNode { return createElement(tag, args) }

// Document structure elements

func Html(args ...any) *VNode  { return createElement("html", args) }
func Head(args ...any) *VNode  { return createElement("head", args) }
func Body(args ...any) *VNode  { return createElement("body", args) }
func Title(args ...any) *VNode { return createElement("title", args) }
func Meta(args ...any) *VNode  { return createElement("meta", args) }
func Script(args ...any) *VNode {
	return createElement("script", args)
}
func StyleEl(args ...any) *VNode { return createElement("style", args) }

// Content elements

func Div(args ...any) *VNode    { return createElement("div", args) }
func Span(args ...any) *VNode   { return createElement("span", args) }
func P(args ...any) *VNode      { return createElement("p", args) }
func Ul(args ...any) *VNode     { return createElement("ul", args) }
func Li(args ...any) *VNode     { return createElement("li", args) }
func A(args ...any) *VNode      { return createElement("a", args) }
func Button(args ...any) *VNode { return createElement("button", args) }
func Input(args ...any) *VNode  { return createElement("input", args) }
func Label(args ...any) *VNode  { return createElement("label", args) }
func Form(args ...any) *VNode   { return createElement("form", args) }
func Iframe(args ...any) *VNode { return createElement("iframe", args) }
func Svg(args ...any) *VNode    { return createElement("svg", args) }
func Path(args ...any) *VNode   { return createElement("path", args) }
