package vdom

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement   VKind = iota // <div>, <button>, etc.
	KindText                   // Plain text node
	KindFragment               // Grouping without wrapper
	KindComponent              // Nested component
	KindRaw                    // Raw HTML (dangerous)
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindComponent:
		return "Component"
	case KindRaw:
		return "Raw"
	default:
		return "Unknown"
	}
}

// VNode is the virtual DOM node.
type VNode struct {
	Kind     VKind     // Node type
	Tag      string    // Element tag name (e.g., "div")
	Props    Props     // Attributes
	Children []*VNode  // Child nodes
	Key      string    // Stable identity among siblings
	Text     string    // For KindText and KindRaw
	Comp     Component // For KindComponent
}

// Props holds element attributes.
type Props map[string]any

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// Component is anything that can render to a VNode.
type Component interface {
	Render() *VNode
}

// FuncComponent wraps a render function.
type FuncComponent struct {
	render func() *VNode
}

// Render implements Component.
func (f *FuncComponent) Render() *VNode {
	return f.render()
}

// Func creates a component from a render function.
func Func(render func() *VNode) Component {
	return &FuncComponent{render: render}
}

// Attr returns the value of the named attribute, or nil.
func (v *VNode) Attr(key string) any {
	if v == nil || v.Props == nil {
		return nil
	}
	return v.Props[key]
}

// HasClass reports whether the class attribute contains name.
func (v *VNode) HasClass(name string) bool {
	class, _ := v.Attr("class").(string)
	start := 0
	for i := 0; i <= len(class); i++ {
		if i == len(class) || class[i] == ' ' {
			if class[start:i] == name {
				return true
			}
			start = i + 1
		}
	}
	return false
}

// Find returns the nodes in the tree (depth first, pre-order) for which
// match returns true.
func (v *VNode) Find(match func(*VNode) bool) []*VNode {
	var out []*VNode
	var walk func(n *VNode)
	walk = func(n *VNode) {
		if n == nil {
			return
		}
		if match(n) {
			out = append(out, n)
		}
		if n.Kind == KindComponent && n.Comp != nil {
			walk(n.Comp.Render())
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(v)
	return out
}

// TextContent concatenates all text nodes below v.
func (v *VNode) TextContent() string {
	var out []byte
	for _, n := range v.Find(func(n *VNode) bool { return n.Kind == KindText }) {
		out = append(out, n.Text...)
	}
	return string(out)
}
