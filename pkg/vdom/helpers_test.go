package vdom

import "testing"

func TestText(t *testing.T) {
	node := Text("Hello, World!")

	if node.Kind != KindText {
		t.Errorf("Kind = %v, want KindText", node.Kind)
	}
	if node.Text != "Hello, World!" {
		t.Errorf("Text = %v, want 'Hello, World!'", node.Text)
	}
}

func TestTextf(t *testing.T) {
	node := Textf("Count: %d", 42)

	if node.Text != "Count: 42" {
		t.Errorf("Text = %v, want 'Count: 42'", node.Text)
	}
}

func TestRaw(t *testing.T) {
	node := Raw("<strong>Bold</strong>")

	if node.Kind != KindRaw {
		t.Errorf("Kind = %v, want KindRaw", node.Kind)
	}
}

func TestFragment(t *testing.T) {
	var nilNode *VNode
	node := Fragment(Div(), nil, nilNode, "text", []*VNode{Span(), nil})
	if node.Kind != KindFragment {
		t.Errorf("Kind = %v, want KindFragment", node.Kind)
	}
	if len(node.Children) != 3 {
		t.Errorf("Children len = %v, want 3", len(node.Children))
	}
}

func TestConditionals(t *testing.T) {
	div := Div()
	if If(true, div) != div || If(false, div) != nil {
		t.Error("If mismatch")
	}

	called := false
	When(false, func() *VNode { called = true; return div })
	if called {
		t.Error("When evaluated its function for a false condition")
	}
	if When(true, func() *VNode { return div }) != div {
		t.Error("When(true) should return the node")
	}

	if !IfAttr(false, ID("x")).IsEmpty() || IfAttr(true, ID("x")).IsEmpty() {
		t.Error("IfAttr mismatch")
	}
}

func TestRange(t *testing.T) {
	items := []string{"a", "skip", "c"}
	nodes := Range(items, func(item string, i int) *VNode {
		if item == "skip" {
			return nil
		}
		return Li(Key(i), item)
	})

	if len(nodes) != 2 {
		t.Fatalf("len = %d, want 2", len(nodes))
	}
	if nodes[1].Key != "2" {
		t.Errorf("Key = %q, want 2", nodes[1].Key)
	}
}
