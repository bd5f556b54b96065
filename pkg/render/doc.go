// Package render converts vdom trees into HTML.
//
// It handles text and attribute escaping, void elements, boolean
// attributes and optional pretty printing:
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(box.Render())
//
// RenderPage wraps a body tree in a complete HTML5 document, which is
// what the preview server serves.
package render
