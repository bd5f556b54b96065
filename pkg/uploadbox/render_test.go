package uploadbox

import (
	"context"
	"strings"
	"testing"

	"github.com/vango-dev/uploadbox/pkg/render"
	"github.com/vango-dev/uploadbox/pkg/vdom"
)

func byClass(root *vdom.VNode, class string) []*vdom.VNode {
	return root.Find(func(n *vdom.VNode) bool { return n.Kind == vdom.KindElement && n.HasClass(class) })
}

func byAction(root *vdom.VNode, action string) []*vdom.VNode {
	return root.Find(func(n *vdom.VNode) bool { return n.Attr("data-action") == action })
}

func boxWith(variant Variant, files []UploadedFile, opts ...Option) *Box {
	cfg := DefaultConfig()
	cfg.Variant = variant
	return New(cfg, append([]Option{WithFiles(files)}, opts...)...)
}

func TestRenderBoxVariant(t *testing.T) {
	b := boxWith(VariantBox, []UploadedFile{file("1", "a.pdf"), readonlyFile("2", "b.pdf")})
	b.Pick(attachments("new.txt"))
	b.DragOver()

	root := b.Render()
	if !root.HasClass("uploadbox") || !root.HasClass("uploadbox-box") {
		t.Errorf("root class = %v", root.Attr("class"))
	}

	zone := byClass(root, "uploadbox-dropzone")
	if len(zone) != 1 {
		t.Fatalf("got %d drop zones", len(zone))
	}
	if !zone[0].HasClass("dragover") {
		t.Error("drop zone should show the hovered state")
	}
	if style, _ := zone[0].Attr("style").(string); !strings.Contains(style, "height:100px") {
		t.Errorf("drop zone style = %q", style)
	}
	if !strings.Contains(zone[0].TextContent(), DefaultDropzoneText) {
		t.Error("drop zone prompt missing")
	}

	inputs := root.Find(func(n *vdom.VNode) bool { return n.Tag == "input" })
	if len(inputs) != 1 || inputs[0].Attr("multiple") != true || inputs[0].Attr("accept") == "" {
		t.Errorf("file input = %+v", inputs)
	}

	items := byClass(root, "file-item")
	if len(items) != 2 {
		t.Fatalf("got %d file items", len(items))
	}
	if len(byAction(items[0], ActionRemoveFile)) != 1 {
		t.Error("writable file should have a remove action")
	}
	if len(byAction(items[1], ActionRemoveFile)) != 0 {
		t.Error("readonly file should not have a remove action")
	}

	attached := byClass(root, "attached-file-item")
	if len(attached) != 1 || !strings.Contains(attached[0].TextContent(), "new.txt") {
		t.Fatalf("attached items = %d", len(attached))
	}
	rm := byAction(attached[0], ActionRemoveAttachment)
	if len(rm) != 1 || rm[0].Attr("data-index") != "0" {
		t.Errorf("attachment remove action = %+v", rm)
	}
}

func TestRenderMarkedFile(t *testing.T) {
	b := boxWith(VariantBox, []UploadedFile{file("1", "a.pdf")})
	b.RemoveServerFile("1")

	items := byClass(b.Render(), "file-item")
	if len(items) != 1 {
		t.Fatalf("got %d items", len(items))
	}
	item := items[0]
	if !item.HasClass("deleted") {
		t.Error("marked file should have the deleted class")
	}
	if style, _ := item.Attr("style").(string); !strings.Contains(style, "line-through") {
		t.Errorf("style = %q", style)
	}
	if item.Attr("data-action") != nil {
		t.Error("marked file should not be clickable")
	}
	if len(byAction(item, ActionRemoveFile)) != 0 {
		t.Error("marked file should not offer removal again")
	}
}

func TestRenderIconVariant(t *testing.T) {
	b := boxWith(VariantIcon, []UploadedFile{file("1", "a.pdf")})
	b.Pick(attachments("x.pdf"))
	root := b.Render()

	if len(byClass(root, "uploadbox-dropzone")) != 0 {
		t.Error("icon variant has no drop zone")
	}
	if len(byClass(root, "uploadbox-attach")) != 1 {
		t.Error("icon variant should draw the attach button")
	}
	if len(byClass(root, "file-item"))+len(byClass(root, "attached-file-item")) != 0 {
		t.Error("icon variant should not list files")
	}
}

func TestRenderListVariant(t *testing.T) {
	b := boxWith(VariantList, []UploadedFile{file("1", "a.pdf")})
	root := b.Render()

	if len(byClass(root, "uploadbox-dropzone")) != 0 || len(byClass(root, "uploadbox-attach")) != 0 {
		t.Error("list variant has no input surface")
	}
	if len(byAction(root, ActionRemoveFile)) != 0 {
		t.Error("list variant has no remove actions")
	}
	if len(byClass(root, "file-item")) != 1 {
		t.Error("list variant should list server files")
	}
	if len(byClass(root, "uploadbox-empty")) != 0 {
		t.Error("no-files text shown with files present")
	}
}

func TestRenderListVariantEmpty(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Variant = VariantList
	cfg.NoFilesText = "Nothing attached"
	root := New(cfg).Render()

	empty := byClass(root, "uploadbox-empty")
	if len(empty) != 1 || empty[0].TextContent() != "Nothing attached" {
		t.Errorf("empty = %+v", empty)
	}
}

func TestRenderTooltip(t *testing.T) {
	f := file("1", "a.pdf")
	f.UserName = "kim"
	f.CreatedTime = "2024-03-05T14:07:09"

	b := boxWith(VariantBox, []UploadedFile{f})
	tips := byClass(b.Render(), "uploadbox-tooltip")
	if len(tips) != 1 || tips[0].TextContent() != "kim @ 2024-03-05 14:07:09" {
		t.Errorf("tooltip = %+v", tips)
	}

	cfg := DefaultConfig()
	cfg.ShowTooltip = false
	if tips := byClass(New(cfg, WithFiles([]UploadedFile{f})).Render(), "uploadbox-tooltip"); len(tips) != 0 {
		t.Error("tooltip rendered with ShowTooltip off")
	}
}

func TestRenderStyleOverrides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Styles = Styles{Container: "margin:4px", Dropzone: "border-color:red", FileItem: "color:blue"}
	root := New(cfg, WithFiles([]UploadedFile{file("1", "a.pdf")})).Render()

	if root.Attr("style") != "margin:4px" {
		t.Errorf("container style = %v", root.Attr("style"))
	}
	zone := byClass(root, "uploadbox-dropzone")[0]
	if style, _ := zone.Attr("style").(string); !strings.HasSuffix(style, "border-color:red") {
		t.Errorf("dropzone style = %q", style)
	}
	item := byClass(root, "file-item")[0]
	if style, _ := item.Attr("style").(string); style != "color:blue" {
		t.Errorf("file item style = %q", style)
	}
}

func TestRenderViewerModal(t *testing.T) {
	viewer := &ModalViewer{URL: ViewerURL("/view")}
	b := boxWith(VariantBox, []UploadedFile{file("1", "a.pdf")}, WithViewer(viewer))

	if len(byClass(b.Render(), "uploadbox-viewer")) != 0 {
		t.Error("closed viewer rendered")
	}
	b.OpenSeq(context.Background(), "1")

	root := b.Render()
	if len(byClass(root, "uploadbox-viewer")) != 1 {
		t.Fatal("open viewer not rendered")
	}
	frames := root.Find(func(n *vdom.VNode) bool { return n.Tag == "iframe" })
	if len(frames) != 1 || !strings.HasPrefix(frames[0].Attr("src").(string), "/view?") {
		t.Errorf("iframe = %+v", frames)
	}
	if len(byAction(root, ActionCloseViewer)) != 1 {
		t.Error("viewer should have a close action")
	}
}

func TestRenderHTML(t *testing.T) {
	f := file("1", `<b>.pdf`)
	b := boxWith(VariantList, []UploadedFile{f})

	html, err := render.NewRenderer(render.RendererConfig{}).RenderToString(b.Render())
	if err != nil {
		t.Fatalf("RenderToString: %v", err)
	}
	if strings.Contains(html, "<b>") {
		t.Errorf("file name not escaped: %s", html)
	}
	if !strings.Contains(html, `data-id="1"`) || !strings.Contains(html, "(100 Bytes)") {
		t.Errorf("unexpected html: %s", html)
	}
}
