package uploadbox

import (
	"fmt"
	"strconv"

	"github.com/vango-dev/uploadbox/pkg/vdom"
)

// Action names carried in data-action attributes, plus the drag events a
// client reports. A live transport maps them back onto Box methods.
const (
	ActionPick             = "pick"
	ActionOpen             = "open"
	ActionRemoveFile       = "remove-file"
	ActionRemoveAttachment = "remove-attachment"
	ActionCloseViewer      = "close-viewer"
	ActionDragOver         = "dragover"
	ActionDragLeave        = "dragleave"
)

// Material icon paths.
const (
	iconUpload = "M9 16h6v-6h4l-7-7-7 7h4zm-4 2h14v2H5z"
	iconAttach = "M16.5 6v11.5c0 2.21-1.79 4-4 4s-4-1.79-4-4V5a2.5 2.5 0 0 1 5 0v10.5c0 .55-.45 1-1 1s-1-.45-1-1V6H10v9.5a2.5 2.5 0 0 0 5 0V5c0-2.21-1.79-4-4-4S7 2.79 7 5v12.5c0 3.04 2.46 5.5 5.5 5.5s5.5-2.46 5.5-5.5V6z"
	iconClear  = "M19 6.41 17.59 5 12 10.59 6.41 5 5 6.41 10.59 12 5 17.59 6.41 19 12 13.41 17.59 19 19 17.59 13.41 12z"
)

func icon(path string, size int, class string) *vdom.VNode {
	return vdom.Svg(
		vdom.Class("uploadbox-glyph", class),
		vdom.AttrOf("viewBox", "0 0 24 24"),
		vdom.Width(size),
		vdom.Height(size),
		vdom.AriaHidden(true),
		vdom.Path(vdom.AttrOf("d", path), vdom.AttrOf("fill", "currentColor")),
	)
}

// Render draws the box in its configured variant. Box implements
// vdom.Component.
func (b *Box) Render() *vdom.VNode {
	snap := b.Snapshot()
	cfg := b.cfg
	visible := snap.VisibleCount()

	showList := cfg.Variant != VariantIcon &&
		(len(snap.ServerFiles) > 0 || (cfg.Variant != VariantList && len(snap.Attachments) > 0))

	return vdom.Div(
		vdom.Class("uploadbox", "uploadbox-"+string(cfg.Variant)),
		vdom.Data("variant", string(cfg.Variant)),
		vdom.StyleAttr(cfg.Styles.Container),
		vdom.When(cfg.Variant == VariantBox, func() *vdom.VNode { return b.renderDropzone(snap) }),
		vdom.When(cfg.Variant == VariantIcon, b.renderIconButton),
		vdom.When(showList, func() *vdom.VNode { return b.renderLists(snap) }),
		vdom.When(cfg.Variant == VariantList && visible == 0, func() *vdom.VNode {
			return vdom.Div(vdom.Class("uploadbox-empty"), cfg.NoFilesText)
		}),
		b.renderViewer(),
	)
}

func (b *Box) fileInput() *vdom.VNode {
	return vdom.Input(
		vdom.Type("file"),
		vdom.Name("files"),
		vdom.Class("uploadbox-input"),
		vdom.Hidden(true),
		vdom.Multiple(b.cfg.Multiple),
		vdom.Accept(b.validator.AcceptAttr()),
	)
}

func (b *Box) renderDropzone(snap Snapshot) *vdom.VNode {
	cfg := b.cfg
	return vdom.Div(
		vdom.Class("uploadbox-dropzone"),
		vdom.IfAttr(snap.DragOver, vdom.Class("dragover")),
		vdom.Data("action", ActionPick),
		vdom.Data("dropzone", "true"),
		vdom.Role("button"),
		vdom.StyleAttr(fmt.Sprintf("height:%dpx", cfg.Height)),
		vdom.StyleAttr(cfg.Styles.Dropzone),
		vdom.Span(
			vdom.Class("uploadbox-prompt"),
			icon(iconUpload, 20, "uploadbox-upload-icon"),
			cfg.DropzoneText,
		),
		b.fileInput(),
	)
}

func (b *Box) renderIconButton() *vdom.VNode {
	return vdom.Span(
		vdom.Class("uploadbox-attach-wrap"),
		vdom.Button(
			vdom.Type("button"),
			vdom.Class("uploadbox-attach"),
			vdom.Data("action", ActionPick),
			vdom.AriaLabel("Attach files"),
			icon(iconAttach, b.cfg.IconSize, ""),
		),
		b.fileInput(),
	)
}

func (b *Box) renderLists(snap Snapshot) *vdom.VNode {
	return vdom.Div(
		vdom.Class("uploadbox-files"),
		vdom.When(len(snap.ServerFiles) > 0, func() *vdom.VNode {
			return vdom.Div(
				vdom.Class("uploaded-files-list"),
				vdom.Range(snap.ServerFiles, func(f UploadedFile, _ int) *vdom.VNode {
					return b.renderServerFile(f)
				}),
			)
		}),
		vdom.When(b.cfg.Variant != VariantList && len(snap.Attachments) > 0, func() *vdom.VNode {
			return vdom.Div(
				vdom.Class("attached-file-container"),
				vdom.Range(snap.Attachments, b.renderAttachment),
			)
		}),
	)
}

// Tooltip returns the hover text for a server file: "<user> @ <time>".
func Tooltip(f UploadedFile) string {
	return f.UserName + " @ " + FormatDateTime(f.CreatedTime)
}

func (b *Box) renderServerFile(f UploadedFile) *vdom.VNode {
	cfg := b.cfg
	tooltip := cfg.ShowTooltip && !f.ToDelete

	return vdom.Div(
		vdom.Key(f.Seq),
		vdom.Class("file-item"),
		vdom.IfAttr(f.ToDelete, vdom.Class("deleted")),
		vdom.IfAttr(f.Readonly, vdom.Class("readonly")),
		vdom.Data("id", f.Seq),
		vdom.IfAttr(!f.ToDelete, vdom.Data("action", ActionOpen)),
		vdom.IfAttr(tooltip, vdom.TitleAttr(Tooltip(f))),
		vdom.IfAttr(f.ToDelete, vdom.StyleAttr("text-decoration:line-through")),
		vdom.StyleAttr(cfg.Styles.FileItem),
		icon(iconAttach, cfg.IconSize, ""),
		vdom.Span(
			vdom.Class("file-name"),
			f.Name+" ",
			vdom.Span(vdom.Class("file-size"), "("+FormatFileSize(f.Size)+")"),
		),
		vdom.When(tooltip, func() *vdom.VNode {
			return vdom.Span(vdom.Class("uploadbox-tooltip"), vdom.Role("tooltip"), vdom.StyleAttr(cfg.Styles.Tooltip), Tooltip(f))
		}),
		vdom.When(b.CanRemove(f), func() *vdom.VNode {
			return vdom.Button(
				vdom.Type("button"),
				vdom.Class("uploadbox-remove"),
				vdom.Data("action", ActionRemoveFile),
				vdom.Data("id", f.Seq),
				vdom.AriaLabel("Remove "+f.Name),
				vdom.StyleAttr(cfg.Styles.DeleteIcon),
				icon(iconClear, 16, ""),
			)
		}),
	)
}

func (b *Box) renderAttachment(a Attachment, i int) *vdom.VNode {
	cfg := b.cfg
	return vdom.Div(
		vdom.Key(a.Key),
		vdom.Class("attached-file-item"),
		vdom.StyleAttr(cfg.Styles.AttachedFileItem),
		icon(iconAttach, 16, ""),
		vdom.Span(
			vdom.Class("file-name"),
			a.Name+" ",
			vdom.Span(vdom.Class("file-size"), "("+FormatFileSize(a.Size)+")"),
		),
		vdom.Button(
			vdom.Type("button"),
			vdom.Class("uploadbox-remove"),
			vdom.Data("action", ActionRemoveAttachment),
			vdom.Data("index", strconv.Itoa(i)),
			vdom.Data("key", a.Key),
			vdom.AriaLabel("Remove "+a.Name),
			vdom.StyleAttr(cfg.Styles.DeleteIcon),
			icon(iconClear, 16, ""),
		),
	)
}

func (b *Box) renderViewer() *vdom.VNode {
	if r, ok := b.viewer.(interface{ Render() *vdom.VNode }); ok {
		return r.Render()
	}
	return nil
}

// Stylesheet is the default CSS for the class names Render emits.
const Stylesheet = `
.uploadbox{font-size:.875rem;width:100%}
.uploadbox.uploadbox-icon{width:auto}
.uploadbox-dropzone{display:flex;flex-direction:column;align-items:center;justify-content:center;border:2px dashed #d0d0d0;border-radius:8px;padding:16px;text-align:center;cursor:pointer;user-select:none;transition:all .2s ease}
.uploadbox-dropzone:hover,.uploadbox-dropzone.dragover{border-color:#1976d2;background:#f5f5f5}
.uploadbox-prompt{display:flex;align-items:center;gap:8px;color:#777}
.uploadbox-upload-icon{color:#999}
.uploadbox-attach{background:none;border:0;cursor:pointer;color:#1976d2;padding:4px}
.uploadbox-files{padding-top:16px}
.uploadbox-list .uploadbox-files{padding-top:0}
.file-item,.attached-file-item{position:relative;display:flex;align-items:center;gap:16px;border-radius:4px;padding:4px 12px;cursor:pointer}
.file-item:hover,.attached-file-item:hover{background:#f5f5f5}
.file-item.deleted{color:#999;cursor:default}
.attached-file-item{color:#1e40af}
.file-name{flex:1}
.file-size{color:#999}
.uploadbox-remove{background:none;border:0;color:#ccc;cursor:pointer}
.uploadbox-remove:hover{color:#f44}
.uploadbox-tooltip{display:none;position:absolute;right:100%;background:#000;color:#fff;font-size:14px;padding:4px 8px;border-radius:4px;white-space:nowrap}
.file-item:hover .uploadbox-tooltip{display:block}
.uploadbox-empty{padding:4px 12px;color:#6b7280}
.uploadbox-viewer{position:fixed;inset:5%;background:#fff;box-shadow:0 4px 24px rgba(0,0,0,.3);display:flex;flex-direction:column;z-index:1000}
.uploadbox-viewer-header{display:flex;justify-content:space-between;padding:8px 12px;border-bottom:1px solid #eee}
.uploadbox-viewer-frame{flex:1;border:0}
`
