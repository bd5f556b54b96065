// Package uploadbox implements a headless file-upload box component.
//
// A Box mirrors the file list its host supplies, tracks local attachments
// the user has dropped or picked, and remembers which server files the
// user wants gone. Nothing reaches the server until the host calls
// Commit, which deletes pending files first and then uploads the
// attachments in one multipart request.
//
//	box := uploadbox.New(uploadbox.DefaultConfig(),
//	    uploadbox.WithClient(apiclient.New("https://api.example.com")),
//	    uploadbox.WithNotifier(emitter),
//	)
//	box.SetServerFiles(files)
//	box.Drop(attachments)
//	ok := box.Commit(ctx, "orders", "attachments", orderID)
//
// Box renders itself as a vdom tree in one of three variants (box, icon,
// list) and announces every state change to Subscribe callbacks, which is
// how a live view knows to re-render.
//
// Validation, network and missing-input failures never escape as errors
// from the user-facing operations: validation problems become toasts and
// network problems become a false return plus a log record.
package uploadbox
