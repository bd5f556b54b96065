// Package live keeps browsers in sync with an upload box over a
// WebSocket.
//
// A Hub re-renders the bound box on every state change and pushes the
// HTML to all connected clients. Clients send back the actions named in
// the rendered data-action attributes, which the hub maps onto Box
// methods. The hub also implements toast.Emitter, so validation toasts
// reach the browser.
//
//	hub := live.NewHub(live.WithLogger(logger))
//	box := uploadbox.New(cfg, uploadbox.WithNotifier(hub))
//	hub.Bind(box)
//	r.Get("/ws", hub.ServeHTTP)
package live
