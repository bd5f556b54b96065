// Package preview serves a single upload box over HTTP for local
// development and manual testing against a real host API.
//
// Routes:
//
//	GET  /               page with the box, stylesheet and live script
//	GET  /box            box HTML fragment
//	GET  /ws             live WebSocket
//	POST /attach         multipart files from the browser (?mode=pick|drop)
//	GET  /server-files   mirrored server list
//	PUT  /server-files   replace the server list (JSON array)
//	GET  /pending        pending deletions
//	POST /actions/{name} dispatch a box action (JSON body: id, index, key)
//	POST /commit         commit (JSON body: table_name, data_field_name, data_seq)
//	GET  /view           proxy a file for the viewer iframe
//	GET  /metrics        Prometheus metrics
//	GET  /healthz        liveness
package preview
