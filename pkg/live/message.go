package live

// MessageType identifies a server to client message.
type MessageType string

const (
	// TypeRender carries the freshly rendered box HTML.
	TypeRender MessageType = "render"
	// TypeEvent carries an emitted event such as a toast.
	TypeEvent MessageType = "event"
	// TypeError reports a rejected action to the client that sent it.
	TypeError MessageType = "error"
)

// Message is sent to browsers via WebSocket.
type Message struct {
	Type  MessageType `json:"type"`
	HTML  string      `json:"html,omitempty"`
	Event string      `json:"event,omitempty"`
	Data  any         `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Action is sent by browsers when the user interacts with the box.
type Action struct {
	Action string `json:"action"`
	ID     string `json:"id,omitempty"`
	Index  *int   `json:"index,omitempty"`
	Key    string `json:"key,omitempty"`
}
