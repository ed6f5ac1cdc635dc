package ws

const (
	// client - server
	MsgJoinRoom    = "joinRoom"
	MsgLeaveRoom   = "leaveRoom"
	MsgChatMessage = "chatMessage"

	// server - client
	MsgError = "error"
)

// Message is the server-to-client frame: the envelope's event name with
// its data payload.
type Message struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// clientMessage is the client-to-server frame.
type clientMessage struct {
	Type string `json:"type"`
	Room string `json:"room"`
	Text string `json:"text"`
}
