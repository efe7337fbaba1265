package chat

// MessageType tags every server→client frame. Values serialize as the bare
// variant name; clients switch on them.
type MessageType string

const (
	MsgInfo              MessageType = "Info"
	MsgStatus            MessageType = "Status"
	MsgClientMessage     MessageType = "ClientMessage"
	MsgRoomList          MessageType = "RoomList"
	MsgUserList          MessageType = "UserList"
	MsgGameMove          MessageType = "GameMove"
	MsgAvailableGameList MessageType = "AvailableGameList"
	MsgAllGameList       MessageType = "AllGameList"
	MsgSelfInfo          MessageType = "SelfInfo"
	MsgConnect           MessageType = "Connect"
	MsgDisconnect        MessageType = "Disconnect"
	MsgError             MessageType = "Error"
)

// ServerID is the sentinel session id for server-originated messages. Sends
// addressed to it are silent no-ops, which lets hub code notify "the opponent"
// without checking whether one exists.
const ServerID int64 = 0

// Message is the single wire frame the server emits.
type Message struct {
	MsgType  MessageType `json:"msg_type"`
	FromID   int64       `json:"from_id"`
	Username string      `json:"username"`
	Content  string      `json:"content"`
}

func serverMessage(t MessageType, content string) Message {
	return Message{
		MsgType:  t,
		FromID:   ServerID,
		Username: "server",
		Content:  content,
	}
}

// SessionProfile is the advisory view of a session exposed by /self-info and
// the /sessions endpoint.
type SessionProfile struct {
	Username string `json:"username"`
	Room     string `json:"room"`
	Game     string `json:"game"`
	ID       int64  `json:"id"`
}
