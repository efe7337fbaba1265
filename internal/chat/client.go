package chat

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"chess_chat/internal/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait       = 10 * time.Second
	maxFrameSize    = 4096
	outboundBacklog = 256
)

// Client is the per-connection session endpoint. It reads frames, dispatches
// commands, relays chat into the hub, and drains the outbound mailbox the hub
// enqueues onto.
type Client struct {
	ID       int64
	Username string

	// Room and Game mirror the hub's view of this session and are only
	// touched from the read loop.
	Room string
	Game string

	conn *websocket.Conn
	hub  *Hub
	send chan Message

	heartbeatInterval time.Duration
	clientTimeout     time.Duration
	lastHeartbeat     atomic.Int64 // unix nanos of the latest ping/pong
}

func NewClient(id int64, username string, conn *websocket.Conn, hub *Hub, heartbeat, timeout time.Duration) *Client {
	return &Client{
		ID:                id,
		Username:          username,
		Room:              RoomMain,
		Game:              GameNone,
		conn:              conn,
		hub:               hub,
		send:              make(chan Message, outboundBacklog),
		heartbeatInterval: heartbeat,
		clientTimeout:     timeout,
	}
}

// Run drives the session until the connection drops. The welcome frames are
// queued before the hub connect so the client sees them ahead of the join
// notifications.
func (c *Client) Run() {
	c.touch()

	c.reply(serverMessage(MsgStatus, "You connected to the server"))
	c.reply(serverMessage(MsgConnect, strconv.FormatInt(c.ID, 10)))

	go c.writePump()

	c.hub.Connect(c.ID, c.Username, c.send)
	c.readPump()
}

func (c *Client) touch() {
	c.lastHeartbeat.Store(time.Now().UnixNano())
}

func (c *Client) sinceHeartbeat() time.Duration {
	return time.Since(time.Unix(0, c.lastHeartbeat.Load()))
}

// reply queues a point-to-point frame for this client, dropping on backlog.
func (c *Client) reply(msg Message) {
	select {
	case c.send <- msg:
	default:
		droppedTotal.Inc()
		logger.Warn("reply dropped, mailbox full", "session_id", c.ID, "msg_type", string(msg.MsgType))
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Disconnect(c.ID)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxFrameSize)
	c.conn.SetPingHandler(func(appData string) error {
		c.touch()
		return c.conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(writeWait))
	})
	c.conn.SetPongHandler(func(string) error {
		c.touch()
		return nil
	})

	for {
		frameType, data, err := c.conn.ReadMessage()
		if err != nil {
			logger.Debug("read loop ended", "session_id", c.ID, "err", err)
			return
		}

		switch frameType {
		case websocket.TextMessage:
			text := strings.TrimSpace(string(data))
			if strings.HasPrefix(text, "/") {
				c.handleCommand(text)
			} else {
				c.handleChat(text)
			}
		case websocket.BinaryMessage:
			logger.Debug("ignoring binary frame", "session_id", c.ID, "bytes", len(data))
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(c.heartbeatInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if msg.MsgType == MsgDisconnect {
				data := websocket.FormatCloseMessage(websocket.CloseNormalClosure, msg.Content)
				_ = c.conn.WriteMessage(websocket.CloseMessage, data)
				return
			}

			data, err := json.Marshal(msg)
			if err != nil {
				logger.Error("marshal outbound frame", "session_id", c.ID, "err", err)
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			if c.sinceHeartbeat() > c.clientTimeout {
				logger.Info("heartbeat timeout", "session_id", c.ID, "username", c.Username)
				c.hub.Disconnect(c.ID)
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleChat fans a plain text frame out to the session's current room. The
// sender does not receive their own message.
func (c *Client) handleChat(text string) {
	msg := Message{
		MsgType:  MsgClientMessage,
		FromID:   c.ID,
		Username: c.Username,
		Content:  text,
	}
	c.hub.Broadcast(c.Room, msg, c.ID)
}

// handleCommand dispatches a leading-slash frame. The verb and argument split
// on the first space only, so arguments may contain spaces.
func (c *Client) handleCommand(text string) {
	parts := strings.SplitN(text, " ", 2)
	verb := parts[0]
	arg := ""
	if len(parts) == 2 {
		arg = parts[1]
	}

	switch verb {
	case "/list-rooms":
		c.reply(serverMessage(MsgRoomList, strings.Join(c.hub.ListRooms(), ",")))

	case "/list-users":
		c.reply(serverMessage(MsgUserList, strings.Join(c.hub.ListUsers(c.Room), ",")))

	case "/join-room":
		if arg == "" {
			c.reply(serverMessage(MsgError, "Room name is required"))
			return
		}
		c.Room = arg
		c.Game = GameNone
		c.hub.JoinRoom(arg, c.ID, c.Username)

	case "/new-game":
		if c.hub.HasGame(c.Username) {
			c.reply(serverMessage(MsgError, fmt.Sprintf("Game with the name %s already exists", c.Username)))
			return
		}
		c.Room = RoomInGame
		c.Game = c.Username
		c.hub.NewGame(c.ID, c.Username)
		c.reply(serverMessage(MsgStatus, fmt.Sprintf("New game with the name %s created and joined", c.Username)))

	case "/join-game":
		if arg == "" {
			c.reply(serverMessage(MsgError, "Game name is required"))
			return
		}
		c.hub.JoinGame(c.ID, arg, c.Username)
		c.Room = "is_game"
		c.Game = arg
		c.reply(serverMessage(MsgStatus, fmt.Sprintf("New joined %s chess game", arg)))

	case "/leave-game":
		c.hub.LeaveGame(c.Game, c.ID)
		c.hub.JoinRoom(RoomMain, c.ID, c.Username)
		c.Room = RoomMain
		c.Game = GameNone
		c.reply(serverMessage(MsgStatus, fmt.Sprintf("You left %s chess game and joined the main room", c.Game)))

	case "/game-move":
		if arg == "" {
			c.reply(serverMessage(MsgError, "Move string is required"))
			return
		}
		c.hub.SendGameMove(c.Game, arg, c.ID)
		c.reply(serverMessage(MsgStatus, fmt.Sprintf("Game move sent %s", arg)))

	case "/list-available-games":
		c.reply(serverMessage(MsgAvailableGameList, strings.Join(c.hub.AvailableGames(), ",")))

	case "/list-all-games":
		c.reply(serverMessage(MsgAllGameList, strings.Join(c.hub.AllGames(), ",")))

	case "/delete-game":
		if arg == "" {
			c.reply(serverMessage(MsgError, "Game name is required"))
			return
		}
		c.hub.DeleteGame(arg)
		c.reply(serverMessage(MsgStatus, fmt.Sprintf("%s chess game deleted", c.Game)))

	case "/self-info":
		profile := SessionProfile{
			Username: c.Username,
			Room:     c.Room,
			Game:     c.Game,
			ID:       c.ID,
		}
		data, err := json.Marshal(profile)
		if err != nil {
			logger.Error("marshal self-info", "session_id", c.ID, "err", err)
			return
		}
		c.reply(serverMessage(MsgSelfInfo, string(data)))

	default:
		logger.Info("unknown command", "session_id", c.ID, "command", text)
		c.reply(serverMessage(MsgError, fmt.Sprintf("Unknown command: %q", text)))
	}
}
