package chat

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"chess_chat/internal/logger"
)

// Reserved room names.
const (
	RoomMain   = "main"
	RoomLobby  = "lobby"
	RoomInGame = "in_game"
)

// GameNone is the session-side sentinel for "not in a game".
const GameNone = "none"

type session struct {
	username string
	out      chan<- Message
}

// Hub owns the session, room and game registries. Every public operation runs
// under one mutex, so concurrent endpoints observe a serial order and each
// operation's derived broadcasts happen atomically with its state change.
type Hub struct {
	mu       sync.Mutex
	sessions map[int64]*session
	rooms    map[string]map[int64]struct{}
	games    *GameRegistry

	visitors atomic.Int64
	nextID   atomic.Int64
}

// NewHub creates a hub with the reserved rooms plus the given conversation
// rooms. Rooms are never deleted once created.
func NewHub(chatRooms []string) *Hub {
	h := &Hub{
		sessions: make(map[int64]*session),
		rooms:    make(map[string]map[int64]struct{}),
		games:    NewGameRegistry(),
	}
	for _, name := range chatRooms {
		h.rooms[name] = make(map[int64]struct{})
	}
	for _, name := range []string{RoomMain, RoomLobby, RoomInGame} {
		h.rooms[name] = make(map[int64]struct{})
	}
	return h
}

// NextSessionID allocates a process-unique non-zero session id.
func (h *Hub) NextSessionID() int64 {
	return h.nextID.Add(1)
}

// Connect registers a session and joins it to the main room.
func (h *Hub) Connect(id int64, username string, out chan<- Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.sessions[id] = &session{username: username, out: out}
	h.joinRoomLocked(RoomMain, id, username)

	h.visitors.Add(1)
	visitorsCurrent.Inc()
	connectsTotal.Inc()

	logger.Info("session connected", "session_id", id, "username", username)
}

// Disconnect removes the session from every room and game and drops it from
// the registry. Unknown ids are a no-op.
func (h *Hub) Disconnect(id int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[id]
	if !ok {
		return
	}
	delete(h.sessions, id)

	h.leaveAllRoomsLocked(id, s.username)
	h.leaveAllGamesLocked(id)

	h.visitors.Add(-1)
	visitorsCurrent.Dec()

	logger.Info("session disconnected", "session_id", id, "username", s.username)
}

// VisitorCount returns the number of currently connected sessions.
func (h *Hub) VisitorCount() int64 {
	return h.visitors.Load()
}

// Broadcast enqueues msg onto every member of room except skipID. A skipID of
// 0 delivers to all members.
func (h *Hub) Broadcast(room string, msg Message, skipID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.broadcastLocked(room, msg, skipID)
}

// SendTo enqueues onto a single session's mailbox; no-op for id 0 or unknown
// sessions.
func (h *Hub) SendTo(id int64, msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sendLocked(id, msg)
}

// JoinRoom moves the session into the named room, creating it if absent. The
// session leaves its previous room and any game first.
func (h *Hub) JoinRoom(room string, id int64, username string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.joinRoomLocked(room, id, username)
}

// ListRooms returns the public room names, excluding lobby and in_game.
func (h *Hub) ListRooms() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	names := make([]string, 0, len(h.rooms))
	for name := range h.rooms {
		if name != RoomLobby && name != RoomInGame {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// ListUsers returns the nicknames of the room's members.
func (h *Hub) ListUsers(room string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.listUsersLocked(room)
}

// NewGame creates a game named after its creator, parking the session in the
// in_game room. Callers ensure no game with that name exists.
func (h *Hub) NewGame(id int64, username string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.leaveAllRoomsLocked(id, username)
	h.joinRoomLocked(RoomInGame, id, username)

	h.games.NewGame(username, id)
	h.broadcastGamesLocked()
}

// HasGame reports whether a game with the given id exists.
func (h *Hub) HasGame(gameID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.games.Has(gameID)
}

// JoinGame seats the session in the named game and parks it in the lobby.
// The existing player is told an opponent arrived.
func (h *Hub) JoinGame(id int64, gameID, username string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.joinRoomLocked(RoomLobby, id, username)
	h.games.JoinGame(gameID, id)

	opponent := h.games.OpponentID(gameID, id)
	h.sendLocked(opponent, serverMessage(MsgStatus, "Opponent joined the game"))

	h.broadcastGamesLocked()
}

// LeaveGame vacates the session's seat, removing the game if it empties out.
func (h *Hub) LeaveGame(gameID string, id int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Opponent lookup must precede the mutation; afterwards the seat (or the
	// whole game) may be gone.
	opponent := h.games.OpponentID(gameID, id)
	h.games.LeaveGame(gameID, id)
	h.sendLocked(opponent, serverMessage(MsgStatus, "Opponent has left the game"))

	h.broadcastGamesLocked()
}

// SendGameMove relays an opaque move string to the session's opponent. The
// payload is not validated.
func (h *Hub) SendGameMove(gameID, move string, id int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	opponent := h.games.OpponentID(gameID, id)
	h.sendLocked(opponent, serverMessage(MsgGameMove, move))
}

// DeleteGame removes the game unconditionally.
func (h *Hub) DeleteGame(gameID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.games.DeleteGame(gameID)
	h.broadcastGamesLocked()
}

// AvailableGames returns ids of games waiting for an opponent.
func (h *Hub) AvailableGames() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.games.AvailableGames()
}

// AllGames returns all game ids.
func (h *Hub) AllGames() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.games.AllGames()
}

// UsernameTaken scans live sessions for the nickname. Advisory only; the check
// races with concurrent connects and the server tolerates duplicates.
func (h *Hub) UsernameTaken(username string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, s := range h.sessions {
		if s.username == username {
			return true
		}
	}
	return false
}

// Sessions returns an advisory snapshot of every live session.
func (h *Hub) Sessions() []SessionProfile {
	h.mu.Lock()
	defer h.mu.Unlock()

	profiles := make([]SessionProfile, 0, len(h.sessions))
	for id, s := range h.sessions {
		profiles = append(profiles, SessionProfile{
			Username: s.username,
			Room:     h.roomOfLocked(id),
			Game:     h.gameOfLocked(id),
			ID:       id,
		})
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].ID < profiles[j].ID })
	return profiles
}

// ---
// internals, lock held
// ---

func (h *Hub) sendLocked(id int64, msg Message) {
	if id == ServerID {
		return
	}
	s, ok := h.sessions[id]
	if !ok {
		return
	}
	select {
	case s.out <- msg:
	default:
		droppedTotal.Inc()
		logger.Warn("outbound mailbox full, dropping message",
			"session_id", id, "msg_type", string(msg.MsgType))
	}
}

func (h *Hub) broadcastLocked(room string, msg Message, skipID int64) {
	members, ok := h.rooms[room]
	if !ok {
		return
	}
	for id := range members {
		if id != skipID {
			h.sendLocked(id, msg)
			broadcastsTotal.Inc()
		}
	}
}

func (h *Hub) joinRoomLocked(room string, id int64, username string) {
	h.leaveAllRoomsLocked(id, username)
	h.leaveAllGamesLocked(id)

	members, ok := h.rooms[room]
	if !ok {
		members = make(map[int64]struct{})
		h.rooms[room] = members
	}
	members[id] = struct{}{}

	// The lobby is a silent waiting area; joins there produce no status chatter.
	if room != RoomLobby {
		h.sendLocked(id, serverMessage(MsgStatus, fmt.Sprintf("You joined the %s room", room)))
		h.broadcastLocked(room, serverMessage(MsgStatus, fmt.Sprintf("%s joined %s room", username, room)), id)
	}

	h.broadcastLocked(room, h.userListMessageLocked(room), ServerID)
}

func (h *Hub) leaveAllRoomsLocked(id int64, username string) {
	// A session is in exactly one room, but sweep all of them anyway; the
	// invariant is enforced here, not assumed.
	var affected []string
	for name, members := range h.rooms {
		if _, ok := members[id]; ok {
			affected = append(affected, name)
		}
	}
	for _, name := range affected {
		h.leaveRoomLocked(name, id, username)
	}
}

func (h *Hub) leaveRoomLocked(room string, id int64, username string) {
	if room != RoomLobby {
		h.broadcastLocked(room, serverMessage(MsgStatus, fmt.Sprintf("%s left the %s room", username, room)), id)
	}

	delete(h.rooms[room], id)

	h.broadcastLocked(room, h.userListMessageLocked(room), ServerID)
}

func (h *Hub) leaveAllGamesLocked(id int64) {
	for _, gameID := range h.games.AllGames() {
		opponent := h.games.OpponentID(gameID, id)
		h.games.LeaveGame(gameID, id)
		h.sendLocked(opponent, serverMessage(MsgStatus, "Opponent has left the game"))
	}
	h.broadcastGamesLocked()
}

// broadcastGamesLocked pushes the refreshed game lists to every session in the
// lobby and in_game rooms.
func (h *Hub) broadcastGamesLocked() {
	available := serverMessage(MsgAvailableGameList, strings.Join(h.games.AvailableGames(), ","))
	all := serverMessage(MsgAllGameList, strings.Join(h.games.AllGames(), ","))

	for _, room := range []string{RoomLobby, RoomInGame} {
		h.broadcastLocked(room, available, ServerID)
		h.broadcastLocked(room, all, ServerID)
	}
}

func (h *Hub) listUsersLocked(room string) []string {
	members, ok := h.rooms[room]
	if !ok {
		return nil
	}
	usernames := make([]string, 0, len(members))
	for id := range members {
		if s, ok := h.sessions[id]; ok {
			usernames = append(usernames, s.username)
		}
	}
	return usernames
}

func (h *Hub) userListMessageLocked(room string) Message {
	return serverMessage(MsgUserList, strings.Join(h.listUsersLocked(room), ","))
}

func (h *Hub) roomOfLocked(id int64) string {
	for name, members := range h.rooms {
		if _, ok := members[id]; ok {
			return name
		}
	}
	return ""
}

func (h *Hub) gameOfLocked(id int64) string {
	for _, gameID := range h.games.AllGames() {
		if g, ok := h.games.Get(gameID); ok {
			if g.White == id || g.Black == id {
				return gameID
			}
		}
	}
	return GameNone
}
