package chat

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newDispatchClient wires a client straight into the hub without a socket;
// command handling never touches the connection, only the mailbox.
func newDispatchClient(h *Hub, username string) *Client {
	c := NewClient(h.NextSessionID(), username, nil, h, time.Second, 2*time.Second)
	h.Connect(c.ID, c.Username, c.send)
	drain(c.send)
	return c
}

func replies(c *Client) []Message {
	return drain(c.send)
}

func TestUnknownCommand(t *testing.T) {
	h := newTestHub()
	c := newDispatchClient(h, "Alice")

	c.handleCommand("/bogus stuff")

	msgs := ofType(replies(c), MsgError)
	require.Len(t, msgs, 1)
	assert.Equal(t, `Unknown command: "/bogus stuff"`, msgs[0].Content)
}

func TestJoinRoomCommand(t *testing.T) {
	h := newTestHub()
	c := newDispatchClient(h, "Alice")

	c.handleCommand("/join-room")
	msgs := ofType(replies(c), MsgError)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Room name is required", msgs[0].Content)
	assert.Equal(t, RoomMain, c.Room)

	c.handleCommand("/join-room mountain")
	assert.Equal(t, "mountain", c.Room)
	assert.Equal(t, GameNone, c.Game)
	assert.Contains(t, contents(ofType(replies(c), MsgStatus)), "You joined the mountain room")
}

func TestListCommands(t *testing.T) {
	h := newTestHub()
	c := newDispatchClient(h, "Alice")

	c.handleCommand("/list-rooms")
	msgs := ofType(replies(c), MsgRoomList)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Content, "main")
	assert.Contains(t, msgs[0].Content, "mountain")
	assert.NotContains(t, msgs[0].Content, RoomLobby)
	assert.NotContains(t, msgs[0].Content, RoomInGame)

	c.handleCommand("/list-users")
	users := ofType(replies(c), MsgUserList)
	require.Len(t, users, 1)
	assert.Equal(t, "Alice", users[0].Content)
}

func TestNewGameCommand(t *testing.T) {
	h := newTestHub()
	c := newDispatchClient(h, "Alice")

	c.handleCommand("/new-game")
	assert.Equal(t, RoomInGame, c.Room)
	assert.Equal(t, "Alice", c.Game)
	assert.Contains(t, contents(ofType(replies(c), MsgStatus)),
		"New game with the name Alice created and joined")
	assert.Equal(t, []string{"Alice"}, h.AvailableGames())

	// second client with the same nickname collides on the game id
	dup := newDispatchClient(h, "Alice")
	dup.handleCommand("/new-game")
	msgs := ofType(replies(dup), MsgError)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Game with the name Alice already exists", msgs[0].Content)
	assert.Equal(t, RoomMain, dup.Room)
}

func TestJoinGameCommand(t *testing.T) {
	h := newTestHub()
	alice := newDispatchClient(h, "Alice")
	bob := newDispatchClient(h, "Bob")
	alice.handleCommand("/new-game")
	drain(alice.send)

	bob.handleCommand("/join-game")
	msgs := ofType(replies(bob), MsgError)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Game name is required", msgs[0].Content)

	bob.handleCommand("/join-game Alice")
	// the endpoint's room label diverges from the hub here on purpose
	assert.Equal(t, "is_game", bob.Room)
	assert.Equal(t, "Alice", bob.Game)
	assert.Contains(t, contents(ofType(replies(bob), MsgStatus)), "New joined Alice chess game")
	assert.Contains(t, contents(ofType(drain(alice.send), MsgStatus)), "Opponent joined the game")
	assert.Empty(t, h.AvailableGames())
}

func TestGameMoveCommand(t *testing.T) {
	h := newTestHub()
	alice := newDispatchClient(h, "Alice")
	bob := newDispatchClient(h, "Bob")
	alice.handleCommand("/new-game")
	bob.handleCommand("/join-game Alice")
	drain(alice.send)
	drain(bob.send)

	bob.handleCommand("/game-move")
	msgs := ofType(replies(bob), MsgError)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Move string is required", msgs[0].Content)

	bob.handleCommand("/game-move e2e4")
	assert.Contains(t, contents(ofType(replies(bob), MsgStatus)), "Game move sent e2e4")

	moves := ofType(drain(alice.send), MsgGameMove)
	require.Len(t, moves, 1)
	assert.Equal(t, "e2e4", moves[0].Content)
}

func TestLeaveGameCommand(t *testing.T) {
	h := newTestHub()
	alice := newDispatchClient(h, "Alice")
	bob := newDispatchClient(h, "Bob")
	alice.handleCommand("/new-game")
	bob.handleCommand("/join-game Alice")
	drain(alice.send)
	drain(bob.send)

	bob.handleCommand("/leave-game")
	assert.Equal(t, RoomMain, bob.Room)
	assert.Equal(t, GameNone, bob.Game)
	// the status is rendered after the reset, so it names "none"
	assert.Contains(t, contents(ofType(replies(bob), MsgStatus)),
		"You left none chess game and joined the main room")
	assert.Contains(t, contents(ofType(drain(alice.send), MsgStatus)), "Opponent has left the game")
}

func TestDeleteGameCommand(t *testing.T) {
	h := newTestHub()
	alice := newDispatchClient(h, "Alice")
	alice.handleCommand("/new-game")
	drain(alice.send)

	alice.handleCommand("/delete-game")
	msgs := ofType(replies(alice), MsgError)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Game name is required", msgs[0].Content)

	alice.handleCommand("/delete-game Alice")
	// the status names the session's own game, not the argument
	assert.Contains(t, contents(ofType(replies(alice), MsgStatus)), "Alice chess game deleted")
	assert.Empty(t, h.AllGames())
}

func TestGameListCommands(t *testing.T) {
	h := newTestHub()
	alice := newDispatchClient(h, "Alice")
	bob := newDispatchClient(h, "Bob")
	alice.handleCommand("/new-game")
	drain(bob.send)

	bob.handleCommand("/list-available-games")
	avail := ofType(replies(bob), MsgAvailableGameList)
	require.Len(t, avail, 1)
	assert.Equal(t, "Alice", avail[0].Content)

	bob.handleCommand("/join-game Alice")
	drain(bob.send)

	bob.handleCommand("/list-available-games")
	avail = ofType(replies(bob), MsgAvailableGameList)
	require.Len(t, avail, 1)
	assert.Equal(t, "", avail[0].Content)

	bob.handleCommand("/list-all-games")
	all := ofType(replies(bob), MsgAllGameList)
	require.Len(t, all, 1)
	assert.Equal(t, "Alice", all[0].Content)
}

func TestSelfInfoCommand(t *testing.T) {
	h := newTestHub()
	c := newDispatchClient(h, "Alice")
	c.handleCommand("/join-room sky")
	drain(c.send)

	c.handleCommand("/self-info")
	msgs := ofType(replies(c), MsgSelfInfo)
	require.Len(t, msgs, 1)

	var profile SessionProfile
	require.NoError(t, json.Unmarshal([]byte(msgs[0].Content), &profile))
	assert.Equal(t, "Alice", profile.Username)
	assert.Equal(t, "sky", profile.Room)
	assert.Equal(t, GameNone, profile.Game)
	assert.Equal(t, c.ID, profile.ID)
}

func TestChatDoesNotEchoSender(t *testing.T) {
	h := newTestHub()
	alice := newDispatchClient(h, "Alice")
	bob := newDispatchClient(h, "Bob")
	drain(alice.send)

	bob.handleChat("hello")

	msgs := ofType(drain(alice.send), MsgClientMessage)
	require.Len(t, msgs, 1)
	assert.Equal(t, bob.ID, msgs[0].FromID)
	assert.Equal(t, "Bob", msgs[0].Username)
	assert.Equal(t, "hello", msgs[0].Content)

	assert.Empty(t, ofType(drain(bob.send), MsgClientMessage))
}
