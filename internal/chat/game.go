package chat

// Game is a two-seat record relaying opaque move strings between two sessions.
// The id doubles as the creator's nickname. Pure state; the hub owns all
// locking and I/O.
type Game struct {
	ID      string
	White   int64
	Black   int64
	Started bool
}

func (g *Game) playerCount() int {
	n := 0
	if g.White != 0 {
		n++
	}
	if g.Black != 0 {
		n++
	}
	return n
}

// OpponentID returns the other seat's session id, or 0 when the given session
// does not occupy either seat.
func (g *Game) OpponentID(sessionID int64) int64 {
	if g.White == sessionID {
		return g.Black
	}
	if g.Black == sessionID {
		return g.White
	}
	return 0
}

// Joinable reports whether the game still has a free seat. A game that once
// started stays non-joinable even after a player leaves; it only becomes
// available again via deletion and recreation.
func (g *Game) Joinable() bool {
	return !g.Started
}

func (g *Game) leave(sessionID int64) {
	if g.Black == sessionID {
		g.Black = 0
	}
	if g.White == sessionID {
		g.White = 0
	}
}

// GameRegistry maps game id to its seat record. Not safe for concurrent use;
// the hub serializes access.
type GameRegistry struct {
	games map[string]*Game
}

func NewGameRegistry() *GameRegistry {
	return &GameRegistry{games: make(map[string]*Game)}
}

// NewGame inserts a fresh game with the creator seated as white. An existing
// entry under the same id is overwritten; callers check uniqueness first.
func (r *GameRegistry) NewGame(id string, creator int64) {
	r.games[id] = &Game{ID: id, White: creator}
}

func (r *GameRegistry) Get(id string) (*Game, bool) {
	g, ok := r.games[id]
	return g, ok
}

func (r *GameRegistry) Has(id string) bool {
	_, ok := r.games[id]
	return ok
}

// JoinGame seats the joiner as black if the game exists and is joinable.
// A game with both seats filled is always started.
func (r *GameRegistry) JoinGame(id string, joiner int64) {
	g, ok := r.games[id]
	if !ok || !g.Joinable() {
		return
	}
	g.Black = joiner
	if g.playerCount() == 2 {
		g.Started = true
	}
}

// LeaveGame clears whichever seat the session holds and removes the game once
// both seats are empty.
func (r *GameRegistry) LeaveGame(id string, sessionID int64) {
	g, ok := r.games[id]
	if !ok {
		return
	}
	g.leave(sessionID)
	if g.playerCount() == 0 {
		delete(r.games, id)
	}
}

// OpponentID resolves the opposing session id, or 0 for an unknown game or a
// session outside it.
func (r *GameRegistry) OpponentID(id string, sessionID int64) int64 {
	g, ok := r.games[id]
	if !ok {
		return 0
	}
	return g.OpponentID(sessionID)
}

func (r *GameRegistry) DeleteGame(id string) {
	delete(r.games, id)
}

// AvailableGames lists ids of games still waiting for an opponent.
func (r *GameRegistry) AvailableGames() []string {
	ids := make([]string, 0, len(r.games))
	for id, g := range r.games {
		if g.Joinable() {
			ids = append(ids, id)
		}
	}
	return ids
}

// AllGames lists every game id.
func (r *GameRegistry) AllGames() []string {
	ids := make([]string, 0, len(r.games))
	for id := range r.games {
		ids = append(ids, id)
	}
	return ids
}
