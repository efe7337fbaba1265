// Smoke driver: runs two real websocket clients against a locally running
// server and walks them through chat, game creation, joining and a move.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

func dial(port, username string) *websocket.Conn {
	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	url := fmt.Sprintf("ws://127.0.0.1:%s/ws/%s", port, username)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		log.Fatalf("dial %s: %v", username, err)
	}
	return conn
}

func pump(name string, conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Printf("%s: read ended: %v", name, err)
			return
		}
		log.Printf("%s <- %s", name, data)
	}
}

func send(name string, conn *websocket.Conn, text string) {
	log.Printf("%s -> %s", name, text)
	if err := conn.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
		log.Fatalf("%s: write: %v", name, err)
	}
	time.Sleep(300 * time.Millisecond)
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	alice := dial(port, "smokeAlice")
	defer alice.Close()
	bob := dial(port, "smokeBob")
	defer bob.Close()

	go pump("alice", alice)
	go pump("bob", bob)
	time.Sleep(300 * time.Millisecond)

	send("bob", bob, "hello from the smoke test")
	send("alice", alice, "/list-rooms")
	send("alice", alice, "/new-game")
	send("bob", bob, "/join-game smokeAlice")
	send("bob", bob, "/game-move e2e4")
	send("alice", alice, "/game-move e7e5")
	send("bob", bob, "/leave-game")
	send("alice", alice, "/self-info")

	time.Sleep(500 * time.Millisecond)
	log.Println("smoke run complete")
}
