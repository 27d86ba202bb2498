package memhost

import "github.com/nfrund/hostkit/internal/pubsub"

// ChatMessage is published for every broadcast line.
type ChatMessage struct {
	Line string `json:"line"`
	Tick int64  `json:"tick"`
}

// ActionBarMessage is published for every overlay display.
type ActionBarMessage struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Text       string `json:"text"`
	Tick       int64  `json:"tick"`
}

var (
	ChatEvent      = pubsub.NewEvent[ChatMessage]("world.chat", "Lines broadcast to every player")
	ActionBarEvent = pubsub.NewEvent[ActionBarMessage]("player.actionbar", "Messages shown in a player's action bar")
)
