package entity

// Player is the client behind a browser session cookie and the game it is playing.
type Player struct {
	ID     string `json:"id"`
	GameID string `json:"game_id,omitempty"`
}
