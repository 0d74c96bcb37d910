package entity

type Mode string

const (
	// ModeHuman is a hot-seat game: both marks are placed by people.
	ModeHuman Mode = "human"
	// ModeComputer pits a human playing X against the computer playing O.
	ModeComputer Mode = "computer"
)

const ComputerMark = PlayerO

// Session is the caller-owned game state. It never carries an outcome: that is recomputed from Board.
type Session struct {
	ID    string `json:"id"`
	Board Board  `json:"board"`
	Turn  Mark   `json:"turn"`
	Mode  Mode   `json:"mode"`
}

func (that Mode) IsValid() bool {
	return that == ModeHuman || that == ModeComputer
}

func (that *Session) IsWithComputer() bool {
	return that.Mode == ModeComputer
}

func (that *Session) IsComputerTurn() bool {
	return that.IsWithComputer() && that.Turn == ComputerMark
}
