package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

// scores are fixed from a global perspective: O maximizes, X minimizes, whoever asks.
var scores = map[entity.Outcome]int{
	entity.XWins: -1,
	entity.OWins: 1,
	entity.Draw:  0,
}

type MoveScore struct {
	Cell  int `json:"cell"`
	Score int `json:"score"`
}

// Analysis is the full result of a search from one position.
type Analysis struct {
	Player    entity.Mark `json:"player"`
	BestCell  int         `json:"best_cell"`
	BestScore int         `json:"best_score"`
	Moves     []MoveScore `json:"moves"`
	Nodes     int         `json:"nodes"`
	MaxDepth  int         `json:"max_depth"`
}

type searcher struct {
	nodes    int
	maxDepth int
}

// BestMove returns the optimal cell for player. Ties go to the lowest index.
func BestMove(board entity.Board, player entity.Mark) (int, error) {
	analysis, err := Analyze(board, player)
	if err != nil {
		return -1, err
	}

	return analysis.BestCell, nil
}

// Analyze scores every legal move of player with an exhaustive minimax search.
// Faster wins are not preferred over slower ones: depth only feeds the statistics.
func Analyze(board entity.Board, player entity.Mark) (*Analysis, error) {
	if !player.IsPlayer() {
		return nil, fmt.Errorf("%w %q", ErrUnknownMark, player)
	}

	if outcome := Evaluate(board); IsTerminal(outcome) {
		return nil, fmt.Errorf("%w: %s", apperror.ErrNoLegalMove, outcome)
	}

	search := &searcher{}
	analysis := &Analysis{
		Player:   player,
		BestCell: -1,
	}

	for _, cell := range board.EmptyCells() {
		next := board
		next[cell] = player

		score := search.minimax(next, player.Opponent(), 1)
		analysis.Moves = append(analysis.Moves, MoveScore{Cell: cell, Score: score})

		if analysis.BestCell == -1 || prefers(player, score, analysis.BestScore) {
			analysis.BestCell = cell
			analysis.BestScore = score
		}
	}

	analysis.Nodes = search.nodes
	analysis.MaxDepth = search.maxDepth

	return analysis, nil
}

// minimax receives its own copy of the board, so nothing needs to be retracted on return.
func (that *searcher) minimax(board entity.Board, toMove entity.Mark, depth int) int {
	that.nodes++
	if depth > that.maxDepth {
		that.maxDepth = depth
	}

	if outcome := Evaluate(board); IsTerminal(outcome) {
		return scores[outcome]
	}

	best, found := 0, false
	for cell, mark := range board {
		if mark != entity.EmptyCell {
			continue
		}

		next := board
		next[cell] = toMove

		score := that.minimax(next, toMove.Opponent(), depth+1)
		if !found || prefers(toMove, score, best) {
			best, found = score, true
		}
	}

	return best
}

func prefers(player entity.Mark, score, best int) bool {
	if player == entity.PlayerO {
		return score > best
	}
	return score < best
}
