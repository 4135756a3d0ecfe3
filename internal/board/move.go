package board

// Move is a board coordinate. MovePass doubles as the "no move" sentinel:
// the solver reports it when a result needs no recommendation.
type Move struct {
	X int `json:"x"`
	Y int `json:"y"`
}

var MovePass = Move{X: -1, Y: -1}

func NewMove(x, y int) Move {
	return Move{X: x, Y: y}
}

func (m Move) IsPass() bool {
	return m.X < 0 || m.Y < 0
}

func (m Move) InBounds(size int) bool {
	return m.X >= 0 && m.Y >= 0 && m.X < size && m.Y < size
}

func (m Move) Equals(other Move) bool {
	return m.X == other.X && m.Y == other.Y
}
