package game

// GameStatus is the lifecycle of a room.
type GameStatus string

const (
	StatusWaiting    GameStatus = "WAITING"
	StatusInProgress GameStatus = "IN_PROGRESS"
	StatusCompleted  GameStatus = "COMPLETED"
	StatusClosed     GameStatus = "CLOSED"
)

// RoomMode decides who drives the right paddle.
type RoomMode string

const (
	ModeAI     RoomMode = "ai"
	ModeVersus RoomMode = "versus"
)

func (m RoomMode) Valid() bool {
	return m == ModeAI || m == ModeVersus
}
