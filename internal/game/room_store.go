package game

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

// Room history lives in Postgres (rooms, matches, match_moves) and the live
// room summary is cached in Redis. Every write is built as a job under the
// room lock and run later by the room's writer goroutine. Rooms without a
// manager build no jobs.

func matchIDQuery() string {
	return `(SELECT id FROM matches WHERE room_id = $1 AND match_number = $2)`
}

func startMatchJob(gm *GameManager, sessionID, matchNumber int) func() {
	if gm == nil || gm.db == nil || sessionID == 0 {
		return nil
	}
	return func() {
		_, err := gm.db.Exec(
			`INSERT INTO matches (room_id, match_number, started_at) VALUES ($1, $2, NOW()) ON CONFLICT (room_id, match_number) DO NOTHING`,
			sessionID, matchNumber,
		)
		if err != nil {
			log.Printf("[DB] Failed to start match %d for room %d: %v", matchNumber, sessionID, err)
		}
	}
}

func recordMoveJob(gm *GameManager, sessionID, matchNumber int, e Event) func() {
	if gm == nil || gm.db == nil || sessionID == 0 {
		return nil
	}
	return func() {
		var maxMove int
		err := gm.db.Get(&maxMove,
			`SELECT COALESCE(MAX(move_number), 0) FROM match_moves WHERE match_id = `+matchIDQuery(),
			sessionID, matchNumber)
		if err != nil {
			log.Printf("[DB] Failed to get max move number for room %d match %d: %v", sessionID, matchNumber, err)
			return
		}
		_, err = gm.db.Exec(
			`INSERT INTO match_moves (match_id, move_number, move_type, cell, mark, created_at) VALUES (`+matchIDQuery()+`, $3, $4, $5, $6, NOW())`,
			sessionID, matchNumber, maxMove+1, string(e.Type), e.Cell, string(e.Mark),
		)
		if err != nil {
			log.Printf("[DB] Failed to record %s for room %d match %d: %v", e.Type, sessionID, matchNumber, err)
		}
	}
}

func recordResultJob(gm *GameManager, sessionID, matchNumber int, result Result, marks [NumCells]Mark) func() {
	if gm == nil || gm.db == nil || sessionID == 0 {
		return nil
	}
	return func() {
		board, err := json.Marshal(marks)
		if err != nil {
			log.Printf("[DB] Failed to marshal final board for room %d: %v", sessionID, err)
			board = []byte("[]")
		}
		_, err = gm.db.Exec(
			`UPDATE matches SET result = $3, final_board = $4::jsonb, completed_at = NOW() WHERE room_id = $1 AND match_number = $2`,
			sessionID, matchNumber, string(result), string(board),
		)
		if err != nil {
			log.Printf("[DB] Failed to record result for room %d match %d: %v", sessionID, matchNumber, err)
		}
	}
}

func markRoomStartedJob(gm *GameManager, sessionID int, at time.Time) func() {
	if gm == nil || gm.db == nil || sessionID == 0 {
		return nil
	}
	return func() {
		if _, err := gm.db.Exec(`UPDATE rooms SET status = $1, started_at = $2 WHERE id = $3`, string(StatusInProgress), at, sessionID); err != nil {
			log.Printf("[DB] Failed to mark room %d started: %v", sessionID, err)
		}
	}
}

func markRoomClosedJob(gm *GameManager, sessionID int, at time.Time) func() {
	if gm == nil || gm.db == nil || sessionID == 0 {
		return nil
	}
	return func() {
		if _, err := gm.db.Exec(`UPDATE rooms SET status = $1, closed_at = $2 WHERE id = $3`, string(StatusClosed), at, sessionID); err != nil {
			log.Printf("[DB] Failed to mark room %d closed: %v", sessionID, err)
		}
	}
}

// cacheJobLocked snapshots the room summary now and writes it to Redis later.
func (r *Room) cacheJobLocked() func() {
	gm := r.gm
	if gm == nil || gm.rdb == nil {
		return nil
	}
	data, err := json.Marshal(r.summaryLocked())
	if err != nil {
		log.Printf("[REDIS] Failed to marshal room %s: %v", r.Token, err)
		return nil
	}
	token := r.Token
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := gm.rdb.SetEx(ctx, roomStateKey(token), data, time.Hour).Err(); err != nil {
			log.Printf("[REDIS] Failed to cache room %s: %v", token, err)
		}
	}
}

func roomStateKey(token string) string {
	return "room:" + token + ":state"
}

// insertRoomRow creates the rooms row and returns its id. Zero means the room
// runs without history.
func (gm *GameManager) insertRoomRow(r *Room) int {
	if gm.db == nil {
		return 0
	}
	var right interface{}
	if r.Right != nil {
		right = r.Right.ID
	}
	var id int
	err := gm.db.QueryRowx(
		`INSERT INTO rooms (room_token, mode, status, left_player, right_player, created_at) VALUES ($1, $2, $3, $4, $5, NOW()) RETURNING id`,
		r.Token, string(r.Mode), string(StatusWaiting), r.Left.ID, right,
	).Scan(&id)
	if err != nil {
		log.Printf("[DB] Failed to create room row for %s: %v", r.Token, err)
		return 0
	}
	return id
}

// loadCachedRoom reads a room summary cached by a previous process.
func (gm *GameManager) loadCachedRoom(token string) (*RoomSummary, error) {
	if gm.rdb == nil {
		return nil, ErrRoomNotFound
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	data, err := gm.rdb.Get(ctx, roomStateKey(token)).Bytes()
	if err != nil {
		return nil, ErrRoomNotFound
	}
	var s RoomSummary
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
