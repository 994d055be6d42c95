package models

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

// Room is a persisted play room.
type Room struct {
	ID          int            `db:"id" json:"id"`
	RoomToken   string         `db:"room_token" json:"room_token"`
	Mode        string         `db:"mode" json:"mode"`
	Status      string         `db:"status" json:"status"`
	LeftPlayer  string         `db:"left_player" json:"left_player"`
	RightPlayer sql.NullString `db:"right_player" json:"right_player,omitempty"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	StartedAt   sql.NullTime   `db:"started_at" json:"started_at,omitempty"`
	ClosedAt    sql.NullTime   `db:"closed_at" json:"closed_at,omitempty"`
}

// Match is one round played in a room, from reset to game over.
type Match struct {
	ID          int             `db:"id" json:"id"`
	RoomID      int             `db:"room_id" json:"room_id"`
	RoomToken   string          `db:"room_token" json:"room_token"`
	MatchNumber int             `db:"match_number" json:"match_number"`
	Result      sql.NullString  `db:"result" json:"result,omitempty"`
	FinalBoard  json.RawMessage `db:"final_board" json:"final_board,omitempty"`
	StartedAt   time.Time       `db:"started_at" json:"started_at"`
	CompletedAt sql.NullTime    `db:"completed_at" json:"completed_at,omitempty"`
}

// MatchMove records a board change during a match.
type MatchMove struct {
	ID         int       `db:"id" json:"id"`
	MatchID    int       `db:"match_id" json:"match_id"`
	MoveNumber int       `db:"move_number" json:"move_number"`
	MoveType   string    `db:"move_type" json:"move_type"`
	Cell       int       `db:"cell" json:"cell"`
	Mark       string    `db:"mark" json:"mark"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// AdminAccount is an operator allowed to use the admin API.
type AdminAccount struct {
	Username    string         `db:"username" json:"username"`
	DisplayName string         `db:"display_name" json:"display_name"`
	TokenHash   string         `db:"token_hash" json:"-"`
	Roles       pq.StringArray `db:"roles" json:"roles"`
	AllowedIPs  pq.StringArray `db:"allowed_ips" json:"allowed_ips"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// AdminAudit is one entry of the admin audit trail.
type AdminAudit struct {
	ID         int             `db:"id" json:"id"`
	AdminUser  string          `db:"admin_user" json:"admin_user"`
	IP         string          `db:"ip" json:"ip"`
	Route      string          `db:"route" json:"route"`
	Action     string          `db:"action" json:"action"`
	Details    json.RawMessage `db:"details" json:"details"`
	Success    bool            `db:"success" json:"success"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

// RuntimeConfig is a tunable stored in the database and applied at startup.
type RuntimeConfig struct {
	Key         string         `db:"key" json:"key"`
	Value       string         `db:"value" json:"value"`
	ValueType   string         `db:"value_type" json:"value_type"`
	Description sql.NullString `db:"description" json:"description,omitempty"`
	UpdatedBy   sql.NullString `db:"updated_by" json:"updated_by,omitempty"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}
