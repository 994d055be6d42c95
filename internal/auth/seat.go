package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var ErrInvalidSeatToken = errors.New("invalid seat token")

// SeatClaims binds a player to one paddle of one room.
type SeatClaims struct {
	RoomToken string `json:"room"`
	PlayerID  string `json:"player_id"`
	Side      string `json:"side"`
	jwt.RegisteredClaims
}

// IssueSeatToken signs an HS256 seat token valid for ttl.
func IssueSeatToken(secret, roomToken, playerID, side string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret not configured")
	}
	now := time.Now()
	claims := SeatClaims{
		RoomToken: roomToken,
		PlayerID:  playerID,
		Side:      side,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   playerID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign seat token: %w", err)
	}
	return signed, nil
}

// ParseSeatToken verifies signature and expiry and returns the claims.
func ParseSeatToken(secret, tokenStr string) (*SeatClaims, error) {
	claims := &SeatClaims{}
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSeatToken, err)
	}
	if !parsed.Valid || claims.RoomToken == "" || claims.PlayerID == "" {
		return nil, ErrInvalidSeatToken
	}
	return claims, nil
}
