package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/pongtoe/internal/auth"
	"github.com/playmatatu/pongtoe/internal/config"
	"github.com/playmatatu/pongtoe/internal/game"
)

const testSecret = "test-secret"

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Environment:       "test",
		JWTSecret:         testSecret,
		SeatTokenHours:    1,
		TickRate:          60,
		BroadcastEvery:    1,
		RoomExpiryMinutes: 10,
	}
	game.Manager = game.NewGameManager(nil, nil, cfg)
	t.Cleanup(func() {
		for _, r := range game.Manager.ListRooms() {
			game.Manager.CloseRoom(r.Token, "test")
		}
	})
	router := gin.New()
	SetupRoutes(router, nil, nil, cfg)
	return router
}

func do(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type createResp struct {
	RoomToken string `json:"room_token"`
	Seats     []struct {
		PlayerID  string `json:"player_id"`
		Side      string `json:"side"`
		SeatToken string `json:"seat_token"`
		WSURL     string `json:"ws_url"`
	} `json:"seats"`
}

func createRoom(t *testing.T, router *gin.Engine, body string) createResp {
	t.Helper()
	w := do(router, http.MethodPost, "/api/v1/rooms", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create room: status %d body %s", w.Code, w.Body.String())
	}
	var resp createResp
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestHealth(t *testing.T) {
	router := setupRouter(t)
	w := do(router, http.MethodGet, "/api/v1/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["service"] != "pongtoe-api" || body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestPublicConfig(t *testing.T) {
	router := setupRouter(t)
	w := do(router, http.MethodGet, "/api/v1/config", "")
	var body map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["field_width"] != 800.0 || body["max_tokens"] != 4.0 {
		t.Errorf("body = %v", body)
	}
}

func TestCreateAIRoomIssuesLeftSeat(t *testing.T) {
	router := setupRouter(t)
	resp := createRoom(t, router, `{"mode":"ai","player_id":"alice","player_name":"Alice"}`)

	if len(resp.Seats) != 1 {
		t.Fatalf("seats = %d, want 1", len(resp.Seats))
	}
	seat := resp.Seats[0]
	claims, err := auth.ParseSeatToken(testSecret, seat.SeatToken)
	if err != nil {
		t.Fatalf("seat token: %v", err)
	}
	if claims.RoomToken != resp.RoomToken || claims.PlayerID != "alice" || claims.Side != "left" {
		t.Errorf("claims = %+v", claims)
	}
	if !strings.Contains(seat.WSURL, "/api/v1/rooms/"+resp.RoomToken+"/ws?st=") {
		t.Errorf("ws url = %s", seat.WSURL)
	}
}

func TestCreateVersusRoomIssuesTwoSeats(t *testing.T) {
	router := setupRouter(t)
	resp := createRoom(t, router, `{"mode":"versus","player_id":"alice","opponent_id":"bob"}`)

	if len(resp.Seats) != 2 {
		t.Fatalf("seats = %d, want 2", len(resp.Seats))
	}
	if resp.Seats[0].Side != "left" || resp.Seats[1].Side != "right" {
		t.Errorf("sides = %s/%s", resp.Seats[0].Side, resp.Seats[1].Side)
	}
	if resp.Seats[1].PlayerID != "bob" {
		t.Errorf("right player = %s", resp.Seats[1].PlayerID)
	}
}

func TestCreateRoomDefaultsToAI(t *testing.T) {
	router := setupRouter(t)
	resp := createRoom(t, router, "")
	if len(resp.Seats) != 1 || resp.Seats[0].PlayerID == "" {
		t.Errorf("seats = %+v", resp.Seats)
	}
}

func TestCreateRoomRejectsUnknownMode(t *testing.T) {
	router := setupRouter(t)
	w := do(router, http.MethodPost, "/api/v1/rooms", `{"mode":"solo"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestGetRoomState(t *testing.T) {
	router := setupRouter(t)
	resp := createRoom(t, router, `{"mode":"ai","player_id":"alice"}`)

	w := do(router, http.MethodGet, "/api/v1/rooms/"+resp.RoomToken, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Live  bool `json:"live"`
		Room  struct{ Status string } `json:"room"`
		State struct {
			Width float64 `json:"width"`
		} `json:"state"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if !body.Live || body.State.Width != 800 || body.Room.Status != string(game.StatusWaiting) {
		t.Errorf("body = %s", w.Body.String())
	}

	if w := do(router, http.MethodGet, "/api/v1/rooms/nope", ""); w.Code != http.StatusNotFound {
		t.Errorf("unknown room status = %d, want 404", w.Code)
	}
}

func TestMatchesWithoutDatabase(t *testing.T) {
	router := setupRouter(t)
	w := do(router, http.MethodGet, "/api/v1/matches?limit=500", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Matches []interface{} `json:"matches"`
		Limit   int           `json:"limit"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body.Matches == nil || len(body.Matches) != 0 || body.Limit != 100 {
		t.Errorf("body = %s", w.Body.String())
	}

	if w := do(router, http.MethodGet, "/api/v1/matches/abc/moves", ""); w.Code != http.StatusBadRequest {
		t.Errorf("bad match id status = %d, want 400", w.Code)
	}
}

func TestWebSocketRequiresSeatToken(t *testing.T) {
	router := setupRouter(t)
	resp := createRoom(t, router, `{"mode":"ai"}`)
	w := do(router, http.MethodGet, "/api/v1/rooms/"+resp.RoomToken+"/ws", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestAdminRequiresCredentials(t *testing.T) {
	router := setupRouter(t)

	if w := do(router, http.MethodGet, "/api/v1/admin/rooms", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("no headers: status = %d, want 401", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/rooms", nil)
	req.Header.Set("X-Admin-User", "ops")
	req.Header.Set("X-Admin-Token", "secret")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("no database: status = %d, want 503", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/rooms", nil)
	req.Header.Set("X-Admin-Phone", "ops")
	req.Header.Set("X-Admin-Token", "secret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("phone header: status = %d, want 401", w.Code)
	}
}
