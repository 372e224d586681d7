// internal/handlers/handlers_test.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/catboard/cat/internal/game"
	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// recordingPublisher collects published events instead of sending them to Redis.
type recordingPublisher struct {
	mu     sync.Mutex
	events []game.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev game.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) types() []game.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]game.EventType, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

func setupTestServer(t *testing.T) (*httptest.Server, *GameServer, *testClock, *recordingPublisher) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	clock := &testClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	pub := &recordingPublisher{}
	gs := NewGameServer(game.NewGameStore(game.DefaultSettings()), NewHub(pub, logger), logger)
	gs.Now = clock.Now
	srv := httptest.NewServer(NewRouter(logger, gs))
	t.Cleanup(srv.Close)
	return srv, gs, clock, pub
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

// createStartedGame creates a lobby with two players and starts it.
func createStartedGame(t *testing.T, srv *httptest.Server) (uuid.UUID, uuid.UUID, uuid.UUID) {
	t.Helper()
	var created seatResponse
	resp := postJSON(t, srv.URL+"/lobby/create", map[string]string{"lobby_name": "table", "player_name": "alice"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &created)

	var joined seatResponse
	resp = postJSON(t, srv.URL+"/lobby/"+created.GameID.String()+"/join", map[string]string{"player_name": "bob"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &joined)
	assert.Equal(t, 1, joined.Seat)
	assert.Equal(t, "pink", joined.Color)

	resp = postJSON(t, srv.URL+"/game/"+created.GameID.String()+"/start", map[string]string{"player_id": created.PlayerID.String()})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return created.GameID, created.PlayerID, joined.PlayerID
}

func getState(t *testing.T, srv *httptest.Server, gameID, playerID uuid.UUID) game.GameView {
	t.Helper()
	resp, err := http.Get(srv.URL + "/game/" + gameID.String() + "/state?player_id=" + playerID.String())
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var v game.GameView
	decode(t, resp, &v)
	return v
}

func TestLobbyFlow(t *testing.T) {
	srv, _, _, _ := setupTestServer(t)

	resp := postJSON(t, srv.URL+"/lobby/create", map[string]string{"player_name": ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "player name is required")

	gameID, alice, bob := createStartedGame(t, srv)

	resp, err := http.Get(srv.URL + "/lobby/list")
	require.NoError(t, err)
	defer resp.Body.Close()
	var lobbies []game.LobbySummary
	decode(t, resp, &lobbies)
	require.Len(t, lobbies, 1)
	assert.Equal(t, gameID, lobbies[0].ID)
	assert.Equal(t, "table", lobbies[0].Name)
	assert.Equal(t, 2, lobbies[0].NumberOfPlayers)
	assert.True(t, lobbies[0].Started)

	resp = postJSON(t, srv.URL+"/lobby/"+gameID.String()+"/join", map[string]string{"player_name": "carol"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "game already started")

	v := getState(t, srv, gameID, alice)
	assert.Equal(t, alice, v.HostID)
	assert.Equal(t, 2, v.NumberOfPlayers)
	assert.True(t, v.Started)
	assert.NotNil(t, v.Players[0].Hand)
	assert.Nil(t, v.Players[1].Hand, "bob's hand is hidden from alice")
	assert.Equal(t, bob, v.Players[1].ID)
}

func TestNotFoundAndBadIDs(t *testing.T) {
	srv, _, _, _ := setupTestServer(t)

	resp := postJSON(t, srv.URL+"/game/"+uuid.NewString()+"/play", map[string]interface{}{"player_id": uuid.NewString()})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = postJSON(t, srv.URL+"/game/not-a-uuid/start", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	res, err := http.Get(srv.URL + "/game/" + uuid.NewString() + "/state")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, err = http.Get(srv.URL + "/lobby/create")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
}

func TestPlayCardErrors(t *testing.T) {
	srv, _, clock, pub := setupTestServer(t)
	gameID, alice, bob := createStartedGame(t, srv)

	v := getState(t, srv, gameID, alice)
	current, waiting := alice, bob
	if v.CurrentPlayerIndex == 1 {
		current, waiting = bob, alice
	}

	resp := postJSON(t, srv.URL+"/game/"+gameID.String()+"/play", map[string]interface{}{
		"player_id": waiting, "card_index": 0, "action_details": map[string]string{},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "not your turn")

	resp = postJSON(t, srv.URL+"/game/"+gameID.String()+"/play", map[string]interface{}{
		"player_id": current, "card_index": 99, "action_details": map[string]string{},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "card index out of bounds")

	before := len(pub.types())
	clock.Advance(game.DefaultTurnDuration + time.Second)
	resp = postJSON(t, srv.URL+"/game/"+gameID.String()+"/play", map[string]interface{}{
		"player_id": current, "card_index": 0, "action_details": map[string]string{},
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "turn already timed out")
	assert.Greater(t, len(pub.types()), before, "forced pass is still broadcast")

	after := getState(t, srv, gameID, alice)
	assert.Greater(t, after.TurnID, v.TurnID)
}

func TestPassAndKick(t *testing.T) {
	srv, _, _, _ := setupTestServer(t)
	gameID, alice, bob := createStartedGame(t, srv)

	v := getState(t, srv, gameID, alice)
	current := alice
	if v.CurrentPlayerIndex == 1 {
		current = bob
	}
	resp := postJSON(t, srv.URL+"/game/"+gameID.String()+"/pass", map[string]interface{}{"player_id": current})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var passed game.GameView
	decode(t, resp, &passed)
	assert.Greater(t, passed.TurnID, v.TurnID)

	resp = postJSON(t, srv.URL+"/game/"+gameID.String()+"/kick", map[string]interface{}{"voter_id": alice, "target_seat": 0})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "cannot kick yourself")

	resp = postJSON(t, srv.URL+"/game/"+gameID.String()+"/kick", map[string]interface{}{"voter_id": alice, "target_seat": 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var kicked game.GameView
	decode(t, resp, &kicked)
	assert.False(t, kicked.Players[1].Active, "one vote of two active players is a majority")
}

func dialGame(t *testing.T, srv *httptest.Server, gameID, playerID uuid.UUID, subprotocols ...string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/game/" + gameID.String() + "/ws?player_id=" + playerID.String()
	c, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{Subprotocols: subprotocols})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close(websocket.StatusNormalClosure, "") })
	return c
}

func readEvent(t *testing.T, c *websocket.Conn) game.Event {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, data, err := c.Read(ctx)
	require.NoError(t, err)
	var ev game.Event
	require.NoError(t, json.Unmarshal(data, &ev))
	return ev
}

func TestWebSocketPushAndClose(t *testing.T) {
	srv, gs, clock, pub := setupTestServer(t)

	var created seatResponse
	resp := postJSON(t, srv.URL+"/lobby/create", map[string]string{"player_name": "alice"})
	decode(t, resp, &created)

	c := dialGame(t, srv, created.GameID, created.PlayerID, "game")
	ev := readEvent(t, c)
	assert.Equal(t, game.EventUpdate, ev.Type, "sessions get an update on connect")
	assert.Equal(t, 1, gs.Hub.SessionCount(created.GameID))

	resp = postJSON(t, srv.URL+"/lobby/"+created.GameID.String()+"/join", map[string]string{"player_name": "bob"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ev = readEvent(t, c)
	assert.Equal(t, game.EventUpdate, ev.Type)
	assert.Equal(t, created.GameID, ev.GameID)

	clock.Advance(game.DefaultGameInactivityTimeout + time.Second)
	gs.sweep(clock.Now())

	ev = readEvent(t, c)
	assert.Equal(t, game.EventGameClosed, ev.Type)
	assert.Equal(t, game.CloseReasonInactivity, ev.Reason)
	assert.Contains(t, pub.types(), game.EventGameClosed)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, _, err := c.Read(ctx)
	require.Error(t, err)
	assert.Equal(t, websocket.StatusNormalClosure, websocket.CloseStatus(err))

	_, ok := gs.GameStore.GetGame(created.GameID)
	assert.False(t, ok, "expired game is removed from the store")
}

func TestWebSocketRejections(t *testing.T) {
	srv, _, _, _ := setupTestServer(t)
	var created seatResponse
	resp := postJSON(t, srv.URL+"/lobby/create", map[string]string{"player_name": "alice"})
	decode(t, resp, &created)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := dialGame(t, srv, created.GameID, created.PlayerID)
	_, _, err := c.Read(ctx)
	assert.Equal(t, websocket.StatusCode(BadSubprotocolError), websocket.CloseStatus(err))

	c = dialGame(t, srv, created.GameID, uuid.New(), "game")
	_, _, err = c.Read(ctx)
	assert.Equal(t, websocket.StatusCode(InvalidPlayerIDError), websocket.CloseStatus(err))

	c = dialGame(t, srv, uuid.New(), created.PlayerID, "game")
	_, _, err = c.Read(ctx)
	assert.Equal(t, websocket.StatusCode(InvalidGameIDError), websocket.CloseStatus(err))
}

func TestJanitorPassesElapsedTurns(t *testing.T) {
	_, gs, clock, _ := setupTestServer(t)
	g, _, err := gs.GameStore.CreateGame("t", "alice", clock.Now())
	require.NoError(t, err)
	g.Mu.Lock()
	_, err = g.AddPlayer("bob", clock.Now())
	require.NoError(t, err)
	_, err = g.Start(clock.Now())
	require.NoError(t, err)
	turn := g.TurnID
	g.Mu.Unlock()

	clock.Advance(game.DefaultTurnDuration + time.Second)
	gs.sweep(clock.Now())

	g.Mu.Lock()
	assert.Greater(t, g.TurnID, turn)
	g.Mu.Unlock()
	_, ok := gs.GameStore.GetGame(g.ID)
	assert.True(t, ok)
}

func TestRunJanitorStopsOnCancel(t *testing.T) {
	_, gs, _, _ := setupTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- gs.RunJanitor(ctx, 10*time.Millisecond) }()
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("janitor did not stop")
	}
}

func TestShutdownClosesGames(t *testing.T) {
	_, gs, clock, pub := setupTestServer(t)
	_, _, err := gs.GameStore.CreateGame("t", "alice", clock.Now())
	require.NoError(t, err)

	gs.Shutdown()
	assert.Empty(t, gs.GameStore.Games())
	assert.Equal(t, []game.EventType{game.EventGameClosed}, pub.types())
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFor(game.ErrNotFound))
	assert.Equal(t, http.StatusConflict, statusFor(game.ErrStaleTurn))
	assert.Equal(t, http.StatusBadRequest, statusFor(game.ErrInvalidAction))
	assert.Equal(t, http.StatusInternalServerError, statusFor(io.ErrUnexpectedEOF))
}
