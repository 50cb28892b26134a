package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomd/internal/api"
	"roomd/internal/api/response"
	"roomd/internal/factory"
	"roomd/internal/model"
	"roomd/internal/storage/memory"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	storage *memory.Storage
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// API tests are integration tests - use production factory with real random/clock
	app, err := factory.New(factory.Config{})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:          logger,
		IdentityService: app.IdentityService,
		RoomController:  app.RoomController,
		HubManager:      app.HubManager,
		Dispatcher:      app.Dispatcher,
	})

	return &testServer{
		handler: router,
		storage: app.Storage.(*memory.Storage),
	}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("X-Session-Token", token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

// claim claims an identity and returns its id and session token
func (ts *testServer) claim(t *testing.T, name string) (string, string) {
	t.Helper()
	token := "sess_" + name
	body := map[string]string{"name": name, "session_token": token}
	rr := ts.request(http.MethodPost, "/api/v1/identities/claim", body, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp response.ClaimIdentityResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return string(resp.IdentityID), token
}

// createRoom creates a room for the given token and returns its snapshot
func (ts *testServer) createRoom(t *testing.T, token, name string) model.RoomSnapshot {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/v1/rooms", map[string]string{"name": name}, token)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var snapshot model.RoomSnapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snapshot))
	return snapshot
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestClaimIdentity(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]string{"name": "alice", "session_token": "sess_1"}
	rr := ts.request(http.MethodPost, "/api/v1/identities/claim", body, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.ClaimIdentityResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.IdentityID)
}

func TestClaimValidation(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/identities/claim", map[string]string{"name": "alice"}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "INVALID_REQUEST")

	rr = ts.request(http.MethodPost, "/api/v1/identities/claim", map[string]string{"session_token": "sess_1"}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestClaimConflict(t *testing.T) {
	ts := newTestServer(t)
	ts.claim(t, "alice")

	body := map[string]string{"name": "alice", "session_token": "sess_other"}
	rr := ts.request(http.MethodPost, "/api/v1/identities/claim", body, "")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "IDENTITY_IN_USE")
}

func TestReleaseAndReclaim(t *testing.T) {
	ts := newTestServer(t)
	id, token := ts.claim(t, "alice")

	rr := ts.request(http.MethodPost, "/api/v1/identities/"+id+"/release",
		map[string]string{"session_token": token}, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	// The name is claimable again by another session
	body := map[string]string{"name": "alice", "session_token": "sess_other"}
	rr = ts.request(http.MethodPost, "/api/v1/identities/claim", body, "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestHeartbeat(t *testing.T) {
	ts := newTestServer(t)
	id, token := ts.claim(t, "alice")

	rr := ts.request(http.MethodPost, "/api/v1/identities/"+id+"/heartbeat",
		map[string]string{"session_token": token}, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestListIdentities(t *testing.T) {
	ts := newTestServer(t)
	ts.claim(t, "alice")
	ts.claim(t, "bob")

	rr := ts.request(http.MethodGet, "/api/v1/identities", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var identities []response.IdentityResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &identities))
	assert.Len(t, identities, 2)
	for _, ident := range identities {
		assert.True(t, ident.Online)
	}
}

func TestRoomEndpointsRequireSession(t *testing.T) {
	ts := newTestServer(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/rooms"},
		{http.MethodGet, "/api/v1/rooms"},
		{http.MethodGet, "/api/v1/rooms/ABCD"},
		{http.MethodPost, "/api/v1/rooms/ABCD/join"},
		{http.MethodPost, "/api/v1/rooms/ABCD/leave"},
		{http.MethodPost, "/api/v1/rooms/ABCD/ready"},
		{http.MethodPost, "/api/v1/rooms/ABCD/start"},
		{http.MethodGet, "/api/v1/rooms/ABCD/events"},
	}

	for _, p := range paths {
		rr := ts.request(p.method, p.path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code, "%s %s", p.method, p.path)
	}
}

func TestCreateRoom(t *testing.T) {
	ts := newTestServer(t)
	id, token := ts.claim(t, "alice")

	snapshot := ts.createRoom(t, token, "Friday Night")
	assert.Equal(t, "Friday Night", snapshot.Name)
	assert.Equal(t, model.IdentityID(id), snapshot.HostID)
	assert.False(t, snapshot.Started)
	assert.Equal(t, 8, snapshot.Capacity)
	require.Len(t, snapshot.Members, 1)
	assert.Equal(t, model.IdentityID(id), snapshot.Members[0].ID)
}

func TestCreateRoomDuplicateName(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.claim(t, "alice")
	ts.createRoom(t, token, "Friday Night")

	rr := ts.request(http.MethodPost, "/api/v1/rooms", map[string]string{"name": "Friday Night"}, token)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "DUPLICATE_ROOM_NAME")
}

func TestGetRoom(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.claim(t, "alice")
	created := ts.createRoom(t, token, "Friday Night")

	rr := ts.request(http.MethodGet, "/api/v1/rooms/"+string(created.Code), nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var snapshot model.RoomSnapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snapshot))
	assert.Equal(t, created.Code, snapshot.Code)
}

func TestGetUnknownRoom(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.claim(t, "alice")

	rr := ts.request(http.MethodGet, "/api/v1/rooms/ZZZZ", nil, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "ROOM_NOT_FOUND")
}

func TestListRooms(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.claim(t, "alice")
	ts.createRoom(t, token, "First")

	rr := ts.request(http.MethodGet, "/api/v1/rooms", nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var summaries []model.RoomSummary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, "First", summaries[0].Name)
	assert.Equal(t, "alice", summaries[0].HostName)
	assert.Equal(t, 1, summaries[0].MemberCount)
}

func TestJoinRoom(t *testing.T) {
	ts := newTestServer(t)
	_, hostToken := ts.claim(t, "alice")
	created := ts.createRoom(t, hostToken, "Game")

	_, joinerToken := ts.claim(t, "bob")
	rr := ts.request(http.MethodPost, "/api/v1/rooms/"+string(created.Code)+"/join", nil, joinerToken)
	assert.Equal(t, http.StatusOK, rr.Code)

	var snapshot model.RoomSnapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snapshot))
	assert.Len(t, snapshot.Members, 2)

	// Joining again conflicts
	rr = ts.request(http.MethodPost, "/api/v1/rooms/"+string(created.Code)+"/join", nil, joinerToken)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "ALREADY_MEMBER")
}

func TestJoinFullRoom(t *testing.T) {
	ts := newTestServer(t)
	_, hostToken := ts.claim(t, "host")
	created := ts.createRoom(t, hostToken, "Game")

	for i := 0; i < 7; i++ {
		_, token := ts.claim(t, fmt.Sprintf("player%d", i))
		rr := ts.request(http.MethodPost, "/api/v1/rooms/"+string(created.Code)+"/join", nil, token)
		require.Equal(t, http.StatusOK, rr.Code)
	}

	_, lateToken := ts.claim(t, "latecomer")
	rr := ts.request(http.MethodPost, "/api/v1/rooms/"+string(created.Code)+"/join", nil, lateToken)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "ROOM_FULL")
}

func TestLeaveRoom(t *testing.T) {
	ts := newTestServer(t)
	_, hostToken := ts.claim(t, "alice")
	created := ts.createRoom(t, hostToken, "Game")

	rr := ts.request(http.MethodPost, "/api/v1/rooms/"+string(created.Code)+"/leave", nil, hostToken)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	// Leaving again is a no-op
	rr = ts.request(http.MethodPost, "/api/v1/rooms/"+string(created.Code)+"/leave", nil, hostToken)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestReadyAndStartFlow(t *testing.T) {
	ts := newTestServer(t)
	_, hostToken := ts.claim(t, "alice")
	created := ts.createRoom(t, hostToken, "Game")
	code := string(created.Code)

	_, joinerToken := ts.claim(t, "bob")
	rr := ts.request(http.MethodPost, "/api/v1/rooms/"+code+"/join", nil, joinerToken)
	require.Equal(t, http.StatusOK, rr.Code)

	// Start before anyone is ready
	rr = ts.request(http.MethodPost, "/api/v1/rooms/"+code+"/start", nil, hostToken)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "NOT_ALL_READY")

	// Both flag ready
	rr = ts.request(http.MethodPost, "/api/v1/rooms/"+code+"/ready", map[string]bool{"ready": true}, hostToken)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = ts.request(http.MethodPost, "/api/v1/rooms/"+code+"/ready", map[string]bool{"ready": true}, joinerToken)
	require.Equal(t, http.StatusOK, rr.Code)

	// Any member may start
	rr = ts.request(http.MethodPost, "/api/v1/rooms/"+code+"/start", nil, joinerToken)
	assert.Equal(t, http.StatusOK, rr.Code)

	var snapshot model.RoomSnapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snapshot))
	assert.True(t, snapshot.Started)

	// Started is sticky
	rr = ts.request(http.MethodPost, "/api/v1/rooms/"+code+"/start", nil, hostToken)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "ALREADY_STARTED")

	// Readiness is frozen after start
	rr = ts.request(http.MethodPost, "/api/v1/rooms/"+code+"/ready", map[string]bool{"ready": false}, hostToken)
	assert.Equal(t, http.StatusConflict, rr.Code)

	// Late joiners are rejected
	_, lateToken := ts.claim(t, "carol")
	rr = ts.request(http.MethodPost, "/api/v1/rooms/"+code+"/join", nil, lateToken)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestReadyByNonMember(t *testing.T) {
	ts := newTestServer(t)
	_, hostToken := ts.claim(t, "alice")
	created := ts.createRoom(t, hostToken, "Game")

	_, outsiderToken := ts.claim(t, "outsider")
	rr := ts.request(http.MethodPost, "/api/v1/rooms/"+string(created.Code)+"/ready",
		map[string]bool{"ready": true}, outsiderToken)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "NOT_A_MEMBER")
}

func TestStartByNonMember(t *testing.T) {
	ts := newTestServer(t)
	_, hostToken := ts.claim(t, "alice")
	created := ts.createRoom(t, hostToken, "Game")

	_, outsiderToken := ts.claim(t, "outsider")
	rr := ts.request(http.MethodPost, "/api/v1/rooms/"+string(created.Code)+"/start", nil, outsiderToken)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "NOT_A_MEMBER")
}

func TestEventsStreamRequiresMembership(t *testing.T) {
	ts := newTestServer(t)
	_, hostToken := ts.claim(t, "alice")
	created := ts.createRoom(t, hostToken, "Game")

	_, outsiderToken := ts.claim(t, "outsider")
	rr := ts.request(http.MethodGet, "/api/v1/rooms/"+string(created.Code)+"/events", nil, outsiderToken)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "NOT_A_MEMBER")
}

func TestSessionTokenViaQueryParam(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.claim(t, "alice")
	created := ts.createRoom(t, token, "Game")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms/"+string(created.Code)+"?session_token="+token, nil)
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestInvalidJSONBody(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/identities/claim", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "INVALID_REQUEST")
}
