package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matheusvictorello/termo-solver/internal/config"
	"github.com/matheusvictorello/termo-solver/internal/daily"
	"github.com/matheusvictorello/termo-solver/internal/store"
	"github.com/matheusvictorello/termo-solver/internal/termo"
	"github.com/matheusvictorello/termo-solver/internal/words"
)

func testServer(t *testing.T, records *store.Records) *Server {
	t.Helper()
	list, err := termo.ParseWords("carro", "morto", "sorte", "barco", "torno", "praga", "drama", "tarso")
	require.NoError(t, err)
	cfg := config.Config{
		JWTSecret:    "test_secret",
		JWTExpiry:    time.Hour,
		DailySalt:    "salt",
		ClientOrigin: "http://localhost:5173",
		SolveTimeout: 5 * time.Second,
		Workers:      2,
	}
	return New(cfg, words.New(list), store.NewMemoryStore(), records)
}

func do(t *testing.T, s *Server, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	s := testServer(t, nil)
	rec := do(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	rec = do(t, s, http.MethodGet, "/debug/words", nil)
	assert.JSONEq(t, `{"words":8}`, rec.Body.String())

	rec = do(t, s, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFit(t *testing.T) {
	s := testServer(t, nil)
	rec := do(t, s, http.MethodPost, "/fit", map[string]string{"guess": "sarro", "hidden": "carro"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"pattern":"WRRRR","code":2}`, rec.Body.String())

	rec = do(t, s, http.MethodPost, "/fit", map[string]string{"guess": "sarr", "hidden": "carro"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_word", decodeBody(t, rec)["error"])

	rec = do(t, s, http.MethodPost, "/fit", map[string]string{"guess": "sarro"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSolve(t *testing.T) {
	s := testServer(t, nil)
	body := map[string]any{
		"history": []map[string]string{{"guess": "tarso", "pattern": "WPPWW"}},
		"top":     3,
	}
	rec := do(t, s, http.MethodPost, "/solve", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decodeBody(t, rec)
	assert.Equal(t, "drama", out["word"])
	assert.Equal(t, 1.0, out["score"])
	assert.Equal(t, false, out["certain"])
	assert.Equal(t, 2.0, out["candidates"])
	assert.Len(t, out["alternatives"], 3)
}

func TestSolveCertain(t *testing.T) {
	s := testServer(t, nil)
	body := map[string]any{"history": []map[string]string{{"guess": "tarso", "pattern": "PWRPP"}}}
	rec := do(t, s, http.MethodPost, "/solve", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decodeBody(t, rec)
	assert.Equal(t, "sorte", out["word"])
	assert.Nil(t, out["score"])
	assert.Equal(t, true, out["certain"])
}

func TestSolveErrors(t *testing.T) {
	s := testServer(t, nil)
	testCases := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"bad pattern", map[string]any{"history": []map[string]string{{"guess": "tarso", "pattern": "RWXPP"}}}, http.StatusBadRequest, "invalid_pattern"},
		{"missing guess", map[string]any{"history": []map[string]string{{"pattern": "RRRRR"}}}, http.StatusBadRequest, "invalid_word"},
		{"missing pattern", map[string]any{"history": []map[string]string{{"guess": "tarso"}}}, http.StatusBadRequest, "invalid_pattern"},
		{"null pattern", map[string]any{"history": []map[string]any{{"guess": "sorte", "pattern": nil}}}, http.StatusBadRequest, "invalid_pattern"},
		{"contradiction", map[string]any{"history": []map[string]string{
			{"guess": "carro", "pattern": "RRRRR"}, {"guess": "morto", "pattern": "RRRRR"},
		}}, http.StatusUnprocessableEntity, "empty_candidate_pool"},
		{"not json", "nope", http.StatusBadRequest, "bad_json"},
	}
	for _, tc := range testCases {
		rec := do(t, s, http.MethodPost, "/solve", tc.body)
		assert.Equal(t, tc.status, rec.Code, tc.name)
		assert.Equal(t, tc.code, decodeBody(t, rec)["error"], tc.name)
	}
}

func TestStrategy(t *testing.T) {
	s := testServer(t, nil)
	branch := []map[string]string{{"guess": "tarso", "pattern": "WPPWW"}}
	rec := do(t, s, http.MethodPost, "/strategy", map[string]any{"branches": [][]map[string]string{branch, branch}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decodeBody(t, rec)
	assert.Equal(t, "drama", out["word"])
	assert.Equal(t, 2.0, out["score"])
	assert.Equal(t, 4.0, out["candidates"])

	rec = do(t, s, http.MethodPost, "/strategy", map[string]any{"branches": [][]map[string]string{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "no_branches", decodeBody(t, rec)["error"])

	many := make([][]map[string]string, maxBranches+1)
	for i := range many {
		many[i] = branch
	}
	rec = do(t, s, http.MethodPost, "/strategy", map[string]any{"branches": many})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "too_many_branches", decodeBody(t, rec)["error"])
}

func playerCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == playerCookieName {
			return c
		}
	}
	t.Fatal("no player cookie")
	return nil
}

func TestGameFlow(t *testing.T) {
	records, err := store.Open(filepath.Join(t.TempDir(), "termo.db"))
	require.NoError(t, err)
	defer records.Close()
	s := testServer(t, records)

	rec := do(t, s, http.MethodPost, "/game/new", map[string]any{"answer": "carro"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cookie := playerCookie(t, rec)
	assert.NotEmpty(t, rec.Header().Get("X-Player-Token"))
	id := decodeBody(t, rec)["gameId"].(string)

	rec = do(t, s, http.MethodPost, "/game/guess", map[string]any{"gameId": id, "guess": "barco", "hint": true}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decodeBody(t, rec)
	assert.Equal(t, "WRRPR", out["pattern"])
	assert.Equal(t, "playing", out["state"])
	assert.Equal(t, 1.0, out["candidates"])
	assert.Equal(t, "carro", out["suggestion"].(map[string]any)["word"])

	// someone else's token cannot see the game
	rec = do(t, s, http.MethodPost, "/game/guess", map[string]any{"gameId": id, "guess": "carro"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodPost, "/game/guess", map[string]any{"gameId": id, "guess": "xyzzy"}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "not_in_word_list", decodeBody(t, rec)["error"])

	rec = do(t, s, http.MethodPost, "/game/guess", map[string]any{"gameId": id, "guess": "carro"}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "won", decodeBody(t, rec)["state"])

	// finished games leave the live store
	rec = do(t, s, http.MethodPost, "/game/guess", map[string]any{"gameId": id, "guess": "carro"}, cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodGet, "/stats/me", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out = decodeBody(t, rec)
	assert.Equal(t, 1.0, out["gamesPlayed"])
	assert.Equal(t, 1.0, out["wins"])
	assert.Equal(t, 2.0, out["avgGuesses"])
	assert.Len(t, out["recent"], 1)
}

func TestNewGameDaily(t *testing.T) {
	s := testServer(t, nil)
	rec := do(t, s, http.MethodPost, "/game/new", map[string]any{"daily": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), decodeBody(t, rec)["daily"])

	rec = do(t, s, http.MethodPost, "/game/new", map[string]any{"answer": "zzzzz"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDailyOncePerPlayer(t *testing.T) {
	records, err := store.Open(filepath.Join(t.TempDir(), "termo.db"))
	require.NoError(t, err)
	defer records.Close()
	s := testServer(t, records)

	rec := do(t, s, http.MethodPost, "/game/new", map[string]any{"daily": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cookie := playerCookie(t, rec)
	id := decodeBody(t, rec)["gameId"].(string)

	// an unfinished daily game can be started again
	rec = do(t, s, http.MethodPost, "/game/new", map[string]any{"daily": true}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	answer := s.dict.At(daily.WordIndex(time.Now(), s.cfg.DailySalt, s.dict.Len()))
	rec = do(t, s, http.MethodPost, "/game/guess", map[string]any{"gameId": id, "guess": answer.String()}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "won", decodeBody(t, rec)["state"])

	rec = do(t, s, http.MethodPost, "/game/new", map[string]any{"daily": true}, cookie)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "daily_played", decodeBody(t, rec)["error"])

	// other players and non-daily games are unaffected
	rec = do(t, s, http.MethodPost, "/game/new", map[string]any{"daily": true})
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, s, http.MethodPost, "/game/new", nil, cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStatsRequiresPlayer(t *testing.T) {
	s := testServer(t, nil)
	rec := do(t, s, http.MethodGet, "/stats/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	tok, _, err := s.signPlayerToken("p1")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/stats/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestShutdownStopsStart(t *testing.T) {
	s := testServer(t, nil)
	errc := make(chan error, 1)
	go func() { errc <- s.Start("127.0.0.1:0") }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))
	select {
	case err := <-errc:
		assert.ErrorIs(t, err, http.ErrServerClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after Shutdown")
	}
}
