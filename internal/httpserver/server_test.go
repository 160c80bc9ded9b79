package httpserver

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/robalobadob/cryptic/apps/go-server/internal/catalog"
	"github.com/robalobadob/cryptic/apps/go-server/internal/config"
	"github.com/robalobadob/cryptic/apps/go-server/internal/game"
	"github.com/robalobadob/cryptic/apps/go-server/internal/puzzle"
	"github.com/robalobadob/cryptic/apps/go-server/internal/store"
)

const adminPassword = "correct horse"

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	os.Exit(m.Run())
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return config.Config{
		JWTSecret:         "test-secret",
		SessionTTL:        time.Hour,
		ClientOrigin:      "http://localhost:5173",
		AdminUser:         "admin",
		AdminPasswordHash: string(hash),
		DailySalt:         "salt",
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cat, err := catalog.Open(context.Background(), filepath.Join(t.TempDir(), "cryptic.db"))
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	t.Cleanup(func() { _ = cat.Close() })
	return New(testConfig(t), store.NewMemoryStore(time.Hour), cat, cat)
}

func do(t *testing.T, h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func newGame(t *testing.T, h http.Handler, puzzleID string) newGameRes {
	t.Helper()
	body := ""
	if puzzleID != "" {
		body = `{"puzzleId":"` + puzzleID + `"}`
	}
	w := do(t, h, "POST", "/game/new", "", body)
	if w.Code != http.StatusOK {
		t.Fatalf("new game: %d %s", w.Code, w.Body.String())
	}
	var res newGameRes
	if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if res.GameID == "" || res.Token == "" {
		t.Fatalf("new game response = %+v", res)
	}
	return res
}

func decodeMove(t *testing.T, w *httptest.ResponseRecorder) moveRes {
	t.Helper()
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var res moveRes
	if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	return res
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	w := do(t, srv, "GET", "/health", "", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok":true`) {
		t.Fatalf("health: %d %s", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatal("missing security headers")
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Fatal("missing CORS header")
	}
}

func TestNotFoundIsJSON(t *testing.T) {
	srv := newTestServer(t)
	w := do(t, srv, "GET", "/nope", "", "")
	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), "not_found") {
		t.Fatalf("got %d %s", w.Code, w.Body.String())
	}
}

func TestListPuzzles(t *testing.T) {
	srv := newTestServer(t)
	w := do(t, srv, "GET", "/puzzles", "", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "2025-08-19") {
		t.Fatalf("got %d %s", w.Code, w.Body.String())
	}
}

func TestFullGameFlow(t *testing.T) {
	srv := newTestServer(t)
	g := newGame(t, srv, "2025-08-19")
	if g.View.PuzzleID != "2025-08-19" || g.View.Clue == nil || g.View.Clue.EntryID != "1A" {
		t.Fatalf("initial view = %+v", g.View)
	}

	var last moveRes
	for _, k := range []string{"d", "i", "s", "c", "o"} {
		last = decodeMove(t, do(t, srv, "POST", "/game/key", g.Token, `{"key":"`+k+`"}`))
	}
	if len(last.Update.Solved) != 1 || last.Update.Solved[0] != "1A" {
		t.Fatalf("last update = %+v", last.Update)
	}
	for _, e := range last.View.Entries {
		if e.ID == "1A" && !e.State.Solved {
			t.Fatal("1A not solved in view")
		}
	}

	res := decodeMove(t, do(t, srv, "POST", "/game/click", g.Token, `{"row":0,"col":0}`))
	if res.View.Clue.EntryID != "1A" {
		t.Fatalf("first click selected %s", res.View.Clue.EntryID)
	}
	res = decodeMove(t, do(t, srv, "POST", "/game/click", g.Token, `{"row":0,"col":0}`))
	if res.View.Clue.EntryID != "1D" {
		t.Fatalf("second click selected %s", res.View.Clue.EntryID)
	}

	w := do(t, srv, "GET", "/game", g.Token, "")
	var v game.View
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil || v.Cells[0][4].Letter != "O" {
		t.Fatalf("GET /game: %v %+v", err, v.Cells[0])
	}
}

func TestGiveUpAndShare(t *testing.T) {
	srv := newTestServer(t)
	g := newGame(t, srv, "2025-08-19")

	decodeMove(t, do(t, srv, "POST", "/game/select", g.Token, `{"entryId":"2A"}`))
	res := decodeMove(t, do(t, srv, "POST", "/game/giveup", g.Token, ""))
	if len(res.Update.Solved) != 1 {
		t.Fatalf("give up update = %+v", res.Update)
	}

	w := do(t, srv, "GET", "/game/share", g.Token, "")
	var body struct{ Text string }
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(body.Text, "\n")
	if lines[0] != "Daily 5×5 Cryptic — 2025-08-19" || lines[3] != "🟥🟥🟥🟥🟥" || lines[len(lines)-1] != "#cryptic" {
		t.Fatalf("share text:\n%s", body.Text)
	}
}

func TestHints(t *testing.T) {
	srv := newTestServer(t)
	g := newGame(t, srv, "2025-08-19")

	res := decodeMove(t, do(t, srv, "POST", "/game/hint", g.Token, `{"kind":"definition"}`))
	if !res.View.Clue.ShowDefinition {
		t.Fatal("definition not shown")
	}
	res = decodeMove(t, do(t, srv, "POST", "/game/hint", g.Token, `{"kind":"letter"}`))
	if len(res.Update.Cells) != 1 {
		t.Fatalf("letter hint update = %+v", res.Update)
	}
	if w := do(t, srv, "POST", "/game/hint", g.Token, `{"kind":"answer"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("bad hint kind: %d", w.Code)
	}
}

func TestSelectUnknownEntry(t *testing.T) {
	srv := newTestServer(t)
	g := newGame(t, srv, "2025-08-19")
	if w := do(t, srv, "POST", "/game/select", g.Token, `{"entryId":"9Z"}`); w.Code != http.StatusNotFound {
		t.Fatalf("got %d", w.Code)
	}
	if w := do(t, srv, "POST", "/game/key", g.Token, `{}`); w.Code != http.StatusBadRequest {
		t.Fatalf("empty key: %d", w.Code)
	}
}

func TestRestart(t *testing.T) {
	srv := newTestServer(t)
	g := newGame(t, srv, "2025-08-19")
	decodeMove(t, do(t, srv, "POST", "/game/key", g.Token, `{"key":"x"}`))
	res := decodeMove(t, do(t, srv, "POST", "/game/restart", g.Token, ""))
	if res.View.Cells[0][0].Letter != "" {
		t.Fatal("restart kept letters")
	}
}

func TestTokenRequired(t *testing.T) {
	srv := newTestServer(t)
	if w := do(t, srv, "GET", "/game", "", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: %d", w.Code)
	}
	if w := do(t, srv, "GET", "/game", "garbage", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: %d", w.Code)
	}
	other := New(config.Config{JWTSecret: "other"}, store.NewMemoryStore(0), catalog.Embedded{}, nil)
	tok, _, _ := other.signToken("abc")
	if w := do(t, srv, "GET", "/game", tok, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("foreign token: %d", w.Code)
	}
	tok, _, _ = srv.signToken("no-such-session")
	if w := do(t, srv, "GET", "/game", tok, ""); w.Code != http.StatusNotFound {
		t.Fatalf("unknown session: %d", w.Code)
	}
}

func TestCookieAuth(t *testing.T) {
	srv := newTestServer(t)
	w := do(t, srv, "POST", "/game/new", "", `{"puzzleId":"2025-08-19"}`)
	cookies := w.Result().Cookies()
	if len(cookies) == 0 || cookies[0].Name != "cryptic_token" || !cookies[0].HttpOnly {
		t.Fatalf("cookies = %+v", cookies)
	}
	req := httptest.NewRequest("GET", "/game", nil)
	req.AddCookie(cookies[0])
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("cookie auth: %d", rec.Code)
	}
}

func TestEndGame(t *testing.T) {
	srv := newTestServer(t)
	g := newGame(t, srv, "2025-08-19")
	if w := do(t, srv, "DELETE", "/game", g.Token, ""); w.Code != http.StatusOK {
		t.Fatalf("delete: %d", w.Code)
	}
	if w := do(t, srv, "GET", "/game", g.Token, ""); w.Code != http.StatusNotFound {
		t.Fatalf("after delete: %d", w.Code)
	}
}

func TestNewGameUnknownPuzzle(t *testing.T) {
	srv := newTestServer(t)
	if w := do(t, srv, "POST", "/game/new", "", `{"puzzleId":"nope"}`); w.Code != http.StatusNotFound {
		t.Fatalf("got %d", w.Code)
	}
	if w := do(t, srv, "POST", "/game/new", "", `{bad`); w.Code != http.StatusBadRequest {
		t.Fatalf("bad json: %d", w.Code)
	}
}

func TestNewGameDaily(t *testing.T) {
	srv := newTestServer(t)
	srv.now = func() time.Time { return time.Date(2025, 8, 20, 9, 0, 0, 0, time.UTC) }

	w := do(t, srv, "GET", "/puzzles/daily", "", "")
	if !strings.Contains(w.Body.String(), `"puzzleId":"2025-08-20"`) {
		t.Fatalf("daily: %s", w.Body.String())
	}
	g := newGame(t, srv, "")
	if g.View.PuzzleID != "2025-08-20" {
		t.Fatalf("daily game on %s", g.View.PuzzleID)
	}
}

func TestNewGamePlaceholderWithoutSource(t *testing.T) {
	srv := New(testConfig(t), store.NewMemoryStore(time.Hour), nil, nil)
	g := newGame(t, srv, "")
	if !g.View.Placeholder || g.View.PuzzleID != puzzle.PlaceholderID {
		t.Fatalf("view = %+v", g.View)
	}
}

// countingSource wraps the embedded puzzles and counts reads; ids listed in
// corrupt return unparsable data.
type countingSource struct {
	catalog.Embedded
	reads   map[string]int
	corrupt map[string]bool
}

func (c *countingSource) Raw(ctx context.Context, id string) ([]byte, error) {
	c.reads[id]++
	if c.corrupt[id] {
		return []byte(`{"id":`), nil
	}
	return c.Embedded.Raw(ctx, id)
}

func TestNewGameReadsPuzzleOnce(t *testing.T) {
	src := &countingSource{reads: map[string]int{}, corrupt: map[string]bool{"2025-08-20": true}}
	srv := New(testConfig(t), store.NewMemoryStore(time.Hour), src, nil)

	g := newGame(t, srv, "2025-08-19")
	if g.View.PuzzleID != "2025-08-19" {
		t.Fatalf("game on %s", g.View.PuzzleID)
	}
	if n := src.reads["2025-08-19"]; n != 1 {
		t.Fatalf("puzzle read %d times, want 1", n)
	}

	g = newGame(t, srv, "2025-08-20")
	if !g.View.Placeholder {
		t.Fatalf("corrupt puzzle served as %s", g.View.PuzzleID)
	}
	if n := src.reads["2025-08-20"]; n != 1 {
		t.Fatalf("corrupt puzzle read %d times, want 1", n)
	}
}

func TestAdminImport(t *testing.T) {
	srv := newTestServer(t)
	d := puzzle.PlaceholderData()
	d.ID = "imported"
	good, _ := json.Marshal(d)
	d.Entries[0].Answer = "TOPS"
	bad, _ := json.Marshal(d)

	post := func(user, pw string, body []byte) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/admin/puzzles", strings.NewReader(string(body)))
		if user != "" {
			req.SetBasicAuth(user, pw)
		}
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, req)
		return w
	}

	if w := post("", "", good); w.Code != http.StatusUnauthorized {
		t.Fatalf("no auth: %d", w.Code)
	}
	if w := post("admin", "wrong", good); w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: %d", w.Code)
	}
	w := post("admin", adminPassword, bad)
	if w.Code != http.StatusUnprocessableEntity || !strings.Contains(w.Body.String(), "1A") {
		t.Fatalf("invalid puzzle: %d %s", w.Code, w.Body.String())
	}
	if w := post("admin", adminPassword, good); w.Code != http.StatusCreated {
		t.Fatalf("import: %d %s", w.Code, w.Body.String())
	}

	g := newGame(t, srv, "imported")
	if g.View.Rows != 3 {
		t.Fatalf("imported game view = %+v", g.View)
	}

	del := func(id string) int {
		req := httptest.NewRequest("DELETE", "/admin/puzzles/"+id, nil)
		req.SetBasicAuth("admin", adminPassword)
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, req)
		return w.Code
	}
	if c := del("imported"); c != http.StatusOK {
		t.Fatalf("delete: %d", c)
	}
	if c := del("imported"); c != http.StatusNotFound {
		t.Fatalf("second delete: %d", c)
	}
}

func TestAdminDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.AdminPasswordHash = ""
	srv := New(cfg, store.NewMemoryStore(time.Hour), catalog.Embedded{}, nil)
	req := httptest.NewRequest("POST", "/admin/puzzles", strings.NewReader("{}"))
	req.SetBasicAuth("admin", adminPassword)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("got %d", w.Code)
	}
}

func TestNewGameRateLimited(t *testing.T) {
	srv := newTestServer(t)
	srv.newRL = newRateLimiter(2, time.Hour)
	for i := 0; i < 2; i++ {
		newGame(t, srv, "2025-08-19")
	}
	if w := do(t, srv, "POST", "/game/new", "", ""); w.Code != http.StatusTooManyRequests {
		t.Fatalf("got %d", w.Code)
	}
}

func TestEventsStream(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv)
	defer ts.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g := newGame(t, srv, "2025-08-19")

	req, _ := http.NewRequestWithContext(ctx, "GET", ts.URL+"/game/events?token="+g.Token, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type %q", ct)
	}

	lines := make(chan string, 64)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(resp.Body)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()
	next := func(prefix string) string {
		t.Helper()
		timeout := time.After(3 * time.Second)
		for {
			select {
			case l, ok := <-lines:
				if !ok {
					t.Fatalf("stream closed waiting for %q", prefix)
				}
				if strings.HasPrefix(l, prefix) {
					return l
				}
			case <-timeout:
				t.Fatalf("timed out waiting for %q", prefix)
			}
		}
	}

	next("event: hello")
	if n := srv.events.Count(g.GameID); n != 1 {
		t.Fatalf("subscribers = %d", n)
	}

	for _, k := range "DISCO" {
		kreq, _ := http.NewRequest("POST", ts.URL+"/game/key", strings.NewReader(`{"key":"`+string(k)+`"}`))
		kreq.Header.Set("Authorization", "Bearer "+g.Token)
		kres, err := http.DefaultClient.Do(kreq)
		if err != nil {
			t.Fatal(err)
		}
		kres.Body.Close()
	}

	next("event: solved")
	data := next("data: ")
	if !strings.Contains(data, `"entryId":"1A"`) {
		t.Fatalf("solved data = %s", data)
	}
}

func TestRateLimiterRefill(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := newRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	if !rl.allow("a") || !rl.allow("a") {
		t.Fatal("first two requests should pass")
	}
	if rl.allow("a") {
		t.Fatal("third request should be limited")
	}
	if !rl.allow("b") {
		t.Fatal("other IPs have their own bucket")
	}
	now = now.Add(time.Minute)
	if !rl.allow("a") {
		t.Fatal("bucket should refill")
	}
}

func TestBroadcaster(t *testing.T) {
	b := NewBroadcaster()
	c1 := b.Register("g1")
	c2 := b.Register("g2")

	b.Notifier().Solved(game.SolvedEvent{SessionID: "g1", EntryID: "1A", Complete: true})

	got := []string{(<-c1.ch).Name, (<-c1.ch).Name}
	if got[0] != "solved" || got[1] != "complete" {
		t.Fatalf("events = %v", got)
	}
	select {
	case ev := <-c2.ch:
		t.Fatalf("g2 received %+v", ev)
	default:
	}

	b.Unregister(c1)
	b.Unregister(c1)
	b.CloseAll()
	if b.Count("g2") != 0 {
		t.Fatal("CloseAll left subscribers")
	}
	if _, ok := <-c2.ch; ok {
		t.Fatal("channel not closed")
	}
}
