package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/codearena/frontend/internal/domain"
	"github.com/codearena/frontend/internal/session"
	"github.com/codearena/frontend/internal/upstream"
	"github.com/codearena/frontend/internal/upstream/mock"
)

const testCookie = "codearena_session"

func init() {
	gin.SetMode(gin.TestMode)
}

type testDeps struct {
	identity    *mock.Identity
	catalog     *mock.Catalog
	execution   *mock.Execution
	discussion  *mock.Discussion
	leaderboard *mock.Leaderboard
	hints       *mock.Hint
	sessions    *session.Registry
	opts        session.Options
}

func newTestRouter(t *testing.T) (*gin.Engine, *testDeps) {
	return newTestRouterOpts(t, session.Options{})
}

func newTestRouterOpts(t *testing.T, opts session.Options) (*gin.Engine, *testDeps) {
	t.Helper()
	deps := &testDeps{
		identity:    &mock.Identity{},
		catalog:     &mock.Catalog{},
		execution:   &mock.Execution{},
		discussion:  &mock.Discussion{},
		leaderboard: &mock.Leaderboard{},
		hints:       &mock.Hint{},
		sessions:    session.NewRegistry(),
		opts:        opts,
	}
	t.Cleanup(deps.sessions.CloseAll)

	router := NewRouter(&RouterDeps{
		Logger:        zap.NewNop(),
		Sessions:      deps.sessions,
		SessionOpts:   opts,
		SessionCookie: testCookie,
		Identity:      deps.identity,
		Catalog:       deps.catalog,
		Execution:     deps.execution,
		Discussion:    deps.discussion,
		Leaderboard:   deps.leaderboard,
		Hints:         deps.hints,
	})
	return router, deps
}

// loginAs establishes a live session with the given role and returns its
// gateway cookie.
func loginAs(t *testing.T, deps *testDeps, role domain.Role) *http.Cookie {
	t.Helper()
	deps.identity.LoginFn = func(ctx context.Context, in domain.LoginInput) (*domain.AuthUser, []*http.Cookie, error) {
		return &domain.AuthUser{ID: "u-1", Email: in.Email, Username: "tester", Role: role}, nil, nil
	}
	s := session.New(deps.identity, deps.opts, zap.NewNop())
	if _, err := s.Login(context.Background(), domain.LoginInput{Email: "a@b.c", Password: "pw"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	deps.sessions.Add(s)
	return &http.Cookie{Name: testCookie, Value: s.ID()}
}

func doRequest(router *gin.Engine, method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v (%s)", err, w.Body.String())
	}
	return body
}

// Test: a successful login registers a session and sets the gateway cookie.
func TestLogin_EstablishesSession(t *testing.T) {
	router, deps := newTestRouter(t)
	deps.identity.LoginFn = func(ctx context.Context, in domain.LoginInput) (*domain.AuthUser, []*http.Cookie, error) {
		return &domain.AuthUser{ID: "u-1", Email: in.Email, Username: "alice", Role: domain.RoleUser},
			[]*http.Cookie{{Name: "access", Value: "tok"}}, nil
	}

	w := doRequest(router, http.MethodPost, "/api/v1/auth/login", `{"email":"a@b.c","password":"pw"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if body["redirect"] != "/dashboard" {
		t.Errorf("expected /dashboard redirect, got %v", body["redirect"])
	}

	var sid string
	for _, ck := range w.Result().Cookies() {
		if ck.Name == testCookie {
			sid = ck.Value
		}
	}
	if sid == "" {
		t.Fatal("expected the session cookie to be set")
	}
	s := deps.sessions.Get(sid)
	if s == nil || !s.Authenticated() {
		t.Fatal("expected a live authenticated session in the registry")
	}
	if len(s.Credentials().Cookies) != 1 {
		t.Errorf("expected the identity cookie to be held server-side")
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	router, deps := newTestRouter(t)
	deps.identity.LoginFn = func(ctx context.Context, in domain.LoginInput) (*domain.AuthUser, []*http.Cookie, error) {
		return nil, nil, domain.ErrUnauthenticated
	}

	w := doRequest(router, http.MethodPost, "/api/v1/auth/login", `{"email":"a@b.c","password":"bad"}`, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if decodeBody(t, w)["error"] != "Invalid credentials" {
		t.Errorf("unexpected error body: %s", w.Body.String())
	}
}

// Test: logging in over an existing session replaces it; the superseded
// session must not linger in the registry.
func TestLogin_ReplacesPriorSession(t *testing.T) {
	router, deps := newTestRouter(t)
	first := loginAs(t, deps, domain.RoleUser)

	w := doRequest(router, http.MethodPost, "/api/v1/auth/login", `{"email":"a@b.c","password":"pw"}`, first)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	var sid string
	for _, ck := range w.Result().Cookies() {
		if ck.Name == testCookie {
			sid = ck.Value
		}
	}
	if sid == "" || sid == first.Value {
		t.Fatalf("expected a fresh session cookie, got %q", sid)
	}
	if deps.sessions.Get(first.Value) != nil {
		t.Error("expected the superseded session to be removed from the registry")
	}
	if deps.sessions.Get(sid) == nil {
		t.Error("expected the new session in the registry")
	}
}

// Test: /auth/me without a live session or usable identity cookies is a plain
// 401, never a 5xx.
func TestMe_Unauthenticated(t *testing.T) {
	router, deps := newTestRouter(t)
	deps.identity.MeFn = func(ctx context.Context, creds upstream.Credentials) (*domain.AuthUser, error) {
		return nil, domain.ErrUnauthenticated
	}
	deps.identity.RefreshFn = func(ctx context.Context, creds upstream.Credentials) ([]*http.Cookie, error) {
		return nil, domain.ErrUnauthenticated
	}

	w := doRequest(router, http.MethodGet, "/api/v1/auth/me", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d (%s)", w.Code, w.Body.String())
	}
}

// Test: /auth/me with stale identity cookies refreshes once and retries.
func TestMe_BootstrapsFromIdentityCookies(t *testing.T) {
	router, deps := newTestRouter(t)
	deps.identity.MeFn = func(ctx context.Context, creds upstream.Credentials) (*domain.AuthUser, error) {
		for _, ck := range creds.Cookies {
			if ck.Name == "access" && ck.Value == "fresh" {
				return &domain.AuthUser{ID: "u-1", Email: "a@b.c", Username: "alice", Role: domain.RoleUser}, nil
			}
		}
		return nil, domain.ErrUnauthenticated
	}
	deps.identity.RefreshFn = func(ctx context.Context, creds upstream.Credentials) ([]*http.Cookie, error) {
		return []*http.Cookie{{Name: "access", Value: "fresh"}}, nil
	}

	w := doRequest(router, http.MethodGet, "/api/v1/auth/me", "", &http.Cookie{Name: "access", Value: "stale"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	if decodeBody(t, w)["username"] != "alice" {
		t.Errorf("unexpected user body: %s", w.Body.String())
	}
}

func TestLogout_TearsDownSession(t *testing.T) {
	router, deps := newTestRouter(t)
	ck := loginAs(t, deps, domain.RoleUser)
	sid := ck.Value

	w := doRequest(router, http.MethodPost, "/api/v1/auth/logout", "", ck)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	if decodeBody(t, w)["redirect"] != "/login" {
		t.Errorf("expected /login redirect, got %s", w.Body.String())
	}
	if deps.sessions.Get(sid) != nil {
		t.Error("expected the session to be removed from the registry")
	}
}

// Test: submit creates against the execution service with the session's user
// id and starts tracking the new submission.
func TestSubmit_TracksSubmission(t *testing.T) {
	router, deps := newTestRouter(t)
	ck := loginAs(t, deps, domain.RoleUser)

	w := doRequest(router, http.MethodPost, "/api/v1/submissions",
		`{"problemId":42,"language":"python","sourceCode":"print(1)"}`, ck)
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d (%s)", w.Code, w.Body.String())
	}

	if len(deps.execution.Created) != 1 {
		t.Fatalf("expected one created submission, got %d", len(deps.execution.Created))
	}
	if got := deps.execution.Created[0].UserID; got != "u-1" {
		t.Errorf("expected the session's user id, got %q", got)
	}

	s := deps.sessions.Get(ck.Value)
	sub, inFlight, ok := s.Tracker().Current()
	if !ok || !inFlight {
		t.Fatalf("expected an in-flight tracked submission (ok=%v inFlight=%v)", ok, inFlight)
	}
	if sub.ProblemID != 42 {
		t.Errorf("unexpected tracked submission: %+v", sub)
	}
}

// Test: when the create fails nothing is tracked; the browser's submitting
// state clears in the same error response.
func TestSubmit_CreateFailureTracksNothing(t *testing.T) {
	router, deps := newTestRouter(t)
	ck := loginAs(t, deps, domain.RoleUser)
	deps.execution.CreateSubmissionFn = func(ctx context.Context, in domain.CreateSubmissionInput, creds upstream.Credentials) (*domain.Submission, error) {
		return nil, domain.ErrUpstream
	}

	w := doRequest(router, http.MethodPost, "/api/v1/submissions",
		`{"problemId":42,"language":"python","sourceCode":"print(1)"}`, ck)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d (%s)", w.Code, w.Body.String())
	}
	if decodeBody(t, w)["error"] != "Failed to submit code. Please try again." {
		t.Errorf("unexpected error body: %s", w.Body.String())
	}

	s := deps.sessions.Get(ck.Value)
	if _, _, ok := s.Tracker().Current(); ok {
		t.Error("expected nothing tracked after a failed create")
	}
}

// Test: a single submission is fetchable by id for the results view.
func TestSubmissionGet(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		router, deps := newTestRouter(t)
		ck := loginAs(t, deps, domain.RoleUser)
		deps.execution.GetSubmissionFn = func(ctx context.Context, id int64, creds upstream.Credentials) (*domain.Submission, error) {
			return &domain.Submission{ID: id, UserID: "u-1", ProblemID: 42, Status: domain.StatusAccepted}, nil
		}

		w := doRequest(router, http.MethodGet, "/api/v1/submissions/8", "", ck)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
		}
		var sub domain.Submission
		if err := json.Unmarshal(w.Body.Bytes(), &sub); err != nil || sub.ID != 8 {
			t.Fatalf("unexpected body: %s (err=%v)", w.Body.String(), err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		router, deps := newTestRouter(t)
		ck := loginAs(t, deps, domain.RoleUser)
		deps.execution.GetSubmissionFn = func(ctx context.Context, id int64, creds upstream.Credentials) (*domain.Submission, error) {
			return nil, domain.ErrNotFound
		}

		w := doRequest(router, http.MethodGet, "/api/v1/submissions/8", "", ck)
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
		if decodeBody(t, w)["error"] != "Submission not found" {
			t.Errorf("unexpected error body: %s", w.Body.String())
		}
	})
}

// Test: oversized submit payloads are rejected up front, not relayed.
func TestSubmit_BodyTooLarge(t *testing.T) {
	router, deps := newTestRouter(t)
	ck := loginAs(t, deps, domain.RoleUser)

	body := `{"problemId":42,"language":"python","sourceCode":"` + strings.Repeat("a", (1<<20)+1) + `"}`
	w := doRequest(router, http.MethodPost, "/api/v1/submissions", body, ck)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", w.Code)
	}
	if len(deps.execution.Created) != 0 {
		t.Error("expected no submission created upstream")
	}
}

func TestSubmit_RequiresAuth(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/v1/submissions",
		`{"problemId":42,"language":"python","sourceCode":"print(1)"}`, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

// Test: admin catalog routes reject non-admin users with the dashboard
// redirect and accept admins.
func TestAdminCreate_RoleGate(t *testing.T) {
	payload := `{"title":"Two Sum","difficulty":"EASY","description":"Find two numbers adding to target.","testCases":[{"input":"1 2","expectedOutput":"3"}]}`

	t.Run("user is redirected", func(t *testing.T) {
		router, deps := newTestRouter(t)
		ck := loginAs(t, deps, domain.RoleUser)

		w := doRequest(router, http.MethodPost, "/api/v1/admin/problems", payload, ck)
		if w.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d (%s)", w.Code, w.Body.String())
		}
		if decodeBody(t, w)["redirect"] != "/dashboard" {
			t.Errorf("expected /dashboard redirect, got %s", w.Body.String())
		}
	})

	t.Run("admin creates", func(t *testing.T) {
		router, deps := newTestRouter(t)
		ck := loginAs(t, deps, domain.RoleAdmin)

		w := doRequest(router, http.MethodPost, "/api/v1/admin/problems", payload, ck)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d (%s)", w.Code, w.Body.String())
		}
	})
}

func TestAdminCreate_ValidatesInput(t *testing.T) {
	router, deps := newTestRouter(t)
	ck := loginAs(t, deps, domain.RoleAdmin)

	w := doRequest(router, http.MethodPost, "/api/v1/admin/problems",
		`{"title":"Two Sum","difficulty":"EASY","description":"short","testCases":[{"input":"1","expectedOutput":"1"}]}`, ck)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (%s)", w.Code, w.Body.String())
	}
	if decodeBody(t, w)["error"] != "Description must be at least 10 characters" {
		t.Errorf("unexpected error body: %s", w.Body.String())
	}
}

// Test: a missing problem is an explicit not-found state for the detail view.
func TestProblemGet_NotFound(t *testing.T) {
	router, deps := newTestRouter(t)
	deps.catalog.GetFn = func(ctx context.Context, id int64) (*domain.Problem, error) {
		return nil, domain.ErrNotFound
	}

	w := doRequest(router, http.MethodGet, "/api/v1/problems/999", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if decodeBody(t, w)["error"] != "Problem not found" {
		t.Errorf("unexpected error body: %s", w.Body.String())
	}
}

func TestProblemList_PassesFilters(t *testing.T) {
	router, deps := newTestRouter(t)
	var got domain.ProblemFilters
	deps.catalog.ListFn = func(ctx context.Context, filters domain.ProblemFilters) (*domain.Page[domain.ProblemSummary], error) {
		got = filters
		return &domain.Page[domain.ProblemSummary]{
			Content:       []domain.ProblemSummary{{ID: 1, Title: "Two Sum", Difficulty: domain.DifficultyEasy}},
			TotalElements: 1,
			TotalPages:    1,
		}, nil
	}

	w := doRequest(router, http.MethodGet, "/api/v1/problems?page=2&size=5&difficulty=EASY&search=sum", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	if got.Page != 2 || got.Size != 5 || got.Difficulty != domain.DifficultyEasy || got.Search != "sum" {
		t.Errorf("unexpected filters: %+v", got)
	}
}

func TestLeaderboard_Global(t *testing.T) {
	router, deps := newTestRouter(t)
	deps.leaderboard.GlobalFn = func(ctx context.Context, limit int) ([]domain.RankingItem, error) {
		return []domain.RankingItem{{UserID: "u-1", Username: "alice", Score: 900, Rank: 1}}, nil
	}

	w := doRequest(router, http.MethodGet, "/api/v1/leaderboard", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	var ranking []domain.RankingItem
	if err := json.Unmarshal(w.Body.Bytes(), &ranking); err != nil || len(ranking) != 1 {
		t.Fatalf("unexpected body: %s (err=%v)", w.Body.String(), err)
	}
}

// Test: the hint route requires auth and returns the generated hint.
func TestHint_RequiresAuth(t *testing.T) {
	router, deps := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/v1/ai/hint",
		`{"problemId":42,"code":"x","language":"python"}`, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	ck := loginAs(t, deps, domain.RoleUser)
	w = doRequest(router, http.MethodPost, "/api/v1/ai/hint",
		`{"problemId":42,"code":"x","language":"python"}`, ck)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	if decodeBody(t, w)["hint"] != "try a hash map" {
		t.Errorf("unexpected hint body: %s", w.Body.String())
	}
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if decodeBody(t, w)["status"] != "ok" {
		t.Errorf("unexpected health body: %s", w.Body.String())
	}
}

// wireFrame mirrors what the browser reads off the push socket.
type wireFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// fakeRealtimeGateway is a websocket endpoint standing in for the realtime
// gateway. Frames queued on send are pushed to whichever session connects.
type fakeRealtimeGateway struct {
	server *httptest.Server
	send   chan wireFrame
}

func newFakeRealtimeGateway(t *testing.T) *fakeRealtimeGateway {
	t.Helper()
	g := &fakeRealtimeGateway{send: make(chan wireFrame, 32)}
	upgrader := websocket.Upgrader{}
	g.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		closed := make(chan struct{})
		go func() {
			for {
				select {
				case f := <-g.send:
					if err := conn.WriteJSON(f); err != nil {
						return
					}
				case <-closed:
					return
				}
			}
		}()
		defer close(closed)
		for {
			// Drain join-room and the like until the session hangs up.
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(g.server.Close)
	return g
}

func (g *fakeRealtimeGateway) url() string {
	return "ws" + strings.TrimPrefix(g.server.URL, "http")
}

func (g *fakeRealtimeGateway) pushUpdate(t *testing.T, sub domain.Submission) {
	t.Helper()
	raw, err := json.Marshal(sub)
	if err != nil {
		t.Fatalf("marshal submission: %v", err)
	}
	g.send <- wireFrame{Event: "submission-update", Data: raw}
}

// dialBrowserSocket connects to /api/v1/ws the way a browser would, carrying
// the gateway session cookie, and returns a channel of everything pushed to
// it. The channel closes when the socket does.
func dialBrowserSocket(t *testing.T, srvURL string, ck *http.Cookie) <-chan wireFrame {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srvURL, "http") + "/api/v1/ws"
	hdr := http.Header{}
	hdr.Add("Cookie", ck.String())
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, hdr)
	if err != nil {
		t.Fatalf("dial browser socket: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	frames := make(chan wireFrame, 32)
	go func() {
		defer close(frames)
		for {
			var f wireFrame
			if err := conn.ReadJSON(&f); err != nil {
				return
			}
			frames <- f
		}
	}()
	return frames
}

// Test: the push socket forwards only updates for the tracked submission,
// announces the verdict once on the terminal one, and reports a gateway drop.
func TestStream_ForwardsTrackedUpdates(t *testing.T) {
	gw := newFakeRealtimeGateway(t)
	router, deps := newTestRouterOpts(t, session.Options{
		RealtimeURL: gw.url(),
		DialTimeout: time.Second,
	})
	ck := loginAs(t, deps, domain.RoleUser)

	w := doRequest(router, http.MethodPost, "/api/v1/submissions",
		`{"problemId":42,"language":"python","sourceCode":"print(1)"}`, ck)
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d (%s)", w.Code, w.Body.String())
	}

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	frames := dialBrowserSocket(t, srv.URL, ck)

	// Repeat a non-terminal update until one reaches the browser, which
	// proves the handler's subscription is live.
	sync := time.NewTicker(20 * time.Millisecond)
	defer sync.Stop()
	deadline := time.After(5 * time.Second)
	tracked := domain.Submission{ID: 1, UserID: "u-1", ProblemID: 42, Language: "python"}
	for live := false; !live; {
		select {
		case f, ok := <-frames:
			if !ok {
				t.Fatal("browser socket closed before any update arrived")
			}
			if f.Event != "submission-update" {
				t.Fatalf("unexpected first frame %q", f.Event)
			}
			live = true
		case <-sync.C:
			tracked.Status = domain.StatusProcessing
			gw.pushUpdate(t, tracked)
		case <-deadline:
			t.Fatal("no update ever reached the browser")
		}
	}

	// An update for a submission this browser never made must not leak.
	gw.pushUpdate(t, domain.Submission{ID: 99, UserID: "u-2", Status: domain.StatusAccepted})
	tracked.Status = domain.StatusAccepted
	gw.pushUpdate(t, tracked)

	for sawVerdict := false; !sawVerdict; {
		select {
		case f, ok := <-frames:
			if !ok {
				t.Fatal("browser socket closed before the verdict")
			}
			switch f.Event {
			case "submission-update":
				var sub domain.Submission
				if err := json.Unmarshal(f.Data, &sub); err != nil {
					t.Fatalf("decode update: %v", err)
				}
				if sub.ID != 1 {
					t.Fatalf("update for untracked submission %d forwarded", sub.ID)
				}
			case "submission-result":
				var notice verdictNotice
				if err := json.Unmarshal(f.Data, &notice); err != nil {
					t.Fatalf("decode verdict: %v", err)
				}
				if !notice.Accepted || notice.Status != domain.StatusAccepted {
					t.Fatalf("unexpected verdict: %+v", notice)
				}
				if notice.Message != "Success! All test cases passed." {
					t.Errorf("unexpected verdict message %q", notice.Message)
				}
				sawVerdict = true
			default:
				t.Fatalf("unexpected frame %q", f.Event)
			}
		case <-deadline:
			t.Fatal("verdict never reached the browser")
		}
	}

	// Killing the gateway side must surface as a disconnect notice, not a
	// silent close.
	gw.server.CloseClientConnections()
	for {
		select {
		case f, ok := <-frames:
			if !ok {
				t.Fatal("browser socket closed without a disconnect notice")
			}
			if f.Event == "realtime-disconnected" {
				return
			}
		case <-deadline:
			t.Fatal("disconnect notice never arrived")
		}
	}
}

// Test: with no realtime gateway behind the session the socket says so
// immediately instead of hanging.
func TestStream_RealtimeUnavailable(t *testing.T) {
	router, deps := newTestRouter(t)
	ck := loginAs(t, deps, domain.RoleUser)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	frames := dialBrowserSocket(t, srv.URL, ck)

	select {
	case f, ok := <-frames:
		if !ok {
			t.Fatal("browser socket closed without a frame")
		}
		if f.Event != "realtime-unavailable" {
			t.Fatalf("expected realtime-unavailable, got %q", f.Event)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no frame arrived on the browser socket")
	}
}
