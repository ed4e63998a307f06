package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/codearena/frontend/internal/domain"
	"github.com/codearena/frontend/internal/metrics"
	"github.com/codearena/frontend/internal/realtime"
	"github.com/codearena/frontend/internal/tracker"
	"github.com/codearena/frontend/internal/upstream"
)

// Options configures session behavior.
type Options struct {
	// RealtimeURL is the websocket endpoint of the realtime gateway.
	RealtimeURL string
	// DialTimeout bounds the realtime handshake.
	DialTimeout time.Duration
	// RefreshInterval is the period of the silent token refresh loop.
	RefreshInterval time.Duration
}

// Session owns one browser session's identity, upstream cookies, realtime
// transport and submission tracker. It is constructed explicitly, started by
// a successful login or bootstrap, and torn down by Close. No other
// component may open a second realtime transport for the same session.
type Session struct {
	id       string
	identity upstream.Identity
	opts     Options
	logger   *zap.Logger

	mu        sync.RWMutex
	user      *domain.AuthUser
	cookies   map[string]*http.Cookie
	transport *realtime.Transport
	track     *tracker.Tracker
	lastSeen  time.Time
	closed    bool

	cancelRefresh context.CancelFunc
	refreshDone   chan struct{}
}

// New creates an unauthenticated session.
func New(identity upstream.Identity, opts Options, logger *zap.Logger) *Session {
	sid, _ := uuid.NewV7()
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = 10 * time.Minute
	}
	return &Session{
		id:       sid.String(),
		identity: identity,
		opts:     opts,
		logger:   logger.With(zap.String("session_id", sid.String())),
		cookies:  make(map[string]*http.Cookie),
		track:    tracker.New(logger, nil),
		lastSeen: time.Now(),
	}
}

// Touch records browser activity, postponing idle expiry.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

// LastSeen returns the time of the last browser request carried by this
// session.
func (s *Session) LastSeen() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen
}

// ID is the opaque value stored in the gateway's own session cookie.
func (s *Session) ID() string { return s.id }

// User returns a copy of the authenticated identity, or nil.
func (s *Session) User() *domain.AuthUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Authenticated reports whether the session currently holds an identity.
func (s *Session) Authenticated() bool {
	return s.User() != nil
}

// Credentials returns the upstream cookies to relay on credentialed calls.
func (s *Session) Credentials() upstream.Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cookies := make([]*http.Cookie, 0, len(s.cookies))
	for _, ck := range s.cookies {
		cookies = append(cookies, ck)
	}
	return upstream.Credentials{Cookies: cookies}
}

// Tracker returns the session's submission tracker.
func (s *Session) Tracker() *tracker.Tracker { return s.track }

// Transport returns the session's realtime transport, or nil when the
// gateway connection is down.
func (s *Session) Transport() *realtime.Transport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transport
}

// Bootstrap resolves identity from cookies carried over from a previous
// session: who-am-I, then on failure one silent refresh and a single retry.
// Settling unauthenticated is a normal outcome, not an error.
func (s *Session) Bootstrap(ctx context.Context, cookies []*http.Cookie) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	for _, ck := range cookies {
		s.cookies[ck.Name] = ck
	}
	s.mu.Unlock()

	user, err := s.identity.Me(ctx, s.Credentials())
	if err != nil {
		fresh, refreshErr := s.identity.Refresh(ctx, s.Credentials())
		if refreshErr != nil {
			s.logger.Debug("Session bootstrap settled unauthenticated", zap.Error(err))
			return
		}
		s.storeCookies(fresh)
		user, err = s.identity.Me(ctx, s.Credentials())
		if err != nil {
			s.logger.Debug("Identity lookup failed after refresh", zap.Error(err))
			return
		}
	}
	// start tears down prior state, so hand it the cookies gathered above.
	s.start(user, s.Credentials().Cookies)
}

// Login authenticates against the identity service and, on success, starts
// the session's resources. The error is returned to the caller; the session
// stays unauthenticated on failure.
func (s *Session) Login(ctx context.Context, in domain.LoginInput) (*domain.AuthUser, error) {
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return nil, domain.ErrSessionClosed
	}

	user, cookies, err := s.identity.Login(ctx, in)
	if err != nil {
		return nil, err
	}
	s.start(user, cookies)
	s.logger.Info("User logged in", zap.String("user_id", user.ID), zap.String("username", user.Username))
	u := *user
	return &u, nil
}

// Logout invalidates the upstream session and tears down local resources.
// On upstream failure the session is left authenticated and the error is
// surfaced to the caller.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.identity.Logout(ctx, s.Credentials()); err != nil {
		return err
	}
	s.teardown()
	s.logger.Info("User logged out")
	return nil
}

// Close releases everything the session holds. Safe to call repeatedly.
func (s *Session) Close() {
	s.teardown()
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// start installs an identity and brings up the refresh loop and, when a
// realtime gateway is configured, the transport joined to the user's room.
func (s *Session) start(user *domain.AuthUser, cookies []*http.Cookie) {
	// A re-login replaces whatever was running.
	s.teardown()

	s.storeCookies(cookies)

	s.mu.Lock()
	u := *user
	s.user = &u
	refreshCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.cancelRefresh = cancel
	s.refreshDone = done
	s.mu.Unlock()

	metrics.SessionsActive.Inc()
	go s.refreshLoop(refreshCtx, done)

	if s.opts.RealtimeURL == "" {
		return
	}
	dialCtx, dialCancel := context.WithTimeout(context.Background(), s.opts.DialTimeout+time.Second)
	defer dialCancel()
	transport, err := realtime.Dial(dialCtx, s.opts.RealtimeURL, user.ID, s.opts.DialTimeout, s.logger)
	if err != nil {
		// The session works without push updates; submissions just never
		// leave the in-flight state until the user reloads.
		s.logger.Error("Realtime gateway unavailable", zap.Error(err))
		return
	}
	s.mu.Lock()
	s.transport = transport
	s.mu.Unlock()
}

// teardown stops the refresh loop, leaves the room and clears identity.
func (s *Session) teardown() {
	s.mu.Lock()
	cancel := s.cancelRefresh
	done := s.refreshDone
	transport := s.transport
	wasAuthenticated := s.user != nil
	s.cancelRefresh = nil
	s.refreshDone = nil
	s.transport = nil
	s.user = nil
	s.cookies = make(map[string]*http.Cookie)
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	if transport != nil {
		transport.Close()
	}
	if wasAuthenticated {
		metrics.SessionsActive.Dec()
	}
	s.track.Clear()
}

// refreshLoop periodically refreshes the access credential. Failures are
// logged and otherwise ignored: the session stays valid until the token
// truly expires, at which point the next identity check flips it.
func (s *Session) refreshLoop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.opts.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cookies, err := s.identity.Refresh(ctx, s.Credentials())
			if err != nil {
				s.logger.Warn("Silent token refresh failed", zap.Error(err))
				continue
			}
			s.storeCookies(cookies)
		}
	}
}

// storeCookies merges newly set cookies over the held ones, by name.
func (s *Session) storeCookies(cookies []*http.Cookie) {
	if len(cookies) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ck := range cookies {
		s.cookies[ck.Name] = ck
	}
}
