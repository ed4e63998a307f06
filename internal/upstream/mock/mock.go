package mock

import (
	"context"
	"net/http"
	"sync"

	"github.com/codearena/frontend/internal/domain"
	"github.com/codearena/frontend/internal/upstream"
)

// Compile-time interface checks.
var (
	_ upstream.Identity    = (*Identity)(nil)
	_ upstream.Catalog     = (*Catalog)(nil)
	_ upstream.Execution   = (*Execution)(nil)
	_ upstream.Discussion  = (*Discussion)(nil)
	_ upstream.Leaderboard = (*Leaderboard)(nil)
	_ upstream.Hint        = (*Hint)(nil)
)

// Identity is a function-hook mock of the identity service client.
type Identity struct {
	LoginFn   func(ctx context.Context, in domain.LoginInput) (*domain.AuthUser, []*http.Cookie, error)
	SignupFn  func(ctx context.Context, in domain.SignupInput) error
	LogoutFn  func(ctx context.Context, creds upstream.Credentials) error
	RefreshFn func(ctx context.Context, creds upstream.Credentials) ([]*http.Cookie, error)
	MeFn      func(ctx context.Context, creds upstream.Credentials) (*domain.AuthUser, error)

	mu           sync.Mutex
	RefreshCalls int
	MeCalls      int
	LogoutCalls  int
}

func (m *Identity) Login(ctx context.Context, in domain.LoginInput) (*domain.AuthUser, []*http.Cookie, error) {
	if m.LoginFn != nil {
		return m.LoginFn(ctx, in)
	}
	return &domain.AuthUser{ID: "u-1", Email: in.Email, Username: "tester", Role: domain.RoleUser}, nil, nil
}

func (m *Identity) Signup(ctx context.Context, in domain.SignupInput) error {
	if m.SignupFn != nil {
		return m.SignupFn(ctx, in)
	}
	return nil
}

func (m *Identity) Logout(ctx context.Context, creds upstream.Credentials) error {
	m.mu.Lock()
	m.LogoutCalls++
	m.mu.Unlock()
	if m.LogoutFn != nil {
		return m.LogoutFn(ctx, creds)
	}
	return nil
}

func (m *Identity) Refresh(ctx context.Context, creds upstream.Credentials) ([]*http.Cookie, error) {
	m.mu.Lock()
	m.RefreshCalls++
	m.mu.Unlock()
	if m.RefreshFn != nil {
		return m.RefreshFn(ctx, creds)
	}
	return nil, nil
}

func (m *Identity) Me(ctx context.Context, creds upstream.Credentials) (*domain.AuthUser, error) {
	m.mu.Lock()
	m.MeCalls++
	m.mu.Unlock()
	if m.MeFn != nil {
		return m.MeFn(ctx, creds)
	}
	return &domain.AuthUser{ID: "u-1", Email: "tester@example.com", Username: "tester", Role: domain.RoleUser}, nil
}

// Catalog is a function-hook mock of the problem catalog client.
type Catalog struct {
	ListFn   func(ctx context.Context, filters domain.ProblemFilters) (*domain.Page[domain.ProblemSummary], error)
	SearchFn func(ctx context.Context, query string) ([]domain.ProblemSummary, error)
	GetFn    func(ctx context.Context, id int64) (*domain.Problem, error)
	CreateFn func(ctx context.Context, in domain.ProblemInput, authHeader string) (*domain.Problem, error)
	UpdateFn func(ctx context.Context, id int64, in domain.ProblemInput, authHeader string) (*domain.Problem, error)
	DeleteFn func(ctx context.Context, id int64, authHeader string) error
}

func (m *Catalog) List(ctx context.Context, filters domain.ProblemFilters) (*domain.Page[domain.ProblemSummary], error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filters)
	}
	return &domain.Page[domain.ProblemSummary]{}, nil
}

func (m *Catalog) Search(ctx context.Context, query string) ([]domain.ProblemSummary, error) {
	if m.SearchFn != nil {
		return m.SearchFn(ctx, query)
	}
	return nil, nil
}

func (m *Catalog) Get(ctx context.Context, id int64) (*domain.Problem, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *Catalog) Create(ctx context.Context, in domain.ProblemInput, authHeader string) (*domain.Problem, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, in, authHeader)
	}
	return &domain.Problem{Title: in.Title, Difficulty: in.Difficulty, Description: in.Description}, nil
}

func (m *Catalog) Update(ctx context.Context, id int64, in domain.ProblemInput, authHeader string) (*domain.Problem, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, in, authHeader)
	}
	return &domain.Problem{ID: id, Title: in.Title, Difficulty: in.Difficulty, Description: in.Description}, nil
}

func (m *Catalog) Delete(ctx context.Context, id int64, authHeader string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id, authHeader)
	}
	return nil
}

// Execution is a function-hook mock of the execution service client. Created
// submissions are recorded for test assertions.
type Execution struct {
	CreateSubmissionFn    func(ctx context.Context, in domain.CreateSubmissionInput, creds upstream.Credentials) (*domain.Submission, error)
	GetSubmissionFn       func(ctx context.Context, id int64, creds upstream.Credentials) (*domain.Submission, error)
	ListUserSubmissionsFn func(ctx context.Context, userID string, creds upstream.Credentials) ([]domain.Submission, error)
	UserStatsFn           func(ctx context.Context, userID string, creds upstream.Credentials) (*domain.UserStats, error)

	mu      sync.Mutex
	nextID  int64
	Created []domain.Submission
}

func (m *Execution) CreateSubmission(ctx context.Context, in domain.CreateSubmissionInput, creds upstream.Credentials) (*domain.Submission, error) {
	if m.CreateSubmissionFn != nil {
		return m.CreateSubmissionFn(ctx, in, creds)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	sub := domain.Submission{
		ID:         m.nextID,
		UserID:     in.UserID,
		ProblemID:  in.ProblemID,
		Language:   in.Language,
		SourceCode: in.SourceCode,
		Status:     domain.StatusPending,
	}
	m.Created = append(m.Created, sub)
	return &sub, nil
}

func (m *Execution) GetSubmission(ctx context.Context, id int64, creds upstream.Credentials) (*domain.Submission, error) {
	if m.GetSubmissionFn != nil {
		return m.GetSubmissionFn(ctx, id, creds)
	}
	return nil, domain.ErrNotFound
}

func (m *Execution) ListUserSubmissions(ctx context.Context, userID string, creds upstream.Credentials) ([]domain.Submission, error) {
	if m.ListUserSubmissionsFn != nil {
		return m.ListUserSubmissionsFn(ctx, userID, creds)
	}
	return nil, nil
}

func (m *Execution) UserStats(ctx context.Context, userID string, creds upstream.Credentials) (*domain.UserStats, error) {
	if m.UserStatsFn != nil {
		return m.UserStatsFn(ctx, userID, creds)
	}
	return &domain.UserStats{}, nil
}

// Discussion is a function-hook mock of the discussion service client.
type Discussion struct {
	ListForProblemFn func(ctx context.Context, problemID int64) ([]domain.Comment, error)
	CreateFn         func(ctx context.Context, in domain.CreateCommentInput, creds upstream.Credentials) (*domain.Comment, error)
	DeleteFn         func(ctx context.Context, id string, creds upstream.Credentials) error
}

func (m *Discussion) ListForProblem(ctx context.Context, problemID int64) ([]domain.Comment, error) {
	if m.ListForProblemFn != nil {
		return m.ListForProblemFn(ctx, problemID)
	}
	return nil, nil
}

func (m *Discussion) Create(ctx context.Context, in domain.CreateCommentInput, creds upstream.Credentials) (*domain.Comment, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, in, creds)
	}
	return &domain.Comment{ID: "c-1", ProblemID: in.ProblemID, Content: in.Content}, nil
}

func (m *Discussion) Delete(ctx context.Context, id string, creds upstream.Credentials) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id, creds)
	}
	return nil
}

// Leaderboard is a function-hook mock of the leaderboard client.
type Leaderboard struct {
	GlobalFn func(ctx context.Context, limit int) ([]domain.RankingItem, error)
}

func (m *Leaderboard) Global(ctx context.Context, limit int) ([]domain.RankingItem, error) {
	if m.GlobalFn != nil {
		return m.GlobalFn(ctx, limit)
	}
	return nil, nil
}

// Hint is a function-hook mock of the AI hint client.
type Hint struct {
	FetchFn func(ctx context.Context, in domain.HintRequest, creds upstream.Credentials) (string, error)
}

func (m *Hint) Fetch(ctx context.Context, in domain.HintRequest, creds upstream.Credentials) (string, error) {
	if m.FetchFn != nil {
		return m.FetchFn(ctx, in, creds)
	}
	return "try a hash map", nil
}
