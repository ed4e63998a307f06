package upstream

import (
	"context"
	"net/http"

	"github.com/codearena/frontend/internal/domain"
)

// Credentials carries the session cookies issued by the identity service.
// They are relayed verbatim on every credentialed upstream call.
type Credentials struct {
	Cookies []*http.Cookie
}

// Identity is the client contract for the identity service. Login and
// Refresh return any cookies the service set so the session can hold them.
type Identity interface {
	Login(ctx context.Context, in domain.LoginInput) (*domain.AuthUser, []*http.Cookie, error)
	Signup(ctx context.Context, in domain.SignupInput) error
	Logout(ctx context.Context, creds Credentials) error
	Refresh(ctx context.Context, creds Credentials) ([]*http.Cookie, error)
	Me(ctx context.Context, creds Credentials) (*domain.AuthUser, error)
}

// Catalog is the client contract for the problem catalog service. Get
// returns domain.ErrNotFound when the problem does not exist. The admin
// operations authenticate with a bearer credential, not session cookies.
type Catalog interface {
	List(ctx context.Context, filters domain.ProblemFilters) (*domain.Page[domain.ProblemSummary], error)
	Search(ctx context.Context, query string) ([]domain.ProblemSummary, error)
	Get(ctx context.Context, id int64) (*domain.Problem, error)
	Create(ctx context.Context, in domain.ProblemInput, authHeader string) (*domain.Problem, error)
	Update(ctx context.Context, id int64, in domain.ProblemInput, authHeader string) (*domain.Problem, error)
	Delete(ctx context.Context, id int64, authHeader string) error
}

// Execution is the client contract for the execution/judge service.
type Execution interface {
	CreateSubmission(ctx context.Context, in domain.CreateSubmissionInput, creds Credentials) (*domain.Submission, error)
	GetSubmission(ctx context.Context, id int64, creds Credentials) (*domain.Submission, error)
	ListUserSubmissions(ctx context.Context, userID string, creds Credentials) ([]domain.Submission, error)
	UserStats(ctx context.Context, userID string, creds Credentials) (*domain.UserStats, error)
}

// Discussion is the client contract for the discussion service.
type Discussion interface {
	ListForProblem(ctx context.Context, problemID int64) ([]domain.Comment, error)
	Create(ctx context.Context, in domain.CreateCommentInput, creds Credentials) (*domain.Comment, error)
	Delete(ctx context.Context, id string, creds Credentials) error
}

// Leaderboard is the client contract for the leaderboard service.
type Leaderboard interface {
	Global(ctx context.Context, limit int) ([]domain.RankingItem, error)
}

// Hint is the client contract for the AI hint service.
type Hint interface {
	Fetch(ctx context.Context, in domain.HintRequest, creds Credentials) (string, error)
}
