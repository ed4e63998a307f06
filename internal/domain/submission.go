package domain

import "time"

// Status represents the lifecycle state of a code submission as reported by
// the execution service.
type Status string

const (
	StatusPending             Status = "PENDING"
	StatusQueued              Status = "QUEUED"
	StatusProcessing          Status = "PROCESSING"
	StatusAccepted            Status = "ACCEPTED"
	StatusWrongAnswer         Status = "WRONG_ANSWER"
	StatusTimeLimitExceeded   Status = "TIME_LIMIT_EXCEEDED"
	StatusMemoryLimitExceeded Status = "MEMORY_LIMIT_EXCEEDED"
	StatusRuntimeError        Status = "RUNTIME_ERROR"
	StatusCompilationError    Status = "COMPILATION_ERROR"
	StatusInternalError       Status = "INTERNAL_ERROR"
)

// IsTerminal returns true if the status is a final verdict. PENDING, QUEUED
// and PROCESSING are the only in-flight states.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusPending, StatusQueued, StatusProcessing:
		return false
	}
	return true
}

// Submission is the execution service's view of one code submission. The
// client never persists these; they live only as tracked session state.
type Submission struct {
	ID              int64        `json:"id"`
	UserID          string       `json:"userId"`
	ProblemID       int64        `json:"problemId"`
	Language        string       `json:"language"`
	SourceCode      string       `json:"sourceCode"`
	Status          Status       `json:"status"`
	ExecutionTime   *int         `json:"executionTime,omitempty"`
	MemoryUsed      *int         `json:"memoryUsed,omitempty"`
	TestCasesPassed int          `json:"testCasesPassed"`
	TotalTestCases  int          `json:"totalTestCases"`
	ErrorMessage    *string      `json:"errorMessage,omitempty"`
	TestResults     []TestResult `json:"testResults,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

// TestResult is the per-test-case outcome attached to a judged submission.
type TestResult struct {
	Passed         bool   `json:"passed"`
	Input          string `json:"input"`
	ExpectedOutput string `json:"expectedOutput"`
	ActualOutput   string `json:"actualOutput"`
	Time           int    `json:"time"`
	Memory         int    `json:"memory"`
	Error          string `json:"error,omitempty"`
}

// CreateSubmissionInput is the payload sent to the execution service.
type CreateSubmissionInput struct {
	UserID     string `json:"userId" binding:"required"`
	ProblemID  int64  `json:"problemId" binding:"required"`
	Language   string `json:"language" binding:"required"`
	SourceCode string `json:"sourceCode" binding:"required"`
}

// UserStats summarizes a user's submission history for the dashboard.
type UserStats struct {
	TotalSubmissions    int     `json:"totalSubmissions"`
	AcceptedSubmissions int     `json:"acceptedSubmissions"`
	AcceptanceRate      float64 `json:"acceptanceRate"`
}
