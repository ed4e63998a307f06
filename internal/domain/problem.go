package domain

// Difficulty buckets problems for filtering and display.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// TestCase is a sample input/output pair attached to a problem.
type TestCase struct {
	ID             int64  `json:"id"`
	Input          string `json:"input"`
	ExpectedOutput string `json:"expectedOutput"`
}

// ProblemSummary is the list-view projection of a catalog record.
type ProblemSummary struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Difficulty Difficulty `json:"difficulty"`
}

// Problem is the full catalog record used on the detail view.
type Problem struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Difficulty    Difficulty `json:"difficulty"`
	Description   string     `json:"description"`
	ExampleInput  *string    `json:"exampleInput,omitempty"`
	ExampleOutput *string    `json:"exampleOutput,omitempty"`
	TestCases     []TestCase `json:"testCases"`
}

// TestCaseInput is a test case as submitted by an admin. ID is set only when
// updating an existing case.
type TestCaseInput struct {
	ID             *int64 `json:"id,omitempty"`
	Input          string `json:"input" binding:"required"`
	ExpectedOutput string `json:"expectedOutput" binding:"required"`
}

// ProblemInput is the admin create/update payload for the catalog.
type ProblemInput struct {
	Title         string          `json:"title" binding:"required"`
	Difficulty    Difficulty      `json:"difficulty" binding:"required"`
	Description   string          `json:"description" binding:"required"`
	ExampleInput  string          `json:"exampleInput,omitempty"`
	ExampleOutput string          `json:"exampleOutput,omitempty"`
	TestCases     []TestCaseInput `json:"testCases" binding:"required"`
}

// Page is the catalog service's pagination wrapper.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

// ProblemFilters narrows the catalog list endpoint.
type ProblemFilters struct {
	Page       int
	Size       int
	Difficulty Difficulty
	Search     string
}
