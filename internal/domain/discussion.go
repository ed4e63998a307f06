package domain

import "time"

// Comment is one node of a problem's discussion tree. Comments are created
// and deleted, never edited in place.
type Comment struct {
	ID        string      `json:"id"`
	ProblemID int64       `json:"problemId"`
	UserID    string      `json:"userId"`
	Username  string      `json:"username"`
	Content   string      `json:"content"`
	Parent    *CommentRef `json:"parent,omitempty"`
	Replies   []Comment   `json:"replies,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// CommentRef is the parent pointer embedded in a reply.
type CommentRef struct {
	ID string `json:"id"`
}

// CreateCommentInput is the payload for posting a comment or a reply.
type CreateCommentInput struct {
	ProblemID int64   `json:"problemId" binding:"required"`
	Content   string  `json:"content" binding:"required"`
	ParentID  *string `json:"parentId,omitempty"`
	UserID    string  `json:"userId,omitempty"`
	Username  string  `json:"username,omitempty"`
}

// RankingItem is one row of the global leaderboard.
type RankingItem struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Score    int    `json:"score"`
	Rank     int    `json:"rank"`
}

// HintRequest is the payload for the AI hint service.
type HintRequest struct {
	ProblemID int64  `json:"problemId" binding:"required"`
	Code      string `json:"code" binding:"required"`
	Language  string `json:"language" binding:"required"`
}
