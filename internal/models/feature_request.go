package models

import "time"

type FeatureRequest struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Status      string    `json:"status" db:"status"` // pending, under_review, in_progress, completed, rejected
	VotesCount  int       `json:"votes_count" db:"votes_count"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type FeatureRequestVote struct {
	ID               string    `json:"id" db:"id"`
	FeatureRequestID string    `json:"feature_request_id" db:"feature_request_id"`
	UserID           string    `json:"user_id" db:"user_id"`
	VoteType         string    `json:"vote_type" db:"vote_type"` // "upvote" or "downvote"
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// FeatureRequestWithVote is a feature request joined with the calling
// user's own vote, if any
type FeatureRequestWithVote struct {
	FeatureRequest
	UserVoteType *string `json:"user_vote_type,omitempty" db:"user_vote_type"`
}
