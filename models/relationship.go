package models

import "time"

type RelationshipStatus string

const (
	StatusPending  RelationshipStatus = "pending"
	StatusAccepted RelationshipStatus = "accepted"
)

// Relationship is the single record for an unordered user pair. UserA is
// always the lexicographically smaller id; RequesterID is one of the two.
type Relationship struct {
	ID          string             `json:"id"`
	UserA       string             `json:"user_a"`
	UserB       string             `json:"user_b"`
	RequesterID string             `json:"requester_id"`
	Status      RelationshipStatus `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// Other returns the party opposite to userID, or "" when userID is not part
// of the pair.
func (r *Relationship) Other(userID string) string {
	switch userID {
	case r.UserA:
		return r.UserB
	case r.UserB:
		return r.UserA
	}
	return ""
}

// TargetID is the non-requester side of a pending request.
func (r *Relationship) TargetID() string {
	return r.Other(r.RequesterID)
}

// NormalizePair orders two user ids into the canonical (UserA, UserB) form.
func NormalizePair(a, b string) (string, string) {
	if a > b {
		return b, a
	}
	return a, b
}

// PairKey is the canonical identifier of an unordered pair, also used as the
// channel id handed to the external chat/call provider.
func PairKey(a, b string) string {
	a, b = NormalizePair(a, b)
	return a + ":" + b
}

type RelationshipWithUser struct {
	Relationship
	User UserResponse `json:"user"`
}
