package store

import (
	"database/sql"
	"errors"
	"time"

	"linkup/models"
	"linkup/utils"
)

// RelationshipStore holds the pairwise relationship state between users. It
// is the only writer of the friendships table; the recommendation and
// friends queries read through it.
//
// Every pair is stored exactly once, canonically ordered (user_a < user_b),
// so lookups and the uk_pair unique key are order-independent. Create,
// Accept and Remove are each a single guarded statement against that key:
// concurrent writers on one pair serialize on the index, writers on
// different pairs never contend.
type RelationshipStore struct {
	db    *sql.DB
	users *UserStore
}

func NewRelationshipStore(db *sql.DB, users *UserStore) *RelationshipStore {
	return &RelationshipStore{db: db, users: users}
}

const relationshipColumns = "id, user_a, user_b, requester_id, status, created_at, updated_at"

// Get returns the relationship for an unordered pair, in either argument
// order. ErrNotFound when no record exists.
func (s *RelationshipStore) Get(userA, userB string) (*models.Relationship, error) {
	a, b := models.NormalizePair(userA, userB)

	var r models.Relationship
	err := s.db.QueryRow(
		"SELECT "+relationshipColumns+" FROM friendships WHERE user_a = ? AND user_b = ?",
		a, b,
	).Scan(&r.ID, &r.UserA, &r.UserB, &r.RequesterID, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

// Create starts a pending request from requesterID to targetID. The insert
// rides on uk_pair: if any record already exists for the pair, pending or
// accepted, the database rejects it and the caller sees ErrAlreadyExists.
// Exactly one of two racing duplicate requests wins.
func (s *RelationshipStore) Create(requesterID, targetID string) (*models.Relationship, error) {
	if requesterID == targetID {
		return nil, ErrSelfReference
	}

	for _, id := range []string{requesterID, targetID} {
		exists, err := s.users.Exists(id)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrNotFound
		}
	}

	a, b := models.NormalizePair(requesterID, targetID)
	r := &models.Relationship{
		ID:          utils.GenerateUUID(),
		UserA:       a,
		UserB:       b,
		RequesterID: requesterID,
		Status:      models.StatusPending,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	_, err := s.db.Exec(
		"INSERT INTO friendships (id, user_a, user_b, requester_id, status, created_at, updated_at) VALUES (?, ?, ?, ?, 'pending', ?, ?)",
		r.ID, r.UserA, r.UserB, r.RequesterID, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return nil, translate(err)
	}
	return r, nil
}

// Accept moves the pending request requesterID→targetID to accepted. Only
// the target may accept: the requester accepting their own request, or a
// third party, gets ErrForbidden. ErrNotFound when no such pending request
// exists. The update is guarded on status='pending', so a pair can only ever
// move pending→accepted and an accepted row is never touched again.
func (s *RelationshipStore) Accept(requesterID, targetID, actingUserID string) (*models.Relationship, error) {
	if actingUserID != targetID || actingUserID == requesterID {
		return nil, ErrForbidden
	}

	a, b := models.NormalizePair(requesterID, targetID)
	now := time.Now()

	res, err := s.db.Exec(
		"UPDATE friendships SET status = 'accepted', updated_at = ? WHERE user_a = ? AND user_b = ? AND requester_id = ? AND status = 'pending'",
		now, a, b, requesterID,
	)
	if err != nil {
		return nil, translate(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, translate(err)
	}
	if affected == 0 {
		// Distinguish "no pending request" from "the actor is the pair's
		// real requester" (sent A→B, A claims to accept B→A).
		rel, gerr := s.Get(a, b)
		if errors.Is(gerr, ErrNotFound) {
			return nil, ErrNotFound
		}
		if gerr != nil {
			return nil, gerr
		}
		if rel.Status == models.StatusPending && rel.TargetID() != actingUserID {
			return nil, ErrForbidden
		}
		return nil, ErrNotFound
	}

	return s.Get(a, b)
}

// Remove deletes the pair's record whatever its status. Rejecting a pending
// request, cancelling one's own, and unfriending all land here: the
// postcondition is identical, no record, and a fresh request may follow.
func (s *RelationshipStore) Remove(userA, userB, actingUserID string) error {
	if actingUserID != userA && actingUserID != userB {
		return ErrForbidden
	}

	a, b := models.NormalizePair(userA, userB)
	res, err := s.db.Exec(
		"DELETE FROM friendships WHERE user_a = ? AND user_b = ?",
		a, b,
	)
	if err != nil {
		return translate(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return translate(err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListForUser returns every relationship touching userID. An empty status
// means all statuses.
func (s *RelationshipStore) ListForUser(userID string, status models.RelationshipStatus) ([]models.Relationship, error) {
	query := "SELECT " + relationshipColumns + " FROM friendships WHERE (user_a = ? OR user_b = ?)"
	args := []interface{}{userID, userID}
	if status != "" {
		query += " AND status = ?"
		args = append(args, string(status))
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	return collectRelationships(rows)
}

// RelatedIDs is the set of users in any relationship state with userID,
// requester and target sides alike. Recommendation excludes this whole set.
func (s *RelationshipStore) RelatedIDs(userID string) (map[string]bool, error) {
	rels, err := s.ListForUser(userID, "")
	if err != nil {
		return nil, err
	}

	related := make(map[string]bool, len(rels))
	for i := range rels {
		if other := rels[i].Other(userID); other != "" {
			related[other] = true
		}
	}
	return related, nil
}

// AreFriends is the gate for chat/call session creation: true only for an
// accepted relationship.
func (s *RelationshipStore) AreFriends(userA, userB string) (bool, error) {
	a, b := models.NormalizePair(userA, userB)

	var exists bool
	err := s.db.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM friendships WHERE user_a = ? AND user_b = ? AND status = 'accepted')",
		a, b,
	).Scan(&exists)
	if err != nil {
		return false, translate(err)
	}
	return exists, nil
}

// PendingFor returns the pending requests addressed to userID, newest first.
func (s *RelationshipStore) PendingFor(userID string) ([]models.Relationship, error) {
	rows, err := s.db.Query(
		"SELECT "+relationshipColumns+" FROM friendships WHERE (user_a = ? OR user_b = ?) AND status = 'pending' AND requester_id != ? ORDER BY created_at DESC",
		userID, userID, userID,
	)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	return collectRelationships(rows)
}

func collectRelationships(rows *sql.Rows) ([]models.Relationship, error) {
	var rels []models.Relationship
	for rows.Next() {
		var r models.Relationship
		if err := rows.Scan(&r.ID, &r.UserA, &r.UserB, &r.RequesterID, &r.Status, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, translate(err)
		}
		rels = append(rels, r)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err)
	}
	return rels, nil
}
