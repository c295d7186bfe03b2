package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"linkup/store"
	"linkup/utils"
)

var (
	users *store.UserStore
	rels  *store.RelationshipStore
)

// Init wires the handler package to its stores. Called once from main;
// tests call it with sqlmock-backed stores.
func Init(userStore *store.UserStore, relStore *store.RelationshipStore) {
	users = userStore
	rels = relStore
}

// storeError maps the domain error taxonomy onto HTTP statuses. All four
// domain conditions are recoverable for the caller; only an unreachable
// store warrants retry.
func storeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		utils.NotFound(c, "not found")
	case errors.Is(err, store.ErrAlreadyExists):
		utils.Conflict(c, "relationship already exists")
	case errors.Is(err, store.ErrSelfReference):
		utils.BadRequest(c, "cannot send a request to yourself")
	case errors.Is(err, store.ErrForbidden):
		utils.Forbidden(c, "not allowed")
	case errors.Is(err, store.ErrUnavailable):
		utils.Unavailable(c, "store unavailable")
	default:
		utils.InternalError(c, "database error")
	}
}
