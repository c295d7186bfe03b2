package handlers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"linkup/config"
	"linkup/store"
)

const testUserID = "alice"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	config.Load()
	os.Exit(m.Run())
}

// newTestServer wires the handlers to sqlmock-backed stores and registers
// the user routes behind a stub auth middleware.
func newTestServer(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	userStore := store.NewUserStore(db)
	Init(userStore, store.NewRelationshipStore(db, userStore))

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", testUserID)
	})

	users := r.Group("/api/users")
	{
		users.GET("", GetRecommendedUsers)
		users.GET("/friends", GetFriends)
		users.GET("/requests", GetFriendRequests)
		users.POST("/requests/:id", SendFriendRequest)
		users.POST("/requests/:id/accept", AcceptFriendRequest)
		users.DELETE("/requests/:id", RemoveRelationship)
	}
	r.POST("/api/sessions/:id", CreateSession)

	return r, mock
}

func doRequest(t *testing.T, r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(method, path, nil)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const (
	selectUserQuery        = "SELECT id, username, display_name, avatar, bio, location, is_onboarded, created_at, updated_at FROM users WHERE id = ?"
	listOnboardedQuery     = "SELECT id, username, display_name, avatar, bio, location, is_onboarded, created_at, updated_at FROM users WHERE id != ? AND is_onboarded = 1 ORDER BY username"
	listForUserQuery       = "SELECT id, user_a, user_b, requester_id, status, created_at, updated_at FROM friendships WHERE (user_a = ? OR user_b = ?)"
	listAcceptedQuery      = "SELECT id, user_a, user_b, requester_id, status, created_at, updated_at FROM friendships WHERE (user_a = ? OR user_b = ?) AND status = ?"
	insertRelationshipStmt = "INSERT INTO friendships (id, user_a, user_b, requester_id, status, created_at, updated_at) VALUES (?, ?, ?, ?, 'pending', ?, ?)"
	acceptRelationshipStmt = "UPDATE friendships SET status = 'accepted', updated_at = ? WHERE user_a = ? AND user_b = ? AND requester_id = ? AND status = 'pending'"
	deleteRelationshipStmt = "DELETE FROM friendships WHERE user_a = ? AND user_b = ?"
	selectRelationshipStmt = "SELECT id, user_a, user_b, requester_id, status, created_at, updated_at FROM friendships WHERE user_a = ? AND user_b = ?"
	userExistsQuery        = "SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)"
	areFriendsQuery        = "SELECT EXISTS(SELECT 1 FROM friendships WHERE user_a = ? AND user_b = ? AND status = 'accepted')"
)

func userRows(ids ...string) *sqlmock.Rows {
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "username", "display_name", "avatar", "bio", "location", "is_onboarded", "created_at", "updated_at"})
	for _, id := range ids {
		rows.AddRow(id, id, id, "", "", "", true, now, now)
	}
	return rows
}

func relationshipRows(entries ...[4]string) *sqlmock.Rows {
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_a", "user_b", "requester_id", "status", "created_at", "updated_at"})
	for i, e := range entries {
		rows.AddRow("rel-"+e[0]+e[1], e[0], e[1], e[2], e[3], now.Add(time.Duration(i)*time.Second), now)
	}
	return rows
}
