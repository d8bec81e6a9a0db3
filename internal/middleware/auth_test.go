package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"notecaster/internal/models"
	"notecaster/internal/test"
)

func TestAuthMiddleware(t *testing.T) {
	t.Run("valid api key", func(t *testing.T) {
		_, mock := test.NewMockDB(t)
		user := models.User{ID: 1, Name: "alice", APIKey: "valid-key", FeedUUID: "feed-uuid", CreatedAt: time.Now()}
		rows := sqlmock.NewRows([]string{"id", "name", "api_key", "feed_uuid", "created_at", "updated_at"}).
			AddRow(user.ID, user.Name, user.APIKey, user.FeedUUID, user.CreatedAt, user.CreatedAt)
		mock.ExpectQuery(`SELECT \* FROM users WHERE api_key = \$1`).WithArgs("valid-key").WillReturnRows(rows)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer valid-key")
		rr := httptest.NewRecorder()

		mockHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctxUser := r.Context().Value(UserContextKey)
			assert.NotNil(t, ctxUser)
			dbUser, ok := ctxUser.(*models.User)
			assert.True(t, ok)
			assert.Equal(t, user.ID, dbUser.ID)
			w.WriteHeader(http.StatusOK)
		})

		AuthMiddleware(mockHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no authorization header", func(t *testing.T) {
		test.NewMockDB(t)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rr := httptest.NewRecorder()
		AuthMiddleware(nil).ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("invalid authorization header format", func(t *testing.T) {
		test.NewMockDB(t)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic sometoken")
		rr := httptest.NewRecorder()
		AuthMiddleware(nil).ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("unknown api key", func(t *testing.T) {
		_, mock := test.NewMockDB(t)
		mock.ExpectQuery(`SELECT \* FROM users WHERE api_key = \$1`).
			WithArgs("wrong-key").
			WillReturnError(assert.AnError)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer wrong-key")
		rr := httptest.NewRecorder()
		AuthMiddleware(nil).ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
