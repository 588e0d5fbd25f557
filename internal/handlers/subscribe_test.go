package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dotmd/internal/config"
	"dotmd/internal/services"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func subscribeRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	gdb, mock := newMockDB(t)
	mail := services.NewMailService(config.Config{})
	r := gin.New()
	r.POST("/api/subscribe", NewSubscribeHandler(services.NewSubscriberService(gdb, mail)).Subscribe)
	return r, mock
}

func postSubscribe(r *gin.Engine, email string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/subscribe", strings.NewReader(`{"email":"`+email+`"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSubscribeNormalizesEmail(t *testing.T) {
	r, mock := subscribeRouter(t)

	mock.ExpectExec(`INSERT INTO "email_subscribers"`).
		WithArgs(sqlmock.AnyArg(), "user@example.com", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := postSubscribe(r, "User@Example.COM")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscribeDuplicateIsStillSuccess(t *testing.T) {
	r, mock := subscribeRouter(t)

	mock.ExpectExec(`INSERT INTO "email_subscribers"`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	w := postSubscribe(r, "user@example.com")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscribeRejectsInvalidEmail(t *testing.T) {
	r, mock := subscribeRouter(t)

	w := postSubscribe(r, "not-an-email")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
