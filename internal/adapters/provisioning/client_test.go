package provisioning

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SscSPs/pm_dashboard_app/internal/apperrors"
	"github.com/SscSPs/pm_dashboard_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserRequest() domain.NewUserRequest {
	company := "X"
	return domain.NewUserRequest{Email: "new@example.com", Password: "secret1", FullName: "New", Role: domain.RoleUser, CompanyID: &company}
}

func TestCreateUser_Created(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		var body domain.NewUserRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "new@example.com", body.Email)
		assert.Equal(t, "X", *body.CompanyID)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"u9","email":"new@example.com","companyId":"X"}`))
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL, time.Second).CreateUser(context.Background(), "tok", newUserRequest())
	require.NoError(t, err)
	assert.Equal(t, "u9", got.ID)
	assert.Equal(t, "X", *got.CompanyID)
}

func TestCreateUser_StatusMapping(t *testing.T) {
	tests := []struct {
		status int
		body   string
		want   error
		msg    string
	}{
		{http.StatusBadRequest, `{"error":"Missing email"}`, apperrors.ErrValidation, "Missing email"},
		{http.StatusUnauthorized, ``, apperrors.ErrUnauthorized, "Session expired"},
		{http.StatusForbidden, `{"error":"Cross-company violation"}`, apperrors.ErrForbidden, "Cross-company violation"},
		{http.StatusConflict, `{"error":"Email already registered"}`, apperrors.ErrDuplicate, "Email already registered"},
		{http.StatusInternalServerError, `boom`, apperrors.ErrTransport, "Provisioning answered 500"},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, time.Second).CreateUser(context.Background(), "tok", newUserRequest())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.msg, appErr.Message)
		})
	}
}

func TestCreateUser_BreakerOpensOnTransportFailures(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	for range 3 {
		_, err := c.CreateUser(context.Background(), "tok", newUserRequest())
		assert.ErrorIs(t, err, apperrors.ErrTransport)
	}
	_, err := c.CreateUser(context.Background(), "tok", newUserRequest())
	assert.ErrorIs(t, err, apperrors.ErrTransport)
	assert.Equal(t, int32(3), hits.Load(), "open breaker fails fast without calling the function")
}

func TestCreateUser_ClientErrorsDoNotTripBreaker(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	for range 5 {
		_, err := c.CreateUser(context.Background(), "tok", newUserRequest())
		assert.ErrorIs(t, err, apperrors.ErrDuplicate)
	}
	assert.Equal(t, int32(5), hits.Load())
}
