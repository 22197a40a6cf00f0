package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"village/internal/auth"
	"village/internal/domain"
	"village/internal/repository/sqlite"
	"village/internal/service"
)

const testPassword = "password123"

type testServer struct {
	router *gin.Engine
	repos  *sqlite.Repositories
	users  service.UserService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "village.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repos := sqlite.NewRepositories(db)
	require.NoError(t, repos.Init(context.Background()))

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	tokens, err := auth.NewTokenIssuer("http-test-secret", time.Hour)
	require.NoError(t, err)

	users := service.NewUserService(repos.Users, hasher, logger)
	handler, err := NewHandler(Services{
		Auth:         service.NewAuthService(repos.Users, hasher, tokens, logger),
		Users:        users,
		Units:        service.NewUnitService(repos.Units, repos.Amenities, logger),
		Reservations: service.NewReservationService(repos.Reservations, logger),
		Tickets:      service.NewTicketService(repos.Tickets, logger),
		Visitors:     service.NewVisitorService(repos.Visitors, logger),
		Payments:     service.NewPaymentService(repos.Payments, nil, logger),
	}, NewMetrics(), logger)
	require.NoError(t, err)

	router := gin.New()
	handler.RegisterRoutes(router)
	return &testServer{router: router, repos: repos, users: users}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) doRaw(t *testing.T, method, path, authorization string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", authorization)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

// account creates a user directly through the service and logs in over HTTP.
func (s *testServer) account(t *testing.T, email string, role domain.Role) (*domain.User, string) {
	t.Helper()
	user, err := s.users.Create(context.Background(), service.CreateUserInput{
		Name:     "User " + email,
		Email:    email,
		Password: testPassword,
		Role:     role,
	})
	require.NoError(t, err)

	w := s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": email, "password": testPassword})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp LoginResponse
	decode(t, w, &resp)
	return user, resp.AccessToken
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	decode(t, w, &body)
	return body.Error
}
