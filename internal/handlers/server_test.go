package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/KelvenPer/Aura/internal/auth"
	"github.com/KelvenPer/Aura/internal/clock"
	"github.com/KelvenPer/Aura/internal/handlers"
	"github.com/KelvenPer/Aura/internal/middleware"
	"github.com/KelvenPer/Aura/internal/models"
	"github.com/KelvenPer/Aura/internal/services"
	"github.com/KelvenPer/Aura/internal/testutil"
	"github.com/KelvenPer/Aura/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testNow = time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)

// TestServer - роутер со всеми хэндлерами поверх in-memory репозиториев
type TestServer struct {
	Router   *gin.Engine
	Clock    *clock.FakeClock
	Hasher   *auth.BcryptHasher
	Users    *testutil.UserStore
	Tokens   *testutil.ResetTokenStore
	Patients *testutil.PatientStore
	Mailer   *testutil.RecordingMailer
}

func NewTestServer(t *testing.T, codes ...uint64) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ts := &TestServer{
		Clock:    clock.NewFake(testNow),
		Hasher:   auth.NewBcryptHasher(bcrypt.MinCost),
		Users:    testutil.NewUserStore(),
		Tokens:   testutil.NewResetTokenStore(),
		Patients: testutil.NewPatientStore(),
		Mailer:   &testutil.RecordingMailer{},
	}

	issuer, err := auth.NewTokenIssuer("test-secret", "HS256", 12*time.Hour, ts.Clock)
	require.NoError(t, err)

	container := services.NewServiceContainer(services.Dependencies{
		Repos: services.Repositories{
			Users:        ts.Users,
			ResetTokens:  ts.Tokens,
			Patients:     ts.Patients,
			Appointments: testutil.NewAppointmentStore(ts.Patients),
			Transactions: testutil.NewTransactionStore(),
		},
		Hasher: ts.Hasher,
		Tokens: issuer,
		Mailer: ts.Mailer,
		Clock:  ts.Clock,
		Random: testutil.NewCodeReader(codes...),
		Reset:  services.ResetSettings{TTL: 30 * time.Minute, CodeLength: 6, Supersede: true, ExposeCode: true},
	})

	base := handlers.NewBaseHandler(validator.New())
	gate := middleware.AuthMiddleware(container.AuthService)

	router := gin.New()
	router.Use(middleware.DBMiddleware(testutil.NewTxDB(t, 20)))

	root := router.Group("")
	handlers.NewAuthHandler(base, container.AuthService, container.PasswordResetService).RegisterRoutes(root, gate)
	handlers.NewPatientHandler(base, container.PatientService).RegisterRoutes(root, gate)
	handlers.NewAppointmentHandler(base, container.AppointmentService).RegisterRoutes(root, gate)
	handlers.NewFinanceHandler(base, container.FinanceService).RegisterRoutes(root, gate)
	router.GET("/", handlers.NewHealthHandler(ts.Clock).Health)

	ts.Router = router
	return ts
}

// SendRequest выполняет запрос и возвращает код ответа и тело
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (int, []byte) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.Router.ServeHTTP(rec, req)
	return rec.Code, rec.Body.Bytes()
}

// CreateUser кладет активного пользователя прямо в хранилище
func (ts *TestServer) CreateUser(email, password string) *models.User {
	return ts.Users.Put(ts.Hasher, email, password)
}

// Login логинит пользователя через API и возвращает access token
func (ts *TestServer) Login(t *testing.T, email, password string) string {
	t.Helper()

	status, body := ts.SendRequest(t, http.MethodPost, "/auth/login", "", map[string]interface{}{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, status, string(body))

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

// CreateAndLogin - пользователь плюс его токен
func (ts *TestServer) CreateAndLogin(t *testing.T, email string) (string, *models.User) {
	t.Helper()
	user := ts.CreateUser(email, "secret123")
	return ts.Login(t, email, "secret123"), user
}

type errorBody struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, body []byte) errorBody {
	t.Helper()
	var e errorBody
	require.NoError(t, json.Unmarshal(body, &e), string(body))
	return e
}

func decode(t *testing.T, body []byte, into interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(body, into), string(body))
}
