package inbound

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kodapp/resetgate/internal/pkg/config"
	"github.com/kodapp/resetgate/internal/pkg/goerror"
	"github.com/kodapp/resetgate/internal/pkg/instrument"
	"github.com/kodapp/resetgate/internal/pkg/jwt"
	"github.com/kodapp/resetgate/internal/pkg/router"
	"github.com/kodapp/resetgate/internal/pkg/uid"
	"github.com/kodapp/resetgate/internal/reset/usecase"
)

type fakeUsecase struct {
	issueErr  error
	verifyErr error

	issued   []usecase.IssueCodeInput
	verified []usecase.VerifyCodeAndResetInput
}

func (f *fakeUsecase) IssueCode(_ context.Context, in usecase.IssueCodeInput) error {
	f.issued = append(f.issued, in)

	return f.issueErr
}

func (f *fakeUsecase) VerifyCodeAndReset(_ context.Context, in usecase.VerifyCodeAndResetInput) error {
	f.verified = append(f.verified, in)

	return f.verifyErr
}

type envelope struct {
	Message string            `json:"message"`
	Error   map[string]string `json:"error"`
}

type clockNow struct{}

func (clockNow) Now() time.Time { return time.Now() }

func newTestRouter(t *testing.T, uc uc) (*router.Router, jwt.JWT) {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte("app:\n  maintenance:\n    endpoints: []\n"))
	if err != nil {
		t.Fatalf("init config: %v", err)
	}

	tokener, err := jwt.NewHS512(jwt.Config{
		Secret:    []byte(strings.Repeat("k", 64)),
		Issuer:    "resetgate",
		Audiences: []string{"resetgate-web"},
		TTL:       time.Hour,
		Clock:     clockNow{},
		UUID:      uid.NewUUID(),
	})
	if err != nil {
		t.Fatalf("init jwt: %v", err)
	}

	r := router.NewRouter(router.Config{
		Config:     cfg,
		UUID:       uid.NewUUID(),
		JWT:        tokener,
		Instrument: instrument.NewNoop(),
	})
	RegisterHTTPEndpoint(r, uc)

	return r, tokener
}

func doRequest(t *testing.T, r http.Handler, method, path, body, token string) (int, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}

	return rec.Code, env
}

func TestVerifyCodeAndResetEndpoint(t *testing.T) {
	// Arrange
	uc := &fakeUsecase{}
	r, _ := newTestRouter(t, uc)
	body := `{"email":"user@example.com","code":"123456","new_password":"new-secret-1"}`

	// Act: this endpoint is public, no token needed.
	status, env := doRequest(t, r, http.MethodPost, "/api/v1/reset/password", body, "")

	// Assert
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d (%q)", status, env.Message)
	}
	if env.Message != "Your password has been changed successfully." {
		t.Fatalf("unexpected message %q", env.Message)
	}
	if len(uc.verified) != 1 || uc.verified[0].Code != "123456" {
		t.Fatalf("unexpected usecase input: %+v", uc.verified)
	}
}

func TestIssueCodeEndpointRequiresAuth(t *testing.T) {
	// Arrange
	uc := &fakeUsecase{}
	r, _ := newTestRouter(t, uc)

	// Act
	status, _ := doRequest(t, r, http.MethodPost, "/api/v1/reset/code", `{"email":"user@example.com"}`, "")

	// Assert
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", status)
	}
	if len(uc.issued) != 0 {
		t.Fatal("usecase must not run without authentication")
	}
}

func TestIssueCodeEndpoint(t *testing.T) {
	// Arrange
	uc := &fakeUsecase{}
	r, tokener := newTestRouter(t, uc)
	token, err := tokener.Generate("mobile-app")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	// Act
	status, env := doRequest(t, r, http.MethodPost, "/api/v1/reset/code", `{"email":"user@example.com"}`, token)

	// Assert
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d (%q)", status, env.Message)
	}
	if env.Message != "A reset code has been sent to your email." {
		t.Fatalf("unexpected message %q", env.Message)
	}
	if len(uc.issued) != 1 || uc.issued[0].Email != "user@example.com" {
		t.Fatalf("unexpected usecase input: %+v", uc.issued)
	}
}

func TestIssueCodeEndpointThrottled(t *testing.T) {
	// Arrange
	uc := &fakeUsecase{
		issueErr: goerror.NewBusiness("too many reset requests, please try again later",
			goerror.CodeTooManyRequest, "retry_after", "1800"),
	}
	r, tokener := newTestRouter(t, uc)
	token, err := tokener.Generate("mobile-app")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	// Act
	status, env := doRequest(t, r, http.MethodPost, "/api/v1/reset/code", `{"email":"user@example.com"}`, token)

	// Assert
	if status != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", status)
	}
	if env.Error["retry_after"] != "1800" {
		t.Fatalf("expected retry_after hint, got %+v", env.Error)
	}
}

func TestVerifyCodeAndResetEndpointExpired(t *testing.T) {
	// Arrange
	uc := &fakeUsecase{
		verifyErr: goerror.NewBusiness("reset code has expired, request a new code", goerror.CodeTimeout),
	}
	r, _ := newTestRouter(t, uc)
	body := `{"email":"user@example.com","code":"123456","new_password":"new-secret-1"}`

	// Act
	status, env := doRequest(t, r, http.MethodPost, "/api/v1/reset/password", body, "")

	// Assert
	if status != http.StatusRequestTimeout {
		t.Fatalf("expected 408, got %d", status)
	}
	if env.Message != "reset code has expired, request a new code" {
		t.Fatalf("unexpected message %q", env.Message)
	}
}

func TestVerifyCodeAndResetEndpointMalformedBody(t *testing.T) {
	// Arrange
	uc := &fakeUsecase{}
	r, _ := newTestRouter(t, uc)

	// Act
	status, _ := doRequest(t, r, http.MethodPost, "/api/v1/reset/password", `{"email":`, "")

	// Assert
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if len(uc.verified) != 0 {
		t.Fatal("usecase must not run on a malformed body")
	}
}
