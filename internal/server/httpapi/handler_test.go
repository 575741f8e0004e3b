package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/textping/accountd/internal/common"
	"github.com/textping/accountd/internal/logging"
	"github.com/textping/accountd/internal/server/models"
)

type fakeAccountService struct {
	registerOut *models.Account
	registerTok string
	registerErr error

	loginOut *models.Account
	loginTok string
	loginErr error

	profileOut *models.Account
	profileErr error
	gotToken   string

	updateErr error
	gotID     int64
	gotEmail  string

	deleteOut *models.Account
	deleteErr error

	subscribeErr error
	gotSubTime   string
	gotSubNumber string
	gotSubToken  string
}

func (f *fakeAccountService) Register(ctx context.Context, email, password string) (*models.Account, string, error) {
	if f.registerErr != nil {
		return nil, "", f.registerErr
	}
	return f.registerOut, f.registerTok, nil
}

func (f *fakeAccountService) Login(ctx context.Context, email, password string) (*models.Account, string, error) {
	if f.loginErr != nil {
		return nil, "", f.loginErr
	}
	return f.loginOut, f.loginTok, nil
}

func (f *fakeAccountService) ProfileByToken(ctx context.Context, token string) (*models.Account, error) {
	f.gotToken = token
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	return f.profileOut, nil
}

func (f *fakeAccountService) UpdateEmail(ctx context.Context, id int64, email string) error {
	f.gotID, f.gotEmail = id, email
	return f.updateErr
}

func (f *fakeAccountService) Delete(ctx context.Context, id int64) (*models.Account, error) {
	f.gotID = id
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	return f.deleteOut, nil
}

func (f *fakeAccountService) Subscribe(ctx context.Context, token, textTime, phoneNumber string) error {
	f.gotSubToken, f.gotSubTime, f.gotSubNumber = token, textTime, phoneNumber
	return f.subscribeErr
}

func newTestServer(svc AccountService) http.Handler {
	l := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewServer(":0", l, svc).routes()
}

func doRequest(t *testing.T, h http.Handler, method, path, body string, headers map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	r := httptest.NewRequest(method, path, reader)
	for k, v := range headers {
		r.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	res := map[string]any{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	}
	return w, res
}

func TestHome(t *testing.T) {
	h := newTestServer(&fakeAccountService{})

	w, res := doRequest(t, h, http.MethodGet, "/", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello world", res["message"])
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

func TestRegister_Success(t *testing.T) {
	svc := &fakeAccountService{
		registerOut: &models.Account{ID: 1, Email: "a@b.com", PasswordHash: "$2a$10$secret", CreatedAt: time.Now()},
		registerTok: "tok-1",
	}
	h := newTestServer(svc)

	w, res := doRequest(t, h, http.MethodPost, "/api/register", `{"email":"a@b.com","password":"x"}`, nil)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "new user registered!", res["message"])
	assert.Equal(t, "tok-1", res["token"])

	result, ok := res["result"].(map[string]any)
	require.True(t, ok, "result must be an object")
	assert.Equal(t, "a@b.com", result["email"])

	// the digest must never appear in the response
	_, hasPassword := result["password"]
	assert.False(t, hasPassword)
	assert.NotContains(t, w.Body.String(), "$2a$10$secret")
}

func TestRegister_Failures(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		svcErr   error
		wantCode int
		wantMsg  string
	}{
		{"malformed body", `not json`, nil, http.StatusBadRequest, "invalid request body"},
		{"missing fields", `{"email":"a@b.com"}`, common.ErrorValidation, http.StatusBadRequest, "email or password not filled out"},
		{"invalid email", `{"email":"johngmail.com","password":"x"}`, common.ErrorInvalidEmail, http.StatusBadRequest, "invalid email"},
		{"duplicate email", `{"email":"a@b.com","password":"x"}`, common.ErrorAlreadyExists, http.StatusConflict, "email already registered"},
		{"store error", `{"email":"a@b.com","password":"x"}`, common.ErrorInternal, http.StatusInternalServerError, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(&fakeAccountService{registerErr: tt.svcErr})

			w, res := doRequest(t, h, http.MethodPost, "/api/register", tt.body, nil)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantMsg, res["message"])
		})
	}
}

func TestLogin_Success(t *testing.T) {
	svc := &fakeAccountService{
		loginOut: &models.Account{ID: 1, Email: "a@b.com", Token: "tok-2"},
		loginTok: "tok-2",
	}
	h := newTestServer(svc)

	w, res := doRequest(t, h, http.MethodPost, "/api/login", `{"email":"a@b.com","password":"x"}`, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user logged in", res["message"])
	assert.Equal(t, "tok-2", res["token"])

	user, ok := res["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "a@b.com", user["email"])
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name     string
		svcErr   error
		wantCode int
		wantMsg  string
	}{
		{"missing fields", common.ErrorValidation, http.StatusForbidden, "email or password not filled out"},
		{"invalid email", common.ErrorInvalidEmail, http.StatusForbidden, "invalid email"},
		{"bad credentials", common.ErrorUnauthorized, http.StatusForbidden, "email or password is invalid"},
		{"store error", common.ErrorInternal, http.StatusInternalServerError, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(&fakeAccountService{loginErr: tt.svcErr})

			w, res := doRequest(t, h, http.MethodPost, "/api/login", `{"email":"a@b.com","password":"x"}`, nil)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantMsg, res["message"])
		})
	}
}

func TestProfile_Found(t *testing.T) {
	svc := &fakeAccountService{
		profileOut: &models.Account{ID: 4, Email: "a@b.com", Token: "tok-4", ActiveSub: true, PhoneNumber: "1231231234"},
	}
	h := newTestServer(svc)

	w, res := doRequest(t, h, http.MethodGet, "/api/profile", "", map[string]string{"token": "tok-4"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tok-4", svc.gotToken, "raw header token must be the lookup key")

	user, ok := res["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "a@b.com", user["email"])
	assert.Equal(t, true, user["active_sub"])
}

func TestProfile_UnknownToken(t *testing.T) {
	h := newTestServer(&fakeAccountService{profileErr: common.ErrorNotFound})

	w, res := doRequest(t, h, http.MethodGet, "/api/profile", "", map[string]string{"token": "nope"})

	assert.Equal(t, http.StatusOK, w.Code)
	user, present := res["user"]
	assert.True(t, present)
	assert.Nil(t, user)
}

func TestUpdateUser(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		body     string
		svcErr   error
		wantCode int
		wantMsg  string
	}{
		{"success", "/api/user/1", `{"email":"new@b.com"}`, nil, http.StatusOK, "user successfully updated"},
		{"invalid email", "/api/user/1", `{"email":"nope"}`, common.ErrorInvalidEmail, http.StatusForbidden, "invalid email"},
		{"unknown id", "/api/user/99", `{"email":"new@b.com"}`, common.ErrorNotFound, http.StatusNotFound, "user not found"},
		{"non-numeric id", "/api/user/abc", `{"email":"new@b.com"}`, nil, http.StatusNotFound, "user not found"},
		{"duplicate email", "/api/user/1", `{"email":"taken@b.com"}`, common.ErrorAlreadyExists, http.StatusConflict, "email already registered"},
		{"store error", "/api/user/1", `{"email":"new@b.com"}`, common.ErrorInternal, http.StatusInternalServerError, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAccountService{updateErr: tt.svcErr}
			h := newTestServer(svc)

			w, res := doRequest(t, h, http.MethodPut, tt.path, tt.body, nil)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantMsg, res["message"])
		})
	}
}

func TestUpdateUser_PassesID(t *testing.T) {
	svc := &fakeAccountService{}
	h := newTestServer(svc)

	doRequest(t, h, http.MethodPut, "/api/user/17", `{"email":"new@b.com"}`, nil)

	assert.Equal(t, int64(17), svc.gotID)
	assert.Equal(t, "new@b.com", svc.gotEmail)
}

func TestDeleteUser_Success(t *testing.T) {
	svc := &fakeAccountService{
		deleteOut: &models.Account{ID: 5, Email: "gone@b.com", ActiveSub: true, TextTime: "12:00"},
	}
	h := newTestServer(svc)

	w, res := doRequest(t, h, http.MethodDelete, "/api/user/5", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "deleted", res["message"])
	assert.Equal(t, int64(5), svc.gotID)

	user, ok := res["user"].(map[string]any)
	require.True(t, ok, "deleted row's prior values must be returned")
	assert.Equal(t, "gone@b.com", user["email"])
	assert.Equal(t, "12:00", user["text_time"])
}

func TestDeleteUser_NotFound(t *testing.T) {
	h := newTestServer(&fakeAccountService{deleteErr: common.ErrorNotFound})

	w, res := doRequest(t, h, http.MethodDelete, "/api/user/404", "", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "user not found", res["message"])
}

func TestSubscribe_Success(t *testing.T) {
	svc := &fakeAccountService{}
	h := newTestServer(svc)

	w, res := doRequest(t, h, http.MethodPost, "/api/subscribe",
		`{"time":"12:00","number":"1231231234"}`, map[string]string{"token": "tok-7"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "subscription successfully set", res["message"])
	assert.Equal(t, "tok-7", svc.gotSubToken)
	assert.Equal(t, "12:00", svc.gotSubTime)
	assert.Equal(t, "1231231234", svc.gotSubNumber)
}

func TestSubscribe_Failures(t *testing.T) {
	tests := []struct {
		name     string
		svcErr   error
		wantCode int
		wantMsg  string
	}{
		{"missing fields", common.ErrorValidation, http.StatusBadRequest, "phone number and time to receive text are required"},
		{"unknown token", common.ErrorUnauthorized, http.StatusForbidden, "invalid token"},
		{"store error", common.ErrorInternal, http.StatusInternalServerError, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(&fakeAccountService{subscribeErr: tt.svcErr})

			w, res := doRequest(t, h, http.MethodPost, "/api/subscribe", `{"time":"12:00","number":"123"}`, nil)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantMsg, res["message"])
		})
	}
}

func TestRequestID_SetOnResponse(t *testing.T) {
	h := newTestServer(&fakeAccountService{})

	w, _ := doRequest(t, h, http.MethodGet, "/", "", nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	w2, _ := doRequest(t, h, http.MethodGet, "/", "", map[string]string{"X-Request-Id": "fixed-id"})
	assert.Equal(t, "fixed-id", w2.Header().Get("X-Request-Id"))
}
