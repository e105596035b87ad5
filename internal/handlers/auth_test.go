package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estatehub/api/internal/middleware"
	"estatehub/api/internal/models"
)

func sessionCookie(rec interface{ Result() *http.Response }) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == middleware.SessionCookie {
			return cookie
		}
	}
	return nil
}

func TestSignup(t *testing.T) {
	env := newTestEnv()

	rec := env.do(http.MethodPost, "/api/v1/auth/signup",
		`{"name":"Ada","email":"ada@example.com","password":"password123","passwordConfirm":"password123"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"token"`)
	assert.Contains(t, rec.Body.String(), `"message":"success"`)
	assert.NotContains(t, rec.Body.String(), `"password"`, "password hash never serialized")

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie, "session cookie issued alongside the body token")
	assert.True(t, cookie.HttpOnly)
	assert.False(t, cookie.Secure, "cookie only secure in production")
	assert.NotEmpty(t, cookie.Value)
}

func TestSignupPasswordMismatch(t *testing.T) {
	env := newTestEnv()

	rec := env.do(http.MethodPost, "/api/v1/auth/signup",
		`{"name":"Ada","email":"ada@example.com","password":"password123","passwordConfirm":"different"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"fail"`)
}

func TestLogin(t *testing.T) {
	env := newTestEnv()
	env.seedUser(t, "ada@example.com", "password123", models.UserRoleViewer)

	rec := env.do(http.MethodPost, "/api/v1/auth/login", `{"email":"ada@example.com","password":"password123"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"token"`)
	require.NotNil(t, sessionCookie(rec))
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv()
	env.seedUser(t, "ada@example.com", "password123", models.UserRoleViewer)

	rec := env.do(http.MethodPost, "/api/v1/auth/login", `{"email":"ada@example.com","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "incorrect email or password")
	assert.Contains(t, rec.Body.String(), `"status":"fail"`)
}

func TestLoginMissingCredentials(t *testing.T) {
	env := newTestEnv()

	rec := env.do(http.MethodPost, "/api/v1/auth/login", `{"email":"ada@example.com"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "please provide email and password")
}

func TestLoginEmptyBody(t *testing.T) {
	env := newTestEnv()

	rec := env.do(http.MethodPost, "/api/v1/auth/login", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "please provide email and password")
}

func TestLogoutOverwritesCookie(t *testing.T) {
	env := newTestEnv()
	user := env.seedUser(t, "ada@example.com", "password123", models.UserRoleViewer)

	rec := env.do(http.MethodGet, "/api/v1/auth/logout", "", withBearer(env.tokenFor(t, user)))

	assert.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.Equal(t, "loggedout", cookie.Value)
	assert.LessOrEqual(t, cookie.MaxAge, 2)
}

func TestLogoutRequiresLogin(t *testing.T) {
	env := newTestEnv()

	rec := env.do(http.MethodGet, "/api/v1/auth/logout", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	env := newTestEnv()

	rec := env.do(http.MethodPost, "/api/v1/auth/forgotPassword", `{"email":"nobody@example.com"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "no user with this email")
}

func TestForgotAndResetPasswordFlow(t *testing.T) {
	env := newTestEnv()
	env.seedUser(t, "ada@example.com", "password123", models.UserRoleViewer)

	rec := env.do(http.MethodPost, "/api/v1/auth/forgotPassword", `{"email":"ada@example.com"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "token sent to email")
	require.NotEmpty(t, env.mail.lastURL)

	rawToken := env.mail.lastURL[strings.LastIndex(env.mail.lastURL, "/")+1:]
	rec = env.do(http.MethodPatch, "/api/v1/auth/resetPassword/"+rawToken,
		`{"password":"new-password-1","passwordConfirm":"new-password-1"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	// the session issued alongside the reset is accepted right away
	var reset struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reset))
	require.NotEmpty(t, reset.Token)
	rec = env.do(http.MethodGet, "/api/v1/user/me", "", withBearer(reset.Token))
	assert.Equal(t, http.StatusOK, rec.Code)

	// the new password works, the old one does not
	rec = env.do(http.MethodPost, "/api/v1/auth/login", `{"email":"ada@example.com","password":"new-password-1"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(http.MethodPost, "/api/v1/auth/login", `{"email":"ada@example.com","password":"password123"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestResetPasswordBadToken(t *testing.T) {
	env := newTestEnv()

	rec := env.do(http.MethodPatch, "/api/v1/auth/resetPassword/bogus",
		`{"password":"new-password-1","passwordConfirm":"new-password-1"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "token is invalid or has expired")
}

func TestUpdateMyPassword(t *testing.T) {
	env := newTestEnv()
	user := env.seedUser(t, "ada@example.com", "password123", models.UserRoleViewer)
	token := env.tokenFor(t, user)

	rec := env.do(http.MethodPatch, "/api/v1/auth/updateMyPassword",
		`{"password":"wrong","newPassword":"new-password-1","confirmNewPassword":"new-password-1"}`,
		withBearer(token))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "incorrect password")

	rec = env.do(http.MethodPatch, "/api/v1/auth/updateMyPassword",
		`{"password":"password123","newPassword":"new-password-1","confirmNewPassword":"new-password-1"}`,
		withBearer(token))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"success"`)
	assert.Contains(t, rec.Body.String(), `"token"`)
}

func TestUpdateMyPasswordIssuesUsableToken(t *testing.T) {
	env := newTestEnv()
	user := env.seedUser(t, "ada@example.com", "password123", models.UserRoleViewer)

	rec := env.do(http.MethodPatch, "/api/v1/auth/updateMyPassword",
		`{"password":"password123","newPassword":"new-password-1","confirmNewPassword":"new-password-1"}`,
		withBearer(env.tokenFor(t, user)))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)

	// the fresh token postdates the change by less than a second and must
	// still clear the protect check
	rec = env.do(http.MethodGet, "/api/v1/user/me", "", withBearer(body.Token))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGoogleLoginMissingCode(t *testing.T) {
	env := newTestEnv()

	rec := env.do(http.MethodGet, "/api/v1/auth/google", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "authorization code missing")
}
