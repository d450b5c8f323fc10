package handlers_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupAndLoginFlow(t *testing.T) {
	app := newTestApp(t)

	session := app.signupAndLogin(t, "hong@example.com", "secret1")
	require.NotNil(t, session)

	// The board greets the signed-in user.
	rec := app.do(t, http.MethodGet, "/", nil, "", session)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/write"`)
}

func TestSignupPasswordMismatch(t *testing.T) {
	app := newTestApp(t)

	form := url.Values{
		"email":            {"hong@example.com"},
		"password":         {"secret1"},
		"password_confirm": {"secret2"},
	}
	rec := app.do(t, http.MethodPost, "/signup", strings.NewReader(form.Encode()), formURLEncoded)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "비밀번호가 일치하지 않습니다.")
}

func TestSignupShortPassword(t *testing.T) {
	app := newTestApp(t)

	form := url.Values{
		"email":            {"hong@example.com"},
		"password":         {"12345"},
		"password_confirm": {"12345"},
	}
	rec := app.do(t, http.MethodPost, "/signup", strings.NewReader(form.Encode()), formURLEncoded)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "비밀번호는 최소 6자 이상이어야 합니다.")
}

func TestSignupDuplicateEmail(t *testing.T) {
	app := newTestApp(t)
	app.signupAndLogin(t, "hong@example.com", "secret1")

	form := url.Values{
		"email":            {"hong@example.com"},
		"password":         {"secret1"},
		"password_confirm": {"secret1"},
	}
	rec := app.do(t, http.MethodPost, "/signup", strings.NewReader(form.Encode()), formURLEncoded)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "이미 가입된 이메일입니다.")
}

func TestLoginWrongPassword(t *testing.T) {
	app := newTestApp(t)
	app.signupAndLogin(t, "hong@example.com", "secret1")

	form := url.Values{"email": {"hong@example.com"}, "password": {"wrong"}}
	rec := app.do(t, http.MethodPost, "/login", strings.NewReader(form.Encode()), formURLEncoded)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "로그인 실패: 이메일 또는 비밀번호가 올바르지 않습니다.")
}

func TestLoginUnknownEmail(t *testing.T) {
	app := newTestApp(t)

	form := url.Values{"email": {"nobody@example.com"}, "password": {"secret1"}}
	rec := app.do(t, http.MethodPost, "/login", strings.NewReader(form.Encode()), formURLEncoded)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "로그인 실패: 이메일 또는 비밀번호가 올바르지 않습니다.")
}

func TestLoginPageRedirectsWhenSignedIn(t *testing.T) {
	app := newTestApp(t)
	session := app.signupAndLogin(t, "hong@example.com", "secret1")

	rec := app.do(t, http.MethodGet, "/login", nil, "", session)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestLogoutClearsSession(t *testing.T) {
	app := newTestApp(t)
	session := app.signupAndLogin(t, "hong@example.com", "secret1")

	rec := app.do(t, http.MethodPost, "/logout", nil, "", session)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "로그아웃되었습니다.", flashMessage(t, rec))

	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "board_session" && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "session cookie not expired")
}
