package http_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	handler "github.com/nepcourses/nepcourses-api/internal/handler/http"
	mocks "github.com/nepcourses/nepcourses-api/internal/handler/http/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleGoogleLogin_UsesInjectedClientCredentials(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := handler.NewAuthHandler(mocks.NewMockUserUsecase(), "http://localhost:8080", "injected-client-id", "injected-secret")

	r := gin.New()
	r.GET("/auth/google/login", h.HandleGoogleLogin)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/auth/google/login", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusTemporaryRedirect, w.Code)

	location, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "injected-client-id", location.Query().Get("client_id"))
	assert.Equal(t, "http://localhost:8080/api/v1/auth/google/callback", location.Query().Get("redirect_uri"))

	// the CSRF state cookie must match the state sent to Google
	var stateCookie string
	for _, c := range w.Result().Cookies() {
		if c.Name == "oauthState" {
			stateCookie = c.Value
		}
	}
	require.NotEmpty(t, stateCookie)
	assert.Equal(t, stateCookie, location.Query().Get("state"))
}
