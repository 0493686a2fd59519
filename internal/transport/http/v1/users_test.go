package v1

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t)

	c, rec := newJSONContext(e, http.MethodPost, "/v1/users/register", `{"username":"ann","password":"pw"}`)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusOK, rec.Code)

	c, rec = newJSONContext(e, http.MethodPost, "/v1/users/register", `{"username":"ann","password":"other"}`)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusConflict, rec.Code)
	var errResp ErrorResponse
	decode(t, rec, &errResp)
	require.Equal(t, CodeAlreadyExists, errResp.Code)

	for _, tc := range []struct {
		body string
		ok   bool
	}{
		{`{"username":"ann","password":"pw"}`, true},
		{`{"username":"ann","password":"other"}`, false},
		{`{"username":"bob","password":"pw"}`, false},
	} {
		c, rec = newJSONContext(e, http.MethodPost, "/v1/users/login", tc.body)
		require.NoError(t, h.Login(c))
		var resp struct {
			OK bool `json:"ok"`
		}
		decode(t, rec, &resp)
		require.Equal(t, tc.ok, resp.OK, tc.body)
	}
}

func TestRegisterValidation(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t)

	c, rec := newJSONContext(e, http.MethodPost, "/v1/users/register", `{"username":"","password":"pw"}`)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newJSONContext(e, http.MethodPost, "/v1/users/register", `{not json`)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
