package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/posener/wstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewwphillips/todoql/internal/handler"
)

func TestAuthToken(t *testing.T) {
	auth, err := handler.NewAuth("a long and random secret", time.Hour)
	require.NoError(t, err)

	token, err := auth.Token("window-1")
	require.NoError(t, err)
	session, err := auth.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "window-1", session)

	other, err := handler.NewAuth("a different secret", time.Hour)
	require.NoError(t, err)
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, handler.ErrUnauthorized, "token signed with another key")

	expired, err := handler.NewAuth("a long and random secret", -time.Minute)
	require.NoError(t, err)
	token, err = expired.Token("window-1")
	require.NoError(t, err)
	_, err = auth.Verify(token)
	assert.ErrorIs(t, err, handler.ErrUnauthorized, "expired token")

	_, err = auth.Verify("not.a.token")
	assert.ErrorIs(t, err, handler.ErrUnauthorized)

	_, err = handler.NewAuth("", time.Hour)
	assert.Error(t, err)
}

func TestAuthRequests(t *testing.T) {
	auth, err := handler.NewAuth("secret", time.Hour)
	require.NoError(t, err)
	token, err := auth.Token("shell")
	require.NoError(t, err)
	h := newHandler(newRepo(t, "a"), handler.WithAuth(auth))

	const body = `{"query": "{ listTodos { totalCount } }"}`
	authData := map[string]struct {
		header, query string
		expected      int
	}{
		"None":        {"", "", http.StatusUnauthorized},
		"Header":      {"Bearer " + token, "", http.StatusOK},
		"QueryParam":  {"", "?token=" + token, http.StatusOK},
		"BadHeader":   {"Bearer " + token + "x", "", http.StatusUnauthorized},
		"NotBearer":   {"Basic " + token, "", http.StatusUnauthorized},
		"HeaderFirst": {"Bearer bad", "?token=" + token, http.StatusUnauthorized},
	}

	for name, testData := range authData {
		t.Run(name, func(t *testing.T) {
			request := httptest.NewRequest("POST", "/graphql"+testData.query, strings.NewReader(body))
			if testData.header != "" {
				request.Header.Set("Authorization", testData.header)
			}
			writer := httptest.NewRecorder()
			h.ServeHTTP(writer, request)
			Assertf(t, writer.Code == testData.expected, "Expected status %d, got %d (%s)", testData.expected, writer.Code, writer.Body.String())
		})
	}

	// Metrics are behind the same check
	for name, testData := range authData {
		t.Run("Metrics"+name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/metrics"+testData.query, nil)
			if testData.header != "" {
				request.Header.Set("Authorization", testData.header)
			}
			writer := httptest.NewRecorder()
			h.MetricsHandler().ServeHTTP(writer, request)
			Assertf(t, writer.Code == testData.expected, "Expected metrics status %d, got %d", testData.expected, writer.Code)
		})
	}

	// Websockets pass the token as a query parameter
	conn, _, err := wstest.NewDialer(h).Dial("ws://localhost/graphql?token="+token, http.Header{"Sec-WebSocket-Protocol": {"graphql-transport-ws"}})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type": "connection_init"}`)))
	_, p, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(p), "connection_ack")
	conn.Close()
}
