package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wsURL(env *testEnv) string {
	return "ws" + strings.TrimPrefix(env.server.URL, "http") + "/ws"
}

func connectWebSocket(t *testing.T, url string, header http.Header) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err, "should connect to WebSocket")
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendJSONRPCRequest(t *testing.T, conn *websocket.Conn, req JSONRPCRequest) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(req), "should send request")
}

func readJSONRPCResponse(t *testing.T, conn *websocket.Conn) JSONRPCResponse {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var resp JSONRPCResponse
	require.NoError(t, conn.ReadJSON(&resp), "should read response")
	return resp
}

func TestWebSocket_Execute(t *testing.T) {
	env := setupTestEnv(t, Config{})
	conn := connectWebSocket(t, wsURL(env), nil)

	sendJSONRPCRequest(t, conn, JSONRPCRequest{
		JSONRPC: "2.0",
		Method:  "execute",
		Params:  json.RawMessage(`{"computerRequest": {"action": "scroll", "coordinates": [{"x": 10, "y": 10}, {"x": -5, "y": 0}]}}`),
		ID:      1,
	})
	resp := readJSONRPCResponse(t, conn)

	assert.Equal(t, "2.0", resp.JSONRPC)
	assert.Equal(t, 1, int(resp.ID.(float64)))
	assert.Nil(t, resp.Error)

	result := resp.Result.(map[string]interface{})
	assert.Equal(t, true, result["success"])
	assert.NotEmpty(t, result["requestId"])
	assert.Equal(t, []string{"move(10,10)", "scrollLeft(5)"}, env.device.Events())
}

func TestWebSocket_SequentialRequests(t *testing.T) {
	env := setupTestEnv(t, Config{})
	conn := connectWebSocket(t, wsURL(env), nil)

	for i, text := range []string{"one", "two", "three"} {
		sendJSONRPCRequest(t, conn, JSONRPCRequest{
			JSONRPC: "2.0",
			Method:  "execute",
			Params:  json.RawMessage(`{"computerRequest": {"action": "type", "text": "` + text + `"}}`),
			ID:      i + 1,
		})
	}

	for i := 1; i <= 3; i++ {
		resp := readJSONRPCResponse(t, conn)
		assert.Equal(t, i, int(resp.ID.(float64)))
		assert.Nil(t, resp.Error)
	}

	assert.Equal(t, []string{"type(one)", "type(two)", "type(three)"}, env.device.Events())
}

func TestWebSocket_Validation(t *testing.T) {
	env := setupTestEnv(t, Config{})

	tests := []struct {
		name    string
		req     JSONRPCRequest
		code    int
		message string
		data    string
	}{
		{
			name:    "wrong version",
			req:     JSONRPCRequest{JSONRPC: "1.0", Method: "execute", ID: 1},
			code:    ErrCodeInvalidRequest,
			message: errTitleInvalidReq,
			data:    errMsgInvalidJSONRPC,
		},
		{
			name:    "missing id",
			req:     JSONRPCRequest{JSONRPC: "2.0", Method: "execute"},
			code:    ErrCodeInvalidRequest,
			message: errTitleInvalidReq,
			data:    errMsgIDRequired,
		},
		{
			name:    "missing method",
			req:     JSONRPCRequest{JSONRPC: "2.0", ID: 1},
			code:    ErrCodeInvalidRequest,
			message: errTitleInvalidReq,
			data:    errMsgMethodRequired,
		},
		{
			name:    "unknown method",
			req:     JSONRPCRequest{JSONRPC: "2.0", Method: "devices", ID: 1},
			code:    ErrCodeMethodNotFound,
			message: errTitleNotFound,
			data:    "devices not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := connectWebSocket(t, wsURL(env), nil)

			sendJSONRPCRequest(t, conn, tt.req)
			resp := readJSONRPCResponse(t, conn)

			errorMap := resp.Error.(map[string]interface{})
			assert.Equal(t, float64(tt.code), errorMap["code"])
			assert.Equal(t, tt.message, errorMap["message"])
			assert.Equal(t, tt.data, errorMap["data"])
		})
	}
}

func TestWebSocket_InvalidJSON(t *testing.T) {
	env := setupTestEnv(t, Config{})
	conn := connectWebSocket(t, wsURL(env), nil)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{not json`)))
	resp := readJSONRPCResponse(t, conn)

	errorMap := resp.Error.(map[string]interface{})
	assert.Equal(t, float64(ErrCodeParseError), errorMap["code"])
	assert.Nil(t, resp.ID)
}

func TestWebSocket_BinaryMessageRejected(t *testing.T) {
	env := setupTestEnv(t, Config{})
	conn := connectWebSocket(t, wsURL(env), nil)

	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte(`{}`)))
	resp := readJSONRPCResponse(t, conn)

	errorMap := resp.Error.(map[string]interface{})
	assert.Equal(t, errMsgTextOnly, errorMap["data"])

	// connection stays usable
	sendJSONRPCRequest(t, conn, JSONRPCRequest{JSONRPC: "2.0", Method: "display_info", ID: 2})
	resp = readJSONRPCResponse(t, conn)
	assert.Nil(t, resp.Error)
}

func TestWebSocket_Auth(t *testing.T) {
	env := setupTestEnv(t, Config{Token: "secret"})

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(env), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	connectWebSocket(t, wsURL(env)+"?token=secret", nil)
	connectWebSocket(t, wsURL(env), http.Header{"Authorization": {"Bearer secret"}})
}

func TestWebSocket_CrossOrigin(t *testing.T) {
	env := setupTestEnv(t, Config{})

	_, _, err := websocket.DefaultDialer.Dial(wsURL(env), http.Header{"Origin": {"http://evil.example"}})
	assert.Error(t, err)

	cors := setupTestEnv(t, Config{EnableCORS: true})
	connectWebSocket(t, wsURL(cors), http.Header{"Origin": {"http://evil.example"}})
}
