package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mobile-next/desktopcli/commands"
	"github.com/mobile-next/desktopcli/computer"
	"github.com/mobile-next/desktopcli/computer/computertest"
	"github.com/mobile-next/desktopcli/devices"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	device *computertest.Device
	screen *computertest.Screen
	hook   *devices.ShutdownHook
	server *httptest.Server
}

func setupTestEnv(t *testing.T, cfg Config) *testEnv {
	t.Helper()

	env := &testEnv{
		device: computertest.NewDevice(),
		screen: computertest.NewScreen(1920, 1080),
		hook:   devices.NewShutdownHook(),
	}

	opts := computer.DefaultOptions()
	opts.Sleep = computertest.NoSleep

	commands.Setup(&commands.Environment{
		Executor: computer.NewExecutor(env.device, opts),
		Screen:   env.screen,
		Defaults: commands.DefaultDefaults(),
	})

	cfg.Hook = env.hook
	env.server = httptest.NewServer(New(cfg).Handler())

	t.Cleanup(func() {
		env.server.Close()
		commands.Setup(nil)
	})
	return env
}

func postJSON(t *testing.T, url string, body string, header http.Header) (*http.Response, map[string]interface{}) {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func getJSON(t *testing.T, url string, header http.Header) (*http.Response, map[string]interface{}) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	for k, v := range header {
		req.Header[k] = v
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestExecute_LeftClickNormal(t *testing.T) {
	env := setupTestEnv(t, Config{})

	resp, body := postJSON(t, env.server.URL+"/execute", `{
		"computerRequest": {"action": "left_click", "coordinates": [{"x": 500, "y": 500, "type": "normal"}]},
		"screenWidth": 1920, "screenHeight": 1080, "normalFactor": 1000
	}`, nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["requestId"])
	assert.Equal(t, body["requestId"], resp.Header.Get(requestIDHeader))
	assert.Equal(t, []string{"move(960,540)", "click(left)"}, env.device.Events())
}

func TestExecute_KeepsCallerRequestID(t *testing.T) {
	env := setupTestEnv(t, Config{})

	_, body := postJSON(t, env.server.URL+"/execute",
		`{"computerRequest": {"action": "wait"}}`,
		http.Header{requestIDHeader: {"abc-123"}})

	assert.Equal(t, "abc-123", body["requestId"])
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code string
	}{
		{"malformed json", `{"computerRequest":`, "invalid_request"},
		{"unknown action", `{"computerRequest": {"action": "screenshot"}}`, "invalid_request"},
		{"zero normal factor", `{"computerRequest": {"action": "mouse_move", "coordinates": [{"x": 1, "y": 1, "type": "normal"}]}, "normalFactor": 0}`, "invalid_request"},
		{"unknown key", `{"computerRequest": {"action": "key", "text": "hyper+x"}}`, "unknown_key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnv(t, Config{})

			resp, body := postJSON(t, env.server.URL+"/execute", tt.body, nil)

			assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
			assert.NotEmpty(t, body["error"])
			assert.Equal(t, tt.code, body["code"])
			assert.Empty(t, env.device.Events())
		})
	}
}

func TestExecute_DeviceError(t *testing.T) {
	env := setupTestEnv(t, Config{})
	env.device.Fail["click"] = errors.New("display gone")

	resp, body := postJSON(t, env.server.URL+"/execute", `{"computerRequest": {"action": "right_click"}}`, nil)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "device_error", body["code"])
	assert.Contains(t, body["error"], "display gone")
}

func TestExecute_MethodNotAllowed(t *testing.T) {
	env := setupTestEnv(t, Config{})

	resp, err := http.Get(env.server.URL + "/execute")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestScreenshot(t *testing.T) {
	env := setupTestEnv(t, Config{})

	resp, body := getJSON(t, env.server.URL+"/screenshot?format=jpeg&quality=60&maxWidth=640", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1920), body["width"])
	assert.Equal(t, float64(1080), body["height"])
	assert.Equal(t, "jpeg", body["format"])
	assert.NotEmpty(t, body["image"])
}

func TestScreenshot_Errors(t *testing.T) {
	env := setupTestEnv(t, Config{})

	resp, body := getJSON(t, env.server.URL+"/screenshot?quality=high", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body["error"], "quality")

	env.screen.Err = errors.New("capture denied")
	resp, body = getJSON(t, env.server.URL+"/screenshot", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body["error"], "capture denied")
}

func TestHealthAndBanner(t *testing.T) {
	env := setupTestEnv(t, Config{Version: "1.2.3"})

	resp, body := getJSON(t, env.server.URL+"/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "1.2.3", body["version"])

	resp, body = getJSON(t, env.server.URL+"/", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])

	notFound, err := http.Get(env.server.URL + "/nope")
	require.NoError(t, err)
	notFound.Body.Close()
	assert.Equal(t, http.StatusNotFound, notFound.StatusCode)
}

func TestAuth(t *testing.T) {
	env := setupTestEnv(t, Config{Token: "secret"})

	resp, body := postJSON(t, env.server.URL+"/execute", `{"computerRequest": {"action": "wait"}}`, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "unauthorized", body["error"])

	resp, _ = postJSON(t, env.server.URL+"/execute", `{"computerRequest": {"action": "wait"}}`,
		http.Header{"Authorization": {"Bearer wrong"}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = postJSON(t, env.server.URL+"/execute", `{"computerRequest": {"action": "wait"}}`,
		http.Header{"Authorization": {"Bearer secret"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	// health stays open for probes
	resp, _ = getJSON(t, env.server.URL+"/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCORS(t *testing.T) {
	env := setupTestEnv(t, Config{EnableCORS: true})

	req, err := http.NewRequest(http.MethodOptions, env.server.URL+"/execute", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestCORS_DisabledByDefault(t *testing.T) {
	env := setupTestEnv(t, Config{})

	resp, _ := getJSON(t, env.server.URL+"/health", nil)
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func rpc(t *testing.T, url, method string, params string) map[string]interface{} {
	t.Helper()

	body := `{"jsonrpc": "2.0", "id": 1, "method": "` + method + `"`
	if params != "" {
		body += `, "params": ` + params
	}
	body += "}"

	resp, decoded := postJSON(t, url+"/rpc", body, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decoded
}

func TestRPC_Execute(t *testing.T) {
	env := setupTestEnv(t, Config{})

	resp := rpc(t, env.server.URL, "execute", `{"computerRequest": {"action": "key", "text": "ctrl+shift+a"}}`)

	require.Nil(t, resp["error"])
	result := resp["result"].(map[string]interface{})
	assert.Equal(t, true, result["success"])
	assert.Equal(t, []string{"press(LeftCmd,LeftShift,A)", "release(LeftCmd,LeftShift,A)"}, env.device.Events())
}

func TestRPC_ExecuteErrorCarriesKind(t *testing.T) {
	env := setupTestEnv(t, Config{})

	resp := rpc(t, env.server.URL, "execute", `{"computerRequest": {"action": "key", "text": "hyper"}}`)

	errorMap := resp["error"].(map[string]interface{})
	assert.Equal(t, float64(ErrCodeServerError), errorMap["code"])
	data := errorMap["data"].(map[string]interface{})
	assert.Equal(t, "unknown_key", data["code"])
}

func TestRPC_ScreenshotAndDisplayInfo(t *testing.T) {
	env := setupTestEnv(t, Config{})

	resp := rpc(t, env.server.URL, "screenshot", `{"format": "png", "maxWidth": 320}`)
	require.Nil(t, resp["error"])
	shot := resp["result"].(map[string]interface{})
	assert.Equal(t, float64(1920), shot["width"])
	assert.NotEmpty(t, shot["image"])

	resp = rpc(t, env.server.URL, "display_info", "")
	require.Nil(t, resp["error"])
	info := resp["result"].(map[string]interface{})
	assert.Equal(t, float64(1), info["activeDisplays"])
}

func TestRPC_Validation(t *testing.T) {
	env := setupTestEnv(t, Config{})

	tests := []struct {
		name string
		body string
		code int
		data string
	}{
		{"parse error", `{`, ErrCodeParseError, errMsgParseError},
		{"wrong version", `{"jsonrpc": "1.0", "id": 1, "method": "execute"}`, ErrCodeInvalidRequest, errMsgInvalidJSONRPC},
		{"missing id", `{"jsonrpc": "2.0", "method": "execute"}`, ErrCodeInvalidRequest, errMsgIDRequired},
		{"missing method", `{"jsonrpc": "2.0", "id": 1}`, ErrCodeInvalidRequest, errMsgMethodRequired},
		{"unknown method", `{"jsonrpc": "2.0", "id": 1, "method": "io_tap"}`, ErrCodeMethodNotFound, "Method 'io_tap' not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, resp := postJSON(t, env.server.URL+"/rpc", tt.body, nil)

			errorMap := resp["error"].(map[string]interface{})
			assert.Equal(t, float64(tt.code), errorMap["code"])
			assert.Equal(t, tt.data, errorMap["data"])
		})
	}
}

func TestRPC_ServerShutdownRunsHooks(t *testing.T) {
	env := setupTestEnv(t, Config{})

	released := make(chan struct{})
	env.hook.Register("desktop", func() error {
		close(released)
		return nil
	})

	resp := rpc(t, env.server.URL, "server.shutdown", "")
	require.Nil(t, resp["error"])

	select {
	case <-released:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown hooks did not run")
	}
}

func TestRecoverMiddleware(t *testing.T) {
	handler := recoverMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "boom")
}

func TestExecute_QueuedRequestsRunInOrder(t *testing.T) {
	env := setupTestEnv(t, Config{})

	for _, text := range []string{"first", "second"} {
		resp, _ := postJSON(t, env.server.URL+"/execute",
			`{"computerRequest": {"action": "type", "text": "`+text+`"}}`, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	assert.Equal(t, []string{"type(first)", "type(second)"}, env.device.Events())
}

func TestErrorData(t *testing.T) {
	assert.Equal(t, "plain", errorData(errors.New("plain")))

	me := &methodError{Message: "bad", Code: "device_busy"}
	data, err := json.Marshal(errorData(me))
	require.NoError(t, err)
	assert.JSONEq(t, `{"error": "bad", "code": "device_busy"}`, string(bytes.TrimSpace(data)))
}
