package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/mobile-next/desktopcli/commands"
	"github.com/mobile-next/desktopcli/devices"
	"github.com/mobile-next/desktopcli/utils"
	"github.com/sirupsen/logrus"
)

const (
	// Parse error: Invalid JSON was received by the server
	ErrCodeParseError = -32700

	// Invalid Request: The JSON sent is not a valid Request object
	ErrCodeInvalidRequest = -32600

	// Method not found: The method does not exist / is not available
	ErrCodeMethodNotFound = -32601

	// Server error: Internal JSON-RPC error
	ErrCodeServerError = -32000

	// Invalid params: Invalid method parameters
	ErrCodeInvalidParams = -32602

	// Internal error: Internal JSON-RPC error
	ErrCodeInternalError = -32603
)

const (
	errTitleParseError  = "Parse error"
	errTitleInvalidReq  = "Invalid Request"
	errTitleNotFound    = "Method not found"
	errTitleServerError = "Server error"

	errMsgParseError     = "expecting jsonrpc payload"
	errMsgInvalidJSONRPC = "'jsonrpc' must be '2.0'"
	errMsgIDRequired     = "'id' field is required"
	errMsgMethodRequired = "'method' is required"
	errMsgTextOnly       = "only text messages accepted for requests"
)

// Server timeouts. Writes are allowed long enough for a slow type action
// queued behind another request.
const (
	ReadTimeout     = 10 * time.Second
	WriteTimeout    = 2 * time.Minute
	IdleTimeout     = 120 * time.Second
	ShutdownTimeout = 5 * time.Second
)

const requestIDHeader = "X-Request-ID"

var okResponse = map[string]interface{}{"status": "ok"}

type JSONRPCRequest struct {
	// these fields are all omitempty, so we can report back to client if they are missing
	JSONRPC string          `json:"jsonrpc,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      interface{}     `json:"id,omitempty"`
}

// JSONRPCResponse represents a JSON-RPC response
type JSONRPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	Result  interface{} `json:"result,omitempty"`
	Error   interface{} `json:"error,omitempty"`
	ID      interface{} `json:"id"`
}

// Config describes how the HTTP transport is exposed.
type Config struct {
	Addr       string
	EnableCORS bool
	// Token, when set, is required as a bearer token on every route but
	// /health.
	Token string
	// Hook receives the server's own shutdown and is run by server.shutdown.
	Hook    *devices.ShutdownHook
	Version string
}

type Server struct {
	cfg  Config
	http *http.Server

	shutdownOnce sync.Once
}

func New(cfg Config) *Server {
	return &Server{cfg: cfg}
}

// Handler builds the routed and wrapped handler. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", sendBanner)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/execute", handleExecuteHTTP)
	mux.HandleFunc("/screenshot", handleScreenshotHTTP)
	mux.HandleFunc("/rpc", s.handleJSONRPC)
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		s.handleWebSocket(w, r)
	})

	var handler http.Handler = mux
	handler = authMiddleware(s.cfg.Token, handler)
	if s.cfg.EnableCORS {
		handler = corsMiddleware(handler)
	}
	handler = requestIDMiddleware(handler)
	handler = loggingMiddleware(handler)
	return recoverMiddleware(handler)
}

// StartServer listens until the server is shut down via its hook or the
// server.shutdown method.
func StartServer(cfg Config) error {
	return New(cfg).ListenAndServe()
}

func (s *Server) ListenAndServe() error {
	addr, err := utils.NormalizeListenAddr(s.cfg.Addr)
	if err != nil {
		return err
	}

	s.http = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
		IdleTimeout:  IdleTimeout,
	}

	if s.cfg.Hook != nil {
		s.cfg.Hook.Register("http-server", s.Close)
	}

	utils.Info("Starting server on http://%s...", s.http.Addr)
	if s.cfg.Token != "" {
		utils.Info("Bearer token authentication enabled")
	}

	err = s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		utils.Info("Server stopped")
		return nil
	}
	return err
}

// Close drains in-flight requests and stops the listener.
func (s *Server) Close() error {
	if s.http == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.http.Shutdown(ctx)
}

func (s *Server) requestShutdown() {
	s.shutdownOnce.Do(func() {
		utils.Info("Shutdown requested")

		var err error
		if s.cfg.Hook != nil {
			err = s.cfg.Hook.Shutdown()
		} else {
			err = s.Close()
		}
		if err != nil {
			utils.Warn("Shutdown finished with errors: %v", err)
		}
	})
}

func (s *Server) handleJSONRPC(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req JSONRPCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONRPCError(w, nil, ErrCodeParseError, errTitleParseError, errMsgParseError)
		return
	}

	if req.JSONRPC != "2.0" {
		sendJSONRPCError(w, req.ID, ErrCodeInvalidRequest, errTitleInvalidReq, errMsgInvalidJSONRPC)
		return
	}

	if req.ID == nil {
		sendJSONRPCError(w, nil, ErrCodeInvalidRequest, errTitleInvalidReq, errMsgIDRequired)
		return
	}

	if req.Method == "" {
		sendJSONRPCError(w, req.ID, ErrCodeInvalidRequest, errTitleInvalidReq, errMsgMethodRequired)
		return
	}

	log := utils.WithFields(logrus.Fields{
		"requestId": requestIDFrom(r.Context()),
		"rpcId":     req.ID,
		"method":    req.Method,
	})
	log.Debugf("params: %s", string(req.Params))

	handler, exists := s.methodRegistry()[req.Method]
	if !exists {
		sendJSONRPCError(w, req.ID, ErrCodeMethodNotFound, errTitleNotFound, fmt.Sprintf("Method '%s' not found", req.Method))
		return
	}

	result, err := handler(r.Context(), req.Params)
	if err != nil {
		log.Warnf("method failed: %v", err)
		sendJSONRPCError(w, req.ID, ErrCodeServerError, errTitleServerError, errorData(err))
		return
	}

	sendJSONRPCResponse(w, req.ID, result)
}

func sendJSONRPCResponse(w http.ResponseWriter, id interface{}, result interface{}) {
	response := JSONRPCResponse{
		JSONRPC: "2.0",
		Result:  result,
		ID:      id,
	}

	writeJSON(w, http.StatusOK, response)
}

func sendJSONRPCError(w http.ResponseWriter, id interface{}, code int, message string, data interface{}) {
	response := JSONRPCResponse{
		JSONRPC: "2.0",
		Error: map[string]interface{}{
			"code":    code,
			"message": message,
			"data":    data,
		},
		ID: id,
	}

	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func sendBanner(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, okResponse)
}

type healthResponse struct {
	Status         string `json:"status"`
	Version        string `json:"version,omitempty"`
	InputSupported bool   `json:"inputSupported"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:         "ok",
		Version:        s.cfg.Version,
		InputSupported: devices.InputSupported,
	})
}

// executeError is the /execute and /screenshot failure body.
type executeError struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func handleExecuteHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := requestIDFrom(r.Context())

	var req commands.ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusInternalServerError, executeError{
			Error:     fmt.Sprintf("invalid request body: %v", err),
			Code:      "invalid_request",
			RequestID: id,
		})
		return
	}
	req.RequestID = id

	response, _ := commands.ExecuteCommand(r.Context(), req)
	if response.Status == "error" {
		writeJSON(w, http.StatusInternalServerError, executeError{
			Error:     response.Error,
			Code:      response.Code,
			RequestID: id,
		})
		return
	}

	writeJSON(w, http.StatusOK, response.Data)
}

func handleScreenshotHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	req := commands.ScreenshotRequest{
		Format:     query.Get("format"),
		OutputPath: "-",
	}

	var err error
	if req.Quality, err = queryInt(query.Get("quality")); err != nil {
		writeJSON(w, http.StatusInternalServerError, executeError{Error: fmt.Sprintf("invalid quality: %v", err)})
		return
	}
	if req.MaxWidth, err = queryInt(query.Get("maxWidth")); err != nil {
		writeJSON(w, http.StatusInternalServerError, executeError{Error: fmt.Sprintf("invalid maxWidth: %v", err)})
		return
	}

	response := commands.ScreenshotCommand(req)
	if response.Status == "error" {
		writeJSON(w, http.StatusInternalServerError, executeError{Error: response.Error})
		return
	}

	writeJSON(w, http.StatusOK, response.Data)
}

func queryInt(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}
