package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sym "github.com/njchilds90/gosymcore"
	"github.com/njchilds90/gosymcore/internal/config"
	"github.com/njchilds90/gosymcore/internal/exprjson"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer() *Server {
	cfg := config.Default()
	cfg.Workers = 2
	cfg.Limits.MaxExponent = 20
	cfg.Limits.MaxBatch = 4
	return New(cfg, nil)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(method, path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func toolBody(t *testing.T, tool string, params map[string]interface{}) string {
	t.Helper()
	b, err := json.Marshal(ToolRequest{Tool: tool, Params: params})
	require.NoError(t, err)
	return string(b)
}

func decodeResult(t *testing.T, resp ToolResponse) sym.Basic {
	t.Helper()
	m, ok := resp.Result.(map[string]interface{})
	require.True(t, ok, "result is %T", resp.Result)
	e, err := exprjson.Decode(m)
	require.NoError(t, err)
	return e
}

var (
	x = sym.S("x")
	y = sym.S("y")
)

func enc(b sym.Basic) map[string]interface{} { return exprjson.Encode(b) }

func mustPow(a, b sym.Basic) sym.Basic {
	p, err := sym.PowOf(a, b)
	if err != nil {
		panic(err)
	}
	return p
}

func TestHandleHealth(t *testing.T) {
	w := do(t, newTestServer(), http.MethodGet, "/v1/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, Version, resp.Version)
	assert.Contains(t, resp.Tools, "expand")
}

// TestHandleTool_Expand verifies (x+y)**3 expands over HTTP.
func TestHandleTool_Expand(t *testing.T) {
	body := toolBody(t, "expand", map[string]interface{}{"expr": enc(mustPow(sym.AddOf(x, y), sym.N(3)))})
	w := do(t, newTestServer(), http.MethodPost, "/v1/tool", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp ToolResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	want := sym.Sum(
		mustPow(x, sym.N(3)),
		sym.Product(sym.N(3), mustPow(x, sym.N(2)), y),
		sym.Product(sym.N(3), x, mustPow(y, sym.N(2))),
		mustPow(y, sym.N(3)),
	)
	assert.True(t, sym.Eq(want, decodeResult(t, resp)))
	assert.NotEmpty(t, resp.String)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestHandleTool_RequestIDEcho(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}

func TestHandleTool_Diff(t *testing.T) {
	body := toolBody(t, "diff", map[string]interface{}{
		"expr": enc(mustPow(x, sym.N(3))),
		"var":  "x",
	})
	w := do(t, newTestServer(), http.MethodPost, "/v1/tool", body)
	require.Equal(t, http.StatusOK, w.Code)
	var resp ToolResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, sym.Eq(sym.MulOf(sym.N(3), mustPow(x, sym.N(2))), decodeResult(t, resp)))
}

func TestHandleTool_DiffN(t *testing.T) {
	body := toolBody(t, "diffn", map[string]interface{}{
		"expr": enc(mustPow(x, sym.N(3))),
		"var":  "x",
		"n":    3,
	})
	w := do(t, newTestServer(), http.MethodPost, "/v1/tool", body)
	require.Equal(t, http.StatusOK, w.Code)
	var resp ToolResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, sym.Eq(sym.N(6), decodeResult(t, resp)))
}

func TestHandleTool_Subs(t *testing.T) {
	body := toolBody(t, "subs", map[string]interface{}{
		"expr":   enc(sym.AddOf(x, y)),
		"values": map[string]interface{}{"x": enc(sym.N(2)), "y": enc(sym.N(3))},
	})
	w := do(t, newTestServer(), http.MethodPost, "/v1/tool", body)
	require.Equal(t, http.StatusOK, w.Code)
	var resp ToolResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, sym.Eq(sym.N(5), decodeResult(t, resp)))
}

func TestHandleTool_Eval(t *testing.T) {
	body := toolBody(t, "eval", map[string]interface{}{"expr": enc(sym.F(1, 4))})
	w := do(t, newTestServer(), http.MethodPost, "/v1/tool", body)
	require.Equal(t, http.StatusOK, w.Code)
	var resp ToolResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 0.25, resp.Result, 1e-12)
}

func TestHandleTool_FreeSymbols(t *testing.T) {
	body := toolBody(t, "free_symbols", map[string]interface{}{"expr": enc(sym.MulOf(y, sym.SinOf(x)))})
	w := do(t, newTestServer(), http.MethodPost, "/v1/tool", body)
	require.Equal(t, http.StatusOK, w.Code)
	var resp ToolResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []interface{}{"x", "y"}, resp.Result)
}

// TestHandleTool_Errors verifies error classification and status codes.
func TestHandleTool_Errors(t *testing.T) {
	zeroPow := map[string]interface{}{
		"type": "pow",
		"base": enc(sym.N(0)),
		"exp":  enc(sym.N(-1)),
	}
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"malformed", `{"tool":`, http.StatusBadRequest, codeBadRequest},
		{"unknown tool", toolBody(t, "integrate", nil), http.StatusBadRequest, codeBadRequest},
		{"missing expr", toolBody(t, "expand", map[string]interface{}{}), http.StatusBadRequest, codeBadRequest},
		{"division by zero", toolBody(t, "canonicalize", map[string]interface{}{"expr": zeroPow}), http.StatusUnprocessableEntity, "division_by_zero"},
		{"free symbol eval", toolBody(t, "eval", map[string]interface{}{"expr": enc(x)}), http.StatusUnprocessableEntity, "not_implemented"},
		{"exponent limit", toolBody(t, "expand", map[string]interface{}{"expr": enc(mustPow(sym.AddOf(x, y), sym.N(50)))}), http.StatusUnprocessableEntity, "limit_exceeded"},
		{"inexact complex mix", toolBody(t, "canonicalize", map[string]interface{}{"expr": map[string]interface{}{
			"type":  "add",
			"terms": []interface{}{enc(sym.NewRealDouble(0.5)), enc(sym.I)},
		}}), http.StatusUnprocessableEntity, "not_implemented"},
		{"negative n", toolBody(t, "diffn", map[string]interface{}{"expr": enc(x), "var": "x", "n": -1}), http.StatusBadRequest, codeBadRequest},
	}
	s := newTestServer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, "/v1/tool", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			var resp ToolResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Code)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestHandleBatchExpand(t *testing.T) {
	req := BatchRequest{Exprs: []map[string]interface{}{
		enc(mustPow(sym.AddOf(x, sym.N(1)), sym.N(2))),
		{"type": "bogus"},
		enc(mustPow(sym.AddOf(x, y), sym.N(99))),
	}}
	body, err := json.Marshal(req)
	require.NoError(t, err)

	w := do(t, newTestServer(), http.MethodPost, "/v1/expand/batch", string(body))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp BatchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 3)

	want := sym.Sum(mustPow(x, sym.N(2)), sym.MulOf(sym.N(2), x), sym.N(1))
	assert.True(t, sym.Eq(want, decodeResult(t, resp.Results[0])))
	assert.Equal(t, codeBadRequest, resp.Results[1].Code)
	assert.Equal(t, "limit_exceeded", resp.Results[2].Code)
}

func TestHandleBatchExpand_TooLarge(t *testing.T) {
	exprs := make([]map[string]interface{}, 5)
	for i := range exprs {
		exprs[i] = enc(x)
	}
	body, err := json.Marshal(BatchRequest{Exprs: exprs})
	require.NoError(t, err)
	w := do(t, newTestServer(), http.MethodPost, "/v1/expand/batch", string(body))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer()
	do(t, s, http.MethodPost, "/v1/tool", toolBody(t, "canonicalize", map[string]interface{}{"expr": enc(x)}))
	w := do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "gosymcore_tool_calls_total")
}

func TestHandleToolCall_Direct(t *testing.T) {
	resp := newTestServer().HandleToolCall(context.Background(), ToolRequest{
		Tool:   "canonicalize",
		Params: map[string]interface{}{"expr": enc(sym.AddOf(x, x))},
	})
	require.Empty(t, resp.Error)
	assert.Equal(t, "2*x", resp.String)
}

func TestRun_Shutdown(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Addr = "127.0.0.1:0"
	s := New(cfg, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, s.Run(ctx))
}

func TestHandleSchema(t *testing.T) {
	w := do(t, newTestServer(), http.MethodGet, "/v1/schema", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp SchemaResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Tools, len(Tools))
	for i, spec := range resp.Tools {
		assert.Equal(t, Tools[i], spec.Name)
		assert.NotEmpty(t, spec.Description)
		for _, p := range spec.Required {
			assert.Contains(t, spec.Params, p, "%s: %s", spec.Name, p)
		}
	}
}

// TestHandleTool_BodyLimit verifies oversized bodies are rejected.
func TestHandleTool_BodyLimit(t *testing.T) {
	name := strings.Repeat("a", maxBodyBytes)
	body := toolBody(t, "canonicalize", map[string]interface{}{"expr": map[string]interface{}{"type": "sym", "name": name}})
	w := do(t, newTestServer(), http.MethodPost, "/v1/tool", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
