package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sourcegraph/jsonrpc2"
	wsstream "github.com/sourcegraph/jsonrpc2/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/appshell/internal/bridge"
	"github.com/GriffinCanCode/appshell/internal/infrastructure/monitoring"
)

type fakeInvoker struct{}

func (fakeInvoker) Invoke(method string, params []byte, reply bridge.Reply) error {
	switch method {
	case "fs.stat":
		var args []string
		if err := json.Unmarshal(params, &args); err != nil || len(args) == 0 {
			return &bridge.ArgumentError{Method: method, Index: 0, Name: "path", Reason: "missing"}
		}
		go reply([]any{0, args[0]})
		return nil
	case "app.quit":
		go reply([]any{0})
		return nil
	}
	return fmt.Errorf("%w: %s", bridge.ErrUnknownMethod, method)
}

type harness struct {
	hub     *Hub
	server  *httptest.Server
	metrics *monitoring.Metrics
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	metrics := monitoring.NewMetrics()
	hub := NewHub(fakeInvoker{}, Options{Metrics: metrics})
	router := gin.New()
	router.GET("/bridge", hub.HandleConnection)
	server := httptest.NewServer(router)

	t.Cleanup(func() {
		hub.Close()
		server.Close()
		metrics.Close()
	})
	return &harness{hub: hub, server: server, metrics: metrics}
}

func (h *harness) dial(t *testing.T, handler jsonrpc2.Handler) *jsonrpc2.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(h.server.URL, "http") + "/bridge"
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	if handler == nil {
		handler = jsonrpc2.HandlerWithError(func(context.Context, *jsonrpc2.Conn, *jsonrpc2.Request) (any, error) {
			return false, nil
		})
	}
	conn := jsonrpc2.NewConn(context.Background(), wsstream.NewObjectStream(c), handler)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return h.hub.Connections() > 0 }, 5*time.Second, 10*time.Millisecond)
	return conn
}

func TestBridgeCall(t *testing.T) {
	h := newHarness(t)
	conn := h.dial(t, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var result []any
	require.NoError(t, conn.Call(ctx, "fs.stat", []string{"/tmp"}, &result))
	assert.Equal(t, []any{float64(0), "/tmp"}, result)

	require.NoError(t, conn.Call(ctx, "app.quit", nil, &result))
	assert.Equal(t, []any{float64(0)}, result)

	assert.Equal(t, 2.0, testutil.ToFloat64(h.metrics.WSMessages.WithLabelValues("in", "request")))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.WSConnections))
}

func TestCallErrors(t *testing.T) {
	h := newHarness(t)
	conn := h.dial(t, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var rpcErr *jsonrpc2.Error
	err := conn.Call(ctx, "fs.nope", []string{}, nil)
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, int64(jsonrpc2.CodeMethodNotFound), rpcErr.Code)

	err = conn.Call(ctx, "fs.stat", []string{}, nil)
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, int64(jsonrpc2.CodeInvalidParams), rpcErr.Code)
	assert.Contains(t, rpcErr.Message, "fs.stat")
}

func TestSendCommand(t *testing.T) {
	h := newHarness(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := h.hub.SendCommand(ctx, "file.close_window")
	assert.ErrorIs(t, err, ErrNoContent)

	received := make(chan string, 1)
	h.dial(t, jsonrpc2.HandlerWithError(func(_ context.Context, _ *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		var params []string
		if err := json.Unmarshal(*req.Params, &params); err != nil || len(params) != 1 {
			return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: "bad command"}
		}
		received <- req.Method + ":" + params[0]
		return params[0] == "file.close_window", nil
	}))

	handled, err := h.hub.SendCommand(ctx, "file.close_window")
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, "command:file.close_window", <-received)

	handled, err = h.hub.SendCommand(ctx, "edit.undo")
	require.NoError(t, err)
	assert.False(t, handled)
}

func TestDisconnectUnregisters(t *testing.T) {
	h := newHarness(t)
	conn := h.dial(t, nil)
	require.Equal(t, 1, h.hub.Connections())

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return h.hub.Connections() == 0 }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0.0, testutil.ToFloat64(h.metrics.WSConnections))
}

func TestLoopbackOrigin(t *testing.T) {
	tests := []struct {
		origin   string
		expected bool
	}{
		{"", true},
		{"http://localhost:8080", true},
		{"http://127.0.0.1:3000", true},
		{"http://[::1]:3000", true},
		{"https://example.com", false},
		{"http://192.168.1.10", false},
		{"::bad", false},
	}
	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/bridge", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.expected, LoopbackOrigin(r))
		})
	}
}

func TestForeignOriginRejected(t *testing.T) {
	h := newHarness(t)
	url := "ws" + strings.TrimPrefix(h.server.URL, "http") + "/bridge"

	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": []string{"https://example.com"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, 0, h.hub.Connections())
}
