package ws

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sourcegraph/jsonrpc2"
	wsstream "github.com/sourcegraph/jsonrpc2/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/appshell/internal/api/middleware"
	"github.com/GriffinCanCode/appshell/internal/bridge"
	"github.com/GriffinCanCode/appshell/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/appshell/internal/shared/id"
	"github.com/GriffinCanCode/appshell/internal/shared/utils"
)

// MethodCommand is the native-to-content call offering a command id.
const MethodCommand = "command"

// ErrNoContent is returned by SendCommand when no content is connected.
var ErrNoContent = errors.New("no content connected")

// Invoker runs bridge calls.
type Invoker interface {
	Invoke(method string, params []byte, reply bridge.Reply) error
}

// Options configures a Hub.
type Options struct {
	// CheckOrigin accepts or rejects the websocket handshake. Loopback
	// origins are accepted by default.
	CheckOrigin func(r *http.Request) bool
	Metrics     *monitoring.Metrics
	Logger      *zap.Logger
}

type client struct {
	id     id.ConnID
	conn   *jsonrpc2.Conn
	cancel context.CancelFunc
}

// Hub serves the bridge over JSON-RPC 2.0 websockets and sends commands to
// the most recently connected content.
type Hub struct {
	invoker  Invoker
	metrics  *monitoring.Metrics
	log      *zap.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients []*client
}

// NewHub creates a hub dispatching to invoker.
func NewHub(invoker Invoker, opts Options) *Hub {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.CheckOrigin == nil {
		opts.CheckOrigin = LoopbackOrigin
	}
	return &Hub{
		invoker: invoker,
		metrics: opts.Metrics,
		log:     opts.Logger.Named("ws"),
		upgrader: websocket.Upgrader{
			HandshakeTimeout: 10 * time.Second,
			CheckOrigin:      opts.CheckOrigin,
		},
	}
}

// LoopbackOrigin accepts requests without an Origin header and origins on
// the loopback interface.
func LoopbackOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return origin == "" || middleware.LoopbackOrigin(origin)
}

// HandleConnection upgrades the request and serves bridge calls until the
// content disconnects.
func (h *Hub) HandleConnection(c *gin.Context) {
	wsConn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	wsConn.SetReadLimit(utils.MaxMessageSize)

	ctx, cancel := context.WithCancel(context.Background())
	cl := &client{id: id.NewConnID(), cancel: cancel}
	log := h.log.With(zap.String("conn_id", cl.id.String()))

	cl.conn = jsonrpc2.NewConn(ctx,
		wsstream.NewObjectStream(wsConn),
		jsonrpc2.AsyncHandler(h.handler(log)),
		jsonrpc2.OnRecv(h.onRecv),
	)

	h.add(cl)
	log.Info("Content connected")

	<-cl.conn.DisconnectNotify()

	h.remove(cl)
	cancel()
	log.Info("Content disconnected")
}

func (h *Hub) handler(log *zap.Logger) jsonrpc2.Handler {
	return jsonrpc2.HandlerWithError(func(ctx context.Context, _ *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		var params []byte
		if req.Params != nil {
			params = *req.Params
		}

		result := make(chan []any, 1)
		err := h.invoker.Invoke(req.Method, params, func(r []any) { result <- r })
		if err != nil {
			log.Debug("Rejected call", zap.String("method", req.Method), zap.Error(err))
			return nil, rpcError(err)
		}
		if req.Notif {
			return nil, nil
		}

		select {
		case r := <-result:
			return r, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})
}

func rpcError(err error) *jsonrpc2.Error {
	var argErr *bridge.ArgumentError
	switch {
	case errors.Is(err, bridge.ErrUnknownMethod):
		return &jsonrpc2.Error{Code: jsonrpc2.CodeMethodNotFound, Message: err.Error()}
	case errors.As(err, &argErr):
		return &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: err.Error()}
	default:
		return &jsonrpc2.Error{Code: jsonrpc2.CodeInternalError, Message: err.Error()}
	}
}

func (h *Hub) onRecv(req *jsonrpc2.Request, _ *jsonrpc2.Response) {
	if h.metrics == nil {
		return
	}
	switch {
	case req == nil:
		h.metrics.RecordWSMessage("in", "response")
	case req.Notif:
		h.metrics.RecordWSMessage("in", "notification")
	default:
		h.metrics.RecordWSMessage("in", "request")
	}
}

func (h *Hub) add(cl *client) {
	h.mu.Lock()
	h.clients = append(h.clients, cl)
	h.mu.Unlock()
	if h.metrics != nil {
		h.metrics.IncWSConnections()
	}
}

func (h *Hub) remove(cl *client) {
	h.mu.Lock()
	for i, c := range h.clients {
		if c == cl {
			h.clients = append(h.clients[:i], h.clients[i+1:]...)
			break
		}
	}
	h.mu.Unlock()
	if h.metrics != nil {
		h.metrics.DecWSConnections()
	}
}

// Connections returns the number of connected clients.
func (h *Hub) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SendCommand offers commandID to the most recently connected content and
// reports whether it was handled.
func (h *Hub) SendCommand(ctx context.Context, commandID string) (bool, error) {
	h.mu.RLock()
	var cl *client
	if n := len(h.clients); n > 0 {
		cl = h.clients[n-1]
	}
	h.mu.RUnlock()
	if cl == nil {
		return false, ErrNoContent
	}

	if h.metrics != nil {
		h.metrics.RecordWSMessage("out", MethodCommand)
	}
	log := h.log.With(
		zap.String("conn_id", cl.id.String()),
		zap.String("call_id", id.NewCallID().String()),
		zap.String("command", commandID),
	)

	var handled bool
	if err := cl.conn.Call(ctx, MethodCommand, []string{commandID}, &handled); err != nil {
		log.Debug("Command call failed", zap.Error(err))
		return false, err
	}
	log.Debug("Command offered", zap.Bool("handled", handled))
	return handled, nil
}

// Close disconnects every client.
func (h *Hub) Close() error {
	h.mu.RLock()
	clients := append([]*client(nil), h.clients...)
	h.mu.RUnlock()

	var errs []error
	for _, cl := range clients {
		if err := cl.conn.Close(); err != nil && !errors.Is(err, jsonrpc2.ErrClosed) {
			errs = append(errs, err)
		}
		cl.cancel()
	}
	return errors.Join(errs...)
}
