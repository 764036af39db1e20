package traceserver

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sourcegraph/jsonrpc2"
	jsonrpc2ws "github.com/sourcegraph/jsonrpc2/websocket"
	"github.com/tliron/commonlog"

	"zkvm/internal/config"
	"zkvm/internal/isa"
)

var log = commonlog.GetLogger("zkvm.traceserver")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server accepts websocket connections and speaks JSON-RPC 2.0 over each,
// one Session per connection.
type Server struct {
	Config  config.VMConfig
	Program *isa.Program
	Input   []uint32
}

// NewServer builds a Server that debugs one fixed program per connection.
func NewServer(cfg config.VMConfig, program *isa.Program, input []uint32) *Server {
	return &Server{Config: cfg, Program: program, Input: input}
}

// ServeHTTP upgrades the request to a websocket and hands it a fresh
// Session, speaking JSON-RPC over the connection until it closes.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("traceserver: upgrade failed: %v", err)
		return
	}

	session := NewSession(s.Config, s.Program, s.Input)
	log.Infof("traceserver: session %s connected", session.ID)

	handler := &rpcHandler{session: session}
	stream := jsonrpc2ws.NewObjectStream(conn)
	<-jsonrpc2.NewConn(r.Context(), stream, handler).DisconnectNotify()
	log.Infof("traceserver: session %s disconnected", session.ID)
}

// rpcHandler dispatches the four debug methods spec.md's supplemental
// trace surface exposes: step, continue, setBreakpoint, state.
type rpcHandler struct {
	session *Session
}

type breakpointParams struct {
	PC      uint32 `json:"pc"`
	Enabled bool   `json:"enabled"`
}

func (h *rpcHandler) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	var result interface{}
	var rpcErr *jsonrpc2.Error

	switch req.Method {
	case "step":
		r, err := h.session.Step(ctx)
		if err != nil {
			rpcErr = &jsonrpc2.Error{Message: err.Error()}
		}
		result = r
	case "continue":
		r, err := h.session.Continue(ctx)
		if err != nil {
			rpcErr = &jsonrpc2.Error{Message: err.Error()}
		}
		result = r
	case "setBreakpoint":
		var params breakpointParams
		if req.Params != nil {
			if err := json.Unmarshal(*req.Params, &params); err != nil {
				rpcErr = &jsonrpc2.Error{Message: err.Error()}
				break
			}
		}
		h.session.SetBreakpoint(params.PC, params.Enabled)
		result = map[string]bool{"ok": true}
	case "state":
		result = h.session.State()
	default:
		rpcErr = &jsonrpc2.Error{Code: jsonrpc2.CodeMethodNotFound, Message: "unknown method " + req.Method}
	}

	if req.Notif {
		return
	}
	if rpcErr != nil {
		if err := conn.ReplyWithError(ctx, req.ID, rpcErr); err != nil {
			log.Errorf("traceserver: reply with error: %v", err)
		}
		return
	}
	if err := conn.Reply(ctx, req.ID, result); err != nil {
		log.Errorf("traceserver: reply: %v", err)
	}
}
