package traceserver_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	gwebsocket "github.com/gorilla/websocket"
	"github.com/sourcegraph/jsonrpc2"
	jsonrpc2ws "github.com/sourcegraph/jsonrpc2/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zkvm/internal/config"
	"zkvm/internal/isa"
	"zkvm/internal/traceserver"
)

func testProgram() *isa.Program {
	a, b := uint32(1), uint32(2)
	return &isa.Program{Instructions: []isa.Instruction{
		{Op: "push", Immediate: &a}, {Op: "push", Immediate: &b}, {Op: "add"}, {Op: "halt"},
	}}
}

type noopHandler struct{}

func (noopHandler) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {}

func dial(t *testing.T, url string) *jsonrpc2.Conn {
	t.Helper()
	conn, _, err := gwebsocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	stream := jsonrpc2ws.NewObjectStream(conn)
	return jsonrpc2.NewConn(context.Background(), stream, noopHandler{})
}

func TestSessionStepsViaJSONRPC(t *testing.T) {
	srv := traceserver.NewServer(config.NewVMConfig(), testProgram(), nil)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/"
	conn := dial(t, url)
	defer conn.Close()

	var result traceserver.StepResult
	require.NoError(t, conn.Call(context.Background(), "step", nil, &result))
	assert.Equal(t, uint32(1), result.PC)

	require.NoError(t, conn.Call(context.Background(), "step", nil, &result))
	assert.Equal(t, uint32(2), result.PC)
}

func TestSessionDirectStepAndBreakpoint(t *testing.T) {
	session := traceserver.NewSession(config.NewVMConfig(), testProgram(), nil)
	session.SetBreakpoint(2, true)

	r, err := session.Continue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint32(2), r.PC)
	assert.True(t, r.AtBreak)

	final, err := session.Continue(context.Background())
	require.NoError(t, err)
	assert.True(t, final.Halted)
}
