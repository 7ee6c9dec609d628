package metaserver

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/WendelHime/napcheck/internal/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serveOnce answers the first connection with answer and then hangs up.
func serveOnce(t *testing.T, answer string) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.Nil(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		conn.Write([]byte(answer))
	}()
	return ln.Addr().String()
}

func TestResolve(t *testing.T) {
	var tests = []struct {
		name   string
		answer string
		assert func(t *testing.T, actual string, err error)
	}{
		{
			name:   "address with trailing newline",
			answer: "192.168.5.1:8888\n",
			assert: func(t *testing.T, actual string, err error) {
				assert.Nil(t, err)
				assert.Equal(t, "192.168.5.1:8888", actual)
			},
		},
		{
			name:   "missing port",
			answer: "192.168.5.1",
			assert: func(t *testing.T, actual string, err error) {
				assert.ErrorIs(t, err, models.ErrProtocolViolation)
			},
		},
		{
			name:   "port out of range",
			answer: "192.168.5.1:70000",
			assert: func(t *testing.T, actual string, err error) {
				assert.ErrorIs(t, err, models.ErrProtocolViolation)
			},
		},
		{
			name:   "missing host",
			answer: ":8888",
			assert: func(t *testing.T, actual string, err error) {
				assert.ErrorIs(t, err, models.ErrProtocolViolation)
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			addr := serveOnce(t, tt.answer)
			resolver := NewResolver(addr, time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
			actual, err := resolver.Resolve(context.Background())
			tt.assert(t, actual, err)
		})
	}
}

func TestResolveSilentMetaserver(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.Nil(t, err)
	defer ln.Close()
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		io.Copy(io.Discard, conn)
	}()

	resolver := NewResolver(ln.Addr().String(), 50*time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err = resolver.Resolve(context.Background())
	var netErr net.Error
	require.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Timeout())
}

func TestResolveStopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.Nil(t, err)
	defer ln.Close()
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		io.Copy(io.Discard, conn)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	resolver := NewResolver(ln.Addr().String(), 0, slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err = resolver.Resolve(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStatic(t *testing.T) {
	actual, err := Static("127.0.0.1:8888").Resolve(context.Background())
	assert.Nil(t, err)
	assert.Equal(t, "127.0.0.1:8888", actual)
}
