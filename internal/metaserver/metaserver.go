package metaserver

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/WendelHime/napcheck/internal/shared/models"
)

// Resolver finds the address of the napster server currently in service.
type Resolver interface {
	Resolve(ctx context.Context) (string, error)
}

// maxAnswer bounds the metaserver's single reply.
const maxAnswer = 1024

type metaserver struct {
	address   string
	ioTimeout time.Duration
	log       *slog.Logger
}

func NewResolver(address string, ioTimeout time.Duration, logger *slog.Logger) Resolver {
	return &metaserver{address: address, ioTimeout: ioTimeout, log: logger}
}

// Resolve connects to the metaserver and reads its one line answer,
// "host:port".
func (m *metaserver) Resolve(ctx context.Context) (string, error) {
	dialer := net.Dialer{Timeout: m.ioTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", m.address)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	err = conn.SetDeadline(models.Deadline(ctx, m.ioTimeout))
	if err != nil {
		return "", err
	}
	stop := context.AfterFunc(ctx, func() {
		conn.SetDeadline(time.Unix(1, 0))
	})
	defer stop()

	buf := make([]byte, maxAnswer)
	n, err := conn.Read(buf)
	if err != nil {
		return "", models.ContextErr(ctx, err)
	}

	server, err := parseAnswer(string(buf[:n]))
	if err != nil {
		return "", err
	}
	m.log.Info("metaserver answered", slog.String("metaserver", m.address), slog.String("server", server))
	return server, nil
}

func parseAnswer(answer string) (string, error) {
	answer = strings.TrimSpace(answer)
	host, port, err := net.SplitHostPort(answer)
	if err != nil {
		return "", fmt.Errorf("%w: metaserver answered %q", models.ErrProtocolViolation, answer)
	}
	if host == "" {
		return "", fmt.Errorf("%w: metaserver answered without a host", models.ErrProtocolViolation)
	}
	if _, err := strconv.ParseUint(port, 10, 16); err != nil {
		return "", fmt.Errorf("%w: metaserver answered port %q", models.ErrProtocolViolation, port)
	}
	return net.JoinHostPort(host, port), nil
}

type static string

// Static is a Resolver that always answers address, for when the server is
// known up front.
func Static(address string) Resolver {
	return static(address)
}

func (s static) Resolve(context.Context) (string, error) {
	return string(s), nil
}
