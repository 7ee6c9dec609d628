package napster

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"slices"
	"time"

	"github.com/WendelHime/napcheck/internal/decoder"
	"github.com/WendelHime/napcheck/internal/shared/models"
)

// NapClient speaks the framed control protocol with a napster server.
type NapClient interface {
	Connect(ctx context.Context, address string) error
	Disconnect() error
	ReadFrame(ctx context.Context) (models.Frame, error)
	WriteFrame(ctx context.Context, frame models.Frame) error
	ReadUntil(ctx context.Context, ops ...models.Opcode) (models.Frame, error)

	CreateAccount(ctx context.Context, username string) error
	Login(ctx context.Context, session models.Session, clientInfo string) error
	Browse(ctx context.Context, username string) (models.FileList, error)
	RequestDownload(ctx context.Context, username, path string) (models.DownloadGrant, error)
}

var ErrNotConnected = errors.New("not connected")

type client struct {
	conn      net.Conn
	ioTimeout time.Duration
	log       *slog.Logger
}

// NewClient returns a client whose every blocking call gives up after
// ioTimeout, or earlier when the context passed to it expires. A zero
// ioTimeout relies on the context alone.
func NewClient(ioTimeout time.Duration, logger *slog.Logger) NapClient {
	return &client{ioTimeout: ioTimeout, log: logger}
}

func (c *client) Connect(ctx context.Context, address string) error {
	dialer := net.Dialer{Timeout: c.ioTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return err
	}
	c.conn = conn
	c.log.Debug("connected to server", slog.String("address", address))
	return nil
}

func (c *client) Disconnect() error {
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}

// arm sets the connection deadline for one blocking call and makes context
// cancellation interrupt it. The returned func must be called when the call
// is done.
func (c *client) arm(ctx context.Context) (func() bool, error) {
	if c.conn == nil {
		return nil, ErrNotConnected
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := c.conn.SetDeadline(models.Deadline(ctx, c.ioTimeout)); err != nil {
		return nil, err
	}
	conn := c.conn
	return context.AfterFunc(ctx, func() {
		conn.SetDeadline(time.Unix(1, 0))
	}), nil
}

func (c *client) ReadFrame(ctx context.Context) (models.Frame, error) {
	stop, err := c.arm(ctx)
	if err != nil {
		return models.Frame{}, err
	}
	defer stop()

	frame, err := Decode(c.conn)
	if err != nil {
		return models.Frame{}, models.ContextErr(ctx, err)
	}
	c.log.Debug("received frame", slog.String("opcode", frame.Opcode.String()), slog.Int("length", len(frame.Payload)))
	return frame, nil
}

func (c *client) WriteFrame(ctx context.Context, frame models.Frame) error {
	buf, err := Encode(frame.Opcode, frame.Payload)
	if err != nil {
		return err
	}

	stop, err := c.arm(ctx)
	if err != nil {
		return err
	}
	defer stop()

	c.log.Debug("sending frame", slog.String("opcode", frame.Opcode.String()), slog.Int("length", len(frame.Payload)))
	return models.ContextErr(ctx, decoder.WriteAll(c.conn, buf))
}

// ReadUntil returns the first frame carrying one of ops. Anything else the
// server sends meanwhile is dropped.
func (c *client) ReadUntil(ctx context.Context, ops ...models.Opcode) (models.Frame, error) {
	for {
		frame, err := c.ReadFrame(ctx)
		if err != nil {
			return models.Frame{}, err
		}
		if slices.Contains(ops, frame.Opcode) {
			return frame, nil
		}
		c.log.Debug("discarding frame", slog.String("opcode", frame.Opcode.String()))
	}
}
