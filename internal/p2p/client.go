package p2p

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/WendelHime/napcheck/internal/decoder"
	"github.com/WendelHime/napcheck/internal/shared/models"
	"github.com/schollz/progressbar/v3"
)

// PeerClient downloads a single file straight from the peer sharing it.
// The peer protocol has no framing: a readiness byte, a GET request, a
// decimal size and then the raw bytes.
type PeerClient interface {
	Connect(ctx context.Context, address models.Addr) error
	Disconnect() error
	Handshake(ctx context.Context, username, path string) error
	ReadSize(ctx context.Context, expected string) error
	ReadFile(ctx context.Context, w io.Writer, size int64) error
}

var (
	ErrNotConnected = errors.New("not connected")
	ErrNotReady     = fmt.Errorf("%w: peer did not signal readiness", models.ErrProtocolViolation)
	ErrSizeMismatch = errors.New("peer announced a different file size")
)

const readySignal = '1'

type client struct {
	conn      net.Conn
	ioTimeout time.Duration
	progress  io.Writer
	log       *slog.Logger
}

// NewClient returns a peer client rendering transfer progress to progress.
// A nil progress disables the bar.
func NewClient(ioTimeout time.Duration, progress io.Writer, logger *slog.Logger) PeerClient {
	if progress == nil {
		progress = io.Discard
	}
	return &client{ioTimeout: ioTimeout, progress: progress, log: logger}
}

func (c *client) Connect(ctx context.Context, address models.Addr) error {
	dialer := net.Dialer{Timeout: c.ioTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", address.String())
	if err != nil {
		return err
	}
	c.conn = conn
	c.log.Debug("connected to peer", slog.String("address", address.String()))
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

// Handshake waits for the peer's readiness byte and sends the GET request
// for path. The trailing 0 is the resume offset.
func (c *client) Handshake(ctx context.Context, username, path string) error {
	stop, err := c.arm(ctx)
	if err != nil {
		return err
	}
	defer stop()

	ready, err := decoder.ReadBytes(c.conn, 1)
	if err != nil {
		return models.ContextErr(ctx, err)
	}
	if ready[0] != readySignal {
		return fmt.Errorf("%w: got %q", ErrNotReady, ready[0])
	}

	req := fmt.Sprintf("GET%s \"%s\" 0", username, path)
	return models.ContextErr(ctx, decoder.WriteAll(c.conn, []byte(req)))
}

// ReadSize reads the size the peer announces and checks it against the one
// the server reported while browsing.
func (c *client) ReadSize(ctx context.Context, expected string) error {
	stop, err := c.arm(ctx)
	if err != nil {
		return err
	}
	defer stop()

	size, err := decoder.ReadBytes(c.conn, len(expected))
	if err != nil {
		return models.ContextErr(ctx, err)
	}
	if string(size) != expected {
		return fmt.Errorf("%w: expected %q, got %q", ErrSizeMismatch, expected, size)
	}
	return nil
}

// ReadFile streams exactly size bytes of file content into w. The size comes
// from the server, so nothing is buffered against it.
func (c *client) ReadFile(ctx context.Context, w io.Writer, size int64) error {
	stop, err := c.arm(ctx)
	if err != nil {
		return err
	}
	defer stop()

	bar := progressbar.NewOptions64(size,
		progressbar.OptionSetWriter(c.progress),
		progressbar.OptionSetDescription("downloading"),
		progressbar.OptionShowBytes(true),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(c.progress, "\n")
		}),
	)

	n, err := io.CopyN(io.MultiWriter(w, bar), c.conn, size)
	if n < size {
		if err == nil || errors.Is(err, io.EOF) {
			err = decoder.ErrConnectionClosed
		}
		return models.ContextErr(ctx, err)
	}
	bar.Finish()
	c.log.Info("file received", slog.Int64("size", size))
	return nil
}
