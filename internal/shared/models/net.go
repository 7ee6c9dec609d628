package models

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"
)

type Addr struct {
	IP   net.IP
	Port uint16
}

func (a *Addr) String() string {
	return net.JoinHostPort(a.IP.String(), strconv.Itoa(int(a.Port)))
}

// ReadFromUint32 decodes an IPv4 address sent as a decimal integer in
// little-endian byte order, so 0x0101A8C0 is 192.168.1.1.
func (a *Addr) ReadFromUint32(ip uint32, port uint16) {
	a.IP = net.IPv4(byte(ip), byte(ip>>8), byte(ip>>16), byte(ip>>24))
	a.Port = port
}

// Deadline returns the earlier of now+timeout and the context deadline. The
// zero time means no deadline.
func Deadline(ctx context.Context, timeout time.Duration) time.Time {
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	if d, ok := ctx.Deadline(); ok && (deadline.IsZero() || d.Before(deadline)) {
		deadline = d
	}
	return deadline
}

// ContextErr attributes err to the context when the context is done or its
// deadline has passed, which is what caused a socket deadline to fire.
func ContextErr(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %w", ctxErr, err)
	}
	if d, ok := ctx.Deadline(); ok && !time.Now().Before(d) {
		return fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
	}
	return err
}
