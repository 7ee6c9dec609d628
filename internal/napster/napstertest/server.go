// Package napstertest runs a napster server, a sharing peer and a
// metaserver on loopback for tests.
package napstertest

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"

	"github.com/WendelHime/napcheck/internal/decoder"
	"github.com/WendelHime/napcheck/internal/napster"
	"github.com/WendelHime/napcheck/internal/shared/models"
)

// Server is a scripted napster server. Configure the exported fields before
// calling Start.
type Server struct {
	Addr string

	RejectUsername  bool
	RejectLogin     bool
	DeclineDownload bool
	// Chatter interleaves unrelated frames with every answer.
	Chatter bool
	// RawBrowse, when set, replaces the browse listing of every user.
	RawBrowse []string

	// Shares lists the files each user shares. Grants point at Peer.
	Shares map[string][]models.FileEntry
	Peer   *Peer

	ln       net.Listener
	wg       sync.WaitGroup
	mu       sync.Mutex
	conns    []net.Conn
	received []models.Frame
}

func NewServer() *Server {
	return &Server{Shares: make(map[string][]models.FileEntry)}
}

// Share adds a file to username's share list.
func (s *Server) Share(username string, entry models.FileEntry) {
	s.Shares[username] = append(s.Shares[username], entry)
}

func (s *Server) Start() error {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return err
	}
	s.ln = ln
	s.Addr = ln.Addr().String()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			s.mu.Lock()
			s.conns = append(s.conns, conn)
			s.mu.Unlock()

			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				defer conn.Close()
				s.handle(conn)
			}()
		}
	}()
	return nil
}

func (s *Server) Close() {
	if s.ln != nil {
		s.ln.Close()
	}
	s.mu.Lock()
	for _, conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()
	s.wg.Wait()
}

// Received returns the opcodes of every frame a client sent so far.
func (s *Server) Received() []models.Opcode {
	s.mu.Lock()
	defer s.mu.Unlock()
	ops := make([]models.Opcode, len(s.received))
	for i, frame := range s.received {
		ops[i] = frame.Opcode
	}
	return ops
}

// Payload returns the payload of the last frame received with op.
func (s *Server) Payload(op models.Opcode) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.received) - 1; i >= 0; i-- {
		if s.received[i].Opcode == op {
			return string(s.received[i].Payload), true
		}
	}
	return "", false
}

func (s *Server) handle(conn net.Conn) {
	for {
		frame, err := napster.Decode(conn)
		if err != nil {
			return
		}
		s.mu.Lock()
		s.received = append(s.received, frame)
		s.mu.Unlock()

		if err := s.answer(conn, frame); err != nil {
			return
		}
	}
}

func (s *Server) answer(conn net.Conn, frame models.Frame) error {
	payload := string(frame.Payload)
	switch frame.Opcode {
	case models.OpMakeUser:
		if s.RejectUsername {
			return send(conn, 0x09, "")
		}
		return send(conn, models.OpUsernameOK, "")
	case models.OpLogin:
		if s.RejectLogin {
			return send(conn, 0x00, "invalid password")
		}
		return send(conn, models.OpLoginSuccess, "anon@napster.com")
	case models.OpBrowse:
		return s.browse(conn, payload)
	case models.OpDownloadGet:
		return s.grant(conn, payload)
	}
	return nil
}

func (s *Server) chatter(conn net.Conn) error {
	if !s.Chatter {
		return nil
	}
	return send(conn, models.OpTell, "somebody is downloading from you")
}

func (s *Server) browse(conn net.Conn, username string) error {
	if err := s.chatter(conn); err != nil {
		return err
	}

	lines := s.RawBrowse
	if lines == nil {
		for _, e := range s.Shares[username] {
			lines = append(lines, fmt.Sprintf("%s \"%s\" %s %s %s %s %s", e.Owner, e.Path, e.MD5, e.Size, e.Bitrate, e.Frequency, e.Duration))
		}
	}
	for _, line := range lines {
		if err := send(conn, models.OpBrowseEntry, line); err != nil {
			return err
		}
		if err := s.chatter(conn); err != nil {
			return err
		}
	}
	return send(conn, models.OpBrowseEnd, username+" 16777343")
}

func (s *Server) grant(conn net.Conn, payload string) error {
	fields, err := decoder.Tokenize(payload)
	if err != nil || len(fields) != 2 {
		return send(conn, models.OpDownloadDeny, payload)
	}
	username, path := fields[0], fields[1]

	if err := s.chatter(conn); err != nil {
		return err
	}

	entry, ok := s.find(username, path)
	if s.DeclineDownload || s.Peer == nil || !ok {
		return send(conn, models.OpDownloadDeny, payload)
	}

	ip, port, err := s.Peer.location()
	if err != nil {
		return err
	}
	return send(conn, models.OpDownloadGrant, fmt.Sprintf("%s %d %d \"%s\" %s 0", username, ip, port, path, entry.MD5))
}

func (s *Server) find(username, path string) (models.FileEntry, bool) {
	for _, e := range s.Shares[username] {
		if e.Path == path {
			return e, true
		}
	}
	return models.FileEntry{}, false
}

func send(conn net.Conn, op models.Opcode, text string) error {
	buf, err := napster.Encode(op, []byte(text))
	if err != nil {
		return err
	}
	return decoder.WriteAll(conn, buf)
}

var errNotIPv4 = errors.New("peer is not listening on ipv4")

// encodeIP packs an IPv4 address the way download grants carry it.
func encodeIP(ip net.IP) (uint32, error) {
	v4 := ip.To4()
	if v4 == nil {
		return 0, errNotIPv4
	}
	return uint32(v4[0]) | uint32(v4[1])<<8 | uint32(v4[2])<<16 | uint32(v4[3])<<24, nil
}

// ServeMetaserver answers every connection with answer until closed.
func ServeMetaserver(answer string) (string, func(), error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, err
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			decoder.WriteAll(conn, []byte(answer))
			conn.Close()
		}
	}()

	return ln.Addr().String(), func() {
		ln.Close()
		wg.Wait()
	}, nil
}

func portOf(addr net.Addr) (uint16, error) {
	_, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(port, 10, 16)
	return uint16(n), err
}
