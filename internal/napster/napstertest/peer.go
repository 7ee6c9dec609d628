package napstertest

import (
	"net"
	"strconv"
	"sync"

	"github.com/WendelHime/napcheck/internal/decoder"
)

// Peer serves one file over the peer protocol.
type Peer struct {
	Content []byte
	// AnnouncedSize overrides the size sent before the content.
	AnnouncedSize string
	// ReadyByte overrides the readiness signal.
	ReadyByte byte

	ln      net.Listener
	wg      sync.WaitGroup
	mu      sync.Mutex
	request string
}

func NewPeer(content []byte) *Peer {
	return &Peer{Content: content, ReadyByte: '1'}
}

func (p *Peer) Start() error {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return err
	}
	p.ln = ln

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			p.wg.Add(1)
			go func() {
				defer p.wg.Done()
				defer conn.Close()
				p.serve(conn)
			}()
		}
	}()
	return nil
}

func (p *Peer) Close() {
	if p.ln != nil {
		p.ln.Close()
	}
	p.wg.Wait()
}

// Request returns the GET arguments the last client sent.
func (p *Peer) Request() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.request
}

func (p *Peer) location() (uint32, uint16, error) {
	tcp := p.ln.Addr().(*net.TCPAddr)
	ip, err := encodeIP(tcp.IP)
	if err != nil {
		return 0, 0, err
	}
	port, err := portOf(p.ln.Addr())
	return ip, port, err
}

func (p *Peer) serve(conn net.Conn) {
	if err := decoder.WriteAll(conn, []byte{p.ReadyByte}); err != nil {
		return
	}

	command, err := decoder.ReadBytes(conn, 3)
	if err != nil || string(command) != "GET" {
		return
	}

	// The request has no length; it is complete once it holds three fields.
	args := make([]byte, 0, 256)
	buf := make([]byte, 256)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			return
		}
		args = append(args, buf[:n]...)
		fields, err := decoder.Tokenize(string(args))
		if err == nil && len(fields) >= 3 {
			break
		}
	}
	p.mu.Lock()
	p.request = string(args)
	p.mu.Unlock()

	size := p.AnnouncedSize
	if size == "" {
		size = strconv.Itoa(len(p.Content))
	}
	if err := decoder.WriteAll(conn, []byte(size)); err != nil {
		return
	}
	decoder.WriteAll(conn, p.Content)
}
