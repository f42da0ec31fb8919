package singleinstance

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net"
	"strings"
	"sync"
	"time"

	"draw-on-screen/src/messages"
)

const (
	residentHost = "127.0.0.1"
	pingRequest  = "PING\n"
	pongResponse = "PONG\n"
)

// tcpServer implements Server over TCP loopback.
type tcpServer struct {
	mu       sync.Mutex
	lis      net.Listener
	incoming chan *tcpConn
	done     chan struct{}
	port     int
}

func newTcpServer() Server {
	return &tcpServer{incoming: make(chan *tcpConn, 8), done: make(chan struct{})}
}

// Start binds ONLY the start port of the configured range. If occupied, fail.
func (s *tcpServer) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lis != nil {
		return nil
	}
	start, _ := getPortRange()
	addr := fmt.Sprintf("%s:%d", residentHost, start)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		log.Printf("singleinstance: failed to bind %s: %v", addr, err)
		return fmt.Errorf("bind %s: %w", addr, err)
	}
	s.lis = lis
	s.port = start
	log.Printf("singleinstance: listening on %s", addr)
	go s.acceptLoop(ctx, lis)
	return nil
}

// Port returns the bound port (0 if not started).
func (s *tcpServer) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

func (s *tcpServer) acceptLoop(ctx context.Context, lis net.Listener) {
	for {
		c, err := lis.Accept()
		if err != nil {
			return
		}
		tc, ok := s.handshake(c)
		if !ok {
			continue
		}
		select {
		case s.incoming <- tc:
		case <-s.done:
			_ = c.Close()
			return
		case <-ctx.Done():
			_ = c.Close()
			return
		}
	}
}

// handshake answers PING and rejects malformed commands. It returns a
// connection only for a valid command.
func (s *tcpServer) handshake(c net.Conn) (*tcpConn, bool) {
	remote := c.RemoteAddr().String()
	_ = c.SetDeadline(time.Now().Add(3 * time.Second))
	br := bufio.NewReader(c)
	line, _ := br.ReadString('\n')
	bw := bufio.NewWriter(c)
	if line == pingRequest {
		log.Printf("singleinstance: PING from %s -> PONG", remote)
		_, _ = bw.WriteString(pongResponse)
		_ = bw.Flush()
		_ = c.Close()
		return nil, false
	}

	tc := &tcpConn{c: c, w: bw, br: br}
	cmd, err := messages.ParseCommand(strings.TrimSuffix(line, "\n"))
	if err != nil {
		log.Printf("singleinstance: bad request from %s: %v", remote, err)
		_ = tc.RespondError(err.Error())
		_ = c.Close()
		return nil, false
	}
	// Commands may wait on the UI; the reply deadline is the client's.
	_ = c.SetDeadline(time.Time{})
	log.Printf("singleinstance: request from %s command=%s", remote, cmd)
	tc.r = Request{Command: cmd}
	return tc, true
}

func (s *tcpServer) Next(ctx context.Context) (Conn, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.done:
		return nil, net.ErrClosed
	case tc := <-s.incoming:
		return tc, nil
	}
}

func (s *tcpServer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.done:
		return nil
	default:
	}
	close(s.done)
	if s.lis != nil {
		err := s.lis.Close()
		s.lis = nil
		s.port = 0
		return err
	}
	return nil
}

type tcpConn struct {
	c  net.Conn
	r  Request
	w  *bufio.Writer
	br *bufio.Reader
}

func (tc *tcpConn) Request() Request { return tc.r }

func (tc *tcpConn) RespondSuccess(text string) error {
	if _, err := tc.w.WriteString("SUCCESS\n" + text); err != nil {
		return err
	}
	return tc.w.Flush()
}

func (tc *tcpConn) RespondError(msg string) error {
	if _, err := tc.w.WriteString("ERROR\n" + msg); err != nil {
		return err
	}
	return tc.w.Flush()
}

func (tc *tcpConn) Close() error { return tc.c.Close() }
