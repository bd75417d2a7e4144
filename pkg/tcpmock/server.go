package tcpmock

import (
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/griffinmyers/wirepig/pkg/logging"
	"github.com/griffinmyers/wirepig/pkg/mock"
	"github.com/griffinmyers/wirepig/pkg/mockset"
	"github.com/griffinmyers/wirepig/pkg/util"
)

// Options configures a Server. Port 0 binds an ephemeral port, per
// spec.md §4.7.
type Options struct {
	Port   int
	Logger *slog.Logger
}

// Server is the TCP listener of spec.md §4.5/§4.7: it accepts
// connections, writes an init mock's payload if one is pending, then
// rescans the mock set against the whole per-connection receive
// buffer on every chunk of data.
type Server struct {
	listener net.Listener
	mocks    *mockset.Set
	logger   *slog.Logger

	connsMu sync.Mutex
	conns   map[net.Conn]struct{}

	wg sync.WaitGroup
}

// New starts a TCP listener per opts and returns it already accepting
// connections.
func New(opts Options) (*Server, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", opts.Port))
	if err != nil {
		return nil, fmt.Errorf("tcpmock: listen: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	s := &Server{
		listener: ln,
		mocks:    mockset.New(logger),
		logger:   logger,
		conns:    make(map[net.Conn]struct{}),
	}

	s.wg.Add(1)
	go s.acceptLoop()
	return s, nil
}

// Port returns the bound TCP port.
func (s *Server) Port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

// Mock registers decl as a new TCP head mock and returns a handle to
// it. Use the returned handle's Mock method to pin a tail child onto
// the same connection as this head.
func (s *Server) Mock(decl mock.Declaration) (*mockset.Handle, error) {
	m, err := mock.BuildTCP(decl)
	if err != nil {
		return nil, err
	}
	return s.mocks.Register(m), nil
}

// Reset partitions the registered mocks into pending/matched, per
// spec.md §4.6.
func (s *Server) Reset(throwOnPending bool) error {
	return s.mocks.Reset(throwOnPending)
}

// Teardown stops accepting new connections, closes any still-open
// connections, and waits for every handler to exit.
func (s *Server) Teardown() error {
	err := s.listener.Close()

	s.connsMu.Lock()
	for c := range s.conns {
		_ = c.Close()
	}
	s.connsMu.Unlock()

	s.wg.Wait()
	return err
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		if tc, ok := conn.(*net.TCPConn); ok {
			_ = tc.SetNoDelay(true)
		}
		s.trackConn(conn, true)
		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

func (s *Server) trackConn(conn net.Conn, add bool) {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	if add {
		s.conns[conn] = struct{}{}
	} else {
		delete(s.conns, conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer s.trackConn(conn, false)
	defer func() { _ = conn.Close() }()

	if destroyed := s.handleInit(conn); destroyed {
		return
	}

	var buf []byte
	chunk := make([]byte, 4096)
	for {
		n, err := conn.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
			remaining, destroyed := s.handleChunk(conn, buf)
			buf = remaining
			if destroyed {
				return
			}
		}
		if err != nil {
			return
		}
	}
}

// handleInit scans for the first pending init mock, and if one
// exists, marks it matched, binds its pinning record to conn, and
// writes its payload. Reports whether the connection was destroyed.
func (s *Server) handleInit(conn net.Conn) bool {
	for _, m := range s.mocks.Snapshot() {
		if m.Protocol != mock.ProtocolTCP || !m.IsInit || !m.Pending() {
			continue
		}
		if !m.TryMatch() {
			continue
		}
		m.BindPin(conn)

		logging.Debug(s.logger, logging.ChannelServer, "init mock matched", "mock", m.String())

		_, err := conn.Write(resolveInit(m))
		return err != nil
	}
	return false
}

// handleChunk rescans the mock set against buf, the entire
// accumulated receive buffer. On a match it writes the resolved
// response (or destroys the socket) and returns a cleared buffer; on
// no match it returns buf unchanged so more data can accumulate.
func (s *Server) handleChunk(conn net.Conn, buf []byte) ([]byte, bool) {
	for _, m := range s.mocks.Snapshot() {
		if m.Protocol != mock.ProtocolTCP || !eligible(m, conn) {
			continue
		}
		if !matchesBuffer(m, buf) {
			logging.Debug(s.logger, logging.ChannelMatcher, "mock did not match",
				"mock", m.String(), "buffer", util.TruncateBody(string(buf), 0))
			continue
		}
		if !m.TryMatch() {
			continue // lost a race to another goroutine; keep scanning
		}
		if m.IsHead() {
			m.BindPin(conn)
		}

		logging.Debug(s.logger, logging.ChannelServer, "buffer matched", "mock", m.String())

		destroyed := s.writeResponse(conn, m, buf)
		return nil, destroyed
	}
	return buf, false
}

func (s *Server) writeResponse(conn net.Conn, m *mock.Mock, buf []byte) bool {
	resp := resolveWrite(m, buf)

	util.SleepMs(resp.BodyDelayMs)

	if resp.DestroySocket {
		util.AbortiveClose(conn)
		return true
	}

	_, _ = conn.Write(resp.Body)
	return false
}
