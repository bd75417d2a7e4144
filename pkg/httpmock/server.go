package httpmock

import (
	"bufio"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/griffinmyers/wirepig/pkg/logging"
	"github.com/griffinmyers/wirepig/pkg/mock"
	"github.com/griffinmyers/wirepig/pkg/mockset"
	"github.com/griffinmyers/wirepig/pkg/util"
)

// Options configures a Server, grounded on the teacher's functional-
// options convention (pkg/engine/server.go's ServerOption) scaled down
// to what a listener needs at construction time: a port and an optional
// logger (nil means a no-op logger). Port 0 (the zero value) binds an
// ephemeral port, per spec.md §4.7.
type Options struct {
	Port   int
	Logger *slog.Logger
}

// Server is the HTTP listener of spec.md §4.4/§4.7: it accepts
// connections, parses requests without losing header wire-case, and
// dispatches each to the first matching pending mock in its Set.
type Server struct {
	listener net.Listener
	mocks    *mockset.Set
	logger   *slog.Logger

	connsMu sync.Mutex
	conns   map[net.Conn]struct{}

	wg sync.WaitGroup
}

// New starts an HTTP listener per opts and returns it already
// accepting connections, mirroring the teacher's pattern of starting
// acceptance inside the constructor rather than a separate Start call
// (pkg/engine's findFreePort + net.Listen idiom, retained for the
// listener's own lifetime instead of being probed and closed).
func New(opts Options) (*Server, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", opts.Port))
	if err != nil {
		return nil, fmt.Errorf("httpmock: listen: %w", err)
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

// Mock registers decl and returns a handle to it.
func (s *Server) Mock(decl mock.Declaration) (*mockset.Handle, error) {
	m, err := mock.BuildHTTP(decl)
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
// connections so they cannot block shutdown, and waits for the accept
// loop and every connection handler to exit, per spec.md §4.6.
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

	r := bufio.NewReader(conn)
	for {
		req, err := readRequest(r)
		if err != nil {
			return
		}

		logging.Debug(s.logger, logging.ChannelServer, "request received",
			"method", req.Method, "path", req.Path, "body", util.TruncateBody(string(req.Body), 0))

		destroyed := s.dispatch(conn, req)
		if destroyed {
			return
		}
	}
}

// dispatch finds the first pending matching mock for req, writes its
// resolved response, and reports whether the connection was destroyed
// (so the caller stops reading further requests from it).
func (s *Server) dispatch(conn net.Conn, req *request) bool {
	env := buildEnv(req)

	for _, m := range s.mocks.Snapshot() {
		if m.Protocol != mock.ProtocolHTTP || !m.Pending() {
			continue
		}
		if !matches(m, req, env) {
			logging.Debug(s.logger, logging.ChannelMatcher, "mock did not match",
				"mock", m.String(), "path", req.Path)
			continue
		}
		if !m.TryMatch() {
			continue // lost a race to another goroutine; keep scanning
		}

		logging.Debug(s.logger, logging.ChannelServer, "request matched",
			"mock", m.String(), "path", req.Path)

		resp := resolveResponse(m, env, req.Body)
		return s.writeResponse(conn, resp)
	}

	s.writeNotFound(conn, req)
	return false
}

func (s *Server) writeNotFound(conn net.Conn, req *request) {
	body := fmt.Sprintf("No matching mock was found for [%s %s HTTP/%s]", req.Method, req.RawTarget, req.Version)
	resp := resolvedResponse{
		StatusCode: http.StatusNotFound,
		Headers:    map[string][]byte{"Content-Type": []byte("text/plain")},
		Body:       []byte(body),
	}
	s.writeResponse(conn, resp)
}

// writeResponse writes resp to conn, honoring headerDelay then
// bodyDelay, and performing an abortive close instead of a body write
// when DestroySocket is set (spec.md §4.4 step 4, §9's ECONNRESET
// requirement). Returns whether the connection was destroyed.
func (s *Server) writeResponse(conn net.Conn, resp resolvedResponse) bool {
	util.SleepMs(resp.HeaderDelayMs)

	w := bufio.NewWriter(conn)
	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	fmt.Fprintf(w, "HTTP/1.1 %d %s\r\n", status, http.StatusText(int(status)))

	hasContentLength := false
	for name := range resp.Headers {
		if strings.EqualFold(name, "Content-Length") {
			hasContentLength = true
		}
	}
	for name, value := range resp.Headers {
		fmt.Fprintf(w, "%s: %s\r\n", name, value)
	}
	if !hasContentLength {
		fmt.Fprintf(w, "Content-Length: %d\r\n", len(resp.Body))
	}
	fmt.Fprint(w, "\r\n")
	_ = w.Flush()

	util.SleepMs(resp.BodyDelayMs)

	if resp.DestroySocket {
		util.AbortiveClose(conn)
		return true
	}

	_, _ = w.Write(resp.Body)
	_ = w.Flush()
	return false
}
