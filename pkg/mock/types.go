package mock

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/griffinmyers/wirepig/pkg/predicate"
	"github.com/griffinmyers/wirepig/pkg/resolve"
)

// Protocol identifies whether a Mock belongs to the HTTP or TCP
// listener; it also selects the mock's printable form tag.
type Protocol int

const (
	ProtocolHTTP Protocol = iota
	ProtocolTCP
)

func (p Protocol) String() string {
	if p == ProtocolTCP {
		return "TCP"
	}
	return "HTTP"
}

// HTTPRequest is either a whole-request callable or a structured
// record of per-field leaf/sequence predicates, per spec.md §3.
type HTTPRequest struct {
	// Whole is set when the request predicate is a single callable
	// (request) -> bool rather than a structured record. When set,
	// the structured fields below are ignored.
	Whole predicate.Value

	Method  predicate.Value
	Path    predicate.Value
	Query   predicate.Value
	Headers predicate.Value // KindRecord of header name -> leaf or sequence predicate
	Body    predicate.Value
}

// IsWhole reports whether the request predicate is a single callable
// rather than a structured record.
func (r HTTPRequest) IsWhole() bool { return !r.Whole.IsAbsent() }

// HTTPResponse is a response descriptor: either a whole-response
// callable (request, body) -> record, or a structured record of
// per-field literal-or-callable resolve.Values.
type HTTPResponse struct {
	// Whole is set when the response descriptor is a single callable
	// rather than a structured record.
	Whole resolve.Value

	Body          resolve.Value
	StatusCode    resolve.Value
	Headers       resolve.Value
	HeaderDelayMs resolve.Value
	BodyDelayMs   resolve.Value
	DestroySocket resolve.Value
}

// TCPResponse is a response descriptor for a TCP mock: a callable, a
// bufferable literal, or a structured record, per spec.md §3.
type TCPResponse struct {
	Body          resolve.Value
	BodyDelayMs   resolve.Value
	DestroySocket resolve.Value
}

// pinGroup is the shared pinning record a head mock and its tail
// children bind to once the head matches a connection. Comparing by
// pointer identity is exactly the "same connection" check spec.md
// §4.5 wants: two mocks are in the same pinning group iff they share
// a *pinGroup, and a tail is eligible only once its group is bound.
type pinGroup struct {
	mu    sync.Mutex
	conn  any
	bound bool
}

func (g *pinGroup) bind(conn any) {
	if g == nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.bound {
		g.conn = conn
		g.bound = true
	}
}

func (g *pinGroup) boundTo(conn any) bool {
	if g == nil {
		return true // a head has no pinning relation: eligible on any connection
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.bound && g.conn == conn
}

// Mock is a single registered expectation: a request predicate, a
// response descriptor, and the pending/matched flag the lifecycle and
// matchers transition exactly once. Build one with BuildHTTP or
// BuildTCP; the zero value is not useful.
type Mock struct {
	ID       string
	Protocol Protocol
	Name     string

	HTTPReq HTTPRequest
	HTTPRes HTTPResponse

	// IsInit, Init, TCPReq, TCPRes are TCP-only. Exactly one of Init
	// or (TCPReq, TCPRes) is populated, per spec.md §3's enforced
	// invariant; IsInit reports which.
	IsInit bool
	Init   resolve.Value
	TCPReq predicate.Value
	TCPRes TCPResponse

	// isHead is true for every mock except a tail created via a
	// MockHandle. A head stays eligible on any connection for its
	// entire life, whether or not it ever grows a pinGroup.
	isHead bool

	// pin is nil until a head grows its first tail, at which point the
	// head and every tail share the same *pinGroup. A tail's pin is
	// always non-nil; a childless head's pin is always nil.
	pin *pinGroup

	mu   sync.Mutex
	done bool
}

// NewID returns a fresh mock identifier. Grounded on the teacher's use
// of google/uuid for entity identifiers throughout pkg/audit and
// internal/id.
func NewID() string { return uuid.NewString() }

// Pending reports whether the mock has not yet matched.
func (m *Mock) Pending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.done
}

// TryMatch atomically transitions the mock from pending to matched,
// reporting whether this call performed the transition. At most one
// caller ever observes true for a given Mock, satisfying spec.md §8's
// "0 or 1 transitions" invariant under concurrent matching.
func (m *Mock) TryMatch() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.done {
		return false
	}
	m.done = true
	return true
}

// EligibleOn reports whether a TCP mock may match on conn: always true
// for a head (its own pinGroup, if any, only constrains its tails),
// and for a tail only once its group's head has bound to this same
// connection.
func (m *Mock) EligibleOn(conn any) bool {
	if m.isHead {
		return true
	}
	return m.pin.boundTo(conn)
}

// BindPin binds this mock's pinning group to conn. A no-op for a head
// with no tails, since it has no pinning group to bind.
func (m *Mock) BindPin(conn any) { m.pin.bind(conn) }

// IsHead reports whether this mock is a pinning-group head, as
// opposed to a tail created via a MockHandle.
func (m *Mock) IsHead() bool { return m.isHead }

// String renders the mock's printable form per spec.md §6: `HTTP{...}`
// or `TCP{...}`, suppressing absent fields and displaying callables by
// their source name.
func (m *Mock) String() string {
	var fields []string
	if m.Name != "" {
		fields = append(fields, "name="+m.Name)
	}

	switch m.Protocol {
	case ProtocolHTTP:
		appendField(&fields, "method", m.HTTPReq.Method)
		appendField(&fields, "path", m.HTTPReq.Path)
		appendField(&fields, "query", m.HTTPReq.Query)
		appendField(&fields, "headers", m.HTTPReq.Headers)
		appendField(&fields, "body", m.HTTPReq.Body)
	case ProtocolTCP:
		if m.IsInit {
			fields = append(fields, "init")
		} else {
			appendField(&fields, "req", m.TCPReq)
		}
	}

	return fmt.Sprintf("%s{%s}", m.Protocol, strings.Join(fields, ", "))
}

func appendField(fields *[]string, key string, v predicate.Value) {
	if v.IsAbsent() {
		return
	}
	*fields = append(*fields, key+"="+v.String())
}
