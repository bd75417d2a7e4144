package mockset

import (
	"io"
	"log/slog"
	"sync"

	"github.com/griffinmyers/wirepig/pkg/mock"
)

// Set is an ordered, thread-safe collection of mocks owned by one
// listener. Registration appends; matching iterates a snapshot in
// insertion order, per spec.md §4.6.
type Set struct {
	mu     sync.Mutex
	mocks  []*mock.Mock
	logger *slog.Logger
}

// New creates an empty Set. A nil logger is replaced with a no-op one.
func New(logger *slog.Logger) *Set {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Set{logger: logger}
}

// Register appends m to the set and returns a Handle wrapping it.
func (s *Set) Register(m *mock.Mock) *Handle {
	s.mu.Lock()
	s.mocks = append(s.mocks, m)
	s.mu.Unlock()
	return &Handle{mock: m, set: s}
}

// Snapshot returns the mocks currently registered, in insertion
// order. The returned slice is a copy; mutating it does not affect
// the set.
func (s *Set) Snapshot() []*mock.Mock {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*mock.Mock, len(s.mocks))
	copy(out, s.mocks)
	return out
}

// Reset partitions the set into pending and matched mocks, always
// drains the set (even on the error path, per the reset-drains-even-
// on-error decision in DESIGN.md), and either raises
// *PendingMockError naming each pending mock or logs them and
// proceeds, depending on throwOnPending.
func (s *Set) Reset(throwOnPending bool) error {
	s.mu.Lock()
	mocks := s.mocks
	s.mocks = nil
	s.mu.Unlock()

	var pending []*mock.Mock
	for _, m := range mocks {
		if m.Pending() {
			pending = append(pending, m)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	if throwOnPending {
		return &PendingMockError{Pending: pending}
	}

	s.logger.Warn("reset: discarding pending mocks", "count", len(pending))
	for _, m := range pending {
		s.logger.Warn("pending mock discarded", "mock", m.String())
	}
	return nil
}

// Handle is returned from Register and exposed to callers as
// mockHandle in spec.md §6.
type Handle struct {
	mock *mock.Mock
	set  *Set
}

// Underlying returns the *mock.Mock this Handle wraps.
func (h *Handle) Underlying() *mock.Mock { return h.mock }

// AssertDone raises *PendingMockError if the wrapped mock is still
// pending, per spec.md §4.6.
func (h *Handle) AssertDone() error {
	if h.mock.Pending() {
		return &PendingMockError{Pending: []*mock.Mock{h.mock}}
	}
	return nil
}

// Mock spawns a pinned tail child on h's TCP mock, registers it on
// the same set, and returns its Handle. TCP-only; per spec.md §4.5,
// children share h's pinning record and may not themselves be init
// mocks.
func (h *Handle) Mock(decl mock.Declaration) (*Handle, error) {
	child, err := mock.BuildTCPTail(h.mock, decl)
	if err != nil {
		return nil, err
	}
	return h.set.Register(child), nil
}
