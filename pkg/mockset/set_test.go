package mockset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/griffinmyers/wirepig/pkg/mock"
)

func TestSet_RegisterAndSnapshotOrder(t *testing.T) {
	s := New(nil)
	m1, _ := mock.BuildHTTP(mock.Declaration{Name: "first"})
	m2, _ := mock.BuildHTTP(mock.Declaration{Name: "second"})
	s.Register(m1)
	s.Register(m2)

	snap := s.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "first", snap[0].Name)
	assert.Equal(t, "second", snap[1].Name)
}

func TestSet_Reset_NoPendingIsClean(t *testing.T) {
	s := New(nil)
	m, _ := mock.BuildHTTP(mock.Declaration{})
	s.Register(m)
	m.TryMatch()

	require.NoError(t, s.Reset(true))
	assert.Empty(t, s.Snapshot())
}

func TestSet_Reset_ThrowsOnPending(t *testing.T) {
	s := New(nil)
	m, _ := mock.BuildHTTP(mock.Declaration{Name: "never-called"})
	s.Register(m)

	err := s.Reset(true)
	require.Error(t, err)
	var pendingErr *PendingMockError
	require.ErrorAs(t, err, &pendingErr)
	assert.Len(t, pendingErr.Pending, 1)

	// reset drains even on the error path
	assert.Empty(t, s.Snapshot())
}

func TestSet_Reset_SwallowsWhenNotThrowing(t *testing.T) {
	s := New(nil)
	m, _ := mock.BuildHTTP(mock.Declaration{})
	s.Register(m)

	require.NoError(t, s.Reset(false))
	assert.Empty(t, s.Snapshot())
}

func TestHandle_AssertDone(t *testing.T) {
	s := New(nil)
	m, _ := mock.BuildHTTP(mock.Declaration{})
	h := s.Register(m)

	require.Error(t, h.AssertDone())
	m.TryMatch()
	require.NoError(t, h.AssertDone())
}

func TestHandle_Mock_SpawnsPinnedTailOnSameSet(t *testing.T) {
	s := New(nil)
	head, _ := mock.BuildTCP(mock.Declaration{Req: "A", TCPResBody: "1"})
	h := s.Register(head)

	tailHandle, err := h.Mock(mock.Declaration{Req: "B", TCPResBody: "2"})
	require.NoError(t, err)
	require.Len(t, s.Snapshot(), 2)
	assert.False(t, tailHandle.Underlying().IsHead())
}

func TestPendingMockError_Message(t *testing.T) {
	m, _ := mock.BuildHTTP(mock.Declaration{Method: "GET"})
	err := &PendingMockError{Pending: []*mock.Mock{m}}
	assert.Contains(t, err.Error(), "HTTP{method=GET}")
}
