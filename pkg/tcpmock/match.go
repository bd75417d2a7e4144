package tcpmock

import (
	"github.com/griffinmyers/wirepig/pkg/mock"
	"github.com/griffinmyers/wirepig/pkg/predicate"
	"github.com/griffinmyers/wirepig/pkg/resolve"
)

// eligible reports whether m may be considered a candidate at all:
// not an init mock, still pending, and either a head (no pinning
// relation) or a tail already bound to conn.
func eligible(m *mock.Mock, conn any) bool {
	return !m.IsInit && m.Pending() && m.EligibleOn(conn)
}

// matchesBuffer reports whether m's request predicate is satisfied by
// the entire current buffer, per spec.md §4.5 step 2: "not a sliding
// window".
func matchesBuffer(m *mock.Mock, buf []byte) bool {
	return predicate.Compare(m.TCPReq, buf)
}

type resolvedWrite struct {
	BodyDelayMs   int64
	DestroySocket bool
	Body          []byte
}

func resolveInit(m *mock.Mock) []byte {
	return resolve.ToBytes(m.Init)
}

func resolveWrite(m *mock.Mock, buf []byte) resolvedWrite {
	args := []any{buf}
	return resolvedWrite{
		BodyDelayMs:   resolve.ToInt(m.TCPRes.BodyDelayMs, 0, args...),
		DestroySocket: resolve.ToBool(m.TCPRes.DestroySocket, args...),
		Body:          resolve.ToBytes(m.TCPRes.Body, args...),
	}
}
