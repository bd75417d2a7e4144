package mockset

import (
	"strings"

	"github.com/griffinmyers/wirepig/pkg/mock"
)

// PendingMockError is raised by AssertDone or Reset when one or more
// registered mocks never matched. It enumerates each unmatched mock
// using its printable form, per spec.md §7 taxonomy 3.
type PendingMockError struct {
	Pending []*mock.Mock
}

func (e *PendingMockError) Error() string {
	forms := make([]string, len(e.Pending))
	for i, m := range e.Pending {
		forms[i] = m.String()
	}
	return "pending mocks were never matched: " + strings.Join(forms, ", ")
}
