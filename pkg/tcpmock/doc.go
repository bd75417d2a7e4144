// Package tcpmock implements the TCP matcher and listener of spec.md
// §4.5 and §4.7: on connect it writes the first pending init mock's
// payload, then on each data chunk it grows a per-connection buffer
// and rescans the mock set for the first pending, eligible mock whose
// request predicate is satisfied by the whole buffer.
package tcpmock
