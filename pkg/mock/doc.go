// Package mock defines the Mock entity shared by the HTTP and TCP
// listeners: a request predicate tree, a response descriptor tree, the
// pending/matched lifecycle flag, and the pinning relation that binds a
// sequence of TCP mocks to one connection.
//
// A Mock is built from a Declaration (the caller-facing option struct)
// by BuildHTTP, BuildTCP or BuildTCPTail, each of which validates the declaration with pkg/validate and
// compiles its fields into pkg/predicate and pkg/resolve values. Mock
// itself exposes only what the matchers and the lifecycle need:
// whether it is pending, how to mark it matched, and its printable form.
package mock
