// Package mockset implements the mock set and lifecycle shared by the
// HTTP and TCP listeners: ordered registration, pending tracking, and
// reset semantics (spec.md §4.6).
//
// A Set owns an ordered list of *mock.Mock. Register appends and
// returns a Handle, which a caller can inspect (AssertDone) or, for a
// TCP mock, use to spawn a pinned tail child (Mock). Reset partitions
// the set into pending and matched, always drains it, and either
// raises PendingMockError (naming each pending mock by its printable
// form) or logs and proceeds, depending on throwOnPending.
package mockset
