// Package httpmock implements the HTTP matcher and listener of
// spec.md §4.4 and §4.7: an acceptor that parses each request while
// preserving wire-case header names, walks the listener's mock set in
// insertion order for the first pending match, and writes a resolved
// response honoring headerDelay/bodyDelay/destroySocket — or the exact
// 404 fallback body when nothing matches.
package httpmock
