// Package resolve implements the coercers that turn a polymorphic
// response descriptor into a concrete output: bytes, an integer, a
// bool, or a header map.
//
// Every coercer follows the same calling discipline: if the input is a
// callable, it is invoked with the supplied arguments first; any fault
// raised by that call is swallowed and the coercer falls through to its
// default rather than letting a bad response descriptor crash a
// shared server mid-response.
package resolve
