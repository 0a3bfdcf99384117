// Package mock is a simulated wallet for tests and local runs without a
// device. It keeps its own encryption and account keys, issues session
// tokens, signs payloads, and can be told to reject every request with a
// given error code.
package mock
