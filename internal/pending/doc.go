// Package pending correlates an outbound sign request with the redirect that
// answers it. A Broker holds one outstanding Operation; the redirect flow
// resolves or rejects it and the caller waits on it with a deadline.
package pending
