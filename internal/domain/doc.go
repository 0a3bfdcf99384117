// Package domain defines core data models and interfaces shared across the app.
// It contains plain types (keys, sessions, flow states, failures) and
// contracts (stores, services, collaborators) only.
package domain
