// Package events provides the decoupling layer between services that
// request background work and the task machinery that performs it.
// A service emits a TaskRequestEvent without knowing which handlers are
// registered; handlers turn events into executable tasks. This keeps
// the upload service free of a direct dependency on the task package.
package events
