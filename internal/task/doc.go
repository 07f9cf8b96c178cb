// Package task provides the background processing machinery for the
// content pipeline. Tasks are persisted before execution so they
// survive restarts, processed by a fixed pool of workers, and reset
// when they get stuck in the processing state.
package task
