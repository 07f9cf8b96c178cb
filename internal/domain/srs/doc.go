// Package srs implements the spaced-repetition scheduling policy: fixed
// per-rating interval tables with saturation, a difficulty score in
// [1.0, 3.0] that drifts toward the rated difficulty, and selection of
// due cards ordered hardest first. All functions are pure; callers supply
// the current time and persist the results.
package srs
