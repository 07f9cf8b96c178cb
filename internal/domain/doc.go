// Package domain contains the core entities of the studydeck application:
// users, uploads, flashcards, quizzes and their review/result records.
// Entities validate themselves and carry no persistence or transport
// concerns; those live in the store and api packages respectively.
package domain
