package srs

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/studydeck/studydeck-api/internal/domain"
)

// SelectDueCards filters cards down to those owned by ownerID that are
// due at the given time (NextReview at or before now, boundary inclusive)
// and orders them hardest first. Cards with equal difficulty keep their
// original relative order. The input slice is not modified; calling twice
// with the same inputs yields the same output.
func SelectDueCards(
	cards []*domain.Flashcard,
	ownerID uuid.UUID,
	now time.Time,
) []*domain.Flashcard {
	due := make([]*domain.Flashcard, 0, len(cards))
	for _, card := range cards {
		if card.OwnerID == ownerID && card.IsDue(now) {
			due = append(due, card)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].Difficulty > due[j].Difficulty
	})

	return due
}
