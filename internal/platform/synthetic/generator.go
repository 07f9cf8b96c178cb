// Package synthetic provides deterministic, offline implementations of
// the generation interfaces. It derives flashcards and quizzes from the
// keywords of the uploaded text using simple templates, with no calls
// to external services. It is the generation backend used in
// development and tests.
package synthetic

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/studydeck/studydeck-api/internal/domain"
	"github.com/studydeck/studydeck-api/internal/generation"

	"github.com/google/uuid"
)

// minKeywordLength is the shortest word treated as a content keyword.
const minKeywordLength = 6

// maxKeywords caps how many keywords feed card and question generation
// for a single upload.
const maxKeywords = 10

// Generator is a deterministic implementation of both
// generation.Extractor and generation.Generator. The same input always
// produces the same questions, which keeps tests stable.
type Generator struct {
	logger *slog.Logger

	// timeFunc returns the current time. Injectable for tests.
	timeFunc func() time.Time
}

// NewGenerator creates a synthetic generator. If logger is nil, a
// default logger will be used.
func NewGenerator(logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		logger:   logger.With(slog.String("component", "synthetic_generator")),
		timeFunc: func() time.Time { return time.Now().UTC() },
	}
}

// Ensure Generator implements the generation interfaces
var (
	_ generation.Extractor = (*Generator)(nil)
	_ generation.Generator = (*Generator)(nil)
)

// WithTimeFunc returns a copy of the generator that uses the given
// function as its clock.
func (g *Generator) WithTimeFunc(timeFunc func() time.Time) *Generator {
	clone := *g
	clone.timeFunc = timeFunc
	return &clone
}

// ExtractText implements generation.Extractor.ExtractText
// For text uploads the content is returned as-is. For PDF and image
// uploads, where no real extraction backend is wired, it produces a
// templated study text from the title so the rest of the pipeline can
// run. Topics are the leading keywords of the extracted text.
func (g *Generator) ExtractText(
	ctx context.Context,
	sourceType domain.SourceType,
	title, content string,
) (string, []string, error) {
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}

	var text string
	switch sourceType {
	case domain.SourceTypeText:
		text = strings.TrimSpace(content)
	case domain.SourceTypePDF, domain.SourceTypeImage:
		text = fmt.Sprintf(
			"Study notes for %s. This material covers the fundamentals of %s, "+
				"including key definitions, core concepts, and worked examples.",
			title, title)
	default:
		return "", nil, fmt.Errorf("%w: unknown source type %q",
			generation.ErrExtractionFailed, sourceType)
	}

	if text == "" {
		return "", nil, generation.ErrEmptyContent
	}

	keywords := extractKeywords(text)
	topics := keywords
	if len(topics) > 3 {
		topics = topics[:3]
	}

	g.logger.Debug("extracted text from upload",
		slog.String("source_type", string(sourceType)),
		slog.Int("text_length", len(text)),
		slog.Int("topic_count", len(topics)))
	return text, topics, nil
}

// GenerateFlashcards implements generation.Generator.GenerateFlashcards
// One card is produced per keyword of the extracted text. Card
// difficulty cycles through easy, medium, and hard starting values so a
// fresh deck exercises the whole scheduling range.
func (g *Generator) GenerateFlashcards(ctx context.Context, upload *domain.Upload) ([]*domain.Flashcard, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	keywords := extractKeywords(upload.ExtractedText)
	if len(keywords) == 0 {
		return nil, generation.ErrEmptyContent
	}

	difficulties := []float64{1.0, 2.0, 3.0}
	now := g.timeFunc()

	cards := make([]*domain.Flashcard, 0, len(keywords))
	for i, keyword := range keywords {
		question := fmt.Sprintf("What does %q refer to in %s?", keyword, upload.Title)
		answer := fmt.Sprintf("In %s, %q names one of the core concepts covered by the material.",
			upload.Title, keyword)

		topic := keyword
		if len(upload.Topics) > 0 {
			topic = upload.Topics[i%len(upload.Topics)]
		}

		card, err := domain.NewFlashcard(
			upload.OwnerID,
			upload.ID,
			question,
			answer,
			topic,
			difficulties[i%len(difficulties)],
			now,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
		}
		cards = append(cards, card)
	}

	g.logger.Info("generated flashcards",
		slog.String("upload_id", upload.ID.String()),
		slog.Int("count", len(cards)))
	return cards, nil
}

// GenerateQuiz implements generation.Generator.GenerateQuiz
// Each question asks which concept a keyword belongs to; the distractor
// options are drawn from the other keywords. Uploads with fewer than
// two keywords cannot form a multiple-choice question.
func (g *Generator) GenerateQuiz(ctx context.Context, upload *domain.Upload) (*domain.Quiz, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	keywords := extractKeywords(upload.ExtractedText)
	if len(keywords) < 2 {
		return nil, generation.ErrEmptyContent
	}

	questions := make([]domain.QuizQuestion, 0, len(keywords))
	for i, keyword := range keywords {
		options := buildOptions(keywords, i)
		questions = append(questions, domain.QuizQuestion{
			ID:            uuid.New(),
			Question:      fmt.Sprintf("Which concept from %s is described as %q?", upload.Title, keyword),
			Options:       options,
			CorrectAnswer: 0,
			Explanation:   fmt.Sprintf("%q is the concept the material introduces under this description.", keyword),
		})
	}

	quiz, err := domain.NewQuiz(
		upload.OwnerID,
		upload.ID,
		fmt.Sprintf("Quiz: %s", upload.Title),
		questions,
		g.timeFunc(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	g.logger.Info("generated quiz",
		slog.String("upload_id", upload.ID.String()),
		slog.String("quiz_id", quiz.ID.String()),
		slog.Int("question_count", len(quiz.Questions)))
	return quiz, nil
}

// buildOptions returns the keyword at correctIdx first, followed by up
// to three distractors taken from the surrounding keywords.
func buildOptions(keywords []string, correctIdx int) []string {
	options := []string{keywords[correctIdx]}
	for offset := 1; offset < len(keywords) && len(options) < 4; offset++ {
		options = append(options, keywords[(correctIdx+offset)%len(keywords)])
	}
	return options
}

// extractKeywords returns the distinct lowercase words of the text that
// are at least minKeywordLength runes long, in order of first
// appearance, capped at maxKeywords.
func extractKeywords(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})

	seen := make(map[string]bool, len(words))
	var keywords []string
	for _, word := range words {
		if len([]rune(word)) < minKeywordLength || seen[word] {
			continue
		}
		seen[word] = true
		keywords = append(keywords, word)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}
