// Package model contains domain entities and DTOs used across layers.
// I keep it lean and focused on data shapes without behavior.
package model

// Book is a row on the shelf. Listings are ordered by author, then id.
type Book struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Rating *int   `json:"rating"` // nil when the book was shelved without a rating
}

// Category is trivia reference data; the set is seeded once and read-only at runtime.
type Category struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// Question is a trivia question. Listings are ordered by id.
type Question struct {
	ID         int64  `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   int64  `json:"category"`
	Difficulty int    `json:"difficulty"`
}

// QuestionPatch holds the mutable fields of a question. Nil means "leave as is".
type QuestionPatch struct {
	Question   *string
	Answer     *string
	Category   *int64
	Difficulty *int
}

// Apply returns q with every non-nil patch field replaced. Identity is never touched.
func (p QuestionPatch) Apply(q Question) Question {
	if p.Question != nil {
		q.Question = *p.Question
	}
	if p.Answer != nil {
		q.Answer = *p.Answer
	}
	if p.Category != nil {
		q.Category = *p.Category
	}
	if p.Difficulty != nil {
		q.Difficulty = *p.Difficulty
	}
	return q
}

// Empty reports whether the patch changes nothing.
func (p QuestionPatch) Empty() bool {
	return p.Question == nil && p.Answer == nil && p.Category == nil && p.Difficulty == nil
}
