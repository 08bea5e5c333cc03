package domain

import "errors"

// Common validation errors for VocabularyItem
var (
	ErrEmptyVocabularyFrom = errors.New("vocabulary item source word cannot be empty")
	ErrEmptyVocabularyTo   = errors.New("vocabulary item target word cannot be empty")
)

// VocabularyItem is one entry of the static vocabulary content: a word pair
// with example sentences, grouped into daily sets within a (level,
// direction) scope. Content is read-only; the tracker only copies the
// example fields into new progress records.
type VocabularyItem struct {
	From        string `json:"from"`
	To          string `json:"to"`
	ExampleFrom string `json:"exampleFrom"`
	ExampleTo   string `json:"exampleTo"`
	Day         int    `json:"day,omitempty"`
}

// Validate checks if the VocabularyItem has valid data.
func (v VocabularyItem) Validate() error {
	if v.From == "" {
		return ErrEmptyVocabularyFrom
	}
	if v.To == "" {
		return ErrEmptyVocabularyTo
	}
	return nil
}
