// Package domain contains the core business entities and validation rules
// of the vocabulary mastery engine: users, learner profiles, flashcard
// progress records, and the embedded vocabulary content types. It is
// independent of any specific infrastructure or delivery mechanism.
package domain
