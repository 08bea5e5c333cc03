// Package store defines the persistence interfaces for users, learner
// profiles, and flashcard progress records, together with the shared
// error sentinels all implementations map onto. Business logic depends
// only on these interfaces, never on a concrete database.
package store
