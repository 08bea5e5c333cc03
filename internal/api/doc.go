// Package api holds the HTTP handlers for the learning API: account
// registration and login, learner profiles, vocabulary browsing, mastery
// progress, and practice sessions. Handlers validate input, call the
// services, and translate service errors to HTTP status codes.
package api
