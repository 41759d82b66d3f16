// Package storage holds the database backed heat repository. Heats are
// stored as their JSON record in a JSONB column keyed by track and session.
package storage
