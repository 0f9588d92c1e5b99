package store

import (
	"errors"

	"trackarr/internal/models"
)

// ErrNotFound is returned when the user or show does not exist.
var ErrNotFound = errors.New("store: show not found")

// RefreshedDetails carries the descriptive fields replaced by an explicit
// update-from-source action. Progress fields are never part of a refresh.
type RefreshedDetails struct {
	Name         string
	Overview     string
	FirstAirDate string
	PosterPath   string
	TotalSeasons int
}

// Store owns the per-user tracked-show collections. Implementations persist
// synchronously: a mutating call returns only after the in-memory state is
// updated and the write has been attempted. Upsert of an already-tracked key
// is a no-op that leaves the record untouched and returns nil. The typed
// update methods recompute the derived up-to-date flag on every call, and
// setting the ended flag also clears the next-season date, so no caller can
// leave a record inconsistent.
type Store interface {
	Upsert(userID string, show *models.TrackedShow) error
	Get(userID, key string) (*models.TrackedShow, error)
	GetAll(userID string) (models.Collection, error)
	UpdateSeasonsWatched(userID, key string, seasons int) error
	UpdateHasEnded(userID, key string, ended bool) error
	UpdateNextSeasonDate(userID, key string, date string) error
	RefreshDetails(userID, key string, details RefreshedDetails) error
	Delete(userID, key string) (bool, error)
	Stats(userID string) (models.Stats, error)
	Users() ([]string, error)
	Snapshot() error
	Close() error
}
