package boltstore

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/timshannon/bolthold"
	"go.etcd.io/bbolt"

	"trackarr/internal/models"
	"trackarr/internal/store"
)

// record is the bolthold document: one tracked show for one user.
type record struct {
	ID     string `boltholdKey:"ID"` // userID + "/" + show key
	UserID string `boltholdIndex:"UserID"`
	Show   models.TrackedShow
}

func recordID(userID, key string) string {
	return userID + "/" + key
}

// Store is the embedded-database backend behind the same Store interface as
// the JSON document store.
type Store struct {
	store  *bolthold.Store
	logger *logrus.Logger
}

// Open opens (or creates) the bolthold database at path.
func Open(path string, logger *logrus.Logger) (*Store, error) {
	bh, err := bolthold.Open(path, 0600, &bolthold.Options{
		Options: &bbolt.Options{
			Timeout: 1 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &Store{store: bh, logger: logger}, nil
}

// Upsert inserts a new record. Inserting an already-tracked key is a no-op:
// the existing record is left untouched and no error is reported.
func (s *Store) Upsert(userID string, show *models.TrackedShow) error {
	show.Recompute()
	rec := record{
		ID:     recordID(userID, show.Key()),
		UserID: userID,
		Show:   *show,
	}
	err := s.store.Insert(rec.ID, &rec)
	if errors.Is(err, bolthold.ErrKeyExists) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to insert show: %w", err)
	}
	return nil
}

// Get returns one record, or ErrNotFound.
func (s *Store) Get(userID, key string) (*models.TrackedShow, error) {
	var rec record
	err := s.store.Get(recordID(userID, key), &rec)
	if errors.Is(err, bolthold.ErrNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get show: %w", err)
	}
	show := rec.Show
	return &show, nil
}

// GetAll returns the user's collection, empty for unknown users.
func (s *Store) GetAll(userID string) (models.Collection, error) {
	var recs []*record
	if err := s.store.Find(&recs, bolthold.Where("UserID").Eq(userID).Index("UserID")); err != nil {
		return nil, fmt.Errorf("failed to list shows: %w", err)
	}
	collection := make(models.Collection, len(recs))
	for _, rec := range recs {
		show := rec.Show
		collection[show.Key()] = &show
	}
	return collection, nil
}

func (s *Store) update(userID, key string, mutate func(*models.TrackedShow)) error {
	id := recordID(userID, key)
	var rec record
	err := s.store.Get(id, &rec)
	if errors.Is(err, bolthold.ErrNotFound) {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get show: %w", err)
	}
	mutate(&rec.Show)
	rec.Show.Recompute()
	if err := s.store.Update(id, &rec); err != nil {
		return fmt.Errorf("failed to update show: %w", err)
	}
	return nil
}

// UpdateSeasonsWatched sets the watched-season count and recomputes the
// derived status.
func (s *Store) UpdateSeasonsWatched(userID, key string, seasons int) error {
	return s.update(userID, key, func(show *models.TrackedShow) {
		show.SeasonsWatched = seasons
	})
}

// UpdateHasEnded sets the ended flag; setting it clears the next-season date.
func (s *Store) UpdateHasEnded(userID, key string, ended bool) error {
	return s.update(userID, key, func(show *models.TrackedShow) {
		show.HasEnded = ended
	})
}

// UpdateNextSeasonDate sets the next-season date.
func (s *Store) UpdateNextSeasonDate(userID, key string, date string) error {
	return s.update(userID, key, func(show *models.TrackedShow) {
		show.NextSeasonDate = date
	})
}

// RefreshDetails replaces the descriptive snapshot, leaving progress fields
// untouched.
func (s *Store) RefreshDetails(userID, key string, details store.RefreshedDetails) error {
	return s.update(userID, key, func(show *models.TrackedShow) {
		show.Name = details.Name
		show.Overview = details.Overview
		show.FirstAirDate = details.FirstAirDate
		show.PosterPath = details.PosterPath
		show.TotalSeasons = details.TotalSeasons
	})
}

// Delete removes the record if present and reports whether a removal occurred.
func (s *Store) Delete(userID, key string) (bool, error) {
	err := s.store.Delete(recordID(userID, key), &record{})
	if errors.Is(err, bolthold.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to delete show: %w", err)
	}
	return true, nil
}

// Stats computes the aggregate counts for one user.
func (s *Store) Stats(userID string) (models.Stats, error) {
	collection, err := s.GetAll(userID)
	if err != nil {
		return models.Stats{}, err
	}
	return models.ComputeStats(collection), nil
}

// Users lists all user identifiers with stored data.
func (s *Store) Users() ([]string, error) {
	var recs []*record
	if err := s.store.Find(&recs, nil); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	seen := map[string]bool{}
	var users []string
	for _, rec := range recs {
		if !seen[rec.UserID] {
			seen[rec.UserID] = true
			users = append(users, rec.UserID)
		}
	}
	return users, nil
}

// Snapshot is a no-op: bbolt keeps its own durable file.
func (s *Store) Snapshot() error {
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.store.Close()
}
