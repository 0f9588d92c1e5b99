package jsonstore

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"trackarr/internal/models"
	"trackarr/internal/store"
)

// Store keeps the whole multi-user dataset in memory and rewrites a single
// JSON document on every mutation. Malformed persisted data degrades to an
// empty dataset at load time rather than failing startup.
type Store struct {
	path   string
	logger *logrus.Logger

	mu   sync.RWMutex
	data models.Dataset
}

// Open loads the dataset from path. A missing or unparsable file yields an
// empty store; per-user structural damage drops only that user's data.
func Open(path string, logger *logrus.Logger) *Store {
	s := &Store{
		path:   path,
		logger: logger,
		data:   models.Dataset{},
	}
	s.load()
	return s
}

func (s *Store) load() {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.WithError(err).Warn("Failed to read data file, starting empty")
		}
		return
	}

	var users map[string]json.RawMessage
	if err := json.Unmarshal(raw, &users); err != nil {
		s.logger.WithError(err).Warn("Data file is not a valid document, starting empty")
		return
	}

	for userID, rawCollection := range users {
		var collection models.Collection
		if err := json.Unmarshal(rawCollection, &collection); err != nil {
			s.logger.WithFields(logrus.Fields{
				"user_id": userID,
			}).WithError(err).Warn("Dropping malformed user data")
			continue
		}
		collection.Normalize()
		s.data[userID] = collection
	}

	s.logger.WithField("users", len(s.data)).Info("Data file loaded")
}

// persist rewrites the whole document. Callers must hold the write lock.
// Write failures are retried briefly and then logged: the in-memory state
// stays authoritative for the rest of the process lifetime.
func (s *Store) persist() {
	write := func() error {
		raw, err := json.MarshalIndent(s.data, "", "  ")
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to marshal dataset: %w", err))
		}
		tmp := s.path + ".tmp"
		if err := os.WriteFile(tmp, raw, 0644); err != nil {
			return fmt.Errorf("failed to write data file: %w", err)
		}
		return os.Rename(tmp, s.path)
	}

	policy := backoff.WithMaxRetries(backoff.NewConstantBackOff(100*time.Millisecond), 3)
	if err := backoff.Retry(write, policy); err != nil {
		s.logger.WithError(err).Error("Failed to persist data file")
	}
}

func (s *Store) find(userID, key string) (*models.TrackedShow, bool) {
	collection, ok := s.data[userID]
	if !ok {
		return nil, false
	}
	show, ok := collection[key]
	return show, ok
}

// Upsert inserts a new record keyed by the show's TMDB id. Inserting an
// already-tracked key is a no-op: the existing record is left untouched and
// no error is reported.
func (s *Store) Upsert(userID string, show *models.TrackedShow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.find(userID, show.Key()); ok {
		return nil
	}

	show.Recompute()
	if s.data[userID] == nil {
		s.data[userID] = models.Collection{}
	}
	copied := *show
	s.data[userID][show.Key()] = &copied
	s.persist()
	return nil
}

// Get returns a copy of one record, or ErrNotFound.
func (s *Store) Get(userID, key string) (*models.TrackedShow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	show, ok := s.find(userID, key)
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *show
	return &copied, nil
}

// GetAll returns a copy of the user's collection. Unknown users get an empty
// collection, never an error.
func (s *Store) GetAll(userID string) (models.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	collection, ok := s.data[userID]
	if !ok {
		return models.Collection{}, nil
	}
	return collection.Clone(), nil
}

func (s *Store) update(userID, key string, mutate func(*models.TrackedShow)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	show, ok := s.find(userID, key)
	if !ok {
		return store.ErrNotFound
	}
	mutate(show)
	show.Recompute()
	s.persist()
	return nil
}

// UpdateSeasonsWatched sets the watched-season count and recomputes the
// derived status.
func (s *Store) UpdateSeasonsWatched(userID, key string, seasons int) error {
	return s.update(userID, key, func(show *models.TrackedShow) {
		show.SeasonsWatched = seasons
	})
}

// UpdateHasEnded sets the ended flag. Setting it also clears the next-season
// date via Recompute.
func (s *Store) UpdateHasEnded(userID, key string, ended bool) error {
	return s.update(userID, key, func(show *models.TrackedShow) {
		show.HasEnded = ended
	})
}

// UpdateNextSeasonDate sets the next-season date (a formatted date or the
// unknown sentinel).
func (s *Store) UpdateNextSeasonDate(userID, key string, date string) error {
	return s.update(userID, key, func(show *models.TrackedShow) {
		show.NextSeasonDate = date
	})
}

// RefreshDetails replaces the descriptive snapshot. Progress fields are not
// touched.
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
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.find(userID, key); !ok {
		return false, nil
	}
	delete(s.data[userID], key)
	s.persist()
	return true, nil
}

// Stats computes the aggregate counts for one user.
func (s *Store) Stats(userID string) (models.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return models.ComputeStats(s.data[userID]), nil
}

// Users lists all user identifiers with stored data.
func (s *Store) Users() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]string, 0, len(s.data))
	for userID := range s.data {
		users = append(users, userID)
	}
	return users, nil
}

// Snapshot copies the current data file next to itself as a backup.
func (s *Store) Snapshot() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read data file for snapshot: %w", err)
	}
	if err := os.WriteFile(s.path+".bak", raw, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// Close is a no-op: every mutation is already flushed.
func (s *Store) Close() error {
	return nil
}
