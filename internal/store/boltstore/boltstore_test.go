package boltstore

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"trackarr/internal/models"
	"trackarr/internal/store"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	s, err := Open(filepath.Join(t.TempDir(), "trackarr.db"), logger)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testShow(id int64, name string, total, watched int) *models.TrackedShow {
	show := &models.TrackedShow{
		TMDBID:         id,
		Name:           name,
		TotalSeasons:   total,
		SeasonsWatched: watched,
		AddedAt:        time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	show.Recompute()
	return show
}

func TestUpsertGetDelete(t *testing.T) {
	s := openTestStore(t)

	if err := s.Upsert("42", testShow(100, "Alpha", 3, 2)); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if err := s.Upsert("42", testShow(100, "Other", 1, 0)); err != nil {
		t.Fatalf("duplicate upsert = %v, want nil", err)
	}

	got, err := s.Get("42", "100")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Name != "Alpha" {
		t.Errorf("duplicate upsert overwrote record: %+v", got)
	}

	removed, err := s.Delete("42", "100")
	if err != nil || !removed {
		t.Fatalf("delete = (%v, %v), want (true, nil)", removed, err)
	}
	if _, err := s.Get("42", "100"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("get after delete = %v, want ErrNotFound", err)
	}
}

func TestUpdatesKeepInvariants(t *testing.T) {
	s := openTestStore(t)

	show := testShow(100, "Alpha", 3, 2)
	show.NextSeasonDate = "31/12/2099"
	if err := s.Upsert("42", show); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	if err := s.UpdateSeasonsWatched("42", "100", 3); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	got, _ := s.Get("42", "100")
	if !got.UpToDate {
		t.Error("up_to_date not recomputed after seasons update")
	}

	if err := s.UpdateHasEnded("42", "100", true); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	got, _ = s.Get("42", "100")
	if got.NextSeasonDate != "" {
		t.Errorf("next_season_date = %q after ending, want empty", got.NextSeasonDate)
	}
}

func TestGetAllByUser(t *testing.T) {
	s := openTestStore(t)

	if err := s.Upsert("42", testShow(100, "Alpha", 3, 2)); err != nil {
		t.Fatal(err)
	}
	if err := s.Upsert("42", testShow(200, "Beta", 1, 1)); err != nil {
		t.Fatal(err)
	}
	if err := s.Upsert("99", testShow(300, "Gamma", 2, 0)); err != nil {
		t.Fatal(err)
	}

	collection, err := s.GetAll("42")
	if err != nil {
		t.Fatalf("get all failed: %v", err)
	}
	if len(collection) != 2 {
		t.Errorf("user 42 collection size = %d, want 2", len(collection))
	}
	if _, ok := collection["300"]; ok {
		t.Error("collection leaked another user's record")
	}

	users, err := s.Users()
	if err != nil {
		t.Fatalf("users failed: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("users = %v, want 2 entries", users)
	}
}
