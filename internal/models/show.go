package models

import (
	"strconv"
	"time"
)

// DateLayout is the calendar format for user-entered dates (day/month/year).
const DateLayout = "02/01/2006"

// NextSeasonUnknown is the sentinel stored when the next season has no
// announced air date yet.
const NextSeasonUnknown = "unknown"

// TrackedShow is one user's record of progress on one TMDB series.
type TrackedShow struct {
	TMDBID int64 `json:"tmdb_id"`

	// Descriptive fields, snapshotted from TMDB at creation time and only
	// replaced by an explicit refresh.
	Name         string `json:"name"`
	Overview     string `json:"overview"`
	FirstAirDate string `json:"first_air_date"`
	PosterPath   string `json:"poster_path"`
	TotalSeasons int    `json:"total_seasons"`

	// Progress fields, user-supplied.
	SeasonsWatched int  `json:"seasons_watched"`
	HasEnded       bool `json:"has_ended"`

	// UpToDate is derived from SeasonsWatched/TotalSeasons. Never set it
	// directly; call Recompute after any mutation.
	UpToDate bool `json:"up_to_date"`

	// NextSeasonDate is a DateLayout date, the NextSeasonUnknown sentinel,
	// or empty. Always empty while HasEnded is true.
	NextSeasonDate string `json:"next_season_date,omitempty"`

	AddedAt time.Time `json:"added_at"`
}

// Key returns the collection key for the show (decimal TMDB id).
func (s *TrackedShow) Key() string {
	return strconv.FormatInt(s.TMDBID, 10)
}

// Recompute re-derives UpToDate and enforces that ended shows carry no
// next-season date. Every mutation path must go through it.
func (s *TrackedShow) Recompute() {
	s.UpToDate = s.SeasonsWatched >= s.TotalSeasons
	if s.HasEnded {
		s.NextSeasonDate = ""
	}
}

// NextSeasonKnown reports whether the record carries a concrete (non-sentinel)
// next-season date.
func (s *TrackedShow) NextSeasonKnown() bool {
	return s.NextSeasonDate != "" && s.NextSeasonDate != NextSeasonUnknown
}

// Collection maps show keys to tracked shows for a single user.
type Collection map[string]*TrackedShow

// Dataset is the whole persisted state: user identifier to collection.
type Dataset map[string]Collection

// Normalize drops malformed entries and re-derives computed fields, so code
// downstream of the load path can assume well-formed records.
func (c Collection) Normalize() {
	for key, show := range c {
		if show == nil || show.TMDBID == 0 {
			delete(c, key)
			continue
		}
		if key != show.Key() {
			delete(c, key)
			continue
		}
		if show.SeasonsWatched < 0 {
			show.SeasonsWatched = 0
		}
		if show.TotalSeasons < 0 {
			show.TotalSeasons = 0
		}
		show.Recompute()
	}
}

// Clone returns a deep copy of the collection.
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	for key, show := range c {
		copied := *show
		out[key] = &copied
	}
	return out
}
