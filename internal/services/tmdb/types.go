package tmdb

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Details for an unknown series id.
var ErrNotFound = errors.New("tmdb: show not found")

// SearchResult is one candidate from a title search.
type SearchResult struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	FirstAirDate string `json:"first_air_date"`
}

// ShowDetails is the full record fetched for one series.
type ShowDetails struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Overview        string `json:"overview"`
	FirstAirDate    string `json:"first_air_date"`
	NumberOfSeasons int    `json:"number_of_seasons"`
	PosterPath      string `json:"poster_path"`
}

// Gateway is the show-information boundary consumed by the dialogue engine.
// Implementations must bound their blocking time; a failed call terminates the
// current dialogue step with a user-visible error, there are no retries.
type Gateway interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
	Details(ctx context.Context, id int64) (*ShowDetails, error)
}
