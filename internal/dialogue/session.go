package dialogue

import "trackarr/internal/services/tmdb"

// Session states form a tagged union: one type per dialogue step, each
// carrying exactly the fields that are valid in that step. A user with no
// entry in the session map is at the menu.
type sessionState interface {
	isSessionState()
}

// searchingTitle waits for a free-text query for the add-show flow.
type searchingTitle struct{}

// choosingResult waits for the user to pick one search candidate. The query
// is kept so stepping back from a later screen can rebuild the result list.
type choosingResult struct {
	query string
}

// choosingSeason waits for the watched-season count for the chosen show.
type choosingSeason struct {
	query   string
	details *tmdb.ShowDetails
}

// confirmingEnded waits for the yes/no answer on whether the show concluded.
type confirmingEnded struct {
	query          string
	details        *tmdb.ShowDetails
	seasonsWatched int
}

// enteringNextDate waits for the next-season premiere date (or the unknown
// sentinel) of a still-airing show.
type enteringNextDate struct {
	query          string
	details        *tmdb.ShowDetails
	seasonsWatched int
}

// searchingInCollection waits for a free-text query against the user's own
// list. Independent single-step flow reachable from the menu.
type searchingInCollection struct{}

// awaitingSeasonsEdit waits for a typed watched-season count for an existing
// record.
type awaitingSeasonsEdit struct {
	key string
}

// awaitingDateEdit waits for a typed next-season date for an existing record.
type awaitingDateEdit struct {
	key string
}

func (searchingTitle) isSessionState()        {}
func (choosingResult) isSessionState()        {}
func (choosingSeason) isSessionState()        {}
func (confirmingEnded) isSessionState()       {}
func (enteringNextDate) isSessionState()      {}
func (searchingInCollection) isSessionState() {}
func (awaitingSeasonsEdit) isSessionState()   {}
func (awaitingDateEdit) isSessionState()      {}
