// Package views holds the pure query functions over a user's collection:
// named list views, the upcoming-premiere reminders, and in-collection search.
package views

import (
	"sort"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"trackarr/internal/models"
)

// ListType names one of the collection views.
type ListType string

const (
	ListAll       ListType = "all"
	ListCompleted ListType = "completed"
	ListOngoing   ListType = "ongoing"
	ListPending   ListType = "pending"
	ListEnded     ListType = "ended"
)

// ListTypes enumerates the views in menu order.
var ListTypes = []ListType{ListAll, ListCompleted, ListOngoing, ListPending, ListEnded}

var titleCollator = collate.New(language.Und, collate.IgnoreCase)

func sortByTitle(shows []*models.TrackedShow) {
	sort.SliceStable(shows, func(i, j int) bool {
		return titleCollator.CompareString(shows[i].Name, shows[j].Name) < 0
	})
}

// nextSeasonTime parses a record's next-season date for ordering. Unknown,
// absent, and unparsable dates sort last.
func nextSeasonTime(show *models.TrackedShow) time.Time {
	if !show.NextSeasonKnown() {
		return maxTime
	}
	t, err := time.Parse(models.DateLayout, show.NextSeasonDate)
	if err != nil {
		return maxTime
	}
	return t
}

var maxTime = time.Unix(1<<62, 0)

func filter(c models.Collection, keep func(*models.TrackedShow) bool) []*models.TrackedShow {
	shows := make([]*models.TrackedShow, 0, len(c))
	for _, show := range c {
		if keep(show) {
			shows = append(shows, show)
		}
	}
	return shows
}

// All returns every record, sorted case-insensitively by title.
func All(c models.Collection) []*models.TrackedShow {
	shows := filter(c, func(*models.TrackedShow) bool { return true })
	sortByTitle(shows)
	return shows
}

// Completed returns up-to-date ended shows, sorted by title.
func Completed(c models.Collection) []*models.TrackedShow {
	shows := filter(c, func(s *models.TrackedShow) bool { return s.UpToDate && s.HasEnded })
	sortByTitle(shows)
	return shows
}

// Ongoing returns not-ended shows, soonest next season first; unknown or
// unparsable dates sort last.
func Ongoing(c models.Collection) []*models.TrackedShow {
	shows := filter(c, func(s *models.TrackedShow) bool { return !s.HasEnded })
	sort.SliceStable(shows, func(i, j int) bool {
		ti, tj := nextSeasonTime(shows[i]), nextSeasonTime(shows[j])
		if ti.Equal(tj) {
			return titleCollator.CompareString(shows[i].Name, shows[j].Name) < 0
		}
		return ti.Before(tj)
	})
	return shows
}

// Pending returns ended shows the user is behind on, sorted by title.
func Pending(c models.Collection) []*models.TrackedShow {
	shows := filter(c, func(s *models.TrackedShow) bool { return !s.UpToDate && s.HasEnded })
	sortByTitle(shows)
	return shows
}

// Ended returns ended shows, sorted by title.
func Ended(c models.Collection) []*models.TrackedShow {
	shows := filter(c, func(s *models.TrackedShow) bool { return s.HasEnded })
	sortByTitle(shows)
	return shows
}

// List dispatches to the named view. Unknown types report ok=false.
func List(c models.Collection, listType ListType) (shows []*models.TrackedShow, ok bool) {
	switch listType {
	case ListAll:
		return All(c), true
	case ListCompleted:
		return Completed(c), true
	case ListOngoing:
		return Ongoing(c), true
	case ListPending:
		return Pending(c), true
	case ListEnded:
		return Ended(c), true
	default:
		return nil, false
	}
}

// Reminder is one upcoming-premiere entry.
type Reminder struct {
	Show       *models.TrackedShow `json:"show"`
	Date       time.Time           `json:"date"`
	DaysUntil  int                 `json:"days_until"`
	NextSeason int                 `json:"next_season"`
}

// Reminders returns the not-ended shows whose concrete next-season date falls
// within [today, today+windowDays], soonest first. Shows with the unknown
// sentinel are excluded even when not ended.
func Reminders(c models.Collection, now time.Time, windowDays int) []Reminder {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var reminders []Reminder
	for _, show := range c {
		if show.HasEnded || !show.NextSeasonKnown() {
			continue
		}
		date, err := time.Parse(models.DateLayout, show.NextSeasonDate)
		if err != nil {
			continue
		}
		days := int(date.Sub(today).Hours() / 24)
		if days < 0 || days > windowDays {
			continue
		}
		reminders = append(reminders, Reminder{
			Show:       show,
			Date:       date,
			DaysUntil:  days,
			NextSeason: show.SeasonsWatched + 1,
		})
	}

	sort.SliceStable(reminders, func(i, j int) bool {
		return reminders[i].Date.Before(reminders[j].Date)
	})
	return reminders
}

// Search returns shows whose title contains term (case-insensitive), closest
// match first.
func Search(c models.Collection, term string) []*models.TrackedShow {
	needle := strings.ToLower(strings.TrimSpace(term))
	shows := filter(c, func(s *models.TrackedShow) bool {
		return strings.Contains(strings.ToLower(s.Name), needle)
	})
	sort.SliceStable(shows, func(i, j int) bool {
		di := levenshtein.ComputeDistance(needle, strings.ToLower(shows[i].Name))
		dj := levenshtein.ComputeDistance(needle, strings.ToLower(shows[j].Name))
		if di == dj {
			return titleCollator.CompareString(shows[i].Name, shows[j].Name) < 0
		}
		return di < dj
	})
	return shows
}
