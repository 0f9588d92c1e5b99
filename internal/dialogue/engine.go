// Package dialogue implements the per-user conversation state machine that
// turns menu actions and free-text messages into tracked-show records and
// rendered screens.
package dialogue

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"trackarr/internal/export"
	"trackarr/internal/models"
	"trackarr/internal/services/tmdb"
	"trackarr/internal/store"
	"trackarr/internal/views"
)

const (
	// seasonButtonCap limits the number of season choices presented at once;
	// longer shows get a typed-entry affordance instead.
	seasonButtonCap = 20

	overviewLimit = 300
)

// dateSynonyms are accepted in place of a concrete next-season date.
var dateSynonyms = map[string]bool{
	models.NextSeasonUnknown: true,
	"not known":              true,
	"tbd":                    true,
	"no idea":                true,
}

// Engine drives the dialogue. One instance serves all users; per-user state
// is serialized behind a lock keyed by user identifier.
type Engine struct {
	store      store.Store
	gateway    tmdb.Gateway
	logger     *logrus.Logger
	windowDays int
	now        func() time.Time

	mu       sync.Mutex
	sessions map[string]sessionState
	locks    map[string]*sync.Mutex
}

// NewEngine creates the dialogue engine.
func NewEngine(st store.Store, gateway tmdb.Gateway, windowDays int, logger *logrus.Logger) *Engine {
	return &Engine{
		store:      st,
		gateway:    gateway,
		logger:     logger,
		windowDays: windowDays,
		now:        time.Now,
		sessions:   map[string]sessionState{},
		locks:      map[string]*sync.Mutex{},
	}
}

func (e *Engine) userLock(userID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[userID] = lock
	}
	return lock
}

func (e *Engine) state(userID string) sessionState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sessions[userID]
}

func (e *Engine) setState(userID string, state sessionState) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sessions[userID] = state
}

func (e *Engine) clearState(userID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.sessions, userID)
}

// Command handles a discrete selection (a tapped option or menu action) and
// returns the next screen. Failures are converted to user-visible screens;
// the process never sees them as errors.
func (e *Engine) Command(ctx context.Context, userID, action string) *Screen {
	lock := e.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	e.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"action":  action,
	}).Debug("Handling command")

	switch {
	case action == ActionMenu || action == "cancel":
		e.clearState(userID)
		return e.menuScreen()
	case action == "add":
		e.setState(userID, searchingTitle{})
		return prompt("Type the name of the series you want to add:")
	case action == "view":
		e.clearState(userID)
		return e.listsMenuScreen()
	case action == "search":
		e.setState(userID, searchingInCollection{})
		return prompt("Type the name of the series you want to find in your list:")
	case action == "edit":
		e.clearState(userID)
		return e.editPickerScreen(userID)
	case action == "delete":
		e.clearState(userID)
		return e.deletePickerScreen(userID)
	case action == "stats":
		e.clearState(userID)
		return e.statsScreen(userID)
	case action == "reminders":
		e.clearState(userID)
		return e.remindersScreen(userID)
	case action == "export":
		e.clearState(userID)
		return e.exportScreen(userID)
	case strings.HasPrefix(action, "list_"):
		e.clearState(userID)
		return e.listScreen(userID, views.ListType(strings.TrimPrefix(action, "list_")))
	case strings.HasPrefix(action, "show_"):
		e.clearState(userID)
		return e.detailScreen(userID, strings.TrimPrefix(action, "show_"))
	case action == "back":
		return e.handleBack(ctx, userID)
	case strings.HasPrefix(action, "select_"):
		return e.handleSelect(ctx, userID, strings.TrimPrefix(action, "select_"))
	case action == "season_more":
		return e.handleSeasonOverflow(userID)
	case strings.HasPrefix(action, "season_"):
		return e.handleSeason(userID, strings.TrimPrefix(action, "season_"))
	case action == "ended_yes" || action == "ended_no":
		return e.handleEnded(userID, action == "ended_yes")
	case strings.HasPrefix(action, "editfield_"):
		return e.handleEditField(ctx, userID, strings.TrimPrefix(action, "editfield_"))
	case strings.HasPrefix(action, "edit_"):
		e.clearState(userID)
		return e.editOptionsScreen(userID, strings.TrimPrefix(action, "edit_"))
	case strings.HasPrefix(action, "setended_"):
		return e.handleSetEnded(userID, strings.TrimPrefix(action, "setended_"))
	case strings.HasPrefix(action, "delconfirm_"):
		return e.handleDelete(userID, strings.TrimPrefix(action, "delconfirm_"))
	default:
		e.clearState(userID)
		return notice("I did not understand that. Back to the menu.")
	}
}

// Text handles a free-text message according to the user's current dialogue
// state. A user with no session starts the add-show search.
func (e *Engine) Text(ctx context.Context, userID, text string) *Screen {
	lock := e.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	switch st := e.state(userID).(type) {
	case nil, searchingTitle:
		return e.searchTitle(ctx, userID, text)
	case choosingSeason:
		return e.typedSeason(userID, st, text)
	case enteringNextDate:
		return e.enteredDate(userID, st, text)
	case searchingInCollection:
		e.clearState(userID)
		return e.collectionSearchScreen(userID, text)
	case awaitingSeasonsEdit:
		return e.editedSeasons(userID, st, text)
	case awaitingDateEdit:
		return e.editedDate(userID, st, text)
	default:
		// choosingResult and confirmingEnded only accept taps.
		return notice("Please pick one of the options above, or go back to the menu.")
	}
}

// --- add-show flow ---

func (e *Engine) searchTitle(ctx context.Context, userID, query string) *Screen {
	results, err := e.gateway.Search(ctx, query)
	if err != nil {
		e.logger.WithError(err).Error("Show search failed")
		e.clearState(userID)
		return notice("The show service is unavailable right now. Try again later.")
	}
	if len(results) == 0 {
		e.clearState(userID)
		return notice("No series found with that name. Try another search term.")
	}

	options := make([]Option, 0, len(results))
	for _, result := range results {
		label := result.Name
		if len(result.FirstAirDate) >= 4 {
			label = fmt.Sprintf("%s (%s)", result.Name, result.FirstAirDate[:4])
		}
		options = append(options, Option{
			Label:  label,
			Action: "select_" + strconv.FormatInt(result.ID, 10),
		})
	}

	e.setState(userID, choosingResult{query: query})
	return &Screen{
		Text:    "Pick the right series:",
		Options: append(options, backToMenu),
	}
}

func (e *Engine) handleSelect(ctx context.Context, userID, rawID string) *Screen {
	prev, ok := e.state(userID).(choosingResult)
	if !ok {
		e.clearState(userID)
		return notice("That choice has expired. Start again from the menu.")
	}

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		e.clearState(userID)
		return notice("That choice has expired. Start again from the menu.")
	}

	details, err := e.gateway.Details(ctx, id)
	if err != nil {
		e.logger.WithError(err).WithField("tmdb_id", id).Error("Details fetch failed")
		e.clearState(userID)
		return notice("Could not fetch the series details. Try again later.")
	}

	st := choosingSeason{query: prev.query, details: details}
	e.setState(userID, st)
	return seasonScreen(st)
}

func seasonScreen(st choosingSeason) *Screen {
	details := st.details
	text := fmt.Sprintf("%s\n\nFirst aired: %s\nTotal seasons: %d\n\n%s\n\nWhich season did you last finish?",
		details.Name, details.FirstAirDate, details.NumberOfSeasons, truncate(details.Overview, overviewLimit))

	var options []Option
	for i := 1; i <= details.NumberOfSeasons && i <= seasonButtonCap; i++ {
		options = append(options, Option{
			Label:  fmt.Sprintf("Season %d", i),
			Action: fmt.Sprintf("season_%d", i),
		})
	}
	if details.NumberOfSeasons > seasonButtonCap {
		options = append(options, Option{Label: "More seasons...", Action: "season_more"})
	}
	options = append(options, Option{Label: "Back to results", Action: "back"})

	return &Screen{
		Text:    text,
		Options: append(options, backToMenu),
		Poster:  tmdb.PosterURL(details.PosterPath),
	}
}

// handleBack steps one screen backwards inside the add flow. Outside the flow
// it falls through to the menu. The search step is rebuilt from the remembered
// query; the gateway caches recent searches, so no extra upstream call is made.
func (e *Engine) handleBack(ctx context.Context, userID string) *Screen {
	switch st := e.state(userID).(type) {
	case choosingSeason:
		return e.searchTitle(ctx, userID, st.query)
	case confirmingEnded:
		prev := choosingSeason{query: st.query, details: st.details}
		e.setState(userID, prev)
		return seasonScreen(prev)
	case enteringNextDate:
		prev := confirmingEnded{query: st.query, details: st.details, seasonsWatched: st.seasonsWatched}
		e.setState(userID, prev)
		return endedQuestionScreen(st.seasonsWatched)
	default:
		e.clearState(userID)
		return e.menuScreen()
	}
}

func (e *Engine) handleSeasonOverflow(userID string) *Screen {
	st, ok := e.state(userID).(choosingSeason)
	if !ok {
		e.clearState(userID)
		return notice("That choice has expired. Start again from the menu.")
	}
	return prompt(fmt.Sprintf("Type the number of the last season you watched (1-%d):", st.details.NumberOfSeasons))
}

func (e *Engine) handleSeason(userID, raw string) *Screen {
	st, ok := e.state(userID).(choosingSeason)
	if !ok {
		e.clearState(userID)
		return notice("That choice has expired. Start again from the menu.")
	}

	seasons, err := strconv.Atoi(raw)
	if err != nil || seasons < 1 || seasons > st.details.NumberOfSeasons {
		return prompt(fmt.Sprintf("Type a season number between 1 and %d:", st.details.NumberOfSeasons))
	}
	return e.seasonChosen(userID, st, seasons)
}

func (e *Engine) typedSeason(userID string, st choosingSeason, text string) *Screen {
	seasons, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || seasons < 1 || seasons > st.details.NumberOfSeasons {
		return prompt(fmt.Sprintf("Type a season number between 1 and %d:", st.details.NumberOfSeasons))
	}
	return e.seasonChosen(userID, st, seasons)
}

func (e *Engine) seasonChosen(userID string, st choosingSeason, seasons int) *Screen {
	e.setState(userID, confirmingEnded{query: st.query, details: st.details, seasonsWatched: seasons})
	return endedQuestionScreen(seasons)
}

func endedQuestionScreen(seasons int) *Screen {
	plural := "s"
	if seasons == 1 {
		plural = ""
	}
	return &Screen{
		Text: fmt.Sprintf("Has the series finished airing for good?\n\n(You have watched %d season%s)", seasons, plural),
		Options: []Option{
			{Label: "Yes, it ended", Action: "ended_yes"},
			{Label: "No, still airing", Action: "ended_no"},
			{Label: "Back to seasons", Action: "back"},
			backToMenu,
		},
	}
}

func (e *Engine) handleEnded(userID string, ended bool) *Screen {
	st, ok := e.state(userID).(confirmingEnded)
	if !ok {
		e.clearState(userID)
		return notice("That choice has expired. Start again from the menu.")
	}

	if ended {
		return e.finalize(userID, st.details, st.seasonsWatched, true, "")
	}

	e.setState(userID, enteringNextDate{query: st.query, details: st.details, seasonsWatched: st.seasonsWatched})
	return &Screen{
		Text: "When does the next season premiere?\n\nUse DD/MM/YYYY, or write 'unknown' if it has not been announced:",
		Options: []Option{
			{Label: "Back", Action: "back"},
			backToMenu,
		},
	}
}

func (e *Engine) enteredDate(userID string, st enteringNextDate, text string) *Screen {
	value, userErr := parseNextSeasonDate(e.now(), text)
	if userErr != "" {
		// Validation failure: stay in the same state for another attempt.
		return prompt(userErr)
	}
	return e.finalize(userID, st.details, st.seasonsWatched, false, value)
}

// finalize is the shared terminal step of the add flow. The session is always
// discarded, whatever the outcome.
func (e *Engine) finalize(userID string, details *tmdb.ShowDetails, seasons int, ended bool, nextDate string) *Screen {
	defer e.clearState(userID)

	if details == nil || seasons < 1 {
		e.logger.WithField("user_id", userID).Error("Finalize reached with incomplete session data")
		return notice("Something went wrong and the series was not saved. Please start again.")
	}

	if _, err := e.store.Get(userID, strconv.FormatInt(details.ID, 10)); err == nil {
		return notice("This series is already in your list. You can change it from the edit menu.")
	}

	show := &models.TrackedShow{
		TMDBID:         details.ID,
		Name:           details.Name,
		Overview:       details.Overview,
		FirstAirDate:   details.FirstAirDate,
		PosterPath:     details.PosterPath,
		TotalSeasons:   details.NumberOfSeasons,
		SeasonsWatched: seasons,
		HasEnded:       ended,
		NextSeasonDate: nextDate,
		AddedAt:        e.now(),
	}
	show.Recompute()

	if err := e.store.Upsert(userID, show); err != nil {
		e.logger.WithError(err).Error("Failed to save series")
		return notice("Could not save the series. Try again later.")
	}

	return notice(fmt.Sprintf("'%s' was added to your list.", show.Name))
}

// parseNextSeasonDate validates a user-entered next-season date. It returns
// either the canonical stored value or a message for the user to retry with.
// Accepted dates are strictly after today and at most five years out.
func parseNextSeasonDate(now time.Time, text string) (value, userErr string) {
	trimmed := strings.TrimSpace(text)
	if dateSynonyms[strings.ToLower(trimmed)] {
		return models.NextSeasonUnknown, ""
	}

	date, err := time.Parse(models.DateLayout, trimmed)
	if err != nil {
		return "", "I did not understand that date. Use DD/MM/YYYY, or write 'unknown':"
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if !date.After(today) {
		return "", "The date must be in the future. Enter a DD/MM/YYYY date:"
	}
	if date.After(today.AddDate(5, 0, 0)) {
		return "", "That date looks too far away. Double-check it and enter it again:"
	}
	return date.Format(models.DateLayout), ""
}

// --- edit flow ---

func (e *Engine) editPickerScreen(userID string) *Screen {
	collection, err := e.store.GetAll(userID)
	if err != nil {
		e.logger.WithError(err).Error("Failed to load collection")
		return notice("Could not load your list. Try again later.")
	}
	if len(collection) == 0 {
		return notice("You have no series to edit yet.")
	}

	var options []Option
	for _, show := range views.All(collection) {
		options = append(options, Option{Label: show.Name, Action: "edit_" + show.Key()})
	}
	return &Screen{
		Text:    "Which series do you want to edit?",
		Options: append(options, backToMenu),
	}
}

func (e *Engine) editOptionsScreen(userID, key string) *Screen {
	show, err := e.store.Get(userID, key)
	if err != nil {
		return notice("Series not found.")
	}

	text := fmt.Sprintf("%s\n\nSeasons watched: %d/%d\nEnded: %s",
		show.Name, show.SeasonsWatched, show.TotalSeasons, yesNo(show.HasEnded))
	if !show.HasEnded {
		next := show.NextSeasonDate
		if next == "" {
			next = models.NextSeasonUnknown
		}
		text += "\nNext season: " + next
	}
	text += "\n\nWhat do you want to change?"

	options := []Option{
		{Label: "Seasons watched", Action: "editfield_seasons_" + key},
		{Label: "Ended flag", Action: "editfield_ended_" + key},
	}
	if !show.HasEnded {
		options = append(options, Option{Label: "Next season date", Action: "editfield_date_" + key})
	}
	options = append(options,
		Option{Label: "Refresh from TMDB", Action: "editfield_refresh_" + key},
		Option{Label: "Back to edit list", Action: "edit"},
	)
	return &Screen{Text: text, Options: append(options, backToMenu)}
}

func (e *Engine) handleEditField(ctx context.Context, userID, rest string) *Screen {
	field, key, ok := strings.Cut(rest, "_")
	if !ok {
		return notice("I did not understand that. Back to the menu.")
	}

	switch field {
	case "seasons":
		e.setState(userID, awaitingSeasonsEdit{key: key})
		return prompt("Type the number of seasons you have watched (0 or more):")
	case "ended":
		e.clearState(userID)
		return &Screen{
			Text: "Has the series finished airing for good?",
			Options: []Option{
				{Label: "Yes, it ended", Action: "setended_yes_" + key},
				{Label: "No, still airing", Action: "setended_no_" + key},
				backToMenu,
			},
		}
	case "date":
		e.setState(userID, awaitingDateEdit{key: key})
		return prompt("When does the next season premiere?\n\nUse DD/MM/YYYY, or write 'unknown':")
	case "refresh":
		e.clearState(userID)
		return e.refreshFromSource(ctx, userID, key)
	default:
		return notice("I did not understand that. Back to the menu.")
	}
}

func (e *Engine) refreshFromSource(ctx context.Context, userID, key string) *Screen {
	show, err := e.store.Get(userID, key)
	if err != nil {
		return notice("Series not found.")
	}

	details, err := e.gateway.Details(ctx, show.TMDBID)
	if err != nil {
		e.logger.WithError(err).WithField("tmdb_id", show.TMDBID).Error("Refresh fetch failed")
		return notice("Could not fetch the series details. Try again later.")
	}

	err = e.store.RefreshDetails(userID, key, store.RefreshedDetails{
		Name:         details.Name,
		Overview:     details.Overview,
		FirstAirDate: details.FirstAirDate,
		PosterPath:   details.PosterPath,
		TotalSeasons: details.NumberOfSeasons,
	})
	if err != nil {
		e.logger.WithError(err).Error("Failed to refresh series")
		return notice("Could not update the series. Try again later.")
	}
	return notice(fmt.Sprintf("'%s' was updated from TMDB.", details.Name))
}

func (e *Engine) handleSetEnded(userID, rest string) *Screen {
	answer, key, ok := strings.Cut(rest, "_")
	if !ok {
		return notice("I did not understand that. Back to the menu.")
	}
	ended := answer == "yes"

	if err := e.store.UpdateHasEnded(userID, key, ended); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notice("Series not found.")
		}
		e.logger.WithError(err).Error("Failed to update ended flag")
		return notice("Could not update the series. Try again later.")
	}
	if ended {
		return notice("Marked as ended.")
	}
	return notice("Marked as still airing.")
}

func (e *Engine) editedSeasons(userID string, st awaitingSeasonsEdit, text string) *Screen {
	seasons, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || seasons < 0 {
		return prompt("Type a number of seasons (0 or more):")
	}
	e.clearState(userID)

	if err := e.store.UpdateSeasonsWatched(userID, st.key, seasons); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notice("Series not found.")
		}
		e.logger.WithError(err).Error("Failed to update seasons watched")
		return notice("Could not update the series. Try again later.")
	}
	return notice("Seasons watched updated.")
}

func (e *Engine) editedDate(userID string, st awaitingDateEdit, text string) *Screen {
	value, userErr := parseNextSeasonDate(e.now(), text)
	if userErr != "" {
		return prompt(userErr)
	}
	e.clearState(userID)

	if err := e.store.UpdateNextSeasonDate(userID, st.key, value); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notice("Series not found.")
		}
		e.logger.WithError(err).Error("Failed to update next season date")
		return notice("Could not update the series. Try again later.")
	}
	return notice("Next season date updated.")
}

// --- delete flow ---

func (e *Engine) deletePickerScreen(userID string) *Screen {
	collection, err := e.store.GetAll(userID)
	if err != nil {
		e.logger.WithError(err).Error("Failed to load collection")
		return notice("Could not load your list. Try again later.")
	}
	if len(collection) == 0 {
		return notice("You have no series to delete.")
	}

	var options []Option
	for _, show := range views.All(collection) {
		options = append(options, Option{Label: show.Name, Action: "delconfirm_" + show.Key()})
	}
	return &Screen{
		Text:    "Pick the series to delete. This cannot be undone:",
		Options: append(options, backToMenu),
	}
}

func (e *Engine) handleDelete(userID, key string) *Screen {
	removed, err := e.store.Delete(userID, key)
	if err != nil {
		e.logger.WithError(err).Error("Failed to delete series")
		return notice("Could not delete the series. Try again later.")
	}
	if !removed {
		return notice("Series not found.")
	}
	return notice("Series deleted.")
}

// --- views ---

func (e *Engine) menuScreen() *Screen {
	return &Screen{
		Text: "What would you like to do?",
		Options: []Option{
			{Label: "Add series", Action: "add"},
			{Label: "My series", Action: "view"},
			{Label: "Search my list", Action: "search"},
			{Label: "Edit series", Action: "edit"},
			{Label: "Delete series", Action: "delete"},
			{Label: "Statistics", Action: "stats"},
			{Label: "Reminders", Action: "reminders"},
			{Label: "Export data", Action: "export"},
		},
	}
}

func (e *Engine) listsMenuScreen() *Screen {
	return &Screen{
		Text: "Which list do you want to see?",
		Options: []Option{
			{Label: "All series", Action: "list_all"},
			{Label: "Completed", Action: "list_completed"},
			{Label: "Airing", Action: "list_ongoing"},
			{Label: "Pending", Action: "list_pending"},
			{Label: "Ended", Action: "list_ended"},
			backToMenu,
		},
	}
}

func (e *Engine) listScreen(userID string, listType views.ListType) *Screen {
	collection, err := e.store.GetAll(userID)
	if err != nil {
		e.logger.WithError(err).Error("Failed to load collection")
		return notice("Could not load your list. Try again later.")
	}
	if len(collection) == 0 {
		return notice("You have no series in your list yet.")
	}

	shows, ok := views.List(collection, listType)
	if !ok {
		return notice("I did not understand that. Back to the menu.")
	}
	if len(shows) == 0 {
		return notice(fmt.Sprintf("No %s series in your list.", listType))
	}

	options := make([]Option, 0, len(shows)+1)
	for _, show := range shows {
		options = append(options, Option{
			Label:  fmt.Sprintf("%s (%d/%d)", show.Name, show.SeasonsWatched, show.TotalSeasons),
			Action: "show_" + show.Key(),
		})
	}
	options = append(options, Option{Label: "Back to lists", Action: "view"}, backToMenu)

	return &Screen{
		Text:    fmt.Sprintf("Total: %d series. Tap one for details:", len(shows)),
		Options: options,
	}
}

func (e *Engine) detailScreen(userID, key string) *Screen {
	show, err := e.store.Get(userID, key)
	if err != nil {
		return notice("Series not found.")
	}

	status := "Behind"
	switch {
	case show.UpToDate && show.HasEnded:
		status = "Completed"
	case show.UpToDate:
		status = "Up to date (airing)"
	}

	overview := truncate(show.Overview, 400)

	text := fmt.Sprintf("%s\n\nFirst aired: %s\nSeasons: %d/%d\nStatus: %s",
		show.Name, show.FirstAirDate, show.SeasonsWatched, show.TotalSeasons, status)
	if !show.HasEnded && show.NextSeasonDate != "" {
		text += "\nNext season: " + show.NextSeasonDate
	}
	text += fmt.Sprintf("\nAdded: %s\n\n%s", show.AddedAt.Format(models.DateLayout), overview)

	return &Screen{
		Text:    text,
		Options: []Option{{Label: "Back to lists", Action: "view"}, backToMenu},
		Poster:  tmdb.PosterURL(show.PosterPath),
	}
}

func (e *Engine) collectionSearchScreen(userID, term string) *Screen {
	collection, err := e.store.GetAll(userID)
	if err != nil {
		e.logger.WithError(err).Error("Failed to load collection")
		return notice("Could not load your list. Try again later.")
	}
	if len(collection) == 0 {
		return notice("You have no series in your list to search.")
	}

	matches := views.Search(collection, term)
	if len(matches) == 0 {
		return notice(fmt.Sprintf("No series in your list contain '%s'.", term))
	}

	options := make([]Option, 0, len(matches)+1)
	for _, show := range matches {
		options = append(options, Option{
			Label:  fmt.Sprintf("%s (%d/%d)", show.Name, show.SeasonsWatched, show.TotalSeasons),
			Action: "show_" + show.Key(),
		})
	}
	return &Screen{
		Text:    fmt.Sprintf("Found %d matching series. Tap one for details:", len(matches)),
		Options: append(options, backToMenu),
	}
}

func (e *Engine) statsScreen(userID string) *Screen {
	stats, err := e.store.Stats(userID)
	if err != nil {
		e.logger.WithError(err).Error("Failed to compute stats")
		return notice("Could not load your statistics. Try again later.")
	}
	if stats.TotalShows == 0 {
		return notice("No statistics yet. Add some series first!")
	}

	text := fmt.Sprintf("Your statistics\n\nTotal series: %d\nSeasons watched: %d\nCompleted: %d\nAiring: %d\nPending: %d",
		stats.TotalShows, stats.SeasonsWatched, stats.Completed, stats.Ongoing, stats.Behind)
	if rate, ok := stats.CompletionRate(); ok {
		text += fmt.Sprintf("\nCompletion rate: %.1f%%", rate)
	}
	return notice(text)
}

func (e *Engine) remindersScreen(userID string) *Screen {
	collection, err := e.store.GetAll(userID)
	if err != nil {
		e.logger.WithError(err).Error("Failed to load collection")
		return notice("Could not load your list. Try again later.")
	}
	if len(collection) == 0 {
		return notice("You have no series in your list yet.")
	}

	reminders := views.Reminders(collection, e.now(), e.windowDays)
	if len(reminders) == 0 {
		return notice(fmt.Sprintf("No premieres in the next %d days.", e.windowDays))
	}

	var b strings.Builder
	b.WriteString("Upcoming premieres\n")
	for _, r := range reminders {
		b.WriteString(fmt.Sprintf("\n%s - Season %d\n", r.Show.Name, r.NextSeason))
		switch {
		case r.DaysUntil == 0:
			b.WriteString("Today!\n")
		case r.DaysUntil == 1:
			b.WriteString("Tomorrow\n")
		default:
			b.WriteString(fmt.Sprintf("In %d days (%s)\n", r.DaysUntil, r.Date.Format("02/01")))
		}
	}
	return notice(b.String())
}

func (e *Engine) exportScreen(userID string) *Screen {
	collection, err := e.store.GetAll(userID)
	if err != nil {
		e.logger.WithError(err).Error("Failed to load collection")
		return notice("Could not load your list. Try again later.")
	}
	if len(collection) == 0 {
		return notice("You have no data to export.")
	}

	raw, err := export.CSV(collection)
	if err != nil {
		e.logger.WithError(err).Error("Failed to export collection")
		return notice("Could not export your data. Try again later.")
	}

	return &Screen{
		Text:    "Here is your series list.",
		Options: []Option{backToMenu},
		File: &ExportFile{
			Name:    export.Filename(e.now()),
			MIME:    "text/csv",
			Content: raw,
		},
	}
}

// truncate shortens s to at most limit bytes without splitting a rune.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
