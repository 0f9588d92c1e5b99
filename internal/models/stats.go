package models

// Stats aggregates one user's collection.
type Stats struct {
	TotalShows     int `json:"total_shows"`
	SeasonsWatched int `json:"seasons_watched"`
	Completed      int `json:"completed"`
	Ongoing        int `json:"ongoing"`
	Behind         int `json:"behind"`
}

// ComputeStats derives the aggregate counts for a collection. An empty
// collection yields the zero value.
func ComputeStats(c Collection) Stats {
	var stats Stats
	for _, show := range c {
		stats.TotalShows++
		stats.SeasonsWatched += show.SeasonsWatched
		if show.UpToDate && show.HasEnded {
			stats.Completed++
		}
		if !show.HasEnded {
			stats.Ongoing++
		}
		if !show.UpToDate {
			stats.Behind++
		}
	}
	return stats
}

// CompletionRate returns the completed share in percent. ok is false for an
// empty collection, where no rate is defined.
func (s Stats) CompletionRate() (rate float64, ok bool) {
	if s.TotalShows == 0 {
		return 0, false
	}
	return float64(s.Completed) / float64(s.TotalShows) * 100, true
}
