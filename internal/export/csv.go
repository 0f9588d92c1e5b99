// Package export serializes a user's collection into a downloadable report.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"trackarr/internal/models"
)

const addedAtLayout = "02/01/2006 15:04"

// utf8BOM makes spreadsheet applications detect the encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var header = []string{
	"Name",
	"First_Air_Date",
	"Total_Seasons",
	"Seasons_Watched",
	"Ended",
	"Up_To_Date",
	"Next_Season_Date",
	"Added_At",
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// CSV renders one row per record in the collection's natural order. Malformed
// (nil) records are skipped.
func CSV(c models.Collection) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for _, show := range c {
		if show == nil {
			continue
		}
		nextDate := ""
		if !show.HasEnded {
			nextDate = show.NextSeasonDate
		}
		row := []string{
			show.Name,
			show.FirstAirDate,
			strconv.Itoa(show.TotalSeasons),
			strconv.Itoa(show.SeasonsWatched),
			yesNo(show.HasEnded),
			yesNo(show.UpToDate),
			nextDate,
			show.AddedAt.Format(addedAtLayout),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename returns a dated name for the exported report.
func Filename(now time.Time) string {
	return fmt.Sprintf("my_series_%s.csv", now.Format("20060102_1504"))
}
