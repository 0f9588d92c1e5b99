package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"trackarr/internal/models"
)

func TestCSV(t *testing.T) {
	added := time.Date(2026, 3, 1, 18, 45, 0, 0, time.UTC)
	c := models.Collection{
		"100": {
			TMDBID:         100,
			Name:           "Breaking Bad",
			FirstAirDate:   "2008-01-20",
			TotalSeasons:   5,
			SeasonsWatched: 5,
			HasEnded:       true,
			UpToDate:       true,
			AddedAt:        added,
		},
		"200": {
			TMDBID:         200,
			Name:           "Severance",
			TotalSeasons:   2,
			SeasonsWatched: 1,
			NextSeasonDate: "31/12/2099",
			AddedAt:        added,
		},
		"300": nil,
	}

	raw, err := CSV(c)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	if !bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}) {
		t.Error("export should start with a UTF-8 BOM")
	}

	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF}))).ReadAll()
	if err != nil {
		t.Fatalf("export is not valid csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("rows = %d, want header + 2 (nil record skipped)", len(records))
	}
	if records[0][0] != "Name" || records[0][7] != "Added_At" {
		t.Errorf("header mismatch: %v", records[0])
	}

	byName := map[string][]string{}
	for _, row := range records[1:] {
		byName[row[0]] = row
	}

	ended := byName["Breaking Bad"]
	if ended[4] != "Yes" || ended[5] != "Yes" {
		t.Errorf("ended booleans = %v", ended)
	}
	if ended[6] != "" {
		t.Errorf("ended show should have blank next date, got %q", ended[6])
	}
	if ended[7] != "01/03/2026 18:45" {
		t.Errorf("added_at = %q", ended[7])
	}

	airing := byName["Severance"]
	if airing[4] != "No" || airing[5] != "No" {
		t.Errorf("airing booleans = %v", airing)
	}
	if airing[6] != "31/12/2099" {
		t.Errorf("airing next date = %q", airing[6])
	}
}

func TestFilename(t *testing.T) {
	name := Filename(time.Date(2026, 9, 1, 9, 5, 0, 0, time.UTC))
	if !strings.HasPrefix(name, "my_series_20260901_0905") || !strings.HasSuffix(name, ".csv") {
		t.Errorf("filename = %q", name)
	}
}
