package timeseries

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTestFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "discharge.txt")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const testFile = `agency_cd	site_no	datetime	discharge	quality_cd
# data provided by USGS
USGS 03335000 2019-09-28 110 A
USGS 03335000 2019-09-29 Eqp A
USGS 03335000 2019-09-30 -999 A
USGS 03335000 2019-10-01 120 A
USGS 03335000 2019-10-02 NaN A
`

func TestReadFile(t *testing.T) {
	series, missing, err := ReadFile(writeTestFile(t, testFile))
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}

	// Five data rows: one Eqp missing, one NaN missing, one negative
	// gross error dropped outright.
	if series.Len() != 4 {
		t.Errorf("series has %d observations, want 4", series.Len())
	}
	if missing != 2 {
		t.Errorf("missing count = %d, want 2 (dropped negative must not count)", missing)
	}
	if series.SiteID != "03335000" {
		t.Errorf("site id = %q, want 03335000", series.SiteID)
	}

	// The negative row is gone entirely, not marked missing.
	for _, obs := range series.Observations {
		if obs.Discharge < 0 {
			t.Errorf("negative discharge %v survived loading", obs.Discharge)
		}
	}

	if !series.Observations[1].Missing() {
		t.Error("Eqp reading should be missing")
	}
	if got := series.Observations[0].Discharge; got != 110 {
		t.Errorf("first discharge = %v, want 110", got)
	}
}

func TestReadFileErrors(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{
			name:     "wrong column count",
			contents: "header\nUSGS 03335000 2019-10-01 120\n",
		},
		{
			name:     "bad date",
			contents: "header\nUSGS 03335000 10/01/2019 120 A\n",
		},
		{
			name:     "bad discharge",
			contents: "header\nUSGS 03335000 2019-10-01 twelve A\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReadFile(writeTestFile(t, tt.contents))
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Errorf("ReadFile() error = %v, want *ParseError", err)
			}
		})
	}
}

func TestReadFileMissingFile(t *testing.T) {
	_, _, err := ReadFile(filepath.Join(t.TempDir(), "nope.txt"))
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("ReadFile() error = %v, want *ParseError", err)
	}
}

func TestReadFileEmptyButWellFormed(t *testing.T) {
	// A header-only file is not an error; it just yields an empty series.
	series, missing, err := ReadFile(writeTestFile(t, "agency_cd site_no datetime discharge quality_cd\n"))
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if series.Len() != 0 || missing != 0 {
		t.Errorf("got %d observations, %d missing; want 0, 0", series.Len(), missing)
	}
}

func TestClip(t *testing.T) {
	series, _, err := ReadFile(writeTestFile(t, testFile))
	if err != nil {
		t.Fatal(err)
	}

	clipped, missing, err := ClipDates(series, "2019-09-28", "2019-09-29")
	if err != nil {
		t.Fatalf("ClipDates() error: %v", err)
	}
	if clipped.Len() != 2 {
		t.Errorf("clipped series has %d observations, want 2", clipped.Len())
	}
	if missing != 1 {
		t.Errorf("missing count = %d, want 1", missing)
	}

	// The input series must not be modified.
	if series.Len() != 4 {
		t.Errorf("input series mutated: %d observations", series.Len())
	}
}

func TestClipIdempotent(t *testing.T) {
	series, _, err := ReadFile(writeTestFile(t, testFile))
	if err != nil {
		t.Fatal(err)
	}

	once, missOnce, err := ClipDates(series, "2019-09-28", "2019-10-01")
	if err != nil {
		t.Fatal(err)
	}
	twice, missTwice, err := ClipDates(once, "2019-09-28", "2019-10-01")
	if err != nil {
		t.Fatal(err)
	}

	if once.Len() != twice.Len() || missOnce != missTwice {
		t.Errorf("clipping twice changed the result: %d/%d obs, %d/%d missing",
			once.Len(), twice.Len(), missOnce, missTwice)
	}
	for i := range once.Observations {
		if !once.Observations[i].Date.Equal(twice.Observations[i].Date) {
			t.Errorf("observation %d differs after second clip", i)
		}
	}
}

func TestClipInvertedRange(t *testing.T) {
	series, _, err := ReadFile(writeTestFile(t, testFile))
	if err != nil {
		t.Fatal(err)
	}

	_, _, err = ClipDates(series, "2019-10-01", "2019-09-28")
	var rangeErr *RangeError
	if !errors.As(err, &rangeErr) {
		t.Errorf("ClipDates() error = %v, want *RangeError", err)
	}
}
