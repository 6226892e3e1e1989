package timeseries

import (
	"bufio"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// fieldCount is the fixed column layout of a USGS daily-value file:
// agency code, site number, date, discharge, quality flag.
const fieldCount = 5

// missingTokens are the discharge values treated as no-data markers.
// "Eqp" is the USGS flag for a period when equipment was malfunctioning.
var missingTokens = map[string]bool{
	"":    true,
	"NA":  true,
	"N/A": true,
	"NaN": true,
	"nan": true,
	"Eqp": true,
}

// ReadFile parses a whitespace-delimited daily discharge file into a
// Series. The first non-comment line is a header and is skipped; lines
// beginning with '#' are ignored. It returns the series and the number
// of missing discharge values.
//
// Rows with a negative discharge are gross sensor errors and are
// removed from the series outright. The missing-value count is taken
// before that removal, so dropped negatives never inflate it.
func ReadFile(path string) (*Series, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, &ParseError{Path: path, Msg: err.Error()}
	}
	defer f.Close()

	series := &Series{}
	missing := 0
	headerSkipped := false
	lineNo := 0

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !headerSkipped {
			headerSkipped = true
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != fieldCount {
			return nil, 0, &ParseError{
				Path: path,
				Line: lineNo,
				Msg:  "expected " + strconv.Itoa(fieldCount) + " columns, got " + strconv.Itoa(len(fields)),
			}
		}

		date, err := time.Parse(DateLayout, fields[2])
		if err != nil {
			return nil, 0, &ParseError{Path: path, Line: lineNo, Msg: "bad date " + strconv.Quote(fields[2])}
		}

		discharge := math.NaN()
		if !missingTokens[fields[3]] {
			discharge, err = strconv.ParseFloat(fields[3], 64)
			if err != nil {
				return nil, 0, &ParseError{Path: path, Line: lineNo, Msg: "bad discharge " + strconv.Quote(fields[3])}
			}
		}

		if math.IsNaN(discharge) {
			missing++
		}

		// Negative flow is physically impossible for these gages;
		// discard the row entirely rather than marking it missing.
		if discharge < 0 {
			continue
		}

		if series.SiteID == "" {
			series.SiteID = fields[1]
		}
		series.Observations = append(series.Observations, Observation{
			Date:      date,
			Discharge: discharge,
			Quality:   fields[4],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, &ParseError{Path: path, Msg: err.Error()}
	}

	return series, missing, nil
}
