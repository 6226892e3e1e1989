package filestore

import (
	"context"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Environmental-Informatics/streamflow-metrics/internal/log"
	"github.com/Environmental-Informatics/streamflow-metrics/internal/metrics"
	"github.com/Environmental-Informatics/streamflow-metrics/pkg/config"
)

func TestMain(m *testing.M) {
	log.Init(false)
	os.Exit(m.Run())
}

func testConfig(dir string) *config.FileStoreData {
	return &config.FileStoreData{
		AnnualMetrics:   filepath.Join(dir, "Annual_Metrics.csv"),
		MonthlyMetrics:  filepath.Join(dir, "Monthly_Metrics.csv"),
		AnnualAverages:  filepath.Join(dir, "Averaged_Annual_Metrics.txt"),
		MonthlyAverages: filepath.Join(dir, "Averaged_Monthly_Metrics.txt"),
	}
}

func testResult(name, site string, meanFlow float64) *metrics.StationResult {
	wy := time.Date(2018, time.October, 1, 0, 0, 0, 0, time.UTC)
	return &metrics.StationResult{
		Name:   name,
		SiteID: site,
		Annual: []metrics.AnnualRow{
			{
				SiteID:     site,
				WaterYear:  wy,
				MeanFlow:   meanFlow,
				PeakFlow:   meanFlow,
				MedianFlow: meanFlow,
				SevenQ:     math.NaN(),
			},
		},
		Monthly: []metrics.MonthlyRow{
			{SiteID: site, Month: wy, MeanFlow: meanFlow},
		},
		AnnualAverage: metrics.AnnualAverages{MeanFlow: meanFlow},
		MonthlyAverage: []metrics.MonthlyAverages{
			{Month: time.January, MeanFlow: meanFlow},
		},
	}
}

func readCSV(t *testing.T, path string, comma rune) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.Comma = comma
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return rows
}

func TestStoreStation(t *testing.T) {
	cfg := testConfig(t.TempDir())
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if err := s.StoreStation(context.Background(), testResult("Wildcat", "03335000", 100)); err != nil {
		t.Fatalf("StoreStation() error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	annual := readCSV(t, cfg.AnnualMetrics, ',')
	if len(annual) != 2 {
		t.Fatalf("annual table has %d rows, want header + 1", len(annual))
	}
	if annual[0][0] != "Date" || annual[0][len(annual[0])-1] != "Station" {
		t.Errorf("unexpected annual header: %v", annual[0])
	}
	row := annual[1]
	if row[0] != "2018-10-01" || row[1] != "03335000" || row[2] != "100" {
		t.Errorf("unexpected annual row: %v", row)
	}
	// NaN 7Q renders as an empty cell.
	if row[9] != "" {
		t.Errorf("7Q cell = %q, want empty", row[9])
	}
	if row[len(row)-1] != "Wildcat" {
		t.Errorf("station label = %q, want Wildcat", row[len(row)-1])
	}

	averages := readCSV(t, cfg.AnnualAverages, '\t')
	if len(averages) != 2 {
		t.Fatalf("annual averages table has %d rows, want header + 1", len(averages))
	}
	if averages[1][0] != "100" || averages[1][len(averages[1])-1] != "Wildcat" {
		t.Errorf("unexpected averages row: %v", averages[1])
	}
}

func TestStoreStationAppendsInOrder(t *testing.T) {
	cfg := testConfig(t.TempDir())
	s, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if err := s.StoreStation(ctx, testResult("Wildcat", "03335000", 100)); err != nil {
		t.Fatal(err)
	}
	if err := s.StoreStation(ctx, testResult("Tippe", "03331500", 200)); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	monthly := readCSV(t, cfg.MonthlyMetrics, ',')
	if len(monthly) != 3 {
		t.Fatalf("monthly table has %d rows, want header + 2", len(monthly))
	}
	// One station's rows come before the other's, never interleaved.
	if station := monthly[1][len(monthly[1])-1]; station != "Wildcat" {
		t.Errorf("first station = %q, want Wildcat", station)
	}
	if station := monthly[2][len(monthly[2])-1]; station != "Tippe" {
		t.Errorf("second station = %q, want Tippe", station)
	}
}

func TestNewTruncatesPreviousRun(t *testing.T) {
	cfg := testConfig(t.TempDir())

	for i := 0; i < 2; i++ {
		s, err := New(cfg)
		if err != nil {
			t.Fatal(err)
		}
		if err := s.StoreStation(context.Background(), testResult("Wildcat", "03335000", 100)); err != nil {
			t.Fatal(err)
		}
		if err := s.Close(); err != nil {
			t.Fatal(err)
		}
	}

	annual := readCSV(t, cfg.AnnualMetrics, ',')
	if len(annual) != 2 {
		t.Errorf("annual table has %d rows after rerun, want header + 1", len(annual))
	}
}
