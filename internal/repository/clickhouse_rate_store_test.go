package repository

import (
	"errors"
	"strings"
	"testing"
	"time"
)

type fakeRows struct {
	dates   []time.Time
	rates   []float64
	i       int
	scanErr error
	err     error
}

func (r *fakeRows) Next() bool {
	r.i++
	return r.i <= len(r.dates)
}

func (r *fakeRows) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	*(dest[0].(*time.Time)) = r.dates[r.i-1]
	*(dest[1].(*float64)) = r.rates[r.i-1]
	return nil
}

func (r *fakeRows) Err() error { return r.err }

func TestScanPoints(t *testing.T) {
	loc := time.FixedZone("CH", 3*3600)
	rows := &fakeRows{
		dates: []time.Time{time.Date(2024, 1, 1, 0, 0, 0, 0, loc), time.Date(2024, 1, 2, 0, 0, 0, 0, loc)},
		rates: []float64{1.10, 1.11},
	}
	pts, err := scanPoints(rows)
	if err != nil {
		t.Fatalf("scanPoints() error = %v", err)
	}
	if len(pts) != 2 || pts[1].Rate != 1.11 {
		t.Fatalf("unexpected points %+v", pts)
	}
	if pts[0].Date.Location() != time.UTC {
		t.Fatalf("dates must be normalized to UTC")
	}
}

func TestScanPoints_Errors(t *testing.T) {
	boom := errors.New("boom")
	if _, err := scanPoints(&fakeRows{dates: []time.Time{{}}, rates: []float64{1}, scanErr: boom}); !errors.Is(err, boom) {
		t.Fatalf("scan error not propagated: %v", err)
	}
	if _, err := scanPoints(&fakeRows{err: boom}); !errors.Is(err, boom) {
		t.Fatalf("rows error not propagated: %v", err)
	}
}

func TestRatesQuery(t *testing.T) {
	q := ratesQuery("fx.fx_rates_daily")
	for _, want := range []string{"FROM fx.fx_rates_daily FINAL", "ORDER BY date ASC", "base = ? AND quote = ?"} {
		if !strings.Contains(q, want) {
			t.Fatalf("query missing %q:\n%s", want, q)
		}
	}
	if ddl := RatesSchema("fx", "fx_rates_daily"); len(ddl) != 2 || !strings.Contains(ddl[1], "fx.fx_rates_daily") {
		t.Fatalf("unexpected schema %v", ddl)
	}
}
