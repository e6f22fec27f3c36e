package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"flightdw/internal/schema"
	"flightdw/internal/storage"
)

func newWarehouse(tb testing.TB) *Warehouse {
	tb.Helper()
	dsn := filepath.Join(tb.TempDir(), "warehouse.db")
	w, err := Open(context.Background(), storage.Config{
		Kind:             "sqlite",
		DSN:              dsn,
		AutoCreateTables: true,
	})
	if err != nil {
		tb.Fatalf("open sqlite %s: %v", dsn, err)
	}
	tb.Cleanup(func() { _ = w.Close() })
	return w
}

var testDeparture = time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

type cycleKeys struct {
	airline   int64
	passenger int64
	airport   int64
}

// runRefreshCycle performs one full load cycle the way the orchestrator
// does: reset inside the first checkpoint, then one record's dimension and
// fact inserts inside the second.
func runRefreshCycle(tb testing.TB, w *Warehouse) cycleKeys {
	tb.Helper()
	ctx := context.Background()

	if err := w.Begin(ctx); err != nil {
		tb.Fatalf("begin reset: %v", err)
	}
	if err := w.Reset(ctx); err != nil {
		tb.Fatalf("reset: %v", err)
	}
	if err := w.Commit(ctx); err != nil {
		tb.Fatalf("commit reset: %v", err)
	}

	if err := w.Begin(ctx); err != nil {
		tb.Fatalf("begin load: %v", err)
	}
	var keys cycleKeys
	var err error
	if keys.airline, err = w.InsertAirline(ctx, "IB", "Iberia"); err != nil {
		tb.Fatalf("insert airline: %v", err)
	}
	if keys.passenger, err = w.InsertPassenger(ctx, schema.Passenger{
		ID: "P-1", Gender: "MASCULINO", Age: int64(30), Nationality: "SPAIN",
	}); err != nil {
		tb.Fatalf("insert passenger: %v", err)
	}
	if keys.airport, err = w.InsertAirport(ctx, "MAD"); err != nil {
		tb.Fatalf("insert airport: %v", err)
	}
	if err = w.InsertDate(ctx, schema.DateRowFrom(testDeparture)); err != nil {
		tb.Fatalf("insert date: %v", err)
	}
	if err = w.InsertFlight(ctx, schema.Flight{
		PassengerSK:          keys.passenger,
		AirlineSK:            keys.airline,
		OriginAirportSK:      keys.airport,
		DestinationAirportSK: keys.airport,
		DateKey:              schema.DateKey(testDeparture),
		FlightNumber:         "IB1234",
		Status:               "ON TIME",
		DepartureTS:          testDeparture,
		DurationMin:          120,
	}); err != nil {
		tb.Fatalf("insert flight: %v", err)
	}
	if err = w.Commit(ctx); err != nil {
		tb.Fatalf("commit load: %v", err)
	}
	return keys
}

func factCount(tb testing.TB, w *Warehouse) int64 {
	tb.Helper()
	_, rows, err := w.Query(context.Background(), "SELECT COUNT(*) FROM Fact_Flight")
	if err != nil {
		tb.Fatalf("count facts: %v", err)
	}
	if len(rows) != 1 || len(rows[0]) != 1 {
		tb.Fatalf("count shape = %v", rows)
	}
	n, ok := rows[0][0].(int64)
	if !ok {
		tb.Fatalf("count type = %T", rows[0][0])
	}
	return n
}

// Two full refresh cycles against one database file: the second cycle must
// see reseeded generators (surrogate keys starting over at 1) and exactly
// the rows it inserted itself. The first cycle's reset runs against a fresh
// file where sqlite_sequence does not exist yet; the second runs against
// populated generator state.
func TestFullRefreshReseedsSurrogateKeys(t *testing.T) {
	t.Parallel()

	w := newWarehouse(t)

	first := runRefreshCycle(t, w)
	if first.airline != 1 || first.passenger != 1 || first.airport != 1 {
		t.Fatalf("first cycle keys = %+v, want all 1", first)
	}

	second := runRefreshCycle(t, w)
	if second != first {
		t.Fatalf("second cycle keys = %+v, want %+v (generators reseeded)", second, first)
	}
	if n := factCount(t, w); n != 1 {
		t.Fatalf("fact rows after second cycle = %d, want 1", n)
	}
}

func TestQueryColumnsAndNulls(t *testing.T) {
	t.Parallel()

	w := newWarehouse(t)
	keys := runRefreshCycle(t, w)
	ctx := context.Background()

	// A second flight for the same keys, with nullable fields left nil.
	if err := w.Begin(ctx); err != nil {
		t.Fatal(err)
	}
	if err := w.InsertFlight(ctx, schema.Flight{
		PassengerSK:          keys.passenger,
		AirlineSK:            keys.airline,
		OriginAirportSK:      keys.airport,
		DestinationAirportSK: keys.airport,
		DateKey:              schema.DateKey(testDeparture),
		DepartureTS:          testDeparture,
	}); err != nil {
		t.Fatalf("insert flight: %v", err)
	}
	if err := w.Commit(ctx); err != nil {
		t.Fatal(err)
	}

	cols, rows, err := w.Query(ctx,
		"SELECT flight_number, price_estimate FROM Fact_Flight ORDER BY flight_sk")
	if err != nil {
		t.Fatal(err)
	}
	if len(cols) != 2 || cols[0] != "flight_number" || cols[1] != "price_estimate" {
		t.Fatalf("cols = %v", cols)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0][0] != "IB1234" {
		t.Errorf("flight_number = %v", rows[0][0])
	}
	if rows[0][1] != nil || rows[1][0] != nil || rows[1][1] != nil {
		t.Errorf("nil columns came back as %v / %v", rows[0][1], rows[1])
	}
}

func TestOpen_EmptyDSN(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), storage.Config{Kind: "sqlite"}); err == nil {
		t.Fatal("want error for empty DSN")
	}
}

func TestBeginTwice(t *testing.T) {
	t.Parallel()

	w := newWarehouse(t)
	ctx := context.Background()
	if err := w.Begin(ctx); err != nil {
		t.Fatal(err)
	}
	if err := w.Begin(ctx); err == nil {
		t.Fatal("want error for nested Begin")
	}
	if err := w.Commit(ctx); err != nil {
		t.Fatal(err)
	}
}
