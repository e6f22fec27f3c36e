package probe

import (
	"context"
	"testing"

	"flightdw/pkg/records"
)

func rec(vals map[string]any) records.Record { return records.Record(vals) }

func TestProfile(t *testing.T) {
	recs := []records.Record{
		rec(map[string]any{"airline_name": "Iberia", "ticket_price": "199,5"}),
		rec(map[string]any{"airline_name": "IBERIA", "ticket_price": nil}),
		rec(map[string]any{"airline_name": "Ibería", "ticket_price": "nan"}),
		rec(map[string]any{"airline_name": "Vueling", "ticket_price": "88"}),
	}

	profiles, err := Profile(context.Background(), recs, []string{"airline_name", "ticket_price"}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(profiles) != 2 {
		t.Fatalf("profiles = %d, want 2", len(profiles))
	}

	airline := profiles[0]
	if airline.Name != "airline_name" {
		t.Fatalf("order not preserved: %v", profiles)
	}
	// Case and accent variants of IBERIA collapse to one distinct value.
	if airline.Distinct != 2 {
		t.Errorf("distinct = %d, want 2", airline.Distinct)
	}
	if airline.Nulls != 0 || airline.Rows != 4 {
		t.Errorf("profile = %+v", airline)
	}
	if len(airline.Samples) != 2 || airline.Samples[0] != "IBERIA" || airline.Samples[1] != "VUELING" {
		t.Errorf("samples = %v", airline.Samples)
	}

	price := profiles[1]
	// nil cell and the "nan" sentinel both count as nulls.
	if price.Nulls != 2 {
		t.Errorf("nulls = %d, want 2", price.Nulls)
	}
	if price.Distinct != 2 {
		t.Errorf("distinct = %d, want 2", price.Distinct)
	}
	if price.MinLen != 2 || price.MaxLen != 5 {
		t.Errorf("len range = [%d,%d], want [2,5]", price.MinLen, price.MaxLen)
	}
}

func TestProfile_AllNullColumn(t *testing.T) {
	recs := []records.Record{
		rec(map[string]any{"seat": nil}),
		rec(map[string]any{"seat": "  "}),
	}
	profiles, err := Profile(context.Background(), recs, []string{"seat"}, 1)
	if err != nil {
		t.Fatal(err)
	}
	p := profiles[0]
	if p.Nulls != 2 || p.Distinct != 0 || p.MinLen != 0 || p.MaxLen != 0 {
		t.Errorf("profile = %+v", p)
	}
}

func TestProfile_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Profile(ctx, []records.Record{rec(map[string]any{"a": "x"})}, []string{"a"}, 1)
	if err == nil {
		t.Fatal("want context error")
	}
}
