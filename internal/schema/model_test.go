package schema

import (
	"testing"
	"time"

	"flightdw/pkg/records"
)

func TestDateKey(t *testing.T) {
	dep := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	if got := DateKey(dep); got != 20240305 {
		t.Fatalf("DateKey = %d, want 20240305", got)
	}
}

func TestDateRowFrom(t *testing.T) {
	dep := time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)
	row := DateRowFrom(dep)

	if row.Key != 20240305 {
		t.Errorf("Key = %d, want 20240305", row.Key)
	}
	if row.Year != 2024 || row.Month != 3 || row.Day != 5 {
		t.Errorf("Y/M/D = %d/%d/%d, want 2024/3/5", row.Year, row.Month, row.Day)
	}
	if row.Weekday != "TUESDAY" {
		t.Errorf("Weekday = %q, want TUESDAY", row.Weekday)
	}
	if !row.Date.Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Date = %v, want midnight of the departure date", row.Date)
	}
}

func rawRecord() records.Record {
	return records.Record{
		ColAirlineCode:        " ib ",
		ColAirlineName:        " Iberia ",
		ColFlightNumber:       "ib1234",
		ColDepartureDatetime:  "05/03/2024 10:00",
		ColArrivalDatetime:    "05/03/2024 12:05",
		ColOriginAirport:      "mad",
		ColDestinationAirport: "lhr",
		ColPassengerID:        "P-001",
		ColPassengerGender:    "m",
		ColPassengerAge:       "",
		ColPassengerNat:       "Spain",
		ColStatus:             "on time",
		ColAircraftType:       "a320",
		ColCabinClass:         "economy",
		ColSeat:               "12a",
		ColSalesChannel:       "web",
		ColPaymentMethod:      "card",
		ColTicketPrice:        "199,5",
		ColDurationMin:        "125",
		ColDelayMin:           "",
		ColBagsTotal:          "2",
		ColBagsChecked:        "1",
		ColRecordID:           "r1",
	}
}

func TestTransformChain_EndToEnd(t *testing.T) {
	in := []records.Record{rawRecord()}
	out := TransformChain(true).Apply(in)

	r := out[0]
	if r[ColAirlineCode] != "IB" || r[ColOriginAirport] != "MAD" || r[ColDestinationAirport] != "LHR" {
		t.Errorf("codes not upper-cased: %v %v %v",
			r[ColAirlineCode], r[ColOriginAirport], r[ColDestinationAirport])
	}
	if r[ColAirlineName] != "Iberia" {
		t.Errorf("airline_name = %v, want case-preserving trim", r[ColAirlineName])
	}
	dep, ok := r[ColDepartureDatetime].(time.Time)
	if !ok || DateKey(dep) != 20240305 {
		t.Errorf("departure = %v, want parsed 2024-03-05", r[ColDepartureDatetime])
	}
	if r[ColPassengerGender] != "MASCULINO" {
		t.Errorf("gender = %v, want MASCULINO", r[ColPassengerGender])
	}
	if r[ColTicketPrice] != 199.5 {
		t.Errorf("price = %v, want 199.5", r[ColTicketPrice])
	}
	if r[ColDelayMin] != int64(0) || r[ColDurationMin] != int64(125) {
		t.Errorf("delay/duration = %v/%v, want 0/125", r[ColDelayMin], r[ColDurationMin])
	}
}

func TestTransformChain_Deterministic(t *testing.T) {
	a := []records.Record{rawRecord(), rawRecord()}
	b := []records.Record{rawRecord(), rawRecord()}
	a[1][ColPassengerAge] = "40"
	b[1][ColPassengerAge] = "40"

	outA := TransformChain(true).Apply(a)
	outB := TransformChain(true).Apply(b)

	for i := range outA {
		for _, col := range RawColumns {
			va, vb := outA[i][col], outB[i][col]
			if ta, ok := va.(time.Time); ok {
				if !ta.Equal(vb.(time.Time)) {
					t.Fatalf("row %d %s: %v != %v", i, col, va, vb)
				}
				continue
			}
			if va != vb {
				t.Fatalf("row %d %s: %v != %v", i, col, va, vb)
			}
		}
	}
	// Single present age becomes the batch mean fill for the missing one.
	if outA[0][ColPassengerAge] != int64(40) {
		t.Fatalf("imputed age = %v, want 40", outA[0][ColPassengerAge])
	}
}

func TestCreateStatements_KnownDialects(t *testing.T) {
	for _, kind := range []string{"sqlite", "postgres", "mssql"} {
		stmts, err := CreateStatements(kind)
		if err != nil {
			t.Fatalf("%s: %v", kind, err)
		}
		if len(stmts) != 5 {
			t.Fatalf("%s: %d statements, want 5", kind, len(stmts))
		}
	}
	if _, err := CreateStatements("oracle"); err == nil {
		t.Fatal("unknown dialect must error")
	}
}
