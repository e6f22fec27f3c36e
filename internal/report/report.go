// Package report runs the post-load analytic query set against the loaded
// warehouse and renders each result as an ASCII table.
package report

import (
	"context"
	"fmt"
	"io"
	"strings"

	"flightdw/internal/logging"
	"flightdw/internal/storage"
)

// Query is one titled analytic query.
type Query struct {
	Title string
	SQL   string
}

// Queries returns the analytic query set for the given storage kind. The set
// is fixed; only the row-limiting syntax differs per dialect (TOP on mssql,
// LIMIT elsewhere).
func Queries(kind string) []Query {
	top5 := func(body string) string {
		if kind == "mssql" {
			return "SELECT TOP 5 " + body
		}
		return "SELECT " + body + "\nLIMIT 5"
	}

	return []Query{
		{
			Title: "1) Total flights loaded",
			SQL:   `SELECT COUNT(*) AS total_flights FROM Fact_Flight`,
		},
		{
			Title: "2) Top 5 airlines by flight count",
			SQL: top5(`A.airline_name, COUNT(F.flight_sk) AS flights
FROM Fact_Flight F
JOIN Dim_Airline A ON F.airline_sk = A.airline_sk
GROUP BY A.airline_name
ORDER BY flights DESC`),
		},
		{
			Title: "3) Passenger distribution by gender",
			SQL: `SELECT P.passenger_gender, COUNT(*) AS total
FROM Dim_Passenger P
GROUP BY P.passenger_gender`,
		},
		{
			Title: "4) Top 5 destination airports",
			SQL: top5(`D.airport_code AS destination, COUNT(*) AS flights
FROM Fact_Flight F
JOIN Dim_Airport D ON F.destination_airport_sk = D.airport_sk
GROUP BY D.airport_code
ORDER BY flights DESC`),
		},
		{
			Title: "5) Flights by status",
			SQL: `SELECT F.status, COUNT(*) AS total
FROM Fact_Flight F
GROUP BY F.status
ORDER BY total DESC`,
		},
		{
			Title: "6) Flights by year and month",
			SQL: `SELECT T.year, T.month, COUNT(*) AS total_flights
FROM Fact_Flight F
JOIN Dim_Date T ON F.date_sk = T.date_sk
GROUP BY T.year, T.month
ORDER BY T.year, T.month`,
		},
	}
}

// Runner executes the analytic query set over one warehouse session.
type Runner struct {
	wh   storage.Warehouse
	kind string
	out  io.Writer
}

// New returns a Runner writing rendered tables to out. kind selects the SQL
// dialect and must match the warehouse the queries run against.
func New(wh storage.Warehouse, kind string, out io.Writer) *Runner {
	return &Runner{wh: wh, kind: kind, out: out}
}

// Run executes every query in order and renders each result. The first
// failing query aborts the run; the loaded data is already committed by then
// so a report failure loses no rows.
func (r *Runner) Run(ctx context.Context) error {
	log := logging.WithPhase("report")
	for _, q := range Queries(r.kind) {
		cols, rows, err := r.wh.Query(ctx, q.SQL)
		if err != nil {
			return fmt.Errorf("query %q: %w", q.Title, err)
		}
		log.Debug().Str("query", q.Title).Int("rows", len(rows)).Msg("query done")
		if err := Render(r.out, q.Title, cols, rows); err != nil {
			return err
		}
	}
	return nil
}

// Render writes one result set as a boxed ASCII table. nil cells render
// empty; every column is left-aligned and padded to its widest value. An
// empty result still renders the header plus one blank data row.
func Render(w io.Writer, title string, cols []string, rows [][]any) error {
	cells := make([][]string, len(rows))
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = len(c)
	}
	for i, row := range rows {
		cells[i] = make([]string, len(cols))
		for j := range cols {
			if j < len(row) && row[j] != nil {
				cells[i][j] = fmt.Sprint(row[j])
			}
			if len(cells[i][j]) > widths[j] {
				widths[j] = len(cells[i][j])
			}
		}
	}

	var sep strings.Builder
	sep.WriteByte('+')
	for _, wd := range widths {
		sep.WriteString(strings.Repeat("-", wd+2))
		sep.WriteByte('+')
	}

	var b strings.Builder
	b.WriteString("\n" + title + "\n")
	b.WriteString(sep.String() + "\n")
	b.WriteString(line(cols, widths) + "\n")
	b.WriteString(sep.String() + "\n")
	if len(cells) == 0 {
		b.WriteString(line(make([]string, len(cols)), widths) + "\n")
	}
	for _, row := range cells {
		b.WriteString(line(row, widths) + "\n")
	}
	b.WriteString(sep.String() + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func line(cells []string, widths []int) string {
	padded := make([]string, len(cells))
	for i, c := range cells {
		padded[i] = c + strings.Repeat(" ", widths[i]-len(c))
	}
	return "| " + strings.Join(padded, " | ") + " |"
}
