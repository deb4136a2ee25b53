// package domain/models.go
package domain

import "time"

// Canonical column names every input table is normalized into.
const (
	ColumnMonth       = "Month"
	ColumnInflow      = "Inflow"
	ColumnOutflow     = "Outflow"
	ColumnNetCashflow = "Net_Cashflow"
)

// ColumnSynonyms maps known header variants to their canonical names.
// Matching is exact (after trimming); unknown headers pass through.
var ColumnSynonyms = map[string]string{
	"Months":        ColumnMonth,
	"Cash Inflow":   ColumnInflow,
	"Cash Outflow":  ColumnOutflow,
	"Net Cash Flow": ColumnNetCashflow,
}

// Table is a raw tabular file after reading: trimmed headers plus rows of
// untyped cell strings. Rows may be ragged.
type Table struct {
	Headers []string
	Rows    [][]string
}

// CashflowRecord is one historical row that survived cleaning.
// NetCashflow is always Inflow + Outflow; outflow values are expected to
// carry their own negative sign in the source data.
type CashflowRecord struct {
	Month       time.Time
	Inflow      float64
	Outflow     float64
	NetCashflow float64
}

// CombinedRow is one row of the response: either a historical record or a
// forecast point, with forecast values aliased into the shared fields.
// Nil means the value was missing or non-finite.
type CombinedRow struct {
	Month       string   `json:"Month"`
	Inflow      *float64 `json:"Inflow"`
	Outflow     *float64 `json:"Outflow"`
	NetCashflow *float64 `json:"Net_Cashflow"`
}

// ForecastResult is the payload of a successful forecast request:
// historical rows first, then twelve forecast rows, both ascending.
type ForecastResult struct {
	RowsReceived int
	Rows         []CombinedRow
}
