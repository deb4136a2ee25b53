// Package ingest turns an uploaded cashflow spreadsheet into a clean,
// chronologically ordered series of monthly records.
package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"forecast-service/internal/domain"

	"github.com/schollz/closestmatch"
	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Month layouts accepted in the Month column. The primary layout is tried
// for the whole column first; the fallback layout is only tried when the
// primary matches no value at all. Columns mixing both formats keep only
// the rows of the format that was applied.
const (
	layoutYearMonth    = "06-Jan"   // e.g. "24-Jan"
	layoutDayMonthYear = "2-Jan-06" // e.g. "02-Jan-24"
)

// MinValidRows is the smallest number of cleaned rows a table may have;
// the smoothing models cannot fit a trend on fewer points.
const MinValidRows = 3

// Service defines the ingestion of uploaded cashflow tables.
type Service interface {
	ParseCashflowTable(file io.Reader, filename string) ([]domain.CashflowRecord, error)
}

type service struct{}

// NewService creates a new ingestion service.
func NewService() Service {
	return &service{}
}

// ParseCashflowTable reads a .csv, .xls, or .xlsx upload and returns the
// historical records that survive cleaning, sorted ascending by month.
// It returns a ValidationError when fewer than MinValidRows remain.
func (svc *service) ParseCashflowTable(file io.Reader, filename string) ([]domain.CashflowRecord, error) {
	table, err := svc.loadTable(file, filename)
	if err != nil {
		return nil, err
	}

	svc.normalizeColumns(table)

	monthIdx, err := svc.columnIndex(table, domain.ColumnMonth)
	if err != nil {
		return nil, err
	}
	inflowIdx, err := svc.columnIndex(table, domain.ColumnInflow)
	if err != nil {
		return nil, err
	}
	outflowIdx, err := svc.columnIndex(table, domain.ColumnOutflow)
	if err != nil {
		return nil, err
	}

	months := svc.parseMonthColumn(columnValues(table, monthIdx))

	var records []domain.CashflowRecord
	for i, row := range table.Rows {
		if months[i] == nil {
			continue
		}
		inflow, ok := parseNumber(cell(row, inflowIdx))
		if !ok {
			continue
		}
		outflow, ok := parseNumber(cell(row, outflowIdx))
		if !ok {
			continue
		}
		records = append(records, domain.CashflowRecord{
			Month:       *months[i],
			Inflow:      inflow,
			Outflow:     outflow,
			NetCashflow: inflow + outflow,
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Month.Before(records[j].Month)
	})

	if len(records) < MinValidRows {
		return nil, domain.NewValidationError("Not enough valid rows for forecasting")
	}
	return records, nil
}

// ---------------------- table loading ----------------------

func (svc *service) loadTable(file io.Reader, filename string) (*domain.Table, error) {
	var rows [][]string
	var err error

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		rows, err = svc.loadCSV(file)
	case ".xlsx":
		rows, err = svc.loadXLSX(file)
	case ".xls":
		rows, err = svc.loadXLS(file)
	default:
		return nil, domain.NewInputError("Unsupported file format")
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("file contains no rows")
	}

	return &domain.Table{Headers: rows[0], Rows: rows[1:]}, nil
}

func (svc *service) loadCSV(file io.Reader) ([][]string, error) {
	// Excel exports routinely prepend a UTF-8 BOM; strip it on the way in.
	decoder := unicode.UTF8BOM.NewDecoder()
	reader := csv.NewReader(transform.NewReader(file, decoder))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	return records, nil
}

func (svc *service) loadXLSX(file io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("opening .xlsx workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook contains no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading .xlsx sheet: %w", err)
	}
	return rows, nil
}

func (svc *service) loadXLS(file io.Reader) ([][]string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	workbook, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		// Some clients send .xlsx content under a .xls name; retry with excelize.
		if rows, errX := svc.loadXLSX(bytes.NewReader(data)); errX == nil {
			return rows, nil
		}
		return nil, fmt.Errorf("opening .xls workbook: %w", err)
	}

	if len(workbook.GetSheets()) == 0 {
		return nil, fmt.Errorf("workbook contains no sheets")
	}
	sheet, err := workbook.GetSheet(0)
	if err != nil {
		return nil, fmt.Errorf("reading .xls sheet: %w", err)
	}

	var rows [][]string
	for _, row := range sheet.GetRows() {
		var cells []string
		for _, c := range row.GetCols() {
			cells = append(cells, c.GetString())
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// ---------------------- column handling ----------------------

// normalizeColumns trims every header and renames known synonyms to the
// canonical schema. Missing canonical columns are not an error here; they
// are detected when the column is looked up.
func (svc *service) normalizeColumns(table *domain.Table) {
	for i, header := range table.Headers {
		trimmed := strings.TrimSpace(header)
		if canonical, ok := domain.ColumnSynonyms[trimmed]; ok {
			trimmed = canonical
		}
		table.Headers[i] = trimmed
	}
}

func (svc *service) columnIndex(table *domain.Table, name string) (int, error) {
	for i, header := range table.Headers {
		if header == name {
			return i, nil
		}
	}

	if len(table.Headers) > 0 {
		cm := closestmatch.New(table.Headers, []int{2, 3})
		if suggestion := cm.Closest(name); suggestion != "" {
			return 0, fmt.Errorf("required column %q not found (closest header: %q)", name, suggestion)
		}
	}
	return 0, fmt.Errorf("required column %q not found", name)
}

func columnValues(table *domain.Table, idx int) []string {
	values := make([]string, len(table.Rows))
	for i, row := range table.Rows {
		values[i] = cell(row, idx)
	}
	return values
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

// ---------------------- date parsing ----------------------

// parseMonthColumn parses the whole column with the primary layout; when
// not a single value matches, the raw column is re-parsed with the
// fallback layout. Values failing the applied layout come back nil.
func (svc *service) parseMonthColumn(values []string) []*time.Time {
	parsed, hits := parseAll(values, layoutYearMonth)
	if hits == 0 {
		parsed, _ = parseAll(values, layoutDayMonthYear)
	}
	return parsed
}

func parseAll(values []string, layout string) ([]*time.Time, int) {
	parsed := make([]*time.Time, len(values))
	hits := 0
	for i, v := range values {
		t, err := time.Parse(layout, strings.TrimSpace(v))
		if err != nil {
			continue
		}
		parsed[i] = &t
		hits++
	}
	return parsed, hits
}

// ---------------------- numeric coercion ----------------------

// thousandsGroupedRegex matches numbers whose commas form well-formed
// thousands groups, e.g. "1,000" or "-12,345.67".
var thousandsGroupedRegex = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)

// parseNumber coerces a cell to a float. Commas are accepted only as
// well-formed thousands separators; anything else unparseable reports
// the value as missing.
func parseNumber(value string) (float64, bool) {
	s := strings.TrimSpace(value)
	if s == "" {
		return 0, false
	}
	if strings.Contains(s, ",") {
		if !thousandsGroupedRegex.MatchString(s) {
			return 0, false
		}
		s = strings.ReplaceAll(s, ",", "")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
