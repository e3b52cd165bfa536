package heatmap

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
)

// Column names of the merchant dataset.
const (
	ColAddress          = "address"
	ColTransactionCount = "transaction_count"
	ColUniqueCustomers  = "unique_customers"
	ColTotalReceived    = "total_received_usdt"
	ColAvgPaymentSize   = "avg_payment_size"
	ColRegion           = "estimated_region"
	ColPeakHour         = "peak_hour_utc"
	ColDaysActive       = "days_active"
)

// RequiredColumns lists the columns every dataset must contain, other columns are ignored.
var RequiredColumns = []string{
	ColAddress, ColTransactionCount, ColUniqueCustomers, ColTotalReceived,
	ColAvgPaymentSize, ColRegion, ColPeakHour, ColDaysActive,
}

// Load reads and enriches the merchant dataset at path.
//
// It fails with ErrDatasetNotFound if path is not a file, ErrDatasetUnreadable
// if the file is not a valid CSV table, or a *SchemaError listing every
// missing required column.
func Load(path string) (*MerchantTable, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
		return nil, fmt.Errorf("%w: %q", ErrDatasetNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: cannot stat %q: %v", ErrDatasetUnreadable, path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot open %q: %v", ErrDatasetUnreadable, path, err)
	}
	defer f.Close()

	table, err := DecodeMerchants(f)
	if err != nil {
		return nil, fmt.Errorf("could not load dataset %q: %w", path, err)
	}
	return table, nil
}

// DecodeMerchants decodes a merchant CSV from r and returns the enriched table.
//
// The first row is the header. Integer columns must hold integer values;
// real columns may be empty (or "nan"), in which case the value is missing.
func DecodeMerchants(r io.Reader) (*MerchantTable, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: no header row", ErrDatasetUnreadable)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatasetUnreadable, err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		name = strings.TrimSpace(name)
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	var records []Merchant
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatasetUnreadable, err)
		}
		line, _ := reader.FieldPos(0)
		p := rowParser{row: row, index: index, line: line}
		m := Merchant{
			Address:          p.text(ColAddress),
			TransactionCount: p.integer(ColTransactionCount),
			UniqueCustomers:  p.integer(ColUniqueCustomers),
			TotalReceived:    p.real(ColTotalReceived),
			AvgPaymentSize:   p.real(ColAvgPaymentSize),
			Region:           p.text(ColRegion),
			PeakHourUTC:      p.integer(ColPeakHour),
			DaysActive:       p.integer(ColDaysActive),
		}
		if p.err != nil {
			return nil, p.err
		}
		records = append(records, m)
	}
	return NewMerchantTable(records), nil
}

// rowParser reads typed cells out of a CSV row, keeping the first error.
type rowParser struct {
	row   []string
	index map[string]int
	line  int
	err   error
}

func (p *rowParser) cell(col string) string {
	return strings.TrimSpace(p.row[p.index[col]])
}

func (p *rowParser) fail(col, value string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("%w: line %d column %q: invalid value %q: %v", ErrDatasetUnreadable, p.line, col, value, err)
	}
}

func (p *rowParser) text(col string) string { return p.cell(col) }

// integer parses integer cells, accepting integral reals like "12.0" as
// written by dataframe tools.
func (p *rowParser) integer(col string) int {
	v := p.cell(col)
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(col, v, err)
		return 0
	}
	if f != math.Trunc(f) || math.IsNaN(f) || math.IsInf(f, 0) {
		p.fail(col, v, errors.New("not an integer"))
		return 0
	}
	return int(f)
}

func (p *rowParser) real(col string) NullFloat {
	v := p.cell(col)
	if v == "" || strings.EqualFold(v, "nan") {
		return NullFloat{}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(col, v, err)
		return NullFloat{}
	}
	if math.IsNaN(f) {
		return NullFloat{}
	}
	return Float(f)
}
