package heatmap

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/etnz/heatmap/date"
	"github.com/xuri/excelize/v2"
)

// this file contains functions to handle the address export format.
// It is the artifact offered for download: one row per merchant record with
// its address and region, header included.

// AddressRegion is one row of the address export.
type AddressRegion struct {
	Address string
	Region  string
}

var exportHeader = []string{ColAddress, ColRegion}

// ExportFileName returns the name of the address export produced on a given day,
// e.g. "tron_merchant_addresses_20250610.csv".
func ExportFileName(on date.Date, ext string) string {
	return fmt.Sprintf("tron_merchant_addresses_%s.%s", on.Compact(), ext)
}

// ExportAddresses writes the address and region of every merchant in t to w, as CSV.
func ExportAddresses(w io.Writer, t *MerchantTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("cannot write export header: %w", err)
	}
	for m := range t.Merchants() {
		if err := cw.Write([]string{m.Address, m.Region}); err != nil {
			return fmt.Errorf("cannot write address %q: %w", m.Address, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ImportAddresses reads an address export produced by ExportAddresses.
func ImportAddresses(r io.Reader) ([]AddressRegion, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read export header: %w", err)
	}
	if len(header) != 2 || header[0] != ColAddress || header[1] != ColRegion {
		return nil, fmt.Errorf("unexpected export header %q", header)
	}
	var rows []AddressRegion
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("cannot parse export: %w", err)
		}
		rows = append(rows, AddressRegion{Address: row[0], Region: row[1]})
	}
}

// ExportSheet is the name of the worksheet of the spreadsheet export.
const ExportSheet = "Merchants"

// ExportAddressesXLSX writes the address export as a spreadsheet.
func ExportAddressesXLSX(w io.Writer, t *MerchantTable) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ExportSheet); err != nil {
		return fmt.Errorf("cannot name worksheet: %w", err)
	}
	if err := f.SetSheetRow(ExportSheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("cannot write export header: %w", err)
	}
	row := 2
	for m := range t.Merchants() {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(ExportSheet, cell, &[]string{m.Address, m.Region}); err != nil {
			return fmt.Errorf("cannot write address %q: %w", m.Address, err)
		}
		row++
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("cannot write spreadsheet: %w", err)
	}
	return nil
}

// ImportAddressesXLSX reads an address export produced by ExportAddressesXLSX.
func ImportAddressesXLSX(r io.Reader) ([]AddressRegion, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("cannot open spreadsheet: %w", err)
	}
	defer f.Close()

	sheet, err := f.GetRows(ExportSheet)
	if err != nil {
		return nil, fmt.Errorf("cannot read worksheet %q: %w", ExportSheet, err)
	}
	if len(sheet) == 0 {
		return nil, fmt.Errorf("worksheet %q has no header", ExportSheet)
	}
	var rows []AddressRegion
	for _, row := range sheet[1:] {
		var ar AddressRegion
		if len(row) > 0 {
			ar.Address = row[0]
		}
		if len(row) > 1 {
			ar.Region = row[1]
		}
		rows = append(rows, ar)
	}
	return rows, nil
}
