package service

import (
	"bytes"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows ...[]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf
}

func TestImportService_ImportWorkbook(t *testing.T) {
	buf := workbook(t,
		[]any{"Fluid", "Hours", "Application", "Manufacturer", "Category", "Model", "Severity", "RPVOT", "Aminic", "Delta_E"},
		[]any{"Mobil DTE 832", 5000},
		[]any{"Chevron GST 32", 12000, "Large Gas Turbine", "GE Vernova", "Large Gas Turbine", "7HA.03", 1.2, 55, 60, 22.5},
		[]any{" "},
		[]any{"Shell Turbo T 32", "lots"},
		[]any{"Shell Turbo T 32", 10, "", "Siemens Energy"},
		[]any{"", 10},
		[]any{"Turboflo R&O", 100, "", "", "", "", "", "abc"},
	)

	rows, rowErrs, err := NewImportService().ImportWorkbook(buf)
	if err != nil {
		t.Fatalf("ImportWorkbook returned error: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d: %+v", len(rows), rows)
	}
	first := rows[0]
	if first.Row != 2 || first.Request.Fluid != "Mobil DTE 832" || first.Request.ElapsedHours != 5000 {
		t.Fatalf("unexpected first row: %+v", first)
	}
	if first.Request.Equipment != nil || first.Request.Override != nil || first.Request.Measured.RPVOTPct != nil {
		t.Fatalf("expected optional fields unset, got %+v", first.Request)
	}

	full := rows[1].Request
	if full.Equipment == nil || full.Equipment.Model != "7HA.03" || full.Application != "Large Gas Turbine" {
		t.Fatalf("unexpected equipment fields: %+v", full)
	}
	if full.Override == nil || *full.Override != 1.2 {
		t.Fatalf("unexpected override: %v", full.Override)
	}
	m := full.Measured
	if m.RPVOTPct == nil || *m.RPVOTPct != 55 || m.AminicPct == nil || *m.AminicPct != 60 || m.DeltaE == nil || *m.DeltaE != 22.5 {
		t.Fatalf("unexpected measurements: %+v", m)
	}

	wantErrs := []RowError{
		{Row: 5, Column: ColHours},
		{Row: 6},
		{Row: 7, Column: ColFluid},
		{Row: 8, Column: ColRPVOT},
	}
	if len(rowErrs) != len(wantErrs) {
		t.Fatalf("expected %d row errors, got %d: %+v", len(wantErrs), len(rowErrs), rowErrs)
	}
	for i, want := range wantErrs {
		if rowErrs[i].Row != want.Row || rowErrs[i].Column != want.Column {
			t.Errorf("row error %d: want row %d column %q, got %+v", i, want.Row, want.Column, rowErrs[i])
		}
		if rowErrs[i].Message == "" {
			t.Errorf("row error %d has no message", i)
		}
	}
}

func TestImportService_ImportWorkbookRejects(t *testing.T) {
	tests := []struct {
		name string
		data *bytes.Buffer
		want error
	}{
		{"not xlsx", bytes.NewBufferString("fluid,hours\nA,1\n"), ErrInvalidWorkbook},
		{"missing hours column", workbook(t, []any{"fluid", "severity"}, []any{"A", 1}), ErrMissingColumn},
		{"empty sheet", workbook(t), ErrInvalidWorkbook},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := NewImportService().ImportWorkbook(tt.data)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
