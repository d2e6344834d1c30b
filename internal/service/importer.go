package service

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"flex_report/internal/engine"
	"flex_report/internal/models"

	"github.com/xuri/excelize/v2"
)

// Workbook columns, matched case-insensitively against the header row.
const (
	ColFluid        = "fluid"
	ColHours        = "hours"
	ColApplication  = "application"
	ColManufacturer = "manufacturer"
	ColCategory     = "category"
	ColModel        = "model"
	ColSeverity     = "severity"
	ColRPVOT        = "rpvot"
	ColAminic       = "aminic"
	ColDeltaE       = "delta_e"
)

var (
	ErrInvalidWorkbook = errors.New("invalid workbook")
	ErrMissingColumn   = errors.New("missing required column")
)

// ImportedRow is a parsed request with its 1-based sheet row.
type ImportedRow struct {
	Row     int
	Request engine.Request
}

// RowError describes a row that could not be turned into a request.
type RowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Message string `json:"message"`
}

func (e RowError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("row %d: %s", e.Row, e.Message)
	}
	return fmt.Sprintf("row %d, column %s: %s", e.Row, e.Column, e.Message)
}

type ImportService struct{}

func NewImportService() *ImportService { return &ImportService{} }

// ImportWorkbook reads the first sheet of an XLSX workbook. Blank rows are
// skipped; malformed rows are reported in the RowError slice and do not
// abort the import.
func (s *ImportService) ImportWorkbook(r io.Reader) ([]ImportedRow, []RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read sheet %q: %v", ErrInvalidWorkbook, sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("%w: sheet %q is empty", ErrInvalidWorkbook, sheet)
	}

	cols := headerIndex(rows[0])
	for _, required := range []string{ColFluid, ColHours} {
		if _, ok := cols[required]; !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}

	var (
		out     []ImportedRow
		rowErrs []RowError
	)
	for i := 1; i < len(rows); i++ {
		row := sheetRow{cells: rows[i], cols: cols, num: i + 1}
		if row.blank() {
			continue
		}
		req, rerr := row.request()
		if rerr != nil {
			rowErrs = append(rowErrs, *rerr)
			continue
		}
		out = append(out, ImportedRow{Row: row.num, Request: req})
	}
	return out, rowErrs, nil
}

func headerIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if key == "" {
			continue
		}
		if _, dup := cols[key]; !dup {
			cols[key] = i
		}
	}
	return cols
}

type sheetRow struct {
	cells []string
	cols  map[string]int
	num   int
}

func (r sheetRow) get(col string) string {
	i, ok := r.cols[col]
	if !ok || i >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}

func (r sheetRow) blank() bool {
	for _, c := range r.cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func (r sheetRow) errorf(col, format string, args ...any) *RowError {
	return &RowError{Row: r.num, Column: col, Message: fmt.Sprintf(format, args...)}
}

// float parses an optional numeric cell; an empty cell yields nil.
func (r sheetRow) float(col string) (*float64, *RowError) {
	s := r.get(col)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, r.errorf(col, "not a number: %q", s)
	}
	return &v, nil
}

func (r sheetRow) request() (engine.Request, *RowError) {
	req := engine.Request{Fluid: r.get(ColFluid)}
	if req.Fluid == "" {
		return engine.Request{}, r.errorf(ColFluid, "fluid is required")
	}

	hours, rerr := r.float(ColHours)
	if rerr != nil {
		return engine.Request{}, rerr
	}
	if hours == nil {
		return engine.Request{}, r.errorf(ColHours, "hours is required")
	}
	req.ElapsedHours = *hours

	req.Application = r.get(ColApplication)
	ref := models.EquipmentRef{
		Manufacturer: r.get(ColManufacturer),
		Category:     r.get(ColCategory),
		Model:        r.get(ColModel),
	}
	switch {
	case ref.Manufacturer == "" && ref.Category == "" && ref.Model == "":
	case ref.Manufacturer == "" || ref.Category == "" || ref.Model == "":
		return engine.Request{}, r.errorf("", "manufacturer, category and model must be given together")
	default:
		req.Equipment = &ref
	}

	fields := []struct {
		col string
		dst **float64
	}{
		{ColSeverity, &req.Override},
		{ColRPVOT, &req.Measured.RPVOTPct},
		{ColAminic, &req.Measured.AminicPct},
		{ColDeltaE, &req.Measured.DeltaE},
	}
	for _, f := range fields {
		v, rerr := r.float(f.col)
		if rerr != nil {
			return engine.Request{}, rerr
		}
		*f.dst = v
	}
	return req, nil
}
