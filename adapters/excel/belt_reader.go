package excel

import (
	"fmt"
	"os"
	"strconv"

	"fclimits/domain/belt"

	"github.com/xuri/excelize/v2"
)

// ReadBelt loads a workbook written by BeltWriter.
func ReadBelt(path string) (*belt.Belt, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("belt workbook not found: %s", path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open belt workbook: %w", err)
	}
	defer f.Close()

	out := &belt.Belt{}
	if err := readMeta(f, out); err != nil {
		return nil, err
	}

	rows, err := f.GetRows(beltSheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s sheet: %w", beltSheet, err)
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("%s sheet has no header row", beltSheet)
	}

	out.Points = make([]belt.Interval, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) < 3 {
			return nil, fmt.Errorf("row %d: expected 3 columns, got %d", i+2, len(row))
		}
		mu, err := strconv.ParseFloat(row[0], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad mu %q: %w", i+2, row[0], err)
		}
		lower, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, fmt.Errorf("row %d: bad lower %q: %w", i+2, row[1], err)
		}
		upper, err := strconv.Atoi(row[2])
		if err != nil {
			return nil, fmt.Errorf("row %d: bad upper %q: %w", i+2, row[2], err)
		}
		out.Points = append(out.Points, belt.Interval{Mu: mu, Lower: lower, Upper: upper})
	}
	return out, nil
}

func readMeta(f *excelize.File, out *belt.Belt) error {
	rows, err := f.GetRows(metaSheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return fmt.Errorf("failed to read %s sheet: %w", metaSheet, err)
	}
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		var perr error
		switch row[0] {
		case "background":
			out.Background, perr = strconv.ParseFloat(row[1], 64)
		case "alpha":
			out.Alpha, perr = strconv.ParseFloat(row[1], 64)
		case "support_max":
			out.SupportMax, perr = strconv.Atoi(row[1])
		case "skipped":
			out.Skipped, perr = strconv.Atoi(row[1])
		}
		if perr != nil {
			return fmt.Errorf("bad %s value %q: %w", row[0], row[1], perr)
		}
	}
	return nil
}
