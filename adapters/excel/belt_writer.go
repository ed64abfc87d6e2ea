package excel

import (
	"context"
	"fmt"
	"log"
	"time"

	"fclimits/domain/belt"

	"github.com/xuri/excelize/v2"
)

const (
	beltSheet = "Belt"
	metaSheet = "Meta"
)

var beltHeaders = []interface{}{"mu", "lower", "upper"}

// BeltWriter writes a belt as a workbook: one row per swept mean on the
// Belt sheet and the sweep parameters on the Meta sheet.
type BeltWriter struct{}

// NewBeltWriter creates a workbook renderer
func NewBeltWriter() *BeltWriter {
	return &BeltWriter{}
}

func (w *BeltWriter) Name() string { return "xlsx" }

func (w *BeltWriter) Extension() string { return "xlsx" }

// Render writes b to path.
func (w *BeltWriter) Render(ctx context.Context, b *belt.Belt, path string) error {
	start := time.Now()
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", beltSheet); err != nil {
		return fmt.Errorf("failed to name belt sheet: %w", err)
	}
	if err := f.SetSheetRow(beltSheet, "A1", &beltHeaders); err != nil {
		return err
	}
	for i, p := range b.Points {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{p.Mu, p.Lower, p.Upper}
		if err := f.SetSheetRow(beltSheet, cell, &row); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(metaSheet); err != nil {
		return fmt.Errorf("failed to create meta sheet: %w", err)
	}
	meta := [][]interface{}{
		{"background", b.Background},
		{"alpha", b.Alpha},
		{"support_max", b.SupportMax},
		{"skipped", b.Skipped},
	}
	for i, row := range meta {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(metaSheet, cell, &row); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	log.Printf("[BeltWriter] wrote %d points to %s in %.2fms", len(b.Points), path, float64(time.Since(start).Nanoseconds())/1e6)
	return nil
}
