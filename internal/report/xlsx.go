package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"talhoes.dashboard.org/internal/models"
)

const SheetName = "Talhoes"

var tableHeader = []interface{}{
	"Talhao", "fazenda", "especie", "idade", "produtividade", "volume",
	"area", "taxa_sobrevivencia", "rendimento_operacional", "custo_por_talhao",
}

// WriteXLSX writes parcels, without geometry, as a single-sheet workbook.
func WriteXLSX(w io.Writer, parcels []models.Parcel) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("error naming sheet: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &tableHeader); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}

	for i, p := range parcels {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			p.ID, p.Farm, p.Species, p.Age, p.Productivity, p.Volume,
			p.Area, p.SurvivalRate, p.OperationalYield, p.Cost,
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("error writing parcel %s: %w", p.ID, err)
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("error freezing header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("error writing workbook: %w", err)
	}
	return nil
}
