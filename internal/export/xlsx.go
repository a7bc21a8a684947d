package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"sales-dashboard/internal/models"
)

const (
	SheetName       = "Vendas"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	dateLayout      = "02/01/2006"
)

// Header holds the column titles, matching the upstream field names.
var Header = []string{
	"Produto", "Categoria do Produto", "Preço", "Frete", "Data da Compra", "Vendedor",
	"Local da compra", "Avaliação da compra", "Tipo de pagamento", "Quantidade de parcelas", "lat", "lon",
}

// WriteSalesXLSX writes sales as a single-sheet workbook with the upstream
// column names as header.
func WriteSalesXLSX(w io.Writer, sales []models.Sale) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, sale := range sales {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		row := []any{
			sale.Product,
			sale.Category,
			sale.Price.InexactFloat64(),
			sale.Freight.InexactFloat64(),
			sale.Date.Format(dateLayout),
			sale.Seller,
			sale.Location,
			sale.Rating,
			sale.PaymentType,
			sale.Installments,
			sale.Lat,
			sale.Lon,
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
