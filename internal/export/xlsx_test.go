package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"sales-dashboard/internal/models"
)

func TestWriteSalesXLSX(t *testing.T) {
	sales := []models.Sale{
		{
			Product:  "Livro",
			Category: "livros",
			Price:    decimal.RequireFromString("100.5"),
			Date:     time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC),
			Seller:   "Ana",
			Location: "SP",
			Lat:      -22.19,
			Lon:      -48.79,
		},
		{
			Product:  "Bola",
			Category: "esporte e lazer",
			Price:    decimal.NewFromInt(50),
			Date:     time.Date(2022, 2, 20, 0, 0, 0, 0, time.UTC),
			Seller:   "Bruno",
			Location: "RJ",
		},
	}

	var buf bytes.Buffer
	if err := WriteSalesXLSX(&buf, sales); err != nil {
		t.Fatalf("WriteSalesXLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}

	if len(rows) != len(sales)+1 {
		t.Fatalf("got %d rows, want %d", len(rows), len(sales)+1)
	}
	if rows[0][0] != "Produto" || rows[0][5] != "Vendedor" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][0] != "Livro" || rows[1][4] != "05/01/2023" || rows[1][5] != "Ana" {
		t.Errorf("unexpected first row: %v", rows[1])
	}
	if rows[2][6] != "RJ" {
		t.Errorf("unexpected second row: %v", rows[2])
	}
}

func TestWriteSalesXLSX_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSalesXLSX(&buf, nil); err != nil {
		t.Fatalf("WriteSalesXLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("got %d rows, want header only", len(rows))
	}
}
