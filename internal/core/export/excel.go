package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

// OrderRow is one exported order line.
type OrderRow struct {
	OrderNumber   string
	CreatedAt     time.Time
	CustomerName  string
	CustomerPhone string
	Items         string
	TotalAmount   float64
	Status        string
	PaymentStatus string
}

var orderHeaders = []string{
	"Pedido", "Fecha", "Cliente", "Teléfono", "Productos", "Total", "Estado", "Pago",
}

var orderColumnWidths = map[string]float64{
	"A": 18, "B": 18, "C": 24, "D": 18, "E": 48, "F": 12, "G": 14, "H": 14,
}

// OrdersExporter writes order reports as xlsx workbooks
type OrdersExporter struct {
	sheetName string
}

// NewOrdersExporter creates a new orders exporter
func NewOrdersExporter() *OrdersExporter {
	return &OrdersExporter{sheetName: "Pedidos"}
}

// ContentType returns the MIME type for xlsx downloads
func (e *OrdersExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// FileName builds the download name for a tenant report.
func (e *OrdersExporter) FileName(businessName string) string {
	return fmt.Sprintf("pedidos-%s-%s.xlsx", businessName, time.Now().Format("2006-01-02"))
}

// Write renders the orders workbook to the writer.
func (e *OrdersExporter) Write(w io.Writer, businessName string, rows []OrderRow) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", e.sheetName)

	f.SetCellValue(e.sheetName, "A1", fmt.Sprintf("Pedidos de %s", businessName))
	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	f.SetCellStyle(e.sheetName, "A1", "A1", titleStyle)

	headerRow := 3
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, header := range orderHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		f.SetCellValue(e.sheetName, cell, header)
		f.SetCellStyle(e.sheetName, cell, cell, headerStyle)
	}
	for col, width := range orderColumnWidths {
		f.SetColWidth(e.sheetName, col, col, width)
	}

	moneyStyle, _ := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00

	for i, row := range rows {
		r := headerRow + 1 + i
		values := []interface{}{
			row.OrderNumber,
			row.CreatedAt.Format("02/01/2006 15:04"),
			row.CustomerName,
			row.CustomerPhone,
			row.Items,
			row.TotalAmount,
			row.Status,
			row.PaymentStatus,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, r)
			f.SetCellValue(e.sheetName, cell, value)
		}
		totalCell, _ := excelize.CoordinatesToCellName(6, r)
		f.SetCellStyle(e.sheetName, totalCell, totalCell, moneyStyle)
	}

	f.SetPanes(e.sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      headerRow,
		TopLeftCell: fmt.Sprintf("A%d", headerRow+1),
		ActivePane:  "bottomLeft",
	})

	lastCol, _ := excelize.CoordinatesToCellName(len(orderHeaders), headerRow+len(rows))
	f.AutoFilter(e.sheetName, fmt.Sprintf("A%d:%s", headerRow, lastCol), nil)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}

	return nil
}
