package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"fabrie-console/models"
	"fabrie-console/service"
	"fabrie-console/stats"
)

const spreadsheetMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler serves spreadsheet downloads.
type ExportHandler struct {
	client *service.Client
}

// NewExportHandler creates the export handler.
func NewExportHandler(client *service.Client) *ExportHandler {
	return &ExportHandler{client: client}
}

// OrdersExcel downloads the order book as a spreadsheet.
// @Summary Export orders as Excel
// @Description The full order book, one row per order, with a totals row at the bottom.
// @Tags Export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file "Excel file"
// @Failure 502 {object} Response "Backend unreachable"
// @Router /app/export/orders.xlsx [get]
func (h *ExportHandler) OrdersExcel(c *gin.Context) {
	orders, err := h.client.ListOrders(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to load orders")
		return
	}

	f, err := buildOrdersWorkbook(orders, time.Now())
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to build the spreadsheet"))
		return
	}
	defer func() { _ = f.Close() }()

	filename := fmt.Sprintf("fabrie_orders_%s.xlsx", time.Now().Format(models.DateLayout))
	writeWorkbook(c, f, filename)
}

// FinanceExcel downloads the finance report and its transactions as a
// spreadsheet.
// @Summary Export finances as Excel
// @Description The report for the period on one sheet and its transactions on another. Open-ended periods are allowed.
// @Tags Export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param start_date query string false "Period start (YYYY-MM-DD)"
// @Param end_date query string false "Period end (YYYY-MM-DD)"
// @Success 200 {file} file "Excel file"
// @Failure 400 {object} Response "Invalid period"
// @Failure 502 {object} Response "Backend unreachable"
// @Router /app/export/finance.xlsx [get]
func (h *ExportHandler) FinanceExcel(c *gin.Context) {
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")

	report, err := h.client.GetReport(c.Request.Context(), startDate, endDate)
	if err != nil {
		respondServiceError(c, err, "Failed to load the report")
		return
	}

	transactions, err := h.client.ListTransactions(c.Request.Context(), service.TransactionOptions{
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to load transactions")
		return
	}

	f, err := buildFinanceWorkbook(report, transactions)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to build the spreadsheet"))
		return
	}
	defer func() { _ = f.Close() }()

	writeWorkbook(c, f, financeExportFilename(startDate, endDate))
}

func writeWorkbook(c *gin.Context, f *excelize.File, filename string) {
	c.Header("Content-Type", spreadsheetMIME)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	if err := f.Write(c.Writer); err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to write the spreadsheet"))
	}
}

func financeExportFilename(startDate, endDate string) string {
	switch {
	case startDate != "" && endDate != "":
		return fmt.Sprintf("fabrie_finance_%s_%s.xlsx", startDate, endDate)
	case startDate != "":
		return fmt.Sprintf("fabrie_finance_from_%s.xlsx", startDate)
	case endDate != "":
		return fmt.Sprintf("fabrie_finance_until_%s.xlsx", endDate)
	}
	return "fabrie_finance_all_time.xlsx"
}

type exportStyles struct {
	header  int
	data    int
	summary int
}

func newExportStyles(f *excelize.File) exportStyles {
	thinBorder := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}

	header, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder,
	})
	data, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder,
	})
	summary, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder,
	})

	return exportStyles{header: header, data: data, summary: summary}
}

func setHeaderRow(f *excelize.File, sheet string, headers []string, style int) {
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, style)
	}
}

func buildOrdersWorkbook(orders []models.Order, now time.Time) (*excelize.File, error) {
	f := excelize.NewFile()

	sheet := "Orders"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		_ = f.Close()
		return nil, err
	}

	styles := newExportStyles(f)

	f.SetColWidth(sheet, "A", "A", 12)
	f.SetColWidth(sheet, "B", "B", 24)
	f.SetColWidth(sheet, "C", "C", 20)
	f.SetColWidth(sheet, "D", "D", 15)
	f.SetColWidth(sheet, "E", "E", 22)
	f.SetColWidth(sheet, "F", "F", 10)
	f.SetColWidth(sheet, "G", "G", 14)
	f.SetColWidth(sheet, "H", "H", 14)
	f.SetColWidth(sheet, "I", "I", 10)
	f.SetColWidth(sheet, "J", "J", 18)

	headers := []string{
		"Product ID", "Product", "Customer", "Fabric", "Colours",
		"Pieces", "Order date", "Delivery date", "Days left", "Status",
	}
	setHeaderRow(f, sheet, headers, styles.header)

	for i, o := range orders {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), o.ProductID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), o.ProductName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), o.CustomerName)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), o.FabricType)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), strings.Join(o.Colours, ", "))
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), stats.TotalQuantity(o))
		if !o.OrderDate.IsZero() {
			f.SetCellValue(sheet, fmt.Sprintf("G%d", row), o.OrderDate.Format(models.DateLayout))
		}
		if !o.DeliveryDate.IsZero() {
			f.SetCellValue(sheet, fmt.Sprintf("H%d", row), o.DeliveryDate.Format(models.DateLayout))
			if !o.Status.Terminal() {
				f.SetCellValue(sheet, fmt.Sprintf("I%d", row), stats.DaysUntil(o.DeliveryDate, now))
			}
		}
		f.SetCellValue(sheet, fmt.Sprintf("J%d", row), string(o.Status))

		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("J%d", row), styles.data)
	}

	summary := stats.Calculate(orders)
	summaryRow := len(orders) + 2
	f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow), "Totals")
	f.MergeCell(sheet, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("E%d", summaryRow))
	f.SetCellValue(sheet, fmt.Sprintf("F%d", summaryRow), summary.TotalItems)
	f.SetCellValue(sheet, fmt.Sprintf("G%d", summaryRow),
		fmt.Sprintf("%d orders, cancelled pieces excluded", len(orders)))
	f.MergeCell(sheet, fmt.Sprintf("G%d", summaryRow), fmt.Sprintf("J%d", summaryRow))
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("J%d", summaryRow), styles.summary)

	return f, nil
}

// buildFinanceWorkbook lays the report out on one sheet and its
// transactions on another. Amounts are written as the backend's decimal
// strings; the workbook never recomputes a total.
func buildFinanceWorkbook(report models.FinanceReport, transactions []models.Transaction) (*excelize.File, error) {
	f := excelize.NewFile()

	reportSheet := "Report"
	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		_ = f.Close()
		return nil, err
	}
	txSheet := "Transactions"
	if _, err := f.NewSheet(txSheet); err != nil {
		_ = f.Close()
		return nil, err
	}

	styles := newExportStyles(f)

	f.SetColWidth(reportSheet, "A", "A", 26)
	f.SetColWidth(reportSheet, "B", "B", 12)
	f.SetColWidth(reportSheet, "C", "C", 16)

	setHeaderRow(f, reportSheet, []string{"Category", "Type", "Total amount"}, styles.header)

	for i, row := range report.CategoryBreakdown {
		r := i + 2
		f.SetCellValue(reportSheet, fmt.Sprintf("A%d", r), row.CategoryName)
		f.SetCellValue(reportSheet, fmt.Sprintf("B%d", r), string(row.CategoryType))
		f.SetCellValue(reportSheet, fmt.Sprintf("C%d", r), row.TotalAmount.Display())
		f.SetCellStyle(reportSheet, fmt.Sprintf("A%d", r), fmt.Sprintf("C%d", r), styles.data)
	}

	totals := []struct {
		label string
		value models.Money
	}{
		{"Total income", report.TotalIncome},
		{"Total expenses", report.TotalExpenses},
		{"Net profit", report.NetProfit},
	}
	for i, t := range totals {
		r := len(report.CategoryBreakdown) + 2 + i
		f.SetCellValue(reportSheet, fmt.Sprintf("A%d", r), t.label)
		f.MergeCell(reportSheet, fmt.Sprintf("A%d", r), fmt.Sprintf("B%d", r))
		f.SetCellValue(reportSheet, fmt.Sprintf("C%d", r), t.value.Display())
		f.SetCellStyle(reportSheet, fmt.Sprintf("A%d", r), fmt.Sprintf("C%d", r), styles.summary)
	}

	f.SetColWidth(txSheet, "A", "A", 8)
	f.SetColWidth(txSheet, "B", "B", 14)
	f.SetColWidth(txSheet, "C", "C", 20)
	f.SetColWidth(txSheet, "D", "D", 12)
	f.SetColWidth(txSheet, "E", "E", 14)
	f.SetColWidth(txSheet, "F", "F", 34)

	setHeaderRow(f, txSheet, []string{"ID", "Date", "Category", "Type", "Amount", "Description"}, styles.header)

	for i, tx := range transactions {
		row := i + 2
		f.SetCellValue(txSheet, fmt.Sprintf("A%d", row), tx.ID)
		if !tx.Date.IsZero() {
			f.SetCellValue(txSheet, fmt.Sprintf("B%d", row), tx.Date.Format(models.DateLayout))
		}
		f.SetCellValue(txSheet, fmt.Sprintf("C%d", row), tx.CategoryName)
		f.SetCellValue(txSheet, fmt.Sprintf("D%d", row), string(tx.CategoryType))
		f.SetCellValue(txSheet, fmt.Sprintf("E%d", row), tx.Amount.Display())
		f.SetCellValue(txSheet, fmt.Sprintf("F%d", row), tx.Description)
		f.SetCellStyle(txSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("F%d", row), styles.data)
	}

	summaryRow := len(transactions) + 2
	f.SetCellValue(txSheet, fmt.Sprintf("A%d", summaryRow), "Entries")
	f.MergeCell(txSheet, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("B%d", summaryRow))
	f.SetCellValue(txSheet, fmt.Sprintf("C%d", summaryRow), fmt.Sprintf("%d entries, totals on the report sheet", len(transactions)))
	f.MergeCell(txSheet, fmt.Sprintf("C%d", summaryRow), fmt.Sprintf("F%d", summaryRow))
	f.SetCellStyle(txSheet, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("F%d", summaryRow), styles.summary)

	return f, nil
}
