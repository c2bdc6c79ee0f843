package payment

import (
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Payments"

var exportHeader = []interface{}{
	"Receipt", "Employee", "Email", "UID", "Month", "Year", "Amount", "Transaction", "Paid At",
}

// buildPaymentsWorkbook renders payments as a single-sheet XLSX workbook.
func buildPaymentsWorkbook(rows []PaymentResponse) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(exportSheet, "A1", "I1", bold); err != nil {
		return nil, err
	}

	for i, p := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		amount, _ := p.Amount.Float64()
		row := []interface{}{
			p.ReceiptNo, p.EmployeeName, p.EmployeeEmail, p.EmployeeUID,
			p.Month, p.Year, amount, p.TransactionID, p.PaymentDate,
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(exportSheet, "A", "I", 18); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
