// Package report renders account statements as PDF documents.
package report

import (
	"io"
	"strings"
	"time"

	"github.com/ElPoteRD/CuentaClaras-sub000/internal/ledger"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/models"
	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"
)

const (
	dateLayout = "2006-01-02"
	// pageBreakY is where a new page starts before the next line is drawn.
	pageBreakY = 270
)

var colW = []float64{24, 22, 76, 30, 30}

// WriteStatementPDF renders st to w. Each line shows the signed effect of a
// transaction and the balance right after it.
func WriteStatementPDF(w io.Writer, st *models.Statement, generatedAt time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.SetAutoPageBreak(false, 14)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "CuentaClaras Statement")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.Cell(0, 6, tr("Account: "+st.Account.Name+" ("+string(st.Account.Type)+", "+st.Account.Currency+")"))
	pdf.Ln(5)
	pdf.Cell(0, 6, "Period: "+st.From.Format(dateLayout)+" to "+st.To.Format(dateLayout))
	pdf.Ln(10)

	income, expense := decimal.Zero, decimal.Zero
	for _, l := range st.Lines {
		if l.Type == models.TransactionIncome {
			income = income.Add(l.Amount)
		} else {
			expense = expense.Add(l.Amount)
		}
	}

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFillColor(248, 248, 248)
	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 10)
	sumW := 45.5
	for i, label := range []string{"Opening", "Income", "Expense", "Closing"} {
		ln := 0
		if i == 3 {
			ln = 1
		}
		pdf.CellFormat(sumW, 9, label+" ("+st.Account.Currency+")", "1", ln, "C", true, 0, "")
	}
	pdf.SetFont("Helvetica", "", 10)
	for i, v := range []decimal.Decimal{st.OpeningBalance, income, expense, st.ClosingBalance} {
		ln := 0
		if i == 3 {
			ln = 1
		}
		pdf.CellFormat(sumW, 9, FormatMoney(v), "1", ln, "C", false, 0, "")
	}
	pdf.Ln(6)

	header(pdf)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(30, 30, 30)
	if len(st.Lines) == 0 {
		pdf.CellFormat(0, 8, "No transactions in this period", "1", 1, "C", false, 0, "")
	}
	for _, l := range st.Lines {
		if pdf.GetY() > pageBreakY {
			pdf.AddPage()
			header(pdf)
			pdf.SetFont("Helvetica", "", 9)
		}
		pdf.CellFormat(colW[0], 8, l.Date.Format(dateLayout), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[1], 8, string(l.Type), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[2], 8, tr(trimTo(l.Description, 48)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[3], 8, FormatMoney(ledger.Effect(l.Amount, l.Type)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colW[4], 8, FormatMoney(l.Balance), "1", 1, "R", false, 0, "")
	}

	pdf.SetY(-18)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 10, "Generated "+generatedAt.UTC().Format(time.RFC3339), "", 0, "C", false, 0, "")

	return pdf.Output(w)
}

func header(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(245, 245, 245)
	pdf.SetTextColor(20, 20, 20)
	pdf.CellFormat(colW[0], 8, "DATE", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colW[1], 8, "TYPE", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colW[2], 8, "DESCRIPTION", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colW[3], 8, "AMOUNT", "1", 0, "R", true, 0, "")
	pdf.CellFormat(colW[4], 8, "BALANCE", "1", 1, "R", true, 0, "")
}

func trimTo(s string, max int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

// FormatMoney renders d with two decimals and thousands separators.
func FormatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	whole, frac := s[:len(s)-3], s[len(s)-2:]

	var b strings.Builder
	if d.IsNegative() {
		b.WriteByte('-')
	}
	for i, ch := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}
