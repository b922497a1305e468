package infra

// pdf.go — budget quote generation using go-pdf/fpdf.
// The generated file is attached to the approval-request email sent to the
// customer when a budget is sent.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
)

// BudgetPDFItem is one priced line of the quote.
type BudgetPDFItem struct {
	Type        string
	Description string
	Quantity    int
	UnitPrice   string
	Total       string
}

// BudgetPDFData carries everything the quote renders. Strings are
// pre-formatted by the caller so this layer stays ignorant of decimals.
type BudgetPDFData struct {
	BudgetID     string
	OrderNumber  string
	CustomerName string
	ValidUntil   string
	Items        []BudgetPDFItem
	Total        string
}

// GenerateBudgetPDF writes the quote to storagePath/orcamento_<id>.pdf and
// returns the absolute path of the generated file.
func GenerateBudgetPDF(data BudgetPDFData, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("orcamento_%s.pdf", data.BudgetID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "Oficina Mecânica", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, "Orçamento de Serviços", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Quote info ───────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Ordem de Serviço %s", data.OrderNumber), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Cliente: %s", data.CustomerName), "", 1, "L", false, 0, "")
	if data.ValidUntil != "" {
		pdf.CellFormat(contentW, 5, fmt.Sprintf("Válido até: %s", data.ValidUntil), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// ── Item table ───────────────────────────────────────────────────────────
	colDesc := contentW * 0.50
	colQty := contentW * 0.12
	colUnit := contentW * 0.19
	colTotal := contentW * 0.19

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(colDesc, 7, "Descrição", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colQty, 7, "Qtd", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colUnit, 7, "Preço Unit.", "1", 0, "R", true, 0, "")
	pdf.CellFormat(colTotal, 7, "Total", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, it := range data.Items {
		desc := it.Description
		if it.Type != "" {
			desc = fmt.Sprintf("[%s] %s", it.Type, it.Description)
		}
		pdf.CellFormat(colDesc, 6, desc, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colQty, 6, fmt.Sprintf("%d", it.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colUnit, 6, it.UnitPrice, "1", 0, "R", false, 0, "")
		pdf.CellFormat(colTotal, 6, it.Total, "1", 1, "R", false, 0, "")
	}

	// ── Total ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(colDesc+colQty+colUnit, 8, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(colTotal, 8, data.Total, "1", 1, "R", false, 0, "")

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 5, "Aprovação do orçamento autoriza o início da execução dos serviços.", "", 1, "L", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
