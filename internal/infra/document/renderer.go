package document

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/skip2/go-qrcode"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xuri/excelize/v2"
)

const qrSize = 256

// Renderer genera los documentos descargables del CRM. CompanyName aparece en la
// cabecera de los PDF.
type Renderer struct {
	CompanyName string
}

func NewRenderer(companyName string) *Renderer {
	if companyName == "" {
		companyName = "Ligue"
	}
	return &Renderer{CompanyName: companyName}
}

func (r *Renderer) ProposalPDF(p *entity.Proposal) ([]byte, error) {
	pdf, tr := r.newPDF()
	r.header(pdf, tr, "PROPUESTA", p.Title)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, tr("Cliente: "+p.LeadName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr("Fecha: "+p.CreatedAt.Format("02/01/2006")), "", 1, "L", false, 0, "")
	pdf.Ln(4)
	if p.Description != "" {
		pdf.MultiCell(0, 5, tr(p.Description), "", "L", false)
		pdf.Ln(4)
	}

	r.itemsTable(pdf, tr, p.Items, p.TotalPrice)

	if p.Status == entity.ProposalStatusAccepted {
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 6, tr("Aceptada"), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		if p.SignerName != nil {
			pdf.CellFormat(0, 6, tr("Firmante: "+*p.SignerName), "", 1, "L", false, 0, "")
		}
		if p.AcceptedAt != nil {
			pdf.CellFormat(0, 6, tr("Fecha: "+p.AcceptedAt.Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")
		}
		if p.SignatureData != nil {
			addSignature(pdf, *p.SignatureData)
		}
	}
	return output(pdf)
}

func (r *Renderer) InvoicePDF(inv *entity.Invoice) ([]byte, error) {
	pdf, tr := r.newPDF()
	r.header(pdf, tr, "FACTURA", inv.Number)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, tr("Cliente: "+inv.LeadName), "", 1, "L", false, 0, "")
	if inv.LeadEmail != "" {
		pdf.CellFormat(0, 6, tr("Email: "+inv.LeadEmail), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 6, tr("Emisión: "+inv.CreatedAt.Format("02/01/2006")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr("Vencimiento: "+inv.DueDate.Format("02/01/2006")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr("Estado: "+invoiceStatusLabel(inv.Status)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	r.itemsTable(pdf, tr, inv.Items, inv.Total)
	return output(pdf)
}

func (r *Renderer) LeadsExcel(leads []*entity.Lead) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Leads"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	header := []any{"Nombre", "Email", "Teléfono", "Empresa", "Origen", "Estado", "Etiquetas", "Notas", "Creado"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"2563EB"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", "I1", style); err != nil {
		return nil, err
	}

	for i, l := range leads {
		row := []any{l.Name, l.Email, l.Phone, l.Company, l.Source, l.Status,
			strings.Join(l.Tags, ", "), l.Notes, l.CreatedAt.Format("2006-01-02 15:04")}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(sheet, "A", "I", 22); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("error al generar el Excel: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) QRCode(content string) ([]byte, error) {
	return qrcode.Encode(content, qrcode.Medium, qrSize)
}

func (r *Renderer) newPDF() (*fpdf.Fpdf, func(string) string) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 18, 18)
	pdf.SetCreationDate(time.Now())
	pdf.AddPage()
	// las fuentes estándar son cp1252; traduce acentos y €
	return pdf, pdf.UnicodeTranslatorFromDescriptor("")
}

func (r *Renderer) header(pdf *fpdf.Fpdf, tr func(string) string, kind, title string) {
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, tr(r.CompanyName), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 7, tr(kind+" · "+title), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(6)
}

func (r *Renderer) itemsTable(pdf *fpdf.Fpdf, tr func(string) string, items []entity.ProposalItem, total float64) {
	widths := []float64{94, 20, 30, 30}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	for i, h := range []string{"Concepto", "Cant.", "Precio", "Subtotal"} {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(widths[i], 8, tr(h), "B", 0, align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, it := range items {
		pdf.CellFormat(widths[0], 7, tr(it.Description), "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, formatQty(it.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 7, tr(money(it.UnitPrice)), "", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, tr(money(it.Subtotal())), "", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(widths[0]+widths[1]+widths[2], 9, "TOTAL", "T", 0, "R", false, 0, "")
	pdf.CellFormat(widths[3], 9, tr(money(total)), "T", 1, "R", false, 0, "")
}

// addSignature incrusta la firma (data URL PNG del canvas). Una firma ilegible se omite.
func addSignature(pdf *fpdf.Fpdf, dataURL string) {
	_, encoded, ok := strings.Cut(dataURL, "base64,")
	if !ok {
		return
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return
	}
	opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	pdf.RegisterImageOptionsReader("firma", opts, bytes.NewReader(raw))
	if pdf.Err() {
		pdf.ClearError()
		return
	}
	pdf.ImageOptions("firma", pdf.GetX(), pdf.GetY()+2, 60, 0, true, opts, 0, "")
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("error al generar el PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func money(v float64) string {
	return entity.FormatAmount(v) + " €"
}

func formatQty(q float64) string {
	if q == float64(int64(q)) {
		return fmt.Sprintf("%d", int64(q))
	}
	return strings.Replace(fmt.Sprintf("%.2f", q), ".", ",", 1)
}

func invoiceStatusLabel(s string) string {
	switch s {
	case entity.InvoiceStatusPaid:
		return "Pagada"
	case entity.InvoiceStatusOverdue:
		return "Vencida"
	case entity.InvoiceStatusCancelled:
		return "Anulada"
	default:
		return "Pendiente"
	}
}
