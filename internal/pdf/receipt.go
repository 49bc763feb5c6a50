// Package pdf renders the return receipt handed to the customer.
package pdf

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/maxari-shop/service-returns/internal/models"
)

// ReceiptData is everything the receipt layout needs.
type ReceiptData struct {
	ReturnID     string
	CreatedAt    time.Time
	CustomerName string
	OrderNumber  string
	Products     []models.ReturnProduct
	Refund       models.RefundDetails
	TotalRefund  float64
	Signature    string // data URL, image/png
	QRCode       []byte // PNG
}

// GenerateReceipt renders the receipt PDF. Any layout error aborts the whole
// document; a return record is never created without its receipt.
func GenerateReceipt(data ReceiptData) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.SetAutoPageBreak(true, 20)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 18)
	doc.CellFormat(0, 10, tr("Cerere de retur"), "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "", 11)
	doc.CellFormat(0, 6, tr(fmt.Sprintf("Număr retur: %s", data.ReturnID)), "", 1, "C", false, 0, "")
	doc.CellFormat(0, 6, tr(fmt.Sprintf("Data: %s", data.CreatedAt.Format("02.01.2006"))), "", 1, "C", false, 0, "")
	doc.Ln(6)

	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(0, 7, tr("Detalii comandă"), "B", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 11)
	doc.CellFormat(0, 6, tr(fmt.Sprintf("Nume: %s", data.CustomerName)), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 6, tr(fmt.Sprintf("Comandă: %s", data.OrderNumber)), "", 1, "L", false, 0, "")
	doc.Ln(4)

	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(0, 7, tr("Produse returnate"), "B", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(80, 6, tr("Produs"), "1", 0, "L", false, 0, "")
	doc.CellFormat(20, 6, tr("Cant."), "1", 0, "C", false, 0, "")
	doc.CellFormat(30, 6, tr("Preț unitar"), "1", 0, "R", false, 0, "")
	doc.CellFormat(30, 6, tr("Total"), "1", 0, "R", false, 0, "")
	doc.CellFormat(30, 6, tr("Motiv"), "1", 1, "L", false, 0, "")

	doc.SetFont("Helvetica", "", 10)
	for _, product := range data.Products {
		qty := product.ReturnedQty()
		if qty == 0 {
			continue
		}

		reason := product.Reason
		if product.OtherReasons != "" {
			reason = reason + ": " + product.OtherReasons
		}

		doc.CellFormat(80, 6, tr(truncate(product.Name, 48)), "1", 0, "L", false, 0, "")
		doc.CellFormat(20, 6, fmt.Sprintf("%d", qty), "1", 0, "C", false, 0, "")
		doc.CellFormat(30, 6, fmt.Sprintf("%.2f", product.UnitPrice), "1", 0, "R", false, 0, "")
		doc.CellFormat(30, 6, fmt.Sprintf("%.2f", product.UnitPrice*float64(qty)), "1", 0, "R", false, 0, "")
		doc.CellFormat(30, 6, tr(truncate(reason, 18)), "1", 1, "L", false, 0, "")
	}

	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(130, 7, tr("Total de rambursat"), "1", 0, "R", false, 0, "")
	doc.CellFormat(60, 7, fmt.Sprintf("%.2f RON", data.TotalRefund), "1", 1, "R", false, 0, "")
	doc.Ln(4)

	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(0, 7, tr("Rambursare"), "B", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 11)
	if data.Refund.IBAN != "" {
		doc.CellFormat(0, 6, tr(fmt.Sprintf("IBAN: %s", data.Refund.IBAN)), "", 1, "L", false, 0, "")
		doc.CellFormat(0, 6, tr(fmt.Sprintf("Titular cont: %s", data.Refund.AccountHolder)), "", 1, "L", false, 0, "")
	} else {
		doc.CellFormat(0, 6, tr("Rambursarea se face pe cardul folosit la plată."), "", 1, "L", false, 0, "")
	}
	doc.Ln(4)

	if err := drawSignature(doc, tr, data.Signature); err != nil {
		return nil, err
	}

	if len(data.QRCode) > 0 {
		doc.RegisterImageOptionsReader("qr", gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(data.QRCode))
		doc.ImageOptions("qr", 160, 250, 35, 35, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}

	doc.SetY(-28)
	doc.SetFont("Helvetica", "I", 9)
	doc.MultiCell(120, 4, tr("Atașați acest document coletului returnat. Rambursarea se face în 14 zile de la primirea coletului."), "", "L", false)

	if doc.Err() {
		return nil, fmt.Errorf("failed to render receipt: %s", doc.Error())
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render receipt: %w", err)
	}
	return buf.Bytes(), nil
}

// drawSignature decodes the captured data-URL signature and places it on the
// page. A missing signature leaves the box empty rather than failing.
func drawSignature(doc *gofpdf.Fpdf, tr func(string) string, signature string) error {
	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(0, 7, tr("Semnătura clientului"), "B", 1, "L", false, 0, "")

	if signature == "" {
		doc.Ln(24)
		return nil
	}

	idx := strings.Index(signature, "base64,")
	if idx < 0 {
		return fmt.Errorf("signature is not a base64 data url")
	}
	raw, err := base64.StdEncoding.DecodeString(signature[idx+len("base64,"):])
	if err != nil {
		return fmt.Errorf("failed to decode signature image: %w", err)
	}

	imageType := "PNG"
	if strings.HasPrefix(signature, "data:image/jpeg") {
		imageType = "JPG"
	}

	doc.RegisterImageOptionsReader("signature", gofpdf.ImageOptions{ImageType: imageType}, bytes.NewReader(raw))
	doc.ImageOptions("signature", doc.GetX()+4, doc.GetY()+2, 60, 24, false, gofpdf.ImageOptions{ImageType: imageType}, 0, "")
	doc.Ln(30)
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
