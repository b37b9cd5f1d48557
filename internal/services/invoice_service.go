package services

import (
	"bytes"
	"context"
	"delivery-pricing-service/internal/domain"
	"delivery-pricing-service/internal/format"
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"
)

// SettingsSource supplies the current settings record.
type SettingsSource interface {
	Current() domain.Settings
}

// InvoiceService renders PDF invoices for recorded orders.
type InvoiceService struct {
	orders   *OrderService
	settings SettingsSource
	loc      *time.Location
}

func NewInvoiceService(orders *OrderService, settings SettingsSource, loc *time.Location) *InvoiceService {
	if loc == nil {
		loc = time.UTC
	}
	return &InvoiceService{orders: orders, settings: settings, loc: loc}
}

// Invoice returns the PDF bytes and a download filename for order id.
func (s *InvoiceService) Invoice(ctx context.Context, id string) ([]byte, string, error) {
	o, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, "", err
	}

	b, err := renderInvoice(o, s.settings.Current(), s.loc)
	if err != nil {
		return nil, "", fmt.Errorf("invoice %s: %w", id, err)
	}
	return b, fmt.Sprintf("INVOICE_%s.pdf", safeFilenamePart(o.ID)), nil
}

// Core PDF fonts are Latin-1 only, so every string goes through format.ASCII.
func renderInvoice(o *domain.Order, company domain.Settings, loc *time.Location) ([]byte, error) {
	a := format.ASCII

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+o.ID, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 9, a(company.CompanyName))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 5, a(company.CompanyAddress))
	pdf.Ln(5)
	pdf.Cell(0, 5, a(company.CompanyPhone+"  "+company.CompanyEmail))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "HOA DON GIAO HANG")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	lines := []string{
		"Ma don      : " + o.ID,
		"Ngay tao    : " + o.CreatedAt.In(loc).Format("2006-01-02 15:04"),
		"Trang thai  : " + string(o.Status),
	}
	if o.TripID != "" {
		lines = append(lines, "Chuyen      : "+o.TripID)
	}
	for _, l := range lines {
		pdf.Cell(0, 6, a(l))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Nguoi gui / Nguoi nhan")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, a(fmt.Sprintf("Gui : %s (%s)\n     %s", o.SenderName, o.SenderPhone, o.PickupAddress)), "", "", false)
	pdf.MultiCell(0, 6, a(fmt.Sprintf("Nhan: %s (%s)\n     %s", o.RecipientName, o.RecipientPhone, o.DestinationAddress)), "", "", false)
	pdf.Ln(4)

	dist := format.Km(o.DistanceKm)
	if o.DistanceEstimated {
		dist += " (uoc tinh)"
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Chi tiet")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	rows := [][2]string{
		{"Quang duong", dist},
		{"Phi giao hang", format.VND(o.ShippingFee)},
		{"Thu ho (COD)", format.VND(o.CODAmount)},
	}
	for _, r := range rows {
		pdf.CellFormat(70, 7, a(r[0]), "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 7, a(r[1]), "1", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(70, 8, "Tong cong", "1", 0, "L", false, 0, "")
	pdf.CellFormat(60, 8, a(format.VND(o.TotalAmount())), "1", 1, "R", false, 0, "")

	if o.Notes != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 6, a("Ghi chu: "+o.Notes), "", "", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func safeFilenamePart(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	if len(out) == 0 {
		return "order"
	}
	return string(out)
}
