// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/domain/catalog"
	"github.com/your-org/marketplace-backend/internal/domain/order"
	"github.com/your-org/marketplace-backend/internal/pkg/apperr"
)

// Service handles PDF generation
type Service struct {
	config  *config.Config
	catalog catalog.PriceCatalog
}

// NewService creates a new PDF service
func NewService(cfg *config.Config, cat catalog.PriceCatalog) *Service {
	return &Service{
		config:  cfg,
		catalog: cat,
	}
}

// GenerateInvoice generates a PDF invoice for an order. Line prices
// are the live catalog prices, matching what the order totals were
// last computed from.
func (s *Service) GenerateInvoice(o *order.Order) (*bytes.Buffer, error) {
	data, err := s.buildInvoiceData(o)
	if err != nil {
		return nil, err
	}

	htmlContent, err := s.generateHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	page.Zoom.Set(0.95)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

func (s *Service) buildInvoiceData(o *order.Order) (InvoiceData, error) {
	lines := make([]InvoiceLine, 0, len(o.Items))
	for _, item := range o.Items {
		line := InvoiceLine{
			Name:     fmt.Sprintf("Product #%d", item.ProductID),
			Quantity: item.Quantity,
			Status:   string(item.Status),
		}

		product, err := s.catalog.ResolveProduct(item.ProductID)
		switch {
		case err == nil:
			line.Name = product.Name
			if ps := product.FindPackSize(item.PackSizeID); ps != nil {
				line.Pack = fmt.Sprintf("%g %s", ps.Weight, ps.Unit)
				line.UnitPrice = ps.Price
				if item.Status != order.ItemStatusCancelled {
					line.Total = ps.Price * int64(item.Quantity)
				}
			}
		case errors.Is(err, apperr.ErrNotFound):
			// Product withdrawn since ordering; keep the placeholder.
		default:
			return InvoiceData{}, err
		}

		lines = append(lines, line)
	}

	appliedCoupon := ""
	if o.AppliedCoupon != nil {
		appliedCoupon = *o.AppliedCoupon
	}

	return InvoiceData{
		InvoiceNumber: fmt.Sprintf("INV-%06d", o.ID),
		InvoiceDate:   time.Now().Format("January 2, 2006"),
		Order:         o,
		Lines:         lines,
		AppliedCoupon: appliedCoupon,
		Currency:      s.config.Order.Currency,
		Company: CompanyInfo{
			Name:    s.config.App.CompanyName,
			Address: s.config.App.CompanyAddress,
			Phone:   s.config.App.CompanyPhone,
			Email:   s.config.App.CompanyEmail,
		},
	}, nil
}

// generateHTML generates HTML content from template
func (s *Service) generateHTML(data InvoiceData) (string, error) {
	tmpl := template.Must(template.New("invoice").Funcs(template.FuncMap{
		"money": formatMoney,
	}).Parse(invoiceTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// formatMoney renders minor currency units as a decimal amount
func formatMoney(amount int64) string {
	return fmt.Sprintf("%d.%02d", amount/100, amount%100)
}

// InvoiceData represents the data passed to the invoice template
type InvoiceData struct {
	InvoiceNumber string       `json:"invoice_number"`
	InvoiceDate   string       `json:"invoice_date"`
	Order         *order.Order `json:"order"`
	Lines         []InvoiceLine `json:"lines"`
	AppliedCoupon string       `json:"applied_coupon"`
	Currency      string       `json:"currency"`
	Company       CompanyInfo  `json:"company"`
}

// InvoiceLine is one rendered order item
type InvoiceLine struct {
	Name      string `json:"name"`
	Pack      string `json:"pack"`
	Quantity  int    `json:"quantity"`
	Status    string `json:"status"`
	UnitPrice int64  `json:"unit_price"`
	Total     int64  `json:"total"`
}

// CompanyInfo represents company information
type CompanyInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// Invoice HTML template
const invoiceTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Invoice {{.InvoiceNumber}}</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            margin: 0;
            padding: 20px;
            color: #333;
        }
        .header {
            display: flex;
            justify-content: space-between;
            margin-bottom: 30px;
            border-bottom: 2px solid #eee;
            padding-bottom: 20px;
        }
        .invoice-title {
            font-size: 28px;
            font-weight: bold;
            color: #2563eb;
            margin-bottom: 10px;
        }
        .section-title {
            font-size: 16px;
            font-weight: bold;
            margin-bottom: 10px;
            color: #374151;
        }
        .delivery-info {
            margin-bottom: 30px;
        }
        .items-table {
            width: 100%;
            border-collapse: collapse;
            margin-bottom: 30px;
        }
        .items-table th,
        .items-table td {
            border: 1px solid #ddd;
            padding: 12px 8px;
            text-align: left;
        }
        .items-table th {
            background-color: #f8f9fa;
            font-weight: bold;
        }
        .items-table .qty-col,
        .items-table .price-col,
        .items-table .total-col {
            text-align: right;
            width: 80px;
        }
        .cancelled {
            color: #999;
            text-decoration: line-through;
        }
        .totals {
            float: right;
            width: 300px;
        }
        .totals table {
            width: 100%;
            border-collapse: collapse;
        }
        .totals td {
            padding: 8px;
            border-bottom: 1px solid #eee;
        }
        .totals .label {
            text-align: right;
            font-weight: bold;
        }
        .totals .amount {
            text-align: right;
            width: 100px;
        }
        .total-row {
            font-size: 18px;
            font-weight: bold;
            border-top: 2px solid #333 !important;
        }
        .footer {
            margin-top: 50px;
            padding-top: 20px;
            border-top: 1px solid #eee;
            text-align: center;
            color: #666;
            font-size: 12px;
        }
    </style>
</head>
<body>
    <div class="header">
        <div class="company-info">
            <h1>{{.Company.Name}}</h1>
            <p>{{.Company.Address}}</p>
            <p>Phone: {{.Company.Phone}}</p>
            <p>Email: {{.Company.Email}}</p>
        </div>
        <div class="invoice-info">
            <div class="invoice-title">INVOICE</div>
            <p><strong>Invoice #:</strong> {{.InvoiceNumber}}</p>
            <p><strong>Invoice Date:</strong> {{.InvoiceDate}}</p>
            <p><strong>Order #:</strong> {{.Order.ID}}</p>
            <p><strong>Order Status:</strong> {{.Order.Status}}</p>
        </div>
    </div>

    <div class="delivery-info">
        <div class="section-title">Deliver To:</div>
        <p><strong>{{.Order.DeliveryAddress.FirstName}} {{.Order.DeliveryAddress.LastName}}</strong></p>
        <p>{{.Order.DeliveryAddress.AddressLine1}}</p>
        {{if .Order.DeliveryAddress.AddressLine2}}<p>{{.Order.DeliveryAddress.AddressLine2}}</p>{{end}}
        <p>{{.Order.DeliveryAddress.City}}, {{.Order.DeliveryAddress.State}} {{.Order.DeliveryAddress.PostalCode}}</p>
        <p>{{.Order.DeliveryAddress.Country}}</p>
        {{if .Order.DeliveryAddress.Phone}}<p>Phone: {{.Order.DeliveryAddress.Phone}}</p>{{end}}
    </div>

    <table class="items-table">
        <thead>
            <tr>
                <th>Item</th>
                <th>Pack</th>
                <th class="qty-col">Qty</th>
                <th class="price-col">Price</th>
                <th class="total-col">Total</th>
            </tr>
        </thead>
        <tbody>
            {{range .Lines}}
            <tr{{if eq .Status "cancelled"}} class="cancelled"{{end}}>
                <td>
                    <strong>{{.Name}}</strong>
                    {{if eq .Status "cancelled"}}<br><small>cancelled</small>{{end}}
                </td>
                <td>{{.Pack}}</td>
                <td class="qty-col">{{.Quantity}}</td>
                <td class="price-col">{{money .UnitPrice}}</td>
                <td class="total-col">{{money .Total}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <div class="totals">
        <table>
            <tr>
                <td class="label">Platform Fee:</td>
                <td class="amount">{{money .Order.PlatformFee}}</td>
            </tr>
            <tr>
                <td class="label">Total:</td>
                <td class="amount">{{money .Order.TotalAmount}}</td>
            </tr>
            {{if gt .Order.Discount 0}}
            <tr>
                <td class="label">Discount{{if .AppliedCoupon}} ({{.AppliedCoupon}}){{end}}:</td>
                <td class="amount">-{{money .Order.Discount}}</td>
            </tr>
            {{end}}
            <tr class="total-row">
                <td class="label">Amount Due ({{.Currency}}):</td>
                <td class="amount">{{money .Order.FinalAmount}}</td>
            </tr>
        </table>
    </div>

    <div style="clear: both;"></div>

    <div class="footer">
        <p>Thank you for shopping with us!</p>
        <p>Questions about this invoice? Contact {{.Company.Email}} or {{.Company.Phone}}</p>
    </div>
</body>
</html>
`
