// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/domain/pos"
)

// Service handles PDF generation
type Service struct {
	config *config.Config
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// GenerateReceipt generates a PDF receipt for a settled order
func (s *Service) GenerateReceipt(order *pos.Order) (*bytes.Buffer, error) {
	data := ReceiptData{
		Order:    order,
		Date:     order.CreatedAt.Format("January 2, 2006 3:04 PM"),
		Currency: order.Currency,
		Store: StoreInfo{
			Name:    s.config.Store.Name,
			Address: s.config.Store.Address,
			Phone:   s.config.Store.Phone,
			Email:   s.config.Store.Email,
		},
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
	pdfg.Grayscale.Set(true)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.Zoom.Set(0.95)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// generateHTML generates HTML content from template
func (s *Service) generateHTML(data ReceiptData) (string, error) {
	tmpl := template.Must(template.New("receipt").Parse(receiptTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// ReceiptData represents the data passed to the receipt template
type ReceiptData struct {
	Order    *pos.Order `json:"order"`
	Date     string     `json:"date"`
	Currency string     `json:"currency"`
	Store    StoreInfo  `json:"store"`
}

// StoreInfo represents store information printed on the receipt
type StoreInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// Receipt HTML template
const receiptTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Receipt {{.Order.OrderNumber}}</title>
    <style>
        body {
            font-family: 'Courier New', monospace;
            margin: 0;
            padding: 20px;
            color: #111;
            font-size: 12px;
        }
        .store {
            text-align: center;
            margin-bottom: 12px;
        }
        .store-name {
            font-size: 16px;
            font-weight: bold;
        }
        .meta {
            border-top: 1px dashed #111;
            border-bottom: 1px dashed #111;
            padding: 6px 0;
            margin-bottom: 8px;
        }
        table {
            width: 100%;
            border-collapse: collapse;
        }
        th {
            text-align: left;
            border-bottom: 1px solid #111;
            padding: 2px 0;
        }
        td {
            padding: 2px 0;
            vertical-align: top;
        }
        .amount {
            text-align: right;
        }
        .totals {
            margin-top: 8px;
            border-top: 1px dashed #111;
            padding-top: 6px;
        }
        .totals td:first-child {
            width: 70%;
        }
        .grand {
            font-weight: bold;
            font-size: 14px;
        }
        .footer {
            margin-top: 16px;
            text-align: center;
        }
        .status {
            text-align: center;
            font-weight: bold;
            margin-top: 8px;
            text-transform: uppercase;
        }
    </style>
</head>
<body>
    <div class="store">
        <div class="store-name">{{.Store.Name}}</div>
        <div>{{.Store.Address}}</div>
        {{if .Store.Phone}}<div>{{.Store.Phone}}</div>{{end}}
    </div>

    <div class="meta">
        <div>Receipt: {{.Order.OrderNumber}}</div>
        <div>Date: {{.Date}}</div>
        {{if .Order.CustomerName}}<div>Customer: {{.Order.CustomerName}}</div>{{end}}
    </div>

    <table>
        <tr><th>Item</th><th>Qty</th><th class="amount">Total</th></tr>
        {{range .Order.Lines}}
        <tr>
            <td>{{.Name}}<br><small>{{.SKU}} @ {{.UnitPrice}}{{if .DiscountPercent}} ({{.DiscountPercent}}% off){{end}}</small></td>
            <td>{{.Quantity}}</td>
            <td class="amount">{{.LineTotal}}</td>
        </tr>
        {{end}}
    </table>

    <table class="totals">
        <tr><td>Subtotal</td><td class="amount">{{.Order.Subtotal}}</td></tr>
        {{if .Order.Discount}}<tr><td>Discount</td><td class="amount">-{{.Order.Discount}}</td></tr>{{end}}
        <tr><td>Tax</td><td class="amount">{{.Order.Tax}}</td></tr>
        <tr class="grand"><td>Total ({{.Currency}})</td><td class="amount">{{.Order.Total}}</td></tr>
        <tr><td>Paid ({{.Order.PaymentMethod}})</td><td class="amount">{{.Order.AmountPaid}}</td></tr>
        <tr><td>Change</td><td class="amount">{{.Order.ChangeDue}}</td></tr>
    </table>

    {{if ne .Order.Status "completed"}}<div class="status">{{.Order.Status}}</div>{{end}}

    <div class="footer">Thank you for your purchase!</div>
</body>
</html>
`
