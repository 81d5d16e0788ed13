// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"

	"github.com/jaipurgadget/ecommerce-backend/internal/config"
	"github.com/jaipurgadget/ecommerce-backend/internal/domain/order"
)

// Service handles PDF invoice generation
type Service struct {
	config *config.Config
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// GenerateInvoice renders a PDF invoice for an order
func (s *Service) GenerateInvoice(ord *order.Order) (*bytes.Buffer, error) {
	htmlContent, err := s.generateHTML(s.buildInvoiceData(ord))
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

func (s *Service) generateHTML(data invoiceData) (string, error) {
	tmpl := template.Must(template.New("invoice").Parse(invoiceTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// buildInvoiceData prepares the template view. Amounts are formatted in
// Go so the template stays arithmetic free.
func (s *Service) buildInvoiceData(ord *order.Order) invoiceData {
	paymentStatus := "pending"
	if ord.IsPaid {
		paymentStatus = "paid"
	}

	items := make([]invoiceItem, 0, len(ord.Items))
	for _, item := range ord.Items {
		items = append(items, invoiceItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    formatPaise(item.Price, ord.Currency),
			Total:    formatPaise(item.TotalPrice, ord.Currency),
		})
	}

	return invoiceData{
		InvoiceNumber:   fmt.Sprintf("INV-%s", ord.OrderNumber),
		InvoiceDate:     time.Now().Format("January 2, 2006"),
		OrderNumber:     ord.OrderNumber,
		OrderDate:       ord.CreatedAt.Format("January 2, 2006"),
		OrderStatus:     string(ord.Status),
		PaymentMethod:   ord.PaymentMethod,
		PaymentStatus:   paymentStatus,
		CustomerEmail:   ord.Email,
		ShippingAddress: ord.ShippingAddress,
		Items:           items,
		ItemsTotal:      formatPaise(ord.ItemsTotal, ord.Currency),
		ShippingPrice:   formatPaise(ord.ShippingPrice, ord.Currency),
		DiscountAmount:  formatPaise(ord.DiscountAmount, ord.Currency),
		HasDiscount:     ord.DiscountAmount > 0,
		TotalPrice:      formatPaise(ord.TotalPrice, ord.Currency),
		Store: storeInfo{
			Name:    s.config.Store.Name,
			Address: s.config.Store.Address,
			Email:   s.config.Store.SupportEmail,
			Phone:   s.config.Store.SupportPhone,
		},
	}
}

func formatPaise(amount int64, currency string) string {
	symbol := currency
	if currency == "INR" {
		symbol = "Rs."
	}
	return fmt.Sprintf("%s %d.%02d", symbol, amount/100, amount%100)
}

type invoiceData struct {
	InvoiceNumber   string
	InvoiceDate     string
	OrderNumber     string
	OrderDate       string
	OrderStatus     string
	PaymentMethod   string
	PaymentStatus   string
	CustomerEmail   string
	ShippingAddress order.Address
	Items           []invoiceItem
	ItemsTotal      string
	ShippingPrice   string
	DiscountAmount  string
	HasDiscount     bool
	TotalPrice      string
	Store           storeInfo
}

type invoiceItem struct {
	Name     string
	Quantity int
	Price    string
	Total    string
}

type storeInfo struct {
	Name    string
	Address string
	Email   string
	Phone   string
}

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
        .store-info {
            flex: 1;
        }
        .invoice-info {
            text-align: right;
            flex: 1;
        }
        .invoice-title {
            font-size: 28px;
            font-weight: bold;
            color: #2563eb;
            margin-bottom: 10px;
        }
        .invoice-details {
            margin-bottom: 30px;
        }
        .invoice-details table {
            width: 100%;
        }
        .invoice-details td {
            padding: 5px 0;
            vertical-align: top;
        }
        .invoice-details .label {
            font-weight: bold;
            width: 150px;
        }
        .shipping-info {
            margin-bottom: 30px;
        }
        .section-title {
            font-size: 16px;
            font-weight: bold;
            margin-bottom: 10px;
            color: #374151;
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
            width: 100px;
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
            width: 120px;
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
        .status-badge {
            display: inline-block;
            padding: 4px 8px;
            border-radius: 4px;
            font-size: 12px;
            font-weight: bold;
            text-transform: uppercase;
        }
        .status-paid {
            background-color: #dcfce7;
            color: #166534;
        }
        .status-pending {
            background-color: #fef3c7;
            color: #92400e;
        }
    </style>
</head>
<body>
    <div class="header">
        <div class="store-info">
            <h1>{{.Store.Name}}</h1>
            <p>{{.Store.Address}}</p>
            {{if .Store.Phone}}<p>Phone: {{.Store.Phone}}</p>{{end}}
            <p>Email: {{.Store.Email}}</p>
        </div>
        <div class="invoice-info">
            <div class="invoice-title">INVOICE</div>
            <p><strong>Invoice #:</strong> {{.InvoiceNumber}}</p>
            <p><strong>Invoice Date:</strong> {{.InvoiceDate}}</p>
            <p><strong>Order #:</strong> {{.OrderNumber}}</p>
        </div>
    </div>

    <div class="invoice-details">
        <table>
            <tr>
                <td class="label">Order Date:</td>
                <td>{{.OrderDate}}</td>
                <td class="label" style="text-align: right;">Payment Status:</td>
                <td style="text-align: right;">
                    <span class="status-badge {{if eq .PaymentStatus "paid"}}status-paid{{else}}status-pending{{end}}">
                        {{.PaymentStatus}}
                    </span>
                </td>
            </tr>
            <tr>
                <td class="label">Order Status:</td>
                <td>{{.OrderStatus}}</td>
                <td class="label" style="text-align: right;">Payment Method:</td>
                <td style="text-align: right;">{{.PaymentMethod}}</td>
            </tr>
        </table>
    </div>

    <div class="shipping-info">
        <div class="section-title">Ship To:</div>
        <p><strong>{{.ShippingAddress.FullName}}</strong></p>
        <p>{{.ShippingAddress.AddressLine1}}</p>
        {{if .ShippingAddress.AddressLine2}}<p>{{.ShippingAddress.AddressLine2}}</p>{{end}}
        <p>{{.ShippingAddress.City}}, {{.ShippingAddress.State}} {{.ShippingAddress.PostalCode}}</p>
        <p>{{.ShippingAddress.Country}}</p>
        {{if .ShippingAddress.Phone}}<p>Phone: {{.ShippingAddress.Phone}}</p>{{end}}
        <p>Email: {{.CustomerEmail}}</p>
    </div>

    <table class="items-table">
        <thead>
            <tr>
                <th>Item</th>
                <th class="qty-col">Qty</th>
                <th class="price-col">Price</th>
                <th class="total-col">Total</th>
            </tr>
        </thead>
        <tbody>
            {{range .Items}}
            <tr>
                <td><strong>{{.Name}}</strong></td>
                <td class="qty-col">{{.Quantity}}</td>
                <td class="price-col">{{.Price}}</td>
                <td class="total-col">{{.Total}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <div class="totals">
        <table>
            <tr>
                <td class="label">Subtotal:</td>
                <td class="amount">{{.ItemsTotal}}</td>
            </tr>
            {{if .HasDiscount}}
            <tr>
                <td class="label">Discount:</td>
                <td class="amount">-{{.DiscountAmount}}</td>
            </tr>
            {{end}}
            <tr>
                <td class="label">Shipping:</td>
                <td class="amount">{{.ShippingPrice}}</td>
            </tr>
            <tr class="total-row">
                <td class="label">Total:</td>
                <td class="amount">{{.TotalPrice}}</td>
            </tr>
        </table>
    </div>

    <div style="clear: both;"></div>

    <div class="footer">
        <p>Thank you for shopping with us!</p>
        <p>Questions about this invoice? Contact us at {{.Store.Email}}</p>
    </div>
</body>
</html>
`
