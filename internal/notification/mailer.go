package notification

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// OrderEmail carries everything the confirmation template needs.
type OrderEmail struct {
	Reference     string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	PaymentMethod string
	Total         int64
	Lines         []OrderEmailLine
}

type OrderEmailLine struct {
	Title        string
	SelectedSize string
	Quantity     int64
	LineTotal    int64
}

// Mailer sends transactional email through SendGrid.
type Mailer struct {
	apiKey string
	from   string
	log    *slog.Logger
}

func NewMailer(apiKey, from string, log *slog.Logger) *Mailer {
	if log == nil {
		log = slog.Default()
	}
	return &Mailer{apiKey: apiKey, from: from, log: log}
}

func (m *Mailer) SendOrderConfirmation(ctx context.Context, order OrderEmail) error {
	if m.apiKey == "" {
		return fmt.Errorf("sendgrid api key is empty")
	}
	if order.CustomerEmail == "" {
		return fmt.Errorf("to address is empty")
	}

	subject := fmt.Sprintf("Order Confirmation #%s", order.Reference)
	htmlBody := OrderConfirmationHTML(order)

	message := mail.NewSingleEmail(
		mail.NewEmail("Deez Prints", m.from),
		subject,
		mail.NewEmail(order.CustomerName, order.CustomerEmail),
		orderConfirmationText(order),
		htmlBody,
	)

	client := sendgrid.NewSendClient(m.apiKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d, body=%s", response.StatusCode, response.Body)
	}

	m.log.Info("order confirmation sent", "order", order.Reference, "to", order.CustomerEmail, "status", response.StatusCode)
	return nil
}

// OrderConfirmationHTML renders the confirmation body. Amounts are
// integer rupees.
func OrderConfirmationHTML(order OrderEmail) string {
	var items strings.Builder
	for _, line := range order.Lines {
		size := ""
		if line.SelectedSize != "" {
			size = fmt.Sprintf(" (%s)", html.EscapeString(line.SelectedSize))
		}
		fmt.Fprintf(&items, "<li>%dx %s%s - Rs. %d</li>",
			line.Quantity, html.EscapeString(line.Title), size, line.LineTotal)
	}

	var payment string
	switch order.PaymentMethod {
	case "bank":
		payment = fmt.Sprintf("<p><strong>Bank Transfer:</strong> please transfer <strong>Rs. %d</strong> and send the receipt to our WhatsApp.</p>", order.Total)
	default:
		payment = "<p><strong>Cash on Delivery:</strong> please confirm your order details on WhatsApp.</p>"
	}

	return fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
<h1>Thanks for your order, %s!</h1>
<p>Your order <strong>#%s</strong> has been received.</p>
<div style="background-color: #f4f4f5; padding: 20px; border-radius: 8px;">
<h2 style="margin-top: 0;">Total: Rs. %d</h2>
<h3>Items:</h3>
<ul>%s</ul>
</div>
%s
<p><strong>Contact Info Provided:</strong><br/>Phone: %s<br/>Email: %s</p>
</div>`,
		html.EscapeString(order.CustomerName),
		html.EscapeString(order.Reference),
		order.Total,
		items.String(),
		payment,
		html.EscapeString(order.CustomerPhone),
		html.EscapeString(order.CustomerEmail),
	)
}

func orderConfirmationText(order OrderEmail) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Thanks for your order, %s!\n", order.CustomerName)
	fmt.Fprintf(&b, "Order #%s has been received. Total: Rs. %d\n\n", order.Reference, order.Total)
	for _, line := range order.Lines {
		size := ""
		if line.SelectedSize != "" {
			size = fmt.Sprintf(" (%s)", line.SelectedSize)
		}
		fmt.Fprintf(&b, "%dx %s%s - Rs. %d\n", line.Quantity, line.Title, size, line.LineTotal)
	}
	return b.String()
}
