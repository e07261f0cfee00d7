package adapter

import (
	"context"

	checkoutapp "github.com/deezprints/deezprints/internal/checkout/app"
	checkoutdomain "github.com/deezprints/deezprints/internal/checkout/domain"
	"github.com/deezprints/deezprints/internal/notification"
)

type MailNotifier struct {
	mailer *notification.Mailer
}

func NewMailNotifier(mailer *notification.Mailer) *MailNotifier {
	return &MailNotifier{mailer: mailer}
}

func (n *MailNotifier) OrderConfirmation(ctx context.Context, customer checkoutdomain.Customer, paymentMethod string, conf checkoutapp.OrderConfirmation, lines []checkoutdomain.QuoteLine) error {
	emailLines := make([]notification.OrderEmailLine, 0, len(lines))
	for _, line := range lines {
		emailLines = append(emailLines, notification.OrderEmailLine{
			Title:        line.Title,
			SelectedSize: line.SelectedSize,
			Quantity:     line.Quantity,
			LineTotal:    line.LineTotal,
		})
	}

	return n.mailer.SendOrderConfirmation(ctx, notification.OrderEmail{
		Reference:     conf.Reference,
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		CustomerPhone: customer.Phone,
		PaymentMethod: paymentMethod,
		Total:         conf.Total,
		Lines:         emailLines,
	})
}
