// Package notifications renders and delivers the transactional emails the
// workflows trigger: welcome, password reset, order confirmation, order
// status updates. Delivery is asynchronous and best-effort except for the
// password reset mail, whose caller needs the outcome.
package notifications

import (
	"fmt"

	"github.com/storefront/backend/app/models"
	"github.com/storefront/backend/pkg/logger"
	"github.com/storefront/backend/pkg/mail"
	"github.com/storefront/backend/pkg/metrics"
)

// EmailNotifier sends via the configured SMTP transport.
type EmailNotifier struct{}

func NewEmailNotifier() *EmailNotifier {
	return &EmailNotifier{}
}

// send delivers synchronously and records the outcome.
func (n *EmailNotifier) send(to, subject, html string) error {
	err := mail.To(to).Subject(subject).Body(html).Send()
	if err != nil {
		metrics.EmailsSent.WithLabelValues("failure").Inc()
		return err
	}
	metrics.EmailsSent.WithLabelValues("success").Inc()
	return nil
}

// dispatch delivers in the background. Failures are logged; the workflow
// that triggered the email has already committed.
func (n *EmailNotifier) dispatch(kind, to, subject, html string) {
	go func() {
		if err := n.send(to, subject, html); err != nil {
			logger.L.Warn("email delivery failed", "kind", kind, "to", to, "error", err)
		}
	}()
}

func (n *EmailNotifier) Welcome(user models.User) {
	n.dispatch("welcome", user.Email, "Welcome to Storefront", renderWelcome(user))
}

// PasswordReset is synchronous: the auth workflow clears the stored reset
// token when delivery fails.
func (n *EmailNotifier) PasswordReset(user models.User, resetURL string) error {
	return n.send(user.Email, "Password Reset Request", renderPasswordReset(user, resetURL))
}

func (n *EmailNotifier) PasswordChanged(user models.User) {
	n.dispatch("password_changed", user.Email, "Your Password Was Changed", renderPasswordChanged(user))
}

func (n *EmailNotifier) OrderConfirmation(user models.User, order models.Order) {
	subject := fmt.Sprintf("Order Confirmation #%s", order.Reference())
	n.dispatch("order_confirmation", user.Email, subject, renderOrderConfirmation(user, order))
}

func (n *EmailNotifier) OrderStatusUpdate(user models.User, order models.Order) {
	subject := fmt.Sprintf("Order #%s is now %s", order.Reference(), order.Status)
	n.dispatch("order_status", user.Email, subject, renderOrderStatus(user, order))
}
