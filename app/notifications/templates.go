package notifications

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/storefront/backend/app/models"
	"github.com/storefront/backend/pkg/logger"
)

var funcs = template.FuncMap{
	"money": func(v float64) string {
		return fmt.Sprintf("$%.2f", v)
	},
}

var (
	welcomeTmpl = template.Must(template.New("welcome").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">Welcome, {{.Name}}!</h2>
  <p>Your account has been created. Happy shopping!</p>
  <p style="color: #888; font-size: 12px;">If you did not create this account, please contact support.</p>
</div>`))

	passwordResetTmpl = template.Must(template.New("reset").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">Password Reset Request</h2>
  <p>Hi {{.User.Name}},</p>
  <p>You requested a password reset. Click the button below to choose a new password.
     This link expires in one hour.</p>
  <p style="text-align: center;">
    <a href="{{.ResetURL}}" style="background: #4CAF50; color: #fff; padding: 12px 24px; text-decoration: none; border-radius: 4px;">Reset Password</a>
  </p>
  <p style="color: #888; font-size: 12px;">If you did not request this, you can safely ignore this email.</p>
</div>`))

	passwordChangedTmpl = template.Must(template.New("changed").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">Password Changed</h2>
  <p>Hi {{.Name}},</p>
  <p>Your password was changed successfully. If this wasn't you, reset your password immediately and contact support.</p>
</div>`))

	orderConfirmationTmpl = template.Must(template.New("order").Funcs(funcs).Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">Thank you for your order, {{.User.Name}}!</h2>
  <p>Your order <strong>#{{.Order.Reference}}</strong> has been placed.</p>
  <table style="width: 100%; border-collapse: collapse;">
    <tr style="background: #f5f5f5;">
      <th style="text-align: left; padding: 8px;">Item</th>
      <th style="text-align: right; padding: 8px;">Qty</th>
      <th style="text-align: right; padding: 8px;">Price</th>
    </tr>
    {{range .Order.Items}}
    <tr>
      <td style="padding: 8px; border-bottom: 1px solid #eee;">{{.Name}}</td>
      <td style="text-align: right; padding: 8px; border-bottom: 1px solid #eee;">{{.Quantity}}</td>
      <td style="text-align: right; padding: 8px; border-bottom: 1px solid #eee;">{{money .Price}}</td>
    </tr>
    {{end}}
  </table>
  <p style="text-align: right;">
    Items: {{money .Order.ItemsPrice}}<br>
    Tax: {{money .Order.TaxPrice}}<br>
    Shipping: {{money .Order.ShippingPrice}}<br>
    <strong>Total: {{money .Order.TotalPrice}}</strong>
  </p>
  <p>Shipping to: {{.Order.ShippingAddress.FullName}}, {{.Order.ShippingAddress.Address}},
     {{.Order.ShippingAddress.City}} {{.Order.ShippingAddress.PostalCode}},
     {{.Order.ShippingAddress.Country}}</p>
</div>`))

	orderStatusTmpl = template.Must(template.New("status").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">Order Update</h2>
  <p>Hi {{.User.Name}},</p>
  <p>Your order <strong>#{{.Order.Reference}}</strong> is now
     <strong>{{.Order.Status}}</strong>.</p>
  {{if .Order.IsDelivered}}<p>Thanks for shopping with us!</p>{{end}}
</div>`))
)

func render(t *template.Template, data interface{}) string {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		// Template data is our own structs; execution errors mean a broken
		// template, which Must already guards at parse time.
		logger.L.Error("email template render failed", "template", t.Name(), "error", err)
		return ""
	}
	return buf.String()
}

func renderWelcome(u models.User) string {
	return render(welcomeTmpl, u)
}

func renderPasswordReset(u models.User, resetURL string) string {
	return render(passwordResetTmpl, struct {
		User     models.User
		ResetURL string
	}{u, resetURL})
}

func renderPasswordChanged(u models.User) string {
	return render(passwordChangedTmpl, u)
}

func renderOrderConfirmation(u models.User, o models.Order) string {
	return render(orderConfirmationTmpl, struct {
		User  models.User
		Order models.Order
	}{u, o})
}

func renderOrderStatus(u models.User, o models.Order) string {
	return render(orderStatusTmpl, struct {
		User  models.User
		Order models.Order
	}{u, o})
}
