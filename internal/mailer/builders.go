package mailer

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"velvetvogue-be/internal/order"
)

const (
	TypeOrderConfirmation    = "order_confirmation"
	TypeAdminNotification    = "admin_notification"
	TypeDeliveryConfirmation = "delivery_confirmation"
)

func itemRows(items []order.OrderItem) string {
	var b strings.Builder
	for _, it := range items {
		fmt.Fprintf(&b, `<tr>
			<td style="padding:8px;border-bottom:1px solid #eee;">%s</td>
			<td style="padding:8px;border-bottom:1px solid #eee;text-align:center;">%s</td>
			<td style="padding:8px;border-bottom:1px solid #eee;text-align:center;">%d</td>
			<td style="padding:8px;border-bottom:1px solid #eee;text-align:right;">$%s</td>
		</tr>`, it.ProductName, it.Size, it.Quantity, it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))).StringFixed(2))
	}
	return b.String()
}

// BuildOrderConfirmation renders the customer-facing receipt.
func BuildOrderConfirmation(o *order.Order) (subject, html string) {
	subject = fmt.Sprintf("Order Confirmation - %s", o.Number())
	html = fmt.Sprintf(`<html><body style="font-family:Arial,sans-serif;color:#333;">
	<div style="max-width:600px;margin:0 auto;">
		<h1 style="color:#1a1a2e;">Velvet Vogue</h1>
		<h2>Thank you for your order, %s!</h2>
		<p>Your order <strong>%s</strong> has been received.</p>
		<table style="width:100%%;border-collapse:collapse;">
			<tr style="background:#1a1a2e;color:#fff;">
				<th style="padding:8px;text-align:left;">Item</th>
				<th style="padding:8px;">Size</th>
				<th style="padding:8px;">Qty</th>
				<th style="padding:8px;text-align:right;">Total</th>
			</tr>
			%s
		</table>
		<p style="text-align:right;">Subtotal: $%s<br>
		Delivery: $%s<br>
		<strong>Total: $%s</strong></p>
		<p>Payment method: %s<br>Delivery address: %s</p>
		<p>We will email you again once your order is on its way.</p>
	</div>
</body></html>`,
		o.CustomerName, o.Number(), itemRows(o.Items),
		o.Subtotal.StringFixed(2), o.DeliveryFee.StringFixed(2), o.TotalAmount.StringFixed(2),
		o.PaymentMethod, o.ShippingAddress)
	return subject, html
}

// BuildAdminNotification renders the new-order alert for staff, linking back
// to the admin dashboard.
func BuildAdminNotification(o *order.Order, siteURL string) (subject, html string) {
	subject = fmt.Sprintf("New Order Received - %s", o.Number())
	html = fmt.Sprintf(`<html><body style="font-family:Arial,sans-serif;color:#333;">
	<div style="max-width:600px;margin:0 auto;">
		<h2>New order %s</h2>
		<p><strong>Customer:</strong> %s (%s, %s)<br>
		<strong>Address:</strong> %s<br>
		<strong>Payment:</strong> %s (%s)<br>
		<strong>Total:</strong> $%s</p>
		<table style="width:100%%;border-collapse:collapse;">
			<tr style="background:#1a1a2e;color:#fff;">
				<th style="padding:8px;text-align:left;">Item</th>
				<th style="padding:8px;">Size</th>
				<th style="padding:8px;">Qty</th>
				<th style="padding:8px;text-align:right;">Total</th>
			</tr>
			%s
		</table>
		<p><a href="%s/admin/orders/%d">Open order in dashboard</a></p>
	</div>
</body></html>`,
		o.Number(), o.CustomerName, o.CustomerEmail, o.CustomerPhone,
		o.ShippingAddress, o.PaymentMethod, o.PaymentStatus,
		o.TotalAmount.StringFixed(2), itemRows(o.Items),
		strings.TrimRight(siteURL, "/"), o.ID)
	return subject, html
}

// BuildDeliveryConfirmation renders the delivered notice.
func BuildDeliveryConfirmation(o *order.Order) (subject, html string) {
	subject = fmt.Sprintf("Your Order Has Been Delivered - %s", o.Number())
	html = fmt.Sprintf(`<html><body style="font-family:Arial,sans-serif;color:#333;">
	<div style="max-width:600px;margin:0 auto;">
		<h1 style="color:#1a1a2e;">Velvet Vogue</h1>
		<h2>Your order has arrived, %s!</h2>
		<p>Order <strong>%s</strong> was delivered to:</p>
		<p>%s</p>
		<p>We hope you love it. See you again soon.</p>
	</div>
</body></html>`,
		o.CustomerName, o.Number(), o.ShippingAddress)
	return subject, html
}
