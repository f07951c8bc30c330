package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"storefront_back_end/internal/models"

	"github.com/skip2/go-qrcode"
)

const qrContentID = "order-qr.png"

var orderConfirmationTmpl = template.Must(template.New("order").Funcs(template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"lineTotal": func(it models.OrderItem) string {
		return fmt.Sprintf("%.2f", it.Price*float64(it.Quantity))
	},
}).Parse(`<!DOCTYPE html>
<html lang="fr">
<head><meta charset="UTF-8"><title>Confirmation de commande</title></head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Confirmation de votre commande</h2>
		<p>Bonjour {{.FirstName}},</p>
		<p>Votre paiement a été reçu, la commande <strong>{{.OrderID}}</strong> est en préparation.</p>
		<table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background-color: #f0f0f0;">
					<th style="padding: 10px; text-align: left;">Produit</th>
					<th style="padding: 10px; text-align: left;">Quantité</th>
					<th style="padding: 10px; text-align: left;">Prix unitaire</th>
					<th style="padding: 10px; text-align: left;">Total</th>
				</tr>
			</thead>
			<tbody>
			{{range .Items}}<tr>
				<td style="padding: 10px;">{{.Name}}</td>
				<td style="padding: 10px;">{{.Quantity}}</td>
				<td style="padding: 10px;">{{money .Price}}</td>
				<td style="padding: 10px;">{{lineTotal .}}</td>
			</tr>{{end}}
			</tbody>
			<tfoot>
				<tr><td colspan="3" style="text-align: right;">Sous-total</td><td>{{money .ItemsPrice}}</td></tr>
				<tr><td colspan="3" style="text-align: right;">Taxes</td><td>{{money .TaxPrice}}</td></tr>
				<tr><td colspan="3" style="text-align: right;">Livraison</td><td>{{money .ShippingPrice}}</td></tr>
				<tr><td colspan="3" style="text-align: right; font-weight: bold;">Total</td><td style="font-weight: bold;">{{money .TotalPrice}}</td></tr>
			</tfoot>
		</table>
		<p>Suivez votre commande en scannant ce code ou via <a href="{{.TrackingURL}}">ce lien</a>.</p>
		<img src="cid:{{.QRContentID}}" alt="QR commande" width="160" height="160">
	</div>
</body>
</html>`))

type confirmationView struct {
	FirstName     string
	OrderID       string
	Items         []models.OrderItem
	ItemsPrice    float64
	TaxPrice      float64
	ShippingPrice float64
	TotalPrice    float64
	TrackingURL   string
	QRContentID   string
}

// OrderTrackingURL pointe vers la page commande du front.
func OrderTrackingURL(clientURL, orderID string) string {
	return strings.TrimRight(clientURL, "/") + "/orders/" + orderID
}

// RenderOrderConfirmation renvoie le HTML et le PNG du QR à embarquer.
func RenderOrderConfirmation(order *models.Order, clientURL string) (string, []byte, error) {
	tracking := OrderTrackingURL(clientURL, order.ID.Hex())
	png, err := qrcode.Encode(tracking, qrcode.Medium, 256)
	if err != nil {
		return "", nil, fmt.Errorf("erreur génération QR: %w", err)
	}

	view := confirmationView{
		FirstName:     order.ShippingAddress.FirstName,
		OrderID:       order.ID.Hex(),
		Items:         order.OrderItems,
		ItemsPrice:    order.ItemsPrice,
		TaxPrice:      order.TaxPrice,
		ShippingPrice: order.ShippingPrice,
		TotalPrice:    order.TotalPrice,
		TrackingURL:   tracking,
		QRContentID:   qrContentID,
	}
	var buf bytes.Buffer
	if err := orderConfirmationTmpl.Execute(&buf, view); err != nil {
		return "", nil, err
	}
	return buf.String(), png, nil
}
