package checkout

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/selet/storefront/internal/models"
)

// OrderDetails is everything the confirmation message needs. The caller
// supplies the order ID and the computed total, so the same input always
// yields the same link.
type OrderDetails struct {
	OrderID       string
	Customer      models.CustomerData
	Items         []models.CartItem
	Total         decimal.Decimal
	PaymentMethod string
}

var paymentLabels = map[string]string{
	models.PaymentCard:         "Cartão de Crédito/Débito",
	models.PaymentMultibanco:   "Referência Multibanco",
	models.PaymentMBWay:        "MB WAY",
	models.PaymentWireTransfer: "Transferência Bancária",
}

// PaymentLabel returns the customer-facing name of a payment method,
// falling back to the raw code for anything unknown.
func PaymentLabel(method string) string {
	if label, ok := paymentLabels[method]; ok {
		return label
	}
	return method
}

// Message renders the order as the plain-text confirmation sent to the
// seller. Pure formatting, no I/O.
func Message(d OrderDetails) string {
	var products strings.Builder
	for i, item := range d.Items {
		if i > 0 {
			products.WriteString("\n")
		}
		fmt.Fprintf(&products, "• %s (x%d) — €%s", item.Product.Name, item.Quantity, item.Subtotal().StringFixed(2))
	}

	customer := d.Customer
	companyLine := ""
	if customer.Company != "" {
		companyLine = fmt.Sprintf("Empresa: %s\n", customer.Company)
	}
	nifLine := ""
	if customer.NIF != "" {
		nifLine = fmt.Sprintf("NIF: %s\n", customer.NIF)
	}
	notesBlock := ""
	if customer.Notes != "" {
		notesBlock = fmt.Sprintf("\n📝 *NOTAS:*\n%s", customer.Notes)
	}

	return fmt.Sprintf(`🛒 *NOVA ENCOMENDA %s*
━━━━━━━━━━━━━━━━━━━━━━

👤 *CLIENTE:*
Nome: %s %s
%sTelefone: %s
Email: %s
%s
📍 *MORADA DE ENTREGA:*
%s
%s %s
%s, %s

📦 *PRODUTOS:*
%s

━━━━━━━━━━━━━━━━━━━━━━
💰 *TOTAL:* €%s
💳 *PAGAMENTO:* %s
━━━━━━━━━━━━━━━━━━━━━━%s

_Enviado via Luxury Selet_`,
		d.OrderID,
		customer.FirstName, customer.LastName,
		companyLine, customer.Phone,
		customer.Email,
		nifLine,
		customer.Address,
		customer.PostalCode, customer.Locality,
		customer.District, customer.Country,
		products.String(),
		d.Total.StringFixed(2),
		PaymentLabel(d.PaymentMethod),
		notesBlock,
	)
}

// WhatsAppLink builds the percent-encoded deep link that opens a chat with
// the seller, pre-filled with the rendered message. Link construction only;
// opening it is the caller's business.
func WhatsAppLink(number string, d OrderDetails) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", number, url.QueryEscape(Message(d)))
}
