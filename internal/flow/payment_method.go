package flow

// PaymentMethod is the checkout option picked in the registration form.
type PaymentMethod string

const (
	PaymentStripe      PaymentMethod = "Stripe"
	PaymentNequi       PaymentMethod = "Nequi"
	PaymentDaviPlata   PaymentMethod = "DaviPlata"
	PaymentQRCode      PaymentMethod = "QR Code"
	PaymentMercadoPago PaymentMethod = "MercadoPago"
)

// SupportedPaymentMethods lists methods in display order.
var SupportedPaymentMethods = []PaymentMethod{
	PaymentStripe,
	PaymentMercadoPago,
	PaymentNequi,
	PaymentDaviPlata,
	PaymentQRCode,
}

// Modal returns the checkout modal that handles m.
func (m PaymentMethod) Modal() (ModalKind, bool) {
	switch m {
	case PaymentStripe:
		return ModalStripePayment, true
	case PaymentNequi, PaymentDaviPlata, PaymentQRCode:
		return ModalQRPayment, true
	case PaymentMercadoPago:
		return ModalMercadoPagoRedirect, true
	}
	return ModalNone, false
}

// SupportedPaymentMethodNames returns the method names as strings.
func SupportedPaymentMethodNames() []string {
	names := make([]string, len(SupportedPaymentMethods))
	for i, m := range SupportedPaymentMethods {
		names[i] = string(m)
	}
	return names
}
