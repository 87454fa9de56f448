package flow

import (
	"fmt"
	"strings"
)

// ModalKind identifies the overlay currently shown to the visitor.
type ModalKind int

const (
	ModalNone ModalKind = iota
	ModalAuth
	ModalCVHelper
	ModalAdvisor
	ModalCallCenterAdvisor
	ModalFreelancerAdvisor
	ModalRequestServiceUpdate
	ModalStripePayment
	ModalQRPayment
	ModalMercadoPagoRedirect
	ModalEditServicePlan
	ModalConfigurePaymentGateway
)

var modalNames = map[ModalKind]string{
	ModalNone:                    "none",
	ModalAuth:                    "auth",
	ModalCVHelper:                "cv_helper",
	ModalAdvisor:                 "advisor",
	ModalCallCenterAdvisor:       "call_center_advisor",
	ModalFreelancerAdvisor:       "freelancer_advisor",
	ModalRequestServiceUpdate:    "request_service_update",
	ModalStripePayment:           "stripe_payment",
	ModalQRPayment:               "qr_payment",
	ModalMercadoPagoRedirect:     "mercadopago_redirect",
	ModalEditServicePlan:         "edit_service_plan",
	ModalConfigurePaymentGateway: "configure_payment_gateway",
}

func (k ModalKind) String() string {
	if name, ok := modalNames[k]; ok {
		return name
	}
	return fmt.Sprintf("modal(%d)", int(k))
}

// Valid reports whether k is one of the declared kinds.
func (k ModalKind) Valid() bool {
	_, ok := modalNames[k]
	return ok
}

// IsAdvisor reports whether k is one of the AI tool modals.
func (k ModalKind) IsAdvisor() bool {
	switch k {
	case ModalCVHelper, ModalAdvisor, ModalCallCenterAdvisor, ModalFreelancerAdvisor:
		return true
	}
	return false
}

// IsPayment reports whether k is one of the checkout modals.
func (k ModalKind) IsPayment() bool {
	switch k {
	case ModalStripePayment, ModalQRPayment, ModalMercadoPagoRedirect:
		return true
	}
	return false
}

// keepsPurchase reports whether closing k leaves a pending purchase in place.
func (k ModalKind) keepsPurchase() bool {
	return k == ModalAuth || k.IsAdvisor()
}

// MarshalText encodes the kind by name.
func (k ModalKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *ModalKind) UnmarshalText(text []byte) error {
	parsed, err := ParseModalKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseModalKind resolves a kind name.
func ParseModalKind(name string) (ModalKind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for kind, n := range modalNames {
		if n == name {
			return kind, nil
		}
	}
	return ModalNone, fmt.Errorf("%w: %q", ErrUnknownModal, name)
}

// View is the top-level page shown by the client application.
type View int

const (
	ViewMain View = iota
	ViewDashboard
	ViewAdmin
)

func (v View) String() string {
	switch v {
	case ViewMain:
		return "main"
	case ViewDashboard:
		return "dashboard"
	case ViewAdmin:
		return "admin"
	}
	return fmt.Sprintf("view(%d)", int(v))
}

// MarshalText encodes the view by name.
func (v View) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText decodes a view name.
func (v *View) UnmarshalText(text []byte) error {
	parsed, err := ParseView(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ParseView resolves a view name.
func ParseView(name string) (View, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "main":
		return ViewMain, nil
	case "dashboard":
		return ViewDashboard, nil
	case "admin":
		return ViewAdmin, nil
	}
	return ViewMain, fmt.Errorf("%w: %q", ErrUnknownView, name)
}
