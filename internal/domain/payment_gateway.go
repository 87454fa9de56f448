package domain

import "time"

// GatewayConfig holds provider credentials and display settings.
type GatewayConfig struct {
	PublicKey   string `json:"publicKey,omitempty"`
	SecretKey   string `json:"secretKey,omitempty"`
	AccessToken string `json:"accessToken,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	WebhookURL  string `json:"webhookUrl,omitempty"`
	QRImageURL  string `json:"qrImageUrl,omitempty"`
}

// PaymentGateway is an admin-configurable payment method.
type PaymentGateway struct {
	ID        string
	Name      string
	LogoURL   string
	IsActive  bool
	Config    GatewayConfig
	UpdatedAt time.Time
}
