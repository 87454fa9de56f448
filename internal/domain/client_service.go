package domain

import "time"

// EngagementStatus tracks the delivery state of a hired service.
type EngagementStatus string

const (
	EngagementStatusPending    EngagementStatus = "PENDING"
	EngagementStatusInProgress EngagementStatus = "IN_PROGRESS"
	EngagementStatusCompleted  EngagementStatus = "COMPLETED"
	EngagementStatusCancelled  EngagementStatus = "CANCELLED"

	// Statuses produced by the AI tools.
	EngagementStatusCVReady          EngagementStatus = "CV_READY"
	EngagementStatusProfileEvaluated EngagementStatus = "PROFILE_EVALUATED"
)

// AdminStatuses are the statuses an administrator may assign.
var AdminStatuses = []EngagementStatus{
	EngagementStatusPending,
	EngagementStatusInProgress,
	EngagementStatusCompleted,
	EngagementStatusCancelled,
}

// ValidAdminStatus reports whether status may be set from the admin panel.
func ValidAdminStatus(status EngagementStatus) bool {
	for _, s := range AdminStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// PaymentStatus tracks whether a hired service has been paid.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
)

// ClientService is a service hired by (or produced for) a client.
type ClientService struct {
	ID                    string
	ClientID              string
	OfferingID            *string
	Name                  string
	ServiceType           ServiceType
	Status                EngagementStatus
	Price                 float64
	PaymentStatus         PaymentStatus
	Notes                 *string
	OptimizedCVText       *string
	CreatedAt             time.Time
	UpdatedAt             time.Time
	EstimatedDeliveryDate *time.Time
	ClientName            string
	ClientEmail           string
}

// UpdateRequest is a client's request for news about a hired service.
type UpdateRequest struct {
	ID         string
	ServiceID  string
	ClientID   string
	UpdateType string
	Message    string
	Status     string
	CreatedAt  time.Time
}
