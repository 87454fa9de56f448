package domain

import "time"

// ServiceType groups offerings and hired services by coaching line.
type ServiceType string

const (
	ServiceTypeAllInOne   ServiceType = "ALL_IN_ONE"
	ServiceTypeCV         ServiceType = "CV"
	ServiceTypeAdvisory   ServiceType = "ADVISORY"
	ServiceTypeCallCenter ServiceType = "CALL_CENTER"
	ServiceTypeFreelancer ServiceType = "FREELANCER"
)

// Offering is a purchasable service plan from the catalog.
type Offering struct {
	ID          string
	Title       string
	Price       string
	Amount      float64
	Currency    string
	Description string
	Features    []string
	SupportNote string
	CTAText     string
	Type        ServiceType
	Duration    string
	Category    string
	Active      bool
	UpdatedAt   time.Time
}
