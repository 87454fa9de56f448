package service

import "github.com/spec-kit/coaching-service/internal/domain"

// DefaultCatalog is served when the offering table has not been created yet.
func DefaultCatalog() []domain.Offering {
	return []domain.Offering{
		{
			ID: "all-in-one", Title: "All-in-One Plan - Remote Career", Price: "$17 USD/month", Amount: 17, Currency: "USD",
			Description: "Full access to every AI tool and coaching service to launch your virtual assistant career.",
			Features: []string{
				"AI CV optimization", "Interview preparation", "Active job search", "Freelance profile evaluation",
				"Call center profile evaluation", "Personal career coaching", "Access to every AI tool", "Priority 24/7 support",
			},
			SupportNote: "Includes full support and updates", CTAText: "Start now",
			Type: domain.ServiceTypeAllInOne, Duration: "1 month", Category: "Premium", Active: true,
		},
		{
			ID: "initial-advisory", Title: "Initial Advisory", Price: "$50 USD", Amount: 50, Currency: "USD",
			Description: "Personalized professional orientation session.",
			Features:    []string{"Professional profile analysis", "Strengths and improvement areas", "Personal development plan", "Career recommendations"},
			CTAText:     "Book session", Type: domain.ServiceTypeAdvisory, Duration: "1 hour", Category: "Consulting", Active: true,
		},
		{
			ID: "cv-optimization", Title: "CV Optimization", Price: "$75 USD", Amount: 75, Currency: "USD",
			Description: "Improve your resume to stand out with recruiters.",
			Features:    []string{"Detailed CV analysis", "Content restructuring", "ATS optimization", "Professional design", "2 revisions included"},
			CTAText:     "Fix my CV", Type: domain.ServiceTypeCV, Duration: "2-3 business days", Category: "Documents", Active: true,
		},
		{
			ID: "interview-prep", Title: "Interview Preparation", Price: "$100 USD", Amount: 100, Currency: "USD",
			Description: "Train to land the job you want.",
			Features:    []string{"Mock interviews", "Communication techniques", "Handling difficult questions", "Body language", "Post-interview follow-up"},
			CTAText:     "Start training", Type: domain.ServiceTypeCallCenter, Duration: "1-2 sessions", Category: "Training", Active: true,
		},
		{
			ID: "job-search", Title: "Active Job Search", Price: "$150 USD", Amount: 150, Currency: "USD",
			Description: "A complete strategy to find opportunities.",
			Features:    []string{"Opportunity discovery", "Networking strategy", "LinkedIn optimization", "Application tracking", "Salary negotiation"},
			CTAText:     "Find jobs", Type: domain.ServiceTypeFreelancer, Duration: "2 weeks", Category: "Strategy", Active: true,
		},
	}
}

func findDefaultOffering(id string) (*domain.Offering, bool) {
	for _, o := range DefaultCatalog() {
		if o.ID == id {
			offering := o
			return &offering, true
		}
	}
	return nil, false
}
