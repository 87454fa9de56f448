package flow

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/coaching-service/internal/domain"
)

// ArtifactKind names one of the hand-off slots between AI tools and the dashboard.
type ArtifactKind int

const (
	ArtifactOptimizedCV ArtifactKind = iota
	ArtifactCallCenterEvaluation
	ArtifactFreelancerEvaluation

	artifactSlots
)

var artifactNames = [artifactSlots]string{"optimized_cv", "call_center_evaluation", "freelancer_evaluation"}

func (k ArtifactKind) String() string {
	if k >= 0 && k < artifactSlots {
		return artifactNames[k]
	}
	return fmt.Sprintf("artifact(%d)", int(k))
}

// Valid reports whether k names a slot.
func (k ArtifactKind) Valid() bool {
	return k >= 0 && k < artifactSlots
}

// ParseArtifactKind resolves a slot name.
func ParseArtifactKind(name string) (ArtifactKind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range artifactNames {
		if n == name {
			return ArtifactKind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownArtifact, name)
}

// Artifact is approved AI tool output waiting to join the dashboard's service list.
type Artifact struct {
	ID          string
	Kind        ArtifactKind
	Name        string
	Status      domain.EngagementStatus
	ServiceType domain.ServiceType
	Text        string
	CreatedAt   time.Time
}

// NewArtifact builds the dashboard entry for approved tool output.
func NewArtifact(kind ArtifactKind, text string, now time.Time) (Artifact, error) {
	a := Artifact{Kind: kind, Text: text, CreatedAt: now}
	switch kind {
	case ArtifactOptimizedCV:
		a.ID = "cv-opt-" + uuid.NewString()
		a.Name = "AI-Optimized CV"
		a.Status = domain.EngagementStatusCVReady
		a.ServiceType = domain.ServiceTypeCV
	case ArtifactCallCenterEvaluation:
		a.ID = "cc-eval-" + uuid.NewString()
		a.Name = "Call Center Profile Evaluation"
		a.Status = domain.EngagementStatusProfileEvaluated
		a.ServiceType = domain.ServiceTypeCallCenter
	case ArtifactFreelancerEvaluation:
		a.ID = "fl-eval-" + uuid.NewString()
		a.Name = "Freelance Profile Evaluation"
		a.Status = domain.EngagementStatusProfileEvaluated
		a.ServiceType = domain.ServiceTypeFreelancer
	default:
		return Artifact{}, fmt.Errorf("%w: %d", ErrUnknownArtifact, int(kind))
	}
	return a, nil
}
