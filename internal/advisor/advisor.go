package advisor

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/spec-kit/coaching-service/internal/llm"
	apperrors "github.com/spec-kit/coaching-service/pkg/util/errorutil"
)

// Channel names a multi-turn conversation.
type Channel string

const (
	ChannelMentor    Channel = "mentor"
	ChannelInterview Channel = "interview"
)

const opportunityCount = 5

// CallCenterProfile is the input of the call-center evaluation.
type CallCenterProfile struct {
	Experience      string `json:"experience"`
	Languages       string `json:"languages"`
	CVText          string `json:"cvText"`
	ConnectionSpeed string `json:"connectionSpeed"`
}

// FreelancerProfile is the input of the freelancer tools.
type FreelancerProfile struct {
	Niche     string `json:"niche"`
	Portfolio string `json:"portfolio"`
	CV        string `json:"cv"`
}

// JobOpportunity is one generated freelance lead.
type JobOpportunity struct {
	Title       string   `json:"title"`
	Client      string   `json:"client"`
	Budget      string   `json:"budget"`
	Language    string   `json:"language"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// HistoryStore persists chat turns per session and channel.
type HistoryStore interface {
	History(sessionID, channel string) []llm.Message
	Append(sessionID, channel string, msgs ...llm.Message)
	Reset(sessionID, channel string)
	ResetSession(sessionID string)
}

// Service runs the AI tools against a generative text provider.
type Service struct {
	provider llm.Provider
	history  HistoryStore
	logger   *zap.Logger
}

// NewService builds the tool service.
func NewService(provider llm.Provider, history HistoryStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{provider: provider, history: history, logger: logger}
}

// OptimizeCV rewrites a CV for Virtual Assistant roles.
func (s *Service) OptimizeCV(ctx context.Context, cv string) (string, error) {
	if strings.TrimSpace(cv) == "" {
		return "", apperrors.NewValidationError("cv text is required", map[string]any{"field": "cvText"})
	}
	return s.generate(ctx, "optimize_cv", cvPrompt(cv))
}

// EvaluateCallCenter reviews a call-center candidate profile.
func (s *Service) EvaluateCallCenter(ctx context.Context, profile CallCenterProfile) (string, error) {
	if strings.TrimSpace(profile.Experience+profile.Languages+profile.CVText) == "" {
		return "", apperrors.NewValidationError("at least experience, languages or cv text is required", nil)
	}
	return s.generate(ctx, "evaluate_call_center", callCenterPrompt(profile))
}

// EvaluateFreelancer reviews a freelancer positioning profile.
func (s *Service) EvaluateFreelancer(ctx context.Context, profile FreelancerProfile) (string, error) {
	if strings.TrimSpace(profile.Niche+profile.Portfolio+profile.CV) == "" {
		return "", apperrors.NewValidationError("niche, portfolio or cv is required", nil)
	}
	return s.generate(ctx, "evaluate_freelancer", freelancerPrompt(profile))
}

// DraftProposal writes a sales proposal for a job description.
func (s *Service) DraftProposal(ctx context.Context, profile FreelancerProfile, jobDescription string) (string, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return "", apperrors.NewValidationError("job description is required", map[string]any{"field": "jobDescription"})
	}
	return s.generate(ctx, "draft_proposal", proposalPrompt(profile, jobDescription))
}

// FindOpportunities asks for a list of matching freelance leads.
func (s *Service) FindOpportunities(ctx context.Context, profile FreelancerProfile) ([]JobOpportunity, error) {
	raw, err := s.generate(ctx, "find_opportunities", opportunitiesPrompt(profile), llm.WithJSON())
	if err != nil {
		return nil, err
	}
	jobs, err := ParseOpportunities(raw)
	if err != nil {
		s.logger.Warn("unparseable opportunities reply", zap.Error(err), zap.String("reply", raw))
		return nil, apperrors.NewUpstreamError("the assistant returned an unreadable job list", err)
	}
	return jobs, nil
}

// Greeting returns the opening line of a chat channel.
func (s *Service) Greeting(channel Channel) (string, error) {
	switch channel {
	case ChannelMentor:
		return mentorGreeting, nil
	case ChannelInterview:
		return interviewGreeting, nil
	}
	return "", apperrors.NewValidationError("unknown chat channel", map[string]any{"channel": string(channel)})
}

// Chat sends one user turn on channel and records both sides of the exchange.
func (s *Service) Chat(ctx context.Context, sessionID string, channel Channel, message string) (string, error) {
	greeting, err := s.Greeting(channel)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(message) == "" {
		return "", apperrors.NewValidationError("message is required", map[string]any{"field": "message"})
	}

	instruction := mentorInstruction
	if channel == ChannelInterview {
		instruction = interviewerInstruction
	}

	past := s.history.History(sessionID, string(channel))
	turns := make([]llm.Message, 0, len(past)+3)
	turns = append(turns, llm.Message{Role: llm.RoleSystem, Content: instruction})
	if len(past) == 0 {
		turns = append(turns, llm.Message{Role: llm.RoleAssistant, Content: greeting})
	}
	turns = append(turns, past...)
	user := llm.Message{Role: llm.RoleUser, Content: message}
	turns = append(turns, user)

	reply, err := s.provider.Chat(ctx, turns)
	if err != nil {
		s.logger.Error("advisor chat failed", zap.String("channel", string(channel)), zap.Error(err))
		return "", apperrors.NewUpstreamError("the assistant is not available right now", err)
	}

	if len(past) == 0 {
		s.history.Append(sessionID, string(channel), llm.Message{Role: llm.RoleAssistant, Content: greeting})
	}
	s.history.Append(sessionID, string(channel), user, llm.Message{Role: llm.RoleAssistant, Content: reply})
	return reply, nil
}

// ResetChat forgets one conversation.
func (s *Service) ResetChat(sessionID string, channel Channel) {
	s.history.Reset(sessionID, string(channel))
}

// ResetSession forgets every conversation of a session.
func (s *Service) ResetSession(sessionID string) {
	s.history.ResetSession(sessionID)
}

func (s *Service) generate(ctx context.Context, tool, prompt string, opts ...llm.Option) (string, error) {
	out, err := s.provider.Generate(ctx, prompt, opts...)
	if err != nil {
		s.logger.Error("advisor tool failed", zap.String("tool", tool), zap.Error(err))
		return "", apperrors.NewUpstreamError("the assistant is not available right now", err)
	}
	return strings.TrimSpace(out), nil
}

var fence = regexp.MustCompile("(?s)^```(\\w*)?\\s*\\n?(.*?)\\n?\\s*```$")

// ParseOpportunities reads a job list from a model reply, tolerating a
// markdown code fence and a top-level object wrapping the array.
func ParseOpportunities(raw string) ([]JobOpportunity, error) {
	body := strings.TrimSpace(raw)
	if m := fence.FindStringSubmatch(body); m != nil {
		body = strings.TrimSpace(m[2])
	}
	if !gjson.Valid(body) {
		return nil, fmt.Errorf("invalid json")
	}

	list := gjson.Parse(body)
	if list.IsObject() {
		list.ForEach(func(_, value gjson.Result) bool {
			if value.IsArray() {
				list = value
				return false
			}
			return true
		})
	}
	if !list.IsArray() {
		return nil, fmt.Errorf("expected a json array")
	}

	var jobs []JobOpportunity
	for _, item := range list.Array() {
		title := item.Get("title").String()
		if title == "" {
			continue
		}
		job := JobOpportunity{
			Title:       title,
			Client:      item.Get("client").String(),
			Budget:      item.Get("budget").String(),
			Language:    item.Get("language").String(),
			Description: item.Get("description").String(),
		}
		for _, tag := range item.Get("tags").Array() {
			job.Tags = append(job.Tags, tag.String())
		}
		jobs = append(jobs, job)
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("no job entries")
	}
	return jobs, nil
}
