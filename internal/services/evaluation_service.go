package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"sort"
	"strings"

	"github.com/shabeb-irshed/portal/internal/models"
	pkglogger "github.com/shabeb-irshed/portal/pkg/logger"
)

// SettingsRepository defines the interface for admin-editable settings
type SettingsRepository interface {
	GetEvaluationEmails(ctx context.Context) ([]string, error)
	SetEvaluationEmails(ctx context.Context, emails []string) error
}

// WorkshopRepository defines the interface for workshop lookups
type WorkshopRepository interface {
	GetByID(ctx context.Context, id string) (*models.Workshop, error)
}

// legacyQuestions labels the fixed question ids of the first workshop form, in display order
var legacyQuestions = []struct {
	ID    string
	Label string
}{
	{"q1", "Overall impression"},
	{"q2", "What you liked most"},
	{"q3_clarity", "Instructor: clarity"},
	{"q3_interaction", "Instructor: interaction with attendees"},
	{"q3_delivery", "Instructor: delivery of the idea"},
	{"q4", "Workshop duration"},
	{"q5", "Missing points or suggested additions"},
	{"q7", "Encouragement to volunteer"},
}

var evaluationTemplate = template.Must(template.New("evaluation").Parse(`<div dir="auto" style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; border: 1px solid #7e1d51; padding: 25px; border-radius: 15px; background-color: #f9f9f9;">
  <h2 style="color: #7e1d51; text-align: center; border-bottom: 2px solid #7e1d51; padding-bottom: 10px;">{{.Heading}}</h2>
  <div style="background-color: #fff; padding: 15px; border-radius: 10px; margin-bottom: 20px;">
    <h3 style="color: #7e1d51; margin-top: 0;">Participant</h3>
    <p><b>Full name:</b> {{.Participant.FirstName}} {{.Participant.LastName}}</p>
    <p><b>Phone:</b> <span style="font-family: monospace;">{{.Participant.Phone}}</span></p>
  </div>
  <div style="background-color: #fff; padding: 15px; border-radius: 10px;">
    <h3 style="color: #7e1d51; margin-top: 0;">Responses</h3>
    {{range .Answers}}<div style="margin-bottom: 12px; border-bottom: 1px solid #eee; padding-bottom: 8px;">
      <p style="margin: 0; color: #7e1d51; font-weight: bold;">{{.Question}}</p>
      <p style="margin: 5px 0 0 0;">{{.Answer}}</p>
    </div>{{end}}
  </div>
</div>`))

type evaluationAnswer struct {
	Question string
	Answer   string
}

type evaluationView struct {
	Heading     string
	Participant models.Participant
	Answers     []evaluationAnswer
}

// EvaluationService serves workshop definitions and mails submitted evaluations
type EvaluationService struct {
	workshops         WorkshopRepository
	settings          SettingsRepository
	mailer            Mailer
	defaultRecipients []string
	logger            *slog.Logger
}

// NewEvaluationService creates a new EvaluationService
func NewEvaluationService(workshops WorkshopRepository, settings SettingsRepository, mailer Mailer, defaultRecipients []string, logger *slog.Logger) *EvaluationService {
	return &EvaluationService{
		workshops:         workshops,
		settings:          settings,
		mailer:            mailer,
		defaultRecipients: defaultRecipients,
		logger:            logger,
	}
}

// GetWorkshop returns a workshop by id, or models.ErrNotFound
func (s *EvaluationService) GetWorkshop(ctx context.Context, id string) (*models.Workshop, error) {
	workshop, err := s.workshops.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		s.logger.Error("failed to load workshop", slog.String("workshop_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return workshop, nil
}

// Submit renders the evaluation and emails it to every recipient
func (s *EvaluationService) Submit(ctx context.Context, ev *models.Evaluation) error {
	recipients := s.recipients(ctx)
	if len(recipients) == 0 {
		s.logger.Error("no evaluation recipients configured")
		return models.ErrInternalServer
	}

	body, err := renderEvaluation(ev)
	if err != nil {
		s.logger.Error("failed to render evaluation", slog.Any("error", err))
		return models.ErrInternalServer
	}

	if err := s.mailer.Send(ctx, recipients, evaluationSubject(ev), body); err != nil {
		return fmt.Errorf("%w: %v", models.ErrUpstream, err)
	}

	s.logger.Info("evaluation sent",
		slog.String("workshop", ev.WorkshopTitle),
		slog.String("phone", pkglogger.MaskPhone(ev.Participant.Phone)),
		slog.Int("recipients", len(recipients)))
	return nil
}

// recipients merges the configured defaults with the admin-managed list.
// A settings read failure falls back to the defaults.
func (s *EvaluationService) recipients(ctx context.Context) []string {
	stored, err := s.settings.GetEvaluationEmails(ctx)
	if err != nil {
		s.logger.Warn("failed to load evaluation recipients, using defaults", slog.Any("error", err))
		stored = nil
	}
	return mergeRecipients(s.defaultRecipients, stored)
}

func mergeRecipients(lists ...[]string) []string {
	seen := make(map[string]struct{})
	merged := make([]string, 0)
	for _, list := range lists {
		for _, email := range list {
			email = strings.TrimSpace(email)
			if !strings.Contains(email, "@") {
				continue
			}
			key := strings.ToLower(email)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, email)
		}
	}
	return merged
}

func evaluationSubject(ev *models.Evaluation) string {
	name := ev.Participant.FirstName + " " + ev.Participant.LastName
	if ev.WorkshopTitle != "" {
		return fmt.Sprintf("Workshop evaluation: %s - %s", ev.WorkshopTitle, name)
	}
	return "New workshop evaluation: " + name
}

func renderEvaluation(ev *models.Evaluation) (string, error) {
	view := evaluationView{
		Heading:     ev.WorkshopTitle,
		Participant: ev.Participant,
	}
	if view.Heading == "" {
		view.Heading = "Volunteer workshop evaluation results"
	}

	if ev.IsDynamic {
		questions := make([]string, 0, len(ev.Responses))
		for q := range ev.Responses {
			questions = append(questions, q)
		}
		sort.Strings(questions)
		for _, q := range questions {
			view.Answers = append(view.Answers, evaluationAnswer{Question: q, Answer: answerOrDash(ev.Responses[q])})
		}
	} else {
		for _, q := range legacyQuestions {
			view.Answers = append(view.Answers, evaluationAnswer{Question: q.Label, Answer: answerOrDash(ev.Responses[q.ID])})
		}
	}

	var buf bytes.Buffer
	if err := evaluationTemplate.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func answerOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "---"
	}
	return s
}
