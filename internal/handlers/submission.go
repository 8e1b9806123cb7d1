package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/shabeb-irshed/portal/internal/models"
	pkghttp "github.com/shabeb-irshed/portal/pkg/http"
)

// SubmissionServiceInterface defines the interface for the public form pipeline
type SubmissionServiceInterface interface {
	Submit(ctx context.Context, sub *models.Submission) (*models.SubmissionResult, error)
}

// SubmissionHandler handles POST /api/submit
type SubmissionHandler struct {
	service  SubmissionServiceInterface
	ipConfig *pkghttp.IPConfig
}

// NewSubmissionHandler creates a new SubmissionHandler
func NewSubmissionHandler(service SubmissionServiceInterface, ipConfig *pkghttp.IPConfig) *SubmissionHandler {
	return &SubmissionHandler{service: service, ipConfig: ipConfig}
}

// SubmitRequest is the envelope sent by the registration and contact forms
type SubmitRequest struct {
	Data json.RawMessage `json:"data"`
	UID  string          `json:"uid"`
}

type submissionType struct {
	Type string `json:"type"`
}

// RegisterData is the registration form payload
type RegisterData struct {
	FullName                    string `json:"fullName" validate:"required,max=200"`
	BirthDate                   string `json:"birthDate" validate:"required,max=32"`
	BirthPlace                  string `json:"birthPlace" validate:"max=200"`
	Address                     string `json:"address" validate:"max=500"`
	Wilaya                      string `json:"wilaya" validate:"required,max=100"`
	Phone                       string `json:"phone" validate:"required,max=32"`
	FacebookLink                string `json:"facebookLink" validate:"omitempty,url,max=500"`
	EducationLevel              string `json:"educationLevel" validate:"max=100"`
	Specialization              string `json:"specialization" validate:"max=200"`
	HasVolunteeredBefore        string `json:"hasVolunteeredBefore" validate:"omitempty,oneof=yes no"`
	PreviousVolunteeringDetails string `json:"previousVolunteeringDetails" validate:"max=2000"`
	SelectedCell                string `json:"selectedCell" validate:"max=200"`
	AgreesToFee                 bool   `json:"agreesToFee"`
}

// ContactData is the contact form payload
type ContactData struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Subject string `json:"subject" validate:"max=300"`
	Message string `json:"message" validate:"required,max=5000"`
}

// Submit handles POST /api/submit
// @Summary Submit a registration or contact form
// @Accept json
// @Param Idempotency-Key header string true "Client-generated key, stable across retries"
// @Param request body SubmitRequest true "Submission envelope"
// @Produce json
// @Success 200 {object} models.SubmissionResult
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/submit [post]
func (h *SubmissionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	key := pkghttp.IdempotencyKey(r)
	if key == "" || len(key) > 255 {
		pkghttp.WriteBadRequest(w, "Missing or invalid Idempotency-Key header")
		return
	}

	var req SubmitRequest
	r.Body = http.MaxBytesReader(w, r.Body, 64<<10)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	sub, err := buildSubmission(req)
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}
	sub.IdempotencyKey = key
	sub.SourceAddress = pkghttp.ExtractClientIP(r, h.ipConfig)

	result, err := h.service.Submit(r.Context(), sub)
	if err != nil {
		if writeCommonError(w, err) {
			return
		}
		if errors.Is(err, models.ErrSubmissionInProgress) {
			pkghttp.WriteConflict(w, "This submission is already being processed")
			return
		}
		pkghttp.WriteInternalError(w, "Failed to process the submission")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, result)
}

func buildSubmission(req SubmitRequest) (*models.Submission, error) {
	if len(req.Data) == 0 {
		return nil, errors.New("incomplete request data")
	}

	var kind submissionType
	if err := json.Unmarshal(req.Data, &kind); err != nil || kind.Type == "" {
		return nil, errors.New("incomplete request data")
	}

	switch kind.Type {
	case models.SubmissionRegister:
		var data RegisterData
		if err := json.Unmarshal(req.Data, &data); err != nil {
			return nil, errors.New("invalid registration data")
		}
		trimRegister(&data)
		if err := ValidateRequest(data); err != nil {
			return nil, err
		}
		return &models.Submission{
			Type: models.SubmissionRegister,
			Registration: &models.Registration{
				UID:                         strings.TrimSpace(req.UID),
				FullName:                    data.FullName,
				BirthDate:                   data.BirthDate,
				BirthPlace:                  data.BirthPlace,
				Address:                     data.Address,
				Wilaya:                      data.Wilaya,
				Phone:                       data.Phone,
				FacebookLink:                data.FacebookLink,
				EducationLevel:              data.EducationLevel,
				Specialization:              data.Specialization,
				HasVolunteeredBefore:        data.HasVolunteeredBefore,
				PreviousVolunteeringDetails: data.PreviousVolunteeringDetails,
				SelectedCell:                data.SelectedCell,
				AgreesToFee:                 data.AgreesToFee,
			},
		}, nil

	case models.SubmissionContact:
		var data ContactData
		if err := json.Unmarshal(req.Data, &data); err != nil {
			return nil, errors.New("invalid contact data")
		}
		data.Name = strings.TrimSpace(data.Name)
		data.Email = strings.TrimSpace(data.Email)
		data.Subject = strings.TrimSpace(data.Subject)
		data.Message = strings.TrimSpace(data.Message)
		if err := ValidateRequest(data); err != nil {
			return nil, err
		}
		return &models.Submission{
			Type: models.SubmissionContact,
			Contact: &models.ContactMessage{
				Name:    data.Name,
				Email:   data.Email,
				Subject: data.Subject,
				Message: data.Message,
			},
		}, nil
	}

	return nil, errors.New("unknown submission type")
}

func trimRegister(d *RegisterData) {
	for _, f := range []*string{
		&d.FullName, &d.BirthDate, &d.BirthPlace, &d.Address, &d.Wilaya, &d.Phone,
		&d.FacebookLink, &d.EducationLevel, &d.Specialization, &d.HasVolunteeredBefore,
		&d.PreviousVolunteeringDetails, &d.SelectedCell,
	} {
		*f = strings.TrimSpace(*f)
	}
}
