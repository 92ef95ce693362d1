package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/lindasales/salespro/internal/core"
	"github.com/lindasales/salespro/internal/domain/model"
)

// LeadExtractor abstracts JMESPath evaluation for testability.
type LeadExtractor interface {
	Validate(expr string) error
	Evaluate(expr string, data any) (any, error)
}

// jmespathExtractor implements LeadExtractor using go-jmespath.
type jmespathExtractor struct{}

func (jmespathExtractor) Validate(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return nil
	}
	_, err := jmespath.Compile(expr)
	return err
}

func (jmespathExtractor) Evaluate(expr string, data any) (any, error) {
	return jmespath.Search(expr, data)
}

// CaptureMapping holds the JMESPath expressions that pull lead fields out of
// an external form provider's payload. Name and at least one of Email/Phone
// are required; the rest are optional.
type CaptureMapping struct {
	Name   string
	Email  string
	Phone  string
	Source string
}

// DefaultCaptureMapping matches the flat `{name, email, phone, source}` shape
// most form providers post.
func DefaultCaptureMapping() CaptureMapping {
	return CaptureMapping{
		Name:   "name",
		Email:  "email",
		Phone:  "phone",
		Source: "source",
	}
}

// LeadGenServiceOptions groups dependencies for LeadGenService.
type LeadGenServiceOptions struct {
	LeadRepo  core.LeadRepository
	Mapping   CaptureMapping // zero value falls back to DefaultCaptureMapping
	Extractor LeadExtractor
	Notifier  *NotificationService
	Logger    *slog.Logger
}

// LeadGenService ingests arbitrary JSON from external lead-capture forms and
// turns it into owner-scoped leads using configurable field extraction.
type LeadGenService struct {
	leads     core.LeadRepository
	mapping   CaptureMapping
	extractor LeadExtractor
	notifier  *NotificationService
	logger    *slog.Logger
}

// NewLeadGenService constructs a new LeadGenService, validating the mapping
// expressions up front.
func NewLeadGenService(opts LeadGenServiceOptions) (*LeadGenService, error) {
	extractor := opts.Extractor
	if extractor == nil {
		extractor = jmespathExtractor{}
	}
	mapping := opts.Mapping
	if mapping == (CaptureMapping{}) {
		mapping = DefaultCaptureMapping()
	}
	for field, expr := range map[string]string{
		"name":   mapping.Name,
		"email":  mapping.Email,
		"phone":  mapping.Phone,
		"source": mapping.Source,
	} {
		if err := extractor.Validate(expr); err != nil {
			return nil, fmt.Errorf("invalid %s expression %q: %w", field, expr, err)
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &LeadGenService{
		leads:     opts.LeadRepo,
		mapping:   mapping,
		extractor: extractor,
		notifier:  opts.Notifier,
		logger:    logger.With("component", "leadgen"),
	}, nil
}

// Capture extracts lead fields from the raw payload and creates a lead for
// the owner. The source defaults to "lead-gen" when the payload carries none.
func (s *LeadGenService) Capture(ctx context.Context, ownerID string, payload any) (*model.Lead, error) {
	if payload == nil {
		return nil, errors.New("capture payload is required")
	}

	req := &model.CreateLeadRequest{
		Name:   s.extractString(payload, s.mapping.Name),
		Email:  s.extractString(payload, s.mapping.Email),
		Phone:  s.extractString(payload, s.mapping.Phone),
		Source: s.extractString(payload, s.mapping.Source),
	}
	if req.Source == "" {
		req.Source = "lead-gen"
	}

	lead, err := s.leads.Create(ctx, ownerID, req)
	if err != nil {
		return nil, fmt.Errorf("capture lead: %w", err)
	}

	s.notifier.Success(ctx, ownerID, "New lead captured: "+lead.Name)
	return lead, nil
}

// extractString evaluates one mapping expression, tolerating payloads the
// expression does not match.
func (s *LeadGenService) extractString(payload any, expr string) string {
	if strings.TrimSpace(expr) == "" {
		return ""
	}
	v, err := s.extractor.Evaluate(expr, payload)
	if err != nil {
		s.logger.Debug("capture expression did not match", "expr", expr, "err", err)
		return ""
	}
	str, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(str)
}
