package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/arch-mania/takanekaitori-prod/internal/contextkeys"
	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"
	"github.com/arch-mania/takanekaitori-prod/internal/core/port"
	"github.com/arch-mania/takanekaitori-prod/internal/core/port/usecases_port"

	"github.com/google/uuid"
)

type SubmitInquiryUseCase struct {
	leads     port.LeadRepositoryPort
	publisher port.LeadEventPublisherPort
	notifier  usecases_port.SendLeadNotificationsUseCase
	clock     port.Clock
}

// NewSubmitInquiryUseCase wires the lead flow. With a nil publisher notifications are sent
// synchronously through notifier.
func NewSubmitInquiryUseCase(
	leads port.LeadRepositoryPort,
	publisher port.LeadEventPublisherPort,
	notifier usecases_port.SendLeadNotificationsUseCase,
	clock port.Clock,
) *SubmitInquiryUseCase {
	return &SubmitInquiryUseCase{leads: leads, publisher: publisher, notifier: notifier, clock: clock}
}

func (uc *SubmitInquiryUseCase) Execute(ctx context.Context, form domain.ContactForm, unlockedIDs []string) (*domain.SubmitResult, error) {
	form = trimForm(form)

	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "SubmitInquiry",
		"form_kind":   string(form.FormKind),
		"property_id": form.PropertyID,
	})

	ucLogger.Info("Use case started", nil)

	var errs map[string]string
	if form.FormKind == domain.FormKindUnlockDetails {
		errs = validateUnlockDetails(form)
	} else {
		errs = validatePropertyInquiry(form)
	}
	if len(errs) > 0 {
		verr := &domain.ValidationError{Fields: errs}
		ucLogger.Warn("Form rejected", port.Fields{"invalid_fields": verr.Error()})
		return nil, verr
	}

	lead := newLead(form, uc.clock.Now())
	ucLogger = ucLogger.WithFields(port.Fields{"lead_id": lead.ID.String()})

	if err := uc.leads.Save(ctx, lead); err != nil {
		err = fmt.Errorf("failed to save lead: %w", err)
		ucLogger.Error("Lead repository returned an error", err, nil)
		return nil, err
	}

	result := &domain.SubmitResult{Lead: lead}

	queued := false
	if uc.publisher != nil {
		if err := uc.publisher.PublishLeadSubmitted(ctx, lead); err != nil {
			ucLogger.Error("Failed to publish lead event, sending notifications inline", err, nil)
		} else {
			queued = true
		}
	}
	if !queued {
		if err := uc.notifier.Execute(ctx, lead); err != nil {
			ucLogger.Error("Notifications failed", err, nil)
			return nil, err
		}
	}
	result.NotificationsQueued = queued

	if form.FormKind == domain.FormKindUnlockDetails && form.EntryID != "" {
		result.UnlockedIDs = MergeUnlockSet(unlockedIDs, form.EntryID)
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"notifications_queued": queued,
		"unlocked_count":       len(result.UnlockedIDs),
	})

	return result, nil
}

// MergeUnlockSet adds id to the set, dropping empty and duplicate ids.
func MergeUnlockSet(ids []string, id string) []string {
	out := make([]string, 0, len(ids)+1)
	seen := make(map[string]struct{}, len(ids)+1)
	for _, v := range append(append([]string{}, ids...), id) {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func newLead(form domain.ContactForm, now time.Time) *domain.Lead {
	lead := &domain.Lead{
		ID:             uuid.New(),
		FormKind:       form.FormKind,
		PropertyID:     form.PropertyID,
		PropertyTitle:  form.PropertyTitle,
		AssignedAgent:  form.AssignedAgent,
		InquiryType:    form.InquiryType,
		InquiryContent: form.InquiryContent,
		Name:           form.Name,
		Email:          form.Email,
		Phone:          form.Phone,
		Message:        form.Message,
		CreatedAt:      now.UTC(),
	}
	if form.FormKind == domain.FormKindUnlockDetails {
		lead.InquiryType = domain.UnlockInquiryType
		lead.InquiryContent = ""
		lead.Message = domain.DesiredOpeningPeriods[form.DesiredOpeningPeriod]
	}
	return lead
}

func trimForm(f domain.ContactForm) domain.ContactForm {
	f.FormKind = domain.ParseFormKind(strings.TrimSpace(string(f.FormKind)))
	f.EntryID = strings.TrimSpace(f.EntryID)
	f.PropertyID = strings.TrimSpace(f.PropertyID)
	f.PropertyTitle = strings.TrimSpace(f.PropertyTitle)
	f.AssignedAgent = strings.TrimSpace(f.AssignedAgent)
	f.InquiryType = strings.TrimSpace(f.InquiryType)
	f.InquiryContent = strings.TrimSpace(f.InquiryContent)
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Message = strings.TrimSpace(f.Message)
	f.DesiredOpeningPeriod = strings.TrimSpace(f.DesiredOpeningPeriod)
	return f
}
