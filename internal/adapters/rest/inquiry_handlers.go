package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/arch-mania/takanekaitori-prod/internal/contextkeys"
	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"
	"github.com/arch-mania/takanekaitori-prod/internal/core/port"
	"github.com/arch-mania/takanekaitori-prod/internal/core/port/usecases_port"
)

const maxInquiryBodyBytes = 64 << 10

type InquiryHandler struct {
	submitUC usecases_port.SubmitInquiryUseCase
	unlocks  *UnlockCookie
}

func NewInquiryHandler(submitUC usecases_port.SubmitInquiryUseCase, unlocks *UnlockCookie) *InquiryHandler {
	return &InquiryHandler{submitUC: submitUC, unlocks: unlocks}
}

// SubmitInquiry handles POST /api/v1/inquiries
func (h *InquiryHandler) SubmitInquiry(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	var req InquiryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxInquiryBodyBytes)).Decode(&req); err != nil {
		logger.Warn("Failed to decode request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{
		"handler":     "SubmitInquiry",
		"form_kind":   req.FormKind,
		"property_id": req.PropertyID,
	})

	result, err := h.submitUC.Execute(r.Context(), req.toForm(), h.unlocks.Read(r))
	if err != nil {
		var verr *domain.ValidationError
		var nerr *domain.NotificationError
		switch {
		case errors.As(err, &verr):
			RespondWithJSON(w, http.StatusBadRequest, ValidationErrorResponse{Error: "Validation failed", Fields: verr.Fields})
		case errors.As(err, &nerr):
			handlerLogger.Error("Notification failed", err, port.Fields{"target": string(nerr.Target)})
			WriteJSONError(w, http.StatusBadGateway, nerr.UserMessage())
		default:
			handlerLogger.Error("Use case failed", err, nil)
			WriteJSONError(w, http.StatusInternalServerError, "Failed to submit inquiry")
		}
		return
	}

	unlocked := false
	if result.UnlockedIDs != nil {
		if err := h.unlocks.Write(r.Context(), w, result.UnlockedIDs); err != nil {
			// the lead is already accepted; the visitor can ask again
			handlerLogger.Error("Failed to issue unlock cookie", err, nil)
		} else {
			unlocked = true
		}
	}

	handlerLogger.Info("Inquiry accepted", port.Fields{"lead_id": result.Lead.ID.String(), "unlocked": unlocked})

	RespondWithJSON(w, http.StatusCreated, InquiryResponse{
		Success:             true,
		LeadID:              result.Lead.ID.String(),
		NotificationsQueued: result.NotificationsQueued,
		Unlocked:            unlocked,
	})
}
