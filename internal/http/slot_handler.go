package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/campus-reservations/internal/application"
)

type slotService interface {
	List(ctx context.Context) ([]application.Slot, error)
	Create(ctx context.Context, params application.CreateSlotParams) (application.Slot, error)
}

type SlotHandler struct {
	service   slotService
	responder responder
}

func NewSlotHandler(service slotService, logger *slog.Logger) *SlotHandler {
	return &SlotHandler{service: service, responder: newResponder(logger)}
}

func (h *SlotHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	slots, err := h.service.List(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]slotDTO, 0, len(slots))
	for _, slot := range slots {
		dtos = append(dtos, newSlotDTO(slot))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, dtos)
}

func (h *SlotHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req slotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	slot, err := h.service.Create(r.Context(), application.CreateSlotParams{
		Principal: principal,
		Input: application.SlotInput{
			Weekday:   time.Weekday(req.Weekday),
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
		},
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, newSlotDTO(slot))
}

type slotRequest struct {
	Weekday   int    `json:"weekday"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type slotDTO struct {
	ID        string `json:"id"`
	Weekday   int    `json:"weekday"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	CreatedAt string `json:"created_at"`
}

func newSlotDTO(slot application.Slot) slotDTO {
	return slotDTO{
		ID:        slot.ID,
		Weekday:   int(slot.Weekday),
		StartTime: slot.StartTime,
		EndTime:   slot.EndTime,
		CreatedAt: formatTimestamp(slot.CreatedAt),
	}
}
