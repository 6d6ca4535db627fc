package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/example/campus-reservations/internal/application"
	"github.com/example/campus-reservations/internal/booking"
)

type reservationService interface {
	Create(ctx context.Context, params application.CreateReservationParams) (application.Reservation, error)
	Approve(ctx context.Context, principal application.Principal, reservationID string) (application.ApproveResult, error)
	Reject(ctx context.Context, principal application.Principal, reservationID string) (application.Reservation, error)
	Cancel(ctx context.Context, principal application.Principal, reservationID string) (application.Reservation, error)
	List(ctx context.Context, params application.ListReservationsParams) ([]application.Reservation, error)
	Availability(ctx context.Context, params application.AvailabilityParams) (application.RoomAvailability, error)
}

type ReservationHandler struct {
	service   reservationService
	responder responder
}

func NewReservationHandler(service reservationService, logger *slog.Logger) *ReservationHandler {
	return &ReservationHandler{service: service, responder: newResponder(logger)}
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req reservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	date, err := booking.ParseDate(strings.TrimSpace(req.Date))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, &application.ValidationError{
			FieldErrors: map[string]string{"date": "date must use the YYYY-MM-DD format"},
		})
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingPrincipalScope)
		return
	}

	reservation, err := h.service.Create(r.Context(), application.CreateReservationParams{
		Principal: principal,
		Input: application.ReservationInput{
			RoomID: strings.TrimSpace(req.RoomID),
			SlotID: strings.TrimSpace(req.SlotID),
			Date:   date,
		},
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, newReservationDTO(reservation))
}

// UpdateStatus resolves the requested target status into the matching
// transition. The body names the desired end state; the server decides
// whether the principal may drive the reservation there.
func (h *ReservationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	reservationID, ok := ReservationIDFromContext(r.Context())
	if !ok || strings.TrimSpace(reservationID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidReservationID)
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	status, err := booking.ParseStatus(strings.TrimSpace(req.Status))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, &application.ValidationError{
			FieldErrors: map[string]string{"status": errUnknownTargetStatus.Error()},
		})
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingPrincipalScope)
		return
	}

	switch status {
	case booking.StatusApproved:
		result, err := h.service.Approve(r.Context(), principal, reservationID)
		if err != nil {
			h.responder.handleServiceError(r.Context(), w, err)
			return
		}
		h.responder.writeJSON(r.Context(), w, http.StatusOK, newApproveDTO(result))
	case booking.StatusRejected:
		reservation, err := h.service.Reject(r.Context(), principal, reservationID)
		if err != nil {
			h.responder.handleServiceError(r.Context(), w, err)
			return
		}
		h.responder.writeJSON(r.Context(), w, http.StatusOK, newReservationDTO(reservation))
	case booking.StatusCancelled:
		reservation, err := h.service.Cancel(r.Context(), principal, reservationID)
		if err != nil {
			h.responder.handleServiceError(r.Context(), w, err)
			return
		}
		h.responder.writeJSON(r.Context(), w, http.StatusOK, newReservationDTO(reservation))
	default:
		h.responder.handleServiceError(r.Context(), w, &application.ValidationError{
			FieldErrors: map[string]string{"status": "a reservation cannot be moved back to Pending"},
		})
	}
}

func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingPrincipalScope)
		return
	}

	params, err := buildReservationListParams(r.URL.Query(), principal)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	reservations, err := h.service.List(r.Context(), params)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]reservationDTO, 0, len(reservations))
	for _, reservation := range reservations {
		dtos = append(dtos, newReservationDTO(reservation))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, dtos)
}

// Availability lists, per slot, which upcoming dates of a room are still
// open. The room query parameter is required; from and to default to a
// two week window opening today.
func (h *ReservationHandler) Availability(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingPrincipalScope)
		return
	}

	params, err := buildAvailabilityParams(r.URL.Query(), principal)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	availability, err := h.service.Availability(r.Context(), params)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, newAvailabilityDTO(availability))
}

func buildAvailabilityParams(query url.Values, principal application.Principal) (application.AvailabilityParams, error) {
	params := application.AvailabilityParams{
		Principal: principal,
		RoomID:    strings.TrimSpace(query.Get("room")),
	}

	vErr := &application.ValidationError{FieldErrors: map[string]string{}}

	if params.RoomID == "" {
		vErr.FieldErrors["room"] = "room is required"
	}
	if raw := strings.TrimSpace(query.Get("from")); raw != "" {
		from, err := booking.ParseDate(raw)
		if err != nil {
			vErr.FieldErrors["from"] = "from must use the YYYY-MM-DD format"
		} else {
			params.From = from
		}
	}
	if raw := strings.TrimSpace(query.Get("to")); raw != "" {
		to, err := booking.ParseDate(raw)
		if err != nil {
			vErr.FieldErrors["to"] = "to must use the YYYY-MM-DD format"
		} else {
			params.To = to
		}
	}

	if len(vErr.FieldErrors) > 0 {
		return application.AvailabilityParams{}, vErr
	}
	return params, nil
}

func buildReservationListParams(query url.Values, principal application.Principal) (application.ListReservationsParams, error) {
	params := application.ListReservationsParams{
		Principal: principal,
		RoomID:    strings.TrimSpace(query.Get("room")),
	}

	vErr := &application.ValidationError{FieldErrors: map[string]string{}}

	if raw := strings.TrimSpace(query.Get("status")); raw != "" {
		status, err := booking.ParseStatus(raw)
		if err != nil {
			vErr.FieldErrors["status"] = errUnknownTargetStatus.Error()
		} else {
			params.Status = status
		}
	}
	if raw := strings.TrimSpace(query.Get("from")); raw != "" {
		from, err := booking.ParseDate(raw)
		if err != nil {
			vErr.FieldErrors["from"] = "from must use the YYYY-MM-DD format"
		} else {
			params.DateFrom = &from
		}
	}
	if raw := strings.TrimSpace(query.Get("to")); raw != "" {
		to, err := booking.ParseDate(raw)
		if err != nil {
			vErr.FieldErrors["to"] = "to must use the YYYY-MM-DD format"
		} else {
			params.DateTo = &to
		}
	}

	if len(vErr.FieldErrors) > 0 {
		return application.ListReservationsParams{}, vErr
	}
	return params, nil
}

type reservationRequest struct {
	RoomID string `json:"room_id"`
	SlotID string `json:"slot_id"`
	Date   string `json:"date"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type reservationDTO struct {
	ID        string `json:"id"`
	RoomID    string `json:"room_id"`
	SlotID    string `json:"slot_id"`
	UserID    string `json:"user_id"`
	Date      string `json:"date"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func newReservationDTO(reservation application.Reservation) reservationDTO {
	return reservationDTO{
		ID:        reservation.ID,
		RoomID:    reservation.RoomID,
		SlotID:    reservation.SlotID,
		UserID:    reservation.UserID,
		Date:      booking.FormatDate(reservation.Date),
		Status:    string(reservation.Status),
		CreatedAt: formatTimestamp(reservation.CreatedAt),
		UpdatedAt: formatTimestamp(reservation.UpdatedAt),
	}
}

type availabilityDTO struct {
	Room  roomDTO               `json:"room"`
	From  string                `json:"from"`
	To    string                `json:"to"`
	Slots []slotAvailabilityDTO `json:"slots"`
}

type slotAvailabilityDTO struct {
	Slot  slotDTO               `json:"slot"`
	Dates []dateAvailabilityDTO `json:"dates"`
}

type dateAvailabilityDTO struct {
	Date      string `json:"date"`
	Available bool   `json:"available"`
}

func newAvailabilityDTO(availability application.RoomAvailability) availabilityDTO {
	dto := availabilityDTO{
		Room:  newRoomDTO(availability.Room),
		From:  booking.FormatDate(availability.From),
		To:    booking.FormatDate(availability.To),
		Slots: make([]slotAvailabilityDTO, 0, len(availability.Slots)),
	}
	for _, entry := range availability.Slots {
		slotEntry := slotAvailabilityDTO{
			Slot:  newSlotDTO(entry.Slot),
			Dates: make([]dateAvailabilityDTO, 0, len(entry.Dates)),
		}
		for _, date := range entry.Dates {
			slotEntry.Dates = append(slotEntry.Dates, dateAvailabilityDTO{
				Date:      booking.FormatDate(date.Date),
				Available: date.Available,
			})
		}
		dto.Slots = append(dto.Slots, slotEntry)
	}
	return dto
}

type approveDTO struct {
	Approved reservationDTO   `json:"approved"`
	Rejected []reservationDTO `json:"rejected"`
}

func newApproveDTO(result application.ApproveResult) approveDTO {
	rejected := make([]reservationDTO, 0, len(result.Rejected))
	for _, reservation := range result.Rejected {
		rejected = append(rejected, newReservationDTO(reservation))
	}
	return approveDTO{
		Approved: newReservationDTO(result.Approved),
		Rejected: rejected,
	}
}
