package handler

import (
	"net/http"

	"pharmacy-be/internal/apperr"
	"pharmacy-be/internal/negotiation"
	"pharmacy-be/internal/order"
	"pharmacy-be/internal/utils"
)

var errSuggestedProductRequired = apperr.New(apperr.ErrBadRequest, "suggestedProductId is required")

type acceptRequest struct {
	Notes *string `json:"notes"`
}

type refuseRequest struct {
	Reason string `json:"reason"`
}

type suggestRequest struct {
	SuggestedProductID uint    `json:"suggestedProductId"`
	Suggestion         *string `json:"suggestion"`
	Notes              *string `json:"notes"`
}

type approveSuggestionRequest struct {
	AdminNotes *string `json:"adminNotes"`
}

func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req acceptRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	item, err := h.negotiation.Accept(r.Context(), negotiation.AcceptInput{
		OrderItemID: id,
		Actor:       currentActor(r),
		Notes:       req.Notes,
	})
	writeItem(w, r, item, err)
}

func (h *Handler) Refuse(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req refuseRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	item, err := h.negotiation.Refuse(r.Context(), negotiation.RefuseInput{
		OrderItemID: id,
		Actor:       currentActor(r),
		Reason:      req.Reason,
	})
	writeItem(w, r, item, err)
}

func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req suggestRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.SuggestedProductID == 0 {
		writeError(w, r, errSuggestedProductRequired)
		return
	}

	item, err := h.negotiation.Suggest(r.Context(), negotiation.SuggestInput{
		OrderItemID:        id,
		Actor:              currentActor(r),
		SuggestedProductID: req.SuggestedProductID,
		Suggestion:         req.Suggestion,
		Notes:              req.Notes,
	})
	writeItem(w, r, item, err)
}

func (h *Handler) ApproveSuggestion(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req approveSuggestionRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	item, err := h.negotiation.ApproveSuggestion(r.Context(), negotiation.ApproveSuggestionInput{
		OrderItemID: id,
		Actor:       currentActor(r),
		AdminNotes:  req.AdminNotes,
	})
	writeItem(w, r, item, err)
}

func writeItem(w http.ResponseWriter, r *http.Request, item *order.OrderItem, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, order.ToItemView(item))
}
