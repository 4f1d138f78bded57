package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"pharmacy-be/internal/apperr"
	"pharmacy-be/internal/auth"
	"pharmacy-be/internal/logger"
	"pharmacy-be/internal/negotiation"
	"pharmacy-be/internal/order"
	"pharmacy-be/internal/user"
	"pharmacy-be/internal/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	orders      order.Service
	negotiation negotiation.Service
	users       user.Service
}

func New(orders order.Service, negotiation negotiation.Service, users user.Service) *Handler {
	return &Handler{orders: orders, negotiation: negotiation, users: users}
}

// Register mounts the REST routes on r. mutating wraps the negotiation
// POST routes only.
func (h *Handler) Register(r *mux.Router, mutating ...mux.MiddlewareFunc) {
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)

	r.HandleFunc("/orders/{id}", h.GetOrder).Methods(http.MethodGet)
	r.HandleFunc("/order-items/{id}", h.GetOrderItem).Methods(http.MethodGet)
	r.HandleFunc("/stores/{id}/order-items", h.ListStoreItems).Methods(http.MethodGet)

	items := r.PathPrefix("/order-items/{id}").Subrouter()
	items.Use(mutating...)
	items.HandleFunc("/accept", h.Accept).Methods(http.MethodPost)
	items.HandleFunc("/refuse", h.Refuse).Methods(http.MethodPost)
	items.HandleFunc("/suggest", h.Suggest).Methods(http.MethodPost)
	items.HandleFunc("/approve-suggestion", h.ApproveSuggestion).Methods(http.MethodPost)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

var errInvalidBody = apperr.New(apperr.ErrBadRequest, "invalid request body")

// decode reads an optional JSON body into dst. An empty body leaves dst
// untouched.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return errInvalidBody
	}
	return nil
}

var errInvalidID = apperr.New(apperr.ErrBadRequest, "invalid id")

func pathID(r *http.Request) (uint, error) {
	id, err := utils.ToUint(mux.Vars(r)["id"])
	if err != nil {
		return 0, errInvalidID
	}
	return id, nil
}

func currentActor(r *http.Request) auth.Actor {
	actor, _ := auth.ActorFrom(r.Context())
	return actor
}

// writeError answers with the status of err's kind. Unclassified errors are
// logged and hidden behind a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		logger.FromCtx(r.Context()).Error("request failed",
			zap.String("layer", "handler"),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		utils.WriteJSONError(w, "internal server error", status)
		return
	}
	utils.WriteJSONError(w, err.Error(), status)
}
