package handler

import (
	"net/http"
	"strconv"

	"pharmacy-be/internal/apperr"
	"pharmacy-be/internal/order"
	"pharmacy-be/internal/utils"
)

var errInvalidPaging = apperr.New(apperr.ErrBadRequest, "limit and page must be positive integers")

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	o, err := h.orders.GetOrder(r.Context(), currentActor(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, order.ToOrderView(o))
}

func (h *Handler) GetOrderItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	item, err := h.orders.GetOrderItem(r.Context(), currentActor(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, order.ToItemView(item))
}

func (h *Handler) ListStoreItems(w http.ResponseWriter, r *http.Request) {
	storeID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	filter, err := itemFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	items, err := h.orders.ListStoreItems(r.Context(), currentActor(r), storeID, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, order.ToItemViews(items))
}

func itemFilter(r *http.Request) (order.ItemFilter, error) {
	q := r.URL.Query()
	var filter order.ItemFilter

	if s := q.Get("status"); s != "" {
		status := order.StoreStatus(s)
		filter.Status = &status
	}

	for name, dst := range map[string]*int{"limit": &filter.Limit, "page": &filter.Page} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return order.ItemFilter{}, errInvalidPaging
		}
		*dst = n
	}

	return filter, nil
}
