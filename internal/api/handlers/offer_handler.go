package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// OfferStore is the slice of the offer feed the handlers need; the
// Redis-backed implementation lives in internal/cache.
type OfferStore interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, offer string) error
	Subscribe(ctx context.Context) <-chan string
}

type OfferHandler struct {
	offers OfferStore
}

func NewOfferHandler(offers OfferStore) *OfferHandler {
	return &OfferHandler{offers: offers}
}

type offerPayload struct {
	Offer string `json:"offer"`
}

func (h *OfferHandler) Get(w http.ResponseWriter, r *http.Request) {
	offer, err := h.offers.Get(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to get offer", nil)
		return
	}
	writeJSON(w, http.StatusOK, offerPayload{Offer: offer})
}

// Set updates the shop-wide offer banner. Admin only; an empty value
// clears the banner.
func (h *OfferHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req offerPayload
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	if err := h.offers.Set(r.Context(), req.Offer); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to set offer", nil)
		return
	}
	writeJSON(w, http.StatusOK, offerPayload{Offer: req.Offer})
}

// writeSSE emits one server-sent event. Every payload line gets its own
// data: prefix; a bare newline inside the payload would otherwise break
// the event framing.
func writeSSE(w io.Writer, payload string) {
	for _, line := range strings.Split(payload, "\n") {
		fmt.Fprintf(w, "data: %s\n", line)
	}
	fmt.Fprint(w, "\n")
}

// Stream pushes offer updates to the storefront as server-sent events,
// starting with the current value, until the client disconnects.
func (h *OfferHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "internal_error", "streaming unsupported", nil)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	current, err := h.offers.Get(r.Context())
	if err == nil {
		writeSSE(w, current)
		flusher.Flush()
	}

	updates := h.offers.Subscribe(r.Context())
	for {
		select {
		case <-r.Context().Done():
			return
		case offer, ok := <-updates:
			if !ok {
				return
			}
			writeSSE(w, offer)
			flusher.Flush()
		}
	}
}
