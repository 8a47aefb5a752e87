// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"restohub/internal/app"
	"restohub/internal/content"
	"restohub/internal/domain"
)

const maxBody = 1 << 20

type Handlers struct {
	Sessions *content.Registry
	Pages    *app.PageService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.With(Timeout(requestTimeout)).Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1/tenants/{tenant}", func(r chi.Router) {
		r.Get("/homepage/stream", h.streamHomepage)

		r.Group(func(r chi.Router) {
			r.Use(Timeout(requestTimeout))

			r.Get("/page", h.getPage)
			r.Get("/delivery", h.checkDelivery)

			r.Get("/homepage", h.getHomepage)
			r.Put("/homepage", h.putHomepage)
			r.Patch("/homepage/header", h.patchHeader)
			r.Patch("/homepage/footer", h.patchFooter)
			r.Patch("/homepage/sections/{sectionID}", h.patchSection)
			r.Post("/homepage/sections/{sectionID}/images", h.addImage)
			r.Delete("/homepage/sections/{sectionID}/images/{index}", h.removeImage)
			r.Post("/homepage/sections/{sectionID}/testimonials", h.addTestimonial)
			r.Delete("/homepage/sections/{sectionID}/testimonials/{itemID}", h.removeTestimonial)
		})
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps domain errors onto problem responses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidSectionReference):
		writeProblem(w, http.StatusNotFound, "Unknown Section", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrInvalidPatch),
		errors.Is(err, domain.ErrInvalidConfig),
		errors.Is(err, domain.ErrConfigurationShapeMismatch):
		writeProblem(w, http.StatusBadRequest, "Invalid Request", err.Error())
	case errors.Is(err, domain.ErrVersionConflict):
		writeProblem(w, http.StatusConflict, "Version Conflict", err.Error())
	case errors.Is(err, domain.ErrStoreTimeout):
		writeProblem(w, http.StatusGatewayTimeout, "Store Timeout", err.Error())
	case errors.Is(err, domain.ErrStoreUnavailable), errors.Is(err, domain.ErrNotReady):
		writeProblem(w, http.StatusServiceUnavailable, "Unavailable", err.Error())
	default:
		log.Error().Err(err).Msg("unhandled error")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write JSON body")
	}
}

// decodeBody rejects unknown fields so typos surface as 400s.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.Join(domain.ErrInvalidPatch, err)
	}
	return nil
}

// viewer treats any X-User-ID as a signed-in customer; authentication is upstream.
func viewer(r *http.Request) domain.Viewer {
	id := r.Header.Get("X-User-ID")
	return domain.Viewer{UserID: id, Authenticated: id != ""}
}

func (h *Handlers) session(w http.ResponseWriter, r *http.Request) (*content.Session, bool) {
	sess, err := h.Sessions.Session(r.Context(), chi.URLParam(r, "tenant"))
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return sess, true
}

/********** reads **********/

func (h *Handlers) getHomepage(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	cfg, ok := sess.Snapshot()
	if !ok {
		writeError(w, domain.ErrNotReady)
		return
	}

	etag, body := calcETagAndBody(cfg)
	// If client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write getHomepage body")
	}
}

func (h *Handlers) getPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.Pages.Page(r.Context(), chi.URLParam(r, "tenant"), viewer(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

type deliveryResponse struct {
	Delivers   bool    `json:"delivers"`
	DistanceKm float64 `json:"distanceKm"`
	RadiusKm   float64 `json:"radiusKm"`
}

func (h *Handlers) checkDelivery(w http.ResponseWriter, r *http.Request) {
	lat, err1 := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, err2 := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if err1 != nil || err2 != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		writeProblem(w, http.StatusBadRequest, "Invalid coordinates", "lat and lon must be valid decimal degrees")
		return
	}
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	cfg, _ := sess.Snapshot()
	for _, sec := range cfg.Sections {
		loc, isLoc := sec.Props.(domain.LocationProps)
		if !isLoc || !sec.Enabled {
			continue
		}
		writeJSON(w, http.StatusOK, deliveryResponse{
			Delivers:   loc.Delivers(lat, lon),
			DistanceKm: domain.DistanceKm(loc.Latitude, loc.Longitude, lat, lon),
			RadiusKm:   loc.DeliveryRadiusKm,
		})
		return
	}
	writeProblem(w, http.StatusNotFound, "Not Found", "tenant has no location section")
}

/********** writes **********/

func (h *Handlers) putHomepage(w http.ResponseWriter, r *http.Request) {
	var cfg domain.HomepageConfig
	if err := decodeBody(r, &cfg); err != nil {
		writeError(w, err)
		return
	}
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	out, err := sess.UpdateFullConfig(r.Context(), cfg)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) patchHeader(w http.ResponseWriter, r *http.Request) {
	var p domain.HeaderPatch
	if err := decodeBody(r, &p); err != nil {
		writeError(w, err)
		return
	}
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	out, err := sess.UpdateHeader(r.Context(), p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) patchFooter(w http.ResponseWriter, r *http.Request) {
	var p domain.FooterPatch
	if err := decodeBody(r, &p); err != nil {
		writeError(w, err)
		return
	}
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	out, err := sess.UpdateFooter(r.Context(), p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) patchSection(w http.ResponseWriter, r *http.Request) {
	var patch json.RawMessage
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, err)
		return
	}
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	out, err := sess.UpdateSection(r.Context(), chi.URLParam(r, "sectionID"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type imageRequest struct {
	URL string `json:"url"`
}

func (h *Handlers) addImage(w http.ResponseWriter, r *http.Request) {
	var req imageRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	out, err := sess.AddGalleryImage(r.Context(), chi.URLParam(r, "sectionID"), req.URL)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handlers) removeImage(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid index", "index must be a number")
		return
	}
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	out, err := sess.RemoveGalleryImage(r.Context(), chi.URLParam(r, "sectionID"), idx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type testimonialRequest struct {
	Name      string `json:"name"`
	Role      string `json:"role"`
	Quote     string `json:"quote"`
	AvatarURL string `json:"avatarUrl"`
}

func (h *Handlers) addTestimonial(w http.ResponseWriter, r *http.Request) {
	var req testimonialRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	out, err := sess.AddTestimonial(r.Context(), chi.URLParam(r, "sectionID"), domain.TestimonialItem{
		Name: req.Name, Role: req.Role, Quote: req.Quote, AvatarURL: req.AvatarURL,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handlers) removeTestimonial(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "itemID"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	out, err := sess.RemoveTestimonial(r.Context(), chi.URLParam(r, "sectionID"), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
