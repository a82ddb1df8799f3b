package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/fluffle/apiserver/internal/services"
	"github.com/fluffle/apiserver/internal/storage"
	"github.com/fluffle/apiserver/internal/store"
	"github.com/fluffle/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// ReferenceHandler serves the immutable animal and security-question data.
type ReferenceHandler struct {
	reference *services.ReferenceService
	icons     *storage.IconStore
}

// NewReferenceHandler constructs a ReferenceHandler. icons may be nil when
// no object-storage backend is configured.
func NewReferenceHandler(reference *services.ReferenceService, icons *storage.IconStore) *ReferenceHandler {
	return &ReferenceHandler{reference: reference, icons: icons}
}

// ReferenceRouter registers reference-data routes on the given router.
func ReferenceRouter(r chi.Router, reference *services.ReferenceService, icons *storage.IconStore) {
	handler := NewReferenceHandler(reference, icons)

	r.Get("/fetchAnimals", handler.FetchAnimals)
	r.Get("/fetchSecurityQuestions", handler.FetchSecurityQuestions)
	r.Get("/fetchAnimalIcon", handler.FetchAnimalIcon)
}

type AnimalsResponse struct {
	Animals []types.Animal `json:"animals"`
}

type SecurityQuestionsResponse struct {
	SecurityQuestions []types.SecurityQuestion `json:"securityQuestions"`
}

func (h *ReferenceHandler) FetchAnimals(w http.ResponseWriter, r *http.Request) {
	animals, err := h.reference.ListAnimals(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	if animals == nil {
		animals = []types.Animal{}
	}
	writeJSON(w, http.StatusOK, AnimalsResponse{Animals: animals})
}

func (h *ReferenceHandler) FetchSecurityQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.reference.ListSecurityQuestions(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	if questions == nil {
		questions = []types.SecurityQuestion{}
	}
	writeJSON(w, http.StatusOK, SecurityQuestionsResponse{SecurityQuestions: questions})
}

// FetchAnimalIcon streams an animal's icon asset from object storage.
func (h *ReferenceHandler) FetchAnimalIcon(w http.ResponseWriter, r *http.Request) {
	if h.icons == nil {
		writeError(w, http.StatusNotFound, "Icon storage is not configured.")
		return
	}

	animalID := queryInt(r, "animalId")
	if animalID <= 0 {
		writeError(w, http.StatusBadRequest, "You must provide an animal id")
		return
	}

	animal, err := h.reference.GetAnimal(r.Context(), animalID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Please provide a valid animal id.")
			return
		}
		writeAppError(w, err)
		return
	}

	object, err := h.icons.Get(r.Context(), animal.Icon)
	if err != nil {
		writeError(w, http.StatusNotFound, "Failed to load the animal icon.")
		return
	}
	defer object.Close()

	w.Header().Set("Content-Type", "image/png")
	if _, err := io.Copy(w, object); err != nil {
		// headers already sent; nothing left to report to the client
		return
	}
}
