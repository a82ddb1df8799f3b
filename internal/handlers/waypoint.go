package handlers

import (
	"log"
	"net/http"

	"github.com/fluffle/apiserver/internal/mq"
	"github.com/fluffle/apiserver/internal/services"
	"github.com/fluffle/apiserver/internal/session"
	"github.com/fluffle/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// WaypointHandler provides the sighting endpoints: nearby search, the
// owner's listing, and insertion.
type WaypointHandler struct {
	waypoints *services.WaypointService
	publisher *mq.Publisher
}

// NewWaypointHandler constructs a WaypointHandler. publisher may be nil
// when no broker is configured.
func NewWaypointHandler(waypoints *services.WaypointService, publisher *mq.Publisher) *WaypointHandler {
	return &WaypointHandler{waypoints: waypoints, publisher: publisher}
}

// WaypointRouter registers waypoint routes on the given router.
func WaypointRouter(r chi.Router, waypoints *services.WaypointService, publisher *mq.Publisher) {
	handler := NewWaypointHandler(waypoints, publisher)

	r.Get("/fetchWaypoints", handler.FetchWaypoints)
	r.Get("/fetchUserWaypoints", handler.FetchUserWaypoints)
	r.Get("/insertWaypoint", handler.InsertWaypoint)
}

type NearbyWaypointsResponse struct {
	Waypoints []types.NearbyWaypoint `json:"waypoints"`
}

type UserWaypointsResponse struct {
	Waypoints []types.UserWaypoint `json:"waypoints"`
}

// FetchWaypoints runs the bounding-box search around a center point.
func (h *WaypointHandler) FetchWaypoints(w http.ResponseWriter, r *http.Request) {
	lat, ok := queryFloat(r, "latitude")
	if !ok {
		writeError(w, http.StatusBadRequest, "You must provide a numeric latitude.")
		return
	}
	lng, ok := queryFloat(r, "longitude")
	if !ok {
		writeError(w, http.StatusBadRequest, "You must provide a numeric longitude.")
		return
	}
	rangeMiles, ok := queryFloat(r, "range")
	if !ok {
		writeError(w, http.StatusBadRequest, "You must provide a search range (miles).")
		return
	}

	waypoints, err := h.waypoints.FetchNearby(r.Context(), lat, lng, rangeMiles)
	if err != nil {
		writeAppError(w, err)
		return
	}
	if waypoints == nil {
		waypoints = []types.NearbyWaypoint{}
	}
	writeJSON(w, http.StatusOK, NearbyWaypointsResponse{Waypoints: waypoints})
}

// FetchUserWaypoints returns the session user's waypoints with remaining
// lifetime.
func (h *WaypointHandler) FetchUserWaypoints(w http.ResponseWriter, r *http.Request) {
	user := sessionUser(r)
	waypoints, err := h.waypoints.FetchUserWaypoints(r.Context(), user)
	if err != nil {
		writeAppError(w, err)
		return
	}
	if waypoints == nil {
		waypoints = []types.UserWaypoint{}
	}
	writeJSON(w, http.StatusOK, UserWaypointsResponse{Waypoints: waypoints})
}

// InsertWaypoint records a new sighting for the session user and publishes
// a sighting-created event when a broker is configured.
func (h *WaypointHandler) InsertWaypoint(w http.ResponseWriter, r *http.Request) {
	user := sessionUser(r)
	if user == nil {
		writeError(w, http.StatusUnauthorized, "You must be logged in to use this function.")
		return
	}

	lat, ok := queryFloat(r, "latitude")
	if !ok {
		writeError(w, http.StatusBadRequest, "You must provide a numeric latitude.")
		return
	}
	lng, ok := queryFloat(r, "longitude")
	if !ok {
		writeError(w, http.StatusBadRequest, "You must provide a numeric longitude.")
		return
	}
	animalID := queryInt(r, "animalId")
	if animalID <= 0 {
		writeError(w, http.StatusBadRequest, "You must provide an animal id")
		return
	}

	wp, err := h.waypoints.InsertWaypoint(r.Context(), user, lat, lng, animalID)
	if err != nil {
		writeAppError(w, err)
		return
	}

	if h.publisher != nil {
		event := mq.SightingEvent{
			WaypointID: wp.ID,
			UserID:     wp.UserID,
			AnimalID:   wp.AnimalID,
			Latitude:   wp.Latitude,
			Longitude:  wp.Longitude,
			Date:       wp.CreatedAt,
		}
		if err := h.publisher.PublishSighting(r.Context(), event); err != nil {
			// event delivery is best effort; the waypoint is already saved
			log.Printf("publish sighting event: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, SuccessResponse{Success: "You've successfully added a new waypoint."})
}

// sessionUser returns the authenticated session user, or nil.
func sessionUser(r *http.Request) *types.PublicUser {
	if user, ok := session.UserFrom(r.Context()); ok {
		return &user
	}
	return nil
}
