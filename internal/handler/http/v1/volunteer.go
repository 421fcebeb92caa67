package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Register or update a volunteer
// @Description Administrator creates or replaces a volunteer profile. The ID is the volunteer's identity provider subject.
// @Tags Volunteers
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Volunteer ID"
// @Param volunteer body VolunteerRequest true "Volunteer profile"
// @Success 200 {object} VolunteerResponse
// @Failure 400 {object} ErrorResponse "Invalid request body or validation error"
// @Failure 403 {object} ErrorResponse "Not an administrator"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /volunteers/{id} [put]
func (h *Handler) registerVolunteer(c *gin.Context) {
	id, ok := pathID(c, "volunteer")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "registerVolunteer").WithField("id", id)

	var input VolunteerRequest
	if !h.bindJSON(c, log, &input) {
		return
	}

	volunteer, err := h.volunteerService.RegisterVolunteer(c.Request.Context(), callerFrom(c), DTOToVolunteerModel(id, input))
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToVolunteerResponse(volunteer))
}

// @Summary Get volunteer by ID
// @Description Administrators read any profile, volunteers read only their own
// @Tags Volunteers
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Param id path string true "Volunteer ID"
// @Success 200 {object} VolunteerResponse
// @Failure 403 {object} ErrorResponse "Profile is not visible to the caller"
// @Failure 404 {object} ErrorResponse "Volunteer not found"
// @Router /volunteers/{id} [get]
func (h *Handler) getVolunteer(c *gin.Context) {
	id, ok := pathID(c, "volunteer")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "getVolunteer").WithField("id", id)

	volunteer, err := h.volunteerService.GetVolunteer(c.Request.Context(), callerFrom(c), id)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToVolunteerResponse(volunteer))
}

// @Summary Update own location
// @Description Volunteer reports the current position used for matching
// @Tags Volunteers
// @Accept json
// @Security BearerAuth
// @Param location body LocationRequest true "Current position"
// @Success 204
// @Failure 400 {object} ErrorResponse "Invalid coordinates"
// @Failure 403 {object} ErrorResponse "Not a volunteer"
// @Failure 404 {object} ErrorResponse "Volunteer not registered"
// @Router /volunteers/me/location [put]
func (h *Handler) updateLocation(c *gin.Context) {
	var input LocationRequest
	log := h.logger.WithField("method", "updateLocation")

	if !h.bindJSON(c, log, &input) {
		return
	}

	if err := h.volunteerService.UpdateLocation(c.Request.Context(), callerFrom(c), *input.Latitude, *input.Longitude); err != nil {
		h.respondError(c, log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Set own availability
// @Description Volunteer goes on or off duty, unavailable volunteers are never matched
// @Tags Volunteers
// @Accept json
// @Security BearerAuth
// @Param availability body AvailabilityRequest true "Availability"
// @Success 204
// @Failure 400 {object} ErrorResponse "Invalid request body"
// @Failure 403 {object} ErrorResponse "Not a volunteer"
// @Failure 404 {object} ErrorResponse "Volunteer not registered"
// @Router /volunteers/me/availability [put]
func (h *Handler) setAvailability(c *gin.Context) {
	var input AvailabilityRequest
	log := h.logger.WithField("method", "setAvailability")

	if !h.bindJSON(c, log, &input) {
		return
	}

	if err := h.volunteerService.SetAvailability(c.Request.Context(), callerFrom(c), *input.Available); err != nil {
		h.respondError(c, log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Verify a volunteer
// @Description Administrator marks the volunteer as verified or revokes verification
// @Tags Volunteers
// @Accept json
// @Security ApiKeyAuth
// @Param id path string true "Volunteer ID"
// @Param body body VerifyRequest true "Verification flag"
// @Success 204
// @Failure 403 {object} ErrorResponse "Not an administrator"
// @Failure 404 {object} ErrorResponse "Volunteer not found"
// @Router /volunteers/{id}/verify [post]
func (h *Handler) verifyVolunteer(c *gin.Context) {
	id, ok := pathID(c, "volunteer")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "verifyVolunteer").WithField("id", id)

	var input VerifyRequest
	if !h.bindJSON(c, log, &input) {
		return
	}

	if err := h.volunteerService.VerifyVolunteer(c.Request.Context(), callerFrom(c), id, *input.Verified); err != nil {
		h.respondError(c, log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Find eligible volunteers near a point
// @Description Available verified volunteers within the radius, nearest first
// @Tags Volunteers
// @Produce json
// @Security ApiKeyAuth
// @Param lat query number true "Latitude"
// @Param lng query number true "Longitude"
// @Param radius_km query number false "Search radius in km"
// @Param limit query int false "Maximum number of volunteers"
// @Success 200 {array} MatchedVolunteerResponse
// @Failure 400 {object} ErrorResponse "Invalid coordinates"
// @Failure 403 {object} ErrorResponse "Not an administrator"
// @Router /volunteers/eligible [get]
func (h *Handler) findEligibleVolunteers(c *gin.Context) {
	var query EligibleVolunteersQuery
	log := h.logger.WithField("method", "findEligibleVolunteers")

	if !h.bindQuery(c, log, &query) {
		return
	}

	matched, err := h.volunteerService.FindEligibleVolunteers(c.Request.Context(), callerFrom(c), *query.Latitude, *query.Longitude, query.RadiusKm, query.Limit)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, MatchedToResponses(matched))
}
