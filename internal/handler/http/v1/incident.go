package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/rescue_dispatch/internal/models"
)

// @Summary Report an incident
// @Description Report an emergency. Anonymous reports are accepted for issue types that do not require identity and are rate limited per client. High and critical incidents are fanned out to nearby volunteers immediately.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param incident body ReportIncidentRequest true "Incident report"
// @Success 201 {object} FanOutResponse
// @Failure 400 {object} ErrorResponse "Invalid request body or validation error"
// @Failure 403 {object} ErrorResponse "Issue type requires identity"
// @Failure 429 {object} ErrorResponse "Too many anonymous reports"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /incidents [post]
func (h *Handler) reportIncident(c *gin.Context) {
	var input ReportIncidentRequest
	log := h.logger.WithField("method", "reportIncident")

	if !h.bindJSON(c, log, &input) {
		return
	}

	result, err := h.incidentService.ReportIncident(c.Request.Context(), callerFrom(c), DTOToIncidentModel(input))
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, FanOutToResponse(result))
}

// @Summary List incidents visible to the caller
// @Description Administrators see all incidents, volunteers see their active assignments plus open incidents within their service radius, citizens see their own reports. Newest first.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Param status query string false "Comma separated statuses"
// @Param severity query string false "Severity"
// @Param district query string false "District"
// @Param type query string false "Issue type code"
// @Param lat query number false "Volunteer's current latitude"
// @Param lng query number false "Volunteer's current longitude"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Number of items per page" default(20)
// @Success 200 {array} IncidentResponse
// @Failure 400 {object} ErrorResponse "Invalid filters"
// @Failure 403 {object} ErrorResponse "Anonymous caller"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /incidents [get]
func (h *Handler) listIncidents(c *gin.Context) {
	var query ListIncidentsQuery
	log := h.logger.WithField("method", "listIncidents")

	if !h.bindQuery(c, log, &query) {
		return
	}
	filter, err := QueryToIncidentFilter(query)
	if err != nil {
		h.respondError(c, log, err)
		return
	}

	caller := callerFrom(c)
	if query.Latitude != nil && query.Longitude != nil {
		caller.Location = &models.GeoPoint{Latitude: *query.Latitude, Longitude: *query.Longitude}
	}

	incidents, err := h.incidentService.ListVisibleIncidents(c.Request.Context(), caller, filter)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
}

// @Summary Get incident by ID
// @Description Get a single incident if it is visible to the caller
// @Tags Incidents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Param id path string true "Incident ID"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} ErrorResponse "Invalid incident ID"
// @Failure 403 {object} ErrorResponse "Incident is not visible to the caller"
// @Failure 404 {object} ErrorResponse "Incident not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /incidents/{id} [get]
func (h *Handler) getIncident(c *gin.Context) {
	id, ok := pathID(c, "incident")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "getIncident").WithField("id", id)

	incident, err := h.incidentService.GetIncident(c.Request.Context(), callerFrom(c), id)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Acknowledge an incident
// @Description Dispatcher confirms receipt of a pending or escalated incident
// @Tags Incidents
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Incident ID"
// @Success 200 {object} IncidentResponse
// @Failure 403 {object} ErrorResponse "Not an administrator"
// @Failure 404 {object} ErrorResponse "Incident not found"
// @Failure 409 {object} ErrorResponse "Incident cannot be acknowledged in its current status"
// @Router /incidents/{id}/acknowledge [post]
func (h *Handler) acknowledgeIncident(c *gin.Context) {
	id, ok := pathID(c, "incident")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "acknowledgeIncident").WithField("id", id)

	incident, err := h.incidentService.AcknowledgeIncident(c.Request.Context(), callerFrom(c), id)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Escalate an incident
// @Description Raise severity to critical and repeat the fan-out with an expanded radius
// @Tags Incidents
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Param id path string true "Incident ID"
// @Success 200 {object} FanOutResponse
// @Failure 403 {object} ErrorResponse "Caller may not escalate"
// @Failure 404 {object} ErrorResponse "Incident not found"
// @Failure 409 {object} ErrorResponse "Incident is closed"
// @Router /incidents/{id}/escalate [post]
func (h *Handler) escalateIncident(c *gin.Context) {
	id, ok := pathID(c, "incident")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "escalateIncident").WithField("id", id)

	result, err := h.incidentService.EscalateIncident(c.Request.Context(), callerFrom(c), id)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, FanOutToResponse(result))
}

// @Summary Cancel an incident
// @Description Reporter or administrator cancels an incident, the active assignment is closed with it
// @Tags Incidents
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Param id path string true "Incident ID"
// @Success 200 {object} IncidentResponse
// @Failure 403 {object} ErrorResponse "Caller may not cancel"
// @Failure 404 {object} ErrorResponse "Incident not found"
// @Failure 409 {object} ErrorResponse "Incident is already closed"
// @Router /incidents/{id}/cancel [post]
func (h *Handler) cancelIncident(c *gin.Context) {
	id, ok := pathID(c, "incident")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "cancelIncident").WithField("id", id)

	incident, err := h.incidentService.CancelIncident(c.Request.Context(), callerFrom(c), id)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Accept an incident
// @Description Volunteer takes an open incident. Exactly one concurrent acceptance wins, the rest get 409.
// @Tags Assignments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Success 201 {object} AssignmentResponse
// @Failure 403 {object} ErrorResponse "Not an eligible volunteer"
// @Failure 404 {object} ErrorResponse "Incident not found"
// @Failure 409 {object} ErrorResponse "Incident already assigned"
// @Router /incidents/{id}/accept [post]
func (h *Handler) acceptIncident(c *gin.Context) {
	id, ok := pathID(c, "incident")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "acceptIncident").WithField("id", id)

	assignment, err := h.assignmentService.AcceptIncident(c.Request.Context(), callerFrom(c), id)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, ModelToAssignmentResponse(assignment))
}

// @Summary Dispatch a volunteer
// @Description Dispatcher assigns a specific volunteer, who then accepts or drops the assignment
// @Tags Assignments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Incident ID"
// @Param body body DispatchRequest true "Volunteer to dispatch"
// @Success 201 {object} AssignmentResponse
// @Failure 400 {object} ErrorResponse "Invalid request body"
// @Failure 403 {object} ErrorResponse "Not an administrator or volunteer not eligible"
// @Failure 404 {object} ErrorResponse "Incident or volunteer not found"
// @Failure 409 {object} ErrorResponse "Incident already assigned"
// @Router /incidents/{id}/dispatch [post]
func (h *Handler) dispatchVolunteer(c *gin.Context) {
	id, ok := pathID(c, "incident")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "dispatchVolunteer").WithField("id", id)

	var input DispatchRequest
	if !h.bindJSON(c, log, &input) {
		return
	}
	volunteerID := uuid.MustParse(input.VolunteerID)

	assignment, err := h.assignmentService.DispatchVolunteer(c.Request.Context(), callerFrom(c), id, volunteerID)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, ModelToAssignmentResponse(assignment))
}

// @Summary List assignment history of an incident
// @Description All assignments of the incident including dropped and cancelled ones
// @Tags Assignments
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Incident ID"
// @Success 200 {array} AssignmentResponse
// @Failure 403 {object} ErrorResponse "Not an administrator"
// @Failure 404 {object} ErrorResponse "Incident not found"
// @Router /incidents/{id}/assignments [get]
func (h *Handler) listIncidentAssignments(c *gin.Context) {
	id, ok := pathID(c, "incident")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "listIncidentAssignments").WithField("id", id)

	assignments, err := h.assignmentService.ListIncidentAssignments(c.Request.Context(), callerFrom(c), id)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToAssignmentResponses(assignments))
}
