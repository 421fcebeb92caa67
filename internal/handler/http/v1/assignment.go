package v1

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/rescue_dispatch/internal/models"
)

// @Summary Get assignment by ID
// @Description Assigned volunteer or administrator reads an assignment
// @Tags Assignments
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Param id path string true "Assignment ID"
// @Success 200 {object} AssignmentResponse
// @Failure 400 {object} ErrorResponse "Invalid assignment ID"
// @Failure 403 {object} ErrorResponse "Assignment belongs to another volunteer"
// @Failure 404 {object} ErrorResponse "Assignment not found"
// @Router /assignments/{id} [get]
func (h *Handler) getAssignment(c *gin.Context) {
	id, ok := pathID(c, "assignment")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "getAssignment").WithField("id", id)

	assignment, err := h.assignmentService.GetAssignment(c.Request.Context(), callerFrom(c), id)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToAssignmentResponse(assignment))
}

// @Summary Advance an assignment
// @Description Move the assignment one step forward: accepted, en_route, on_site, completed. Completion resolves the incident.
// @Tags Assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assignment ID"
// @Param body body AdvanceAssignmentRequest true "Next status"
// @Success 200 {object} AssignmentResponse
// @Failure 400 {object} ErrorResponse "Invalid request body"
// @Failure 403 {object} ErrorResponse "Assignment belongs to another volunteer"
// @Failure 404 {object} ErrorResponse "Assignment not found"
// @Failure 409 {object} ErrorResponse "Transition not allowed from the current status"
// @Router /assignments/{id}/advance [post]
func (h *Handler) advanceAssignment(c *gin.Context) {
	id, ok := pathID(c, "assignment")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "advanceAssignment").WithField("id", id)

	var input AdvanceAssignmentRequest
	if !h.bindJSON(c, log, &input) {
		return
	}

	assignment, err := h.assignmentService.AdvanceAssignment(c.Request.Context(), callerFrom(c), id, models.AssignmentStatus(input.Status))
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToAssignmentResponse(assignment))
}

// @Summary Drop an assignment
// @Description Volunteer or administrator withdraws from an active assignment, the incident reopens for other volunteers. The body is optional.
// @Tags Assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Param id path string true "Assignment ID"
// @Param body body DropAssignmentRequest false "Reason"
// @Success 200 {object} AssignmentResponse
// @Failure 403 {object} ErrorResponse "Assignment belongs to another volunteer"
// @Failure 404 {object} ErrorResponse "Assignment not found"
// @Failure 409 {object} ErrorResponse "Assignment already closed"
// @Router /assignments/{id}/drop [post]
func (h *Handler) dropAssignment(c *gin.Context) {
	id, ok := pathID(c, "assignment")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "dropAssignment").WithField("id", id)

	var input DropAssignmentRequest
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		log.WithError(err).Warn("Failed to bind JSON")
		abortWithError(c, http.StatusBadRequest, codeInvalidRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		abortWithError(c, http.StatusBadRequest, codeValidation, err.Error())
		return
	}

	assignment, err := h.assignmentService.DropAssignment(c.Request.Context(), callerFrom(c), id, input.Reason)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToAssignmentResponse(assignment))
}
