package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// @Summary Declare a disaster
// @Tags Disasters
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param disaster body DeclareDisasterRequest true "Disaster"
// @Success 201 {object} DisasterResponse
// @Failure 400 {object} ErrorResponse "Invalid request body"
// @Failure 403 {object} ErrorResponse "Not an administrator"
// @Router /disasters [post]
func (h *Handler) declareDisaster(c *gin.Context) {
	var input DeclareDisasterRequest
	log := h.logger.WithField("method", "declareDisaster")

	if !h.bindJSON(c, log, &input) {
		return
	}

	disaster, err := h.disasterService.DeclareDisaster(c.Request.Context(), callerFrom(c), DTOToDisasterModel(input))
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, ModelToDisasterResponse(disaster))
}

// @Summary Resolve a disaster
// @Description Close the disaster and withdraw all of its active team activations
// @Tags Disasters
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Disaster ID"
// @Success 200 {object} DisasterResponse
// @Failure 403 {object} ErrorResponse "Not an administrator"
// @Failure 404 {object} ErrorResponse "Disaster not found"
// @Failure 409 {object} ErrorResponse "Disaster already resolved"
// @Router /disasters/{id}/resolve [post]
func (h *Handler) resolveDisaster(c *gin.Context) {
	id, ok := pathID(c, "disaster")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "resolveDisaster").WithField("id", id)

	disaster, err := h.disasterService.ResolveDisaster(c.Request.Context(), callerFrom(c), id)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToDisasterResponse(disaster))
}

// @Summary Activate a team
// @Description Activate a volunteer team on an active disaster. The team leader is notified.
// @Tags Disasters
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Disaster ID"
// @Param body body ActivateTeamRequest true "Activation"
// @Success 201 {object} ActivationResponse
// @Failure 400 {object} ErrorResponse "Invalid request body"
// @Failure 403 {object} ErrorResponse "Not an administrator"
// @Failure 404 {object} ErrorResponse "Disaster or team not found"
// @Failure 409 {object} ErrorResponse "Disaster is not active"
// @Router /disasters/{id}/activations [post]
func (h *Handler) activateTeam(c *gin.Context) {
	id, ok := pathID(c, "disaster")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "activateTeam").WithField("id", id)

	var input ActivateTeamRequest
	if !h.bindJSON(c, log, &input) {
		return
	}
	teamID := uuid.MustParse(input.TeamID)

	activation, err := h.disasterService.ActivateTeam(c.Request.Context(), callerFrom(c), id, teamID, input.AssignedArea, input.Responsibilities)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, ModelToActivationResponse(activation))
}

// @Summary List team activations of a disaster
// @Tags Disasters
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Disaster ID"
// @Success 200 {array} ActivationResponse
// @Failure 403 {object} ErrorResponse "Not an administrator"
// @Failure 404 {object} ErrorResponse "Disaster not found"
// @Router /disasters/{id}/activations [get]
func (h *Handler) listActivations(c *gin.Context) {
	id, ok := pathID(c, "disaster")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "listActivations").WithField("id", id)

	activations, err := h.disasterService.ListActivations(c.Request.Context(), callerFrom(c), id)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToActivationResponses(activations))
}

// @Summary Withdraw a team activation
// @Tags Disasters
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Activation ID"
// @Success 200 {object} ActivationResponse
// @Failure 403 {object} ErrorResponse "Not an administrator"
// @Failure 404 {object} ErrorResponse "Activation not found"
// @Failure 409 {object} ErrorResponse "Activation already withdrawn"
// @Router /activations/{id} [delete]
func (h *Handler) withdrawActivation(c *gin.Context) {
	id, ok := pathID(c, "activation")
	if !ok {
		return
	}
	log := h.logger.WithField("method", "withdrawActivation").WithField("id", id)

	activation, err := h.disasterService.WithdrawActivation(c.Request.Context(), callerFrom(c), id)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToActivationResponse(activation))
}
