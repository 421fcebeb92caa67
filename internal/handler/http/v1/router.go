package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Health-check доступен без идентификации
	api.GET("/system/health", h.healthCheck)

	secured := api.Group("")
	secured.Use(h.IdentityMiddleware())

	incidents := secured.Group("/incidents")
	{
		// Анонимные экстренные вызовы ограничиваются по адресу клиента
		incidents.POST("", h.PanicRateLimitMiddleware(), h.reportIncident)
		incidents.GET("", h.listIncidents)
		incidents.GET("/:id", h.getIncident)
		incidents.POST("/:id/acknowledge", h.acknowledgeIncident)
		incidents.POST("/:id/escalate", h.escalateIncident)
		incidents.POST("/:id/cancel", h.cancelIncident)
		incidents.POST("/:id/accept", h.acceptIncident)
		incidents.POST("/:id/dispatch", h.dispatchVolunteer)
		incidents.GET("/:id/assignments", h.listIncidentAssignments)
	}

	assignments := secured.Group("/assignments")
	{
		assignments.GET("/:id", h.getAssignment)
		assignments.POST("/:id/advance", h.advanceAssignment)
		assignments.POST("/:id/drop", h.dropAssignment)
	}

	volunteers := secured.Group("/volunteers")
	{
		volunteers.GET("/eligible", h.findEligibleVolunteers)
		volunteers.PUT("/me/location", h.updateLocation)
		volunteers.PUT("/me/availability", h.setAvailability)
		volunteers.PUT("/:id", h.registerVolunteer)
		volunteers.GET("/:id", h.getVolunteer)
		volunteers.POST("/:id/verify", h.verifyVolunteer)
	}

	disasters := secured.Group("/disasters")
	{
		disasters.POST("", h.declareDisaster)
		disasters.POST("/:id/resolve", h.resolveDisaster)
		disasters.POST("/:id/activations", h.activateTeam)
		disasters.GET("/:id/activations", h.listActivations)
	}
	secured.DELETE("/activations/:id", h.withdrawActivation)
}
