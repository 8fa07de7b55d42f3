package api

import (
	"github.com/gin-gonic/gin"

	"shopware-backend/internal/models"
	"shopware-backend/internal/services"
)

// IntakeHandlers handles contact and job application endpoints
type IntakeHandlers struct {
	intakeService *services.IntakeService
}

// NewIntakeHandlers creates new intake handlers
func NewIntakeHandlers(intakeService *services.IntakeService) *IntakeHandlers {
	return &IntakeHandlers{intakeService: intakeService}
}

// CreateContact handles POST /contact
func (h *IntakeHandlers) CreateContact(c *gin.Context) {
	var req models.ContactCreation
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid contact data: "+err.Error())
		return
	}

	contact, err := h.intakeService.CreateContact(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, contact)
}

// ListContacts handles GET /admin/contacts
func (h *IntakeHandlers) ListContacts(c *gin.Context) {
	contacts, err := h.intakeService.ListContacts()
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, contacts)
}

// UpdateContactStatus handles PATCH /admin/contacts/:id
func (h *IntakeHandlers) UpdateContactStatus(c *gin.Context) {
	var req struct {
		Status models.ContactStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "status required")
		return
	}

	if err := h.intakeService.UpdateContactStatus(c.Param("id"), req.Status); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "Contact updated")
}

// DeleteContact handles DELETE /admin/contacts/:id
func (h *IntakeHandlers) DeleteContact(c *gin.Context) {
	if err := h.intakeService.DeleteContact(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "Contact deleted")
}

// CreateJobApplication handles POST /jobs/apply
func (h *IntakeHandlers) CreateJobApplication(c *gin.Context) {
	var req models.JobApplicationCreation
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid application data: "+err.Error())
		return
	}

	application, err := h.intakeService.CreateJobApplication(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, application)
}

// ListJobApplications handles GET /admin/job-applications
func (h *IntakeHandlers) ListJobApplications(c *gin.Context) {
	applications, err := h.intakeService.ListJobApplications()
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, applications)
}

// UpdateApplicationStatus handles PATCH /admin/job-applications/:id
func (h *IntakeHandlers) UpdateApplicationStatus(c *gin.Context) {
	var req struct {
		Status models.ApplicationStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "status required")
		return
	}

	if err := h.intakeService.UpdateApplicationStatus(c.Param("id"), req.Status); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "Application updated")
}

// DeleteJobApplication handles DELETE /admin/job-applications/:id
func (h *IntakeHandlers) DeleteJobApplication(c *gin.Context) {
	if err := h.intakeService.DeleteJobApplication(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "Application deleted")
}
