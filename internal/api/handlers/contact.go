package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wavechat/wavechat-backend/internal/services"
	"github.com/wavechat/wavechat-backend/internal/utils"
)

type ContactHandler struct {
	contactService *services.ContactService
}

func NewContactHandler(contactService *services.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

func sendContactError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidContact):
		utils.SendError(c, http.StatusBadRequest, message, err)
	case errors.Is(err, services.ErrContactNotFound):
		utils.SendError(c, http.StatusNotFound, message, err)
	default:
		utils.SendInternalError(c, message, errors.New("unexpected error"))
	}
}

func (h *ContactHandler) SubmitContact(c *gin.Context) {
	var req services.SubmitContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	contact, err := h.contactService.SubmitContact(c.Request.Context(), req)
	if err != nil {
		sendContactError(c, "Failed to submit contact", err)
		return
	}

	utils.SendSuccess(c, "Contact submitted successfully", contact)
}

func (h *ContactHandler) GetContacts(c *gin.Context) {
	var filter services.ContactFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.SendValidationError(c, "Invalid filter parameters")
		return
	}

	contacts, err := h.contactService.GetContacts(c.Request.Context(), filter)
	if err != nil {
		sendContactError(c, "Failed to fetch contacts", err)
		return
	}

	utils.SendSuccess(c, "Contacts retrieved successfully", contacts)
}

func (h *ContactHandler) UpdateContact(c *gin.Context) {
	// contact_completed is required; a missing boolean is a client error,
	// not a default to false.
	var req struct {
		ContactCompleted *bool `json:"contact_completed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ContactCompleted == nil {
		utils.SendValidationError(c, "contact_completed is required")
		return
	}

	contact, err := h.contactService.MarkCompleted(c.Request.Context(), c.Param("id"), *req.ContactCompleted)
	if err != nil {
		sendContactError(c, "Failed to update contact", err)
		return
	}

	utils.SendSuccess(c, "Contact updated successfully", contact)
}
