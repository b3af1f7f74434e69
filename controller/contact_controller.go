package controller

import (
	"net/http"
	"strings"

	services "github.com/Itish41/InnovationTracker/service"
	"github.com/gin-gonic/gin"
)

type createContactRequest struct {
	FirstName  string `json:"first_name" validate:"required,max=100"`
	LastName   string `json:"last_name" validate:"required,max=100"`
	Email      string `json:"email" validate:"omitempty,email,max=255"`
	Phone      string `json:"phone" validate:"max=50"`
	Department string `json:"department" validate:"max=100"`
	Function   string `json:"function" validate:"max=100"`
	TypeName   string `json:"type_name" validate:"omitempty,oneof=SUBMITTER BUSINESS_OWNER IT_OWNER CONTACT REVIEWER"`
	IsPrimary  bool   `json:"is_primary"`
}

func (r *createContactRequest) trim() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Department = strings.TrimSpace(r.Department)
	r.Function = strings.TrimSpace(r.Function)
	r.TypeName = strings.ToUpper(strings.TrimSpace(r.TypeName))
}

type updateContactRequest struct {
	FirstName  *string `json:"first_name" validate:"omitempty,max=100"`
	LastName   *string `json:"last_name" validate:"omitempty,max=100"`
	Email      *string `json:"email" validate:"omitempty,email,max=255"`
	Phone      *string `json:"phone" validate:"omitempty,max=50"`
	Department *string `json:"department" validate:"omitempty,max=100"`
	Function   *string `json:"function" validate:"omitempty,max=100"`
	TypeName   *string `json:"type_name" validate:"omitempty,oneof=SUBMITTER BUSINESS_OWNER IT_OWNER CONTACT REVIEWER"`
	IsPrimary  *bool   `json:"is_primary"`
}

// GetContacts handles GET /api/initiatives/:id/contacts.
func (ctl *InitiativeController) GetContacts(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	contacts, err := ctl.contacts.List(c.Request.Context(), id)
	if err != nil {
		ctl.respondError(c, err, "fetch contacts")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"count":    len(contacts),
		"contacts": contacts,
	})
}

// CreateContact handles POST /api/initiatives/:id/contacts.
func (ctl *InitiativeController) CreateContact(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req createContactRequest
	if !bindJSON(c, &req) {
		return
	}
	req.trim()
	if !validateRequest(c, &req) {
		return
	}

	contact, err := ctl.contacts.Create(c.Request.Context(), id, services.ContactInput{
		UserInput: services.UserInput{
			FirstName:  req.FirstName,
			LastName:   req.LastName,
			Email:      req.Email,
			Phone:      req.Phone,
			Department: req.Department,
			Function:   req.Function,
		},
		TypeName:  req.TypeName,
		IsPrimary: req.IsPrimary,
	})
	if err != nil {
		ctl.respondError(c, err, "create contact")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Contact created successfully",
		"contact": contact,
	})
}

// UpdateContact handles PATCH /api/initiatives/:id/contacts/:contactId.
func (ctl *InitiativeController) UpdateContact(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	contactID, ok := parseID(c, "contactId")
	if !ok {
		return
	}

	var req updateContactRequest
	if !bindJSON(c, &req) {
		return
	}
	trimPtr(req.FirstName, false)
	trimPtr(req.LastName, false)
	trimPtr(req.Email, false)
	trimPtr(req.TypeName, true)
	if !validateRequest(c, &req) {
		return
	}

	contact, err := ctl.contacts.Update(c.Request.Context(), id, contactID, services.ContactUpdate{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Phone:      req.Phone,
		Department: req.Department,
		Function:   req.Function,
		TypeName:   req.TypeName,
		IsPrimary:  req.IsPrimary,
	})
	if err != nil {
		ctl.respondError(c, err, "update contact")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Contact updated successfully",
		"contact": contact,
	})
}

// DeleteContact handles DELETE /api/initiatives/:id/contacts/:contactId.
func (ctl *InitiativeController) DeleteContact(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	contactID, ok := parseID(c, "contactId")
	if !ok {
		return
	}

	if err := ctl.contacts.Delete(c.Request.Context(), id, contactID); err != nil {
		ctl.respondError(c, err, "delete contact")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Contact deleted successfully",
	})
}
