package controller

import (
	"net/http"
	"testing"

	"github.com/Itish41/InnovationTracker/models"
	services "github.com/Itish41/InnovationTracker/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCreateContact(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(h *harness)
		wantStatus int
		wantError  string
	}{
		{
			name: "success defaults",
			body: `{"first_name": " Grace ", "last_name": "Hopper", "email": "grace@example.com", "type_name": "business_owner", "is_primary": true}`,
			setup: func(h *harness) {
				h.contacts.On("Create", mock.Anything, uint(1), services.ContactInput{
					UserInput: services.UserInput{FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com"},
					TypeName:  models.UserTypeBusinessOwner,
					IsPrimary: true,
				}).Return(&models.InitiativeUserView{ID: 4, FirstName: "Grace", TypeName: models.UserTypeBusinessOwner, IsPrimary: true}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing names",
			body:       `{"email": "grace@example.com"}`,
			setup:      func(h *harness) {},
			wantStatus: http.StatusBadRequest,
			wantError:  "Validation Error",
		},
		{
			name:       "unknown type",
			body:       `{"first_name": "Grace", "last_name": "Hopper", "type_name": "SPONSOR"}`,
			setup:      func(h *harness) {},
			wantStatus: http.StatusBadRequest,
			wantError:  "Validation Error",
		},
		{
			name: "initiative missing",
			body: `{"first_name": "Grace", "last_name": "Hopper"}`,
			setup: func(h *harness) {
				h.contacts.On("Create", mock.Anything, uint(1), mock.Anything).Return(nil, services.ErrInitiativeNotFound)
			},
			wantStatus: http.StatusNotFound,
			wantError:  "Not Found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			tt.setup(h)

			w := h.do(http.MethodPost, "/api/initiatives/1/contacts", tt.body, nil)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decode(t, w)["error"])
			}
		})
	}
}

func TestGetContacts(t *testing.T) {
	h := newHarness(t)
	h.contacts.On("List", mock.Anything, uint(2)).Return([]models.InitiativeUserView{
		{ID: 1, TypeName: models.UserTypeSubmitter, IsPrimary: true},
		{ID: 2, TypeName: models.UserTypeContact},
	}, nil)

	w := h.do(http.MethodGet, "/api/initiatives/2/contacts", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decode(t, w)["count"])
}

func TestUpdateContact(t *testing.T) {
	h := newHarness(t)
	primary := true
	h.contacts.On("Update", mock.Anything, uint(1), uint(4), mock.MatchedBy(func(upd services.ContactUpdate) bool {
		return upd.IsPrimary != nil && *upd.IsPrimary == primary &&
			upd.TypeName != nil && *upd.TypeName == models.UserTypeITOwner &&
			upd.FirstName == nil
	})).Return(&models.InitiativeUserView{ID: 4, TypeName: models.UserTypeITOwner, IsPrimary: true}, nil)

	w := h.do(http.MethodPatch, "/api/initiatives/1/contacts/4", `{"type_name": "it_owner", "is_primary": true}`, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Contact updated successfully", decode(t, w)["message"])
}

func TestUpdateContact_Mismatch(t *testing.T) {
	h := newHarness(t)
	h.contacts.On("Update", mock.Anything, uint(1), uint(4), mock.Anything).Return(nil, services.ErrContactMismatch)

	w := h.do(http.MethodPatch, "/api/initiatives/1/contacts/4", `{"phone": "555-0100"}`, nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Forbidden", decode(t, w)["error"])
}

func TestDeleteContact(t *testing.T) {
	h := newHarness(t)
	h.contacts.On("Delete", mock.Anything, uint(1), uint(4)).Return(nil)
	h.contacts.On("Delete", mock.Anything, uint(1), uint(5)).Return(services.ErrContactNotFound)

	w := h.do(http.MethodDelete, "/api/initiatives/1/contacts/4", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = h.do(http.MethodDelete, "/api/initiatives/1/contacts/5", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Contact with ID 5 not found", decode(t, w)["message"])
}
