package http

import (
	"net/http"
	"regexp"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"village/internal/domain"
)

func TestUnitDelete(t *testing.T) {
	setup := func(t *testing.T) (*testServer, string, UnitResponse, TicketResponse) {
		s := newTestServer(t)
		_, admin := s.account(t, "admin@example.com", domain.RoleAdmin)
		_, ana := s.account(t, "ana@example.com", domain.RoleResident)

		w := s.do(t, http.MethodPost, "/api/units", admin, gin.H{"code": "A-101", "area_m2": 72.5})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var unit UnitResponse
		decode(t, w, &unit)

		w = s.do(t, http.MethodPost, "/api/tickets", ana, gin.H{
			"unit_id": unit.ID, "title": "Leak", "description": "Kitchen sink drips",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var ticket TicketResponse
		decode(t, w, &ticket)
		return s, admin, unit, ticket
	}

	t.Run("Should refuse without detach and leave data unchanged", func(t *testing.T) {
		s, admin, unit, ticket := setup(t)

		w := s.do(t, http.MethodDelete, "/api/units/"+itoa(unit.ID), admin, nil)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "unit is still referenced by other records", errorMessage(t, w))

		assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/units/"+itoa(unit.ID), admin, nil).Code)
		w = s.do(t, http.MethodGet, "/api/tickets/"+itoa(ticket.ID), admin, nil)
		var got TicketResponse
		decode(t, w, &got)
		require.NotNil(t, got.UnitID)
		assert.Equal(t, unit.ID, *got.UnitID)
	})

	t.Run("Should null references and delete with detach", func(t *testing.T) {
		s, admin, unit, ticket := setup(t)

		w := s.do(t, http.MethodDelete, "/api/units/"+itoa(unit.ID)+"?detach=true", admin, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/units/"+itoa(unit.ID), admin, nil).Code)
		w = s.do(t, http.MethodGet, "/api/tickets/"+itoa(ticket.ID), admin, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var got TicketResponse
		decode(t, w, &got)
		assert.Nil(t, got.UnitID)
	})

	t.Run("Should reject an invalid detach flag", func(t *testing.T) {
		s, admin, unit, _ := setup(t)
		w := s.do(t, http.MethodDelete, "/api/units/"+itoa(unit.ID)+"?detach=maybe", admin, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUnitUpdate(t *testing.T) {
	s := newTestServer(t)
	_, admin := s.account(t, "admin@example.com", domain.RoleAdmin)
	ana, _ := s.account(t, "ana@example.com", domain.RoleResident)

	w := s.do(t, http.MethodPost, "/api/units", admin, gin.H{"code": "A-101", "owner_id": ana.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var unit UnitResponse
	decode(t, w, &unit)
	require.NotNil(t, unit.OwnerID)

	w = s.do(t, http.MethodPut, "/api/units/"+itoa(unit.ID), admin, gin.H{"owner_id": nil})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &unit)
	assert.Nil(t, unit.OwnerID)
	assert.Equal(t, "A-101", unit.Code)

	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/units", admin, gin.H{"code": "B-202"}).Code)
	w = s.do(t, http.MethodPut, "/api/units/"+itoa(unit.ID), admin, gin.H{"code": "B-202"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPut, "/api/units/"+itoa(unit.ID), admin, gin.H{"owner_id": 999})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPut, "/api/units/999", admin, gin.H{"area_m2": 10}).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/units/abc", admin, nil).Code)
}

func TestTickets(t *testing.T) {
	s := newTestServer(t)
	_, admin := s.account(t, "admin@example.com", domain.RoleAdmin)
	ana, anaToken := s.account(t, "ana@example.com", domain.RoleResident)

	w := s.do(t, http.MethodPost, "/api/tickets", anaToken, gin.H{"title": "Lift", "description": "Stuck on 3rd floor"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var ticket TicketResponse
	decode(t, w, &ticket)
	assert.Equal(t, ana.ID, ticket.UserID)
	assert.Equal(t, domain.TicketOpen, ticket.Status)
	path := "/api/tickets/" + itoa(ticket.ID)

	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPut, path, anaToken, gin.H{"status": "closed"}).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPut, path, admin, gin.H{"status": "done"}).Code)

	w = s.do(t, http.MethodPut, path, admin, gin.H{"status": "in_progress"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &ticket)
	assert.Equal(t, domain.TicketInProgress, ticket.Status)
	assert.Equal(t, "Lift", ticket.Title)

	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodDelete, path, anaToken, nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, path, admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, path, admin, nil).Code)
}

func TestVisitors(t *testing.T) {
	s := newTestServer(t)
	_, admin := s.account(t, "admin@example.com", domain.RoleAdmin)
	ana, anaToken := s.account(t, "ana@example.com", domain.RoleResident)

	w := s.do(t, http.MethodPost, "/api/visitors", anaToken, gin.H{"visitor_name": "Carlos", "id_number": "X123"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var visitor VisitorResponse
	decode(t, w, &visitor)
	assert.Equal(t, ana.ID, visitor.ResidentID)
	require.NotNil(t, visitor.IDNumber)
	assert.Equal(t, "X123", *visitor.IDNumber)

	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/api/visitors", anaToken, nil).Code)

	w = s.do(t, http.MethodGet, "/api/visitors", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all []VisitorResponse
	decode(t, w, &all)
	assert.Len(t, all, 1)

	// the visitor log references the resident, so the account cannot be removed
	assert.Equal(t, http.StatusConflict, s.do(t, http.MethodDelete, "/api/users/"+itoa(ana.ID), admin, nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/api/visitors/"+itoa(visitor.ID), admin, nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/api/users/"+itoa(ana.ID), admin, nil).Code)
}

func TestPayments(t *testing.T) {
	s := newTestServer(t)
	_, admin := s.account(t, "admin@example.com", domain.RoleAdmin)
	ana, anaToken := s.account(t, "ana@example.com", domain.RoleResident)

	w := s.do(t, http.MethodPost, "/api/payments", anaToken, gin.H{"amount": 120.5})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var payment PaymentResponse
	decode(t, w, &payment)
	assert.Regexp(t, regexp.MustCompile(`^RCPT-\d+$`), payment.Receipt)
	assert.Equal(t, domain.DefaultPaymentMethod, payment.Method)
	assert.Equal(t, ana.ID, payment.UserID)
	assert.False(t, payment.Archived)
	path := "/api/payments/" + itoa(payment.ID)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/payments", anaToken, gin.H{"amount": 0}).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/payments", anaToken, gin.H{"amount": -5}).Code)

	// no archive configured
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, path+"/receipt", anaToken, nil).Code)

	w = s.do(t, http.MethodGet, "/api/payments/receipts", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodDelete, path, anaToken, nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, path, admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, path, anaToken, nil).Code)
}

func TestUsersAdmin(t *testing.T) {
	s := newTestServer(t)
	_, admin := s.account(t, "admin@example.com", domain.RoleAdmin)

	w := s.do(t, http.MethodPost, "/api/users", admin, gin.H{
		"name": "Second admin", "email": "second@example.com", "password": testPassword, "role": "admin",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created UserResponse
	decode(t, w, &created)
	assert.Equal(t, domain.RoleAdmin, created.Role)

	w = s.do(t, http.MethodPost, "/api/users", admin, gin.H{
		"name": "X", "email": "x@example.com", "password": testPassword, "role": "superuser",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPut, "/api/users/"+itoa(created.ID), admin, gin.H{"role": "owner"}).Code)

	w = s.do(t, http.MethodPut, "/api/users/"+itoa(created.ID), admin, gin.H{"role": "resident", "name": "Demoted"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &created)
	assert.Equal(t, domain.RoleResident, created.Role)
	assert.Equal(t, "Demoted", created.Name)

	w = s.do(t, http.MethodGet, "/api/users", admin, nil)
	var all []UserResponse
	decode(t, w, &all)
	assert.Len(t, all, 2)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/api/users/"+itoa(created.ID), admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/users/"+itoa(created.ID), admin, nil).Code)
}

func TestOperationalRoutes(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	w = s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "village_http_requests_total")
}
