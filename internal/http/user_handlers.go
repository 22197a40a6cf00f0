package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"village/internal/domain"
	"village/internal/service"
)

type createUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty,condo_role"`
}

type updateUserRequest struct {
	Name     domain.Optional[string] `json:"name"`
	Email    domain.Optional[string] `json:"email"`
	Password domain.Optional[string] `json:"password"`
	Role     domain.Optional[string] `json:"role"`
	Active   domain.Optional[bool]   `json:"is_active"`
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(users, userToResponse))
}

func (h *Handler) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	in := service.CreateUserInput{Name: req.Name, Email: req.Email, Password: req.Password}
	if req.Role != "" {
		role, err := domain.ParseRole(req.Role)
		if err != nil {
			h.writeError(c, err)
			return
		}
		in.Role = role
	}

	user, err := h.users.Create(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, userToResponse(*user))
}

func (h *Handler) getUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(*user))
}

func (h *Handler) updateUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	if req.Role.Set {
		if err := validateVar("role", req.Role.Value, "condo_role"); err != nil {
			h.writeError(c, err)
			return
		}
	}

	user, err := h.users.Update(c.Request.Context(), id, service.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Active:   req.Active,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(*user))
}

func (h *Handler) deleteUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
