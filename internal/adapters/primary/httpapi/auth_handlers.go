package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jupiterclapton/circle/internal/core/ports"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "name, valid email and password (6+ chars) are required")
		return
	}

	resp, err := h.identity.Register(c.Request.Context(), ports.RegisterCmd{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": resp.Token, "user": toUserView(resp.User)})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Please include a valid email and password")
		return
	}

	resp, err := h.identity.Login(c.Request.Context(), ports.LoginCmd{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": resp.Token})
}

// me retourne l'utilisateur courant, sans le hash de mot de passe
// (la vue ne l'expose pas).
func (h *Handler) me(c *gin.Context) {
	user, err := h.identity.GetUser(c.Request.Context(), callerID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserView(user))
}
