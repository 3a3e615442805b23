package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jupiterclapton/circle/internal/core/domain"
	"github.com/jupiterclapton/circle/internal/core/ports"
)

func (h *Handler) myProfile(c *gin.Context) {
	profile, err := h.profiles.GetMine(c.Request.Context(), callerID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toProfileView(profile))
}

type upsertProfileRequest struct {
	Status         string `json:"status" binding:"required"`
	Skills         string `json:"skills" binding:"required"` // liste séparée par des virgules, comme le client historique
	Bio            string `json:"bio"`
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	GithubUsername string `json:"githubusername"`
	Youtube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	Linkedin       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
}

func (h *Handler) upsertProfile(c *gin.Context) {
	var req upsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Status and skills are required")
		return
	}

	skills := []string{}
	for _, s := range strings.Split(req.Skills, ",") {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			skills = append(skills, trimmed)
		}
	}

	profile, err := h.profiles.Upsert(c.Request.Context(), ports.UpsertProfileCmd{
		UserID:         callerID(c),
		Status:         req.Status,
		Skills:         skills,
		Bio:            req.Bio,
		Company:        req.Company,
		Website:        req.Website,
		Location:       req.Location,
		GithubUsername: req.GithubUsername,
		Social: domain.SocialLinks{
			Youtube:   req.Youtube,
			Twitter:   req.Twitter,
			Facebook:  req.Facebook,
			Linkedin:  req.Linkedin,
			Instagram: req.Instagram,
		},
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toProfileView(profile))
}

func (h *Handler) allProfiles(c *gin.Context) {
	profiles, err := h.profiles.ListAll(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toProfileViews(profiles))
}

func (h *Handler) profileByUser(c *gin.Context) {
	profile, err := h.profiles.GetByUserID(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toProfileView(profile))
}

func (h *Handler) deleteAccount(c *gin.Context) {
	if err := h.profiles.DeleteAccount(c.Request.Context(), callerID(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "User deleted"})
}

// --- EXPÉRIENCE / FORMATION ---

type experienceRequest struct {
	Title       string    `json:"title" binding:"required"`
	Company     string    `json:"company" binding:"required"`
	Location    string    `json:"location"`
	From        time.Time `json:"from" binding:"required"`
	To          time.Time `json:"to"`
	Current     bool      `json:"current"`
	Description string    `json:"description"`
}

func (h *Handler) addExperience(c *gin.Context) {
	var req experienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Title, company and from date are required")
		return
	}

	profile, err := h.profiles.AddExperience(c.Request.Context(), callerID(c), domain.Experience{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        req.From,
		To:          req.To,
		Current:     req.Current,
		Description: req.Description,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toProfileView(profile))
}

func (h *Handler) removeExperience(c *gin.Context) {
	profile, err := h.profiles.RemoveExperience(c.Request.Context(), callerID(c), c.Param("exp_id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toProfileView(profile))
}

type educationRequest struct {
	School       string    `json:"school" binding:"required"`
	Degree       string    `json:"degree" binding:"required"`
	FieldOfStudy string    `json:"fieldofstudy" binding:"required"`
	From         time.Time `json:"from" binding:"required"`
	To           time.Time `json:"to"`
	Current      bool      `json:"current"`
	Description  string    `json:"description"`
}

func (h *Handler) addEducation(c *gin.Context) {
	var req educationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "School, degree, field of study and from date are required")
		return
	}

	profile, err := h.profiles.AddEducation(c.Request.Context(), callerID(c), domain.Education{
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         req.From,
		To:           req.To,
		Current:      req.Current,
		Description:  req.Description,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toProfileView(profile))
}

func (h *Handler) removeEducation(c *gin.Context) {
	profile, err := h.profiles.RemoveEducation(c.Request.Context(), callerID(c), c.Param("edu_id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toProfileView(profile))
}

// --- GRAPHE D'AMITIÉ ---

func (h *Handler) listFriends(c *gin.Context) {
	friends, err := h.friends.Friends(c.Request.Context(), callerID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserViews(friends))
}

func (h *Handler) listFriendRequests(c *gin.Context) {
	requesters, err := h.friends.PendingRequests(c.Request.Context(), callerID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserViews(requesters))
}

func (h *Handler) availableUsers(c *gin.Context) {
	users, err := h.friends.AvailableUsers(c.Request.Context(), callerID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserViews(users))
}

type friendRequestBody struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *Handler) sendFriendRequest(c *gin.Context) {
	var req friendRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Please include a valid email")
		return
	}

	if err := h.friends.SendRequest(c.Request.Context(), callerID(c), req.Email); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Friend request sent"})
}

func (h *Handler) acceptFriendRequest(c *gin.Context) {
	var req friendRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Please include a valid email")
		return
	}

	if err := h.friends.AcceptRequest(c.Request.Context(), callerID(c), req.Email); err != nil {
		fail(c, err)
		return
	}

	// Réponse : la liste d'amis à jour de l'accepteur.
	friends, err := h.friends.Friends(c.Request.Context(), callerID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserViews(friends))
}
