package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jupiterclapton/circle/internal/core/ports"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Handler regroupe les ports primaires que l'API expose.
type Handler struct {
	identity   ports.IdentityService
	friends    ports.FriendGraphService
	posts      ports.PostService
	visibility ports.VisibilityService
	engagement ports.EngagementService
	profiles   ports.ProfileService
}

func NewHandler(
	identity ports.IdentityService,
	friends ports.FriendGraphService,
	posts ports.PostService,
	visibility ports.VisibilityService,
	engagement ports.EngagementService,
	profiles ports.ProfileService,
) *Handler {
	return &Handler{
		identity:   identity,
		friends:    friends,
		posts:      posts,
		visibility: visibility,
		engagement: engagement,
		profiles:   profiles,
	}
}

// Router assemble l'API sous /api, au plus près des routes historiques.
func (h *Handler) Router(serviceName string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(RequestTimeout(requestTimeout))
	router.Use(RequestLogger())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	// Public
	api.POST("/users", h.register)
	api.POST("/auth", h.login)

	authed := api.Group("", AuthRequired(h.identity))
	{
		authed.GET("/auth", h.me)

		profile := authed.Group("/profile")
		{
			profile.GET("/me", h.myProfile)
			profile.POST("", h.upsertProfile)
			profile.GET("", h.allProfiles)
			profile.GET("/user/:user_id", h.profileByUser)
			profile.DELETE("", h.deleteAccount)

			profile.PUT("/experience", h.addExperience)
			profile.DELETE("/experience/:exp_id", h.removeExperience)
			profile.PUT("/education", h.addEducation)
			profile.DELETE("/education/:edu_id", h.removeEducation)

			profile.GET("/friends", h.listFriends)
			profile.GET("/friendRequests", h.listFriendRequests)
			profile.GET("/availableUsers", h.availableUsers)
			profile.POST("/sendFriendRequest", h.sendFriendRequest)
			profile.POST("/acceptFriendRequest", h.acceptFriendRequest)
		}

		posts := authed.Group("/posts")
		{
			posts.POST("", h.createPost)
			posts.POST("/private", h.createPrivatePost)
			posts.GET("", h.listPosts)
			posts.GET("/:id", h.getPost)
			posts.DELETE("/:id", h.deletePost)

			posts.PUT("/like/:id", h.likePost)
			posts.PUT("/unlike/:id", h.unlikePost)
			posts.POST("/comment/:id", h.addComment)
			posts.DELETE("/comment/:id/:comment_id", h.deleteComment)
		}
	}

	return router
}
