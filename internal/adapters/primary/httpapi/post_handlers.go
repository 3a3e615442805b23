package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jupiterclapton/circle/internal/core/domain"
	"github.com/jupiterclapton/circle/internal/core/services"
)

type createPostRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *Handler) createPost(c *gin.Context) {
	h.handleCreatePost(c, domain.PrivacyPublic)
}

func (h *Handler) createPrivatePost(c *gin.Context) {
	h.handleCreatePost(c, domain.PrivacyFriends)
}

func (h *Handler) handleCreatePost(c *gin.Context, privacy domain.Privacy) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Text is required")
		return
	}

	post, err := h.posts.CreatePost(c.Request.Context(), callerID(c), req.Text, privacy)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toPostView(post))
}

func (h *Handler) listPosts(c *gin.Context) {
	limit := services.DefaultPageSize
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			badRequest(c, "Invalid limit")
			return
		}
		limit = parsed
	}

	posts, nextCursor, err := h.visibility.ListVisible(c.Request.Context(), callerID(c), limit, c.Query("cursor"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":       toPostViews(posts),
		"next_cursor": nextCursor,
	})
}

func (h *Handler) getPost(c *gin.Context) {
	post, err := h.visibility.GetPost(c.Request.Context(), callerID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toPostView(post))
}

func (h *Handler) deletePost(c *gin.Context) {
	if err := h.posts.DeletePost(c.Request.Context(), c.Param("id"), callerID(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Post removed"})
}

// ensureViewable applique la règle de visibilité avant tout engagement :
// un post privé qu'on ne peut pas lire ne se like ni ne se commente, et
// le refus reste un 404 (le post ne doit pas trahir son existence).
func (h *Handler) ensureViewable(c *gin.Context, postID string) bool {
	if _, err := h.visibility.GetPost(c.Request.Context(), callerID(c), postID); err != nil {
		fail(c, err)
		return false
	}
	return true
}

func (h *Handler) likePost(c *gin.Context) {
	if !h.ensureViewable(c, c.Param("id")) {
		return
	}
	likes, err := h.engagement.Like(c.Request.Context(), callerID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toLikeViews(likes))
}

func (h *Handler) unlikePost(c *gin.Context) {
	if !h.ensureViewable(c, c.Param("id")) {
		return
	}
	likes, err := h.engagement.Unlike(c.Request.Context(), callerID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toLikeViews(likes))
}

type commentRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *Handler) addComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Text is required")
		return
	}

	if !h.ensureViewable(c, c.Param("id")) {
		return
	}
	comments, err := h.engagement.AddComment(c.Request.Context(), callerID(c), c.Param("id"), req.Text)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toCommentViews(comments))
}

func (h *Handler) deleteComment(c *gin.Context) {
	if !h.ensureViewable(c, c.Param("id")) {
		return
	}
	comments, err := h.engagement.DeleteComment(c.Request.Context(), callerID(c), c.Param("id"), c.Param("comment_id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toCommentViews(comments))
}
