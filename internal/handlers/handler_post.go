package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mvtechguy/islandvault/internal/apperrors"
	portssvc "github.com/mvtechguy/islandvault/internal/core/ports/services"
	"github.com/mvtechguy/islandvault/internal/dto"
	"github.com/mvtechguy/islandvault/internal/middleware"
)

// postHandler handles HTTP requests related to partner-seeking posts.
type postHandler struct {
	postService portssvc.PostSvcFacade
}

func newPostHandler(ps portssvc.PostSvcFacade) *postHandler {
	return &postHandler{postService: ps}
}

// registerPostRoutes registers routes related to posts.
func registerPostRoutes(rg *gin.RouterGroup, postService portssvc.PostSvcFacade) {
	h := newPostHandler(postService)

	posts := rg.Group("/posts")
	{
		posts.POST("", h.createPost)
		posts.GET("", h.listApprovedPosts)
		posts.GET("/mine", h.listMyPosts)
	}
}

// createPost godoc
// @Summary Publish a partner-seeking post
// @Description Charges the post cost and stores the post in PENDING, atomically
// @Tags posts
// @Accept  json
// @Produce  json
// @Param   post body dto.CreatePostRequest true "Post details"
// @Success 201 {object} dto.PostResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 402 {object} map[string]string "Insufficient coin balance"
// @Failure 403 {object} map[string]string "Profile not approved"
// @Failure 500 {object} map[string]string "Failed to create post"
// @Security BearerAuth
// @Router /posts [post]
func (h *postHandler) createPost(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePost", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	ownerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	post, err := h.postService.CreatePost(c.Request.Context(), ownerID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotEligible) {
			logger.Warn("Post creation blocked: profile not approved")
			c.JSON(http.StatusForbidden, gin.H{"error": "Profile must be approved before posting"})
		} else if errors.Is(err, apperrors.ErrInsufficientBalance) {
			logger.Warn("Post creation blocked: insufficient balance")
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "Insufficient coin balance"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating post", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create post in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		}
		return
	}

	logger.Info("Post created successfully", slog.String("post_id", post.PostID))
	c.JSON(http.StatusCreated, dto.ToPostResponse(*post))
}

// listApprovedPosts godoc
// @Summary List publicly visible posts
// @Description Retrieves APPROVED posts, newest first
// @Tags posts
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListPostsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list posts"
// @Security BearerAuth
// @Router /posts [get]
func (h *postHandler) listApprovedPosts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListQuery
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListApprovedPosts", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	posts, nextToken, err := h.postService.ListApprovedPosts(c.Request.Context(), params.Limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list approved posts from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list posts"})
		return
	}

	c.JSON(http.StatusOK, dto.ListPostsResponse{Posts: dto.ToPostResponseSlice(posts), NextToken: nextToken})
}

// listMyPosts godoc
// @Summary List the caller's own posts
// @Description Retrieves the caller's posts in every moderation status, newest first
// @Tags posts
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListPostsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list posts"
// @Security BearerAuth
// @Router /posts/mine [get]
func (h *postHandler) listMyPosts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	ownerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListQuery
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListMyPosts", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	posts, nextToken, err := h.postService.ListMyPosts(c.Request.Context(), ownerID, params.Limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list own posts from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list posts"})
		return
	}

	c.JSON(http.StatusOK, dto.ListPostsResponse{Posts: dto.ToPostResponseSlice(posts), NextToken: nextToken})
}
