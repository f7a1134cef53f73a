package handler

import (
	"net/http"
	"newsjam-server/internal/common/httpx"
	"newsjam-server/internal/dto"
	"newsjam-server/internal/middleware"
	"newsjam-server/internal/repository"
	"newsjam-server/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (h *PostHandler) CreatePost(c *gin.Context) {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户信息"})
		return
	}

	var req struct {
		Title    string  `json:"title" binding:"required"`
		Content  string  `json:"content"`
		URL      *string `json:"url"`
		Likes    int     `json:"likes"`
		Dislikes int     `json:"dislikes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数格式错误"})
		return
	}

	post, err := h.postService.CreatePost(c.Request.Context(), uid, service.PostDraft{
		Title:    req.Title,
		Content:  req.Content,
		URL:      req.URL,
		Likes:    req.Likes,
		Dislikes: req.Dislikes,
	})
	if err != nil {
		httpx.WriteServiceError(c, err, "帖子创建失败，请稍后重试")
		return
	}

	c.JSON(http.StatusOK, dto.NewPostRead(post))
}

func (h *PostHandler) GetPost(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	post, err := h.postService.GetPost(id)
	if err != nil {
		httpx.WriteServiceError(c, err, "获取帖子失败")
		return
	}

	c.JSON(http.StatusOK, dto.NewPostRead(post))
}

func (h *PostHandler) GetAllPosts(c *gin.Context) {
	pageStr := c.DefaultQuery("page", "1")
	limitStr := c.DefaultQuery("limit", strconv.Itoa(repository.DefaultPageLimit))

	page, _ := strconv.Atoi(pageStr)
	limit, _ := strconv.Atoi(limitStr)

	posts, err := h.postService.ListPosts(page, limit)
	if err != nil {
		httpx.WriteServiceError(c, err, "获取帖子列表失败")
		return
	}

	c.JSON(http.StatusOK, dto.NewPostReadList(posts))
}

// GetMyPosts 返回当前用户的全部帖子，最新的在前。
func (h *PostHandler) GetMyPosts(c *gin.Context) {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户信息"})
		return
	}

	posts, err := h.postService.ListUserPosts(uid)
	if err != nil {
		httpx.WriteServiceError(c, err, "获取帖子列表失败")
		return
	}

	c.JSON(http.StatusOK, dto.NewPostReadList(posts))
}

func (h *PostHandler) UpdatePost(c *gin.Context) {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户信息"})
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Title   string `json:"title" binding:"required"`
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数格式错误"})
		return
	}

	if err := h.postService.UpdatePost(id, uid, req.Title, req.Content); err != nil {
		httpx.WriteServiceError(c, err, "帖子更新失败，请稍后重试")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户信息"})
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.postService.DeletePost(id, uid); err != nil {
		httpx.WriteServiceError(c, err, "帖子删除失败，请稍后重试")
		return
	}

	c.Status(http.StatusNoContent)
}

// UploadImage 上传图片到临时命名空间，返回可在后续发帖中引用的路径。
func (h *PostHandler) UploadImage(c *gin.Context) {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户信息"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请选择文件"})
		return
	}

	url, err := h.postService.UploadImage(uid, file)
	if err != nil {
		httpx.WriteServiceError(c, err, "上传失败，请稍后重试")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "上传成功",
		"url":     url,
	})
}

// UploadImagePost 上传图片并直接用识别出的文字发帖。
func (h *PostHandler) UploadImagePost(c *gin.Context) {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户信息"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请选择文件"})
		return
	}

	title := c.PostForm("title")

	post, err := h.postService.UploadImagePost(c.Request.Context(), uid, title, file)
	if err != nil {
		httpx.WriteServiceError(c, err, "发帖失败，请稍后重试")
		return
	}

	c.JSON(http.StatusOK, dto.NewPostRead(post))
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的 ID"})
		return 0, false
	}
	return uint(id), true
}
