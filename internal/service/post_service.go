package service

import (
	"context"
	"errors"
	"log"
	"mime/multipart"
	"newsjam-server/internal/common"
	"newsjam-server/internal/model"
	"newsjam-server/internal/repository"
	"newsjam-server/internal/utils"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// PostService 编排发帖流程：
// 上传 → 文字识别 → 可信度核验 → 落库 → 重命名媒体文件。
type PostService struct {
	posts    repository.PostStore
	verifier *VerifyService
	ocr      *OCRService
	pending  *PendingService
}

func NewPostService(posts repository.PostStore, verifier *VerifyService, ocr *OCRService, pending *PendingService) *PostService {
	return &PostService{
		posts:    posts,
		verifier: verifier,
		ocr:      ocr,
		pending:  pending,
	}
}

// PostDraft 是创建帖子的输入。
type PostDraft struct {
	Title    string
	Content  string
	URL      *string
	Likes    int
	Dislikes int
}

// CreatePost 创建帖子（无图路径）。
// 核验结果在同一次调用中与帖子一并写入，之后不再重算。
// 若 URL 指向临时媒体命名空间（两步上传流程），落库后补做重命名。
func (s *PostService) CreatePost(ctx context.Context, userID uint, draft PostDraft) (*model.Post, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return nil, common.NewValidationError("标题不能为空")
	}

	verdict := s.verifier.Verify(ctx, verifyText(draft))

	post := &model.Post{
		UserID:   userID,
		Likes:    draft.Likes,
		Dislikes: draft.Dislikes,
		Title:    draft.Title,
		Content:  draft.Content,
		URL:      draft.URL,
	}
	applyVerdict(post, verdict)

	if err := s.posts.Create(post); err != nil {
		log.Printf("Create post DB error: %v\n", err)
		return nil, common.NewInternalError("帖子创建失败")
	}

	// 两步流程：客户端先上传图片，再引用临时路径发帖
	if draft.URL != nil && IsTempMediaPath(*draft.URL) {
		if err := s.finalizeMedia(post, *draft.URL); err != nil {
			// 帖子已存在，只是 URL 仍为临时路径；错误向上暴露，不回滚帖子
			return nil, err
		}
	}

	return post, nil
}

// UploadImage 保存上传的图片到临时命名空间，返回公开路径。
func (s *PostService) UploadImage(userID uint, file *multipart.FileHeader) (string, error) {
	_, publicPath, err := s.saveUpload(file)
	if err != nil {
		return "", err
	}
	return publicPath, nil
}

// UploadImagePost 一步完成：上传图片 → 识别文字 → 核验 → 发帖 → 重命名。
func (s *PostService) UploadImagePost(ctx context.Context, userID uint, title string, file *multipart.FileHeader) (*model.Post, error) {
	if strings.TrimSpace(title) == "" {
		return nil, common.NewValidationError("标题不能为空")
	}

	// Uploading
	storedName, publicPath, err := s.saveUpload(file)
	if err != nil {
		return nil, err
	}

	// Extracting（失败时临时文件留在原地，由清扫任务回收）
	diskPath, err := utils.SecureJoin(mediaRoot(), storedName)
	if err != nil {
		return nil, common.NewInternalError("无法定位上传文件")
	}
	content, err := s.ocr.Extract(ctx, diskPath)
	if err != nil {
		return nil, err
	}

	// Verifying（永远不失败）
	verdict := s.verifier.Verify(ctx, content)

	// Persisting
	post := &model.Post{
		UserID:  userID,
		Title:   title,
		Content: content,
		URL:     &publicPath,
	}
	applyVerdict(post, verdict)

	if err := s.posts.Create(post); err != nil {
		log.Printf("Create post DB error: %v\n", err)
		// 落库失败时尽力清掉临时文件再报错
		DeleteMedia(publicPath)
		s.pending.Resolve(storedName)
		return nil, common.NewInternalError("帖子创建失败")
	}

	// Renaming
	if err := s.finalizeMedia(post, publicPath); err != nil {
		return nil, err
	}

	return post, nil
}

// GetPost 查询单个帖子。
func (s *PostService) GetPost(id uint) (*model.Post, error) {
	post, err := s.posts.FindByID(id)
	if err != nil {
		return nil, classifyStoreError(err, "帖子不存在")
	}
	return post, nil
}

// ListPosts 分页查询帖子，作者信息一并带出。
func (s *PostService) ListPosts(page, limit int) ([]model.Post, error) {
	page, limit = normalizePagination(page, limit)
	posts, err := s.posts.ListPage(page, limit)
	if err != nil {
		log.Printf("List posts DB error: %v\n", err)
		return nil, common.NewInternalError("获取帖子列表失败")
	}
	return posts, nil
}

// ListUserPosts 查询某用户的全部帖子，按创建时间倒序。
func (s *PostService) ListUserPosts(userID uint) ([]model.Post, error) {
	posts, err := s.posts.ListByUser(userID)
	if err != nil {
		log.Printf("List user posts DB error: %v\n", err)
		return nil, common.NewInternalError("获取帖子列表失败")
	}
	return posts, nil
}

// UpdatePost 只允许作者更新自己帖子的标题与正文。
func (s *PostService) UpdatePost(id uint, callerID uint, title, content string) error {
	post, err := s.posts.FindByID(id)
	if err != nil {
		return classifyStoreError(err, "帖子不存在")
	}
	if post.UserID != callerID {
		return common.NewForbiddenError("没有权限修改该帖子")
	}

	if err := s.posts.UpdateTitleContent(id, title, content); err != nil {
		return classifyStoreError(err, "帖子不存在")
	}
	return nil
}

// DeletePost 只允许作者删除自己的帖子，并清理关联的媒体文件。
func (s *PostService) DeletePost(id uint, callerID uint) error {
	post, err := s.posts.FindByID(id)
	if err != nil {
		return classifyStoreError(err, "帖子不存在")
	}
	if post.UserID != callerID {
		return common.NewForbiddenError("没有权限删除该帖子")
	}

	if err := s.posts.Delete(id); err != nil {
		return classifyStoreError(err, "帖子不存在")
	}

	if post.URL != nil {
		DeleteMedia(*post.URL)
	}
	return nil
}

// saveUpload 校验并写入上传文件，登记到待处理账本。
func (s *PostService) saveUpload(file *multipart.FileHeader) (string, string, error) {
	valid, ext, err := ValidateImageFile(file)
	if !valid {
		return "", "", common.NewValidationError(err.Error())
	}

	src, err := file.Open()
	if err != nil {
		return "", "", common.NewValidationError("无法读取上传文件")
	}
	defer func() { _ = src.Close() }()

	storedName, publicPath, err := SaveMedia(src, ext, "")
	if err != nil {
		log.Printf("Save media error: %v\n", err)
		return "", "", common.NewInternalError("文件保存失败")
	}

	s.pending.Track(storedName)
	return storedName, publicPath, nil
}

// finalizeMedia 将临时媒体文件重命名为帖子 ID 并回写 URL。
func (s *PostService) finalizeMedia(post *model.Post, tempPath string) error {
	newPath, err := RenameMedia(tempPath, post.ID)
	if err != nil {
		log.Printf("Finalize media rename error: %v\n", err)
		return common.NewInternalError("媒体文件重命名失败")
	}
	if newPath == tempPath {
		return nil
	}

	if err := s.posts.UpdateURL(post.ID, newPath); err != nil {
		log.Printf("Finalize media URL update error: %v\n", err)
		return common.NewInternalError("媒体路径更新失败")
	}

	post.URL = &newPath
	s.pending.Resolve(strings.TrimPrefix(tempPath, mediaURLPrefix()))
	return nil
}

// verifyText 选择送核验的文本：正文优先，其次 URL，最后标题。
func verifyText(draft PostDraft) string {
	if draft.Content != "" {
		return draft.Content
	}
	if draft.URL != nil && *draft.URL != "" {
		return *draft.URL
	}
	return draft.Title
}

// applyVerdict 将核验结果按存储约定写入帖子（字符串形式）。
func applyVerdict(post *model.Post, verdict VerifyResult) {
	realStr := strconv.FormatBool(verdict.Real)
	scoreStr := strconv.FormatFloat(verdict.Score, 'f', -1, 64)
	post.Real = &realStr
	post.CredibilityScore = &scoreStr
}

// classifyStoreError 把存储层错误归类为服务错误。
func classifyStoreError(err error, notFoundMsg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return common.NewNotFoundError(notFoundMsg)
	}
	log.Printf("Store error: %v\n", err)
	return common.NewInternalError("内部错误，请稍后重试")
}

// normalizePagination 归一化分页参数，确保页码与页大小有最小值。
func normalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = repository.DefaultPageLimit
	}
	return page, pageSize
}
