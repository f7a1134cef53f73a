package service

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"newsjam-server/internal/config"
	"newsjam-server/internal/utils"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// 媒体存储：上传的文件先以临时唯一标识命名，
// 帖子落库后再重命名为 {post_id}{ext} 的最终形式。

// ValidateImageFile 验证上传的图片文件（大小、后缀、内容）
// 返回:
//   - bool: 是否合法
//   - string: 文件扩展名 (小写, 如 .jpg)
//   - error: 错误信息或原因
func ValidateImageFile(file *multipart.FileHeader) (bool, string, error) {
	cfg := config.Get()

	// 检查文件大小
	maxSizeMB := cfg.Upload.MaxUploadMB
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	if file.Size > int64(maxSizeMB)*1024*1024 {
		return false, "", fmt.Errorf("文件大小不能超过 %dMB", maxSizeMB)
	}

	// 检查文件扩展名
	allowExtsStr := cfg.Upload.AllowedExtensions
	if allowExtsStr == "" {
		allowExtsStr = ".jpg,.jpeg,.png,.gif,.webp,.bmp"
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext == "" {
		return false, "", errors.New("无法识别文件类型")
	}

	allowed := false
	for _, allowExt := range strings.Split(allowExtsStr, ",") {
		if strings.TrimSpace(strings.ToLower(allowExt)) == ext {
			allowed = true
			break
		}
	}
	if !allowed {
		return false, ext, fmt.Errorf("不支持的文件类型: %s", ext)
	}

	// 检查文件内容 (Magic Bytes)
	src, err := file.Open()
	if err != nil {
		return false, ext, errors.New("无法打开上传的文件")
	}
	defer func() { _ = src.Close() }()

	if valid, msg := utils.ValidateImageContent(src, ext); !valid {
		return false, ext, errors.New(msg)
	}

	return true, ext, nil
}

// SaveMedia 将字节流写入媒体目录。
// 有 nameHint 时以 hint 命名（同名覆盖，hint 实际上是每次请求生成的唯一值），
// 否则生成新的 UUID 临时名。返回存储文件名和对外公开路径。
func SaveMedia(src io.Reader, ext string, nameHint string) (string, string, error) {
	uploadRoot := mediaRoot()

	// 自动创建文件夹
	if err := os.MkdirAll(uploadRoot, 0755); err != nil {
		log.Printf("MkdirAll error: %v\n", err)
		return "", "", errors.New("系统错误: 无法创建存储目录")
	}

	name := strings.TrimSpace(nameHint)
	if name == "" {
		name = uuid.New().String()
	}
	storedName := name + ext

	dst, err := utils.SecureJoin(uploadRoot, storedName)
	if err != nil {
		log.Printf("SecureJoin error: %v\n", err)
		return "", "", errors.New("非法的文件名")
	}

	out, err := os.Create(dst)
	if err != nil {
		log.Printf("File create error: %v\n", err)
		return "", "", errors.New("系统错误: 无法创建文件")
	}
	defer func() { _ = out.Close() }()

	if _, err = io.Copy(out, src); err != nil {
		log.Printf("File save error: %v\n", err)
		return "", "", errors.New("文件保存失败")
	}

	return storedName, mediaURLPrefix() + storedName, nil
}

// RenameMedia 将临时媒体文件重命名为 {postID}{ext}，返回新的公开路径。
//
// 幂等语义：
// 路径不在本存储命名空间内 → 原样返回，不报错。
// 底层文件已不存在（例如重试时已完成重命名）→ 返回目标路径，不报错。
// 系统级重命名失败时原文件保持原状，错误向上传递。
func RenameMedia(oldPublicPath string, postID uint) (string, error) {
	prefix := mediaURLPrefix()
	if !strings.HasPrefix(oldPublicPath, prefix) {
		return oldPublicPath, nil
	}

	oldName := strings.TrimPrefix(oldPublicPath, prefix)
	newName := fmt.Sprintf("%d%s", postID, path.Ext(oldName))
	newPublicPath := prefix + newName

	uploadRoot := mediaRoot()
	oldDisk, err := utils.SecureJoin(uploadRoot, oldName)
	if err != nil {
		return "", err
	}
	newDisk, err := utils.SecureJoin(uploadRoot, newName)
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(oldDisk); os.IsNotExist(err) {
		return newPublicPath, nil
	}

	if err := os.Rename(oldDisk, newDisk); err != nil {
		log.Printf("Rename media error: %v, path: %s\n", err, oldDisk)
		return "", errors.New("系统错误: 媒体文件重命名失败")
	}

	return newPublicPath, nil
}

// DeleteMedia 尽力删除媒体文件，失败只记录日志，不向上传递。
// 仅用于清理未完成流程留下的文件。
func DeleteMedia(publicPath string) {
	prefix := mediaURLPrefix()
	if !strings.HasPrefix(publicPath, prefix) {
		return
	}

	disk, err := utils.SecureJoin(mediaRoot(), strings.TrimPrefix(publicPath, prefix))
	if err != nil {
		log.Printf("Delete media path error: %v, path: %s\n", err, publicPath)
		return
	}
	if err := os.Remove(disk); err != nil && !os.IsNotExist(err) {
		log.Printf("Delete media error: %v, path: %s\n", err, disk)
	}
}

// IsTempMediaPath 判断公开路径是否仍处于临时命名空间
// （位于本存储前缀下，且文件名主干是 UUID 临时标识）。
func IsTempMediaPath(publicPath string) bool {
	prefix := mediaURLPrefix()
	if !strings.HasPrefix(publicPath, prefix) {
		return false
	}
	name := strings.TrimPrefix(publicPath, prefix)
	stem := strings.TrimSuffix(name, path.Ext(name))
	_, err := uuid.Parse(stem)
	return err == nil
}

func mediaRoot() string {
	root := config.Get().Upload.Path
	if root == "" {
		root = "uploads/media"
	}
	return root
}

func mediaURLPrefix() string {
	prefix := config.Get().Upload.URLPrefix
	if prefix == "" {
		prefix = "/media/"
	}
	return prefix
}
