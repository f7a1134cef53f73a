package service

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"newsjam-server/internal/config"
	"newsjam-server/internal/testutils"

	"github.com/google/uuid"
)

func saveTestMedia(t *testing.T, data []byte, ext string) (string, string) {
	t.Helper()

	storedName, publicPath, err := SaveMedia(bytes.NewReader(data), ext, "")
	if err != nil {
		t.Fatalf("SaveMedia: %v", err)
	}
	return storedName, publicPath
}

func mediaDiskPath(t *testing.T, storedName string) string {
	t.Helper()
	return filepath.Join(config.Get().Upload.Path, storedName)
}

// 测试内容：验证保存媒体文件后磁盘文件与公开路径一致。
func TestSaveMedia_WritesFile(t *testing.T) {
	storedName, publicPath := saveTestMedia(t, []byte("data"), ".png")

	if !strings.HasSuffix(storedName, ".png") {
		t.Fatalf("期望 .png 后缀，实际为 %s", storedName)
	}
	if publicPath != "/media/"+storedName {
		t.Fatalf("期望公开路径 /media/%s，实际为 %s", storedName, publicPath)
	}
	if _, err := os.Stat(mediaDiskPath(t, storedName)); err != nil {
		t.Fatalf("期望文件已写入: %v", err)
	}
}

// 测试内容：验证提供 nameHint 时按 hint 命名。
func TestSaveMedia_UsesNameHint(t *testing.T) {
	storedName, _, err := SaveMedia(bytes.NewReader([]byte("data")), ".png", "hinted-name")
	if err != nil {
		t.Fatalf("SaveMedia: %v", err)
	}
	if storedName != "hinted-name.png" {
		t.Fatalf("期望 hinted-name.png，实际为 %s", storedName)
	}
}

// 测试内容：验证重命名把临时文件搬到 {postID}{ext}，且重复调用得到同一最终路径。
func TestRenameMedia_Idempotent(t *testing.T) {
	storedName, publicPath := saveTestMedia(t, []byte("data"), ".png")

	newPath, err := RenameMedia(publicPath, 4242)
	if err != nil {
		t.Fatalf("RenameMedia: %v", err)
	}
	if newPath != "/media/4242.png" {
		t.Fatalf("期望 /media/4242.png，实际为 %s", newPath)
	}
	if _, err := os.Stat(mediaDiskPath(t, "4242.png")); err != nil {
		t.Fatalf("期望重命名后的文件存在: %v", err)
	}
	if _, err := os.Stat(mediaDiskPath(t, storedName)); !os.IsNotExist(err) {
		t.Fatalf("期望原临时文件已消失")
	}

	// 重试同一临时路径：文件已不在，仍应返回同一最终路径
	again, err := RenameMedia(publicPath, 4242)
	if err != nil {
		t.Fatalf("重复 RenameMedia: %v", err)
	}
	if again != newPath {
		t.Fatalf("期望重复调用返回 %s，实际为 %s", newPath, again)
	}
}

// 测试内容：验证不属于本存储命名空间的路径原样返回。
func TestRenameMedia_ForeignPathUntouched(t *testing.T) {
	external := "https://example.com/pic.png"
	got, err := RenameMedia(external, 7)
	if err != nil {
		t.Fatalf("RenameMedia: %v", err)
	}
	if got != external {
		t.Fatalf("期望外部路径原样返回，实际为 %s", got)
	}
}

// 测试内容：验证删除媒体文件，外部路径与不存在的文件均不报错。
func TestDeleteMedia_RemovesFile(t *testing.T) {
	storedName, publicPath := saveTestMedia(t, []byte("data"), ".png")

	DeleteMedia(publicPath)
	if _, err := os.Stat(mediaDiskPath(t, storedName)); !os.IsNotExist(err) {
		t.Fatalf("期望文件已删除")
	}

	// 再删一次与删除外部路径都应静默通过
	DeleteMedia(publicPath)
	DeleteMedia("https://example.com/pic.png")
}

// 测试内容：验证临时路径判定只认 UUID 主干的本存储路径。
func TestIsTempMediaPath(t *testing.T) {
	if !IsTempMediaPath("/media/" + uuid.New().String() + ".png") {
		t.Fatalf("期望 UUID 临时路径判定为 true")
	}
	if IsTempMediaPath("/media/42.png") {
		t.Fatalf("期望帖子 ID 命名的最终路径判定为 false")
	}
	if IsTempMediaPath("https://example.com/pic.png") {
		t.Fatalf("期望外部路径判定为 false")
	}
}

// 测试内容：验证上传文件校验覆盖扩展名、内容与大小。
func TestValidateImageFile(t *testing.T) {
	png := testutils.MinimalPNG(t)

	// 合法 PNG
	fh := testutils.MultipartFile(t, "file", "pic.png", png)
	valid, ext, err := ValidateImageFile(fh)
	if !valid || ext != ".png" || err != nil {
		t.Fatalf("期望合法 (.png)，实际为 valid=%v ext=%s err=%v", valid, ext, err)
	}

	// 内容与扩展名不匹配
	fh = testutils.MultipartFile(t, "file", "pic.jpg", png)
	if valid, _, _ := ValidateImageFile(fh); valid {
		t.Fatalf("期望内容与扩展名不匹配时拒绝")
	}

	// 不支持的扩展名
	fh = testutils.MultipartFile(t, "file", "note.txt", []byte("hello"))
	if valid, _, _ := ValidateImageFile(fh); valid {
		t.Fatalf("期望不支持的扩展名被拒绝")
	}

	// 超出大小限制
	maxMB := config.Get().Upload.MaxUploadMB
	if maxMB <= 0 {
		maxMB = 10
	}
	big := testutils.MultipartFile(t, "file", "big.png", png)
	big.Size = int64(maxMB)*1024*1024 + 1
	if valid, _, err := ValidateImageFile(big); valid || err == nil {
		t.Fatalf("期望超大文件被拒绝")
	}
}

// 测试内容：验证保存时拒绝带路径穿越的文件名。
func TestSaveMedia_RejectsTraversalHint(t *testing.T) {
	_, _, err := SaveMedia(bytes.NewReader([]byte("x")), ".png", fmt.Sprintf("..%c..%cevil", os.PathSeparator, os.PathSeparator))
	if err == nil {
		t.Fatalf("期望路径穿越文件名被拒绝")
	}
}
