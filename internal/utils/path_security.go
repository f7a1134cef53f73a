package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// SecureJoin 将相对路径安全拼接到 basePath 下。
//
// 说明：
// 禁止传入绝对路径，避免绕过基目录。
// 规范化并校验相对路径，拒绝 ".." 越界。
// 结果路径必须位于 basePath 内，且链路中不存在符号链接。
//
// 返回值为目标的绝对路径，可直接用于后续文件读写。
func SecureJoin(basePath, relativePath string) (string, error) {
	baseAbs, err := filepath.Abs(basePath)
	if err != nil {
		return "", fmt.Errorf("路径解析失败: %w", err)
	}

	// 规范化用户传入的相对路径（折叠 .、..、重复分隔符等）。
	cleanRel := filepath.Clean(relativePath)
	if cleanRel == "." {
		cleanRel = ""
	}
	if filepath.IsAbs(cleanRel) {
		return "", fmt.Errorf("非法路径: 不允许绝对路径")
	}

	targetAbs, err := filepath.Abs(filepath.Join(baseAbs, cleanRel))
	if err != nil {
		return "", fmt.Errorf("路径解析失败: %w", err)
	}

	if err := EnsureNoSymlinkBetween(baseAbs, targetAbs); err != nil {
		return "", err
	}

	return targetAbs, nil
}

// EnsureNoSymlinkBetween 检查 basePath 到 targetPath 之间的路径链路是否安全。
//
// 校验规则：
// targetPath 必须位于 basePath 内。
// 从 targetPath 逐级向上回溯到 basePath 的过程中，所有"已存在"的节点都不能是符号链接。
// 对不存在的节点不报错（方便用于即将创建的新目录/文件）。
func EnsureNoSymlinkBetween(basePath, targetPath string) error {
	baseAbs, err := filepath.Abs(basePath)
	if err != nil {
		return fmt.Errorf("路径解析失败: %w", err)
	}
	targetAbs, err := filepath.Abs(targetPath)
	if err != nil {
		return fmt.Errorf("路径解析失败: %w", err)
	}

	if err := ensureWithinBase(baseAbs, targetAbs); err != nil {
		return err
	}

	// 从目标路径开始，逐级向上检查到基目录为止。
	current := targetAbs
	for {
		info, statErr := os.Lstat(current)
		if statErr == nil {
			if info.Mode()&os.ModeSymlink != 0 {
				return fmt.Errorf("检测到符号链接穿透风险: %s", current)
			}
		} else if !os.IsNotExist(statErr) {
			return fmt.Errorf("检查路径失败: %w", statErr)
		}

		if samePath(current, baseAbs) {
			break
		}

		parent := filepath.Dir(current)
		if samePath(parent, current) {
			return fmt.Errorf("非法路径: 无法定位到安全基目录")
		}
		current = parent
	}

	return nil
}

// ensureWithinBase 判断 targetAbs 是否严格位于 baseAbs 目录树内。
func ensureWithinBase(baseAbs, targetAbs string) error {
	baseVol := filepath.VolumeName(baseAbs)
	targetVol := filepath.VolumeName(targetAbs)
	if baseVol != "" || targetVol != "" {
		if !strings.EqualFold(baseVol, targetVol) {
			return fmt.Errorf("非法路径: 路径跨磁盘卷")
		}
	}

	rel, err := filepath.Rel(baseAbs, targetAbs)
	if err != nil {
		return fmt.Errorf("非法路径: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return fmt.Errorf("非法路径: 目标超出基目录")
	}
	return nil
}

// samePath 判断两个路径是否指向同一路径。
// Windows 下使用不区分大小写比较，其他系统区分大小写。
func samePath(a, b string) bool {
	a = filepath.Clean(a)
	b = filepath.Clean(b)
	if runtime.GOOS == "windows" {
		return strings.EqualFold(a, b)
	}
	return a == b
}
