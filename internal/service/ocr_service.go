package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"newsjam-server/internal/common"
	"newsjam-server/internal/config"
	"newsjam-server/internal/utils"
	"os"
	"strings"
	"time"
)

// OCRService 封装图片文字识别服务的调用。
// 只读取给定文件，不持有任何持久状态。
type OCRService struct {
	cfg    config.OCRConfig
	client *http.Client
}

func NewOCRService(cfg config.OCRConfig) *OCRService {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OCRService{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

// Extract 识别图片中的文字，返回去除首尾空白的结果。
// 未识别出文字返回空串，不视为错误。
func (s *OCRService) Extract(ctx context.Context, filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", common.NewNotFoundError("图片文件不存在")
		}
		log.Printf("OCR open file error: %v\n", err)
		return "", common.NewInternalError("无法读取图片文件")
	}
	defer func() { _ = f.Close() }()

	// 先在本地确认这确实是一张图片，避免把任意文件发给识别服务
	header := make([]byte, 512)
	n, err := f.Read(header)
	if err != nil && err != io.EOF {
		log.Printf("OCR read file error: %v\n", err)
		return "", common.NewInternalError("无法读取图片文件")
	}
	if !utils.IsImageContentType(http.DetectContentType(header[:n])) {
		return "", common.NewValidationError("文件不是可识别的图片格式")
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		log.Printf("OCR seek error: %v\n", err)
		return "", common.NewInternalError("无法读取图片文件")
	}

	if s.cfg.Endpoint == "" {
		return "", common.NewInternalError("未配置文字识别服务")
	}

	text, err := s.recognize(ctx, filePath, f)
	if err != nil {
		log.Printf("OCR request error: %v\n", err)
		return "", common.NewInternalError("文字识别失败，请稍后重试")
	}
	return strings.TrimSpace(text), nil
}

// recognize 将图片以 multipart 形式提交给识别服务，响应体即识别出的纯文本。
func (s *OCRService) recognize(ctx context.Context, filePath string, src io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filePath)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, src); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Endpoint, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("识别服务返回状态码 %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
