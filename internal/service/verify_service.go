package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"newsjam-server/internal/config"
	"strings"
	"time"
)

// 核验失败时的启发式默认值，不是需要重新推导的魔法数。
// fallbackScoreUnreachable: 服务未配置、不可达或返回非 200。
// fallbackScoreMalformed: 收到响应但无法解析出预期结构。
const (
	fallbackScoreUnreachable = 0.5
	fallbackScoreMalformed   = 0.69
)

type VerifyResult struct {
	Real  bool
	Score float64
}

// VerifyService 封装外部文本核验服务的调用。
// 任何失败都会落到兜底值，帖子创建不因核验服务故障而阻塞。
type VerifyService struct {
	cfg    config.GeminiConfig
	client *http.Client
}

func NewVerifyService(cfg config.GeminiConfig) *VerifyService {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &VerifyService{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

// Verify 核验文本可信度。永远不向调用方返回错误。
func (s *VerifyService) Verify(ctx context.Context, text string) VerifyResult {
	if s.cfg.APIKey == "" || s.cfg.Endpoint == "" || strings.TrimSpace(text) == "" {
		return VerifyResult{Real: true, Score: fallbackScoreUnreachable}
	}

	raw, err := s.generateContent(ctx, text)
	if err != nil {
		log.Printf("⚠️ 核验服务不可用，使用兜底值: %v", err)
		return VerifyResult{Real: true, Score: fallbackScoreUnreachable}
	}

	result, ok := parseVerdict(raw)
	if !ok {
		log.Printf("⚠️ 核验服务返回无法解析的结构，使用兜底值")
		return VerifyResult{Real: true, Score: fallbackScoreMalformed}
	}
	return result
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// generateContent 调用 generateContent 接口，返回模型输出的原始文本。
func (s *VerifyService) generateContent(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf(`Analyze the following news and respond strictly in valid JSON format.
News: """%s"""
Respond ONLY in the following JSON structure:
{
  "real": true or false,
  "credibility_score": float between 0.0 and 1.0
}`, text)

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s",
		strings.TrimRight(s.cfg.Endpoint, "/"), s.cfg.Model, s.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("核验服务返回状态码 %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}

	var gr geminiResponse
	if err := json.Unmarshal(data, &gr); err != nil {
		return "", err
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("核验服务响应缺少候选内容")
	}
	return gr.Candidates[0].Content.Parts[0].Text, nil
}

// parseVerdict 从模型输出文本中解析 {real, credibility_score}。
// 模型偶尔会包一层 Markdown 代码块，先剥掉围栏再解码。
func parseVerdict(raw string) (VerifyResult, bool) {
	cleaned := stripCodeFences(raw)

	var verdict struct {
		Real             *bool    `json:"real"`
		CredibilityScore *float64 `json:"credibility_score"`
	}
	if err := json.Unmarshal([]byte(cleaned), &verdict); err != nil {
		return VerifyResult{}, false
	}
	if verdict.Real == nil || verdict.CredibilityScore == nil {
		return VerifyResult{}, false
	}

	score := *verdict.CredibilityScore
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return VerifyResult{Real: *verdict.Real, Score: score}, true
}

func stripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
