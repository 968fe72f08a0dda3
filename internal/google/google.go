package google

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	googleauth "golang.org/x/oauth2/google"

	"github.com/FrankX3M/index-url/internal/model"
)

// ActionURLUpdated 通知Google该URL已更新
const ActionURLUpdated = "URL_UPDATED"

// scopeIndexing Indexing API所需的授权范围
const scopeIndexing = "https://www.googleapis.com/auth/indexing"

// Client 是Google Indexing API的客户端
// 每次提交都向TokenSource取一次Token，Token的缓存和续期由凭据对象自己管理
type Client struct {
	endpoint string
	tokens   oauth2.TokenSource
	http     *http.Client
}

// publishResponse 定义 urlNotifications:publish 的返回结构
type publishResponse struct {
	URLNotificationMetadata *struct {
		URL          string `json:"url"`
		LatestUpdate *struct {
			Type string `json:"type"`
		} `json:"latestUpdate"`
	} `json:"urlNotificationMetadata"`
}

// NewClient 从服务账号JSON文件创建客户端，timeout为0时不限制请求时长
func NewClient(serviceAccountFile, endpoint string, timeout time.Duration) (*Client, error) {
	data, err := os.ReadFile(serviceAccountFile)
	if err != nil {
		return nil, fmt.Errorf("读取服务账号文件失败: %w", err)
	}

	jwtCfg, err := googleauth.JWTConfigFromJSON(data, scopeIndexing)
	if err != nil {
		return nil, fmt.Errorf("解析服务账号文件失败: %w", err)
	}

	return NewClientWithTokenSource(endpoint, jwtCfg.TokenSource(context.Background()), timeout), nil
}

// NewClientWithTokenSource 用外部TokenSource创建客户端，测试时传入假凭据
func NewClientWithTokenSource(endpoint string, tokens oauth2.TokenSource, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		tokens:   tokens,
		http:     &http.Client{Timeout: timeout},
	}
}

// Publish 提交单个URL的索引通知并归类结果
// Token获取失败只影响本次提交，所有失败路径都转换为SubmissionOutcome
func (c *Client) Publish(rawURL, action string) model.SubmissionOutcome {
	token, err := c.tokens.Token()
	if err != nil {
		return model.SubmissionOutcome{Status: model.StatusFailed, ErrorDetail: fmt.Sprintf("获取Token失败: %v", err)}
	}

	payload, err := json.Marshal(map[string]string{
		"url":  rawURL,
		"type": action,
	})
	if err != nil {
		return model.SubmissionOutcome{Status: model.StatusFailed, ErrorDetail: err.Error()}
	}

	req, err := http.NewRequest("POST", c.endpoint, bytes.NewBuffer(payload))
	if err != nil {
		return model.SubmissionOutcome{Status: model.StatusFailed, ErrorDetail: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return model.SubmissionOutcome{Status: model.StatusFailed, ErrorDetail: err.Error()}
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := fmt.Sprintf("HTTP %d", resp.StatusCode)
		if readErr == nil && len(respBody) > 0 {
			detail = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(respBody))
		}
		return model.SubmissionOutcome{Status: model.StatusFailed, ErrorDetail: detail}
	}
	if readErr != nil {
		return model.SubmissionOutcome{Status: model.StatusFailed, ErrorDetail: readErr.Error()}
	}

	var publishResp publishResponse
	if err := json.Unmarshal(respBody, &publishResp); err != nil {
		return model.SubmissionOutcome{Status: model.StatusFailed, ErrorDetail: fmt.Sprintf("json unmarshal failed: %v", err)}
	}

	// 没有通知元数据说明响应形状不对
	if publishResp.URLNotificationMetadata == nil {
		return model.SubmissionOutcome{Status: model.StatusFailed, ErrorDetail: "Google API响应格式不符合预期"}
	}

	// 有latestUpdate时核对通知类型是否与请求一致
	meta := publishResp.URLNotificationMetadata
	if meta.LatestUpdate != nil && meta.LatestUpdate.Type != "" && meta.LatestUpdate.Type != action {
		return model.SubmissionOutcome{
			Status:      model.StatusFailed,
			ErrorDetail: fmt.Sprintf("通知类型不一致: 期望 %s，实际 %s", action, meta.LatestUpdate.Type),
		}
	}

	// 没有latestUpdate信息也视为成功
	return model.SubmissionOutcome{Status: model.StatusSuccess}
}
