package yandex

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/FrankX3M/index-url/internal/model"
)

// Client 是Yandex Webmaster API的客户端
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// userResponse 定义 GET /user 的返回结构
type userResponse struct {
	UserID int64 `json:"user_id"`
}

// recrawlResponse 定义重新索引接口的返回结构
// error 字段内容形状不固定，保留原始JSON
type recrawlResponse struct {
	TaskID string          `json:"task_id"`
	Error  json.RawMessage `json:"error"`
}

// NewClient 创建Yandex客户端，timeout为0时不限制请求时长
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// BuildHostID 根据站点URL构造host_id，格式为 "scheme:host:port"
// 端口由协议决定：https为443，其他为80，不读取URL自带的端口
func BuildHostID(siteURL string) (string, error) {
	parsed, err := url.Parse(siteURL)
	if err != nil {
		return "", fmt.Errorf("站点URL解析失败 %s: %w", siteURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("站点URL不完整，缺少协议或主机: %s", siteURL)
	}

	port := "80"
	if parsed.Scheme == "https" {
		port = "443"
	}
	return fmt.Sprintf("%s:%s:%s", parsed.Scheme, parsed.Host, port), nil
}

// UserID 从 GET /user 获取当前Token对应的user_id
func (c *Client) UserID() (int64, error) {
	req, err := http.NewRequest("GET", c.baseURL+"/user", nil)
	if err != nil {
		return 0, fmt.Errorf("request creation failed: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("http request failed: %w", err)
	}

	respBody, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return 0, fmt.Errorf("read response failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("yandex API error: HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	var userResp userResponse
	if err := json.Unmarshal(respBody, &userResp); err != nil {
		return 0, fmt.Errorf("json unmarshal failed: %w", err)
	}
	if userResp.UserID == 0 {
		return 0, fmt.Errorf("响应中缺少user_id: %s", string(respBody))
	}

	return userResp.UserID, nil
}

// SubmitRecrawl 提交单个URL的重新索引请求并归类结果
// 所有失败路径都转换为SubmissionOutcome，不向上抛错
func (c *Client) SubmitRecrawl(userID int64, hostID, rawURL string) model.SubmissionOutcome {
	payload, err := json.Marshal(map[string]string{"url": rawURL})
	if err != nil {
		return model.SubmissionOutcome{Status: model.StatusFailed, ErrorDetail: err.Error()}
	}

	apiURL := fmt.Sprintf("%s/user/%d/hosts/%s/recrawl/queue", c.baseURL, userID, hostID)
	req, err := http.NewRequest("POST", apiURL, bytes.NewBuffer(payload))
	if err != nil {
		return model.SubmissionOutcome{Status: model.StatusFailed, ErrorDetail: err.Error()}
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return model.SubmissionOutcome{Status: model.StatusFailed, ErrorDetail: err.Error()}
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()

	// HTTP错误：尽量带上响应体里的错误详情
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

	var recrawlResp recrawlResponse
	if err := json.Unmarshal(respBody, &recrawlResp); err != nil {
		return model.SubmissionOutcome{Status: model.StatusFailed, ErrorDetail: fmt.Sprintf("json unmarshal failed: %v", err)}
	}

	// 响应带error字段时不管其他字段，一律视为失败
	if len(recrawlResp.Error) > 0 && string(recrawlResp.Error) != "null" {
		return model.SubmissionOutcome{Status: model.StatusFailed, ErrorDetail: fmt.Sprintf("API错误: %s", string(recrawlResp.Error))}
	}

	if recrawlResp.TaskID != "" {
		return model.SubmissionOutcome{Status: model.StatusSuccess}
	}

	// 没有task_id但也没有报错：视为已受理，无法确认排队
	return model.SubmissionOutcome{Status: model.StatusSuccessNoTaskID}
}

// setHeaders 设置认证和内容类型请求头
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "OAuth "+c.token)
	req.Header.Set("Content-Type", "application/json")
}
