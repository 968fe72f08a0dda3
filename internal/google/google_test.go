package google

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/FrankX3M/index-url/internal/model"
)

// failingTokenSource 模拟凭据对象取不到Token的情况
type failingTokenSource struct{}

func (failingTokenSource) Token() (*oauth2.Token, error) {
	return nil, errors.New("invalid_grant")
}

func testTokens() oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "fake-access-token"})
}

func TestPublish(t *testing.T) {
	tests := []struct {
		name         string
		handler      http.HandlerFunc
		wantStatus   model.SubmissionStatus
		wantInDetail string
	}{
		{
			name: "latest update type matches",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"urlNotificationMetadata": {"url": "https://example.com/a", "latestUpdate": {"type": "URL_UPDATED"}}}`))
			},
			wantStatus: model.StatusSuccess,
		},
		{
			name: "metadata without latest update",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"urlNotificationMetadata": {"url": "https://example.com/a"}}`))
			},
			wantStatus: model.StatusSuccess,
		},
		{
			// 类型不一致时失败详情要同时带上期望值和实际值
			name: "latest update type mismatch",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"urlNotificationMetadata": {"latestUpdate": {"type": "URL_DELETED"}}}`))
			},
			wantStatus:   model.StatusFailed,
			wantInDetail: "URL_UPDATED",
		},
		{
			name: "missing notification metadata",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"something": "else"}`))
			},
			wantStatus:   model.StatusFailed,
			wantInDetail: "响应格式",
		},
		{
			name: "http 403 with body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(`{"error": {"message": "Permission denied"}}`))
			},
			wantStatus:   model.StatusFailed,
			wantInDetail: "Permission denied",
		},
		{
			name: "invalid json body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`not json`))
			},
			wantStatus: model.StatusFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := NewClientWithTokenSource(srv.URL, testTokens(), 0)
			outcome := c.Publish("https://example.com/a", ActionURLUpdated)

			assert.Equal(t, tt.wantStatus, outcome.Status)
			if tt.wantInDetail != "" {
				assert.Contains(t, outcome.ErrorDetail, tt.wantInDetail)
			}
		})
	}

	t.Run("type mismatch names both values", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"urlNotificationMetadata": {"latestUpdate": {"type": "URL_DELETED"}}}`))
		}))
		defer srv.Close()

		c := NewClientWithTokenSource(srv.URL, testTokens(), 0)
		outcome := c.Publish("https://example.com/a", ActionURLUpdated)

		require.Equal(t, model.StatusFailed, outcome.Status)
		assert.Contains(t, outcome.ErrorDetail, "URL_UPDATED")
		assert.Contains(t, outcome.ErrorDetail, "URL_DELETED")
	})

	t.Run("request payload and bearer header", func(t *testing.T) {
		var gotAuth, gotBody string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			body, _ := io.ReadAll(r.Body)
			gotBody = string(body)
			w.Write([]byte(`{"urlNotificationMetadata": {}}`))
		}))
		defer srv.Close()

		c := NewClientWithTokenSource(srv.URL, testTokens(), 0)
		outcome := c.Publish("https://example.com/a", ActionURLUpdated)

		assert.Equal(t, model.StatusSuccess, outcome.Status)
		assert.Equal(t, "Bearer fake-access-token", gotAuth)
		assert.JSONEq(t, `{"url":"https://example.com/a","type":"URL_UPDATED"}`, gotBody)
	})

	t.Run("token failure only fails this submission", func(t *testing.T) {
		called := false
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		defer srv.Close()

		c := NewClientWithTokenSource(srv.URL, failingTokenSource{}, 0)
		outcome := c.Publish("https://example.com/a", ActionURLUpdated)

		assert.Equal(t, model.StatusFailed, outcome.Status)
		assert.Contains(t, outcome.ErrorDetail, "invalid_grant")
		assert.False(t, called, "Token获取失败时不应发起HTTP请求")
	})

	t.Run("transport error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		c := NewClientWithTokenSource(srv.URL, testTokens(), 0)
		outcome := c.Publish("https://example.com/a", ActionURLUpdated)

		assert.Equal(t, model.StatusFailed, outcome.Status)
		assert.NotEmpty(t, outcome.ErrorDetail)
	})
}
