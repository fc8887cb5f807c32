package lmstfy

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Client Lmstfy 客户端封装（发布侧，HTTP API）
// worker 消费侧使用官方客户端，见 internal/dispatch/pkg/lmstfy
type Client struct {
	host      string
	namespace string
	token     string
}

// NewClient 创建 Lmstfy 客户端
func NewClient(host, namespace, token string) *Client {
	return &Client{
		host:      strings.TrimSuffix(host, "/"),
		namespace: namespace,
		token:     token,
	}
}

// Publish 发布消息到队列
// 与官方 lmstfy Go 客户端一致：query 参数 + 原始 JSON body
func (c *Client) Publish(ctx context.Context, queue string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/api/%s/%s?ttl=3600&delay=0&tries=3", c.host, c.namespace, queue)

	req, err := http.NewRequestWithContext(ctx, "PUT", endpoint, strings.NewReader(string(payload)))
	if err != nil {
		return err
	}

	if c.token != "" {
		req.Header.Set("X-Token", c.token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("lmstfy publish failed: status=%d", resp.StatusCode)
	}

	return nil
}
