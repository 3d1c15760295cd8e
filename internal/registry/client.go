package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// stateEntry 主数据服务返回的单条州记录
type stateEntry struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// statesResponse 主数据服务响应
type statesResponse struct {
	Status int          `json:"status"`
	Msg    string       `json:"msg,omitempty"`
	Data   []stateEntry `json:"data"`
}

// Client 州/区主数据服务 API 客户端
type Client struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewClient 创建主数据客户端
func NewClient(baseURL string, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		httpClient: client,
		logger:     logger,
	}
}

// FetchStates 拉取州代码主数据
func (c *Client) FetchStates(ctx context.Context) (map[string]string, error) {
	var result statesResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&result).
		Get("/v1/masterdata/states")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch states: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("masterdata service returned %d", resp.StatusCode())
	}
	if result.Status != 0 {
		return nil, fmt.Errorf("masterdata service error: %s", result.Msg)
	}

	states := make(map[string]string, len(result.Data))
	for _, e := range result.Data {
		states[e.Code] = e.Name
	}

	c.logger.Debug("Fetched state master data", zap.Int("count", len(states)))
	return states, nil
}
