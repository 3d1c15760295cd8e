package registry

import (
	"context"
	"sort"
	"sync"

	"github.com/Chaitanya2872/acs-sams-sub000/internal/identity"

	"go.uber.org/zap"
)

// Registry 州/联邦属地主数据注册表
// 以编解码器的内置表播种；可选地从远端主数据服务刷新显示名称。
// 刷新只增改名称，不会移除内置代码（身份码校验的基准表不受远端影响）
type Registry struct {
	mu     sync.RWMutex
	states map[string]string // code -> display name
	client *Client
	logger *zap.Logger
}

// New 创建注册表（client 可为 nil，此时只使用内置表）
func New(client *Client, logger *zap.Logger) *Registry {
	states := make(map[string]string, len(identity.StateNames))
	for code, name := range identity.StateNames {
		states[code] = name
	}
	return &Registry{
		states: states,
		client: client,
		logger: logger,
	}
}

// IsStateCode 判断是否为识别的州/联邦属地代码
func (r *Registry) IsStateCode(code string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.states[code]
	return ok
}

// StateName 获取州显示名称
func (r *Registry) StateName(code string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.states[code]
	return name, ok
}

// StateCodes 返回全部识别代码（排序后）
func (r *Registry) StateCodes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	codes := make([]string, 0, len(r.states))
	for code := range r.states {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Refresh 从远端主数据服务刷新显示名称（失败时保留当前表）
func (r *Registry) Refresh(ctx context.Context) error {
	if r.client == nil {
		return nil
	}

	remote, err := r.client.FetchStates(ctx)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	updated := 0
	for code, name := range remote {
		// 只更新内置表已有的代码，远端不能扩表
		if _, ok := r.states[code]; ok && name != "" {
			r.states[code] = name
			updated++
		}
	}
	r.logger.Info("State registry refreshed",
		zap.Int("remote_entries", len(remote)),
		zap.Int("updated", updated),
	)
	return nil
}
