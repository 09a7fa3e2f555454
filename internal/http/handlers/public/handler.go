package public

import "github.com/lunapatch/storefront/internal/provider"

// Handler 前台接口处理器入口
// 说明：商品目录、购物车与结账均为游客侧接口，按浏览会话区分。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
