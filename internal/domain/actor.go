package domain

// Actor 是当前请求中已认证的用户身份，由认证中间件解析后放入请求上下文。
type Actor struct {
	UserID uint
}

// Authenticated 报告 Actor 是否代表一个已认证的用户。
func (a Actor) Authenticated() bool {
	return a.UserID != 0
}
