// Package token 负责签发和校验 HS256 JWT。
// 认证服务用它签发 access/refresh token，认证中间件用它校验 access token。
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Type 区分 access token 和 refresh token
type Type string

const (
	TypeAccess  Type = "access"
	TypeRefresh Type = "refresh"
)

var (
	// ErrInvalidToken 表示 token 格式错误、签名无效或已过期
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrWrongTokenType 表示 token 有效但类型不符 (例如用 access token 去刷新)
	ErrWrongTokenType = errors.New("wrong token type")
	// ErrMissingUserID 表示 claims 中缺少合法的 user_id
	ErrMissingUserID = errors.New("token has no valid user_id claim")
)

// Issuer 签发和解析 JWT
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewIssuer 创建 Issuer。secret 不能为空；TTL 非正数时使用默认值。
func NewIssuer(secret string, accessTTL, refreshTTL time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT secret key cannot be empty")
	}
	if accessTTL <= 0 {
		accessTTL = 24 * time.Hour
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &Issuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

// Issue 为指定用户签发一个给定类型的 token
func (i *Issuer) Issue(userID uint, typ Type) (string, error) {
	ttl := i.accessTTL
	if typ == TypeRefresh {
		ttl = i.refreshTTL
	}
	now := i.now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":    userID,
		"token_type": string(typ),
		"exp":        now.Add(ttl).Unix(),
		"iat":        now.Unix(),
	})
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse 校验 token 并返回其中的用户 ID。
// 返回的错误会包装 ErrInvalidToken 或 ErrWrongTokenType，原始的 jwt 错误仍可通过 errors.As 取出。
func (i *Issuer) Parse(tokenStr string, want Type) (uint, error) {
	parsed, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		// 只接受 HMAC 签名
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return 0, ErrInvalidToken
	}

	if typ, _ := claims["token_type"].(string); Type(typ) != want {
		return 0, fmt.Errorf("%w: got %q, want %q", ErrWrongTokenType, typ, want)
	}

	// JWT 数字默认为 float64，需要安全转换为 uint
	userIDFloat, ok := claims["user_id"].(float64)
	if !ok || userIDFloat <= 0 || userIDFloat != float64(uint(userIDFloat)) {
		return 0, ErrMissingUserID
	}
	return uint(userIDFloat), nil
}
