package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"tweeter/internal/domain"
	"tweeter/internal/repository"
	"tweeter/internal/token"
)

const usernameMaxLength = 150

// RegisterInput 是注册所需的字段
type RegisterInput struct {
	Username  string
	Password  string
	Email     string
	FirstName string
}

// TokenPair 是登录成功后返回的一对 token
type TokenPair struct {
	Access  string
	Refresh string
}

// AuthService 负责用户注册和 token 的签发/刷新。
type AuthService struct {
	userRepo repository.UserRepository
	issuer   *token.Issuer
	recorder ActivityRecorder
}

// NewAuthService 创建 AuthService 实例。
func NewAuthService(userRepo repository.UserRepository, issuer *token.Issuer, recorder ActivityRecorder) *AuthService {
	if userRepo == nil {
		panic("UserRepository cannot be nil for AuthService")
	}
	if issuer == nil {
		panic("token.Issuer cannot be nil for AuthService")
	}
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &AuthService{userRepo: userRepo, issuer: issuer, recorder: recorder}
}

// Register 处理用户注册。返回的 User 不包含密码哈希。
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	logCtx := logrus.WithFields(logrus.Fields{"username": in.Username, "email": in.Email})

	// 1. 基本验证
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(in.Username) > usernameMaxLength {
		return nil, fmt.Errorf("%w: username must be at most %d characters", ErrInvalidInput, usernameMaxLength)
	}
	// bcrypt 只接受 72 字节以内的密码
	if len(in.Password) > 72 {
		return nil, fmt.Errorf("%w: password must be at most 72 bytes", ErrInvalidInput)
	}

	// 2. 检查用户名是否已被占用
	existing, err := s.userRepo.FindByUsername(ctx, in.Username)
	if err == nil && existing != nil {
		logCtx.Warn("Registration failed: username already exists")
		return nil, ErrRegistrationFailed
	}
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		logCtx.WithError(err).Error("Database error while checking username")
		return nil, ErrInternalServer
	}

	// 3. 哈希密码
	hashedPassword, err := hashPassword(in.Password)
	if err != nil {
		logCtx.WithError(err).Error("Failed to hash password during registration")
		return nil, ErrInternalServer
	}

	user := &domain.User{
		Username:  in.Username,
		Password:  hashedPassword,
		Email:     in.Email,
		FirstName: in.FirstName,
	}

	// 4. 保存用户；并发注册时唯一索引兜底
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			logCtx.WithError(err).Warn("Registration failed: username already exists (repo error)")
			return nil, ErrRegistrationFailed
		}
		logCtx.WithError(err).Error("Database error during user creation")
		return nil, ErrInternalServer
	}

	logCtx.WithField("user_id", user.ID).Info("User registered successfully")
	recordActivity(ctx, s.recorder, user.ID, domain.VerbUserRegistered, user.ID)
	user.Password = "" // 清除密码哈希再返回
	return user, nil
}

// Login 校验用户名和密码，成功时签发 access 和 refresh token。
func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	logCtx := logrus.WithField("username", username)

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			logCtx.WithError(err).Warn("Login attempt failed: User not found")
		} else {
			logCtx.WithError(err).Warn("Login attempt failed: Error finding user")
		}
		return nil, ErrAuthenticationFailed // 对客户端统一返回认证失败
	}
	if user == nil {
		logCtx.Warn("Login attempt failed: repo returned nil user without error")
		return nil, ErrAuthenticationFailed
	}

	if !checkPassword(password, user.Password) {
		logCtx.Warn("Login attempt failed: Invalid password")
		return nil, ErrAuthenticationFailed
	}

	pair, err := s.issuePair(user.ID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to generate JWT tokens during login")
		return nil, ErrInternalServer
	}

	logCtx.WithField("user_id", user.ID).Info("User logged in successfully")
	return pair, nil
}

// Refresh 用 refresh token 换取新的 access token。
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	userID, err := s.issuer.Parse(refreshToken, token.TypeRefresh)
	if err != nil {
		logrus.WithError(err).Warn("Token refresh failed: invalid refresh token")
		return "", ErrAuthenticationFailed
	}
	// 用户可能已不存在
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		logrus.WithField("user_id", userID).WithError(err).Warn("Token refresh failed: user lookup failed")
		return "", ErrAuthenticationFailed
	}
	access, err := s.issuer.Issue(userID, token.TypeAccess)
	if err != nil {
		logrus.WithField("user_id", userID).WithError(err).Error("Failed to sign access token during refresh")
		return "", ErrInternalServer
	}
	return access, nil
}

func (s *AuthService) issuePair(userID uint) (*TokenPair, error) {
	access, err := s.issuer.Issue(userID, token.TypeAccess)
	if err != nil {
		return nil, err
	}
	refresh, err := s.issuer.Issue(userID, token.TypeRefresh)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// --- 私有辅助函数 ---

// hashPassword 使用 bcrypt 对密码进行哈希处理
func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to generate hash from password: %w", err)
	}
	return string(bytes), nil
}

// checkPassword 验证提供的密码是否与存储的哈希匹配
func checkPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
