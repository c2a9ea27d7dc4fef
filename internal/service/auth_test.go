package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"tweeter/internal/domain"
	"tweeter/internal/repository"
	"tweeter/internal/repository/mocks"
	"tweeter/internal/service"
	"tweeter/internal/token"
)

// mockRecorder 记录所有 Activity，便于断言
type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) Record(ctx context.Context, activity domain.Activity) error {
	return m.Called(ctx, activity).Error(0)
}

func verbIs(verb domain.ActivityVerb, targetID uint) interface{} {
	return mock.MatchedBy(func(a domain.Activity) bool {
		return a.Verb == verb && a.TargetID == targetID && !a.OccurredAt.IsZero()
	})
}

func newIssuer(t *testing.T) *token.Issuer {
	t.Helper()
	issuer, err := token.NewIssuer("very-secret-key", time.Hour, 2*time.Hour)
	require.NoError(t, err)
	return issuer
}

// --- 测试 Register 方法 ---

func TestAuthService_Register_Success(t *testing.T) {
	// Arrange: 准备 Mock 对象, Service 实例, 和测试数据
	mockUserRepo := new(mocks.UserRepository)
	recorder := new(mockRecorder)
	authService := service.NewAuthService(mockUserRepo, newIssuer(t), recorder)

	ctx := context.Background()
	in := service.RegisterInput{Username: "alice", Password: "StrongPass123", Email: "alice@example.com", FirstName: "Alice"}

	mockUserRepo.On("FindByUsername", ctx, "alice").Return(nil, repository.ErrUserNotFound).Once()
	var hashed string
	mockUserRepo.On("Create", ctx, mock.MatchedBy(func(user *domain.User) bool {
		return user.Username == "alice" && user.FirstName == "Alice"
	})).
		Run(func(args mock.Arguments) { // 模拟数据库填充字段
			userArg := args.Get(1).(*domain.User)
			hashed = userArg.Password // Register 返回前会清空密码，这里先记下哈希
			userArg.ID = 5
			userArg.CreatedAt = time.Now()
		}).
		Return(nil).
		Once()
	recorder.On("Record", ctx, verbIs(domain.VerbUserRegistered, 5)).Return(nil).Once()

	// Act
	registered, err := authService.Register(ctx, in)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(5), registered.ID)
	assert.Equal(t, "alice@example.com", registered.Email)
	assert.Empty(t, registered.Password, "返回的用户密码应为空")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hashed), []byte(in.Password)), "密码应被正确哈希")

	mockUserRepo.AssertExpectations(t)
	recorder.AssertExpectations(t)
}

func TestAuthService_Register_UsernameTaken(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := service.NewAuthService(mockUserRepo, newIssuer(t), nil)
	ctx := context.Background()

	mockUserRepo.On("FindByUsername", ctx, "alice").Return(&domain.User{ID: 10, Username: "alice"}, nil).Once()

	_, err := authService.Register(ctx, service.RegisterInput{Username: "alice", Password: "pw"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrRegistrationFailed))
	mockUserRepo.AssertExpectations(t)
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_Register_CreateFails_DuplicateEntry(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := service.NewAuthService(mockUserRepo, newIssuer(t), nil)
	ctx := context.Background()

	// 并发注册：预检查时不存在，插入时被唯一索引拦下
	mockUserRepo.On("FindByUsername", ctx, "bob").Return(nil, repository.ErrUserNotFound).Once()
	mockUserRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(repository.ErrDuplicateEntry).Once()

	_, err := authService.Register(ctx, service.RegisterInput{Username: "bob", Password: "pw"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrRegistrationFailed))
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Register_InvalidInput(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := service.NewAuthService(mockUserRepo, newIssuer(t), nil)
	ctx := context.Background()

	for _, in := range []service.RegisterInput{
		{Username: "", Password: "pw"},
		{Username: "   ", Password: "pw"},
		{Username: "alice", Password: ""},
		{Username: strings.Repeat("a", 151), Password: "pw"},
		{Username: "alice", Password: strings.Repeat("p", 73)},
	} {
		_, err := authService.Register(ctx, in)
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	}
	mockUserRepo.AssertNotCalled(t, "FindByUsername", mock.Anything, mock.Anything)
}

// --- 测试 Login / Refresh ---

func TestAuthService_Login_Success(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	issuer := newIssuer(t)
	authService := service.NewAuthService(mockUserRepo, issuer, nil)
	ctx := context.Background()
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	mockUserRepo.On("FindByUsername", ctx, "testuser").
		Return(&domain.User{ID: 1, Username: "testuser", Password: string(hashed)}, nil).Once()

	pair, err := authService.Login(ctx, "testuser", "password123")

	require.NoError(t, err)
	userID, err := issuer.Parse(pair.Access, token.TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, uint(1), userID)
	_, err = issuer.Parse(pair.Refresh, token.TypeRefresh)
	assert.NoError(t, err)
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := service.NewAuthService(mockUserRepo, newIssuer(t), nil)
	ctx := context.Background()
	mockUserRepo.On("FindByUsername", ctx, "nonexistent").Return(nil, repository.ErrUserNotFound).Once()

	pair, err := authService.Login(ctx, "nonexistent", "password")

	require.Error(t, err)
	assert.Nil(t, pair)
	assert.True(t, errors.Is(err, service.ErrAuthenticationFailed))
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Login_IncorrectPassword(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := service.NewAuthService(mockUserRepo, newIssuer(t), nil)
	ctx := context.Background()
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	mockUserRepo.On("FindByUsername", ctx, "testuser").
		Return(&domain.User{ID: 1, Username: "testuser", Password: string(hashed)}, nil).Once()

	_, err := authService.Login(ctx, "testuser", "wrongpassword")

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrAuthenticationFailed))
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Refresh(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	issuer := newIssuer(t)
	authService := service.NewAuthService(mockUserRepo, issuer, nil)
	ctx := context.Background()
	mockUserRepo.On("FindByID", ctx, uint(9)).Return(&domain.User{ID: 9}, nil).Once()

	refresh, err := issuer.Issue(9, token.TypeRefresh)
	require.NoError(t, err)

	access, err := authService.Refresh(ctx, refresh)
	require.NoError(t, err)
	userID, err := issuer.Parse(access, token.TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, uint(9), userID)

	// access token 不能用来刷新
	_, err = authService.Refresh(ctx, access)
	assert.ErrorIs(t, err, service.ErrAuthenticationFailed)
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Refresh_UserGone(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	issuer := newIssuer(t)
	authService := service.NewAuthService(mockUserRepo, issuer, nil)
	ctx := context.Background()
	mockUserRepo.On("FindByID", ctx, uint(9)).Return(nil, repository.ErrUserNotFound).Once()

	refresh, err := issuer.Issue(9, token.TypeRefresh)
	require.NoError(t, err)

	_, err = authService.Refresh(ctx, refresh)
	assert.ErrorIs(t, err, service.ErrAuthenticationFailed, "用户已不存在时刷新应返回认证失败")
	mockUserRepo.AssertExpectations(t)
}
