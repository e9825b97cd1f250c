package service

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"resource-pulse/config"
	"resource-pulse/internal/dto"
	"resource-pulse/internal/model"
	"resource-pulse/internal/repository"
	"resource-pulse/pkg/jwt"
)

// ═══════════════════════════════════════════════════════════
// 认证服务测试（不依赖 Redis 的路径）
// ═══════════════════════════════════════════════════════════

const testPassword = "Passw0rd!"

func newAuthFixture(t *testing.T) (*repository.Repository, AuthService) {
	t.Helper()
	cfg := newTestConfig()
	cfg.Auth = config.AuthConfig{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
	repo := newTestRepo()
	jwtMgr := jwt.NewManager(&cfg.Auth)
	svc := NewAuthService(cfg, repo, jwtMgr, nil, testLogger())
	return repo, svc
}

func seedAccount(t *testing.T, repo *repository.Repository, id, email, role string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("生成密码哈希失败: %v", err)
	}
	err = repo.User.Create(context.Background(), &model.User{
		UserID:       id,
		Name:         "账户" + id,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	})
	if err != nil {
		t.Fatalf("预置账户失败: %v", err)
	}
}

func TestLogin_Success(t *testing.T) {
	repo, svc := newAuthFixture(t)
	seedAccount(t, repo, "u1", "u1@example.com", model.RoleAdmin)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "u1@example.com",
		Password: testPassword,
	})
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("期望签发 access/refresh token 对")
	}
	if resp.ExpiresIn != int((15 * time.Minute).Seconds()) {
		t.Errorf("期望有效期 %d 秒, 实际 %d 秒", int((15 * time.Minute).Seconds()), resp.ExpiresIn)
	}
	if resp.User.Role != model.RoleAdmin {
		t.Errorf("期望角色 admin, 实际 %s", resp.User.Role)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	repo, svc := newAuthFixture(t)
	seedAccount(t, repo, "u1", "u1@example.com", model.RoleMember)

	// 密码错误
	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "u1@example.com",
		Password: "wrong-password",
	})
	if err != ErrInvalidCredentials {
		t.Errorf("期望 ErrInvalidCredentials, 实际 %v", err)
	}

	// 账户不存在（与密码错误不可区分）
	_, err = svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "ghost@example.com",
		Password: testPassword,
	})
	if err != ErrInvalidCredentials {
		t.Errorf("期望 ErrInvalidCredentials, 实际 %v", err)
	}
}

func TestRegister(t *testing.T) {
	repo, svc := newAuthFixture(t)

	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "新用户",
		Email:    "new@example.com",
		Password: testPassword,
	})
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}
	// 新账户默认为最低权限角色
	if resp.Role != model.RoleMember {
		t.Errorf("期望角色 member, 实际 %s", resp.Role)
	}

	// 密码以 bcrypt 哈希入库
	user, err := repo.User.GetByEmail(context.Background(), "new@example.com")
	if err != nil {
		t.Fatalf("查询账户失败: %v", err)
	}
	if user.PasswordHash == testPassword {
		t.Error("密码不应明文入库")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(testPassword)); err != nil {
		t.Error("入库哈希应能校验原密码")
	}

	// 邮箱重复
	_, err = svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "重复",
		Email:    "new@example.com",
		Password: testPassword,
	})
	if err != ErrEmailTaken {
		t.Errorf("期望 ErrEmailTaken, 实际 %v", err)
	}
}

func TestMe(t *testing.T) {
	repo, svc := newAuthFixture(t)
	seedAccount(t, repo, "u1", "u1@example.com", model.RoleManager)

	resp, err := svc.Me(context.Background(), "u1")
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if resp.Email != "u1@example.com" || resp.Role != model.RoleManager {
		t.Errorf("期望 u1@example.com/manager, 实际 %s/%s", resp.Email, resp.Role)
	}

	if _, err := svc.Me(context.Background(), "ghost"); err != ErrUserNotFound {
		t.Errorf("期望 ErrUserNotFound, 实际 %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	repo, svc := newAuthFixture(t)
	seedAccount(t, repo, "u1", "u1@example.com", model.RoleMember)

	// 原密码错误
	err := svc.ChangePassword(context.Background(), "u1", &dto.ChangePasswordRequest{
		OldPassword: "wrong",
		NewPassword: "NewPassw0rd!",
	})
	if err != ErrWrongOldPassword {
		t.Errorf("期望 ErrWrongOldPassword, 实际 %v", err)
	}

	// 正常修改后可用新密码登录
	err = svc.ChangePassword(context.Background(), "u1", &dto.ChangePasswordRequest{
		OldPassword: testPassword,
		NewPassword: "NewPassw0rd!",
	})
	if err != nil {
		t.Fatalf("修改密码失败: %v", err)
	}
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "u1@example.com",
		Password: "NewPassw0rd!",
	}); err != nil {
		t.Errorf("新密码登录失败: %v", err)
	}
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "u1@example.com",
		Password: testPassword,
	}); err != ErrInvalidCredentials {
		t.Errorf("旧密码应失效, 实际 %v", err)
	}
}
