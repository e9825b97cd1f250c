package jwt

import (
	"testing"
	"time"

	"resource-pulse/config"
)

func newTestManager(ttl time.Duration) *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  ttl,
		RefreshTokenTTL: ttl * 2,
	})
}

func TestGenerateAndParse(t *testing.T) {
	m := newTestManager(15 * time.Minute)

	token, err := m.GenerateAccessToken("u1", "admin")
	if err != nil {
		t.Fatalf("签发失败: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if claims.UserID != "u1" || claims.Role != "admin" {
		t.Errorf("期望 u1/admin, 实际 %s/%s", claims.UserID, claims.Role)
	}
	if claims.TokenType != "access" {
		t.Errorf("期望类型 access, 实际 %s", claims.TokenType)
	}
	if claims.ID == "" {
		t.Error("期望生成唯一 JTI")
	}
	if claims.Issuer != "resource-pulse" {
		t.Errorf("期望签发方 resource-pulse, 实际 %s", claims.Issuer)
	}
}

func TestRefreshTokenType(t *testing.T) {
	m := newTestManager(15 * time.Minute)

	token, err := m.GenerateRefreshToken("u1", "member")
	if err != nil {
		t.Fatalf("签发失败: %v", err)
	}
	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if claims.TokenType != "refresh" {
		t.Errorf("期望类型 refresh, 实际 %s", claims.TokenType)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	m := newTestManager(15 * time.Minute)
	other := NewManager(&config.AuthConfig{
		JWTSecret:      "another-secret",
		AccessTokenTTL: 15 * time.Minute,
	})

	token, err := m.GenerateAccessToken("u1", "admin")
	if err != nil {
		t.Fatalf("签发失败: %v", err)
	}
	if _, err := other.ParseToken(token); err != ErrTokenInvalid {
		t.Errorf("异 secret 期望 ErrTokenInvalid, 实际 %v", err)
	}
}

func TestParseToken_Expired(t *testing.T) {
	m := newTestManager(-time.Minute)

	token, err := m.GenerateAccessToken("u1", "admin")
	if err != nil {
		t.Fatalf("签发失败: %v", err)
	}
	if _, err := m.ParseToken(token); err != ErrTokenExpired {
		t.Errorf("过期 token 期望 ErrTokenExpired, 实际 %v", err)
	}
}

func TestParseToken_Garbage(t *testing.T) {
	m := newTestManager(15 * time.Minute)

	if _, err := m.ParseToken("not-a-jwt"); err != ErrTokenInvalid {
		t.Errorf("非法字符串期望 ErrTokenInvalid, 实际 %v", err)
	}
}
