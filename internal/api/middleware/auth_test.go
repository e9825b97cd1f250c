package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"resource-pulse/config"
	"resource-pulse/pkg/jwt"
)

// ═══════════════════════════════════════════════════════════
// JWT 认证中间件测试（rdb=nil 时跳过黑名单检查）
// ═══════════════════════════════════════════════════════════

func newTestManager() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	})
}

func newAuthRouter(jwtMgr *jwt.Manager, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := []gin.HandlerFunc{JWTAuth(jwtMgr, nil)}
	if len(roles) > 0 {
		handlers = append(handlers, RoleAuth(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString("user_id"),
			"role":    c.GetString("role"),
		})
	})
	r.GET("/protected", handlers...)
	return r
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth_ValidToken(t *testing.T) {
	jwtMgr := newTestManager()
	r := newAuthRouter(jwtMgr)

	token, err := jwtMgr.GenerateAccessToken("u1", "admin")
	if err != nil {
		t.Fatalf("签发失败: %v", err)
	}

	w := doRequest(r, "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200, 实际 %d: %s", w.Code, w.Body.String())
	}
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	r := newAuthRouter(newTestManager())

	w := doRequest(r, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("缺少认证头期望 401, 实际 %d", w.Code)
	}
}

func TestJWTAuth_MalformedHeader(t *testing.T) {
	jwtMgr := newTestManager()
	r := newAuthRouter(jwtMgr)

	token, _ := jwtMgr.GenerateAccessToken("u1", "admin")
	for _, header := range []string{"Basic " + token, token, "Bearer"} {
		w := doRequest(r, header)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("非法认证头 %q 期望 401, 实际 %d", header, w.Code)
		}
	}
}

func TestJWTAuth_RefreshTokenRejected(t *testing.T) {
	jwtMgr := newTestManager()
	r := newAuthRouter(jwtMgr)

	// refresh token 不能用于访问接口
	token, err := jwtMgr.GenerateRefreshToken("u1", "admin")
	if err != nil {
		t.Fatalf("签发失败: %v", err)
	}

	w := doRequest(r, "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("refresh token 期望 401, 实际 %d", w.Code)
	}
}

func TestRoleAuth(t *testing.T) {
	jwtMgr := newTestManager()
	r := newAuthRouter(jwtMgr, "admin", "manager")

	cases := []struct {
		role string
		want int
	}{
		{"admin", http.StatusOK},
		{"manager", http.StatusOK},
		{"member", http.StatusForbidden},
	}
	for _, tc := range cases {
		token, err := jwtMgr.GenerateAccessToken("u1", tc.role)
		if err != nil {
			t.Fatalf("签发失败: %v", err)
		}
		w := doRequest(r, "Bearer "+token)
		if w.Code != tc.want {
			t.Errorf("角色 %s 期望 %d, 实际 %d", tc.role, tc.want, w.Code)
		}
	}
}
