package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"arkiv_quests_backend/internal/config"
	"arkiv_quests_backend/internal/model"
	"arkiv_quests_backend/internal/util"

	"github.com/gin-gonic/gin"
)

func testConfig(secret string) *config.Config {
	return &config.Config{JWT: config.JWTConfig{Secret: secret, ExpireTime: time.Hour}}
}

func authRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/ping", AuthMiddleware(cfg), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func authRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func testUser() *model.User {
	u := &model.User{
		Name:          "测试用户",
		Email:         "user@example.com",
		WalletAddress: "0xwallet",
		Role:          model.Student,
	}
	u.ID = 1
	return u
}

func TestAuthMiddlewareUsesReloadedSecret(t *testing.T) {
	bootCfg := testConfig("boot-secret-boot-secret-boot-secret")
	config.SetCurrent(bootCfg)
	defer config.SetCurrent(nil)

	router := authRouter(bootCfg)

	oldToken, err := util.GenerateJWT(testUser(), bootCfg.JWT.Secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}

	// 热更新换掉密钥
	reloaded := testConfig("reloaded-secret-reloaded-secret-!!")
	config.SetCurrent(reloaded)

	newToken, err := util.GenerateJWT(testUser(), reloaded.JWT.Secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest(newToken))
	if w.Code != http.StatusOK {
		t.Fatalf("token signed with the reloaded secret must pass, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest(oldToken))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("token signed with the replaced secret must be rejected, got %d", w.Code)
	}
}

// 热更新与请求并发执行必须无数据竞争（配合 -race 验证）
func TestAuthMiddlewareConcurrentWithReload(t *testing.T) {
	bootCfg := testConfig("boot-secret-boot-secret-boot-secret")
	config.SetCurrent(bootCfg)
	defer config.SetCurrent(nil)

	router := authRouter(bootCfg)
	token, err := util.GenerateJWT(testUser(), bootCfg.JWT.Secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		secrets := []string{
			"boot-secret-boot-secret-boot-secret",
			"other-secret-other-secret-other-!!!",
		}
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			config.SetCurrent(testConfig(secrets[i%len(secrets)]))
		}
	}()

	for i := 0; i < 200; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, authRequest(token))
		if w.Code != http.StatusOK && w.Code != http.StatusUnauthorized {
			t.Fatalf("unexpected status %d", w.Code)
		}
	}

	close(stop)
	wg.Wait()
}
