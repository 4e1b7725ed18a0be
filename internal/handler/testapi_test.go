package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/vixenblog/internal/config"
	"github.com/vixenblog/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) (*API, func()) {
	t.Helper()

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if err := gdb.Create(&db.User{Username: "tester", Password: string(hashed), Name: "Tester"}).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	db.DB = gdb

	cfg := config.AppConfig{
		SessionSecret: "test-secret",
		UploadDir:     t.TempDir(),
		UploadURLPath: "/static/uploads",
		SiteBaseURL:   "https://blog.example.com",
	}

	return NewAPI(gdb, cfg), func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

// newTestEngine 构造带会话中间件的测试引擎，路由由调用方注册。
func newTestEngine(register func(r *gin.Engine)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	r.Use(sessions.Sessions("vixenblog_session", store))
	register(r)
	return r
}

// asAdmin 在会话中注入已登录用户，模拟通过认证的后台请求。
func asAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set(sessionUserIDKey, uint(1))
		session.Set(sessionUsernameKey, "tester")
		_ = session.Save()
		c.Next()
	}
}

func performRequest(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seedPublishedPost(t *testing.T, gdb *gorm.DB, slug string) *db.Post {
	t.Helper()

	now := time.Now()
	post := db.Post{
		Title: slug, Content: "正文内容", Slug: slug,
		Published: true, PublishedAt: &now, AuthorID: 1,
	}
	if err := gdb.Create(&post).Error; err != nil {
		t.Fatalf("failed to seed post: %v", err)
	}
	return &post
}
