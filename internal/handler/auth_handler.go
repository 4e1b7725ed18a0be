package handler

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/vixenblog/internal/db"
	"github.com/vixenblog/internal/service"
	"golang.org/x/crypto/bcrypt"
)

const (
	sessionUserIDKey   = "user_id"
	sessionUsernameKey = "username"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 处理管理员登录请求。
func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req, "用户名和密码不能为空") {
		return
	}

	var user db.User
	if err := a.db.Where("username = ?", strings.TrimSpace(req.Username)).
		First(&user).Error; err != nil {
		respondError(c, http.StatusUnauthorized, "用户名或密码错误")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "用户名或密码错误")
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUserIDKey, user.ID)
	session.Set(sessionUsernameKey, user.Username)
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "会话保存失败")
		return
	}

	a.oplog.Record(operationEntry(c, user.ID, user.Username, "login", "auth", user.Username, user.ID))

	respondData(c, http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"name":     user.Name,
	})
}

// Logout 清除会话。
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "会话保存失败")
		return
	}
	respondMessage(c, http.StatusOK, "已退出登录")
}

// AuthRequired 保护后台接口，未登录的请求收到 401。
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if session.Get(sessionUserIDKey) == nil {
			respondError(c, http.StatusUnauthorized, "请先登录")
			c.Abort()
			return
		}
		c.Next()
	}
}

// sessionUser 返回当前会话的用户标识与用户名。
func sessionUser(c *gin.Context) (uint, string) {
	session := sessions.Default(c)
	id, _ := session.Get(sessionUserIDKey).(uint)
	name, _ := session.Get(sessionUsernameKey).(string)
	return id, name
}

func operationEntry(c *gin.Context, userID uint, userName, action, module, target string, targetID uint) service.OperationEntry {
	return service.OperationEntry{
		UserID:    userID,
		UserName:  userName,
		Action:    action,
		Module:    module,
		Target:    target,
		TargetID:  targetID,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

// GetProfile 返回当前登录用户的资料。
func (a *API) GetProfile(c *gin.Context) {
	userID, _ := sessionUser(c)

	var user db.User
	if err := a.db.First(&user, userID).Error; err != nil {
		respondError(c, http.StatusNotFound, "用户不存在")
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"name":     user.Name,
		"email":    user.Email,
	})
}

type profileRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// UpdateProfile 更新当前用户的昵称、邮箱，可选地更换密码。
func (a *API) UpdateProfile(c *gin.Context) {
	userID, username := sessionUser(c)

	var req profileRequest
	if !bindJSON(c, &req, "请求格式错误") {
		return
	}

	var user db.User
	if err := a.db.First(&user, userID).Error; err != nil {
		respondError(c, http.StatusNotFound, "用户不存在")
		return
	}

	user.Name = strings.TrimSpace(req.Name)
	user.Email = strings.TrimSpace(req.Email)

	if req.NewPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
			respondError(c, http.StatusBadRequest, "原密码错误")
			return
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "密码加密失败")
			return
		}
		user.Password = string(hashed)
	}

	if err := a.db.Save(&user).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "保存用户资料失败")
		return
	}

	a.oplog.Record(operationEntry(c, userID, username, "update", "profile", user.Username, user.ID))
	respondMessage(c, http.StatusOK, "资料已更新")
}
