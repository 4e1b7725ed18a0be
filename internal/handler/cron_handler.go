package handler

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// RunPublishSweep 手动触发一次定时发布扫描，供外部 cron 调用。
// 配置了 CRON_SECRET 时请求需携带匹配的 Bearer 令牌。
func (a *API) RunPublishSweep(c *gin.Context) {
	if secret := a.cfg.CronSecret; secret != "" {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if token != secret {
			respondError(c, http.StatusUnauthorized, "无效的令牌")
			return
		}
	}

	result, err := a.posts.PublishDue(time.Now())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "发布扫描失败")
		return
	}

	if result.Count > 0 {
		log.Printf("publish sweep: %d post(s) published", result.Count)
	}
	respondData(c, http.StatusOK, result)
}
