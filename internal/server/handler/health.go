package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/KaramelBytes/classmate-cli/internal/server/response"
	"github.com/KaramelBytes/classmate-cli/internal/workspace"
)

type HealthHandler struct {
	ws        *workspace.Workspace
	redis     *redis.Client
	provider  string
	startedAt time.Time
}

type dependencyStatus struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

func NewHealthHandler(ws *workspace.Workspace, rdb *redis.Client, provider string) *HealthHandler {
	return &HealthHandler{ws: ws, redis: rdb, provider: provider, startedAt: time.Now()}
}

func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	deps := gin.H{}
	if h.redis != nil {
		st := h.checkRedis(ctx)
		if !st.OK {
			response.Error(c, http.StatusServiceUnavailable, response.CodeUnavailable, "redis unavailable: "+st.Message)
			return
		}
		deps["redis"] = st
	}

	response.OK(c, gin.H{
		"app":          "classmate",
		"provider":     h.provider,
		"classes":      len(h.ws.Classes()),
		"uptime_sec":   int(time.Since(h.startedAt).Seconds()),
		"dependencies": deps,
	})
}

func (h *HealthHandler) checkRedis(ctx context.Context) dependencyStatus {
	if err := h.redis.Ping(ctx).Err(); err != nil {
		return dependencyStatus{OK: false, Message: err.Error()}
	}
	return dependencyStatus{OK: true}
}
