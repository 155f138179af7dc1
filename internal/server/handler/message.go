package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/KaramelBytes/classmate-cli/internal/ai"
	"github.com/KaramelBytes/classmate-cli/internal/server/response"
	"github.com/KaramelBytes/classmate-cli/internal/workspace"
)

type MessageHandler struct {
	ws      *workspace.Workspace
	runtime ai.Runtime
	timeout time.Duration
	log     *zap.SugaredLogger
}

type SendMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

func NewMessageHandler(ws *workspace.Workspace, rt ai.Runtime, timeout time.Duration, log *zap.SugaredLogger) *MessageHandler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &MessageHandler{ws: ws, runtime: rt, timeout: timeout, log: log}
}

func (h *MessageHandler) List(c *gin.Context) {
	response.OK(c, gin.H{"messages": h.ws.Messages()})
}

// Send runs one round-trip. A failed round-trip is still a 200: the error
// bubble is part of the transcript.
func (h *MessageHandler) Send(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeEmptyMessage, workspace.ErrEmptyMessage.Error())
		return
	}
	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	ex, err := h.ws.Send(ctx, h.runtime, req.Text)
	if err != nil {
		writeError(c, err, "send message failed")
		return
	}
	data := gin.H{
		"messages":   []workspace.ChatMessage{ex.Request, ex.Reply},
		"usage":      ex.Usage,
		"elapsed_ms": ex.Elapsed.Milliseconds(),
	}
	if ex.Err != nil {
		h.log.Warnw("chat round-trip failed", "error", ex.Err)
		if hint := ai.Hint(ex.Err); hint != "" {
			data["hint"] = hint
		}
	}
	response.OK(c, data)
}

func (h *MessageHandler) Clear(c *gin.Context) {
	n := h.ws.ClearHistory()
	response.OK(c, gin.H{"cleared": n})
}
