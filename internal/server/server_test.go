package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/classmate-cli/internal/ai"
	"github.com/KaramelBytes/classmate-cli/internal/server/response"
	"github.com/KaramelBytes/classmate-cli/internal/workspace"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter(t *testing.T, rt ai.Runtime) (*gin.Engine, *workspace.Workspace) {
	t.Helper()
	ws := workspace.NewDemoWorkspace()
	t.Cleanup(ws.Close)
	return NewRouter(Deps{Workspace: ws, Runtime: rt, GinMode: gin.TestMode, ChatTimeout: time.Second}), ws
}

func do(t *testing.T, h http.Handler, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var env envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestHealthz(t *testing.T) {
	r, _ := newTestRouter(t, ai.NewMockClient(0))
	rec, env := do(t, r, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, response.CodeOK, env.Code)
	require.Contains(t, string(env.Data), `"classes":3`)
}

func TestHealthzRedisDown(t *testing.T) {
	ws := workspace.NewDemoWorkspace()
	t.Cleanup(ws.Close)
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	r := NewRouter(Deps{Workspace: ws, Redis: rdb, GinMode: gin.TestMode})

	rec, env := do(t, r, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, response.CodeUnavailable, env.Code)
	require.Contains(t, env.Message, "redis unavailable")
	require.Empty(t, env.Data)
}

func TestCreateClass(t *testing.T) {
	r, ws := newTestRouter(t, nil)

	rec, env := do(t, r, http.MethodPost, "/api/v1/classes", gin.H{"name": "Art"})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, response.CodeOK, env.Code)
	require.Contains(t, ws.Classes(), "Art")

	rec, env = do(t, r, http.MethodPost, "/api/v1/classes", gin.H{"name": "Art"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, string(env.Data), `"created":false`)
	require.Len(t, ws.Classes(), 4)

	rec, _ = do(t, r, http.MethodPost, "/api/v1/classes", gin.H{"name": ""})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = do(t, r, http.MethodPost, "/api/v1/classes", gin.H{"name": "   "})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, response.CodeEmptyClassName, env.Code)
}

func TestListAndSelectClass(t *testing.T) {
	r, ws := newTestRouter(t, nil)

	rec, env := do(t, r, http.MethodGet, "/api/v1/classes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var data struct {
		Active  string `json:"active"`
		Classes []struct {
			Name      string `json:"name"`
			Documents int    `json:"documents"`
		} `json:"classes"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Equal(t, "Math", data.Active)
	require.Len(t, data.Classes, 3)
	require.Equal(t, 1, data.Classes[0].Documents)

	rec, _ = do(t, r, http.MethodPut, "/api/v1/classes/active", gin.H{"name": "History"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "History", ws.ActiveClass())

	rec, env = do(t, r, http.MethodPut, "/api/v1/classes/active", gin.H{"name": "Nope"})
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, response.CodeClassNotFound, env.Code)
}

func TestClassDocuments(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	rec, env := do(t, r, http.MethodGet, "/api/v1/classes/History/documents", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, string(env.Data), "History Essay")

	rec, _ = do(t, r, http.MethodGet, "/api/v1/classes/Nope/documents", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadDocumentJSON(t *testing.T) {
	r, ws := newTestRouter(t, nil)
	rec, _ := do(t, r, http.MethodPost, "/api/v1/documents", gin.H{"name": "Notes", "content": "limits"})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, ws.ActiveDocuments(), 2)

	rec, _ = do(t, r, http.MethodPost, "/api/v1/documents", gin.H{"name": "Dates", "content": "1789", "class": "History"})
	require.Equal(t, http.StatusCreated, rec.Code)
	hist, _ := ws.Documents("History")
	require.Len(t, hist, 2)
}

func TestUploadDocumentMultipart(t *testing.T) {
	r, ws := newTestRouter(t, nil)

	upload := func(filename, content string) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, mw.Close())
		req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	rec := upload("chapter-2.md", "# Derivatives")
	require.Equal(t, http.StatusCreated, rec.Code)
	docs := ws.ActiveDocuments()
	require.Equal(t, "chapter-2", docs[len(docs)-1].Name)
	require.Equal(t, "# Derivatives", docs[len(docs)-1].Content)

	rec = upload("slides.pptx", "x")
	require.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	require.Len(t, ws.ActiveDocuments(), 2)
}

func TestRemoveDocument(t *testing.T) {
	r, ws := newTestRouter(t, nil)
	id := ws.ActiveDocuments()[0].ID

	rec, _ := do(t, r, http.MethodDelete, "/api/v1/documents/abc", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, r, http.MethodDelete, "/api/v1/documents/"+strconv.Itoa(id), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, ws.ActiveDocuments())

	rec, env := do(t, r, http.MethodDelete, "/api/v1/documents/"+strconv.Itoa(id), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, response.CodeDocumentNotFound, env.Code)
}

func TestSendMessage(t *testing.T) {
	r, ws := newTestRouter(t, ai.NewMockClient(0))

	rec, env := do(t, r, http.MethodPost, "/api/v1/messages", gin.H{"text": "help"})
	require.Equal(t, http.StatusOK, rec.Code)
	var data struct {
		Messages []workspace.ChatMessage `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Messages, 2)
	require.Equal(t, ai.DefaultMockReply, data.Messages[1].Text)
	require.Len(t, ws.Messages(), 2)

	rec, env = do(t, r, http.MethodPost, "/api/v1/messages", gin.H{"text": "  "})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, response.CodeEmptyMessage, env.Code)
	require.Len(t, ws.Messages(), 2)

	rec, env = do(t, r, http.MethodGet, "/api/v1/messages", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, string(env.Data), "help")

	rec, _ = do(t, r, http.MethodDelete, "/api/v1/messages", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, ws.Messages())
}

func TestSendMessageFailureIsErrorBubble(t *testing.T) {
	rt := ai.RuntimeFunc(func(ctx context.Context, req ai.GenerateRequest) (*ai.GenerateResponse, error) {
		return nil, errors.New("upstream down")
	})
	r, ws := newTestRouter(t, rt)

	rec, env := do(t, r, http.MethodPost, "/api/v1/messages", gin.H{"text": "hi"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, string(env.Data), "Error: upstream down")
	msgs := ws.Messages()
	require.Len(t, msgs, 2)
	require.True(t, msgs[1].Error)
}

func TestRunShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, "127.0.0.1:0", http.NotFoundHandler(), nil) }()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}
