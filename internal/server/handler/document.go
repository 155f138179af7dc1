package handler

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/KaramelBytes/classmate-cli/internal/parser"
	"github.com/KaramelBytes/classmate-cli/internal/server/response"
	"github.com/KaramelBytes/classmate-cli/internal/workspace"
)

const maxUploadSize = 10 << 20

type DocumentHandler struct {
	ws *workspace.Workspace
}

type DocumentRequest struct {
	Name    string `json:"name" binding:"required,max=256"`
	Content string `json:"content"`
	Class   string `json:"class" binding:"max=128"`
}

func NewDocumentHandler(ws *workspace.Workspace) *DocumentHandler {
	return &DocumentHandler{ws: ws}
}

// Upload accepts a multipart form with "file" and optional "name" and "class",
// or a JSON body with name and content. Without a class the active class is used.
func (h *DocumentHandler) Upload(c *gin.Context) {
	var name, source, content, class string
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		file, err := c.FormFile("file")
		if err != nil {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing file")
			return
		}
		if file.Size > maxUploadSize {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "file too large (max 10MB)")
			return
		}
		if !parser.Supported(file.Filename) {
			response.Error(c, http.StatusUnsupportedMediaType, response.CodeUnsupportedType,
				"supported formats: "+strings.Join(parser.Extensions(), " "))
			return
		}
		f, err := file.Open()
		if err != nil {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to read file")
			return
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to read file")
			return
		}
		content, err = parser.ParseBytes(file.Filename, data)
		if err != nil {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "failed to parse file: "+err.Error())
			return
		}
		name = c.PostForm("name")
		source = file.Filename
		class = strings.TrimSpace(c.PostForm("class"))
	} else {
		var req DocumentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
			return
		}
		name, content, class = req.Name, req.Content, strings.TrimSpace(req.Class)
	}

	var (
		doc workspace.Document
		err error
	)
	if class != "" {
		doc, err = h.ws.AddDocument(class, name, source, content)
	} else {
		doc, err = h.ws.UploadDocument(name, source, content)
	}
	if err != nil {
		writeError(c, err, "upload document failed")
		return
	}
	response.Created(c, doc)
}

// Remove deletes a document from the active class.
func (h *DocumentHandler) Remove(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid document id")
		return
	}
	if !h.ws.RemoveDocument(id) {
		response.Error(c, http.StatusNotFound, response.CodeDocumentNotFound, "document not found in active class")
		return
	}
	response.OK(c, gin.H{"deleted_document_id": id})
}
