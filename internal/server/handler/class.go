package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KaramelBytes/classmate-cli/internal/server/response"
	"github.com/KaramelBytes/classmate-cli/internal/workspace"
)

type ClassHandler struct {
	ws *workspace.Workspace
}

type ClassRequest struct {
	Name string `json:"name" binding:"required,max=128"`
}

type classView struct {
	Name      string `json:"name"`
	Documents int    `json:"documents"`
	Active    bool   `json:"active"`
}

func NewClassHandler(ws *workspace.Workspace) *ClassHandler {
	return &ClassHandler{ws: ws}
}

func (h *ClassHandler) List(c *gin.Context) {
	active := h.ws.ActiveClass()
	names := h.ws.Classes()
	out := make([]classView, 0, len(names))
	for _, name := range names {
		docs, _ := h.ws.Documents(name)
		out = append(out, classView{Name: name, Documents: len(docs), Active: name == active})
	}
	response.OK(c, gin.H{"classes": out, "active": active})
}

// Create adds a class. An existing name answers 200 and changes nothing.
func (h *ClassHandler) Create(c *gin.Context) {
	var req ClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}
	added, err := h.ws.AddClass(req.Name)
	if err != nil {
		writeError(c, err, "create class failed")
		return
	}
	data := gin.H{"name": req.Name, "created": added, "active": h.ws.ActiveClass()}
	if added {
		response.Created(c, data)
		return
	}
	response.OK(c, data)
}

func (h *ClassHandler) Select(c *gin.Context) {
	var req ClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}
	if err := h.ws.SelectClass(req.Name); err != nil {
		writeError(c, err, "select class failed")
		return
	}
	response.OK(c, gin.H{"active": h.ws.ActiveClass()})
}

func (h *ClassHandler) Documents(c *gin.Context) {
	docs, err := h.ws.Documents(c.Param("name"))
	if err != nil {
		writeError(c, err, "list documents failed")
		return
	}
	response.OK(c, gin.H{"class": c.Param("name"), "documents": docs})
}
