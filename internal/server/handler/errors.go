package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KaramelBytes/classmate-cli/internal/parser"
	"github.com/KaramelBytes/classmate-cli/internal/server/response"
	"github.com/KaramelBytes/classmate-cli/internal/workspace"
)

// writeError maps workspace and parser errors onto the response envelope.
func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, workspace.ErrEmptyClassName):
		response.Error(c, http.StatusBadRequest, response.CodeEmptyClassName, err.Error())
	case errors.Is(err, workspace.ErrEmptyDocumentName):
		response.Error(c, http.StatusBadRequest, response.CodeEmptyDocName, err.Error())
	case errors.Is(err, workspace.ErrEmptyMessage):
		response.Error(c, http.StatusBadRequest, response.CodeEmptyMessage, err.Error())
	case errors.Is(err, workspace.ErrClassNotFound):
		response.Error(c, http.StatusNotFound, response.CodeClassNotFound, err.Error())
	case errors.Is(err, workspace.ErrNoActiveClass):
		response.Error(c, http.StatusConflict, response.CodeNoActiveClass, err.Error())
	case errors.Is(err, parser.ErrUnsupported):
		response.Error(c, http.StatusUnsupportedMediaType, response.CodeUnsupportedType, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, fallback)
	}
}
