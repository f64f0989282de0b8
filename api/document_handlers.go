package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetDocumentHandler handles requests to retrieve a document by ID
func (api *API) GetDocumentHandler(c *gin.Context) {
	documentID := c.Param("id")

	id, result := ValidateDocumentID(documentID)
	if result.HasErrors() {
		SendStructuredValidationError(c, ErrorCodeValidationFailed, result)
		return
	}

	doc, err := api.engine.Document(id)
	if err != nil {
		SendEngineError(c, ErrorCodeInternalError, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

// GetTermHandler handles requests to inspect the postings of a term. The path
// parameter is normalized like a query word.
func (api *API) GetTermHandler(c *gin.Context) {
	info, err := api.engine.Term(c.Param("term"))
	if err != nil {
		SendEngineError(c, ErrorCodeInternalError, err)
		return
	}

	c.JSON(http.StatusOK, info)
}
