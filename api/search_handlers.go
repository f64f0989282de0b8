package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// SearchRequest defines the JSON body of a search.
type SearchRequest struct {
	Query string `json:"query"`
	K     *int   `json:"k,omitempty"` // Optional: defaults to the configured top k
}

// SearchHandler handles GET /search?q=...&k=...
func (api *API) SearchHandler(c *gin.Context) {
	api.search(c, c.Query("q"), c.Query("k"))
}

// SearchJSONHandler handles POST /search with a SearchRequest body.
func (api *API) SearchJSONHandler(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, "Invalid request body: "+err.Error())
		return
	}

	kParam := ""
	if req.K != nil {
		kParam = strconv.Itoa(*req.K)
	}
	api.search(c, req.Query, kParam)
}

func (api *API) search(c *gin.Context, query, kParam string) {
	k, result := ValidateSearchParams(kParam, api.options.DefaultTopK, api.options.MaxTopK)
	if result.HasErrors() {
		SendStructuredValidationError(c, ErrorCodeInvalidQuery, result)
		return
	}

	results, err := api.engine.Search(query, k)
	if err != nil {
		SendEngineError(c, ErrorCodeSearchFailed, err)
		return
	}

	c.JSON(http.StatusOK, results)
}
