package api

import (
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Skufu/diass/internal/analysis"
)

const maxSuggestQuery = 100

type handlers struct {
	analyzer     *analysis.Analyzer
	suggestCache *lru.Cache[string, []analysis.Drug]
	metrics      *metrics
}

func (h *handlers) listDrugs(c *gin.Context) {
	drugs := h.analyzer.Catalog().All()
	c.JSON(http.StatusOK, gin.H{"drugs": drugs, "count": len(drugs)})
}

func (h *handlers) suggestDrugs(c *gin.Context) {
	q := strings.ToLower(strings.TrimSpace(c.Query("q")))
	if utf8.RuneCountInString(q) > maxSuggestQuery {
		writeError(c, http.StatusBadRequest, codeInvalidPayload,
			fmt.Sprintf("query must be at most %d characters", maxSuggestQuery), nil)
		return
	}

	drugs, ok := h.suggestCache.Get(q)
	if ok {
		h.metrics.suggestCache.WithLabelValues("hit").Inc()
	} else {
		h.metrics.suggestCache.WithLabelValues("miss").Inc()
		drugs = h.analyzer.Catalog().Suggest(q)
		h.suggestCache.Add(q, drugs)
	}
	c.JSON(http.StatusOK, gin.H{"query": q, "drugs": drugs, "count": len(drugs)})
}

func (h *handlers) getDrug(c *gin.Context) {
	drug, ok := h.analyzer.Catalog().Get(c.Param("id"))
	if !ok {
		writeError(c, http.StatusNotFound, codeNotFound, fmt.Sprintf("drug %q not found", c.Param("id")), nil)
		return
	}
	c.JSON(http.StatusOK, drug)
}

func (h *handlers) databaseInfo(c *gin.Context) {
	kb := h.analyzer.KnowledgeBase()
	c.JSON(http.StatusOK, gin.H{
		"databaseVersion":  kb.Version(),
		"lastUpdated":      kb.LastUpdated(),
		"drugCount":        h.analyzer.Catalog().Len(),
		"interactionCount": kb.PairCount(),
	})
}

func (h *handlers) analyze(c *gin.Context) {
	var req analysis.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	result, err := h.analyzer.Analyze(req)
	if err != nil {
		writeAnalysisError(c, err)
		return
	}
	h.metrics.analyses.WithLabelValues(string(result.OverallRiskLevel)).Inc()
	c.JSON(http.StatusOK, result)
}
