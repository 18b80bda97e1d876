package webserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stake-plus/veritas/src/factcheck"
	"github.com/stake-plus/veritas/src/metrics"
)

// errorKindHeader carries the ErrorClassifier result on vendor failures.
const errorKindHeader = "X-Error-Kind"

type FactCheck struct {
	checker Verifier
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewFactCheck(checker Verifier, log *zap.Logger, m *metrics.Metrics) FactCheck {
	return FactCheck{checker: checker, log: log, metrics: m}
}

type reqFactCheck struct {
	Claim *string `json:"claim" binding:"required"`
}

func (h FactCheck) Check(c *gin.Context) {
	status := h.check(c)
	if h.metrics != nil {
		h.metrics.ObserveHTTP(strconv.Itoa(status))
	}
}

func (h FactCheck) check(c *gin.Context) int {
	var req reqFactCheck
	if err := c.ShouldBindJSON(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid claim")
	}

	res, err := h.checker.Verify(c.Request.Context(), *req.Claim)
	if err == nil {
		c.JSON(http.StatusOK, res)
		return http.StatusOK
	}

	var cfgErr *factcheck.ConfigError
	var clsErr *factcheck.ClassifiedError
	switch {
	case errors.Is(err, factcheck.ErrInvalidClaim):
		return fail(c, http.StatusBadRequest, "Invalid claim")
	case errors.As(err, &cfgErr):
		h.log.Error("fact-check unavailable", zap.Error(err))
		return fail(c, http.StatusInternalServerError, cfgErr.Error())
	case errors.As(err, &clsErr):
		c.Header(errorKindHeader, clsErr.Kind.String())
		return fail(c, http.StatusInternalServerError, "Failed to verify claim")
	default:
		h.log.Error("fact-check failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Server error")
	}
}

func fail(c *gin.Context, status int, msg string) int {
	c.JSON(status, gin.H{"error": msg})
	return status
}
