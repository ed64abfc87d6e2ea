package api

import (
	"net/http"

	"fclimits/app"
	"fclimits/internal/errors"

	"github.com/gin-gonic/gin"
)

// LimitsHandler serves Feldman-Cousins computations over HTTP
type LimitsHandler struct {
	service *app.LimitService
}

// NewLimitsHandler creates a new limits handler
func NewLimitsHandler(service *app.LimitService) *LimitsHandler {
	return &LimitsHandler{service: service}
}

type limitsQuery struct {
	Background *float64 `form:"b" binding:"required,gte=0"`
	Observed   *int     `form:"n" binding:"required,gte=0"`
	Alpha      float64  `form:"alpha" binding:"omitempty,gt=0,lt=1"`
	Threshold  float64  `form:"threshold" binding:"omitempty,gt=0"`
}

type beltQuery struct {
	Background *float64 `form:"b" binding:"required,gte=0"`
	Alpha      float64  `form:"alpha" binding:"omitempty,gt=0,lt=1"`
	MuMax      float64  `form:"mu_max" binding:"omitempty,gt=0,lte=200"`
	MuStep     float64  `form:"mu_step" binding:"omitempty,gte=0.0001"`
}

// GetLimits returns the two-sided interval for an observed count
func (h *LimitsHandler) GetLimits(c *gin.Context) {
	var q limitsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.ComputeLimits(c.Request.Context(), app.LimitRequest{
		Background: *q.Background,
		Observed:   *q.Observed,
		Alpha:      q.Alpha,
		Threshold:  q.Threshold,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetBelt returns a swept confidence belt with its summary
func (h *LimitsHandler) GetBelt(c *gin.Context) {
	var q beltQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.ComputeBelt(c.Request.Context(), app.BeltRequest{
		Background: *q.Background,
		Alpha:      q.Alpha,
		MuMax:      q.MuMax,
		MuStep:     q.MuStep,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func writeError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.CodeInvalidInput:
		status = http.StatusBadRequest
	case errors.CodeNonConvergence, errors.CodeBoundaryExhausted:
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}
