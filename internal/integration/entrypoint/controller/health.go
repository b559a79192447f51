package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthController handles health check endpoints.
type HealthController struct {
	dbHealthChecker    func() bool
	redisHealthChecker func() bool
	timersPending      func() int
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status        string `json:"status"`
	Database      string `json:"database"`
	Redis         string `json:"redis"`
	TimersPending int    `json:"timers_pending"`
	Timestamp     string `json:"timestamp"`
}

// NewHealthController creates a new health controller instance.
// redisHealthChecker and timersPending may be nil.
func NewHealthController(dbHealthChecker, redisHealthChecker func() bool, timersPending func() int) *HealthController {
	return &HealthController{
		dbHealthChecker:    dbHealthChecker,
		redisHealthChecker: redisHealthChecker,
		timersPending:      timersPending,
	}
}

// Check handles GET /health requests.
// It returns the current health status of the API and its dependencies.
func (h *HealthController) Check(c *gin.Context) {
	dbStatus := "disconnected"
	if h.dbHealthChecker != nil && h.dbHealthChecker() {
		dbStatus = "connected"
	}

	redisStatus := "disabled"
	if h.redisHealthChecker != nil {
		redisStatus = "disconnected"
		if h.redisHealthChecker() {
			redisStatus = "connected"
		}
	}

	pending := 0
	if h.timersPending != nil {
		pending = h.timersPending()
	}

	response := HealthResponse{
		Status:        "ok",
		Database:      dbStatus,
		Redis:         redisStatus,
		TimersPending: pending,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	}

	c.JSON(http.StatusOK, response)
}
