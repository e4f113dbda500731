package handlers

import (
	"fmt"
	"strconv"

	errprocess "media_upload_service/pkg/err"
	"media_upload_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ConnectCheck health check
// @Summary Check media service status
// @Description Returns a simple confirmation message
// @Tags Shared
// @Success 200 {string} string "media service start!"
// @Router /health [get]
func ConnectCheck(c *fiber.Ctx) error {
	return c.SendString("media service start!")
}

// DebugLogFlag toggle debug log flag
// @Summary Toggle Debug Log Flag
// @Description Enable or disable debug logging
// @Tags Shared
// @Param status query bool true "Debug status"
// @Success 200 {string} string "debug mode updated"
// @Failure 400 {string} string "Invalid status value"
// @Router /debug [post]
func DebugLogFlag(c *fiber.Ctx) error {
	statusStr := c.Query("status")
	logger.Log.Info("debug", zap.String("status", statusStr))
	status, err := strconv.ParseBool(statusStr)
	if err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	logger.Log.SetDebugMode(status)
	return c.SendString(fmt.Sprintf("debug mode is : %t", status))
}

// ErrorResponse uniform error body
type ErrorResponse struct {
	Error string `json:"error"`
}

func sendError(c *fiber.Ctx, err error) error {
	return c.Status(errprocess.StatusCode(err)).JSON(ErrorResponse{Error: err.Error()})
}
