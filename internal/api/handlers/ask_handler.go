package handlers

import (
	"context"
	"errors"

	"ritcompass/internal/dto"
	"ritcompass/internal/service"
	"ritcompass/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Asker is the pipeline as seen by the transport layer.
type Asker interface {
	Ask(ctx context.Context, req service.AskRequest) (*service.AskResult, error)
}

type AskHandler struct {
	pipeline Asker
	logger   *zap.Logger
}

func NewAskHandler(pipeline Asker, logger *zap.Logger) *AskHandler {
	return &AskHandler{
		pipeline: pipeline,
		logger:   logger,
	}
}

// Ask godoc
// @Summary Answer a question about a college process
// @Description Classifies the question against the process taxonomy and returns a timeline or a message
// @Tags llm
// @Accept json
// @Produce json
// @Param request body dto.AskRequest true "Question"
// @Param Authorization header string false "Optional identity token, e.g. Bearer <jwt>"
// @Success 200 {object} dto.AskResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/llm/ask [post]
func (h *AskHandler) Ask(c *fiber.Ctx) error {
	var req dto.AskRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Warn("Failed to parse ask request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "Invalid request body",
		})
	}

	requestID, _ := c.Locals("requestid").(string)

	result, err := h.pipeline.Ask(c.UserContext(), service.AskRequest{
		RequestID: requestID,
		Message:   req.Msg,
		ChatID:    req.ChatID,
		Claims:    middleware.Claims(c),
	})
	if err != nil {
		var invalid *service.InvalidRequestError
		if errors.As(err, &invalid) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: invalid.Error(),
			})
		}
		// details are logged by the pipeline
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Internal server error",
			Kind:  service.ErrorKind(err),
		})
	}

	categories := result.Categories
	if categories == nil {
		categories = []string{}
	}

	return c.JSON(dto.AskResponse{
		Status:     "categorized",
		Categories: categories,
		Data:       result.Data,
	})
}
