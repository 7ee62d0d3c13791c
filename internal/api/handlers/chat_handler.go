package handlers

import (
	"context"
	"strings"

	"enjez/internal/dto"
	"enjez/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Answerer interface {
	Answer(ctx context.Context, question string, topK int) *dto.ChatResponse
}

type ChatHandler struct {
	rag         Answerer
	initializer service.Initializer
	logger      *zap.Logger
}

func NewChatHandler(rag Answerer, initializer service.Initializer, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		rag:         rag,
		initializer: initializer,
		logger:      logger,
	}
}

// Ask godoc
// @Summary Ask the assistant
// @Description Answer a customer question from the services catalog. Degraded answers are reported in the body with status 200.
// @Tags chat
// @Accept json
// @Produce json
// @Param request body dto.ChatRequest true "Question"
// @Success 200 {object} dto.ChatResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/chat [post]
func (h *ChatHandler) Ask(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, errInvalidBody)
	}

	req.Question = strings.TrimSpace(req.Question)
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, err)
	}

	return c.JSON(h.rag.Answer(c.Context(), req.Question, req.TopK))
}

// Init godoc
// @Summary Warm up the knowledge base
// @Description Index the services catalog if the knowledge base is empty
// @Tags chat
// @Produce json
// @Success 200 {object} service.InitResult
// @Router /api/v1/chat/init [post]
func (h *ChatHandler) Init(c *fiber.Ctx) error {
	return c.JSON(h.initializer.EnsureInitialized(c.Context()))
}
