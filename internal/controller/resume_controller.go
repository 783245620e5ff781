package controller

import (
	"ai-resume-be/internal/dto"
	"ai-resume-be/internal/pkg/serverutils"
	"ai-resume-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IResumeController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	GenerateBlock(ctx *fiber.Ctx) error
	GenerateButtons(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type resumeController struct {
	resumeService service.IResumeService
}

func NewResumeController(resumeService service.IResumeService) IResumeController {
	return &resumeController{
		resumeService: resumeService,
	}
}

func (c *resumeController) RegisterRoutes(r fiber.Router) {
	r.Post("/chat", c.Chat)
	r.Post("/generate-block", c.GenerateBlock)
	r.Post("/generate-buttons", c.GenerateButtons)
	r.Get("/health", c.Health)
}

func (c *resumeController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.resumeService.Chat(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success chat", res))
}

func (c *resumeController) GenerateBlock(ctx *fiber.Ctx) error {
	var req dto.GenerateBlockRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.resumeService.GenerateBlock(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success generate block", res))
}

func (c *resumeController) GenerateButtons(ctx *fiber.Ctx) error {
	var req dto.GenerateButtonsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.resumeService.GenerateButtons(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success generate buttons", res))
}

func (c *resumeController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("OK", dto.HealthResponse{Status: "ok"}))
}
