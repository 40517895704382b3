package controller

import (
	"prompt-library-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IStatsController interface {
	RegisterRoutes(r fiber.Router)
	Dashboard(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type statsController struct {
	service service.IStatsService
}

func NewStatsController(service service.IStatsService) IStatsController {
	return &statsController{service: service}
}

func (c *statsController) RegisterRoutes(r fiber.Router) {
	r.Get("/stats", c.Dashboard)
	r.Get("/health", c.Health)
}

// Dashboard always answers 200; a failed aggregation is reported through the fallback flag.
func (c *statsController) Dashboard(ctx *fiber.Ctx) error {
	return ctx.JSON(c.service.Dashboard(ctx.UserContext()))
}

func (c *statsController) Health(ctx *fiber.Ctx) error {
	res, ok := c.service.Health(ctx.UserContext())
	if !ok {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(res)
	}
	return ctx.JSON(res)
}
