package controller

import (
	"prompt-library-be/internal/dto"
	"prompt-library-be/internal/pkg/serverutils"
	"prompt-library-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ILookupController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Replace(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

// lookupController serves one lookup table under its own path, e.g. /tools.
type lookupController struct {
	path    string
	service service.ILookupService
}

func NewLookupController(path string, service service.ILookupService) ILookupController {
	return &lookupController{path: path, service: service}
}

func (c *lookupController) RegisterRoutes(r fiber.Router) {
	h := r.Group(c.path)
	h.Get("", c.List)
	h.Post("", c.Create)
	h.Put("/:id", c.Replace)
	h.Patch("/:id", c.Update)
	h.Delete("/:id", c.Delete)
}

func (c *lookupController) List(ctx *fiber.Ctx) error {
	res, err := c.service.List(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *lookupController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateLookupRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewBadRequest("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(res)
}

func (c *lookupController) Replace(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateLookupRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewBadRequest("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Replace(ctx.UserContext(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *lookupController) Update(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateLookupRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewBadRequest("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Update(ctx.UserContext(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *lookupController) Delete(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.UserContext(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.MessageResponse("Deleted"))
}
