package controller

import (
	"bytes"
	"errors"
	"mime/multipart"

	"prompt-library-be/internal/dto"
	"prompt-library-be/internal/pkg/serverutils"
	"prompt-library-be/internal/repository/specification"
	"prompt-library-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// promptFilterKeys are the query parameters the listing understands.
var promptFilterKeys = []string{"search", "tool", "category", "rating", "favoritesOnly", "sort"}

type IPromptController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Favorite(ctx *fiber.Ctx) error
	View(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	BulkDelete(ctx *fiber.Ctx) error
	Duplicate(ctx *fiber.Ctx) error
}

type promptController struct {
	service service.IPromptService
}

func NewPromptController(service service.IPromptService) IPromptController {
	return &promptController{service: service}
}

func (c *promptController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/prompts")
	h.Get("", c.List)
	h.Post("", c.Create)
	h.Post("/bulk-delete", c.BulkDelete)
	h.Get("/:id", c.Show)
	h.Patch("/:id", c.Update)
	h.Delete("/:id", c.Delete)
	h.Patch("/:id/favorite", c.Favorite)
	h.Patch("/:id/view", c.View)
	h.Post("/:id/duplicate", c.Duplicate)
}

func (c *promptController) List(ctx *fiber.Ctx) error {
	values := make(map[string]string, len(promptFilterKeys))
	for _, k := range promptFilterKeys {
		values[k] = ctx.Query(k)
	}

	filter, err := specification.ParsePromptFilter(values)
	if err != nil {
		var fe *specification.FilterError
		if errors.As(err, &fe) {
			return serverutils.NewBadRequest(fe.Error())
		}
		return err
	}

	res, err := c.service.List(ctx.UserContext(), filter)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *promptController) Show(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Show(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *promptController) Create(ctx *fiber.Ctx) error {
	in, file, err := c.decodeInput(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), in, file)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(res)
}

func (c *promptController) Update(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}
	in, file, err := c.decodeInput(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Update(ctx.UserContext(), id, in, file)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *promptController) decodeInput(ctx *fiber.Ctx) (dto.PromptInput, *multipart.FileHeader, error) {
	values, file, err := promptFormValues(ctx)
	if err != nil {
		return dto.PromptInput{}, nil, err
	}
	in, err := dto.ParsePromptInput(values)
	if err != nil {
		return dto.PromptInput{}, nil, serverutils.NewBadRequest(err.Error())
	}
	return in, file, nil
}

// Favorite sets the flag when the body carries is_favorite and toggles it otherwise.
func (c *promptController) Favorite(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}

	var req dto.FavoriteRequest
	if len(bytes.TrimSpace(ctx.Body())) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return serverutils.NewBadRequest("invalid favorite body")
		}
	}

	var res *dto.FavoriteResponse
	if req.IsFavorite != nil {
		res, err = c.service.SetFavorite(ctx.UserContext(), id, *req.IsFavorite)
	} else {
		res, err = c.service.ToggleFavorite(ctx.UserContext(), id)
	}
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *promptController) View(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.RecordView(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *promptController) Delete(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.UserContext(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.MessageResponse("Prompt deleted"))
}

func (c *promptController) BulkDelete(ctx *fiber.Ctx) error {
	var req dto.BulkDeleteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewBadRequest("invalid bulk delete body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.BulkDelete(ctx.UserContext(), req.Ids)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *promptController) Duplicate(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Duplicate(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(res)
}
