package service

import (
	"prompt-library-be/internal/pkg/serverutils"
)

var (
	ErrPromptNotFound      = serverutils.NewNotFound("Prompt not found")
	ErrTitleRequired       = serverutils.NewBadRequest("title is required")
	ErrPromptTextRequired  = serverutils.NewBadRequest("prompt_text is required")
	ErrInvalidRating       = serverutils.NewBadRequest("rating must be between 0 and 5")
	ErrInvalidOutputStatus = serverutils.NewBadRequest("output_status must be one of [successful so-so failed]")
	ErrInvalidCredits      = serverutils.NewBadRequest("credits_used must not be negative")
	ErrParentNotFound      = serverutils.NewBadRequest("parent_prompt_id references a missing prompt")
	ErrParentCycle         = serverutils.NewBadRequest("a prompt cannot be its own parent or ancestor")
	ErrSourceNotAllowed    = serverutils.NewBadRequest("source_id is only allowed for the Sourced type")
	ErrAttachmentTooLarge  = serverutils.NewBadRequest("attachment is too large")
	ErrNoIds               = serverutils.NewBadRequest("ids must not be empty")

	ErrNameRequired  = serverutils.NewBadRequest("name is required")
	ErrDuplicateName = serverutils.NewConflict("name already exists")
)

func lookupNotFound(kind string) *serverutils.AppError {
	return serverutils.NewNotFound(kind + " not found")
}

func missingReference(field string) *serverutils.AppError {
	return serverutils.NewBadRequest(field + " references a missing record")
}
