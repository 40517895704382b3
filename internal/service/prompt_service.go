package service

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"time"

	"prompt-library-be/internal/dto"
	"prompt-library-be/internal/entity"
	"prompt-library-be/internal/pkg/logger"
	"prompt-library-be/internal/repository/contract"
	"prompt-library-be/internal/repository/memory"
	"prompt-library-be/internal/repository/specification"
	"prompt-library-be/internal/repository/unitofwork"
	"prompt-library-be/pkg/events"
	"prompt-library-be/pkg/storage"
	"prompt-library-be/pkg/utils"
)

// MaxParentDepth bounds the ancestor walk when a parent link is set.
const MaxParentDepth = 32

type IPromptService interface {
	List(ctx context.Context, filter specification.PromptFilter) ([]*dto.PromptSummaryResponse, error)
	Show(ctx context.Context, id uint) (*dto.PromptDetailResponse, error)
	Create(ctx context.Context, in dto.PromptInput, file *multipart.FileHeader) (*dto.PromptResponse, error)
	Update(ctx context.Context, id uint, in dto.PromptInput, file *multipart.FileHeader) (*dto.PromptResponse, error)
	SetFavorite(ctx context.Context, id uint, favorite bool) (*dto.FavoriteResponse, error)
	ToggleFavorite(ctx context.Context, id uint) (*dto.FavoriteResponse, error)
	RecordView(ctx context.Context, id uint) (*dto.ViewResponse, error)
	Delete(ctx context.Context, id uint) error
	BulkDelete(ctx context.Context, ids []uint) (*dto.BulkDeleteResponse, error)
	Duplicate(ctx context.Context, id uint) (*dto.PromptResponse, error)
}

type promptService struct {
	uowFactory unitofwork.RepositoryFactory
	files      storage.FileStore
	janitor    IAttachmentJanitor
	events     IEventPublisher
	stats      memory.StatsCache
	logger     logger.ILogger
}

func NewPromptService(
	uowFactory unitofwork.RepositoryFactory,
	files storage.FileStore,
	janitor IAttachmentJanitor,
	eventPublisher IEventPublisher,
	statsCache memory.StatsCache,
	log logger.ILogger,
) IPromptService {
	return &promptService{
		uowFactory: uowFactory,
		files:      files,
		janitor:    janitor,
		events:     eventPublisher,
		stats:      statsCache,
		logger:     log,
	}
}

func (s *promptService) List(ctx context.Context, filter specification.PromptFilter) ([]*dto.PromptSummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	prompts, err := uow.PromptRepository().List(ctx, filter)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.PromptSummaryResponse, 0, len(prompts))
	for _, p := range prompts {
		res = append(res, toSummaryResponse(p))
	}
	return res, nil
}

func (s *promptService) Show(ctx context.Context, id uint) (*dto.PromptDetailResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	detail, err := uow.PromptRepository().FindDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, ErrPromptNotFound
	}

	children, err := uow.PromptRepository().FindAll(ctx,
		specification.ByParentPromptID{ParentID: id},
		specification.OrderBy{Field: "version"},
	)
	if err != nil {
		return nil, err
	}

	return toDetailResponse(detail, children), nil
}

func (s *promptService) Create(ctx context.Context, in dto.PromptInput, file *multipart.FileHeader) (*dto.PromptResponse, error) {
	prompt := &entity.Prompt{Version: 1, Tags: []string{}}
	if err := applyPromptInput(prompt, in); err != nil {
		return nil, err
	}

	saved, err := s.saveAttachment(file)
	if err != nil {
		return nil, err
	}
	if saved != "" {
		prompt.AttachmentFilename = &saved
	}
	committed := false
	defer func() {
		if !committed {
			s.discardFile(saved)
		}
	}()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := s.validateReferences(ctx, uow, prompt); err != nil {
		return nil, err
	}
	if err := uow.PromptRepository().Create(ctx, prompt); err != nil {
		return nil, mapWriteError(err)
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	committed = true

	s.afterWrite(ctx, events.PromptCreated, map[string]interface{}{"id": prompt.Id, "title": prompt.Title})
	return toPromptResponse(prompt), nil
}

// Update applies a partial change. A new attachment is written before the row is
// touched and the replaced file is only scheduled for removal after commit.
func (s *promptService) Update(ctx context.Context, id uint, in dto.PromptInput, file *multipart.FileHeader) (*dto.PromptResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	prompt, err := uow.PromptRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if prompt == nil {
		return nil, ErrPromptNotFound
	}

	if err := applyPromptInput(prompt, in); err != nil {
		return nil, err
	}
	if err := s.validateReferences(ctx, uow, prompt); err != nil {
		return nil, err
	}

	previous := prompt.AttachmentFilename
	saved, err := s.saveAttachment(file)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			s.discardFile(saved)
		}
	}()

	switch {
	case saved != "":
		prompt.AttachmentFilename = &saved
	case in.RemoveAttachment:
		prompt.AttachmentFilename = nil
	}

	if err := uow.PromptRepository().Update(ctx, prompt); err != nil {
		return nil, mapWriteError(err)
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	committed = true

	if previous != nil && (prompt.AttachmentFilename == nil || *prompt.AttachmentFilename != *previous) {
		s.janitor.Schedule(ctx, *previous)
	}

	s.afterWrite(ctx, events.PromptUpdated, map[string]interface{}{"id": prompt.Id, "title": prompt.Title})
	return toPromptResponse(prompt), nil
}

func (s *promptService) SetFavorite(ctx context.Context, id uint, favorite bool) (*dto.FavoriteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	value, found, err := uow.PromptRepository().SetFavorite(ctx, id, favorite)
	return s.favoriteResult(ctx, id, value, found, err)
}

func (s *promptService) ToggleFavorite(ctx context.Context, id uint) (*dto.FavoriteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	value, found, err := uow.PromptRepository().ToggleFavorite(ctx, id)
	return s.favoriteResult(ctx, id, value, found, err)
}

func (s *promptService) favoriteResult(ctx context.Context, id uint, value, found bool, err error) (*dto.FavoriteResponse, error) {
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrPromptNotFound
	}
	s.afterWrite(ctx, events.PromptFavorited, map[string]interface{}{"id": id, "is_favorite": value})
	return &dto.FavoriteResponse{Id: id, IsFavorite: value}, nil
}

// RecordView is a single atomic increment; concurrent views never lose a count.
func (s *promptService) RecordView(ctx context.Context, id uint) (*dto.ViewResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	count, found, err := uow.PromptRepository().IncrementUsage(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrPromptNotFound
	}

	s.afterWrite(ctx, events.PromptViewed, map[string]interface{}{"id": id, "usage_count": count})
	return &dto.ViewResponse{Id: id, UsageCount: count}, nil
}

func (s *promptService) Delete(ctx context.Context, id uint) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	prompt, err := uow.PromptRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if prompt == nil {
		return ErrPromptNotFound
	}

	if _, err := uow.PromptRepository().Delete(ctx, id); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	if prompt.AttachmentFilename != nil {
		s.janitor.Schedule(ctx, *prompt.AttachmentFilename)
	}
	s.afterWrite(ctx, events.PromptDeleted, map[string]interface{}{"id": id})
	return nil
}

func (s *promptService) BulkDelete(ctx context.Context, ids []uint) (*dto.BulkDeleteResponse, error) {
	if len(ids) == 0 {
		return nil, ErrNoIds
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	prompts, err := uow.PromptRepository().FindAll(ctx, specification.ByIDs{IDs: ids})
	if err != nil {
		return nil, err
	}
	deleted, err := uow.PromptRepository().DeleteMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	for _, p := range prompts {
		if p.AttachmentFilename != nil {
			s.janitor.Schedule(ctx, *p.AttachmentFilename)
		}
		s.events.Publish(ctx, events.New(events.PromptDeleted, map[string]interface{}{"id": p.Id}))
	}
	s.invalidateStats(ctx)
	return &dto.BulkDeleteResponse{Deleted: deleted}, nil
}

// Duplicate stores a copy as the next version of id. The copy shares the
// attachment file; the janitor keeps files that are still referenced.
func (s *promptService) Duplicate(ctx context.Context, id uint) (*dto.PromptResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	source, err := uow.PromptRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, ErrPromptNotFound
	}

	parentID := source.Id
	copied := *source
	copied.Id = 0
	copied.Tags = append([]string{}, source.Tags...)
	copied.ParentPromptId = &parentID
	copied.Version = source.Version + 1
	copied.IsFavorite = false
	copied.UsageCount = 0
	copied.CreatedAt = time.Time{}
	copied.UpdatedAt = time.Time{}

	if err := uow.PromptRepository().Create(ctx, &copied); err != nil {
		return nil, mapWriteError(err)
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.afterWrite(ctx, events.PromptCreated, map[string]interface{}{
		"id": copied.Id, "title": copied.Title, "parent_prompt_id": parentID,
	})
	return toPromptResponse(&copied), nil
}

func (s *promptService) saveAttachment(file *multipart.FileHeader) (string, error) {
	if file == nil {
		return "", nil
	}
	name, err := s.files.Save(file)
	if err != nil {
		if errors.Is(err, storage.ErrFileTooLarge) {
			return "", ErrAttachmentTooLarge.Wrap(err)
		}
		return "", err
	}
	return name, nil
}

// discardFile removes an upload whose row never committed.
func (s *promptService) discardFile(name string) {
	if name == "" {
		return
	}
	if err := s.files.Delete(name); err != nil {
		s.logger.Error("PROMPT", "Failed to remove uncommitted attachment", logger.Fields{
			"filename": name,
			"error":    err.Error(),
		})
	}
}

// validateReferences checks every lookup id, the Sourced rule and the parent chain.
func (s *promptService) validateReferences(ctx context.Context, uow unitofwork.UnitOfWork, p *entity.Prompt) error {
	if p.AiToolId != nil {
		t, err := uow.AiToolRepository().FindOne(ctx, specification.ByID{ID: *p.AiToolId})
		if err != nil {
			return err
		}
		if t == nil {
			return missingReference("ai_tool_id")
		}
	}
	if p.CategoryId != nil {
		c, err := uow.CategoryRepository().FindOne(ctx, specification.ByID{ID: *p.CategoryId})
		if err != nil {
			return err
		}
		if c == nil {
			return missingReference("category_id")
		}
	}

	var promptType *entity.PromptType
	if p.TypeId != nil {
		t, err := uow.PromptTypeRepository().FindOne(ctx, specification.ByID{ID: *p.TypeId})
		if err != nil {
			return err
		}
		if t == nil {
			return missingReference("type_id")
		}
		promptType = t
	}
	if p.SourceId != nil {
		if promptType == nil || !strings.EqualFold(promptType.Name, entity.SourcedTypeName) {
			return ErrSourceNotAllowed
		}
		src, err := uow.SourceRepository().FindOne(ctx, specification.ByID{ID: *p.SourceId})
		if err != nil {
			return err
		}
		if src == nil {
			return missingReference("source_id")
		}
	}

	if p.ParentPromptId != nil {
		return s.validateParent(ctx, uow.PromptRepository(), p.Id, *p.ParentPromptId)
	}
	return nil
}

// validateParent rejects a parent that is missing, the prompt itself, or one of
// its descendants. selfID is zero for prompts not yet stored.
func (s *promptService) validateParent(ctx context.Context, repo contract.PromptRepository, selfID, parentID uint) error {
	if selfID != 0 && parentID == selfID {
		return ErrParentCycle
	}

	parent, err := repo.FindOne(ctx, specification.ByID{ID: parentID})
	if err != nil {
		return err
	}
	if parent == nil {
		return ErrParentNotFound
	}
	if selfID == 0 {
		return nil
	}

	ancestors, err := repo.ParentChain(ctx, parentID, MaxParentDepth)
	if err != nil {
		return err
	}
	for _, a := range ancestors {
		if a == selfID {
			return ErrParentCycle
		}
	}
	return nil
}

func (s *promptService) afterWrite(ctx context.Context, eventType string, data map[string]interface{}) {
	s.events.Publish(ctx, events.New(eventType, data))
	s.invalidateStats(ctx)
}

func (s *promptService) invalidateStats(ctx context.Context) {
	if s.stats != nil {
		s.stats.Invalidate(ctx)
	}
}

// applyPromptInput copies the fields present in the request onto p and validates the result.
func applyPromptInput(p *entity.Prompt, in dto.PromptInput) error {
	if in.Title.Set {
		p.Title = strings.TrimSpace(in.Title.Value)
	}
	if in.PromptText.Set {
		p.PromptText = in.PromptText.Value
	}
	if in.OutputText.Set {
		p.OutputText = in.OutputText.Value
	}
	if in.Rating.Set {
		if r := in.Rating.Value; r != nil && (*r < entity.MinRating || *r > entity.MaxRating) {
			return ErrInvalidRating
		}
		p.Rating = in.Rating.Value
	}
	if in.OutputStatus.Set {
		p.OutputStatus = nil
		if v := in.OutputStatus.Value; v != nil {
			status := entity.OutputStatus(*v)
			if !status.Valid() {
				return ErrInvalidOutputStatus
			}
			p.OutputStatus = &status
		}
	}
	if in.Tags.Set {
		p.Tags = utils.NormalizeTags(in.Tags.Value)
	}
	if in.CreditsUsed.Set {
		if c := in.CreditsUsed.Value; c != nil && *c < 0 {
			return ErrInvalidCredits
		}
		p.CreditsUsed = in.CreditsUsed.Value
	}
	if in.AiToolModel.Set {
		p.AiToolModel = in.AiToolModel.Value
	}
	if in.AiToolId.Set {
		p.AiToolId = in.AiToolId.Value
	}
	if in.CategoryId.Set {
		p.CategoryId = in.CategoryId.Value
	}
	if in.TypeId.Set {
		p.TypeId = in.TypeId.Value
	}
	if in.SourceId.Set {
		p.SourceId = in.SourceId.Value
	}
	if in.ParentPromptId.Set {
		p.ParentPromptId = in.ParentPromptId.Value
	}

	if p.Title == "" {
		return ErrTitleRequired
	}
	if strings.TrimSpace(p.PromptText) == "" {
		return ErrPromptTextRequired
	}
	return nil
}

func mapWriteError(err error) error {
	switch {
	case errors.Is(err, contract.ErrForeignKey):
		return missingReference("a lookup id").Wrap(err)
	default:
		return err
	}
}
