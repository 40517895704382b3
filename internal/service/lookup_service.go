package service

import (
	"context"
	"errors"
	"strings"

	"prompt-library-be/internal/dto"
	"prompt-library-be/internal/entity"
	"prompt-library-be/internal/repository/contract"
	"prompt-library-be/internal/repository/memory"
	"prompt-library-be/internal/repository/specification"
	"prompt-library-be/internal/repository/unitofwork"
	"prompt-library-be/pkg/events"
)

type ILookupService interface {
	List(ctx context.Context) ([]*dto.LookupResponse, error)
	Create(ctx context.Context, req *dto.CreateLookupRequest) (*dto.LookupResponse, error)
	Replace(ctx context.Context, id uint, req *dto.CreateLookupRequest) (*dto.LookupResponse, error)
	Update(ctx context.Context, id uint, req *dto.UpdateLookupRequest) (*dto.LookupResponse, error)
	Delete(ctx context.Context, id uint) error
}

// lookupFields is a normalised write. The set flags say whether the optional
// columns are written at all.
type lookupFields struct {
	name     *string
	colorHex *string
	imageURL *string
	setColor bool
	setImage bool
}

// lookupKind adapts one lookup table to the shared service.
type lookupKind[E contract.LookupEntity] struct {
	label string
	repo  func(unitofwork.UnitOfWork) contract.LookupRepository[E]
	id    func(*E) uint
	apply func(*E, lookupFields)
	toDTO func(*E) *dto.LookupResponse
}

type lookupService[E contract.LookupEntity] struct {
	kind       lookupKind[E]
	uowFactory unitofwork.RepositoryFactory
	events     IEventPublisher
	stats      memory.StatsCache
}

func NewAiToolService(uowFactory unitofwork.RepositoryFactory, pub IEventPublisher, stats memory.StatsCache) ILookupService {
	return &lookupService[entity.AiTool]{
		uowFactory: uowFactory, events: pub, stats: stats,
		kind: lookupKind[entity.AiTool]{
			label: "Tool",
			repo:  func(u unitofwork.UnitOfWork) contract.AiToolRepository { return u.AiToolRepository() },
			id:    func(t *entity.AiTool) uint { return t.Id },
			apply: func(t *entity.AiTool, f lookupFields) {
				if f.name != nil {
					t.Name = *f.name
				}
				if f.setColor {
					t.ColorHex = f.colorHex
				}
			},
			toDTO: func(t *entity.AiTool) *dto.LookupResponse {
				return &dto.LookupResponse{Id: t.Id, Name: t.Name, ColorHex: t.ColorHex}
			},
		},
	}
}

func NewCategoryService(uowFactory unitofwork.RepositoryFactory, pub IEventPublisher, stats memory.StatsCache) ILookupService {
	return &lookupService[entity.Category]{
		uowFactory: uowFactory, events: pub, stats: stats,
		kind: lookupKind[entity.Category]{
			label: "Category",
			repo:  func(u unitofwork.UnitOfWork) contract.CategoryRepository { return u.CategoryRepository() },
			id:    func(c *entity.Category) uint { return c.Id },
			apply: func(c *entity.Category, f lookupFields) {
				if f.name != nil {
					c.Name = *f.name
				}
				if f.setImage {
					c.ImageURL = f.imageURL
				}
			},
			toDTO: func(c *entity.Category) *dto.LookupResponse {
				return &dto.LookupResponse{Id: c.Id, Name: c.Name, ImageURL: c.ImageURL}
			},
		},
	}
}

func NewPromptTypeService(uowFactory unitofwork.RepositoryFactory, pub IEventPublisher, stats memory.StatsCache) ILookupService {
	return &lookupService[entity.PromptType]{
		uowFactory: uowFactory, events: pub, stats: stats,
		kind: lookupKind[entity.PromptType]{
			label: "Type",
			repo:  func(u unitofwork.UnitOfWork) contract.PromptTypeRepository { return u.PromptTypeRepository() },
			id:    func(t *entity.PromptType) uint { return t.Id },
			apply: func(t *entity.PromptType, f lookupFields) {
				if f.name != nil {
					t.Name = *f.name
				}
			},
			toDTO: func(t *entity.PromptType) *dto.LookupResponse {
				return &dto.LookupResponse{Id: t.Id, Name: t.Name}
			},
		},
	}
}

func NewSourceService(uowFactory unitofwork.RepositoryFactory, pub IEventPublisher, stats memory.StatsCache) ILookupService {
	return &lookupService[entity.Source]{
		uowFactory: uowFactory, events: pub, stats: stats,
		kind: lookupKind[entity.Source]{
			label: "Source",
			repo:  func(u unitofwork.UnitOfWork) contract.SourceRepository { return u.SourceRepository() },
			id:    func(s *entity.Source) uint { return s.Id },
			apply: func(s *entity.Source, f lookupFields) {
				if f.name != nil {
					s.Name = *f.name
				}
			},
			toDTO: func(s *entity.Source) *dto.LookupResponse {
				return &dto.LookupResponse{Id: s.Id, Name: s.Name}
			},
		},
	}
}

func (s *lookupService[E]) List(ctx context.Context) ([]*dto.LookupResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows, err := s.kind.repo(uow).FindAll(ctx, specification.OrderBy{Field: "name"})
	if err != nil {
		return nil, err
	}

	res := make([]*dto.LookupResponse, 0, len(rows))
	for _, r := range rows {
		res = append(res, s.kind.toDTO(r))
	}
	return res, nil
}

func (s *lookupService[E]) Create(ctx context.Context, req *dto.CreateLookupRequest) (*dto.LookupResponse, error) {
	fields, err := fullFields(req)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := s.kind.repo(uow)
	if err := s.ensureUniqueName(ctx, repo, *fields.name, 0); err != nil {
		return nil, err
	}

	row := new(E)
	s.kind.apply(row, fields)
	if err := repo.Create(ctx, row); err != nil {
		return nil, mapLookupError(err)
	}

	s.changed(ctx, "created", s.kind.id(row))
	return s.kind.toDTO(row), nil
}

func (s *lookupService[E]) Replace(ctx context.Context, id uint, req *dto.CreateLookupRequest) (*dto.LookupResponse, error) {
	fields, err := fullFields(req)
	if err != nil {
		return nil, err
	}
	return s.write(ctx, id, fields)
}

func (s *lookupService[E]) Update(ctx context.Context, id uint, req *dto.UpdateLookupRequest) (*dto.LookupResponse, error) {
	fields := lookupFields{
		colorHex: req.ColorHex,
		imageURL: req.ImageURL,
		setColor: req.ColorHex != nil,
		setImage: req.ImageURL != nil,
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		fields.name = &name
	}
	return s.write(ctx, id, fields)
}

func (s *lookupService[E]) write(ctx context.Context, id uint, fields lookupFields) (*dto.LookupResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := s.kind.repo(uow)

	row, err := repo.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, lookupNotFound(s.kind.label)
	}

	if fields.name != nil {
		if err := s.ensureUniqueName(ctx, repo, *fields.name, id); err != nil {
			return nil, err
		}
	}

	s.kind.apply(row, fields)
	if err := repo.Update(ctx, row); err != nil {
		return nil, mapLookupError(err)
	}

	s.changed(ctx, "updated", id)
	return s.kind.toDTO(row), nil
}

// Delete leaves prompts in place; the foreign keys clear their reference.
func (s *lookupService[E]) Delete(ctx context.Context, id uint) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	found, err := s.kind.repo(uow).Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return lookupNotFound(s.kind.label)
	}

	s.changed(ctx, "deleted", id)
	return nil
}

// ensureUniqueName rejects names that differ only in case from another row.
func (s *lookupService[E]) ensureUniqueName(ctx context.Context, repo contract.LookupRepository[E], name string, selfID uint) error {
	existing, err := repo.FindOne(ctx, specification.ByName{Name: name})
	if err != nil {
		return err
	}
	if existing != nil && s.kind.id(existing) != selfID {
		return ErrDuplicateName
	}
	return nil
}

func (s *lookupService[E]) changed(ctx context.Context, action string, id uint) {
	s.events.Publish(ctx, events.New(events.LookupChanged, map[string]interface{}{
		"kind":   strings.ToLower(s.kind.label),
		"action": action,
		"id":     id,
	}))
	if s.stats != nil {
		s.stats.Invalidate(ctx)
	}
}

func fullFields(req *dto.CreateLookupRequest) (lookupFields, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return lookupFields{}, ErrNameRequired
	}
	return lookupFields{
		name:     &name,
		colorHex: req.ColorHex,
		imageURL: req.ImageURL,
		setColor: true,
		setImage: true,
	}, nil
}

func mapLookupError(err error) error {
	if errors.Is(err, contract.ErrDuplicateKey) {
		return ErrDuplicateName.Wrap(err)
	}
	return err
}
