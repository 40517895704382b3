package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"sort"
	"strings"
	"sync"

	"prompt-library-be/internal/dto"
	"prompt-library-be/internal/entity"
	"prompt-library-be/internal/repository/contract"
	"prompt-library-be/internal/repository/specification"
	"prompt-library-be/internal/repository/unitofwork"
	"prompt-library-be/pkg/events"
)

// fakeDB is an in-memory stand-in for the whole schema. ops records the order of
// transaction, file and janitor steps so tests can assert on it.
type fakeDB struct {
	mu      sync.Mutex
	prompts map[uint]*entity.Prompt
	nextID  uint
	ops     []string

	tools      *fakeLookupRepo[entity.AiTool]
	categories *fakeLookupRepo[entity.Category]
	types      *fakeLookupRepo[entity.PromptType]
	sources    *fakeLookupRepo[entity.Source]

	failWrite  error
	failCommit error
	failCount  error
}

func newFakeDB() *fakeDB {
	db := &fakeDB{prompts: map[uint]*entity.Prompt{}}
	db.tools = newFakeLookupRepo(
		func(t *entity.AiTool) *uint { return &t.Id },
		func(t *entity.AiTool) string { return t.Name },
	)
	db.categories = newFakeLookupRepo(
		func(c *entity.Category) *uint { return &c.Id },
		func(c *entity.Category) string { return c.Name },
	)
	db.types = newFakeLookupRepo(
		func(t *entity.PromptType) *uint { return &t.Id },
		func(t *entity.PromptType) string { return t.Name },
	)
	db.sources = newFakeLookupRepo(
		func(s *entity.Source) *uint { return &s.Id },
		func(s *entity.Source) string { return s.Name },
	)
	return db
}

func (db *fakeDB) record(op string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.ops = append(db.ops, op)
}

func (db *fakeDB) opsSnapshot() []string {
	db.mu.Lock()
	defer db.mu.Unlock()
	return append([]string{}, db.ops...)
}

func (db *fakeDB) seed(p entity.Prompt) *entity.Prompt {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.nextID++
	p.Id = db.nextID
	if p.Version == 0 {
		p.Version = 1
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	stored := p
	db.prompts[p.Id] = &stored
	return clonePrompt(&stored)
}

func (db *fakeDB) get(id uint) *entity.Prompt {
	db.mu.Lock()
	defer db.mu.Unlock()
	if p, ok := db.prompts[id]; ok {
		return clonePrompt(p)
	}
	return nil
}

func clonePrompt(p *entity.Prompt) *entity.Prompt {
	c := *p
	c.Tags = append([]string{}, p.Tags...)
	return &c
}

// unit of work

type fakeFactory struct{ db *fakeDB }

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{db: f.db}
}

type fakeUow struct {
	db     *fakeDB
	inTx   bool
	closed bool
}

func (u *fakeUow) Begin(ctx context.Context) error {
	u.inTx = true
	u.db.record("begin")
	return nil
}

func (u *fakeUow) Commit() error {
	if !u.inTx {
		return errors.New("no transaction to commit")
	}
	u.inTx = false
	if u.db.failCommit != nil {
		u.db.record("commit-failed")
		return u.db.failCommit
	}
	u.db.record("commit")
	return nil
}

func (u *fakeUow) Rollback() error {
	if u.inTx {
		u.inTx = false
		u.db.record("rollback")
	}
	return nil
}

func (u *fakeUow) PromptRepository() contract.PromptRepository { return &fakePromptRepo{db: u.db} }
func (u *fakeUow) AiToolRepository() contract.AiToolRepository { return u.db.tools }
func (u *fakeUow) CategoryRepository() contract.CategoryRepository {
	return u.db.categories
}
func (u *fakeUow) PromptTypeRepository() contract.PromptTypeRepository {
	return u.db.types
}
func (u *fakeUow) SourceRepository() contract.SourceRepository { return u.db.sources }

// prompt repository

type fakePromptRepo struct{ db *fakeDB }

func (r *fakePromptRepo) matches(p *entity.Prompt, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if p.Id != s.ID {
				return false
			}
		case specification.ByIDs:
			found := false
			for _, id := range s.IDs {
				if id == p.Id {
					found = true
				}
			}
			if !found {
				return false
			}
		case specification.FavoritesOnly:
			if !p.IsFavorite {
				return false
			}
		case specification.ByParentPromptID:
			if p.ParentPromptId == nil || *p.ParentPromptId != s.ParentID {
				return false
			}
		case specification.ByAttachment:
			if p.AttachmentFilename == nil || *p.AttachmentFilename != s.Filename {
				return false
			}
		}
	}
	return true
}

func (r *fakePromptRepo) sorted() []*entity.Prompt {
	out := make([]*entity.Prompt, 0, len(r.db.prompts))
	for _, p := range r.db.prompts {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out
}

func (r *fakePromptRepo) List(ctx context.Context, f specification.PromptFilter) ([]*entity.PromptSummary, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.PromptSummary
	for _, p := range r.sorted() {
		if f.FavoritesOnly && !p.IsFavorite {
			continue
		}
		if f.ToolID != nil && (p.AiToolId == nil || *p.AiToolId != *f.ToolID) {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(p.Title+p.PromptText), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, &entity.PromptSummary{
			Id: p.Id, Title: p.Title, PromptText: p.PromptText, Rating: p.Rating,
			Tags: p.Tags, IsFavorite: p.IsFavorite, UsageCount: p.UsageCount,
			AiToolId: p.AiToolId, CategoryId: p.CategoryId, CreatedAt: p.CreatedAt,
		})
	}
	return out, nil
}

func (r *fakePromptRepo) FindDetail(ctx context.Context, id uint) (*entity.PromptDetail, error) {
	p := r.db.get(id)
	if p == nil {
		return nil, nil
	}
	d := &entity.PromptDetail{Prompt: *p}
	if p.ParentPromptId != nil {
		if parent := r.db.get(*p.ParentPromptId); parent != nil {
			d.ParentPromptTitle = &parent.Title
		}
	}
	return d, nil
}

func (r *fakePromptRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Prompt, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, p := range r.sorted() {
		if r.matches(p, specs) {
			return clonePrompt(p), nil
		}
	}
	return nil, nil
}

func (r *fakePromptRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Prompt, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.Prompt
	for _, p := range r.sorted() {
		if r.matches(p, specs) {
			out = append(out, clonePrompt(p))
		}
	}
	return out, nil
}

func (r *fakePromptRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	if r.db.failCount != nil {
		return 0, r.db.failCount
	}
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func (r *fakePromptRepo) Create(ctx context.Context, p *entity.Prompt) error {
	if r.db.failWrite != nil {
		return r.db.failWrite
	}
	*p = *r.db.seed(*p)
	r.db.record(fmt.Sprintf("create:%d", p.Id))
	return nil
}

func (r *fakePromptRepo) Update(ctx context.Context, p *entity.Prompt) error {
	if r.db.failWrite != nil {
		return r.db.failWrite
	}
	r.db.mu.Lock()
	r.db.prompts[p.Id] = clonePrompt(p)
	r.db.mu.Unlock()
	r.db.record(fmt.Sprintf("update:%d", p.Id))
	return nil
}

func (r *fakePromptRepo) Delete(ctx context.Context, id uint) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	_, ok := r.db.prompts[id]
	delete(r.db.prompts, id)
	return ok, nil
}

func (r *fakePromptRepo) DeleteMany(ctx context.Context, ids []uint) (int64, error) {
	var n int64
	for _, id := range ids {
		if ok, _ := r.Delete(ctx, id); ok {
			n++
		}
	}
	return n, nil
}

func (r *fakePromptRepo) SetFavorite(ctx context.Context, id uint, favorite bool) (bool, bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.prompts[id]
	if !ok {
		return false, false, nil
	}
	p.IsFavorite = favorite
	return p.IsFavorite, true, nil
}

func (r *fakePromptRepo) ToggleFavorite(ctx context.Context, id uint) (bool, bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.prompts[id]
	if !ok {
		return false, false, nil
	}
	p.IsFavorite = !p.IsFavorite
	return p.IsFavorite, true, nil
}

func (r *fakePromptRepo) IncrementUsage(ctx context.Context, id uint) (int, bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.prompts[id]
	if !ok {
		return 0, false, nil
	}
	p.UsageCount++
	return p.UsageCount, true, nil
}

func (r *fakePromptRepo) ParentChain(ctx context.Context, id uint, maxDepth int) ([]uint, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var chain []uint
	current := id
	for i := 0; i < maxDepth; i++ {
		p, ok := r.db.prompts[current]
		if !ok || p.ParentPromptId == nil {
			break
		}
		chain = append(chain, *p.ParentPromptId)
		current = *p.ParentPromptId
	}
	return chain, nil
}

func (r *fakePromptRepo) AverageRating(ctx context.Context) (float64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var sum, n float64
	for _, p := range r.db.prompts {
		if p.Rating != nil {
			sum += float64(*p.Rating)
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return sum / n, nil
}

func (r *fakePromptRepo) TotalUsage(ctx context.Context) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var total int64
	for _, p := range r.db.prompts {
		total += int64(p.UsageCount)
	}
	return total, nil
}

func (r *fakePromptRepo) CountByTool(ctx context.Context) ([]*entity.CountBucket, error) {
	return []*entity.CountBucket{}, nil
}

func (r *fakePromptRepo) CountByCategory(ctx context.Context) ([]*entity.CountBucket, error) {
	return []*entity.CountBucket{}, nil
}

func (r *fakePromptRepo) CountByStatus(ctx context.Context) ([]*entity.CountBucket, error) {
	return []*entity.CountBucket{}, nil
}

// lookup repositories

type fakeLookupRepo[E contract.LookupEntity] struct {
	mu     sync.Mutex
	rows   map[uint]*E
	nextID uint
	idOf   func(*E) *uint
	nameOf func(*E) string
}

func newFakeLookupRepo[E contract.LookupEntity](idOf func(*E) *uint, nameOf func(*E) string) *fakeLookupRepo[E] {
	return &fakeLookupRepo[E]{rows: map[uint]*E{}, idOf: idOf, nameOf: nameOf}
}

func (r *fakeLookupRepo[E]) add(e E) uint {
	_ = r.Create(context.Background(), &e)
	return *r.idOf(&e)
}

func (r *fakeLookupRepo[E]) Create(ctx context.Context, e *E) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if r.nameOf(row) == r.nameOf(e) {
			return contract.ErrDuplicateKey
		}
	}
	r.nextID++
	*r.idOf(e) = r.nextID
	c := *e
	r.rows[r.nextID] = &c
	return nil
}

func (r *fakeLookupRepo[E]) Update(ctx context.Context, e *E) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *e
	r.rows[*r.idOf(e)] = &c
	return nil
}

func (r *fakeLookupRepo[E]) Delete(ctx context.Context, id uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rows[id]
	delete(r.rows, id)
	return ok, nil
}

func (r *fakeLookupRepo[E]) FindOne(ctx context.Context, specs ...specification.Specification) (*E, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *fakeLookupRepo[E]) FindAll(ctx context.Context, specs ...specification.Specification) ([]*E, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*E
	for _, row := range r.rows {
		ok := true
		for _, spec := range specs {
			switch s := spec.(type) {
			case specification.ByID:
				ok = ok && *r.idOf(row) == s.ID
			case specification.ByName:
				ok = ok && strings.EqualFold(r.nameOf(row), s.Name)
			}
		}
		if ok {
			c := *row
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return r.nameOf(out[i]) < r.nameOf(out[j]) })
	return out, nil
}

// side effects

type fakeFiles struct {
	db      *fakeDB
	n       int
	failErr error
}

func (f *fakeFiles) Save(file *multipart.FileHeader) (string, error) {
	if f.failErr != nil {
		return "", f.failErr
	}
	f.n++
	name := fmt.Sprintf("file-%d.png", f.n)
	f.db.record("save:" + name)
	return name, nil
}

func (f *fakeFiles) Delete(filename string) error {
	f.db.record("delete:" + filename)
	return nil
}

func (f *fakeFiles) Path(filename string) (string, error) {
	return "/uploads/" + filename, nil
}

type fakeJanitor struct{ db *fakeDB }

func (j *fakeJanitor) Schedule(ctx context.Context, filename string) {
	j.db.record("schedule:" + filename)
}

func (j *fakeJanitor) Consume(ctx context.Context) error { return nil }

type fakeEvents struct {
	mu     sync.Mutex
	events []events.Event
}

func (f *fakeEvents) Publish(ctx context.Context, e events.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
}

func (f *fakeEvents) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.EventType())
	}
	return out
}

type fakeStatsCache struct {
	mu            sync.Mutex
	value         *dto.StatsResponse
	sets          int
	invalidations int
}

func (c *fakeStatsCache) Get(ctx context.Context) (*dto.StatsResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value, c.value != nil
}

func (c *fakeStatsCache) Set(ctx context.Context, s *dto.StatsResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = s
	c.sets++
}

func (c *fakeStatsCache) Invalidate(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = nil
	c.invalidations++
}
