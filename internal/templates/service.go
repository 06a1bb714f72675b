package templates

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/imobix/imobix/internal/auth"
	"github.com/imobix/imobix/internal/platform/httpx"
	"github.com/imobix/imobix/internal/resource"
)

const listTimeout = 10 * time.Second

// Service implements the templates resource operations.
type Service struct {
	repo   Repository
	cache  *Cache
	logger *slog.Logger
	group  singleflight.Group
	lang   language.Tag
}

// NewService constructs a Service. cache may be nil.
func NewService(repo Repository, cache *Cache, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger, lang: language.BrazilianPortuguese}
}

// ListActive returns active templates ordered by name under pt-BR collation,
// so "alpha" sorts before "Beta".
func (s *Service) ListActive(ctx context.Context, _ auth.Principal, _ resource.NoInput) (ListResponse, error) {
	if cached, ok, err := s.cache.Get(ctx); err != nil {
		s.logger.Warn("templates cache get", slog.Any("error", err))
	} else if ok {
		return ListResponse{Templates: cached}, nil
	}

	// The shared query outlives any single caller; each caller still honours its own ctx.
	flight := s.group.DoChan(activeListKey, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), listTimeout)
		defer cancel()
		items, err := s.repo.ListActive(fctx)
		if err != nil {
			return nil, fmt.Errorf("templates: list active: %w", err)
		}
		items = s.sortActive(items)
		if err := s.cache.Set(fctx, items); err != nil {
			s.logger.Warn("templates cache set", slog.Any("error", err))
		}
		return items, nil
	})
	select {
	case <-ctx.Done():
		return ListResponse{}, fmt.Errorf("templates: list active: %w", ctx.Err())
	case res := <-flight:
		if res.Err != nil {
			return ListResponse{}, res.Err
		}
		return ListResponse{Templates: res.Val.([]Template)}, nil
	}
}

// Create inserts a template and invalidates cached listings.
func (s *Service) Create(ctx context.Context, principal auth.Principal, in CreateInput) (Template, error) {
	t, err := s.repo.Create(ctx, in)
	if err != nil {
		return Template{}, fmt.Errorf("templates: create: %w", err)
	}
	s.invalidate(ctx)
	s.logger.Info("template created", slog.Int64("template_id", t.ID), slog.Int64("actor_id", principal.ID))
	return t, nil
}

// SetActive toggles a template and invalidates cached listings.
func (s *Service) SetActive(ctx context.Context, principal auth.Principal, in SetActiveInput) (Template, error) {
	if in.ID <= 0 || in.Active == nil {
		return Template{}, httpx.Validation("Modelo inválido")
	}
	t, err := s.repo.SetActive(ctx, in.ID, *in.Active)
	if err != nil {
		return Template{}, fmt.Errorf("templates: set active: %w", err)
	}
	s.invalidate(ctx)
	s.logger.Info("template toggled", slog.Int64("template_id", t.ID), slog.Bool("active", t.IsActive), slog.Int64("actor_id", principal.ID))
	return t, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.Bump(ctx); err != nil {
		s.logger.Warn("templates cache bump", slog.Any("error", err))
	}
}

func (s *Service) sortActive(items []Template) []Template {
	out := make([]Template, 0, len(items))
	for _, t := range items {
		if t.IsActive {
			out = append(out, t)
		}
	}
	c := collate.New(s.lang)
	sort.SliceStable(out, func(i, j int) bool {
		return c.CompareString(out[i].Name, out[j].Name) < 0
	})
	return out
}

// Warm loads the active listing into the cache.
func (s *Service) Warm(ctx context.Context) (int, error) {
	res, err := s.ListActive(ctx, auth.Principal{}, resource.NoInput{})
	if err != nil {
		return 0, err
	}
	return len(res.Templates), nil
}
