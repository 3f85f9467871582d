package quiz

import (
	"context"
	"errors"
	"math/rand"
	"net/http"

	"go.uber.org/zap"

	"github.com/aeroprep/aeroprep-backend/internal/apierr"
	"github.com/aeroprep/aeroprep-backend/internal/category"
	"github.com/aeroprep/aeroprep-backend/internal/question"
)

const (
	ModePractice = "practice"
	ModeExam     = "exam"
)

// Request describes one quiz pull.
type Request struct {
	CategorySlug       string
	IncludeDescendants bool
	Limit              int
	Difficulties       []string
	Aircraft           *string
	StrictAircraft     bool
	Mode               string
	Seed               *uint32 // exam mode: reuse a stored seed; nil draws a fresh one
	Tier               string  // resolved principal tier; gates pro_only categories
}

// Result carries the sampled, normalized questions plus the metadata the
// client stores alongside an attempt.
type Result struct {
	Items    []question.Question
	Category category.Category
	PoolSize int
	Seed     *uint32
}

type Service struct {
	categories category.Store
	resolver   *category.Resolver
	filter     *question.PoolFilter
	questions  question.Store
	norm       *question.Normalizer
	poolCap    int
	log        *zap.SugaredLogger
}

func NewService(cats category.Store, qs question.Store, poolCap int, log *zap.SugaredLogger) *Service {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Service{
		categories: cats,
		resolver:   category.NewResolver(cats),
		filter:     question.NewPoolFilter(qs),
		questions:  qs,
		norm:       question.NewNormalizer(log),
		poolCap:    poolCap,
		log:        log,
	}
}

// Build runs resolve -> filter -> sample -> normalize for one request.
func (s *Service) Build(ctx context.Context, req Request) (Result, error) {
	cat, err := s.categories.BySlug(ctx, req.CategorySlug)
	if err != nil {
		if errors.Is(err, category.ErrNotFound) {
			return Result{}, apierr.NotFound(apierr.CodeCategoryNotFound)
		}
		return Result{}, apierr.StoreUnavailable(err)
	}
	if cat.ProOnly && req.Tier != "pro" {
		return Result{}, apierr.New(http.StatusForbidden, apierr.CodeProRequired, nil)
	}

	ids := []int64{cat.ID}
	if req.IncludeDescendants {
		if ids, err = s.resolver.Resolve(ctx, cat.ID); err != nil {
			return Result{}, apierr.StoreUnavailable(err)
		}
	}

	pool, err := s.filter.Filter(ctx, ids, question.Criteria{
		Difficulties:   req.Difficulties,
		Aircraft:       req.Aircraft,
		StrictAircraft: req.StrictAircraft,
	})
	if err != nil {
		return Result{}, apierr.StoreUnavailable(err)
	}
	poolSize := len(pool)
	if poolSize == 0 {
		// valid "no questions" outcome
		return Result{Items: []question.Question{}, Category: cat}, nil
	}
	if s.poolCap > 0 && len(pool) > s.poolCap {
		pool = pool[:s.poolCap]
	}

	raws, err := s.questions.ByIDs(ctx, pool)
	if err != nil {
		return Result{}, apierr.StoreUnavailable(err)
	}
	candidates := make([]question.Question, 0, len(raws))
	for _, r := range raws {
		candidates = append(candidates, s.norm.Normalize(r))
	}

	res := Result{Category: cat, PoolSize: poolSize}
	if req.Mode == ModeExam {
		seed := rand.Uint32()
		if req.Seed != nil {
			seed = *req.Seed
		}
		res.Seed = &seed
		res.Items = SampleSeeded(candidates, req.Limit, seed)
	} else {
		res.Items = Sample(candidates, req.Limit)
	}
	return res, nil
}
