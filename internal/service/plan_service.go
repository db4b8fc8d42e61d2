package service

import (
	"context"
	"errors"
	"net/url"
	"time"

	"alcyxob/fitness-planner/internal/domain"
	"alcyxob/fitness-planner/internal/llm"
	"alcyxob/fitness-planner/internal/logger"
	"alcyxob/fitness-planner/internal/planner"
	"alcyxob/fitness-planner/internal/repository"
	"alcyxob/fitness-planner/internal/storage"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

const (
	planKindWorkout = "workout"
	planKindDiet    = "diet"

	sourceModel    = "model"
	sourceFallback = "fallback"
)

var tracer = otel.Tracer("service/plan")

// GenerationResult is what the webhook returns on success.
type GenerationResult struct {
	PlanID      string             `json:"planId"`
	WorkoutPlan domain.WorkoutPlan `json:"workoutPlan"`
	DietPlan    domain.DietPlan    `json:"dietPlan"`
}

// PlanService generates, stores and reads back personalized plans.
type PlanService interface {
	// GeneratePlan validates the raw profile fields, produces both plans and persists them.
	GeneratePlan(ctx context.Context, fields map[string]string) (*GenerationResult, error)
	GetPlan(ctx context.Context, userID, planID string) (*domain.GeneratedPlan, error)
	ListPlans(ctx context.Context, userID string) ([]domain.GeneratedPlan, error)
}

// PlanServiceConfig tunes GeneratePlan.
type PlanServiceConfig struct {
	Parallel             bool
	FallbackOnModelError bool
	PersistTimeout       time.Duration
	// Now defaults to time.Now; the plan name is derived from it.
	Now func() time.Time
}

// --- Service Implementation ---

// planService implements the PlanService interface.
type planService struct {
	generator llm.Generator
	plans     repository.PlanRepository
	archive   storage.FileStorage
	cfg       PlanServiceConfig
	log       *logger.Logger
}

// NewPlanService creates a new instance of planService.
// archive may be nil, in which case raw model output is never stored.
func NewPlanService(
	generator llm.Generator,
	plans repository.PlanRepository,
	archive storage.FileStorage,
	cfg PlanServiceConfig,
	log *logger.Logger,
) PlanService {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if archive == nil {
		archive = storage.NewNoopStorage()
	}
	return &planService{
		generator: generator,
		plans:     plans,
		archive:   archive,
		cfg:       cfg,
		log:       log.With("component", "plan_service"),
	}
}

// GeneratePlan runs Normalize -> (workout, diet pipelines) -> persist.
// Parse and coercion failures fall back silently; model and store failures are returned.
func (s *planService) GeneratePlan(ctx context.Context, fields map[string]string) (*GenerationResult, error) {
	ctx, span := tracer.Start(ctx, "PlanService.GeneratePlan")
	defer span.End()

	profile, err := planner.Normalize(fields)
	if err != nil {
		span.SetStatus(codes.Error, "invalid profile")
		return nil, err
	}
	span.SetAttributes(attribute.Int("plan.day_count", profile.DayCount))

	requestID := uuid.NewString()
	log := s.log.With("user_id", profile.UserID, "generation_id", requestID)

	var workout domain.WorkoutPlan
	var diet domain.DietPlan

	workoutStep := func(ctx context.Context) (err error) {
		workout, err = s.generateWorkout(ctx, profile, requestID, log)
		return err
	}
	dietStep := func(ctx context.Context) (err error) {
		diet, err = s.generateDiet(ctx, profile, requestID, log)
		return err
	}

	if s.cfg.Parallel {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return workoutStep(gctx) })
		g.Go(func() error { return dietStep(gctx) })
		err = g.Wait()
	} else if err = workoutStep(ctx); err == nil {
		err = dietStep(ctx)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "model call failed")
		log.Error("Plan generation failed", "error", err)
		return nil, err
	}

	now := s.cfg.Now()
	plan := &domain.GeneratedPlan{
		UserID:      profile.UserID,
		Name:        domain.PlanName(profile.FitnessGoal, now),
		WorkoutPlan: workout,
		DietPlan:    diet,
		IsActive:    true,
		CreatedAt:   now.UTC(),
	}

	planID, err := s.persist(ctx, plan)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist failed")
		log.Error("Failed to save plan", "error", err)
		return nil, &PersistenceError{Err: err}
	}

	log.Info("Plan generated", "plan_id", planID, "schedule_days", len(workout.Schedule))
	return &GenerationResult{
		PlanID:      planID,
		WorkoutPlan: workout,
		DietPlan:    diet,
	}, nil
}

func (s *planService) generateWorkout(ctx context.Context, p domain.Profile, requestID string, log *logger.Logger) (domain.WorkoutPlan, error) {
	return runPipeline(ctx, s, pipeline[domain.WorkoutPlan]{
		kind:      planKindWorkout,
		userID:    p.UserID,
		requestID: requestID,
		prompt:    planner.BuildWorkoutPrompt(p, p.DayCount),
		fromText: func(raw string) (domain.WorkoutPlan, error) {
			return planner.WorkoutFromText(raw, p.DayCount)
		},
		fallback: func() domain.WorkoutPlan {
			return planner.FallbackWorkoutPlan(p.DayCount)
		},
	}, log)
}

func (s *planService) generateDiet(ctx context.Context, p domain.Profile, requestID string, log *logger.Logger) (domain.DietPlan, error) {
	return runPipeline(ctx, s, pipeline[domain.DietPlan]{
		kind:      planKindDiet,
		userID:    p.UserID,
		requestID: requestID,
		prompt:    planner.BuildDietPrompt(p),
		fromText:  planner.DietFromText,
		fallback:  planner.FallbackDietPlan,
	}, log)
}

type pipeline[T any] struct {
	kind      string
	userID    string
	requestID string
	prompt    string
	fromText  func(raw string) (T, error)
	fallback  func() T
}

// runPipeline makes one model call and turns its text into a plan,
// substituting the fallback when the text cannot be used.
func runPipeline[T any](ctx context.Context, s *planService, p pipeline[T], log *logger.Logger) (T, error) {
	ctx, span := tracer.Start(ctx, "PlanService."+p.kind+"Pipeline")
	defer span.End()
	span.SetAttributes(attribute.String("plan.kind", p.kind))
	log = log.With("plan", p.kind)

	raw, err := s.generator.Generate(ctx, p.prompt)
	if err != nil {
		if !s.cfg.FallbackOnModelError || ctx.Err() != nil {
			var zero T
			span.RecordError(err)
			span.SetStatus(codes.Error, "model call failed")
			return zero, &ModelError{Plan: p.kind, Err: err}
		}
		log.Warn("Model call failed, using fallback plan", "error", err)
		span.SetAttributes(attribute.String("plan.source", sourceFallback))
		return p.fallback(), nil
	}

	plan, err := p.fromText(raw)
	if err != nil {
		var parseErr *planner.ParseError
		log.Warn("Model output unusable, using fallback plan",
			"error", err, "parse_error", errors.As(err, &parseErr), "response_length", len(raw))
		span.SetAttributes(attribute.String("plan.source", sourceFallback))
		s.archiveTranscript(ctx, transcriptKey(p.userID, p.requestID, p.kind), raw, log)
		return p.fallback(), nil
	}

	span.SetAttributes(attribute.String("plan.source", sourceModel))
	return plan, nil
}

// archiveTranscript stores the rejected model text. Failures are logged only.
func (s *planService) archiveTranscript(ctx context.Context, key, raw string, log *logger.Logger) {
	if err := s.archive.PutObject(ctx, key, "text/plain; charset=utf-8", []byte(raw)); err != nil {
		log.Warn("Failed to archive model transcript", "key", key, "error", err)
	}
}

// transcriptKey is transcripts/<user_id>/<generation_id>/<kind>.txt with the user id path-escaped.
func transcriptKey(userID, requestID, kind string) string {
	return "transcripts/" + url.PathEscape(userID) + "/" + requestID + "/" + kind + ".txt"
}

func (s *planService) persist(ctx context.Context, plan *domain.GeneratedPlan) (string, error) {
	ctx, span := tracer.Start(ctx, "PlanRepository.Create")
	defer span.End()

	if s.cfg.PersistTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.PersistTimeout)
		defer cancel()
	}
	id, err := s.plans.Create(ctx, plan)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create failed")
		return "", err
	}
	span.SetAttributes(attribute.String("plan.id", id))
	return id, nil
}

// GetPlan returns one of the user's plans. Plans of other users are reported as not found.
func (s *planService) GetPlan(ctx context.Context, userID, planID string) (*domain.GeneratedPlan, error) {
	reader, ok := s.plans.(repository.PlanReader)
	if !ok {
		return nil, ErrReadsUnsupported
	}
	plan, err := reader.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if plan.UserID != userID {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

// ListPlans returns the user's plans, newest first.
func (s *planService) ListPlans(ctx context.Context, userID string) ([]domain.GeneratedPlan, error) {
	reader, ok := s.plans.(repository.PlanReader)
	if !ok {
		return nil, ErrReadsUnsupported
	}
	plans, err := reader.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if plans == nil {
		plans = []domain.GeneratedPlan{}
	}
	return plans, nil
}
