package generate

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/goliatone/go-deckgen/pkg/spec"
)

// maxGuidanceScale caps how far sparse feedback can inflate length targets.
const maxGuidanceScale = 4.0

// Engine runs structured generation over a layout's field specs: one
// generator call per leaf, bounded concurrency across siblings, density
// validation with retries for marked text, and failure containment so a bad
// field never takes the deck down with it.
type Engine struct {
	generator TextGenerator
	config    Config
	logger    *zap.Logger
}

// Option configures the engine.
type Option func(*Engine)

// WithConfig replaces the default engine configuration.
func WithConfig(config Config) Option {
	return func(e *Engine) {
		e.config = config
	}
}

// WithLogger attaches a logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New constructs an Engine around the given generator.
func New(generator TextGenerator, options ...Option) (*Engine, error) {
	if generator == nil {
		return nil, errors.New("generate: engine requires a text generator")
	}
	engine := &Engine{
		generator: generator,
		config:    DefaultConfig(),
		logger:    zap.NewNop(),
	}
	for _, option := range options {
		option(engine)
	}
	engine.config = engine.config.withDefaults()
	engine.logger = engine.logger.With(zap.String("component", "generate.engine"))
	return engine, nil
}

// Generate produces content for every field in declaration order. The
// returned result is complete even when individual fields fail; the only
// errors are context cancellation and an empty spec list.
func (e *Engine) Generate(ctx context.Context, fields []spec.FieldSpec, deck DeckContext) (StructuredResult, error) {
	if err := ctx.Err(); err != nil {
		return StructuredResult{}, err
	}
	if len(fields) == 0 {
		return StructuredResult{}, errors.New("generate: no field specs to generate")
	}

	run := &runState{
		engine:    e,
		requestID: uuid.NewString(),
		deck:      deck,
		sem:       semaphore.NewWeighted(int64(e.config.Concurrency)),
	}
	e.logger.Debug("run started",
		zap.String("request_id", run.requestID),
		zap.Int("fields", len(fields)),
	)

	generated, warnings, err := run.generateFields(ctx, fields)
	if err != nil {
		return StructuredResult{}, err
	}

	result := StructuredResult{
		RequestID: run.requestID,
		Fields:    make(map[string]GeneratedField, len(fields)),
		Order:     make([]string, len(fields)),
		Warnings:  warnings,
	}
	for i, field := range fields {
		result.Order[i] = field.Name
		result.Fields[field.Name] = generated[i]
		result.FailedFields += countFailed(generated[i])
	}
	e.logger.Debug("run finished",
		zap.String("request_id", run.requestID),
		zap.Int("failed_fields", result.FailedFields),
		zap.Int("warnings", len(result.Warnings)),
	)
	return result, nil
}

func countFailed(field GeneratedField) int {
	if field.Failed {
		return 1
	}
	total := 0
	for _, child := range field.Children {
		total += countFailed(child)
	}
	return total
}

// runState carries the per-run pieces shared by every worker.
type runState struct {
	engine    *Engine
	requestID string
	deck      DeckContext
	sem       *semaphore.Weighted
}

// generateFields fans sibling fields out through an errgroup. Results land in
// an index-addressed slice so output order always matches declaration order
// no matter which worker finishes first.
func (r *runState) generateFields(ctx context.Context, fields []spec.FieldSpec) ([]GeneratedField, []Warning, error) {
	group, groupCtx := errgroup.WithContext(ctx)
	results := make([]GeneratedField, len(fields))
	warnings := make([][]Warning, len(fields))

	for i, field := range fields {
		i, field := i, field.Clone()
		group.Go(func() error {
			out, warns, err := r.generateField(groupCtx, field)
			if err != nil {
				return err
			}
			results[i] = out
			warnings[i] = warns
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, nil, err
	}

	flat := make([]Warning, 0)
	for _, warns := range warnings {
		flat = append(flat, warns...)
	}
	return results, flat, nil
}

// generateField dispatches composites to recursive assembly and leaves to
// the attempt loop. The semaphore bounds leaf calls only, so a deep layout
// can never deadlock waiting on its own children.
func (r *runState) generateField(ctx context.Context, field spec.FieldSpec) (GeneratedField, []Warning, error) {
	if field.IsComposite() {
		children, warns, err := r.generateFields(ctx, field.Children)
		if err != nil {
			return GeneratedField{}, nil, err
		}
		out := GeneratedField{
			Path:     field.Path,
			Children: make(map[string]GeneratedField, len(field.Children)),
			Order:    make([]string, len(field.Children)),
		}
		for i, child := range field.Children {
			out.Order[i] = child.Name
			out.Children[child.Name] = children[i]
		}
		return out, warns, nil
	}
	return r.generateLeaf(ctx, field)
}

func (r *runState) generateLeaf(ctx context.Context, field spec.FieldSpec) (GeneratedField, []Warning, error) {
	cfg := r.engine.config
	maxAttempts := 1 + cfg.MaxRetries
	scale := 1.0
	attempts := 0

	var lastErr error
	var best string
	var bestReport densityReport
	haveBest := false

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		attempts = attempt
		text, err := r.invoke(ctx, field, scale, attempt)
		if err != nil {
			if ctx.Err() != nil {
				return GeneratedField{}, nil, ctx.Err()
			}
			// Timeouts and transport errors are retryable.
			lastErr = err
			r.engine.logger.Debug("attempt failed",
				zap.String("path", field.Path),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			continue
		}

		if field.Owner == spec.OwnerGenerator && field.Format == spec.FormatMarkedText {
			text = SanitizeMarked(text)
		} else {
			// Renderer-owned and plain fields never carry markup.
			text = StripMarkup(text)
		}
		if strings.TrimSpace(text) == "" {
			lastErr = errors.New("generator returned empty output")
			continue
		}

		if field.Owner == spec.OwnerGenerator && field.Format == spec.FormatMarkedText {
			report := evaluateDensity(PlainProjection(text), field.Capacity)
			if report.pass {
				out := leafResult(field, text, report.density)
				var warns []Warning
				if attempt > 1 {
					warns = append(warns, Warning{
						Path:     field.Path,
						Kind:     WarningRetried,
						Message:  fmt.Sprintf("passed on attempt %d", attempt),
						Density:  report.density,
						Attempts: attempt,
					})
				}
				return out, warns, nil
			}
			if !haveBest || betterCandidate(report, bestReport) {
				best, bestReport, haveBest = text, report, true
			}
			scale = nextScale(scale, report.density)
			r.engine.logger.Debug("density miss",
				zap.String("path", field.Path),
				zap.Int("attempt", attempt),
				zap.Float64("density", report.density),
				zap.Bool("overflow", report.overflow),
			)
			continue
		}

		out, warns := r.finishPlain(field, text, attempt)
		return out, warns, nil
	}

	if haveBest {
		// Retries exhausted; keep the best candidate and say so. Overflow is
		// never grounds for rejecting a field outright.
		kind, message := WarningSparse, "content below density floor after retries"
		if bestReport.overflow {
			kind, message = WarningOverflow, "content exceeds capacity after retries"
		}
		out := leafResult(field, best, bestReport.density)
		warn := Warning{
			Path:     field.Path,
			Kind:     kind,
			Message:  message,
			Density:  bestReport.density,
			Attempts: attempts,
		}
		return out, []Warning{warn}, nil
	}

	if lastErr == nil {
		lastErr = errors.New("no content produced")
	}
	genErr := &GenerationError{Path: field.Path, Attempts: attempts, Err: lastErr}
	out := GeneratedField{Path: field.Path, Failed: true, Err: genErr.Error()}
	warn := Warning{
		Path:     field.Path,
		Kind:     WarningFailed,
		Message:  lastErr.Error(),
		Attempts: attempts,
	}
	return out, []Warning{warn}, nil
}

// finishPlain applies the character ceiling to generator-owned plain text.
// Renderer-owned values are passed through unbounded; sizing is the
// renderer's problem by contract.
func (r *runState) finishPlain(field spec.FieldSpec, text string, attempt int) (GeneratedField, []Warning) {
	cfg := r.engine.config
	var warns []Warning

	if field.Owner == spec.OwnerGenerator {
		ceiling := cfg.DefaultCharCeiling
		if max, ok := field.CharacterCeiling(); ok {
			ceiling = max
		}
		truncated := Truncate(text, ceiling, cfg.ContinuationMarker)
		if truncated != text {
			warns = append(warns, Warning{
				Path:    field.Path,
				Kind:    WarningOverflow,
				Message: fmt.Sprintf("truncated to %d characters", ceiling),
			})
		}
		text = truncated
	}

	var density *float64
	if len(field.Capacity) > 0 {
		report := evaluateDensity(text, field.Capacity)
		density = &report.density
	}
	if attempt > 1 {
		warns = append(warns, Warning{
			Path:     field.Path,
			Kind:     WarningRetried,
			Message:  fmt.Sprintf("passed on attempt %d", attempt),
			Attempts: attempt,
		})
	}
	out := GeneratedField{Path: field.Path, Value: text, Density: density}
	return out, warns
}

// invoke runs one bounded generator call. The semaphore is held only for the
// duration of the call itself.
func (r *runState) invoke(ctx context.Context, field spec.FieldSpec, scale float64, attempt int) (string, error) {
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer r.sem.Release(1)

	callCtx, cancel := context.WithTimeout(ctx, r.engine.config.FieldTimeout)
	defer cancel()

	resp, err := r.engine.generator.Generate(callCtx, Request{
		RequestID:   r.requestID,
		Path:        field.Path,
		Format:      field.Format,
		Owner:       field.Owner,
		Structure:   field.Structure,
		Description: field.Description,
		Guidance:    r.guidanceFor(field, scale),
		Deck:        r.deck,
		Attempt:     attempt,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return "", fmt.Errorf("attempt timed out after %s: %w", r.engine.config.FieldTimeout, err)
		}
		return "", err
	}
	return resp.Text, nil
}

// guidanceFor derives length targets from the field's capacity limits,
// adjusted by the retry feedback scale. Unbounded generator-owned plain text
// targets the default ceiling.
func (r *runState) guidanceFor(field spec.FieldSpec, scale float64) Guidance {
	guidance := Guidance{}
	for _, limit := range field.Capacity {
		target := scaledTarget(limit.Max, scale)
		switch limit.Metric {
		case spec.MetricCharacters:
			guidance.Characters = target
		case spec.MetricWords:
			guidance.Words = target
		case spec.MetricLines:
			guidance.Lines = target
		}
	}
	if len(field.Capacity) == 0 && field.Owner == spec.OwnerGenerator {
		guidance.Characters = scaledTarget(r.engine.config.DefaultCharCeiling, scale)
	}
	return guidance
}

func scaledTarget(max int, scale float64) int {
	target := int(math.Round(float64(max) * scale))
	if target < 1 {
		target = 1
	}
	return target
}

// nextScale tightens guidance after overflow and loosens it after sparse
// output, proportionally to how far off the candidate landed.
func nextScale(scale, density float64) float64 {
	if density <= 0 {
		density = 0.25
	}
	scale *= 0.95 / density
	if scale > maxGuidanceScale {
		scale = maxGuidanceScale
	}
	return scale
}

func leafResult(field spec.FieldSpec, text string, density float64) GeneratedField {
	return GeneratedField{Path: field.Path, Value: text, Density: &density}
}
