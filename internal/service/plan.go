package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/JustNello/punctual/internal/config"
	"github.com/JustNello/punctual/internal/estimate"
	"github.com/JustNello/punctual/internal/geo"
	"github.com/JustNello/punctual/internal/resolver"
	"github.com/JustNello/punctual/internal/schedule"
	"github.com/JustNello/punctual/internal/synonym"
)

// Common errors for the plan service
var (
	ErrNoEntries    = errors.New("no entries to schedule")
	ErrEmptyEntry   = errors.New("entry cannot be empty")
	ErrMissingToken = errors.New("online mode requires a mapbox token")
	ErrMissingKey   = errors.New("ai mode requires an openai api key")
)

// PlanService builds schedules from raw entry lines
type PlanService struct {
	chain  *resolver.Chain
	logger zerolog.Logger
	now    func() time.Time
}

// NewPlanService creates a PlanService whose resolver chain follows cfg:
// the trip resolver is enabled by cfg.Online, the estimate resolver by cfg.AI,
// in the order given by cfg.Resolvers. The standard resolver is always the fallback.
func NewPlanService(cfg config.Config, synonyms *synonym.Table, logger zerolog.Logger) (*PlanService, error) {
	chain, err := BuildChain(cfg, synonyms, logger)
	if err != nil {
		return nil, err
	}
	return NewPlanServiceWithChain(chain, logger, time.Now), nil
}

// NewPlanServiceWithChain creates a PlanService over an existing chain (useful for testing)
func NewPlanServiceWithChain(chain *resolver.Chain, logger zerolog.Logger, now func() time.Time) *PlanService {
	return &PlanService{
		chain:  chain,
		logger: logger.With().Str("component", "plan").Logger(),
		now:    now,
	}
}

// BuildChain creates the resolver chain described by cfg
func BuildChain(cfg config.Config, synonyms *synonym.Table, logger zerolog.Logger) (*resolver.Chain, error) {
	syntax := cfg.Syntax()
	if synonyms == nil {
		synonyms = synonym.NewTable(syntax)
	}
	standard := resolver.NewStandard(synonyms)

	var resolvers []resolver.Resolver
	for _, name := range cfg.Resolvers {
		switch name {
		case resolver.SourceStandard:
			resolvers = append(resolvers, standard)
		case resolver.SourceTrip:
			if !cfg.Online {
				continue
			}
			trip, err := newTripResolver(cfg, logger)
			if err != nil {
				return nil, err
			}
			resolvers = append(resolvers, trip)
		case resolver.SourceEstimate:
			if !cfg.AI {
				continue
			}
			est, err := newEstimateResolver(cfg, logger)
			if err != nil {
				return nil, err
			}
			resolvers = append(resolvers, est)
		default:
			return nil, fmt.Errorf("unknown resolver '%s'", name)
		}
	}

	return resolver.NewChain(syntax, standard, cfg.Contingency(), logger, resolvers...), nil
}

func newTripResolver(cfg config.Config, logger zerolog.Logger) (resolver.Resolver, error) {
	if cfg.Mapbox.Token == "" {
		return nil, ErrMissingToken
	}
	profile, err := geo.ParseProfile(cfg.Mapbox.Profile)
	if err != nil {
		return nil, err
	}

	client := geo.NewClient(geo.Config{
		Token:             cfg.Mapbox.Token,
		BaseURL:           cfg.Mapbox.BaseURL,
		Timeout:           config.Timeout(cfg.Mapbox.Timeout),
		RequestsPerSecond: cfg.Mapbox.RequestsPerSecond,
	}, logger)
	return resolver.NewTrip(geo.NewCachedGeocoder(client), client, profile, cfg.Syntax()), nil
}

func newEstimateResolver(cfg config.Config, logger zerolog.Logger) (resolver.Resolver, error) {
	if cfg.OpenAI.APIKey == "" {
		return nil, ErrMissingKey
	}
	client, err := estimate.NewClient(estimate.Config{
		APIKey:     cfg.OpenAI.APIKey,
		BaseURL:    cfg.OpenAI.BaseURL,
		Model:      cfg.OpenAI.Model,
		MaxRetries: cfg.OpenAI.MaxRetries,
		Timeout:    config.Timeout(cfg.OpenAI.Timeout),
	}, logger)
	if err != nil {
		return nil, err
	}
	return resolver.NewEstimate(client, cfg.Syntax()), nil
}

// Resolvers returns the names of the enabled resolvers in priority order
func (s *PlanService) Resolvers() []string {
	return s.chain.Names()
}

// Plan resolves lines in order and appends each to a new schedule. Blank
// lines and comments are skipped. The first entry starts at start when given
// (or now), unless it carries its own fixed start time. Every following line
// composes its "HH:MM" onto the date of the previous entry's start.
func (s *PlanService) Plan(ctx context.Context, lines []string, start *time.Time) (*schedule.Schedule, error) {
	lines = s.FilterLines(lines)
	if len(lines) == 0 {
		return nil, ErrNoEntries
	}

	anchor := s.now()
	if start != nil {
		anchor = *start
	}
	sched := schedule.NewWithClock(func() time.Time { return anchor })

	reference := anchor
	for _, raw := range lines {
		e, err := s.place(ctx, raw, reference, func(res resolver.Resolution, opts []schedule.Option) (schedule.Entry, error) {
			return sched.Append(res.Name, res.Duration, res.At, opts...), nil
		})
		if err != nil {
			return nil, err
		}
		reference = e.Start()
	}

	s.logger.Debug().Int("entries", sched.Len()).Dur("total", sched.Total()).Msg("schedule built")
	return sched, nil
}

// Insert resolves raw and inserts it at index, reflowing the entries after it.
// The line's "HH:MM" is composed onto the date of the entry before index.
func (s *PlanService) Insert(ctx context.Context, sched *schedule.Schedule, index int, raw string) (schedule.Entry, error) {
	if strings.TrimSpace(raw) == "" {
		return schedule.Entry{}, ErrEmptyEntry
	}
	if index < 0 || index > sched.Len() {
		return schedule.Entry{}, fmt.Errorf("%w: %d (valid range 0-%d)", schedule.ErrIndexOutOfRange, index, sched.Len())
	}

	reference := s.now()
	entries := sched.Entries()
	switch {
	case index > 0:
		reference = entries[index-1].Start()
	case len(entries) > 0:
		reference = entries[0].Start()
	}

	return s.place(ctx, raw, reference, func(res resolver.Resolution, opts []schedule.Option) (schedule.Entry, error) {
		return sched.Insert(index, res.Name, res.Duration, res.At, opts...)
	})
}

// FilterLines trims lines and drops blank lines and comments
func (s *PlanService) FilterLines(lines []string) []string {
	syntax := s.chain.Syntax()
	filtered := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || syntax.IsComment(line) {
			continue
		}
		filtered = append(filtered, line)
	}
	return filtered
}

type placeFunc func(res resolver.Resolution, opts []schedule.Option) (schedule.Entry, error)

func (s *PlanService) place(ctx context.Context, raw string, reference time.Time, fn placeFunc) (schedule.Entry, error) {
	res, err := s.chain.Resolve(ctx, raw, reference)
	if err != nil {
		return schedule.Entry{}, fmt.Errorf("failed to resolve '%s': %w", raw, err)
	}

	var opts []schedule.Option
	if res.Unresolved {
		opts = append(opts, schedule.MarkUnresolved())
		s.logger.Warn().Str("entry", raw).Msg("no duration found")
	}
	return fn(res, opts)
}

// LoadSynonyms reads the synonyms file at path. An empty path yields an empty table.
func LoadSynonyms(path string, cfg config.Config) (*synonym.Table, []synonym.ParseWarning, error) {
	syntax := cfg.Syntax()
	if path == "" {
		return synonym.NewTable(syntax), nil, nil
	}

	result, err := synonym.LoadFile(path, syntax)
	if err != nil {
		return nil, nil, err
	}
	return synonym.NewTable(syntax, result.Pairs...), result.Warnings, nil
}
