package resolver

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/JustNello/punctual/internal/entry"
)

// ErrCommentLine is returned when a comment line reaches the chain
var ErrCommentLine = errors.New("comment line")

// DefaultContingency is added to every resolved duration
const DefaultContingency = 2 * time.Minute

// Chain tries resolvers in priority order. The first resolver able to handle
// a line and returning a resolved duration wins. Resolvers that fail or leave
// the line unresolved defer to the next one, and the fallback's result is
// used when nothing else succeeds. The contingency is added once, to the
// winning resolution.
type Chain struct {
	syntax      entry.Syntax
	resolvers   []Resolver
	fallback    *Standard
	contingency time.Duration
	logger      zerolog.Logger
}

// NewChain creates a chain over resolvers, in priority order
func NewChain(syntax entry.Syntax, fallback *Standard, contingency time.Duration, logger zerolog.Logger, resolvers ...Resolver) *Chain {
	return &Chain{
		syntax:      syntax,
		resolvers:   resolvers,
		fallback:    fallback,
		contingency: contingency,
		logger:      logger.With().Str("component", "resolver").Logger(),
	}
}

// Syntax returns the line grammar used by the chain
func (c *Chain) Syntax() entry.Syntax {
	return c.syntax
}

// Names returns the resolver names in priority order
func (c *Chain) Names() []string {
	names := make([]string, len(c.resolvers))
	for i, r := range c.resolvers {
		names[i] = r.Name()
	}
	return names
}

// Resolve parses raw against reference and resolves it. Only input errors
// are returned: comment lines and malformed start times. Collaborator
// failures are logged and absorbed.
func (c *Chain) Resolve(ctx context.Context, raw string, reference time.Time) (Resolution, error) {
	if c.syntax.IsComment(raw) {
		return Resolution{}, ErrCommentLine
	}

	line, err := c.syntax.Parse(raw, reference)
	if err != nil {
		return Resolution{}, err
	}

	res, ok := c.first(ctx, line)
	if !ok {
		res, _ = c.fallback.Resolve(ctx, line)
	}

	res.Duration = addContingency(res.Duration, c.contingency)
	c.logger.Debug().
		Str("entry", raw).
		Str("source", res.Source).
		Dur("duration", res.Duration).
		Bool("unresolved", res.Unresolved).
		Msg("entry resolved")
	return res, nil
}

// maxDuration is the largest whole-minute time.Duration
const maxDuration = time.Duration(entry.MaxLiteralMinutes) * time.Minute

// addContingency adds contingency to d, saturating at maxDuration.
func addContingency(d, contingency time.Duration) time.Duration {
	if d > maxDuration-contingency {
		return maxDuration
	}
	return d + contingency
}

func (c *Chain) first(ctx context.Context, line entry.Line) (Resolution, bool) {
	for _, r := range c.resolvers {
		if !r.CanResolve(line) {
			continue
		}

		res, err := r.Resolve(ctx, line)
		if err != nil {
			c.logger.Warn().Err(err).Str("resolver", r.Name()).Str("entry", line.Raw).Msg("resolver failed, trying next")
			continue
		}
		if res.Unresolved {
			continue
		}
		return res, true
	}
	return Resolution{}, false
}
