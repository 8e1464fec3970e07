package timex_normaliser

import (
	"context"
	"regexp"
	"time"

	"github.com/turtacn/timexnorm/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/timexnorm/internal/intelligence/common"
	"github.com/turtacn/timexnorm/pkg/errors"
	"github.com/turtacn/timexnorm/pkg/types/timex"
)

// ---------------------------------------------------------------------------
// Configuration
// ---------------------------------------------------------------------------

// Config selects the rule cascade and the document-state policy.
type Config struct {
	Domain           string `mapstructure:"domain" json:"domain" yaml:"domain"`
	UseDocumentState bool   `mapstructure:"use_document_state" json:"use_document_state" yaml:"use_document_state"`
}

// DefaultConfig returns the general-domain configuration with anaphora
// carry-over enabled.
func DefaultConfig() Config {
	return Config{
		Domain:           string(timex.DomainGeneral),
		UseDocumentState: true,
	}
}

// ---------------------------------------------------------------------------
// Normaliser
// ---------------------------------------------------------------------------

// Normaliser resolves temporal expressions against a reference date using
// the rule cascade of one domain.  It holds no per-document state and is
// safe for concurrent use; anaphora carry-over lives in a Session.
type Normaliser struct {
	cfg     Config
	domain  timex.Domain
	rules   []rule
	logger  logging.Logger
	metrics common.NormaliserMetrics
}

// NewNormaliser builds the cascade for cfg.Domain.  A nil logger or metrics
// sink is replaced by a no-op implementation.
func NewNormaliser(cfg Config, logger logging.Logger, metrics common.NormaliserMetrics) (*Normaliser, error) {
	domain, ok := timex.ParseDomain(cfg.Domain)
	if !ok {
		return nil, errors.Newf(errors.ErrCodeUnsupportedDomain, "unsupported domain %q", cfg.Domain)
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if metrics == nil {
		metrics = common.NewNoopNormaliserMetrics()
	}
	cfg.Domain = string(domain)
	return &Normaliser{
		cfg:     cfg,
		domain:  domain,
		rules:   buildCascade(domain),
		logger:  logger.Named("timex_normaliser").With(logging.String("domain", string(domain))),
		metrics: metrics,
	}, nil
}

// Domain returns the active cascade variant.
func (n *Normaliser) Domain() timex.Domain { return n.domain }

// Config returns the effective configuration.
func (n *Normaliser) Config() Config { return n.cfg }

// Rules lists the cascade rule names in evaluation order.  The DEFAULT rule
// is implicit and not listed.
func (n *Normaliser) Rules() []string {
	names := make([]string, len(n.rules))
	for i, r := range n.rules {
		names[i] = r.name
	}
	return names
}

// Normalise parses ref ("YYYYMMDD" or "YYYYMMDDThhmmss") and resolves expr
// against it.  A malformed reference is returned as an error carrying
// ErrCodeInvalidReferenceDate; an expression no rule recognises is not an
// error and yields the DEFAULT result.
func (n *Normaliser) Normalise(expr, ref string) (*timex.Result, error) {
	refDate, err := ParseReferenceDate(ref)
	if err != nil {
		n.rejectReference(ref, err)
		return nil, err
	}
	result := n.NormaliseAt(expr, refDate)
	return &result, nil
}

// NormaliseAt resolves expr against an already parsed reference date.
func (n *Normaliser) NormaliseAt(expr string, ref ReferenceDate) timex.Result {
	return n.evaluate(expr, ref, false)
}

func (n *Normaliser) rejectReference(ref string, err error) {
	n.logger.Warn("rejected reference date",
		logging.String("reference", ref),
		logging.Err(err),
	)
	n.metrics.RecordRejectedReference(context.Background(), string(n.domain))
}

// evaluate runs the cascade: the first rule whose pattern matches and whose
// handler accepts the captures fires, then the modifier pass runs over the
// surface text.
func (n *Normaliser) evaluate(expr string, ref ReferenceDate, anaphoric bool) timex.Result {
	start := time.Now()
	f := prepare(expr)

	result := timex.Default(f.text)
	if f.bare != "" {
		c := &matchContext{forms: f, ref: ref, domain: n.domain}
		for _, r := range n.rules {
			o, ok := r.apply(c)
			if !ok {
				continue
			}
			result = timex.Result{
				SurfaceText: f.text,
				Type:        o.typ,
				Value:       o.value,
				Rule:        r.name,
				Modifier:    o.mod,
			}
			break
		}
	}
	result.Modifier = ClassifyModifier(result)

	elapsed := time.Since(start)
	n.logger.Debug("normalised expression",
		logging.String("expression", f.text),
		logging.String("reference", ref.String()),
		logging.String("rule", result.Rule),
		logging.String("type", string(result.Type)),
		logging.String("value", result.Value),
		logging.Bool("anaphoric", anaphoric),
		logging.Duration("elapsed", elapsed),
	)
	n.metrics.RecordNormalisation(context.Background(), &common.NormalisationMetricParams{
		Domain:     string(n.domain),
		Rule:       result.Rule,
		Type:       string(result.Type),
		DurationMs: float64(elapsed.Microseconds()) / 1000,
		Anaphoric:  anaphoric,
	})
	return result
}

// NewSession starts the anaphora state for one document.
func (n *Normaliser) NewSession() *Session {
	return &Session{normaliser: n}
}

// ---------------------------------------------------------------------------
// Anaphora
// ---------------------------------------------------------------------------

var anaphoricRe = regexp.MustCompile(`^(?:(?:on|in|at|during|by|until)\s+)?(?:(?:that|the same)\s+[a-z]+|the\s+time|that\s+time)$`)

// IsAnaphoric reports whether expr refers back to a previously resolved date
// ("that afternoon", "the same day", "the time").
func IsAnaphoric(expr string) bool {
	return anaphoricRe.MatchString(prepare(expr).expr)
}

//Personal.AI order the ending
