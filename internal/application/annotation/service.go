// Package annotation turns documents of located temporal spans into TIMEX3
// annotations.  It sits between the transport surfaces (HTTP, CLI, Kafka
// worker) and the timex_normaliser cascade.
package annotation

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/turtacn/timexnorm/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/timexnorm/internal/intelligence/common"
	"github.com/turtacn/timexnorm/internal/intelligence/timex_normaliser"
	"github.com/turtacn/timexnorm/pkg/errors"
	"github.com/turtacn/timexnorm/pkg/types/timex"
)

// Service defines the annotation operations exposed to the surfaces.
type Service interface {
	// Annotate normalises the spans of doc in order with one session, so
	// anaphoric spans resolve against the last full date of the document.
	Annotate(ctx context.Context, doc *Document) (*AnnotatedDocument, error)
	// AnnotateBatch annotates docs concurrently.  Results keep input order.
	AnnotateBatch(ctx context.Context, docs []*Document) ([]*AnnotatedDocument, error)
	// Normalise resolves a single expression without document state.
	Normalise(ctx context.Context, expr, ref, domain string) (*timex.Result, error)
	// Rules lists the cascade of domain in evaluation order.
	Rules(domain string) ([]string, error)
}

// ResultStore caches results of expressions that do not depend on document
// state.  *redis.ResultCache satisfies it.
type ResultStore interface {
	Get(ctx context.Context, domain timex.Domain, ref, expr string) (timex.Result, bool, error)
	Put(ctx context.Context, domain timex.Domain, ref, expr string, res timex.Result) error
}

// ---------------------------------------------------------------------------
// Configuration
// ---------------------------------------------------------------------------

// ServiceConfig holds the annotation defaults.
type ServiceConfig struct {
	DefaultDomain    string `mapstructure:"default_domain" json:"default_domain" yaml:"default_domain"`
	UseDocumentState bool   `mapstructure:"use_document_state" json:"use_document_state" yaml:"use_document_state"`
	Concurrency      int    `mapstructure:"concurrency" json:"concurrency" yaml:"concurrency"`
	Format           string `mapstructure:"format" json:"format" yaml:"format"`
}

// DefaultServiceConfig returns general-domain TimeML output with anaphora
// carry-over and eight concurrent documents.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		DefaultDomain:    string(timex.DomainGeneral),
		UseDocumentState: true,
		Concurrency:      8,
		Format:           string(FormatTimeML),
	}
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type serviceImpl struct {
	cfg           ServiceConfig
	defaultDomain timex.Domain
	format        Format
	normalisers   map[timex.Domain]*timex_normaliser.Normaliser
	store         ResultStore
	logger        logging.Logger
	metrics       common.NormaliserMetrics
}

// NewService builds one normaliser per domain.  store may be nil to disable
// result caching; a nil logger or metrics sink is replaced by a no-op.
func NewService(cfg ServiceConfig, store ResultStore, logger logging.Logger, metrics common.NormaliserMetrics) (Service, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if metrics == nil {
		metrics = common.NewNoopNormaliserMetrics()
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	domain, ok := timex.ParseDomain(cfg.DefaultDomain)
	if !ok {
		return nil, errors.Newf(errors.ErrCodeUnsupportedDomain, "unsupported domain %q", cfg.DefaultDomain)
	}
	format, err := ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}

	normalisers := make(map[timex.Domain]*timex_normaliser.Normaliser, 2)
	for _, d := range []timex.Domain{timex.DomainGeneral, timex.DomainClinical} {
		n, err := timex_normaliser.NewNormaliser(timex_normaliser.Config{
			Domain:           string(d),
			UseDocumentState: cfg.UseDocumentState,
		}, logger, metrics)
		if err != nil {
			return nil, err
		}
		normalisers[d] = n
	}

	return &serviceImpl{
		cfg:           cfg,
		defaultDomain: domain,
		format:        format,
		normalisers:   normalisers,
		store:         store,
		logger:        logger.Named("annotation"),
		metrics:       metrics,
	}, nil
}

func (s *serviceImpl) normaliserFor(name string) (*timex_normaliser.Normaliser, error) {
	if strings.TrimSpace(name) == "" {
		return s.normalisers[s.defaultDomain], nil
	}
	domain, ok := timex.ParseDomain(name)
	if !ok {
		return nil, errors.Newf(errors.ErrCodeUnsupportedDomain, "unsupported domain %q", name)
	}
	return s.normalisers[domain], nil
}

func (s *serviceImpl) Rules(domain string) ([]string, error) {
	n, err := s.normaliserFor(domain)
	if err != nil {
		return nil, err
	}
	return n.Rules(), nil
}

func (s *serviceImpl) Normalise(ctx context.Context, expr, ref, domain string) (*timex.Result, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, errors.New(errors.ErrCodeEmptyExpression, "expression is empty")
	}
	n, err := s.normaliserFor(domain)
	if err != nil {
		return nil, err
	}
	refDate, err := timex_normaliser.ParseReferenceDate(ref)
	if err != nil {
		s.metrics.RecordRejectedReference(ctx, string(n.Domain()))
		return nil, err
	}

	if res, ok := s.lookup(ctx, n.Domain(), ref, expr); ok {
		return &res, nil
	}
	res := n.NormaliseAt(expr, refDate)
	s.remember(ctx, n.Domain(), ref, expr, res)
	return &res, nil
}

func (s *serviceImpl) Annotate(ctx context.Context, doc *Document) (*AnnotatedDocument, error) {
	return s.annotate(ctx, doc, uuid.NewString())
}

func (s *serviceImpl) AnnotateBatch(ctx context.Context, docs []*Document) ([]*AnnotatedDocument, error) {
	out := make([]*AnnotatedDocument, len(docs))
	runID := uuid.NewString()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for i, doc := range docs {
		g.Go(func() error {
			res, err := s.annotate(gctx, doc, runID)
			if err != nil {
				id := ""
				if doc != nil {
					id = doc.ID
				}
				return errors.Wrap(err, errors.ErrCodeAnnotationFailed, fmt.Sprintf("document %d (%q) failed", i, id))
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *serviceImpl) annotate(ctx context.Context, doc *Document, runID string) (*AnnotatedDocument, error) {
	if doc == nil {
		return nil, errors.InvalidParam("document is nil")
	}
	start := time.Now()
	log := s.logger.With(logging.DocumentID(doc.ID), logging.RunID(runID))

	n, err := s.normaliserFor(doc.Domain)
	if err != nil {
		return nil, err
	}
	domain := n.Domain()
	format := s.format
	if doc.Format != "" {
		if format, err = ParseFormat(doc.Format); err != nil {
			return nil, err
		}
	}
	if err := validateSpans(doc.Spans); err != nil {
		return nil, err
	}

	fail := func(err error) (*AnnotatedDocument, error) {
		s.metrics.RecordDocument(ctx, &common.DocumentMetricParams{
			Domain:     string(domain),
			Spans:      len(doc.Spans),
			DurationMs: elapsedMs(start),
			Success:    false,
		})
		log.Warn("document rejected", logging.Err(err))
		return nil, err
	}

	ref, err := timex_normaliser.ParseReferenceDate(doc.DCT)
	if err != nil {
		s.metrics.RecordRejectedReference(ctx, string(domain))
		return fail(err)
	}

	useState := s.cfg.UseDocumentState
	session := n.NewSession()
	out := &AnnotatedDocument{
		DocumentID:  doc.ID,
		RunID:       runID,
		DCT:         doc.DCT,
		Domain:      domain,
		Format:      format,
		Annotations: make([]Annotation, 0, len(doc.Spans)),
	}
	for i, span := range doc.Spans {
		if err := ctx.Err(); err != nil {
			return fail(errors.Wrap(err, errors.ErrCodeTimeout, "annotation cancelled"))
		}

		a := Annotation{TID: "t" + strconv.Itoa(i+1), Span: span}
		a.Anaphoric = useState && timex_normaliser.IsAnaphoric(span.Text)
		if !a.Anaphoric {
			if res, ok := s.lookup(ctx, domain, doc.DCT, span.Text); ok {
				a.Result, a.Cached = res, true
				if useState {
					session.Observe(res)
				}
			}
		}
		if !a.Cached {
			a.Result = session.NormaliseAt(span.Text, ref, useState)
			if !a.Anaphoric {
				s.remember(ctx, domain, doc.DCT, span.Text, a.Result)
			}
		}
		if a.Result.IsDefault() {
			out.DefaultSpans++
		}
		out.Annotations = append(out.Annotations, a)
	}

	out.Tags = Render(out.Annotations, format)
	out.ProcessedAt = time.Now().UTC()
	out.DurationMs = elapsedMs(start)

	s.metrics.RecordDocument(ctx, &common.DocumentMetricParams{
		Domain:       string(domain),
		Spans:        len(doc.Spans),
		DefaultSpans: out.DefaultSpans,
		DurationMs:   out.DurationMs,
		Success:      true,
	})
	log.Info("document annotated",
		logging.Int("spans", len(doc.Spans)),
		logging.Int("default_spans", out.DefaultSpans),
		logging.String("domain", string(domain)),
		logging.Float64("duration_ms", out.DurationMs),
	)
	return out, nil
}

// lookup consults the result store.  Store failures are logged and treated
// as misses.
func (s *serviceImpl) lookup(ctx context.Context, domain timex.Domain, ref, expr string) (timex.Result, bool) {
	if s.store == nil {
		return timex.Result{}, false
	}
	res, hit, err := s.store.Get(ctx, domain, ref, expr)
	if err != nil {
		s.logger.Warn("result cache read failed", logging.Expression(expr), logging.Err(err))
		return timex.Result{}, false
	}
	s.metrics.RecordCacheAccess(ctx, hit, string(domain))
	return res, hit
}

func (s *serviceImpl) remember(ctx context.Context, domain timex.Domain, ref, expr string, res timex.Result) {
	if s.store == nil {
		return
	}
	if err := s.store.Put(ctx, domain, ref, expr, res); err != nil {
		s.logger.Warn("result cache write failed", logging.Expression(expr), logging.Err(err))
	}
}

func validateSpans(spans []Span) error {
	for i, sp := range spans {
		if sp.Start < 0 || sp.End < sp.Start {
			return errors.Newf(errors.ErrCodeValidation, "span %d has invalid offsets [%d, %d)", i, sp.Start, sp.End)
		}
	}
	return nil
}

func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}

//Personal.AI order the ending
