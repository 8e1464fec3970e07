package annotation

import (
	"time"

	"github.com/turtacn/timexnorm/pkg/types/timex"
)

// Span is one temporal expression located by an upstream tagger.  Offsets
// are character positions in the source document; End is exclusive.
type Span struct {
	Start int    `json:"start" yaml:"start"`
	End   int    `json:"end" yaml:"end"`
	Text  string `json:"text" yaml:"text"`
}

// Document is the unit of annotation: the spans of one document in reading
// order together with its creation time.
type Document struct {
	ID string `json:"id" yaml:"id"`
	// DCT is the document creation time, "YYYYMMDD" or "YYYYMMDDThhmmss".
	DCT string `json:"dct" yaml:"dct"`
	// Domain selects the cascade; empty means the service default.
	Domain string `json:"domain,omitempty" yaml:"domain,omitempty"`
	// Format selects the TIMEX3 dialect of the rendered tags; empty means
	// the service default.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
	Spans  []Span `json:"spans" yaml:"spans"`
}

// Annotation is the normalised form of one span.
type Annotation struct {
	TID       string       `json:"tid"`
	Span      Span         `json:"span"`
	Result    timex.Result `json:"result"`
	Anaphoric bool         `json:"anaphoric,omitempty"`
	Cached    bool         `json:"cached,omitempty"`
}

// AnnotatedDocument is the output of one annotation run over a Document.
type AnnotatedDocument struct {
	DocumentID   string       `json:"document_id"`
	RunID        string       `json:"run_id"`
	DCT          string       `json:"dct"`
	Domain       timex.Domain `json:"domain"`
	Format       Format       `json:"format"`
	Annotations  []Annotation `json:"annotations"`
	Tags         []string     `json:"tags"`
	DefaultSpans int          `json:"default_spans"`
	ProcessedAt  time.Time    `json:"processed_at"`
	DurationMs   float64      `json:"duration_ms"`
}

//Personal.AI order the ending
