package timex_normaliser

import (
	"regexp"
	"sync"

	"github.com/turtacn/timexnorm/internal/intelligence/common"
	"github.com/turtacn/timexnorm/pkg/types/timex"
)

var fullDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Session carries the last resolved full date across the expressions of one
// document.  Anaphoric expressions resolve against that date instead of the
// document reference.  A Session serialises its own calls; use one Session
// per document.
type Session struct {
	normaliser *Normaliser

	mu       sync.Mutex
	lastDate string
}

// Normalise resolves expr for the current document.  With useDocumentState
// an anaphoric expression is resolved against the last full DATE this
// session returned, and a full DATE result becomes the new anchor.
func (s *Session) Normalise(expr, ref string, useDocumentState bool) (*timex.Result, error) {
	refDate, err := ParseReferenceDate(ref)
	if err != nil {
		s.normaliser.rejectReference(ref, err)
		return nil, err
	}
	result := s.NormaliseAt(expr, refDate, useDocumentState)
	return &result, nil
}

// NormaliseAt is Normalise with a parsed reference date.
func (s *Session) NormaliseAt(expr string, ref ReferenceDate, useDocumentState bool) timex.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !useDocumentState {
		return s.normaliser.evaluate(expr, ref, false)
	}

	effective, anaphoric := ref, false
	if s.lastDate != "" && IsAnaphoric(expr) {
		if y, m, d, ok := common.ParseDate(s.lastDate); ok {
			effective, anaphoric = referenceFromDate(y, m, d), true
		}
	}
	result := s.normaliser.evaluate(expr, effective, anaphoric)
	s.observe(result)
	return result
}

// Observe offers a result resolved elsewhere (for example served from a
// cache) as the new anchor.
func (s *Session) Observe(result timex.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observe(result)
}

func (s *Session) observe(result timex.Result) {
	if result.Type == timex.TypeDate && fullDateRe.MatchString(result.Value) {
		s.lastDate = result.Value
	}
}

// Reset clears the anchor at a document boundary.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastDate = ""
}

// LastDate returns the current anchor, if any.
func (s *Session) LastDate() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastDate, s.lastDate != ""
}

//Personal.AI order the ending
