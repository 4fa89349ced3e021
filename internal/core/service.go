package core

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"symptom-checker/pkg"
)

// Options controls how the Service accepts symptom lists.
type Options struct {
	// MinSymptoms is the smallest number of distinct identifiers accepted.
	MinSymptoms int
	// FoldCase lower-cases identifiers before matching.
	FoldCase bool
}

// Service is the boundary in front of the Matcher: it validates and
// normalizes raw symptom lists.
type Service struct {
	matcher *Matcher
	opts    Options
	log     *zap.Logger
}

// NewService constructs a Service.  A nil logger disables logging.
func NewService(matcher *Matcher, opts Options, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.MinSymptoms < 1 {
		opts.MinSymptoms = 1
	}
	return &Service{matcher: matcher, opts: opts, log: log}
}

// Diagnose validates symptoms and returns the enriched best match.
func (s *Service) Diagnose(symptoms []string) (*pkg.DiagnosisResult, error) {
	match, err := s.Match(symptoms)
	if err != nil {
		return nil, err
	}
	return s.matcher.enrich(match.Label), nil
}

// Enrich turns a match into a full result.
func (s *Service) Enrich(m Match) *pkg.DiagnosisResult {
	return s.matcher.enrich(m.Label)
}

// Match validates symptoms and returns the winning row without enrichment.
func (s *Service) Match(symptoms []string) (Match, error) {
	ids, err := s.validate(symptoms)
	if err != nil {
		return Match{}, err
	}
	match, err := s.matcher.Best(NewSymptomSet(ids...))
	if err != nil {
		return Match{}, err
	}
	if match.Empty() {
		// The first row wins an all-zero pass; surface it so it can be spotted.
		s.log.Info("no reported symptom matched any condition",
			zap.Strings("symptoms", ids), zap.String("disease", match.Label))
	}
	s.log.Debug("diagnosis selected",
		zap.Strings("symptoms", ids),
		zap.String("disease", match.Label),
		zap.Int("row", match.Row),
		zap.Int("score", match.Score))
	return match, nil
}

func (s *Service) validate(symptoms []string) ([]string, error) {
	if len(symptoms) == 0 {
		return nil, &ValidationError{Msg: "Symptoms array is required"}
	}
	ids := s.Normalize(symptoms)
	if len(ids) == 0 {
		return nil, &ValidationError{Msg: "Symptoms array is required"}
	}
	if len(ids) < s.opts.MinSymptoms {
		return nil, &ValidationError{Msg: fmt.Sprintf("At least %d symptoms are required", s.opts.MinSymptoms)}
	}
	return ids, nil
}

// Normalize applies NFKC, trims, optionally lower-cases, and drops empty and
// repeated identifiers while keeping first-seen order.
func (s *Service) Normalize(symptoms []string) []string {
	lower := cases.Lower(language.Und)
	seen := make(map[string]struct{}, len(symptoms))
	out := make([]string, 0, len(symptoms))
	for _, raw := range symptoms {
		id := strings.TrimSpace(norm.NFKC.String(raw))
		if s.opts.FoldCase {
			id = lower.String(id)
		}
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
