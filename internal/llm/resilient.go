package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/biomarker-analysis-core/internal/domain"
)

// ResilientCollaborator wraps a domain.Collaborator with a circuit breaker
// so a struggling LLM backend degrades to the fallback collaborator
// instead of stalling the analysis pipeline.
type ResilientCollaborator struct {
	primary  domain.Collaborator
	fallback domain.Collaborator
	breaker  *gobreaker.CircuitBreaker
	log      *logrus.Logger
}

// NewResilientCollaborator builds a ResilientCollaborator. fallback must be
// non-nil; it is invoked whenever the breaker is open or the primary call
// fails.
func NewResilientCollaborator(primary, fallback domain.Collaborator, log *logrus.Logger) *ResilientCollaborator {
	if log == nil {
		log = logrus.StandardLogger()
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "llm-collaborator",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(logrus.Fields{"breaker": name, "from": from, "to": to}).Warn("llm: circuit breaker state change")
		},
	})

	return &ResilientCollaborator{primary: primary, fallback: fallback, breaker: breaker, log: log}
}

// Synthesize tries the primary collaborator through the circuit breaker,
// falling back to the deterministic collaborator on any failure. It
// returns an error only when the fallback collaborator fails as well.
func (r *ResilientCollaborator) Synthesize(ctx context.Context, req domain.LLMRequest) (domain.LLMResponse, error) {
	result, err := r.breaker.Execute(func() (interface{}, error) {
		return r.primary.Synthesize(ctx, req)
	})
	if err == nil {
		return result.(domain.LLMResponse), nil
	}

	if err == gobreaker.ErrOpenState {
		r.log.Warn("llm: circuit breaker open, using fallback collaborator")
	} else {
		r.log.WithError(err).Warn("llm: primary collaborator failed, using fallback collaborator")
	}

	resp, fbErr := r.fallback.Synthesize(ctx, req)
	if fbErr != nil {
		return domain.LLMResponse{}, fmt.Errorf("llm: fallback collaborator failed: %w", fbErr)
	}
	return resp, nil
}
