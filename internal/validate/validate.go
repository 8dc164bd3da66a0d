// Package validate checks structural completeness and semantic constraints
// of candidate entities before they enter the workflow. Validation is pure
// and total: the same candidate always yields the same error list, no I/O,
// no state. A candidate with a non-empty error list must not be submitted
// to the gateway.
package validate

import (
	"fmt"
	"unicode/utf8"

	"ohap/internal/domain"
)

// Minimum lengths required by the protocol, in characters.
const (
	MinTitleLen     = 3
	MinObjectiveLen = 10
	MinApproachLen  = 20
)

// FieldError describes one failed rule: the path of the offending field and
// a human-readable reason.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Candidate validates a candidate of the given kind. The error list covers
// ordinary invalid input; the second return is non-nil only for programmer
// errors (unknown kind, candidate of the wrong type).
func Candidate(kind domain.Kind, candidate any) ([]FieldError, error) {
	switch kind {
	case domain.KindTask:
		t, ok := candidate.(domain.Task)
		if !ok {
			return nil, fmt.Errorf("candidate for kind %q is %T, want domain.Task", kind, candidate)
		}
		return Task(t), nil
	case domain.KindProposal:
		p, ok := candidate.(domain.Proposal)
		if !ok {
			return nil, fmt.Errorf("candidate for kind %q is %T, want domain.Proposal", kind, candidate)
		}
		return Proposal(p), nil
	case domain.KindContract:
		c, ok := candidate.(domain.Contract)
		if !ok {
			return nil, fmt.Errorf("candidate for kind %q is %T, want domain.Contract", kind, candidate)
		}
		return Contract(c), nil
	case domain.KindDeliverable:
		d, ok := candidate.(domain.Deliverable)
		if !ok {
			return nil, fmt.Errorf("candidate for kind %q is %T, want domain.Deliverable", kind, candidate)
		}
		return Deliverable(d), nil
	case domain.KindReview:
		r, ok := candidate.(domain.Review)
		if !ok {
			return nil, fmt.Errorf("candidate for kind %q is %T, want domain.Review", kind, candidate)
		}
		return Review(r), nil
	}
	return nil, fmt.Errorf("unknown entity kind %q", kind)
}

// Task checks a task candidate.
func Task(t domain.Task) []FieldError {
	var errs []FieldError
	if t.ID == "" {
		errs = append(errs, FieldError{Field: "id", Reason: "must not be empty"})
	}
	if utf8.RuneCountInString(t.Title) < MinTitleLen {
		errs = append(errs, FieldError{
			Field:  "title",
			Reason: fmt.Sprintf("must be at least %d characters", MinTitleLen),
		})
	}
	if utf8.RuneCountInString(t.Objective) < MinObjectiveLen {
		errs = append(errs, FieldError{
			Field:  "objective",
			Reason: fmt.Sprintf("must be at least %d characters", MinObjectiveLen),
		})
	}
	if t.Initiator.ID == "" {
		errs = append(errs, FieldError{Field: "initiator.id", Reason: "initiator must have a non-empty id"})
	}
	return errs
}

// Proposal checks a proposal candidate.
func Proposal(p domain.Proposal) []FieldError {
	var errs []FieldError
	if p.ID == "" {
		errs = append(errs, FieldError{Field: "id", Reason: "must not be empty"})
	}
	if p.TaskID == "" {
		errs = append(errs, FieldError{Field: "task_id", Reason: "must reference a task"})
	}
	if p.Proposer.ID == "" {
		errs = append(errs, FieldError{Field: "proposer.id", Reason: "proposer must have a non-empty id"})
	}
	if utf8.RuneCountInString(p.Approach) < MinApproachLen {
		errs = append(errs, FieldError{
			Field:  "approach",
			Reason: fmt.Sprintf("must be at least %d characters", MinApproachLen),
		})
	}
	if p.Timeline.EstimatedCompletion == "" {
		errs = append(errs, FieldError{
			Field:  "timeline.estimated_completion",
			Reason: "must not be empty",
		})
	}
	return errs
}

// Contract checks a contract candidate. Contracts are normally assembled by
// the gateway on proposal acceptance; the reference server runs this gate on
// what it assembles.
func Contract(c domain.Contract) []FieldError {
	var errs []FieldError
	if c.ID == "" {
		errs = append(errs, FieldError{Field: "id", Reason: "must not be empty"})
	}
	if c.TaskID == "" {
		errs = append(errs, FieldError{Field: "task_id", Reason: "must reference a task"})
	}
	if c.ProposalID == "" {
		errs = append(errs, FieldError{Field: "proposal_id", Reason: "must reference a proposal"})
	}
	if c.Initiator.ID == "" {
		errs = append(errs, FieldError{Field: "initiator.id", Reason: "initiator must have a non-empty id"})
	}
	if c.HumanPartner.ID == "" {
		errs = append(errs, FieldError{Field: "human_partner.id", Reason: "human partner must have a non-empty id"})
	}
	if c.Terms.Scope == "" {
		errs = append(errs, FieldError{Field: "terms.scope", Reason: "must not be empty"})
	}
	if c.Terms.Timeline.EstimatedCompletion == "" {
		errs = append(errs, FieldError{
			Field:  "terms.timeline.estimated_completion",
			Reason: "must not be empty",
		})
	}
	return errs
}

// Deliverable checks a deliverable candidate.
func Deliverable(d domain.Deliverable) []FieldError {
	var errs []FieldError
	if d.ID == "" {
		errs = append(errs, FieldError{Field: "id", Reason: "must not be empty"})
	}
	if d.TaskID == "" {
		errs = append(errs, FieldError{Field: "task_id", Reason: "must reference a task"})
	}
	if d.ContractID == "" {
		errs = append(errs, FieldError{Field: "contract_id", Reason: "must reference a contract"})
	}
	if d.Submitter.ID == "" {
		errs = append(errs, FieldError{Field: "submitter.id", Reason: "submitter must have a non-empty id"})
	}
	if len(d.Artifacts) == 0 {
		errs = append(errs, FieldError{Field: "artifacts", Reason: "must contain at least one artifact"})
	}
	if len(d.Evidence.Items) == 0 {
		errs = append(errs, FieldError{Field: "evidence.items", Reason: "must contain at least one evidence item"})
	}
	return errs
}

// Review checks a review candidate.
func Review(r domain.Review) []FieldError {
	var errs []FieldError
	if r.ID == "" {
		errs = append(errs, FieldError{Field: "id", Reason: "must not be empty"})
	}
	if r.DeliverableID == "" {
		errs = append(errs, FieldError{Field: "deliverable_id", Reason: "must reference a deliverable"})
	}
	if r.Reviewer.ID == "" {
		errs = append(errs, FieldError{Field: "reviewer.id", Reason: "reviewer must have a non-empty id"})
	}
	if !r.Decision.Valid() {
		errs = append(errs, FieldError{
			Field:  "decision",
			Reason: "must be one of accepted, rejected, revision-requested, escalated",
		})
	}
	return errs
}
