// Package lifecycle encodes the authoritative status state machines for the
// OHAP entities and the operations that drive them. Every operation is a
// function from current entities plus an input payload to new entity values;
// related-entity effects are returned explicitly, never applied behind the
// caller's back. The package performs no I/O and holds no shared state, so
// an Engine value is safe for concurrent use.
package lifecycle

import (
	"fmt"
	"time"

	"ohap/internal/domain"
)

// TaskVersion is stamped on tasks created without an explicit version.
const TaskVersion = "0.1"

// InvalidTransitionError reports an operation invoked against an entity
// whose current status does not permit it. It is always a local,
// synchronous failure and is never retried.
type InvalidTransitionError struct {
	Kind    domain.Kind
	Current string
	Op      string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s in status %q does not permit %s", e.Kind, e.Current, e.Op)
}

func invalidTransition[S ~string](kind domain.Kind, current S, op string) error {
	return &InvalidTransitionError{Kind: kind, Current: string(current), Op: op}
}

// Engine drives the state machines. Now is injectable for tests.
type Engine struct {
	Now func() time.Time
}

func New() Engine {
	return Engine{Now: time.Now}
}

func (e Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// TaskTransitionAllowed reports whether a task may move between two
// statuses. Cancellation is reachable from any non-terminal state; the
// normal path is draft, open, offered, contracted, in-progress, delivered,
// reviewed, closed.
func TaskTransitionAllowed(from, to domain.TaskStatus) bool {
	if from.Terminal() {
		return false
	}
	if to == domain.TaskCancelled {
		return true
	}
	switch from {
	case domain.TaskDraft:
		return to == domain.TaskOpen
	case domain.TaskOpen:
		return to == domain.TaskOffered
	case domain.TaskOffered:
		return to == domain.TaskContracted
	case domain.TaskContracted:
		return to == domain.TaskInProgress || to == domain.TaskDelivered
	case domain.TaskInProgress:
		return to == domain.TaskDelivered
	case domain.TaskDelivered:
		return to == domain.TaskReviewed
	case domain.TaskReviewed:
		return to == domain.TaskClosed
	}
	return false
}

func ProposalTransitionAllowed(from, to domain.ProposalStatus) bool {
	switch from {
	case domain.ProposalSubmitted:
		return to == domain.ProposalUnderReview || to == domain.ProposalAccepted ||
			to == domain.ProposalRejected || to == domain.ProposalWithdrawn
	case domain.ProposalUnderReview:
		return to == domain.ProposalAccepted || to == domain.ProposalRejected ||
			to == domain.ProposalWithdrawn
	}
	return false
}

func ContractTransitionAllowed(from, to domain.ContractStatus) bool {
	switch from {
	case domain.ContractActive:
		return to == domain.ContractCompleted || to == domain.ContractCancelled ||
			to == domain.ContractDisputed
	case domain.ContractDisputed:
		return to == domain.ContractCompleted || to == domain.ContractCancelled
	}
	return false
}

func DeliverableTransitionAllowed(from, to domain.DeliverableStatus) bool {
	switch from {
	case domain.DeliverableSubmitted:
		return to == domain.DeliverableUnderReview || to == domain.DeliverableAccepted ||
			to == domain.DeliverableRejected || to == domain.DeliverableRevisionRequested
	case domain.DeliverableUnderReview:
		return to == domain.DeliverableAccepted || to == domain.DeliverableRejected ||
			to == domain.DeliverableRevisionRequested
	}
	return false
}

// CreateTask fills defaults on a task candidate and places it in draft.
// A candidate arriving with any status other than draft is rejected.
func (e Engine) CreateTask(candidate domain.Task) (domain.Task, error) {
	if candidate.Status != "" && candidate.Status != domain.TaskDraft {
		return domain.Task{}, invalidTransition(domain.KindTask, candidate.Status, "createTask")
	}
	now := e.now()
	t := candidate
	if t.ID == "" {
		t.ID = domain.NewID(domain.IDPrefixTask, now)
	}
	if t.Version == "" {
		t.Version = TaskVersion
	}
	t.Status = domain.TaskDraft
	if t.CreatedAt == "" {
		t.CreatedAt = domain.Timestamp(now)
	}
	return t, nil
}

// SubmitTask opens a draft task for proposals.
func (e Engine) SubmitTask(t domain.Task) (domain.Task, error) {
	if t.Status != domain.TaskDraft {
		return t, invalidTransition(domain.KindTask, t.Status, "submitTask")
	}
	t.Status = domain.TaskOpen
	return t, nil
}

// SubmitProposal fills defaults on a proposal candidate against an open or
// already-offered task. The returned task reflects the offered transition;
// the first proposal moves the task from open to offered.
func (e Engine) SubmitProposal(t domain.Task, candidate domain.Proposal) (domain.Proposal, domain.Task, error) {
	if t.Status != domain.TaskOpen && t.Status != domain.TaskOffered {
		return domain.Proposal{}, t, invalidTransition(domain.KindTask, t.Status, "submitProposal")
	}
	if candidate.TaskID != "" && candidate.TaskID != t.ID {
		return domain.Proposal{}, t, fmt.Errorf("proposal references task %q, not %q", candidate.TaskID, t.ID)
	}
	now := e.now()
	p := candidate
	if p.ID == "" {
		p.ID = domain.NewID(domain.IDPrefixProposal, now)
	}
	p.TaskID = t.ID
	p.Status = domain.ProposalSubmitted
	if p.CreatedAt == "" {
		p.CreatedAt = domain.Timestamp(now)
	}
	if t.Status == domain.TaskOpen {
		t.Status = domain.TaskOffered
	}
	return p, t, nil
}

// MarkProposalUnderReview moves a submitted proposal into review.
func (e Engine) MarkProposalUnderReview(p domain.Proposal) (domain.Proposal, error) {
	if p.Status != domain.ProposalSubmitted {
		return p, invalidTransition(domain.KindProposal, p.Status, "markUnderReview")
	}
	p.Status = domain.ProposalUnderReview
	return p, nil
}

// WithdrawProposal withdraws a proposal still in play.
func (e Engine) WithdrawProposal(p domain.Proposal) (domain.Proposal, error) {
	if !ProposalTransitionAllowed(p.Status, domain.ProposalWithdrawn) {
		return p, invalidTransition(domain.KindProposal, p.Status, "withdrawProposal")
	}
	p.Status = domain.ProposalWithdrawn
	return p, nil
}

// RejectProposal rejects a proposal still in play. Note that accepting a
// sibling proposal does not reject the others automatically; that policy
// belongs to the gateway.
func (e Engine) RejectProposal(p domain.Proposal) (domain.Proposal, error) {
	if !ProposalTransitionAllowed(p.Status, domain.ProposalRejected) {
		return p, invalidTransition(domain.KindProposal, p.Status, "rejectProposal")
	}
	p.Status = domain.ProposalRejected
	return p, nil
}

// AcceptProposal accepts a proposal and assembles the contract binding its
// task. The contract id is left empty for the gateway to assign; terms are
// seeded from the proposal (scope from the approach, timeline and cost as
// proposed). The task moves to contracted.
func (e Engine) AcceptProposal(t domain.Task, p domain.Proposal) (domain.Contract, domain.Proposal, domain.Task, error) {
	if p.Status != domain.ProposalSubmitted && p.Status != domain.ProposalUnderReview {
		return domain.Contract{}, p, t, invalidTransition(domain.KindProposal, p.Status, "acceptProposal")
	}
	if p.TaskID != t.ID {
		return domain.Contract{}, p, t, fmt.Errorf("proposal %s references task %q, not %q", p.ID, p.TaskID, t.ID)
	}
	if !TaskTransitionAllowed(t.Status, domain.TaskContracted) {
		return domain.Contract{}, p, t, invalidTransition(domain.KindTask, t.Status, "acceptProposal")
	}
	c := domain.Contract{
		TaskID:     t.ID,
		ProposalID: p.ID,
		Initiator:  t.Initiator,
		HumanPartner: domain.Actor{
			ID:      p.Proposer.ID,
			Type:    p.Proposer.Type,
			Name:    p.Proposer.Name,
			Contact: p.Proposer.Contact,
		},
		Terms: domain.ContractTerms{
			Scope:        p.Approach,
			Timeline:     p.Timeline,
			Compensation: p.Cost,
		},
		Status:    domain.ContractActive,
		CreatedAt: domain.Timestamp(e.now()),
	}
	if t.Acceptance != nil {
		c.Terms.AcceptanceCriteria = t.Acceptance.Criteria
	}
	if t.Evidence != nil {
		c.Terms.EvidenceRequirements = t.Evidence.Required
	}
	p.Status = domain.ProposalAccepted
	t.Status = domain.TaskContracted
	return c, p, t, nil
}

// StartWork moves a contracted task into in-progress.
func (e Engine) StartWork(t domain.Task) (domain.Task, error) {
	if t.Status != domain.TaskContracted {
		return t, invalidTransition(domain.KindTask, t.Status, "startWork")
	}
	t.Status = domain.TaskInProgress
	return t, nil
}

// SubmitDeliverable fills defaults on a deliverable candidate for a task
// under contract. The contract must be active and derived from the same
// task the deliverable names; the task moves to delivered.
func (e Engine) SubmitDeliverable(t domain.Task, c domain.Contract, candidate domain.Deliverable) (domain.Deliverable, domain.Task, error) {
	if c.Status != domain.ContractActive {
		return domain.Deliverable{}, t, invalidTransition(domain.KindContract, c.Status, "submitDeliverable")
	}
	if c.TaskID != t.ID {
		return domain.Deliverable{}, t, fmt.Errorf("contract %s references task %q, not %q", c.ID, c.TaskID, t.ID)
	}
	if candidate.TaskID != "" && candidate.TaskID != t.ID {
		return domain.Deliverable{}, t, fmt.Errorf("deliverable references task %q, not %q", candidate.TaskID, t.ID)
	}
	if !TaskTransitionAllowed(t.Status, domain.TaskDelivered) {
		return domain.Deliverable{}, t, invalidTransition(domain.KindTask, t.Status, "submitDeliverable")
	}
	now := e.now()
	d := candidate
	if d.ID == "" {
		d.ID = domain.NewID(domain.IDPrefixDeliverable, now)
	}
	d.TaskID = t.ID
	d.ContractID = c.ID
	d.Status = domain.DeliverableSubmitted
	if d.SubmittedAt == "" {
		d.SubmittedAt = domain.Timestamp(now)
	}
	t.Status = domain.TaskDelivered
	return d, t, nil
}

// SubmitReview issues the immutable review for a deliverable and settles
// the deliverable status from the decision: accepted, rejected, and
// revision-requested map directly, escalated parks the deliverable in
// under-review for a later reviewer. The task moves to reviewed.
func (e Engine) SubmitReview(t domain.Task, d domain.Deliverable, candidate domain.Review) (domain.Review, domain.Deliverable, domain.Task, error) {
	if d.Status != domain.DeliverableSubmitted && d.Status != domain.DeliverableUnderReview {
		return domain.Review{}, d, t, invalidTransition(domain.KindDeliverable, d.Status, "submitReview")
	}
	if candidate.DeliverableID != "" && candidate.DeliverableID != d.ID {
		return domain.Review{}, d, t, fmt.Errorf("review references deliverable %q, not %q", candidate.DeliverableID, d.ID)
	}
	if !TaskTransitionAllowed(t.Status, domain.TaskReviewed) {
		return domain.Review{}, d, t, invalidTransition(domain.KindTask, t.Status, "submitReview")
	}
	now := e.now()
	r := candidate
	if r.ID == "" {
		r.ID = domain.NewID(domain.IDPrefixReview, now)
	}
	r.DeliverableID = d.ID
	if r.TaskID == "" {
		r.TaskID = t.ID
	}
	if r.ReviewedAt == "" {
		r.ReviewedAt = domain.Timestamp(now)
	}
	switch r.Decision {
	case domain.DecisionAccepted:
		d.Status = domain.DeliverableAccepted
	case domain.DecisionRejected:
		d.Status = domain.DeliverableRejected
	case domain.DecisionRevisionRequested:
		d.Status = domain.DeliverableRevisionRequested
	case domain.DecisionEscalated:
		d.Status = domain.DeliverableUnderReview
	default:
		return domain.Review{}, d, t, fmt.Errorf("review decision %q is not recognized", r.Decision)
	}
	t.Status = domain.TaskReviewed
	return r, d, t, nil
}

// CancelTask cancels a task from any non-terminal state.
func (e Engine) CancelTask(t domain.Task) (domain.Task, error) {
	if !TaskTransitionAllowed(t.Status, domain.TaskCancelled) {
		return t, invalidTransition(domain.KindTask, t.Status, "cancelTask")
	}
	t.Status = domain.TaskCancelled
	return t, nil
}

// CloseTask closes a reviewed task. When the final review did not reject
// the deliverable, the backing contract completes; a rejecting review
// leaves the contract active for the parties to dispute or cancel.
func (e Engine) CloseTask(t domain.Task, c domain.Contract, final domain.Review) (domain.Task, domain.Contract, error) {
	if t.Status != domain.TaskReviewed {
		return t, c, invalidTransition(domain.KindTask, t.Status, "closeTask")
	}
	t.Status = domain.TaskClosed
	if final.Decision != domain.DecisionRejected && c.Status == domain.ContractActive {
		c.Status = domain.ContractCompleted
		c.CompletedAt = domain.Timestamp(e.now())
	}
	return t, c, nil
}
