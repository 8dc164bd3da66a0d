// Package workflow is the caller-facing surface of the protocol: a blocking
// Client that fills entity defaults, validates candidates, checks transition
// legality, and only then talks to the gateway. Ordering is strict: a
// candidate that fails validation never reaches the network, and an illegal
// transition is reported locally before any mutating request is sent.
package workflow

import (
	"context"
	"fmt"
	"strings"

	"ohap/internal/domain"
	"ohap/internal/gateway"
	"ohap/internal/lifecycle"
	"ohap/internal/validate"
)

// ValidationError reports a candidate the validator refused. The gateway was
// not contacted.
type ValidationError struct {
	Kind   domain.Kind
	Errors []validate.FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Error()
	}
	return fmt.Sprintf("%s is not valid: %s", e.Kind, strings.Join(parts, "; "))
}

// Client drives the collaboration workflow against a Gateway. The zero
// Engine uses wall-clock time; tests inject a fixed clock.
type Client struct {
	Gateway gateway.Gateway
	Engine  lifecycle.Engine
}

// NewClient wraps a gateway with a wall-clock engine.
func NewClient(gw gateway.Gateway) *Client {
	return &Client{Gateway: gw, Engine: lifecycle.New()}
}

func checkValid(kind domain.Kind, errs []validate.FieldError) error {
	if len(errs) > 0 {
		return &ValidationError{Kind: kind, Errors: errs}
	}
	return nil
}

// CreateTask fills defaults on the candidate, validates it, and submits it.
// The returned task is the gateway's canonical copy.
func (c *Client) CreateTask(ctx context.Context, candidate domain.Task) (domain.Task, error) {
	t, err := c.Engine.CreateTask(candidate)
	if err != nil {
		return domain.Task{}, err
	}
	if err := checkValid(domain.KindTask, validate.Task(t)); err != nil {
		return domain.Task{}, err
	}
	var out domain.Task
	if err := c.Gateway.Create(ctx, domain.KindTask, t, &out); err != nil {
		return domain.Task{}, err
	}
	return out, nil
}

// SubmitTask opens a draft task for proposals.
func (c *Client) SubmitTask(ctx context.Context, taskID string) (domain.Task, error) {
	t, err := c.GetTask(ctx, taskID)
	if err != nil {
		return domain.Task{}, err
	}
	if _, err := c.Engine.SubmitTask(t); err != nil {
		return t, err
	}
	var out domain.Task
	err = c.Gateway.Update(ctx, domain.KindTask, taskID, map[string]any{
		"status": string(domain.TaskOpen),
	}, &out)
	if err != nil {
		return domain.Task{}, err
	}
	return out, nil
}

// SubmitProposal fills defaults on the candidate against its task, validates
// it, and submits it. The gateway applies the task's offered transition.
func (c *Client) SubmitProposal(ctx context.Context, candidate domain.Proposal) (domain.Proposal, error) {
	if candidate.TaskID == "" {
		return domain.Proposal{}, &ValidationError{
			Kind:   domain.KindProposal,
			Errors: []validate.FieldError{{Field: "task_id", Reason: "must reference a task"}},
		}
	}
	t, err := c.GetTask(ctx, candidate.TaskID)
	if err != nil {
		return domain.Proposal{}, err
	}
	p, _, err := c.Engine.SubmitProposal(t, candidate)
	if err != nil {
		return domain.Proposal{}, err
	}
	if err := checkValid(domain.KindProposal, validate.Proposal(p)); err != nil {
		return domain.Proposal{}, err
	}
	var out domain.Proposal
	if err := c.Gateway.Create(ctx, domain.KindProposal, p, &out); err != nil {
		return domain.Proposal{}, err
	}
	return out, nil
}

// AcceptProposal checks the acceptance is legal, then asks the gateway to
// accept the proposal and assemble the contract.
func (c *Client) AcceptProposal(ctx context.Context, proposalID string) (domain.Contract, error) {
	p, err := c.GetProposal(ctx, proposalID)
	if err != nil {
		return domain.Contract{}, err
	}
	t, err := c.GetTask(ctx, p.TaskID)
	if err != nil {
		return domain.Contract{}, err
	}
	if _, _, _, err := c.Engine.AcceptProposal(t, p); err != nil {
		return domain.Contract{}, err
	}
	return c.Gateway.AcceptProposal(ctx, proposalID)
}

// WithdrawProposal withdraws a proposal still in play.
func (c *Client) WithdrawProposal(ctx context.Context, proposalID string) (domain.Proposal, error) {
	p, err := c.GetProposal(ctx, proposalID)
	if err != nil {
		return domain.Proposal{}, err
	}
	if _, err := c.Engine.WithdrawProposal(p); err != nil {
		return p, err
	}
	var out domain.Proposal
	err = c.Gateway.Update(ctx, domain.KindProposal, proposalID, map[string]any{
		"status": string(domain.ProposalWithdrawn),
	}, &out)
	if err != nil {
		return domain.Proposal{}, err
	}
	return out, nil
}

// RejectProposal rejects a proposal still in play.
func (c *Client) RejectProposal(ctx context.Context, proposalID string) (domain.Proposal, error) {
	p, err := c.GetProposal(ctx, proposalID)
	if err != nil {
		return domain.Proposal{}, err
	}
	if _, err := c.Engine.RejectProposal(p); err != nil {
		return p, err
	}
	var out domain.Proposal
	err = c.Gateway.Update(ctx, domain.KindProposal, proposalID, map[string]any{
		"status": string(domain.ProposalRejected),
	}, &out)
	if err != nil {
		return domain.Proposal{}, err
	}
	return out, nil
}

// StartWork moves a contracted task into in-progress.
func (c *Client) StartWork(ctx context.Context, taskID string) (domain.Task, error) {
	t, err := c.GetTask(ctx, taskID)
	if err != nil {
		return domain.Task{}, err
	}
	if _, err := c.Engine.StartWork(t); err != nil {
		return t, err
	}
	var out domain.Task
	err = c.Gateway.Update(ctx, domain.KindTask, taskID, map[string]any{
		"status": string(domain.TaskInProgress),
	}, &out)
	if err != nil {
		return domain.Task{}, err
	}
	return out, nil
}

// SubmitDeliverable fills defaults on the candidate against its contract and
// task, validates it, and submits it. The gateway applies the task's
// delivered transition.
func (c *Client) SubmitDeliverable(ctx context.Context, candidate domain.Deliverable) (domain.Deliverable, error) {
	if candidate.ContractID == "" {
		return domain.Deliverable{}, &ValidationError{
			Kind:   domain.KindDeliverable,
			Errors: []validate.FieldError{{Field: "contract_id", Reason: "must reference a contract"}},
		}
	}
	contract, err := c.GetContract(ctx, candidate.ContractID)
	if err != nil {
		return domain.Deliverable{}, err
	}
	t, err := c.GetTask(ctx, contract.TaskID)
	if err != nil {
		return domain.Deliverable{}, err
	}
	d, _, err := c.Engine.SubmitDeliverable(t, contract, candidate)
	if err != nil {
		return domain.Deliverable{}, err
	}
	if err := checkValid(domain.KindDeliverable, validate.Deliverable(d)); err != nil {
		return domain.Deliverable{}, err
	}
	var out domain.Deliverable
	if err := c.Gateway.Create(ctx, domain.KindDeliverable, d, &out); err != nil {
		return domain.Deliverable{}, err
	}
	return out, nil
}

// SubmitReview fills defaults on the candidate against its deliverable,
// validates it, and submits it. The gateway settles the deliverable status
// from the decision and moves the task to reviewed.
func (c *Client) SubmitReview(ctx context.Context, candidate domain.Review) (domain.Review, error) {
	if candidate.DeliverableID == "" {
		return domain.Review{}, &ValidationError{
			Kind:   domain.KindReview,
			Errors: []validate.FieldError{{Field: "deliverable_id", Reason: "must reference a deliverable"}},
		}
	}
	d, err := c.GetDeliverable(ctx, candidate.DeliverableID)
	if err != nil {
		return domain.Review{}, err
	}
	t, err := c.GetTask(ctx, d.TaskID)
	if err != nil {
		return domain.Review{}, err
	}
	r, _, _, err := c.Engine.SubmitReview(t, d, candidate)
	if err != nil {
		return domain.Review{}, err
	}
	if err := checkValid(domain.KindReview, validate.Review(r)); err != nil {
		return domain.Review{}, err
	}
	var out domain.Review
	if err := c.Gateway.Create(ctx, domain.KindReview, r, &out); err != nil {
		return domain.Review{}, err
	}
	return out, nil
}

// CancelTask cancels a task from any non-terminal state.
func (c *Client) CancelTask(ctx context.Context, taskID string) (domain.Task, error) {
	t, err := c.GetTask(ctx, taskID)
	if err != nil {
		return domain.Task{}, err
	}
	if _, err := c.Engine.CancelTask(t); err != nil {
		return t, err
	}
	var out domain.Task
	err = c.Gateway.Update(ctx, domain.KindTask, taskID, map[string]any{
		"status": string(domain.TaskCancelled),
	}, &out)
	if err != nil {
		return domain.Task{}, err
	}
	return out, nil
}

// CloseTask closes a reviewed task and settles its contract. The final
// review for the task's deliverable decides whether the contract completes.
func (c *Client) CloseTask(ctx context.Context, taskID string) (domain.Task, domain.Contract, error) {
	t, err := c.GetTask(ctx, taskID)
	if err != nil {
		return domain.Task{}, domain.Contract{}, err
	}
	var contracts struct {
		Items []domain.Contract `json:"items"`
	}
	err = c.Gateway.List(ctx, domain.KindContract, map[string]string{"task_id": taskID}, &contracts)
	if err != nil {
		return domain.Task{}, domain.Contract{}, err
	}
	if len(contracts.Items) == 0 {
		return domain.Task{}, domain.Contract{}, fmt.Errorf("task %q has no contract", taskID)
	}
	contract := contracts.Items[len(contracts.Items)-1]

	var deliverables struct {
		Items []domain.Deliverable `json:"items"`
	}
	err = c.Gateway.List(ctx, domain.KindDeliverable, map[string]string{"task_id": taskID}, &deliverables)
	if err != nil {
		return domain.Task{}, domain.Contract{}, err
	}
	var final domain.Review
	if len(deliverables.Items) > 0 {
		last := deliverables.Items[len(deliverables.Items)-1]
		var reviews struct {
			Items []domain.Review `json:"items"`
		}
		err = c.Gateway.List(ctx, domain.KindReview, map[string]string{"deliverable_id": last.ID}, &reviews)
		if err != nil {
			return domain.Task{}, domain.Contract{}, err
		}
		if len(reviews.Items) > 0 {
			final = reviews.Items[len(reviews.Items)-1]
		}
	}

	_, settled, err := c.Engine.CloseTask(t, contract, final)
	if err != nil {
		return t, contract, err
	}
	var outTask domain.Task
	err = c.Gateway.Update(ctx, domain.KindTask, taskID, map[string]any{
		"status": string(domain.TaskClosed),
	}, &outTask)
	if err != nil {
		return domain.Task{}, domain.Contract{}, err
	}
	if settled.Status != contract.Status {
		var outContract domain.Contract
		err = c.Gateway.Update(ctx, domain.KindContract, contract.ID, map[string]any{
			"status": string(settled.Status),
		}, &outContract)
		if err != nil {
			return outTask, contract, err
		}
		return outTask, outContract, nil
	}
	return outTask, contract, nil
}

// GetTask fetches a task by id.
func (c *Client) GetTask(ctx context.Context, id string) (domain.Task, error) {
	var t domain.Task
	err := c.Gateway.Get(ctx, domain.KindTask, id, &t)
	return t, err
}

// GetProposal fetches a proposal by id.
func (c *Client) GetProposal(ctx context.Context, id string) (domain.Proposal, error) {
	var p domain.Proposal
	err := c.Gateway.Get(ctx, domain.KindProposal, id, &p)
	return p, err
}

// GetContract fetches a contract by id.
func (c *Client) GetContract(ctx context.Context, id string) (domain.Contract, error) {
	var ct domain.Contract
	err := c.Gateway.Get(ctx, domain.KindContract, id, &ct)
	return ct, err
}

// GetDeliverable fetches a deliverable by id.
func (c *Client) GetDeliverable(ctx context.Context, id string) (domain.Deliverable, error) {
	var d domain.Deliverable
	err := c.Gateway.Get(ctx, domain.KindDeliverable, id, &d)
	return d, err
}

// GetReview fetches a review by id.
func (c *Client) GetReview(ctx context.Context, id string) (domain.Review, error) {
	var r domain.Review
	err := c.Gateway.Get(ctx, domain.KindReview, id, &r)
	return r, err
}

// ListTasks lists tasks with optional status, initiator_id, and domain
// filters.
func (c *Client) ListTasks(ctx context.Context, filters map[string]string) ([]domain.Task, error) {
	var resp struct {
		Items []domain.Task `json:"items"`
	}
	err := c.Gateway.List(ctx, domain.KindTask, filters, &resp)
	return resp.Items, err
}

// ListProposals lists proposals with optional task_id and status filters.
func (c *Client) ListProposals(ctx context.Context, filters map[string]string) ([]domain.Proposal, error) {
	var resp struct {
		Items []domain.Proposal `json:"items"`
	}
	err := c.Gateway.List(ctx, domain.KindProposal, filters, &resp)
	return resp.Items, err
}

// TaskProposals lists the proposals submitted for a task.
func (c *Client) TaskProposals(ctx context.Context, taskID string) ([]domain.Proposal, error) {
	return c.Gateway.TaskProposals(ctx, taskID)
}
