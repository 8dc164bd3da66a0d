package workflow

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"ohap/internal/domain"
	"ohap/internal/gateway"
	"ohap/internal/lifecycle"
	"ohap/internal/server"
)

// recordingGateway fails the test if any mutating call reaches it. Reads are
// served from its fixtures.
type recordingGateway struct {
	t         *testing.T
	tasks     map[string]domain.Task
	proposals map[string]domain.Proposal
}

func (g *recordingGateway) Create(ctx context.Context, kind domain.Kind, entity, out any) error {
	g.t.Fatalf("unexpected Create(%s); invalid candidates must not reach the gateway", kind)
	return nil
}

func (g *recordingGateway) Update(ctx context.Context, kind domain.Kind, id string, fields map[string]any, out any) error {
	g.t.Fatalf("unexpected Update(%s, %s); illegal transitions must not reach the gateway", kind, id)
	return nil
}

func (g *recordingGateway) Get(ctx context.Context, kind domain.Kind, id string, out any) error {
	switch kind {
	case domain.KindTask:
		if task, ok := g.tasks[id]; ok {
			*out.(*domain.Task) = task
			return nil
		}
	case domain.KindProposal:
		if p, ok := g.proposals[id]; ok {
			*out.(*domain.Proposal) = p
			return nil
		}
	}
	return &gateway.TransportError{StatusCode: http.StatusNotFound, Body: "not found"}
}

func (g *recordingGateway) List(ctx context.Context, kind domain.Kind, filters map[string]string, out any) error {
	return nil
}

func (g *recordingGateway) AcceptProposal(ctx context.Context, proposalID string) (domain.Contract, error) {
	g.t.Fatalf("unexpected AcceptProposal(%s)", proposalID)
	return domain.Contract{}, nil
}

func (g *recordingGateway) TaskProposals(ctx context.Context, taskID string) ([]domain.Proposal, error) {
	return nil, nil
}

func liveClient(t *testing.T) *Client {
	t.Helper()
	handler, err := server.New(server.Config{Quiet: true})
	if err != nil {
		t.Fatalf("build handler: %v", err)
	}
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := &http.Server{Handler: handler}
	go srv.Serve(ln)
	t.Cleanup(func() {
		srv.Shutdown(context.Background())
		ln.Close()
	})
	return NewClient(gateway.NewClient("http://" + ln.Addr().String()))
}

func TestCreateTaskValidationBeforeNetwork(t *testing.T) {
	c := NewClient(&recordingGateway{t: t})
	_, err := c.CreateTask(context.Background(), domain.Task{
		Title:     "ab",
		Objective: "too short",
		Initiator: domain.Actor{ID: "agent-001"},
	})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error %v is not a ValidationError", err)
	}
	if ve.Kind != domain.KindTask || len(ve.Errors) != 2 {
		t.Fatalf("validation error %+v", ve)
	}
	if !strings.Contains(ve.Error(), "title") {
		t.Errorf("message should name the field: %q", ve.Error())
	}
}

func TestSubmitProposalValidationBeforeNetwork(t *testing.T) {
	gw := &recordingGateway{
		t: t,
		tasks: map[string]domain.Task{
			"task-1-abc": {
				ID:        "task-1-abc",
				Title:     "Design a logo",
				Objective: "Create a logo for the new product line",
				Status:    domain.TaskOpen,
				Initiator: domain.Actor{ID: "agent-001"},
			},
		},
	}
	c := NewClient(gw)
	_, err := c.SubmitProposal(context.Background(), domain.Proposal{
		TaskID:   "task-1-abc",
		Proposer: domain.Proposer{Actor: domain.Actor{ID: "human-042"}},
		Approach: "too short",
		Timeline: domain.ProposalTimeline{EstimatedCompletion: "2026-01-09T00:00:00Z"},
	})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error %v is not a ValidationError", err)
	}
}

func TestSubmitTaskTransitionCheckedBeforeNetwork(t *testing.T) {
	gw := &recordingGateway{
		t: t,
		tasks: map[string]domain.Task{
			"task-1-abc": {
				ID:        "task-1-abc",
				Title:     "Design a logo",
				Objective: "Create a logo for the new product line",
				Status:    domain.TaskClosed,
				Initiator: domain.Actor{ID: "agent-001"},
			},
		},
	}
	c := NewClient(gw)
	_, err := c.SubmitTask(context.Background(), "task-1-abc")
	var it *lifecycle.InvalidTransitionError
	if !errors.As(err, &it) {
		t.Fatalf("error %v is not an InvalidTransitionError", err)
	}
}

func TestAcceptProposalTransitionCheckedBeforeNetwork(t *testing.T) {
	gw := &recordingGateway{
		t: t,
		tasks: map[string]domain.Task{
			"task-1-abc": {
				ID:        "task-1-abc",
				Title:     "Design a logo",
				Objective: "Create a logo for the new product line",
				Status:    domain.TaskOffered,
				Initiator: domain.Actor{ID: "agent-001"},
			},
		},
		proposals: map[string]domain.Proposal{
			"prop-1-abc": {
				ID:       "prop-1-abc",
				TaskID:   "task-1-abc",
				Proposer: domain.Proposer{Actor: domain.Actor{ID: "human-042"}},
				Approach: "Sketch three concepts, refine the one the initiator picks",
				Timeline: domain.ProposalTimeline{EstimatedCompletion: "2026-01-09T00:00:00Z"},
				Status:   domain.ProposalWithdrawn,
			},
		},
	}
	c := NewClient(gw)
	_, err := c.AcceptProposal(context.Background(), "prop-1-abc")
	var it *lifecycle.InvalidTransitionError
	if !errors.As(err, &it) {
		t.Fatalf("error %v is not an InvalidTransitionError", err)
	}
}

func TestTransportErrorPassesThrough(t *testing.T) {
	c := NewClient(&recordingGateway{t: t})
	_, err := c.SubmitTask(context.Background(), "task-0-missing")
	var te *gateway.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("error %v is not a TransportError", err)
	}
}

func TestEndToEndWorkflow(t *testing.T) {
	c := liveClient(t)
	ctx := context.Background()

	task, err := c.CreateTask(ctx, domain.Task{
		Title:     "Design a logo",
		Objective: "Create a logo for the new product line",
		Initiator: domain.Actor{ID: "agent-001", Type: domain.ActorAgent},
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if task.Status != domain.TaskDraft {
		t.Fatalf("task %+v", task)
	}

	task, err = c.SubmitTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("submit task: %v", err)
	}
	if task.Status != domain.TaskOpen {
		t.Fatalf("status = %q", task.Status)
	}

	completion := domain.Timestamp(time.Now().AddDate(0, 0, 7))
	proposal, err := c.SubmitProposal(ctx, domain.Proposal{
		TaskID:   task.ID,
		Proposer: domain.Proposer{Actor: domain.Actor{ID: "human-042", Type: domain.ActorHuman}},
		Approach: "Sketch three concepts, refine the one the initiator picks",
		Timeline: domain.ProposalTimeline{EstimatedCompletion: completion},
	})
	if err != nil {
		t.Fatalf("submit proposal: %v", err)
	}

	contract, err := c.AcceptProposal(ctx, proposal.ID)
	if err != nil {
		t.Fatalf("accept proposal: %v", err)
	}
	if contract.Status != domain.ContractActive || contract.TaskID != task.ID {
		t.Fatalf("contract %+v", contract)
	}

	task, err = c.StartWork(ctx, task.ID)
	if err != nil {
		t.Fatalf("start work: %v", err)
	}
	if task.Status != domain.TaskInProgress {
		t.Fatalf("status = %q", task.Status)
	}

	deliverable, err := c.SubmitDeliverable(ctx, domain.Deliverable{
		ContractID: contract.ID,
		Submitter:  domain.Actor{ID: "human-042", Type: domain.ActorHuman},
		Artifacts:  []domain.Artifact{{Type: "file", Reference: "logo.svg"}},
		Evidence:   domain.EvidenceData{Items: []domain.EvidenceItem{{Type: "file", Reference: "sketches.pdf"}}},
	})
	if err != nil {
		t.Fatalf("submit deliverable: %v", err)
	}
	if deliverable.Status != domain.DeliverableSubmitted {
		t.Fatalf("deliverable %+v", deliverable)
	}

	review, err := c.SubmitReview(ctx, domain.Review{
		DeliverableID: deliverable.ID,
		Reviewer:      domain.Actor{ID: "agent-001", Type: domain.ActorAgent},
		Decision:      domain.DecisionAccepted,
	})
	if err != nil {
		t.Fatalf("submit review: %v", err)
	}
	if review.Decision != domain.DecisionAccepted {
		t.Fatalf("review %+v", review)
	}

	closedTask, settled, err := c.CloseTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("close task: %v", err)
	}
	if closedTask.Status != domain.TaskClosed {
		t.Fatalf("task status = %q", closedTask.Status)
	}
	if settled.Status != domain.ContractCompleted || settled.CompletedAt == "" {
		t.Fatalf("contract %+v", settled)
	}
}

func TestWithdrawThenAcceptFails(t *testing.T) {
	c := liveClient(t)
	ctx := context.Background()

	task, err := c.CreateTask(ctx, domain.Task{
		Title:     "Translate a document",
		Objective: "Translate the onboarding guide into French",
		Initiator: domain.Actor{ID: "agent-002", Type: domain.ActorAgent},
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if _, err := c.SubmitTask(ctx, task.ID); err != nil {
		t.Fatalf("submit task: %v", err)
	}
	proposal, err := c.SubmitProposal(ctx, domain.Proposal{
		TaskID:   task.ID,
		Proposer: domain.Proposer{Actor: domain.Actor{ID: "human-007", Type: domain.ActorHuman}},
		Approach: "Translate section by section with a native-speaker review pass",
		Timeline: domain.ProposalTimeline{EstimatedCompletion: domain.Timestamp(time.Now().AddDate(0, 0, 3))},
	})
	if err != nil {
		t.Fatalf("submit proposal: %v", err)
	}
	withdrawn, err := c.WithdrawProposal(ctx, proposal.ID)
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if withdrawn.Status != domain.ProposalWithdrawn {
		t.Fatalf("status = %q", withdrawn.Status)
	}
	if _, err := c.AcceptProposal(ctx, proposal.ID); err == nil {
		t.Fatal("accepting a withdrawn proposal should fail")
	}
}

func TestCancelTaskEndToEnd(t *testing.T) {
	c := liveClient(t)
	ctx := context.Background()

	task, err := c.CreateTask(ctx, domain.Task{
		Title:     "Summarize a report",
		Objective: "Summarize the quarterly report into one page",
		Initiator: domain.Actor{ID: "agent-003", Type: domain.ActorAgent},
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	cancelled, err := c.CancelTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != domain.TaskCancelled {
		t.Fatalf("status = %q", cancelled.Status)
	}
	if _, err := c.CancelTask(ctx, task.ID); err == nil {
		t.Fatal("cancelling a cancelled task should fail")
	}
}

func TestAsyncDeliversOneResult(t *testing.T) {
	c := liveClient(t)
	a := Async{Client: c}
	ctx := context.Background()

	res := <-a.CreateTask(ctx, domain.Task{
		Title:     "Design a logo",
		Objective: "Create a logo for the new product line",
		Initiator: domain.Actor{ID: "agent-001", Type: domain.ActorAgent},
	})
	if res.Err != nil {
		t.Fatalf("async create: %v", res.Err)
	}
	if res.Value.Status != domain.TaskDraft {
		t.Fatalf("task %+v", res.Value)
	}

	bad := <-a.CreateTask(ctx, domain.Task{Title: "ab", Objective: "x", Initiator: domain.Actor{ID: "a"}})
	var ve *ValidationError
	if !errors.As(bad.Err, &ve) {
		t.Fatalf("error %v is not a ValidationError", bad.Err)
	}
}
