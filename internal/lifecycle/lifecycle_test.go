package lifecycle

import (
	"errors"
	"testing"
	"time"

	"ohap/internal/domain"
)

var fixedNow = time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)

func testEngine() Engine {
	return Engine{Now: func() time.Time { return fixedNow }}
}

func seedTask(status domain.TaskStatus) domain.Task {
	return domain.Task{
		ID:        "task-1-abc",
		Title:     "Design a logo",
		Objective: "Create a logo for the new product line",
		Status:    status,
		Initiator: domain.Actor{ID: "agent-001", Type: domain.ActorAgent},
		Acceptance: &domain.Acceptance{
			Criteria: []domain.AcceptanceCriterion{{ID: "ac-1", Description: "vector format"}},
		},
		Evidence: &domain.Evidence{Required: []string{"source-files"}},
	}
}

func seedProposal(status domain.ProposalStatus) domain.Proposal {
	return domain.Proposal{
		ID:       "prop-1-abc",
		TaskID:   "task-1-abc",
		Proposer: domain.Proposer{Actor: domain.Actor{ID: "human-042", Type: domain.ActorHuman, Name: "Sam"}},
		Approach: "Sketch three concepts, refine the one the initiator picks",
		Timeline: domain.ProposalTimeline{EstimatedCompletion: "2026-01-09T00:00:00Z"},
		Cost:     &domain.Cost{Amount: 500, Currency: "USD"},
		Status:   status,
	}
}

func seedContract(status domain.ContractStatus) domain.Contract {
	return domain.Contract{
		ID:           "contract-1-abc",
		TaskID:       "task-1-abc",
		ProposalID:   "prop-1-abc",
		Initiator:    domain.Actor{ID: "agent-001"},
		HumanPartner: domain.Actor{ID: "human-042"},
		Terms: domain.ContractTerms{
			Scope:    "Sketch three concepts, refine the one the initiator picks",
			Timeline: domain.ProposalTimeline{EstimatedCompletion: "2026-01-09T00:00:00Z"},
		},
		Status: status,
	}
}

func seedDeliverable(status domain.DeliverableStatus) domain.Deliverable {
	return domain.Deliverable{
		ID:         "deliv-1-abc",
		TaskID:     "task-1-abc",
		ContractID: "contract-1-abc",
		Submitter:  domain.Actor{ID: "human-042"},
		Artifacts:  []domain.Artifact{{Type: "file", Reference: "logo.svg"}},
		Evidence:   domain.EvidenceData{Items: []domain.EvidenceItem{{Type: "file", Reference: "sketches.pdf"}}},
		Status:     status,
	}
}

func TestCreateTaskDefaults(t *testing.T) {
	e := testEngine()
	created, err := e.CreateTask(domain.Task{
		Title:     "Design a logo",
		Objective: "Create a logo for the new product line",
		Initiator: domain.Actor{ID: "agent-001"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != domain.TaskDraft {
		t.Errorf("status = %q, want draft", created.Status)
	}
	if created.ID == "" || created.CreatedAt != "2026-01-02T15:04:05Z" {
		t.Errorf("defaults not filled: id=%q created_at=%q", created.ID, created.CreatedAt)
	}
	if created.Version != TaskVersion {
		t.Errorf("version = %q, want %q", created.Version, TaskVersion)
	}
}

func TestCreateTaskKeepsCallerID(t *testing.T) {
	e := testEngine()
	created, err := e.CreateTask(domain.Task{
		ID:        "task-9-zzz",
		Title:     "Design a logo",
		Objective: "Create a logo for the new product line",
		Initiator: domain.Actor{ID: "agent-001"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != "task-9-zzz" {
		t.Errorf("id overwritten: %q", created.ID)
	}
}

func TestCreateTaskRejectsForeignStatus(t *testing.T) {
	e := testEngine()
	if _, err := e.CreateTask(seedTask(domain.TaskOpen)); err == nil {
		t.Fatal("expected error for a candidate arriving open")
	}
}

func TestSubmitTaskOnlyFromDraft(t *testing.T) {
	e := testEngine()
	opened, err := e.SubmitTask(seedTask(domain.TaskDraft))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if opened.Status != domain.TaskOpen {
		t.Fatalf("status = %q", opened.Status)
	}
	for _, status := range []domain.TaskStatus{domain.TaskOpen, domain.TaskContracted, domain.TaskClosed} {
		if _, err := e.SubmitTask(seedTask(status)); err == nil {
			t.Errorf("submit from %s should fail", status)
		}
	}
}

func TestSubmitProposalMovesTaskToOffered(t *testing.T) {
	e := testEngine()
	p, task, err := e.SubmitProposal(seedTask(domain.TaskOpen), domain.Proposal{
		Proposer: domain.Proposer{Actor: domain.Actor{ID: "human-042"}},
		Approach: "Sketch three concepts, refine the one the initiator picks",
		Timeline: domain.ProposalTimeline{EstimatedCompletion: "2026-01-09T00:00:00Z"},
	})
	if err != nil {
		t.Fatalf("submit proposal: %v", err)
	}
	if p.Status != domain.ProposalSubmitted || p.TaskID != task.ID {
		t.Errorf("proposal %+v", p)
	}
	if task.Status != domain.TaskOffered {
		t.Errorf("task status = %q, want offered", task.Status)
	}
	// A second proposal leaves the task offered.
	_, task2, err := e.SubmitProposal(task, domain.Proposal{
		Proposer: domain.Proposer{Actor: domain.Actor{ID: "human-043"}},
		Approach: "A single concept executed quickly with one feedback loop",
		Timeline: domain.ProposalTimeline{EstimatedCompletion: "2026-01-08T00:00:00Z"},
	})
	if err != nil {
		t.Fatalf("second proposal: %v", err)
	}
	if task2.Status != domain.TaskOffered {
		t.Errorf("task status after second proposal = %q", task2.Status)
	}
}

func TestSubmitProposalRejectsClosedTask(t *testing.T) {
	e := testEngine()
	for _, status := range []domain.TaskStatus{domain.TaskDraft, domain.TaskContracted, domain.TaskClosed, domain.TaskCancelled} {
		if _, _, err := e.SubmitProposal(seedTask(status), seedProposal("")); err == nil {
			t.Errorf("proposal against %s task should fail", status)
		}
	}
}

func TestSubmitProposalTaskMismatch(t *testing.T) {
	e := testEngine()
	candidate := seedProposal("")
	candidate.TaskID = "task-2-zzz"
	if _, _, err := e.SubmitProposal(seedTask(domain.TaskOpen), candidate); err == nil {
		t.Fatal("expected mismatch error")
	}
}

func TestAcceptProposalBuildsContract(t *testing.T) {
	e := testEngine()
	task := seedTask(domain.TaskOffered)
	for _, status := range []domain.ProposalStatus{domain.ProposalSubmitted, domain.ProposalUnderReview} {
		c, p, tk, err := e.AcceptProposal(task, seedProposal(status))
		if err != nil {
			t.Fatalf("accept from %s: %v", status, err)
		}
		if c.ID != "" {
			t.Errorf("contract id should be left for the gateway, got %q", c.ID)
		}
		if c.Status != domain.ContractActive || c.TaskID != task.ID || c.ProposalID != p.ID {
			t.Errorf("contract %+v", c)
		}
		if c.Terms.Scope != p.Approach {
			t.Errorf("scope = %q", c.Terms.Scope)
		}
		if c.Terms.Compensation == nil || c.Terms.Compensation.Amount != 500 {
			t.Errorf("compensation not carried: %+v", c.Terms.Compensation)
		}
		if len(c.Terms.AcceptanceCriteria) != 1 || len(c.Terms.EvidenceRequirements) != 1 {
			t.Errorf("terms not seeded from task: %+v", c.Terms)
		}
		if c.HumanPartner.ID != "human-042" || c.HumanPartner.Name != "Sam" {
			t.Errorf("human partner %+v", c.HumanPartner)
		}
		if p.Status != domain.ProposalAccepted {
			t.Errorf("proposal status = %q", p.Status)
		}
		if tk.Status != domain.TaskContracted {
			t.Errorf("task status = %q", tk.Status)
		}
	}
}

func TestAcceptProposalFromSettledStatusFails(t *testing.T) {
	e := testEngine()
	task := seedTask(domain.TaskOffered)
	for _, status := range []domain.ProposalStatus{domain.ProposalAccepted, domain.ProposalRejected, domain.ProposalWithdrawn} {
		_, _, _, err := e.AcceptProposal(task, seedProposal(status))
		if err == nil {
			t.Errorf("accept from %s should fail", status)
			continue
		}
		var it *InvalidTransitionError
		if !errors.As(err, &it) {
			t.Errorf("accept from %s: error %v is not an InvalidTransitionError", status, err)
		}
	}
}

func TestAcceptProposalTaskMismatch(t *testing.T) {
	e := testEngine()
	p := seedProposal(domain.ProposalSubmitted)
	p.TaskID = "task-2-zzz"
	if _, _, _, err := e.AcceptProposal(seedTask(domain.TaskOffered), p); err == nil {
		t.Fatal("expected mismatch error")
	}
}

func TestProposalWithdrawAndReject(t *testing.T) {
	e := testEngine()
	for _, status := range []domain.ProposalStatus{domain.ProposalSubmitted, domain.ProposalUnderReview} {
		if p, err := e.WithdrawProposal(seedProposal(status)); err != nil || p.Status != domain.ProposalWithdrawn {
			t.Errorf("withdraw from %s: %v %+v", status, err, p)
		}
		if p, err := e.RejectProposal(seedProposal(status)); err != nil || p.Status != domain.ProposalRejected {
			t.Errorf("reject from %s: %v %+v", status, err, p)
		}
	}
	for _, status := range []domain.ProposalStatus{domain.ProposalAccepted, domain.ProposalRejected, domain.ProposalWithdrawn} {
		if _, err := e.WithdrawProposal(seedProposal(status)); err == nil {
			t.Errorf("withdraw from %s should fail", status)
		}
	}
}

func TestStartWork(t *testing.T) {
	e := testEngine()
	task, err := e.StartWork(seedTask(domain.TaskContracted))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if task.Status != domain.TaskInProgress {
		t.Fatalf("status = %q", task.Status)
	}
	if _, err := e.StartWork(seedTask(domain.TaskOpen)); err == nil {
		t.Fatal("start from open should fail")
	}
}

func TestSubmitDeliverable(t *testing.T) {
	e := testEngine()
	for _, status := range []domain.TaskStatus{domain.TaskContracted, domain.TaskInProgress} {
		d, task, err := e.SubmitDeliverable(seedTask(status), seedContract(domain.ContractActive), domain.Deliverable{
			Submitter: domain.Actor{ID: "human-042"},
			Artifacts: []domain.Artifact{{Type: "file", Reference: "logo.svg"}},
			Evidence:  domain.EvidenceData{Items: []domain.EvidenceItem{{Type: "file", Reference: "sketches.pdf"}}},
		})
		if err != nil {
			t.Fatalf("submit from %s: %v", status, err)
		}
		if d.Status != domain.DeliverableSubmitted || d.TaskID != task.ID || d.ContractID != "contract-1-abc" {
			t.Errorf("deliverable %+v", d)
		}
		if d.SubmittedAt != "2026-01-02T15:04:05Z" {
			t.Errorf("submitted_at = %q", d.SubmittedAt)
		}
		if task.Status != domain.TaskDelivered {
			t.Errorf("task status = %q", task.Status)
		}
	}
}

func TestSubmitDeliverableRequiresActiveContract(t *testing.T) {
	e := testEngine()
	for _, status := range []domain.ContractStatus{domain.ContractCompleted, domain.ContractCancelled, domain.ContractDisputed} {
		_, _, err := e.SubmitDeliverable(seedTask(domain.TaskInProgress), seedContract(status), seedDeliverable(""))
		if err == nil {
			t.Errorf("submit under %s contract should fail", status)
		}
	}
}

func TestSubmitDeliverableContractTaskMismatch(t *testing.T) {
	e := testEngine()
	c := seedContract(domain.ContractActive)
	c.TaskID = "task-2-zzz"
	if _, _, err := e.SubmitDeliverable(seedTask(domain.TaskInProgress), c, seedDeliverable("")); err == nil {
		t.Fatal("expected mismatch error")
	}
}

func TestSubmitReviewDecisionMapping(t *testing.T) {
	e := testEngine()
	cases := map[domain.ReviewDecision]domain.DeliverableStatus{
		domain.DecisionAccepted:          domain.DeliverableAccepted,
		domain.DecisionRejected:          domain.DeliverableRejected,
		domain.DecisionRevisionRequested: domain.DeliverableRevisionRequested,
		domain.DecisionEscalated:         domain.DeliverableUnderReview,
	}
	for decision, want := range cases {
		r, d, task, err := e.SubmitReview(seedTask(domain.TaskDelivered), seedDeliverable(domain.DeliverableSubmitted), domain.Review{
			Reviewer: domain.Actor{ID: "agent-001"},
			Decision: decision,
		})
		if err != nil {
			t.Fatalf("review %s: %v", decision, err)
		}
		if d.Status != want {
			t.Errorf("decision %s: deliverable status = %q, want %q", decision, d.Status, want)
		}
		if r.DeliverableID != d.ID || r.TaskID != task.ID {
			t.Errorf("review references %+v", r)
		}
		if r.ReviewedAt == "" {
			t.Error("reviewed_at not stamped")
		}
		if task.Status != domain.TaskReviewed {
			t.Errorf("task status = %q", task.Status)
		}
	}
}

func TestSubmitReviewOnSettledDeliverableFails(t *testing.T) {
	e := testEngine()
	for _, status := range []domain.DeliverableStatus{domain.DeliverableAccepted, domain.DeliverableRejected, domain.DeliverableRevisionRequested} {
		_, _, _, err := e.SubmitReview(seedTask(domain.TaskDelivered), seedDeliverable(status), domain.Review{
			Reviewer: domain.Actor{ID: "agent-001"},
			Decision: domain.DecisionAccepted,
		})
		if err == nil {
			t.Errorf("review of %s deliverable should fail", status)
		}
	}
}

func TestCancelTask(t *testing.T) {
	e := testEngine()
	for _, status := range []domain.TaskStatus{
		domain.TaskDraft, domain.TaskOpen, domain.TaskOffered, domain.TaskContracted,
		domain.TaskInProgress, domain.TaskDelivered, domain.TaskReviewed,
	} {
		task, err := e.CancelTask(seedTask(status))
		if err != nil {
			t.Errorf("cancel from %s: %v", status, err)
			continue
		}
		if task.Status != domain.TaskCancelled {
			t.Errorf("status = %q", task.Status)
		}
	}
	for _, status := range []domain.TaskStatus{domain.TaskClosed, domain.TaskCancelled} {
		if _, err := e.CancelTask(seedTask(status)); err == nil {
			t.Errorf("cancel from terminal %s should fail", status)
		}
	}
}

func TestCloseTaskSettlesContract(t *testing.T) {
	e := testEngine()
	task, contract, err := e.CloseTask(seedTask(domain.TaskReviewed), seedContract(domain.ContractActive), domain.Review{Decision: domain.DecisionAccepted})
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if task.Status != domain.TaskClosed {
		t.Errorf("task status = %q", task.Status)
	}
	if contract.Status != domain.ContractCompleted || contract.CompletedAt == "" {
		t.Errorf("contract not completed: %+v", contract)
	}
}

func TestCloseTaskAfterRejectionLeavesContractActive(t *testing.T) {
	e := testEngine()
	task, contract, err := e.CloseTask(seedTask(domain.TaskReviewed), seedContract(domain.ContractActive), domain.Review{Decision: domain.DecisionRejected})
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if task.Status != domain.TaskClosed {
		t.Errorf("task status = %q", task.Status)
	}
	if contract.Status != domain.ContractActive || contract.CompletedAt != "" {
		t.Errorf("contract should stay active after a rejecting review: %+v", contract)
	}
}

func TestCloseTaskOnlyFromReviewed(t *testing.T) {
	e := testEngine()
	for _, status := range []domain.TaskStatus{domain.TaskOpen, domain.TaskDelivered, domain.TaskClosed} {
		if _, _, err := e.CloseTask(seedTask(status), seedContract(domain.ContractActive), domain.Review{}); err == nil {
			t.Errorf("close from %s should fail", status)
		}
	}
}

func TestInvalidTransitionErrorMessage(t *testing.T) {
	_, err := testEngine().SubmitTask(seedTask(domain.TaskClosed))
	var it *InvalidTransitionError
	if !errors.As(err, &it) {
		t.Fatalf("error %v is not an InvalidTransitionError", err)
	}
	if it.Kind != domain.KindTask || it.Current != "closed" || it.Op != "submitTask" {
		t.Fatalf("fields %+v", it)
	}
}

func TestContractTransitions(t *testing.T) {
	allowed := []struct {
		from, to domain.ContractStatus
	}{
		{domain.ContractActive, domain.ContractCompleted},
		{domain.ContractActive, domain.ContractCancelled},
		{domain.ContractActive, domain.ContractDisputed},
		{domain.ContractDisputed, domain.ContractCompleted},
		{domain.ContractDisputed, domain.ContractCancelled},
	}
	for _, tr := range allowed {
		if !ContractTransitionAllowed(tr.from, tr.to) {
			t.Errorf("%s -> %s should be allowed", tr.from, tr.to)
		}
	}
	denied := []struct {
		from, to domain.ContractStatus
	}{
		{domain.ContractCompleted, domain.ContractActive},
		{domain.ContractCancelled, domain.ContractDisputed},
		{domain.ContractDisputed, domain.ContractActive},
	}
	for _, tr := range denied {
		if ContractTransitionAllowed(tr.from, tr.to) {
			t.Errorf("%s -> %s should be denied", tr.from, tr.to)
		}
	}
}
