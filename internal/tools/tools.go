// Package tools exposes the workflow operations as a flat, name-addressed
// toolset for agent frameworks: each tool takes a JSON argument object and
// returns a short JSON result string. The argument schemas are deliberately
// minimal; defaults and validation come from the workflow client underneath.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"ohap/internal/domain"
	"ohap/internal/workflow"
)

// Tool is one callable operation.
type Tool struct {
	Name        string
	Description string
	Run         func(ctx context.Context, args json.RawMessage) (string, error)
}

// Toolset binds the protocol operations to a workflow client.
type Toolset struct {
	client *workflow.Client
	tools  []Tool
}

// New builds the toolset over a workflow client.
func New(client *workflow.Client) *Toolset {
	ts := &Toolset{client: client}
	ts.tools = []Tool{
		{
			Name:        "ohap_create_task",
			Description: "Create a draft task. Args: title, objective, initiator_id, initiator_type (human|agent|system|broker).",
			Run:         ts.createTask,
		},
		{
			Name:        "ohap_submit_proposal",
			Description: "Submit a proposal for an open task. Args: task_id, proposer_id, proposer_type, approach, estimated_completion (ISO-8601).",
			Run:         ts.submitProposal,
		},
		{
			Name:        "ohap_submit_deliverable",
			Description: "Submit a deliverable under an active contract. Args: task_id, contract_id, submitter_id, submitter_type, artifact_reference, evidence_reference.",
			Run:         ts.submitDeliverable,
		},
		{
			Name:        "ohap_submit_review",
			Description: "Review a submitted deliverable. Args: deliverable_id, task_id, reviewer_id, reviewer_type, decision (accepted|rejected|revision-requested|escalated).",
			Run:         ts.submitReview,
		},
	}
	return ts
}

// Tools returns the tools in registration order.
func (ts *Toolset) Tools() []Tool {
	return ts.tools
}

// Lookup finds a tool by name.
func (ts *Toolset) Lookup(name string) (Tool, bool) {
	for _, t := range ts.tools {
		if t.Name == name {
			return t, true
		}
	}
	return Tool{}, false
}

func decodeArgs[T any](raw json.RawMessage) (T, error) {
	var args T
	if len(raw) == 0 {
		return args, fmt.Errorf("arguments required")
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return args, fmt.Errorf("decoding arguments: %w", err)
	}
	return args, nil
}

func resultJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func actorType(raw string) domain.ActorType {
	if raw == "" {
		return domain.ActorAgent
	}
	return domain.ActorType(raw)
}

func (ts *Toolset) createTask(ctx context.Context, raw json.RawMessage) (string, error) {
	args, err := decodeArgs[struct {
		Title         string `json:"title"`
		Objective     string `json:"objective"`
		InitiatorID   string `json:"initiator_id"`
		InitiatorType string `json:"initiator_type"`
	}](raw)
	if err != nil {
		return "", err
	}
	t, err := ts.client.CreateTask(ctx, domain.Task{
		Title:     args.Title,
		Objective: args.Objective,
		Initiator: domain.Actor{
			ID:   args.InitiatorID,
			Type: actorType(args.InitiatorType),
		},
	})
	if err != nil {
		return "", err
	}
	return resultJSON(map[string]string{
		"id":     t.ID,
		"status": string(t.Status),
	})
}

func (ts *Toolset) submitProposal(ctx context.Context, raw json.RawMessage) (string, error) {
	args, err := decodeArgs[struct {
		TaskID              string `json:"task_id"`
		ProposerID          string `json:"proposer_id"`
		ProposerType        string `json:"proposer_type"`
		Approach            string `json:"approach"`
		EstimatedCompletion string `json:"estimated_completion"`
	}](raw)
	if err != nil {
		return "", err
	}
	p, err := ts.client.SubmitProposal(ctx, domain.Proposal{
		TaskID: args.TaskID,
		Proposer: domain.Proposer{
			Actor: domain.Actor{
				ID:   args.ProposerID,
				Type: actorType(args.ProposerType),
			},
		},
		Approach: args.Approach,
		Timeline: domain.ProposalTimeline{
			EstimatedCompletion: args.EstimatedCompletion,
		},
	})
	if err != nil {
		return "", err
	}
	return resultJSON(map[string]string{
		"id":      p.ID,
		"task_id": p.TaskID,
		"status":  string(p.Status),
	})
}

func (ts *Toolset) submitDeliverable(ctx context.Context, raw json.RawMessage) (string, error) {
	args, err := decodeArgs[struct {
		TaskID            string `json:"task_id"`
		ContractID        string `json:"contract_id"`
		SubmitterID       string `json:"submitter_id"`
		SubmitterType     string `json:"submitter_type"`
		ArtifactReference string `json:"artifact_reference"`
		EvidenceReference string `json:"evidence_reference"`
	}](raw)
	if err != nil {
		return "", err
	}
	d, err := ts.client.SubmitDeliverable(ctx, domain.Deliverable{
		TaskID:     args.TaskID,
		ContractID: args.ContractID,
		Submitter: domain.Actor{
			ID:   args.SubmitterID,
			Type: actorType(args.SubmitterType),
		},
		Artifacts: []domain.Artifact{
			{Type: "reference", Reference: args.ArtifactReference},
		},
		Evidence: domain.EvidenceData{
			Items: []domain.EvidenceItem{
				{Type: "reference", Reference: args.EvidenceReference},
			},
		},
	})
	if err != nil {
		return "", err
	}
	return resultJSON(map[string]string{
		"id":          d.ID,
		"task_id":     d.TaskID,
		"contract_id": d.ContractID,
		"status":      string(d.Status),
	})
}

func (ts *Toolset) submitReview(ctx context.Context, raw json.RawMessage) (string, error) {
	args, err := decodeArgs[struct {
		DeliverableID string `json:"deliverable_id"`
		TaskID        string `json:"task_id"`
		ReviewerID    string `json:"reviewer_id"`
		ReviewerType  string `json:"reviewer_type"`
		Decision      string `json:"decision"`
	}](raw)
	if err != nil {
		return "", err
	}
	r, err := ts.client.SubmitReview(ctx, domain.Review{
		DeliverableID: args.DeliverableID,
		TaskID:        args.TaskID,
		Reviewer: domain.Actor{
			ID:   args.ReviewerID,
			Type: actorType(args.ReviewerType),
		},
		Decision: domain.ReviewDecision(args.Decision),
	})
	if err != nil {
		return "", err
	}
	return resultJSON(map[string]string{
		"id":             r.ID,
		"deliverable_id": r.DeliverableID,
		"decision":       string(r.Decision),
	})
}
