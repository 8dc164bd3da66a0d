package domain

import (
	"encoding/json"
	"fmt"
)

// Kind names one of the five workflow entities on the wire and in
// gateway routes.
type Kind string

const (
	KindTask        Kind = "task"
	KindProposal    Kind = "proposal"
	KindContract    Kind = "contract"
	KindDeliverable Kind = "deliverable"
	KindReview      Kind = "review"
)

func (k Kind) Valid() bool {
	switch k {
	case KindTask, KindProposal, KindContract, KindDeliverable, KindReview:
		return true
	}
	return false
}

type TaskStatus string

const (
	TaskDraft      TaskStatus = "draft"
	TaskOpen       TaskStatus = "open"
	TaskOffered    TaskStatus = "offered"
	TaskContracted TaskStatus = "contracted"
	TaskInProgress TaskStatus = "in-progress"
	TaskDelivered  TaskStatus = "delivered"
	TaskReviewed   TaskStatus = "reviewed"
	TaskClosed     TaskStatus = "closed"
	TaskCancelled  TaskStatus = "cancelled"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskDraft, TaskOpen, TaskOffered, TaskContracted, TaskInProgress,
		TaskDelivered, TaskReviewed, TaskClosed, TaskCancelled:
		return true
	}
	return false
}

// Terminal reports whether the status can never be left again.
func (s TaskStatus) Terminal() bool {
	return s == TaskClosed || s == TaskCancelled
}

func (s *TaskStatus) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, "task status", s, TaskStatus.Valid)
}

type ProposalStatus string

const (
	ProposalSubmitted   ProposalStatus = "submitted"
	ProposalUnderReview ProposalStatus = "under-review"
	ProposalAccepted    ProposalStatus = "accepted"
	ProposalRejected    ProposalStatus = "rejected"
	ProposalWithdrawn   ProposalStatus = "withdrawn"
)

func (s ProposalStatus) Valid() bool {
	switch s {
	case ProposalSubmitted, ProposalUnderReview, ProposalAccepted,
		ProposalRejected, ProposalWithdrawn:
		return true
	}
	return false
}

func (s ProposalStatus) Terminal() bool {
	return s == ProposalAccepted || s == ProposalRejected || s == ProposalWithdrawn
}

func (s *ProposalStatus) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, "proposal status", s, ProposalStatus.Valid)
}

type ContractStatus string

const (
	ContractActive    ContractStatus = "active"
	ContractCompleted ContractStatus = "completed"
	ContractCancelled ContractStatus = "cancelled"
	ContractDisputed  ContractStatus = "disputed"
)

func (s ContractStatus) Valid() bool {
	switch s {
	case ContractActive, ContractCompleted, ContractCancelled, ContractDisputed:
		return true
	}
	return false
}

func (s ContractStatus) Terminal() bool {
	return s == ContractCompleted || s == ContractCancelled
}

func (s *ContractStatus) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, "contract status", s, ContractStatus.Valid)
}

type DeliverableStatus string

const (
	DeliverableSubmitted         DeliverableStatus = "submitted"
	DeliverableUnderReview       DeliverableStatus = "under-review"
	DeliverableAccepted          DeliverableStatus = "accepted"
	DeliverableRejected          DeliverableStatus = "rejected"
	DeliverableRevisionRequested DeliverableStatus = "revision-requested"
)

func (s DeliverableStatus) Valid() bool {
	switch s {
	case DeliverableSubmitted, DeliverableUnderReview, DeliverableAccepted,
		DeliverableRejected, DeliverableRevisionRequested:
		return true
	}
	return false
}

func (s DeliverableStatus) Terminal() bool {
	return s == DeliverableAccepted || s == DeliverableRejected ||
		s == DeliverableRevisionRequested
}

func (s *DeliverableStatus) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, "deliverable status", s, DeliverableStatus.Valid)
}

// ReviewDecision is terminal by construction: a review is issued once with
// its decision and never transitions.
type ReviewDecision string

const (
	DecisionAccepted          ReviewDecision = "accepted"
	DecisionRejected          ReviewDecision = "rejected"
	DecisionRevisionRequested ReviewDecision = "revision-requested"
	DecisionEscalated         ReviewDecision = "escalated"
)

func (d ReviewDecision) Valid() bool {
	switch d {
	case DecisionAccepted, DecisionRejected, DecisionRevisionRequested, DecisionEscalated:
		return true
	}
	return false
}

func (d *ReviewDecision) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, "review decision", d, ReviewDecision.Valid)
}

type ActorType string

const (
	ActorHuman  ActorType = "human"
	ActorAgent  ActorType = "agent"
	ActorSystem ActorType = "system"
	ActorBroker ActorType = "broker"
)

func (t ActorType) Valid() bool {
	switch t {
	case ActorHuman, ActorAgent, ActorSystem, ActorBroker:
		return true
	}
	return false
}

func (t *ActorType) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, "actor type", t, ActorType.Valid)
}

// decodeEnum rejects literals outside the closed set instead of passing
// them through.
func decodeEnum[T ~string](data []byte, label string, out *T, valid func(T) bool) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := T(raw)
	if !valid(v) {
		return fmt.Errorf("unknown %s %q", label, raw)
	}
	*out = v
	return nil
}
