// Package domain defines the OHAP entity model: the five workflow entities
// and their nested value objects. Entities reference each other by id only,
// optional fields default to absence, and every enumerated field is a closed
// set (see status.go). The package carries no behavior beyond id/timestamp
// construction; validation and status logic live in internal/validate and
// internal/lifecycle.
package domain

// Actor is a workflow participant: human, agent, system, or broker.
type Actor struct {
	ID      string    `json:"id"`
	Type    ActorType `json:"type,omitempty" enum:"human,agent,system,broker"`
	Name    string    `json:"name,omitempty"`
	Contact string    `json:"contact,omitempty"`
}

// Input is a file, link, or data reference handed to the task.
type Input struct {
	Type        string `json:"type" enum:"file,url,text,data,reference"`
	Reference   string `json:"reference"`
	Description string `json:"description,omitempty"`
	Checksum    string `json:"checksum,omitempty"`
}

type Budget struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type Timeline struct {
	Deadline       string   `json:"deadline,omitempty" format:"date-time"`
	EstimatedHours *float64 `json:"estimated_hours,omitempty"`
	Timezone       string   `json:"timezone,omitempty"`
}

type Constraints struct {
	Budget   *Budget   `json:"budget,omitempty"`
	Timeline *Timeline `json:"timeline,omitempty"`
	Tools    []string  `json:"tools,omitempty"`
	Policies []string  `json:"policies,omitempty"`
}

type AcceptanceCriterion struct {
	ID          string `json:"id,omitempty"`
	Description string `json:"description"`
	TestMethod  string `json:"test_method,omitempty"`
	Priority    string `json:"priority,omitempty" enum:"required,preferred,optional"`
}

type Acceptance struct {
	Criteria      []AcceptanceCriterion `json:"criteria"`
	ReviewProcess string                `json:"review_process,omitempty"`
}

// Evidence states what proof of work a task expects up front.
type Evidence struct {
	Required       []string `json:"required,omitempty"`
	Optional       []string `json:"optional,omitempty"`
	Specifications string   `json:"specifications,omitempty"`
}

type Privacy struct {
	DataClassification string   `json:"data_classification,omitempty"`
	ConsentRequired    bool     `json:"consent_required,omitempty"`
	RedactionRules     []string `json:"redaction_rules,omitempty"`
	Retention          string   `json:"retention,omitempty"`
}

type Collaboration struct {
	SharedContext        string `json:"shared_context,omitempty"`
	CommunicationChannel string `json:"communication_channel,omitempty"`
	UpdateFrequency      string `json:"update_frequency,omitempty"`
}

type TaskMetadata struct {
	CreatedAt string   `json:"created_at" format:"date-time"`
	UpdatedAt string   `json:"updated_at,omitempty" format:"date-time"`
	Tags      []string `json:"tags,omitempty"`
	Domain    string   `json:"domain,omitempty"`
}

// Task is a unit of work an initiator publishes for proposals.
type Task struct {
	ID            string         `json:"id,omitempty"`
	Version       string         `json:"version,omitempty"`
	Title         string         `json:"title"`
	Objective     string         `json:"objective"`
	Status        TaskStatus     `json:"status,omitempty" enum:"draft,open,offered,contracted,in-progress,delivered,reviewed,closed,cancelled"`
	Initiator     Actor          `json:"initiator"`
	CreatedAt     string         `json:"created_at,omitempty" format:"date-time"`
	Inputs        []Input        `json:"inputs,omitempty"`
	Constraints   *Constraints   `json:"constraints,omitempty"`
	Acceptance    *Acceptance    `json:"acceptance,omitempty"`
	Evidence      *Evidence      `json:"evidence,omitempty"`
	Privacy       *Privacy       `json:"privacy,omitempty"`
	Collaboration *Collaboration `json:"collaboration,omitempty"`
	Metadata      *TaskMetadata  `json:"metadata,omitempty"`
}

type Credential struct {
	Type            string `json:"type"`
	Issuer          string `json:"issuer"`
	VerificationURL string `json:"verification_url,omitempty"`
}

type Reputation struct {
	Score          *float64 `json:"score,omitempty"`
	CompletedTasks *int     `json:"completed_tasks,omitempty"`
}

// Proposer is the actor submitting a proposal, with optional credentials
// and reputation.
type Proposer struct {
	Actor
	Credentials []Credential `json:"credentials,omitempty"`
	Reputation  *Reputation  `json:"reputation,omitempty"`
}

type Milestone struct {
	Name        string `json:"name"`
	Date        string `json:"date" format:"date-time"`
	Deliverable string `json:"deliverable,omitempty"`
}

type ProposalTimeline struct {
	EstimatedCompletion string      `json:"estimated_completion" format:"date-time"`
	Milestones          []Milestone `json:"milestones,omitempty"`
}

type Cost struct {
	Amount          float64          `json:"amount"`
	Currency        string           `json:"currency"`
	Breakdown       []map[string]any `json:"breakdown,omitempty"`
	PaymentSchedule string           `json:"payment_schedule,omitempty"`
}

type Negotiable struct {
	Scope    bool `json:"scope,omitempty"`
	Timeline bool `json:"timeline,omitempty"`
	Cost     bool `json:"cost,omitempty"`
}

// Proposal is an offer by a proposer to execute a task under stated terms.
type Proposal struct {
	ID         string           `json:"id,omitempty"`
	TaskID     string           `json:"task_id"`
	Proposer   Proposer         `json:"proposer"`
	Approach   string           `json:"approach"`
	Timeline   ProposalTimeline `json:"timeline"`
	Status     ProposalStatus   `json:"status,omitempty" enum:"submitted,under-review,accepted,rejected,withdrawn"`
	CreatedAt  string           `json:"created_at,omitempty" format:"date-time"`
	Cost       *Cost            `json:"cost,omitempty"`
	Negotiable *Negotiable      `json:"negotiable,omitempty"`
	ExpiresAt  string           `json:"expires_at,omitempty" format:"date-time"`
}

type ContractTerms struct {
	Scope                string                `json:"scope"`
	Timeline             ProposalTimeline      `json:"timeline"`
	Compensation         *Cost                 `json:"compensation,omitempty"`
	AcceptanceCriteria   []AcceptanceCriterion `json:"acceptance_criteria,omitempty"`
	EvidenceRequirements []string              `json:"evidence_requirements,omitempty"`
}

type SharedResponsibilities struct {
	InitiatorCommits      []string `json:"initiator_commits,omitempty"`
	HumanPartnerCommits   []string `json:"human_partner_commits,omitempty"`
	CommunicationProtocol string   `json:"communication_protocol,omitempty"`
}

type DisputeResolution struct {
	Method     string `json:"method,omitempty"`
	Arbitrator string `json:"arbitrator,omitempty"`
}

type Amendment struct {
	Date        string   `json:"date" format:"date-time"`
	Description string   `json:"description"`
	AgreedBy    []string `json:"agreed_by,omitempty"`
}

// Contract binds the terms formed by accepting a proposal. It references
// exactly one task and the accepted proposal for that task.
type Contract struct {
	ID                     string                  `json:"id,omitempty"`
	TaskID                 string                  `json:"task_id"`
	ProposalID             string                  `json:"proposal_id"`
	Initiator              Actor                   `json:"initiator"`
	HumanPartner           Actor                   `json:"human_partner"`
	Terms                  ContractTerms           `json:"terms"`
	Status                 ContractStatus          `json:"status,omitempty" enum:"active,completed,cancelled,disputed"`
	CreatedAt              string                  `json:"created_at,omitempty" format:"date-time"`
	SharedResponsibilities *SharedResponsibilities `json:"shared_responsibilities,omitempty"`
	DisputeResolution      *DisputeResolution      `json:"dispute_resolution,omitempty"`
	Amendments             []Amendment             `json:"amendments,omitempty"`
	CompletedAt            string                  `json:"completed_at,omitempty" format:"date-time"`
}

type Artifact struct {
	Type        string `json:"type"`
	Reference   string `json:"reference"`
	Description string `json:"description,omitempty"`
	Checksum    string `json:"checksum,omitempty"`
	MimeType    string `json:"mime_type,omitempty"`
	Size        *int64 `json:"size,omitempty"`
}

type EvidenceItem struct {
	Type        string `json:"type"`
	Reference   string `json:"reference"`
	Description string `json:"description,omitempty"`
	Timestamp   string `json:"timestamp,omitempty" format:"date-time"`
}

type Source struct {
	Type      string `json:"type"`
	Reference string `json:"reference"`
	Accessed  string `json:"accessed,omitempty" format:"date-time"`
}

type Contributor struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

// Provenance records where the work came from: sources consulted, tools
// used, and who contributed.
type Provenance struct {
	Sources      []Source      `json:"sources,omitempty"`
	Tools        []string      `json:"tools,omitempty"`
	Contributors []Contributor `json:"contributors,omitempty"`
}

type EvidenceData struct {
	Items      []EvidenceItem `json:"items"`
	Provenance *Provenance    `json:"provenance,omitempty"`
}

type AcceptanceMet struct {
	CriteriaID string `json:"criteria_id"`
	Status     string `json:"status" enum:"met,partially-met,not-met,not-applicable"`
	Notes      string `json:"notes,omitempty"`
}

// Deliverable is the submitted artifacts and evidence fulfilling a contract.
// Its task and contract references must be mutually consistent.
type Deliverable struct {
	ID              string            `json:"id,omitempty"`
	TaskID          string            `json:"task_id"`
	ContractID      string            `json:"contract_id"`
	Submitter       Actor             `json:"submitter"`
	Artifacts       []Artifact        `json:"artifacts"`
	Evidence        EvidenceData      `json:"evidence"`
	SubmittedAt     string            `json:"submitted_at,omitempty" format:"date-time"`
	Status          DeliverableStatus `json:"status,omitempty" enum:"submitted,under-review,accepted,rejected,revision-requested"`
	CompletionNotes string            `json:"completion_notes,omitempty"`
	AcceptanceMet   []AcceptanceMet   `json:"acceptance_met,omitempty"`
}

type ReviewCriterion struct {
	CriteriaID string   `json:"criteria_id"`
	Assessment string   `json:"assessment" enum:"pass,fail,partial,not-evaluated"`
	Notes      string   `json:"notes,omitempty"`
	Evidence   []string `json:"evidence,omitempty"`
}

type QualityScore struct {
	Overall      *float64 `json:"overall,omitempty"`
	Completeness *float64 `json:"completeness,omitempty"`
	Accuracy     *float64 `json:"accuracy,omitempty"`
	Clarity      *float64 `json:"clarity,omitempty"`
	Timeliness   *float64 `json:"timeliness,omitempty"`
}

type ReviewFeedback struct {
	Strengths        []string         `json:"strengths,omitempty"`
	Improvements     []string         `json:"improvements,omitempty"`
	RevisionRequests []map[string]any `json:"revision_requests,omitempty"`
}

type EvidenceVerification struct {
	ChecksumVerified *bool  `json:"checksum_verified,omitempty"`
	SourcesVerified  *bool  `json:"sources_verified,omitempty"`
	Notes            string `json:"notes,omitempty"`
}

type Signature struct {
	Algorithm string `json:"algorithm"`
	Value     string `json:"value"`
	PublicKey string `json:"public_key"`
}

// Review is a final assessment of one deliverable. Once issued it is an
// immutable audit record; a correction requires a new review.
type Review struct {
	ID                   string                `json:"id,omitempty"`
	DeliverableID        string                `json:"deliverable_id"`
	Reviewer             Actor                 `json:"reviewer"`
	Decision             ReviewDecision        `json:"decision" enum:"accepted,rejected,revision-requested,escalated"`
	ReviewedAt           string                `json:"reviewed_at,omitempty" format:"date-time"`
	TaskID               string                `json:"task_id,omitempty"`
	AcceptanceCriteria   []ReviewCriterion     `json:"acceptance_criteria,omitempty"`
	QualityScore         *QualityScore         `json:"quality_score,omitempty"`
	Feedback             *ReviewFeedback       `json:"feedback,omitempty"`
	EvidenceVerification *EvidenceVerification `json:"evidence_verification,omitempty"`
	Signature            *Signature            `json:"signature,omitempty"`
}
