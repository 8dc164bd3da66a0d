// Package gateway holds the transport boundary of the workflow: the Gateway
// capability the core submits validated entities to, and its HTTP client
// implementation. The core never interprets or retries transport failures;
// a *TransportError passes through to the caller unmodified.
package gateway

import (
	"context"
	"fmt"

	"ohap/internal/domain"
)

// Gateway is the external collaborator that persists validated entities and
// returns the server's canonical representation. Implementations own network
// I/O, auth headers, and error translation. out receives the decoded entity
// and must be a pointer.
type Gateway interface {
	Create(ctx context.Context, kind domain.Kind, entity, out any) error
	Get(ctx context.Context, kind domain.Kind, id string, out any) error
	Update(ctx context.Context, kind domain.Kind, id string, fields map[string]any, out any) error
	List(ctx context.Context, kind domain.Kind, filters map[string]string, out any) error
	AcceptProposal(ctx context.Context, proposalID string) (domain.Contract, error)
	TaskProposals(ctx context.Context, taskID string) ([]domain.Proposal, error)
}

// TransportError wraps a non-2xx gateway response.
type TransportError struct {
	StatusCode int
	Body       string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("gateway error: status=%d body=%s", e.StatusCode, e.Body)
}

// Route returns the collection path segment for a kind.
func Route(kind domain.Kind) string {
	switch kind {
	case domain.KindTask:
		return "tasks"
	case domain.KindProposal:
		return "proposals"
	case domain.KindContract:
		return "contracts"
	case domain.KindDeliverable:
		return "deliverables"
	case domain.KindReview:
		return "reviews"
	}
	return string(kind) + "s"
}
