package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Id prefixes for identifiers the core assigns itself. Contract ids are
// assigned by the gateway when a proposal is accepted.
const (
	IDPrefixTask        = "task"
	IDPrefixProposal    = "prop"
	IDPrefixDeliverable = "deliv"
	IDPrefixReview      = "rev"
	IDPrefixContract    = "contract"
)

// NewID builds an identifier of the form
// <prefix>-<millisecond-timestamp>-<9-char-random-suffix>.
func NewID(prefix string, now time.Time) string {
	entropy := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s-%d-%s", prefix, now.UnixMilli(), entropy[:9])
}

// Timestamp formats a time as ISO-8601 UTC with a trailing Z.
func Timestamp(now time.Time) string {
	return now.UTC().Format(time.RFC3339)
}

// IDPrefix returns the id prefix the core uses for a kind.
func IDPrefix(kind Kind) string {
	switch kind {
	case KindTask:
		return IDPrefixTask
	case KindProposal:
		return IDPrefixProposal
	case KindDeliverable:
		return IDPrefixDeliverable
	case KindReview:
		return IDPrefixReview
	case KindContract:
		return IDPrefixContract
	}
	return string(kind)
}
