package assistant

import (
	"strings"
	"sync"
	"time"

	"github.com/workhub-io/assistant/internal/protocol"
)

// proposalTTL bounds how long a task proposal stays confirmable.
const proposalTTL = 10 * time.Minute

// PendingProposal is the explicit propose-to-confirm state for task creation,
// held server-side per conversation instead of being re-derived from prior
// chat text.
type PendingProposal struct {
	Kind      protocol.Kind
	Payload   protocol.ActionRequest
	CreatedAt time.Time
	ExpiresAt time.Time
}

// proposalBook tracks at most one pending proposal per conversation.
type proposalBook struct {
	mu      sync.Mutex
	pending map[string]*PendingProposal
}

func newProposalBook() *proposalBook {
	return &proposalBook{pending: make(map[string]*PendingProposal)}
}

func (b *proposalBook) put(userID string, req protocol.ActionRequest, now time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending[userID] = &PendingProposal{
		Kind:      req.Action,
		Payload:   req,
		CreatedAt: now,
		ExpiresAt: now.Add(proposalTTL),
	}
}

// take removes and returns the live proposal for userID, if any. Expired
// proposals are dropped.
func (b *proposalBook) take(userID string, now time.Time) (*PendingProposal, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.pending[userID]
	if !ok {
		return nil, false
	}
	delete(b.pending, userID)
	if now.After(p.ExpiresAt) {
		return nil, false
	}
	return p, true
}

var affirmations = []string{
	"yes", "yep", "yeah", "sure", "ok", "okay", "confirm", "confirmed",
	"go ahead", "do it", "please do", "sounds good", "go for it", "yes please",
}

// isAffirmative reports whether the user's message confirms the outstanding
// proposal. Matching is deliberately conservative: anything else discards the
// proposal rather than executing a write the user may not have meant.
func isAffirmative(message string) bool {
	m := strings.ToLower(strings.TrimSpace(message))
	m = strings.TrimRight(m, ".!")
	for _, a := range affirmations {
		if m == a {
			return true
		}
	}
	return false
}
