package session

import (
	"context"
	"sync"
)

// Navigation is the pending client-side navigation for a response.
type Navigation struct {
	Redirect string `json:"redirect,omitempty"`
	Reload   bool   `json:"reload,omitempty"`
}

// Navigator records navigation requests for the client to carry out.
// It satisfies bloodbank.Router. The last Navigate wins.
type Navigator struct {
	mu      sync.Mutex
	pending Navigation
}

func (n *Navigator) Navigate(_ context.Context, route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pending.Redirect = route
}

func (n *Navigator) Reload(_ context.Context) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pending.Reload = true
}

// Take returns the pending navigation and clears it.
func (n *Navigator) Take() Navigation {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.pending
	n.pending = Navigation{}
	return out
}
