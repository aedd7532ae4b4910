package review

import (
	"sync"

	"github.com/m3rciful/clanintake/intake/messaging"
)

// Pending indexes review requests that still wait for a decision, one per
// applicant. It enriches decisions with the request details; it is not the
// authority on whether a decision may still be applied.
type Pending struct {
	mu    sync.Mutex
	items map[int64]Request
}

// NewPending returns an empty index.
func NewPending() *Pending {
	return &Pending{items: make(map[int64]Request)}
}

// Put registers req, replacing any earlier request of the same applicant.
func (p *Pending) Put(req Request) (replaced bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, replaced = p.items[req.Applicant.ID]
	p.items[req.Applicant.ID] = req
	return replaced
}

// Update replaces the stored request when it is still the one with req.ID.
func (p *Pending) Update(req Request) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if cur, ok := p.items[req.Applicant.ID]; ok && cur.ID == req.ID {
		p.items[req.Applicant.ID] = req
	}
}

// Take removes and returns the request of applicantID. Only one caller can win.
// When msg is known it must be the request's review message; a press on an
// older review message of the same applicant leaves the entry in place.
func (p *Pending) Take(applicantID int64, msg messaging.MessageRef) (Request, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	req, ok := p.items[applicantID]
	if !ok {
		return Request{}, false
	}
	if msg.MessageID != 0 && req.ReviewMessage.MessageID != 0 && req.ReviewMessage != msg {
		return Request{}, false
	}
	delete(p.items, applicantID)
	return req, true
}

// Drop removes the entry of applicantID if it still belongs to requestID.
func (p *Pending) Drop(applicantID int64, requestID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if cur, ok := p.items[applicantID]; ok && cur.ID == requestID {
		delete(p.items, applicantID)
	}
}

// Len reports the number of undecided requests.
func (p *Pending) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}
