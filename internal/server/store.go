package server

import (
	"errors"
	"sync"
	"time"

	"ohap/internal/domain"
)

var errNotFound = errors.New("not found")
var errConflict = errors.New("id already exists")

// store is the in-memory entity store behind the reference gateway. Durable
// persistence is out of scope for the protocol, so a mutex-guarded map per
// kind is all the state the server holds. Insertion order is kept so list
// responses are stable.
type store struct {
	mu  sync.RWMutex
	now func() time.Time

	tasks        map[string]domain.Task
	proposals    map[string]domain.Proposal
	contracts    map[string]domain.Contract
	deliverables map[string]domain.Deliverable
	reviews      map[string]domain.Review
	order        map[domain.Kind][]string
}

func newStore(now func() time.Time) *store {
	if now == nil {
		now = time.Now
	}
	return &store{
		now:          now,
		tasks:        map[string]domain.Task{},
		proposals:    map[string]domain.Proposal{},
		contracts:    map[string]domain.Contract{},
		deliverables: map[string]domain.Deliverable{},
		reviews:      map[string]domain.Review{},
		order:        map[domain.Kind][]string{},
	}
}

func (s *store) track(kind domain.Kind, id string) {
	s.order[kind] = append(s.order[kind], id)
}

func (s *store) insertTask(t domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[t.ID]; ok {
		return errConflict
	}
	s.tasks[t.ID] = t
	s.track(domain.KindTask, t.ID)
	return nil
}

func (s *store) putTask(t domain.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[t.ID] = t
}

func (s *store) getTask(id string) (domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return domain.Task{}, errNotFound
	}
	return t, nil
}

func (s *store) listTasks(match func(domain.Task) bool) []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := []domain.Task{}
	for _, id := range s.order[domain.KindTask] {
		t := s.tasks[id]
		if match == nil || match(t) {
			res = append(res, t)
		}
	}
	return res
}

func (s *store) insertProposal(p domain.Proposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.proposals[p.ID]; ok {
		return errConflict
	}
	s.proposals[p.ID] = p
	s.track(domain.KindProposal, p.ID)
	return nil
}

func (s *store) putProposal(p domain.Proposal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.proposals[p.ID] = p
}

func (s *store) getProposal(id string) (domain.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.proposals[id]
	if !ok {
		return domain.Proposal{}, errNotFound
	}
	return p, nil
}

func (s *store) listProposals(match func(domain.Proposal) bool) []domain.Proposal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := []domain.Proposal{}
	for _, id := range s.order[domain.KindProposal] {
		p := s.proposals[id]
		if match == nil || match(p) {
			res = append(res, p)
		}
	}
	return res
}

func (s *store) insertContract(c domain.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contracts[c.ID]; ok {
		return errConflict
	}
	s.contracts[c.ID] = c
	s.track(domain.KindContract, c.ID)
	return nil
}

func (s *store) putContract(c domain.Contract) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contracts[c.ID] = c
}

func (s *store) getContract(id string) (domain.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.contracts[id]
	if !ok {
		return domain.Contract{}, errNotFound
	}
	return c, nil
}

func (s *store) listContracts(match func(domain.Contract) bool) []domain.Contract {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := []domain.Contract{}
	for _, id := range s.order[domain.KindContract] {
		c := s.contracts[id]
		if match == nil || match(c) {
			res = append(res, c)
		}
	}
	return res
}

func (s *store) insertDeliverable(d domain.Deliverable) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.deliverables[d.ID]; ok {
		return errConflict
	}
	s.deliverables[d.ID] = d
	s.track(domain.KindDeliverable, d.ID)
	return nil
}

func (s *store) putDeliverable(d domain.Deliverable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deliverables[d.ID] = d
}

func (s *store) getDeliverable(id string) (domain.Deliverable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.deliverables[id]
	if !ok {
		return domain.Deliverable{}, errNotFound
	}
	return d, nil
}

func (s *store) listDeliverables(match func(domain.Deliverable) bool) []domain.Deliverable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := []domain.Deliverable{}
	for _, id := range s.order[domain.KindDeliverable] {
		d := s.deliverables[id]
		if match == nil || match(d) {
			res = append(res, d)
		}
	}
	return res
}

func (s *store) insertReview(r domain.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reviews[r.ID]; ok {
		return errConflict
	}
	s.reviews[r.ID] = r
	s.track(domain.KindReview, r.ID)
	return nil
}

func (s *store) getReview(id string) (domain.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reviews[id]
	if !ok {
		return domain.Review{}, errNotFound
	}
	return r, nil
}

func (s *store) listReviews(match func(domain.Review) bool) []domain.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := []domain.Review{}
	for _, id := range s.order[domain.KindReview] {
		r := s.reviews[id]
		if match == nil || match(r) {
			res = append(res, r)
		}
	}
	return res
}
