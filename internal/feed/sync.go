package feed

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/nickpending/voicejournal/internal/api"
)

// MutationKind names the remote operation of a Mutation
type MutationKind int

const (
	MutationCreate MutationKind = iota
	MutationUpdate
	MutationDelete
)

func (k MutationKind) String() string {
	switch k {
	case MutationCreate:
		return "create entry"
	case MutationUpdate:
		return "update entry"
	case MutationDelete:
		return "delete entry"
	default:
		return "mutation"
	}
}

// Mutation is a prepared create, update or delete
type Mutation struct {
	Kind       MutationKind
	Generation uint64
	Prior      api.Entry
	Input      api.EntryInput
	ID         int64
}

// MutationResult is the settled outcome of a Mutation
type MutationResult struct {
	Mutation Mutation
	Entry    api.Entry
	Err      error
}

// Run performs the remote call. Like PageRequest.Run it may run off the
// engine's goroutine.
func (m Mutation) Run(ctx context.Context, remote Remote) MutationResult {
	res := MutationResult{Mutation: m}
	switch m.Kind {
	case MutationCreate:
		res.Entry, res.Err = remote.CreateEntry(ctx, m.Input)
	case MutationUpdate:
		res.Entry, res.Err = remote.UpdateEntry(ctx, m.Prior, m.Input)
	case MutationDelete:
		res.Err = remote.DeleteEntry(ctx, m.ID)
	default:
		res.Err = fmt.Errorf("unknown mutation kind %d", m.Kind)
	}
	return res
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateInput checks the user-editable fields before anything is sent
func ValidateInput(in api.EntryInput) error {
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid entry: %s is %s", verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("invalid entry: %w", err)
	}
	return nil
}

// Synchronizer applies confirmed create, update and delete results to the
// engine's model. Nothing local changes before the remote call succeeds.
type Synchronizer struct {
	engine *Engine
}

// NewSynchronizer returns a synchronizer bound to engine
func NewSynchronizer(engine *Engine) *Synchronizer {
	return &Synchronizer{engine: engine}
}

// Create prepares a new entry
func (s *Synchronizer) Create(in api.EntryInput) (Mutation, error) {
	if err := ValidateInput(in); err != nil {
		return Mutation{}, err
	}
	return Mutation{Kind: MutationCreate, Generation: s.engine.generation, Input: in}, nil
}

// Update prepares an edit of the rendered entry id. The prior entry is
// captured so the remote update can send a superset of its fields.
func (s *Synchronizer) Update(id int64, in api.EntryInput) (Mutation, error) {
	if err := ValidateInput(in); err != nil {
		return Mutation{}, err
	}
	prior, ok := s.engine.model.Lookup(id)
	if !ok {
		return Mutation{}, fmt.Errorf("update entry %d: %w", id, ErrNotFound)
	}
	return Mutation{Kind: MutationUpdate, Generation: s.engine.generation, Prior: prior, Input: in, ID: id}, nil
}

// Delete prepares removal of the rendered entry id
func (s *Synchronizer) Delete(id int64) (Mutation, error) {
	if _, ok := s.engine.model.Lookup(id); !ok {
		return Mutation{}, fmt.Errorf("delete entry %d: %w", id, ErrNotFound)
	}
	return Mutation{Kind: MutationDelete, Generation: s.engine.generation, ID: id}, nil
}

// Apply settles a mutation. A create replaces the Feed State and returns the
// first page request of the reload. An update patches the entry in place. A
// delete removes the entry and keeps its date separator. A remote failure
// returns a *FetchError and leaves everything untouched.
func (s *Synchronizer) Apply(res MutationResult) (PageRequest, bool, error) {
	m := res.Mutation
	logger := s.engine.logger

	if res.Err != nil {
		logger.Warn("mutation failed", "op", m.Kind.String(), "id", m.ID, "err", res.Err)
		return PageRequest{}, false, &FetchError{Op: m.Kind.String(), Err: res.Err}
	}

	switch m.Kind {
	case MutationCreate:
		if !s.engine.Reload() {
			return PageRequest{}, false, nil
		}
		logger.Info("mutation applied", "op", m.Kind.String(), "id", res.Entry.ID)
		req, ok := s.engine.RequestPage()
		return req, ok, nil

	case MutationUpdate:
		if m.Generation != s.engine.generation {
			return PageRequest{}, false, ErrStale
		}
		entry := res.Entry
		if entry.ID != m.ID {
			entry = m.Prior.With(m.Input)
		}
		if !s.engine.model.Patch(entry) {
			return PageRequest{}, false, fmt.Errorf("update entry %d: %w", m.ID, ErrNotFound)
		}
		logger.Info("mutation applied", "op", m.Kind.String(), "id", m.ID)
		return PageRequest{}, false, nil

	case MutationDelete:
		if m.Generation != s.engine.generation {
			return PageRequest{}, false, ErrStale
		}
		if !s.engine.model.Remove(m.ID) {
			return PageRequest{}, false, fmt.Errorf("delete entry %d: %w", m.ID, ErrNotFound)
		}
		logger.Info("mutation applied", "op", m.Kind.String(), "id", m.ID)
		return PageRequest{}, false, nil
	}

	return PageRequest{}, false, fmt.Errorf("unknown mutation kind %d", m.Kind)
}

// CreateSync creates an entry and reloads the first page before returning
func (s *Synchronizer) CreateSync(ctx context.Context, remote Remote, in api.EntryInput) (api.Entry, error) {
	m, err := s.Create(in)
	if err != nil {
		return api.Entry{}, err
	}
	res := m.Run(ctx, remote)
	req, ok, err := s.Apply(res)
	if err != nil {
		return api.Entry{}, err
	}
	if ok {
		if _, err := s.engine.ApplyPage(req.Run(ctx, remote)); err != nil {
			return res.Entry, err
		}
	}
	return res.Entry, nil
}

// UpdateSync edits an entry and patches it in place
func (s *Synchronizer) UpdateSync(ctx context.Context, remote Remote, id int64, in api.EntryInput) (api.Entry, error) {
	m, err := s.Update(id, in)
	if err != nil {
		return api.Entry{}, err
	}
	res := m.Run(ctx, remote)
	if _, _, err := s.Apply(res); err != nil {
		return api.Entry{}, err
	}
	entry, _ := s.engine.model.Lookup(id)
	return entry, nil
}

// DeleteSync deletes an entry and removes it from the model
func (s *Synchronizer) DeleteSync(ctx context.Context, remote Remote, id int64) error {
	m, err := s.Delete(id)
	if err != nil {
		return err
	}
	_, _, err = s.Apply(m.Run(ctx, remote))
	return err
}
