// Package hierarchy keeps a client-side, always consistent view of one
// project's stages and tasks against a remote system of record.
//
// Reads come from Snapshot. Mutations go to the remote and are reconciled
// into the cache according to a Policy: completion toggles are applied
// optimistically and reverted on failure, structural changes wait for the
// remote and then refetch what they touched.
package hierarchy

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alexanderramin/trestle/internal/domain"
	"github.com/alexanderramin/trestle/internal/remote"
)

// DefaultHydrateConcurrency bounds parallel FetchTasks calls during a load.
const DefaultHydrateConcurrency = 4

// Outcome describes what a mutation did to the cache.
type Outcome int

const (
	// OutcomeApplied: the remote confirmed and the cache reflects it.
	OutcomeApplied Outcome = iota
	// OutcomeReverted: an optimistic change was undone after a failure.
	OutcomeReverted
	// OutcomeRejected: the remote refused or failed; the cache was not changed.
	OutcomeRejected
	// OutcomeIgnored: a toggle for the same task is already in flight.
	OutcomeIgnored
	// OutcomeNoop: the addressed entity is not in the cache.
	OutcomeNoop
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeReverted:
		return "reverted"
	case OutcomeRejected:
		return "rejected"
	case OutcomeIgnored:
		return "ignored"
	case OutcomeNoop:
		return "noop"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used for status derivation.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.clock = now }
}

// WithLogger sets the logger for reconciliation decisions. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPolicy replaces DefaultPolicy. New rejects an incomplete policy.
func WithPolicy(p Policy) Option {
	return func(s *Store) { s.policy = p }
}

// WithHydrateConcurrency bounds parallel task fetches. Values below 1 are ignored.
func WithHydrateConcurrency(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.hydrateLimit = n
		}
	}
}

type stageNode struct {
	stage      domain.Stage
	tasks      []domain.Task
	hydrateErr error
	// version changes whenever stage or tasks change; it keys the memo.
	version uint64
	// fetchSeq is the sequence number of the fetch that produced tasks.
	fetchSeq uint64
	memo     *stageMemo
}

type inflightToggle struct {
	target     bool
	optimistic bool
}

// confirmedToggle records a completion flag the remote accepted at seq.
type confirmedToggle struct {
	seq  uint64
	done bool
}

// Store is safe for concurrent use. Its mutex is never held across a
// remote call.
type Store struct {
	projectID    int64
	remote       remote.Remote
	clock        func() time.Time
	logger       *slog.Logger
	policy       Policy
	hydrateLimit int
	lanes        *lanes

	mu         sync.Mutex
	state      domain.LoadState
	stages     []*stageNode
	lastErr    error
	seq        uint64
	loadTicket uint64
	completing map[int64]inflightToggle
	// Confirmed toggles; fetches that started before seq must not undo them.
	confirmed map[int64]confirmedToggle
	pendStage  map[int64]int
	pendTask   map[int64]int
	// Confirmed deletions; refetches that started earlier must not revive them.
	goneStages map[int64]bool
	goneTasks  map[int64]bool

	notifyMu sync.Mutex
	changes  chan struct{}
	closed   bool
}

// New creates a store for one project. It starts in state not_loaded.
func New(projectID int64, r remote.Remote, opts ...Option) (*Store, error) {
	s := &Store{
		projectID:    projectID,
		remote:       r,
		clock:        time.Now,
		logger:       slog.New(slog.DiscardHandler),
		policy:       DefaultPolicy(),
		hydrateLimit: DefaultHydrateConcurrency,
		lanes:        newLanes(),
		state:        domain.LoadNotLoaded,
		completing:   make(map[int64]inflightToggle),
		confirmed:    make(map[int64]confirmedToggle),
		pendStage:    make(map[int64]int),
		pendTask:     make(map[int64]int),
		goneStages:   make(map[int64]bool),
		goneTasks:    make(map[int64]bool),
		changes:      make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	if r == nil {
		return nil, fmt.Errorf("hierarchy: remote is required")
	}
	if err := s.policy.Validate(); err != nil {
		return nil, err
	}
	s.logger = s.logger.With("project_id", projectID)
	return s, nil
}

// ProjectID returns the project this store is scoped to.
func (s *Store) ProjectID() int64 { return s.projectID }

// State returns the current load state.
func (s *Store) State() domain.LoadState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Changes delivers a signal after every cache change. Signals coalesce;
// receivers should re-read Snapshot. The channel closes on Close.
func (s *Store) Changes() <-chan struct{} {
	return s.changes
}

// Close releases change subscribers. Further mutations still work but
// no longer signal.
func (s *Store) Close() {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.changes)
	}
}

func (s *Store) notify() {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.changes <- struct{}{}:
	default:
	}
}

// LoadStages fetches the stage list and every stage's tasks. A stage whose
// task fetch fails is kept with no tasks and its error recorded; only a
// failed stage list fails the load. When loads overlap the last one
// started wins and earlier results are dropped.
func (s *Store) LoadStages(ctx context.Context) error {
	s.mu.Lock()
	ticket := s.nextSeqLocked()
	s.loadTicket = ticket
	if s.state == domain.LoadNotLoaded || s.state == domain.LoadFailed {
		s.state = domain.LoadLoading
	}
	s.mu.Unlock()
	s.notify()

	nodes, err := s.fetchAll(ctx)

	s.mu.Lock()
	if ticket != s.loadTicket {
		s.mu.Unlock()
		s.logger.Debug("discarding superseded load", "ticket", ticket)
		return nil
	}
	if err != nil {
		s.state = domain.LoadFailed
		s.stages = nil
		s.lastErr = err
		s.mu.Unlock()
		s.notify()
		s.logger.Warn("stage list fetch failed", "error", err)
		return fmt.Errorf("loading stages for project %d: %w", s.projectID, err)
	}
	s.installLocked(ticket, nodes)
	s.lastErr = nil
	s.mu.Unlock()
	s.notify()
	return nil
}

// fetchAll reads the stage list, then hydrates tasks per stage with
// bounded parallelism.
func (s *Store) fetchAll(ctx context.Context) ([]*stageNode, error) {
	stages, err := s.remote.FetchStages(ctx, s.projectID)
	if err != nil {
		return nil, err
	}

	nodes := make([]*stageNode, len(stages))
	var g errgroup.Group
	g.SetLimit(s.hydrateLimit)
	for i, st := range stages {
		g.Go(func() error {
			tasks, err := s.remote.FetchTasks(ctx, st.ID)
			node := &stageNode{stage: st, tasks: tasks}
			if err != nil {
				s.logger.Warn("task fetch failed; keeping stage empty", "stage_id", st.ID, "error", err)
				node.tasks = nil
				node.hydrateErr = err
			}
			nodes[i] = node
			return nil
		})
	}
	_ = g.Wait()

	// A cancelled context fails every hydrate; that is a failed load, not
	// a tree of empty stages.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nodes, nil
}

// installLocked replaces the tree with nodes fetched under ticket. A stage
// refetched more recently than ticket keeps its tasks.
func (s *Store) installLocked(ticket uint64, nodes []*stageNode) {
	prev := make(map[int64]*stageNode, len(s.stages))
	for _, n := range s.stages {
		prev[n.stage.ID] = n
	}

	kept := nodes[:0]
	for _, n := range nodes {
		if s.goneStages[n.stage.ID] {
			continue
		}
		if old, ok := prev[n.stage.ID]; ok && old.fetchSeq > ticket {
			n.tasks, n.hydrateErr, n.fetchSeq = old.tasks, old.hydrateErr, old.fetchSeq
		} else {
			n.tasks = s.reconcileFetchedLocked(ticket, n.tasks)
			n.fetchSeq = ticket
		}
		s.touchLocked(n)
		kept = append(kept, n)
	}
	s.stages = kept
	s.settleStateLocked()
}

// reconcileFetchedLocked merges tasks read by the fetch issued at ticket.
// It drops confirmed-deleted tasks, re-applies optimistic toggles still in
// flight and keeps completion flags confirmed after the fetch started.
func (s *Store) reconcileFetchedLocked(ticket uint64, tasks []domain.Task) []domain.Task {
	out := tasks[:0]
	for _, t := range tasks {
		if s.goneTasks[t.ID] {
			continue
		}
		if c, ok := s.confirmed[t.ID]; ok {
			if c.seq > ticket {
				t.IsCompleted = c.done
			} else {
				delete(s.confirmed, t.ID)
			}
		}
		if inf, ok := s.completing[t.ID]; ok && inf.optimistic {
			t.IsCompleted = inf.target
		}
		out = append(out, t)
	}
	return out
}

func (s *Store) settleStateLocked() {
	if len(s.stages) == 0 {
		s.state = domain.LoadEmpty
	} else {
		s.state = domain.LoadLoaded
	}
}

func (s *Store) nextSeqLocked() uint64 {
	s.seq++
	return s.seq
}

func (s *Store) touchLocked(n *stageNode) {
	n.version = s.nextSeqLocked()
}

// refreshProject reloads the whole tree after a confirmed mutation. On
// failure the previous tree stays in place.
func (s *Store) refreshProject(ctx context.Context, op Operation) error {
	s.mu.Lock()
	ticket := s.nextSeqLocked()
	s.loadTicket = ticket
	s.mu.Unlock()

	nodes, err := s.fetchAll(ctx)

	s.mu.Lock()
	defer s.notify()
	defer s.mu.Unlock()
	if ticket != s.loadTicket {
		return nil
	}
	if err != nil {
		if s.state == domain.LoadLoading {
			s.state = domain.LoadFailed
			s.lastErr = err
		}
		s.logger.Warn("refresh after mutation failed", "op", op, "error", err)
		return &RefreshError{Op: op, Err: err}
	}
	s.installLocked(ticket, nodes)
	return nil
}

// refreshStage reloads one stage's tasks, leaving siblings alone.
func (s *Store) refreshStage(ctx context.Context, op Operation, stageID int64) error {
	s.mu.Lock()
	n := s.stageLocked(stageID)
	if n == nil {
		s.mu.Unlock()
		return nil
	}
	ticket := s.nextSeqLocked()
	n.fetchSeq = ticket
	s.mu.Unlock()

	tasks, err := s.remote.FetchTasks(ctx, stageID)

	s.mu.Lock()
	defer s.notify()
	defer s.mu.Unlock()
	n = s.stageLocked(stageID)
	if n == nil || n.fetchSeq != ticket {
		return nil
	}
	if err != nil {
		s.logger.Warn("stage refresh after mutation failed", "op", op, "stage_id", stageID, "error", err)
		return &RefreshError{Op: op, StageID: stageID, Err: err}
	}
	n.tasks = s.reconcileFetchedLocked(ticket, tasks)
	n.hydrateErr = nil
	s.touchLocked(n)
	return nil
}

func (s *Store) stageLocked(id int64) *stageNode {
	for _, n := range s.stages {
		if n.stage.ID == id {
			return n
		}
	}
	return nil
}

// taskLocked finds a task by scanning every stage.
func (s *Store) taskLocked(id int64) (*stageNode, int) {
	for _, n := range s.stages {
		for i := range n.tasks {
			if n.tasks[i].ID == id {
				return n, i
			}
		}
	}
	return nil, -1
}
