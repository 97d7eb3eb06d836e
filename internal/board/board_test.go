package board

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo_webapp/internal/domain"
	"todo_webapp/internal/view"
)

// fakeAPI is an in-memory backend that records which endpoints were hit.
type fakeAPI struct {
	mu     sync.Mutex
	tasks  []domain.Task
	nextID int64
	calls  []string
	fail   map[string]error
	now    domain.Timestamp
}

func newFakeAPI(tasks ...domain.Task) *fakeAPI {
	return &fakeAPI{
		tasks:  tasks,
		nextID: int64(len(tasks)) + 1,
		fail:   map[string]error{},
		now:    domain.NewTimestamp(time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)),
	}
}

func (f *fakeAPI) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.fail[call]
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) List(ctx context.Context) ([]domain.Task, error) {
	if err := f.record("list"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Task(nil), f.tasks...), nil
}

func (f *fakeAPI) Create(ctx context.Context, t domain.Task) (domain.Task, error) {
	if err := f.record("create"); err != nil {
		return domain.Task{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t.ID = f.nextID
	f.nextID++
	f.tasks = append(f.tasks, t)
	return t, nil
}

func (f *fakeAPI) find(id int64) (int, error) {
	for i, t := range f.tasks {
		if t.ID == id {
			return i, nil
		}
	}
	return -1, errors.New("not found")
}

func (f *fakeAPI) Update(ctx context.Context, t domain.Task) (domain.Task, error) {
	if err := f.record("update"); err != nil {
		return domain.Task{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i, err := f.find(t.ID)
	if err != nil {
		return domain.Task{}, err
	}
	f.tasks[i].Text = t.Text
	f.tasks[i].Priority = t.Priority
	f.tasks[i].DueDate = t.DueDate
	return f.tasks[i], nil
}

func (f *fakeAPI) MarkDone(ctx context.Context, id int64) (domain.Task, error) {
	if err := f.record("done"); err != nil {
		return domain.Task{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i, err := f.find(id)
	if err != nil {
		return domain.Task{}, err
	}
	now := f.now
	f.tasks[i].Completed = true
	f.tasks[i].CompletedAt = &now
	return f.tasks[i], nil
}

func (f *fakeAPI) MarkNotDone(ctx context.Context, id int64) (domain.Task, error) {
	if err := f.record("not-done"); err != nil {
		return domain.Task{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i, err := f.find(id)
	if err != nil {
		return domain.Task{}, err
	}
	f.tasks[i].Completed = false
	f.tasks[i].CompletedAt = nil
	return f.tasks[i], nil
}

func (f *fakeAPI) Delete(ctx context.Context, id int64) error {
	if err := f.record("delete"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i, err := f.find(id)
	if err != nil {
		return err
	}
	f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
	return nil
}

func seeded() []domain.Task {
	created := domain.NewTimestamp(time.Date(2024, 10, 1, 9, 0, 0, 0, time.UTC))
	return []domain.Task{
		{ID: 1, Text: "Task 1", Priority: domain.PriorityHigh, CreatedAt: created},
		{ID: 2, Text: "Task 2", Priority: domain.PriorityLow, CreatedAt: created},
	}
}

func TestCoordinator_CreateRefreshes(t *testing.T) {
	api := newFakeAPI(seeded()...)
	b := New(api)
	require.NoError(t, b.Load(context.Background()))

	created, err := b.Create(context.Background(), domain.Draft{Text: "  New Task  ", Priority: domain.PriorityMedium})
	require.NoError(t, err)
	assert.Equal(t, int64(3), created.ID)
	assert.Equal(t, "New Task", created.Text)
	assert.False(t, created.Completed)
	assert.Nil(t, created.CompletedAt)
	assert.False(t, created.CreatedAt.IsZero())

	snap := b.Store().Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, int64(3), snap[2].ID)
	assert.Equal(t, []string{"list", "create", "list"}, api.Calls())
}

func TestCoordinator_CreateDefaultsPriority(t *testing.T) {
	api := newFakeAPI()
	b := New(api)
	created, err := b.Create(context.Background(), domain.Draft{Text: "x"})
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityLow, created.Priority)
}

func TestCoordinator_FailedCreateLeavesStore(t *testing.T) {
	api := newFakeAPI(seeded()...)
	b := New(api)
	require.NoError(t, b.Load(context.Background()))
	before := b.Store().Snapshot()
	gen := b.Store().Generation()

	boom := errors.New("backend down")
	api.fail["create"] = boom

	_, err := b.Create(context.Background(), domain.Draft{Text: "nope"})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, before, b.Store().Snapshot())
	assert.Equal(t, gen, b.Store().Generation())
	assert.Equal(t, []string{"list", "create"}, api.Calls(), "no refresh after a failed mutation")
}

func TestCoordinator_ToggleUsesDistinctEndpoints(t *testing.T) {
	api := newFakeAPI(seeded()...)
	b := New(api)
	ctx := context.Background()

	done, err := b.Toggle(ctx, 1, false)
	require.NoError(t, err)
	assert.True(t, done.Completed)
	require.NotNil(t, done.CompletedAt)

	undone, err := b.Toggle(ctx, 1, true)
	require.NoError(t, err)
	assert.False(t, undone.Completed)
	assert.Nil(t, undone.CompletedAt)

	assert.Equal(t, []string{"done", "list", "not-done", "list"}, api.Calls())
	assert.NotContains(t, api.Calls(), "update")
}

func TestCoordinator_EditNormalizesDueDate(t *testing.T) {
	api := newFakeAPI(seeded()...)
	b := New(api)

	local := time.FixedZone("UTC+3", 3*3600)
	dueDate := domain.Timestamp{Time: time.Date(2024, 12, 31, 10, 30, 15, 999, local)}
	task := seeded()[0]
	task.Text = "Task 1 renamed"
	task.DueDate = &dueDate

	updated, err := b.Edit(context.Background(), task)
	require.NoError(t, err)
	require.NotNil(t, updated.DueDate)
	assert.Equal(t, "2024-12-31T07:30:15", updated.DueDate.String())
	assert.Equal(t, time.UTC, updated.DueDate.Location())
	assert.Equal(t, "Task 1 renamed", b.Store().Snapshot()[0].Text)
}

func TestCoordinator_EditWithoutID(t *testing.T) {
	api := newFakeAPI()
	b := New(api)
	_, err := b.Edit(context.Background(), domain.Task{Text: "x"})
	require.ErrorIs(t, err, ErrMissingID)
	assert.Empty(t, api.Calls())
}

func TestCoordinator_Delete(t *testing.T) {
	api := newFakeAPI(seeded()...)
	b := New(api)
	require.NoError(t, b.Delete(context.Background(), 2))
	snap := b.Store().Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, int64(1), snap[0].ID)
}

func TestCoordinator_RefreshFailureKeepsStaleList(t *testing.T) {
	api := newFakeAPI(seeded()...)
	b := New(api)
	require.NoError(t, b.Load(context.Background()))

	api.fail["list"] = errors.New("timeout")
	err := b.Refresh(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSuperseded)
	assert.Len(t, b.Store().Snapshot(), 2)
}

// blockingAPI holds the first List call until released.
type blockingAPI struct {
	*fakeAPI
	first   chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingAPI) List(ctx context.Context) ([]domain.Task, error) {
	blocked := false
	b.once.Do(func() { blocked = true })
	if blocked {
		close(b.first)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-b.release:
		}
	}
	return b.fakeAPI.List(ctx)
}

func TestCoordinator_NewerRefreshSupersedesOlder(t *testing.T) {
	api := &blockingAPI{
		fakeAPI: newFakeAPI(seeded()...),
		first:   make(chan struct{}),
		release: make(chan struct{}),
	}
	b := New(api)

	errc := make(chan error, 1)
	go func() { errc <- b.Refresh(context.Background()) }()
	<-api.first

	require.NoError(t, b.Refresh(context.Background()))
	assert.ErrorIs(t, <-errc, ErrSuperseded)
	assert.Equal(t, uint64(2), b.Store().Generation())
	close(api.release)
}

func TestCoordinator_MutationTakesOutcomeOfNewerRefresh(t *testing.T) {
	api := &blockingAPI{
		fakeAPI: newFakeAPI(seeded()...),
		first:   make(chan struct{}),
		release: make(chan struct{}),
	}
	defer close(api.release)
	b := New(api)

	errc := make(chan error, 1)
	go func() {
		_, err := b.Create(context.Background(), domain.Draft{Text: "new"})
		errc <- err
	}()
	<-api.first

	backendDown := errors.New("backend down")
	api.mu.Lock()
	api.fail["list"] = backendDown
	api.mu.Unlock()

	assert.ErrorIs(t, b.Refresh(context.Background()), backendDown)
	assert.ErrorIs(t, <-errc, backendDown, "create must report the failed refresh that replaced its own")
	assert.Equal(t, 0, b.Store().Len())
}

func TestCoordinator_MutationSucceedsWhenNewerRefreshDoes(t *testing.T) {
	api := &blockingAPI{
		fakeAPI: newFakeAPI(seeded()...),
		first:   make(chan struct{}),
		release: make(chan struct{}),
	}
	defer close(api.release)
	b := New(api)

	errc := make(chan error, 1)
	go func() {
		_, err := b.Create(context.Background(), domain.Draft{Text: "new"})
		errc <- err
	}()
	<-api.first

	require.NoError(t, b.Refresh(context.Background()))
	require.NoError(t, <-errc)
	assert.Equal(t, len(seeded())+1, b.Store().Len())
}

func TestStore_IgnoresStaleGeneration(t *testing.T) {
	s := NewStore()
	assert.True(t, s.Replace(2, seeded()))
	assert.False(t, s.Replace(1, nil))
	assert.Len(t, s.Snapshot(), 2)
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	s := NewStore()
	s.Replace(1, seeded())
	snap := s.Snapshot()
	snap[0].Text = "changed"
	assert.Equal(t, "Task 1", s.Snapshot()[0].Text)
}

func TestBoard_PageUsesFullListForMetrics(t *testing.T) {
	created := domain.NewTimestamp(time.Date(2024, 10, 1, 9, 0, 0, 0, time.UTC))
	doneAt := domain.NewTimestamp(created.Add(2 * time.Minute))
	tasks := []domain.Task{
		{ID: 1, Text: "a", Priority: domain.PriorityHigh, Completed: true, CreatedAt: created, CompletedAt: &doneAt},
		{ID: 2, Text: "b", Priority: domain.PriorityLow, CreatedAt: created},
		{ID: 3, Text: "c", Priority: domain.PriorityLow, CreatedAt: created},
	}
	b := New(newFakeAPI(tasks...))
	require.NoError(t, b.Load(context.Background()))

	b.Update(func(st view.State) view.State {
		return st.WithStatus(view.StatusNotDone).WithPageSize(1)
	})
	page := b.Page()

	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 2, page.PageCount)
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(2), page.Items[0].ID)
	assert.Equal(t, "2.00 minutes", page.Metrics.Overall.String())
	assert.Equal(t, "N/A", page.Metrics.For(domain.PriorityLow).String())
}
