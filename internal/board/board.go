package board

import (
	"context"
	"sync"

	"todo_webapp/internal/domain"
	"todo_webapp/internal/stats"
	"todo_webapp/internal/view"
)

// Page is everything the list screen shows for one view state.
type Page struct {
	State     view.State    `json:"-"`
	Items     []domain.Task `json:"items"`
	Total     int           `json:"total"`
	Page      int           `json:"page"`
	PageSize  int           `json:"pageSize"`
	PageCount int           `json:"pageCount"`
	Metrics   stats.Report  `json:"metrics"`
}

// Render runs filter, sort, paging and metrics over a snapshot. Metrics always
// cover the full snapshot, not the visible page.
func Render(tasks []domain.Task, st view.State) Page {
	visible := view.Apply(tasks, st)
	return Page{
		State:     st,
		Items:     view.Paginate(visible, st.Page, st.PageSize),
		Total:     len(visible),
		Page:      st.Page,
		PageSize:  st.PageSize,
		PageCount: view.PageCount(len(visible), st.PageSize),
		Metrics:   stats.Compute(tasks),
	}
}

// Board ties the store, the coordinator and the current view state together.
type Board struct {
	*Coordinator
	store *Store

	mu    sync.RWMutex
	state view.State
}

func New(api API) *Board {
	store := NewStore()
	return &Board{
		Coordinator: NewCoordinator(api, store),
		store:       store,
		state:       view.NewState(),
	}
}

// Load performs the initial fetch.
func (b *Board) Load(ctx context.Context) error {
	return b.Refresh(ctx)
}

func (b *Board) Store() *Store {
	return b.store
}

func (b *Board) State() view.State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

// Update replaces the view state with fn applied to it and returns the result.
func (b *Board) Update(fn func(view.State) view.State) view.State {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = fn(b.state)
	return b.state
}

// Page renders the current store snapshot with the current view state.
func (b *Board) Page() Page {
	return Render(b.store.Snapshot(), b.State())
}
