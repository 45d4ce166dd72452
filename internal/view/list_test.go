package view

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sistema-laudos/laudos-go/internal/models"
	"github.com/sistema-laudos/laudos-go/internal/store"
)

// recordingFetcher captures every descriptor it is asked to fetch and
// answers with a canned page.
type recordingFetcher struct {
	mu    sync.Mutex
	calls []Descriptor
	page  *models.ContratoPage
	err   error
}

func (f *recordingFetcher) fetch(_ context.Context, d Descriptor) (*models.ContratoPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, d)
	return f.page, f.err
}

func (f *recordingFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *recordingFetcher) lastCall() Descriptor {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func pageOf(total int, items ...models.Contrato) *models.ContratoPage {
	return &models.ContratoPage{Items: items, Total: total, Page: 1, Limit: 10}
}

func waitForCalls(t *testing.T, f *recordingFetcher, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return f.callCount() == n },
		time.Second, 5*time.Millisecond)
}

func waitSettled(t *testing.T, c *ListController) {
	t.Helper()
	require.Eventually(t, func() bool { return !c.State().Loading },
		time.Second, 5*time.Millisecond)
}

func TestInitialFetchUsesDefaults(t *testing.T) {
	f := &recordingFetcher{page: pageOf(2, models.Contrato{ID: "c1"}, models.Contrato{ID: "c2"})}
	c := NewListController(f.fetch, nil, time.Millisecond)
	defer c.Close()

	waitForCalls(t, f, 1)
	waitSettled(t, c)

	d := f.lastCall()
	assert.Equal(t, 1, d.Page)
	assert.Equal(t, 10, d.PageSize)
	assert.Equal(t, "created_at", d.SortField)
	assert.Equal(t, "desc", d.SortDirection)
	assert.Empty(t, d.SearchText)

	state := c.State()
	assert.Len(t, state.Items, 2)
	assert.Equal(t, 2, state.Total)
	assert.Equal(t, 1, state.TotalPages())
}

func TestSearchDebounceCollapsesKeystrokes(t *testing.T) {
	f := &recordingFetcher{page: pageOf(0)}
	c := NewListController(f.fetch, nil, 80*time.Millisecond)
	defer c.Close()
	waitForCalls(t, f, 1)

	// Three keystrokes inside the quiet window collapse into one fetch.
	c.SetSearch("j")
	time.Sleep(20 * time.Millisecond)
	c.SetSearch("jo")
	time.Sleep(20 * time.Millisecond)
	c.SetSearch("joão")

	assert.Equal(t, "joão", c.State().SearchDraft)
	assert.Empty(t, c.State().Descriptor.SearchText, "descriptor lags the draft")
	assert.Equal(t, 1, f.callCount())

	waitForCalls(t, f, 2)
	d := f.lastCall()
	assert.Equal(t, "joão", d.SearchText)
	assert.Equal(t, 1, d.Page)
}

func TestClearingSearchAppliesImmediately(t *testing.T) {
	f := &recordingFetcher{page: pageOf(0)}
	c := NewListController(f.fetch, nil, time.Hour)
	defer c.Close()
	waitForCalls(t, f, 1)

	c.SetSearch("pending")
	assert.Equal(t, 1, f.callCount(), "debounced keystroke must not fetch yet")

	c.SetSearch("")
	assert.Equal(t, 1, f.callCount(), "empty draft equals the committed text")

	// Commit a value first, then clearing bypasses the debounce.
	base := f.callCount()
	c2 := NewListController(f.fetch, nil, 10*time.Millisecond)
	defer c2.Close()
	waitForCalls(t, f, base+1)

	c2.SetSearch("abc")
	waitForCalls(t, f, base+2)
	c2.SetSearch("")
	waitForCalls(t, f, base+3)
	assert.Empty(t, f.lastCall().SearchText)
}

func TestFilterAndSortChangesResetPage(t *testing.T) {
	f := &recordingFetcher{page: pageOf(50)}
	c := NewListController(f.fetch, nil, time.Millisecond)
	defer c.Close()
	waitForCalls(t, f, 1)
	waitSettled(t, c)

	require.True(t, c.SetPage(3))
	waitForCalls(t, f, 2)
	assert.Equal(t, 3, f.lastCall().Page)

	c.SetStatusFilter([]string{models.StatusProcessando})
	waitForCalls(t, f, 3)
	d := f.lastCall()
	assert.Equal(t, 1, d.Page)
	assert.Equal(t, []string{models.StatusProcessando}, d.StatusFilter)

	require.True(t, c.SetPage(2))
	waitForCalls(t, f, 4)
	c.SetSort("filename")
	waitForCalls(t, f, 5)
	d = f.lastCall()
	assert.Equal(t, 1, d.Page)
	assert.Equal(t, "filename", d.SortField)
	assert.Equal(t, "asc", d.SortDirection)
}

func TestSortToggleCycles(t *testing.T) {
	f := &recordingFetcher{page: pageOf(0)}
	c := NewListController(f.fetch, nil, time.Millisecond)
	defer c.Close()
	waitForCalls(t, f, 1)

	c.SetSort("filename")
	waitForCalls(t, f, 2)
	assert.Equal(t, "asc", f.lastCall().SortDirection)

	c.SetSort("filename")
	waitForCalls(t, f, 3)
	assert.Equal(t, "desc", f.lastCall().SortDirection)

	c.SetSort("status")
	waitForCalls(t, f, 4)
	d := f.lastCall()
	assert.Equal(t, "status", d.SortField)
	assert.Equal(t, "asc", d.SortDirection)
}

func TestPageNavigationBounds(t *testing.T) {
	f := &recordingFetcher{page: pageOf(25)} // 3 pages at size 10
	c := NewListController(f.fetch, nil, time.Millisecond)
	defer c.Close()
	waitForCalls(t, f, 1)
	waitSettled(t, c)

	assert.False(t, c.SetPage(0))
	assert.False(t, c.SetPage(4))
	assert.False(t, c.SetPage(1), "already on page 1")
	assert.Equal(t, 1, f.callCount(), "rejected navigation must not fetch")

	require.True(t, c.SetPage(3))
	waitForCalls(t, f, 2)
	assert.Equal(t, 3, f.lastCall().Page)
}

func TestEmptyResultRejectsAllNavigation(t *testing.T) {
	f := &recordingFetcher{page: pageOf(0)}
	c := NewListController(f.fetch, nil, time.Millisecond)
	defer c.Close()
	waitForCalls(t, f, 1)
	waitSettled(t, c)

	assert.Equal(t, 0, c.State().TotalPages())
	assert.False(t, c.SetPage(1))
	assert.False(t, c.SetPage(2))
	assert.Equal(t, 1, f.callCount())
}

func TestPageSizeValidatedAndResetsPage(t *testing.T) {
	f := &recordingFetcher{page: pageOf(120)}
	c := NewListController(f.fetch, nil, time.Millisecond)
	defer c.Close()
	waitForCalls(t, f, 1)
	waitSettled(t, c)

	assert.False(t, c.SetPageSize(7))
	assert.Equal(t, 1, f.callCount())

	require.True(t, c.SetPage(2))
	waitForCalls(t, f, 2)
	require.True(t, c.SetPageSize(50))
	waitForCalls(t, f, 3)
	d := f.lastCall()
	assert.Equal(t, 50, d.PageSize)
	assert.Equal(t, 1, d.Page)
}

func TestStaleFetchIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	var mu sync.Mutex
	var calls int

	fetch := func(_ context.Context, d Descriptor) (*models.ContratoPage, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			// First fetch finishes after the second already applied.
			<-release
			return pageOf(1, models.Contrato{ID: "stale"}), nil
		}
		return pageOf(1, models.Contrato{ID: "fresh"}), nil
	}

	c := NewListController(fetch, nil, time.Millisecond)
	defer c.Close()

	c.SetSort("filename")
	require.Eventually(t, func() bool {
		state := c.State()
		return !state.Loading && len(state.Items) == 1
	}, time.Second, 5*time.Millisecond)

	close(release)
	time.Sleep(20 * time.Millisecond)

	state := c.State()
	assert.Equal(t, "fresh", state.Items[0].ID, "slow first response must not win")
}

func TestFetchErrorRaisesNotification(t *testing.T) {
	notifications := store.NewNotifications()
	f := &recordingFetcher{err: errors.New("Erro de conexão com o servidor")}
	c := NewListController(f.fetch, notifications, time.Millisecond)
	defer c.Close()
	waitSettled(t, c)

	state := c.State()
	assert.Equal(t, "Erro de conexão com o servidor", state.Error)
	assert.Empty(t, state.Items)

	toasts := notifications.List()
	require.Len(t, toasts, 1)
	assert.Equal(t, store.TypeError, toasts[0].Type)
	assert.Equal(t, "Erro de conexão com o servidor", toasts[0].Message)
}

func TestRefreshRepeatsCurrentDescriptor(t *testing.T) {
	f := &recordingFetcher{page: pageOf(30)}
	c := NewListController(f.fetch, nil, time.Millisecond)
	defer c.Close()
	waitForCalls(t, f, 1)
	waitSettled(t, c)

	require.True(t, c.SetPage(2))
	waitForCalls(t, f, 2)

	c.Refresh()
	waitForCalls(t, f, 3)
	assert.Equal(t, 2, f.lastCall().Page, "refresh keeps the page")
}
