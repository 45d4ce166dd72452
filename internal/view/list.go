// Package view contains the client-side view controllers: reactive state
// machines that sit between the CLI surface and the API client, mirroring
// the page hooks of the original web client.
package view

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/sistema-laudos/laudos-go/internal/models"
	"github.com/sistema-laudos/laudos-go/internal/store"
)

// DefaultDebounce is the quiet window applied to search input.
const DefaultDebounce = 300 * time.Millisecond

// PageSizes are the selectable page sizes.
var PageSizes = []int{10, 25, 50, 100}

// Descriptor is the query tuple driving a list fetch. Changing any field
// except Page resets Page to 1.
type Descriptor struct {
	Page          int
	PageSize      int
	SortField     string
	SortDirection string
	StatusFilter  []string
	SearchText    string
}

// Fetcher loads one page of contracts for a descriptor.
type Fetcher func(ctx context.Context, d Descriptor) (*models.ContratoPage, error)

// ListState is the observable controller snapshot.
type ListState struct {
	Items       []models.Contrato
	Total       int
	Loading     bool
	Error       string
	Descriptor  Descriptor
	SearchDraft string
}

// TotalPages derives the page count; zero items means zero pages.
func (s ListState) TotalPages() int {
	if s.Descriptor.PageSize <= 0 || s.Total <= 0 {
		return 0
	}
	return (s.Total + s.Descriptor.PageSize - 1) / s.Descriptor.PageSize
}

// ListController drives a paginated, filtered, sorted and searched contract
// listing. Every descriptor change re-fetches; a generation counter tags
// each in-flight fetch so a slow stale response can never overwrite state
// produced by a newer descriptor.
type ListController struct {
	mu            sync.Mutex
	fetch         Fetcher
	notifications *store.Notifications
	debounce      time.Duration

	desc    Descriptor
	draft   string
	items   []models.Contrato
	total   int
	loading bool
	errMsg  string

	generation  uint64
	searchTimer *time.Timer
	listeners   map[int]func(ListState)
	nextSub     int
	closed      bool

	ctx    context.Context
	cancel context.CancelFunc
}

// NewListController creates the controller and issues the initial fetch.
// A non-positive debounce falls back to DefaultDebounce.
func NewListController(fetch Fetcher, notifications *store.Notifications, debounce time.Duration) *ListController {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := &ListController{
		fetch:         fetch,
		notifications: notifications,
		debounce:      debounce,
		desc: Descriptor{
			Page:          1,
			PageSize:      10,
			SortField:     "created_at",
			SortDirection: "desc",
		},
		listeners: make(map[int]func(ListState)),
		ctx:       ctx,
		cancel:    cancel,
	}

	c.mu.Lock()
	c.fetchLocked()
	return c
}

// State returns the current snapshot.
func (c *ListController) State() ListState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// Subscribe registers a listener and returns an unsubscribe function.
func (c *ListController) Subscribe(l func(ListState)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSub
	c.nextSub++
	c.listeners[id] = l
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

// Refresh re-fetches the current descriptor, for external triggers such as
// a completed delete.
func (c *ListController) Refresh() {
	c.mu.Lock()
	c.fetchLocked()
}

// SetPage navigates to a page. Requests outside [1, totalPages] are
// rejected with no state change and no fetch; with zero results every
// navigation is rejected.
func (c *ListController) SetPage(page int) bool {
	c.mu.Lock()

	if page < 1 || page > c.stateLocked().TotalPages() || page == c.desc.Page {
		c.mu.Unlock()
		return false
	}
	c.desc.Page = page
	c.fetchLocked()
	return true
}

// SetPageSize switches the page size and returns to page 1. Sizes outside
// PageSizes are rejected.
func (c *ListController) SetPageSize(size int) bool {
	if !slices.Contains(PageSizes, size) {
		return false
	}

	c.mu.Lock()
	if size == c.desc.PageSize {
		c.mu.Unlock()
		return true
	}
	c.desc.PageSize = size
	c.desc.Page = 1
	c.fetchLocked()
	return true
}

// SetSort sorts by field. Selecting the current field toggles direction;
// a new field starts ascending. Page returns to 1 either way.
func (c *ListController) SetSort(field string) {
	c.mu.Lock()

	if c.desc.SortField == field {
		if c.desc.SortDirection == "asc" {
			c.desc.SortDirection = "desc"
		} else {
			c.desc.SortDirection = "asc"
		}
	} else {
		c.desc.SortField = field
		c.desc.SortDirection = "asc"
	}
	c.desc.Page = 1
	c.fetchLocked()
}

// SetStatusFilter replaces the status filter set. Page returns to 1.
// Passing the current set is a no-op.
func (c *ListController) SetStatusFilter(statuses []string) {
	c.mu.Lock()

	if slices.Equal(statuses, c.desc.StatusFilter) {
		c.mu.Unlock()
		return
	}
	c.desc.StatusFilter = slices.Clone(statuses)
	c.desc.Page = 1
	c.fetchLocked()
}

// SetSearch records a keystroke. The draft updates immediately; the
// descriptor (and fetch) follows only after the debounce window passes with
// no further keystrokes. Clearing the input applies immediately.
func (c *ListController) SetSearch(text string) {
	c.mu.Lock()

	c.draft = text
	if c.searchTimer != nil {
		c.searchTimer.Stop()
		c.searchTimer = nil
	}

	if text == "" {
		c.applySearchLocked(text)
		return
	}

	c.searchTimer = time.AfterFunc(c.debounce, func() {
		c.mu.Lock()
		if c.closed || c.draft != text {
			c.mu.Unlock()
			return
		}
		c.applySearchLocked(text)
	})
	c.notifyLocked()
}

// Close cancels the pending debounce timer and orphans in-flight fetches so
// nothing updates the controller afterwards.
func (c *ListController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	if c.searchTimer != nil {
		c.searchTimer.Stop()
		c.searchTimer = nil
	}
	c.cancel()
}

// applySearchLocked commits the search text, resets the page and fetches.
// Releases c.mu through the notify chain.
func (c *ListController) applySearchLocked(text string) {
	if c.desc.SearchText == text {
		c.mu.Unlock()
		return
	}
	c.desc.SearchText = text
	c.desc.Page = 1
	c.fetchLocked()
}

// fetchLocked starts a fetch for the current descriptor. Caller holds c.mu;
// the lock is released via notifyLocked. The bumped generation invalidates
// every older in-flight fetch.
func (c *ListController) fetchLocked() {
	if c.closed {
		c.mu.Unlock()
		return
	}

	c.generation++
	generation := c.generation
	descriptor := c.desc
	descriptor.StatusFilter = slices.Clone(c.desc.StatusFilter)

	c.loading = true
	c.errMsg = ""

	go func() {
		page, err := c.fetch(c.ctx, descriptor)

		c.mu.Lock()
		if c.closed || generation != c.generation {
			// A newer descriptor superseded this fetch.
			c.mu.Unlock()
			return
		}
		c.loading = false
		if err != nil {
			c.errMsg = err.Error()
			c.items = nil
			// Inline error plus ambient toast, both on purpose.
			if c.notifications != nil {
				c.notifications.Error(err.Error())
			}
		} else if page != nil {
			c.items = page.Items
			c.total = page.Total
		} else {
			c.items = nil
			c.total = 0
		}
		c.notifyLocked()
	}()

	c.notifyLocked()
}

func (c *ListController) stateLocked() ListState {
	return ListState{
		Items:       slices.Clone(c.items),
		Total:       c.total,
		Loading:     c.loading,
		Error:       c.errMsg,
		Descriptor:  c.desc,
		SearchDraft: c.draft,
	}
}

// notifyLocked snapshots, unlocks and fans out.
func (c *ListController) notifyLocked() {
	snapshot := c.stateLocked()
	listeners := make([]func(ListState), 0, len(c.listeners))
	for _, l := range c.listeners {
		listeners = append(listeners, l)
	}
	c.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}
