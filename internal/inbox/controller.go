package inbox

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/portfolio/backend/internal/model"
	"github.com/samber/lo"
)

// NoticeKind classifies a Notice.
type NoticeKind string

const NoticeError NoticeKind = "error"

// Notice is a dismissible message for the operator.
type Notice struct {
	Kind NoticeKind
	Text string
}

const (
	noticeFetchFailed  = "Could not load messages. The list may be out of date."
	noticeDeleteFailed = "Could not delete the message. Nothing was changed."
)

// View is the render-time snapshot of a Controller.
type View struct {
	Messages []model.Message
	Selected *model.Message
	// Loading is true until the first Load settles.
	Loading bool
	// Empty is true only once loading is over and there are no messages.
	Empty         bool
	PendingDelete string
	Notice        *Notice
}

// Count returns the number of listed messages.
func (v View) Count() int { return len(v.Messages) }

// PendingMessage returns the listed message awaiting delete confirmation,
// or nil. It need not be the selected one.
func (v View) PendingMessage() *model.Message {
	if v.PendingDelete == "" {
		return nil
	}
	m, ok := lo.Find(v.Messages, func(m model.Message) bool { return m.ID == v.PendingDelete })
	if !ok {
		return nil
	}
	return &m
}

// IsSelected reports whether id is the selected message.
func (v View) IsSelected(id string) bool {
	return v.Selected != nil && v.Selected.ID == id
}

// Controller owns the message list and the selection for one admin-surface
// entry. It is safe for concurrent use.
type Controller struct {
	store   Store
	session Session
	logger  *slog.Logger

	mu       sync.Mutex
	messages []model.Message
	selected *model.Message
	loading  bool
	pending  string
	notice   *Notice
}

// NewController creates a Controller in the loading state.
func NewController(store Store, sess Session) *Controller {
	return &Controller{
		store:   store,
		session: sess,
		logger:  slog.Default().With("component", "inbox"),
		loading: true,
	}
}

// Session returns the session the controller acts for.
func (c *Controller) Session() Session { return c.session }

// Load replaces the list with a fresh snapshot from the store, in the order
// the store returned it. A selection that is still listed is re-pointed at
// the fresh copy; one that disappeared is cleared. On failure the list is
// left exactly as it was and a notice is raised.
func (c *Controller) Load(ctx context.Context) error {
	msgs, err := c.store.ListMessages(ctx, c.session)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.logger.Error("fetch messages failed", "error", err)
		c.notice = &Notice{Kind: NoticeError, Text: noticeFetchFailed}
		return &FetchError{Err: err}
	}
	c.messages = slices.Clone(msgs)
	if c.selected != nil {
		id := c.selected.ID
		if fresh, ok := lo.Find(c.messages, func(m model.Message) bool { return m.ID == id }); ok {
			c.selected = &fresh
		} else {
			c.selected = nil
		}
	}
	return nil
}

// Select makes m the selected message.
func (c *Controller) Select(m model.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = &m
}

// SelectByID selects the listed message with the given id. It reports false
// and leaves the selection alone when no such message is listed.
func (c *Controller) SelectByID(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := lo.Find(c.messages, func(m model.Message) bool { return m.ID == id })
	if !ok {
		return false
	}
	c.selected = &m
	return true
}

// RequestDelete puts the controller in PendingDelete(id). Nothing is sent
// to the store until Confirm.
func (c *Controller) RequestDelete(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = id
}

// Cancel drops a pending delete. List and selection are untouched.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = ""
}

// Confirm deletes the pending message. It is a no-op when nothing is pending.
func (c *Controller) Confirm(ctx context.Context) error {
	c.mu.Lock()
	id := c.pending
	c.pending = ""
	c.mu.Unlock()

	if id == "" {
		return nil
	}
	return c.remove(ctx, id)
}

// Remove deletes id after confirm approves it. A declined confirmation does
// nothing at all.
func (c *Controller) Remove(ctx context.Context, id string, confirm func(id string) bool) error {
	if !confirm(id) {
		return nil
	}
	return c.remove(ctx, id)
}

func (c *Controller) remove(ctx context.Context, id string) error {
	err := c.store.DeleteMessage(ctx, c.session, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.logger.Error("delete message failed", "id", id, "error", err)
		c.notice = &Notice{Kind: NoticeError, Text: noticeDeleteFailed}
		return &DeleteError{ID: id, Err: err}
	}
	// list and selection change together under one lock
	c.messages = lo.Reject(c.messages, func(m model.Message, _ int) bool { return m.ID == id })
	if c.selected != nil && c.selected.ID == id {
		c.selected = nil
	}
	c.logger.Info("message deleted", "id", id)
	return nil
}

// Logout ends the session and returns where to navigate next, which is the
// login path whether or not sign-out succeeded.
func (c *Controller) Logout(ctx context.Context) string {
	if err := c.store.SignOut(ctx, c.session); err != nil {
		c.logger.Warn("sign-out failed", "error", err)
	}
	return LoginPath
}

// DismissNotice clears the current notice.
func (c *Controller) DismissNotice() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notice = nil
}

// View returns a snapshot safe to hand to a template.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := View{
		Messages:      slices.Clone(c.messages),
		Loading:       c.loading,
		Empty:         !c.loading && len(c.messages) == 0,
		PendingDelete: c.pending,
	}
	if c.selected != nil {
		sel := *c.selected
		v.Selected = &sel
	}
	if c.notice != nil {
		n := *c.notice
		v.Notice = &n
	}
	return v
}
