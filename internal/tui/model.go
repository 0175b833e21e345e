// Package tui is the interactive posts view: a list with a create form and
// an edit dialog, driven by the store.
package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/postdeck/internal/config"
	"github.com/debemdeboas/postdeck/internal/model"
	"github.com/debemdeboas/postdeck/internal/store"
	"github.com/debemdeboas/postdeck/internal/theme"
)

var tuiLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	tuiLogger = l
}

type focus int

const (
	focusList focus = iota
	focusCreate
	focusEdit
)

type toastKind int

const (
	toastSuccess toastKind = iota
	toastError
)

type toast struct {
	kind toastKind
	text string
	seq  int
}

// editDialog holds the snapshot of the post being edited. The store copy is
// untouched until the update succeeds.
type editDialog struct {
	id         model.PostID
	original   string
	form       postForm
	submitting bool
}

func (d editDialog) draft() model.Draft {
	in := d.form.input()
	return model.Draft{ID: d.id, Title: in.Title, Body: in.Body}
}

type Model struct {
	ctx    context.Context
	store  *store.Store
	keys   KeyMap
	styles theme.Styles
	syntax config.SyntaxConfig

	state  store.State
	cursor int
	focus  focus

	create   postForm
	creating bool
	edit     *editDialog

	toast   *toast
	toastID int

	spinner spinner.Model

	changes     chan store.State
	unsubscribe func()

	width  int
	height int
}

// New builds the view over s. The view subscribes to s; the subscription
// ends when the program quits.
func New(s *store.Store, cfg config.ThemeConfig) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:     context.Background(),
		store:   s,
		keys:    DefaultKeyMap,
		styles:  theme.New(cfg.Default, cfg.SyntaxHighlighting),
		syntax:  cfg.SyntaxHighlighting,
		state:   s.State(),
		create:  newPostForm(60),
		spinner: sp,
		changes: make(chan store.State, 1),
	}
	m.spinner.Style = m.styles.Title.UnsetMarginBottom()

	changes := m.changes
	m.unsubscribe = s.Subscribe(func(state store.State) {
		// Keep only the newest state if the view falls behind.
		select {
		case changes <- state:
		default:
			select {
			case <-changes:
			default:
			}
			select {
			case changes <- state:
			default:
			}
		}
	})

	return m
}

// Init issues the initial fetch. It is the only fetch the view makes.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		fetchPosts(m.ctx, m.store),
		listenForState(m.changes),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.create.setWidth(m.formWidth())
		if m.edit != nil {
			m.edit.form.setWidth(m.formWidth())
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case stateMsg:
		// The store may have moved on since msg was published.
		m.setState(m.store.State())
		return m, listenForState(m.changes)

	case fetchDoneMsg:
		m.setState(m.store.State())
		if msg.err != nil {
			next := m.showToast(toastError, fmt.Sprintf(config.ErrFetchPostsFmt, msg.err))
			return m, next
		}
		return m, nil

	case createDoneMsg:
		m.setState(m.store.State())
		m.creating = false
		if msg.err != nil {
			tuiLogger.Error().Err(msg.err).Msg("Create failed")
			next := m.showToast(toastError, fmt.Sprintf(config.ErrAddPostFmt, msg.err))
			return m, next
		}
		m.create.reset()
		var cmd tea.Cmd
		if m.focus == focusCreate {
			cmd = m.create.focus()
		}
		m.cursor = len(m.state.Posts) - 1
		next := m.showToast(toastSuccess, config.MsgPostAdded)
		return m, tea.Batch(cmd, next)

	case updateDoneMsg:
		m.setState(m.store.State())
		open := m.edit != nil && m.edit.id == msg.id
		if msg.err != nil {
			tuiLogger.Error().Err(msg.err).Str("post_id", msg.id.String()).Msg("Update failed")
			if open {
				m.edit.submitting = false
			}
			next := m.showToast(toastError, fmt.Sprintf(config.ErrUpdatePostFmt, msg.err))
			return m, next
		}
		if open {
			m.closeEdit()
		}
		next := m.showToast(toastSuccess, config.MsgPostUpdated)
		return m, next

	case deleteDoneMsg:
		m.setState(m.store.State())
		if msg.err != nil {
			tuiLogger.Error().Err(msg.err).Str("post_id", msg.id.String()).Msg("Delete failed")
			next := m.showToast(toastError, fmt.Sprintf(config.ErrDeletePostFmt, msg.err))
			return m, next
		}
		next := m.showToast(toastSuccess, config.MsgPostDeleted)
		return m, next

	case toastExpiredMsg:
		if m.toast != nil && m.toast.seq == msg.seq {
			m.toast = nil
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m.quit()
	}

	switch m.focus {
	case focusCreate:
		return m.handleCreateKeys(msg)
	case focusEdit:
		return m.handleEditKeys(msg)
	}
	return m.handleListKeys(msg)
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.state.Posts)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.New):
		m.focus = focusCreate
		next := m.create.focus()
		return m, next

	case key.Matches(msg, m.keys.Edit):
		post, ok := m.selected()
		if !ok {
			return m, nil
		}
		next := m.openEdit(post)
		return m, next

	case key.Matches(msg, m.keys.Delete):
		post, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, deletePost(m.ctx, m.store, post.ID)

	case key.Matches(msg, m.keys.Theme):
		m.styles = theme.New(theme.Toggle(m.styles.Name), m.syntax)
		m.spinner.Style = m.styles.Title.UnsetMarginBottom()
	}

	return m, nil
}

func (m Model) handleCreateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.create.blur()
		m.focus = focusList
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		next := m.create.nextField()
		return m, next

	case key.Matches(msg, m.keys.Submit):
		return m.submitCreate()
	}

	var cmd tea.Cmd
	m.create, cmd = m.create.update(msg)
	return m, cmd
}

// submitCreate validates the draft and issues the create. The draft stays in
// the form until the create succeeds.
func (m Model) submitCreate() (tea.Model, tea.Cmd) {
	if m.creating {
		return m, nil
	}

	in := m.create.input()
	if err := model.ValidatePost(in); err != nil {
		next := m.showToast(toastError, validationMessage(err))
		return m, next
	}

	m.creating = true
	return m, createPost(m.ctx, m.store, in)
}

// CanCreate reports whether the create control is enabled.
func (m Model) CanCreate() bool {
	return !m.creating && model.CanSubmit(m.create.input())
}

func (m Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		// Discard the snapshot.
		m.closeEdit()
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		return m, m.edit.form.nextField()

	case key.Matches(msg, m.keys.Submit):
		if m.edit.submitting {
			return m, nil
		}
		draft := m.edit.draft()
		if err := model.ValidatePost(draft.Input()); err != nil {
			next := m.showToast(toastError, validationMessage(err))
			return m, next
		}
		m.edit.submitting = true
		return m, updatePost(m.ctx, m.store, draft.ID, draft.Input())
	}

	var cmd tea.Cmd
	m.edit.form, cmd = m.edit.form.update(msg)
	return m, cmd
}

// openEdit snapshots post into a new dialog.
func (m *Model) openEdit(post model.Post) tea.Cmd {
	snapshot := model.DraftOf(post)

	form := newPostForm(m.formWidth())
	form.set(snapshot.Title, snapshot.Body)

	m.create.blur()
	m.edit = &editDialog{id: snapshot.ID, original: post.Title, form: form}
	m.focus = focusEdit
	return m.edit.form.focus()
}

func (m *Model) closeEdit() {
	m.edit = nil
	m.focus = focusList
}

func (m *Model) setState(state store.State) {
	m.state = state
	if m.cursor >= len(state.Posts) {
		m.cursor = len(state.Posts) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) selected() (model.Post, bool) {
	if m.cursor < 0 || m.cursor >= len(m.state.Posts) {
		return model.Post{}, false
	}
	return m.state.Posts[m.cursor], true
}

func (m *Model) showToast(kind toastKind, text string) tea.Cmd {
	m.toastID++
	m.toast = &toast{kind: kind, text: text, seq: m.toastID}
	return expireToast(m.toastID)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	return m, tea.Quit
}

func (m Model) formWidth() int {
	if m.width == 0 {
		return 60
	}
	return min(m.width-8, 80)
}

func validationMessage(err error) string {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}
	return err.Error()
}
