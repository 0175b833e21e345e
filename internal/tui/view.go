package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/debemdeboas/postdeck/internal/model"
	"github.com/debemdeboas/postdeck/internal/theme"
)

func (m Model) View() string {
	if m.edit != nil {
		dialog := m.renderEditDialog()
		if m.width > 0 && m.height > 0 {
			dialog = lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, dialog)
		}
		return dialog
	}

	sections := []string{m.renderHeader()}

	if m.state.Loading {
		sections = append(sections, m.spinner.View()+" Loading posts…")
	} else {
		sections = append(sections, m.renderList())
	}

	sections = append(sections, "", m.renderCreateForm())
	if t := m.renderToast(); t != "" {
		sections = append(sections, "", t)
	}
	sections = append(sections, m.renderHelp())

	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	title := fmt.Sprintf("Posts (%d)", len(m.state.Posts))
	return m.styles.Title.Render(title + "  " + theme.GetThemeIcon(m.styles.Name))
}

func (m Model) renderList() string {
	if len(m.state.Posts) == 0 {
		return m.styles.Muted.Render("No posts yet.")
	}

	width := m.width - 4
	if width <= 0 {
		width = 76
	}

	var b strings.Builder
	for i, post := range m.state.Posts {
		head := fmt.Sprintf("%s - %s", post.ID, post.Title)
		body := truncate(strings.ReplaceAll(post.Body, "\n", " "), width)

		style := m.styles.Item
		if i == m.cursor && m.focus == focusList {
			style = m.styles.Selected
		}
		b.WriteString(style.Render(head + "\n" + m.styles.Muted.Render(body)))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderCreateForm() string {
	label := "New post"
	if m.focus != focusCreate {
		label += m.styles.Muted.Render(" (" + m.keys.New.Help().Key + ")")
	}

	button := m.styles.ButtonDisabled.Render("Add Post")
	if m.CanCreate() {
		button = m.styles.Button.Render("Add Post")
	}
	if m.creating {
		button = m.styles.ButtonDisabled.Render("Adding…")
	}

	return strings.Join([]string{
		m.styles.Label.Render(label),
		m.create.view(m.styles),
		button,
	}, "\n")
}

func (m Model) renderEditDialog() string {
	button := m.styles.Button.Render("Update Post")
	if m.edit.submitting {
		button = m.styles.ButtonDisabled.Render("Updating…")
	} else if !model.CanSubmit(m.edit.draft().Input()) {
		button = m.styles.ButtonDisabled.Render("Update Post")
	}

	parts := []string{
		m.styles.Title.Render(m.edit.original),
		m.edit.form.view(m.styles),
		"",
		button + "  " + m.styles.Muted.Render("esc close"),
	}
	if t := m.renderToast(); t != "" {
		parts = append(parts, "", t)
	}
	return m.styles.Dialog.Render(strings.Join(parts, "\n"))
}

func (m Model) renderToast() string {
	if m.toast == nil {
		return ""
	}
	if m.toast.kind == toastError {
		return m.styles.Error.Render("✗ " + m.toast.text)
	}
	return m.styles.Success.Render("✓ " + m.toast.text)
}

func (m Model) renderHelp() string {
	var bindings []key.Binding
	switch m.focus {
	case focusCreate, focusEdit:
		bindings = []key.Binding{m.keys.NextField, m.keys.Submit, m.keys.Cancel}
	default:
		bindings = []key.Binding{m.keys.Up, m.keys.Down, m.keys.New, m.keys.Edit, m.keys.Delete, m.keys.Theme, m.keys.Quit}
	}

	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return m.styles.Help.Render(strings.Join(parts, " • "))
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
