package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/debemdeboas/postdeck/internal/model"
	"github.com/debemdeboas/postdeck/internal/theme"
)

const (
	fieldTitle = iota
	fieldBody
)

// postForm is the title and body editor shared by the create form and the
// edit dialog.
type postForm struct {
	title textinput.Model
	body  textarea.Model
	field int
}

func newPostForm(width int) postForm {
	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = model.MaxTitleLen * 2
	title.Prompt = ""

	body := textarea.New()
	body.Placeholder = "Body"
	body.CharLimit = model.MaxBodyLen * 2
	body.ShowLineNumbers = false
	body.SetHeight(4)

	f := postForm{title: title, body: body}
	f.setWidth(width)
	return f
}

func (f *postForm) setWidth(width int) {
	if width < 20 {
		width = 20
	}
	f.title.Width = width
	f.body.SetWidth(width)
}

func (f *postForm) focus() tea.Cmd {
	if f.field == fieldBody {
		f.title.Blur()
		return f.body.Focus()
	}
	f.body.Blur()
	return f.title.Focus()
}

func (f *postForm) blur() {
	f.title.Blur()
	f.body.Blur()
}

func (f *postForm) nextField() tea.Cmd {
	f.field = (f.field + 1) % 2
	return f.focus()
}

func (f *postForm) set(title, body string) {
	f.title.SetValue(title)
	f.body.SetValue(body)
}

func (f *postForm) reset() {
	f.title.Reset()
	f.body.Reset()
	f.field = fieldTitle
}

func (f postForm) input() model.PostInput {
	return model.PostInput{Title: f.title.Value(), Body: f.body.Value()}
}

func (f postForm) update(msg tea.Msg) (postForm, tea.Cmd) {
	var cmd tea.Cmd
	if f.field == fieldBody {
		f.body, cmd = f.body.Update(msg)
	} else {
		f.title, cmd = f.title.Update(msg)
	}
	return f, cmd
}

func (f postForm) view(s theme.Styles) string {
	in := f.input()
	return strings.Join([]string{
		fieldLabel(s, "Title", in.Title, model.MinTitleLen, model.MaxTitleLen),
		f.title.View(),
		"",
		fieldLabel(s, "Body", in.Body, model.MinBodyLen, model.MaxBodyLen),
		f.body.View(),
	}, "\n")
}

// fieldLabel renders the label with a character counter that turns red while
// the value is out of bounds.
func fieldLabel(s theme.Styles, name, value string, lo, hi int) string {
	n := utf8.RuneCountInString(value)
	counter := s.Muted.Render(fmt.Sprintf("%d/%d", n, hi))
	if n < lo || n > hi {
		counter = s.Error.Render(fmt.Sprintf("%d/%d (min %d)", n, hi, lo))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, s.Label.Render(name), " ", counter)
}
