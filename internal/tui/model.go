// Package tui is a terminal front end for the browsing core, built on
// bubbletea.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kdimtricp/cinescroll/internal/browse"
	"github.com/kdimtricp/cinescroll/internal/models"
)

const startTimeout = 15 * time.Second

// Browser is the part of browse.Orchestrator the model drives.
type Browser interface {
	Start(ctx context.Context)
	SetSearch(text string) bool
	ToggleGenre(genreID int) bool
	SetRating(floor *float64) bool
	ClearFilters() bool
	SentinelReached(movieID int) bool
}

type DetailOpener interface {
	Open(movieID int)
	CloseModal()
}

type focus int

const (
	focusList focus = iota
	focusSearch
	focusGenres
)

type Model struct {
	browser Browser
	detail  DetailOpener
	search  *browse.Debouncer[string]

	input   textinput.Model
	spinner spinner.Model

	movies      []models.Movie
	genres      []models.Genre
	selected    map[int]bool
	rating      *float64
	focus       focus
	cursor      int
	genreCursor int
	loading     int
	status      string
	empty       bool
	modal       *browse.DetailView

	width  int
	height int
}

func New(browser Browser, detail DetailOpener, debounce time.Duration) Model {
	ti := textinput.New()
	ti.Placeholder = "Search movies..."
	ti.Prompt = "/ "
	ti.CharLimit = 100
	ti.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	return Model{
		browser:  browser,
		detail:   detail,
		search:   browse.NewDebouncer(debounce, func(text string) { browser.SetSearch(text) }),
		input:    ti,
		spinner:  sp,
		selected: make(map[int]bool),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.start)
}

func (m Model) start() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	defer cancel()
	m.browser.Start(ctx)
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-20, 10)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case moviesMsg:
		if msg.replace {
			m.movies = msg.movies
			m.cursor = 0
			m.status = ""
		} else {
			m.movies = append(m.movies, msg.movies...)
		}
		m.empty = false
		return m, nil

	case genresMsg:
		m.genres = msg.genres
		if m.genreCursor >= len(m.genres) {
			m.genreCursor = 0
		}
		return m, nil

	case highlightMsg:
		m.selected = make(map[int]bool, len(msg.selected))
		for _, id := range msg.selected {
			m.selected[id] = true
		}
		return m, nil

	case loadingMsg:
		if msg.loading {
			m.loading++
		} else if m.loading > 0 {
			m.loading--
		}
		return m, nil

	case errorMsg:
		m.status = msg.message
		return m, nil

	case emptyMsg:
		m.movies = nil
		m.cursor = 0
		m.empty = true
		m.status = ""
		return m, nil

	case modalMsg:
		view := msg.view
		m.modal = &view
		return m, nil

	case closeModalMsg:
		m.modal = nil
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	if m.modal != nil {
		switch key {
		case "esc":
			m.detail.CloseModal()
		case "q":
			return m, tea.Quit
		}
		return m, nil
	}

	if m.focus == focusSearch {
		return m.updateSearch(msg)
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "/":
		m.focus = focusSearch
		return m, m.input.Focus()
	case "tab":
		if m.focus == focusGenres {
			m.focus = focusList
		} else {
			m.focus = focusGenres
		}
		return m, nil
	case "c":
		m.search.Cancel()
		m.input.SetValue("")
		m.rating = nil
		m.browser.ClearFilters()
		return m, nil
	case "0":
		m.rating = nil
		m.browser.SetRating(nil)
		return m, nil
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		v, _ := strconv.ParseFloat(key, 64)
		m.rating = &v
		m.browser.SetRating(&v)
		return m, nil
	}

	if m.focus == focusGenres {
		return m.updateGenres(key)
	}
	return m.updateList(key)
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.focus = focusList
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		m.focus = focusList
		m.input.Blur()
		m.search.Flush()
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if value := m.input.Value(); value != before {
		m.search.Schedule(value)
	}
	return m, cmd
}

func (m Model) updateGenres(key string) (tea.Model, tea.Cmd) {
	if len(m.genres) == 0 {
		return m, nil
	}
	switch key {
	case "left", "h":
		if m.genreCursor > 0 {
			m.genreCursor--
		}
	case "right", "l":
		if m.genreCursor < len(m.genres)-1 {
			m.genreCursor++
		}
	case " ", "enter":
		m.browser.ToggleGenre(m.genres[m.genreCursor].ID)
	}
	return m, nil
}

func (m Model) updateList(key string) (tea.Model, tea.Cmd) {
	if len(m.movies) == 0 {
		return m, nil
	}
	switch key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.movies)-1 {
			m.cursor++
		}
		if m.cursor == len(m.movies)-1 {
			m.browser.SentinelReached(m.movies[m.cursor].ID)
		}
	case "enter":
		m.detail.Open(m.movies[m.cursor].ID)
	}
	return m, nil
}

func (m Model) View() string {
	if m.modal != nil {
		return m.modalView()
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("CineScroll"))
	b.WriteString("\n\n")

	b.WriteString(m.input.View())
	b.WriteString("   ")
	if m.rating != nil {
		b.WriteString(ratingStyle.Render(fmt.Sprintf("rating ≥ %s", browse.FormatRating(m.rating))))
	} else {
		b.WriteString(helpStyle.Render("any rating"))
	}
	b.WriteString("\n\n")

	b.WriteString(m.genreLine())
	b.WriteString("\n\n")

	switch {
	case m.status != "":
		b.WriteString(errorStyle.Render(m.status))
		b.WriteString("\n")
	case m.empty:
		b.WriteString(helpStyle.Render("No movies found."))
		b.WriteString("\n")
	}

	b.WriteString(m.listView())

	if m.loading > 0 {
		b.WriteString("\n")
		b.WriteString(m.spinner.View())
		b.WriteString(" Loading...")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("/ search • tab genres • space toggle • 1-9 rating • 0 any • c clear • enter details • q quit"))
	return b.String()
}

func (m Model) genreLine() string {
	if len(m.genres) == 0 {
		return helpStyle.Render("no genres")
	}
	tags := make([]string, 0, len(m.genres))
	for i, g := range m.genres {
		style := tagStyle
		if m.selected[g.ID] {
			style = selectedTagStyle
		}
		if m.focus == focusGenres && i == m.genreCursor {
			style = style.Underline(true)
		}
		tags = append(tags, style.Render(g.Name))
	}
	return lipgloss.NewStyle().Width(max(m.width, 40)).Render(strings.Join(tags, " "))
}

func (m Model) listView() string {
	if len(m.movies) == 0 {
		return ""
	}

	rows := m.height - 12
	if rows < 5 {
		rows = 5
	}
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	end := min(start+rows, len(m.movies))

	var b strings.Builder
	for i := start; i < end; i++ {
		movie := m.movies[i]
		line := fmt.Sprintf("%-40s  ★ %s  %s", truncate(movie.Title, 40), movie.Stars(), movie.GenreLabel)
		if i == m.cursor && m.focus == focusList {
			b.WriteString(cursorStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) modalView() string {
	width := max(min(m.width-4, 80), 40)
	var b strings.Builder

	if m.modal.Error != "" {
		b.WriteString(errorStyle.Render(m.modal.Error))
	} else if d := m.modal.Detail; d != nil {
		b.WriteString(titleStyle.Render(d.Title))
		b.WriteString("\n\n")
		fmt.Fprintf(&b, "Runtime: %d min\n", d.Runtime)
		fmt.Fprintf(&b, "Genres: %s\n\n", d.GenreNames())
		b.WriteString(lipgloss.NewStyle().Width(width - 4).Render(d.Overview))
		if url := d.TrailerURL(); url != "" {
			b.WriteString("\n\nTrailer: ")
			b.WriteString(url)
		}
	}
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("esc close"))

	return modalStyle.Width(width).Render(b.String())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
