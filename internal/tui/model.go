// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tui is the interactive terminal front end: pick an input mode,
// enter keywords, analyze, and save the report.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pdiddy/keyword-engine/internal/input"
	"github.com/pdiddy/keyword-engine/internal/session"
	"github.com/pdiddy/keyword-engine/pkg/types"
)

// Analyzer is the TUI-facing subset of session.Engine.
type Analyzer interface {
	AnalyzeSource(ctx context.Context, src input.Source) (*session.State, error)
	WriteReport(ctx context.Context, st *session.State, path string, format types.ReportFormat) error
}

// Options configures where reports are saved.
type Options struct {
	ReportPath string
	Format     types.ReportFormat
	CSV        input.CSVOptions
}

var modes = []types.InputMode{types.ModeManual, types.ModeCSV, types.ModePaste}

type analyzedMsg struct {
	state *session.State
	err   error
}

type savedMsg struct {
	path string
	err  error
}

// Model is the Bubble Tea model for the keyword research screen.
type Model struct {
	ctx  context.Context
	svc  Analyzer
	opts Options

	mode    int
	fields  []textinput.Model
	focus   int
	csvPath textinput.Model
	paste   textarea.Model

	viewport viewport.Model
	state    *session.State
	status   string
	busy     bool
	ready    bool
}

// New creates the model. ctx bounds every analysis it starts.
func New(ctx context.Context, svc Analyzer, opts Options) Model {
	if opts.ReportPath == "" {
		opts.ReportPath = types.DefaultReportPath
	}

	fields := make([]textinput.Model, input.MaxManualFields)
	for i := range fields {
		ti := textinput.New()
		ti.Prompt = fmt.Sprintf("Keyword %d: ", i+1)
		ti.CharLimit = 0
		fields[i] = ti
	}
	fields[0].Focus()

	csvPath := textinput.New()
	csvPath.Prompt = "CSV file: "
	csvPath.Placeholder = "keywords.csv"
	csvPath.CharLimit = 0

	paste := textarea.New()
	paste.Placeholder = "Paste your keywords here (one per line)"
	paste.ShowLineNumbers = false

	return Model{
		ctx:      ctx,
		svc:      svc,
		opts:     opts,
		fields:   fields,
		csvPath:  csvPath,
		paste:    paste,
		viewport: viewport.New(0, 0),
		status:   "tab: mode  ctrl+r: analyze  ctrl+s: save  esc: quit",
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Mode returns the selected input mode.
func (m Model) Mode() types.InputMode { return modes[m.mode] }

// Status returns the current status line.
func (m Model) Status() string { return m.status }

// Update handles key, window, and pipeline result messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-inputHeight-4)
		m.paste.SetWidth(max(20, msg.Width-2))
		m.paste.SetHeight(inputHeight - 1)
		m.viewport.SetContent(m.renderState())
		return m, nil

	case analyzedMsg:
		m.busy = false
		switch {
		case errors.Is(msg.err, session.ErrNoKeywords):
			m.state = nil
			m.status = session.NoKeywordsMessage
		case msg.err != nil:
			m.state = nil
			m.status = "Error: " + msg.err.Error()
		default:
			m.state = msg.state
			m.status = fmt.Sprintf("Analyzed %d keywords into %d groups.", len(msg.state.Cleaned), len(msg.state.Groups))
		}
		m.viewport.SetContent(m.renderState())
		m.viewport.GotoTop()
		return m, nil

	case savedMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
		} else {
			m.status = "Report saved successfully as " + msg.path
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			m.setMode((m.mode + 1) % len(modes))
			return m, nil
		case "shift+tab":
			m.setMode((m.mode - 1 + len(modes)) % len(modes))
			return m, nil
		case "ctrl+r":
			if m.busy {
				return m, nil
			}
			m.busy = true
			m.status = "Analyzing..."
			return m, m.analyze()
		case "ctrl+s":
			if m.busy {
				return m, nil
			}
			if m.state == nil {
				m.status = session.NoKeywordsMessage
				return m, nil
			}
			m.busy = true
			return m, m.save()
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		case "up", "down":
			if m.Mode() == types.ModeManual {
				step := 1
				if msg.String() == "up" {
					step = len(m.fields) - 1
				}
				m.fields[m.focus].Blur()
				m.focus = (m.focus + step) % len(m.fields)
				m.fields[m.focus].Focus()
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	switch m.Mode() {
	case types.ModeManual:
		m.fields[m.focus], cmd = m.fields[m.focus].Update(msg)
	case types.ModeCSV:
		m.csvPath, cmd = m.csvPath.Update(msg)
	case types.ModePaste:
		m.paste, cmd = m.paste.Update(msg)
	}
	return m, cmd
}

func (m *Model) setMode(i int) {
	m.mode = i
	m.fields[m.focus].Blur()
	m.csvPath.Blur()
	m.paste.Blur()
	switch m.Mode() {
	case types.ModeManual:
		m.fields[m.focus].Focus()
	case types.ModeCSV:
		m.csvPath.Focus()
	case types.ModePaste:
		m.paste.Focus()
	}
}

// source snapshots the active input so the command does not read the model
// after Update returns.
func (m Model) source() (input.Source, string) {
	src := input.Source{Mode: m.Mode(), CSVOpt: m.opts.CSV}
	switch src.Mode {
	case types.ModeManual:
		for _, f := range m.fields {
			src.Fields = append(src.Fields, f.Value())
		}
	case types.ModePaste:
		src.Text = m.paste.Value()
	}
	return src, strings.TrimSpace(m.csvPath.Value())
}

func (m Model) analyze() tea.Cmd {
	ctx, svc := m.ctx, m.svc
	src, csvPath := m.source()
	return func() tea.Msg {
		if src.Mode == types.ModeCSV && csvPath != "" {
			f, err := os.Open(csvPath)
			if err != nil {
				return analyzedMsg{err: fmt.Errorf("opening csv: %w", err)}
			}
			defer f.Close()
			src.CSV = f
		}
		st, err := svc.AnalyzeSource(ctx, src)
		return analyzedMsg{state: st, err: err}
	}
}

func (m Model) save() tea.Cmd {
	ctx, svc, st := m.ctx, m.svc, m.state
	path, format := m.opts.ReportPath, m.opts.Format
	return func() tea.Msg {
		return savedMsg{path: path, err: svc.WriteReport(ctx, st, path, format)}
	}
}

const inputHeight = 6

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	activeTab     = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("12"))
	inactiveTab   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	groupStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	fallbackStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// View renders the screen.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	var tabs []string
	for i, md := range modes {
		if i == m.mode {
			tabs = append(tabs, activeTab.Render(md.Label()))
		} else {
			tabs = append(tabs, inactiveTab.Render(md.Label()))
		}
	}

	var in string
	switch m.Mode() {
	case types.ModeManual:
		lines := make([]string, len(m.fields))
		for i, f := range m.fields {
			lines[i] = f.View()
		}
		in = strings.Join(lines, "\n")
	case types.ModeCSV:
		in = m.csvPath.View()
	case types.ModePaste:
		in = m.paste.View()
	}

	return titleStyle.Render("Keyword Research & Content Ideas Engine") + "\n" +
		strings.Join(tabs, "  ") + "\n" +
		boxStyle.Render(in) + "\n" +
		m.viewport.View() + "\n" +
		statusStyle.Render(m.status)
}

func (m Model) renderState() string {
	if m.state == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Cleaned Keywords: %s\n", strings.Join(m.state.Cleaned, ", "))
	for _, g := range m.state.Groups {
		b.WriteString("\n")
		b.WriteString(groupStyle.Render(fmt.Sprintf("Group %d: %s", g.Index+1, strings.Join(g.Keywords, ", "))))
		fmt.Fprintf(&b, "\nPost Idea: %s\n", g.PostIdea)
		for _, o := range g.Outlines {
			intro := o.Intro
			if !o.Fetched() {
				intro = fallbackStyle.Render(intro)
			}
			fmt.Fprintf(&b, "\n  Outline for %s\n  Intro: %s\n", o.Keyword, intro)
			for _, s := range o.Sections {
				fmt.Fprintf(&b, "  - %s\n", s)
			}
			fmt.Fprintf(&b, "  Conclusion: %s\n", o.Conclusion)
		}
	}
	return b.String()
}

// Run starts the program in the alternate screen and blocks until it quits.
func Run(ctx context.Context, svc Analyzer, opts Options) error {
	p := tea.NewProgram(New(ctx, svc, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
