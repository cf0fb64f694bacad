package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/minepkg/mcinstall/internals/instances"
	"github.com/minepkg/mcinstall/internals/minecraft"
)

var (
	stageStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("211"))
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	checkMark    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).SetString("✓")
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
)

type progressMsg instances.Progress

type installDoneMsg struct {
	manifest *minecraft.LaunchManifest
	err      error
}

type installModel struct {
	width    int
	spinner  spinner.Model
	progress progress.Model

	current  instances.Progress
	finished []string
	done     bool
}

func newInstallModel() installModel {
	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)
	s := spinner.New()
	s.Style = spinnerStyle
	return installModel{
		spinner:  s,
		progress: p,
	}
}

func (m installModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m installModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			return m, tea.Quit
		}
	case progressMsg:
		if msg.Stage != m.current.Stage && m.current.Stage != "" {
			m.finished = append(m.finished, stageLabel(m.current.Stage))
		}
		m.current = instances.Progress(msg)
	case installDoneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m installModel) View() string {
	b := strings.Builder{}
	for _, stage := range m.finished {
		b.WriteString(checkMark.String() + " " + stage + "\n")
	}
	if m.done || m.current.Stage == "" {
		return b.String()
	}

	label := m.spinner.View() + " " + stageStyle.Render(stageLabel(m.current.Stage))
	if m.current.Total <= 0 {
		return b.String() + label + "\n"
	}

	count := fmt.Sprintf(" %d/%d", m.current.Current, m.current.Total)
	bar := m.progress.ViewAs(float64(m.current.Current) / float64(m.current.Total))
	gap := strings.Repeat(" ", maxInt(1, m.width-lipgloss.Width(label+bar+count)))
	b.WriteString(label + gap + bar + subtleStyle.Render(count) + "\n")
	return b.String()
}

// runInstallUI runs install in the background while showing its progress
func runInstallUI(install func(opts ...instances.InstallOption) (*minecraft.LaunchManifest, error), cancel context.CancelFunc) (*minecraft.LaunchManifest, error) {
	program := tea.NewProgram(newInstallModel())
	result := make(chan installDoneMsg, 1)

	go func() {
		manifest, err := install(instances.WithProgress(func(p instances.Progress) {
			program.Send(progressMsg(p))
		}))
		done := installDoneMsg{manifest, err}
		result <- done
		program.Send(done)
	}()

	final, err := program.Run()
	if err != nil {
		cancel()
		return nil, err
	}
	if model, ok := final.(installModel); !ok || !model.done {
		// closed by the user
		cancel()
	}

	done := <-result
	return done.manifest, done.err
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
