package cli

import (
	"context"
	"fmt"
	"time"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"

	"github.com/sistema-laudos/laudos-go/internal/view"
)

const pollInterval = 100 * time.Millisecond

// Theme holds the color scheme for the progress display.
type Theme struct {
	Status     lipgloss.Color
	Success    lipgloss.Color
	Error      lipgloss.Color
	Hint       lipgloss.Color
	ProgressBg lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	Status:     lipgloss.Color("#5FAFD7"), // light blue
	Success:    lipgloss.Color("#00D787"), // green
	Error:      lipgloss.Color("#FF005F"), // red
	Hint:       lipgloss.Color("#6C6C6C"), // dim gray
	ProgressBg: lipgloss.Color("#3A3A3A"), // dark gray
}

// Style functions for dynamic theming
func (t Theme) statusStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Status)
}

func (t Theme) completedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Success).Bold(true)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

// tickMsg triggers polling the upload state
type tickMsg time.Time

// uploadDoneMsg carries the upload outcome
type uploadDoneMsg struct {
	err error
}

// uploadModel is the bubbletea model for upload progress.
type uploadModel struct {
	controller *view.UploadController
	filename   string
	state      view.UploadState
	progress   progress.Model
	theme      Theme
	cancel     context.CancelFunc
	done       bool
	quitting   bool
	err        error
}

// newUploadModel creates a new upload progress model.
func newUploadModel(controller *view.UploadController, filename string, cancel context.CancelFunc) uploadModel {
	prog := progress.New(
		progress.WithDefaultBlend(),
		progress.WithWidth(40),
	)

	return uploadModel{
		controller: controller,
		filename:   filename,
		progress:   prog,
		theme:      defaultTheme,
		cancel:     cancel,
	}
}

// Init returns the initial command (start polling).
func (m uploadModel) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		m.progress.Init(),
	)
}

// Update handles messages and returns the updated model.
func (m uploadModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			m.cancel()
			return m, tea.Quit
		}

	case tickMsg:
		m.state = m.controller.State()
		return m, tickCmd()

	case uploadDoneMsg:
		m.state = m.controller.State()
		m.done = true
		m.err = msg.err
		return m, tea.Quit

	case progress.FrameMsg:
		// Update progress bar animation
		var cmd tea.Cmd
		m.progress, cmd = m.progress.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the progress display.
func (m uploadModel) View() tea.View {
	return tea.NewView(m.renderContent())
}

// renderContent builds the display string.
func (m uploadModel) renderContent() string {
	if m.done {
		return m.finalView()
	}

	status := m.theme.statusStyle().Render(fmt.Sprintf("[%s]", m.filename))
	progressBar := m.progress.ViewAs(float64(m.state.Progress) / 100)
	hint := m.theme.hintStyle().Render("Press Ctrl+C to cancel")

	message := m.state.Message
	if message == "" {
		message = "Preparando envio..."
	}

	return fmt.Sprintf("%s %s %d%%\n%s\n%s\n", status, progressBar, m.state.Progress, message, hint)
}

// finalView renders the completion message.
func (m uploadModel) finalView() string {
	if m.quitting {
		return m.theme.hintStyle().Render("\nEnvio cancelado.\n")
	}

	if m.err != nil {
		return m.theme.errorStyle().Render(fmt.Sprintf("\n✗ %s\n", m.err))
	}

	if result := m.state.Result; result != nil {
		var output string
		output += m.theme.completedStyle().Render("✓ Contrato enviado com sucesso! Análise iniciada.") + "\n\n"
		output += fmt.Sprintf("  Arquivo: %s\n", result.Filename)
		output += fmt.Sprintf("  ID:      %s\n", result.ID)
		output += fmt.Sprintf("  Status:  %s\n", result.Status)
		return output
	}

	return m.theme.completedStyle().Render("✓ Enviado\n")
}

// tickCmd returns a command that sends a tick after the poll interval.
func tickCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// runUploadProgress uploads the file with an interactive progress display.
// Returns nil on success or cancellation, error on upload failure.
func runUploadProgress(controller *view.UploadController, file *view.File) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	model := newUploadModel(controller, file.Name, cancel)
	p := tea.NewProgram(model)

	go func() {
		err := controller.Upload(ctx, file)
		p.Send(uploadDoneMsg{err: err})
	}()

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("progress UI error: %w", err)
	}

	if m, ok := finalModel.(uploadModel); ok {
		if m.quitting {
			return nil
		}
		if m.err != nil {
			return m.err
		}
	}

	return nil
}
