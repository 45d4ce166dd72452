package cli

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/sistema-laudos/laudos-go/internal/api"
	"github.com/sistema-laudos/laudos-go/internal/models"
	"github.com/sistema-laudos/laudos-go/internal/view"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse contracts interactively",
	Long: `Browse opens an interactive contract listing with live search,
sorting, status filtering and pagination.

Keys:
  /          search (typing filters as you go, esc leaves search)
  ←/→        previous/next page
  s          cycle sort field
  o          toggle sort order
  f          cycle status filter
  r          refresh
  q          quit`,
	RunE: runBrowse,
}

// sortFields cycled by the 's' key.
var sortFields = []string{"created_at", "filename", "status", "numero_contrato"}

// browseModel is the bubbletea model wrapping the list controller.
type browseModel struct {
	controller *view.ListController
	state      view.ListState
	theme      Theme
	searching  bool
	filterIdx  int
	sortIdx    int
	quitting   bool
}

func runBrowse(cmd *cobra.Command, args []string) error {
	fetch := func(ctx context.Context, d view.Descriptor) (*models.ContratoPage, error) {
		return apiClient.ListContratos(ctx, api.ListContratosOptions{
			Page:      d.Page,
			Limit:     d.PageSize,
			SortBy:    d.SortField,
			SortOrder: d.SortDirection,
			Statuses:  d.StatusFilter,
			Search:    d.SearchText,
		})
	}

	controller := view.NewListController(fetch, notifications, cfg.SearchDebounce)
	defer controller.Close()

	model := browseModel{controller: controller, theme: defaultTheme, state: controller.State()}
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("browse UI error: %w", err)
	}
	return nil
}

// Init starts the state polling loop.
func (m browseModel) Init() tea.Cmd {
	return tickCmd()
}

// Update handles messages and returns the updated model.
func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tickMsg:
		m.state = m.controller.State()
		if m.quitting {
			return m, tea.Quit
		}
		return m, tickCmd()
	}

	return m, nil
}

func (m browseModel) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch msg.String() {
		case "esc", "enter":
			m.searching = false
		case "backspace":
			draft := m.state.SearchDraft
			if draft != "" {
				m.controller.SetSearch(draft[:len(draft)-1])
			}
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		default:
			if key := msg.String(); len(key) == 1 || key == "space" {
				if key == "space" {
					key = " "
				}
				m.controller.SetSearch(m.state.SearchDraft + key)
			}
		}
		m.state = m.controller.State()
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit
	case "/":
		m.searching = true
	case "left", "h":
		m.controller.SetPage(m.state.Descriptor.Page - 1)
	case "right", "l":
		m.controller.SetPage(m.state.Descriptor.Page + 1)
	case "s":
		m.sortIdx = (m.sortIdx + 1) % len(sortFields)
		m.controller.SetSort(sortFields[m.sortIdx])
	case "o":
		// Re-selecting the current field toggles the direction
		m.controller.SetSort(m.state.Descriptor.SortField)
	case "f":
		m.filterIdx = (m.filterIdx + 1) % (len(models.AllStatuses) + 1)
		if m.filterIdx == 0 {
			m.controller.SetStatusFilter(nil)
		} else {
			m.controller.SetStatusFilter([]string{models.AllStatuses[m.filterIdx-1]})
		}
	case "r":
		m.controller.Refresh()
	}

	m.state = m.controller.State()
	return m, nil
}

// View renders the listing.
func (m browseModel) View() tea.View {
	return tea.NewView(m.renderContent())
}

func (m browseModel) renderContent() string {
	var b strings.Builder

	header := fmt.Sprintf("Contratos — página %d/%d (%d no total)",
		m.state.Descriptor.Page, max(m.state.TotalPages(), 1), m.state.Total)
	b.WriteString(m.theme.statusStyle().Render(header))
	b.WriteString("\n")

	if m.searching || m.state.SearchDraft != "" {
		cursor := ""
		if m.searching {
			cursor = "▌"
		}
		b.WriteString(fmt.Sprintf("Busca: %s%s\n", m.state.SearchDraft, cursor))
	}
	if len(m.state.Descriptor.StatusFilter) > 0 {
		b.WriteString(fmt.Sprintf("Filtro: %s\n", strings.Join(m.state.Descriptor.StatusFilter, ", ")))
	}
	b.WriteString(fmt.Sprintf("Ordem: %s %s\n\n", m.state.Descriptor.SortField, m.state.Descriptor.SortDirection))

	switch {
	case m.state.Loading:
		b.WriteString("Carregando...\n")
	case m.state.Error != "":
		b.WriteString(m.theme.errorStyle().Render(m.state.Error))
		b.WriteString("\n")
	case len(m.state.Items) == 0:
		b.WriteString("Nenhum contrato encontrado.\n")
	default:
		for _, c := range m.state.Items {
			b.WriteString(fmt.Sprintf("  %s  %-12s  %s\n", c.ID, "["+c.Status+"]", c.Filename))
		}
	}

	b.WriteString("\n")
	b.WriteString(m.theme.hintStyle().Render("/ busca  ←/→ página  s ordenar  o direção  f filtro  r atualizar  q sair"))
	b.WriteString("\n")
	return b.String()
}
