package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sistema-laudos/laudos-go/internal/api"
	"github.com/sistema-laudos/laudos-go/internal/models"
)

var (
	listPage     int
	listLimit    int
	listSort     string
	listOrder    string
	listStatuses []string
	listSearch   string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List contracts",
	Long: `List contracts with filtering, search, sorting and pagination.

Examples:
  laudos list
  laudos list --status processando,erro
  laudos list --search "João" --sort filename --order asc
  laudos list --page 2 --limit 25`,
	RunE: runList,
}

func init() {
	listCmd.Flags().IntVarP(&listPage, "page", "p", 1, "page number")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 10, "items per page")
	listCmd.Flags().StringVar(&listSort, "sort", "created_at", "sort field")
	listCmd.Flags().StringVar(&listOrder, "order", "desc", "sort order (asc or desc)")
	listCmd.Flags().StringSliceVarP(&listStatuses, "status", "s", nil, "filter by status (pendente, processando, concluido, erro)")
	listCmd.Flags().StringVarP(&listSearch, "search", "q", "", "search by filename, CPF or contract number")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	page, err := apiClient.ListContratos(ctx, api.ListContratosOptions{
		Page:      listPage,
		Limit:     listLimit,
		SortBy:    listSort,
		SortOrder: listOrder,
		Statuses:  listStatuses,
		Search:    listSearch,
	})
	if err != nil {
		return err
	}

	if len(page.Items) == 0 {
		fmt.Println("No contracts found.")
		return nil
	}

	totalPages := (page.Total + page.Limit - 1) / page.Limit
	fmt.Printf("Contracts (page %d/%d, %d total):\n\n", page.Page, totalPages, page.Total)
	for _, c := range page.Items {
		printContrato(c)
	}

	return nil
}

func printContrato(c models.Contrato) {
	fmt.Printf("- %s [%s] %s\n", c.ID, c.Status, c.Filename)
	if verbose {
		if c.NumeroContrato != "" {
			fmt.Printf("  Contrato: %s\n", c.NumeroContrato)
		}
		if c.CPFCliente != "" {
			fmt.Printf("  CPF:      %s\n", c.CPFCliente)
		}
		if c.EnderecoAssinatura != nil && *c.EnderecoAssinatura != "" {
			fmt.Printf("  Endereço: %s\n", *c.EnderecoAssinatura)
		}
		fmt.Printf("  Enviado:  %s (%.1f KB)\n", c.CreatedAt.Format("2006-01-02 15:04"), float64(c.FileSizeBytes)/1024)
	}
}
