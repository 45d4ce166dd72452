package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	contratoExportFormat string
	contratoExportOut    string
	contratoDownloadOut  string
	contratoDeleteYes    bool
)

var contratoCmd = &cobra.Command{
	Use:   "contrato",
	Short: "Inspect and manage contracts",
	Long: `Inspect and manage uploaded contracts.

Examples:
  laudos contrato show 42
  laudos contrato delete 42 --yes
  laudos contrato export 42 --format csv -o contrato.csv
  laudos contrato laudo 42 -o parecer.pdf
  laudos contrato stats`,
}

var contratoShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a contract and its analysis result",
	Args:  cobra.ExactArgs(1),
	RunE:  runContratoShow,
}

var contratoDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a contract and its derived data",
	Args:  cobra.ExactArgs(1),
	RunE:  runContratoDelete,
}

var contratoStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate counts per processing state",
	RunE:  runContratoStats,
}

var contratoExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a contract and its result to a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runContratoExport,
}

var contratoLaudoCmd = &cobra.Command{
	Use:   "laudo <id>",
	Short: "Download the opinion PDF generated for a contract",
	Args:  cobra.ExactArgs(1),
	RunE:  runContratoLaudo,
}

func init() {
	contratoExportCmd.Flags().StringVarP(&contratoExportFormat, "format", "f", "json", "export format (json, csv or xlsx)")
	contratoExportCmd.Flags().StringVarP(&contratoExportOut, "output", "o", "", "output file (default <id>.<format>)")
	contratoLaudoCmd.Flags().StringVarP(&contratoDownloadOut, "output", "o", "", "output file (default parecer-<id>.pdf)")
	contratoDeleteCmd.Flags().BoolVarP(&contratoDeleteYes, "yes", "y", false, "skip the confirmation prompt")

	contratoCmd.AddCommand(contratoShowCmd)
	contratoCmd.AddCommand(contratoDeleteCmd)
	contratoCmd.AddCommand(contratoStatsCmd)
	contratoCmd.AddCommand(contratoExportCmd)
	contratoCmd.AddCommand(contratoLaudoCmd)
}

func runContratoShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	contrato, err := apiClient.GetContrato(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s [%s]\n", contrato.Filename, contrato.Status)
	fmt.Printf("  ID:       %s\n", contrato.ID)
	if contrato.NumeroContrato != "" {
		fmt.Printf("  Contrato: %s\n", contrato.NumeroContrato)
	}
	if contrato.CPFCliente != "" {
		fmt.Printf("  CPF:      %s\n", contrato.CPFCliente)
	}
	if contrato.EnderecoAssinatura != nil && *contrato.EnderecoAssinatura != "" {
		fmt.Printf("  Endereço: %s\n", *contrato.EnderecoAssinatura)
	}
	if contrato.Latitude != nil && contrato.Longitude != nil {
		fmt.Printf("  Posição:  %.6f, %.6f\n", *contrato.Latitude, *contrato.Longitude)
	}
	fmt.Printf("  Enviado:  %s (%.1f KB)\n", contrato.CreatedAt.Format("2006-01-02 15:04"), float64(contrato.FileSizeBytes)/1024)
	if contrato.UpdatedAt != nil {
		fmt.Printf("  Alterado: %s\n", contrato.UpdatedAt.Format("2006-01-02 15:04"))
	}

	return nil
}

func runContratoDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	id := args[0]

	if !contratoDeleteYes {
		fmt.Printf("Delete contract %s and all derived data? [y/N] ", id)
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := apiClient.DeleteContrato(ctx, id); err != nil {
		return err
	}

	fmt.Printf("Deleted contract %s.\n", id)
	return nil
}

func runContratoStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	stats, err := apiClient.ContratoStats(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Contracts: %d\n", stats.Total)
	fmt.Printf("  pendente:    %d\n", stats.Pendente)
	fmt.Printf("  processando: %d\n", stats.Processando)
	fmt.Printf("  concluido:   %d\n", stats.Concluido)
	fmt.Printf("  erro:        %d\n", stats.Erro)
	return nil
}

func runContratoExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	id := args[0]

	out := contratoExportOut
	if out == "" {
		out = fmt.Sprintf("%s.%s", id, contratoExportFormat)
	}

	if err := apiClient.ExportContrato(ctx, id, contratoExportFormat, out); err != nil {
		return err
	}

	fmt.Printf("Exported contract %s to %s.\n", id, out)
	return nil
}

func runContratoLaudo(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	id := args[0]

	out := contratoDownloadOut
	if out == "" {
		out = fmt.Sprintf("parecer-%s.pdf", id)
	}

	if err := apiClient.DownloadParecerByContrato(ctx, id, out); err != nil {
		return err
	}

	fmt.Printf("Saved opinion for contract %s to %s.\n", id, out)
	return nil
}
