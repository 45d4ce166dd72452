package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sistema-laudos/laudos-go/internal/models"
)

var (
	bureauListPage     int
	bureauListLimit    int
	bureauListContrato string
	bureauListScoreMin int
	bureauListScoreMax int
	bureauListStatus   string

	bureauExportFormat string
	bureauExportOut    string
)

var bureauCmd = &cobra.Command{
	Use:   "bureau",
	Short: "Credit bureau data",
	Long: `Inspect the credit bureau data gathered for contract holders.

Examples:
  laudos bureau show 42
  laudos bureau list --score-min 300 --score-max 700
  laudos bureau score 9
  laudos bureau history 9
  laudos bureau restrictions 9
  laudos bureau export 9 --format xlsx -o bureau.xlsx`,
}

var bureauShowCmd = &cobra.Command{
	Use:   "show <contrato-id>",
	Short: "Show the bureau record of a contract",
	Args:  cobra.ExactArgs(1),
	RunE:  runBureauShow,
}

var bureauListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bureau records",
	RunE:  runBureauList,
}

var bureauScoreCmd = &cobra.Command{
	Use:   "score <bureau-id>",
	Short: "Show the credit score behind a record",
	Args:  cobra.ExactArgs(1),
	RunE:  runBureauScore,
}

var bureauHistoryCmd = &cobra.Command{
	Use:   "history <bureau-id>",
	Short: "Show the inquiry history of a record",
	Args:  cobra.ExactArgs(1),
	RunE:  runBureauHistory,
}

var bureauRestrictionsCmd = &cobra.Command{
	Use:   "restrictions <bureau-id>",
	Short: "Show negative records",
	Args:  cobra.ExactArgs(1),
	RunE:  runBureauRestrictions,
}

var bureauAggregatedCmd = &cobra.Command{
	Use:   "aggregated <bureau-id>",
	Short: "Show the cross-source summary",
	Args:  cobra.ExactArgs(1),
	RunE:  runBureauAggregated,
}

var bureauExportCmd = &cobra.Command{
	Use:   "export <bureau-id>",
	Short: "Export a bureau record to a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runBureauExport,
}

func init() {
	bureauListCmd.Flags().IntVarP(&bureauListPage, "page", "p", 1, "page number")
	bureauListCmd.Flags().IntVarP(&bureauListLimit, "limit", "n", 10, "items per page")
	bureauListCmd.Flags().StringVar(&bureauListContrato, "contrato", "", "filter by contract id")
	bureauListCmd.Flags().IntVar(&bureauListScoreMin, "score-min", 0, "minimum score")
	bureauListCmd.Flags().IntVar(&bureauListScoreMax, "score-max", 0, "maximum score")
	bureauListCmd.Flags().StringVarP(&bureauListStatus, "status", "s", "", "filter by status")

	bureauExportCmd.Flags().StringVarP(&bureauExportFormat, "format", "f", "csv", "export format (csv or xlsx)")
	bureauExportCmd.Flags().StringVarP(&bureauExportOut, "output", "o", "", "output file (default bureau-<id>.<format>)")

	bureauCmd.AddCommand(bureauShowCmd)
	bureauCmd.AddCommand(bureauListCmd)
	bureauCmd.AddCommand(bureauScoreCmd)
	bureauCmd.AddCommand(bureauHistoryCmd)
	bureauCmd.AddCommand(bureauRestrictionsCmd)
	bureauCmd.AddCommand(bureauAggregatedCmd)
	bureauCmd.AddCommand(bureauExportCmd)
}

func runBureauShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	record, err := apiClient.GetBureau(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Bureau %s\n", record.ID)
	fmt.Printf("  Contrato:   %s\n", record.ContratoID)
	fmt.Printf("  CPF:        %s\n", record.CPF)
	fmt.Printf("  Score:      %d\n", record.Score)
	fmt.Printf("  Status:     %s\n", record.Status)
	fmt.Printf("  Consultado: %s\n", record.ConsultadoEm.Format("2006-01-02 15:04"))
	return nil
}

func runBureauList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	filter := models.BureauFilter{
		ContratoID: bureauListContrato,
		Status:     bureauListStatus,
	}
	if cmd.Flags().Changed("score-min") {
		filter.ScoreMin = &bureauListScoreMin
	}
	if cmd.Flags().Changed("score-max") {
		filter.ScoreMax = &bureauListScoreMax
	}

	page, err := apiClient.ListBureaus(ctx, bureauListPage, bureauListLimit, filter)
	if err != nil {
		return err
	}

	if len(page.Items) == 0 {
		fmt.Println("No bureau records found.")
		return nil
	}

	fmt.Printf("Bureau records (%d total):\n\n", page.Total)
	for _, r := range page.Items {
		fmt.Printf("- %s [%s] CPF %s, score %d\n", r.ID, r.Status, r.CPF, r.Score)
	}
	return nil
}

func runBureauScore(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	score, err := apiClient.BureauScore(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Score %d (%s)\n  Atualizado: %s\n", score.Score, score.Band, score.UpdatedAt.Format("2006-01-02"))
	return nil
}

func runBureauHistory(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	history, err := apiClient.BureauHistory(ctx, args[0])
	if err != nil {
		return err
	}

	if len(history) == 0 {
		fmt.Println("No inquiries recorded.")
		return nil
	}

	fmt.Printf("Inquiries (%d):\n\n", len(history))
	for _, inquiry := range history {
		fmt.Printf("- %s %s", inquiry.Date.Format("2006-01-02"), inquiry.Source)
		if inquiry.Reason != "" {
			fmt.Printf(" (%s)", inquiry.Reason)
		}
		fmt.Println()
	}
	return nil
}

func runBureauRestrictions(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	restrictions, err := apiClient.BureauRestrictions(ctx, args[0])
	if err != nil {
		return err
	}

	if len(restrictions) == 0 {
		fmt.Println("No restrictions.")
		return nil
	}

	fmt.Printf("Restrictions (%d):\n\n", len(restrictions))
	for _, r := range restrictions {
		fmt.Printf("- [%s] %s: R$ %.2f (%s)\n", r.Kind, r.Creditor, float64(r.AmountCents)/100, r.RecordedAt.Format("2006-01-02"))
	}
	return nil
}

func runBureauAggregated(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	aggregated, err := apiClient.BureauAggregated(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Score médio:   %.0f\n", aggregated.AverageScore)
	fmt.Printf("Consultas:     %d\n", aggregated.TotalInquiries)
	fmt.Printf("Negativações:  %d\n", aggregated.TotalRestrictions)
	return nil
}

func runBureauExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	id := args[0]

	out := bureauExportOut
	if out == "" {
		out = fmt.Sprintf("bureau-%s.%s", id, bureauExportFormat)
	}

	if err := apiClient.ExportBureau(ctx, id, bureauExportFormat, out); err != nil {
		return err
	}

	fmt.Printf("Exported bureau record %s to %s.\n", id, out)
	return nil
}
