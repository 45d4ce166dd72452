package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sistema-laudos/laudos-go/internal/api"
	"github.com/sistema-laudos/laudos-go/internal/models"
)

var (
	parecerListPage    int
	parecerListLimit   int
	parecerListVerdict string
	parecerListStatus  string
	parecerListSearch  string

	parecerForce         bool
	parecerIncludeGeo    bool
	parecerIncludeBureau bool

	parecerUpdateText string
	parecerOut        string
)

var parecerCmd = &cobra.Command{
	Use:   "parecer",
	Short: "Work with legal opinions",
	Long: `Work with the legal opinions (pareceres) generated for contracts.

Examples:
  laudos parecer list --verdict reprovado
  laudos parecer show 7
  laudos parecer generate 42 --include-geo --include-bureau
  laudos parecer download 7 -o parecer.pdf
  laudos parecer findings 7
  laudos parecer timeline 7`,
}

var parecerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List legal opinions",
	RunE:  runParecerList,
}

var parecerShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a legal opinion",
	Args:  cobra.ExactArgs(1),
	RunE:  runParecerShow,
}

var parecerGenerateCmd = &cobra.Command{
	Use:   "generate <contrato-id>",
	Short: "Generate the opinion for a contract",
	Args:  cobra.ExactArgs(1),
	RunE:  runParecerGenerate,
}

var parecerUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Replace the opinion text",
	Args:  cobra.ExactArgs(1),
	RunE:  runParecerUpdate,
}

var parecerDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a legal opinion",
	Args:  cobra.ExactArgs(1),
	RunE:  runParecerDelete,
}

var parecerDownloadCmd = &cobra.Command{
	Use:   "download <id>",
	Short: "Download the opinion PDF",
	Args:  cobra.ExactArgs(1),
	RunE:  runParecerDownload,
}

var parecerFindingsCmd = &cobra.Command{
	Use:   "findings <id>",
	Short: "List the flagged issues of an opinion",
	Args:  cobra.ExactArgs(1),
	RunE:  runParecerFindings,
}

var parecerTimelineCmd = &cobra.Command{
	Use:   "timeline <id>",
	Short: "Show the processing steps of an opinion",
	Args:  cobra.ExactArgs(1),
	RunE:  runParecerTimeline,
}

func init() {
	parecerListCmd.Flags().IntVarP(&parecerListPage, "page", "p", 1, "page number")
	parecerListCmd.Flags().IntVarP(&parecerListLimit, "limit", "n", 10, "items per page")
	parecerListCmd.Flags().StringVar(&parecerListVerdict, "verdict", "", "filter by verdict (aprovado, com_ressalvas, reprovado)")
	parecerListCmd.Flags().StringVarP(&parecerListStatus, "status", "s", "", "filter by contract status")
	parecerListCmd.Flags().StringVarP(&parecerListSearch, "search", "q", "", "search in opinion text")

	parecerGenerateCmd.Flags().BoolVar(&parecerForce, "force", false, "regenerate even when an opinion already exists")
	parecerGenerateCmd.Flags().BoolVar(&parecerIncludeGeo, "include-geo", false, "include geolocation analysis")
	parecerGenerateCmd.Flags().BoolVar(&parecerIncludeBureau, "include-bureau", false, "include credit bureau data")

	parecerUpdateCmd.Flags().StringVarP(&parecerUpdateText, "text", "t", "", "new opinion text")
	parecerUpdateCmd.MarkFlagRequired("text")

	parecerDownloadCmd.Flags().StringVarP(&parecerOut, "output", "o", "", "output file (default parecer-<id>.pdf)")

	parecerCmd.AddCommand(parecerListCmd)
	parecerCmd.AddCommand(parecerShowCmd)
	parecerCmd.AddCommand(parecerGenerateCmd)
	parecerCmd.AddCommand(parecerUpdateCmd)
	parecerCmd.AddCommand(parecerDeleteCmd)
	parecerCmd.AddCommand(parecerDownloadCmd)
	parecerCmd.AddCommand(parecerFindingsCmd)
	parecerCmd.AddCommand(parecerTimelineCmd)
}

func runParecerList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	page, err := apiClient.ListPareceres(ctx, api.ListPareceresOptions{
		Page:    parecerListPage,
		Limit:   parecerListLimit,
		Verdict: parecerListVerdict,
		Status:  parecerListStatus,
		Search:  parecerListSearch,
	})
	if err != nil {
		return err
	}

	if len(page.Items) == 0 {
		fmt.Println("No opinions found.")
		return nil
	}

	fmt.Printf("Opinions (%d total):\n\n", page.Total)
	for _, p := range page.Items {
		verdict := p.Verdict
		if verdict == "" {
			verdict = "-"
		}
		fmt.Printf("- %s [%s/%s] contrato %s, %.1f km\n", p.ID, p.TipoParecer, verdict, p.ContratoID, p.DistanciaKm)
	}
	return nil
}

func runParecerShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	parecer, err := apiClient.GetParecer(ctx, args[0])
	if err != nil {
		return err
	}

	printParecer(parecer)
	return nil
}

func runParecerGenerate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	parecer, err := apiClient.GenerateParecer(ctx, args[0], models.GenerateParecerOptions{
		ForceRegenerate: parecerForce,
		IncludeGeo:      parecerIncludeGeo,
		IncludeBureau:   parecerIncludeBureau,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Generated opinion %s for contract %s.\n\n", parecer.ID, parecer.ContratoID)
	printParecer(parecer)
	return nil
}

func runParecerUpdate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	parecer, err := apiClient.UpdateParecer(ctx, args[0], parecerUpdateText)
	if err != nil {
		return err
	}

	fmt.Printf("Updated opinion %s.\n", parecer.ID)
	return nil
}

func runParecerDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if err := apiClient.DeleteParecer(ctx, args[0]); err != nil {
		return err
	}

	fmt.Printf("Deleted opinion %s.\n", args[0])
	return nil
}

func runParecerDownload(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	id := args[0]

	out := parecerOut
	if out == "" {
		out = fmt.Sprintf("parecer-%s.pdf", id)
	}

	if err := apiClient.DownloadParecer(ctx, id, out); err != nil {
		return err
	}

	fmt.Printf("Saved opinion %s to %s.\n", id, out)
	return nil
}

func runParecerFindings(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	findings, err := apiClient.ParecerFindings(ctx, args[0])
	if err != nil {
		return err
	}

	if len(findings) == 0 {
		fmt.Println("No findings.")
		return nil
	}

	fmt.Printf("Findings (%d):\n\n", len(findings))
	for _, f := range findings {
		fmt.Printf("- [%s] %s\n", f.Severity, f.Title)
		if verbose && f.Description != "" {
			fmt.Printf("  %s\n", f.Description)
		}
	}
	return nil
}

func runParecerTimeline(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	timeline, err := apiClient.ParecerTimeline(ctx, args[0])
	if err != nil {
		return err
	}

	if len(timeline) == 0 {
		fmt.Println("No timeline recorded.")
		return nil
	}

	for _, entry := range timeline {
		finished := "…"
		if entry.FinishedAt != nil {
			finished = entry.FinishedAt.Format("15:04:05")
		}
		fmt.Printf("- %-20s [%s] %s → %s\n", entry.Step, entry.Status, entry.StartedAt.Format("15:04:05"), finished)
		if verbose && entry.Detail != "" {
			fmt.Printf("  %s\n", entry.Detail)
		}
	}
	return nil
}

func printParecer(p *models.Parecer) {
	fmt.Printf("Parecer %s [%s]\n", p.ID, p.TipoParecer)
	fmt.Printf("  Contrato:  %s\n", p.ContratoID)
	if p.Verdict != "" {
		fmt.Printf("  Veredicto: %s\n", p.Verdict)
	}
	fmt.Printf("  Distância: %.1f km\n", p.DistanciaKm)
	fmt.Printf("  Trajeto:   %.6f,%.6f → %.6f,%.6f\n", p.LatitudeInicio, p.LongitudeInicio, p.LatitudeFim, p.LongitudeFim)
	fmt.Printf("  Criado:    %s\n", p.CreatedAt.Format("2006-01-02 15:04"))
	if p.TextoParecer != "" {
		fmt.Printf("\n%s\n", p.TextoParecer)
	}
}
