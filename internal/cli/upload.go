package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sistema-laudos/laudos-go/internal/view"
)

var uploadNoProgress bool

var uploadCmd = &cobra.Command{
	Use:   "upload <file.pdf>",
	Short: "Upload a contract PDF for analysis",
	Long: `Upload sends a contract PDF to the backend and starts its analysis.
Only PDF files up to 10MB are accepted.

Examples:
  laudos upload contrato.pdf
  laudos upload contrato.pdf --no-progress`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().BoolVar(&uploadNoProgress, "no-progress", false, "plain output without the progress display")
}

func runUpload(cmd *cobra.Command, args []string) error {
	path := args[0]

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	file := &view.File{Name: info.Name(), Size: info.Size(), Content: f}
	if err := view.Validate(file); err != nil {
		return err
	}

	controller := view.NewUploadController(apiClient.UploadContrato, notifications, 0)

	if uploadNoProgress {
		if err := controller.Upload(context.Background(), file); err != nil {
			return err
		}
		result := controller.State().Result
		if result != nil {
			fmt.Printf("Uploaded %s (id %s, status %s)\n", result.Filename, result.ID, result.Status)
		}
		return nil
	}

	return runUploadProgress(controller, file)
}
