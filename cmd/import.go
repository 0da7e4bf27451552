package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"watchstate/feature/history"
	"watchstate/feature/history/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	importFile    string
	importBackend string
	importTainted bool
	importAfter   string
)

// importCmd ingests an observation dump exported from a backend.
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import observations from a backend dump",
	Long: `Reads observations from a JSON file, either {"items": [...]} or a bare array,
and reconciles them into the history as if the named backend had reported them.

Examples:
  # Import a full Plex export
  import --backend home --file home.json

  # Import from a low-confidence source without touching watch state
  import --backend office --file office.json --tainted

  # Only let observations newer than the last sync change watch state
  import --backend home --file delta.json --after 2024-05-01T00:00:00Z`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "JSON file with observations, - for stdin")
	importCmd.Flags().StringVarP(&importBackend, "backend", "b", "", "Configured backend name the observations come from")
	importCmd.Flags().BoolVar(&importTainted, "tainted", false, "Merge identity and metadata only")
	importCmd.Flags().StringVar(&importAfter, "after", "", "Sync watermark, RFC3339 or unix seconds")
	_ = importCmd.MarkFlagRequired("file")
	_ = importCmd.MarkFlagRequired("backend")

	RootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	after, err := parseWatermark(importAfter)
	if err != nil {
		return err
	}

	items, err := readObservations(importFile)
	if err != nil {
		return err
	}

	a, err := bootstrap(false)
	if err != nil {
		return err
	}
	defer a.close()

	a.log.Info("Importing observations",
		zap.String("backend", importBackend),
		zap.Int("items", len(items)),
		zap.Bool("tainted", importTainted))

	report, err := a.history.Ingest(cmd.Context(), items, history.IngestOptions{
		Backend: importBackend,
		Tainted: importTainted,
		After:   after,
	})
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	r := report.Result
	a.log.Info("Import report",
		zap.Int("received", report.Received),
		zap.Int("skipped", report.Skipped),
		zap.Int("movies_added", r.Movie.Added),
		zap.Int("movies_updated", r.Movie.Updated),
		zap.Int("episodes_added", r.Episode.Added),
		zap.Int("episodes_updated", r.Episode.Updated),
		zap.Int("failed", r.Failed()),
	)

	maxShow := min(5, len(report.Errors))
	for _, msg := range report.Errors[:maxShow] {
		a.log.Warn("Skipped observation", zap.String("reason", msg))
	}
	if len(report.Errors) > maxShow {
		a.log.Warn("Additional skipped observations not shown", zap.Int("count", len(report.Errors)-maxShow))
	}
	return nil
}

// readObservations accepts either an ingest request body or a bare array.
func readObservations(path string) ([]models.Observation, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var items []models.Observation
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
		return items, nil
	}

	var req models.IngestRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return req.Items, nil
}

// parseWatermark accepts RFC3339 or unix seconds. Empty means no watermark.
func parseWatermark(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if secs, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Unix(secs, 0), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --after %q, expected RFC3339 or unix seconds", value)
	}
	return t, nil
}
