package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/akuzmin/marketdesk/src/config"
	"github.com/akuzmin/marketdesk/src/models"
	"github.com/akuzmin/marketdesk/src/services"
	"github.com/akuzmin/marketdesk/src/utils"
)

type RunArgs struct {
	URL        string
	MaxReviews int
	OutFile    string
}

var runCmd = &cobra.Command{
	Use:   "appstore_reviews --url https://apps.apple.com/us/app/some-app/id123456789",
	Short: "Collect Apple App Store customer reviews and export them to csv",
	Run: func(cmd *cobra.Command, args []string) {
		url, err := cmd.Flags().GetString("url")
		if err != nil {
			log.Fatalf("error getting url: %v", err)
		}

		maxReviews, err := cmd.Flags().GetInt("max")
		if err != nil {
			log.Fatalf("error getting max: %v", err)
		}

		outFile, err := cmd.Flags().GetString("out")
		if err != nil {
			log.Fatalf("error getting out: %v", err)
		}

		if err := Run(RunArgs{
			URL:        url,
			MaxReviews: maxReviews,
			OutFile:    outFile,
		}); err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

func Run(args RunArgs) error {
	utils.InitEnvironmentVariables()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	appID, err := services.ExtractAppID(args.URL)
	if err != nil {
		return err
	}

	log.Infof("App ID: %s | Storefront: %s | Target: %d", appID, cfg.AppStore.Storefront, args.MaxReviews)

	client := services.NewAppStoreClient(cfg)

	rows, err := client.CollectReviews(context.Background(), appID, args.MaxReviews, func(msg string) {
		log.Info(msg)
	})
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		return fmt.Errorf("no reviews collected")
	}

	log.Infof("Collected %d reviews.", len(rows))

	printPreview(rows)

	if summary, err := services.SummarizeRatings(rows); err == nil {
		log.Infof("Ratings: count=%d mean=%.2f median=%.1f stddev=%.2f",
			summary.Count, summary.Mean, summary.Median, summary.StdDev)
	}

	outFile := args.OutFile
	if outFile == "" {
		ts := time.Now().UTC().Format("20060102_150405_UTC")
		outFile = fmt.Sprintf("appstore_reviews_%s_%s.csv", appID, ts)
	}

	data, columns, err := utils.ReviewCSV(rows)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outFile, err)
	}

	log.Infof("Exported %d reviews (%d columns) to %s", len(rows), len(columns), outFile)

	return nil
}

// printPreview renders the first few reviews as a table so the operator can
// sanity-check the collection before opening the csv.
func printPreview(rows []models.AppReview) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"author", "rating", "version", "updated", "title"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	limit := 5
	if len(rows) < limit {
		limit = len(rows)
	}

	for _, r := range rows[:limit] {
		title := r.Title
		if len(title) > 60 {
			title = title[:57] + "..."
		}

		table.Append([]string{r.AuthorName, r.Rating, r.Version, r.UpdatedAt, title})
	}

	table.Render()
}

func main() {
	runCmd.Flags().String("url", "", "Apple App Store URL containing the app id")
	runCmd.Flags().Int("max", 100, "maximum number of reviews to collect")
	runCmd.Flags().String("out", "", "csv output path (defaults to appstore_reviews_<id>_<ts>.csv)")

	if err := runCmd.Execute(); err != nil {
		log.Fatalf("error executing run command: %v", err)
	}
}
