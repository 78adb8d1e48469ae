package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/akuzmin/marketdesk/src/config"
	"github.com/akuzmin/marketdesk/src/models"
	"github.com/akuzmin/marketdesk/src/services"
	"github.com/akuzmin/marketdesk/src/utils"
)

type RunArgs struct {
	Provider string
	Symbol   string
	Code     string
	URL      string
	OutFile  string
}

var runCmd = &cobra.Command{
	Use:   "option_quote --symbol amd --code 271217c00370000",
	Short: "Resolve a single option contract quote by its exchange-style code",
	Run: func(cmd *cobra.Command, args []string) {
		provider, err := cmd.Flags().GetString("provider")
		if err != nil {
			log.Fatalf("error getting provider: %v", err)
		}

		symbol, err := cmd.Flags().GetString("symbol")
		if err != nil {
			log.Fatalf("error getting symbol: %v", err)
		}

		code, err := cmd.Flags().GetString("code")
		if err != nil {
			log.Fatalf("error getting code: %v", err)
		}

		url, err := cmd.Flags().GetString("url")
		if err != nil {
			log.Fatalf("error getting url: %v", err)
		}

		outFile, err := cmd.Flags().GetString("out")
		if err != nil {
			log.Fatalf("error getting out: %v", err)
		}

		if err := Run(RunArgs{
			Provider: provider,
			Symbol:   symbol,
			Code:     code,
			URL:      url,
			OutFile:  outFile,
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

	symbol := strings.TrimSpace(args.Symbol)
	code := strings.TrimSpace(args.Code)

	if args.URL != "" {
		parsed, err := services.ParseSymbolFromNasdaqURL(args.URL)
		if err == nil {
			symbol = parsed
		} else if symbol == "" {
			return err
		}

		if code == "" {
			code = args.URL
		}
	}

	if symbol == "" {
		return fmt.Errorf("missing --symbol (or a --url to extract it from)")
	}
	if code == "" {
		return fmt.Errorf("missing --code (or a --url to extract it from)")
	}

	var provider services.QuoteProvider
	switch args.Provider {
	case "", "nasdaq":
		provider = services.NewNasdaqProvider(cfg)
	case "yahoo":
		provider = services.NewYahooProvider(cfg)
	default:
		return fmt.Errorf("unknown provider %q", args.Provider)
	}

	quote, err := services.NewResolver(provider).GetOptionQuoteByCode(context.Background(), symbol, code, func(msg string) {
		log.Info(msg)
	})
	if err != nil {
		return err
	}

	printQuote(quote)

	if args.OutFile != "" {
		if err := writeQuote(quote, args.OutFile); err != nil {
			return err
		}
		log.Infof("Exported quote to %s", args.OutFile)
	}

	return nil
}

func printQuote(q *models.OptionQuote) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetColumnSeparator("")

	rows := [][]string{
		{"underlying", q.Underlying},
		{"option_code", string(q.OptionCode)},
		{"option_symbol", q.OptionSymbol},
		{"type", string(q.OptionType)},
		{"expiration", q.Expiration},
		{"strike", q.Strike},
		{"bid", q.Bid},
		{"ask", q.Ask},
		{"last", q.Last},
		{"volume", q.Volume},
		{"open_interest", q.OpenInterest},
		{"iv", q.ImpliedVolatility},
		{"queried_expiration", q.QueriedExpiration},
		{"queried_param", q.QueriedParam},
		{"source", q.Source},
	}

	for _, row := range rows {
		table.Append(row)
	}

	table.Render()
}

func writeQuote(q *models.OptionQuote, outFile string) error {
	var data []byte
	var err error

	switch filepath.Ext(outFile) {
	case ".csv":
		data, err = utils.QuotesCSV([]*models.OptionQuote{q})
	default:
		data, err = utils.QuoteJSON(q)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(outFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outFile, err)
	}

	return nil
}

func main() {
	runCmd.Flags().String("provider", "nasdaq", "quote provider: nasdaq or yahoo")
	runCmd.Flags().String("symbol", "", "underlying ticker, e.g. amd")
	runCmd.Flags().String("code", "", "option code, slug or URL, e.g. 271217c00370000")
	runCmd.Flags().String("url", "", "Nasdaq option-chain URL; implies --symbol and --code")
	runCmd.Flags().String("out", "", "write the quote to this file (.json or .csv)")

	if err := runCmd.Execute(); err != nil {
		log.Fatalf("error executing run command: %v", err)
	}
}
