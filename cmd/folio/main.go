package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/minseokoh/folio/internal/app"
	"github.com/minseokoh/folio/internal/common"
)

func main() {
	configPath := os.Getenv("FOLIO_CONFIG")

	a, err := app.NewApp(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	common.PrintBanner(a.Config, a.Logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	account := ""
	if len(os.Args) > 1 {
		account = os.Args[1]
	}

	// Full synchronization pass: rates, prices, sectors, snapshot.
	if report, err := a.RateService.UpdateRates(ctx, nil); err != nil {
		a.Logger.Error().Err(err).Msg("Rate update failed")
	} else {
		a.Logger.Info().Int("success", report.SuccessCount).Int("fail", report.FailCount).Msg("Rates updated")
	}

	if report, err := a.SymbolService.RefreshPrices(ctx, nil); err != nil {
		a.Logger.Error().Err(err).Msg("Price refresh failed")
	} else {
		a.Logger.Info().Int("success", report.SuccessCount).Int("fail", report.FailCount).Int("skip", report.SkipCount).Msg("Prices refreshed")
	}

	if report, err := a.SymbolService.RefreshSectorInfo(ctx); err != nil {
		a.Logger.Error().Err(err).Msg("Sector refresh failed")
	} else {
		a.Logger.Info().Int("success", report.SuccessCount).Int("fail", report.FailCount).Msg("Sector info refreshed")
	}

	if report, err := a.BalanceService.ResyncAll(ctx); err != nil {
		a.Logger.Error().Err(err).Msg("Snapshot reconciliation failed")
	} else {
		a.Logger.Info().Str("report_id", report.ID).Msg("Snapshot reconciled")
	}

	result, err := a.AllocationService.Aggregate(ctx, account)
	if err != nil {
		a.Logger.Fatal().Err(err).Msg("Allocation aggregation failed")
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		a.Logger.Fatal().Err(err).Msg("Failed to encode allocation")
	}
	fmt.Println(string(out))
}
