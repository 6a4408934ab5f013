package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"propinsight/internal/config"
	"propinsight/internal/logging"
	"propinsight/internal/model"
	"propinsight/internal/service"
)

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:      "advisor",
		Usage:     "Compare listed property prices with market estimates",
		Version:   fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Writer:    out,
		ErrWriter: out,

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "estimator-url",
				Usage:   "Base URL of the estimation service",
				EnvVars: []string{"ESTIMATOR_URL"},
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Usage:   "Timeout of each call to the estimation service",
				EnvVars: []string{"ESTIMATOR_TIMEOUT"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "table",
				Usage:   "Output format (table, json)",
			},
		},

		Commands: []*cli.Command{
			analyzeCommand(),
			recommendCommand(),
			regionsCommand(),
		},
	}
}

// =============================================================================
// ANALYZE COMMAND
// =============================================================================

func analyzeCommand() *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "Check a listed price against the market estimate",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "city", Aliases: []string{"c"}, Usage: "Region of the property", Required: true},
			&cli.StringFlag{Name: "price", Aliases: []string{"p"}, Usage: "Listed price, any formatting (e.g. \"₹ 1,25,00,000\")", Required: true},
			&cli.StringFlag{Name: "bedroom", Aliases: []string{"b"}, Value: "1", Usage: "Bedroom count (BHK)"},
			&cli.BoolFlag{Name: "refresh", Usage: "Ignore cached estimates"},
		},
		Action: runAnalyze,
	}
}

func runAnalyze(c *cli.Context) error {
	advisor, logger, err := newAdvisor(c)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	result, err := advisor.AnalyzePrice(c.Context, model.Property{
		City:    c.String("city"),
		Price:   c.String("price"),
		Bedroom: c.String("bedroom"),
	}, c.Bool("refresh"))
	if err != nil {
		return describe(err)
	}

	if c.String("format") == "json" {
		return writeJSON(c.App.Writer, result)
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Region:\t%s\n", result.Region)
	fmt.Fprintf(tw, "Bedrooms:\t%d\n", result.BedroomCount)
	fmt.Fprintf(tw, "Listed price:\t%s\n", result.ListedPrice.StringFixed(2))
	fmt.Fprintf(tw, "Predicted price:\t%s\n", result.PredictedPrice.StringFixed(2))
	fmt.Fprintf(tw, "Verdict:\t%s\n", verdict(result.Variation))
	if result.ServiceLabel != "" {
		fmt.Fprintf(tw, "Service says:\t%s\n", result.ServiceLabel)
	}
	return tw.Flush()
}

// =============================================================================
// RECOMMEND COMMAND
// =============================================================================

func recommendCommand() *cli.Command {
	return &cli.Command{
		Name:  "recommend",
		Usage: "List comparable properties in the given regions",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "region", Aliases: []string{"r"}, Usage: "Region to search (repeatable)", Required: true},
			&cli.IntFlag{Name: "cap", Value: service.DefaultRecommendationCap, Usage: "Maximum number of properties"},
			&cli.BoolFlag{Name: "refresh", Usage: "Ignore cached recommendations"},
		},
		Action: runRecommend,
	}
}

func runRecommend(c *cli.Context) error {
	advisor, logger, err := newAdvisor(c)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	regions := model.NewRegionSet(c.StringSlice("region")...)
	properties, err := advisor.GetRecommendations(c.Context, regions, c.Int("cap"), c.Bool("refresh"))
	if err != nil {
		return describe(err)
	}

	if c.String("format") == "json" {
		return writeJSON(c.App.Writer, properties)
	}

	if len(properties) == 0 {
		fmt.Fprintln(c.App.Writer, "No comparable properties found.")
		return nil
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LOCALITY\tREGION\tTYPE\tBHK\tAREA\tSTATUS\tAGE")
	for _, p := range properties {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			p.Locality, p.Region, p.PropertyType, p.BedroomCount, p.Area, p.Status, p.Age)
	}
	return tw.Flush()
}

// =============================================================================
// REGIONS COMMAND
// =============================================================================

func regionsCommand() *cli.Command {
	return &cli.Command{
		Name:  "regions",
		Usage: "Edit a region list and print the result",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "region", Aliases: []string{"r"}, Usage: "Current regions (repeatable)"},
			&cli.StringSliceFlag{Name: "add", Usage: "Region to add (repeatable)"},
			&cli.StringSliceFlag{Name: "remove", Usage: "Region to remove (repeatable)"},
		},
		Action: runRegions,
	}
}

func runRegions(c *cli.Context) error {
	set := model.NewRegionSet(c.StringSlice("region")...)

	var err error
	for _, region := range c.StringSlice("add") {
		if set, err = service.ApplyRegionAction(set, service.RegionActionAdd, region); err != nil {
			return describe(err)
		}
	}
	for _, region := range c.StringSlice("remove") {
		if set, err = service.ApplyRegionAction(set, service.RegionActionRemove, region); err != nil {
			return describe(err)
		}
	}

	if c.String("format") == "json" {
		return writeJSON(c.App.Writer, set)
	}
	fmt.Fprintln(c.App.Writer, strings.Join(set.Names(), "\n"))
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func newAdvisor(c *cli.Context) (*service.Advisor, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if c.IsSet("estimator-url") {
		cfg.Estimator.BaseURL = c.String("estimator-url")
	}
	if c.IsSet("timeout") {
		cfg.Estimator.Timeout = c.Duration("timeout")
	}
	cfg.Logging.Level = c.String("log-level")
	cfg.Logging.Format = "console"

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, nil, err
	}

	client := service.NewHTTPEstimationClient(&cfg.Estimator, logger)
	advisor, err := service.NewAdvisor(client, nil, service.OptionsFromConfig(cfg), logger)
	if err != nil {
		return nil, nil, err
	}
	return advisor, logger, nil
}

// describe turns advisor errors into messages fit for a terminal
func describe(err error) error {
	var (
		validation *model.ValidationError
		domain     *model.DomainError
		transport  *model.TransportError
	)
	switch {
	case errors.As(err, &validation):
		return fmt.Errorf("invalid --%s: %w", flagFor(validation.Field), validation.Err)
	case errors.As(err, &domain):
		return errors.New(domain.Message)
	case errors.As(err, &transport):
		return fmt.Errorf("estimation service unavailable (retry later): %w", err)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("cancelled")
	default:
		return err
	}
}

func flagFor(field string) string {
	switch field {
	case "region":
		return "city"
	case "regions":
		return "region"
	default:
		return field
	}
}

func verdict(v model.Variation) string {
	switch v {
	case model.VariationAbove:
		return "Above market"
	case model.VariationBelow:
		return "Below market"
	default:
		return "At market"
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
