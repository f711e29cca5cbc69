package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/pbaille/voyago/internal/api"
	"github.com/pbaille/voyago/internal/config"
	"github.com/pbaille/voyago/internal/domain"
	"github.com/pbaille/voyago/internal/engine"
	"github.com/pbaille/voyago/internal/importer"
	"github.com/pbaille/voyago/internal/logging"
	"github.com/pbaille/voyago/internal/planner"
	"github.com/pbaille/voyago/internal/render"
	"github.com/pbaille/voyago/internal/store"
)

var (
	dbPath     string
	configPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "voyago",
		Short:         "Trip recommendations and day-by-day itineraries",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $VOYAGO_CONFIG or ./voyago.yaml)")

	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(recommendCmd())
	rootCmd.AddCommand(planCmd())
	rootCmd.AddCommand(tripsCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(surpriseCmd())
	rootCmd.AddCommand(filtersCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type app struct {
	cfg     *config.Config
	store   *store.Store
	planner *planner.Planner
}

func (a *app) Close() error {
	return a.store.Close()
}

// setup loads config, configures logging and opens the store
func setup() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}

	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	if dir := filepath.Dir(cfg.Database.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	s, err := store.New(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	p := planner.New(s, planner.Options{
		Engine:   engine.New(cfg.Engine.Build()),
		Currency: cfg.Currency,
	})
	return &app{cfg: cfg, store: s, planner: p}, nil
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [csv]",
		Short: "Replace the place catalog with a CSV dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			places, stats, err := importer.LoadFile(args[0])
			if err != nil {
				return err
			}

			a, err := setup()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.planner.ImportPlaces(cmd.Context(), places); err != nil {
				return err
			}

			fmt.Printf("Imported %d places from %d rows", stats.Imported, stats.Rows)
			if stats.NoName > 0 || stats.Duplicates > 0 {
				fmt.Printf(" (skipped %d without name, %d duplicates)", stats.NoName, stats.Duplicates)
			}
			fmt.Println()
			return nil
		},
	}
}

func recommendCmd() *cobra.Command {
	var (
		req    planner.RecommendRequest
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "recommend [destination]",
		Short: "Rank places at a destination",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Destination = args[0]

			a, err := setup()
			if err != nil {
				return err
			}
			defer a.Close()

			recs, err := a.planner.Recommend(cmd.Context(), req)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(map[string]any{"recommendations": recs})
			}

			if len(recs) == 0 {
				fmt.Println("No places match. Try fewer filters.")
				return nil
			}
			for i, r := range recs {
				fmt.Printf("%2d. %-32s %-14s rating %.1f  cost %8.2f  score %.3f\n",
					i+1, truncate(r.Name, 32), truncate(r.Category, 14), r.Rating, r.EstimatedCost, r.UtilityScore)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&req.Categories, "category", "c", nil, "place types to keep")
	cmd.Flags().StringSliceVar(&req.Significance, "significance", nil, "significance values to keep")
	cmd.Flags().Float64VarP(&req.Budget, "budget", "b", 5000, "trip budget")
	cmd.Flags().IntVarP(&req.NumDays, "days", "d", 3, "trip length in days")
	cmd.Flags().StringVarP(&req.TravelMode, "mode", "m", "", "travel mode")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func planCmd() *cobra.Command {
	var (
		req    planner.CreateTripRequest
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "plan [destination]",
		Short: "Build and save a day-by-day itinerary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Destination = args[0]

			a, err := setup()
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.planner.CreateTrip(cmd.Context(), req)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(res)
			}

			fmt.Printf("Trip %s to %s\n\n", res.TripID, req.Destination)
			printItems(res.Itinerary)
			fmt.Printf("\nTransit: %.2f  Total: %.2f %s\n", res.TransitCost, res.TotalCost, a.cfg.Currency)
			return nil
		},
	}

	cmd.Flags().StringVarP(&req.UserID, "user", "u", "local", "owner of the trip")
	cmd.Flags().StringVar(&req.Origin, "origin", "", "departure city")
	cmd.Flags().StringSliceVarP(&req.Categories, "category", "c", nil, "categories to record with the trip")
	cmd.Flags().Float64VarP(&req.Budget, "budget", "b", 5000, "trip budget")
	cmd.Flags().IntVarP(&req.NumDays, "days", "d", 3, "trip length in days")
	cmd.Flags().StringVarP(&req.TravelMode, "mode", "m", "", "travel mode")
	cmd.Flags().StringVar(&req.Currency, "currency", "", "currency code (default from config)")
	cmd.Flags().StringVar(&req.StartDate, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&req.EndDate, "end", "", "end date (YYYY-MM-DD)")
	cmd.Flags().StringSliceVarP(&req.SelectedPlaces, "place", "p", nil, "places to visit (default: best rated at destination)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func tripsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trips [user]",
		Short: "List a user's trips",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user := "local"
			if len(args) == 1 {
				user = args[0]
			}

			a, err := setup()
			if err != nil {
				return err
			}
			defer a.Close()

			trips, err := a.planner.Trips(cmd.Context(), user)
			if err != nil {
				return err
			}

			if len(trips) == 0 {
				fmt.Println("No trips yet. Use 'voyago plan' to create one.")
				return nil
			}

			for _, t := range trips {
				fmt.Printf("%s  %-20s %2d days  %10.2f %s  %s\n",
					t.ID[:8], truncate(t.Destination, 20), t.NumDays, t.TotalCost, t.Currency,
					t.CreatedAt.Format("2006-01-02"))
			}
			return nil
		},
	}
}

func showCmd() *cobra.Command {
	var planned bool

	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show trip details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.Close()

			trip, err := a.planner.Trip(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("ID:          %s\n", trip.ID)
			fmt.Printf("User:        %s\n", trip.UserID)
			fmt.Printf("Destination: %s\n", trip.Destination)
			if trip.Origin != "" {
				fmt.Printf("Origin:      %s\n", trip.Origin)
			}
			fmt.Printf("Days:        %d\n", trip.NumDays)
			if trip.TravelMode != "" {
				fmt.Printf("Mode:        %s\n", trip.TravelMode)
			}
			fmt.Printf("Total:       %.2f %s\n", trip.TotalCost, trip.Currency)
			fmt.Printf("Created:     %s\n\n", trip.CreatedAt.Format("2006-01-02 15:04:05"))

			if !planned {
				printItems(trip.Items)
				return nil
			}

			// the table saved at planning time, before any hand edits
			rows, err := render.ParseTable(trip.ItineraryHTML)
			if err != nil {
				return err
			}
			fmt.Println(strings.Join(render.Columns, "  "))
			for _, row := range rows {
				fmt.Println(strings.Join(row, "  "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&planned, "planned", false, "show the itinerary as originally planned")
	return cmd
}

func exportCmd() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export [id]",
		Short: "Export a trip as json, yaml or csv",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.Close()

			if output == "" || output == "-" {
				return a.planner.Export(cmd.Context(), args[0], format, os.Stdout)
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			if err := a.planner.Export(cmd.Context(), args[0], format, f); err != nil {
				f.Close()
				os.Remove(output)
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "json, yaml or csv")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func surpriseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "surprise",
		Short: "Suggest a random destination",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.Close()

			city, err := a.planner.SurpriseDestination(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("How about %s?\n", city)
			return nil
		},
	}
}

func filtersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "filters",
		Short: "List catalog cities, types and other filter values",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.Close()

			f, err := a.planner.Filters(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(f)
		},
	}
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.Close()

			if addr == "" {
				addr = a.cfg.Server.Addr
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := api.New(a.planner, api.Options{
				Addr:              addr,
				CORSOrigins:       a.cfg.Server.CORSOrigins,
				RateLimitRequests: a.cfg.Server.RateLimitRequests,
				RateLimitWindow:   a.cfg.Server.RateLimitWindow,
			})
			return server.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "server address (default from config)")
	return cmd
}

func printItems(items []domain.ItineraryItem) {
	if len(items) == 0 {
		fmt.Println("(no items)")
		return
	}
	day := 0
	for _, it := range items {
		if it.Day != day {
			day = it.Day
			fmt.Printf("Day %d\n", day)
		}
		fmt.Printf("  %s-%s  %-32s %8.2f  %s\n",
			it.StartTime, it.EndTime, truncate(it.PlaceName, 32), it.EstimatedCost, it.Notes)
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
