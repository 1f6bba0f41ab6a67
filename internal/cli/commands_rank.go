package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"office-locator-service/internal/adapters/repositories"
	"office-locator-service/internal/api/dto"
	"office-locator-service/internal/app"
	"office-locator-service/internal/config"
	"office-locator-service/internal/domain"
	"office-locator-service/internal/ports"
	"office-locator-service/internal/services"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

type rankOptions struct {
	dataset string
	query   string
	lat     float64
	lon     float64
	unit    string
	limit   int
	strict  bool
	json    bool
}

func newRankCommand(deps Dependencies) *cobra.Command {
	cfg := currentConfig(deps)
	opts := rankOptions{}

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank offices by distance from an address, ZIP or coordinate.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			hasCoord := cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon")
			if hasCoord && !(cmd.Flags().Changed("lat") && cmd.Flags().Changed("lon")) {
				return errors.New("--lat and --lon must be given together")
			}
			query := strings.TrimSpace(opts.query)
			if hasCoord == (query != "") {
				return errors.New("give either --query or --lat/--lon")
			}

			cfg.DatasetSource = opts.dataset
			cfg.DistanceUnit = opts.unit
			cfg.DatasetStrict = opts.strict
			return runRank(cmd.Context(), cmd.OutOrStdout(), cfg, deps, opts, hasCoord)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.dataset, "dataset", cfg.DatasetSource, "Dataset location: CSV path, .xlsx, http(s) URL, s3://bucket/key or sql.")
	flags.StringVar(&opts.query, "query", "", "Address or ZIP code to geocode.")
	flags.Float64Var(&opts.lat, "lat", 0, "Reference latitude.")
	flags.Float64Var(&opts.lon, "lon", 0, "Reference longitude.")
	flags.StringVar(&opts.unit, "unit", cfg.DistanceUnit, "Distance unit: km or mi.")
	flags.IntVar(&opts.limit, "limit", 10, "Number of offices to print (0 for all).")
	flags.BoolVar(&opts.strict, "strict", cfg.DatasetStrict, "Exclude rows with unusable coordinates instead of defaulting to 0.")
	flags.BoolVar(&opts.json, "json", false, "Print the ranking as JSON.")

	return cmd
}

func runRank(ctx context.Context, out io.Writer, cfg config.Config, deps Dependencies, opts rankOptions, byCoord bool) error {
	var (
		conn *sql.DB
		repo ports.OfficeRepository
	)
	if app.NeedsDatabase(cfg) {
		db, dialect, err := app.OpenDatabase(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close()
		conn = db
		repo = repositories.NewSQLOfficeRepository(db, dialect)
	}

	geocoder := deps.Geocoder
	if geocoder == nil && !byCoord {
		gc, closeCache, err := app.NewGeocodeCache(ctx, cfg, conn)
		if err != nil {
			return err
		}
		defer closeCache()

		if geocoder, err = app.NewGeocoder(cfg, gc, nil); err != nil {
			return err
		}
	}

	svc, err := app.NewServices(cfg, geocoder, nil)
	if err != nil {
		return err
	}

	load, err := app.DatasetLoader(cfg, repo)(ctx)
	if err != nil {
		return err
	}
	svc.Engine.SetOffices(load.Offices)

	var res services.Resolution
	if byCoord {
		locator := ports.DeviceLocatorFunc(func(context.Context) (domain.Coordinate, error) {
			return domain.Coordinate{Lon: opts.lon, Lat: opts.lat}, nil
		})
		res, err = svc.Provider.ResolveWith(ctx, locator)
	} else {
		res, err = svc.Provider.Lookup(ctx, opts.query)
	}
	if err != nil {
		return err
	}

	snap := dto.Snapshot(res.Snapshot, opts.limit)
	if opts.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}
	return printRanking(out, snap)
}

func printRanking(out io.Writer, snap dto.SnapshotResponse) error {
	if snap.Reference != nil {
		_, _ = fmt.Fprintf(out, "reference: lon=%.6f lat=%.6f (%s)\n\n",
			snap.Reference.Coordinate.Lon, snap.Reference.Coordinate.Lat, snap.Reference.Source)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "#\tID\tNAME\tDISTANCE (%s)\tURL\n", snap.Unit)
	for i, o := range snap.Offices {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\t%s\n", i+1, o.ID, o.Name, o.Distance, o.URL)
	}
	return tw.Flush()
}
