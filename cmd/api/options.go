package main

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"talhoes.dashboard.org/internal/appconf"
	"talhoes.dashboard.org/internal/catalog"
	"talhoes.dashboard.org/internal/dataset"
	"talhoes.dashboard.org/internal/parcels"
	"talhoes.dashboard.org/internal/synth"
	"talhoes.dashboard.org/internal/utils"
)

// options holds every setting shared by the sub-commands.
type options struct {
	dataPath    string
	dbPath      string
	env         string
	variant     string
	farmsConfig string
	adminKey    string
	seed        uint64
	port        int
	rateLimit   int
	watch       bool
	verbose     bool
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return def
}

func envUint(key string, def uint64) uint64 {
	if n, err := strconv.ParseUint(os.Getenv(key), 10, 64); err == nil {
		return n
	}
	return def
}

func envBool(key string, def bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return def
}

func defaultOptions() *options {
	return &options{
		dataPath:    envString("TALHOES_DATA", "data/talhoes.geojson"),
		dbPath:      envString("TALHOES_DB", ""),
		env:         envString("TALHOES_ENV", "development"),
		variant:     envString("TALHOES_VARIANT", string(synth.VariantStandard)),
		farmsConfig: envString("TALHOES_FARMS_CONFIG", ""),
		adminKey:    envString("TALHOES_ADMIN_KEY", ""),
		seed:        envUint("TALHOES_SEED", synth.DefaultSeed),
		port:        envInt("PORT", 4000),
		rateLimit:   envInt("TALHOES_RATE_LIMIT", 100),
		watch:       envBool("TALHOES_WATCH", false),
		verbose:     envBool("TALHOES_VERBOSE", false),
	}
}

func (o *options) bindFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&o.dataPath, "data", o.dataPath, "Parcel layer (.geojson, .json or .shp) [TALHOES_DATA]")
	flags.StringVar(&o.dbPath, "db", o.dbPath, "SQLite file for the table store, in memory when empty [TALHOES_DB]")
	flags.StringVar(&o.env, "env", o.env, "Environment (development|test|production) [TALHOES_ENV]")
	flags.StringVar(&o.variant, "variant", o.variant, "Productivity variant (standard|alternate) [TALHOES_VARIANT]")
	flags.StringVar(&o.farmsConfig, "farms-config", o.farmsConfig, "YAML farm catalogue overriding the built-in one [TALHOES_FARMS_CONFIG]")
	flags.StringVar(&o.adminKey, "admin-key", o.adminKey, "Key required by POST /api/v1/reload, open when empty [TALHOES_ADMIN_KEY]")
	flags.Uint64Var(&o.seed, "seed", o.seed, "Seed for the synthetic attributes [TALHOES_SEED]")
	flags.IntVar(&o.port, "port", o.port, "HTTP server port [PORT]")
	flags.IntVar(&o.rateLimit, "rate-limit", o.rateLimit, "Requests per second per client, 0 disables [TALHOES_RATE_LIMIT]")
	flags.BoolVar(&o.watch, "watch", o.watch, "Reload when the parcel layer changes on disk [TALHOES_WATCH]")
	flags.BoolVarP(&o.verbose, "verbose", "v", o.verbose, "Debug logging [TALHOES_VERBOSE]")
}

func (o *options) appConfig() appconf.Config {
	return appconf.Config{
		Port:      o.port,
		Env:       appconf.EnvFlagToEnvironment(o.env),
		RateLimit: o.rateLimit,
		AdminKey:  o.adminKey,
		Verbose:   o.verbose,
	}
}

// parcelsConfig resolves the variant and the farm catalogue; the catalogue
// travels in Synth.Catalog.
func (o *options) parcelsConfig() (parcels.Config, error) {
	variant, err := synth.ParseVariant(o.variant)
	if err != nil {
		return parcels.Config{}, err
	}
	farms, err := catalog.Load(o.farmsConfig)
	if err != nil {
		return parcels.Config{}, err
	}

	return parcels.Config{
		DataPath: o.dataPath,
		DBPath:   o.dbPath,
		Env:      appconf.EnvFlagToEnvironment(o.env),
		Verbose:  o.verbose,
		Synth: synth.Options{
			Seed:    o.seed,
			Variant: variant,
			Catalog: farms,
		},
		Watch: o.watch,
	}, nil
}

// loadManager performs the startup load. watch is honoured only when asked,
// one-shot commands never watch.
func (o *options) loadManager(logger *slog.Logger, watch bool) (*parcels.Manager, parcels.Config, error) {
	config, err := o.parcelsConfig()
	if err != nil {
		return nil, parcels.Config{}, err
	}
	config.Watch = config.Watch && watch

	manager, err := parcels.InitManager(config, logger)
	if err != nil {
		return nil, parcels.Config{}, fmt.Errorf("error loading %s: %w", o.dataPath, err)
	}
	return manager, config, nil
}

// filterFlags selects parcels for the one-shot commands, mirroring the
// dashboard query parameters.
type filterFlags struct {
	farms  []string
	ageMin int
	ageMax int
}

func (f *filterFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.farms, "farm", nil, "Farm to include, repeatable; all farms when omitted")
	cmd.Flags().IntVar(&f.ageMin, "age-min", 0, "Minimum age in years; dataset minimum when omitted")
	cmd.Flags().IntVar(&f.ageMax, "age-max", 0, "Maximum age in years; dataset maximum when omitted")
}

// resolve turns the flags that were actually set into a dataset filter.
func (f *filterFlags) resolve(cmd *cobra.Command, ds *dataset.Dataset) (dataset.Filter, error) {
	values := url.Values{}
	if cmd.Flags().Changed("farm") {
		values[utils.FarmParam] = append([]string{""}, f.farms...)
	}
	if cmd.Flags().Changed("age-min") {
		values.Set(utils.AgeMinParam, strconv.Itoa(f.ageMin))
	}
	if cmd.Flags().Changed("age-max") {
		values.Set(utils.AgeMaxParam, strconv.Itoa(f.ageMax))
	}

	params, fieldErrors := utils.ParseFilter(values, ds)
	if len(fieldErrors) > 0 {
		return dataset.Filter{}, fmt.Errorf("invalid filter: %v", fieldErrors)
	}
	return params.Filter, nil
}
