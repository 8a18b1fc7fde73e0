package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MattiaPT/displayer/internal/config"
	"github.com/MattiaPT/displayer/internal/dataset"
	"github.com/MattiaPT/displayer/internal/export"
	"github.com/MattiaPT/displayer/internal/log"
	"github.com/MattiaPT/displayer/internal/pipeline"
	"github.com/MattiaPT/displayer/internal/web"
)

var (
	version = "dev" // set by ldflags during build

	cfgFile          string
	root             string
	addr             string
	includeExt       []string
	templateDir      string
	logFile          string
	logJSON          bool
	exportPath       string
	geohashPrecision uint
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "displayer",
	Short: "Show geotagged photos on a map timeline",
	Long: `displayer scans a directory tree for photographs, reads their GPS
position and capture time from EXIF metadata, and serves them on a map
ordered by capture time.`,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Scan the root directory and serve the map",
	RunE:  runServe,
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the root directory and print a summary",
	RunE:  runScan,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(versionCmd)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file path")
	flags.StringVarP(&root, "root", "r", "", "root directory to scan")
	flags.StringSliceVarP(&includeExt, "include-ext", "e", nil, "file extensions to include")
	flags.StringVar(&logFile, "log-file", "", "log file path")
	flags.BoolVar(&logJSON, "log-json", false, "write JSON logs to the log file")
	flags.UintVar(&geohashPrecision, "geohash-precision", 0, "geohash length in GeoJSON output (1-12)")

	serveCmd.Flags().StringVar(&addr, "addr", "", "HTTP server address")
	serveCmd.Flags().StringVar(&templateDir, "template-dir", "", "directory with custom *.html templates")

	scanCmd.Flags().StringVarP(&exportPath, "export", "o", "", "write the dataset as GeoJSON to this path")
}

func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.LoadFromFile(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	} else {
		cfg = config.DefaultConfig()
	}

	if root != "" {
		cfg.Root = root
	}
	if addr != "" {
		cfg.Addr = addr
	}
	if len(includeExt) > 0 {
		cfg.IncludeExtensions = includeExt
	}
	if templateDir != "" {
		cfg.TemplateDir = templateDir
	}
	if logFile != "" {
		cfg.LogFile = logFile
	}
	if logJSON {
		cfg.LogJSON = true
	}
	if exportPath != "" {
		cfg.ExportPath = exportPath
	}
	if geohashPrecision != 0 {
		cfg.GeohashPrecision = geohashPrecision
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// build loads the configuration and runs the pipeline. The returned logger
// must be closed by the caller.
func build() (*config.Config, *log.Logger, *dataset.Dataset, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	logger, err := log.New(cfg.LogFile, cfg.LogJSON)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	ds, _, err := pipeline.New(cfg, logger).Run()
	if err != nil {
		logger.Error("Scan failed", err)
		logger.Close()
		return nil, nil, nil, err
	}
	return cfg, logger, ds, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, ds, err := build()
	if err != nil {
		return err
	}
	defer logger.Close()

	renderer, err := web.NewRenderer(cfg.TemplateDir)
	if err != nil {
		return err
	}

	server := web.NewServer(ds, renderer, logger)
	server.SetVersion(version)
	server.SetGeohashPrecision(cfg.GeohashPrecision)

	return server.Start(cfg.Addr)
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, logger, ds, err := build()
	if err != nil {
		return err
	}
	defer logger.Close()

	if cfg.ExportPath == "" {
		return nil
	}

	if err := export.WriteGeoJSON(cfg.ExportPath, ds, cfg.GeohashPrecision); err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}
	logger.Info("Exported dataset", zap.String("path", cfg.ExportPath), zap.Int("assets", ds.Len()))
	return nil
}
