package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"goeda/adapters/console"
	"goeda/app"
	"goeda/internal"
	"goeda/internal/config"
	"goeda/internal/testkit"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:          "eda",
		Short:        "Automated exploratory data analysis with a findings report in Portuguese",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("config", "", "YAML configuration file (default ./eda.yaml)")

	rootCmd.AddCommand(
		newRunCmd(),
		newDemoCmd(),
		newConfigCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runFlags are applied over the loaded configuration only when set explicitly
type runFlags struct {
	name      string
	alpha     float64
	maxPlots  int
	maxQQ     int
	maxBox    int
	topK      int
	sampleCap int
	seed      int64
	out       string
	plots     string
	noPlots   bool
	serve     string
	quiet     bool
	jsonOut   bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Dataset label used in the report")
	cmd.Flags().Float64Var(&f.alpha, "alpha", 0.05, "Significance level of the normality tests")
	cmd.Flags().IntVar(&f.maxPlots, "max-plots", 12, "Maximum number of histograms")
	cmd.Flags().IntVar(&f.maxQQ, "max-qq", 6, "Maximum number of QQ plots")
	cmd.Flags().IntVar(&f.maxBox, "max-box", 8, "Maximum number of boxplots")
	cmd.Flags().IntVar(&f.topK, "top-k", 15, "Categories shown per categorical column")
	cmd.Flags().IntVar(&f.sampleCap, "sample-cap", 5000, "Largest sample handed to a normality test")
	cmd.Flags().Int64Var(&f.seed, "seed", 42, "Seed of the normality subsample")
	cmd.Flags().StringVar(&f.out, "out", "eda_resumo.txt", "Report file")
	cmd.Flags().StringVar(&f.plots, "plots", "eda_graficos.html", "Figure page file")
	cmd.Flags().BoolVar(&f.noPlots, "no-plots", false, "Skip figures")
	cmd.Flags().StringVar(&f.serve, "serve", "", "Serve the findings on this address after the run, e.g. :8080")
	cmd.Flags().BoolVar(&f.quiet, "quiet", false, "Do not print the intermediate tables")
	cmd.Flags().BoolVar(&f.jsonOut, "json", false, "Print the run result as JSON instead of the tables")
}

func (f *runFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	changed := cmd.Flags().Changed
	if changed("alpha") {
		cfg.Analysis.Alpha = f.alpha
	}
	if changed("max-plots") {
		cfg.Plot.MaxNumericPlots = f.maxPlots
	}
	if changed("max-qq") {
		cfg.Plot.MaxQQPlots = f.maxQQ
	}
	if changed("max-box") {
		cfg.Plot.MaxBoxPlots = f.maxBox
	}
	if changed("top-k") {
		cfg.Analysis.TopKCategories = f.topK
	}
	if changed("sample-cap") {
		cfg.Analysis.SampleCap = f.sampleCap
	}
	if changed("seed") {
		cfg.Analysis.Seed = f.seed
	}
	if changed("out") {
		cfg.Output.SummaryPath = f.out
	}
	if changed("plots") {
		cfg.Output.PlotsPath = f.plots
	}
	if f.noPlots {
		cfg.Plot.Enabled = false
	}
	if changed("serve") {
		cfg.Server.Addr = f.serve
	}
	return config.Validate(cfg)
}

// label returns --name when given, fallback otherwise
func (f *runFlags) label(cmd *cobra.Command, fallback string) string {
	if cmd.Flags().Changed("name") {
		return f.name
	}
	return fallback
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	internal.DefaultLogger.SetLevel(internal.ParseLogLevel(cfg.Logging.Level))
	return cfg, nil
}

func newRunCmd() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Analyse a CSV or Excel file and write the findings report",
		Long: `Analyse a CSV or Excel file: data types, missingness, duplicates,
descriptive statistics, normality tests, IQR outliers, correlations and
sigma intervals. The report is written to eda_resumo.txt and the figures
to eda_graficos.html unless configured otherwise.

Example: eda run vendas.csv --alpha 0.01 --serve :8080`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}
			path := cfg.Data.File
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return fmt.Errorf("no data file: pass one or set data.file / EDA_DATA_FILE")
			}
			return execute(cmd, cfg, flags, app.AnalyzeRequest{Path: path, Name: flags.label(cmd, "")})
		},
	}
	flags.register(cmd)
	return cmd
}

func newDemoCmd() *cobra.Command {
	var flags runFlags
	var rows int

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the analysis on a generated shopping dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}
			genCfg := testkit.DefaultShoppingConfig()
			genCfg.Rows = rows
			genCfg.Seed = cfg.Analysis.Seed
			table := testkit.NewShoppingDataGenerator(genCfg).GenerateTable()

			name := flags.label(cmd, cfg.Analysis.DatasetName)
			if name == "" {
				name = "compras_sinteticas"
			}
			return execute(cmd, cfg, flags, app.AnalyzeRequest{Table: table, Name: name})
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&rows, "rows", 500, "Rows to generate")
	return cmd
}

func execute(cmd *cobra.Command, cfg *config.Config, flags runFlags, req app.AnalyzeRequest) error {
	var svc *app.EDAService
	if flags.quiet || flags.jsonOut {
		svc = app.NewEDAService(cfg, nil)
	} else {
		svc = app.NewEDAService(cfg, console.NewPrinter(cmd.OutOrStdout()))
	}

	resp, err := svc.Analyze(cmd.Context(), req)
	if err != nil {
		return err
	}

	if flags.jsonOut {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp.Result); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "\nResumo salvo em %s\n", resp.Result.SummaryPath)
		if resp.PlotsPath != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Gráficos salvos em %s\n", resp.PlotsPath)
		}
	}

	if cfg.Server.Addr == "" {
		return nil
	}
	return svc.Serve(cmd.Context(), resp)
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration (default ./eda.yaml)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "eda.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := config.Save(config.Default(), path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuração escrita em %s\n", path)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(cfg)
		},
	})
	return cmd
}
