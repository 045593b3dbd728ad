package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kerem-kaynak/legalname/internal/config"
	"github.com/kerem-kaynak/legalname/pkg/legalname"
)

var (
	cfg        *config.Config
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "legalname",
	Short: "Strip and classify legal-entity terms in company names",
	Long:  "Removes legal-form terms such as \"Oy\", \"GmbH & Co. KG\" or \"有限公司\" from the edges of company names and reports the entity types and countries they imply.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configPath)
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		if err := c.Validate(); err != nil {
			return err
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./legalname.yaml)")
}

// newClassifier builds a classifier from the configured dictionary and cache settings.
func newClassifier() (*legalname.Classifier, error) {
	data, err := loadTermData()
	if err != nil {
		return nil, err
	}

	return legalname.New(data, legalname.Config{
		Cache:          cfg.Cache.Enabled,
		FoldCacheSize:  cfg.Cache.FoldSize,
		QueryCacheSize: cfg.Cache.QuerySize,
		Logger:         zap.L(),
	})
}

func loadTermData() (legalname.TermData, error) {
	if cfg.Terms.Path == "" {
		return legalname.DefaultTermData()
	}
	zap.L().Info("loading term dictionary", zap.String("path", cfg.Terms.Path))
	return legalname.LoadTermDataFile(cfg.Terms.Path)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
