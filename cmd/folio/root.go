package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dvh-sh/folio"
)

var cfgFile string

// fileConfig mirrors folio.SiteConfig with config-file keys.
type fileConfig struct {
	Name          string        `mapstructure:"name"`
	URL           string        `mapstructure:"url"`
	Description   string        `mapstructure:"description"`
	Author        string        `mapstructure:"author"`
	Addr          string        `mapstructure:"addr"`
	ViewStore     string        `mapstructure:"view_store"`
	DatabasePath  string        `mapstructure:"database_path"`
	MongoURI      string        `mapstructure:"mongo_uri"`
	MongoDatabase string        `mapstructure:"mongo_database"`
	PortfolioURL  string        `mapstructure:"portfolio_url"`
	BlogAPIURL    string        `mapstructure:"blog_api_url"`
	CookingDir    string        `mapstructure:"cooking_dir"`
	ContentTTL    time.Duration `mapstructure:"content_ttl"`
	SessionSecret string        `mapstructure:"session_secret"`
	CookieSecure  bool          `mapstructure:"cookie_secure"`
	StaticDir     string        `mapstructure:"static_dir"`
	LogLevel      string        `mapstructure:"log_level"`
	Metrics       bool          `mapstructure:"metrics"`
	RateLimit     float64       `mapstructure:"rate_limit"`
}

func (f fileConfig) site() folio.SiteConfig {
	return folio.SiteConfig{
		Name:          f.Name,
		URL:           f.URL,
		Description:   f.Description,
		Author:        f.Author,
		Addr:          f.Addr,
		ViewStore:     f.ViewStore,
		DatabasePath:  f.DatabasePath,
		MongoURI:      f.MongoURI,
		MongoDatabase: f.MongoDatabase,
		PortfolioURL:  f.PortfolioURL,
		BlogAPIURL:    f.BlogAPIURL,
		CookingDir:    f.CookingDir,
		ContentTTL:    f.ContentTTL,
		SessionSecret: f.SessionSecret,
		CookieSecure:  f.CookieSecure,
		StaticDir:     f.StaticDir,
		LogLevel:      f.LogLevel,
		Metrics:       f.Metrics,
		RateLimit:     f.RateLimit,
	}
}

var siteConfig folio.SiteConfig

var rootCmd = &cobra.Command{
	Use:           "folio",
	Short:         "Personal portfolio site",
	Long:          `folio serves a portfolio home page, a blog, a cooking collection and a software page from a single binary.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./folio.yaml)")
	rootCmd.AddCommand(serveCmd, versionCmd, viewsCmd)
}

func initializeConfig() error {
	v := viper.New()

	v.SetDefault("name", "Portfolio")
	v.SetDefault("addr", ":3000")
	v.SetDefault("view_store", folio.StoreSQLite)
	v.SetDefault("content_ttl", "5m")
	v.SetDefault("log_level", "info")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("folio")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("FOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only covers keys viper already knows about.
	for _, key := range []string{
		"url", "description", "author", "database_path", "mongo_uri", "mongo_database",
		"portfolio_url", "blog_api_url", "cooking_dir", "session_secret", "cookie_secure",
		"static_dir", "metrics", "rate_limit",
	} {
		if err := v.BindEnv(key); err != nil {
			return err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return fmt.Errorf("read config: %w", err)
		}
	}

	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	siteConfig = fc.site()
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the folio version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "folio %s\n", version)
	},
}
