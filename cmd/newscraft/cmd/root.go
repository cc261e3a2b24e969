package cmd

import (
	"log/slog"
	"os"
	"strings"

	"github.com/rpjhariharan/newscraft/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
	cfg     config.Config
)

// GetConfig returns the loaded configuration.
func GetConfig() config.Config {
	return cfg
}

var rootCmd = &cobra.Command{
	Use:   "newscraft",
	Short: "Newscraft: news-driven social media content generation",
	Long: `Newscraft fetches news articles for a topic, indexes them in
Elasticsearch as embeddings, retrieves the most relevant passages and
asks a language model to turn them into a social media post with
citations - as text, an image, a meme or a video script.

Commands:
  fetch     Fetch news articles for a topic
  generate  Generate a social media post about a topic
  refine    Refine the most recent generated post
  hashtags  Suggest hashtags for a topic
  search    Search indexed articles by semantic similarity
  history   Show archived generations
  index     Manage the article index
  serve     Start the HTTP API server
  mcp       Start the MCP server over stdio`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig, initLogger)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

func initLogger() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

func initConfig() {
	// Start with defaults
	cfg = config.Defaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("/etc/newscraft")
		viper.AddConfigPath(".")
	}

	// Environment variable overrides
	// NEWSCRAFT_ELASTICSEARCH_ADDRESSES -> elasticsearch.addresses
	viper.SetEnvPrefix("NEWSCRAFT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Explicitly bind nested env vars
	viper.BindEnv("news.limit", "NEWSCRAFT_NEWS_LIMIT")
	viper.BindEnv("fulltext.enabled", "NEWSCRAFT_FULLTEXT_ENABLED")
	viper.BindEnv("embeddings.base_url", "NEWSCRAFT_EMBEDDINGS_BASE_URL")
	viper.BindEnv("embeddings.api_key", "NEWSCRAFT_EMBEDDINGS_API_KEY")
	viper.BindEnv("embeddings.model", "NEWSCRAFT_EMBEDDINGS_MODEL")
	viper.BindEnv("llm.base_url", "NEWSCRAFT_LLM_BASE_URL")
	viper.BindEnv("llm.api_key", "NEWSCRAFT_LLM_API_KEY")
	viper.BindEnv("llm.model", "NEWSCRAFT_LLM_MODEL")
	viper.BindEnv("elasticsearch.addresses", "NEWSCRAFT_ELASTICSEARCH_ADDRESSES")
	viper.BindEnv("elasticsearch.index", "NEWSCRAFT_ELASTICSEARCH_INDEX")
	viper.BindEnv("elasticsearch.username", "NEWSCRAFT_ELASTICSEARCH_USERNAME")
	viper.BindEnv("elasticsearch.password", "NEWSCRAFT_ELASTICSEARCH_PASSWORD")
	viper.BindEnv("media.image_api_key", "NEWSCRAFT_MEDIA_IMAGE_API_KEY")
	viper.BindEnv("media.imgflip_username", "NEWSCRAFT_MEDIA_IMGFLIP_USERNAME")
	viper.BindEnv("media.imgflip_password", "NEWSCRAFT_MEDIA_IMGFLIP_PASSWORD")
	viper.BindEnv("media.video_api_key", "NEWSCRAFT_MEDIA_VIDEO_API_KEY")
	viper.BindEnv("server.bind_addr", "NEWSCRAFT_SERVER_BIND_ADDR")
	viper.BindEnv("server.jwt_secret", "NEWSCRAFT_SERVER_JWT_SECRET")
	viper.BindEnv("history.path", "NEWSCRAFT_HISTORY_PATH")
	viper.BindEnv("events.enabled", "NEWSCRAFT_EVENTS_ENABLED")
	viper.BindEnv("events.brokers", "NEWSCRAFT_EVENTS_BROKERS")
	viper.BindEnv("events.topic", "NEWSCRAFT_EVENTS_TOPIC")
	viper.BindEnv("storage.enabled", "NEWSCRAFT_STORAGE_ENABLED")
	viper.BindEnv("storage.endpoint", "NEWSCRAFT_STORAGE_ENDPOINT")
	viper.BindEnv("storage.bucket", "NEWSCRAFT_STORAGE_BUCKET")
	viper.BindEnv("storage.access_key_id", "NEWSCRAFT_STORAGE_ACCESS_KEY_ID")
	viper.BindEnv("storage.secret_access_key", "NEWSCRAFT_STORAGE_SECRET_ACCESS_KEY")

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("config file error", "error", err)
		}
		// No config file - use defaults + env vars
	}

	// Unmarshal into struct (merges config file with defaults)
	if err := viper.Unmarshal(&cfg); err != nil {
		slog.Warn("failed to parse config", "error", err)
	}

	// Handle special case: list values as comma-separated strings from env
	if addrs := os.Getenv("NEWSCRAFT_ELASTICSEARCH_ADDRESSES"); addrs != "" {
		cfg.Elasticsearch.Addresses = strings.Split(addrs, ",")
	}
	if brokers := os.Getenv("NEWSCRAFT_EVENTS_BROKERS"); brokers != "" {
		cfg.Events.Brokers = strings.Split(brokers, ",")
	}
}
