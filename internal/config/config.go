package config

import "time"

// Config holds all application configuration.
type Config struct {
	News          News          `mapstructure:"news"`
	Fulltext      Fulltext      `mapstructure:"fulltext"`
	Embeddings    Embeddings    `mapstructure:"embeddings"`
	LLM           LLM           `mapstructure:"llm"`
	Elasticsearch Elasticsearch `mapstructure:"elasticsearch"`
	Media         Media         `mapstructure:"media"`
	Server        Server        `mapstructure:"server"`
	History       History       `mapstructure:"history"`
	Events        Events        `mapstructure:"events"`
	Storage       Storage       `mapstructure:"storage"`
}

// Source defines one news source adapter.
type Source struct {
	Name   string `mapstructure:"name"`
	Kind   string `mapstructure:"kind"` // "newsapi", "gnews" or "rss"
	URL    string `mapstructure:"url"`  // feed URL for rss sources
	APIKey string `mapstructure:"api_key"`
}

// News holds aggregator configuration.
type News struct {
	Limit   int           `mapstructure:"limit"`
	Timeout time.Duration `mapstructure:"timeout"`
	Sources []Source      `mapstructure:"sources"`
}

// Fulltext holds article content enrichment configuration.
type Fulltext struct {
	Enabled   bool   `mapstructure:"enabled"`
	UserAgent string `mapstructure:"user_agent"`
}

// Embeddings holds embedding API configuration.
type Embeddings struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
}

// LLM holds chat completion API configuration.
type LLM struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
}

// Elasticsearch holds ES connection configuration for the vector store.
type Elasticsearch struct {
	Addresses []string `mapstructure:"addresses"`
	Index     string   `mapstructure:"index"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
}

// Media holds the image/meme/video generation credentials.
type Media struct {
	ImageAPIKey     string `mapstructure:"image_api_key"`
	ImgflipUsername string `mapstructure:"imgflip_username"`
	ImgflipPassword string `mapstructure:"imgflip_password"`
	VideoAPIKey     string `mapstructure:"video_api_key"`
}

// Server holds HTTP API configuration.
type Server struct {
	BindAddr  string `mapstructure:"bind_addr"`
	JWTSecret string `mapstructure:"jwt_secret"`
}

// History holds the generation archive configuration.
type History struct {
	Path string `mapstructure:"path"` // sqlite file; empty disables the archive
}

// Events holds Kafka event publishing configuration.
type Events struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// Storage holds S3/MinIO asset archive configuration.
type Storage struct {
	Enabled         bool   `mapstructure:"enabled"`
	Endpoint        string `mapstructure:"endpoint"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		News: News{
			Limit:   5,
			Timeout: 15 * time.Second,
			Sources: []Source{
				{Name: "NewsAPI", Kind: "newsapi"},
			},
		},
		Fulltext: Fulltext{
			Enabled:   false,
			UserAgent: "newscraft/1.0",
		},
		Embeddings: Embeddings{
			BaseURL: "https://api.openai.com/v1",
			Model:   "text-embedding-ada-002",
		},
		LLM: LLM{
			BaseURL: "https://api.openai.com/v1",
			Model:   "gpt-4",
		},
		Elasticsearch: Elasticsearch{
			Addresses: []string{"http://localhost:9200"},
			Index:     "newscraft-articles",
		},
		Server: Server{
			BindAddr: ":8080",
		},
		Events: Events{
			Enabled: false,
			Brokers: []string{"localhost:9092"},
			Topic:   "newscraft.generations",
		},
		Storage: Storage{
			Enabled:         false,
			Endpoint:        "localhost:9000",
			Bucket:          "newscraft-assets",
			AccessKeyID:     "minioadmin",
			SecretAccessKey: "minioadmin",
			UseSSL:          false,
		},
	}
}
