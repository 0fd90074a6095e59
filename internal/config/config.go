package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Content ContentConfig `yaml:"content"`
	Output  OutputConfig  `yaml:"output"`

	// AnalyticsHTML is injected verbatim into every page head, production
	// builds only.
	AnalyticsHTML string `yaml:"analytics_html,omitempty"`
}

// SiteConfig holds site-wide presentation metadata.
type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	Author      string `yaml:"author,omitempty"`
	BaseURL     string `yaml:"base_url"`
	Language    string `yaml:"language,omitempty"`
}

// ContentConfig locates the input trees relative to the working directory.
type ContentConfig struct {
	PostsDir         string `yaml:"posts_dir"`
	TemplatesDir     string `yaml:"templates_dir,omitempty"` // empty: embedded templates
	Stylesheet       string `yaml:"stylesheet"`
	PublicDir        string `yaml:"public_dir"`
	RecentPostsLimit int    `yaml:"recent_posts_limit"`
}

// OutputConfig represents output configuration
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     bool   `yaml:"clean"` // Remove the previous output backup after a successful build
}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	// Load .env files if present; existing process env wins. Each file is
	// loaded on its own so a missing .env does not skip .env.local.
	for _, envFile := range []string{".env", ".env.local"} {
		if err := godotenv.Load(envFile); err == nil {
			fmt.Fprintln(os.Stderr, "Loaded environment variables from "+envFile)
		}
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath) // #nosec G304 - user-supplied config path
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Site.Title == "" {
		c.Site.Title = "Blog"
	}
	if c.Site.Language == "" {
		c.Site.Language = "en"
	}
	if c.Content.PostsDir == "" {
		c.Content.PostsDir = "posts"
	}
	if c.Content.Stylesheet == "" {
		c.Content.Stylesheet = "styles.css"
	}
	if c.Content.PublicDir == "" {
		c.Content.PublicDir = "public"
	}
	if c.Content.RecentPostsLimit <= 0 {
		c.Content.RecentPostsLimit = 5
	}
	if c.Output.Directory == "" {
		c.Output.Directory = "./output"
		c.Output.Clean = true
	}
}

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	// #nosec G306 -- config scaffold is meant to be user-editable
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

const exampleConfig = `# blogbuilder configuration
site:
  title: "My Blog"
  description: "Notes on things I build"
  author: "Jane Doe"
  base_url: "https://blog.example.com/"
  language: "en"

content:
  posts_dir: "posts"
  # templates_dir: "templates"   # uncomment to override the built-in templates
  stylesheet: "styles.css"
  public_dir: "public"
  recent_posts_limit: 5

output:
  directory: "./output"
  clean: true

# Injected into <head> on --prod builds only.
# analytics_html: '<script data-goatcounter="https://example.goatcounter.com/count" async src="//gc.zgo.at/count.js"></script>'
`
