package config

import (
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rohmanhakim/uci-crawler/internal/normalize"
	"github.com/rohmanhakim/uci-crawler/internal/trap"
)

// Config holds every tunable named in the crawler's configuration surface:
// crawl scope, politeness, content filtering, and analytics. Its zero value
// is not usable; build one with WithDefault or WithConfigFile.
type Config struct {
	//===============
	// Crawl scope
	//===============
	seedURLs             []url.URL
	saveFile             string
	allowedDomains       []string
	disallowedExtensions []string
	disallowedSegments   []string
	maxURLLength         int
	importantPrefixes    []string
	restart              bool

	//===============
	// Politeness
	//===============
	workerCount        int
	delay              time.Duration
	politenessGrouping string

	//===============
	// Fetch
	//===============
	userAgent    string
	maxBodyBytes int
	maxAttempt   int
	backoffInitialDuration time.Duration
	backoffMultiplier      float64
	backoffMaxDuration     time.Duration

	//===============
	// Content filtering
	//===============
	minWords        int
	simhashWindow   int
	nearDupDistance int

	//===============
	// Analytics
	//===============
	checkpointInterval time.Duration
	reportPath         string
}

type configDTO struct {
	SeedURLs               []string      `yaml:"seed_urls"`
	SaveFile               string        `yaml:"save_file"`
	AllowedDomains         []string      `yaml:"allowed_domains"`
	DisallowedExtensions   []string      `yaml:"disallowed_extensions"`
	DisallowedSegments     []string      `yaml:"disallowed_segments"`
	MaxURLLength           int           `yaml:"max_url_length"`
	ImportantPrefixes      []string      `yaml:"important_prefixes"`
	Restart                bool          `yaml:"restart"`
	WorkerCount            int           `yaml:"worker_count"`
	DelayMs                int           `yaml:"delay_ms"`
	PolitenessGrouping     string        `yaml:"politeness_grouping"`
	UserAgent              string        `yaml:"user_agent"`
	MaxBodyBytes           int           `yaml:"max_body_bytes"`
	MaxAttempt             int           `yaml:"max_attempt"`
	BackoffInitialDuration time.Duration `yaml:"backoff_initial_duration"`
	BackoffMultiplier      float64       `yaml:"backoff_multiplier"`
	BackoffMaxDuration     time.Duration `yaml:"backoff_max_duration"`
	MinWords               int           `yaml:"min_words"`
	SimhashWindow          int           `yaml:"simhash_window"`
	NearDupDistance        int           `yaml:"near_dup_distance"`
	CheckpointIntervalS    int           `yaml:"checkpoint_interval_s"`
	ReportPath             string        `yaml:"report_path"`
}

func newConfigFromDTO(dto configDTO) (Config, error) {
	seeds, err := parseSeedURLs(dto.SeedURLs)
	if err != nil {
		return Config{}, err
	}

	cfg, err := WithDefault(seeds).Build()
	if err != nil {
		return Config{}, err
	}

	if dto.SaveFile != "" {
		cfg.saveFile = dto.SaveFile
	}
	if len(dto.AllowedDomains) > 0 {
		cfg.allowedDomains = dto.AllowedDomains
	}
	if len(dto.DisallowedExtensions) > 0 {
		cfg.disallowedExtensions = dto.DisallowedExtensions
	}
	if len(dto.DisallowedSegments) > 0 {
		cfg.disallowedSegments = dto.DisallowedSegments
	}
	if dto.MaxURLLength != 0 {
		cfg.maxURLLength = dto.MaxURLLength
	}
	if len(dto.ImportantPrefixes) > 0 {
		cfg.importantPrefixes = dto.ImportantPrefixes
	}
	cfg.restart = dto.Restart
	if dto.WorkerCount != 0 {
		cfg.workerCount = dto.WorkerCount
	}
	if dto.DelayMs != 0 {
		cfg.delay = time.Duration(dto.DelayMs) * time.Millisecond
	}
	if dto.PolitenessGrouping != "" {
		cfg.politenessGrouping = dto.PolitenessGrouping
	}
	if dto.UserAgent != "" {
		cfg.userAgent = dto.UserAgent
	}
	if dto.MaxBodyBytes != 0 {
		cfg.maxBodyBytes = dto.MaxBodyBytes
	}
	if dto.MaxAttempt != 0 {
		cfg.maxAttempt = dto.MaxAttempt
	}
	if dto.BackoffInitialDuration != 0 {
		cfg.backoffInitialDuration = dto.BackoffInitialDuration
	}
	if dto.BackoffMultiplier != 0 {
		cfg.backoffMultiplier = dto.BackoffMultiplier
	}
	if dto.BackoffMaxDuration != 0 {
		cfg.backoffMaxDuration = dto.BackoffMaxDuration
	}
	if dto.MinWords != 0 {
		cfg.minWords = dto.MinWords
	}
	if dto.SimhashWindow != 0 {
		cfg.simhashWindow = dto.SimhashWindow
	}
	if dto.NearDupDistance != 0 {
		cfg.nearDupDistance = dto.NearDupDistance
	}
	if dto.CheckpointIntervalS != 0 {
		cfg.checkpointInterval = time.Duration(dto.CheckpointIntervalS) * time.Second
	}
	if dto.ReportPath != "" {
		cfg.reportPath = dto.ReportPath
	}

	return cfg, nil
}

func parseSeedURLs(raw []string) ([]url.URL, error) {
	urls := make([]url.URL, 0, len(raw))
	for _, s := range raw {
		u, err := url.Parse(s)
		if err != nil {
			return nil, &ConfigError{Message: s, Cause: ErrCauseUnparseableSeed}
		}
		urls = append(urls, *u)
	}
	return urls, nil
}

// WithConfigFile loads a YAML configuration file at path, falling back to
// WithDefault's values for every option the file omits.
func WithConfigFile(path string) (Config, error) {
	if _, err := os.Stat(path); err != nil {
		return Config{}, &ConfigError{Message: path, Cause: ErrCauseFileDoesNotExist}
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &ConfigError{Message: path, Cause: ErrCauseReadFailure}
	}

	var dto configDTO
	if err := yaml.Unmarshal(raw, &dto); err != nil {
		return Config{}, &ConfigError{Message: err.Error(), Cause: ErrCauseParseFailure}
	}

	return newConfigFromDTO(dto)
}

// WithDefault builds a Config with the distilled option table's defaults,
// seeded by the mandatory seedUrls.
func WithDefault(seedUrls []url.URL) *Config {
	return &Config{
		seedURLs:          seedUrls,
		saveFile:          "crawl.db",
		allowedDomains:    []string{"ics.uci.edu", "cs.uci.edu", "informatics.uci.edu", "stat.uci.edu"},
		disallowedExtensions: []string{
			"pdf", "doc", "docx", "ppt", "pptx", "xls", "xlsx", "odt",
			"png", "jpg", "jpeg", "gif", "bmp", "svg", "ico", "tiff", "webp",
			"mp3", "mp4", "wav", "avi", "mov", "wmv", "flv", "mkv", "m4a", "m4v",
			"zip", "tar", "gz", "rar", "7z", "bz2",
			"css", "js", "json", "xml", "csv", "sql", "exe", "dmg", "bin", "iso",
		},
		disallowedSegments: []string{
			"/calendar/", "/events/", "/login", "/logout", "/search",
			"/print/", "/feed", "/rss", "/api/", "/cgi-bin/", "/wp-content/",
			"/images/", "/assets/", "/static/", "/uploads/",
		},
		maxURLLength:      200,
		importantPrefixes: []string{"/people/", "/faculty/", "/research/", "/courses/", "/news/", "/about/"},
		restart:           false,

		workerCount:        8,
		delay:              500 * time.Millisecond,
		politenessGrouping: "netloc",

		userAgent:              "uci-crawler/1.0",
		maxBodyBytes:           5 * 1024 * 1024,
		maxAttempt:             3,
		backoffInitialDuration: 200 * time.Millisecond,
		backoffMultiplier:      2.0,
		backoffMaxDuration:     5 * time.Second,

		minWords:        50,
		simhashWindow:   1000,
		nearDupDistance: 3,

		checkpointInterval: 30 * time.Second,
		reportPath:         "report.txt",
	}
}

func (c *Config) WithSaveFile(path string) *Config {
	c.saveFile = path
	return c
}

func (c *Config) WithAllowedDomains(domains []string) *Config {
	c.allowedDomains = domains
	return c
}

func (c *Config) WithImportantPrefixes(prefixes []string) *Config {
	c.importantPrefixes = prefixes
	return c
}

func (c *Config) WithRestart(restart bool) *Config {
	c.restart = restart
	return c
}

func (c *Config) WithWorkerCount(n int) *Config {
	c.workerCount = n
	return c
}

func (c *Config) WithDelay(d time.Duration) *Config {
	c.delay = d
	return c
}

func (c *Config) WithPolitenessGrouping(grouping string) *Config {
	c.politenessGrouping = grouping
	return c
}

func (c *Config) WithUserAgent(agent string) *Config {
	c.userAgent = agent
	return c
}

func (c *Config) WithMaxBodyBytes(n int) *Config {
	c.maxBodyBytes = n
	return c
}

func (c *Config) WithMinWords(n int) *Config {
	c.minWords = n
	return c
}

func (c *Config) WithSimhashWindow(n int) *Config {
	c.simhashWindow = n
	return c
}

func (c *Config) WithNearDupDistance(n int) *Config {
	c.nearDupDistance = n
	return c
}

func (c *Config) WithCheckpointInterval(d time.Duration) *Config {
	c.checkpointInterval = d
	return c
}

func (c *Config) WithReportPath(path string) *Config {
	c.reportPath = path
	return c
}

// Build validates the accumulated options and returns the finished Config.
func (c *Config) Build() (Config, error) {
	if len(c.seedURLs) == 0 {
		return Config{}, &ConfigError{Message: "seed_urls cannot be empty", Cause: ErrCauseInvalidConfig}
	}
	if c.saveFile == "" {
		return Config{}, &ConfigError{Message: "save_file cannot be empty", Cause: ErrCauseInvalidConfig}
	}
	return *c, nil
}

func (c Config) SeedURLs() []url.URL {
	urls := make([]url.URL, len(c.seedURLs))
	copy(urls, c.seedURLs)
	return urls
}

func (c Config) SaveFile() string { return c.saveFile }

// AllowedDomains returns the subdomain allowlist used both to scope the URL
// validator (via NormalizeRules) and to decide which hosts count toward the
// analytics subdomain inventory.
func (c Config) AllowedDomains() []string {
	domains := make([]string, len(c.allowedDomains))
	copy(domains, c.allowedDomains)
	return domains
}

func (c Config) Restart() bool { return c.restart }

func (c Config) WorkerCount() int { return c.workerCount }

func (c Config) Delay() time.Duration { return c.delay }

func (c Config) PolitenessGrouping() string { return c.politenessGrouping }

func (c Config) UserAgent() string { return c.userAgent }

func (c Config) MaxBodyBytes() int { return c.maxBodyBytes }

func (c Config) MaxAttempt() int { return c.maxAttempt }

func (c Config) BackoffInitialDuration() time.Duration { return c.backoffInitialDuration }

func (c Config) BackoffMultiplier() float64 { return c.backoffMultiplier }

func (c Config) BackoffMaxDuration() time.Duration { return c.backoffMaxDuration }

func (c Config) MinWords() int { return c.minWords }

func (c Config) SimhashWindow() int { return c.simhashWindow }

func (c Config) NearDupDistance() int { return c.nearDupDistance }

func (c Config) CheckpointInterval() time.Duration { return c.checkpointInterval }

func (c Config) ReportPath() string { return c.reportPath }

// NormalizeRules derives the URL validator's scope rules from the
// configured domain allowlist and disallowed extension/segment lists.
func (c Config) NormalizeRules() normalize.Rules {
	return normalize.NewRules(c.allowedDomains, c.disallowedExtensions, c.disallowedSegments, c.maxURLLength)
}

// TrapRules derives the trap detector's whitelist from the configured
// important path prefixes.
func (c Config) TrapRules() trap.Rules {
	return trap.NewRules(c.importantPrefixes)
}
