package di

import (
	"fmt"
	"io"
	"os"

	"research-crew/internal/adapter/tool"
	"research-crew/internal/application/port/output"
	"research-crew/internal/application/service"
	"research-crew/internal/domain/entity"
	"research-crew/internal/infrastructure/cache"
	"research-crew/internal/infrastructure/console"
	"research-crew/internal/infrastructure/crews"
	"research-crew/internal/infrastructure/embedding"
	"research-crew/internal/infrastructure/llm/ollama"
	"research-crew/internal/infrastructure/logger"
	"research-crew/internal/infrastructure/memory"
	"research-crew/internal/infrastructure/scrape"
	"research-crew/internal/infrastructure/search"
	"research-crew/internal/usecase/coordinator"
	"research-crew/internal/usecase/evaluator"
	"research-crew/internal/usecase/executor"
)

const (
	ScraperHTTP = "http"
	ScraperRod  = "rod"
)

type Container struct {
	Logger      output.LoggerPort
	LLM         output.LLMPort
	Tools       *service.ToolRegistryImpl
	Memory      output.MemoryStore
	Cache       *cache.ToolCache
	Coordinator *coordinator.UseCase
	Crew        *service.Crew
	Definition  *crews.Crew

	closers []func() error
}

type Config struct {
	Model    string
	BaseURL  string
	Embedder entity.EmbedderConfig

	MemoryEnabled bool
	// MemoryPath is the SQLite file backing long-term memory. Empty keeps
	// memory in process.
	MemoryPath string
	// Evaluate scores outputs before they are stored in memory.
	Evaluate     bool
	CacheEnabled bool

	// Scraper is ScraperHTTP (default) or ScraperRod.
	Scraper       string
	SearchResults int

	MaxIterations   int
	FailOnToolError bool

	Verbose bool
	// Progress receives the verbose trace; defaults to stderr.
	Progress io.Writer
	// LogDir receives the JSON run log. Empty disables the file log.
	LogDir string

	// Definition is the crew YAML; defaults to the embedded customer
	// experience crew.
	Definition []byte
}

func NewContainer(cfg Config) (*Container, error) {
	c := &Container{}

	logCfg := logger.DefaultConfig("crew")
	logCfg.Dir = cfg.LogDir
	log, err := logger.NewLoggerAdapter(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	c.Logger = log
	c.closers = append(c.closers, log.Close)

	if err := c.build(cfg); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) build(cfg Config) error {
	llmCfg := ollama.DefaultConfig(cfg.Model, cfg.BaseURL)
	llmCfg.Logger = c.Logger
	c.LLM = ollama.NewAdapter(llmCfg)

	definition := cfg.Definition
	if len(definition) == 0 {
		definition = crews.CustomerExperience
	}
	def, err := crews.Load(definition, llmCfg.Handle())
	if err != nil {
		return fmt.Errorf("failed to load crew: %w", err)
	}
	c.Definition = def

	searchCfg := search.DefaultConfig()
	if cfg.SearchResults > 0 {
		searchCfg.MaxResults = cfg.SearchResults
	}
	searchCfg.Logger = c.Logger
	searcher, err := search.NewDuckDuckGo(searchCfg)
	if err != nil {
		return fmt.Errorf("failed to create search: %w", err)
	}

	scraper, err := c.newScraper(cfg.Scraper)
	if err != nil {
		return err
	}

	c.Tools = service.NewToolRegistry()
	c.Tools.Register(tool.NewSearchTool(searcher, c.Logger))
	c.Tools.Register(tool.NewScrapeTool(scraper, c.Logger))

	var progress output.ProgressPort = console.Nop{}
	if cfg.Verbose {
		w := cfg.Progress
		if w == nil {
			w = os.Stderr
		}
		progress = console.NewProgress(w)
	}

	execCfg := executor.DefaultConfig()
	if cfg.MaxIterations > 0 {
		execCfg.MaxIterations = cfg.MaxIterations
	}
	execCfg.FailOnToolError = cfg.FailOnToolError
	if cfg.CacheEnabled {
		c.Cache = cache.NewToolCache()
		execCfg.Cache = c.Cache
	}
	exec := executor.New(c.LLM, c.Tools, c.Logger, progress, execCfg)

	coordCfg := coordinator.Config{}
	if c.Cache != nil {
		coordCfg.Cache = c.Cache
	}
	if cfg.MemoryEnabled {
		embedder, err := embedding.New(cfg.Embedder)
		if err != nil {
			return fmt.Errorf("failed to create embedder: %w", err)
		}
		if err := c.openMemory(cfg.MemoryPath); err != nil {
			return err
		}
		coordCfg.Memory = c.Memory
		coordCfg.Embedder = embedder
		if cfg.Evaluate {
			coordCfg.Evaluator = evaluator.New(c.LLM, c.Logger)
		}
	}
	c.Coordinator = coordinator.New(exec, c.Logger, progress, coordCfg)

	crew, err := service.NewCrew(def.Pipeline, entity.PipelineConfig{
		MemoryEnabled: cfg.MemoryEnabled,
		CacheEnabled:  cfg.CacheEnabled,
		Embedder:      cfg.Embedder,
	}, c.Coordinator, c.Logger.WithField("run", c.Coordinator.RunID()))
	if err != nil {
		return fmt.Errorf("failed to create crew: %w", err)
	}
	c.Crew = crew

	c.Logger.Info("Container ready",
		"crew", def.Name,
		"model", cfg.Model,
		"baseURL", cfg.BaseURL,
		"scraper", cfg.Scraper,
		"memory", cfg.MemoryEnabled,
		"cache", cfg.CacheEnabled,
	)
	return nil
}

func (c *Container) newScraper(kind string) (output.ScraperPort, error) {
	switch kind {
	case "", ScraperHTTP:
		scrapeCfg := scrape.DefaultHTTPConfig()
		scrapeCfg.Logger = c.Logger
		return scrape.NewHTTPScraper(scrapeCfg), nil
	case ScraperRod:
		scrapeCfg := scrape.DefaultRodConfig()
		scrapeCfg.Logger = c.Logger
		s := scrape.NewRodScraper(scrapeCfg)
		c.closers = append(c.closers, func() error {
			s.Close()
			return nil
		})
		return s, nil
	default:
		return nil, fmt.Errorf("unknown scraper %q", kind)
	}
}

func (c *Container) openMemory(path string) error {
	if path == "" {
		c.Memory = memory.NewShortTerm()
		return nil
	}

	store, err := memory.OpenSQLite(path)
	if err != nil {
		return fmt.Errorf("failed to open memory: %w", err)
	}
	c.Memory = store
	c.closers = append(c.closers, store.Close)
	return nil
}

// Close releases resources in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && i > 0 {
			c.Logger.Warn("Close failed", "error", err)
		}
	}
	c.closers = nil
}
