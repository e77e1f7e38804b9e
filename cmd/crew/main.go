package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"research-crew/internal/app"
	"research-crew/internal/di"
	"research-crew/internal/domain/entity"
	"research-crew/internal/infrastructure/embedding"
	"research-crew/internal/infrastructure/env"
)

func main() {
	os.Exit(run())
}

func run() int {
	envService := env.NewEnvService()

	timeout := envService.GetDuration("CREW_TIMEOUT", 60*time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := di.NewContainer(loadConfig(envService))
	if err != nil {
		fmt.Fprintf(os.Stderr, "initialization failed: %v\n", err)
		return 1
	}
	defer container.Close()

	inputs := entity.PipelineInput{
		"company_name": envService.GetWithDefault("COMPANY_NAME", "Disney"),
		"focus_area":   envService.GetWithDefault("FOCUS_AREA", "Enhancing overall customer satisfaction and experience"),
	}

	return app.Run(ctx, container.Crew, inputs, os.Stdout, container.Logger)
}

func loadConfig(envService *env.EnvService) di.Config {
	baseURL := envService.GetWithDefault("OLLAMA_BASE_URL", "http://localhost:11434")

	return di.Config{
		Model:   envService.GetWithDefault("OLLAMA_MODEL", "gemma2:9b"),
		BaseURL: baseURL,
		Embedder: entity.EmbedderConfig{
			Provider: envService.GetWithDefault("EMBEDDER_PROVIDER", embedding.ProviderOllama),
			Model:    envService.GetWithDefault("EMBEDDER_MODEL", "mxbai-embed-large"),
			BaseURL:  baseURL,
		},
		MemoryEnabled: envService.GetBool("CREW_MEMORY", true),
		// Set but empty keeps memory in process.
		MemoryPath:      envService.GetOrDefaultIfUnset("CREW_MEMORY_PATH", "data/memory.db"),
		Evaluate:        envService.GetBool("CREW_EVALUATE", true),
		CacheEnabled:    envService.GetBool("CREW_CACHE", true),
		Scraper:         envService.GetWithDefault("CREW_SCRAPER", di.ScraperHTTP),
		SearchResults:   envService.GetInt("CREW_SEARCH_RESULTS", 5),
		MaxIterations:   envService.GetInt("CREW_MAX_ITERATIONS", 15),
		FailOnToolError: envService.GetBool("CREW_FAIL_ON_TOOL_ERROR", false),
		Verbose:         envService.GetBool("CREW_VERBOSE", true),
		LogDir:          envService.GetWithDefault("LOG_DIR", "log"),
	}
}
