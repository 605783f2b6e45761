package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"clearcue-backend/internal/models"
)

func runConfig(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errors.New("usage: clearcue config show|set [flags]")
	}
	switch args[0] {
	case "show":
		return runConfigShow(ctx, stdout)
	case "set":
		return runConfigSet(ctx, args[1:], stdout)
	}
	return fmt.Errorf("unknown config command %q", args[0])
}

func runConfigShow(ctx context.Context, stdout io.Writer) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	cfg, err := a.configs.Resolve(ctx, cliOwner)
	if err != nil {
		return err
	}
	printConfig(stdout, cfg)
	return nil
}

func runConfigSet(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("config set", flag.ContinueOnError)
	provider := fs.String("provider", "", "AI provider: "+providerNames())
	model := fs.String("model", "", "Model name (defaults to the provider's first model)")
	geminiKey := fs.String("gemini-key", "", "Gemini API key")
	openAIKey := fs.String("openai-key", "", "OpenAI API key")
	youtubeKey := fs.String("youtube-key", "", "YouTube Data API key")
	transcriptKey := fs.String("transcript-key", "", "youtube-transcript.io API key")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	cfg, err := a.configs.Resolve(ctx, cliOwner)
	if err != nil {
		return err
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["provider"] && models.Provider(*provider) != cfg.Provider {
		cfg = cfg.WithProvider(models.Provider(*provider))
	}
	if set["model"] {
		cfg.Model = *model
	}
	if set["gemini-key"] {
		cfg.GeminiKey = *geminiKey
	}
	if set["openai-key"] {
		cfg.OpenAIKey = *openAIKey
	}
	if set["youtube-key"] {
		cfg.YoutubeKey = *youtubeKey
	}
	if set["transcript-key"] {
		cfg.YoutubeTranscriptKey = *transcriptKey
	}

	saved, err := a.configs.Save(ctx, cliOwner, cfg)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, "Configuration saved.")
	printConfig(stdout, saved)
	return nil
}

func printConfig(w io.Writer, cfg models.ApiConfig) {
	fmt.Fprintf(w, "provider:        %s\n", cfg.Provider)
	fmt.Fprintf(w, "model:           %s\n", cfg.Model)
	fmt.Fprintf(w, "gemini key:      %s\n", mask(cfg.GeminiKey))
	fmt.Fprintf(w, "openai key:      %s\n", mask(cfg.OpenAIKey))
	fmt.Fprintf(w, "youtube key:     %s\n", mask(cfg.YoutubeKey))
	fmt.Fprintf(w, "transcript key:  %s\n", mask(cfg.YoutubeTranscriptKey))
}

func providerNames() string {
	names := make([]string, 0, len(models.Providers()))
	for _, p := range models.Providers() {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}
