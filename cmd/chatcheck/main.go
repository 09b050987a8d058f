package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/joho/godotenv"

	"github.com/wolfman30/ward-portal/internal/app/bootstrap"
	"github.com/wolfman30/ward-portal/internal/assistant"
	appconfig "github.com/wolfman30/ward-portal/internal/config"
	"github.com/wolfman30/ward-portal/internal/locale"
	"github.com/wolfman30/ward-portal/pkg/logging"
)

// chatcheck sends one question through the configured providers and prints
// the raw model outcome next to what a citizen would see.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	lang := flag.String("lang", "vi", "reply language (vi or en)")
	flag.Parse()
	question := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if question == "" {
		question = "Thủ tục đăng ký khai sinh cần những giấy tờ gì?"
	}

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ChatTimeout+10*time.Second)
	defer cancel()

	client := bootstrap.BuildLLMClient(ctx, cfg, loadAWS(ctx, cfg, logger), logger)
	orchestrator := assistant.NewOrchestrator(client, bootstrap.BuildOrchestratorConfig(cfg), nil, logger)

	if err := check(ctx, client, orchestrator, question, locale.Parse(*lang), os.Stdout); err != nil {
		os.Exit(1)
	}
}

func loadAWS(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) *aws.Config {
	if !cfg.UsesBedrock() {
		return nil
	}
	awsCfg, err := bootstrap.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Warn("aws config unavailable for bedrock", "error", err)
		return nil
	}
	return &awsCfg
}

// check sends the question twice: once straight to the provider and once
// through the orchestrator. It returns the raw provider error, if any.
func check(ctx context.Context, client assistant.LLMClient, orchestrator *assistant.Orchestrator, question string, lang locale.Language, out io.Writer) error {
	cfg := bootstrap.BuildOrchestratorConfig(nil)
	req := assistant.LLMRequest{
		System:      []string{assistant.SystemInstruction},
		Messages:    []assistant.ChatMessage{{Role: assistant.ChatRoleUser, Content: assistant.BuildPrompt(nil, question, lang)}},
		Temperature: cfg.Temperature,
		TopP:        cfg.TopP,
	}

	fmt.Fprintf(out, "Question: %s\n\n", question)

	start := time.Now()
	resp, err := client.Complete(ctx, req)
	elapsed := time.Since(start).Round(time.Millisecond)
	if err != nil {
		fmt.Fprintf(out, "[provider] FAILED after %v: %v (kind=%s)\n", elapsed, err, assistant.ClassifyError(err))
	} else {
		fmt.Fprintf(out, "[provider] OK in %v, tokens in=%d out=%d\n%s\n", elapsed, resp.Usage.InputTokens, resp.Usage.OutputTokens, resp.Text)
	}

	reply := orchestrator.Reply(ctx, nil, question, lang)
	fmt.Fprintf(out, "\n[citizen sees]\n%s\n", reply.Text)
	return err
}
