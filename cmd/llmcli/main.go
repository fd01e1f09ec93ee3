package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"polychat/internal/capabilities"
	"polychat/internal/config"
	domainllm "polychat/internal/domain/services/llm"
	"polychat/internal/prompts"
	llmService "polychat/internal/service/llm"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorBlue   = "\033[34m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

// CLI is an interactive chat against the configured providers, with no database
type CLI struct {
	ctx       context.Context
	generator *llmService.ResponseGenerator
	models    *llmService.ModelValidator
	catalog   *prompts.Catalog
	scanner   *bufio.Scanner
	window    int
	model     *llmService.ModelInfo
	language  string
	persona   string
	history   []domainllm.Message
	logger    *slog.Logger
}

func main() {
	model := flag.String("model", "", "Model id (defaults to DEFAULT_MODEL)")
	language := flag.String("lang", "", "Reply language (defaults to DEFAULT_LANGUAGE)")
	persona := flag.String("persona", "", "Persona preset id")
	verbose := flag.Bool("v", false, "Debug logging")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	capabilityRegistry, err := capabilities.NewRegistry()
	if err != nil {
		fail("Failed to load model allow-list: %v", err)
	}
	catalog, err := prompts.NewCatalog(cfg.DefaultLanguage)
	if err != nil {
		fail("Failed to load prompt catalog: %v", err)
	}
	registry, err := llmService.SetupProviders(cfg, logger)
	if err != nil {
		fail("Failed to setup providers: %v", err)
	}

	cli := &CLI{
		ctx: context.Background(),
		generator: llmService.NewResponseGenerator(registry, catalog, llmService.GeneratorConfig{
			MaxTokens:        cfg.MaxOutputTokens,
			Temperature:      cfg.Temperature,
			Timeout:          cfg.ProviderTimeout,
			TranslateReplies: cfg.TranslateReplies,
			SourceLanguage:   config.SourceLanguage,
		}, logger),
		models:   llmService.NewModelValidator(capabilityRegistry),
		catalog:  catalog,
		scanner:  bufio.NewScanner(os.Stdin),
		window:   cfg.HistoryWindow,
		language: catalog.DefaultLanguage(),
		persona:  *persona,
		logger:   logger,
	}

	modelID := *model
	if modelID == "" {
		modelID = cfg.DefaultModel
	}
	if err := cli.setModel(modelID); err != nil {
		fail("%v", err)
	}
	if *language != "" {
		cli.setLanguage(*language)
	}

	cli.run()
}

func fail(format string, args ...interface{}) {
	fmt.Printf("%s%s%s\n", colorRed, fmt.Sprintf(format, args...), colorReset)
	os.Exit(1)
}

func (cli *CLI) run() {
	fmt.Printf("\n%s=== PolyChat LLM CLI ===%s\n", colorCyan, colorReset)
	cli.printSettings()
	fmt.Println("Commands: /model <id>, /lang <code>, /persona <id|none>, /reset, /quit")

	for {
		fmt.Print("\n> ")
		line, ok := cli.readLine()
		if !ok {
			return
		}
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := cli.command(line); quit {
				fmt.Printf("%sGoodbye!%s\n", colorGreen, colorReset)
				return
			}
			continue
		}

		cli.send(line)
	}
}

// command handles a slash command and reports whether to exit
func (cli *CLI) command(line string) bool {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "/quit", "/exit":
		return true
	case "/reset":
		cli.history = nil
		fmt.Printf("%sHistory cleared%s\n", colorGreen, colorReset)
	case "/model":
		if err := cli.setModel(arg); err != nil {
			fmt.Printf("%s%v%s\n", colorYellow, err, colorReset)
			return false
		}
		cli.printSettings()
	case "/lang":
		cli.setLanguage(arg)
		cli.printSettings()
	case "/persona":
		if arg == "none" {
			arg = ""
		}
		if arg != "" && !cli.catalog.HasPersona(arg) {
			fmt.Printf("%sUnknown persona %q%s\n", colorYellow, arg, colorReset)
			return false
		}
		cli.persona = arg
		cli.printSettings()
	default:
		fmt.Printf("%sUnknown command %s%s\n", colorYellow, name, colorReset)
	}
	return false
}

func (cli *CLI) send(text string) {
	cli.history = append(cli.history, domainllm.Message{Role: "user", Content: text})
	if len(cli.history) > cli.window {
		cli.history = cli.history[len(cli.history)-cli.window:]
	}

	fmt.Printf("%sThinking...%s\n", colorBlue, colorReset)
	reply, err := cli.generator.Generate(cli.ctx, &llmService.ReplyRequest{
		History:  cli.history,
		Model:    cli.model,
		Language: cli.language,
		Persona:  cli.persona,
	})
	if err != nil {
		cli.history = cli.history[:len(cli.history)-1]
		fmt.Printf("%s%v%s\n", colorRed, err, colorReset)
		return
	}

	cli.history = append(cli.history, domainllm.Message{Role: "assistant", Content: reply.Text})

	color := colorGreen
	if reply.Fallback {
		color = colorYellow
	}
	fmt.Printf("%s%s%s\n", color, reply.Text, colorReset)
	if reply.OriginalText != nil {
		fmt.Printf("%s(translated from: %s)%s\n", colorBlue, *reply.OriginalText, colorReset)
	}
	cli.logger.Debug("reply", "model", reply.Model, "fallback", reply.Fallback)
}

func (cli *CLI) setModel(id string) error {
	info, err := cli.models.Validate(id)
	if err != nil {
		return err
	}
	cli.model = info
	return nil
}

func (cli *CLI) setLanguage(code string) {
	cli.language = cli.catalog.Normalize(code)
}

func (cli *CLI) printSettings() {
	persona := cli.persona
	if persona == "" {
		persona = "none"
	}
	fmt.Printf("%sModel: %s | Language: %s | Persona: %s%s\n",
		colorBlue, cli.model.ID(), cli.language, persona, colorReset)
}

func (cli *CLI) readLine() (string, bool) {
	if !cli.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(cli.scanner.Text()), true
}
