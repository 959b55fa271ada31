package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/VectorBits/Serpens/src/internal/ui"
)

type CLIConfig struct {
	Mode          string
	ContractPath  string
	VulnType      string
	Template      string
	Output        string
	OutputDir     string
	Seed          int64
	NoRandomize   bool
	NoMetadata    bool
	SaveRecord    bool
	ListLocations bool
	ListVulns     bool
	Verbose       bool

	// 批量模式
	Batch       bool
	DatasetDir  string
	ReportDir   string
	Concurrency int
	Verify      bool
	SlitherPath string
	Timeout     time.Duration
}

func (c *CLIConfig) Validate() error {
	if c.ListVulns {
		return nil
	}

	if c.Mode != "point" && c.Mode != "coupled" {
		return errors.New("-m must be one of: point, coupled")
	}

	if c.Batch {
		if c.DatasetDir == "" {
			return errors.New("-dataset is required for batch mode (directory of .sol files)")
		}
		if c.Concurrency <= 0 {
			c.Concurrency = 4
		}
		return nil
	}

	if c.ContractPath == "" {
		return errors.New("-f (contract file) is required")
	}
	if c.Mode == "coupled" && c.VulnType != "" {
		return errors.New("-vuln is only supported in point mode; coupled templates carry their own vulnerability class")
	}
	return nil
}

func showHelp(topic string) {
	switch topic {
	case "m", "mode":
		showModeHelp()
	case "vuln":
		showVulnHelp()
	case "b", "batch":
		showBatchHelp()
	default:
		showGeneralHelp()
	}
}

func showGeneralHelp() {
	fmt.Println(ui.Cyan + "USAGE:" + ui.Reset)
	fmt.Println("  serpens [OPTIONS]")
	fmt.Println()

	fmt.Println(ui.Cyan + "CORE COMMANDS:" + ui.Reset)
	fmt.Printf("  %-25s %s\n", "-m  <mode>", "Injection mode (point|coupled) [default: point]")
	fmt.Printf("  %-25s %s\n", "-f  <file>", "Solidity contract to inject into")
	fmt.Printf("  %-25s %s\n", "-vuln <type>", "Vulnerability type (point mode, empty = auto-select)")
	fmt.Printf("  %-25s %s\n", "-tmpl <name>", "Template name (empty = auto-select)")
	fmt.Printf("  %-25s %s\n", "-o  <file>", "Output path (default: output/<name>_injected.sol)")
	fmt.Printf("  %-25s %s\n", "-seed <n>", "Random seed (0 = time-based)")
	fmt.Printf("  %-25s %s\n", "-no-randomize", "Deterministic selection (always pick first candidate)")
	fmt.Printf("  %-25s %s\n", "-no-metadata", "Skip the .json provenance sidecar")
	fmt.Printf("  %-25s %s\n", "-save-record", "Store the injection record in MySQL")
	fmt.Printf("  %-25s %s\n", "-list-locations", "List candidate injection locations and exit")
	fmt.Printf("  %-25s %s\n", "-list-vulns", "List supported vulnerability types and exit")
	fmt.Printf("  %-25s %s\n", "-b, --batch", "Batch mode over a dataset directory")
	fmt.Println()

	fmt.Println(ui.Cyan + "HELP:" + ui.Reset)
	fmt.Println("  serpens [COMMAND] --help   Show detailed help for a specific command")
	fmt.Println()

	fmt.Println(ui.Cyan + "EXAMPLES:" + ui.Reset)
	fmt.Println(ui.Gray + "  # Point injection with auto-selected vulnerability type" + ui.Reset)
	fmt.Println("  serpens -m point -f contracts/Token.sol")
	fmt.Println()
	fmt.Println(ui.Gray + "  # Inject a specific reentrancy template" + ui.Reset)
	fmt.Println("  serpens -m point -f contracts/Bank.sol -vuln reentrancy -tmpl call_value_legacy")
	fmt.Println()
	fmt.Println(ui.Gray + "  # Coupled injection (setter + executor pair)" + ui.Reset)
	fmt.Println("  serpens -m coupled -f contracts/Wallet.sol -o out/Wallet_tod.sol")
	fmt.Println()
	fmt.Println(ui.Gray + "  # Batch injection with Slither verification" + ui.Reset)
	fmt.Println("  serpens -b -dataset datasets/clean -verify -concurrency 8")
}

func showModeHelp() {
	fmt.Println(ui.Cyan + "🎯 INJECTION MODES (-m)" + ui.Reset)
	fmt.Println(ui.Gray + "Select how the vulnerability is placed in the contract." + ui.Reset)
	fmt.Println()

	fmt.Println(ui.Cyan + "AVAILABLE MODES:" + ui.Reset)
	fmt.Printf("  %-25s %s\n", "point", "Insert vulnerable code at the start of one function body")
	fmt.Printf("  %-25s %s\n", "coupled", "Split the vulnerability across a setter and an executor function")
	fmt.Println()

	fmt.Println(ui.Cyan + "DETAILS:" + ui.Reset)
	fmt.Println("  " + ui.Bold + "point" + ui.Reset + ": One externally callable function receives the payload.")
	fmt.Println("         Reentrancy additionally requires a state variable assignment in the function.")
	fmt.Println("  " + ui.Bold + "coupled" + ui.Reset + ": The setter arms the state, the executor triggers the bug.")
	fmt.Println("         Harder for pattern-matching detectors to flag from a single function.")
}

func showVulnHelp() {
	fmt.Println(ui.Cyan + "🐛 VULNERABILITY TYPES (-vuln)" + ui.Reset)
	fmt.Println(ui.Gray + "Point-mode vulnerability classes. Empty = auto-select at the chosen location." + ui.Reset)
	fmt.Println()

	fmt.Println(ui.Cyan + "SUPPORTED TYPES:" + ui.Reset)
	fmt.Printf("  %-25s %s\n", "overflow", "Unchecked integer addition/multiplication")
	fmt.Printf("  %-25s %s\n", "underflow", "Unchecked integer subtraction")
	fmt.Printf("  %-25s %s\n", "tx_origin", "tx.origin used for authorization")
	fmt.Printf("  %-25s %s\n", "unchecked_send", "send() result ignored")
	fmt.Printf("  %-25s %s\n", "unhandled_exception", "low-level call result ignored")
	fmt.Printf("  %-25s %s\n", "timestamp", "block.timestamp controls value transfer")
	fmt.Printf("  %-25s %s\n", "reentrancy", "external call before state update")
	fmt.Println()

	fmt.Println(ui.Cyan + "DISCOVERY:" + ui.Reset)
	fmt.Println("  serpens -list-vulns                       # template counts per type")
	fmt.Println("  serpens -f Token.sol -list-locations      # where each type can land")
}

func showBatchHelp() {
	fmt.Println(ui.Cyan + "📊 BATCH MODE (-b)" + ui.Reset)
	fmt.Println(ui.Gray + "Inject every .sol contract in a dataset directory, optionally verifying with Slither." + ui.Reset)
	fmt.Println()

	fmt.Println(ui.Cyan + "USAGE:" + ui.Reset)
	fmt.Println("  serpens -b -dataset <dir> [OPTIONS]")
	fmt.Println()

	fmt.Println(ui.Cyan + "OPTIONS:" + ui.Reset)
	fmt.Printf("  %-25s %s\n", "-dataset <dir>", "Directory of .sol files to inject")
	fmt.Printf("  %-25s %s\n", "-m <mode>", "Injection mode for the whole batch (point|coupled)")
	fmt.Printf("  %-25s %s\n", "-vuln <type>", "Fix the vulnerability type (point mode)")
	fmt.Printf("  %-25s %s\n", "-verify", "Run Slither on every injected contract")
	fmt.Printf("  %-25s %s\n", "-concurrency <n>", "Number of concurrent workers (default: 4)")
	fmt.Printf("  %-25s %s\n", "-odir <dir>", "Output directory (default: output)")
	fmt.Printf("  %-25s %s\n", "-r <dir>", "Report output directory (default: reports)")
	fmt.Printf("  %-25s %s\n", "-timeout <dur>", "Per-contract analyzer timeout (default: 120s)")
	fmt.Println()

	fmt.Println(ui.Cyan + "EXAMPLES:" + ui.Reset)
	fmt.Println("  serpens -b -dataset datasets/clean -verify")
	fmt.Println("  serpens -b -dataset datasets/clean -m coupled -concurrency 8 -r batch_reports")
}

// ParseFlags 解析命令行参数
func ParseFlags() (*CLIConfig, error) {
	// 检查是否请求帮助
	if len(os.Args) > 1 {
		// 处理特定命令的帮助请求 (如 -m --help, -b --help)
		for i := 1; i < len(os.Args)-1; i++ {
			if os.Args[i+1] == "--help" || os.Args[i+1] == "-h" {
				cmd := strings.TrimLeft(os.Args[i], "-")
				showHelp(cmd)
				os.Exit(0)
			}
		}

		// 处理通用帮助请求
		for _, arg := range os.Args[1:] {
			if arg == "--help" || arg == "-h" {
				showGeneralHelp()
				os.Exit(0)
			}
		}
	}

	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	fs.Usage = func() {
		showGeneralHelp()
	}

	mode := fs.String("m", "point", "Injection mode: point | coupled")
	contract := fs.String("f", "", "Solidity contract file to inject into")
	vuln := fs.String("vuln", "", "Vulnerability type (point mode, empty = auto)")
	tmpl := fs.String("tmpl", "", "Template name (empty = auto)")
	output := fs.String("o", "", "Output file path")
	outputDir := fs.String("odir", "", "Output directory (default: output)")
	seed := fs.Int64("seed", 0, "Random seed (0 = time-based)")
	noRandomize := fs.Bool("no-randomize", false, "Deterministic selection (first candidate)")
	noMetadata := fs.Bool("no-metadata", false, "Skip the .json provenance sidecar")
	saveRecord := fs.Bool("save-record", false, "Store the injection record in MySQL")
	listLocations := fs.Bool("list-locations", false, "List candidate injection locations and exit")
	listVulns := fs.Bool("list-vulns", false, "List supported vulnerability types and exit")
	verbose := fs.Bool("v", false, "Verbose output")

	batch := fs.Bool("b", false, "Batch mode")
	batchLong := fs.Bool("batch", false, "Batch mode")
	dataset := fs.String("dataset", "", "Dataset directory of .sol files (batch mode)")
	reportDir := fs.String("r", "reports", "Markdown report output directory")
	concurrency := fs.Int("concurrency", 4, "Worker concurrency (batch mode)")
	verify := fs.Bool("verify", false, "Verify injected contracts with Slither (batch mode)")
	slitherPath := fs.String("slither", "", "Slither executable path (default: slither)")
	timeout := fs.Duration("timeout", 120*time.Second, "Per-contract analyzer timeout")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, err
	}

	cfg := &CLIConfig{
		Mode:          strings.ToLower(strings.TrimSpace(*mode)),
		ContractPath:  strings.TrimSpace(*contract),
		VulnType:      strings.ToLower(strings.TrimSpace(*vuln)),
		Template:      strings.TrimSpace(*tmpl),
		Output:        strings.TrimSpace(*output),
		OutputDir:     strings.TrimSpace(*outputDir),
		Seed:          *seed,
		NoRandomize:   *noRandomize,
		NoMetadata:    *noMetadata,
		SaveRecord:    *saveRecord,
		ListLocations: *listLocations,
		ListVulns:     *listVulns,
		Verbose:       *verbose,
		Batch:         *batch || *batchLong,
		DatasetDir:    strings.TrimSpace(*dataset),
		ReportDir:     strings.TrimSpace(*reportDir),
		Concurrency:   *concurrency,
		Verify:        *verify,
		SlitherPath:   strings.TrimSpace(*slitherPath),
		Timeout:       *timeout,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func Run() error {
	cfg, err := ParseFlags()
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer func() {
		signal.Stop(sigChan)
		close(sigChan)
	}()

	go func() {
		count := 0
		for range sigChan {
			count++
			if count == 1 {
				fmt.Fprintln(os.Stderr, "\nInterrupt received, stopping... (press Ctrl+C again to force exit)")
				cancel()
				continue
			}
			fmt.Fprintln(os.Stderr, "\nForce exiting...")
			os.Exit(130)
		}
	}()

	return Execute(ctx, cfg)
}

func PrintFatal(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, context.Canceled) {
		return
	}

	ui.LogError("%v", err)
	os.Exit(1)
}
