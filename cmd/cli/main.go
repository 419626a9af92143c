// Package main provides the interactive LagoonDB shell.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harborne/LagoonDB"
	"github.com/harborne/LagoonDB/core"
	"github.com/harborne/LagoonDB/db"
	"github.com/harborne/LagoonDB/ps"
	"github.com/harborne/LagoonDB/sql"
)

const (
	PromptColor  = "\033[36m" // Cyan
	ErrorColor   = "\033[31m" // Red
	SuccessColor = "\033[32m" // Green
	ResetColor   = "\033[0m"
	BoldColor    = "\033[1m"
)

// Version is set at build time via -ldflags
var Version = "dev"

// CLI holds the shell state
type CLI struct {
	engine      *db.Engine
	history     []string
	historyFile string
	session     string // current NS/DB context shown in the prompt
}

func main() {
	baseDir := flag.String("baseDir", "", "Base directory for the database")
	queryFile := flag.String("file", "", "Query file to execute (non-interactive)")
	userName := flag.String("name", "LagoonDB", "User name for commits")
	userEmail := flag.String("email", "cli@lagoondb.local", "User email for commits")
	flag.Parse()

	printBanner()

	var instance LagoonDB.Instance

	if *baseDir == "" {
		fmt.Printf("%sUsing memory persistence%s\n", SuccessColor, ResetColor)
		persistence, err := ps.NewMemoryPersistence()
		if err != nil {
			fmt.Printf("%sError: %v%s\n", ErrorColor, err, ResetColor)
			return
		}
		instance = *LagoonDB.Open(&persistence)
	} else {
		fmt.Printf("%sUsing file persistence: %s%s\n", SuccessColor, *baseDir, ResetColor)
		persistence, err := ps.NewFilePersistence(*baseDir)
		if err != nil {
			fmt.Printf("%sError: %v%s\n", ErrorColor, err, ResetColor)
			return
		}
		instance = *LagoonDB.Open(&persistence)
	}

	engine := instance.Engine(core.Identity{
		Name:  *userName,
		Email: *userEmail,
	})

	cli := &CLI{
		engine:      engine,
		history:     make([]string, 0),
		historyFile: getHistoryPath(),
	}

	cli.loadHistory()

	if *queryFile != "" {
		if err := cli.runFile(*queryFile); err != nil {
			fmt.Printf("%sError running file: %v%s\n", ErrorColor, err, ResetColor)
			os.Exit(1)
		}
		return
	}

	cli.run()
}

func printBanner() {
	fmt.Println()
	bannerWidth := 39 // inner width of the banner box
	versionLine := fmt.Sprintf("LagoonDB v%s", Version)
	padding := bannerWidth - len(versionLine) - 2 // -2 for "  " margins
	if padding < 0 {
		padding = 0
	}
	leftPad := padding / 2
	rightPad := padding - leftPad

	fmt.Printf("%s%s╔═══════════════════════════════════════╗%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Printf("%s%s║ %*s%s%*s ║%s\n", BoldColor, PromptColor, leftPad, "", versionLine, rightPad, "", ResetColor)
	fmt.Printf("%s%s║   Git-backed Document Database        ║%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Printf("%s%s╚═══════════════════════════════════════╝%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Println()
	fmt.Println("Type .help for commands, .quit to exit")
	fmt.Println()
}

func (cli *CLI) run() {
	reader := bufio.NewReader(os.Stdin)
	var multiLineBuffer strings.Builder

	for {
		prompt := cli.getPrompt(multiLineBuffer.Len() > 0)
		fmt.Print(prompt)

		input, err := reader.ReadString('\n')
		if err != nil {
			fmt.Printf("\n%sGoodbye!%s\n", SuccessColor, ResetColor)
			return
		}

		input = strings.TrimSuffix(input, "\n")
		input = strings.TrimSuffix(input, "\r")

		if strings.TrimSpace(input) == "" {
			continue
		}

		// Special commands only apply outside multi-line mode.
		if multiLineBuffer.Len() == 0 && strings.HasPrefix(input, ".") {
			if cli.handleCommand(input) {
				continue
			}
		}

		// Multi-line support: accumulate until we see a semicolon.
		multiLineBuffer.WriteString(input)

		trimmed := strings.TrimSpace(multiLineBuffer.String())
		if !strings.HasSuffix(trimmed, ";") {
			multiLineBuffer.WriteString(" ")
			continue
		}

		query := strings.TrimSuffix(trimmed, ";")
		multiLineBuffer.Reset()

		if strings.TrimSpace(query) == "" {
			continue
		}

		cli.addToHistory(query + ";")
		cli.execute(query)
	}
}

func (cli *CLI) execute(query string) {
	cli.trackSession(query)

	response, err := cli.engine.Execute(query)
	if err != nil {
		fmt.Printf("%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
		return
	}

	for index := 0; index < response.Len(); index++ {
		stats, _ := response.Stats(index)
		value, err := response.Take(index)
		if err != nil {
			fmt.Printf("%s[%d] ✗ %v%s\n", ErrorColor, index, err, ResetColor)
			continue
		}
		fmt.Printf("%s[%d] %s%s (%v)\n", SuccessColor, index, ResetColor, sql.FormatValue(value), stats.ExecutionTime)
	}
}

// trackSession mirrors USE statements into the prompt.
func (cli *CLI) trackSession(query string) {
	fields := strings.Fields(query)
	if len(fields) == 0 || strings.ToUpper(fields[0]) != "USE" {
		return
	}
	name := func(i int) string {
		return strings.TrimRight(fields[i], ";,")
	}
	for i := 1; i+1 < len(fields); i += 2 {
		switch strings.ToUpper(fields[i]) {
		case "NS", "NAMESPACE":
			cli.session = name(i + 1)
		case "DB", "DATABASE":
			if cli.session != "" {
				cli.session = cli.session + "/" + name(i+1)
			} else {
				cli.session = name(i + 1)
			}
		default:
			return
		}
	}
}

func (cli *CLI) getPrompt(multiLine bool) string {
	if multiLine {
		return fmt.Sprintf("%s   ...>%s ", PromptColor, ResetColor)
	}

	sessionPart := ""
	if cli.session != "" {
		sessionPart = fmt.Sprintf(" (%s)", cli.session)
	}

	return fmt.Sprintf("%slagoondb%s>%s ", PromptColor, sessionPart, ResetColor)
}

func (cli *CLI) handleCommand(input string) bool {
	cmd := strings.TrimSpace(input)
	parts := strings.Fields(cmd)

	if len(parts) == 0 {
		return true
	}

	switch strings.ToLower(parts[0]) {
	case ".quit", ".exit", ".q":
		fmt.Printf("%sGoodbye!%s\n", SuccessColor, ResetColor)
		cli.saveHistory()
		os.Exit(0)

	case ".help", ".h", ".?":
		cli.printHelp()

	case ".info":
		level := "DB"
		if len(parts) > 1 {
			level = strings.ToUpper(parts[1])
		}
		cli.execute("INFO FOR " + level)

	case ".clear", ".cls":
		fmt.Print("\033[H\033[2J")

	case ".history":
		cli.printHistory()

	case ".version":
		fmt.Printf("LagoonDB version %s\n", Version)

	case ".export":
		if len(parts) > 1 {
			if err := cli.engine.Export(parts[1], nil); err != nil {
				fmt.Printf("%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
			} else {
				fmt.Printf("%s✓ Exported to %s%s\n", SuccessColor, parts[1], ResetColor)
			}
		} else {
			fmt.Printf("%s✗ Usage: .export <target>%s\n", ErrorColor, ResetColor)
		}

	case ".import":
		if len(parts) > 1 {
			if err := cli.engine.Import(parts[1], nil); err != nil {
				fmt.Printf("%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
			} else {
				fmt.Printf("%s✓ Imported from %s%s\n", SuccessColor, parts[1], ResetColor)
			}
		} else {
			fmt.Printf("%s✗ Usage: .import <source>%s\n", ErrorColor, ResetColor)
		}

	case ".run":
		if len(parts) > 1 {
			if err := cli.runFile(parts[1]); err != nil {
				fmt.Printf("%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
			}
		} else {
			fmt.Printf("%s✗ Usage: .run <file>%s\n", ErrorColor, ResetColor)
		}

	default:
		fmt.Printf("%s✗ Unknown command: %s (type .help for commands)%s\n", ErrorColor, parts[0], ResetColor)
	}

	return true
}

func (cli *CLI) printHelp() {
	fmt.Println()
	fmt.Printf("%s%sSpecial Commands:%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Println("  .help, .h        Show this help message")
	fmt.Println("  .quit, .exit     Exit the shell")
	fmt.Println("  .info [level]    Show INFO FOR ROOT/NS/DB")
	fmt.Println("  .export <path>   Export the selected database (file or s3:// URL)")
	fmt.Println("  .import <path>   Import an export stream")
	fmt.Println("  .run <file>      Execute statements from a file")
	fmt.Println("  .history         Show command history")
	fmt.Println("  .clear           Clear the screen")
	fmt.Println("  .version         Show version info")
	fmt.Println()
	fmt.Printf("%s%sStatements:%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Println("  USE NS <ns> DB <db>;")
	fmt.Println("  LET $param = <value>;")
	fmt.Println("  CREATE <table>[:<id>] [CONTENT {...}] [SET field = value, ...];")
	fmt.Println("  SELECT <fields> FROM <target> [WHERE field = value];")
	fmt.Println("  UPDATE <target> [CONTENT {...}] [MERGE {...}] [SET ...] [WHERE ...];")
	fmt.Println("  RELATE <from> -> <edge> -> <to> [CONTENT {...}];")
	fmt.Println("  DELETE <target> [WHERE ...];")
	fmt.Println("  INSERT INTO <table> {...} | [{...}, ...];")
	fmt.Println("  DEFINE/REMOVE NAMESPACE|DATABASE|TABLE <name>;")
	fmt.Println("  INFO FOR ROOT|NS|DB;")
	fmt.Println("  LIVE SELECT * FROM <table>;  KILL '<id>';")
	fmt.Println("  BEGIN; ... COMMIT; | CANCEL;")
	fmt.Println()
	fmt.Printf("%s%sValues:%s strings, numbers, 13.5dec, 1h30m, d'2024-01-01T00:00:00Z',\n", BoldColor, PromptColor, ResetColor)
	fmt.Println("  (lng, lat) points, { objects }, [ arrays ], table:id record ids,")
	fmt.Println("  <geometry>{ type: 'Point', coordinates: [...] } casts")
	fmt.Println()
}

func (cli *CLI) addToHistory(cmd string) {
	// Don't add duplicates of the last command
	if len(cli.history) > 0 && cli.history[len(cli.history)-1] == cmd {
		return
	}
	cli.history = append(cli.history, cmd)

	if len(cli.history) > 1000 {
		cli.history = cli.history[len(cli.history)-1000:]
	}
}

func (cli *CLI) printHistory() {
	if len(cli.history) == 0 {
		fmt.Println("No command history")
		return
	}

	start := 0
	if len(cli.history) > 20 {
		start = len(cli.history) - 20
	}

	for i := start; i < len(cli.history); i++ {
		fmt.Printf("  %3d  %s\n", i+1, cli.history[i])
	}
}

func getHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".lagoondb_history")
}

func (cli *CLI) loadHistory() {
	if cli.historyFile == "" {
		return
	}

	file, err := os.Open(cli.historyFile)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		cli.history = append(cli.history, scanner.Text())
	}
}

func (cli *CLI) saveHistory() {
	if cli.historyFile == "" {
		return
	}

	file, err := os.Create(cli.historyFile)
	if err != nil {
		return
	}
	defer file.Close()

	start := 0
	if len(cli.history) > 1000 {
		start = len(cli.history) - 1000
	}

	for i := start; i < len(cli.history); i++ {
		_, _ = file.WriteString(cli.history[i] + "\n")
	}
}

// runFile reads and executes statements from a file. The whole file is
// handed to the engine in one go, so each statement gets its own indexed
// result.
func (cli *CLI) runFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	cli.execute(string(data))
	return nil
}
