// Package cli implements the dirdoc command line interface.
//
// The CLI is a thin consumer of the public docstore operations: it loads
// configuration, parses collection paths and JSON documents, and prints
// results. All storage semantics live in pkg/docstore.
package cli

import (
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"
)

// Run is the main entry point. args includes the program name.
// Returns the process exit code.
func Run(in io.Reader, out, errOut io.Writer, args []string) int {
	if len(args) < 1 {
		printUsage(out)

		return 0
	}

	globals, err := parseGlobalFlags(args[1:])
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	workDir := os.Getenv("DIRDOC_DIR")
	if workDir == "" {
		workDir, err = os.Getwd()
		if err != nil {
			fprintln(errOut, "error: cannot get working directory:", err)

			return 1
		}
	}

	cfg, err := LoadConfig(workDir, globals.configPath, globals.overrides)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	if len(globals.remaining) == 0 {
		printUsage(out)

		return 0
	}

	cmd := globals.remaining[0]
	rest := globals.remaining[1:]

	if cmd == "-h" || cmd == "--help" || cmd == "help" {
		printUsage(out)

		return 0
	}

	var cmdErr error

	switch cmd {
	case "insert":
		cmdErr = cmdInsert(in, out, cfg, workDir, rest)
	case "get":
		cmdErr = cmdGet(out, cfg, workDir, rest)
	case "ls":
		cmdErr = cmdLs(out, cfg, workDir, rest)
	case "set":
		cmdErr = cmdSet(in, out, cfg, workDir, rest)
	case "rm":
		cmdErr = cmdRm(out, cfg, workDir, rest)
	case "drop":
		cmdErr = cmdDrop(out, cfg, workDir, rest)
	case "reset":
		cmdErr = cmdReset(out, cfg, workDir)
	case "shell":
		cmdErr = cmdShell(out, cfg, workDir)
	default:
		fprintln(errOut, "error: unknown command:", cmd)
		printUsage(errOut)

		return 1
	}

	if cmdErr != nil {
		fprintln(errOut, "error:", cmdErr)

		return 1
	}

	return 0
}

// globalFlags holds flags that apply before the command word.
type globalFlags struct {
	configPath string
	overrides  Config
	remaining  []string
}

func parseGlobalFlags(args []string) (globalFlags, error) {
	flagSet := flag.NewFlagSet("dirdoc", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.SetInterspersed(false)

	configPath := flagSet.String("config", "", "Path to config file")
	root := flagSet.String("root", "", "Database root directory")
	idMode := flagSet.String("id-mode", "", "Identifier mode: sequential or random")
	qualify := flagSet.String("qualify", "", "Field qualification: none, partial or full")

	err := flagSet.Parse(args)
	if err != nil {
		return globalFlags{}, err
	}

	return globalFlags{
		configPath: *configPath,
		overrides: Config{
			Root:    *root,
			IDMode:  *idMode,
			Qualify: *qualify,
		},
		remaining: flagSet.Args(),
	}, nil
}

func printUsage(out io.Writer) {
	fprintln(out, "dirdoc - embedded path-addressed document store")
	fprintln(out)
	fprintln(out, "Usage: dirdoc [global flags] <command> [args]")
	fprintln(out)
	fprintln(out, "Commands:")
	fprintln(out, "  insert <collection> [json]      store a document (reads stdin without json arg)")
	fprintln(out, "  get <collection> <id> [id...]   print one or more documents")
	fprintln(out, "  ls <collection> [flags]         query a collection")
	fprintln(out, "  set <collection> <id> [json]    merge fields into a document")
	fprintln(out, "  rm <collection> <id>            delete a document")
	fprintln(out, "  drop <collection>               delete a collection and everything nested")
	fprintln(out, "  reset                           delete the whole database root")
	fprintln(out, "  shell                           interactive session")
	fprintln(out)
	fprintln(out, "Global flags:")
	fprintln(out, "  --config <file>   config file (default .dirdoc.json if present)")
	fprintln(out, "  --root <dir>      database root (default .dirdoc)")
	fprintln(out, "  --id-mode <m>     sequential or random")
	fprintln(out, "  --qualify <m>     none, partial or full")
	fprintln(out)
	fprintln(out, "Collections are slash-separated paths: users, users/42/posts, ...")
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}
