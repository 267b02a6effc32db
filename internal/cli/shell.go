package cli

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
)

// cmdShell runs an interactive session against the configured store.
// Commands mirror the non-interactive CLI; JSON documents are inline.
func cmdShell(out io.Writer, cfg Config, workDir string) error {
	// Open once up front so a bad config fails before the prompt.
	db, err := openStore(cfg, workDir)
	if err != nil {
		return err
	}

	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(shellCompleter)

	if f, openErr := os.Open(shellHistoryFile()); openErr == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	fprintln(out, "dirdoc shell - root:", db.Root())
	fprintln(out, "Type 'help' for available commands.")
	fprintln(out)

	defer saveShellHistory(line)

	for {
		input, promptErr := line.Prompt("dirdoc> ")
		if promptErr != nil {
			if errors.Is(promptErr, liner.ErrPromptAborted) || errors.Is(promptErr, io.EOF) {
				fprintln(out)

				return nil
			}

			return promptErr
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		line.AppendHistory(input)

		cmd, rest := splitWord(input)

		var cmdErr error

		switch strings.ToLower(cmd) {
		case "exit", "quit", "q":
			fprintln(out, "Bye!")

			return nil

		case "help", "?":
			printShellHelp(out)

		case "insert":
			// insert <collection> <json>
			col, doc := splitWord(rest)
			cmdErr = cmdInsert(strings.NewReader(""), out, cfg, workDir, shellArgs(col, doc))

		case "get":
			cmdErr = cmdGet(out, cfg, workDir, strings.Fields(rest))

		case "ls", "list":
			cmdErr = cmdLs(out, cfg, workDir, strings.Fields(rest))

		case "set":
			// set <collection> <id> <json>
			col, tail := splitWord(rest)
			id, doc := splitWord(tail)
			cmdErr = cmdSet(strings.NewReader(""), out, cfg, workDir, shellArgs(col, id, doc))

		case "rm", "del", "delete":
			cmdErr = cmdRm(out, cfg, workDir, strings.Fields(rest))

		case "drop":
			cmdErr = cmdDrop(out, cfg, workDir, strings.Fields(rest))

		case "reset":
			cmdErr = cmdReset(out, cfg, workDir)

		case "clear", "cls":
			fprintln(out, "\033[H\033[2J")

		default:
			fprintln(out, "Unknown command:", cmd, "(type 'help' for commands)")
		}

		if cmdErr != nil {
			fprintln(out, "error:", cmdErr)
		}
	}
}

// splitWord splits off the first whitespace-separated word, keeping the
// remainder intact so inline JSON survives with its spaces.
func splitWord(s string) (word, rest string) {
	s = strings.TrimSpace(s)

	i := strings.IndexFunc(s, func(r rune) bool { return r == ' ' || r == '\t' })
	if i < 0 {
		return s, ""
	}

	return s[:i], strings.TrimSpace(s[i:])
}

// shellArgs drops trailing empty arguments so the commands see the same
// arity they would from the process arg vector.
func shellArgs(args ...string) []string {
	for len(args) > 0 && args[len(args)-1] == "" {
		args = args[:len(args)-1]
	}

	return args
}

func shellHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".dirdoc_history")
}

func saveShellHistory(line *liner.State) {
	path := shellHistoryFile()
	if path == "" {
		return
	}

	if f, err := os.Create(path); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

func shellCompleter(line string) []string {
	commands := []string{
		"insert", "get", "ls", "list", "set",
		"rm", "del", "delete", "drop", "reset",
		"clear", "cls", "help", "exit", "quit", "q",
	}

	var out []string

	for _, cmd := range commands {
		if strings.HasPrefix(cmd, strings.ToLower(line)) {
			out = append(out, cmd)
		}
	}

	return out
}

func printShellHelp(out io.Writer) {
	fprintln(out, "Commands:")
	fprintln(out, "  insert <collection> <json>      store a document")
	fprintln(out, "  get <collection> <id> [id...]   print documents")
	fprintln(out, "  ls <collection> [flags]         query a collection")
	fprintln(out, "  set <collection> <id> <json>    merge fields into a document")
	fprintln(out, "  rm <collection> <id>            delete a document")
	fprintln(out, "  drop <collection>               delete a collection")
	fprintln(out, "  reset                           delete the database root")
	fprintln(out, "  clear                           clear the screen")
	fprintln(out, "  exit                            leave the shell")
}
