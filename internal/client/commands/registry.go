package commands

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"chesslog/internal/client/display"
	"chesslog/internal/client/session"
	"chesslog/internal/core"
)

// ErrExit asks the read loop to stop
var ErrExit = errors.New("exit requested")

// Command defines a client command with its handler
type Command struct {
	Name        string
	ShortName   string
	Group       string
	Description string
	Usage       string
	Handler     func(*session.Session, []string) error
}

// Registry manages command registration and execution
type Registry struct {
	session  *session.Session
	commands map[string]*Command
}

func NewRegistry(s *session.Session) *Registry {
	r := &Registry{
		session:  s,
		commands: make(map[string]*Command),
	}

	r.registerRecordCommands()
	r.registerReviewCommands()
	r.registerHistoryCommands()

	r.Register(&Command{
		Name:        "help",
		ShortName:   "?",
		Group:       "Utility",
		Description: "Show available commands",
		Usage:       "help [command]",
		Handler:     r.helpHandler,
	})

	r.Register(&Command{
		Name:        "exit",
		ShortName:   "x",
		Group:       "Utility",
		Description: "Exit the client",
		Usage:       "exit",
		Handler:     exitHandler,
	})

	return r
}

func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	if cmd.ShortName != "" {
		r.commands[cmd.ShortName] = cmd
	}
}

// Execute runs one input line and reports whether the client should exit.
// A bare square selects it and a bare UCI move (e2e4) plays it.
func (r *Registry) Execute(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return false
	}

	cmdName := strings.ToLower(parts[0])
	args := parts[1:]
	out := r.session.Out

	cmd, exists := r.commands[cmdName]
	if !exists {
		switch {
		case len(parts) == 1 && isSquare(cmdName):
			cmd, args = r.commands["select"], parts
		case len(parts) == 1 && (len(cmdName) == 4 || len(cmdName) == 5) && isSquare(cmdName[:2]) && isSquare(cmdName[2:4]):
			cmd, args = r.commands["move"], []string{cmdName[:2], cmdName[2:4]}
			if len(cmdName) == 5 {
				args = append(args, cmdName[4:])
			}
		default:
			fmt.Fprintf(out, "%sUnknown command: %s%s\n", display.Red, cmdName, display.Reset)
			fmt.Fprintf(out, "Type 'help' for available commands\n")
			return false
		}
	}

	if err := cmd.Handler(r.session, args); err != nil {
		if errors.Is(err, ErrExit) {
			return true
		}
		fmt.Fprintf(out, "%sError: %s%s\n", display.Red, err.Error(), display.Reset)
	}
	return false
}

func isSquare(s string) bool {
	_, err := core.ParseSquare(s)
	return err == nil
}

func (r *Registry) helpHandler(s *session.Session, args []string) error {
	out := s.Out
	if len(args) > 0 {
		cmd, exists := r.commands[args[0]]
		if !exists {
			return fmt.Errorf("unknown command: %s", args[0])
		}
		fmt.Fprintf(out, "\n%s%s%s - %s\n", display.Cyan, cmd.Name, display.Reset, cmd.Description)
		if cmd.ShortName != "" {
			fmt.Fprintf(out, "Short form: %s%s%s\n", display.Cyan, cmd.ShortName, display.Reset)
		}
		fmt.Fprintf(out, "Usage: %s\n", cmd.Usage)
		return nil
	}

	groups := map[string][]*Command{}
	for name, cmd := range r.commands {
		if name == cmd.Name {
			groups[cmd.Group] = append(groups[cmd.Group], cmd)
		}
	}

	fmt.Fprintf(out, "\n%s%sAvailable Commands:%s\n", display.Bold, display.Cyan, display.Reset)
	for _, group := range []string{"Record", "Review", "History", "Utility"} {
		cmds := groups[group]
		sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })

		fmt.Fprintf(out, "\n%s%s:%s\n", display.Yellow, group, display.Reset)
		for _, cmd := range cmds {
			shortPart := "    "
			if cmd.ShortName != "" {
				shortPart = fmt.Sprintf("[%s%s%s] ", display.Cyan, cmd.ShortName, display.Reset)
			}
			fmt.Fprintf(out, "  %s%-10s %s\n", shortPart, cmd.Name, cmd.Description)
		}
	}

	fmt.Fprintf(out, "\nType 'help <command>' for detailed usage\n")
	fmt.Fprintf(out, "A bare square (e2) selects it, a bare move (e2e4) plays it\n")
	return nil
}

func exitHandler(s *session.Session, args []string) error {
	fmt.Fprintf(s.Out, "%sGoodbye!%s\n", display.Cyan, display.Reset)
	return ErrExit
}
