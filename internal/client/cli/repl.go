package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/snappy/internal/client/services"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	currentRoute() services.Route
	settle(ctx context.Context)

	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error

	Contacts(ctx context.Context) error
	Select(ctx context.Context, args []string) error
	Chat(ctx context.Context) error

	Avatars(ctx context.Context) error
	Pick(ctx context.Context, args []string) error
	Submit(ctx context.Context) error
}

// screenCommands lists the commands bound to a single screen.
var screenCommands = map[string]services.Route{
	"contacts": services.RouteMain,
	"select":   services.RouteMain,
	"chat":     services.RouteMain,
	"avatars":  services.RouteProvisionAvatar,
	"pick":     services.RouteProvisionAvatar,
	"submit":   services.RouteProvisionAvatar,
}

// runREPL starts a simple read–eval–print loop for the Snappy client.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. After every command, queued navigation is
// applied before the next prompt. The loop exits on EOF or when the user
// types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Anywhere:
//	  - help           show available commands
//	  - login          authenticate
//	  - logout         forget the stored identity
//	  - whoami         show the current user
//	  - exit | quit    leave the program
//
//	Main screen:
//	  - contacts       reload the contact list
//	  - select <n>     choose the contact to chat with
//	  - chat           show the current chat partner
//
//	Avatar screen:
//	  - avatars        fetch a new set of avatars
//	  - pick <n>       choose an avatar
//	  - submit         set the chosen avatar
//
// Errors returned by command handlers are ignored here; handlers report
// their own errors.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("snappy %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if route, ok := screenCommands[cmd]; ok && a.currentRoute() != route {
			printlnFn(fmt.Sprintf("'%s' is not available here", cmd))
			continue
		}

		switch cmd {
		case "help":
			printlnFn(helpText(a.currentRoute()))

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "contacts":
			_ = a.Contacts(ctx)

		case "select":
			_ = a.Select(ctx, args)

		case "chat":
			_ = a.Chat(ctx)

		case "avatars":
			_ = a.Avatars(ctx)

		case "pick":
			_ = a.Pick(ctx, args)

		case "submit":
			_ = a.Submit(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		a.settle(ctx)

		if err != nil {
			return
		}
	}
}

func helpText(route services.Route) string {
	switch route {
	case services.RouteMain:
		return "Available commands: contacts, select <n>, chat, whoami, logout, exit"
	case services.RouteProvisionAvatar:
		return "Available commands: avatars, pick <n>, submit, whoami, logout, exit"
	default:
		return "Available commands: login, whoami, exit"
	}
}
