package main

import (
	"context"
	"fmt"
	"os"

	"cellar/ast"
	"cellar/feed"
	"cellar/formula"
	"cellar/repl"
	"cellar/spreadsheet"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	sub := os.Args[1]
	switch sub {
	case "-h", "--help", "help":
		usage()
		return
	case "parse":
		os.Exit(parseCommand(os.Args[2:]))
	case "repl":
		os.Exit(replCommand(os.Args[2:]))
	case "serve":
		os.Exit(serveCommand(os.Args[2:]))
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand: %s\n", sub)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage:\n")
	fmt.Fprintf(os.Stderr, "  cellar <command> [arguments]\n")
	fmt.Fprintf(os.Stderr, "\nCommands:\n")
	fmt.Fprintf(os.Stderr, "  parse <formula>          parse a formula and print its canonical form and AST\n")
	fmt.Fprintf(os.Stderr, "  repl                     start the interactive sheet shell\n")
	fmt.Fprintf(os.Stderr, "  serve [addr] [-feed a]   start the websocket sheet server (default :8080)\n")
	fmt.Fprintf(os.Stderr, "  help                     show this help message\n")
}

func parseCommand(args []string) int {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "usage: cellar parse <formula>\n")
		return 2
	}
	text := args[0]
	f, err := formula.Parse(text)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		return 1
	}
	fmt.Printf("=%s\n", f.Expression())
	fmt.Print(ast.Format(f.AST()))
	return 0
}

func replCommand(args []string) int {
	if len(args) != 0 {
		fmt.Fprintf(os.Stderr, "usage: cellar repl\n")
		return 2
	}
	repl.Start(os.Stdin, os.Stdout)
	return 0
}

func serveCommand(args []string) int {
	addr := ":8080"
	feedAddr := ""
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-feed":
			if i+1 == len(args) {
				fmt.Fprintf(os.Stderr, "usage: cellar serve [addr] [-feed addr]\n")
				return 2
			}
			i++
			feedAddr = args[i]
		default:
			addr = args[i]
		}
	}

	server := spreadsheet.NewServer()
	if feedAddr != "" {
		pub, err := feed.NewPublisher(context.Background(), feedAddr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "feed: %s\n", err)
			return 1
		}
		defer pub.Close()
		server.Feed = pub
	}

	if err := server.Start(addr); err != nil {
		fmt.Fprintf(os.Stderr, "serve: %s\n", err)
		return 1
	}
	return 0
}
