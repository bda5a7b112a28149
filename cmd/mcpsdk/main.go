// Package main implements the mcpsdk CLI: a demo server exposing a small
// fixed tool/resource/prompt set over stdio, and a client that drives one.
// file: cmd/mcpsdk/main.go
package main

import (
	"fmt"
	"log"
	"os"
	"runtime"
)

var (
	version    = "dev"
	commitHash = "unknown"
	buildDate  = "unknown"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.SetPrefix("[mcpsdk] ")

	commands := RegisterCommands()

	if len(os.Args) < 2 {
		mustRun(commands["help"], nil)
		return
	}

	cmdName := os.Args[1]
	if cmdName == "-v" || cmdName == "--version" {
		printVersion()
		return
	}

	cmd, ok := commands[cmdName]
	if !ok {
		fmt.Printf("Unknown command: %s\n\n", cmdName)
		mustRun(commands["help"], nil)
		os.Exit(1)
	}

	if err := cmd.Run(os.Args[2:]); err != nil {
		log.Fatalf("%s: %v", cmdName, err)
	}
}

func mustRun(cmd Command, args []string) {
	if err := cmd.Run(args); err != nil {
		log.Fatalf("help: %v", err)
	}
}

func printVersion() {
	fmt.Printf("mcpsdk\n")
	fmt.Printf("Version:    %s\n", version)
	fmt.Printf("Commit:     %s\n", commitHash)
	fmt.Printf("Built:      %s\n", buildDate)
	fmt.Printf("Go version: %s\n", runtime.Version())
	fmt.Printf("OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
}
