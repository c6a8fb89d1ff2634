// Command rustcask is a thin command-line front end over a rustcask
// directory: get, set, rm, and merge, each a single-shot invocation
// against the directory named by -dir.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rustcask/rustcask/pkg/logger"
	"github.com/rustcask/rustcask/pkg/rustcask"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("rustcask", flag.ContinueOnError)
	dir := fs.String("dir", "", "path to the rustcask directory (required)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *dir == "" || fs.NArg() < 1 {
		usage()
		return 2
	}

	log := logger.New("rustcask-cli")
	db, err := rustcask.Open(*dir, rustcask.WithLogger(log))
	if err != nil {
		fmt.Fprintf(os.Stderr, "open %s: %v\n", *dir, err)
		return 1
	}
	defer db.Close()

	rest := fs.Args()
	switch rest[0] {
	case "get":
		return cmdGet(db, rest[1:])
	case "set":
		return cmdSet(db, rest[1:])
	case "rm":
		return cmdRemove(db, rest[1:])
	case "merge":
		return cmdMerge(db)
	default:
		usage()
		return 2
	}
}

func cmdGet(db *rustcask.DB, args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: rustcask -dir DIR get KEY")
		return 2
	}
	value, err := db.Get(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "get %q: %v\n", args[0], err)
		return 1
	}
	fmt.Println(string(value))
	return 0
}

func cmdSet(db *rustcask.DB, args []string) int {
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: rustcask -dir DIR set KEY VALUE")
		return 2
	}
	if err := db.Set(args[0], []byte(args[1])); err != nil {
		fmt.Fprintf(os.Stderr, "set %q: %v\n", args[0], err)
		return 1
	}
	return 0
}

func cmdRemove(db *rustcask.DB, args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: rustcask -dir DIR rm KEY")
		return 2
	}
	value, err := db.Remove(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "rm %q: %v\n", args[0], err)
		return 1
	}
	if value != nil {
		fmt.Println(string(value))
	}
	return 0
}

func cmdMerge(db *rustcask.DB) int {
	if err := db.Merge(); err != nil {
		fmt.Fprintf(os.Stderr, "merge: %v\n", err)
		return 1
	}
	return 0
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: rustcask -dir DIR <get|set|rm|merge> ...")
}
