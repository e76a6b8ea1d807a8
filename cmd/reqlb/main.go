// reqlb compiles declarative query documents into ReQL term trees.
//
// Usage:
//
//	reqlb build <path> [--output file] [--check file]
//	reqlb hash <path>
//	reqlb save <path> [--db reql.db]
//	reqlb show <name> [--all]
//	reqlb list
//	reqlb test <scenarios-dir> [--update] [--filter glob]
package main

import (
	"fmt"
	"os"

	"github.com/abreit/rethinkdb/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
