package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mergepdf <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  merge      Merge images and PDFs into one PDF")
	fmt.Fprintln(w, "  watch      Merge again whenever an input changes")
	fmt.Fprintln(w, "  batch      Build every job of a config file")
	fmt.Fprintln(w, "  inspect    Show page count and sizes of PDFs")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mergepdf help <command>' for details on a specific command.")
}

// printLayoutFlags prints the flags shared by merge and watch.
func printLayoutFlags(w io.Writer) {
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>         Output file (default: merged.pdf)")
	fmt.Fprintln(w, "  -c, --config <name>         Config file name or path")
	fmt.Fprintln(w, "      --max-sources <n>       Files per document (default: 10)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page (image pages only; PDF pages keep their size):")
	fmt.Fprintln(w, "  -p, --page-size <s>         Page size: letter, a4, legal")
	fmt.Fprintln(w, "      --orientation <s>       Orientation: portrait, landscape")
	fmt.Fprintln(w, "      --margin <f>            All margins in inches (default: 0.5)")
	fmt.Fprintln(w, "      --margin-top <f>        Top margin in inches")
	fmt.Fprintln(w, "      --margin-right <f>      Right margin in inches")
	fmt.Fprintln(w, "      --margin-bottom <f>     Bottom margin in inches")
	fmt.Fprintln(w, "      --margin-left <f>       Left margin in inches")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page Numbers:")
	fmt.Fprintln(w, "  -n, --page-numbers          Stamp every page, counting from 1")
	fmt.Fprintln(w, "      --number-position <s>   Corner: bottom-left, bottom-right")
	fmt.Fprintln(w, "      --no-page-numbers       Disable page numbers")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Metadata:")
	fmt.Fprintln(w, "      --title <s>             Document title")
	fmt.Fprintln(w, "      --author <s>            Document author")
	fmt.Fprintln(w, "      --subject <s>           Document subject")
	fmt.Fprintln(w, "      --date <s>              Creation date: \"auto\" (today) or YYYY-MM-DD")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Password (accepted but never applied; a warning is printed):")
	fmt.Fprintln(w, "      --password <s>          User password")
	fmt.Fprintln(w, "      --password-confirm <s>  Repeat the user password")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet                 Only show errors")
	fmt.Fprintln(w, "  -v, --verbose               Log assembly stages")
}

// printMergeUsage prints usage for the merge command.
func printMergeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mergepdf merge [flags] <file|dir>...")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Merge JPEG, PNG and PDF files into one PDF, in the order given.")
	fmt.Fprintln(w, "A directory adds its files sorted by name. Files that cannot be")
	fmt.Fprintln(w, "read are skipped with a warning.")
	fmt.Fprintln(w)
	printLayoutFlags(w)
}

// printWatchUsage prints usage for the watch command.
func printWatchUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mergepdf watch [flags] <file|dir>...")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Merge like 'merge', then rebuild the output whenever an input changes.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Watch:")
	fmt.Fprintln(w, "      --debounce <d>          Wait after a change (default: 200ms)")
	fmt.Fprintln(w)
	printLayoutFlags(w)
}

// printBatchUsage prints usage for the batch command.
func printBatchUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mergepdf batch -c <config> [flags] [job...]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Build every job listed under 'jobs:' in the config, or only the named ones.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config <name>         Config file name or path (required)")
	fmt.Fprintln(w, "  -w, --workers <n>           Parallel jobs (0 = auto)")
	fmt.Fprintln(w, "      --max-sources <n>       Files per document (default: 10)")
	fmt.Fprintln(w, "  -q, --quiet                 Only show errors")
	fmt.Fprintln(w, "  -v, --verbose               Show timing and assembly stages")
}

// printInspectUsage prints usage for the inspect command.
func printInspectUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mergepdf inspect [flags] <file.pdf>...")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Show page count and page sizes in points.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -f, --format <s>            Output format: text, yaml")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "merge":
		printMergeUsage(env.Stdout)
	case "watch":
		printWatchUsage(env.Stdout)
	case "batch":
		printBatchUsage(env.Stdout)
	case "inspect":
		printInspectUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: mergepdf version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: mergepdf help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
