package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"docdesk/internal/cli"
)

func isDocumentID(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "doc-") && len(s) > len("doc-")
}

// Flags taking a separate value; their value must not be read as the first positional.
var valueFlags = map[string]bool{
	"--dir":       true,
	"--catalog":   true,
	"--user":      true,
	"--format":    true,
	"--log-level": true,
}

// rewriteDocumentLookupArgs turns `docdesk <doc-id>` into `docdesk documents show <doc-id>`.
// Persistent flags may come before the id.
func rewriteDocumentLookupArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}
	insertAt := func(i int) []string {
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:i]...)
		out = append(out, "documents", "show")
		return append(out, argv[i:]...)
	}
	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		switch {
		case a == "":
			continue
		case a == "--":
			if i+1 < len(argv) && isDocumentID(argv[i+1]) {
				return insertAt(i + 1)
			}
			return argv
		case strings.HasPrefix(a, "-"):
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		case isDocumentID(a):
			return insertAt(i)
		default:
			return argv
		}
	}
	return argv
}

func main() {
	os.Args = rewriteDocumentLookupArgs(os.Args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	cmd := cli.NewRootCmd()
	err := cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
