package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fjacquet/statement-parser/cmd/batch"
	"fjacquet/statement-parser/cmd/categorize"
	"fjacquet/statement-parser/cmd/export"
	"fjacquet/statement-parser/cmd/extract"
	"fjacquet/statement-parser/cmd/root"
	"fjacquet/statement-parser/cmd/summarize"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(extract.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(summarize.Cmd)
	root.Cmd.AddCommand(export.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := root.Cmd.ExecuteContext(ctx)
	stop()

	// PersistentPostRun is skipped when a command fails; metrics are still written.
	if closeErr := root.CloseContainer(); closeErr != nil {
		fmt.Fprintln(os.Stderr, "Warning:", closeErr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
