package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "interviewctl",
		Short:         "Run mock interviews and maintain the interview archive",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newPracticeCmd())
	root.AddCommand(newReindexCmd())
	return root
}
