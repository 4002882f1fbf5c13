package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/nguyentantai21042004/digest-flow/internal/cli"
	"github.com/nguyentantai21042004/digest-flow/internal/output"
	"github.com/nguyentantai21042004/digest-flow/internal/pipeline"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx)
	stop()
	os.Exit(code)
}

// run maps the outcome to an exit code: 0 on success or interrupt, 1 otherwise
func run(ctx context.Context) int {
	deps := &cli.Dependencies{}
	defer deps.Close()

	err := cli.NewRootCmd(deps).ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, pipeline.ErrInterrupted):
		output.NewFormatter(os.Stdout).Interrupted()
		return 0
	default:
		output.NewFormatter(os.Stderr).Error(err.Error())
		return 1
	}
}
