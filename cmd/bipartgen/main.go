package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/hardcnf/bipartgen/internal/cli"
	bperrors "github.com/hardcnf/bipartgen/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, err)
		if isUsageError(err) {
			os.Exit(255)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	c := cli.New(os.Stderr, cli.LogInfo)
	return c.RootCommand().ExecuteContext(ctx)
}

// isUsageError reports whether err stems from bad invocation rather than a
// failure during generation.
func isUsageError(err error) bool {
	switch bperrors.GetCode(err) {
	case bperrors.ErrCodeInvalidFlag, bperrors.ErrCodeInvalidGraph,
		bperrors.ErrCodeInvalidEncoding, bperrors.ErrCodeInvalidManifest,
		bperrors.ErrCodeInvalidPath:
		return true
	}
	// Flag parse errors surface as plain cobra errors.
	return strings.Contains(err.Error(), "unknown flag") ||
		strings.Contains(err.Error(), "invalid argument")
}
