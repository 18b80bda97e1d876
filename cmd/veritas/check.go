package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/stake-plus/veritas/src/app"
	"github.com/stake-plus/veritas/src/factcheck"
)

func newCheckCmd() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "check <claim>",
		Short: "Verify a single claim and print the result as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			a, err := app.Start(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			res, err := a.Checker.Verify(ctx, strings.Join(args, " "))
			if err != nil {
				return userError(err)
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall deadline for the check")
	return cmd
}

// userError turns pipeline failures into the messages shown to end users.
func userError(err error) error {
	var cls *factcheck.ClassifiedError
	switch {
	case errors.Is(err, factcheck.ErrInvalidClaim):
		return fmt.Errorf("claim must be at least %d characters", factcheck.MinClaimLength)
	case errors.As(err, &cls):
		return errors.New(cls.Kind.Message())
	default:
		return err
	}
}
