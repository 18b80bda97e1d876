package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/stake-plus/veritas/src/ai/core"
	_ "github.com/stake-plus/veritas/src/ai/providers"
	"github.com/stake-plus/veritas/src/config"
	"github.com/stake-plus/veritas/src/factcheck"
)

const defaultSmokeClaim = "The Eiffel Tower caught fire yesterday"

func newSmoketestCmd() *cobra.Command {
	var (
		providersFlag string
		claim         string
		timeout       time.Duration
		web           bool
	)
	cmd := &cobra.Command{
		Use:   "smoketest",
		Short: "Run one claim through each model provider and report the outcome",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadDotEnv(); err != nil {
				return err
			}
			providers := resolveProviders(providersFlag)
			if len(providers) == 0 {
				return fmt.Errorf("no providers specified")
			}
			ai := config.LoadAI()
			al := factcheck.MustAllowlist(factcheck.DefaultTrustedDomains)
			out := cmd.OutOrStdout()
			for _, p := range providers {
				runProvider(out, p, ai, al, claim, timeout, web)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&providersFlag, "providers", "gemini", "comma-separated provider list or 'all'")
	cmd.Flags().StringVar(&claim, "claim", defaultSmokeClaim, "claim to verify")
	cmd.Flags().DurationVar(&timeout, "timeout", 90*time.Second, "per-provider timeout")
	cmd.Flags().BoolVar(&web, "web", true, "request search grounding")
	return cmd
}

func runProvider(out io.Writer, provider string, ai config.AI, al *factcheck.Allowlist, claim string, timeout time.Duration, web bool) {
	ai.Provider = provider
	ai.Model = core.ResolveModelName(provider, "")
	ai.EnableWeb = web

	fmt.Fprintf(out, "=== %s (%s) ===\n", provider, ai.Model)
	if ai.APIKey() == "" {
		fmt.Fprintf(out, "skipped: %s not configured\n", ai.CredentialSetting())
		return
	}
	client, err := core.NewClient(ai.FactoryConfig(factcheck.SystemPrompt))
	if err != nil {
		fmt.Fprintf(out, "client init ❌ %v\n", err)
		return
	}
	checker := factcheck.NewChecker(client, al, factcheck.WithModelOptions(ai.ModelOptions(factcheck.SystemPrompt)))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	res, err := checker.Verify(ctx, claim)
	if err != nil {
		fmt.Fprintf(out, "verify ❌ %s: %v\n", factcheck.Classify(err), err)
		return
	}
	fmt.Fprintf(out, "verify ✅ (%.1fs) verdict=%s confidence=%d sources=%d logic=%q\n",
		time.Since(start).Seconds(), res.Verdict, res.ConfidenceScore, len(res.Sources), res.LogicExplanation)
}

func resolveProviders(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if strings.EqualFold(raw, "all") {
		return []string{"gemini", "gemini-rest", "groq"}
	}
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == ';'
	})
	var out []string
	seen := map[string]struct{}{}
	for _, p := range parts {
		key := strings.ToLower(strings.TrimSpace(p))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}
