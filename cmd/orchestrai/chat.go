package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ankithreddys/orchestrai/internal/logutil"
	"github.com/ankithreddys/orchestrai/orchestrator"
)

func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive assistant session on stdin/stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logutil.FromViper()
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			orch, err := orchestratorFromViper(logger)
			if err != nil {
				return err
			}

			threadID := strings.TrimSpace(flagOrViperString(cmd, "thread", ""))
			if threadID == "" {
				threadID = uuid.NewString()
			}
			turnTimeout := flagOrViperDuration(cmd, "timeout", "timeout")
			opts := orchestrator.TurnOptions{Provider: flagOrViperString(cmd, "provider", "")}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Thread %s. Type a message, or /quit to exit.\n", threadID)

			scanner := bufio.NewScanner(os.Stdin)
			scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			for {
				_, _ = fmt.Fprint(out, "> ")
				if !scanner.Scan() {
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if line == "/quit" || line == "/exit" {
					return nil
				}

				ctx, cancel := context.WithTimeout(cmd.Context(), turnTimeout)
				reply, err := orch.HandleTurnOptions(ctx, threadID, line, opts)
				cancel()
				if err != nil {
					logger.Error("turn failed", "thread", threadID, "error", err)
					_, _ = fmt.Fprintln(out, "Something went wrong on my side. Please try again.")
					continue
				}
				_, _ = fmt.Fprintln(out, reply)
			}
		},
	}

	cmd.Flags().String("thread", "", "Thread ID to resume (default: a new random thread).")
	cmd.Flags().Duration("timeout", 2*time.Minute, "Per-turn timeout.")
	cmd.Flags().String("provider", "", "Switch the thread to gmail or outlook (default: keep the thread's provider).")

	return cmd
}

func newTurnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "turn [text]",
		Short: "Run a single assistant turn and print the reply",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := ""
			if len(args) == 1 {
				text = strings.TrimSpace(args[0])
			}
			if text == "" {
				data, err := os.ReadFile("/dev/stdin")
				if err == nil {
					text = strings.TrimSpace(string(data))
				}
			}
			if text == "" {
				return fmt.Errorf("missing message text (argument or stdin)")
			}

			logger, err := logutil.FromViper()
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			orch, err := orchestratorFromViper(logger)
			if err != nil {
				return err
			}

			threadID := strings.TrimSpace(flagOrViperString(cmd, "thread", ""))
			if threadID == "" {
				threadID = uuid.NewString()
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), flagOrViperDuration(cmd, "timeout", "timeout"))
			defer cancel()

			opts := orchestrator.TurnOptions{Provider: flagOrViperString(cmd, "provider", "")}
			reply, err := orch.HandleTurnOptions(ctx, threadID, text, opts)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), reply)
			return nil
		},
	}

	cmd.Flags().String("thread", "", "Thread ID (default: a new random thread).")
	cmd.Flags().Duration("timeout", 2*time.Minute, "Per-turn timeout.")
	cmd.Flags().String("provider", "", "Switch the thread to gmail or outlook (default: keep the thread's provider).")

	return cmd
}
