package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/menna-app/menna-go/internal/command"
	"github.com/menna-app/menna-go/internal/domain"
	"github.com/menna-app/menna-go/internal/locale"
	"github.com/menna-app/menna-go/internal/util"
)

const prompt = "menna> "

var exitWords = []string{"exit", "quit", "خروج", "יציאה"}

// Exec runs one input line and writes the rendered result to out.
func (c *Container) Exec(ctx context.Context, line string, out io.Writer) error {
	c.setOutput(out)
	defer c.setOutput(io.Discard)
	return c.exec(ctx, uuid.NewString(), line)
}

// Run reads lines from in until EOF, an exit word, or ctx is cancelled.
// Command failures are reported to out and do not stop the loop.
func (c *Container) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	c.setOutput(out)
	defer c.setOutput(io.Discard)

	session := uuid.NewString()
	lines := make(chan string)
	scanErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	c.Logger.Info("Shell started", zap.String("session", session))
	_ = c.write(session, c.Formatter.FormatHelp())

	for {
		fmt.Fprint(out, prompt)
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			if isExit(line) {
				return nil
			}
			if err := c.exec(ctx, session, line); err != nil {
				c.Logger.Error("Command failed", zap.String("session", session), zap.Error(err))
				_ = c.write(session, c.Formatter.FormatError(err.Error()))
			}
		}
	}
}

func (c *Container) exec(ctx context.Context, session, line string) error {
	if strings.TrimSpace(line) == "" {
		return nil
	}

	parsed := c.Messages.ParseLine(line)
	cmdCtx := domain.NewCommandContext(session, parsed.RawMessage)

	if parsed.Err != nil {
		return c.write(session, c.Formatter.FormatInvalidInput(parsed.Err.Error()))
	}
	if parsed.Type == domain.CommandUnknown {
		word, _ := parsed.Params["command"].(string)
		return c.write(session, c.Formatter.FormatUnknownCommand(word))
	}

	c.Logger.Debug("Dispatching command",
		zap.String("session", session),
		zap.String("command", parsed.Type.String()),
	)
	ctx = locale.WithContext(ctx, c.Locale)
	_, err := c.Dispatcher.Publish(ctx, cmdCtx, command.CommandEvent{Type: parsed.Type, Params: parsed.Params})
	return err
}

func isExit(line string) bool {
	return util.Contains(exitWords, util.Normalize(line))
}
