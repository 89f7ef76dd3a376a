package domain

import "time"

// CommandContext describes one shell invocation.
type CommandContext struct {
	Session   string
	Line      string
	Timestamp time.Time
}

func NewCommandContext(session, line string) *CommandContext {
	return &CommandContext{
		Session:   session,
		Line:      line,
		Timestamp: time.Now(),
	}
}
