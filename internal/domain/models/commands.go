package models

import "strings"

// CommandType enumerates supported inventory command categories.
type CommandType string

const (
	CommandAdd     CommandType = "add"
	CommandRemove  CommandType = "remove"
	CommandQty     CommandType = "qty"
	CommandLow     CommandType = "low"
	CommandReport  CommandType = "report"
	CommandUnknown CommandType = "unknown"
)

// Command represents a parsed operator instruction extracted from free-form text.
type Command struct {
	Type CommandType
	Raw  string
	Args []string
}

// ParseCommand derives a Command instance from free-form text messages.
func ParseCommand(message string) Command {
	normalized := strings.TrimSpace(strings.ToLower(message))

	if normalized == "" {
		return Command{Type: CommandUnknown, Raw: message}
	}

	tokens := strings.Fields(normalized)
	cmd := Command{Raw: message}

	if len(tokens) == 0 {
		cmd.Type = CommandUnknown
		return cmd
	}

	head := strings.TrimPrefix(tokens[0], "/")
	switch head {
	case string(CommandAdd):
		cmd.Type = CommandAdd
	case string(CommandRemove):
		cmd.Type = CommandRemove
	case string(CommandQty):
		cmd.Type = CommandQty
	case string(CommandLow):
		cmd.Type = CommandLow
	case string(CommandReport):
		cmd.Type = CommandReport
	default:
		cmd.Type = CommandUnknown
	}

	if len(tokens) > 1 {
		cmd.Args = tokens[1:]
	}

	return cmd
}
