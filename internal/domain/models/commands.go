package models

import "strings"

// CommandType enumerates supported text command verbs.
type CommandType string

const (
	CommandRestock CommandType = "restock"
	CommandSerial  CommandType = "serial"
	CommandReserve CommandType = "reserve"
	CommandRelease CommandType = "release"
	CommandShip    CommandType = "ship"
	CommandPrice   CommandType = "price"
	CommandStock   CommandType = "stock"
	CommandReport  CommandType = "report"
	CommandQueue   CommandType = "queue"
	CommandPause   CommandType = "pause"
	CommandResume  CommandType = "resume"
	CommandUnknown CommandType = "unknown"
)

var knownCommands = map[string]CommandType{
	string(CommandRestock): CommandRestock,
	string(CommandSerial):  CommandSerial,
	string(CommandReserve): CommandReserve,
	string(CommandRelease): CommandRelease,
	string(CommandShip):    CommandShip,
	string(CommandPrice):   CommandPrice,
	string(CommandStock):   CommandStock,
	string(CommandReport):  CommandReport,
	string(CommandQueue):   CommandQueue,
	string(CommandPause):   CommandPause,
	string(CommandResume):  CommandResume,
}

// Command represents a parsed operator instruction.
type Command struct {
	Type CommandType
	Raw  string
	Args []string
}

// ParseCommand derives a Command from one line of text. Only the verb is
// case-insensitive; SKUs and serials keep their case.
func ParseCommand(message string) Command {
	tokens := strings.Fields(message)
	cmd := Command{Raw: message}

	if len(tokens) == 0 {
		cmd.Type = CommandUnknown
		return cmd
	}

	head := strings.ToLower(strings.TrimPrefix(tokens[0], "/"))
	if t, ok := knownCommands[head]; ok {
		cmd.Type = t
	} else {
		cmd.Type = CommandUnknown
	}

	if len(tokens) > 1 {
		cmd.Args = tokens[1:]
	}

	return cmd
}
