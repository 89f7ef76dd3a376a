package domain

type CommandType string

const (
	CommandProviders CommandType = "providers"
	CommandProvider  CommandType = "provider"
	CommandRequest   CommandType = "request"
	CommandReview    CommandType = "review"
	CommandLogin     CommandType = "login"
	CommandDashboard CommandType = "dashboard"
	CommandLocale    CommandType = "lang"
	CommandCatalog   CommandType = "catalog"
	CommandHome      CommandType = "home"
	CommandHelp      CommandType = "help"
	CommandUnknown   CommandType = "unknown"
)

func (c CommandType) String() string {
	return string(c)
}

func (c CommandType) IsValid() bool {
	switch c {
	case CommandProviders, CommandProvider, CommandRequest, CommandReview,
		CommandLogin, CommandDashboard, CommandLocale, CommandCatalog,
		CommandHome, CommandHelp, CommandUnknown:
		return true
	default:
		return false
	}
}
