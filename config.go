package postcast

import "github.com/goliatone/go-postcast/internal/runtimeconfig"

var (
	ErrConfigNotFound              = runtimeconfig.ErrConfigNotFound
	ErrConfigUnreadable            = runtimeconfig.ErrConfigUnreadable
	ErrConfigInvalid               = runtimeconfig.ErrConfigInvalid
	ErrConfigUnsupported           = runtimeconfig.ErrConfigUnsupported
	ErrCredentialsRequired         = runtimeconfig.ErrCredentialsRequired
	ErrBackendAPIKeyRequired       = runtimeconfig.ErrBackendAPIKeyRequired
	ErrBackendProviderUnknown      = runtimeconfig.ErrBackendProviderUnknown
	ErrPublishTimeInvalid          = runtimeconfig.ErrPublishTimeInvalid
	ErrPublishTimezoneInvalid      = runtimeconfig.ErrPublishTimezoneInvalid
	ErrLoggingProviderUnknown      = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid         = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid        = runtimeconfig.ErrLoggingFormatInvalid
	ErrCommandsCronRequiresPublish = runtimeconfig.ErrCommandsCronRequiresPublish
)

type (
	Config            = runtimeconfig.Config
	CredentialsConfig = runtimeconfig.CredentialsConfig
	BackendConfig     = runtimeconfig.BackendConfig
	ContentConfig     = runtimeconfig.ContentConfig
	CalendarConfig    = runtimeconfig.CalendarConfig
	PublishConfig     = runtimeconfig.PublishConfig
	SelectorsConfig   = runtimeconfig.SelectorsConfig
	LoggingConfig     = runtimeconfig.LoggingConfig
	CommandsConfig    = runtimeconfig.CommandsConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a JSON or YAML config file and applies environment
// overrides for secrets.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}
