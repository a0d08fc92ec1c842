package constants

const (
	Version        = `0.1.0`
	ConfigFile     = `settings`
	ConfigFileType = `yaml`
	ConfigDir      = `/.quickswitch/`
	SessionDir     = `session`
	LogFile        = `quickswitch.log`

	// SearchLimit caps the vault search column.
	SearchLimit = 50
	// RecentlyClosedLimit bounds the persisted recently-closed ring.
	RecentlyClosedLimit = 5

	DefaultDailyFormat = `YYYY-MM-DD`
)
