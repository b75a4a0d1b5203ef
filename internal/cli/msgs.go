package cli

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort = "Manage the resource pack load order of a game client"
	MsgRootLong  = `packorder lists, enables, disables and reorders the resource packs in a
game's packs directory and writes the enabled order back to the game's
options file.

Enabled packs are shown highest precedence first: when two packs define the
same asset, the one nearer the top wins.`
	MsgListShort       = "List enabled and disabled packs"
	MsgEnableShort     = "Enable packs at the highest precedence"
	MsgDisableShort    = "Disable packs"
	MsgUpShort         = "Raise an enabled pack by one place"
	MsgDownShort       = "Lower an enabled pack by one place"
	MsgDeleteShort     = "Delete packs from disk"
	MsgImportShort     = "Validate packs and move them into the packs directory"
	MsgSaveShort       = "Rewrite the saved pack order"
	MsgWatchShort      = "Rescan whenever the packs directory changes"
	MsgConfigShort     = "Print the effective configuration"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgEnabled      = "Enabled %s"
	MsgDisabled     = "Disabled %s"
	MsgMovedUp      = "Moved %s up"
	MsgMovedDown    = "Moved %s down"
	MsgDeleted      = "Deleted %s"
	MsgImported     = "Imported %s (disabled)"
	MsgWouldImport  = "Would import %s as %s"
	MsgImportFailed = "%d of %d packs could not be imported"
	MsgWouldDelete  = "Would delete %s"
	MsgSaved        = "Saved order of %d enabled packs to %s"
	MsgDryRunNotice = "DRY RUN MODE - No changes were made"
	MsgRescanned    = "Rescanned: %d enabled, %d disabled"
	MsgRescanFailed = "Rescan failed: %v"
	MsgWatching     = "Watching %s (Ctrl-C to stop)"
	MsgVersionLine  = "packorder version %s\n"
	MsgCommitLine   = "  commit: %s\n"
	MsgBuiltLine    = "  built:  %s\n"

	// Flag descriptions
	MsgFlagVerbose    = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun     = "Preview changes without executing them"
	MsgFlagConfig     = "Config file (default $XDG_CONFIG_HOME/packorder/config.toml)"
	MsgFlagOutput     = "Output format: auto, term, text, yaml or json"
	MsgFlagConfigPath = "Print the user config file location instead"
)
