package schema

// Strategy types as they appear in the schema file.
const (
	StrategyAskUser        = "ask_user"
	StrategyTryHarder      = "try_harder"
	StrategyUseDefaults    = "use_defaults"
	StrategyIgnoreArgument = "ignore_argument"
)

const (
	LogPrefixLoadFile = "internal.schema.LoadFile"
)
