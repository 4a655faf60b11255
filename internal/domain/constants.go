package domain

// Partitioning and generation thresholds.
const (
	// MinGroupSize is the smallest group that can form a cycle.
	MinGroupSize = 2
	// GlobalModeGroupSize forces every unassigned account into one pool.
	GlobalModeGroupSize = 51
	MinCycleDays        = 1

	// MinCirculationVolume is the largest volume that is still skipped.
	MinCirculationVolume = 10
	// SmallVolumeThreshold splits volumes at or below it into SmallVolumeSplits.
	SmallVolumeThreshold = 1000
	SmallVolumeSplits    = 3
	MinLargeVolumeSplits = 6
	MaxLargeVolumeSplits = 9

	VolumeRatioMin  = 0.7
	VolumeRatioSpan = 0.2
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"

	// ScopeAll selects every active account (or every month) in an audit.
	ScopeAll = "all"
	// SystemScopeID identifies the system-wide audit total.
	SystemScopeID = "SYSTEM"

	UnassignedFilter = "unassigned"

	HistoryLimit = 50

	SeedAccountIDBase   = 1000
	SeedAccountBalance  = 5_000_000
	SeedLimitRatioMin   = 0.8
	SeedLimitRatioSpan  = 0.4
	DefaultAccountCount = 30
	DefaultGroupSize    = 5
	DefaultCycleDays    = 30
	DefaultGlobalLimit  = 1_000_000
)

// Run triggers.
const (
	TriggerManual = "manual"
	TriggerAuto   = "auto"
	TriggerReset  = "reset"
)
