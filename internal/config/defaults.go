package config

import "testsearch/internal/domain"

const (
	// DefaultStrategy is the default merge strategy
	DefaultStrategy = domain.StrategyOrdered
	// DefaultPool is the default worker pool kind
	DefaultPool = domain.PoolThreads
	// DefaultWorkers is the default pool size; 0 means one worker per CPU
	DefaultWorkers = 0
	// DefaultSelector is the default interactive selector
	DefaultSelector = SelectorFzf
	// DefaultFinder is the default file finder
	DefaultFinder = FinderAuto
	// DefaultFdCommand is the fd executable looked up by the fd finder
	DefaultFdCommand = "fd"
	// DefaultPattern matches pytest's default test file names
	DefaultPattern = "test_*.py"
	// DefaultHistoryLimit is how many selections are remembered per directory
	DefaultHistoryLimit = 50

	// ConfigName is the base name of the config file (testsearch.yaml)
	ConfigName = "testsearch"
	// EnvPrefix prefixes every environment variable (TESTSEARCH_WORKERS, ...)
	EnvPrefix = "TESTSEARCH"
)

// Selector names
const (
	SelectorFzf     = "fzf"
	SelectorBuiltin = "builtin"
	SelectorNone    = "none"
)

// Finder names
const (
	FinderAuto = "auto"
	FinderFd   = "fd"
	FinderWalk = "walk"
)

// DefaultPathsToIgnore are the default directories to ignore when scanning for tests
var DefaultPathsToIgnore = []string{
	"__pycache__",
	"node_modules",
	"venv",
	"site-packages",
	"build",
	"dist",
}
