package cli

import "testsearch/internal/config"

// Flags holds command-line flags
type Flags struct {
	Strategy         string
	Pool             string
	Workers          int
	NoFuzzySelection bool
	Verbose          int
	Last             bool
	Filter           string
	Selector         string
	All              bool
	Output           string
	ConfigFile       string
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		Strategy:         f.Strategy,
		Pool:             f.Pool,
		Workers:          f.Workers,
		NoFuzzySelection: f.NoFuzzySelection,
		Verbose:          f.Verbose,
		Last:             f.Last,
		Filter:           f.Filter,
		Selector:         f.Selector,
		All:              f.All,
		Output:           f.Output,
		ConfigFile:       f.ConfigFile,
	}
}
