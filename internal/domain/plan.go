package domain

import (
	"fmt"
	"runtime"
	"strings"
)

// Strategy selects how per-file results are merged into the output stream
type Strategy string

const (
	// StrategySerial visits files one by one in input order
	StrategySerial Strategy = "serial"
	// StrategyOrdered visits files concurrently but emits them in input order
	StrategyOrdered Strategy = "ordered-parallel"
	// StrategyCompletion emits each file's results as soon as it finishes
	StrategyCompletion Strategy = "completion-order-parallel"
)

// PoolKind selects the isolation mechanism of the worker pool
type PoolKind string

const (
	PoolThreads   PoolKind = "threads"
	PoolProcesses PoolKind = "processes"
)

var strategyAliases = map[string]Strategy{
	"serial":                    StrategySerial,
	"map":                       StrategyOrdered,
	"ordered":                   StrategyOrdered,
	"ordered-parallel":          StrategyOrdered,
	"apply":                     StrategyCompletion,
	"completion":                StrategyCompletion,
	"completion-order-parallel": StrategyCompletion,
}

// ParseStrategy accepts both the canonical names and the short map/apply aliases
func ParseStrategy(s string) (Strategy, error) {
	strategy, ok := strategyAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unknown strategy %q (expected serial, map or apply)", s)
	}
	return strategy, nil
}

// ParsePoolKind validates a pool kind name
func ParsePoolKind(s string) (PoolKind, error) {
	switch PoolKind(strings.ToLower(strings.TrimSpace(s))) {
	case PoolThreads:
		return PoolThreads, nil
	case PoolProcesses:
		return PoolProcesses, nil
	default:
		return "", fmt.Errorf("unknown pool kind %q (expected threads or processes)", s)
	}
}

// ExecutionPlan is the pure configuration of one extraction run
type ExecutionPlan struct {
	Strategy Strategy
	Pool     PoolKind
	Workers  int // <= 0 means one worker per CPU
}

// WorkerCount returns the effective pool size for the plan
func (p ExecutionPlan) WorkerCount() int {
	if p.Strategy == StrategySerial {
		return 1
	}
	if p.Workers > 0 {
		return p.Workers
	}
	return runtime.NumCPU()
}

func (p ExecutionPlan) String() string {
	return fmt.Sprintf("%s/%s(%d)", p.Strategy, p.Pool, p.WorkerCount())
}
