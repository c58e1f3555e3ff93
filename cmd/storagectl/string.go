package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/c00t/storage-poc/collections/strbuf"
	"github.com/c00t/storage-poc/storage"
	"github.com/c00t/storage-poc/storage/alloc"
)

func init() {
	cmd := newStringCmd()
	cmd.Flags().String("storage", "heap", "Storage: inline, heap, bump or mmap")
	cmd.Flags().Int("inline-cap", 32, "Inline capacity in bytes: 8, 16, 32, 64 or 256")
	cmd.Flags().Int("arena-size", 4096, "Bump arena size in bytes")
	cmd.Flags().Bool("metrics", false, "Print allocator metrics after release")
	mustBind(cmd, cfgStringStorage, "storage")
	mustBind(cmd, cfgStringInlineCap, "inline-cap")
	mustBind(cmd, cfgStringArenaSize, "arena-size")
	mustBind(cmd, cfgStringMetrics, "metrics")
	rootCmd.AddCommand(cmd)
}

func mustBind(cmd *cobra.Command, key, flag string) {
	if err := cfg.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func newStringCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "string [text...]",
		Short: "Build a string buffer and report each push",
		Long: `The string command pushes each argument onto a string buffer and prints
length, capacity, allocations and deallocations after every push and after
the buffer is released.

Exceeding an inline capacity is a fatal capacity error.

Example:
  storagectl string x 你好 啊 啊
  storagectl string --storage inline --inline-cap 8 hello world
  storagectl string --storage bump --arena-size 64 --json a b c`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runString(args)
		},
	}
	return cmd
}

// StringStep is the buffer state after one push, or after release when Push
// is empty.
type StringStep struct {
	Push          string `json:"push,omitempty"`
	Len           int    `json:"len"`
	Cap           int    `json:"cap"`
	Allocations   int    `json:"allocations"`
	Deallocations int    `json:"deallocations"`
}

// StringReport is the outcome of the string command.
type StringReport struct {
	Storage string             `json:"storage"`
	Steps   []StringStep       `json:"steps"`
	Content string             `json:"content"`
	Release StringStep         `json:"release"`
	Metrics map[string]float64 `json:"metrics,omitempty"`
}

func runString(args []string) error {
	kind := cfg.GetString(cfgStringStorage)
	printVerbose("Building string over %s storage\n", kind)

	var (
		rep StringReport
		err error
		reg *prometheus.Registry
	)
	switch kind {
	case "inline":
		rep, err = buildInlineString(cfg.GetInt(cfgStringInlineCap), args)
	case "heap", "bump", "mmap":
		var upstream alloc.Allocator[byte]
		switch kind {
		case "heap":
			upstream = alloc.Heap[byte]{}
		case "bump":
			upstream = alloc.NewBump[byte](cfg.GetInt(cfgStringArenaSize))
		default:
			upstream = alloc.Mmap{}
		}
		if cfg.GetBool(cfgStringMetrics) {
			reg = prometheus.NewRegistry()
			m, merr := alloc.NewMetrics(upstream, reg, alloc.MetricsOpts{Namespace: "storagectl", Subsystem: kind})
			if merr != nil {
				return fmt.Errorf("register metrics: %w", merr)
			}
			upstream = m
		}
		spy := alloc.NewCounting(upstream)
		rep, err = buildString(storage.NewAllocated[byte](spy), spy, args)
	default:
		return fmt.Errorf("unknown storage %q (want inline, heap, bump or mmap)", kind)
	}
	if err != nil {
		return err
	}
	rep.Storage = kind

	if reg != nil {
		if rep.Metrics, err = gatherMetrics(reg); err != nil {
			return fmt.Errorf("gather metrics: %w", err)
		}
	}

	if jsonOut {
		return printJSON(rep)
	}
	printStringReport(rep)
	return nil
}

func buildInlineString(capacity int, args []string) (StringReport, error) {
	switch capacity {
	case 8:
		return buildString(storage.Inline[byte, [8]byte]{}, nil, args)
	case 16:
		return buildString(storage.Inline[byte, [16]byte]{}, nil, args)
	case 32:
		return buildString(storage.Inline[byte, [32]byte]{}, nil, args)
	case 64:
		return buildString(storage.Inline[byte, [64]byte]{}, nil, args)
	case 256:
		return buildString(storage.Inline[byte, [256]byte]{}, nil, args)
	default:
		return StringReport{}, fmt.Errorf("unsupported inline capacity %d (want 8, 16, 32, 64 or 256)", capacity)
	}
}

// buildString pushes texts onto a string over s. spy may be nil for storages
// that never allocate. A capacity violation is returned as an error.
func buildString[S any, PS storage.RangePtr[byte, S]](s S, spy *alloc.Counting[byte], texts []string) (rep StringReport, err error) {
	str := strbuf.New[S, PS](s)
	defer func() {
		if r := recover(); r != nil {
			perr, ok := r.(error)
			if !ok || !errors.Is(perr, storage.ErrCapacityExceeded) {
				panic(r)
			}
			str.Release()
			err = fmt.Errorf("fatal: %w", perr)
		}
	}()

	step := func(push string) StringStep {
		st := StringStep{Push: push, Len: str.Len(), Cap: str.Cap()}
		if spy != nil {
			st.Allocations = spy.Allocations()
			st.Deallocations = spy.Deallocations()
		}
		return st
	}

	for _, text := range texts {
		if err := str.PushString(text); err != nil {
			str.Release()
			return rep, fmt.Errorf("push %q: %w", text, err)
		}
		rep.Steps = append(rep.Steps, step(text))
	}
	rep.Content = str.Clone()

	str.Release()
	rep.Release = step("")
	return rep, nil
}

// gatherMetrics flattens counters and gauges by metric name.
func gatherMetrics(g prometheus.Gatherer) (map[string]float64, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(families))
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				out[mf.GetName()] += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				out[mf.GetName()] += m.GetGauge().GetValue()
			}
		}
	}
	return out, nil
}

func printStringReport(rep StringReport) {
	printInfo("Storage: %s\n\n", rep.Storage)
	for _, st := range rep.Steps {
		printInfo("push %-12q len %-4d cap %-8s allocs %-3d deallocs %d\n",
			st.Push, st.Len, humanize.IBytes(uint64(st.Cap)), st.Allocations, st.Deallocations)
	}
	st := rep.Release
	printInfo("%-17s len %-4d cap %-8s allocs %-3d deallocs %d\n",
		"release", st.Len, humanize.IBytes(uint64(st.Cap)), st.Allocations, st.Deallocations)
	printInfo("\nContent: %q\n", rep.Content)

	if len(rep.Metrics) > 0 {
		names := make([]string, 0, len(rep.Metrics))
		for name := range rep.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
		printInfo("\nMetrics:\n")
		for _, name := range names {
			printInfo("  %-45s %s\n", name, humanize.Commaf(rep.Metrics[name]))
		}
	}
}
