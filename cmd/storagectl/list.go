package main

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/c00t/storage-poc/collections/list"
	"github.com/c00t/storage-poc/storage"
	"github.com/c00t/storage-poc/storage/alloc"
)

type slot = storage.Slot[list.Node[int]]

func init() {
	cmd := newListCmd()
	cmd.Flags().String("storage", "paged", "Node storage: inline or paged")
	cmd.Flags().Int("inline-cap", 64, "Inline node slots: 16, 64 or 256")
	cmd.Flags().Int("page-size", 64, "Slots per page for paged storage")
	cmd.Flags().IntP("count", "n", 10, "Number of integers to push")
	cmd.Flags().IntP("remove", "k", 0, "Remove every k-th node (0 removes none)")
	mustBind(cmd, cfgListStorage, "storage")
	mustBind(cmd, cfgListInlineCap, "inline-cap")
	mustBind(cmd, cfgListPageSize, "page-size")
	mustBind(cmd, cfgListCount, "count")
	mustBind(cmd, cfgListRemove, "remove")
	rootCmd.AddCommand(cmd)
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Build a linked list and report node storage usage",
		Long: `The list command pushes 0..count-1 onto a linked list, removes every k-th
node by handle, and prints the list in both directions together with node
storage statistics.

Example:
  storagectl list --count 100 --remove 3
  storagectl list --storage paged --page-size 8 --count 20 --json
  storagectl list --storage inline --inline-cap 16 --count 16`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList()
		},
	}
	return cmd
}

// ListReport is the outcome of the list command.
type ListReport struct {
	Storage       string `json:"storage"`
	Count         int    `json:"count"`
	Removed       []int  `json:"removed"`
	Forward       []int  `json:"forward"`
	Backward      []int  `json:"backward"`
	Len           int    `json:"len"`
	Cap           int    `json:"cap"`
	Pages         int    `json:"pages,omitempty"`
	Occupancy     []int  `json:"occupancy,omitempty"`
	Allocations   int    `json:"allocations"`
	Deallocations int    `json:"deallocations"`
}

func runList() error {
	kind := cfg.GetString(cfgListStorage)
	count := cfg.GetInt(cfgListCount)
	every := cfg.GetInt(cfgListRemove)
	if count < 0 {
		return fmt.Errorf("count must not be negative: %d", count)
	}
	if every < 0 {
		return fmt.Errorf("remove must not be negative: %d", every)
	}
	printVerbose("Building list of %d over %s storage\n", count, kind)

	var (
		rep ListReport
		err error
	)
	switch kind {
	case "inline":
		rep, err = buildInlineList(cfg.GetInt(cfgListInlineCap), count, every)
	case "paged":
		spy := alloc.NewCounting[slot](alloc.Heap[slot]{})
		rep, err = buildList(storage.NewPagedNodes[list.Node[int]](spy, cfg.GetInt(cfgListPageSize)), count, every, func(r *ListReport) {
			r.Allocations = spy.Allocations()
			r.Deallocations = spy.Deallocations()
		})
	default:
		return fmt.Errorf("unknown storage %q (want inline or paged)", kind)
	}
	if err != nil {
		return err
	}
	rep.Storage = kind

	if jsonOut {
		return printJSON(rep)
	}
	printListReport(rep)
	return nil
}

func buildInlineList(capacity, count, every int) (ListReport, error) {
	switch capacity {
	case 16:
		return buildList(storage.InlineNodes[list.Node[int], [16]slot]{}, count, every, nil)
	case 64:
		return buildList(storage.InlineNodes[list.Node[int], [64]slot]{}, count, every, nil)
	case 256:
		return buildList(storage.InlineNodes[list.Node[int], [256]slot]{}, count, every, nil)
	default:
		return ListReport{}, fmt.Errorf("unsupported inline capacity %d (want 16, 64 or 256)", capacity)
	}
}

// nodeStats is implemented by node storages that report per-page usage.
type nodeStats interface {
	Pages() int
	PageOccupancy() []int
}

// buildList pushes 0..count-1, removes every k-th node and records the result
// before the list is released. counts, if not nil, fills in allocator counts
// after release.
func buildList[S any, PS storage.NodePtr[list.Node[int], S]](s S, count, every int, counts func(*ListReport)) (rep ListReport, err error) {
	l := list.New[int, S, PS](s)
	defer func() {
		if r := recover(); r != nil {
			perr, ok := r.(error)
			if !ok || !errors.Is(perr, storage.ErrCapacityExceeded) {
				panic(r)
			}
			l.Release()
			err = fmt.Errorf("fatal: %w", perr)
		}
	}()

	rep.Count = count
	for i := range count {
		if _, err := l.PushBack(i); err != nil {
			l.Release()
			return rep, fmt.Errorf("push %d: %w", i, err)
		}
	}

	if every > 0 {
		i := 0
		for h := range l.All() {
			i++
			if i%every != 0 {
				continue
			}
			v, err := l.Remove(h)
			if err != nil {
				l.Release()
				return rep, fmt.Errorf("remove handle %d: %w", h, err)
			}
			rep.Removed = append(rep.Removed, v)
		}
	}

	for _, v := range l.All() {
		rep.Forward = append(rep.Forward, v)
	}
	for _, v := range l.Backward() {
		rep.Backward = append(rep.Backward, v)
	}
	rep.Len = l.Len()
	rep.Cap = l.Storage().Cap()
	if st, ok := any(l.Storage()).(nodeStats); ok {
		rep.Pages = st.Pages()
		rep.Occupancy = st.PageOccupancy()
	}

	l.Release()
	if counts != nil {
		counts(&rep)
	}
	return rep, nil
}

func printListReport(rep ListReport) {
	printInfo("Storage: %s\n", rep.Storage)
	printInfo("Pushed:  %s\n", humanize.Comma(int64(rep.Count)))
	printInfo("Removed: %v\n\n", rep.Removed)
	printInfo("Forward:  %v\n", rep.Forward)
	printInfo("Backward: %v\n\n", rep.Backward)
	printInfo("Len:      %s of %s slots\n", humanize.Comma(int64(rep.Len)), humanize.Comma(int64(rep.Cap)))
	if rep.Pages > 0 {
		printInfo("Pages:    %d %v\n", rep.Pages, rep.Occupancy)
	}
	printInfo("Allocs:   %d\n", rep.Allocations)
	printInfo("Deallocs: %d\n", rep.Deallocations)
}
