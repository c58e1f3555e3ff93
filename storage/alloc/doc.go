// Package alloc provides the allocator capability consumed by allocator-backed
// storages, plus the allocators and decorators used by the containers, tests and
// the storagectl tool.
//
// # Allocator Interface
//
// The core abstraction is the generic Allocator interface:
//
//   - Allocate(n): return a zeroed block of exactly n elements
//   - Deallocate(mem): return a block previously obtained from Allocate
//
// Two optional capabilities are discovered with a type assertion:
//
//   - InPlaceGrower: extend a block without moving it
//   - Bounded: report the most elements the allocator can ever hand out
//
// # Implementations
//
// Heap: blocks come from the Go heap.
//
// Bump: a single pre-sized chunk handed out front to back. Only the most
// recent block can be freed or grown in place.
//
// Mmap: byte blocks backed by anonymous memory mappings. Blocks grow in
// place inside their page slack and, on Linux, through mremap.
//
// # Decorators
//
//   - Counting: counts allocation, deallocation and in-place growth events
//   - Metrics: publishes the same events as Prometheus collectors
//   - Limit: fails once the elements in use would exceed a budget
//
// # Usage Example
//
//	spy := alloc.NewCounting[byte](alloc.Heap[byte]{})
//	s := strbuf.New(storage.NewAllocated[byte](spy))
//	defer s.Release()
//
//	_ = s.PushString("x")
//	fmt.Println(spy.Allocations()) // 1
//
// # Thread Safety
//
// Heap, Mmap and the decorators are safe for concurrent use. Bump is not;
// callers must synchronize access externally.
package alloc
