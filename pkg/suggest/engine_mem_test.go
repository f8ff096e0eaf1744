//go:build test

package suggest

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"sync"
	"testing"
	"time"

	"github.com/bastiangx/wordassist/pkg/store"
	"github.com/charmbracelet/log"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

var typingPatterns = [][]string{
	{"t", "th", "teh", "the "},
	{"h", "ha", "hap", "happ", "happy "},
	{"T", "Th", "The", "The ", "The c", "The ca", "The cat "},
	{"s", "sa", "saw", "saw ", "saw t", "saw th", "saw the "},
}

var typedText = []string{
	"The cat sat on the mat.",
	"The dog saw the cat. The cat ran.",
	"So happy to see the dog again!",
}

func TestMemoryLeakTyping(t *testing.T) {
	iterations := []int{100, 500, 1000}

	for _, iterCount := range iterations {
		t.Run(fmt.Sprintf("iterations_%d", iterCount), func(t *testing.T) {
			runTypingMemoryTest(t, iterCount)
		})
	}
}

func TestMemoryLeakConcurrent(t *testing.T) {
	configs := []struct {
		workers             int
		iterationsPerWorker int
	}{
		{workers: 1, iterationsPerWorker: 400},
		{workers: 4, iterationsPerWorker: 100},
		{workers: 8, iterationsPerWorker: 50},
	}

	for _, config := range configs {
		t.Run(fmt.Sprintf("workers_%d_iter_%d", config.workers, config.iterationsPerWorker), func(t *testing.T) {
			runConcurrentMemoryTest(t, config.workers, config.iterationsPerWorker)
		})
	}
}

// typeLine sends each prefix the way an editor would on every keystroke.
func typeLine(e *Engine, prefixes []string) {
	for _, prefix := range prefixes {
		col := len([]rune(prefix))
		_ = e.WordSuggestions(prefix, col)
		_ = e.SentenceSuggestions(prefix, col)
	}
}

func runTypingMemoryTest(t *testing.T, iterations int) {
	st, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	var baseline runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&baseline)
	baselineGoroutines := runtime.NumGoroutine()

	e, err := New(Options{DictPath: smallDict(t), Store: st, SaveDebounce: 10 * time.Millisecond})
	if err != nil {
		t.Fatalf("engine initialization failed: %v", err)
	}

	totalOps := 0
	for i := 0; i < iterations; i++ {
		for _, pattern := range typingPatterns {
			typeLine(e, pattern)
			totalOps += len(pattern)
		}
		e.CommitTextChange(typedText[i%len(typedText)])
	}
	if err := e.Close(); err != nil {
		t.Errorf("close: %v", err)
	}

	var final runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&final)
	finalGoroutines := runtime.NumGoroutine()

	memDelta := int64(final.HeapAlloc) - int64(baseline.HeapAlloc)
	goroutineDelta := finalGoroutines - baselineGoroutines
	memPerOp := float64(memDelta) / float64(totalOps)

	t.Logf("iterations=%d ops=%d mem_delta=%d bytes mem_per_op=%.2f goroutine_delta=%d",
		iterations, totalOps, memDelta, memPerOp, goroutineDelta)

	if memPerOp > 1000 {
		t.Errorf("excessive memory retained per operation: %.2f bytes", memPerOp)
	}
	if goroutineDelta > 1 {
		t.Errorf("goroutine leak detected: %d goroutines leaked", goroutineDelta)
	}
}

func runConcurrentMemoryTest(t *testing.T, workers, iterationsPerWorker int) {
	profPath := filepath.Join(t.TempDir(), "concurrent_memory.prof")
	memFile, err := os.Create(profPath)
	if err != nil {
		t.Fatalf("profile file creation failed: %v", err)
	}
	defer memFile.Close()

	e, err := New(Options{DictPath: smallDict(t), Capacity: 100})
	if err != nil {
		t.Fatalf("engine initialization failed: %v", err)
	}
	defer e.Close()

	var baseline runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&baseline)
	baselineGoroutines := runtime.NumGoroutine()

	var wg sync.WaitGroup
	for worker := 0; worker < workers; worker++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for iter := 0; iter < iterationsPerWorker; iter++ {
				typeLine(e, typingPatterns[(worker+iter)%len(typingPatterns)])
				if iter%10 == 0 {
					e.CommitTextChange(typedText[worker%len(typedText)])
				}
			}
		}(worker)
	}
	wg.Wait()

	var final runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&final)
	goroutineDelta := runtime.NumGoroutine() - baselineGoroutines

	t.Logf("workers=%d iter_per_worker=%d heap_delta=%d bytes goroutine_delta=%d",
		workers, iterationsPerWorker, int64(final.HeapAlloc)-int64(baseline.HeapAlloc), goroutineDelta)

	if err := pprof.WriteHeapProfile(memFile); err != nil {
		t.Errorf("heap profile write failed: %v", err)
	}
	if goroutineDelta > 1 {
		t.Errorf("goroutine leak detected: %d goroutines leaked", goroutineDelta)
	}
	if got := e.Stats()["sentences"]; got > 100 {
		t.Errorf("corpus grew past capacity: %d sentences", got)
	}
}
