package common

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Benchmarker struct {
	start    time.Time
	label    string
	out      io.Writer
	observer prometheus.Observer
}

// RuntimeBenchmark times one call of functionUnderTest.
func RuntimeBenchmark[T any](out io.Writer, label string, observer prometheus.Observer, functionUnderTest func() (T, error)) (T, error) {
	benchmarker := NewBenchmarker(out, label, observer)
	defer benchmarker.Close()
	return functionUnderTest()
}

// NewBenchmarker times a stage until Close. observer may be nil; when set the
// elapsed seconds are recorded there too.
func NewBenchmarker(out io.Writer, label string, observer prometheus.Observer) *Benchmarker {
	return &Benchmarker{start: time.Now(), label: label, out: out, observer: observer}
}

func (benchmarker *Benchmarker) Close() {
	elapsed := time.Since(benchmarker.start)
	if benchmarker.observer != nil {
		benchmarker.observer.Observe(elapsed.Seconds())
	}
	fmt.Fprintf(benchmarker.out, "[BENCH] %s took %s\n", benchmarker.label, elapsed)
}
