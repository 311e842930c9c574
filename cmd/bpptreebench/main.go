// Command bpptreebench sweeps the B++ tree and its comparison baselines
// (classic B+ tree, B-tree, LSM tree, pebble) across a range of
// configurations and workloads, writing results to CSV, a PNG chart, and
// the console.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/google/uuid"

	"kvindex/bpptree/index"
	bplus "kvindex/bpptree/index/bplustree"
	"kvindex/bpptree/index/bpptree"
	"kvindex/bpptree/index/btree"
	"kvindex/bpptree/index/lsmtree"
	"kvindex/bpptree/index/pebbleindex"
	"kvindex/bpptree/report"
	"kvindex/bpptree/workload"
)

func main() {
	var (
		outCSV   = flag.String("csv", "bpptreebench_results.csv", "path to write CSV results")
		outChart = flag.String("chart", "bpptreebench_latency.png", "path to write the latency comparison chart")
		scale    = flag.Int("scale", 1_000_000, "number of keys to load before running workloads")
		quiet    = flag.Bool("quiet", false, "suppress the live console report")
	)
	flag.Parse()

	runID := uuid.New().String()
	log.SetPrefix(fmt.Sprintf("[bpptreebench %s] ", runID[:8]))

	f, err := os.Create(*outCSV)
	if err != nil {
		log.Fatalf("creating csv output: %v", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Write([]string{"Structure", "Config", "Operation", "LatencyNs", "AllocMB", "HeapObjects"})
	defer w.Flush()

	console := report.NewConsole(os.Stdout)
	recorder := report.NewRecorder()
	chartSeries := map[string][]report.Sample{}

	if !*quiet {
		console.PrintHeader("bpptreebench run " + runID)
	}

	run := func(name string, config int, idx index.Index[int64, string]) {
		result := runSuite(w, console, recorder, *quiet, name, config, idx, *scale)
		chartSeries[name] = append(chartSeries[name], report.Sample{
			Config:    float64(config),
			LatencyNs: float64(result),
		})
	}

	// 1. Sweep the B++ tree's own configuration knobs.
	for _, order := range []int{8, 32, 128} {
		cfg := bpptree.Config{Order: order, InitialLeafCapacity: 64}
		tr, err := bpptree.New[int64, string](cfg)
		if err != nil {
			log.Fatalf("constructing bpptree with order %d: %v", order, err)
		}
		run("BPPTree", order, tr)
	}

	// 2. Sweep classic B-Tree & B+Tree degrees.
	for _, degree := range []int{8, 32, 128} {
		run("BTree", degree, btree.NewBTree[int64, string](degree))
		run("BPlusTree", degree, bplus.NewBPlusTree[int64, string](degree))
	}

	// 3. Sweep LSM flush thresholds.
	for _, threshold := range []int{1000, 10000} {
		run("LSMTree", threshold, lsmtree.NewLSM[string](threshold))
	}

	// 4. Pebble baseline, one configuration (pebble manages its own tuning).
	if pb, err := pebbleindex.Open[int64, string](); err != nil {
		log.Printf("skipping pebble baseline: %v", err)
	} else {
		run("Pebble", 0, pb)
		pb.Close()
	}

	if err := report.SaveLatencyChart(*outChart, "Insert latency by configuration", chartSeries); err != nil {
		log.Printf("writing chart: %v", err)
	}

	fmt.Println("Benchmark complete:", *outCSV, *outChart)
}

// runSuite loads n keys, records the steady-state footprint, then runs the
// three mixed workloads. It returns the pure-insert latency so callers can
// feed the sweep into a chart series.
func runSuite(w *csv.Writer, console *report.Console, recorder *report.Recorder, quiet bool, name string, config int, idx index.Index[int64, string], n int) int64 {
	confStr := strconv.Itoa(config)
	if !quiet {
		fmt.Printf("Testing %s (config=%d)\n", name, config)
	}

	start := time.Now()
	for k := 0; k < n; k++ {
		idx.Insert(int64(k), "v")
	}
	insertLatency := time.Since(start).Nanoseconds() / int64(n)
	recorder.Observe(name, confStr, "Insert", insertLatency)

	mem := detailedMem()
	emit(w, console, recorder, quiet, report.Row{
		Structure: name, Config: confStr, Operation: "Footprint_SteadyState",
		LatencyNs: insertLatency, AllocMB: mem.AllocMB, Objects: mem.HeapObjects,
	})

	start = time.Now()
	workload.Execute(idx, workload.OLTP, n/2, n, "v")
	emit(w, console, recorder, quiet, report.Row{
		Structure: name, Config: confStr, Operation: "Workload_OLTP",
		LatencyNs: time.Since(start).Nanoseconds() / int64(n/2), AllocMB: detailedMem().AllocMB,
	})

	start = time.Now()
	workload.Execute(idx, workload.OLAP, n/2, n, "v")
	emit(w, console, recorder, quiet, report.Row{
		Structure: name, Config: confStr, Operation: "Workload_OLAP",
		LatencyNs: time.Since(start).Nanoseconds() / int64(n/2), AllocMB: detailedMem().AllocMB,
	})

	start = time.Now()
	workload.Execute(idx, workload.Reporting, 100, n, "v")
	emit(w, console, recorder, quiet, report.Row{
		Structure: name, Config: confStr, Operation: "Workload_Range",
		LatencyNs: time.Since(start).Nanoseconds() / 100, AllocMB: detailedMem().AllocMB,
	})

	return insertLatency
}

func emit(w *csv.Writer, console *report.Console, recorder *report.Recorder, quiet bool, row report.Row) {
	w.Write([]string{
		row.Structure, row.Config, row.Operation,
		strconv.FormatInt(row.LatencyNs, 10),
		strconv.FormatUint(row.AllocMB, 10),
		strconv.FormatUint(row.Objects, 10),
	})
	recorder.Observe(row.Structure, row.Config, row.Operation, row.LatencyNs)
	if !quiet {
		console.PrintRow(row)
	}
}

type memoryStats struct {
	AllocMB      uint64
	TotalAllocMB uint64
	HeapObjects  uint64
}

// detailedMem forces a GC before sampling so a benchmark measures live
// data rather than garbage awaiting collection.
func detailedMem() memoryStats {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	return memoryStats{
		AllocMB:      m.Alloc / 1024 / 1024,
		TotalAllocMB: m.TotalAlloc / 1024 / 1024,
		HeapObjects:  m.HeapObjects,
	}
}
