// Package main runs the mockrr benchmarks and outputs results to JSON/Markdown.
// Run with: go run benchmarks/run_benchmarks.go
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// BenchmarkResults holds all benchmark data
type BenchmarkResults struct {
	Timestamp   string           `json:"timestamp"`
	Environment Environment      `json:"environment"`
	Suites      map[string]Suite `json:"suites"`
	Summary     Summary          `json:"summary"`
}

type Environment struct {
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	CPU       string `json:"cpu"`
	NumCPU    int    `json:"num_cpu"`
	GoVersion string `json:"go_version"`
}

type Suite struct {
	Benchmarks []Benchmark `json:"benchmarks"`
}

type Benchmark struct {
	Name        string  `json:"name"`
	NsPerOp     float64 `json:"ns_per_op"`
	OpsPerSec   float64 `json:"ops_per_sec"`
	BytesPerOp  int64   `json:"bytes_per_op"`
	AllocsPerOp int64   `json:"allocs_per_op"`
}

// Summary picks the headline numbers out of the suites.
type Summary struct {
	OnceHitMemoryNs  float64 `json:"once_hit_memory_ns"`
	OnceHitFileNs    float64 `json:"once_hit_file_ns"`
	OnceMissMemoryNs float64 `json:"once_miss_memory_ns"`
	SequenceNs       float64 `json:"sequence_ns"`
	UpdateNs         float64 `json:"update_ns"`
	GenerateJSONNs   float64 `json:"generate_json_ns"`
}

// suite is one go test -bench invocation.
type suite struct {
	name    string
	pattern string
	pkg     string
}

var suites = []suite{
	{name: "orchestrator", pattern: "BenchmarkOnce|BenchmarkSequence|BenchmarkUpdate", pkg: "./pkg/mockrr"},
	{name: "resource", pattern: "BenchmarkGenerate|BenchmarkMarshal", pkg: "./pkg/resource"},
}

func main() {
	fmt.Println("==========================================")
	fmt.Println("   MOCKRR BENCHMARK SUITE")
	fmt.Println("==========================================")
	fmt.Println()

	results := BenchmarkResults{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Environment: Environment{
			OS:        runtime.GOOS,
			Arch:      runtime.GOARCH,
			CPU:       getCPUInfo(),
			NumCPU:    runtime.NumCPU(),
			GoVersion: runtime.Version(),
		},
		Suites: make(map[string]Suite),
	}

	for _, s := range suites {
		fmt.Printf("Running %s benchmarks...\n", s.name)
		results.Suites[s.name] = Suite{Benchmarks: runBenchmarks(s.pattern, s.pkg)}
	}
	results.Summary = calculateSummary(results.Suites)

	if err := os.MkdirAll("benchmarks/results", 0o755); err != nil {
		fmt.Printf("Error creating results dir: %v\n", err)
		os.Exit(1)
	}

	jsonPath := filepath.Join("benchmarks", "results", "latest.json")
	if err := writeJSON(results, jsonPath); err != nil {
		fmt.Printf("Error writing JSON: %v\n", err)
	} else {
		fmt.Printf("\nJSON results: %s\n", jsonPath)
	}

	mdPath := filepath.Join("benchmarks", "results", "LATEST.md")
	if err := writeMarkdown(results, mdPath); err != nil {
		fmt.Printf("Error writing Markdown: %v\n", err)
	} else {
		fmt.Printf("Markdown results: %s\n", mdPath)
	}

	printSummary(results)
}

func getCPUInfo() string {
	if runtime.GOOS != "linux" {
		return "unknown"
	}
	data, err := os.ReadFile("/proc/cpuinfo")
	if err != nil {
		return "unknown"
	}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, "model name") {
			if _, v, ok := strings.Cut(line, ":"); ok {
				return strings.TrimSpace(v)
			}
		}
	}
	return "unknown"
}

func runBenchmarks(pattern, pkg string) []Benchmark {
	cmd := exec.Command("go", "test", "-run=^$", "-bench="+pattern, "-benchtime=2s", "-benchmem", pkg)
	output, err := cmd.CombinedOutput()
	if err != nil {
		fmt.Printf("  %s: %v\n", pkg, err)
	}
	return parseBenchmarkOutput(string(output))
}

// benchLine matches: BenchmarkName/sub-N  iterations  ns/op  B/op  allocs/op
var benchLine = regexp.MustCompile(`(Benchmark[\w/.\-]+?)-\d+\s+(\d+)\s+([\d.]+)\s+ns/op\s+(\d+)\s+B/op\s+(\d+)\s+allocs/op`)

func parseBenchmarkOutput(output string) []Benchmark {
	var benchmarks []Benchmark
	for _, match := range benchLine.FindAllStringSubmatch(output, -1) {
		nsPerOp, _ := strconv.ParseFloat(match[3], 64)
		bytesPerOp, _ := strconv.ParseInt(match[4], 10, 64)
		allocsPerOp, _ := strconv.ParseInt(match[5], 10, 64)

		opsPerSec := 0.0
		if nsPerOp > 0 {
			opsPerSec = 1e9 / nsPerOp
		}
		benchmarks = append(benchmarks, Benchmark{
			Name:        match[1],
			NsPerOp:     nsPerOp,
			OpsPerSec:   opsPerSec,
			BytesPerOp:  bytesPerOp,
			AllocsPerOp: allocsPerOp,
		})
	}
	return benchmarks
}

func calculateSummary(all map[string]Suite) Summary {
	var s Summary
	for _, b := range all["orchestrator"].Benchmarks {
		switch b.Name {
		case "BenchmarkOnce_Hit/memory":
			s.OnceHitMemoryNs = b.NsPerOp
		case "BenchmarkOnce_Hit/file":
			s.OnceHitFileNs = b.NsPerOp
		case "BenchmarkOnce_Miss/memory":
			s.OnceMissMemoryNs = b.NsPerOp
		case "BenchmarkSequence":
			s.SequenceNs = b.NsPerOp
		case "BenchmarkUpdate":
			s.UpdateNs = b.NsPerOp
		}
	}
	for _, b := range all["resource"].Benchmarks {
		if b.Name == "BenchmarkGenerate/application/json" {
			s.GenerateJSONNs = b.NsPerOp
		}
	}
	return s
}

func writeJSON(results BenchmarkResults, path string) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func writeMarkdown(results BenchmarkResults, path string) error {
	var sb strings.Builder

	sb.WriteString("# mockrr Benchmark Results\n\n")
	fmt.Fprintf(&sb, "**Generated**: %s\n\n", results.Timestamp)
	sb.WriteString("## Environment\n\n")
	fmt.Fprintf(&sb, "- **OS**: %s/%s\n", results.Environment.OS, results.Environment.Arch)
	fmt.Fprintf(&sb, "- **CPU**: %s (%d cores)\n", results.Environment.CPU, results.Environment.NumCPU)
	fmt.Fprintf(&sb, "- **Go**: %s\n\n", results.Environment.GoVersion)

	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Operation | Latency |\n")
	sb.WriteString("|-----------|---------|\n")
	sm := results.Summary
	for _, row := range []struct {
		name string
		ns   float64
	}{
		{"Once hit (memory)", sm.OnceHitMemoryNs},
		{"Once hit (file)", sm.OnceHitFileNs},
		{"Once miss (memory)", sm.OnceMissMemoryNs},
		{"Sequence", sm.SequenceNs},
		{"Update", sm.UpdateNs},
		{"Generate JSON", sm.GenerateJSONNs},
	} {
		fmt.Fprintf(&sb, "| %s | %.2fμs |\n", row.name, row.ns/1000)
	}
	sb.WriteString("\n")

	names := make([]string, 0, len(results.Suites))
	for name := range results.Suites {
		names = append(names, name)
	}
	slices.Sort(names)
	title := cases.Title(language.English)
	for _, name := range names {
		fmt.Fprintf(&sb, "## %s\n\n", title.String(name))
		sb.WriteString("| Benchmark | ops/sec | ns/op | B/op | allocs/op |\n")
		sb.WriteString("|-----------|---------|-------|------|----------|\n")
		for _, b := range results.Suites[name].Benchmarks {
			fmt.Fprintf(&sb, "| %s | %.0f | %.0f | %d | %d |\n",
				b.Name, b.OpsPerSec, b.NsPerOp, b.BytesPerOp, b.AllocsPerOp)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Reproducing\n\n")
	sb.WriteString("```bash\n")
	sb.WriteString("go run benchmarks/run_benchmarks.go\n")
	sb.WriteString("# Or individual suites:\n")
	for _, s := range suites {
		fmt.Fprintf(&sb, "go test -run='^$' -bench='%s' -benchmem %s\n", s.pattern, s.pkg)
	}
	sb.WriteString("```\n")

	return os.WriteFile(path, []byte(sb.String()), 0o644)
}

func printSummary(results BenchmarkResults) {
	s := results.Summary
	fmt.Println()
	fmt.Println("==========================================")
	fmt.Println("              SUMMARY")
	fmt.Println("==========================================")
	fmt.Printf("Once hit:  %.2fμs memory, %.2fμs file\n", s.OnceHitMemoryNs/1000, s.OnceHitFileNs/1000)
	fmt.Printf("Once miss: %.2fμs memory\n", s.OnceMissMemoryNs/1000)
	fmt.Printf("Sequence:  %.2fμs\n", s.SequenceNs/1000)
	fmt.Printf("Update:    %.2fμs\n", s.UpdateNs/1000)
	fmt.Printf("Generate:  %.2fμs (JSON)\n", s.GenerateJSONNs/1000)
	fmt.Println("==========================================")
}
