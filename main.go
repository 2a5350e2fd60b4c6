package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"pulse-video-pipeline/config"
	"pulse-video-pipeline/pipeline"
	"pulse-video-pipeline/types"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	topic := flag.String("topic", "", "video topic")
	stateFlag := flag.String("state", "neutral", "physiological state label (calm, focus, energized, pre_sleep, stressed, neutral)")
	outputDir := flag.String("output-dir", "", "override output directory")
	tempDir := flag.String("temp-dir", "", "override temp directory")
	width := flag.Int("width", 0, "override frame width")
	height := flag.Int("height", 0, "override frame height")
	configPath := flag.String("config", "", "optional YAML config file")
	noCleanup := flag.Bool("no-cleanup", false, "keep intermediate files")
	batchPath := flag.String("batch", "", "JSON file with [{topic, state}, ...] jobs")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("❌ Config: %v", err)
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}
	if *tempDir != "" {
		cfg.TempDir = *tempDir
	}
	if *width > 0 {
		cfg.Width = *width
	}
	if *height > 0 {
		cfg.Height = *height
	}
	cfg.FromEnv()

	for _, dir := range []string{cfg.TempDir, cfg.OutputDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("❌ Create %s: %v", dir, err)
		}
	}

	p := pipeline.New(cfg)
	ctx := context.Background()
	cleanup := !*noCleanup

	if *batchPath != "" {
		runBatch(ctx, p, *batchPath, cleanup)
		return
	}

	if *topic == "" {
		fmt.Fprintln(os.Stderr, "usage: pulse-video-pipeline --topic \"...\" [--state calm] [--batch jobs.json]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	state, err := types.ParseState(*stateFlag)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	res, err := p.Run(ctx, *topic, state, cleanup)
	if err != nil {
		log.Fatalf("❌ Pipeline failed: %v", err)
	}
	fmt.Printf("✅ %s (%.1fs video, %d scenes, %.1fs elapsed)\n",
		res.OutputPath, res.DurationS, res.Scenes, res.ElapsedS)
}

func loadConfig(path string) (*config.VideoConfig, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// runBatch reads a job file, runs every job, and prints a summary.
// Batch mode always exits zero; per-job failures are in the output.
func runBatch(ctx context.Context, p *pipeline.Pipeline, path string, cleanup bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("❌ Read batch file: %v", err)
	}
	var jobs []pipeline.Job
	if err := json.Unmarshal(data, &jobs); err != nil {
		log.Fatalf("❌ Parse batch file: %v", err)
	}
	if len(jobs) == 0 {
		log.Fatalf("❌ Batch file %s has no jobs", path)
	}

	results := p.RunBatch(ctx, jobs, cleanup)

	ok := 0
	for _, r := range results {
		if r.Status == "ok" {
			ok++
			fmt.Printf("✅ %-40q %s\n", r.Topic, r.OutputPath)
		} else {
			fmt.Printf("⚠  %-40q %s\n", r.Topic, r.Error)
		}
	}
	fmt.Printf("Done: %d/%d succeeded\n", ok, len(results))
}
