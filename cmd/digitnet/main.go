package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/klauspost/cpuid/v2"

	"digitnet/internal/config"
	"digitnet/internal/model"
	"digitnet/internal/trainer"
)

func main() {
	cfgPath := flag.String("config", "", "Path to YAML config (defaults to the built-in MNIST setup)")
	trainPath := flag.String("train", "", "Override training CSV")
	testPath := flag.String("test", "", "Override test CSV")
	loadPath := flag.String("load", "", "Load network weights from file")
	savePath := flag.String("save", "", "Save network weights to file")
	inputs := flag.Int("inputs", 0, "Number of input units")
	hiddenLayers := flag.Int("hidden-layers", -1, "Number of hidden layers")
	hiddenWidth := flag.Int("hidden-width", 0, "Units per hidden layer")
	outputs := flag.Int("outputs", 0, "Number of output units")
	learnRate := flag.Float64("learn-rate", 0, "Learning rate")
	batchSize := flag.Int("batch-size", 0, "Mini-batch size")
	epochs := flag.Int("epochs", 0, "Number of training epochs")
	seed := flag.Int64("seed", 0, "PRNG seed (any value, including 0, overrides the config)")
	logEvery := flag.Int("log-every", 0, "Log every N epochs")

	flag.Parse()

	var seedOverride *int64
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			seedOverride = seed
		}
	})

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		cfg = loaded
	}

	cfg.ApplyOverrides(config.Overrides{
		Inputs:       *inputs,
		HiddenLayers: *hiddenLayers,
		HiddenWidth:  *hiddenWidth,
		Outputs:      *outputs,
		LearnRate:    *learnRate,
		BatchSize:    *batchSize,
		Epochs:       *epochs,
		Seed:         seedOverride,
		LogEvery:     *logEvery,
		TrainPath:    *trainPath,
		TestPath:     *testPath,
		LoadPath:     *loadPath,
		SavePath:     *savePath,
	})

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	log.Printf("host cpu=%q physical_cores=%d logical_cores=%d avx2=%t",
		cpuid.CPU.BrandName,
		cpuid.CPU.PhysicalCores,
		cpuid.CPU.LogicalCores,
		cpuid.CPU.Supports(cpuid.AVX2),
	)
	log.Printf("topology inputs=%d hidden_layers=%d hidden_width=%d outputs=%d",
		cfg.Inputs, cfg.HiddenLayers, cfg.HiddenWidth, cfg.Outputs)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runCfg := trainer.RunConfig{
		Topology: model.Topology{
			Inputs:       cfg.Inputs,
			HiddenLayers: cfg.HiddenLayers,
			HiddenWidth:  cfg.HiddenWidth,
			Outputs:      cfg.Outputs,
		},
		LearnRate: cfg.LearnRate,
		BatchSize: cfg.BatchSize,
		Epochs:    cfg.Epochs,
		LogEvery:  cfg.LogEvery,
		Seed:      cfg.Seed,
		TrainPath: cfg.TrainPath,
		TestPath:  cfg.TestPath,
		LoadPath:  cfg.LoadPath,
		SavePath:  cfg.SavePath,
	}

	if _, err := trainer.Run(ctx, runCfg); err != nil {
		log.Fatalf("run failed: %v", err)
	}
}
