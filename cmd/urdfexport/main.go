package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"urdf-scene-exporter/internal/assets"
	"urdf-scene-exporter/internal/config"
	"urdf-scene-exporter/internal/entitypath"
	"urdf-scene-exporter/internal/exporter"
	"urdf-scene-exporter/internal/kinematics"
	"urdf-scene-exporter/internal/logging"
	"urdf-scene-exporter/internal/mesh"
	"urdf-scene-exporter/internal/motion"
	"urdf-scene-exporter/internal/preview"
	"urdf-scene-exporter/internal/scene"
	"urdf-scene-exporter/internal/skeleton"
	"urdf-scene-exporter/internal/texture"
	"urdf-scene-exporter/internal/urdf"
	"urdf-scene-exporter/internal/visual"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config file (.json, .yaml or .toml)")
	urdfPath := flag.String("urdf", "", "Path to the URDF file (or pass it as the first argument)")
	baseDir := flag.String("base", "", "Directory relative mesh paths resolve against (default: URDF dir)")
	outputDir := flag.String("output", "", "Output directory (default: <base>/scene-out)")
	prefix := flag.String("prefix", "", "Entity path prefix, prepended verbatim")
	mode := flag.String("mode", "", "Joint mode: original, random or sampled (default: original)")
	frames := flag.Int("frames", 0, "Number of random/sampled frames to log after the static pose")
	seed := flag.Int64("seed", 0, "Random seed (default: time based)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: 1)")
	logLevel := flag.String("log-level", "", "debug, info, warn or error (default: info)")
	textures := flag.Bool("textures", false, "Export textured meshes with their images")
	dryRun := flag.Bool("dry-run", false, "Record in memory instead of writing the output directory")
	previewFlag := flag.Bool("preview", false, "Render <output>/preview.webp of the final pose")

	flag.Parse()
	if *urdfPath == "" && flag.NArg() > 0 {
		*urdfPath = flag.Arg(0)
	}

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		URDF:      *urdfPath,
		BaseDir:   *baseDir,
		OutputDir: *outputDir,
		Prefix:    *prefix,
		Mode:      *mode,
		Frames:    *frames,
		Seed:      *seed,
		Workers:   *workers,
		LogLevel:  *logLevel,
		Textures:  *textures,
		Preview:   *previewFlag,
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		flag.Usage()
		os.Exit(2)
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	// Load model
	model, err := urdf.Parse(cfg.URDF)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading URDF: %v\n", err)
		os.Exit(1)
	}

	// Build asset index
	index := assets.NewIndex(cfg.BaseDir)
	for name, dir := range cfg.Packages {
		index.AddPackage(name, dir)
	}
	for _, root := range cfg.PackageRoots {
		if err := index.DiscoverPackages(root); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: package scan: %v\n", err)
		}
	}
	fmt.Printf("Packages: %d indexed\n", index.Len())

	// Open sinks
	var (
		sink     scene.Sink
		fileSink *scene.FileSink
		recorder *scene.Recorder
	)
	if *dryRun || cfg.Preview {
		recorder = scene.NewRecorder()
	}
	if *dryRun {
		sink = recorder
	} else {
		fileSink, err = scene.NewFileSink(cfg.OutputDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		sink = fileSink
		if recorder != nil {
			sink = scene.Tee(fileSink, recorder)
		}
	}

	images := texture.NewCache(texture.FileLoader{})
	exp := &exporter.Exporter{
		Source: model,
		Paths:  entitypath.New(model, cfg.EntityPrefix),
		Visuals: &visual.Exporter{
			Meshes:       mesh.FileLoader{Images: images},
			Images:       images,
			Assets:       index,
			Sink:         sink,
			DefaultColor: cfg.Color(),
			Textures:     cfg.Textures,
		},
		Sampler: motion.NewSampler(cfg.Seed),
		Sink:    sink,
		Workers: cfg.Workers,
	}

	// Print summary
	m := cfg.MotionMode()
	fmt.Printf("URDF → scene: %s (%s)\n", model.Name(), cfg.URDF)
	fmt.Printf("Links: %d, Joints: %d, Workers: %d\n", len(model.Links()), len(model.Joints()), cfg.Workers)
	if m != motion.Original {
		fmt.Printf("Mode: %s, Frames: %d, Seed: %d\n", m, cfg.Frames, cfg.Seed)
	}
	if fileSink != nil {
		fmt.Printf("Output: %s\n", cfg.OutputDir)
	}
	fmt.Println("------------------------------------------------------------")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	res, runErr := exp.Run(ctx, m, cfg.Frames)

	if fileSink != nil {
		if err := fileSink.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: close output: %v\n", err)
		}
	}

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", time.Since(start).Seconds())
	fmt.Printf("Joint transforms: %d, Links: %d, Visuals: %d\n", res.Joints, res.Links, res.Visuals)
	if *dryRun {
		fmt.Printf("Records: %d (dry run)\n", recorder.Len())
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}

	if cfg.Preview && !*dryRun {
		if err := writePreview(model, exp.Paths, recorder, res.Values, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: preview: %v\n", err)
		}
	}
}

// writePreview renders the recorded meshes at the last sampled pose
// (zero pose otherwise).
func writePreview(model *kinematics.Model, paths *entitypath.Resolver, rec *scene.Recorder, values map[string]float64, cfg config.Config) error {
	worlds, err := skeleton.WorldTransforms(model, values)
	if err != nil {
		return err
	}
	items, err := preview.Collect(model, paths, worlds, rec)
	if err != nil {
		return err
	}
	opts := preview.DefaultOptions()
	opts.Size = cfg.PreviewSize
	out := filepath.Join(cfg.OutputDir, "preview.webp")
	if err := preview.WriteWebP(out, preview.Render(items, opts)); err != nil {
		return err
	}
	fmt.Printf("Preview: %s (%d meshes)\n", out, len(items))
	return nil
}
