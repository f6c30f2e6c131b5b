// Command scenebench drives a synthetic scene for a number of frames, optionally
// under the profiler.
//
//	go build ./cmd/scenebench
//	./scenebench --entities 10000 --frames 600 --profile mem
//	go tool pprof -http=":8000" ./scenebench mem.pprof
package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/TheBitDrifter/scene"
	"github.com/TheBitDrifter/scene/aspectql"
	"github.com/pkg/profile"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type Position struct{ X, Y float64 }
type Velocity struct{ X, Y float64 }
type Lifetime struct{ Frames int }
type Frozen struct{}

func (Position) ComponentStorage() scene.StorageKind { return scene.Dense }
func (Velocity) ComponentStorage() scene.StorageKind { return scene.Dense }
func (Lifetime) ComponentStorage() scene.StorageKind { return scene.Dense }
func (Frozen) ComponentStorage() scene.StorageKind   { return scene.Sparse }

type options struct {
	configPath string
	entities   int
	frames     int
	profile    string
	count      string
	seed       uint64
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:          "scenebench",
		Short:        "Run a synthetic scene and report frame timings",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "YAML scene config, merged over SCENE_* env vars")
	flags.IntVar(&opts.entities, "entities", 10000, "entities alive at any time")
	flags.IntVar(&opts.frames, "frames", 600, "frames to run")
	flags.StringVar(&opts.profile, "profile", "none", "profile to record: cpu, mem or none")
	flags.StringVar(&opts.count, "count", "Position & Velocity & !Frozen", "aspect to report the size of")
	flags.Uint64Var(&opts.seed, "seed", 1, "random seed")
	return cmd
}

func loadConfig(path string) (scene.Config, error) {
	cfg, err := scene.ConfigFromEnv()
	if err != nil {
		return scene.Config{}, err
	}
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return scene.Config{}, eris.Wrapf(err, "open config %s", path)
	}
	defer f.Close()
	fileCfg, err := scene.LoadConfig(f)
	if err != nil {
		return scene.Config{}, eris.Wrapf(err, "load config %s", path)
	}
	return cfg.Merge(fileCfg), nil
}

func startProfile(kind string) (interface{ Stop() }, error) {
	switch kind {
	case "none", "":
		return nil, nil
	case "cpu":
		return profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook), nil
	case "mem":
		return profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook), nil
	}
	return nil, eris.Errorf("unknown profile %q", kind)
}

func run(cmd *cobra.Command, opts options) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	logger, err := scene.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	s, err := scene.Factory.NewScene(scene.WithConfig(cfg), scene.WithLogger(logger))
	if err != nil {
		return err
	}
	rng := rand.New(rand.NewPCG(opts.seed, opts.seed))
	w := newWorkload(s, rng)
	if err := w.install(); err != nil {
		return err
	}
	counted, err := aspectql.ParseWith(opts.count, s.Types())
	if err != nil {
		return err
	}
	for i := 0; i < opts.entities; i++ {
		w.spawn()
	}

	p, err := startProfile(opts.profile)
	if err != nil {
		return err
	}
	start := time.Now()
	for i := 0; i < opts.frames; i++ {
		if err := s.Frame(1.0 / 60); err != nil {
			return err
		}
	}
	elapsed := time.Since(start)
	if p != nil {
		p.Stop()
	}

	logger.Info("bench finished",
		zap.Int("frames", opts.frames),
		zap.Duration("elapsed", elapsed),
		zap.Duration("per_frame", elapsed/time.Duration(max(opts.frames, 1))),
		zap.Int("live", s.Len()),
		zap.Int("spawned", w.spawned),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "%d frames in %s, %d entities match %q\n",
		opts.frames, elapsed, s.Query(counted).Count(), opts.count)
	return nil
}
