package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/TestimonialCarousel/internal/carousel"
	"github.com/TestimonialCarousel/internal/domain"
	"github.com/TestimonialCarousel/internal/infra/catalog"
	"github.com/TestimonialCarousel/internal/infra/render"
	"github.com/TestimonialCarousel/internal/timing"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a scripted timeline.",
	Long: "`run --items 12 --page-size 6 --script \"next@1s,goto:0@3s\"` " +
		"builds a carousel of 12 generated testimonials and applies the " +
		"script at the given virtual times.",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := runOptionsFromFlags(cmd)
		if err != nil {
			return err
		}
		return simulate(cmd.Context(), cmd.OutOrStdout(), opts)
	},
}

func init() {
	runCmd.Flags().Int("items", 0, "Number of generated testimonials (0 uses the built-in four)")
	runCmd.Flags().Int("page-size", 1, "Testimonials per page")
	runCmd.Flags().Duration("duration", 30*time.Second, "Virtual time to simulate")
	runCmd.Flags().Duration("period", 8*time.Second, "Auto-play period")
	runCmd.Flags().Bool("autoplay", false, "Start with auto-play enabled")
	runCmd.Flags().String("script", "", "Comma-separated steps such as next@1s,goto:2@3s,autoplay:off@5s")
	runCmd.Flags().String("catalog", "", "JSON or YAML catalog file")
}

type runOptions struct {
	items    int
	config   carousel.Config
	duration time.Duration
	script   []step
	catalog  string
}

func runOptionsFromFlags(cmd *cobra.Command) (runOptions, error) {
	flags := cmd.Flags()
	items, _ := flags.GetInt("items")
	pageSize, _ := flags.GetInt("page-size")
	duration, _ := flags.GetDuration("duration")
	period, _ := flags.GetDuration("period")
	autoplay, _ := flags.GetBool("autoplay")
	script, _ := flags.GetString("script")
	catalogPath, _ := flags.GetString("catalog")

	if items < 0 {
		return runOptions{}, fmt.Errorf("invalid item count: %d", items)
	}
	if pageSize < 1 {
		return runOptions{}, fmt.Errorf("invalid page size: %d", pageSize)
	}
	if duration <= 0 {
		return runOptions{}, fmt.Errorf("invalid duration: %s", duration)
	}

	steps, err := parseScript(script)
	if err != nil {
		return runOptions{}, err
	}

	cfg := carousel.DefaultConfig()
	cfg.Name = "sim"
	cfg.PageSize = pageSize
	cfg.AutoPlay = autoplay
	cfg.AutoPlayPeriod = period

	return runOptions{
		items:    items,
		config:   cfg,
		duration: duration,
		script:   steps,
		catalog:  catalogPath,
	}, nil
}

func simulate(ctx context.Context, out io.Writer, opts runOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	items, err := simulationItems(ctx, opts)
	if err != nil {
		return err
	}

	engine := timing.NewSerialEngine()
	ctrl := carousel.New(engine, render.NewTerminalRenderer(out), items, opts.config)

	for _, s := range opts.script {
		s := s
		engine.Schedule(timing.ScheduledEvent{
			Event: s,
			Time:  timing.VTime(s.At),
			Handler: timing.HandlerFunc(func(any) error {
				accepted := s.apply(ctrl)
				fmt.Fprintf(out, "[%s] %s accepted=%t\n", s.At, s, accepted)
				return nil
			}),
		})
	}

	ctrl.Start()
	if err := engine.RunUntil(timing.VTime(opts.duration)); err != nil {
		return err
	}
	snap := ctrl.State()
	ctrl.Close()

	fmt.Fprintf(out, "[%s] done: page %d/%d, phase %s, autoplay %t\n",
		opts.duration, snap.Page+1, snap.TotalPages, snap.Phase, snap.AutoPlayEnabled)
	return nil
}

func simulationItems(ctx context.Context, opts runOptions) ([]domain.Item, error) {
	if opts.catalog != "" {
		return catalog.NewFileSource(opts.catalog).Load(ctx)
	}
	if opts.items == 0 {
		return catalog.DefaultItems(), nil
	}

	items := make([]domain.Item, 0, opts.items)
	for i := 0; i < opts.items; i++ {
		items = append(items, domain.Item{
			ID:       fmt.Sprintf("sim-%02d", i+1),
			Name:     fmt.Sprintf("Customer %d", i+1),
			Position: "Customer",
			Company:  "Example Co",
			Quote:    "It just works.",
			Rating:   5 - i%3,
			Order:    i,
		})
	}
	return items, nil
}
