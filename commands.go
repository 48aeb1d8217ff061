package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"sem_sim/core"
	"sem_sim/policy"
	"sem_sim/trace"
	"sem_sim/tui"
	"sem_sim/visual"
)

// resolveConfig picks the active configuration: scenario file, then named
// scenario, then the first preset.
func resolveConfig() (core.Config, error) {
	if scenarioPath != "" {
		sf, err := LoadScenarioFile(scenarioPath)
		if err != nil {
			return core.Config{}, err
		}
		return sf.Config, nil
	}
	name := scenarioName
	if name == "" {
		name = GetPredefinedConfigs()[0].Name
	}
	cfg := GetConfigByName(name)
	if cfg == nil {
		return core.Config{}, fmt.Errorf("unknown scenario %q", name)
	}
	return *cfg, nil
}

func newRunCommand() *cobra.Command {
	var steps int
	var showTrace bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a headless simulation for a fixed number of steps",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig()
			if err != nil {
				return err
			}
			sim, err := NewSimulator(cfg, policy.ByName(orderName), visual.Discard{})
			if err != nil {
				return err
			}

			sim.Apply(core.Command{Type: core.CmdStart})
			bar := progressbar.NewOptions(steps,
				progressbar.OptionSetDescription("stepping"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionClearOnFinish(),
			)
			for i := 0; i < steps; i++ {
				res := sim.Apply(core.Command{Type: core.CmdStepForward})
				if res.Outcome == core.OutcomeQuiescent {
					GetLogger().Warnf("simulation quiescent after %d steps", i)
					break
				}
				bar.Add(1)
			}
			sim.Apply(core.Command{Type: core.CmdPause})

			frame := sim.Frame()
			fmt.Println(tui.Render(simState(sim), frame.LastAction))

			if showTrace {
				fmt.Println(sim.ExportText(trace.NewExporter()))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&steps, "steps", 20, "number of forward steps to execute")
	cmd.Flags().BoolVar(&showTrace, "trace", false, "print the full text trace after the run")
	return cmd
}

// simState exposes the engine state for rendering; callers hold no lock, so
// this is only safe once stepping has finished.
func simState(sim *Simulator) *core.State {
	return sim.engine.State()
}

func newServeCommand() *cobra.Command {
	var addr string
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web visualization and control API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var sim *Simulator
			server := NewWebServer(addr, nil)
			viz := NewWebFrontend(server)
			sim, err = NewSimulator(cfg, policy.ByName(orderName), viz)
			if err != nil {
				return err
			}
			server.sim = sim

			g, ctx := errgroup.WithContext(ctx)

			g.Go(func() error {
				if err := server.Start(); err != nil {
					return err
				}
				<-ctx.Done()
				return server.Shutdown(context.Background())
			})

			g.Go(func() error {
				sim.Run(ctx)
				return nil
			})

			if watch && scenarioPath != "" {
				g.Go(func() error {
					err := WatchScenarioFile(ctx, scenarioPath, func(sf *ScenarioFile) {
						cfg := sf.Config
						sim.Apply(core.Command{Type: core.CmdSetConfig, Config: &cfg})
					})
					if err == context.Canceled {
						return nil
					}
					return err
				})
			}

			GetLogger().Infof("serving on %s", addr)
			if err := g.Wait(); err != nil && err != context.Canceled {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload --scenario-file on change")
	return cmd
}

func newExportCommand() *cobra.Command {
	var steps int
	var jsonPath string
	var textPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Run a simulation and write its trace to disk",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig()
			if err != nil {
				return err
			}
			sim, err := NewSimulator(cfg, policy.ByName(orderName), visual.Discard{})
			if err != nil {
				return err
			}

			sim.Apply(core.Command{Type: core.CmdStart})
			for i := 0; i < steps; i++ {
				if res := sim.Apply(core.Command{Type: core.CmdStepForward}); res.Outcome == core.OutcomeQuiescent {
					break
				}
			}

			exporter := trace.NewExporter()
			if jsonPath != "" {
				data, err := sim.ExportJSON(exporter)
				if err != nil {
					return fmt.Errorf("render trace: %w", err)
				}
				if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", jsonPath, err)
				}
				GetLogger().Infof("wrote %s", jsonPath)
			}
			if textPath != "" {
				if err := os.WriteFile(textPath, []byte(sim.ExportText(exporter)), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", textPath, err)
				}
				GetLogger().Infof("wrote %s", textPath)
			}
			if jsonPath == "" && textPath == "" {
				fmt.Println(sim.ExportText(exporter))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&steps, "steps", 50, "number of forward steps to execute")
	cmd.Flags().StringVar(&jsonPath, "json", "", "write the JSON trace to this path")
	cmd.Flags().StringVar(&textPath, "text", "", "write the text trace to this path")
	return cmd
}

func newScenariosCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List the predefined scenarios",
		Run: func(cmd *cobra.Command, args []string) {
			for _, nc := range GetPredefinedConfigs() {
				fmt.Printf("%-10s buffer=%-2d producers=%d consumers=%d  %s\n",
					nc.Name, nc.Config.BufferSize, nc.Config.ProducerCount, nc.Config.ConsumerCount,
					nc.Description)
			}
		},
	}
}
