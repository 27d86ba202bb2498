package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/nfrund/hostkit/internal/app"
	"github.com/nfrund/hostkit/internal/host"
	"github.com/nfrund/hostkit/internal/memhost"
	"github.com/nfrund/hostkit/internal/pubsub"
	"github.com/nfrund/hostkit/internal/registry"
	"github.com/nfrund/hostkit/internal/script"
)

var (
	runTicks      int
	runWatch      bool
	runRealtime   bool
	runPlayers    []string
	runObjectives []string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "Run a script against a fresh world",
	Long: `Run a script once against a fresh in-memory world, then tick the world so
scheduled action-bar redisplays play out. Broadcast lines and action-bar
displays are printed as they happen.

Scripts see these variables:
  player       ID of the first player
  player_name  name of the first player
  players      IDs of every player

Examples:
  # Greet a player who has a coins objective
  hostkit run welcome --player Steve --objective coins

  # Show a countdown to two players for ten seconds of world time
  hostkit run countdown --player Steve --player Alex --ticks 200

  # Re-run on every save, ticking in real time until interrupted
  hostkit run welcome --watch`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(runPlayers) == 0 {
			return fmt.Errorf("at least one --player is required")
		}
		return withApp(cmd.Context(), runWatch, func(ctx context.Context, a *app.App) error {
			return runScript(ctx, cmd.OutOrStdout(), a, args[0])
		})
	},
}

func runScript(ctx context.Context, out io.Writer, a *app.App, name string) error {
	world := registry.MustGet(a.Registry, registry.WorldKey)
	bus := registry.MustGet(a.Registry, registry.BusKey)
	engine := registry.MustGet(a.Registry, registry.ScriptEngineKey)

	printer := &eventPrinter{out: out}
	if err := printer.subscribe(ctx, bus); err != nil {
		return fmt.Errorf("failed to subscribe to world events: %w", err)
	}

	players, err := setupWorld(world, runPlayers, runObjectives)
	if err != nil {
		return err
	}
	input := &script.ScriptInput{Context: scriptContext(players)}

	execute := func() error {
		output, err := engine.Execute(ctx, script.ExecutionRequest{ScriptName: name, Input: input})
		if err != nil {
			return err
		}
		printer.output(output)
		return nil
	}
	if err := execute(); err != nil {
		return err
	}

	if !runWatch {
		return advance(ctx, world, runTicks, runRealtime)
	}

	changed := make(chan struct{}, 1)
	engine.Registry().OnChange(func(changedName string) {
		if changedName != name {
			return
		}
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	printer.printf("Watching %s for changes, press Ctrl+C to stop\n", name)

	ticker := time.NewTicker(time.Second / host.TicksPerSecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			world.Tick()
		case <-changed:
			if err := execute(); err != nil {
				slog.Error("Script run failed", "script", name, "error", err)
			}
		}
	}
}

// setupWorld spawns the named players and creates the objectives.
func setupWorld(world *memhost.World, players, objectives []string) ([]*memhost.Player, error) {
	for _, name := range objectives {
		if _, err := world.AddObjective(name, name); err != nil {
			return nil, err
		}
	}
	spawned := make([]*memhost.Player, len(players))
	for i, name := range players {
		spawned[i] = world.SpawnPlayer(name)
	}
	return spawned, nil
}

// scriptContext builds the variables every script receives.
func scriptContext(players []*memhost.Player) map[string]interface{} {
	ids := make([]interface{}, len(players))
	for i, p := range players {
		ids[i] = p.ID()
	}
	return map[string]interface{}{
		"player":      players[0].ID(),
		"player_name": players[0].Name(),
		"players":     ids,
	}
}

// advance runs the world for the given number of ticks, at the real tick
// rate when realtime is set.
func advance(ctx context.Context, world *memhost.World, ticks int, realtime bool) error {
	if !realtime {
		world.Advance(ticks)
		return nil
	}

	ticker := time.NewTicker(time.Second / host.TicksPerSecond)
	defer ticker.Stop()
	for i := 0; i < ticks; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			world.Tick()
		}
	}
	return nil
}

// eventPrinter writes world events and script output to the terminal. Bus
// handlers run on their own goroutines.
type eventPrinter struct {
	mu  sync.Mutex
	out io.Writer
}

func (p *eventPrinter) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, format, args...)
}

func (p *eventPrinter) subscribe(ctx context.Context, bus *pubsub.WatermillBridge) error {
	err := pubsub.Subscribe(ctx, bus, memhost.ChatEvent, func(_ context.Context, _ pubsub.Message, m memhost.ChatMessage) error {
		p.printf("[%5d] chat: %s\n", m.Tick, m.Line)
		return nil
	})
	if err != nil {
		return err
	}
	return pubsub.Subscribe(ctx, bus, memhost.ActionBarEvent, func(_ context.Context, _ pubsub.Message, m memhost.ActionBarMessage) error {
		p.printf("[%5d] actionbar %s: %s\n", m.Tick, m.PlayerName, m.Text)
		return nil
	})
}

func (p *eventPrinter) output(output *script.ScriptOutput) {
	for _, line := range output.Logs {
		p.printf("log: %s\n", line)
	}
	result, err := json.Marshal(output.Result)
	if err != nil {
		result = []byte(fmt.Sprintf("%v", output.Result))
	}
	p.printf("result: %s (%s)\n", result, output.Metrics.ExecutionTime.Round(time.Microsecond))
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntVarP(&runTicks, "ticks", "t", 5*host.TicksPerSecond, "World ticks to run after the script")
	runCmd.Flags().BoolVarP(&runWatch, "watch", "w", false, "Re-run the script whenever its file changes")
	runCmd.Flags().BoolVar(&runRealtime, "realtime", false, "Tick at the real rate instead of as fast as possible")
	runCmd.Flags().StringSliceVarP(&runPlayers, "player", "p", []string{"Steve"}, "Players to spawn, the first one is 'player'")
	runCmd.Flags().StringSliceVarP(&runObjectives, "objective", "o", nil, "Scoreboard objectives to create")
}
