package main

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/shapecache/catalog"
	"github.com/milk9111/shapecache/config"
	"github.com/milk9111/shapecache/debugdraw"
	"github.com/milk9111/shapecache/ecs"
	"github.com/milk9111/shapecache/physics"
	"github.com/milk9111/shapecache/shapes"
)

// fallMargin is how far below the window a body may fall before it is
// removed.
const fallMargin = 200

type Game struct {
	cfg     *config.Config
	debug   bool
	frames  int
	catalog *catalog.Catalog
	factory *physics.Factory
	world   *ecs.World
	watcher *shapes.Watcher

	ground    ecs.Entity
	spawned   []ecs.Entity
	nextSpawn int
	attached  int
	detached  int
}

func NewGame(cfg *config.Config, debug bool) (*Game, error) {
	c := catalog.New(cfg.Options())
	for _, doc := range cfg.Catalog.Documents {
		if err := c.Load(doc); err != nil {
			return nil, err
		}
	}

	pw := ecs.NewPhysicsWorld(cfg.Gravity(), cfg.Physics.Iterations, cfg.Physics.Timestep)
	pw.Space().SetDamping(cfg.Physics.Damping)
	world := ecs.NewWorld()
	world.SetPhysicsWorld(pw)
	world.AddSystem(pw)

	g := &Game{
		cfg:     cfg,
		debug:   debug,
		catalog: c,
		factory: physics.NewFactory(c),
		world:   world,
	}

	if cfg.Viewer.Ground != "" {
		x := float64(cfg.Viewer.Width) / 2
		y := float64(cfg.Viewer.Height) - 20
		e, ok := ecs.Spawn(world, g.factory, cfg.Viewer.Ground, x, y)
		if !ok {
			log.Printf("Viewer: no body for ground %q", cfg.Viewer.Ground)
		}
		g.ground = e
	}

	if cfg.Catalog.Watch {
		w, err := shapes.NewWatcher(cfg.Catalog.WatchDirs...)
		if err != nil {
			return nil, err
		}
		g.watcher = w
	}
	return g, nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	g.frames++
	g.pollWatcher()

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		g.spawnAt(float64(x), float64(y))
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		g.clear()
	}

	g.world.Update()
	g.cullFallen()
	g.countEvents()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	debugdraw.DrawSpace(screen, g.world.PhysicsWorld().Space(), debugdraw.Camera{Zoom: 1})
	if g.debug {
		debugdraw.DrawText(screen, fmt.Sprintf("FPS: %.2f\nBodies: %d\nTemplates: %d\nAttached: %d  Detached: %d",
			ebiten.ActualFPS(), len(g.spawned), g.catalog.Len(), g.attached, g.detached))
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Viewer.Width, g.cfg.Viewer.Height
}

// spawnAt drops the next body of the spawn list at (x, y).
func (g *Game) spawnAt(x, y float64) {
	names := g.cfg.Viewer.Spawn
	if len(names) == 0 {
		return
	}
	name := names[g.nextSpawn%len(names)]
	g.nextSpawn++

	e, ok := ecs.Spawn(g.world, g.factory, name, x, y)
	if !ok {
		log.Printf("Viewer: no body for %q", name)
		g.world.DestroyEntity(e)
		return
	}
	g.spawned = append(g.spawned, e)
}

// clear removes every spawned body and keeps the ground.
func (g *Game) clear() {
	for _, e := range g.spawned {
		g.world.DestroyEntity(e)
	}
	g.spawned = g.spawned[:0]
}

func (g *Game) cullFallen() {
	limit := float64(g.cfg.Viewer.Height + fallMargin)
	kept := g.spawned[:0]
	for _, e := range g.spawned {
		if t, ok := g.world.Transform(e); ok && t.Y > limit {
			g.world.DestroyEntity(e)
			continue
		}
		kept = append(kept, e)
	}
	g.spawned = kept
}

func (g *Game) countEvents() {
	for _, evt := range g.world.Events().Drain() {
		switch evt.Kind {
		case ecs.EventBodyAttached:
			g.attached++
		case ecs.EventBodyDetached:
			g.detached++
		}
	}
}

// pollWatcher reloads changed documents without blocking the frame.
func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			if err := g.catalog.Reload(path); err != nil {
				log.Printf("Viewer: %v", err)
				continue
			}
			log.Printf("Viewer: reloaded %s", path)
		case err, ok := <-g.watcher.Errors:
			if ok {
				log.Printf("Viewer: watch: %v", err)
			}
			return
		default:
			return
		}
	}
}
