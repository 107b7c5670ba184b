// Package cabinet is an arcade input and game-flow toolkit for
// [Ebitengine].
//
// Cabinet normalizes keyboard, mouse, touch, and gamepad input into one
// consistent event stream, layers per-player virtual controllers on top,
// and runs the standard arcade game flow (title, instructions, playing,
// paused, game over) with a persisted high-score ledger: the plumbing
// every small game needs before the first sprite is drawn.
//
// # Quick start
//
// Register the callbacks you care about, then hand the app to [Run]:
//
//	app := cabinet.NewApp("blockfall", cabinet.Handlers{
//		OnGameStart:  func() { reset() },
//		OnSimulation: func() { step() },
//		OnGameDraw:   func(screen *ebiten.Image) { draw(screen) },
//		OnControlStart: func(c *cabinet.Control) {
//			if c.ID == cabinet.ControlA {
//				rotate()
//			}
//		},
//	})
//	if err := cabinet.Run(app, cabinet.RunConfig{Title: "Blockfall"}); err != nil {
//		log.Fatal(err)
//	}
//
// Games that want a bare loop instead of the arcade flow set OnTick and
// OnGameDraw only; raw input callbacks (OnKeyStart, OnTouchStart, ...) work
// in both styles.
//
// A callback that panics stops the scheduler and surfaces the failure from
// [Run]: a broken frame is never followed by another one.
//
// [Ebitengine]: https://ebitengine.org
package cabinet
