// Command goba runs a GBA ROM. The CLI surface is cobra (spec.md's
// Non-goals place the host display/input loop outside the core, so
// this command is pure ambient plumbing); the display loop is an
// ebiten.Game, grounded on bdwalton-gintendo/console.Bus's Update/
// Draw/Layout and the key-polling style of
// IntuitionAmiga-IntuitionEngine's ebiten backend.
package main

import (
	"fmt"
	"image/color"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"goba/internal/gba"
	"goba/rom"
	"goba/util/dbg"
)

var (
	biosPath string
	scale    int
)

func main() {
	root := &cobra.Command{
		Use:   "goba <rom>",
		Short: "A Game Boy Advance emulator",
		Args:  cobra.ExactArgs(1),
		RunE:  run,
	}
	root.Flags().StringVar(&biosPath, "bios", "", "path to a 16 KiB GBA BIOS image (required)")
	root.Flags().IntVar(&scale, "scale", 3, "integer window scale factor")
	root.MarkFlagRequired("bios")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	bios, err := os.ReadFile(biosPath)
	if err != nil {
		return fmt.Errorf("reading BIOS: %w", err)
	}

	r, err := rom.Load(args[0])
	if err != nil {
		return err
	}

	console := gba.New(bios, r.Data)
	game := &gameWindow{console: console, scale: scale}

	ebiten.SetWindowSize(gba.ScreenWidth*scale, gba.ScreenHeight*scale)
	ebiten.SetWindowTitle("goba — " + args[0])

	return ebiten.RunGame(game)
}

// gameWindow adapts Console to ebiten.Game.
type gameWindow struct {
	console *gba.Console
	scale   int
	frames  int
}

func (g *gameWindow) Update() error {
	g.console.SetKeys(pollKeys())
	g.console.RunFrame()
	g.frames++
	if g.frames%60 == 0 {
		dbg.Printf("frame %d\n", g.frames)
	}
	return nil
}

func (g *gameWindow) Draw(screen *ebiten.Image) {
	fb := g.console.Framebuffer()
	for y := 0; y < gba.ScreenHeight; y++ {
		for x := 0; x < gba.ScreenWidth; x++ {
			r, g, b, a := bgr555ToRGBA(fb[y*gba.ScreenWidth+x])
			screen.Set(x, y, color.RGBA{r, g, b, a})
		}
	}
}

func (g *gameWindow) Layout(outsideWidth, outsideHeight int) (int, int) {
	return gba.ScreenWidth, gba.ScreenHeight
}

// keymap binds the default GBA button layout to ebiten keys.
var keymap = []struct {
	key ebiten.Key
	bit uint16
}{
	{ebiten.KeyX, 1 << 0},         // A
	{ebiten.KeyZ, 1 << 1},         // B
	{ebiten.KeyBackspace, 1 << 2}, // Select
	{ebiten.KeyEnter, 1 << 3},     // Start
	{ebiten.KeyRight, 1 << 4},
	{ebiten.KeyLeft, 1 << 5},
	{ebiten.KeyUp, 1 << 6},
	{ebiten.KeyDown, 1 << 7},
	{ebiten.KeyS, 1 << 8}, // R
	{ebiten.KeyA, 1 << 9}, // L
}

func pollKeys() uint16 {
	var v uint16
	for _, k := range keymap {
		if ebiten.IsKeyPressed(k.key) {
			v |= k.bit
		}
	}
	return v
}

func bgr555ToRGBA(c uint16) (r, g, b, a uint8) {
	scale5 := func(v uint16) uint8 { return uint8(v<<3 | v>>2) }
	r = scale5(c & 0x1F)
	g = scale5((c >> 5) & 0x1F)
	b = scale5((c >> 10) & 0x1F)
	a = 0xFF
	return
}
