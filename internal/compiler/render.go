package compiler

import (
	"strings"

	"github.com/roach88/wfcgen/internal/grid"
	"github.com/roach88/wfcgen/internal/rules"
)

// Render draws one symbol per node: rows in increasing y, 3D layers in
// increasing z separated by an empty row.
func (c *Compiled) Render(data *grid.GridData[rules.ModelInstance]) []string {
	return render(data.Grid(), func(node int) rune {
		return c.Symbol(data.Get(node).ModelIndex)
	})
}

// RenderPartial is Render for a grid still being generated. Undetermined
// nodes are drawn as unknown.
func (c *Compiled) RenderPartial(data *grid.GridData[*rules.ModelInstance], unknown rune) []string {
	return render(data.Grid(), func(node int) rune {
		if inst := data.Get(node); inst != nil {
			return c.Symbol(inst.ModelIndex)
		}
		return unknown
	})
}

func render(g *grid.Grid, symbol func(node int) rune) []string {
	rows := make([]string, 0, g.SizeY()*g.SizeZ()+g.SizeZ()-1)
	for z := 0; z < g.SizeZ(); z++ {
		if z > 0 {
			rows = append(rows, "")
		}
		for y := 0; y < g.SizeY(); y++ {
			var b strings.Builder
			for x := 0; x < g.SizeX(); x++ {
				b.WriteRune(symbol(g.Index(grid.Coordinates{X: x, Y: y, Z: z})))
			}
			rows = append(rows, b.String())
		}
	}
	return rows
}
