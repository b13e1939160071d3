package ioformat

import (
	"fmt"
	"io"

	"github.com/IgorBoyarshin/EnergyAwarePlanning/internal/graph"
)

// canonicalSep is the separator character Emit always uses. Parse
// accepts any non-alphanumeric separator; Emit picks one so round-trip
// output is deterministic.
const canonicalSep = ':'

// Emit writes g back out in canonical V/I/T/S form, using g's own
// IndexingFromZero basis. Policy and parents are not represented —
// they are derived state, not part of the wire format.
func Emit(w io.Writer, g *graph.TaskGraph) error {
	p := g.PolicyCount()
	if p == 0 {
		// An empty graph carries no operating-point count; V needs a
		// positive one for the output to parse again.
		p = 1
	}
	if _, err := fmt.Fprintf(w, "V %d\n", p); err != nil {
		return err
	}

	basis := 0
	if !g.IndexingFromZero {
		basis = 1
	}
	if _, err := fmt.Fprintf(w, "I %d\n", basis); err != nil {
		return err
	}

	for i, t := range g.Tasks {
		if _, err := fmt.Fprintf(w, "T %d%c", i+basis, canonicalSep); err != nil {
			return err
		}
		for _, pt := range t.Points {
			if _, err := fmt.Fprintf(w, " %d", pt.Weight); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, " %c", canonicalSep); err != nil {
			return err
		}
		for _, pt := range t.Points {
			if _, err := fmt.Fprintf(w, " %d", pt.Energy); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	for _, tr := range g.Transfers {
		if _, err := fmt.Fprintf(w, "S %d%c %d%c %d\n",
			tr.Src+basis, canonicalSep, tr.Dst+basis, canonicalSep, tr.Volume); err != nil {
			return err
		}
	}

	return nil
}
