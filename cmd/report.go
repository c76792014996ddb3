package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"

	sim "github.com/AugustRoad/K-V-Cache-Memory-Manager/sim"
)

// printSnapshot renders one pool status snapshot as a table of live
// sequences plus a utilization line.
func printSnapshot(snap sim.StatusSnapshot) {
	fmt.Printf("--- status after step %d ---\n", snap.AfterStep)
	fmt.Printf("Free blocks: %d/%d (utilization %.1f%%)\n",
		snap.Pool.Free, snap.Pool.Total, snap.Pool.Utilization*100)
	if len(snap.Sequences) == 0 {
		fmt.Println("No active sequences")
		return
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Sequence", "Tokens", "Blocks"})
	for _, s := range snap.Sequences {
		table.Append([]string{s.ID, strconv.Itoa(s.Tokens), strconv.Itoa(s.Blocks)})
	}
	table.Render()
}
