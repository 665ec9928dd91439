// Package dotdump writes a debug synteny graph: one node per committed
// block, one edge per chromosome instance linking blocks in genomic
// order. Grounded on the teacher's GraphvizDBGArr (constructdbg.go) and
// findPath.go, which both build a gographviz.Graph the same way: name,
// strict/dir flags, then AddNode/AddEdge with a string attribute map.
package dotdump

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/awalterschulze/gographviz"

	"github.com/mudesheng/lcbfind/internal/junction"
)

type occurrence struct {
	chr, idx int
	blockID  int64
	strand   byte
}

// WriteSynteny dumps a .dot graph: one node per block id found, one
// directed edge per pair of consecutive blocks on the same chromosome.
func WriteSynteny(s *junction.Storage, path string) error {
	g := gographviz.NewGraph()
	g.SetName("G")
	g.SetDir(true)
	g.SetStrict(false)

	for id := int64(1); id <= s.BlocksFound(); id++ {
		attr := map[string]string{"shape": "ellipse", "label": strconv.FormatInt(id, 10)}
		g.AddNode("G", strconv.FormatInt(id, 10), attr)
	}

	for chr := 0; chr < s.ChrCount(); chr++ {
		var chain []occurrence
		for idx := 0; idx < s.ChrSize(chr); idx++ {
			a := s.Assignment(chr, idx)
			if !a.HasBlock {
				continue
			}
			blockID, strand := a.BlockID, byte('+')
			if blockID < 0 {
				blockID, strand = -blockID, '-'
			}
			if len(chain) == 0 || chain[len(chain)-1].blockID != blockID {
				chain = append(chain, occurrence{chr: chr, idx: idx, blockID: blockID, strand: strand})
			}
		}
		sort.SliceStable(chain, func(i, j int) bool { return chain[i].idx < chain[j].idx })
		for i := 0; i+1 < len(chain); i++ {
			attr := map[string]string{"label": fmt.Sprintf("\"chr%d\"", chr)}
			g.AddEdge(strconv.FormatInt(chain[i].blockID, 10), strconv.FormatInt(chain[i+1].blockID, 10), true, attr)
		}
	}

	fp, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("dotdump.WriteSynteny: %w", err)
	}
	defer fp.Close()
	_, err = fp.WriteString(g.String())
	return err
}
