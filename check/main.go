package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/zeebo/errs"
	"github.com/zeebo/pcg"
	"github.com/zeebo/settle"
)

var (
	boards = flag.Int("boards", 100000, "number of random boards")
	bands  = flag.Int("bands", 2, "bands per board")
	fill   = flag.Int("fill", 40, "percent chance each cell is filled")
	out    = flag.String("out", "", "dump the boards to a board list file")

	rng pcg.T
)

func chance(pct int) bool { return rng.Uint32n(100) < uint32(pct) }

func stats() {
	defer fmt.Println()

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer tw.Flush()
}

func main() {
	flag.Parse()

	defer stats()

	if err := run(); err != nil {
		log.Fatalf("%+v", err)
	}
}

func randomBoard() settle.Board {
	b, err := settle.NewBoard(*bands)
	if err != nil {
		panic(err)
	}
	for row := 0; row < b.Rows(); row++ {
		for col := 0; col < 10; col++ {
			if chance(*fill) {
				b.Fill(row, col)
			}
		}
	}
	return b
}

var shapes = []settle.Shape{
	settle.I, settle.J, settle.L, settle.O, settle.S, settle.T, settle.Z,
}

func run() error {
	var (
		kept      []settle.Board
		culled    int
		reqs      []settle.Request
		seqTotals []int
	)

	progress := *boards / 10
	for i := 0; i < *boards; i++ {
		if progress > 0 && i > 0 && i%progress == 0 {
			fmt.Printf("progress: %0.2f\n", 100*float64(i)/float64(*boards))
			stats()
		}

		b := randomBoard()
		if b.HasIsolatedCell() || b.HasImbalancedSplit() {
			culled++
			continue
		}
		kept = append(kept, b)

		for _, s := range shapes {
			p := settle.Place(b, s)
			reqs = append(reqs, settle.Request{Board: b, Shape: s})
			seqTotals = append(seqTotals, p.Count())

			for _, pc := range p.Pieces() {
				if pc.Row < 0 || pc.Row >= b.Rows() || pc.Col < 0 || pc.Col >= 10 {
					return errs.New("placement out of range: %+v on\n%v", pc, b)
				}
				if after := b.Place(pc); after.Count() != b.Count()+4 {
					return errs.New("placement overlaps the board: %+v on\n%v", pc, b)
				}
			}
		}
	}

	fmt.Printf("culled %d/%d boards, %d placement queries\n", culled, *boards, len(reqs))

	batch, err := settle.PlaceBatch(context.Background(), reqs)
	if err != nil {
		return errs.Wrap(err)
	}
	for i, p := range batch {
		if p.Count() != seqTotals[i] {
			return errs.New("batch result %d: got %d placements, want %d",
				i, p.Count(), seqTotals[i])
		}
	}
	fmt.Printf("batch matched %d sequential queries\n", len(batch))

	if *out != "" {
		if err := dump(kept); err != nil {
			return err
		}
	}

	return nil
}

func dump(kept []settle.Board) error {
	fh, err := os.Create(*out)
	if err != nil {
		return errs.Wrap(err)
	}
	defer fh.Close()

	l, err := settle.CreateBoardList(fh, *bands)
	if err != nil {
		return err
	}
	for _, b := range kept {
		if err := l.Append(b); err != nil {
			return err
		}
	}
	if err := l.Close(); err != nil {
		return err
	}

	got, err := settle.ReadBoardList(fh)
	if err != nil {
		return err
	}
	if len(got) != len(kept) {
		return errs.New("read back %d boards, wrote %d", len(got), len(kept))
	}
	for i := range got {
		if got[i] != kept[i] {
			return errs.New("board %d changed on disk:\n%v\nbecame:\n%v", i, kept[i], got[i])
		}
	}
	fmt.Printf("dumped and verified %d boards in %s\n", len(kept), *out)

	return nil
}
