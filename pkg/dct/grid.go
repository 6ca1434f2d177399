package dct

import (
	"runtime"
	"sync"
)

// Grid holds one image plane split into 8x8 blocks. The plane is zero-padded
// on the right and bottom to a multiple of the block size; blocks are
// enumerated in row-major order over the padded plane.
type Grid struct {
	blocks []Block
	means  []float32 // spatial mean per block, captured at construction

	origW, origH int
	padW, padH   int
}

// NewGrid splits a row-major float32 plane of size w x h into blocks.
// The plane is copied; the input slice is not retained.
func NewGrid(plane []float32, w, h int) *Grid {
	padW := (w + BlockSize - 1) / BlockSize * BlockSize
	padH := (h + BlockSize - 1) / BlockSize * BlockSize
	bw := padW / BlockSize
	bh := padH / BlockSize

	g := &Grid{
		blocks: make([]Block, bw*bh),
		means:  make([]float32, bw*bh),
		origW:  w,
		origH:  h,
		padW:   padW,
		padH:   padH,
	}

	for by := 0; by < bh; by++ {
		for bx := 0; bx < bw; bx++ {
			blk := &g.blocks[by*bw+bx]
			var sum float64
			for y := 0; y < BlockSize; y++ {
				sy := by*BlockSize + y
				if sy >= h {
					break // padded rows stay zero
				}
				for x := 0; x < BlockSize; x++ {
					sx := bx*BlockSize + x
					if sx >= w {
						break
					}
					v := plane[sy*w+sx]
					blk[y*BlockSize+x] = v
					sum += float64(v)
				}
			}
			g.means[by*bw+bx] = float32(sum / blockSamples)
		}
	}
	return g
}

// Len returns the number of blocks in the grid.
func (g *Grid) Len() int {
	return len(g.blocks)
}

// Block returns a pointer to block i.
func (g *Grid) Block(i int) *Block {
	return &g.blocks[i]
}

// Mean returns the spatial mean of block i as captured at construction,
// before any transform ran. Zero padding counts toward the mean, matching
// the activity mask's view of border blocks.
func (g *Grid) Mean(i int) float32 {
	return g.means[i]
}

// TransformAll applies the forward DCT to every block.
func (g *Grid) TransformAll() {
	g.apply(FDCT)
}

// InverseAll applies the inverse DCT to every block.
func (g *Grid) InverseAll() {
	g.apply(IDCT)
}

// apply runs fn over all blocks with a bounded worker pool. Blocks are
// independent, so the result is identical to serial application.
func (g *Grid) apply(fn func(*Block)) {
	workers := runtime.GOMAXPROCS(0)
	if workers > len(g.blocks) {
		workers = len(g.blocks)
	}
	if workers <= 1 {
		for i := range g.blocks {
			fn(&g.blocks[i])
		}
		return
	}

	var wg sync.WaitGroup
	chunk := (len(g.blocks) + workers - 1) / workers
	for start := 0; start < len(g.blocks); start += chunk {
		end := start + chunk
		if end > len(g.blocks) {
			end = len(g.blocks)
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				fn(&g.blocks[i])
			}
		}(start, end)
	}
	wg.Wait()
}

// Reassemble rebuilds the plane from the blocks, cropped to the original
// dimensions and clamped to [0, 255].
func (g *Grid) Reassemble() []float32 {
	bw := g.padW / BlockSize
	out := make([]float32, g.origW*g.origH)
	for y := 0; y < g.origH; y++ {
		by := y / BlockSize
		iy := y % BlockSize
		for x := 0; x < g.origW; x++ {
			bx := x / BlockSize
			v := g.blocks[by*bw+bx][iy*BlockSize+x%BlockSize]
			if v < 0 {
				v = 0
			} else if v > 255 {
				v = 255
			}
			out[y*g.origW+x] = v
		}
	}
	return out
}
