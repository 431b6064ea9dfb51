package output

import (
	"sync/atomic"

	"github.com/bytedance/gopkg/lang/mcache"
)

// Block is a fixed-capacity byte buffer leased from a BlockPool. The
// populated region is arr[start:end]. A block must be pinned while an
// in-flight async I/O references its backing array, and unpinned exactly
// once before it is returned to the pool.
type Block struct {
	arr   []byte
	start int
	end   int
	pins  int32
}

// Bytes returns the populated region of the block.
func (b *Block) Bytes() []byte { return b.arr[b.start:b.end] }

// Len returns the number of populated bytes.
func (b *Block) Len() int { return b.end - b.start }

// Cap returns the block's total capacity.
func (b *Block) Cap() int { return len(b.arr) }

// Avail returns the remaining, unpopulated capacity.
func (b *Block) Avail() int { return len(b.arr) - b.end }

// Pin marks the block as referenced by an in-flight async I/O.
func (b *Block) Pin() { atomic.AddInt32(&b.pins, 1) }

// Unpin releases one reference taken by Pin. It is safe to call on a block
// that was never pinned (e.g. one rolled back before any I/O touched it).
func (b *Block) Unpin() { atomic.AddInt32(&b.pins, -1) }

// Pinned reports whether the block currently has any outstanding pins.
func (b *Block) Pinned() bool { return atomic.LoadInt32(&b.pins) > 0 }

// reset clears the block so it carries no stale state back into the pool.
func (b *Block) reset() {
	b.start = 0
	b.end = 0
	atomic.StoreInt32(&b.pins, 0)
}

// mcacheBlockPool leases blocks backed by bytedance/gopkg's size-classed
// byte-array cache, mirroring network/writer.go's use of
// mcache.Malloc/mcache.Free for its node pool.
type mcacheBlockPool struct{}

// NewBlockPool returns the default BlockPool, backed by mcache.
func NewBlockPool() BlockPool { return mcacheBlockPool{} }

func (mcacheBlockPool) Lease(min int) *Block {
	return &Block{arr: mcache.Malloc(min)}
}

func (mcacheBlockPool) Return(b *Block) {
	mcache.Free(b.arr)
	b.arr = nil
	b.reset()
}

// splitIntoBlocks copies buf into ceil(len(buf)/blockCap) pool-leased
// blocks, filling each up to min(blockCap, remaining). Besides the pool
// leases it allocates only the returned slice, and it runs before the
// caller takes the lock so the critical section does no leasing or copying.
func splitIntoBlocks(pool BlockPool, buf []byte, blockCap int) []*Block {
	if len(buf) == 0 {
		return nil
	}
	n := (len(buf) + blockCap - 1) / blockCap
	blocks := make([]*Block, 0, n)
	for off := 0; off < len(buf); {
		take := len(buf) - off
		if take > blockCap {
			take = blockCap
		}
		blk := pool.Lease(blockCap)
		blk.start = 0
		blk.end = copy(blk.arr[:take], buf[off:off+take])
		blocks = append(blocks, blk)
		off += take
	}
	return blocks
}
