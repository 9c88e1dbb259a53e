/*
NAME
  frame.go

DESCRIPTION
  frame.go defines the per-frame and per-block data model the rest of
  the pipeline operates on: six 256-sample audio blocks per 1536-sample
  frame, each carrying its own MDCT coefficients, exponents, bit
  allocation pointers and quantized mantissas.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package a52

const (
	maxChannels     = 7
	numBlocks       = 6
	samplesPerBlock = 256
	samplesPerFrame = numBlocks * samplesPerBlock // 1536
	maxCoefs        = 253
)

// BlockState holds everything computed for one of the six 256-sample
// audio blocks within a frame.
type BlockState struct {
	BlockNum int

	BlkSw    [maxChannels]bool
	DithFlag [maxChannels]bool

	InputSamples     [maxChannels][512]float64
	TransientSamples [maxChannels][512]float64
	MDCTCoef         [maxChannels][256]float64

	Exp         [maxChannels][256]uint8
	PSD         [maxChannels][256]int
	Mask        [maxChannels][50]int
	ExpStrategy [maxChannels]int
	NExpGrps    [maxChannels]int
	GrpExp      [maxChannels][85]uint8

	Bap   [maxChannels][256]int
	QMant [maxChannels][256]int

	RematStr  bool
	RematFlag [4]bool

	DynRng byte
}

// BitAllocParams mirrors A52BitAllocParams: the per-frame decoded
// values (decay/gain/floor) the masking-curve computation reads.
type BitAllocParams struct {
	FSCod       int
	HalfRateCod int
	SGain       int
	SDecay      int
	FDecay      int
	DBKnee      int
	Floor       int
}

// FrameState holds one full 6-block, up-to-7-channel A/52 frame: the
// input audio pulled for it, the per-block derived state, and the
// frame-level bit-allocation/frame-size bookkeeping.
type FrameState struct {
	FrameNum int
	Quality  int
	BitRate  int
	BWCode   int

	InputAudio [maxChannels][samplesPerFrame]float64
	Blocks     [numBlocks]BlockState

	FrameBits    int
	FrameSizeMin int // words
	FrameSize    int // words
	FrmSizeCod   int

	SDecayCod, FDecayCod, SGainCod, DBKneeCod, FloorCod int
	BitAlloc                                            BitAllocParams
	CSNROffst                                           int
	FGainCod                                             int
	FSNROffst                                            int

	NCoefs [maxChannels]int
}

// newFrameState allocates a FrameState with each block's number set,
// block 0 defaulting to "new rematrixing strategy", and default bit
// allocation parameter codes per frame_init.
func newFrameState() *FrameState {
	f := &FrameState{}
	for b := range f.Blocks {
		f.Blocks[b].BlockNum = b
		for ch := 0; ch < maxChannels; ch++ {
			f.Blocks[b].DithFlag[ch] = true
		}
	}
	f.Blocks[0].RematStr = true

	f.SDecayCod = 2
	f.FDecayCod = 1
	f.SGainCod = 1
	f.DBKneeCod = 2
	f.FloorCod = 7
	f.FGainCod = 3
	return f
}
