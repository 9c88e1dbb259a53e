/*
NAME
  packer.go

DESCRIPTION
  packer.go assembles one encoded frame's bits: the frame header, each
  of the six audio blocks (block switch/dither flags, dynamic range,
  rematrixing, exponents and mantissas), the trailing auxdata/reserved
  bits, zero-padding out to the frame's word-aligned size, and the
  CRC-16 protecting the first 5/8 and the last 3/8 of the frame.

  NOTE ON GROUNDING: channel bandwidth codes are not transmitted; each
  channel's coefficient count is fixed once per Encoder instance. The
  bit-allocation parameter codes and SNR offsets are written once per
  frame, in block 0, while the baie and snroffste flags are set in
  every block. Field order and
  bit widths otherwise follow a52enc.c's output_frame_header/
  output_audio_blocks. The crc1 placeholder is solved for with
  crcPrefixValue (bitwriter.go) so it self-cancels under a decoder's
  forward CRC the same way the reference encoder's placeholder does.

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

const syncWord = 0x0b77

// packFrame assembles and returns the complete byte-padded, CRC-protected
// frame for f. f.FrameSize must already be set (in 16-bit words) by the
// bit-allocation search.
func packFrame(f *FrameState, cfg *EncoderConfig, r *resolved) ([]byte, error) {
	w := newBitWriter(make([]byte, 0, f.FrameSize*2+8))

	packFrameHeader(w, f, cfg, r)
	for b := 0; b < numBlocks; b++ {
		packAudioBlock(w, f, b, r)
	}
	w.WriteBit(false) // auxdatae
	w.WriteBit(false) // crcrsv
	w.Flush()

	if err := w.PadTo(f.FrameSize * 2); err != nil {
		return nil, err
	}
	data := w.Bytes()
	patchCRC(data, f.FrameSize)
	return data, nil
}

// packFrameHeader writes the bitstream-information header, following
// output_frame_header's field order.
func packFrameHeader(w *bitWriter, f *FrameState, cfg *EncoderConfig, r *resolved) {
	w.WriteBits(syncWord, 16)
	w.WriteBits(0, 16) // crc1, backpatched by patchCRC
	w.WriteBits(uint32(r.fscod), 2)
	w.WriteBits(uint32(f.FrmSizeCod), 6)
	w.WriteBits(uint32(r.bsid), 5)
	w.WriteBits(0, 3) // bsmod: main audio service, complete main
	w.WriteBits(uint32(r.acmod), 3)

	switch r.acmod {
	case ACMod3_0:
		w.WriteBits(uint32(cfg.Meta.CMixLev), 2)
	case ACMod2_1:
		w.WriteBits(uint32(cfg.Meta.SurMixLev), 2)
	case ACMod3_1:
		w.WriteBits(uint32(cfg.Meta.CMixLev), 2)
		w.WriteBits(uint32(cfg.Meta.SurMixLev), 2)
	case ACMod2_2:
		w.WriteBits(uint32(cfg.Meta.SurMixLev), 2)
	case ACMod3_2:
		w.WriteBits(uint32(cfg.Meta.CMixLev), 2)
		w.WriteBits(uint32(cfg.Meta.SurMixLev), 2)
	case ACMod2_0:
		w.WriteBits(uint32(cfg.Meta.DSurMod), 2)
	}

	w.WriteBit(r.lfeChannel >= 0)
	w.WriteBits(uint32(cfg.Meta.DialNorm), 5)
	w.WriteBit(false) // compre
	w.WriteBit(false) // langcode
	w.WriteBit(false) // audprodie

	w.WriteBit(cfg.Meta.XBSI1E)
	if cfg.Meta.XBSI1E {
		w.WriteBits(uint32(cfg.Meta.DMixMod), 2)
		w.WriteBits(uint32(cfg.Meta.LtRtCMixLev), 3)
		w.WriteBits(uint32(cfg.Meta.LtRtSMixLev), 3)
		w.WriteBits(uint32(cfg.Meta.LoRoCMixLev), 3)
		w.WriteBits(uint32(cfg.Meta.LoRoSMixLev), 3)
	}
	w.WriteBit(cfg.Meta.XBSI2E)
	if cfg.Meta.XBSI2E {
		w.WriteBits(uint32(cfg.Meta.DSurExMod), 2)
		w.WriteBits(uint32(cfg.Meta.DHeadphonMod), 2)
		w.WriteBits(uint32(cfg.Meta.ADConvType), 1)
		w.WriteBits(0, 9) // reserved
	}
	w.WriteBit(false) // timecod1e
	w.WriteBit(false) // timecod2e
	w.WriteBit(false) // addbsie
}

// packAudioBlock writes one of the frame's six audio blocks, following
// output_audio_blocks's field order.
func packAudioBlock(w *bitWriter, f *FrameState, b int, r *resolved) {
	blk := &f.Blocks[b]
	nChannels := r.nChannels

	for ch := 0; ch < nChannels; ch++ {
		w.WriteBit(blk.BlkSw[ch])
	}
	for ch := 0; ch < nChannels; ch++ {
		w.WriteBit(blk.DithFlag[ch])
	}

	w.WriteBit(true) // dynrnge: a dynamic range value rides every block
	w.WriteBits(uint32(blk.DynRng), 8)

	w.WriteBit(b == 0) // cplstre: block 0 carries the coupling strategy
	if b == 0 {
		w.WriteBit(false) // cplinu: no coupling channel in this encoder
	}

	if r.acmod == ACMod2_0 {
		w.WriteBit(blk.RematStr)
		if blk.RematStr {
			for bnd := 0; bnd < 4; bnd++ {
				w.WriteBit(blk.RematFlag[bnd])
			}
		}
	}

	for ch := 0; ch < nChannels; ch++ {
		w.WriteBits(0, 2) // deltbae: delta bit allocation not supported
	}

	for ch := 0; ch < nChannels; ch++ {
		w.WriteBits(uint32(blk.ExpStrategy[ch]), 2)
		if blk.ExpStrategy[ch] != expReuse {
			packGroupedExponents(w, &blk.GrpExp[ch], blk.NExpGrps[ch])
		}
	}
	if r.lfeChannel >= 0 {
		newLFE := blk.ExpStrategy[r.lfeChannel] != expReuse
		w.WriteBit(newLFE)
		if newLFE {
			packGroupedExponents(w, &blk.GrpExp[r.lfeChannel], blk.NExpGrps[r.lfeChannel])
		}
	}

	w.WriteBit(true) // baie: set in every block; the parameter codes follow in block 0 only
	if b == 0 {
		w.WriteBits(uint32(f.SDecayCod), 2)
		w.WriteBits(uint32(f.FDecayCod), 2)
		w.WriteBits(uint32(f.SGainCod), 2)
		w.WriteBits(uint32(f.DBKneeCod), 2)
		w.WriteBits(uint32(f.FloorCod), 3)
	}
	w.WriteBit(true) // snroffste: set in every block; the offsets follow in block 0 only
	if b == 0 {
		w.WriteBits(uint32(f.CSNROffst), 6)
		for ch := 0; ch < r.nAllChannels; ch++ {
			w.WriteBits(uint32(f.FSNROffst), 4)
			w.WriteBits(uint32(f.FGainCod), 3)
		}
	}
	w.WriteBits(0, 2) // reserved

	for ch := 0; ch < r.nAllChannels; ch++ {
		packMantissas(w, &blk.Bap[ch], &blk.QMant[ch], f.NCoefs[ch])
	}
}

// packGroupedExponents writes a channel's 4-bit DC exponent followed by
// ngrps 7-bit group codes.
func packGroupedExponents(w *bitWriter, grpExp *[85]uint8, ngrps int) {
	w.WriteBits(uint32(grpExp[0]), 4)
	for i := 1; i <= ngrps; i++ {
		w.WriteBits(uint32(grpExp[i]), 7)
	}
}

// packMantissas writes ncoefs mantissas, following quantizeMantissas'
// same grouping cadence: bap 1 and bap 2 fold three quantized values
// into one code word every third coefficient, bap 4 folds two values
// into one code word every other coefficient, and a mantissaGroupSentinel
// slot is never itself assigned bits.
func packMantissas(w *bitWriter, bap *[256]int, qmant *[256]int, ncoefs int) {
	for i := 0; i < ncoefs; i++ {
		switch b := bap[i]; b {
		case 0:
		case 1:
			if qmant[i] != mantissaGroupSentinel {
				w.WriteBits(uint32(qmant[i]), 5)
			}
		case 2:
			if qmant[i] != mantissaGroupSentinel {
				w.WriteBits(uint32(qmant[i]), 7)
			}
		case 3:
			w.WriteBits(uint32(qmant[i]), 3)
		case 4:
			if qmant[i] != mantissaGroupSentinel {
				w.WriteBits(uint32(qmant[i]), 7)
			}
		case 14:
			w.WriteBits(uint32(qmant[i]), 14)
		case 15:
			w.WriteBits(uint32(qmant[i]), 16)
		default:
			w.WriteBits(uint32(qmant[i]), b-1)
		}
	}
}

// patchCRC computes and writes the two CRC-16 words protecting a
// zero-padded frame. crc1 sits right after the sync word and protects
// the first 5/8 of the frame INCLUDING itself: a decoder recomputing
// crc16 over data[2:split] must see zero, so crc1 is set to the
// prefix value crcPrefixValue solves for, not a plain CRC of the
// following bytes. crc2 protects the remaining 3/8 and is appended
// after its own span, so a plain trailing CRC already self-cancels.
func patchCRC(data []byte, frameSizeWords int) {
	fs58 := (frameSizeWords >> 1) + (frameSizeWords >> 3)
	split := fs58 * 2

	crc1 := crcPrefixValue(data[4:split])
	data[2] = byte(crc1 >> 8)
	data[3] = byte(crc1)

	crc2 := crc16(data[split : len(data)-2])
	data[len(data)-2] = byte(crc2 >> 8)
	data[len(data)-1] = byte(crc2)
}
