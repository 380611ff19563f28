package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Block format: [uncompressed uint32][compressed uint32][payload].
// A compressed size of 0 marks a raw payload.
const blockHeaderSize = 8

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() (*zstd.Encoder, error) {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}
	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil)
}

// appendBlock appends data to dst as one block. Blocks that do not shrink
// below 90% of their size are stored raw.
func appendBlock(dst, data []byte, c Compression) ([]byte, error) {
	var compressed []byte

	switch c {
	case CompressionNone:
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, fmt.Errorf("lz4: %w", err)
		}
		compressed = buf[:n]
	case CompressionZSTD:
		enc, err := getZstdEncoder()
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		compressed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, fmt.Errorf("%w: unknown compression %d", ErrInvalidConfig, c)
	}

	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(data)))
	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		dst = binary.LittleEndian.AppendUint32(dst, 0)
		return append(dst, data...), nil
	}
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(compressed)))
	return append(dst, compressed...), nil
}

// readBlock decodes the block at the start of src into dst, which must be
// exactly the uncompressed size, and returns the remaining input.
func readBlock(src, dst []byte, c Compression) ([]byte, error) {
	if len(src) < blockHeaderSize {
		return nil, errors.New("block too small for header")
	}
	size := binary.LittleEndian.Uint32(src[0:])
	csize := binary.LittleEndian.Uint32(src[4:])
	src = src[blockHeaderSize:]

	if int(size) != len(dst) {
		return nil, fmt.Errorf("block size %d, want %d", size, len(dst))
	}

	if csize == 0 {
		if len(src) < int(size) {
			return nil, errors.New("block data too small")
		}
		copy(dst, src[:size])
		return src[size:], nil
	}

	if len(src) < int(csize) {
		return nil, errors.New("compressed block data too small")
	}
	payload := src[:csize]

	switch c {
	case CompressionLZ4:
		n, err := lz4.UncompressBlock(payload, dst)
		if err != nil {
			return nil, fmt.Errorf("lz4: %w", err)
		}
		if n != len(dst) {
			return nil, errors.New("decompressed size mismatch")
		}
	case CompressionZSTD:
		dec, err := getZstdDecoder()
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		decoded, err := dec.DecodeAll(payload, dst[:0])
		zstdDecoderPool.Put(dec)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		if len(decoded) != len(dst) {
			return nil, errors.New("decompressed size mismatch")
		}
		copy(dst, decoded)
	default:
		return nil, fmt.Errorf("compressed block with compression %s", c)
	}

	return src[csize:], nil
}
