package storage

import (
	"encoding/binary"
	"fmt"

	"github.com/hupe1980/roadgraph/internal/hash"
)

// Image file layout (little endian):
//
//	magic "RGDA" | segmentSize u32 | segments u32 | compression u8 | 3 pad
//	header HeaderInts × int32
//	one block per segment
//	crc32c u32 over everything before it
const (
	imageMagic      = "RGDA"
	imagePreamble   = 16 + HeaderInts*4
	imageTrailerLen = 4
)

// Image is a decoded copy of a data access.
type Image struct {
	SegmentSize int
	Header      [HeaderInts]int32
	Segments    [][]byte
}

// Encode serializes the full capacity and header of da.
func Encode(da DataAccess, c Compression) ([]byte, error) {
	var header [HeaderInts]int32
	for i := range header {
		header[i] = da.GetHeader(i)
	}
	return EncodeWithHeader(da, header, c)
}

// EncodeWithHeader serializes the full capacity of da with header in place
// of the stored one. It only reads da.
func EncodeWithHeader(da DataAccess, header [HeaderInts]int32, c Compression) ([]byte, error) {
	size := da.SegmentSize()
	count := da.Segments()

	out := make([]byte, 0, imagePreamble+count*(size/2+blockHeaderSize)+imageTrailerLen)
	out = append(out, imageMagic...)
	out = binary.LittleEndian.AppendUint32(out, uint32(size))
	out = binary.LittleEndian.AppendUint32(out, uint32(count))
	out = append(out, byte(c), 0, 0, 0)
	for _, v := range header {
		out = binary.LittleEndian.AppendUint32(out, uint32(v))
	}

	buf := make([]byte, size)
	var err error
	for i := range count {
		da.GetBytes(int64(i)*int64(size), buf)
		if out, err = appendBlock(out, buf, c); err != nil {
			return nil, fmt.Errorf("storage: encode %s segment %d: %w", da.Name(), i, err)
		}
	}

	return binary.LittleEndian.AppendUint32(out, hash.CRC32C(out)), nil
}

// Decode parses and verifies an encoded image.
func Decode(raw []byte) (*Image, error) {
	if len(raw) < imagePreamble+imageTrailerLen {
		return nil, fmt.Errorf("%w: image too small (%d bytes)", ErrCorrupt, len(raw))
	}

	body := raw[:len(raw)-imageTrailerLen]
	if err := hash.Verify("image", body, binary.LittleEndian.Uint32(raw[len(body):])); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if string(body[:4]) != imageMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrCorrupt, body[:4])
	}

	size := int(binary.LittleEndian.Uint32(body[4:]))
	if size < MinSegmentSize || NormalizeSegmentSize(size) != size {
		return nil, fmt.Errorf("%w: segment size %d", ErrCorrupt, size)
	}
	count := int(binary.LittleEndian.Uint32(body[8:]))
	c := Compression(body[12])

	rest := body[imagePreamble:]
	if count > len(rest)/blockHeaderSize {
		return nil, fmt.Errorf("%w: %d segments in %d bytes", ErrCorrupt, count, len(rest))
	}

	img := &Image{SegmentSize: size, Segments: make([][]byte, 0, count)}
	for i := range HeaderInts {
		img.Header[i] = int32(binary.LittleEndian.Uint32(body[16+i*4:]))
	}

	for i := range count {
		seg := make([]byte, size)
		var err error
		if rest, err = readBlock(rest, seg, c); err != nil {
			return nil, fmt.Errorf("%w: segment %d: %w", ErrCorrupt, i, err)
		}
		img.Segments = append(img.Segments, seg)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, len(rest))
	}

	return img, nil
}

// Capacity returns the number of bytes held by the image.
func (img *Image) Capacity() int64 {
	return int64(len(img.Segments)) * int64(img.SegmentSize)
}

// CopyTo writes the image into a created data access. The target may use a
// different segment size.
func (img *Image) CopyTo(da DataAccess) error {
	if _, err := da.EnsureCapacity(img.Capacity()); err != nil {
		return err
	}
	for i, seg := range img.Segments {
		da.SetBytes(int64(i)*int64(img.SegmentSize), seg)
	}
	for i, v := range img.Header {
		da.SetHeader(i, v)
	}
	return nil
}
