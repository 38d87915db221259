package dml

import (
	"bytes"

	"github.com/pkg/errors"
)

type blockKind uint8

const (
	blockMarker     = 0x02
	blockTemplate   blockKind = 1
	blockData       blockKind = 2
	blockHeaderSize           = 4
)

func (k blockKind) String() string {
	switch k {
	case blockTemplate:
		return "template"
	case blockData:
		return "data"
	}
	return "unknown"
}

// readBlockHeader consumes the two marker bytes and the length field and
// returns the block kind with its payload size.
func readBlockHeader(c *Cursor) (blockKind, int, error) {
	marker, err := c.ReadBytes(2)
	if err != nil {
		return 0, 0, err
	}

	length, err := c.ReadUint16()
	if err != nil {
		return 0, 0, err
	}

	return blockKind(marker[1]), int(length) - blockHeaderSize, nil
}

func writeBlock(buf *bytes.Buffer, kind blockKind, payload []byte) error {
	total := len(payload) + blockHeaderSize
	if total > maxLen16 {
		return errors.Wrapf(ErrValueTooLong, "%s block of %d bytes", kind, total)
	}

	buf.WriteByte(blockMarker)
	buf.WriteByte(byte(kind))
	writeUint16(buf, uint16(total))
	buf.Write(payload)
	return nil
}
