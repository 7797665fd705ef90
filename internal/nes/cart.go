package nes

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

const (
	inesMagic        = 0x1a53454e
	prgBankSizeBytes = 0x4000
	chrBankSizeBytes = 0x2000
)

type Cart struct {
	pgrMem []uint8
	chrMem []uint8
	chrRAM bool

	pgrBanks uint8
	chrBanks uint8
	mapperID uint8
	mirror   uint8 // 0: horizontal, 1: vertical

	mapper Mapper
}

// NewCartFromFile reads a .nes file and returns a Cart struct.
// Supported NES format: iNES, mapper 0 only, with the header fields
// rejected outright rather than silently truncated when they claim a
// feature this loader doesn't model, a trainer included.
func NewCartFromFile(path string) (*Cart, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't open the file: %w", err)
	}
	defer file.Close()

	var header struct {
		Magic      uint32
		PrgRomSize uint8
		ChrRomSize uint8
		Flags6     uint8
		Flags7     uint8
		Flags8     uint8
		Flags9     uint8
		Flags10    uint8
		_          [5]uint8 // unused
	}
	if err := binary.Read(file, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("couldn't read the header: %w", err)
	}
	if header.Magic != inesMagic {
		return nil, fmt.Errorf("invalid header magic")
	}
	if header.Flags6&0x08 != 0 {
		return nil, fmt.Errorf("four-screen mirroring is not supported")
	}
	if header.Flags6&0x02 != 0 {
		return nil, fmt.Errorf("battery-backed PRG RAM is not supported")
	}
	if header.Flags7&0x03 != 0 {
		return nil, fmt.Errorf("unsupported iNES 2.0 or VS/PlayChoice header")
	}
	if header.PrgRomSize != 1 && header.PrgRomSize != 2 {
		return nil, fmt.Errorf("unsupported PRG ROM size: %d x 16KB", header.PrgRomSize)
	}
	if header.ChrRomSize > 1 {
		return nil, fmt.Errorf("unsupported CHR ROM size: %d x 8KB", header.ChrRomSize)
	}

	// the third bit of flags6 is the trainer flag
	if header.Flags6&0x4 != 0 {
		return nil, fmt.Errorf("trainer is not supported")
	}

	// flag6 and flag7 contain part of the mapper ID in 4 high bits
	// flag6: lower 4 bits of mapper ID
	// flag7: upper 4 bits of mapper ID
	mapperID := (header.Flags7 & 0xf0) | (header.Flags6 >> 4)
	if mapperID != 0 {
		return nil, fmt.Errorf("unsupported mapper: %d", mapperID)
	}

	cart := &Cart{
		pgrMem:   make([]uint8, int(header.PrgRomSize)*prgBankSizeBytes),
		pgrBanks: header.PrgRomSize,
		chrBanks: header.ChrRomSize,
		mapperID: mapperID,
		mirror:   header.Flags6 & 0x1,
	}

	if n, err := io.ReadFull(file, cart.pgrMem); n != len(cart.pgrMem) || err != nil {
		if err == nil {
			err = fmt.Errorf("expected %d bytes, read %d bytes", len(cart.pgrMem), n)
		}
		return nil, fmt.Errorf("couldn't read PRG ROM: %w", err)
	}

	if header.ChrRomSize == 0 {
		cart.chrRAM = true
		cart.chrMem = make([]uint8, chrBankSizeBytes)
	} else {
		cart.chrMem = make([]uint8, int(header.ChrRomSize)*chrBankSizeBytes)
		if n, err := io.ReadFull(file, cart.chrMem); n != len(cart.chrMem) || err != nil {
			if err == nil {
				err = fmt.Errorf("expected %d bytes, read %d bytes", len(cart.chrMem), n)
			}
			return nil, fmt.Errorf("couldn't read CHR ROM: %w", err)
		}
	}

	cart.mapper = NewMapper(cart)
	return cart, nil
}

func (c *Cart) Read8(addr uint16) uint8 {
	return c.mapper.Read8(addr)
}

func (c *Cart) Write8(addr uint16, data uint8) {
	c.mapper.Write8(addr, data)
}
