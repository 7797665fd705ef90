package nes

// Tick advances the PPU by exactly one dot. The caller (Bus) is
// responsible for calling this three times per CPU cycle.
func (p *PPU) Tick() {
	p.drainPending()

	visibleLine := p.scanline < visibleScanlines
	if visibleLine {
		if p.dot == 0 {
			p.evaluateScanline(int(p.scanline))
		}
		if p.dot >= 1 && p.dot <= 256 {
			p.renderPixel(int(p.dot-1), int(p.scanline))
		}
	}

	if p.scanline == prerenderScanline && p.dot == 1 {
		p.statusSprite0 = false
		p.statusVBlank = false
	}

	if p.scanline == vblankStartLine && p.dot == 1 {
		p.statusVBlank = true
		if p.nmiEnabled() && p.nmiOut != nil {
			p.nmiOut()
		}
	}

	if p.scanline == 0 && p.dot == 0 {
		p.scrollY = p.scrollYStart
	}

	p.advanceDot()
}

func (p *PPU) advanceDot() {
	if p.frameOdd && p.scanline == prerenderScanline && p.dot == 339 {
		p.dot += 2
	} else {
		p.dot++
	}

	if p.dot >= dotsPerScanline {
		p.dot -= dotsPerScanline
		p.scanline++
		if p.scanline >= scanlinesPerFrame {
			p.scanline = 0
			p.frameOdd = !p.frameOdd
		}
	}
}

// evaluateScanline builds the shortlist of up to 8 sprites visible on the
// given scanline, scanning OAM in index order and decoding each
// included sprite's pixel row for that line.
func (p *PPU) evaluateScanline(y int) {
	p.lineSprites = p.lineSprites[:0]

	for i := 0; i < 64; i++ {
		base := i * 4
		spriteY := int(p.oam[base])
		if y < spriteY || y >= spriteY+spriteHeight {
			continue
		}
		if len(p.lineSprites) >= maxSpritesPerLine {
			break
		}

		tile := p.oam[base+1]
		attr := p.oam[base+2]
		x := p.oam[base+3]
		flipH := bit(attr, 6)
		flipV := bit(attr, 7)
		priority := bit(attr, 5)
		paletteIdx := attr & 0x3

		row := y - spriteY
		if flipV {
			row = spriteHeight - 1 - row
		}

		patternBase := p.spritePatternBase()
		tileIndex := tile

		offset := patternBase + uint16(tileIndex)*16 + uint16(row)
		lo := p.mem.Read8(offset)
		hi := p.mem.Read8(offset + 8)

		entry := spriteScanEntry{x: x, oamIndex: i, priority: priority, pixelsSet: true}
		for col := 0; col < 8; col++ {
			bitIdx := col
			if !flipH {
				bitIdx = 7 - col
			}
			b0 := (lo >> uint(bitIdx)) & 1
			b1 := (hi >> uint(bitIdx)) & 1
			colorIdx := b0 | b1<<1
			if colorIdx == 0 {
				entry.pixels[col] = transparentPixel
			} else {
				entry.pixels[col] = 0x10 | paletteIdx<<2 | colorIdx
			}
		}
		p.lineSprites = append(p.lineSprites, entry)
	}
}

// backgroundPixel resolves the palette index the background layer wants
// to show at pixel (x, y) of the given nametable (the caller passes the
// live scroll position, not the screen coordinate), or transparentPixel if
// the pattern bit-planes are both zero.
func (p *PPU) backgroundPixel(x, y int, nametable uint8) uint8 {
	nametableAddr := 0x2000 + uint16(nametable)*nametableSizeBytes
	tileAddr := nametableAddr + uint16(y/8)*32 + uint16(x/8)
	tileIndex := p.mem.Read8(tileAddr & 0x3fff)

	attrAddr := nametableAddr + 0x3c0 + uint16(y/32)*8 + uint16(x/32)
	attrByte := p.mem.Read8(attrAddr & 0x3fff)

	quadrant := ((x % 32) / 16) + ((y%32)/16)*2
	paletteIdx := (attrByte >> uint(quadrant*2)) & 0x3

	offset := p.bgPatternBase() + uint16(tileIndex)*16 + uint16(y%8)
	lo := p.mem.Read8(offset & 0x3fff)
	hi := p.mem.Read8((offset + 8) & 0x3fff)

	bitIdx := 7 - uint(x%8)
	b0 := (lo >> bitIdx) & 1
	b1 := (hi >> bitIdx) & 1
	colorIdx := b0 | b1<<1
	if colorIdx == 0 {
		return transparentPixel
	}
	return paletteIdx<<2 | colorIdx
}

// scrollAdvance walks the per-dot scroll registers the way the hardware's
// coarse-scroll counters do: the horizontal position increments every
// dot, wrapping into a nametable-bit toggle either at the configured
// scroll start (a mid-screen split) or at the natural byte rollover.
func (p *PPU) scrollAdvance() {
	p.scrollX++
	switch {
	case p.scrollX == p.scrollXStart:
		p.scrollY++
		if p.scrollY >= 240 {
			p.scrollY = 0
			p.scrollNametable ^= 0x2
		}
		if p.scrollXStart != 0 {
			p.scrollNametable ^= 0x1
		}
	case p.scrollX == 0:
		p.scrollNametable ^= 0x1
	}
}

// renderPixel composites the background and sprite layers for one screen
// pixel and advances the background scroll state for the next dot.
func (p *PPU) renderPixel(x, y int) {
	bgIdx := p.backgroundPixel(int(p.scrollX), int(p.scrollY), p.scrollNametable)
	p.scrollAdvance()

	spriteIdx := uint8(transparentPixel)
	spritePriority := false
	for i := range p.lineSprites {
		s := &p.lineSprites[i]
		if x < int(s.x) || x >= int(s.x)+8 {
			continue
		}
		px := s.pixels[x-int(s.x)]
		if px != transparentPixel {
			spriteIdx = px
			spritePriority = s.priority
			break
		}
	}

	if !p.statusSprite0 {
		p.checkSprite0Hit(x, y, bgIdx)
	}

	pixel := bgIdx
	switch {
	case bgIdx == transparentPixel && spriteIdx != transparentPixel:
		pixel = spriteIdx
	case spriteIdx != transparentPixel && !spritePriority:
		pixel = spriteIdx
	}
	if pixel == transparentPixel {
		pixel = 0
	}

	p.frame.Set(x, y, p.ColorFromPalette(pixel>>2, pixel&0x3))
}

// checkSprite0Hit tests OAM entry 0 directly against the background pixel,
// independent of whether sprite 0 survived the 8-sprite-per-line cap.
func (p *PPU) checkSprite0Hit(x, y int, bgIdx uint8) {
	spriteY := int(p.oam[0])
	if y < spriteY || y >= spriteY+spriteHeight {
		return
	}
	spriteX := int(p.oam[3])
	if x < spriteX || x >= spriteX+8 {
		return
	}
	if bgIdx == transparentPixel {
		return
	}

	tile := p.oam[1]
	attr := p.oam[2]
	flipH := bit(attr, 6)
	flipV := bit(attr, 7)

	row := y - spriteY
	if flipV {
		row = spriteHeight - 1 - row
	}
	patternBase := p.spritePatternBase()
	tileIndex := tile
	offset := patternBase + uint16(tileIndex)*16 + uint16(row)
	lo := p.mem.Read8(offset)
	hi := p.mem.Read8(offset + 8)

	col := x - spriteX
	bitIdx := col
	if !flipH {
		bitIdx = 7 - col
	}
	b0 := (lo >> uint(bitIdx)) & 1
	b1 := (hi >> uint(bitIdx)) & 1
	if b0|b1 != 0 {
		p.statusSprite0 = true
	}
}
