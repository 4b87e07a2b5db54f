package gpu

// CopyPitchAlignment is the row pitch alignment WebGPU requires for
// texture-to-buffer copies.
const CopyPitchAlignment = 256

// AlignedBytesPerRow returns the padded row pitch for an RGBA8/BGRA8 image of
// the given width.
func AlignedBytesPerRow(width uint32) uint32 {
	bytesPerRow := width * 4
	return (bytesPerRow + CopyPitchAlignment - 1) &^ (CopyPitchAlignment - 1)
}

// StripRowPadding copies h rows of width*4 bytes out of a readback buffer
// whose rows are pitch bytes apart. src is returned as is when there is no
// padding.
func StripRowPadding(src []byte, width, height, pitch uint32) []byte {
	bytesPerRow := width * 4
	if pitch == bytesPerRow {
		return src[:int(bytesPerRow)*int(height)]
	}
	tight := make([]byte, int(bytesPerRow)*int(height))
	for row := uint32(0); row < height; row++ {
		srcOff := int(row) * int(pitch)
		dstOff := int(row) * int(bytesPerRow)
		copy(tight[dstOff:dstOff+int(bytesPerRow)], src[srcOff:srcOff+int(bytesPerRow)])
	}
	return tight
}

// ConvertBGRAToRGBA swaps the red and blue channels of n pixels from src
// into dst. src and dst may alias.
func ConvertBGRAToRGBA(src, dst []byte, n int) {
	for i := 0; i < n; i++ {
		o := i * 4
		b, g, r, a := src[o], src[o+1], src[o+2], src[o+3]
		dst[o], dst[o+1], dst[o+2], dst[o+3] = r, g, b, a
	}
}
