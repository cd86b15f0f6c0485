package modem

// edgeFound reports whether the two newest bits of a rolling register
// differ - i.e. whether the signal transitioned between the last two
// decisions on that register.
func edgeFound(bits byte) bool {
	return (bits^(bits>>1))&0x01 != 0
}

// ProcessSample is the ADC interrupt callback: one signed 8-bit sample in,
// frequency discrimination, IIR low-pass, majority-vote slicing, phase-
// locked symbol timing, and (at most once per decided symbol) a deframer
// invocation, all the way out. It must complete well within one sample
// period and therefore never allocates and never blocks.
func (m *Modem) ProcessSample(sample int8) {
	if m.opts.DebugStrobe != nil {
		m.opts.DebugStrobe(true)
		defer m.opts.DebugStrobe(false)
	}

	y := m.filter.Step(m.discriminate(sample))

	m.sampledBits <<= 1
	if y > 0 {
		m.sampledBits |= 1
	}

	if edgeFound(m.sampledBits) {
		if m.currPhase < PhaseMax/2 {
			m.currPhase++
		} else {
			m.currPhase--
		}
	}
	m.currPhase += PhaseBit

	if m.currPhase >= PhaseMax {
		m.currPhase %= PhaseMax
		m.decideSymbol()
	}
}

// discriminate implements the frequency discriminator: the new sample is
// multiplied by the sample from half a symbol ago and right-shifted by 2.
// Popping the delay line's oldest entry and pushing the current sample into
// its place is a single ring-buffer operation; the net effect on the line's
// contents is identical to the pop-then-push-later sequencing of the
// original.
func (m *Modem) discriminate(sample int8) int32 {
	oldest := m.delay.pushPop(sample)
	return (int32(oldest) * int32(sample)) >> 2
}

// decideSymbol runs once per symbol period: majority-vote the last three
// sliced bits, NRZI-decode against the previous decision, and hand the
// logical bit to the HDLC deframer.
func (m *Modem) decideSymbol() {
	m.foundBits <<= 1
	if majority(m.sampledBits & 0x07) {
		m.foundBits |= 1
	}

	// NRZI: same tone as last symbol means logical 1, a tone change means 0.
	logicalBit := !edgeFound(m.foundBits)

	if !m.hdlcParse(logicalBit) {
		m.setStatus(StatusRXFIFOOverrun)
	}
}

// majority reports the 3-bit majority vote used by the bit slicer: true iff
// two or more of the three newest sliced bits are 1.
func majority(bits3 byte) bool {
	switch bits3 {
	case 0x07, 0x06, 0x05, 0x03:
		return true
	default:
		return false
	}
}
