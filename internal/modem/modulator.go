package modem

// switchTone flips between the two Bell 202 tone increments.
func switchTone(inc uint16) uint16 {
	if inc == MarkInc {
		return SpaceInc
	}
	return MarkInc
}

// txStart arms transmission. It is idempotent while already sending: a
// repeated call re-arms trailerLen (so a write mid-transmission extends the
// trailer) without perturbing phaseInc, phaseAcc, or stuffCnt.
func (m *Modem) txStart() {
	if !m.sending.Load() {
		m.phaseInc = MarkInc
		m.phaseAcc = 0
		m.stuffCnt = 0
		m.sending.Store(true)
		m.preambleLen = m.opts.preambleLen()
		if m.opts.StartDAC != nil {
			m.opts.StartDAC()
		}
	}
	m.trailerLen.Store(int32(m.opts.trailerLen()))
}

// stopSending clears the sending flag and lets the configured driver hook
// stop the DAC sample interrupt; NextSample returns 0 on the call that
// triggers this.
func (m *Modem) stopSending() {
	m.sending.Store(false)
	if m.opts.StopDAC != nil {
		m.opts.StopDAC()
	}
}

// Sending reports whether the DAC interrupt is currently producing samples.
func (m *Modem) Sending() bool {
	return m.sending.Load()
}

// NextSample is the DAC interrupt callback: one DDS step per call, with a
// full HDLC bit-stuffing and NRZI encoding decision made once every
// DACSamplesPerBit calls. It must complete well within one sample period.
func (m *Modem) NextSample() byte {
	if m.opts.DebugStrobe != nil {
		m.opts.DebugStrobe(true)
		defer m.opts.DebugStrobe(false)
	}

	if m.sampleCount == 0 {
		if m.txBit == 0 {
			if m.txFIFO.isEmpty() && m.trailerLen.Load() == 0 {
				m.stopSending()
				return 0
			}

			if !m.bitStuff {
				m.stuffCnt = 0
			}
			m.bitStuff = true

			switch {
			case m.preambleLen > 0:
				m.preambleLen--
				m.currOut = HDLCFlag
			case !m.txFIFO.isEmpty():
				b, _ := m.txFIFO.pop()
				m.currOut = b
			default:
				m.trailerLen.Add(-1)
				m.currOut = HDLCFlag
			}

			if m.currOut == AX25Esc {
				// The escape marks the following queue byte as literal data.
				if m.txFIFO.isEmpty() {
					m.stopSending()
					return 0
				}
				b, _ := m.txFIFO.pop()
				m.currOut = b
			} else if m.currOut == HDLCFlag || m.currOut == HDLCReset {
				// Unescaped flag/reset passes unstuffed - that's what makes
				// it recognizable as a delimiter.
				m.bitStuff = false
			}

			m.txBit = 0x01
		}

		if m.bitStuff && m.stuffCnt >= BitStuffLen {
			m.stuffCnt = 0
			m.phaseInc = switchTone(m.phaseInc)
			if m.opts.OnBitStuff != nil {
				m.opts.OnBitStuff()
			}
		} else {
			if m.currOut&m.txBit != 0 {
				m.stuffCnt++
			} else {
				m.stuffCnt = 0
				m.phaseInc = switchTone(m.phaseInc)
			}
			m.txBit <<= 1
		}

		m.sampleCount = DACSamplesPerBit
	}

	m.phaseAcc = (m.phaseAcc + m.phaseInc) % SinLen
	m.sampleCount--
	return sinSample(m.phaseAcc)
}
