package modem

// Fixed timing parameters of the AFSK1200 modem. SampleRate and Bitrate are
// compile-time invariants, not configuration: the majority-vote slicer in
// discriminator.go assumes exactly 8 samples per bit, and the phase-lock
// arithmetic assumes SampleRate is an integer multiple of Bitrate.
const (
	SampleRate = 9600 // ADC/DAC sampling interrupt rate, Hz
	Bitrate    = 1200  // Bell 202 signalling rate, bit/s

	SamplesPerBit    = SampleRate / Bitrate // 8
	DACSamplesPerBit = SampleRate / Bitrate // samples per symbol on the TX side

	SinLen = 512 // full DDS period, in phase-accumulator units

	MarkFreq  = 1200 // Hz, logical "mark" tone
	SpaceFreq = 2200 // Hz, logical "space" tone

	// MarkInc and SpaceInc are the DDS phase increments per sample for the
	// two Bell 202 tones, rounded to the nearest integer the same way the
	// original firmware's DIV_ROUND macro does.
	MarkInc  = (SinLen*MarkFreq + SampleRate/2) / SampleRate
	SpaceInc = (SinLen*SpaceFreq + SampleRate/2) / SampleRate

	PhaseBit = 8                        // units of curr_phase advanced per sample
	PhaseMax = SamplesPerBit * PhaseBit // 64, one full symbol

	BitStuffLen = 5 // consecutive ones before a stuffed zero is inserted
)

// Reserved byte values, identical on the wire and in the byte queues.
const (
	HDLCFlag  byte = 0x7E // frame delimiter
	HDLCReset byte = 0x7F // synchronization-loss marker (seven consecutive ones)
	AX25Esc   byte = 0x1B // in-band escape preceding a literal reserved byte
)

func init() {
	if SampleRate%Bitrate != 0 {
		panic("modem: SampleRate must be an integer multiple of Bitrate")
	}
	if SamplesPerBit != 8 {
		panic("modem: majority-vote slicer requires SamplesPerBit == 8")
	}
	if len(sineTable) != SinLen/4 {
		panic("modem: sine table must hold exactly one quarter wave")
	}
}
