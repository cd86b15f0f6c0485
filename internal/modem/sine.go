package modem

// sineTable holds the first quarter wave of an 8-bit-centered sine (mid-scale
// 128, peak 255). Full-period reconstruction is done by sinSample through
// quadrant reflection; the folding logic is never inlined at call sites so it
// stays independently testable.
var sineTable = [SinLen / 4]byte{
	128, 129, 131, 132, 134, 135, 137, 138, 140, 142, 143, 145, 146, 148, 149, 151,
	152, 154, 155, 157, 158, 160, 162, 163, 165, 166, 167, 169, 170, 172, 173, 175,
	176, 178, 179, 181, 182, 183, 185, 186, 188, 189, 190, 192, 193, 194, 196, 197,
	198, 200, 201, 202, 203, 205, 206, 207, 208, 210, 211, 212, 213, 214, 215, 217,
	218, 219, 220, 221, 222, 223, 224, 225, 226, 227, 228, 229, 230, 231, 232, 233,
	234, 234, 235, 236, 237, 238, 238, 239, 240, 241, 241, 242, 243, 243, 244, 245,
	245, 246, 246, 247, 248, 248, 249, 249, 250, 250, 250, 251, 251, 252, 252, 252,
	253, 253, 253, 253, 254, 254, 254, 254, 254, 255, 255, 255, 255, 255, 255, 255,
}

// sinSample returns the DDS output for phase index i, taken modulo SinLen,
// reconstructing the full period from the quarter-wave table by reflection.
func sinSample(i uint16) byte {
	i %= SinLen
	folded := i % (SinLen / 2)
	if folded >= SinLen/4 {
		folded = SinLen/2 - folded - 1
	}
	sine := sineTable[folded]
	if i >= SinLen/2 {
		return 255 - sine
	}
	return sine
}
