package digital

// GenerateUART synthesizes an idle-high UART line carrying data.
//
// The anchor sits at time 0 with the line high. Each byte starts gap
// seconds after the previous one: a low start bit, eight data bits LSB
// first, then a high stop bit.
func GenerateUART(baud int, gap float64, data ...byte) *Timeline {
	tl := &Timeline{
		initialState: true,
		transitions:  make([]float64, 0, 1+len(data)*10),
	}
	tl.transitions = append(tl.transitions, 0)

	bitTime := 1.0 / float64(baud)
	next := gap

	for _, b := range data {
		current := next
		next += gap

		// H->L start bit
		tl.transitions = append(tl.transitions, current)

		level := false
		for i := 0; i < 8; i++ {
			current += bitTime
			if (b&(1<<i) != 0) != level {
				tl.transitions = append(tl.transitions, current)
				level = !level
			}
		}

		if !level {
			tl.transitions = append(tl.transitions, current+bitTime)
		}
	}

	return tl
}
