// Package uart decodes asynchronous serial frames from a digital line.
//
// Frames are one start bit, DataBits data bits sent LSB first and one stop
// bit, with the line idling high (low when Invert is set). The decoder
// samples each bit in the middle of its cell and resynchronizes on the next
// real edge after every frame, which tolerates clock drift and idle gaps.
//
// Bytes whose start follows the end of the previous byte by at most two bit
// times are coalesced into a single message span. Frames with a low stop
// bit are skipped and counted in Stats.Dropped.
package uart
