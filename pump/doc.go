// Package pump drives an SPS vacuum pumping station over an [rs232] link.
//
// A [Station] is the handle shared by the read half (polling and decoding
// frames) and the write half (issuing commands) of the driver. It owns the
// [sps.Codec], the persistent outbound block and an [Accountant] that keeps
// the health counters of the link.
//
// # Polling Cycle
//
// Each call to [Station.Poll] performs one cycle:
//
//  1. If a report window has elapsed and errors were counted, a single
//     [Report] is emitted and the counters restart.
//  2. If less than the minimum poll interval has passed since the last
//     successful poll, the cached [sps.ChannelSet] is returned.
//  3. One 28-byte frame is read with the read timeout. A frame of the exact
//     size resets the attempt counter and is decoded; a decode error (for
//     example the station being off) counts as a read error.
//  4. Any other byte count counts as a read error and a read attempt; the
//     previous channel values stay visible.
//
// Transport and decode errors never escape Poll. Persistent connectivity loss
// therefore shows up as one report per window instead of one message per
// cycle.
//
// # Concurrency
//
// A Station is not goroutine-safe. [Station.Run] polls on the calling
// goroutine; callers that issue commands from another goroutine must guard
// the Station with their own mutex.
package pump
