// Package spssim simulates the basic unit of an SPS pumping station
// controller on a TCP port.
//
// Every connected client receives the current 28-byte frame once per
// interval. Blocks written by a client are read as outbound command blocks;
// byte 24 is applied to the simulated station:
//
//	start   station on, turbo at nominal speed
//	stop    station off, turbo stopped
//	lock    status byte 2 bit 0 set
//	unlock  status byte 2 bit 0 cleared
//	reset   message bytes cleared
//
// The simulator is meant for tests and bench work, not for production use.
package spssim
