package sps

import "fmt"

// Severity classifies a FaultCondition.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}

	return "info"
}

// Fault identifies one condition reported by the controller.
type Fault int

const (
	FaultNone Fault = iota

	// FaultPumpOff is informational: the station is switched off.
	FaultPumpOff

	// Message byte 1.
	FaultAirInrush
	FaultCircuitBreaker
	FaultPrevacuumTimeout
	FaultTCP
	FaultTurboTimeout
	FaultTPG300
	FaultRecipientTimeout
	FaultActiveCellGti

	// Message byte 2.
	FaultActiveCellPgp
	FaultTPG300CellGti
	FaultTPG300CellPgp
	FaultBypassValveSensors
	FaultBypassValveTimeout
	FaultBufferValveSensors
	FaultBufferValveTimeout
	FaultHighVacuumValveSensors

	// Message byte 3.
	FaultHighVacuumValveTimeout
	FaultVentingValveSensors
	FaultVentingValveTimeout
)

var faultText = map[Fault]string{
	FaultPumpOff:                "pumping station is off",
	FaultAirInrush:              "inrush of air Gti > 1 mbar",
	FaultCircuitBreaker:         "pump circuit breaker tripped",
	FaultPrevacuumTimeout:       "timeout prevacuum pump",
	FaultTCP:                    "fault TCP",
	FaultTurboTimeout:           "turbo timeout",
	FaultTPG300:                 "TPG300 fault",
	FaultRecipientTimeout:       "timeout pumping recipient",
	FaultActiveCellGti:          "fault measuring active cell Gti",
	FaultActiveCellPgp:          "fault measuring active cell Pgp",
	FaultTPG300CellGti:          "fault measuring TPG300 cell Gti",
	FaultTPG300CellPgp:          "fault measuring TPG300 cell Pgp",
	FaultBypassValveSensors:     "bypass valve fault sensors",
	FaultBypassValveTimeout:     "bypass valve timeout",
	FaultBufferValveSensors:     "buffer valve fault sensors",
	FaultBufferValveTimeout:     "buffer valve timeout",
	FaultHighVacuumValveSensors: "high vacuum valve fault sensors",
	FaultHighVacuumValveTimeout: "high vacuum valve timeout",
	FaultVentingValveSensors:    "venting valve fault sensors",
	FaultVentingValveTimeout:    "venting valve timeout",
}

// messageFaults maps message byte index and bit (bit 0 first) to a fault.
// FaultNone marks bits without a defined meaning.
var messageFaults = [3][8]Fault{
	{
		FaultAirInrush, FaultCircuitBreaker, FaultPrevacuumTimeout, FaultTCP,
		FaultTurboTimeout, FaultTPG300, FaultRecipientTimeout, FaultActiveCellGti,
	},
	{
		FaultActiveCellPgp, FaultTPG300CellGti, FaultTPG300CellPgp, FaultBypassValveSensors,
		FaultBypassValveTimeout, FaultBufferValveSensors, FaultBufferValveTimeout, FaultHighVacuumValveSensors,
	},
	{
		FaultHighVacuumValveTimeout, FaultVentingValveSensors, FaultVentingValveTimeout,
	},
}

func (f Fault) String() string {
	if s, ok := faultText[f]; ok {
		return s
	}

	return fmt.Sprintf("Fault(%d)", int(f))
}

// FaultCondition is one condition reported while decoding a frame.
type FaultCondition struct {
	Code     Fault
	Severity Severity
	// MessageByte is the 1-based message byte the condition came from, zero
	// for conditions not tied to a message bit.
	MessageByte int
	// Bit is the bit index inside the message byte.
	Bit int
}

// Text returns the alarm text of the condition.
func (fc FaultCondition) Text() string {
	if fc.Severity == SeverityError {
		return "**ERROR** " + fc.Code.String()
	}

	return fc.Code.String()
}

func (fc FaultCondition) String() string {
	return fc.Text()
}

// DecodeMessages returns at most one condition per message byte: the one of
// its lowest set bit. If that bit has no defined fault the byte reports
// nothing.
func DecodeMessages(msgs [3]byte) []FaultCondition {
	var out []FaultCondition

	for i, msg := range msgs {
		for bit := 0; bit < 8; bit++ {
			if msg&(1<<bit) == 0 {
				continue
			}
			if code := messageFaults[i][bit]; code != FaultNone {
				out = append(out, FaultCondition{
					Code:        code,
					Severity:    SeverityError,
					MessageByte: i + 1,
					Bit:         bit,
				})
			}

			break
		}
	}

	return out
}
