package domain

type TransmitStatus string

const (
	StatusIdle      TransmitStatus = "idle"
	StatusTalking   TransmitStatus = "talking"
	StatusReceiving TransmitStatus = "receiving"
)

func (s TransmitStatus) Label() string {
	switch s {
	case StatusIdle, "":
		return "STANDBY"
	case StatusTalking:
		return "TRANSMITTING"
	case StatusReceiving:
		return "RECEIVING"
	default:
		return string(s)
	}
}
