package application

import (
	"time"

	"github.com/bnema/talkie/internal/domain"
)

type JoinRoomCommand struct {
	Callsign string
	RoomCode string
	Persona  domain.VoicePersona
}

// SessionSettings carries the audio format and text templates a session runs
// with. Zero fields take the defaults.
type SessionSettings struct {
	CaptureSampleRate  int
	PlaybackSampleRate int
	Channels           int
	FrameSize          int
	Retention          time.Duration
	ReportTemplate     string
	ConnectTemplate    string
}

const (
	DefaultSampleRate      = 16000
	DefaultFrameSize       = 4096
	DefaultReportTemplate  = "%s reports: %s"
	DefaultConnectTemplate = "Operator %s connected."
)

func (s SessionSettings) withDefaults() SessionSettings {
	if s.CaptureSampleRate <= 0 {
		s.CaptureSampleRate = DefaultSampleRate
	}
	if s.PlaybackSampleRate <= 0 {
		s.PlaybackSampleRate = DefaultSampleRate
	}
	if s.Channels <= 0 {
		s.Channels = 1
	}
	if s.FrameSize <= 0 {
		s.FrameSize = DefaultFrameSize
	}
	if s.Retention <= 0 {
		s.Retention = domain.DefaultRetention
	}
	if s.ReportTemplate == "" {
		s.ReportTemplate = DefaultReportTemplate
	}
	if s.ConnectTemplate == "" {
		s.ConnectTemplate = DefaultConnectTemplate
	}
	return s
}
