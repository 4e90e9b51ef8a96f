package domain

// PlaybackStatus is the lifecycle state of an animated reveal.
type PlaybackStatus string

const (
	PlaybackIdle     PlaybackStatus = "idle"
	PlaybackPlaying  PlaybackStatus = "playing"
	PlaybackComplete PlaybackStatus = "complete"
	PlaybackStopped  PlaybackStatus = "stopped"
)

// PlaybackEvent moves a playback between states.
type PlaybackEvent string

const (
	PlaybackStart  PlaybackEvent = "start"
	PlaybackFinish PlaybackEvent = "finish"
	PlaybackStop   PlaybackEvent = "stop"
	PlaybackReplay PlaybackEvent = "replay"
)

// PlaybackTransition defines a valid state change: an event moves a playback
// from Src to Dst.
type PlaybackTransition struct {
	Event PlaybackEvent
	Src   PlaybackStatus
	Dst   PlaybackStatus
}

// PlaybackTransitions defines all valid state changes of a playback.
// This is domain knowledge consumed by the FSM adapter.
var PlaybackTransitions = []PlaybackTransition{
	{Event: PlaybackStart, Src: PlaybackIdle, Dst: PlaybackPlaying},
	{Event: PlaybackFinish, Src: PlaybackPlaying, Dst: PlaybackComplete},
	{Event: PlaybackStop, Src: PlaybackPlaying, Dst: PlaybackStopped},
	{Event: PlaybackReplay, Src: PlaybackComplete, Dst: PlaybackPlaying},
	{Event: PlaybackReplay, Src: PlaybackStopped, Dst: PlaybackPlaying},
}
