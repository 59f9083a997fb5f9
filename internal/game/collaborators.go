package game

//go:generate go tool mockgen -destination=./mocks/collaborators_mock.go -package=mocks . Renderer,AudioSink,Notifier

// Renderer draws frames. It is the one collaborator a battle cannot run without.
type Renderer interface {
	Draw(frame Frame)
}

// AudioSink plays cue requests.
type AudioSink interface {
	Play(cue Cue)
}

// Notifier displays the battle result.
type Notifier interface {
	ShowResult(result Result)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(Frame)

func (f RendererFunc) Draw(frame Frame) { f(frame) }

// AudioFunc adapts a function to AudioSink.
type AudioFunc func(Cue)

func (f AudioFunc) Play(cue Cue) { f(cue) }

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Result)

func (f NotifierFunc) ShowResult(result Result) { f(result) }
