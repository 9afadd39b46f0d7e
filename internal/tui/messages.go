package tui

// pageLoadedMsg is sent once a load has been merged into the controller.
type pageLoadedMsg struct{}

type openErrMsg struct {
	err error
}
