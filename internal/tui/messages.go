package tui

// logoutDoneMsg reports the server side of a logout. The local session is already gone.
type logoutDoneMsg struct {
	err error
}
