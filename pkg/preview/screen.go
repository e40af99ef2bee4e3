package preview

import "github.com/gdamore/tcell/v2"

// Screen wraps a tcell.Screen for the preview command.
type Screen struct {
	screen tcell.Screen
}

// NewScreen creates and initializes a terminal screen.
func NewScreen() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return wrapScreen(s)
}

func wrapScreen(s tcell.Screen) (*Screen, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}
	s.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	s.Clear()
	return &Screen{screen: s}, nil
}

// Canvas returns the drawable screen.
func (s *Screen) Canvas() Canvas {
	return s.screen
}

// Show pushes pending changes to the terminal.
func (s *Screen) Show() {
	s.screen.Show()
}

// Close restores the terminal.
func (s *Screen) Close() {
	s.screen.Fini()
}

// WaitKey blocks until a key is pressed. onResize runs after every resize
// so the caller can redraw.
func (s *Screen) WaitKey(onResize func()) {
	for {
		switch s.screen.PollEvent().(type) {
		case *tcell.EventKey:
			return
		case *tcell.EventResize:
			s.screen.Sync()
			if onResize != nil {
				onResize()
			}
		case nil:
			return
		}
	}
}
