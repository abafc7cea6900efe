package view

import "github.com/nfrund/accountdesk/internal/account"

// FlashData groups the pending notices by level.
type FlashData struct {
	Success []string
	Error   []string
	Info    []string
}

// Empty reports whether there is nothing to show.
func (f FlashData) Empty() bool {
	return len(f.Success) == 0 && len(f.Error) == 0 && len(f.Info) == 0
}

// Flashes retrieves and clears the notices posted since the last call.
func (s *Screen) Flashes() []account.Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	flashes := s.flashes
	s.flashes = nil
	return flashes
}

// GetFlashData retrieves and clears pending notices, grouped by level.
func (s *Screen) GetFlashData() FlashData {
	var data FlashData
	for _, n := range s.Flashes() {
		switch n.Level {
		case account.LevelSuccess:
			data.Success = append(data.Success, n.Text)
		case account.LevelError:
			data.Error = append(data.Error, n.Text)
		default:
			data.Info = append(data.Info, n.Text)
		}
	}
	return data
}
