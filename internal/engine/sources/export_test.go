package sources

// Hooks for the sources_test package.

var NewTestYouTube = newTestYouTube

const (
	TestVideoID       = testVideoID
	PlayerWithTracks  = playerWithTracks
	PlayerJapaneseASR = playerJapaneseASR
	TimedtextJA       = timedtextJA
	TimedtextJAtoEN   = timedtextJAtoEN
)

// NewFakeYouTube serves playerBody from /player and timedtext documents
// keyed by lang or lang>tlang.
func NewFakeYouTube(playerBody string, timedtext map[string]string) *fakeYouTube {
	return &fakeYouTube{playerBody: playerBody, timedtext: timedtext}
}

func (f *fakeYouTube) TimedtextHits() []string { return f.timedtextHits() }
