package logging

import (
	"os"
	"sync"
	"testing"
)

func TestEnabled_RespectsWirepigDebug(t *testing.T) {
	t.Setenv("WIREPIG_DEBUG", "matcher")
	debugOnce = sync.Once{}
	debugChannels = nil

	if Enabled(ChannelMatcher) == false {
		t.Errorf("expected matcher channel to be enabled")
	}
	if Enabled(ChannelServer) == true {
		t.Errorf("expected server channel to stay disabled")
	}
}

func TestEnabled_Wildcard(t *testing.T) {
	t.Setenv("WIREPIG_DEBUG", "*")
	debugOnce = sync.Once{}
	debugChannels = nil

	if !Enabled(ChannelServer) || !Enabled(ChannelMatcher) {
		t.Errorf("expected both channels enabled under wildcard")
	}
}

func TestEnabled_Unset(t *testing.T) {
	os.Unsetenv("WIREPIG_DEBUG")
	debugOnce = sync.Once{}
	debugChannels = nil

	if Enabled(ChannelServer) || Enabled(ChannelMatcher) {
		t.Errorf("expected no channels enabled when unset")
	}
}
