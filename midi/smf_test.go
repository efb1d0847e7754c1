package midi

import (
	"bytes"
	"math/big"
	"testing"

	"gitlab.com/gomidi/midi/v2/smf"
)

func rat(num, den int64) *big.Rat {
	return big.NewRat(num, den)
}

func TestWriteSMF(t *testing.T) {
	c := &Collector{}
	c.Append(Event{Track: 0, Onset: rat(0, 1), Dur: rat(1, 1), Pitch: PitchC5, Velocity: 100})
	c.Append(Event{Track: 0, Onset: rat(1, 1), Dur: rat(1, 2), Pitch: PitchD4, Velocity: 100})
	c.Append(Event{Track: 1, Onset: rat(0, 1), Dur: rat(2, 1), Pitch: PitchA4, Velocity: 90})

	var buf bytes.Buffer
	if err := c.WriteSMF(&buf, DefaultTiming()); err != nil {
		t.Fatal(err)
	}
	file, err := smf.ReadFrom(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	/* conductor track plus one per staff */
	if n := len(file.Tracks); n != 3 {
		t.Errorf("got %d tracks, want 3", n)
	}
}

func TestRatTicks(t *testing.T) {
	clock := smf.MetricTicks(960)
	tests := []struct {
		beats *big.Rat
		want uint32
	}{
		{rat(0, 1), 0},
		{rat(1, 1), 960},
		{rat(1, 2), 480},
		{rat(1, 3), 320},
		{rat(7, 2), 3360},
	}
	for _, test := range tests {
		if got := ratTicks(test.beats, clock); got != test.want {
			t.Errorf("ratTicks(%v): got %d, want %d", test.beats, got, test.want)
		}
	}
}

func TestTickAdjacency(t *testing.T) {
	/* back-to-back notes: the off edge of the first and the on edge of
	 * the second land on the same tick without overlap */
	c := &Collector{}
	c.Append(Event{Track: 0, Onset: rat(0, 1), Dur: rat(1, 1), Pitch: PitchC5, Velocity: 100})
	c.Append(Event{Track: 0, Onset: rat(1, 1), Dur: rat(1, 1), Pitch: PitchC5, Velocity: 100})
	on1, off1 := c.ticks(c.Events[0], smf.MetricTicks(960))
	on2, _ := c.ticks(c.Events[1], smf.MetricTicks(960))
	if off1 != on2 {
		t.Errorf("adjacent notes: off %d != on %d", off1, on2)
	}
	if on1 != 0 {
		t.Errorf("first onset tick %d, want 0", on1)
	}
}
