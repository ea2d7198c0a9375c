package cricket

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleMatch() *Match {
	setup := MatchSetup{
		ID: "m1",
		Teams: [2]Team{
			{ID: "A", Players: []Player{{ID: "A1"}, {ID: "A2"}}},
			{ID: "B", Players: []Player{{ID: "B1"}, {ID: "B2"}}},
		},
		OversLimit: 5,
		Toss:       Toss{Winner: "A", Decision: TossBat},
	}
	return NewMatch(setup)
}

func TestStateDigest_Deterministic(t *testing.T) {
	a := MustStateDigest(sampleMatch())
	b := MustStateDigest(sampleMatch())
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestStateDigest_ChangesWithState(t *testing.T) {
	m := sampleMatch()
	before := MustStateDigest(m)
	m.Phase = PhaseAbandoned
	assert.NotEqual(t, before, MustStateDigest(m))
}

func TestStateDigest_CloneMatches(t *testing.T) {
	m := sampleMatch()
	m.Innings = append(m.Innings, &Innings{
		Number:    1,
		Batting:   "A",
		Bowling:   "B",
		Overs:     []*Over{{Bowler: "B1", Balls: []Ball{{Bowler: "B1", Wicket: &Wicket{Kind: DismissalBowled, PlayerOut: "A1"}}}}},
		Dismissed: []PlayerID{"A1"},
	})
	cp := m.Clone()
	assert.Equal(t, MustStateDigest(m), MustStateDigest(cp))

	cp.Innings[0].Overs[0].Balls[0].Wicket.PlayerOut = "A2"
	assert.Equal(t, PlayerID("A1"), m.Innings[0].Overs[0].Balls[0].Wicket.PlayerOut, "clone must be deep")
}

func TestHashWithDomain_Separated(t *testing.T) {
	data := []byte(`{"bowler":"B1"}`)
	assert.NotEqual(t, hashWithDomain(DomainState, data), hashWithDomain(DomainEvent, data))
	assert.Equal(t, hashWithDomain(DomainState, data), hashWithDomain(DomainState, data))
}

func TestEventID(t *testing.T) {
	payload := []byte(`{"kind":"start","seq":1}`)
	id := EventID("m1", 1, payload)
	assert.Len(t, id, 64)
	assert.Equal(t, id, EventID("m1", 1, payload))
	assert.NotEqual(t, id, EventID("m2", 1, payload))
	assert.NotEqual(t, id, EventID("m1", 2, payload))
	assert.NotEqual(t, id, EventID("m1", 1, []byte(`{"kind":"abandon","seq":1}`)))
}
