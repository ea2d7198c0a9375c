// Package stats derives batting, bowling and partnership figures from the
// ball stream.
//
// A Card is never a source of truth. Update folds one recorded ball into a
// card; Rebuild replays an innings from an empty card. The two must agree,
// which is what engine.Verify checks.
package stats

import (
	"math"

	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/cricket"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/rules"
)

// Dismissal records how a batter got out.
type Dismissal struct {
	Kind    cricket.DismissalKind `json:"kind"`
	Bowler  cricket.PlayerID      `json:"bowler,omitempty"`
	Fielder cricket.PlayerID      `json:"fielder,omitempty"`
}

// Batting is one batter's innings.
type Batting struct {
	Player     cricket.PlayerID `json:"player"`
	Runs       int              `json:"runs"`
	Balls      int              `json:"balls"`
	Fours      int              `json:"fours"`
	Sixes      int              `json:"sixes"`
	StrikeRate float64          `json:"strike_rate"`
	Out        bool             `json:"out"`
	Dismissal  *Dismissal       `json:"dismissal,omitempty"`
}

// Bowling is one bowler's figures.
type Bowling struct {
	Player     cricket.PlayerID `json:"player"`
	LegalBalls int              `json:"legal_balls"`
	Overs      string           `json:"overs"`
	Runs       int              `json:"runs"`
	Wickets    int              `json:"wickets"`
	Maidens    int              `json:"maidens"`
	Wides      int              `json:"wides"`
	NoBalls    int              `json:"no_balls"`
	Economy    float64          `json:"economy"`
}

// Partnership is the stand between two batters since the last wicket.
type Partnership struct {
	Wicket  int              `json:"wicket"`
	Batter1 cricket.PlayerID `json:"batter1"`
	Batter2 cricket.PlayerID `json:"batter2"`
	Runs    int              `json:"runs"`
	Balls   int              `json:"balls"`
	Active  bool             `json:"active"`
}

// FallOfWicket is the team score when a wicket fell.
type FallOfWicket struct {
	Wicket int              `json:"wicket"`
	Player cricket.PlayerID `json:"player"`
	Runs   int              `json:"runs"`
	Overs  string           `json:"overs"`
}

// Card is the scorecard for one innings.
//
// Runs counts only what the ball stream yields; penalty runs awarded to an
// innings from outside its own deliveries are tracked on cricket.Innings.
type Card struct {
	Innings       int            `json:"innings"`
	Runs          int            `json:"runs"`
	Wickets       int            `json:"wickets"`
	LegalBalls    int            `json:"legal_balls"`
	Batting       []*Batting     `json:"batting"`
	Bowling       []*Bowling     `json:"bowling"`
	Partnerships  []*Partnership `json:"partnerships"`
	FallOfWickets []FallOfWicket `json:"fall_of_wickets"`

	// overConceded is what the current over's bowler has conceded so far.
	overConceded int
}

// NewCard returns an empty card for the given innings number.
func NewCard(innings int) *Card {
	return &Card{
		Innings:       innings,
		Batting:       []*Batting{},
		Bowling:       []*Bowling{},
		Partnerships:  []*Partnership{},
		FallOfWickets: []FallOfWicket{},
	}
}

// Update folds one recorded ball into the card.
func Update(c *Card, b cricket.Ball, p *rules.Policy) {
	striker := c.batter(b.Striker)
	c.batter(b.NonStriker)
	bowler := c.bowler(b.Bowler)

	c.Runs += b.TotalRuns()
	if b.Legal() {
		c.LegalBalls++
	}

	striker.Runs += b.BatRuns
	if b.FacedByBatter() {
		striker.Balls++
	}
	switch b.BatRuns {
	case 4:
		striker.Fours++
	case 6:
		striker.Sixes++
	}
	striker.StrikeRate = StrikeRate(striker.Runs, striker.Balls)

	bowler.Runs += b.Conceded()
	if b.Extras.Wides > 0 {
		bowler.Wides++
	}
	if b.Extras.NoBalls > 0 {
		bowler.NoBalls++
	}
	if b.Legal() {
		bowler.LegalBalls++
	}
	c.overConceded += b.Conceded()

	part := c.partnership(b.Striker, b.NonStriker)
	part.Runs += b.TotalRuns()
	if b.Legal() {
		part.Balls++
	}

	if w := b.Wicket; w != nil {
		c.Wickets++
		out := c.batter(w.PlayerOut)
		out.Out = true
		out.Dismissal = &Dismissal{Kind: w.Kind, Fielder: w.Fielder}
		if p.BowlerCredited(w.Kind) {
			out.Dismissal.Bowler = b.Bowler
			bowler.Wickets++
		}
		part.Active = false
		c.FallOfWickets = append(c.FallOfWickets, FallOfWicket{
			Wicket: c.Wickets,
			Player: w.PlayerOut,
			Runs:   c.Runs,
			Overs:  cricket.FormatOvers(c.LegalBalls),
		})
	}

	if b.EndsOver {
		if c.overConceded == 0 {
			bowler.Maidens++
		}
		c.overConceded = 0
	}

	bowler.Overs = cricket.FormatOvers(bowler.LegalBalls)
	bowler.Economy = Economy(bowler.Runs, bowler.LegalBalls)
}

// Rebuild derives a card by replaying every ball of the innings.
func Rebuild(inn *cricket.Innings, p *rules.Policy) *Card {
	c := NewCard(inn.Number)
	for _, b := range inn.Balls() {
		Update(c, b, p)
	}
	return c
}

// Batter returns the batting entry for id, or nil.
func (c *Card) Batter(id cricket.PlayerID) *Batting {
	for _, b := range c.Batting {
		if b.Player == id {
			return b
		}
	}
	return nil
}

// Bowler returns the bowling entry for id, or nil.
func (c *Card) Bowler(id cricket.PlayerID) *Bowling {
	for _, b := range c.Bowling {
		if b.Player == id {
			return b
		}
	}
	return nil
}

// CurrentPartnership returns the active partnership, or nil after a wicket.
func (c *Card) CurrentPartnership() *Partnership {
	if len(c.Partnerships) == 0 {
		return nil
	}
	last := c.Partnerships[len(c.Partnerships)-1]
	if !last.Active {
		return nil
	}
	return last
}

func (c *Card) batter(id cricket.PlayerID) *Batting {
	if b := c.Batter(id); b != nil {
		return b
	}
	b := &Batting{Player: id}
	c.Batting = append(c.Batting, b)
	return b
}

func (c *Card) bowler(id cricket.PlayerID) *Bowling {
	if b := c.Bowler(id); b != nil {
		return b
	}
	b := &Bowling{Player: id, Overs: cricket.FormatOvers(0)}
	c.Bowling = append(c.Bowling, b)
	return b
}

// partnership returns the active stand for the pair, opening a new one
// when the pair changed.
func (c *Card) partnership(a, b cricket.PlayerID) *Partnership {
	if cur := c.CurrentPartnership(); cur != nil {
		if (cur.Batter1 == a && cur.Batter2 == b) || (cur.Batter1 == b && cur.Batter2 == a) {
			return cur
		}
		cur.Active = false
	}
	p := &Partnership{
		Wicket:  c.Wickets + 1,
		Batter1: a,
		Batter2: b,
		Active:  true,
	}
	c.Partnerships = append(c.Partnerships, p)
	return p
}

// StrikeRate is runs per hundred balls, rounded to two places.
func StrikeRate(runs, balls int) float64 {
	if balls == 0 {
		return 0
	}
	return round2(float64(runs) * 100 / float64(balls))
}

// Economy is runs conceded per six-ball over, rounded to two places.
func Economy(runs, legalBalls int) float64 {
	if legalBalls == 0 {
		return 0
	}
	return round2(float64(runs) / (float64(legalBalls) / cricket.BallsPerOver))
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
